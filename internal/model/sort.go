package model

import (
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// SortField defines what to sort by.
type SortField int

const (
	SortByWasted SortField = iota
	SortBySize
	SortByCount
	SortByPath
)

// SortOrder defines ascending or descending.
type SortOrder int

const (
	SortDesc SortOrder = iota
	SortAsc
)

// SortConfig holds sort preferences.
type SortConfig struct {
	Field SortField
	Order SortOrder
}

// DefaultSort returns the default sort config (wasted bytes, descending).
func DefaultSort() SortConfig {
	return SortConfig{
		Field: SortByWasted,
		Order: SortDesc,
	}
}

// String returns a short label for status lines.
func (f SortField) String() string {
	switch f {
	case SortByWasted:
		return "Wasted"
	case SortBySize:
		return "Size"
	case SortByCount:
		return "Count"
	case SortByPath:
		return "Path"
	}
	return "?"
}

// SortGroups sorts duplicate groups in place according to cfg.
// Ties are broken by primary path so the result is stable across runs.
func SortGroups(groups []Group, cfg SortConfig) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]

		// For descending order, swap a and b so the same less-than
		// comparisons produce the reverse result.
		if cfg.Order == SortDesc {
			a, b = b, a
		}

		switch cfg.Field {
		case SortByWasted:
			if a.Wasted() != b.Wasted() {
				return a.Wasted() < b.Wasted()
			}
		case SortBySize:
			if a.Size != b.Size {
				return a.Size < b.Size
			}
		case SortByCount:
			if len(a.Files) != len(b.Files) {
				return len(a.Files) < len(b.Files)
			}
		case SortByPath:
			return pathLess(primaryPath(a), primaryPath(b))
		}

		// Tie-break on path, always ascending.
		return pathLess(primaryPath(groups[i]), primaryPath(groups[j]))
	})
}

// SortPaths sorts paths in natural order, case-insensitively.
func SortPaths(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return pathLess(paths[i], paths[j])
	})
}

func pathLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		return a < b
	}
	return natural.Less(la, lb)
}

func primaryPath(g Group) string {
	if len(g.Files) == 0 {
		return ""
	}
	return g.Files[0].Path
}
