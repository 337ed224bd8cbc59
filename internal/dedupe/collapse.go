package dedupe

import (
	"sort"

	"github.com/sadopc/godupes/internal/model"
)

// DropEmpty removes zero-byte files. Empty files are trivially identical and
// never reported.
func DropEmpty(records []*model.Record) (kept []*model.Record, skipped int) {
	kept = make([]*model.Record, 0, len(records))
	for _, r := range records {
		if r.Size == 0 {
			skipped++
			continue
		}
		kept = append(kept, r)
	}
	return kept, skipped
}

// CollapseHardLinks merges records that share a device and inode into one
// record. The member with the lexicographically smallest path becomes the
// primary; every other path is listed in its HardLinks. Output keeps the
// order in which each identity was first seen. Calling it again on its own
// output changes nothing.
func CollapseHardLinks(records []*model.Record) (out []*model.Record, merged int) {
	var order []any
	members := make(map[any][]*model.Record, len(records))
	for _, r := range records {
		k := r.Key()
		if _, seen := members[k]; !seen {
			order = append(order, k)
		}
		members[k] = append(members[k], r)
	}

	out = make([]*model.Record, 0, len(order))
	for _, k := range order {
		group := members[k]
		if len(group) == 1 {
			out = append(out, group[0])
			continue
		}
		out = append(out, mergeLinks(group))
		merged += len(group) - 1
	}
	return out, merged
}

func mergeLinks(group []*model.Record) *model.Record {
	primary := group[0]
	for _, r := range group[1:] {
		if r.Path < primary.Path {
			primary = r
		}
	}

	links := append([]string(nil), primary.HardLinks...)
	symlinks := append([]string(nil), primary.Symlinks...)
	for _, r := range group {
		if r == primary {
			continue
		}
		links = append(links, r.Path)
		links = append(links, r.HardLinks...)
		symlinks = append(symlinks, r.Symlinks...)
	}
	sort.Strings(links)
	sort.Strings(symlinks)

	primary.HardLinks = links
	primary.Symlinks = symlinks
	return primary
}
