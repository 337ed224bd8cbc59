package scanner

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sadopc/godupes/internal/model"
)

// ScanOptions configures the walker behavior.
type ScanOptions struct {
	// ShowHidden includes hidden files/directories (starting with .)
	ShowHidden bool
	// ExcludePatterns is a list of base-name glob patterns to skip
	ExcludePatterns []string
	// Progress, if set, is called periodically during the walk
	Progress func(Progress)
	// ProgressEvery is the number of entries between Progress calls (0 = default)
	ProgressEvery int
	// Log receives warnings about broken and unmatched symlinks
	Log logrus.FieldLogger
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() ScanOptions {
	return ScanOptions{
		ShowHidden:      true,
		ExcludePatterns: []string{},
		ProgressEvery:   256,
	}
}

// Stats counts what the walker saw.
type Stats struct {
	Files             int // regular files recorded
	Dirs              int // directories listed
	Symlinks          int // symbolic links encountered
	BrokenSymlinks    int
	UnreadableDirs    int
	UnmatchedSymlinks int
	Special           int // devices, sockets, FIFOs
	Excluded          int // hidden or matching an exclude pattern
}

// Result is the outcome of a walk.
type Result struct {
	Files     []*model.Record
	Stats     Stats
	Unmatched []model.Symlink
}

// MetadataError reports a file whose metadata could not be read. It aborts
// the walk.
type MetadataError struct {
	Path string
	Err  error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("cannot read metadata of %q: %v", e.Path, e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }
