package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/godupes/internal/dedupe"
	"github.com/sadopc/godupes/internal/model"
	"github.com/sadopc/godupes/internal/scope"
)

// ImportJSON reads a report written by ExportJSON. Imported records carry no
// device/inode identity.
func ImportJSON(path string) (*dedupe.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open import file: %w", err)
	}

	var doc reportDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if doc.Progname != progname {
		return nil, fmt.Errorf("invalid report: progname %q, expected %q", doc.Progname, progname)
	}

	report := &dedupe.Report{
		Hash:  dedupe.HashAlgo(doc.Hash),
		Roots: doc.Roots,
		Stats: fromStatsDoc(doc.Stats),
	}
	for _, n := range doc.Skipped {
		report.Skipped = append(report.Skipped, scope.Nested{Path: n.Path, Under: n.Under})
	}
	for i, entry := range doc.Groups {
		g, err := parseGroup(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid group at index %d: %w", i, err)
		}
		report.Groups = append(report.Groups, g)
	}
	return report, nil
}

func parseGroup(entry groupEntry) (model.Group, error) {
	if entry.Size <= 0 {
		return model.Group{}, fmt.Errorf("size must be positive, got %d", entry.Size)
	}
	if entry.Digest == "" {
		return model.Group{}, fmt.Errorf("missing digest")
	}
	if len(entry.Files) < 2 {
		return model.Group{}, fmt.Errorf("expected at least 2 files, got %d", len(entry.Files))
	}

	g := model.Group{Size: entry.Size, Digest: entry.Digest}
	for j, f := range entry.Files {
		if f.Path == "" {
			return model.Group{}, fmt.Errorf("file %d has no path", j)
		}
		g.Files = append(g.Files, &model.Record{
			Path:      f.Path,
			Size:      entry.Size,
			HardLinks: f.HardLinks,
			Symlinks:  f.Symlinks,
		})
	}
	return g, nil
}

func fromStatsDoc(s statsDoc) dedupe.Stats {
	var out dedupe.Stats
	out.Walk.Files = s.Files
	out.Walk.Dirs = s.Dirs
	out.Walk.Symlinks = s.Symlinks
	out.Walk.BrokenSymlinks = s.BrokenSymlinks
	out.Walk.UnreadableDirs = s.UnreadableDirs
	out.Walk.UnmatchedSymlinks = s.UnmatchedSymlinks
	out.Walk.Special = s.Special
	out.Walk.Excluded = s.Excluded
	out.EmptyFiles = s.EmptyFiles
	out.HardLinksMerged = s.HardLinksMerged
	out.UniqueSize = s.UniqueSize
	out.Verify = dedupe.VerifyStats{
		Hashed:       s.Hashed,
		BytesHashed:  s.BytesHashed,
		UniqueDigest: s.UniqueDigest,
		ReadErrors:   s.ReadErrors,
	}
	out.Groups = s.Groups
	out.DuplicateFiles = s.DuplicateFiles
	out.WastedBytes = s.WastedBytes
	out.Duration = time.Duration(s.DurationMillis) * time.Millisecond
	return out
}
