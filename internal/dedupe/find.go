// Package dedupe finds groups of byte-identical files. The search runs in
// strictly sequential stages: scope normalization, walking, dropping empty
// files, collapsing hard links, bucketing by size and comparing content.
package dedupe

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sadopc/godupes/internal/fsys"
	"github.com/sadopc/godupes/internal/logging"
	"github.com/sadopc/godupes/internal/model"
	"github.com/sadopc/godupes/internal/scanner"
	"github.com/sadopc/godupes/internal/scope"
)

// Options configures a full duplicate search. Start from DefaultOptions:
// the zero value excludes hidden entries. An empty Hash means DefaultHash.
type Options struct {
	Hash        HashAlgo
	StrictReads bool
	// ShowHidden includes files and directories whose name starts with a
	// dot. DefaultOptions sets it.
	ShowHidden      bool
	ExcludePatterns []string
	Log             logrus.FieldLogger
	// Progress, if set, receives updates from the walk and the comparison.
	Progress func(scanner.Progress)
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Hash:       DefaultHash,
		ShowHidden: true,
	}
}

// Stats aggregates the counters of every stage.
type Stats struct {
	Walk            scanner.Stats
	EmptyFiles      int
	HardLinksMerged int
	UniqueSize      int
	Verify          VerifyStats
	Groups          int
	DuplicateFiles  int // records belonging to a duplicate group
	WastedBytes     int64
	Duration        time.Duration
}

// Report is the result of a duplicate search.
type Report struct {
	Hash    HashAlgo
	Roots   []string
	Skipped []scope.Nested
	Groups  []model.Group
	Stats   Stats
}

// Find runs every stage over roots and returns the duplicate groups. Errors
// from the stages are returned unchanged so callers can match them with
// errors.As.
func Find(ctx context.Context, p fsys.Provider, roots []string, opts Options) (*Report, error) {
	log := logging.OrDiscard(opts.Log)
	start := time.Now()
	progress := func(pr scanner.Progress) {
		if opts.Progress != nil {
			pr.StartTime = start
			pr.Duration = time.Since(start)
			opts.Progress(pr)
		}
	}

	log.Infof("Now scanning %q ...", roots)
	progress(scanner.Progress{Stage: scanner.StageResolve})
	scoped, err := scope.Normalize(p, roots, log)
	if err != nil {
		return nil, err
	}
	log.Debugf("Scan roots: %q", scoped.Roots)

	walkOpts := scanner.DefaultOptions()
	walkOpts.ShowHidden = opts.ShowHidden
	walkOpts.ExcludePatterns = opts.ExcludePatterns
	walkOpts.Log = log
	walkOpts.Progress = progress
	walked, err := scanner.Walk(ctx, p, scoped.Roots, walkOpts)
	if err != nil {
		return nil, err
	}

	algo := opts.Hash
	if algo == "" {
		algo = DefaultHash
	}
	report := &Report{Hash: algo, Roots: scoped.Roots, Skipped: scoped.Skipped}
	stats := &report.Stats
	stats.Walk = walked.Stats
	log.Infof("Found %d files", len(walked.Files))
	if walked.Stats.UnreadableDirs > 0 {
		log.Infof("Skipped %d unreadable directories", walked.Stats.UnreadableDirs)
	}

	files, empty := DropEmpty(walked.Files)
	stats.EmptyFiles = empty
	log.Infof("Skipped %d files with zero size", empty)

	files, merged := CollapseHardLinks(files)
	stats.HardLinksMerged = merged
	log.Debugf("Merged %d hard links", merged)

	buckets, unique := BucketBySize(files)
	stats.UniqueSize = unique
	log.Infof("Skipped %d files with unique size", unique)

	var toHash, bytesToHash int64
	for _, b := range buckets {
		for range b.Files {
			toHash++
			bytesToHash = model.SaturatingAdd(bytesToHash, b.Size)
		}
	}
	var hashed, bytesHashed int64
	groups, vstats, err := VerifyContent(ctx, p, buckets, VerifyOptions{
		Hash:        algo,
		StrictReads: opts.StrictReads,
		Log:         log,
		OnHashed: func(path string, size int64) {
			hashed++
			bytesHashed = model.SaturatingAdd(bytesHashed, size)
			progress(scanner.Progress{
				Stage:        scanner.StageHash,
				CurrentPath:  path,
				FilesScanned: int64(walked.Stats.Files),
				DirsScanned:  int64(walked.Stats.Dirs),
				FilesHashed:  hashed,
				FilesToHash:  toHash,
				BytesHashed:  bytesHashed,
				BytesToHash:  bytesToHash,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	stats.Verify = vstats
	log.Infof("Skipped %d files with unique digest", vstats.UniqueDigest)
	if vstats.ReadErrors > 0 {
		log.Warnf("Skipped %d unreadable files", vstats.ReadErrors)
	}

	report.Groups = groups
	stats.Groups = len(groups)
	for _, g := range groups {
		stats.DuplicateFiles += len(g.Files)
		stats.WastedBytes = model.SaturatingAdd(stats.WastedBytes, g.Wasted())
	}
	stats.Duration = time.Since(start)
	for _, g := range groups {
		log.Debugf("Duplicate group %s (%d bytes): %q", g.Digest, g.Size, g.Paths())
	}

	progress(scanner.Progress{
		Stage:        scanner.StageDone,
		FilesScanned: int64(walked.Stats.Files),
		DirsScanned:  int64(walked.Stats.Dirs),
		FilesHashed:  hashed,
		FilesToHash:  toHash,
		BytesHashed:  bytesHashed,
		BytesToHash:  bytesToHash,
		Done:         true,
	})
	return report, nil
}
