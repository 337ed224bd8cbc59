// Package scanner walks scan roots and records every regular file found,
// attaching symbolic links to the files they resolve to.
package scanner

import (
	"context"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/godupes/internal/fsys"
	"github.com/sadopc/godupes/internal/logging"
	"github.com/sadopc/godupes/internal/model"
)

type entry struct {
	path string
	name string
	root bool
}

// Walk traverses roots depth-first using an explicit work list. Roots must be
// canonical and must not overlap. Directories reached through symbolic links
// are never entered; such links are resolved and kept only if they point at a
// regular file found by the walk.
func Walk(ctx context.Context, p fsys.Provider, roots []string, opts ScanOptions) (*Result, error) {
	log := logging.OrDiscard(opts.Log)
	every := opts.ProgressEvery
	if every <= 0 {
		every = DefaultOptions().ProgressEvery
	}

	res := &Result{}
	var pending []model.Symlink
	var bytesFound int64
	startTime := time.Now()

	report := func(current string) {
		if opts.Progress == nil {
			return
		}
		opts.Progress(Progress{
			Stage:        StageWalk,
			CurrentPath:  current,
			FilesScanned: int64(res.Stats.Files),
			DirsScanned:  int64(res.Stats.Dirs),
			BytesFound:   bytesFound,
			Errors:       int64(res.Stats.UnreadableDirs + res.Stats.BrokenSymlinks),
			StartTime:    startTime,
			Duration:     time.Since(startTime),
		})
	}

	// Push roots in reverse so the first root is visited first.
	stack := make([]entry, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, entry{path: roots[i], root: true})
	}

	visited := 0
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		visited++
		if visited%every == 0 {
			report(e.path)
		}

		if !e.root && skipName(e.name, opts) {
			res.Stats.Excluded++
			continue
		}

		switch {
		case p.IsSymlink(e.path):
			res.Stats.Symlinks++
			target, err := p.Canonicalize(e.path)
			if err != nil {
				raw, _ := p.ReadLink(e.path)
				log.Warnf("Failed to canonicalize symlink: %s -> %s: %v", e.path, raw, err)
				res.Stats.BrokenSymlinks++
				continue
			}
			pending = append(pending, model.Symlink{Path: e.path, Target: target})

		case p.IsDir(e.path):
			names, err := p.ReadDir(e.path)
			if err != nil {
				log.WithError(err).Debugf("Skipping unreadable directory %s", e.path)
				res.Stats.UnreadableDirs++
				continue
			}
			res.Stats.Dirs++
			for _, name := range names {
				stack = append(stack, entry{path: p.Join(e.path, name), name: name})
			}

		default:
			md, err := p.Metadata(e.path)
			if err != nil {
				return nil, &MetadataError{Path: e.path, Err: err}
			}
			if md.IsSpecial() {
				log.Debugf("Ignoring special file %s (%v)", e.path, md.Mode)
				res.Stats.Special++
				continue
			}
			res.Stats.Files++
			bytesFound = model.SaturatingAdd(bytesFound, md.Size)
			res.Files = append(res.Files, &model.Record{
				Path:        e.path,
				Size:        md.Size,
				Identity:    md.Identity,
				HasIdentity: md.HasIdentity,
			})
		}
	}

	res.Unmatched = attachSymlinks(res.Files, pending)
	res.Stats.UnmatchedSymlinks = len(res.Unmatched)
	if n := len(res.Unmatched); n > 0 {
		log.Warnf("Skipped %d symbolic links not pointing to files in scope", n)
		for _, s := range res.Unmatched {
			log.Debugf("Unmatched symlink %s -> %s", s.Path, s.Target)
		}
	}

	report("")
	return res, nil
}

// attachSymlinks appends each link to the record whose primary path is its
// target and returns the links that matched nothing.
func attachSymlinks(files []*model.Record, links []model.Symlink) []model.Symlink {
	byPath := make(map[string]*model.Record, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}

	var unmatched []model.Symlink
	touched := make(map[*model.Record]bool)
	for _, s := range links {
		rec, ok := byPath[s.Target]
		if !ok {
			unmatched = append(unmatched, s)
			continue
		}
		rec.Symlinks = append(rec.Symlinks, s.Path)
		touched[rec] = true
	}
	for rec := range touched {
		sort.Strings(rec.Symlinks)
	}
	return unmatched
}

func skipName(name string, opts ScanOptions) bool {
	if !opts.ShowHidden && strings.HasPrefix(name, ".") {
		return true
	}
	for _, pattern := range opts.ExcludePatterns {
		if pattern == name {
			return true
		}
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
