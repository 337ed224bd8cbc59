// Package scope turns the user's root paths into a set of canonical,
// non-overlapping scan roots.
package scope

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/sadopc/godupes/internal/fsys"
	"github.com/sadopc/godupes/internal/logging"
)

// ErrNoRoots is returned when Normalize is called without any path.
var ErrNoRoots = errors.New("no paths to scan")

// PathResolutionError reports a root that could not be canonicalized.
type PathResolutionError struct {
	Path string
	Err  error
}

func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %q: %v", e.Path, e.Err)
}

func (e *PathResolutionError) Unwrap() error { return e.Err }

// Nested records a root that was dropped because an accepted root covers it.
type Nested struct {
	Path  string
	Under string
}

// Result is the outcome of Normalize.
type Result struct {
	Roots   []string // in acceptance order, shortest first
	Skipped []Nested
}

// Normalize canonicalizes every root and keeps only those not contained in
// (or equal to) a shorter accepted root.
func Normalize(p fsys.Provider, roots []string, log logrus.FieldLogger) (Result, error) {
	log = logging.OrDiscard(log)
	if len(roots) == 0 {
		return Result{}, ErrNoRoots
	}

	resolved := make([]string, 0, len(roots))
	for _, root := range roots {
		canonical, err := p.Canonicalize(root)
		if err != nil {
			return Result{}, &PathResolutionError{Path: root, Err: err}
		}
		resolved = append(resolved, canonical)
	}

	// An ancestor is never longer than its descendant.
	sort.SliceStable(resolved, func(i, j int) bool {
		return len(resolved[i]) < len(resolved[j])
	})

	var res Result
	for _, candidate := range resolved {
		if under, ok := coveredBy(p, res.Roots, candidate); ok {
			log.Warnf("Skip path %q: starts with %q", candidate, under)
			res.Skipped = append(res.Skipped, Nested{Path: candidate, Under: under})
			continue
		}
		res.Roots = append(res.Roots, candidate)
	}
	return res, nil
}

func coveredBy(p fsys.Provider, accepted []string, candidate string) (string, bool) {
	for _, root := range accepted {
		if p.Within(root, candidate) {
			return root, true
		}
	}
	return "", false
}
