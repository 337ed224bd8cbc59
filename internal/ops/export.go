package ops

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sadopc/godupes/internal/dedupe"
)

// Report JSON format:
// {"progname":"godupes","progver":"1.0","timestamp":1234567890,"hash":"sha256",
//  "roots":["/data"],"skipped":[{"path":"/data/sub","under":"/data"}],
//  "stats":{...},
//  "groups":[
//   {"size":5,"digest":"2cf2...","files":[
//     {"path":"/data/a.txt","hard_links":["/data/link.txt"],"symlinks":["/data/sym"]},
//     {"path":"/data/b.txt"}]}
//  ]}

const progname = "godupes"

type reportDoc struct {
	Progname  string       `json:"progname"`
	Progver   string       `json:"progver"`
	Timestamp int64        `json:"timestamp"`
	Hash      string       `json:"hash,omitempty"`
	Roots     []string     `json:"roots"`
	Skipped   []nestedDoc  `json:"skipped,omitempty"`
	Stats     statsDoc     `json:"stats"`
	Groups    []groupEntry `json:"groups"`
}

type nestedDoc struct {
	Path  string `json:"path"`
	Under string `json:"under"`
}

type statsDoc struct {
	Files             int   `json:"files"`
	Dirs              int   `json:"dirs"`
	Symlinks          int   `json:"symlinks"`
	BrokenSymlinks    int   `json:"broken_symlinks"`
	UnreadableDirs    int   `json:"unreadable_dirs"`
	UnmatchedSymlinks int   `json:"unmatched_symlinks"`
	Special           int   `json:"special"`
	Excluded          int   `json:"excluded"`
	EmptyFiles        int   `json:"empty_files"`
	HardLinksMerged   int   `json:"hard_links_merged"`
	UniqueSize        int   `json:"unique_size"`
	Hashed            int   `json:"hashed"`
	BytesHashed       int64 `json:"bytes_hashed"`
	UniqueDigest      int   `json:"unique_digest"`
	ReadErrors        int   `json:"read_errors"`
	Groups            int   `json:"groups"`
	DuplicateFiles    int   `json:"duplicate_files"`
	WastedBytes       int64 `json:"wasted_bytes"`
	DurationMillis    int64 `json:"duration_ms"`
}

type groupEntry struct {
	Size   int64       `json:"size"`
	Digest string      `json:"digest"`
	Files  []fileEntry `json:"files"`
}

type fileEntry struct {
	Path      string   `json:"path"`
	HardLinks []string `json:"hard_links,omitempty"`
	Symlinks  []string `json:"symlinks,omitempty"`
}

// WriteJSON writes the report as a JSON document to w.
func WriteJSON(w io.Writer, report *dedupe.Report, version string) error {
	return exportToWriter(report, w, version)
}

// ExportJSON writes the report as JSON. path "-" means os.Stdout.
// For file targets, writes to a temp file first and atomically renames on
// success, so a partial file is never left behind on error.
func ExportJSON(report *dedupe.Report, path string, version string) (retErr error) {
	if path == "-" {
		return WriteJSON(os.Stdout, report, version)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".godupes-export-*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create export file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if retErr != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := exportToWriter(report, tmp, version); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		// On Windows, Rename cannot replace an existing destination.
		if runtime.GOOS != "windows" {
			return err
		}
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return fmt.Errorf("cannot replace export file %s: %w", path, err)
		}
		if err := os.Rename(tmpPath, path); err != nil {
			return err
		}
	}
	return nil
}

func exportToWriter(report *dedupe.Report, out io.Writer, version string) error {
	if version == "" {
		version = "dev"
	}
	bw := bufio.NewWriterSize(out, 64*1024)
	enc := json.NewEncoder(bw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDoc(report, version, time.Now())); err != nil {
		return err
	}
	return bw.Flush()
}

func toDoc(report *dedupe.Report, version string, now time.Time) reportDoc {
	s := report.Stats
	doc := reportDoc{
		Progname:  progname,
		Progver:   version,
		Timestamp: now.Unix(),
		Hash:      string(report.Hash),
		Roots:     report.Roots,
		Stats: statsDoc{
			Files:             s.Walk.Files,
			Dirs:              s.Walk.Dirs,
			Symlinks:          s.Walk.Symlinks,
			BrokenSymlinks:    s.Walk.BrokenSymlinks,
			UnreadableDirs:    s.Walk.UnreadableDirs,
			UnmatchedSymlinks: s.Walk.UnmatchedSymlinks,
			Special:           s.Walk.Special,
			Excluded:          s.Walk.Excluded,
			EmptyFiles:        s.EmptyFiles,
			HardLinksMerged:   s.HardLinksMerged,
			UniqueSize:        s.UniqueSize,
			Hashed:            s.Verify.Hashed,
			BytesHashed:       s.Verify.BytesHashed,
			UniqueDigest:      s.Verify.UniqueDigest,
			ReadErrors:        s.Verify.ReadErrors,
			Groups:            s.Groups,
			DuplicateFiles:    s.DuplicateFiles,
			WastedBytes:       s.WastedBytes,
			DurationMillis:    s.Duration.Milliseconds(),
		},
		Groups: make([]groupEntry, 0, len(report.Groups)),
	}
	if doc.Roots == nil {
		doc.Roots = []string{}
	}
	for _, n := range report.Skipped {
		doc.Skipped = append(doc.Skipped, nestedDoc{Path: n.Path, Under: n.Under})
	}
	for _, g := range report.Groups {
		entry := groupEntry{Size: g.Size, Digest: g.Digest, Files: make([]fileEntry, 0, len(g.Files))}
		for _, f := range g.Files {
			entry.Files = append(entry.Files, fileEntry{
				Path:      f.Path,
				HardLinks: f.HardLinks,
				Symlinks:  f.Symlinks,
			})
		}
		doc.Groups = append(doc.Groups, entry)
	}
	return doc
}
