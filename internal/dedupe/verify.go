package dedupe

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/sadopc/godupes/internal/fsys"
	"github.com/sadopc/godupes/internal/logging"
	"github.com/sadopc/godupes/internal/model"
)

// FileReadError reports a file whose content could not be read completely.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("cannot read %q: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// VerifyOptions configures the content comparison.
type VerifyOptions struct {
	Hash HashAlgo
	// StrictReads aborts on the first unreadable file instead of excluding it.
	StrictReads bool
	// OnHashed is called after each file is processed, successfully or not.
	OnHashed func(path string, size int64)
	Log      logrus.FieldLogger
}

// VerifyStats counts the work done by VerifyContent.
type VerifyStats struct {
	Hashed       int
	BytesHashed  int64
	UniqueDigest int // files dropped because no other file shares their digest
	ReadErrors   int
}

// VerifyContent hashes every member of every bucket and keeps only files
// whose digest is shared by at least one other member of the same bucket.
// Within a group members are ordered by path; within a bucket groups are
// ordered by their first path.
func VerifyContent(ctx context.Context, p fsys.Provider, buckets []model.SizeGroup, opts VerifyOptions) ([]model.Group, VerifyStats, error) {
	log := logging.OrDiscard(opts.Log)
	algo := opts.Hash
	if algo == "" {
		algo = DefaultHash
	}

	var stats VerifyStats
	var groups []model.Group
	for _, bucket := range buckets {
		var digests []string
		byDigest := make(map[string][]*model.Record)

		for _, rec := range bucket.Files {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}

			digest, err := hashFile(p, rec, algo)
			if opts.OnHashed != nil {
				opts.OnHashed(rec.Path, rec.Size)
			}
			if err != nil {
				if opts.StrictReads {
					return nil, stats, &FileReadError{Path: rec.Path, Err: err}
				}
				log.Warnf("Excluding unreadable file %s: %v", rec.Path, err)
				stats.ReadErrors++
				continue
			}

			stats.Hashed++
			stats.BytesHashed = model.SaturatingAdd(stats.BytesHashed, rec.Size)
			if _, seen := byDigest[digest]; !seen {
				digests = append(digests, digest)
			}
			byDigest[digest] = append(byDigest[digest], rec)
		}

		var found []model.Group
		for _, digest := range digests {
			files := byDigest[digest]
			if len(files) < 2 {
				stats.UniqueDigest++
				continue
			}
			sort.SliceStable(files, func(i, j int) bool { return files[i].Path < files[j].Path })
			found = append(found, model.Group{Size: bucket.Size, Digest: digest, Files: files})
		}
		sort.SliceStable(found, func(i, j int) bool {
			return found[i].Files[0].Path < found[j].Files[0].Path
		})
		groups = append(groups, found...)
	}
	return groups, stats, nil
}

// hashFile streams one file through a fresh hash state. A byte count that
// differs from the recorded size is a read error: the file changed since it
// was stat'ed.
func hashFile(p fsys.Provider, rec *model.Record, algo HashAlgo) (string, error) {
	rc, err := p.Open(rec.Path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	h := algo.New()
	n, err := io.Copy(h, rc)
	if err != nil {
		return "", err
	}
	if n != rec.Size {
		return "", fmt.Errorf("read %d bytes, expected %d", n, rec.Size)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
