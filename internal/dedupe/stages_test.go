package dedupe

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/sadopc/godupes/internal/fsys/fsystest"
	"github.com/sadopc/godupes/internal/model"
)

func rec(path string, size int64, ino uint64) *model.Record {
	return &model.Record{
		Path:        path,
		Size:        size,
		Identity:    model.Identity{Dev: 1, Ino: ino},
		HasIdentity: true,
	}
}

func TestDropEmpty(t *testing.T) {
	in := []*model.Record{rec("/a", 0, 1), rec("/b", 3, 2), rec("/c", 0, 3)}
	kept, skipped := DropEmpty(in)
	if skipped != 2 || len(kept) != 1 || kept[0].Path != "/b" {
		t.Fatalf("kept=%v skipped=%d", kept, skipped)
	}
}

func TestCollapseHardLinks_PicksSmallestPath(t *testing.T) {
	in := []*model.Record{
		rec("/d/z", 5, 7),
		rec("/d/other", 5, 8),
		rec("/d/a", 5, 7),
		rec("/d/m", 5, 7),
	}
	in[0].Symlinks = []string{"/d/zlink"}
	in[2].Symlinks = []string{"/d/alink"}

	out, merged := CollapseHardLinks(in)
	if merged != 2 {
		t.Fatalf("merged = %d, want 2", merged)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	// First-encounter order of identities: inode 7 before inode 8.
	primary := out[0]
	if primary.Path != "/d/a" {
		t.Fatalf("primary = %s, want /d/a", primary.Path)
	}
	if want := []string{"/d/m", "/d/z"}; !reflect.DeepEqual(primary.HardLinks, want) {
		t.Fatalf("hard links = %v, want %v", primary.HardLinks, want)
	}
	if want := []string{"/d/alink", "/d/zlink"}; !reflect.DeepEqual(primary.Symlinks, want) {
		t.Fatalf("symlinks = %v, want %v", primary.Symlinks, want)
	}
	if out[1].Path != "/d/other" || len(out[1].HardLinks) != 0 {
		t.Fatalf("unrelated record changed: %+v", out[1])
	}
}

func TestCollapseHardLinks_Idempotent(t *testing.T) {
	in := []*model.Record{rec("/b", 5, 1), rec("/a", 5, 1), rec("/c", 5, 2)}
	once, _ := CollapseHardLinks(in)
	snapshot := make([]model.Record, len(once))
	for i, r := range once {
		snapshot[i] = *r
	}

	twice, merged := CollapseHardLinks(once)
	if merged != 0 {
		t.Fatalf("second pass merged %d records", merged)
	}
	if len(twice) != len(once) {
		t.Fatalf("second pass changed length: %d vs %d", len(twice), len(once))
	}
	for i, r := range twice {
		if !reflect.DeepEqual(*r, snapshot[i]) {
			t.Fatalf("record %d changed: %+v vs %+v", i, *r, snapshot[i])
		}
	}
}

func TestCollapseHardLinks_UniqueIdentities(t *testing.T) {
	in := []*model.Record{
		rec("/1", 1, 1), rec("/2", 1, 2), rec("/3", 1, 1),
		rec("/4", 1, 3), rec("/5", 1, 2), rec("/6", 1, 1),
	}
	out, _ := CollapseHardLinks(in)
	seen := make(map[model.Identity]bool)
	total := 0
	for _, r := range out {
		if seen[r.Identity] {
			t.Fatalf("identity %+v appears twice", r.Identity)
		}
		seen[r.Identity] = true
		total += 1 + len(r.HardLinks)
	}
	if total != len(in) {
		t.Fatalf("paths lost: %d of %d", total, len(in))
	}
}

func TestCollapseHardLinks_NoIdentityNeverMerges(t *testing.T) {
	a := &model.Record{Path: "/a", Size: 3}
	b := &model.Record{Path: "/b", Size: 3}
	out, merged := CollapseHardLinks([]*model.Record{a, b})
	if merged != 0 || len(out) != 2 {
		t.Fatalf("records without identity merged: %+v", out)
	}
}

func TestBucketBySize(t *testing.T) {
	in := []*model.Record{
		rec("/a", 10, 1), rec("/b", 20, 2), rec("/c", 10, 3),
		rec("/d", 30, 4), rec("/e", 20, 5), rec("/f", 20, 6),
	}
	buckets, dropped := BucketBySize(in)
	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Size != 20 || buckets[1].Size != 10 {
		t.Fatalf("buckets not ordered by size desc: %d, %d", buckets[0].Size, buckets[1].Size)
	}
	var got []string
	for _, f := range buckets[0].Files {
		got = append(got, f.Path)
	}
	if want := []string{"/b", "/e", "/f"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("members = %v, want %v", got, want)
	}
	for _, b := range buckets {
		if len(b.Files) < 2 {
			t.Fatalf("singleton bucket kept: %+v", b)
		}
		for _, f := range b.Files {
			if f.Size != b.Size {
				t.Fatalf("member %s has size %d in bucket %d", f.Path, f.Size, b.Size)
			}
		}
	}
}

func bucketsFor(t *testing.T, fs *fsystest.MemFS, paths ...string) []model.SizeGroup {
	t.Helper()
	var records []*model.Record
	for i, p := range paths {
		md, err := fs.Metadata(p)
		if err != nil {
			t.Fatal(err)
		}
		records = append(records, rec(p, md.Size, uint64(i+100)))
	}
	buckets, _ := BucketBySize(records)
	return buckets
}

func TestVerifyContent_SplitsByDigest(t *testing.T) {
	fs := fsystest.New().
		File("/d/b1", "xxxx").
		File("/d/a1", "xxxx").
		File("/d/a2", "yyyy").
		File("/d/b2", "yyyy").
		File("/d/c", "zzzz")
	buckets := bucketsFor(t, fs, "/d/b1", "/d/a1", "/d/a2", "/d/b2", "/d/c")

	groups, stats, err := VerifyContent(context.Background(), fs, buckets, VerifyOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Files[0].Path != "/d/a1" || groups[0].Files[1].Path != "/d/b1" {
		t.Fatalf("first group = %v", groups[0].Paths())
	}
	if groups[1].Files[0].Path != "/d/a2" || groups[1].Files[1].Path != "/d/b2" {
		t.Fatalf("second group = %v", groups[1].Paths())
	}
	if groups[0].Digest == groups[1].Digest || len(groups[0].Digest) != 64 {
		t.Fatalf("unexpected digests %q %q", groups[0].Digest, groups[1].Digest)
	}
	if stats.Hashed != 5 || stats.BytesHashed != 20 || stats.UniqueDigest != 1 || stats.ReadErrors != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestVerifyContent_ReadErrorExcludesFile(t *testing.T) {
	fs := fsystest.New().
		File("/d/a", "same").
		File("/d/b", "same").
		File("/d/c", "same").
		FailRead("/d/c")
	buckets := bucketsFor(t, fs, "/d/a", "/d/b", "/d/c")

	var processed []string
	groups, stats, err := VerifyContent(context.Background(), fs, buckets, VerifyOptions{
		OnHashed: func(path string, _ int64) { processed = append(processed, path) },
	})
	if err != nil {
		t.Fatalf("read error must not abort by default: %v", err)
	}
	if stats.ReadErrors != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if len(groups) != 1 || len(groups[0].Files) != 2 {
		t.Fatalf("groups = %+v", groups)
	}
	for _, f := range groups[0].Files {
		if f.Path == "/d/c" {
			t.Fatal("partially read file reported as duplicate")
		}
	}
	if len(processed) != 3 {
		t.Fatalf("OnHashed called %d times, want 3", len(processed))
	}
}

func TestVerifyContent_StrictReadsAborts(t *testing.T) {
	fs := fsystest.New().
		File("/d/a", "same").
		File("/d/b", "same").
		FailOpen("/d/b")
	buckets := bucketsFor(t, fs, "/d/a", "/d/b")

	_, _, err := VerifyContent(context.Background(), fs, buckets, VerifyOptions{StrictReads: true})
	var rerr *FileReadError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected FileReadError, got %v", err)
	}
	if rerr.Path != "/d/b" || !errors.Is(err, fsystest.ErrInjected) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestVerifyContent_SizeChangedSinceWalk(t *testing.T) {
	fs := fsystest.New().
		File("/d/a", "same").
		File("/d/b", "same")
	buckets := bucketsFor(t, fs, "/d/a", "/d/b")
	fs.Truncate("/d/b", "sam")

	groups, stats, err := VerifyContent(context.Background(), fs, buckets, VerifyOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 0 || stats.ReadErrors != 1 {
		t.Fatalf("groups=%v stats=%+v", groups, stats)
	}
}

func TestVerifyContent_CanceledContext(t *testing.T) {
	fs := fsystest.New().File("/d/a", "x").File("/d/b", "x")
	buckets := bucketsFor(t, fs, "/d/a", "/d/b")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := VerifyContent(ctx, fs, buckets, VerifyOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestVerifyContent_AlgorithmsAgree(t *testing.T) {
	fs := fsystest.New().
		File("/d/a", "payload").
		File("/d/b", "payload").
		File("/d/c", "PAYLOAD")
	for _, name := range SupportedHashAlgorithms() {
		buckets := bucketsFor(t, fs, "/d/a", "/d/b", "/d/c")
		groups, _, err := VerifyContent(context.Background(), fs, buckets, VerifyOptions{Hash: HashAlgo(name)})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(groups) != 1 || len(groups[0].Files) != 2 {
			t.Fatalf("%s: groups = %+v", name, groups)
		}
	}
}
