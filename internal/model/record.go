package model

// Identity identifies a file across filesystems using both device and inode
// number. Using inode alone can cause false merges on cross-filesystem scans.
type Identity struct {
	Dev uint64
	Ino uint64
}

// Record is one regular file discovered during a scan. Hard links to the same
// inode are folded into a single Record by the collapser.
type Record struct {
	Path        string   // Canonical path of first discovery (primary path)
	Size        int64    // Apparent size in bytes
	Identity    Identity // Device and inode
	HasIdentity bool     // false when the provider cannot report inodes
	HardLinks   []string // Other paths sharing Identity
	Symlinks    []string // Symbolic links resolving to Path
}

// recordKey is the collapse key of a Record. Records without an identity are
// keyed by path so they never merge with anything else.
type recordKey struct {
	id   Identity
	path string
}

// Key returns the value records are grouped by when collapsing hard links.
func (r *Record) Key() any {
	if r.HasIdentity {
		return recordKey{id: r.Identity}
	}
	return recordKey{path: r.Path}
}

// Paths returns the primary path followed by hard-link and symlink aliases.
func (r *Record) Paths() []string {
	out := make([]string, 0, 1+len(r.HardLinks)+len(r.Symlinks))
	out = append(out, r.Path)
	out = append(out, r.HardLinks...)
	out = append(out, r.Symlinks...)
	return out
}

// Symlink pairs a symbolic link with its canonicalized target.
type Symlink struct {
	Path   string
	Target string
}

// SizeGroup holds records sharing one byte size. Only groups with at least two
// members are kept.
type SizeGroup struct {
	Size  int64
	Files []*Record
}

// Group is a confirmed set of duplicate files: equal size and equal digest.
type Group struct {
	Size   int64
	Digest string // hex encoded
	Files  []*Record
}

// Wasted returns the bytes that would be freed by keeping one copy.
func (g Group) Wasted() int64 {
	if len(g.Files) < 2 {
		return 0
	}
	return saturatingMulInt64(g.Size, int64(len(g.Files)-1))
}

// Paths returns every path of every member, member by member.
func (g Group) Paths() []string {
	var out []string
	for _, f := range g.Files {
		out = append(out, f.Paths()...)
	}
	return out
}

const maxInt64 = int64(^uint64(0) >> 1)

func saturatingMulInt64(a, b int64) int64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a > maxInt64/b {
		return maxInt64
	}
	return a * b
}

// SaturatingAdd adds two non-negative sizes without overflowing.
func SaturatingAdd(a, b int64) int64 {
	if b > 0 && a > maxInt64-b {
		return maxInt64
	}
	return a + b
}
