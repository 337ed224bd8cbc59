// Package fsys abstracts the filesystem operations the duplicate finder needs,
// so the same pipeline can run against the local disk or a remote host.
package fsys

import (
	"io"
	"os"

	"github.com/sadopc/godupes/internal/model"
)

// Provider is the set of filesystem operations used by the scanner and the
// content verifier.
type Provider interface {
	// Canonicalize returns an absolute path with every symlink resolved.
	// It fails if the path does not exist.
	Canonicalize(path string) (string, error)
	// IsSymlink reports whether path itself is a symbolic link.
	IsSymlink(path string) bool
	// IsDir reports whether path is a directory, following symlinks.
	IsDir(path string) bool
	// ReadDir returns the names of the entries in a directory.
	ReadDir(path string) ([]string, error)
	// Metadata returns size and identity of a file, following symlinks.
	Metadata(path string) (Metadata, error)
	// ReadLink returns the raw target of a symbolic link.
	ReadLink(path string) (string, error)
	// Open opens a file for reading its full content.
	Open(path string) (io.ReadCloser, error)
	// Join joins a directory and an entry name.
	Join(dir, name string) string
	// Within reports whether target is root or a descendant of root,
	// comparing whole path components.
	Within(root, target string) bool
}

// Metadata holds what the pipeline needs to know about a file.
type Metadata struct {
	Size        int64
	Identity    model.Identity
	HasIdentity bool // true if the platform reported device and inode
	Mode        os.FileMode
}

// IsSpecial reports device nodes, sockets, named pipes and other irregular
// files. They are never duplicate candidates.
func (m Metadata) IsSpecial() bool {
	return IsSpecialMode(m.Mode)
}

// IsSpecialMode reports whether mode describes a non-regular, non-directory,
// non-symlink node.
func IsSpecialMode(mode os.FileMode) bool {
	return mode&(os.ModeDevice|os.ModeCharDevice|os.ModeSocket|os.ModeNamedPipe|os.ModeIrregular) != 0
}
