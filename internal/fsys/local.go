package fsys

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local is a Provider backed by the operating system's filesystem.
type Local struct{}

// NewLocal creates a local filesystem provider.
func NewLocal() *Local {
	return &Local{}
}

func (Local) Canonicalize(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", err
	}
	// EvalSymlinks may return a relative-looking result on some platforms.
	return filepath.Abs(resolved)
}

func (Local) IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

func (Local) IsDir(path string) bool {
	// Use Stat (not Lstat) so the check follows links like the walker expects.
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func (Local) ReadDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

func (Local) Metadata(path string) (Metadata, error) {
	return statPath(path)
}

func (Local) ReadLink(path string) (string, error) {
	return os.Readlink(path)
}

func (Local) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (Local) Join(dir, name string) string {
	return filepath.Join(dir, name)
}

func (Local) Within(root, target string) bool {
	return isWithin(root, target)
}

func isWithin(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
