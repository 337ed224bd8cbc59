// Package fsystest provides an in-memory fsys.Provider for tests.
package fsystest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	pathpkg "path"
	"sort"
	"strings"

	"github.com/sadopc/godupes/internal/fsys"
	"github.com/sadopc/godupes/internal/model"
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("injected failure")

const maxSymlinkDepth = 40

type node struct {
	mode   os.FileMode
	data   []byte
	target string
	ino    uint64

	failReadDir bool
	failStat    bool
	failOpen    bool
	failRead    bool
}

// MemFS is an in-memory POSIX-style filesystem. Hard links share a node, so
// they report the same identity and content.
type MemFS struct {
	nodes   map[string]*node
	nextIno uint64
	// NoIdentity makes Metadata report HasIdentity=false, like SFTP.
	NoIdentity bool
}

var _ fsys.Provider = (*MemFS)(nil)

// New creates an empty filesystem containing only "/".
func New() *MemFS {
	m := &MemFS{nodes: make(map[string]*node), nextIno: 1}
	m.nodes["/"] = &node{mode: os.ModeDir | 0o755, ino: m.allocIno()}
	return m
}

func (m *MemFS) allocIno() uint64 {
	ino := m.nextIno
	m.nextIno++
	return ino
}

// Dir creates a directory and its parents.
func (m *MemFS) Dir(path string) *MemFS {
	path = clean(path)
	if path == "/" {
		return m
	}
	m.Dir(pathpkg.Dir(path))
	if _, ok := m.nodes[path]; !ok {
		m.nodes[path] = &node{mode: os.ModeDir | 0o755, ino: m.allocIno()}
	}
	return m
}

// File creates a regular file with the given content.
func (m *MemFS) File(path, content string) *MemFS {
	path = clean(path)
	m.Dir(pathpkg.Dir(path))
	m.nodes[path] = &node{mode: 0o644, data: []byte(content), ino: m.allocIno()}
	return m
}

// HardLink makes path another name for existing.
func (m *MemFS) HardLink(path, existing string) *MemFS {
	n, ok := m.nodes[clean(existing)]
	if !ok {
		panic(fmt.Sprintf("fsystest: hard link target %s does not exist", existing))
	}
	path = clean(path)
	m.Dir(pathpkg.Dir(path))
	m.nodes[path] = n
	return m
}

// Symlink creates a symbolic link at path pointing to target. Relative
// targets are resolved against the link's directory.
func (m *MemFS) Symlink(path, target string) *MemFS {
	path = clean(path)
	m.Dir(pathpkg.Dir(path))
	m.nodes[path] = &node{mode: os.ModeSymlink | 0o777, target: target, ino: m.allocIno()}
	return m
}

// Special creates a non-regular node such as a named pipe.
func (m *MemFS) Special(path string, mode os.FileMode) *MemFS {
	path = clean(path)
	m.Dir(pathpkg.Dir(path))
	m.nodes[path] = &node{mode: mode, ino: m.allocIno()}
	return m
}

// FailReadDir makes listing the directory at path fail.
func (m *MemFS) FailReadDir(path string) *MemFS { m.mustNode(path).failReadDir = true; return m }

// FailStat makes Metadata for path fail.
func (m *MemFS) FailStat(path string) *MemFS { m.mustNode(path).failStat = true; return m }

// FailOpen makes Open for path fail.
func (m *MemFS) FailOpen(path string) *MemFS { m.mustNode(path).failOpen = true; return m }

// FailRead makes reads of path fail after the first byte.
func (m *MemFS) FailRead(path string) *MemFS { m.mustNode(path).failRead = true; return m }

// Truncate changes the content of path without touching its identity, which
// simulates a file changing between stat and read when called mid-pipeline.
func (m *MemFS) Truncate(path string, content string) *MemFS {
	m.mustNode(path).data = []byte(content)
	return m
}

func (m *MemFS) mustNode(path string) *node {
	n, ok := m.nodes[clean(path)]
	if !ok {
		panic(fmt.Sprintf("fsystest: %s does not exist", path))
	}
	return n
}

func (m *MemFS) Canonicalize(path string) (string, error) {
	return m.resolve(clean(path), 0)
}

// resolve walks path component by component, following symlinks.
func (m *MemFS) resolve(path string, depth int) (string, error) {
	if depth > maxSymlinkDepth {
		return "", &os.PathError{Op: "canonicalize", Path: path, Err: errors.New("too many levels of symbolic links")}
	}
	cur := "/"
	for _, part := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if part == "" {
			continue
		}
		next := pathpkg.Join(cur, part)
		n, ok := m.nodes[next]
		if !ok {
			return "", &os.PathError{Op: "canonicalize", Path: path, Err: os.ErrNotExist}
		}
		if n.mode&os.ModeSymlink != 0 {
			target := n.target
			if !pathpkg.IsAbs(target) {
				target = pathpkg.Join(cur, target)
			}
			resolved, err := m.resolve(clean(target), depth+1)
			if err != nil {
				return "", err
			}
			next = resolved
		}
		cur = next
	}
	return cur, nil
}

func (m *MemFS) IsSymlink(path string) bool {
	n, ok := m.nodes[clean(path)]
	return ok && n.mode&os.ModeSymlink != 0
}

func (m *MemFS) IsDir(path string) bool {
	n, err := m.follow(path)
	return err == nil && n.mode.IsDir()
}

func (m *MemFS) ReadDir(path string) ([]string, error) {
	n, err := m.follow(path)
	if err != nil {
		return nil, err
	}
	if !n.mode.IsDir() {
		return nil, &os.PathError{Op: "readdir", Path: path, Err: errors.New("not a directory")}
	}
	if n.failReadDir {
		return nil, &os.PathError{Op: "readdir", Path: path, Err: ErrInjected}
	}

	dir := clean(path)
	var names []string
	for p := range m.nodes {
		if p != "/" && pathpkg.Dir(p) == dir {
			names = append(names, pathpkg.Base(p))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemFS) Metadata(path string) (fsys.Metadata, error) {
	n, err := m.follow(path)
	if err != nil {
		return fsys.Metadata{}, err
	}
	if n.failStat {
		return fsys.Metadata{}, &os.PathError{Op: "stat", Path: path, Err: ErrInjected}
	}
	return fsys.Metadata{
		Size:        int64(len(n.data)),
		Identity:    model.Identity{Dev: 1, Ino: n.ino},
		HasIdentity: !m.NoIdentity,
		Mode:        n.mode,
	}, nil
}

func (m *MemFS) ReadLink(path string) (string, error) {
	n, ok := m.nodes[clean(path)]
	if !ok {
		return "", &os.PathError{Op: "readlink", Path: path, Err: os.ErrNotExist}
	}
	if n.mode&os.ModeSymlink == 0 {
		return "", &os.PathError{Op: "readlink", Path: path, Err: errors.New("not a symlink")}
	}
	return n.target, nil
}

func (m *MemFS) Open(path string) (io.ReadCloser, error) {
	n, err := m.follow(path)
	if err != nil {
		return nil, err
	}
	if n.failOpen {
		return nil, &os.PathError{Op: "open", Path: path, Err: ErrInjected}
	}
	if n.failRead && len(n.data) > 0 {
		return io.NopCloser(io.MultiReader(bytes.NewReader(n.data[:1]), errReader{})), nil
	}
	return io.NopCloser(bytes.NewReader(n.data)), nil
}

func (m *MemFS) Join(dir, name string) string {
	return pathpkg.Join(dir, name)
}

func (m *MemFS) Within(root, target string) bool {
	root, target = clean(root), clean(target)
	if root == target || root == "/" {
		return true
	}
	return strings.HasPrefix(target, root+"/")
}

func (m *MemFS) follow(path string) (*node, error) {
	resolved, err := m.Canonicalize(path)
	if err != nil {
		return nil, err
	}
	return m.nodes[resolved], nil
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, ErrInjected }

func clean(p string) string {
	if p == "" {
		return "/"
	}
	return pathpkg.Clean("/" + strings.TrimPrefix(p, "/"))
}
