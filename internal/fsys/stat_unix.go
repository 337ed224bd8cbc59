//go:build !windows

package fsys

import (
	"os"

	"github.com/sadopc/godupes/internal/model"
	"golang.org/x/sys/unix"
)

// statPath stats path (following symlinks) and extracts size, mode, device
// and inode in one call.
func statPath(path string) (Metadata, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return Metadata{}, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	return Metadata{
		Size: st.Size,
		Identity: model.Identity{
			Dev: uint64(st.Dev), // platform-defined width, always representable
			Ino: uint64(st.Ino),
		},
		HasIdentity: true,
		Mode:        fileMode(uint32(st.Mode)),
	}, nil
}

// fileMode converts a raw st_mode into an os.FileMode.
func fileMode(raw uint32) os.FileMode {
	mode := os.FileMode(raw & 0o777)
	switch raw & unix.S_IFMT {
	case unix.S_IFDIR:
		mode |= os.ModeDir
	case unix.S_IFLNK:
		mode |= os.ModeSymlink
	case unix.S_IFIFO:
		mode |= os.ModeNamedPipe
	case unix.S_IFSOCK:
		mode |= os.ModeSocket
	case unix.S_IFCHR:
		mode |= os.ModeDevice | os.ModeCharDevice
	case unix.S_IFBLK:
		mode |= os.ModeDevice
	}
	return mode
}
