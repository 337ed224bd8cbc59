//go:build windows

package fsys

import "os"

// statPath on Windows falls back to os.Stat.
// Inode/hardlink detection is not supported.
func statPath(path string) (Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{
		Size: info.Size(),
		Mode: info.Mode(),
	}, nil
}
