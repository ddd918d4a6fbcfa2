//go:build unix

package platform

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Stat returns the inode identity and link count of path, following symlinks.
func Stat(path string) (Identity, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return Identity{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Identity{
		Device: uint64(st.Dev),
		Inode:  uint64(st.Ino),
		Links:  uint64(st.Nlink),
	}, nil
}
