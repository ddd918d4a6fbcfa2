package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// Identity describes the storage unit behind a name.
type Identity struct {
	Device uint64
	Inode  uint64
	// Links is the number of directory entries naming the inode.
	Links uint64
}

// Same reports whether two identities denote the same inode.
func (id Identity) Same(other Identity) bool {
	return id.Device == other.Device && id.Inode == other.Inode
}

// CreateHardlink adds dst as another directory entry for the inode at src.
// Parent directories of dst are created as needed. Both names must live on
// the same filesystem.
func CreateHardlink(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), DirPermNormal); err != nil {
		return fmt.Errorf("creating parent of %s: %w", dst, err)
	}
	if err := os.Link(src, dst); err != nil {
		return fmt.Errorf("linking %s to %s: %w", dst, src, err)
	}
	return nil
}

// SameFile reports whether a and b resolve to the same inode.
func SameFile(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(ai, bi), nil
}
