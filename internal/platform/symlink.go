package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// CreateSymlink creates a symbolic link at link whose text is target.
// Parent directories of link are created as needed. Unlike a hard link the
// new entry only names target; it dangles once target is removed.
func CreateSymlink(target, link string) error {
	if err := os.MkdirAll(filepath.Dir(link), DirPermNormal); err != nil {
		return fmt.Errorf("creating parent of %s: %w", link, err)
	}
	return os.Symlink(target, link)
}

// RemoveSymlink removes a symlink without touching its target.
func RemoveSymlink(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return fmt.Errorf("%s is not a symlink", path)
	}
	return os.Remove(path)
}

// ReadSymlinkTarget returns the target text of a symlink.
func ReadSymlinkTarget(path string) (string, error) {
	return os.Readlink(path)
}

// IsSymlink reports whether path is itself a symlink.
func IsSymlink(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	return info.Mode()&fs.ModeSymlink != 0, nil
}

// IsDangling reports whether path is a symlink whose target no longer exists.
func IsDangling(path string) (bool, error) {
	isLink, err := IsSymlink(path)
	if err != nil || !isLink {
		return false, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	return false, err
}
