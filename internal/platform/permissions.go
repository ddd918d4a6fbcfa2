package platform

import (
	"os"
	"runtime"
)

// Mode bits for a shared resource.
const (
	ModeReadOnly  os.FileMode = 0444
	ModeReadWrite os.FileMode = 0644
	DirPermNormal os.FileMode = 0755
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// Perm returns the permission bits of path, following symlinks.
func Perm(path string) (os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Mode().Perm(), nil
}

// IsWritable reports whether any write bit is set in mode.
func IsWritable(mode os.FileMode) bool {
	return mode.Perm()&0222 != 0
}
