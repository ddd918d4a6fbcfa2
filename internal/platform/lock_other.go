//go:build !unix

package platform

import (
	"context"
	"os"
	"time"
)

// FileLocking reports whether LockFile excludes other processes.
const FileLocking = false

// FileLock is a no-op where flock(2) is unavailable. Callers still hold
// their in-process mutex.
type FileLock struct{}

// LockFile only checks that path exists.
func LockFile(ctx context.Context, path string, poll time.Duration) (*FileLock, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return &FileLock{}, nil
}

// Unlock does nothing.
func (l *FileLock) Unlock() error { return nil }
