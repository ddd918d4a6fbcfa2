//go:build unix

package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// FileLocking reports whether LockFile excludes other processes.
const FileLocking = true

// FileLock is an exclusive flock(2) held on an open descriptor. The lock
// belongs to the inode, so it excludes writers using any hard link.
type FileLock struct {
	f *os.File
}

// LockFile takes an exclusive advisory lock on path, polling every poll
// interval until it succeeds or ctx is done. The file is opened read-only so
// a resource at rest in mode 0444 can still be locked.
func LockFile(ctx context.Context, path string, poll time.Duration) (*FileLock, error) {
	if poll <= 0 {
		poll = DefaultLockPoll
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &FileLock{f: f}, nil
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if !errors.Is(err, unix.EWOULDBLOCK) {
			f.Close()
			return nil, fmt.Errorf("flock %s: %w", path, err)
		}

		timer := time.NewTimer(poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			f.Close()
			return nil, fmt.Errorf("%w: %s (%v)", ErrLockBusy, path, ctx.Err())
		case <-timer.C:
		}
	}
}

// Unlock releases the lock and closes the descriptor.
func (l *FileLock) Unlock() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	return errors.Join(err, l.f.Close())
}
