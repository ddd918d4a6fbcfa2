package platform

import (
	"errors"
	"time"
)

// ErrLockBusy is returned when the lock could not be taken before the context ended.
var ErrLockBusy = errors.New("resource is locked by another writer")

// DefaultLockPoll is the retry interval while waiting for a contended lock.
const DefaultLockPoll = 20 * time.Millisecond
