package store

import (
	"log/slog"
	"os"
	"time"

	"github.com/sharedcfg-labs/sharedcfg/internal/platform"
)

// Options control how a Resource is locked and unlocked.
type Options struct {
	// LockedMode is the mode the file rests in between updates.
	LockedMode os.FileMode
	// UnlockedMode is held only while an update is writing.
	UnlockedMode os.FileMode
	// LockTimeout bounds the wait for another writer.
	LockTimeout time.Duration
	Logger      *slog.Logger
}

// DefaultOptions returns read-only at rest, owner-writable during updates.
func DefaultOptions() Options {
	return Options{
		LockedMode:   platform.ModeReadOnly,
		UnlockedMode: platform.ModeReadWrite,
		LockTimeout:  5 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.LockedMode == 0 {
		o.LockedMode = d.LockedMode
	}
	if o.UnlockedMode == 0 {
		o.UnlockedMode = d.UnlockedMode
	}
	if o.LockTimeout <= 0 {
		o.LockTimeout = d.LockTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
