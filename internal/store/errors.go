package store

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/sharedcfg-labs/sharedcfg/internal/document"
	"github.com/sharedcfg-labs/sharedcfg/internal/platform"
)

var (
	ErrNotFound     = errors.New("config resource not found")
	ErrExists       = errors.New("config resource already exists")
	ErrMalformed    = errors.New("malformed config content")
	ErrInvalid      = errors.New("config fails schema validation")
	ErrPermission   = errors.New("permission denied")
	ErrKeyNotFound  = document.ErrKeyNotFound
	ErrNotContainer = document.ErrNotContainer
	ErrLocked       = platform.ErrLockBusy
)

// UpdateError reports a failed controlled update. Err wraps one of the
// package sentinels where the cause is known.
type UpdateError struct {
	Path string
	Key  string
	Err  error
}

func (e *UpdateError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("updating %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("updating %s in %s: %v", e.Key, e.Path, e.Err)
}

func (e *UpdateError) Unwrap() error { return e.Err }

// classify tags OS errors with the matching sentinel.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermission, err)
	default:
		return err
	}
}
