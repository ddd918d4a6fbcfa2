package store

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/sharedcfg-labs/sharedcfg/internal/document"
	"github.com/sharedcfg-labs/sharedcfg/internal/platform"
)

// UpdateOption adjusts a single Update call.
type UpdateOption func(*updateConfig)

type updateConfig struct {
	createMissing bool
}

// CreateMissing makes Update create absent intermediate maps on the key path
// instead of failing with ErrKeyNotFound.
func CreateMissing() UpdateOption {
	return func(c *updateConfig) { c.createMissing = true }
}

// Update assigns value at the dotted keyPath using the controlled procedure.
func (r *Resource) Update(ctx context.Context, keyPath string, value any, opts ...UpdateOption) error {
	var cfg updateConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return r.Apply(ctx, keyPath, func(d document.Document) error {
		return d.Set(keyPath, value, cfg.createMissing)
	})
}

// TryUpdate runs Update and swallows any failure after logging it. It
// reports whether the update landed.
func (r *Resource) TryUpdate(ctx context.Context, keyPath string, value any, opts ...UpdateOption) bool {
	if err := r.Update(ctx, keyPath, value, opts...); err != nil {
		r.opts.Logger.Error("config update failed", "path", r.path, "key", keyPath, "error", err)
		return false
	}
	return true
}

// Apply runs mutate against the current document under the resource lock
// with the file temporarily writable. The mode found before the update is
// restored afterwards even when loading, mutating or writing fails. key is
// only used for error reporting.
func (r *Resource) Apply(ctx context.Context, key string, mutate func(document.Document) error) error {
	return r.apply(ctx, key, true, mutate)
}

// replace overwrites the whole content without reading it first, so a
// resource that no longer parses can still be reset.
func (r *Resource) replace(ctx context.Context, d document.Document) error {
	return r.apply(ctx, "", false, func(cur document.Document) error {
		maps.Copy(cur, d)
		return nil
	})
}

func (r *Resource) apply(ctx context.Context, key string, load bool, mutate func(document.Document) error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fail := func(e error) error {
		return &UpdateError{Path: r.path, Key: key, Err: e}
	}

	lockCtx, cancel := context.WithTimeout(ctx, r.opts.LockTimeout)
	defer cancel()
	lock, err := platform.LockFile(lockCtx, r.path, 0)
	if err != nil {
		return fail(classify(err))
	}
	defer func() {
		if uerr := lock.Unlock(); uerr != nil {
			r.opts.Logger.Warn("releasing resource lock", "path", r.path, "error", uerr)
		}
	}()

	original, err := platform.Perm(r.path)
	if err != nil {
		return fail(classify(err))
	}
	if err := platform.Chmod(r.path, r.opts.UnlockedMode); err != nil {
		return fail(classify(err))
	}
	r.opts.Logger.Debug("resource unlocked", "path", r.path, "from", fmt.Sprintf("%o", original), "to", fmt.Sprintf("%o", r.opts.UnlockedMode))

	defer func() {
		if rerr := platform.Chmod(r.path, original); rerr != nil {
			err = errors.Join(err, fail(fmt.Errorf("restoring mode %o: %w", original, classify(rerr))))
			return
		}
		r.opts.Logger.Debug("resource mode restored", "path", r.path, "mode", fmt.Sprintf("%o", original))
	}()

	d := document.Document{}
	if load {
		if d, err = r.Load(); err != nil {
			return fail(err)
		}
	}
	if err := mutate(d); err != nil {
		return fail(err)
	}
	data, err := r.encode(d)
	if err != nil {
		return fail(err)
	}
	if err := writeInPlace(r.path, data); err != nil {
		return fail(fmt.Errorf("writing %s: %w", r.path, err))
	}

	r.opts.Logger.Info("config updated", "path", r.path, "key", key)
	return nil
}
