package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sharedcfg-labs/sharedcfg/internal/codec"
	"github.com/sharedcfg-labs/sharedcfg/internal/document"
	"github.com/sharedcfg-labs/sharedcfg/internal/platform"
)

// Resource is a shared configuration file identified by its primary path.
// It is safe for concurrent use; updates from other processes are excluded
// by an flock on the inode.
type Resource struct {
	path  string
	codec codec.Codec
	opts  Options

	mu sync.Mutex
}

// Open returns a handle for the resource at path. The file need not exist yet.
func Open(path string, opts Options) (*Resource, error) {
	c, err := codec.ForPath(path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	return &Resource{
		path:  abs,
		codec: c,
		opts:  opts.withDefaults(),
	}, nil
}

// Path returns the absolute primary path.
func (r *Resource) Path() string { return r.path }

// Format returns the content format, e.g. "json".
func (r *Resource) Format() string { return r.codec.Format() }

// Options returns the effective options.
func (r *Resource) Options() Options { return r.opts }

// Exists reports whether the primary path is present.
func (r *Resource) Exists() bool {
	_, err := os.Stat(r.path)
	return err == nil
}

// Mode returns the current permission bits.
func (r *Resource) Mode() (os.FileMode, error) {
	m, err := platform.Perm(r.path)
	return m, classify(err)
}

// Init writes cfg as the initial content and leaves the file in LockedMode.
// An existing resource is only overwritten when force is set; the rewrite
// goes through the update procedure so existing names keep the inode, and
// the old content is not parsed so a corrupted file can be reset.
func (r *Resource) Init(ctx context.Context, cfg document.Config, force bool) error {
	if r.Exists() {
		if !force {
			return fmt.Errorf("%w: %s", ErrExists, r.path)
		}
		return r.replace(ctx, document.FromConfig(cfg))
	}

	data, err := r.encode(document.FromConfig(cfg))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), platform.DirPermNormal); err != nil {
		return fmt.Errorf("creating directory for %s: %w", r.path, err)
	}
	if err := os.WriteFile(r.path, data, r.opts.UnlockedMode); err != nil {
		return fmt.Errorf("writing %s: %w", r.path, classify(err))
	}
	if err := platform.Chmod(r.path, r.opts.LockedMode); err != nil {
		return fmt.Errorf("locking %s: %w", r.path, classify(err))
	}

	r.opts.Logger.Debug("resource initialized", "path", r.path, "mode", fmt.Sprintf("%o", r.opts.LockedMode))
	return nil
}

// Load reads and parses the resource through its primary path.
func (r *Resource) Load() (document.Document, error) {
	return r.LoadVia(r.path)
}

// LoadVia reads the resource through another name. For a hard link this is
// the same content as Load; the format is always the resource's own.
func (r *Resource) LoadVia(name string) (document.Document, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, classify(err))
	}
	d, err := codec.Unmarshal(r.codec, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, name, err)
	}
	return d, nil
}

// Config loads the typed record.
func (r *Resource) Config() (document.Config, error) {
	d, err := r.Load()
	if err != nil {
		return document.Config{}, err
	}
	return d.ToConfig()
}

// Get returns the value at a dotted key path.
func (r *Resource) Get(keyPath string) (any, error) {
	d, err := r.Load()
	if err != nil {
		return nil, err
	}
	return d.Get(keyPath)
}

// Validate loads the resource and checks it against the record schema.
func (r *Resource) Validate() (*document.ValidationResult, error) {
	d, err := r.Load()
	if err != nil {
		return nil, err
	}
	return document.Validate(d)
}

// Relock puts the resource back into LockedMode.
func (r *Resource) Relock() error {
	return classify(platform.Chmod(r.path, r.opts.LockedMode))
}

func (r *Resource) encode(d document.Document) ([]byte, error) {
	res, err := document.Validate(d)
	if err != nil {
		return nil, err
	}
	if verr := res.Err(); verr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, verr)
	}
	data, err := codec.Marshal(r.codec, d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return data, nil
}

// writeInPlace overwrites the existing inode. The file is never truncated to
// empty before the new bytes are in place.
func writeInPlace(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return classify(err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err := f.WriteAt(data, 0); err != nil {
		return err
	}
	if err := f.Truncate(int64(len(data))); err != nil {
		return err
	}
	return f.Sync()
}
