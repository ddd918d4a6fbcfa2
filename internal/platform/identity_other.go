//go:build !unix

package platform

import (
	"errors"
	"fmt"
)

// Stat is not available without Unix inode metadata. Use SameFile instead.
func Stat(path string) (Identity, error) {
	return Identity{}, fmt.Errorf("stat %s: %w", path, errors.ErrUnsupported)
}
