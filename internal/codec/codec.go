// Package codec reads and writes a configuration document in the format
// implied by its file name: JSON, YAML or TOML.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sharedcfg-labs/sharedcfg/internal/document"
)

// ErrUnsupportedFormat is returned for file extensions with no codec.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Codec decodes and encodes whole documents.
type Codec interface {
	Decode(r io.Reader) (document.Document, error)
	Encode(d document.Document, w io.Writer) error
	Format() string
}

// ForPath picks a codec from the extension of path. Files without an
// extension are treated as JSON.
func ForPath(path string) (Codec, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", "":
		return NewJSONCodec(), nil
	case ".yaml", ".yml":
		return NewYAMLCodec(), nil
	case ".toml":
		return NewTOMLCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Marshal encodes d into a byte slice.
func Marshal(c Codec, d document.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encode(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a document from data. A missing document is an error.
func Unmarshal(c Codec, data []byte) (document.Document, error) {
	d, err := c.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("failed to parse %s: empty document", c.Format())
	}
	return d, nil
}
