package codec

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/sharedcfg-labs/sharedcfg/internal/document"
)

// TOMLCodec handles TOML documents.
type TOMLCodec struct{}

// NewTOMLCodec creates a new TOML codec
func NewTOMLCodec() *TOMLCodec {
	return &TOMLCodec{}
}

// Format returns the codec format identifier
func (c *TOMLCodec) Format() string {
	return "toml"
}

// Decode parses a TOML document. Tables become nested maps.
func (c *TOMLCodec) Decode(r io.Reader) (document.Document, error) {
	d := map[string]any{}
	if _, err := toml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return document.Document(d), nil
}

// Encode writes d as TOML. TOML has no null, so nil values fail to encode.
func (c *TOMLCodec) Encode(d document.Document, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(map[string]any(d)); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}
	return nil
}
