package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sharedcfg-labs/sharedcfg/internal/document"
)

// JSONCodec handles JSON documents.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Decode parses a JSON object.
func (c *JSONCodec) Decode(r io.Reader) (document.Document, error) {
	var d document.Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return d, nil
}

// Encode writes d as indented JSON.
func (c *JSONCodec) Encode(d document.Document, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(map[string]any(d)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
