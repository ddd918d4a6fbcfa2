package codec

import (
	"fmt"
	"io"

	"github.com/sharedcfg-labs/sharedcfg/internal/document"
	"go.yaml.in/yaml/v3"
)

// YAMLCodec handles YAML documents.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Decode parses a YAML mapping.
func (c *YAMLCodec) Decode(r io.Reader) (document.Document, error) {
	var d map[string]any
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if d == nil {
		return nil, nil
	}
	return document.Document(d), nil
}

// Encode writes d as YAML with two-space indentation.
func (c *YAMLCodec) Encode(d document.Document, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(map[string]any(d)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
