package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrEmptyPath is returned for a key path with no segments.
	ErrEmptyPath = errors.New("empty key path")
	// ErrKeyNotFound is returned when a segment of the key path does not exist.
	ErrKeyNotFound = errors.New("key not found")
	// ErrNotContainer is returned when descending through a non-map value.
	ErrNotContainer = errors.New("not a container")
)

// SplitPath splits a dotted key path into its segments.
func SplitPath(keyPath string) ([]string, error) {
	if strings.TrimSpace(keyPath) == "" {
		return nil, ErrEmptyPath
	}
	parts := strings.Split(keyPath, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("invalid key path %q: %w", keyPath, ErrEmptyPath)
		}
	}
	return parts, nil
}

// Get returns the value at keyPath.
func (d Document) Get(keyPath string) (any, error) {
	parts, err := SplitPath(keyPath)
	if err != nil {
		return nil, err
	}

	var cur any = map[string]any(d)
	for i, p := range parts {
		m, ok := asMap(cur)
		if !ok {
			return nil, fmt.Errorf("%s: %w", strings.Join(parts[:i], "."), ErrNotContainer)
		}
		v, ok := m[p]
		if !ok {
			return nil, fmt.Errorf("%s: %w", strings.Join(parts[:i+1], "."), ErrKeyNotFound)
		}
		cur = v
	}
	return cur, nil
}

// Set assigns value at keyPath. Intermediate maps must exist unless
// createMissing is true, in which case they are created.
func (d Document) Set(keyPath string, value any, createMissing bool) error {
	parts, err := SplitPath(keyPath)
	if err != nil {
		return err
	}

	parent := map[string]any(d)
	for i, p := range parts[:len(parts)-1] {
		next, ok := parent[p]
		if !ok {
			if !createMissing {
				return fmt.Errorf("%s: %w", strings.Join(parts[:i+1], "."), ErrKeyNotFound)
			}
			child := map[string]any{}
			parent[p] = child
			parent = child
			continue
		}
		m, ok := asMap(next)
		if !ok {
			return fmt.Errorf("%s: %w", strings.Join(parts[:i+1], "."), ErrNotContainer)
		}
		parent = m
	}

	parent[parts[len(parts)-1]] = value
	return nil
}

// ParseValue interprets a command-line value. Unless asString is set, text
// that parses as JSON (numbers, booleans, null, objects, arrays) keeps its
// type; everything else is taken as a plain string.
func ParseValue(raw string, asString bool) any {
	if asString {
		return raw
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return wholeNumbers(v)
}

// wholeNumbers turns integral float64 values into int64 so that YAML and
// TOML encoders write 5432 rather than 5432.0.
func wholeNumbers(v any) any {
	switch val := v.(type) {
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			return int64(val)
		}
		return val
	case map[string]any:
		for k, item := range val {
			val[k] = wholeNumbers(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = wholeNumbers(item)
		}
		return val
	default:
		return v
	}
}

// asMap accepts both Document and plain maps since decoders differ in which
// they produce for nested objects.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Document:
		return map[string]any(m), true
	default:
		return nil, false
	}
}
