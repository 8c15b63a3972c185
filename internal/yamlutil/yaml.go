// Package yamlutil wraps YAML parsing to isolate the external dependency.
// This allows swapping the underlying YAML library without modifying callers.
package yamlutil

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrNotMapping     = errors.New("yamlutil: document root is not a mapping")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}

// MapFromFile reads a YAML file and decodes its top-level mapping into
// a map[string]any. An empty file yields an empty map; a non-mapping
// root (scalar, sequence) is rejected with ErrNotMapping.
func MapFromFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		return nil, fmt.Errorf("yamlutil: reading %s: %w", path, err)
	}
	return MapFromBytes(data, path)
}

// MapFromBytes decodes a YAML document into a map[string]any.
// The source argument only appears in error messages.
func MapFromBytes(data []byte, source string) (map[string]any, error) {
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yamlutil: parsing %s: %w", source, err)
	}
	if doc == nil {
		return map[string]any{}, nil
	}

	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotMapping, source)
	}
	return m, nil
}

// Decode re-marshals an already-decoded YAML value into a typed
// destination. Used to extract fixed schema fields out of the open
// settings mapping without hand-written coercion for every shape.
func Decode(value any, dest any) error {
	if dest == nil {
		return ErrNilDestination
	}
	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	if err := yaml.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}
