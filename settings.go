package pdfbake

import (
	"github.com/pdfbake/pdfbake/internal/yamlutil"
)

// Settings is the open key/value mapping of one configuration level.
// Unknown keys are preserved rather than rejected so arbitrary
// user-defined template variables can flow into page rendering. Values
// carry YAML's domain: string, number, bool, []any, map[string]any, nil.
type Settings map[string]any

// DeepMerge layers overrides on top of s and returns a new mapping.
// When both sides hold mappings for a key, they merge recursively;
// everything else (scalars, lists, mismatched types) is replaced
// wholesale by the override. Neither input is modified.
func (s Settings) DeepMerge(overrides map[string]any) Settings {
	merged := make(Settings, len(s)+len(overrides))
	for k, v := range s {
		merged[k] = deepCopyValue(v)
	}
	for k, v := range overrides {
		if existing, ok := merged[k].(map[string]any); ok {
			if override, ok := v.(map[string]any); ok {
				merged[k] = map[string]any(Settings(existing).DeepMerge(override))
				continue
			}
		}
		merged[k] = deepCopyValue(v)
	}
	return merged
}

// Clone returns a structurally independent copy. Aliasing across
// configuration levels must never occur; every level owns its values.
func (s Settings) Clone() Settings {
	clone := make(Settings, len(s))
	for k, v := range s {
		clone[k] = deepCopyValue(v)
	}
	return clone
}

// Without returns a copy with the given keys removed.
func (s Settings) Without(keys ...string) Settings {
	clone := s.Clone()
	for _, k := range keys {
		delete(clone, k)
	}
	return clone
}

// UserDefined returns the subset of keys outside the fixed schema of a
// level. This is exactly what custom processing hooks receive as
// "everything the user put in YAML beyond what this tool understands".
func (s Settings) UserDefined(schemaKeys ...string) Settings {
	schema := make(map[string]struct{}, len(schemaKeys))
	for _, k := range schemaKeys {
		schema[k] = struct{}{}
	}
	out := make(Settings)
	for k, v := range s {
		if _, fixed := schema[k]; !fixed {
			out[k] = deepCopyValue(v)
		}
	}
	return out
}

// decodeField extracts a fixed schema field from the mapping into a
// typed destination by round-tripping through YAML. Absent keys leave
// the destination untouched.
func (s Settings) decodeField(key string, dest any) error {
	v, ok := s[key]
	if !ok || v == nil {
		return nil
	}
	return yamlutil.Decode(v, dest)
}

func (s Settings) getString(key string) string {
	v, _ := s[key].(string)
	return v
}

func (s Settings) getBool(key string) bool {
	v, _ := s[key].(bool)
	return v
}

// deepCopyValue copies nested mappings and sequences; scalars are
// immutable and shared.
func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = deepCopyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}

// DefaultReadableMaxChars bounds string values in diagnostic dumps.
const DefaultReadableMaxChars = 60

// Readable returns a YAML dump of the settings with every string value
// longer than maxChars truncated and ellipsised. Only for logs;
// truncation is lossy by design, never round-trip it.
func (s Settings) Readable(maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultReadableMaxChars
	}
	truncated := truncateStrings(map[string]any(s), maxChars)
	data, err := yamlutil.Marshal(truncated)
	if err != nil {
		return "<unprintable settings>"
	}
	return "\n" + string(data)
}

// truncateStrings recursively truncates string values in nested
// structures. Keys are left alone.
func truncateStrings(v any, maxChars int) any {
	switch val := v.(type) {
	case string:
		return Truncate(val, maxChars)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = truncateStrings(item, maxChars)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = truncateStrings(item, maxChars)
		}
		return out
	default:
		return v
	}
}
