package pdfbake

import (
	"fmt"
	"path/filepath"

	"github.com/pdfbake/pdfbake/internal/fileutil"
)

// PathSpec is a file or directory location from a YAML config, paired
// with a display name. The name defaults to the filesystem stem of the
// path and is used for user-facing identification (error messages,
// output file stems) even after the path is resolved to an absolute
// location. A PathSpec is never mutated; resolution returns a new value.
type PathSpec struct {
	Path string `yaml:"path"`
	Name string `yaml:"name"`
}

// NewPathSpec coerces a YAML value into a PathSpec. Accepted shapes:
//
//   - a string: path, with name defaulting to the stem
//   - a mapping with "path" (name defaults to the stem)
//   - a mapping with "name" only: a forward declaration whose path is
//     synthesized from the name later
//   - an existing PathSpec (returned as-is)
//
// Anything else fails with ErrInvalidPathSpec.
func NewPathSpec(value any) (PathSpec, error) {
	switch v := value.(type) {
	case PathSpec:
		return v, nil
	case *PathSpec:
		return *v, nil
	case string:
		if v == "" {
			return PathSpec{}, fmt.Errorf("%w: empty string", ErrInvalidPathSpec)
		}
		return PathSpec{Path: v, Name: fileutil.Stem(v)}, nil
	case map[string]any:
		path, _ := v["path"].(string)
		name, _ := v["name"].(string)
		if path == "" && name == "" {
			return PathSpec{}, fmt.Errorf("%w: %v", ErrInvalidPathSpec, v)
		}
		if name == "" {
			name = fileutil.Stem(path)
		}
		return PathSpec{Path: path, Name: name}, nil
	default:
		return PathSpec{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidPathSpec, value)
	}
}

// NewPathSpecList coerces a YAML sequence into a list of PathSpecs.
func NewPathSpecList(value any) ([]PathSpec, error) {
	if value == nil {
		return nil, nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a list, got %T", ErrInvalidPathSpec, value)
	}
	specs := make([]PathSpec, 0, len(items))
	for _, item := range items {
		spec, err := NewPathSpec(item)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// ResolveRelativeTo returns a new PathSpec whose path is absolute.
// An already-absolute path is returned unchanged (structurally equal,
// new identity); a relative path is joined to base and lexically
// cleaned. The name is preserved.
func (p PathSpec) ResolveRelativeTo(base string) PathSpec {
	if filepath.IsAbs(p.Path) {
		return PathSpec{Path: p.Path, Name: p.Name}
	}
	return PathSpec{Path: filepath.Clean(filepath.Join(base, p.Path)), Name: p.Name}
}

// IsZero reports whether the spec carries neither path nor name.
func (p PathSpec) IsZero() bool {
	return p.Path == "" && p.Name == ""
}

// asMap returns the mapping shape of the spec, used when the spec is
// placed back into a settings mapping.
func (p PathSpec) asMap() map[string]any {
	return map[string]any{"path": p.Path, "name": p.Name}
}

// UnmarshalYAML coerces scalar and mapping YAML shapes into a PathSpec.
func (p *PathSpec) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		spec, err := NewPathSpec(s)
		if err != nil {
			return err
		}
		*p = spec
		return nil
	}

	var m map[string]any
	if err := unmarshal(&m); err != nil {
		return err
	}
	spec, err := NewPathSpec(m)
	if err != nil {
		return err
	}
	*p = spec
	return nil
}

// ImageSpec names an image for a page plus rendering metadata. Data is
// filled in by the renderer with a base64 data URI so templates can
// embed the image inline. Name carries the file name including its
// extension, relative to the images directory.
type ImageSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Data string `yaml:"data"`
}
