package pdfbake

import (
	"fmt"
	"path/filepath"
)

// Default role directories, relative to a config file's parent.
const (
	DefaultBuildDir     = "build"
	DefaultDistDir      = "dist"
	DefaultDocumentsDir = "."
	DefaultPagesDir     = "pages"
	DefaultTemplatesDir = "templates"
	DefaultImagesDir    = "images"
)

// Directories names the directory roles of one configuration level.
// Base is always absolute (made so at construction). Every other field
// may stay relative until the point of use, because a child level
// (document, variant) may substitute its own base before resolution.
// Children derive their Directories by value copy, never by reference,
// so mutating a child's build directory cannot affect the parent's.
type Directories struct {
	Base      string `yaml:"base"`
	Build     string `yaml:"build"`
	Dist      string `yaml:"dist"`
	Documents string `yaml:"documents"`
	Pages     string `yaml:"pages"`
	Templates string `yaml:"templates"`
	Images    string `yaml:"images"`
}

// DefaultDirectories returns the conventional layout rooted at base.
// Base is resolved to an absolute path.
func DefaultDirectories(base string) (Directories, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return Directories{}, fmt.Errorf("resolving base directory %q: %w", base, err)
	}
	return Directories{
		Base:      abs,
		Build:     DefaultBuildDir,
		Dist:      DefaultDistDir,
		Documents: DefaultDocumentsDir,
		Pages:     DefaultPagesDir,
		Templates: DefaultTemplatesDir,
		Images:    DefaultImagesDir,
	}, nil
}

// WithBase returns a copy whose base is replaced and made absolute.
// Relative role directories are left alone so they re-anchor to the
// new base at resolution time.
func (d Directories) WithBase(base string) (Directories, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return Directories{}, fmt.Errorf("resolving base directory %q: %w", base, err)
	}
	d.Base = abs
	return d, nil
}

// Resolve returns path made absolute against the base directory.
// Absolute paths come back lexically cleaned but otherwise unchanged.
func (d Directories) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(d.Base, path))
}

// Resolved returns a copy where every field is absolute. Idempotent:
// resolving an already-resolved value is a no-op.
func (d Directories) Resolved() Directories {
	return Directories{
		Base:      d.Resolve(d.Base),
		Build:     d.Resolve(d.Build),
		Dist:      d.Resolve(d.Dist),
		Documents: d.Resolve(d.Documents),
		Pages:     d.Resolve(d.Pages),
		Templates: d.Resolve(d.Templates),
		Images:    d.Resolve(d.Images),
	}
}

// asMap returns the mapping shape for placing the value back into a
// settings mapping.
func (d Directories) asMap() map[string]any {
	return map[string]any{
		"base":      d.Base,
		"build":     d.Build,
		"dist":      d.Dist,
		"documents": d.Documents,
		"pages":     d.Pages,
		"templates": d.Templates,
		"images":    d.Images,
	}
}
