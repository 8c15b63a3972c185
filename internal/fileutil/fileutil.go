// Package fileutil provides file and path utility functions.
package fileutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Stem returns the file name without its final extension.
//
// Examples:
//   - "pages/intro.yaml" -> "intro"
//   - "cover.svg.tmpl"   -> "cover.svg"
//   - "README"           -> "README"
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// EnsureSuffix appends suffix to path if it has no extension.
// Paths that already carry an extension are returned unchanged.
func EnsureSuffix(path, suffix string) string {
	if filepath.Ext(path) == "" {
		return path + suffix
	}
	return path
}

// IsBareName returns true if the string is a single path segment,
// i.e. it contains no path separators. Bare names are resolved against
// a role directory (pages, templates); anything else is resolved against
// the owning config's base directory.
//
// Examples:
//   - "intro"            -> true
//   - "intro.yaml"       -> true
//   - "shared/intro"     -> false
//   - "/abs/intro.yaml"  -> false
func IsBareName(s string) bool {
	return !strings.ContainsAny(s, "/\\")
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// MoveFile moves src to dst, replacing dst if it exists. A rename is
// attempted first; if src and dst are on different filesystems the
// file is copied and the source removed.
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	data, err := os.ReadFile(src) // #nosec G304 -- paths come from resolved configuration
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0o600); err != nil {
		return err
	}
	return os.Remove(src)
}

// IsExecutable returns true if the path is a regular file with any
// execute bit set. Used to detect custom bake scripts next to a
// document configuration.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
