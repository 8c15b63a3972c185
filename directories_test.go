package pdfbake

import (
	"path/filepath"
	"testing"
)

func TestDefaultDirectories(t *testing.T) {
	dirs, err := DefaultDirectories("/docs/flyer")
	if err != nil {
		t.Fatalf("DefaultDirectories() error = %v", err)
	}
	if !filepath.IsAbs(dirs.Base) {
		t.Errorf("Base = %q, want absolute", dirs.Base)
	}
	if dirs.Build != "build" || dirs.Dist != "dist" {
		t.Errorf("Build/Dist = %q/%q, want build/dist", dirs.Build, dirs.Dist)
	}
	if dirs.Documents != "." {
		t.Errorf("Documents = %q, want .", dirs.Documents)
	}
	if dirs.Pages != "pages" || dirs.Templates != "templates" || dirs.Images != "images" {
		t.Errorf("role dirs = %q/%q/%q, want pages/templates/images",
			dirs.Pages, dirs.Templates, dirs.Images)
	}
}

func TestDefaultDirectoriesRelativeBase(t *testing.T) {
	dirs, err := DefaultDirectories("relative/dir")
	if err != nil {
		t.Fatalf("DefaultDirectories() error = %v", err)
	}
	if !filepath.IsAbs(dirs.Base) {
		t.Errorf("Base = %q, want absolute even from relative input", dirs.Base)
	}
}

func TestDirectoriesWithBase(t *testing.T) {
	dirs, err := DefaultDirectories("/docs")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	child, err := dirs.WithBase("/docs/flyer")
	if err != nil {
		t.Fatalf("WithBase() error = %v", err)
	}
	if child.Base != "/docs/flyer" {
		t.Errorf("child Base = %q, want /docs/flyer", child.Base)
	}
	if dirs.Base != "/docs" {
		t.Errorf("parent mutated: Base = %q", dirs.Base)
	}
	// Relative roles re-anchor to the new base.
	if got := child.Resolve(child.Pages); got != "/docs/flyer/pages" {
		t.Errorf("child pages = %q, want /docs/flyer/pages", got)
	}
}

func TestDirectoriesResolve(t *testing.T) {
	dirs := Directories{Base: "/docs/flyer"}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"relative", "pages", "/docs/flyer/pages"},
		{"dot", ".", "/docs/flyer"},
		{"parent traversal collapsed", "../shared", "/docs/shared"},
		{"absolute unchanged", "/opt/templates", "/opt/templates"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dirs.Resolve(tt.path); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestDirectoriesResolvedIdempotent(t *testing.T) {
	dirs := Directories{
		Base:      "/docs/flyer",
		Build:     "build",
		Dist:      "dist",
		Documents: ".",
		Pages:     "pages",
		Templates: "templates",
		Images:    "/opt/images",
	}

	once := dirs.Resolved()
	twice := once.Resolved()

	if once != twice {
		t.Errorf("Resolved() not idempotent:\nonce  = %+v\ntwice = %+v", once, twice)
	}
	if once.Build != "/docs/flyer/build" {
		t.Errorf("Build = %q, want /docs/flyer/build", once.Build)
	}
	if once.Documents != "/docs/flyer" {
		t.Errorf("Documents = %q, want /docs/flyer", once.Documents)
	}
	if once.Images != "/opt/images" {
		t.Errorf("Images = %q, want absolute kept as-is", once.Images)
	}
	// Original untouched.
	if dirs.Build != "build" {
		t.Errorf("original mutated: Build = %q", dirs.Build)
	}
}
