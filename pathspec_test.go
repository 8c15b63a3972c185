package pdfbake

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfbake/pdfbake/internal/yamlutil"
)

func TestNewPathSpec(t *testing.T) {
	t.Run("from string", func(t *testing.T) {
		spec, err := NewPathSpec("pages/intro.yaml")
		if err != nil {
			t.Fatalf("NewPathSpec() error = %v", err)
		}
		if spec.Path != "pages/intro.yaml" {
			t.Errorf("Path = %q, want pages/intro.yaml", spec.Path)
		}
		if spec.Name != "intro" {
			t.Errorf("Name = %q, want intro", spec.Name)
		}
	})

	t.Run("from mapping with path", func(t *testing.T) {
		spec, err := NewPathSpec(map[string]any{"path": "docs/flyer.yaml"})
		if err != nil {
			t.Fatalf("NewPathSpec() error = %v", err)
		}
		if spec.Name != "flyer" {
			t.Errorf("Name = %q, want flyer (stem default)", spec.Name)
		}
	})

	t.Run("from mapping with path and name", func(t *testing.T) {
		spec, err := NewPathSpec(map[string]any{"path": "docs/flyer.yaml", "name": "Spring Flyer"})
		if err != nil {
			t.Fatalf("NewPathSpec() error = %v", err)
		}
		if spec.Name != "Spring Flyer" {
			t.Errorf("Name = %q, want Spring Flyer", spec.Name)
		}
	})

	t.Run("from mapping with name only", func(t *testing.T) {
		spec, err := NewPathSpec(map[string]any{"name": "forward"})
		if err != nil {
			t.Fatalf("NewPathSpec() error = %v", err)
		}
		if spec.Path != "" {
			t.Errorf("Path = %q, want empty (forward declaration)", spec.Path)
		}
		if spec.Name != "forward" {
			t.Errorf("Name = %q, want forward", spec.Name)
		}
	})

	t.Run("empty string fails", func(t *testing.T) {
		_, err := NewPathSpec("")
		if !errors.Is(err, ErrInvalidPathSpec) {
			t.Errorf("error = %v, want ErrInvalidPathSpec", err)
		}
	})

	t.Run("empty mapping fails", func(t *testing.T) {
		_, err := NewPathSpec(map[string]any{})
		if !errors.Is(err, ErrInvalidPathSpec) {
			t.Errorf("error = %v, want ErrInvalidPathSpec", err)
		}
	})

	t.Run("unsupported type fails", func(t *testing.T) {
		_, err := NewPathSpec(42)
		if !errors.Is(err, ErrInvalidPathSpec) {
			t.Errorf("error = %v, want ErrInvalidPathSpec", err)
		}
	})

	t.Run("existing spec passes through", func(t *testing.T) {
		orig := PathSpec{Path: "/abs/x.yaml", Name: "x"}
		spec, err := NewPathSpec(orig)
		if err != nil {
			t.Fatalf("NewPathSpec() error = %v", err)
		}
		if spec != orig {
			t.Errorf("spec = %+v, want %+v", spec, orig)
		}
	})
}

func TestNewPathSpecList(t *testing.T) {
	t.Run("mixed shapes", func(t *testing.T) {
		specs, err := NewPathSpecList([]any{
			"intro",
			map[string]any{"path": "outro.yaml", "name": "The End"},
		})
		if err != nil {
			t.Fatalf("NewPathSpecList() error = %v", err)
		}
		if len(specs) != 2 {
			t.Fatalf("len = %d, want 2", len(specs))
		}
		if specs[0].Name != "intro" || specs[1].Name != "The End" {
			t.Errorf("names = %q, %q", specs[0].Name, specs[1].Name)
		}
	})

	t.Run("nil yields nil", func(t *testing.T) {
		specs, err := NewPathSpecList(nil)
		if err != nil || specs != nil {
			t.Errorf("got (%v, %v), want (nil, nil)", specs, err)
		}
	})

	t.Run("non-list fails", func(t *testing.T) {
		_, err := NewPathSpecList("not a list")
		if !errors.Is(err, ErrInvalidPathSpec) {
			t.Errorf("error = %v, want ErrInvalidPathSpec", err)
		}
	})

	t.Run("invalid element fails", func(t *testing.T) {
		_, err := NewPathSpecList([]any{""})
		if !errors.Is(err, ErrInvalidPathSpec) {
			t.Errorf("error = %v, want ErrInvalidPathSpec", err)
		}
	})
}

func TestPathSpecIsZero(t *testing.T) {
	tests := []struct {
		name string
		spec PathSpec
		want bool
	}{
		{"empty spec", PathSpec{}, true},
		{"path only", PathSpec{Path: "intro.yaml"}, false},
		{"name only", PathSpec{Name: "intro"}, false},
		{"both set", PathSpec{Path: "intro.yaml", Name: "intro"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.IsZero(); got != tt.want {
				t.Errorf("IsZero() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPathSpecUnmarshalYAML(t *testing.T) {
	t.Run("scalar form", func(t *testing.T) {
		var spec PathSpec
		if err := yamlutil.Unmarshal([]byte(`pages/intro.yaml`), &spec); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if spec.Path != "pages/intro.yaml" || spec.Name != "intro" {
			t.Errorf("spec = %+v, want path pages/intro.yaml, name intro", spec)
		}
	})

	t.Run("mapping form in a struct field", func(t *testing.T) {
		var cfg struct {
			Template PathSpec `yaml:"template"`
		}
		data := []byte("template:\n  path: letter.svg\n  name: Letter\n")
		if err := yamlutil.Unmarshal(data, &cfg); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if cfg.Template.Path != "letter.svg" || cfg.Template.Name != "Letter" {
			t.Errorf("template = %+v, want path letter.svg, name Letter", cfg.Template)
		}
	})

	t.Run("invalid shape fails", func(t *testing.T) {
		var spec PathSpec
		err := yamlutil.Unmarshal([]byte("{}"), &spec)
		if err == nil {
			t.Fatal("Unmarshal() error = nil, want invalid path spec error")
		}
		if !strings.Contains(err.Error(), ErrInvalidPathSpec.Error()) {
			t.Errorf("error = %v, want it to carry %v", err, ErrInvalidPathSpec)
		}
	})
}

func TestPathSpecResolveRelativeTo(t *testing.T) {
	t.Run("relative path joined and cleaned", func(t *testing.T) {
		spec := PathSpec{Path: "pages/../pages/intro.yaml", Name: "intro"}
		resolved := spec.ResolveRelativeTo("/docs/flyer")
		want := filepath.Join("/docs/flyer", "pages", "intro.yaml")
		if resolved.Path != want {
			t.Errorf("Path = %q, want %q", resolved.Path, want)
		}
		if resolved.Name != "intro" {
			t.Errorf("Name = %q, want intro (preserved)", resolved.Name)
		}
	})

	t.Run("absolute path unchanged", func(t *testing.T) {
		spec := PathSpec{Path: "/abs/intro.yaml", Name: "intro"}
		resolved := spec.ResolveRelativeTo("/docs")
		if resolved != spec {
			t.Errorf("resolved = %+v, want structurally equal to original", resolved)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		spec := PathSpec{Path: "intro.yaml", Name: "intro"}
		once := spec.ResolveRelativeTo("/docs")
		twice := once.ResolveRelativeTo("/elsewhere")
		if once != twice {
			t.Errorf("second resolve changed path: %+v != %+v", once, twice)
		}
	})

	t.Run("original untouched", func(t *testing.T) {
		spec := PathSpec{Path: "intro.yaml", Name: "intro"}
		_ = spec.ResolveRelativeTo("/docs")
		if spec.Path != "intro.yaml" {
			t.Errorf("original mutated: %+v", spec)
		}
	})
}
