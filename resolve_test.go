package pdfbake

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestResolveVariables(t *testing.T) {
	render := TemplateRenderFunc()

	t.Run("no expressions is a no-op", func(t *testing.T) {
		s := Settings{
			"title":  "Flyer",
			"count":  3,
			"nested": map[string]any{"a": "plain"},
		}
		want := s.Clone()

		if err := s.ResolveVariables(render, DefaultMaxIterations); err != nil {
			t.Fatalf("ResolveVariables() error = %v", err)
		}
		if !reflect.DeepEqual(map[string]any(s), map[string]any(want)) {
			t.Errorf("settings changed: %v, want %v", s, want)
		}
	})

	t.Run("simple reference", func(t *testing.T) {
		s := Settings{
			"client":   "ACME",
			"filename": "{{ .client }}_flyer",
		}
		if err := s.ResolveVariables(render, DefaultMaxIterations); err != nil {
			t.Fatalf("ResolveVariables() error = %v", err)
		}
		if s["filename"] != "ACME_flyer" {
			t.Errorf("filename = %v, want ACME_flyer", s["filename"])
		}
	})

	t.Run("nested values and lists", func(t *testing.T) {
		s := Settings{
			"edition": "spring",
			"meta": map[string]any{
				"subject": "{{ .edition }} catalogue",
				"tags":    []any{"{{ .edition }}", "pdf"},
			},
		}
		if err := s.ResolveVariables(render, DefaultMaxIterations); err != nil {
			t.Fatalf("ResolveVariables() error = %v", err)
		}
		meta := s["meta"].(map[string]any)
		if meta["subject"] != "spring catalogue" {
			t.Errorf("subject = %v, want spring catalogue", meta["subject"])
		}
		if tags := meta["tags"].([]any); tags[0] != "spring" {
			t.Errorf("tags[0] = %v, want spring", tags[0])
		}
	})

	t.Run("forward reference chain resolves", func(t *testing.T) {
		s := Settings{
			"a": "{{ .b }}",
			"b": "{{ .c }}",
			"c": "{{ .d }}",
			"d": "done",
		}
		if err := s.ResolveVariables(render, DefaultMaxIterations); err != nil {
			t.Fatalf("ResolveVariables() error = %v", err)
		}
		for _, key := range []string{"a", "b", "c"} {
			if s[key] != "done" {
				t.Errorf("%s = %v, want done", key, s[key])
			}
		}
	})

	t.Run("filters apply", func(t *testing.T) {
		s := Settings{
			"variant":  map[string]any{"name": "Premium"},
			"filename": "{{ .variant.name | lower }}_edition",
		}
		if err := s.ResolveVariables(render, DefaultMaxIterations); err != nil {
			t.Fatalf("ResolveVariables() error = %v", err)
		}
		if s["filename"] != "premium_edition" {
			t.Errorf("filename = %v, want premium_edition", s["filename"])
		}
	})

	t.Run("two-cycle fails with circular reference", func(t *testing.T) {
		s := Settings{
			"a": "{{ .b }}",
			"b": "{{ .a }}",
		}
		err := s.ResolveVariables(render, DefaultMaxIterations)
		if !errors.Is(err, ErrUnresolvedVariables) {
			t.Errorf("error = %v, want ErrUnresolvedVariables", err)
		}
	})

	t.Run("self reference fails", func(t *testing.T) {
		s := Settings{"a": "prefix {{ .a }}"}
		err := s.ResolveVariables(render, DefaultMaxIterations)
		if !errors.Is(err, ErrUnresolvedVariables) {
			t.Errorf("error = %v, want ErrUnresolvedVariables", err)
		}
	})

	t.Run("missing key never resolves", func(t *testing.T) {
		s := Settings{"a": "{{ .nope }}"}
		err := s.ResolveVariables(render, DefaultMaxIterations)
		if !errors.Is(err, ErrUnresolvedVariables) {
			t.Errorf("error = %v, want ErrUnresolvedVariables", err)
		}
	})

	t.Run("parse error is immediate", func(t *testing.T) {
		s := Settings{"a": "{{ .b "}
		err := s.ResolveVariables(render, DefaultMaxIterations)
		if !errors.Is(err, ErrRender) {
			t.Errorf("error = %v, want ErrRender", err)
		}
	})

	t.Run("chain of N resolves within N iterations", func(t *testing.T) {
		const n = 8
		s := Settings{"k0": "base"}
		for i := 1; i <= n; i++ {
			s[fmt.Sprintf("k%d", i)] = fmt.Sprintf("{{ .k%d }}", i-1)
		}
		if err := s.ResolveVariables(render, n+1); err != nil {
			t.Fatalf("ResolveVariables() error = %v", err)
		}
		if s[fmt.Sprintf("k%d", n)] != "base" {
			t.Errorf("k%d = %v, want base", n, s[fmt.Sprintf("k%d", n)])
		}
	})

	t.Run("custom render function is honored", func(t *testing.T) {
		upper := func(value string, _ map[string]any) (string, error) {
			return "RESOLVED", nil
		}
		s := Settings{"a": "{{ anything }}"}
		if err := s.ResolveVariables(upper, DefaultMaxIterations); err != nil {
			t.Fatalf("ResolveVariables() error = %v", err)
		}
		if s["a"] != "RESOLVED" {
			t.Errorf("a = %v, want RESOLVED", s["a"])
		}
	})
}
