package pdfbake

import (
	"fmt"
	"strings"
)

// DefaultMaxIterations caps fixed-point template resolution. The cap is
// the only bound on otherwise unbounded work: a self-reference or a
// reference cycle keeps producing changes forever.
const DefaultMaxIterations = 10

// RenderFunc evaluates one string value against the whole-entity
// context and returns the rendered result. The template-expression
// syntax is opaque to the resolution engine; an implementation that
// cannot yet evaluate a value (forward reference to a key that is
// itself unresolved) should return the value unchanged so a later pass
// can pick it up. A returned error aborts resolution immediately.
type RenderFunc func(value string, context map[string]any) (string, error)

// hasTemplateExpr reports whether a string still carries a template
// expression. Only the opening delimiter is checked; the expression
// syntax itself belongs to the render function.
func hasTemplateExpr(s string) bool {
	return strings.Contains(s, "{{")
}

// ResolveVariables renders template expressions in every string value
// anywhere in the mapping (including nested mappings and lists) using
// the entire current mapping as context, repeatedly, until a pass
// produces no further change or maxIterations is exhausted. The mapping
// is mutated in place.
//
// Configuration values may reference other configuration values at
// arbitrary depth and in arbitrary order (a filename referencing a
// variant name which is itself computed), so a single top-down pass is
// insufficient; fixed-point iteration with a hard cap terminates on
// operator error such as self-reference or mutual reference, failing
// with ErrUnresolvedVariables.
func (s Settings) ResolveVariables(render RenderFunc, maxIterations int) error {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	for range maxIterations {
		changed, err := resolvePass(map[string]any(s), map[string]any(s), render)
		if err != nil {
			return err
		}
		if !changed {
			break
		}
	}

	if unresolved := findUnresolved(map[string]any(s)); unresolved != "" {
		return fmt.Errorf("%w: %q", ErrUnresolvedVariables, unresolved)
	}
	return nil
}

// resolvePass walks one level of the structure, rendering strings that
// carry template expressions. Mappings and lists are mutated in place.
// Returns whether anything changed.
func resolvePass(node map[string]any, context map[string]any, render RenderFunc) (bool, error) {
	changed := false
	for k, v := range node {
		resolved, didChange, err := resolveValue(v, context, render)
		if err != nil {
			return false, err
		}
		if didChange {
			node[k] = resolved
			changed = true
		}
	}
	return changed, nil
}

func resolveValue(v any, context map[string]any, render RenderFunc) (any, bool, error) {
	switch val := v.(type) {
	case string:
		if !hasTemplateExpr(val) {
			return v, false, nil
		}
		rendered, err := render(val, context)
		if err != nil {
			return nil, false, err
		}
		return rendered, rendered != val, nil
	case map[string]any:
		changed, err := resolvePass(val, context, render)
		return val, changed, err
	case []any:
		changed := false
		for i, item := range val {
			resolved, didChange, err := resolveValue(item, context, render)
			if err != nil {
				return nil, false, err
			}
			if didChange {
				val[i] = resolved
				changed = true
			}
		}
		return val, changed, nil
	default:
		return v, false, nil
	}
}

// findUnresolved returns the first string value still carrying a
// template expression, or "" when none remain.
func findUnresolved(v any) string {
	switch val := v.(type) {
	case string:
		if hasTemplateExpr(val) {
			return val
		}
	case map[string]any:
		for _, item := range val {
			if found := findUnresolved(item); found != "" {
				return found
			}
		}
	case []any:
		for _, item := range val {
			if found := findUnresolved(item); found != "" {
				return found
			}
		}
	}
	return ""
}
