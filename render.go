package pdfbake

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/pdfbake/pdfbake/internal/yamlutil"
)

// templateFuncs returns the filter functions available inside template
// expressions, both in config values ({{ .client | lower }}) and in
// SVG page templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"lower":    strings.ToLower,
		"upper":    strings.ToUpper,
		"join":     func(sep string, items []any) string { return joinAny(sep, items) },
		"wordwrap": Wordwrap,
	}
}

func joinAny(sep string, items []any) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprint(item)
	}
	return strings.Join(parts, sep)
}

// TemplateRenderFunc returns the default RenderFunc for configuration
// value resolution, backed by text/template. A value that fails to
// execute (typically a forward reference to a key that is itself still
// unresolved) is returned unchanged so a later fixed-point pass can
// retry it; a value that fails to parse is a hard error.
func TemplateRenderFunc() RenderFunc {
	funcs := templateFuncs()
	return func(value string, context map[string]any) (string, error) {
		tmpl, err := template.New("value").Funcs(funcs).Option("missingkey=error").Parse(value)
		if err != nil {
			return "", fmt.Errorf("%w: value %q: %v", ErrRender, value, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, context); err != nil {
			return value, nil
		}
		return buf.String(), nil
	}
}

// Renderer renders SVG page templates with fully resolved page
// settings. It is a collaborator of the configuration core: it receives
// the merged-and-resolved settings mapping, the resolved template
// location and the images directory, and returns markup the core never
// inspects.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderPage renders the page's template with the page settings as
// context. Images listed in the settings are encoded to base64 data
// URIs from the images directory before rendering, and <highlight>
// tags in the output are rewritten using style.highlight_color.
func (r *Renderer) RenderPage(page *PageConfig) (string, error) {
	data, err := os.ReadFile(page.Template.Path) // #nosec G304 -- template path comes from user config
	if err != nil {
		return "", fmt.Errorf("%w: template %q for page %q: %v",
			ErrRender, page.Template.Path, page.Name, err)
	}

	context := page.Settings.Clone()
	if images, ok := context["images"]; ok {
		encoded, err := encodeImages(images, page.ImagesDir())
		if err != nil {
			return "", err
		}
		context["images"] = encoded
	}

	tmpl, err := template.New(filepath.Base(page.Template.Path)).
		Funcs(templateFuncs()).
		Parse(string(data))
	if err != nil {
		return "", fmt.Errorf("%w: template %q: %v", ErrRender, page.Template.Name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(context)); err != nil {
		return "", fmt.Errorf("%w: page %q: %v", ErrRender, page.Name, err)
	}

	return renderHighlight(buf.String(), context), nil
}

var highlightRe = regexp.MustCompile(`(?s)<highlight>(.*?)</highlight>`)

// renderHighlight rewrites <highlight> tags in rendered SVG markup into
// tspan elements filled with style.highlight_color. Tags nest; inner
// tags are rewritten first. Without a configured color the markup is
// returned untouched.
func renderHighlight(rendered string, context map[string]any) string {
	style, ok := context["style"].(map[string]any)
	if !ok {
		return rendered
	}
	color, ok := style["highlight_color"].(string)
	if !ok || color == "" {
		return rendered
	}

	for highlightRe.MatchString(rendered) {
		rendered = highlightRe.ReplaceAllString(rendered,
			fmt.Sprintf(`<tspan style="fill:%s">$1</tspan>`, color))
	}
	return rendered
}

// encodeImages converts an images list from the settings mapping into
// ImageSpecs whose Data field holds a base64 data URI. The image name
// must exist inside imagesDir.
func encodeImages(value any, imagesDir string) ([]ImageSpec, error) {
	var specs []ImageSpec
	if err := yamlutil.Decode(value, &specs); err != nil {
		return nil, fmt.Errorf("decoding images: %w", err)
	}

	for i := range specs {
		if specs[i].Name == "" {
			return nil, fmt.Errorf("%w: image entry without a name", ErrImageNotFound)
		}
		if specs[i].Type == "" {
			specs[i].Type = "default"
		}
		data, err := encodeImage(specs[i].Name, imagesDir)
		if err != nil {
			return nil, err
		}
		specs[i].Data = data
	}
	return specs, nil
}

// encodeImage reads an image file and returns it as a base64 data URI.
func encodeImage(filename, imagesDir string) (string, error) {
	path := filepath.Join(imagesDir, filename)
	raw, err := os.ReadFile(path) // #nosec G304 -- image path comes from user config
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrImageNotFound, path)
		}
		return "", fmt.Errorf("reading image %s: %w", path, err)
	}

	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	encoded := base64.StdEncoding.EncodeToString(raw)
	return fmt.Sprintf("data:image/%s;base64,%s", ext, encoded), nil
}
