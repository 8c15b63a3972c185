package pdfbake

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pdfbake/pdfbake/internal/fileutil"
	"github.com/pdfbake/pdfbake/internal/yamlutil"
)

// Keys of the page-level fixed schema.
var pageSchemaKeys = []string{
	"config_path", "page_number", "template", "directories",
	"svg2pdf_backend", "compress_pdf", "keep_build",
}

// PageConfig is the configuration of one page: its own YAML layered on
// top of the owning document's or variant's resolved settings. The page
// number is not part of the YAML; it is assigned by the owner at
// materialization time and used purely for deterministic output
// ordering, not for identity.
type PageConfig struct {
	ConfigPath  PathSpec
	PageNumber  int
	Template    PathSpec
	Name        string
	Directories Directories
	Settings    Settings

	logger *slog.Logger
}

// LoadPageConfig reads a page's YAML, merges it over the inherited
// settings, resolves template variables to a fixed point and resolves
// the template location. A page without a template is a hard error
// naming the page and its owning document.
func LoadPageConfig(configPath PathSpec, pageNumber int, inherited Settings, logger *slog.Logger) (*PageConfig, error) {
	if logger == nil {
		logger = slog.Default()
	}
	owner := inherited.getString("name")

	if !fileutil.FileExists(configPath.Path) {
		return nil, fmt.Errorf("%w: page %q of document %q at %s",
			ErrConfigNotFound, configPath.Name, owner, configPath.Path)
	}
	data, err := yamlutil.MapFromFile(configPath.Path)
	if err != nil {
		return nil, fmt.Errorf("page %q of document %q: %w", configPath.Name, owner, err)
	}

	merged := inherited.DeepMerge(data)
	merged["config_path"] = configPath.asMap()
	merged["page_number"] = pageNumber
	if dirMap, ok := merged["directories"].(map[string]any); ok {
		dirMap["base"] = filepath.Dir(configPath.Path)
	} else {
		merged["directories"] = map[string]any{"base": filepath.Dir(configPath.Path)}
	}

	if err := merged.ResolveVariables(TemplateRenderFunc(), DefaultMaxIterations); err != nil {
		return nil, fmt.Errorf("page %q of document %q: %w", configPath.Name, owner, err)
	}

	p := &PageConfig{
		ConfigPath: configPath,
		PageNumber: pageNumber,
		Name:       fileutil.Stem(configPath.Path),
		Settings:   merged,
		logger:     logger,
	}

	var dirs Directories
	if err := merged.decodeField("directories", &dirs); err != nil {
		return nil, fmt.Errorf("parsing directories of page %q: %w", p.Name, err)
	}
	dirs, err = dirs.WithBase(dirs.Base)
	if err != nil {
		return nil, err
	}
	p.Directories = dirs

	templateValue, ok := merged["template"]
	if !ok || templateValue == nil {
		return nil, fmt.Errorf("%w: page %q in document %q", ErrMissingTemplate, p.Name, owner)
	}
	tmpl, err := NewPathSpec(templateValue)
	if err != nil {
		return nil, fmt.Errorf("template of page %q: %w", p.Name, err)
	}
	p.Template = resolveTemplatePath(tmpl, dirs)

	return p, nil
}

// resolveTemplatePath applies the template location rules: a bare name
// is resolved against the templates directory; a multi-segment or
// absolute path against the page's own directory. The resolved spec's
// name carries the full file name (not just the stem) because template
// engines load by file name.
func resolveTemplatePath(t PathSpec, dirs Directories) PathSpec {
	path := t.Path
	if path == "" {
		path = t.Name
	}
	var resolved PathSpec
	if fileutil.IsBareName(path) {
		resolved = PathSpec{Path: path}.ResolveRelativeTo(dirs.Resolve(dirs.Templates))
	} else {
		resolved = PathSpec{Path: path}.ResolveRelativeTo(dirs.Base)
	}
	resolved.Name = filepath.Base(resolved.Path)
	return resolved
}

// ImagesDir returns the absolute images directory for this page.
func (p *PageConfig) ImagesDir() string {
	return p.Directories.Resolve(p.Directories.Images)
}

// BuildDir returns the absolute build directory for this page.
func (p *PageConfig) BuildDir() string {
	return p.Directories.Resolve(p.Directories.Build)
}

// UserDefinedSettings returns the keys outside the page schema: exactly
// what the user put in YAML beyond what this tool understands.
func (p *PageConfig) UserDefinedSettings() Settings {
	return p.Settings.UserDefined(pageSchemaKeys...)
}

// Readable returns a truncated diagnostic dump of the settings.
func (p *PageConfig) Readable(maxChars int) string {
	return p.Settings.Readable(maxChars)
}
