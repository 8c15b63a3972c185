package pdfbake

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pdfbake/pdfbake/internal/fileutil"
	"github.com/pdfbake/pdfbake/internal/yamlutil"
)

// DefaultDocumentConfigFile is used when a document location names a
// directory rather than a file.
const DefaultDocumentConfigFile = "config.yaml"

// DefaultCustomBakeScript is the conventional name of a custom
// processing script next to a document's config file.
const DefaultCustomBakeScript = "bake"

// DefaultPageSuffix is appended to page paths given without extension.
const DefaultPageSuffix = ".yaml"

// Keys of the document-level fixed schema; everything else is opaque
// user-defined data passed through to page rendering.
var documentSchemaKeys = []string{
	"config_path", "name", "filename", "directories",
	"pages", "variants", "is_variant", "variant", "custom_bake",
	"svg2pdf_backend", "compress_pdf", "keep_build",
}

// DocumentConfig is the configuration of one document, or of one
// materialized variant of a document (IsVariant distinguishes the two;
// the shapes are identical except that a variant may not itself carry
// variants).
type DocumentConfig struct {
	ConfigPath  PathSpec
	Name        string
	Filename    string
	Directories Directories
	Pages       []PathSpec
	Variants    []*DocumentConfig
	IsVariant   bool
	Variant     Settings  // variant fields, set on materialized variants
	CustomBake  *PathSpec // nil when no custom processing script
	Settings    Settings

	logger *slog.Logger
}

// LoadDocumentConfig reads a document's YAML and layers it on top of
// the settings inherited from the run level (document wins). The
// location may name a directory, in which case the conventional config
// file inside it is used while the display name is kept.
func LoadDocumentConfig(configPath PathSpec, inherited Settings, logger *slog.Logger) (*DocumentConfig, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if configPath.Path == "" {
		return nil, fmt.Errorf("%w: document %q has no path", ErrInvalidPathSpec, configPath.Name)
	}
	if fileutil.DirExists(configPath.Path) {
		// Change path but not name.
		configPath.Path = filepath.Join(configPath.Path, DefaultDocumentConfigFile)
	}
	if !fileutil.FileExists(configPath.Path) {
		return nil, fmt.Errorf("%w: document %q at %s", ErrConfigNotFound, configPath.Name, configPath.Path)
	}

	data, err := yamlutil.MapFromFile(configPath.Path)
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", configPath.Name, err)
	}

	merged := inherited.DeepMerge(data)
	merged["config_path"] = configPath.asMap()
	if merged.getString("name") == "" {
		merged["name"] = configPath.Name
	}
	if dirMap, ok := merged["directories"].(map[string]any); ok {
		dirMap["base"] = filepath.Dir(configPath.Path)
	} else {
		merged["directories"] = map[string]any{"base": filepath.Dir(configPath.Path)}
	}

	return newDocumentConfig(merged, logger)
}

// newDocumentConfig is the validating constructor shared by loading,
// merging and variant materialization. It extracts typed fields from
// the settings mapping, resolves paths, enforces the pages-or-variants
// invariant and materializes variants.
func newDocumentConfig(settings Settings, logger *slog.Logger) (*DocumentConfig, error) {
	d := &DocumentConfig{
		Settings: settings,
		logger:   logger,
	}

	if v, ok := settings["config_path"]; ok {
		spec, err := NewPathSpec(v)
		if err != nil {
			return nil, err
		}
		d.ConfigPath = spec
	}
	d.Name = settings.getString("name")
	d.IsVariant = settings.getBool("is_variant")
	if v, ok := settings["variant"].(map[string]any); ok {
		d.Variant = Settings(v)
	}

	var dirs Directories
	if err := settings.decodeField("directories", &dirs); err != nil {
		return nil, fmt.Errorf("parsing directories of %s: %w", d.displayName(), err)
	}
	dirs, err := dirs.WithBase(dirs.Base)
	if err != nil {
		return nil, err
	}
	dirs.Pages = dirs.Resolve(dirs.Pages)
	d.Directories = dirs
	settings["directories"] = dirs.asMap()

	d.Filename = settings.getString("filename")
	if d.Filename == "" {
		d.Filename = d.Name
		settings["filename"] = d.Name
	}

	pages, err := NewPathSpecList(settings["pages"])
	if err != nil {
		return nil, fmt.Errorf("parsing pages of %s: %w", d.displayName(), err)
	}
	for i := range pages {
		pages[i] = resolvePagePath(pages[i], dirs)
	}
	d.Pages = pages
	if len(pages) > 0 {
		resolved := make([]any, len(pages))
		for i, p := range pages {
			resolved[i] = p.asMap()
		}
		settings["pages"] = resolved
	}

	if err := d.resolveCustomBake(); err != nil {
		return nil, err
	}

	rawVariants, _ := settings["variants"].([]any)
	if err := d.checkPagesAndVariants(rawVariants); err != nil {
		return nil, err
	}
	if !d.IsVariant {
		d.Variants = d.materializeVariants(rawVariants)
	}

	return d, nil
}

// resolvePagePath applies the page location rules: a missing suffix
// defaults to .yaml; a bare name is resolved against the pages
// directory; a multi-segment or absolute path is resolved against the
// document root.
func resolvePagePath(p PathSpec, dirs Directories) PathSpec {
	path := p.Path
	if path == "" {
		// Forward declaration: synthesize the path from the name.
		path = p.Name
	}
	path = fileutil.EnsureSuffix(path, DefaultPageSuffix)
	spec := PathSpec{Path: path, Name: p.Name}
	if fileutil.IsBareName(path) {
		return spec.ResolveRelativeTo(dirs.Pages)
	}
	return spec.ResolveRelativeTo(dirs.Base)
}

// resolveCustomBake records an explicit custom_bake setting or, absent
// one, auto-detects the conventional executable next to the document's
// config file. Its presence makes the document delegate to the custom
// processing hook instead of the standard page pipeline.
func (d *DocumentConfig) resolveCustomBake() error {
	if v, ok := d.Settings["custom_bake"]; ok && v != nil {
		spec, err := NewPathSpec(v)
		if err != nil {
			return fmt.Errorf("custom_bake of %s: %w", d.displayName(), err)
		}
		resolved := spec.ResolveRelativeTo(d.Directories.Base)
		d.CustomBake = &resolved
		return nil
	}

	candidate := filepath.Join(d.Directories.Base, DefaultCustomBakeScript)
	if fileutil.IsExecutable(candidate) {
		d.CustomBake = &PathSpec{Path: candidate, Name: DefaultCustomBakeScript}
	}
	return nil
}

// checkPagesAndVariants enforces the level invariant: a document needs
// pages or variants, a variant needs pages, and a variant may not
// contain variants itself.
func (d *DocumentConfig) checkPagesAndVariants(rawVariants []any) error {
	if d.IsVariant && len(rawVariants) > 0 {
		return fmt.Errorf("%w: %s", ErrVariantNested, d.displayName())
	}
	if len(rawVariants) > 0 {
		if len(d.Pages) == 0 {
			d.logger.Debug("pages will be determined per variant", "document", d.Name)
		}
		return nil
	}
	if len(d.Pages) == 0 {
		return fmt.Errorf("%w of %s", ErrNoPagesOrVariants, d.displayName())
	}
	return nil
}

// materializeVariants builds one DocumentConfig per declared variant by
// layering the document's variant-inherited settings with the variant's
// own overrides. A variant that fails validation is skipped with a
// warning; the document still produces its other, valid variants.
// Declaration order is preserved; duplicate names are not deduplicated.
func (d *DocumentConfig) materializeVariants(rawVariants []any) []*DocumentConfig {
	variants := make([]*DocumentConfig, 0, len(rawVariants))
	for _, raw := range rawVariants {
		variantData, ok := raw.(map[string]any)
		if !ok {
			d.logger.Warn("skipping invalid variant: not a mapping",
				"document", d.Name, "variant", fmt.Sprint(raw))
			continue
		}
		name, _ := variantData["name"].(string)
		if name == "" {
			d.logger.Warn("skipping invalid variant",
				"document", d.Name, "error", ErrVariantUnnamed)
			continue
		}

		variant, err := d.materializeVariant(variantData)
		if err != nil {
			d.logger.Warn("skipping invalid variant",
				"document", d.Name, "variant", name, "error", err)
			continue
		}
		variants = append(variants, variant)
	}
	return variants
}

func (d *DocumentConfig) materializeVariant(variantData map[string]any) (*DocumentConfig, error) {
	docData := d.VariantSettings()
	if pages, ok := variantData["pages"].([]any); ok && len(pages) > 0 {
		docData["pages"] = deepCopyValue(pages)
	}
	// Inject the variant's declared fields so page templates can
	// reference them (variant.name and friends).
	injected := deepCopyValue(variantData).(map[string]any)
	injected["directories"] = deepCopyValue(docData["directories"])
	docData["variant"] = injected

	variant, err := newDocumentConfig(docData, d.logger)
	if err != nil {
		return nil, err
	}
	// Merge the variant's own overrides, but never overwrite the
	// document name; the variant name lives under variant.name.
	overrides := Settings(variantData).Without("name")
	return variant.Merge(overrides)
}

// Merge layers overrides on top of the document's settings and returns
// a new, re-validated DocumentConfig. Re-validation guarantees the
// merged result still satisfies the level invariants.
func (d *DocumentConfig) Merge(overrides map[string]any) (*DocumentConfig, error) {
	return newDocumentConfig(d.Settings.DeepMerge(overrides), d.logger)
}

// ResolveVariables renders template expressions in all settings to a
// fixed point and returns a new, re-validated DocumentConfig.
func (d *DocumentConfig) ResolveVariables() (*DocumentConfig, error) {
	resolved := d.Settings.Clone()
	if err := resolved.ResolveVariables(TemplateRenderFunc(), DefaultMaxIterations); err != nil {
		return nil, fmt.Errorf("%s: %w", d.displayName(), err)
	}
	return newDocumentConfig(resolved, d.logger)
}

// VariantSettings returns the settings a variant inherits from its
// document: everything except the config location and the variants
// declaration, with the variant marker set.
func (d *DocumentConfig) VariantSettings() Settings {
	settings := d.Settings.Without("config_path", "variants")
	settings["is_variant"] = true
	return settings
}

// PageSettings returns the settings a page inherits from its owning
// document or variant. The templates and images directories are
// resolved here because the page level no longer substitutes a base.
func (d *DocumentConfig) PageSettings() Settings {
	settings := d.Settings.Without("config_path", "variants", "pages")
	if dirMap, ok := settings["directories"].(map[string]any); ok {
		dirMap["templates"] = d.Directories.Resolve(d.Directories.Templates)
		dirMap["images"] = d.Directories.Resolve(d.Directories.Images)
	}
	return settings
}

// UserDefinedSettings returns the keys outside the document schema.
func (d *DocumentConfig) UserDefinedSettings() Settings {
	return d.Settings.UserDefined(documentSchemaKeys...)
}

// Readable returns a truncated diagnostic dump of the settings.
func (d *DocumentConfig) Readable(maxChars int) string {
	return d.Settings.Readable(maxChars)
}

// Backend returns the configured SVG conversion backend name, empty
// when unset (the converter applies its default).
func (d *DocumentConfig) Backend() string {
	return d.Settings.getString("svg2pdf_backend")
}

// CompressPDF reports whether the finished document should be
// compressed.
func (d *DocumentConfig) CompressPDF() bool {
	return d.Settings.getBool("compress_pdf")
}

// KeepBuild reports whether build artifacts should be kept after
// processing.
func (d *DocumentConfig) KeepBuild() bool {
	return d.Settings.getBool("keep_build")
}

// displayName identifies the document or variant in error messages.
func (d *DocumentConfig) displayName() string {
	if d.IsVariant {
		variantName := ""
		if d.Variant != nil {
			variantName = d.Variant.getString("name")
		}
		return fmt.Sprintf("%q variant %q", d.Name, variantName)
	}
	return fmt.Sprintf("document %q", d.Name)
}

// logTrace dumps the full (truncated) settings at trace level.
func (d *DocumentConfig) logTrace(msg string) {
	d.logger.Log(context.Background(), LevelTrace, msg,
		"name", d.Name, "settings", d.Settings.Readable(DefaultReadableMaxChars))
}
