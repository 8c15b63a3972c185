package pdfbake

import "errors"

// Sentinel errors for configuration loading and resolution.
var (
	ErrInvalidPathSpec     = errors.New("cannot determine path or name for path spec")
	ErrConfigNotFound      = errors.New("config file not found")
	ErrMissingDocuments    = errors.New(`key "documents" missing - is this the main configuration file?`)
	ErrNoPagesOrVariants   = errors.New("cannot determine pages")
	ErrVariantNested       = errors.New("a variant may not contain variants itself")
	ErrVariantUnnamed      = errors.New("a document variant needs a name")
	ErrMissingTemplate     = errors.New("page has no template")
	ErrUnresolvedVariables = errors.New("maximum iterations reached, possible circular reference")
	ErrRender              = errors.New("template rendering failed")
	ErrDocumentNotFound    = errors.New("document not found in configuration")

	// Collaborator errors (SVG conversion, PDF manipulation, custom bake).
	ErrSVGConversion  = errors.New("failed to convert SVG to PDF")
	ErrUnknownBackend = errors.New("unknown svg2pdf backend")
	ErrPDFCombine     = errors.New("failed to combine PDFs")
	ErrPDFCompression = errors.New("failed to compress PDF")
	ErrCustomBake     = errors.New("custom bake script failed")
	ErrImageNotFound  = errors.New("image not found")
)
