package pdfbake

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfbake/pdfbake/internal/fileutil"
)

// Options controls a Baker run.
type Options struct {
	// Quiet, Verbose and Trace select the log level (trace wins over
	// verbose, verbose over quiet). Ignored when Logger is set.
	Quiet   bool
	Verbose bool
	Trace   bool

	// KeepBuild leaves build artifacts in place for all documents,
	// regardless of their keep_build setting.
	KeepBuild bool

	// Logger overrides the logger built from the level flags.
	Logger *slog.Logger
}

// DocumentFailure records one document that could not be processed.
type DocumentFailure struct {
	Name string
	Err  error
}

// Result is the outcome of a Bake run: the output files written to the
// dist directory and the documents that failed. A failed document never
// aborts the run; callers inspect Failures to decide the exit status.
type Result struct {
	PDFs     []string
	Failures []DocumentFailure
}

// OK reports whether every processed document succeeded.
func (r *Result) OK() bool {
	return len(r.Failures) == 0
}

// Baker drives processing of all documents declared in a run
// configuration: loading, variant materialization, page rendering, SVG
// conversion, combining and compression. The exported collaborator
// fields can be replaced before Bake for testing.
type Baker struct {
	Renderer     *Renderer
	Converter    *SVGConverter
	Compressor   *PDFCompressor
	Combine      CombineFunc
	ScriptRunner BakeScriptRunner

	run    *RunConfig
	opts   Options
	logger *slog.Logger
}

// NewBaker loads the run configuration at configFile and prepares a
// Baker with real external-tool runners.
func NewBaker(configFile string, opts Options) (*Baker, error) {
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(os.Stderr, opts.Quiet, opts.Verbose, opts.Trace)
	}

	run, err := LoadRunConfig(configFile, logger)
	if err != nil {
		return nil, err
	}

	return &Baker{
		Renderer:     NewRenderer(),
		Converter:    NewSVGConverter(),
		Compressor:   NewPDFCompressor(),
		Combine:      CombinePDFs,
		ScriptRunner: execScriptRunner{},
		run:          run,
		opts:         opts,
		logger:       logger,
	}, nil
}

// Run returns the loaded run configuration.
func (b *Baker) Run() *RunConfig {
	return b.run
}

// Bake processes the named documents, or all declared documents when no
// names are given. Documents are processed sequentially in declaration
// order; a failing document is recorded in the Result and processing
// continues with the next one. The returned error is reserved for
// failures of the run itself, such as an unknown document name.
func (b *Baker) Bake(ctx context.Context, documentNames ...string) (*Result, error) {
	docs, err := b.selectDocuments(documentNames)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, spec := range docs {
		logSection(b.logger, slog.LevelInfo, "Processing document", "name", spec.Name)
		pdfs, err := b.processDocument(ctx, spec)
		if err != nil {
			b.logger.Error("document failed", "name", spec.Name, "error", err)
			result.Failures = append(result.Failures, DocumentFailure{Name: spec.Name, Err: err})
			continue
		}
		result.PDFs = append(result.PDFs, pdfs...)
	}

	if result.OK() {
		b.logger.Info("finished", "outputs", len(result.PDFs))
	} else {
		b.logger.Error("finished with failures",
			"outputs", len(result.PDFs), "failed", len(result.Failures))
	}
	return result, nil
}

// selectDocuments filters the run's document list by name, keeping
// declaration order. An unknown name aborts the run before any document
// is processed.
func (b *Baker) selectDocuments(names []string) ([]PathSpec, error) {
	if len(names) == 0 {
		return b.run.Documents, nil
	}

	byName := make(map[string]PathSpec, len(b.run.Documents))
	available := make([]string, 0, len(b.run.Documents))
	for _, spec := range b.run.Documents {
		byName[spec.Name] = spec
		available = append(available, spec.Name)
	}

	selected := make([]PathSpec, 0, len(names))
	for _, name := range names {
		spec, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q (available: %s)",
				ErrDocumentNotFound, name, strings.Join(available, ", "))
		}
		selected = append(selected, spec)
	}
	return selected, nil
}

func (b *Baker) processDocument(ctx context.Context, spec PathSpec) ([]string, error) {
	doc, err := LoadDocumentConfig(spec, b.run.DocumentSettings(), b.logger)
	if err != nil {
		return nil, err
	}
	doc.logTrace("loaded document configuration")

	buildDir := doc.Directories.Resolve(doc.Directories.Build)
	distDir := doc.Directories.Resolve(doc.Directories.Dist)
	if err := ensureDirs(buildDir, distDir); err != nil {
		return nil, err
	}

	if doc.CustomBake != nil {
		b.logger.Info("delegating to custom bake script",
			"document", doc.Name, "script", doc.CustomBake.Path)
		return RunCustomBake(ctx, doc, b.ScriptRunner)
	}

	units := []*DocumentConfig{doc}
	if len(doc.Variants) > 0 {
		units = doc.Variants
	}

	var pdfs []string
	for _, unit := range units {
		if unit.IsVariant {
			logSubsection(b.logger, slog.LevelInfo, "Processing variant",
				"document", unit.Name, "variant", unit.Variant.getString("name"))
		}
		pdf, err := b.processUnit(ctx, unit)
		if err != nil {
			return nil, err
		}
		pdfs = append(pdfs, pdf)
	}
	return pdfs, nil
}

// processUnit renders and converts every page of one document or
// variant, combines the page PDFs and places the finished file in the
// dist directory. Build artifacts are removed on success unless
// keep_build is set; on failure they are left in place for inspection.
func (b *Baker) processUnit(ctx context.Context, unit *DocumentConfig) (string, error) {
	resolved, err := unit.ResolveVariables()
	if err != nil {
		return "", err
	}
	resolved.logTrace("resolved settings")

	buildDir := resolved.Directories.Resolve(resolved.Directories.Build)
	distDir := resolved.Directories.Resolve(resolved.Directories.Dist)
	if err := ensureDirs(buildDir, distDir); err != nil {
		return "", err
	}

	inherited := resolved.PageSettings()
	var created, pagePDFs []string

	for i, pageSpec := range resolved.Pages {
		page, err := LoadPageConfig(pageSpec, i+1, inherited, b.logger)
		if err != nil {
			return "", err
		}
		b.logger.Debug("rendering page",
			"page", page.Name, "number", page.PageNumber, "template", page.Template.Path)

		svg, err := b.Renderer.RenderPage(page)
		if err != nil {
			return "", err
		}

		base := fmt.Sprintf("%s_%03d", page.Name, page.PageNumber)
		svgPath := filepath.Join(buildDir, base+".svg")
		if err := os.WriteFile(svgPath, []byte(svg), 0o600); err != nil {
			return "", fmt.Errorf("writing %s: %w", svgPath, err)
		}
		created = append(created, svgPath)

		pdfPath, err := b.Converter.Convert(ctx, svgPath, filepath.Join(buildDir, base+".pdf"), resolved.Backend())
		if err != nil {
			return "", err
		}
		created = append(created, pdfPath)
		pagePDFs = append(pagePDFs, pdfPath)
	}

	combined, err := b.Combine(pagePDFs, filepath.Join(buildDir, resolved.Filename+".pdf"))
	if err != nil {
		return "", err
	}
	created = append(created, combined)

	distPath := filepath.Join(distDir, resolved.Filename+".pdf")
	if resolved.CompressPDF() {
		if _, err := b.Compressor.Compress(ctx, combined, distPath); err != nil {
			// Compression is best effort: warn and ship uncompressed.
			b.logger.Warn("compression failed, using uncompressed output",
				"document", resolved.Name, "error", err)
			if err := fileutil.MoveFile(combined, distPath); err != nil {
				return "", fmt.Errorf("moving %s to dist: %w", combined, err)
			}
		}
	} else {
		if err := fileutil.MoveFile(combined, distPath); err != nil {
			return "", fmt.Errorf("moving %s to dist: %w", combined, err)
		}
	}
	b.logger.Info("created", "pdf", distPath)

	if !b.opts.KeepBuild && !resolved.KeepBuild() {
		b.teardown(buildDir, created)
	}
	return distPath, nil
}

// teardown removes the build files this run created and, when that
// leaves the build directory empty, the directory itself. Files from
// other sources are never touched.
func (b *Baker) teardown(buildDir string, created []string) {
	for _, path := range created {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			b.logger.Warn("could not remove build file", "path", path, "error", err)
		}
	}
	if err := os.Remove(buildDir); err != nil && !os.IsNotExist(err) {
		b.logger.Warn("build directory not removed", "dir", buildDir, "error", err)
	}
}

func ensureDirs(paths ...string) error {
	for _, p := range paths {
		if err := os.MkdirAll(p, 0o750); err != nil {
			return fmt.Errorf("creating directory %s: %w", p, err)
		}
	}
	return nil
}
