package pdfbake

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/lvillar/gofpdf/pageops"
)

// SVG conversion backend names.
const (
	BackendInkscape = "inkscape"
	BackendRSVG     = "rsvg-convert"
)

// DefaultSVGBackend is used when a document does not configure
// svg2pdf_backend.
const DefaultSVGBackend = BackendRSVG

// DefaultCompressionDPI is the raster resolution Ghostscript uses when
// compressing a finished document.
const DefaultCompressionDPI = 300

// CommandRunner abstracts external tool execution to enable testing
// without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// SVGConverter converts rendered SVG files to single-page PDFs through
// an external backend. The configuration core only hands it a path in,
// a path out and a backend name; SVG semantics stay outside this tool.
type SVGConverter struct {
	Runner CommandRunner
}

// NewSVGConverter creates an SVGConverter with a real command runner.
func NewSVGConverter() *SVGConverter {
	return &SVGConverter{Runner: &ExecRunner{}}
}

// Convert turns svgPath into pdfPath using the named backend and
// returns pdfPath. An empty backend selects the default.
func (c *SVGConverter) Convert(ctx context.Context, svgPath, pdfPath, backend string) (string, error) {
	if backend == "" {
		backend = DefaultSVGBackend
	}

	var args []string
	switch backend {
	case BackendInkscape:
		args = []string{"--export-filename=" + pdfPath, svgPath}
	case BackendRSVG:
		args = []string{"--format=pdf", "--output", pdfPath, svgPath}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}

	_, stderr, err := c.Runner.Run(ctx, backend, args...)
	if err != nil {
		return "", fmt.Errorf("%w: %s using %s: %v (%s)",
			ErrSVGConversion, svgPath, backend, err, strings.TrimSpace(stderr))
	}
	return pdfPath, nil
}

// CombineFunc concatenates page PDFs into one output file and returns
// its path. CombinePDFs is the production implementation.
type CombineFunc func(pdfFiles []string, outputFile string) (string, error)

// CombinePDFs concatenates the page PDFs, in order, into outputFile
// and returns its path.
func CombinePDFs(pdfFiles []string, outputFile string) (string, error) {
	if len(pdfFiles) == 0 {
		return "", fmt.Errorf("%w: no PDF files provided to combine", ErrPDFCombine)
	}
	if err := pageops.MergeFiles(outputFile, pdfFiles...); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPDFCombine, err)
	}
	return outputFile, nil
}

// PDFCompressor shrinks a finished PDF through Ghostscript.
type PDFCompressor struct {
	Runner CommandRunner
	DPI    int
}

// NewPDFCompressor creates a PDFCompressor with a real command runner
// and the default resolution.
func NewPDFCompressor() *PDFCompressor {
	return &PDFCompressor{Runner: &ExecRunner{}, DPI: DefaultCompressionDPI}
}

// Compress writes a compressed copy of inputPDF to outputPDF and
// returns its path.
func (c *PDFCompressor) Compress(ctx context.Context, inputPDF, outputPDF string) (string, error) {
	dpi := c.DPI
	if dpi <= 0 {
		dpi = DefaultCompressionDPI
	}

	_, stderr, err := c.Runner.Run(ctx, "gs",
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.7",
		"-dPDFSETTINGS=/printer",
		fmt.Sprintf("-r%d", dpi),
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-sOutputFile="+outputPDF,
		inputPDF,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v (%s)", ErrPDFCompression, err, strings.TrimSpace(stderr))
	}
	return outputPDF, nil
}
