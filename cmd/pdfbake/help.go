package main

import (
	"fmt"
	"io"
)

// printUsage writes the CLI usage text.
func printUsage(w io.Writer) {
	fmt.Fprintf(w, `pdfbake %s - generate PDF documents from YAML-configured SVG templates

Usage:
  pdfbake [flags] CONFIG [DOCUMENT...]

Arguments:
  CONFIG       main configuration file (YAML)
  DOCUMENT     names of documents to process (default: all)

Commands:
  doctor       check external tool availability (--json for machine output)

Flags:
  -q, --quiet        only show errors
  -v, --verbose      show debug output
  -t, --trace        show trace output with settings dumps
      --keep-build   keep build artifacts after processing
      --debug        shorthand for --trace --keep-build
      --version      print version and exit
  -h, --help         show this help

Exit codes:
  0  all documents processed
  1  one or more documents failed
  2  invalid invocation, config or document selection
`, Version)
}
