package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// cliFlags holds the parsed command line flags.
type cliFlags struct {
	quiet     bool
	verbose   bool
	trace     bool
	keepBuild bool
	debug     bool
	version   bool
}

// parseFlags parses the command line and returns the flags and the
// positional arguments (config file, then optional document names).
// --debug is shorthand for --trace --keep-build.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("pdfbake", flag.ContinueOnError)
	f := &cliFlags{}

	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug output")
	fs.BoolVarP(&f.trace, "trace", "t", false, "show trace output with settings dumps")
	fs.BoolVar(&f.keepBuild, "keep-build", false, "keep build artifacts after processing")
	fs.BoolVar(&f.debug, "debug", false, "shorthand for --trace --keep-build")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}

	if f.debug {
		f.trace = true
		f.keepBuild = true
	}
	return f, fs.Args(), nil
}
