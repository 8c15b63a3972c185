package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	pdfbake "github.com/pdfbake/pdfbake"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	flags, positional, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	}

	if flags.version {
		fmt.Println("pdfbake " + Version)
		return ExitSuccess
	}
	if len(positional) == 0 {
		printUsage(os.Stderr)
		return ExitUsage
	}
	if positional[0] == "doctor" {
		return runDoctorCmd(positional[1:], os.Stdout)
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.verbose || flags.trace {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	baker, err := pdfbake.NewBaker(positional[0], pdfbake.Options{
		Quiet:     flags.quiet,
		Verbose:   flags.verbose,
		Trace:     flags.trace,
		KeepBuild: flags.keepBuild,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}

	result, err := baker.Bake(ctx, positional[1:]...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}
	if !result.OK() {
		return ExitFailure
	}
	return ExitSuccess
}
