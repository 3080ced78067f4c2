package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-nowiki"
	"github.com/alnah/go-nowiki/internal/config"
	"github.com/alnah/go-nowiki/internal/fileutil"
	"github.com/alnah/go-nowiki/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

// commandNames lists the CLI commands in help order.
var commandNames = []string{
	string(dirDecode), string(dirEncode), string(dirRoundTrip),
	"config", "doctor", "completion", "version", "help",
}

func main() {
	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// hasVerboseFlag reports whether -v or --verbose appears before "--".
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

// isCommand reports whether s names a CLI command.
func isCommand(s string) bool {
	return slices.Contains(commandNames, s)
}

// runMain dispatches the command in args[1] and returns the exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "-h", "--help":
		cmd = "help"
	case "--version":
		cmd = "version"
	}

	if !isCommand(cmd) {
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
		if fileutil.HasExtension(cmd, dirDecode.inputExtensions()...) {
			fmt.Fprintf(env.Stderr, "  hint: run 'nowiki decode %s'\n", cmd)
		}
		fmt.Fprintln(env.Stderr)
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	var err error
	switch cmd {
	case string(dirDecode), string(dirEncode), string(dirRoundTrip):
		err = runConvertCmd(ctx, direction(cmd), rest, env)
	case "config":
		err = runConfigCmd(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "nowiki %s\n", Version)
	case "help":
		err = runHelp(rest, env)
	}

	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}

	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var mm *mismatchError
	switch {
	case errors.As(err, &mm) && mm.NUL:
		return hints.ForNULByte(mm.Offset)
	case errors.As(err, &mm):
		return hints.ForRoundTripMismatch(mm.Offset)
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err))
	case errors.Is(err, nowiki.ErrHTMLParse):
		return hints.ForHTMLInput()
	case errors.Is(err, nowiki.ErrInvalidPage), errors.Is(err, config.ErrInvalidValue):
		return hints.ForInvalidPage()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, nowiki.ErrStyleNotFound), errors.Is(err, nowiki.ErrTemplateNotFound),
		errors.Is(err, nowiki.ErrInvalidAssetPath), errors.Is(err, nowiki.ErrInvalidAssetName):
		return hints.ForAssets()
	default:
		return ""
	}
}

// triedPaths extracts the searched paths from a config-not-found error.
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}
