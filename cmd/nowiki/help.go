package main

import (
	"fmt"
	"io"
	"strings"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nowiki <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  decode      Convert wikitext to HTML")
	fmt.Fprintln(w, "  encode      Convert HTML back to wikitext")
	fmt.Fprintln(w, "  roundtrip   Check that wikitext survives decode and encode")
	fmt.Fprintln(w, "  config      Print the effective configuration")
	fmt.Fprintln(w, "  doctor      Check the environment")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'nowiki help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for decode, encode and roundtrip.
func printConvertUsage(w io.Writer, cmd direction) {
	fmt.Fprintf(w, "Usage: nowiki %s [input] [flags]\n", cmd)
	fmt.Fprintln(w)
	switch cmd {
	case dirDecode:
		fmt.Fprintln(w, "Convert wikitext to HTML. <nowiki> regions become mw:Nowiki spans.")
	case dirEncode:
		fmt.Fprintln(w, "Convert HTML produced by decode back to wikitext.")
	case dirRoundTrip:
		fmt.Fprintln(w, "Decode then encode wikitext and report the first byte that changed.")
		fmt.Fprintln(w, "Exits with status 4 when any input does not survive the round trip.")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintf(w, "  input    File or directory (%s), or - for stdin\n", strings.Join(cmd.inputExtensions(), ", "))
	fmt.Fprintln(w, "           Optional if config has input.defaultDir or stdin is piped")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	if cmd != dirRoundTrip {
		fmt.Fprintln(w, "  -o, --output <path>            Output file or directory")
	}
	fmt.Fprintln(w, "  -c, --config <name>            Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>              Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>              Overall timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	if cmd != dirEncode {
		fmt.Fprintln(w, "Page:")
		fmt.Fprintln(w, "      --title <s>                Page title")
		fmt.Fprintln(w, "      --ns <n>                   Namespace number (-2 or greater)")
		fmt.Fprintln(w, "      --page-id <n>              Page ID")
		fmt.Fprintln(w, "      --language <s>             Page language code (default: en)")
		fmt.Fprintln(w, "      --language-dir <s>         Text direction: ltr, rtl")
		fmt.Fprintln(w, "      --content-model <s>        Content model (default: wikitext)")
		fmt.Fprintln(w, "      --revision-id <n>          Revision ID")
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "Output:")
	switch cmd {
	case dirDecode:
		fmt.Fprintln(w, "      --standalone               Wrap HTML in a full document")
		fmt.Fprintln(w, "      --style <name>             Stylesheet for --standalone (default: default)")
		fmt.Fprintln(w, "      --no-style                 Leave --standalone documents unstyled")
		fmt.Fprintln(w, "      --template <name>          Document template for --standalone")
		fmt.Fprintln(w, "      --assets-dir <path>        Directory with styles/ and templates/")
		fmt.Fprintln(w, "      --highlight                Colorize HTML written to a terminal")
		fmt.Fprintln(w, "      --normalize-line-endings   Rewrite CRLF and CR to LF")
	case dirEncode:
		fmt.Fprintln(w, "      --strip-trailing-nowikis   Drop trailing <nowiki/> markers")
	case dirRoundTrip:
		fmt.Fprintln(w, "      --normalize-line-endings   Rewrite CRLF and CR to LF")
		fmt.Fprintln(w, "      --strip-trailing-nowikis   Drop trailing <nowiki/> markers")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                    Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                  Show debug logs and timing")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nowiki config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration as YAML.")
	fmt.Fprintln(w, "Precedence: flags > NOWIKI_* environment > config file > defaults.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Accepts the same flags as decode.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nowiki doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check configuration files, environment variables and terminal support.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json   Print results as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case string(dirDecode), string(dirEncode), string(dirRoundTrip):
		printConvertUsage(env.Stdout, direction(args[0]))
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: nowiki version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: nowiki help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: unknown command: %s", ErrInvalidFlags, args[0])
	}
	return nil
}
