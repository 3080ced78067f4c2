package main

import (
	"errors"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page metadata flags.
type pageFlags struct {
	title        string
	ns           int
	pageID       int64
	language     string
	languageDir  string
	contentModel string
	revisionID   int64
}

// outputFlags holds output shaping flags.
type outputFlags struct {
	standalone           bool
	highlight            bool
	stripTrailingNowikis bool
	normalizeLineEndings bool
	style                string
	noStyle              bool
	template             string
	assetsDir            string
}

// convertFlags holds all flags for decode, encode and roundtrip.
type convertFlags struct {
	common  commonFlags
	output  string
	workers int
	timeout string
	page    pageFlags
	out     outputFlags

	// set records the flags given on the command line.
	set map[string]bool
}

// changed reports whether the named flag was given on the command line.
func (f *convertFlags) changed(name string) bool {
	return f.set[name]
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addPageFlags adds page metadata flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVar(&f.title, "title", "", "page title")
	fs.IntVar(&f.ns, "ns", 0, "namespace number (-2 or greater)")
	fs.Int64Var(&f.pageID, "page-id", 0, "page ID")
	fs.StringVar(&f.language, "language", "", "page language code (default: en)")
	fs.StringVar(&f.languageDir, "language-dir", "", "text direction: ltr, rtl")
	fs.StringVar(&f.contentModel, "content-model", "", "content model: wikitext, proofread-page, json, css, javascript, text")
	fs.Int64Var(&f.revisionID, "revision-id", 0, "revision ID")
}

// addOutputFlags adds output shaping flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.standalone, "standalone", false, "wrap decoded HTML in a full document")
	fs.BoolVar(&f.highlight, "highlight", false, "colorize HTML written to a terminal")
	fs.BoolVar(&f.stripTrailingNowikis, "strip-trailing-nowikis", false, "drop trailing <nowiki/> markers from encoded output")
	fs.BoolVar(&f.normalizeLineEndings, "normalize-line-endings", false, "rewrite CRLF and CR to LF before decoding")
	fs.StringVar(&f.style, "style", "", "stylesheet for --standalone (default: default)")
	fs.BoolVar(&f.noStyle, "no-style", false, "leave --standalone documents unstyled")
	fs.StringVar(&f.template, "template", "", "document template for --standalone (default: document)")
	fs.StringVar(&f.assetsDir, "assets-dir", "", "directory with styles/ and templates/ overrides")
}

// newConvertFlagSet registers every convert flag on a new FlagSet.
// Shared by parseConvertFlags and shell completion.
func newConvertFlagSet(name string, f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "overall timeout (e.g., 30s, 2m)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addOutputFlags(fs, &f.out)

	return fs
}

// parseConvertFlags parses flags for a convert command and returns positional args.
// Usage is written to w on -h and on parse errors; the caller reports the error.
func parseConvertFlags(cmd direction, args []string, w io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{set: make(map[string]bool)}
	fs := newConvertFlagSet(string(cmd), f)
	fs.SetOutput(w)
	fs.Usage = func() { printConvertUsage(w, cmd) }

	if err := fs.Parse(args); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fs.Usage()
		}
		return nil, nil, err
	}

	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	return f, fs.Args(), nil
}
