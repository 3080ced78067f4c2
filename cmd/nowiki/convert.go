package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/alnah/go-nowiki"
	"github.com/alnah/go-nowiki/internal/config"
	"github.com/alnah/go-nowiki/internal/fileutil"
	"github.com/alnah/go-nowiki/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadInput          = errors.New("failed to read input")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrInputTooLarge      = errors.New("input exceeds maximum size")
	ErrInvalidExtension   = errors.New("unsupported input extension")
	ErrInvalidFlags       = errors.New("invalid flags")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrBatchFailed        = errors.New("conversion failed")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// maxInputBytes limits a single input file or stdin (64MB).
const maxInputBytes = 64 << 20

// direction names a conversion command.
type direction string

const (
	dirDecode    direction = "decode"    // wikitext -> HTML
	dirEncode    direction = "encode"    // HTML -> wikitext
	dirRoundTrip direction = "roundtrip" // wikitext -> HTML -> wikitext, compare
)

// inputExtensions lists the file extensions d reads from directories.
func (d direction) inputExtensions() []string {
	if d == dirEncode {
		return []string{".html", ".htm"}
	}
	return []string{".wiki", ".wikitext", ".mediawiki"}
}

// outputExtension is the extension d writes, empty when d writes no files.
func (d direction) outputExtension() string {
	switch d {
	case dirDecode:
		return "html"
	case dirEncode:
		return "wiki"
	default:
		return ""
	}
}

// Converter is the interface for the conversion service.
type Converter interface {
	ToHTML(ctx context.Context, wikitext string) (*nowiki.Result, error)
	ToWikitext(ctx context.Context, html string) (string, error)
	RoundTrip(ctx context.Context, wikitext string) (*nowiki.RoundTripResult, error)
}

// Compile-time interface implementation check.
var _ Converter = (*nowiki.Converter)(nil)

// mismatchError reports an input whose round trip changed it.
type mismatchError struct {
	Path   string
	Offset int
	NUL    bool // the input byte at Offset is NUL
}

func (e *mismatchError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v at byte %d", nowiki.ErrRoundTripMismatch, e.Offset)
	}
	return fmt.Sprintf("%s: %v at byte %d", e.Path, nowiki.ErrRoundTripMismatch, e.Offset)
}

func (e *mismatchError) Unwrap() error { return nowiki.ErrRoundTripMismatch }

// runConvertCmd parses flags and runs a conversion command.
func runConvertCmd(ctx context.Context, cmd direction, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(cmd, args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	return runConvert(ctx, cmd, positional, flags, env)
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, cmd direction, positionalArgs []string, flags *convertFlags, env *Environment) error {
	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	// Validate worker count and timeout early
	workers := flags.workers
	if !flags.changed("workers") && envCfg.Workers > 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}
	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(flags, envCfg)
	if err != nil {
		return err
	}
	env.Config = cfg

	logger, err := newLogger(cfg.Log.Level, flags.common.verbose, env.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	opts, err := converterOptions(cfg, logger)
	if err != nil {
		return fmt.Errorf("loading assets: %w", err)
	}
	conv, err := nowiki.NewConverter(opts...)
	if err != nil {
		return fmt.Errorf("creating converter: %w", err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if cmd != dirEncode && !flags.common.quiet {
		if hint := hints.ForContentModel(strings.ToLower(cfg.Page.ContentModel)); hint != "" {
			fmt.Fprintf(env.Stderr, "warning: page is not wikitext%s\n", hint)
		}
	}

	inputPath, useStdin, err := resolveInput(positionalArgs, cfg, env)
	if err != nil {
		return err
	}

	if useStdin {
		return convertStream(ctx, conv, cmd, flags, cfg, env)
	}

	outputDir := resolveOutputDir(flags.output, cfg)
	files, err := discoverFiles(inputPath, outputDir, cmd)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no %s files found in %s", ErrNoInput, strings.Join(cmd.inputExtensions(), ", "), inputPath)
	}

	n := resolveWorkers(workers, len(files))
	logger.Debug("converting files",
		zap.String("command", string(cmd)),
		zap.Int("files", len(files)),
		zap.Int("workers", n))

	results := convertBatch(ctx, conv, cmd, files, n)
	err = summarize(cmd, results, flags.common, env)
	if ctxErr := ctx.Err(); err != nil && ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("%w (%w)", err, ctxErr)
	}
	return err
}

// resolveConfig builds the effective configuration.
// Precedence: CLI flags > env vars > config file > defaults.
func resolveConfig(flags *convertFlags, envCfg *envConfig) (*config.Config, error) {
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return nil, err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfig loads the config named by the flag, else by NOWIKI_CONFIG,
// else returns defaults.
func loadConfig(flagConfig string, envCfg *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. Flags given on the command line
// override config values, including explicit zero values like --ns 0.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Page flags
	if flags.changed("title") {
		cfg.Page.Title = flags.page.title
	}
	if flags.changed("ns") {
		cfg.Page.Ns = flags.page.ns
	}
	if flags.changed("page-id") {
		cfg.Page.PageID = flags.page.pageID
	}
	if flags.changed("language") {
		cfg.Page.Language = flags.page.language
	}
	if flags.changed("language-dir") {
		cfg.Page.LanguageDir = flags.page.languageDir
	}
	if flags.changed("content-model") {
		cfg.Page.ContentModel = flags.page.contentModel
	}
	if flags.changed("revision-id") {
		cfg.Page.RevisionID = flags.page.revisionID
	}

	// Output flags
	if flags.changed("standalone") {
		cfg.Output.Standalone = flags.out.standalone
	}
	if flags.changed("highlight") {
		cfg.Output.Highlight = flags.out.highlight
	}
	if flags.changed("strip-trailing-nowikis") {
		cfg.Serializer.StripTrailingNowikis = flags.out.stripTrailingNowikis
	}
	if flags.changed("normalize-line-endings") {
		cfg.Input.NormalizeLineEndings = flags.out.normalizeLineEndings
	}

	// Asset flags
	if flags.changed("style") {
		cfg.Output.Style = flags.out.style
	}
	if flags.changed("no-style") && flags.out.noStyle {
		cfg.Output.Style = ""
	}
	if flags.changed("template") {
		cfg.Output.Template = flags.out.template
	}
	if flags.changed("assets-dir") {
		cfg.Output.AssetsDir = flags.out.assetsDir
	}
}

// converterOptions maps the effective config to library options.
// Returns an error if output.assetsDir is not a readable directory.
func converterOptions(cfg *config.Config, logger *zap.Logger) ([]nowiki.Option, error) {
	opts := []nowiki.Option{
		nowiki.WithLogger(logger),
		nowiki.WithPage(pageFromConfig(cfg.Page)),
		nowiki.WithStandalone(cfg.Output.Standalone),
		nowiki.WithStripTrailingNowikis(cfg.Serializer.StripTrailingNowikis),
		nowiki.WithNormalizeLineEndings(cfg.Input.NormalizeLineEndings),
		nowiki.WithStyle(cfg.Output.Style),
		nowiki.WithTemplate(cfg.Output.Template),
	}

	if cfg.Output.Standalone && cfg.Output.AssetsDir != "" {
		loader, err := nowiki.NewAssetLoader(cfg.Output.AssetsDir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, nowiki.WithAssetLoader(loader))
	}
	return opts, nil
}

// pageFromConfig converts the page section of the config.
func pageFromConfig(p config.PageConfig) *nowiki.Page {
	return &nowiki.Page{
		Title:        p.Title,
		Ns:           p.Ns,
		PageID:       p.PageID,
		Language:     p.Language,
		LanguageDir:  p.LanguageDir,
		ContentModel: p.ContentModel,
		RevisionID:   p.RevisionID,
	}
}

// resolveTimeout parses --timeout, falling back to NOWIKI_TIMEOUT.
// Zero means no timeout.
func resolveTimeout(flagValue string, envTimeout time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envTimeout, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s (must be positive)", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

// resolveInput determines the input path from args or config.
// "-" or piped stdin with no other input selects stream mode.
func resolveInput(args []string, cfg *config.Config, env *Environment) (path string, stdin bool, err error) {
	if len(args) > 1 {
		return "", false, fmt.Errorf("%w: expected one input, got %d", ErrInvalidFlags, len(args))
	}
	if len(args) == 1 {
		if args[0] == "-" {
			return "", true, nil
		}
		return args[0], false, nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, false, nil
	}
	if env.Stdin != nil && !env.IsTerminal(env.Stdin) {
		return "", true, nil
	}
	return "", false, ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// convertStream converts stdin. Output goes to --output when given,
// stdout otherwise.
func convertStream(ctx context.Context, conv Converter, cmd direction, flags *convertFlags, cfg *config.Config, env *Environment) error {
	src, err := readInput(env.Stdin)
	if err != nil {
		return err
	}

	out, err := transform(ctx, conv, cmd, src)
	if err != nil {
		return err
	}

	if cmd == dirRoundTrip {
		if !flags.common.quiet {
			fmt.Fprintln(env.Stdout, "Unchanged <stdin>")
		}
		return nil
	}

	if flags.output != "" {
		return writeOutput(flags.output, out)
	}

	highlight := cfg.Output.Highlight && cmd == dirDecode
	if highlight && (!env.IsTerminal(env.Stdout) || hints.ForHighlight() != "") {
		if !flags.common.quiet {
			fmt.Fprintf(env.Stderr, "warning: --highlight needs a color terminal%s\n", hints.ForHighlight())
		}
		highlight = false
	}
	return writeText(env.Stdout, out, highlight)
}

// transform runs one conversion in direction cmd.
func transform(ctx context.Context, conv Converter, cmd direction, src string) (string, error) {
	switch cmd {
	case dirDecode:
		res, err := conv.ToHTML(ctx, src)
		if err != nil {
			return "", err
		}
		return res.HTML, nil
	case dirEncode:
		return conv.ToWikitext(ctx, src)
	default:
		res, err := conv.RoundTrip(ctx, src)
		if err != nil {
			if errors.Is(err, nowiki.ErrRoundTripMismatch) && res != nil {
				return "", &mismatchError{
					Offset: res.MismatchAt,
					NUL:    res.MismatchAt < len(src) && src[res.MismatchAt] == 0,
				}
			}
			return "", err
		}
		return res.Output, nil
	}
}

// readInput reads r up to maxInputBytes.
func readInput(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxInputBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	if len(data) > maxInputBytes {
		return "", fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, maxInputBytes)
	}
	return string(data), nil
}

// readFile opens path and reads it up to maxInputBytes.
func readFile(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- discovered or user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	defer func() { _ = f.Close() }()
	return readInput(f)
}

// writeOutput creates the parent directory and writes content atomically.
func writeOutput(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, err)
	}
	// #nosec G306 -- output files are meant to be readable
	if err := fileutil.WriteFileAtomic(path, []byte(content), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
