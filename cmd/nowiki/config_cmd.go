package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-nowiki/internal/yamlutil"
)

// runConfigCmd prints the effective configuration as YAML.
// Accepts the convert flags so overrides can be previewed.
func runConfigCmd(args []string, env *Environment) error {
	f := &convertFlags{set: make(map[string]bool)}
	fs := newConvertFlagSet("config", f)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printConfigUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: config takes no arguments, got %q", ErrInvalidFlags, fs.Arg(0))
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	envCfg := loadEnvConfig()
	if !f.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	cfg, err := resolveConfig(f, envCfg)
	if err != nil {
		return err
	}
	env.Config = cfg

	return yamlutil.Encode(env.Stdout, cfg)
}
