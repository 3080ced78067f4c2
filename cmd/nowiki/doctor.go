package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/alnah/go-nowiki"
	"github.com/alnah/go-nowiki/internal/config"
	"github.com/alnah/go-nowiki/internal/hints"
)

// doctorSample is round-tripped to check the converter.
const doctorSample = "a <nowiki>[[b]] &amp; ''c''</nowiki> d"

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string        `json:"status"` // "ready", "warnings", "errors"
	Converter converterInfo `json:"converter"`
	Config    configInfo    `json:"config"`
	Env       envInfo       `json:"environment"`
	System    systemInfo    `json:"system"`
	Warnings  []string      `json:"warnings,omitempty"`
	Errors    []string      `json:"errors,omitempty"`
}

// converterInfo holds the library self-check results.
type converterInfo struct {
	Tags      []string `json:"tags"`
	RoundTrip bool     `json:"round_trip"`
}

// configInfo holds config discovery results.
type configInfo struct {
	Dir     string   `json:"dir,omitempty"`
	Files   []string `json:"files,omitempty"`
	EnvPath string   `json:"nowiki_config,omitempty"`
	Assets  string   `json:"nowiki_assets_dir,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS       string   `json:"os"`
	Arch     string   `json:"arch"`
	CI       bool     `json:"ci"`
	Terminal bool     `json:"terminal"`
	Color    bool     `json:"color"`
	Unknown  []string `json:"unknown_vars,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		switch arg {
		case "--json":
			jsonOutput = true
		case "-h", "--help":
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
	}

	result := runDoctor(env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkConverter(result)
	checkConfig(result)
	checkEnvironment(result, env)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkConverter builds a default converter and round-trips a sample.
func checkConverter(result *doctorResult) {
	conv, err := nowiki.NewConverter()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Converter unavailable: %v", err))
		return
	}
	result.Converter.Tags = conv.Tags()

	rt, err := conv.RoundTrip(context.Background(), doctorSample)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Round trip failed: %v", err))
		return
	}
	result.Converter.RoundTrip = rt.Equal
}

// checkConfig loads every config in the user config directory and
// NOWIKI_CONFIG, and opens NOWIKI_ASSETS_DIR.
func checkConfig(result *doctorResult) {
	if dir, err := os.UserConfigDir(); err == nil {
		result.Config.Dir = filepath.Join(dir, config.AppName)
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, _ := filepath.Glob(filepath.Join(result.Config.Dir, pattern))
			result.Config.Files = append(result.Config.Files, matches...)
		}
		sort.Strings(result.Config.Files)
	}

	for _, path := range result.Config.Files {
		if _, err := config.LoadConfig(path); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Config %s: %v", path, err))
		}
	}

	if name := os.Getenv("NOWIKI_CONFIG"); name != "" {
		result.Config.EnvPath = name
		if _, err := config.LoadConfig(name); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("NOWIKI_CONFIG=%s: %v", name, err))
		}
	}

	if dir := os.Getenv("NOWIKI_ASSETS_DIR"); dir != "" {
		result.Config.Assets = dir
		if _, err := nowiki.NewAssetLoader(dir); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("NOWIKI_ASSETS_DIR=%s: %v", dir, err))
		}
	}
}

// checkEnvironment detects CI, terminal support and unknown variables.
func checkEnvironment(result *doctorResult, env *Environment) {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	result.Env.Terminal = env.IsTerminal(env.Stdout)
	result.Env.Color = result.Env.Terminal && hints.ForHighlight() == ""

	result.Env.Unknown = unknownEnvVars()
	sort.Strings(result.Env.Unknown)
	for _, name := range result.Env.Unknown {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Unknown environment variable %s (typo?)", name))
	}
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	// Atomic writes need a writable temp directory next to outputs; the
	// system temp dir is the closest portable proxy.
	tmpFile, err := os.CreateTemp("", "nowiki-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
		return
	}
	_ = tmpFile.Close()
	_ = os.Remove(tmpFile.Name())
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "nowiki doctor")
	fmt.Fprintln(w)

	// Converter section
	fmt.Fprintln(w, "Converter")
	if len(r.Converter.Tags) > 0 {
		fmt.Fprintf(w, "  [OK] Extension tags: %v\n", r.Converter.Tags)
	}
	if r.Converter.RoundTrip {
		fmt.Fprintln(w, "  [OK] Round trip: unchanged")
	} else {
		fmt.Fprintln(w, "  [ERROR] Round trip: changed")
	}
	fmt.Fprintln(w)

	// Config section
	fmt.Fprintln(w, "Config")
	if r.Config.Dir != "" {
		fmt.Fprintf(w, "  [OK] Directory: %s\n", r.Config.Dir)
	}
	for _, f := range r.Config.Files {
		fmt.Fprintf(w, "  [OK] Found %s\n", f)
	}
	if r.Config.EnvPath != "" {
		fmt.Fprintf(w, "  [OK] NOWIKI_CONFIG: %s\n", r.Config.EnvPath)
	}
	if r.Config.Assets != "" {
		fmt.Fprintf(w, "  [OK] NOWIKI_ASSETS_DIR: %s\n", r.Config.Assets)
	}
	fmt.Fprintln(w)

	// Environment section
	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	if r.Env.Color {
		fmt.Fprintln(w, "  [OK] Colors: supported")
	} else {
		fmt.Fprintln(w, "  [OK] Colors: off (--highlight is ignored)")
	}
	fmt.Fprintln(w)

	// System section
	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
