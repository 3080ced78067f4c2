package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alnah/go-nowiki"
)

// Status colors (ANSI 16-color palette).
const (
	colorFailed  = lipgloss.Color("1")
	colorSuccess = lipgloss.Color("2")
	colorChanged = lipgloss.Color("3")
)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// convertBatch processes files concurrently with a shared converter.
func convertBatch(ctx context.Context, conv Converter, cmd direction, files []FileToConvert, workers int) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := workers
	if concurrency > len(files) {
		concurrency = len(files)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, cmd, files[idx])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv Converter, cmd direction, f FileToConvert) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := readFile(f.InputPath)
	if err != nil {
		return fail(err)
	}

	out, err := transform(ctx, conv, cmd, content)
	if err != nil {
		var mm *mismatchError
		if errors.As(err, &mm) {
			mm.Path = f.InputPath
		}
		return fail(err)
	}

	if f.OutputPath != "" {
		if err := writeOutput(f.OutputPath, out); err != nil {
			return fail(err)
		}
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded, changed and failed conversions.
// Changed counts round trips that did not reproduce their input and is
// included in Failed.
type ResultSummary struct {
	Succeeded int
	Changed   int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err == nil:
			summary.Succeeded++
		case errors.Is(r.Err, nowiki.ErrRoundTripMismatch):
			summary.Changed++
			summary.Failed++
		default:
			summary.Failed++
		}
	}
	return summary
}

// printResultsWithWriter outputs conversion results using the provided writers.
// Returns the number of failed conversions.
func printResultsWithWriter(cmd direction, results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	errOut := lipgloss.NewRenderer(env.Stderr)
	failed := errOut.NewStyle().Bold(true).Foreground(colorFailed)
	changed := errOut.NewStyle().Bold(true).Foreground(colorChanged)
	ok := lipgloss.NewRenderer(env.Stdout).NewStyle().Foreground(colorSuccess)

	for _, r := range results {
		if r.Err != nil {
			var mm *mismatchError
			if errors.As(r.Err, &mm) {
				fmt.Fprintf(env.Stderr, "%s %s at byte %d\n", changed.Render("CHANGED"), r.InputPath, mm.Offset)
				continue
			}
			fmt.Fprintf(env.Stderr, "%s %s: %v\n", failed.Render("FAILED"), r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		switch {
		case cmd == dirRoundTrip && verbose:
			fmt.Fprintf(env.Stdout, "%s %s (%v)\n", ok.Render("Unchanged"), r.InputPath, r.Duration.Round(time.Millisecond))
		case cmd == dirRoundTrip:
			fmt.Fprintf(env.Stdout, "%s %s\n", ok.Render("Unchanged"), r.InputPath)
		case verbose:
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		default:
			fmt.Fprintf(env.Stdout, "%s %s\n", ok.Render("Created"), r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		if summary.Changed > 0 {
			fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed (%d changed)\n", summary.Succeeded, summary.Failed, summary.Changed)
		} else {
			fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
		}
	}

	return summary.Failed
}

// summarize prints results and turns failures into the command error.
// A batch where every failure is a round-trip mismatch reports the mismatch.
func summarize(cmd direction, results []ConversionResult, common commonFlags, env *Environment) error {
	printResultsWithWriter(cmd, results, common.quiet, common.verbose, env)

	summary := countResults(results)
	if summary.Failed == 0 {
		return nil
	}

	if summary.Changed == summary.Failed {
		if summary.Failed == 1 {
			for _, r := range results {
				if r.Err != nil {
					return r.Err
				}
			}
		}
		return fmt.Errorf("%w: %d of %d files changed", nowiki.ErrRoundTripMismatch, summary.Changed, len(results))
	}

	if summary.Failed == 1 && len(results) == 1 {
		return results[0].Err
	}
	return fmt.Errorf("%w: %d of %d files", ErrBatchFailed, summary.Failed, len(results))
}
