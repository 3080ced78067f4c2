package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-nowiki/internal/fileutil"
)

// FileToConvert represents a single file to process.
// OutputPath is empty for commands that write no files.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all files cmd reads under inputPath.
func discoverFiles(inputPath, outputDir string, cmd direction) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	exts := cmd.inputExtensions()

	if !info.IsDir() {
		if !fileutil.HasExtension(inputPath, exts...) {
			return nil, fmt.Errorf("%w: got %q, want %s", ErrInvalidExtension, filepath.Ext(inputPath), strings.Join(exts, ", "))
		}
		outPath, err := resolveOutputPath(inputPath, outputDir, "", cmd)
		if err != nil {
			return nil, err
		}
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.HasExtension(path, exts...) {
			return nil
		}
		outPath, err := resolveOutputPath(path, outputDir, inputPath, cmd)
		if err != nil {
			return err
		}
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines where cmd writes the result for inputPath.
// An outputDir ending in the output extension names a single file; otherwise
// the relative layout under baseInputDir is kept.
func resolveOutputPath(inputPath, outputDir, baseInputDir string, cmd direction) (string, error) {
	ext := cmd.outputExtension()
	if ext == "" {
		return "", nil
	}

	name, err := fileutil.ReplaceExtension(filepath.Base(inputPath), ext)
	if err != nil {
		return "", err
	}

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name), nil
	}

	if baseInputDir == "" && fileutil.HasExtension(outputDir, "."+ext) {
		return outputDir, nil
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name), nil
		}
	}

	return filepath.Join(outputDir, name), nil
}
