package main

import (
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/alnah/go-nowiki/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, terminal detection and configuration.
type Environment struct {
	Now        func() time.Time
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	IsTerminal func(v any) bool
	Config     *config.Config // Loaded once per command, shared across workers
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:        time.Now,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		IsTerminal: isTerminal,
		Config:     config.DefaultConfig(),
	}
}

// isTerminal reports whether v is a file descriptor attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- descriptors fit in int
}
