// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

// Package justbash is the shell façade: construct a Shell over an
// in-memory filesystem and Exec shell script text against it, one line
// or one whole script at a time.
package justbash

import (
	"github.com/defrex/just-bash/interp"
	"github.com/defrex/just-bash/syntax"
	"github.com/defrex/just-bash/vfs"
)

// ExecResult is what a single Exec call produces: everything the command
// wrote to its standard streams, plus its exit code.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Options configures a new Shell. Files seeds the virtual filesystem
// (absolute path to contents; missing ancestor directories are implied);
// Cwd defaults to "/"; Env seeds the initial exported variable table.
type Options struct {
	Files map[string]string
	Cwd   string
	Env   map[string]string
}

// Shell is one isolated shell instance: its own filesystem, variables,
// functions and working directory.
type Shell struct {
	runner *interp.Runner
}

// New constructs a Shell from opts.
func New(opts Options) *Shell {
	cwd := opts.Cwd
	if cwd == "" {
		cwd = "/"
	}
	fs := vfs.NewMemFS(opts.Files)
	return &Shell{runner: interp.New(fs, cwd, opts.Env)}
}

// Exec parses and runs src as a complete script. A lexer or parser error
// is reported without ever reaching evaluation, exit code 2 — the same
// convention a shell uses for a syntax error.
func (s *Shell) Exec(src string) ExecResult {
	file, err := syntax.ParseProgram(src)
	if err != nil {
		return ExecResult{Stderr: err.Error() + "\n", ExitCode: 2}
	}

	s.runner.Stdout.Reset()
	s.runner.Stderr.Reset()
	code := s.runner.Run(file.Stmts)

	return ExecResult{
		Stdout:   s.runner.Stdout.String(),
		Stderr:   s.runner.Stderr.String(),
		ExitCode: code,
	}
}

// Cwd reports the shell's current working directory.
func (s *Shell) Cwd() string { return s.runner.Cwd }

// Getenv reports a variable's value, or "" if it is unset.
func (s *Shell) Getenv(name string) string {
	v, _ := s.runner.Get(name)
	return v
}

// FS exposes the shell's underlying filesystem, for tests and embedders
// that want to seed or inspect files without going through shell syntax.
func (s *Shell) FS() vfs.FS { return s.runner.FS }
