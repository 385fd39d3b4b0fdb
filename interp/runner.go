// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

// Package interp evaluates a parsed *syntax.File against a Runner's shell
// state: variables, functions, the current directory and an in-memory
// filesystem. It enforces the three execution budgets from spec.md §9
// (command count, recursion depth, loop iterations) so a pathological
// script aborts instead of hanging the host process.
package interp

import (
	"strings"

	"github.com/defrex/just-bash/syntax"
	"github.com/defrex/just-bash/vfs"
)

// Budget caps bound a single top-level Exec call. They exist to make a
// runaway script (an infinite loop, unbounded recursion) fail fast and
// deterministically rather than hang or exhaust memory.
const (
	MaxCommands       = 10000
	MaxRecursionDepth = 100
	MaxLoopIterations = 10000
)

// Variable is one shell variable's value plus its export/readonly flags.
type Variable struct {
	Value    string
	Exported bool
	ReadOnly bool
}

// Runner holds all mutable shell state for one shell instance: variables,
// functions, the working directory, the filesystem, and the counters that
// enforce the execution budgets. A Subshell runs against a *clone* of this
// state, so its mutations never escape.
type Runner struct {
	Vars      map[string]*Variable
	Funcs     map[string]*syntax.FuncDecl
	FS        vfs.FS
	Cwd       string
	Params    []string
	LastExit  int
	Stdout    strings.Builder
	Stderr    strings.Builder
	stdin     string
	xtrace    bool

	commandCount int
	depth        int
	loopDepth    int
}

// New returns a Runner rooted at fs with cwd as its working directory and
// env seeding the initial (exported) variable table.
func New(fs vfs.FS, cwd string, env map[string]string) *Runner {
	r := &Runner{
		Vars:  make(map[string]*Variable, len(env)),
		Funcs: make(map[string]*syntax.FuncDecl),
		FS:    fs,
		Cwd:   cwd,
	}
	for k, v := range env {
		r.Vars[k] = &Variable{Value: v, Exported: true}
	}
	if _, ok := r.Vars["HOME"]; !ok {
		r.Vars["HOME"] = &Variable{Value: "/", Exported: true}
	}
	if _, ok := r.Vars["IFS"]; !ok {
		r.Vars["IFS"] = &Variable{Value: " \t\n", Exported: true}
	}
	return r
}

// clone returns a deep-enough copy of r for Subshell execution: a fresh
// Vars map (so assignments inside the subshell never leak out) and a
// fresh Funcs map, sharing the same FS (files written inside a subshell
// are not rolled back — only the variable/cwd/exit-code state is) and the
// same budget counters (a subshell's work still counts against the
// top-level command/recursion/loop budgets).
func (r *Runner) clone() *Runner {
	c := &Runner{
		Vars:         make(map[string]*Variable, len(r.Vars)),
		Funcs:        make(map[string]*syntax.FuncDecl, len(r.Funcs)),
		FS:           r.FS,
		Cwd:          r.Cwd,
		Params:       r.Params,
		LastExit:     r.LastExit,
		xtrace:       r.xtrace,
		commandCount: r.commandCount,
		depth:        r.depth,
		loopDepth:    r.loopDepth,
	}
	for k, v := range r.Vars {
		cp := *v
		c.Vars[k] = &cp
	}
	for k, v := range r.Funcs {
		c.Funcs[k] = v
	}
	return c
}

// Get implements expand.Environ.
func (r *Runner) Get(name string) (string, bool) {
	if v, ok := r.Vars[name]; ok {
		return v.Value, true
	}
	return "", false
}

// Set implements expand.Environ.
func (r *Runner) Set(name, value string) error {
	if v, ok := r.Vars[name]; ok {
		if v.ReadOnly {
			return &ReadOnlyError{Name: name}
		}
		v.Value = value
		return nil
	}
	r.Vars[name] = &Variable{Value: value}
	return nil
}

// ReadOnlyError is returned by Set (and surfaces as an assignment's exit
// code 1) when a script tries to mutate a "readonly" variable.
type ReadOnlyError struct{ Name string }

func (e *ReadOnlyError) Error() string { return e.Name + ": readonly variable" }

func (r *Runner) environFor() map[string]string {
	out := make(map[string]string)
	for k, v := range r.Vars {
		if v.Exported {
			out[k] = v.Value
		}
	}
	return out
}
