// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

// Package expand implements the eight-phase word expansion pipeline:
// brace, tilde, parameter, command substitution, arithmetic, word
// splitting and pathname expansion, applied in that fixed order to every
// word before command dispatch, per spec.md §4.3.
package expand

import (
	"github.com/defrex/just-bash/syntax"
	"github.com/defrex/just-bash/vfs"
)

// Environ is the variable-table capability the expansion engine reads and,
// for "${name:=word}", writes.
type Environ interface {
	Get(name string) (value string, set bool)
	Set(name, value string) error
}

// CmdSubstFunc re-enters the evaluator for a $(...) or `...` substitution
// and returns its captured stdout; the expansion engine strips trailing
// newlines from it.
type CmdSubstFunc func(stmts []*syntax.Stmt) (string, error)

// Config bundles everything the expansion engine needs from the running
// shell: the variable table, positional parameters, the filesystem (for
// pathname expansion) and a way to re-enter the evaluator for command
// substitution.
type Config struct {
	Env      Environ
	Params   []string // $1, $2, ... ; $0 is always "sh"
	LastExit int
	Home     string
	IFS      string
	FS       vfs.FS
	Cwd      string
	CmdSubst CmdSubstFunc
}

func (c *Config) ifs() string {
	if c.IFS == "" && c.Env != nil {
		if v, set := c.Env.Get("IFS"); set {
			return v
		}
	}
	if c.IFS != "" {
		return c.IFS
	}
	return " \t\n"
}

func (c *Config) getVar(name string) string {
	switch name {
	case "?":
		return itoa(c.LastExit)
	case "#":
		return itoa(len(c.Params))
	case "@", "*":
		return joinFields(c.Params, " ")
	case "$", "!":
		return "1"
	case "0":
		return "sh"
	}
	if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
		n := atoiSimple(name)
		if n >= 1 && n <= len(c.Params) {
			return c.Params[n-1]
		}
		return ""
	}
	if c.Env == nil {
		return ""
	}
	v, _ := c.Env.Get(name)
	return v
}
