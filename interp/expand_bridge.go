// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package interp

import (
	"github.com/defrex/just-bash/expand"
	"github.com/defrex/just-bash/syntax"
)

// cfg wires r up as an expand.Config: the expansion engine reads variables
// and the filesystem through it and re-enters the evaluator for command
// substitution via CmdSubst.
func (r *Runner) cfg() *expand.Config {
	return &expand.Config{
		Env:      r,
		Params:   r.Params,
		LastExit: r.LastExit,
		FS:       r.FS,
		Cwd:      r.Cwd,
		CmdSubst: func(stmts []*syntax.Stmt) (string, error) {
			sub := r.clone()
			sub.execStmts(stmts)
			r.commandCount = sub.commandCount
			return sub.Stdout.String(), nil
		},
	}
}

func (r *Runner) fields(w *syntax.Word) ([]string, error) {
	return expand.Fields(w, r.cfg())
}

func (r *Runner) literal(w *syntax.Word) (string, error) {
	return expand.Literal(w, r.cfg())
}
