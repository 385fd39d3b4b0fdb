// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package interp

import "github.com/defrex/just-bash/syntax"

// Run evaluates stmts against r, resetting the three execution budgets as
// spec.md §9 requires of every top-level Exec call. It never panics: a
// budget violation or unhandled "exit" surfaces as the returned exit code,
// with any budget diagnostic already written to r.Stderr.
func (r *Runner) Run(stmts []*syntax.Stmt) int {
	r.commandCount = 0
	r.depth = 0
	r.loopDepth = 0

	code, err := r.execStmts(stmts)
	if err == nil {
		r.LastExit = code
		return code
	}
	switch e := err.(type) {
	case *exitSignal:
		r.LastExit = e.code
		return e.code
	case *BudgetExceededError:
		r.Stderr.WriteString(e.Error() + "\n")
		r.LastExit = 1
		return 1
	default:
		// A break/continue reaching the top level (outside any loop) is a
		// no-op in bash; the last executed command's exit code stands.
		r.LastExit = code
		return code
	}
}
