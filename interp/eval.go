// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package interp

import (
	"github.com/defrex/just-bash/syntax"
	"github.com/defrex/just-bash/token"
)

// execStmts runs a sequence of statements in order, returning the last
// one's exit code. A non-nil err is one of breakSignal, continueSignal,
// returnSignal, exitSignal or *BudgetExceededError and must propagate to whatever
// construct (loop, function call, top-level Run) is positioned to catch it.
func (r *Runner) execStmts(stmts []*syntax.Stmt) (int, error) {
	code := 0
	for _, s := range stmts {
		var err error
		code, err = r.execStmt(s)
		if err != nil {
			return code, err
		}
	}
	return code, nil
}

func (r *Runner) execStmt(s *syntax.Stmt) (int, error) {
	code, err := r.execCommand(s.Cmd)
	if err != nil {
		return code, err
	}
	if s.Negated {
		code = boolExit(code != 0)
	}
	r.LastExit = code
	return code, nil
}

func (r *Runner) execCommand(cmd syntax.Command) (int, error) {
	if err := r.tick(); err != nil {
		return 1, err
	}
	switch c := cmd.(type) {
	case *syntax.CallExpr:
		return r.execCall(c)
	case *syntax.List:
		return r.execList(c)
	case *syntax.Pipeline:
		return r.execPipeline(c)
	case *syntax.Subshell:
		return r.execSubshell(c)
	case *syntax.Block:
		return r.execStmts(c.Stmts)
	case *syntax.IfClause:
		return r.execIf(c)
	case *syntax.WhileClause:
		return r.execWhile(c)
	case *syntax.ForClause:
		return r.execFor(c)
	case *syntax.CaseClause:
		return r.execCase(c)
	case *syntax.FuncDecl:
		r.Funcs[c.Name] = c
		return 0, nil
	default:
		return 1, nil
	}
}

// tick enforces the command-count budget; it is charged once per
// execCommand call, which counts compound commands (if, while, ...) as
// well as simple ones, matching how quickly a pathological script's node
// count can explode. Inside a loop the overrun is reported as "too many
// iterations", since the loop is what drove the count up.
func (r *Runner) tick() error {
	r.commandCount++
	if r.commandCount > MaxCommands {
		if r.loopDepth > 0 {
			return &BudgetExceededError{msg: "too many iterations"}
		}
		return &BudgetExceededError{msg: "too many commands"}
	}
	return nil
}

func (r *Runner) execList(c *syntax.List) (int, error) {
	code, err := r.execCommand(c.Left)
	if err != nil {
		return code, err
	}
	r.LastExit = code
	switch c.Op {
	case token.LAND:
		if code != 0 {
			return code, nil
		}
	case token.LOR:
		if code == 0 {
			return code, nil
		}
	}
	return r.execCommand(c.Right)
}

func (r *Runner) execIf(c *syntax.IfClause) (int, error) {
	code, err := r.execStmts(c.Cond)
	if err != nil {
		return code, err
	}
	if code == 0 {
		return r.execStmts(c.Then)
	}
	for _, elif := range c.Elifs {
		code, err := r.execStmts(elif.Cond)
		if err != nil {
			return code, err
		}
		if code == 0 {
			return r.execStmts(elif.Then)
		}
	}
	if c.Else != nil {
		return r.execStmts(c.Else)
	}
	return 0, nil
}

func (r *Runner) execWhile(c *syntax.WhileClause) (int, error) {
	r.loopDepth++
	defer func() { r.loopDepth-- }()
	code := 0
	iterations := 0
	for {
		iterations++
		if iterations > MaxLoopIterations {
			return 1, &BudgetExceededError{msg: "too many iterations"}
		}
		condCode, err := r.execStmts(c.Cond)
		if err != nil {
			return condCode, err
		}
		truth := condCode == 0
		if c.Until {
			truth = !truth
		}
		if !truth {
			return code, nil
		}
		bodyCode, err := r.execStmts(c.Body)
		if err != nil {
			if brk, ok := err.(*breakSignal); ok {
				if brk.n > 1 {
					return bodyCode, &breakSignal{n: brk.n - 1}
				}
				return bodyCode, nil
			}
			if cont, ok := err.(*continueSignal); ok {
				if cont.n > 1 {
					return bodyCode, &continueSignal{n: cont.n - 1}
				}
				code = bodyCode
				continue
			}
			return bodyCode, err
		}
		code = bodyCode
	}
}

func (r *Runner) execFor(c *syntax.ForClause) (int, error) {
	r.loopDepth++
	defer func() { r.loopDepth-- }()
	var words []string
	for _, w := range c.Words {
		fs, err := r.fields(w)
		if err != nil {
			return 1, nil
		}
		words = append(words, fs...)
	}
	code := 0
	for i, val := range words {
		if i >= MaxLoopIterations {
			return code, &BudgetExceededError{msg: "too many iterations"}
		}
		if err := r.Set(c.Var, val); err != nil {
			return 1, nil
		}
		bodyCode, err := r.execStmts(c.Body)
		if err != nil {
			if brk, ok := err.(*breakSignal); ok {
				if brk.n > 1 {
					return bodyCode, &breakSignal{n: brk.n - 1}
				}
				return bodyCode, nil
			}
			if cont, ok := err.(*continueSignal); ok {
				if cont.n > 1 {
					return bodyCode, &continueSignal{n: cont.n - 1}
				}
				code = bodyCode
				continue
			}
			return bodyCode, err
		}
		code = bodyCode
	}
	return code, nil
}

func (r *Runner) execCase(c *syntax.CaseClause) (int, error) {
	subject, err := r.literal(c.Word)
	if err != nil {
		return 1, nil
	}
	for _, item := range c.Clauses {
		for _, pw := range item.Patterns {
			pat, err := r.literal(pw)
			if err != nil {
				continue
			}
			if matchCasePattern(pat, subject) {
				return r.execStmts(item.Body)
			}
		}
	}
	return 0, nil
}

func (r *Runner) execSubshell(c *syntax.Subshell) (int, error) {
	sub := r.clone()
	code, err := sub.execStmts(c.Stmts)
	r.commandCount = sub.commandCount
	r.Stdout.WriteString(sub.Stdout.String())
	r.Stderr.WriteString(sub.Stderr.String())
	if err != nil {
		if _, ok := err.(*BudgetExceededError); ok {
			return code, err
		}
	}
	return code, nil
}

func boolExit(b bool) int {
	if b {
		return 0
	}
	return 1
}
