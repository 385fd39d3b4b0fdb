// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package interp

import (
	"strings"

	"github.com/defrex/just-bash/syntax"
)

// execPipeline runs each stage left to right, feeding stage i's captured
// stdout to stage i+1's stdin, and yields the last stage's exit code
// (flipped by Negated, bash's leading "!").
func (r *Runner) execPipeline(c *syntax.Pipeline) (int, error) {
	if len(c.Stages) == 0 {
		return 0, nil
	}
	input := r.stdin
	code := 0
	for i, stage := range c.Stages {
		savedStdin := r.stdin
		r.stdin = input

		savedOut := r.Stdout
		r.Stdout = strings.Builder{}

		var err error
		code, err = r.execStmt(stage)
		out := r.Stdout.String()
		r.Stdout = savedOut
		r.stdin = savedStdin
		if err != nil {
			return code, err
		}
		input = out
		if i == len(c.Stages)-1 {
			r.Stdout.WriteString(out)
		}
	}
	if c.Negated {
		code = boolExit(code != 0)
	}
	return code, nil
}
