// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package interp

import "strings"

// trace writes a "set -x" style diagnostic line to stderr for one simple
// command, the way a real shell's xtrace option does — grounded on the
// teacher's interp/trace.go, cut down to the one line per call this
// evaluator needs instead of its full word-part-aware rendering.
func (r *Runner) trace(args []string) {
	if !r.xtrace || len(args) == 0 {
		return
	}
	r.Stderr.WriteString("+ " + strings.Join(args, " ") + "\n")
}
