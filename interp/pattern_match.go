// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package interp

import "github.com/defrex/just-bash/pattern"

// matchCasePattern reports whether a case clause's pattern matches subject.
// Case patterns match the whole word end-to-end and let "*"/"?" cross "/"
// the same as find's -name, so Basename mode applies here too.
func matchCasePattern(pat, subject string) bool {
	if pat == "" {
		return subject == ""
	}
	return pattern.Match(pat, subject, pattern.Basename)
}
