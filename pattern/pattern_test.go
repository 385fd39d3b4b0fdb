// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package pattern_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/defrex/just-bash/pattern"
)

func TestMatchBasename(t *testing.T) {
	c := qt.New(t)
	cases := []struct {
		pat, name string
		want      bool
	}{
		{"*.ts", "index.ts", true},
		{"*.ts", "index.tsx", false},
		{"*.ts", "dir/index.ts", true}, // Basename mode: "*" crosses "/"
		{"test?.go", "test1.go", true},
		{"test?.go", "test12.go", false},
		{"[abc]*.go", "a.go", true},
		{"[abc]*.go", "d.go", false},
		{"[!abc]*.go", "d.go", true},
		{"[a-c]x", "bx", true},
		{"[a-c]x", "dx", false},
	}
	for _, tc := range cases {
		got := pattern.Match(tc.pat, tc.name, pattern.Basename)
		c.Assert(got, qt.Equals, tc.want, qt.Commentf("pattern %q vs %q", tc.pat, tc.name))
	}
}

func TestMatchComponentDoesNotCrossSlash(t *testing.T) {
	c := qt.New(t)
	c.Assert(pattern.Match("*.ts", "dir/index.ts", pattern.Component), qt.IsFalse)
	c.Assert(pattern.Match("*.ts", "index.ts", pattern.Component), qt.IsTrue)
}

func TestHasMeta(t *testing.T) {
	c := qt.New(t)
	c.Assert(pattern.HasMeta("plain"), qt.IsFalse)
	c.Assert(pattern.HasMeta(`foo\*bar`), qt.IsFalse)
	c.Assert(pattern.HasMeta("foo*bar"), qt.IsTrue)
	c.Assert(pattern.HasMeta("foo[bar]"), qt.IsTrue)
}

func TestSyntaxError(t *testing.T) {
	c := qt.New(t)
	_, err := pattern.Compile("[abc", pattern.Basename)
	c.Assert(err, qt.ErrorMatches, ".*not matched.*")
}
