// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package expand_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/defrex/just-bash/expand"
)

type fakeEnv struct{ vars map[string]string }

func (f *fakeEnv) Get(name string) (string, bool) {
	v, ok := f.vars[name]
	return v, ok
}

func (f *fakeEnv) Set(name, value string) error {
	f.vars[name] = value
	return nil
}

func newCfg(vars map[string]string) *expand.Config {
	if vars == nil {
		vars = map[string]string{}
	}
	return &expand.Config{Env: &fakeEnv{vars: vars}}
}

func TestEvalArith(t *testing.T) {
	c := qt.New(t)
	cases := []struct {
		expr string
		vars map[string]string
		want int64
	}{
		{"1 + 2 * 3", nil, 7},
		{"(1 + 2) * 3", nil, 9},
		{"10 % 3", nil, 1},
		{"-5 + 2", nil, -3},
		{"1 == 1 && 2 > 1", nil, 1},
		{"1 != 1 || 0", nil, 0},
		{"x + 1", map[string]string{"x": "4"}, 5},
		{"!0", nil, 1},
		{"!5", nil, 0},
	}
	for _, tc := range cases {
		got, err := expand.EvalArith(tc.expr, newCfg(tc.vars))
		c.Assert(err, qt.IsNil, qt.Commentf("expr %q", tc.expr))
		c.Assert(got, qt.Equals, tc.want, qt.Commentf("expr %q", tc.expr))
	}
}

func TestEvalArithAssignment(t *testing.T) {
	c := qt.New(t)
	cfg := newCfg(nil)
	got, err := expand.EvalArith("x = 3 + 4", cfg)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, int64(7))
	v, _ := cfg.Env.Get("x")
	c.Assert(v, qt.Equals, "7")
}

func TestEvalArithDivisionByZero(t *testing.T) {
	c := qt.New(t)
	_, err := expand.EvalArith("1 / 0", newCfg(nil))
	c.Assert(err, qt.ErrorMatches, ".*division by zero.*")
}
