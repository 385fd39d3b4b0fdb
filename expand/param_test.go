// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package expand_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/defrex/just-bash/expand"
	"github.com/defrex/just-bash/syntax"
)

func TestParamExpDefault(t *testing.T) {
	c := qt.New(t)
	w := &syntax.Word{Parts: []syntax.WordPart{
		&syntax.ParamExp{Name: "x", Op: ":-", Arg: lit("fallback")},
	}}
	got, err := expand.Literal(w, newCfg(nil))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "fallback")

	got, err = expand.Literal(w, newCfg(map[string]string{"x": "set"}))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "set")
}

func TestParamExpLength(t *testing.T) {
	c := qt.New(t)
	w := &syntax.Word{Parts: []syntax.WordPart{
		&syntax.ParamExp{Name: "x", Excl: true},
	}}
	got, err := expand.Literal(w, newCfg(map[string]string{"x": "hello"}))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "5")
}

func TestParamExpTrimPrefixSuffix(t *testing.T) {
	c := qt.New(t)
	cfg := newCfg(map[string]string{"f": "file.tar.gz"})

	shortest := &syntax.Word{Parts: []syntax.WordPart{
		&syntax.ParamExp{Name: "f", Op: "%", Arg: lit(".*")},
	}}
	got, err := expand.Literal(shortest, cfg)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "file.tar")

	longest := &syntax.Word{Parts: []syntax.WordPart{
		&syntax.ParamExp{Name: "f", Op: "%%", Arg: lit(".*")},
	}}
	got, err = expand.Literal(longest, cfg)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "file")

	prefix := &syntax.Word{Parts: []syntax.WordPart{
		&syntax.ParamExp{Name: "f", Op: "#", Arg: lit("*.")},
	}}
	got, err = expand.Literal(prefix, cfg)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "tar.gz")

	prefixLongest := &syntax.Word{Parts: []syntax.WordPart{
		&syntax.ParamExp{Name: "f", Op: "##", Arg: lit("*.")},
	}}
	got, err = expand.Literal(prefixLongest, cfg)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "gz")
}

func TestParamExpAssignDefault(t *testing.T) {
	c := qt.New(t)
	cfg := newCfg(nil)
	w := &syntax.Word{Parts: []syntax.WordPart{
		&syntax.ParamExp{Name: "x", Op: ":=", Arg: lit("init")},
	}}
	got, err := expand.Literal(w, cfg)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "init")
	v, _ := cfg.Env.Get("x")
	c.Assert(v, qt.Equals, "init")
}
