// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package expand_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/defrex/just-bash/expand"
	"github.com/defrex/just-bash/syntax"
)

func lit(s string) *syntax.Word {
	return &syntax.Word{Parts: []syntax.WordPart{&syntax.Lit{Value: s}}}
}

func TestFieldsBraceExpansion(t *testing.T) {
	c := qt.New(t)
	got, err := expand.Fields(lit("foo{1..3}"), newCfg(nil))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"foo1", "foo2", "foo3"})
}

func TestFieldsBraceCommaList(t *testing.T) {
	c := qt.New(t)
	got, err := expand.Fields(lit("{a,b,c}.go"), newCfg(nil))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"a.go", "b.go", "c.go"})
}

func TestFieldsWordSplitting(t *testing.T) {
	c := qt.New(t)
	w := &syntax.Word{Parts: []syntax.WordPart{
		&syntax.ParamExp{Name: "x"},
	}}
	cfg := newCfg(map[string]string{"x": "a  b\tc"})
	got, err := expand.Fields(w, cfg)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"a", "b", "c"})
}

func TestFieldsQuotedNeverSplits(t *testing.T) {
	c := qt.New(t)
	w := &syntax.Word{Parts: []syntax.WordPart{
		&syntax.DblQuoted{Parts: []syntax.WordPart{&syntax.ParamExp{Name: "x"}}},
	}}
	cfg := newCfg(map[string]string{"x": "a b c"})
	got, err := expand.Fields(w, cfg)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"a b c"})
}

func TestLiteralSingleQuotedNoExpansion(t *testing.T) {
	c := qt.New(t)
	w := &syntax.Word{Parts: []syntax.WordPart{&syntax.SglQuoted{Value: "$x *"}}}
	got, err := expand.Literal(w, newCfg(map[string]string{"x": "nope"}))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "$x *")
}

func TestFieldsUnquotedEmptyVanishes(t *testing.T) {
	c := qt.New(t)
	w := &syntax.Word{Parts: []syntax.WordPart{&syntax.ParamExp{Name: "empty"}}}
	got, err := expand.Fields(w, newCfg(nil))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.HasLen, 0)
}

func TestFieldsQuotedEmptyStays(t *testing.T) {
	c := qt.New(t)
	w := &syntax.Word{Parts: []syntax.WordPart{&syntax.SglQuoted{Value: ""}}}
	got, err := expand.Fields(w, newCfg(nil))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{""})
}

func TestFieldsTilde(t *testing.T) {
	c := qt.New(t)
	cfg := newCfg(map[string]string{"HOME": "/home/me"})
	got, err := expand.Fields(lit("~/docs"), cfg)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"/home/me/docs"})
}
