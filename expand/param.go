// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package expand

import (
	"fmt"

	"github.com/defrex/just-bash/pattern"
	"github.com/defrex/just-bash/syntax"
)

// paramExp evaluates a single ${...}/$name expansion to its textual value.
// The operand word (":-", ":+", ":=", "#", "##", "%", "%%") is itself
// expanded as a plain literal before use, matching bash's treatment of the
// operand as an ordinary word.
func paramExp(pe *syntax.ParamExp, cfg *Config) (string, error) {
	if pe.Excl {
		return itoa(len(cfg.getVar(pe.Name))), nil
	}
	val := cfg.getVar(pe.Name)
	_, isSet := cfg.lookupSet(pe.Name)

	switch pe.Op {
	case "":
		return val, nil
	case ":-":
		if val != "" {
			return val, nil
		}
		return literalWord(pe.Arg, cfg)
	case ":+":
		if val == "" {
			return "", nil
		}
		return literalWord(pe.Arg, cfg)
	case ":=":
		if val != "" {
			return val, nil
		}
		repl, err := literalWord(pe.Arg, cfg)
		if err != nil {
			return "", err
		}
		if cfg.Env != nil {
			if err := cfg.Env.Set(pe.Name, repl); err != nil {
				return "", err
			}
		}
		return repl, nil
	case "#", "##":
		if !isSet {
			return "", nil
		}
		pat, err := literalWord(pe.Arg, cfg)
		if err != nil {
			return "", err
		}
		return trimPrefix(val, pat, pe.Op == "##"), nil
	case "%", "%%":
		if !isSet {
			return "", nil
		}
		pat, err := literalWord(pe.Arg, cfg)
		if err != nil {
			return "", err
		}
		return trimSuffix(val, pat, pe.Op == "%%"), nil
	default:
		return "", fmt.Errorf("expand: unsupported parameter operator %q", pe.Op)
	}
}

func (c *Config) lookupSet(name string) (string, bool) {
	switch name {
	case "?", "#", "@", "*", "$", "!", "0":
		return c.getVar(name), true
	}
	if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
		n := atoiSimple(name)
		return "", n >= 1 && n <= len(c.Params)
	}
	if c.Env == nil {
		return "", false
	}
	return c.Env.Get(name)
}

// literalWord expands w (which may be nil, meaning the empty word) without
// field splitting or pathname expansion, the same treatment bash gives a
// parameter operator's operand.
func literalWord(w *syntax.Word, cfg *Config) (string, error) {
	if w == nil {
		return "", nil
	}
	var sb []byte
	for _, part := range w.Parts {
		s, err := expandPartLiteral(part, cfg)
		if err != nil {
			return "", err
		}
		sb = append(sb, s...)
	}
	return string(sb), nil
}

// trimPrefix implements "${name#pattern}"/"${name##pattern}": find the
// shortest (or, for "##", longest) prefix of val matching pattern as a glob
// and remove it. Rather than fight regexp greediness with ungreedy flags,
// it compiles pattern once as a fully-anchored Basename matcher and probes
// candidate split points directly — O(n^2) worst case, but val is always a
// single shell field, so this never matters in practice.
func trimPrefix(val, pat string, longest bool) string {
	if pat == "" {
		return val
	}
	re, err := pattern.Compile(pat, pattern.Basename)
	if err != nil {
		return val
	}
	if longest {
		for i := len(val); i >= 0; i-- {
			if re.MatchString(val[:i]) {
				return val[i:]
			}
		}
	} else {
		for i := 0; i <= len(val); i++ {
			if re.MatchString(val[:i]) {
				return val[i:]
			}
		}
	}
	return val
}

// trimSuffix implements "${name%pattern}"/"${name%%pattern}", mirroring
// trimPrefix from the tail end.
func trimSuffix(val, pat string, longest bool) string {
	if pat == "" {
		return val
	}
	re, err := pattern.Compile(pat, pattern.Basename)
	if err != nil {
		return val
	}
	if longest {
		for i := 0; i <= len(val); i++ {
			if re.MatchString(val[i:]) {
				return val[:i]
			}
		}
	} else {
		for i := len(val); i >= 0; i-- {
			if re.MatchString(val[i:]) {
				return val[:i]
			}
		}
	}
	return val
}
