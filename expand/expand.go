// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package expand

import (
	"sort"
	"strings"

	"github.com/defrex/just-bash/pattern"
	"github.com/defrex/just-bash/syntax"
	"github.com/defrex/just-bash/vfs"
)

// fieldPart is one run of a field's text, tagged with whether it came from
// inside quotes. Quoted runs are exempt from word splitting and, in
// GlobPattern, rendered with every glob metacharacter escaped so a quoted
// "*" never turns into a wildcard.
type fieldPart struct {
	str    string
	quoted bool
}

// field is a single expanding word's output before IFS splitting: a
// sequence of quoted and unquoted runs, kept separate so splitting only
// ever happens inside an unquoted run.
type field []fieldPart

func (f field) Plain() string {
	var sb strings.Builder
	for _, p := range f {
		sb.WriteString(p.str)
	}
	return sb.String()
}

// GlobPattern renders f as a glob pattern: unquoted runs pass through
// as-is (so their "*"/"?"/"[...]" remain live wildcards) while quoted runs
// are escaped to match literally.
func (f field) GlobPattern() string {
	var sb strings.Builder
	for _, p := range f {
		if p.quoted {
			sb.WriteString(pattern.QuoteMeta(p.str))
		} else {
			sb.WriteString(p.str)
		}
	}
	return sb.String()
}

func (f field) anyQuoted() bool {
	for _, p := range f {
		if p.quoted {
			return true
		}
	}
	return false
}

// Fields runs the full word-expansion pipeline from spec.md §4.3 on w:
// brace, tilde, parameter/command/arithmetic substitution, IFS word
// splitting, then pathname expansion. It is the entry point used for
// command arguments, for-loop word lists, and anywhere else a word can
// split into several fields.
func Fields(w *syntax.Word, cfg *Config) ([]string, error) {
	var out []string
	for _, bw := range expandBraces(w) {
		f, err := expandToField(bw, cfg)
		if err != nil {
			return nil, err
		}
		for _, raw := range splitFields(f, cfg) {
			matches, err := globField(raw, cfg)
			if err != nil {
				return nil, err
			}
			out = append(out, matches...)
		}
	}
	return out, nil
}

// Literal expands w the same way as Fields, except it skips word splitting
// and pathname expansion: used for assignment values, redirect targets,
// here-strings and anywhere else the shell wants exactly one resulting
// string.
func Literal(w *syntax.Word, cfg *Config) (string, error) {
	bws := expandBraces(w)
	if len(bws) != 1 {
		// A literal context never sees more than one brace alternative in
		// practice (assignment values and redirect targets aren't brace
		// expanded in bash either); take the first and move on.
		bws = bws[:1]
	}
	f, err := expandToField(bws[0], cfg)
	if err != nil {
		return "", err
	}
	return applyTilde(f, cfg).Plain(), nil
}

// expandToField applies tilde, parameter, command-substitution and
// arithmetic expansion to w, producing a single field (still unsplit,
// still unglobbed).
func expandToField(w *syntax.Word, cfg *Config) (field, error) {
	var f field
	for _, part := range w.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			f = append(f, fieldPart{str: p.Value, quoted: false})
		case *syntax.SglQuoted:
			f = append(f, fieldPart{str: p.Value, quoted: true})
		case *syntax.DblQuoted:
			s, err := expandDblQuoted(p, cfg)
			if err != nil {
				return nil, err
			}
			f = append(f, fieldPart{str: s, quoted: true})
		default:
			s, err := expandPartLiteral(part, cfg)
			if err != nil {
				return nil, err
			}
			f = append(f, fieldPart{str: s, quoted: false})
		}
	}
	return applyTilde(f, cfg), nil
}

func expandDblQuoted(dq *syntax.DblQuoted, cfg *Config) (string, error) {
	var sb strings.Builder
	for _, part := range dq.Parts {
		s, err := expandPartLiteral(part, cfg)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// expandPartLiteral reduces any WordPart to its plain string value: used
// both inside double quotes and for unquoted Lit/ParamExp/CmdSubst/ArithExp
// parts before splitting.
func expandPartLiteral(part syntax.WordPart, cfg *Config) (string, error) {
	switch p := part.(type) {
	case *syntax.Lit:
		return p.Value, nil
	case *syntax.SglQuoted:
		return p.Value, nil
	case *syntax.DblQuoted:
		return expandDblQuoted(p, cfg)
	case *syntax.ParamExp:
		return paramExp(p, cfg)
	case *syntax.CmdSubst:
		if cfg.CmdSubst == nil {
			return "", nil
		}
		out, err := cfg.CmdSubst(p.Stmts)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(out, "\n"), nil
	case *syntax.ArithExp:
		v, err := EvalArith(p.Text, cfg)
		if err != nil {
			return "", err
		}
		return itoa64(v), nil
	default:
		return "", nil
	}
}

// applyTilde expands a leading unquoted "~" or "~/..." at the start of the
// field to cfg.Home. Only the leading tilde is special; "~" anywhere else
// in the word is literal.
func applyTilde(f field, cfg *Config) field {
	if len(f) == 0 || f[0].quoted {
		return f
	}
	s := f[0].str
	if !strings.HasPrefix(s, "~") {
		return f
	}
	rest := s[1:]
	if rest != "" && rest[0] != '/' {
		return f // "~name" (other user's home) is out of scope; leave literal
	}
	home := cfg.Home
	if home == "" && cfg.Env != nil {
		if v, set := cfg.Env.Get("HOME"); set {
			home = v
		}
	}
	out := make(field, len(f))
	copy(out, f)
	out[0] = fieldPart{str: home + rest, quoted: false}
	return out
}

// splitFields performs IFS word splitting on the unquoted runs of f,
// leaving quoted runs intact as non-splittable anchors the way bash does:
// "a${x}b" with x=" y " splits to ["a", "y", "b"], while a quoted run such
// as "p q" is never split at its own blanks.
func splitFields(f field, cfg *Config) []field {
	if len(f) == 0 {
		return nil
	}
	// An entirely unquoted field that expands to nothing vanishes, the way
	// "echo a $empty b" yields two words, not three: a quoted empty field
	// ("echo a "" b") still stands for an empty argument.
	if !f.anyQuoted() && f.Plain() == "" {
		return nil
	}
	ifs := cfg.ifs()
	if ifs == "" || !f.anyQuoted() && !strings.ContainsAny(f.Plain(), ifs) {
		return []field{f}
	}

	var fields []field
	var cur field
	pending := false // true once we've seen at least one non-whitespace-worthy boundary

	flush := func() {
		if len(cur) > 0 {
			fields = append(fields, cur)
		}
		cur = nil
	}

	for _, p := range f {
		if p.quoted {
			cur = append(cur, p)
			pending = true
			continue
		}
		start := 0
		for i := 0; i < len(p.str); i++ {
			if strings.IndexByte(ifs, p.str[i]) >= 0 {
				if i > start {
					cur = append(cur, fieldPart{str: p.str[start:i]})
					pending = true
				}
				if pending {
					flush()
				}
				pending = false
				start = i + 1
			}
		}
		if start < len(p.str) {
			cur = append(cur, fieldPart{str: p.str[start:]})
			pending = true
		}
	}
	flush()
	return fields
}

// globField expands raw as a pathname pattern against cfg.FS. Per spec.md,
// a pattern with no metacharacters, or one with metacharacters that
// matches no path, stands for itself; quoted runs are escaped in the
// pattern, so a fully-quoted field is never globbed at all.
func globField(raw field, cfg *Config) ([]string, error) {
	if cfg.FS == nil {
		return []string{raw.Plain()}, nil
	}
	globPat := raw.GlobPattern()
	if !pattern.HasMeta(globPat) {
		return []string{raw.Plain()}, nil
	}
	matches, err := globPath(cfg.FS, cfg.Cwd, globPat)
	if err != nil || len(matches) == 0 {
		return []string{raw.Plain()}, nil
	}
	return matches, nil
}

// globPath walks globPat component by component from cfg.Cwd, matching
// each "*"/"?"/"[...]" segment against the filesystem's actual entries and
// returning every match, sorted: absolute for an absolute pattern, relative
// to cwd for a relative one.
func globPath(fs vfs.FS, cwd, globPat string) ([]string, error) {
	abs := globPat
	relPrefix := ""
	if !strings.HasPrefix(abs, "/") {
		relPrefix = strings.TrimSuffix(cwd, "/") + "/"
		abs = relPrefix + abs
	}
	segs := strings.Split(strings.TrimPrefix(abs, "/"), "/")

	matches := []string{"/"}
	for _, seg := range segs {
		if seg == "" {
			continue
		}
		var next []string
		for _, base := range matches {
			if !pattern.HasMeta(seg) {
				cand := joinPath(base, seg)
				if _, err := fs.Stat(cand); err == nil {
					next = append(next, cand)
				}
				continue
			}
			entries, err := fs.List(base)
			if err != nil {
				continue
			}
			for _, name := range entries {
				if strings.HasPrefix(name, ".") && !strings.HasPrefix(seg, ".") {
					continue
				}
				if pattern.Match(seg, name, pattern.Component) {
					next = append(next, joinPath(base, name))
				}
			}
		}
		matches = next
		if len(matches) == 0 {
			break
		}
	}
	if relPrefix != "" {
		for i, m := range matches {
			matches[i] = strings.TrimPrefix(m, relPrefix)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

func joinPath(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}
