// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package expand

import (
	"strconv"
	"strings"

	"github.com/defrex/just-bash/syntax"
)

// expandBraces is the first expansion phase. It only applies to a word made
// up entirely of unquoted literal text (no quoting or substitutions) — the
// one shape brace expansion is ever used on in practice — and leaves every
// other word untouched. A word containing "{a,b}" or "{1..5}" becomes
// several words; anything else passes through as a single-element slice
// holding the original word.
func expandBraces(w *syntax.Word) []*syntax.Word {
	text, ok := allLit(w)
	if !ok {
		return []*syntax.Word{w}
	}
	results := expandBraceString(text)
	if len(results) == 1 && results[0] == text {
		return []*syntax.Word{w}
	}
	out := make([]*syntax.Word, len(results))
	for i, s := range results {
		out[i] = &syntax.Word{Parts: []syntax.WordPart{&syntax.Lit{Value: s}}}
	}
	return out
}

func allLit(w *syntax.Word) (string, bool) {
	var sb strings.Builder
	for _, p := range w.Parts {
		lit, ok := p.(*syntax.Lit)
		if !ok {
			return "", false
		}
		sb.WriteString(lit.Value)
	}
	return sb.String(), true
}

// expandBraceString expands the first top-level "{...}" group in s and
// recurses on the pieces either side, POSIX-shell style.
func expandBraceString(s string) []string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return []string{s}
	}
	depth := 0
	end := -1
	var commas []int
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i
			}
		case ',':
			if depth == 1 {
				commas = append(commas, i)
			}
		}
		if end != -1 {
			break
		}
	}
	if end == -1 {
		return []string{s} // unbalanced: leave the "{" literal
	}
	inner := s[start+1 : end]
	prefix := s[:start]
	suffix := s[end+1:]

	var items []string
	if rng, ok := braceRange(inner); ok {
		items = rng
	} else if len(commas) > 0 {
		items = splitTopLevel(inner, commas, start)
	} else {
		return []string{s} // "{foo}" with no comma or range isn't a brace group
	}

	var mid []string
	for _, item := range items {
		mid = append(mid, expandBraceString(item)...)
	}
	suffixes := expandBraceString(suffix)
	out := make([]string, 0, len(mid)*len(suffixes))
	for _, m := range mid {
		for _, suf := range suffixes {
			out = append(out, prefix+m+suf)
		}
	}
	return out
}

func splitTopLevel(inner string, commasAbs []int, groupStart int) []string {
	var parts []string
	prev := groupStart + 1
	for _, c := range commasAbs {
		parts = append(parts, inner[prev-groupStart-1:c-groupStart-1])
		prev = c + 1
	}
	parts = append(parts, inner[prev-groupStart-1:])
	return parts
}

// braceRange recognizes "N..M" (integers, zero-padding preserved) and
// "a..z" (single letters), bash's two range forms.
func braceRange(inner string) ([]string, bool) {
	sep := strings.Index(inner, "..")
	if sep < 0 {
		return nil, false
	}
	lo, hi := inner[:sep], inner[sep+2:]
	if n, err := strconv.Atoi(lo); err == nil {
		if m, err2 := strconv.Atoi(hi); err2 == nil {
			return intRange(n, m, len(lo) > 0 && lo[0] == '0' || (len(lo) > 1 && lo[0] == '-' && lo[1] == '0')), true
		}
	}
	if len(lo) == 1 && len(hi) == 1 && isAsciiLetter(lo[0]) && isAsciiLetter(hi[0]) {
		return letterRange(lo[0], hi[0]), true
	}
	return nil, false
}

func isAsciiLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func intRange(n, m int, zeroPad bool) []string {
	width := 0
	if zeroPad {
		width = len(strconv.Itoa(abs(n)))
		if w2 := len(strconv.Itoa(abs(m))); w2 > width {
			width = w2
		}
	}
	var out []string
	step := 1
	if n > m {
		step = -1
	}
	for i := n; ; i += step {
		out = append(out, padInt(i, width))
		if i == m {
			break
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func padInt(n, width int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	digits := s
	if neg {
		digits = s[1:]
	}
	for len(digits) < width {
		digits = "0" + digits
	}
	if neg {
		return "-" + digits
	}
	return digits
}

func letterRange(lo, hi byte) []string {
	var out []string
	step := 1
	if lo > hi {
		step = -1
	}
	for c := int(lo); ; c += step {
		out = append(out, string(rune(c)))
		if c == int(hi) {
			break
		}
	}
	return out
}
