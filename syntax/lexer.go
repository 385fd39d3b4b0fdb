// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package syntax

import (
	"fmt"
	"strings"

	"github.com/defrex/just-bash/token"
)

// Token is one lexical item produced by Lex.
type Token struct {
	Kind token.Kind
	Word *Word // set for token.WORD
}

// LexError is returned for unterminated quotes, heredocs, or substitutions.
// The façade converts it into an exit-2 diagnostic, per spec.md §4.1.
type LexError struct {
	Msg string
}

func (e *LexError) Error() string { return e.Msg }

var errUnexpectedEOF = &LexError{Msg: "syntax error: unexpected end of input"}

// Lex tokenizes a full command-line string.
func Lex(src string) ([]Token, error) {
	l := &lexer{src: []rune(src)}
	return l.run()
}

type lexer struct {
	src []rune
	pos int
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekAt(off int) rune {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) eof() bool { return l.pos >= len(l.src) }

func (l *lexer) advance() rune {
	c := l.src[l.pos]
	l.pos++
	return c
}

func isOperatorStart(c rune) bool {
	switch c {
	case '<', '>', '&', '|', ';', '(', ')':
		return true
	}
	return false
}

func isIdentStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (l *lexer) run() ([]Token, error) {
	var toks []Token
	for {
		l.skipBlanks()
		if l.eof() {
			toks = append(toks, Token{Kind: token.EOF})
			return toks, nil
		}
		c := l.peek()
		if c == '\n' {
			l.advance()
			toks = append(toks, Token{Kind: token.NEWLINE})
			continue
		}
		if c == '#' {
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		if isOperatorStart(c) {
			kind, ok := l.matchOperator()
			if !ok {
				return nil, &LexError{Msg: fmt.Sprintf("syntax error near unexpected token '%c'", c)}
			}
			toks = append(toks, Token{Kind: kind})
			continue
		}
		w, err := l.lexWord()
		if err != nil {
			return nil, err
		}
		toks = append(toks, reclassify(w))
	}
}

// reclassify turns a single-char literal word of "{" or "}" into the
// matching reserved-word operator token; POSIX only recognizes these as
// block delimiters when they stand alone as a whole word.
func reclassify(w *Word) Token {
	if len(w.Parts) == 1 {
		if lit, ok := w.Parts[0].(*Lit); ok {
			switch lit.Value {
			case "{":
				return Token{Kind: token.LBRACE}
			case "}":
				return Token{Kind: token.RBRACE}
			}
		}
	}
	return Token{Kind: token.WORD, Word: w}
}

func (l *lexer) skipBlanks() {
	for !l.eof() {
		switch l.peek() {
		case ' ', '\t':
			l.advance()
		default:
			return
		}
	}
}

func (l *lexer) matchOperator() (token.Kind, bool) {
	rest := l.src[l.pos:]
	for _, op := range token.Operators {
		rl := []rune(op.Lit)
		if len(rest) < len(rl) {
			continue
		}
		if string(rest[:len(rl)]) == op.Lit {
			l.pos += len(rl)
			return op.Kind, true
		}
	}
	return 0, false
}

// lexWord reads one WORD token: a maximal run of literal, quoted, and
// expansion fragments with no unquoted whitespace or operator between them.
func (l *lexer) lexWord() (*Word, error) {
	var parts []WordPart
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, &Lit{Value: lit.String()})
			lit.Reset()
		}
	}
	for {
		if l.eof() {
			break
		}
		c := l.peek()
		if c == ' ' || c == '\t' || c == '\n' || isOperatorStart(c) {
			break
		}
		switch c {
		case '\'':
			l.advance()
			start := l.pos
			for {
				if l.eof() {
					return nil, errUnexpectedEOF
				}
				if l.peek() == '\'' {
					break
				}
				l.advance()
			}
			val := string(l.src[start:l.pos])
			l.advance() // closing quote
			flush()
			parts = append(parts, &SglQuoted{Value: val})
		case '"':
			l.advance()
			inner, err := l.lexDoubleQuoted()
			if err != nil {
				return nil, err
			}
			flush()
			parts = append(parts, &DblQuoted{Parts: inner})
		case '\\':
			l.advance()
			if l.eof() {
				return nil, errUnexpectedEOF
			}
			esc := l.advance()
			if esc == '\n' {
				continue // line continuation
			}
			lit.WriteRune(esc)
		case '$':
			part, err := l.lexDollar()
			if err != nil {
				return nil, err
			}
			if part == nil {
				lit.WriteRune('$')
				l.advance()
				continue
			}
			flush()
			parts = append(parts, part)
		case '`':
			part, err := l.lexBacktick()
			if err != nil {
				return nil, err
			}
			flush()
			parts = append(parts, part)
		default:
			lit.WriteRune(c)
			l.advance()
		}
	}
	flush()
	if len(parts) == 0 {
		return nil, errUnexpectedEOF
	}
	return &Word{Parts: parts}, nil
}

// lexDoubleQuoted reads the contents of a "..." segment, having already
// consumed the opening quote. Unquoted-only word splitting and pathname
// expansion never apply inside the returned parts, per spec.md §4.3.
func (l *lexer) lexDoubleQuoted() ([]WordPart, error) {
	var parts []WordPart
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, &Lit{Value: lit.String()})
			lit.Reset()
		}
	}
	for {
		if l.eof() {
			return nil, errUnexpectedEOF
		}
		c := l.peek()
		if c == '"' {
			l.advance()
			flush()
			return parts, nil
		}
		switch c {
		case '\\':
			l.advance()
			if l.eof() {
				return nil, errUnexpectedEOF
			}
			esc := l.advance()
			switch esc {
			case '"', '\\', '$', '`':
				lit.WriteRune(esc)
			case '\n':
				// line continuation
			default:
				lit.WriteRune('\\')
				lit.WriteRune(esc)
			}
		case '$':
			part, err := l.lexDollar()
			if err != nil {
				return nil, err
			}
			if part == nil {
				lit.WriteRune('$')
				l.advance()
				continue
			}
			flush()
			parts = append(parts, part)
		case '`':
			part, err := l.lexBacktick()
			if err != nil {
				return nil, err
			}
			flush()
			parts = append(parts, part)
		default:
			lit.WriteRune(c)
			l.advance()
		}
	}
}

// lexDollar parses a $-introduced expansion, having NOT yet consumed the
// '$'. It returns (nil, nil) if '$' isn't followed by anything recognized,
// in which case the caller treats '$' as a literal character.
func (l *lexer) lexDollar() (WordPart, error) {
	if l.peekAt(1) == '(' {
		if l.peekAt(2) == '(' {
			return l.lexArith()
		}
		return l.lexCmdSubstDollar()
	}
	if l.peekAt(1) == '{' {
		return l.lexParamBraced()
	}
	c := l.peekAt(1)
	switch {
	case isIdentStart(c):
		l.advance() // $
		start := l.pos
		for !l.eof() && isIdentPart(l.peek()) {
			l.advance()
		}
		return &ParamExp{Name: string(l.src[start:l.pos])}, nil
	case c >= '0' && c <= '9', c == '#', c == '@', c == '*', c == '?', c == '$', c == '!':
		l.advance() // $
		name := string(l.advance())
		return &ParamExp{Name: name}, nil
	default:
		return nil, nil
	}
}

// lexArith reads $((expr)), having confirmed both opening parens.
func (l *lexer) lexArith() (WordPart, error) {
	l.pos += 3 // $((
	depth := 1
	start := l.pos
	for {
		if l.eof() {
			return nil, errUnexpectedEOF
		}
		switch l.peek() {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				text := string(l.src[start:l.pos])
				l.advance()
				if l.eof() || l.peek() != ')' {
					return nil, errUnexpectedEOF
				}
				l.advance()
				return &ArithExp{Text: text}, nil
			}
		}
		l.advance()
	}
}

// lexCmdSubstDollar reads $(...), having confirmed the '('.
func (l *lexer) lexCmdSubstDollar() (WordPart, error) {
	l.pos += 2 // $(
	text, err := l.readBalanced('(', ')')
	if err != nil {
		return nil, err
	}
	stmts, err := parseSubstitution(text)
	if err != nil {
		return nil, err
	}
	return &CmdSubst{Stmts: stmts}, nil
}

// lexBacktick reads `...`, having NOT yet consumed the opening backtick.
func (l *lexer) lexBacktick() (WordPart, error) {
	l.advance() // `
	start := l.pos
	for {
		if l.eof() {
			return nil, errUnexpectedEOF
		}
		if l.peek() == '\\' && l.peekAt(1) == '`' {
			l.advance()
			l.advance()
			continue
		}
		if l.peek() == '`' {
			break
		}
		l.advance()
	}
	text := string(l.src[start:l.pos])
	l.advance() // closing backtick
	stmts, err := parseSubstitution(strings.ReplaceAll(text, "\\`", "`"))
	if err != nil {
		return nil, err
	}
	return &CmdSubst{Stmts: stmts}, nil
}

// lexParamBraced reads ${...}, having confirmed the '{'.
func (l *lexer) lexParamBraced() (WordPart, error) {
	l.pos += 2 // ${
	text, err := l.readBalanced('{', '}')
	if err != nil {
		return nil, err
	}
	return parseParamExpBody(text)
}

// readBalanced consumes up to and including the rune closing the already-
// opened (open, close) pair at depth 1, honoring quotes so that parens or
// braces inside a nested string literal don't confuse the depth count. It
// returns the text strictly between the outer delimiters.
func (l *lexer) readBalanced(open, close rune) (string, error) {
	depth := 1
	start := l.pos
	for {
		if l.eof() {
			return "", errUnexpectedEOF
		}
		c := l.peek()
		switch c {
		case '\'':
			l.advance()
			for {
				if l.eof() {
					return "", errUnexpectedEOF
				}
				if l.advance() == '\'' {
					break
				}
			}
			continue
		case '"':
			l.advance()
			for {
				if l.eof() {
					return "", errUnexpectedEOF
				}
				if l.peek() == '\\' {
					l.advance()
					if l.eof() {
						return "", errUnexpectedEOF
					}
					l.advance()
					continue
				}
				if l.advance() == '"' {
					break
				}
			}
			continue
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				text := string(l.src[start:l.pos])
				l.advance()
				return text, nil
			}
		}
		l.advance()
	}
}

// parseParamExpBody parses the text between "${" and "}".
func parseParamExpBody(text string) (WordPart, error) {
	if strings.HasPrefix(text, "#") && len(text) > 1 && isIdentStart(rune(text[1])) {
		name := text[1:]
		if isPlainIdent(name) {
			return &ParamExp{Name: name, Excl: true}, nil
		}
	}
	for _, op := range []string{":-", ":+", ":=", "##", "#", "%%", "%"} {
		if idx := strings.Index(text, op); idx > 0 && isPlainIdent(text[:idx]) {
			name := text[:idx]
			argText := text[idx+len(op):]
			argWord, err := lexWordString(argText)
			if err != nil {
				return nil, err
			}
			return &ParamExp{Name: name, Op: op, Arg: argWord}, nil
		}
	}
	return &ParamExp{Name: text}, nil
}

func isPlainIdent(s string) bool {
	if s == "" || !isIdentStart(rune(s[0])) {
		return false
	}
	for _, r := range s[1:] {
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}

// lexWordString lexes a standalone word fragment, such as a ${name:-word}
// operand, reusing the same quote/expansion rules as top-level words. An
// empty fragment (e.g. ${name:-}) yields an empty, zero-part word.
func lexWordString(s string) (*Word, error) {
	if s == "" {
		return &Word{}, nil
	}
	l := &lexer{src: []rune(s)}
	return l.lexWord()
}

// parseSubstitution parses the statements inside a command substitution by
// running the text back through ParseProgram (parser.go).
func parseSubstitution(src string) ([]*Stmt, error) {
	f, err := ParseProgram(src)
	if err != nil {
		return nil, err
	}
	return f.Stmts, nil
}
