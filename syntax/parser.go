// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package syntax

import (
	"fmt"

	"github.com/defrex/just-bash/token"
)

// ParseError is returned for any grammar violation. The façade converts it
// into an exit-2 diagnostic, per spec.md §4.2.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return e.Msg }

// ParseProgram tokenizes and parses a full command-line string into a File.
func ParseProgram(src string) (*File, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	stmts, err := p.stmtList(func() bool { return false })
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != token.EOF {
		return nil, p.errNear()
	}
	return &File{Stmts: stmts}, nil
}

type parser struct {
	toks []Token
	pos  int
}

func (p *parser) cur() Token { return p.toks[p.pos] }

func (p *parser) peekAt(off int) Token {
	i := p.pos + off
	if i >= len(p.toks) {
		return Token{Kind: token.EOF}
	}
	return p.toks[i]
}

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *parser) errNear() error {
	return &ParseError{Msg: fmt.Sprintf("syntax error near unexpected token %s", tokenDisplay(p.cur()))}
}

func tokenDisplay(t Token) string {
	if t.Kind == token.WORD {
		if lit, ok := wordLit(t.Word); ok {
			return fmt.Sprintf("'%s'", lit)
		}
		return "'word'"
	}
	if t.Kind == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", t.Kind.String())
}

// wordLit returns a Word's text when it is exactly one unquoted literal
// fragment — the shape reserved words, keywords and assignment names must
// take, per POSIX's rule that quoting defeats reserved-word recognition.
func wordLit(w *Word) (string, bool) {
	if w == nil || len(w.Parts) != 1 {
		return "", false
	}
	lit, ok := w.Parts[0].(*Lit)
	if !ok {
		return "", false
	}
	return lit.Value, true
}

func (p *parser) atKeyword(kw string) bool {
	if p.cur().Kind != token.WORD {
		return false
	}
	s, ok := wordLit(p.cur().Word)
	return ok && s == kw
}

func (p *parser) eatKeyword(kw string) bool {
	if p.atKeyword(kw) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expectKeyword(kw string) error {
	if !p.eatKeyword(kw) {
		return p.errNear()
	}
	return nil
}

func (p *parser) atSeparator() bool {
	k := p.cur().Kind
	return k == token.SEMI || k == token.NEWLINE
}

func (p *parser) skipSeparators() {
	for p.atSeparator() {
		p.advance()
	}
}

func (p *parser) skipNewlines() {
	for p.cur().Kind == token.NEWLINE {
		p.advance()
	}
}

// stmtList parses a sequence of "complete commands" separated by ";" or
// newlines, stopping when stop() reports true or the token stream ends.
func (p *parser) stmtList(stop func() bool) ([]*Stmt, error) {
	var stmts []*Stmt
	for {
		p.skipSeparators()
		if stop() || p.cur().Kind == token.EOF {
			break
		}
		st, err := p.andOrStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
		if !p.atSeparator() && !stop() && p.cur().Kind != token.EOF {
			return nil, p.errNear()
		}
	}
	return stmts, nil
}

func (p *parser) word() (*Word, error) {
	if p.cur().Kind != token.WORD {
		return nil, p.errNear()
	}
	return p.advance().Word, nil
}

// andOrStmt parses one "pipeline (('&&'|'||') pipeline)* ['&']" group.
func (p *parser) andOrStmt() (*Stmt, error) {
	cmd, err := p.pipeline()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == token.LAND || p.cur().Kind == token.LOR {
		op := p.advance().Kind
		p.skipNewlines()
		right, err := p.pipeline()
		if err != nil {
			return nil, err
		}
		cmd = &List{Op: op, Left: cmd, Right: right}
	}
	bg := false
	if p.cur().Kind == token.AND {
		p.advance()
		bg = true
	}
	return &Stmt{Cmd: cmd, Background: bg}, nil
}

// pipeline parses one or more commands joined by "|", with an optional
// leading "!" negation.
func (p *parser) pipeline() (Command, error) {
	negated := false
	for p.atKeyword("!") {
		p.advance()
		negated = !negated
	}
	first, err := p.command()
	if err != nil {
		return nil, err
	}
	stages := []*Stmt{{Cmd: first}}
	for p.cur().Kind == token.OR {
		p.advance()
		p.skipNewlines()
		next, err := p.command()
		if err != nil {
			return nil, err
		}
		stages = append(stages, &Stmt{Cmd: next})
	}
	return &Pipeline{Negated: negated, Stages: stages}, nil
}

// command parses one pipeline stage: a compound command, function
// definition, or simple command.
func (p *parser) command() (Command, error) {
	switch {
	case p.atKeyword("if"):
		return p.ifClause()
	case p.atKeyword("while"):
		return p.whileClause(false)
	case p.atKeyword("until"):
		return p.whileClause(true)
	case p.atKeyword("for"):
		return p.forClause()
	case p.atKeyword("case"):
		return p.caseClause()
	case p.atKeyword("function"):
		return p.funcDeclKeyword()
	case p.cur().Kind == token.LPAREN:
		return p.subshell()
	case p.cur().Kind == token.LBRACE:
		return p.block()
	case p.isFuncDeclHeader():
		return p.funcDeclParens()
	default:
		return p.simpleCommand()
	}
}

func (p *parser) isFuncDeclHeader() bool {
	if p.cur().Kind != token.WORD {
		return false
	}
	if _, ok := wordLit(p.cur().Word); !ok {
		return false
	}
	return p.peekAt(1).Kind == token.LPAREN && p.peekAt(2).Kind == token.RPAREN
}

func (p *parser) funcDeclParens() (Command, error) {
	name, _ := wordLit(p.advance().Word)
	p.advance() // (
	p.advance() // )
	p.skipNewlines()
	body, err := p.command()
	if err != nil {
		return nil, err
	}
	return &FuncDecl{Name: name, Body: &Stmt{Cmd: body}}, nil
}

func (p *parser) funcDeclKeyword() (Command, error) {
	p.advance() // function
	if p.cur().Kind != token.WORD {
		return nil, p.errNear()
	}
	name, ok := wordLit(p.advance().Word)
	if !ok {
		return nil, p.errNear()
	}
	if p.cur().Kind == token.LPAREN && p.peekAt(1).Kind == token.RPAREN {
		p.advance()
		p.advance()
	}
	p.skipNewlines()
	body, err := p.command()
	if err != nil {
		return nil, err
	}
	return &FuncDecl{Name: name, Body: &Stmt{Cmd: body}}, nil
}

func (p *parser) subshell() (Command, error) {
	p.advance() // (
	stmts, err := p.stmtList(func() bool { return p.cur().Kind == token.RPAREN })
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != token.RPAREN {
		return nil, p.errNear()
	}
	p.advance()
	return &Subshell{Stmts: stmts}, nil
}

func (p *parser) block() (Command, error) {
	p.advance() // {
	stmts, err := p.stmtList(func() bool { return p.cur().Kind == token.RBRACE })
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != token.RBRACE {
		return nil, p.errNear()
	}
	p.advance()
	return &Block{Stmts: stmts}, nil
}

func (p *parser) ifClause() (Command, error) {
	p.advance() // if
	cond, err := p.stmtList(func() bool { return p.atKeyword("then") })
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("then"); err != nil {
		return nil, err
	}
	stopThenBody := func() bool { return p.atKeyword("elif") || p.atKeyword("else") || p.atKeyword("fi") }
	then, err := p.stmtList(stopThenBody)
	if err != nil {
		return nil, err
	}
	var elifs []*Elif
	for p.atKeyword("elif") {
		p.advance()
		c, err := p.stmtList(func() bool { return p.atKeyword("then") })
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("then"); err != nil {
			return nil, err
		}
		t, err := p.stmtList(stopThenBody)
		if err != nil {
			return nil, err
		}
		elifs = append(elifs, &Elif{Cond: c, Then: t})
	}
	var elseBody []*Stmt
	if p.eatKeyword("else") {
		elseBody, err = p.stmtList(func() bool { return p.atKeyword("fi") })
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectKeyword("fi"); err != nil {
		return nil, err
	}
	return &IfClause{Cond: cond, Then: then, Elifs: elifs, Else: elseBody}, nil
}

func (p *parser) whileClause(until bool) (Command, error) {
	p.advance() // while/until
	cond, err := p.stmtList(func() bool { return p.atKeyword("do") })
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("do"); err != nil {
		return nil, err
	}
	body, err := p.stmtList(func() bool { return p.atKeyword("done") })
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("done"); err != nil {
		return nil, err
	}
	return &WhileClause{Until: until, Cond: cond, Body: body}, nil
}

func (p *parser) forClause() (Command, error) {
	p.advance() // for
	if p.cur().Kind != token.WORD {
		return nil, p.errNear()
	}
	varName, ok := wordLit(p.advance().Word)
	if !ok {
		return nil, p.errNear()
	}
	p.skipSeparators()
	var words []*Word
	if p.eatKeyword("in") {
		for !p.atSeparator() && p.cur().Kind != token.EOF && !p.atKeyword("do") {
			w, err := p.word()
			if err != nil {
				return nil, err
			}
			words = append(words, w)
		}
		p.skipSeparators()
	}
	if err := p.expectKeyword("do"); err != nil {
		return nil, err
	}
	body, err := p.stmtList(func() bool { return p.atKeyword("done") })
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("done"); err != nil {
		return nil, err
	}
	return &ForClause{Var: varName, Words: words, Body: body}, nil
}

func (p *parser) caseClause() (Command, error) {
	p.advance() // case
	subject, err := p.word()
	if err != nil {
		return nil, err
	}
	p.skipSeparators()
	if err := p.expectKeyword("in"); err != nil {
		return nil, err
	}
	p.skipSeparators()
	var clauses []*CaseClauseItem
	for !p.atKeyword("esac") && p.cur().Kind != token.EOF {
		if p.cur().Kind == token.LPAREN {
			p.advance()
		}
		var pats []*Word
		pat, err := p.word()
		if err != nil {
			return nil, err
		}
		pats = append(pats, pat)
		for p.cur().Kind == token.OR {
			p.advance()
			pat, err := p.word()
			if err != nil {
				return nil, err
			}
			pats = append(pats, pat)
		}
		if p.cur().Kind != token.RPAREN {
			return nil, p.errNear()
		}
		p.advance()
		p.skipSeparators()
		body, err := p.stmtList(func() bool {
			return p.cur().Kind == token.DSEMI || p.atKeyword("esac")
		})
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, &CaseClauseItem{Patterns: pats, Body: body})
		if p.cur().Kind == token.DSEMI {
			p.advance()
		}
		p.skipSeparators()
	}
	if err := p.expectKeyword("esac"); err != nil {
		return nil, err
	}
	return &CaseClause{Word: subject, Clauses: clauses}, nil
}

var redirectOps = map[token.Kind]bool{
	token.LSS:    true,
	token.GTR:    true,
	token.SHL:    true,
	token.SHR:    true,
	token.DLESS:  true,
	token.RDRALL: true,
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// splitAssignWord recognizes the NAME=value shape the lexer always
// preserves as-is; the parser decides here whether it is actually in
// assignment position.
func splitAssignWord(w *Word) (name string, value *Word, ok bool) {
	if len(w.Parts) == 0 {
		return "", nil, false
	}
	lit, isLit := w.Parts[0].(*Lit)
	if !isLit {
		return "", nil, false
	}
	eq := -1
	for i, r := range lit.Value {
		if r == '=' {
			eq = i
			break
		}
		if !((i == 0 && isIdentStart(r)) || (i > 0 && isIdentPart(r))) {
			return "", nil, false
		}
	}
	if eq <= 0 {
		return "", nil, false
	}
	name = lit.Value[:eq]
	rest := lit.Value[eq+1:]
	parts := w.Parts[1:]
	if rest != "" {
		parts = append([]WordPart{&Lit{Value: rest}}, parts...)
	}
	return name, &Word{Parts: parts}, true
}

func (p *parser) simpleCommand() (Command, error) {
	var assigns []*Assign
	var args []*Word
	var redirs []*Redirect

	for {
		if len(args) == 0 && p.cur().Kind == token.WORD {
			if name, val, ok := splitAssignWord(p.cur().Word); ok {
				p.advance()
				assigns = append(assigns, &Assign{Name: name, Value: val})
				continue
			}
		}

		fd := -1
		opTok := p.cur()
		if opTok.Kind == token.WORD {
			if lit, ok := wordLit(opTok.Word); ok && isAllDigits(lit) && redirectOps[p.peekAt(1).Kind] {
				fd = atoiSimple(lit)
				p.advance()
				opTok = p.cur()
			}
		}
		if redirectOps[opTok.Kind] {
			p.advance()
			target, err := p.word()
			if err != nil {
				return nil, err
			}
			redirs = append(redirs, &Redirect{Fd: fd, Op: opTok.Kind, Target: target})
			continue
		}
		if fd != -1 {
			// a digit word was consumed speculatively but turned out not to
			// precede a redirect; this can't happen since redirectOps[peek]
			// was already required above, but keep the state machine honest.
			return nil, p.errNear()
		}

		if p.cur().Kind == token.WORD {
			args = append(args, p.advance().Word)
			continue
		}
		break
	}

	if len(assigns) == 0 && len(args) == 0 && len(redirs) == 0 {
		return nil, p.errNear()
	}
	return &CallExpr{Assigns: assigns, Args: args, Redirs: redirs}, nil
}

func atoiSimple(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
