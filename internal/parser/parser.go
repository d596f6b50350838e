// Package parser reads the TypeScript subset understood by matchc into a
// syntax tree.
//
// The parser is a hand-written recursive descent parser with precedence
// climbing for binary operators. Arrow functions and explicit call type
// arguments are recognized by speculative parsing: the parser tries the longer
// reading and rewinds when it fails.
package parser

import (
	"fmt"

	"github.com/roach88/matchc/internal/syntax"
)

// ParseProgram parses a whole source file.
func ParseProgram(src string) (prog *syntax.Program, err error) {
	err = run(src, func(p *parser) {
		prog = p.parseProgram()
	})
	return prog, err
}

// ParseExpr parses src as a single expression. Trailing input is an error.
func ParseExpr(src string) (e syntax.Expr, err error) {
	err = run(src, func(p *parser) {
		e = p.parseExpr()
		p.expectEOF()
	})
	return e, err
}

// ParseType parses src as a single type annotation.
func ParseType(src string) (t syntax.Type, err error) {
	err = run(src, func(p *parser) {
		t = p.parseType()
		p.expectEOF()
	})
	return t, err
}

func run(src string, f func(p *parser)) (err error) {
	toks, err := Tokenize(src)
	if err != nil {
		return err
	}
	p := &parser{toks: toks}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			err = b.err
		}
	}()
	f(p)
	return nil
}

type parser struct {
	toks []Token
	i    int
}

func (p *parser) cur() Token { return p.toks[p.i] }

func (p *parser) peek(n int) Token {
	j := p.i + n
	if j >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[j]
}

func (p *parser) advance() Token {
	t := p.toks[p.i]
	if p.i < len(p.toks)-1 {
		p.i++
	}
	return t
}

// is reports whether the current token is the punctuator or keyword v.
func (p *parser) is(v string) bool {
	return tokenIs(p.cur(), v)
}

func tokenIs(t Token, v string) bool {
	return (t.Kind == Punct || t.Kind == Ident) && t.Value == v
}

func (p *parser) atEOF() bool { return p.cur().Kind == EOF }

func (p *parser) expect(v string) Token {
	if !p.is(v) {
		p.failf(p.cur(), "expected %q, found %s", v, describe(p.cur()))
	}
	return p.advance()
}

func (p *parser) expectEOF() {
	if !p.atEOF() {
		p.failf(p.cur(), "unexpected %s after expression", describe(p.cur()))
	}
}

func (p *parser) failf(t Token, format string, args ...any) {
	panic(bailout{err: newError(t.Pos, "%s", fmt.Sprintf(format, args...))})
}

// try runs f and reports whether it parsed without error. On failure the
// token position is restored.
func (p *parser) try(f func()) (ok bool) {
	save := p.i
	defer func() {
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			p.i = save
			ok = false
		}
	}()
	f()
	return true
}

// ident consumes a non-reserved identifier.
func (p *parser) ident() *syntax.Ident {
	t := p.cur()
	if t.Kind != Ident || reserved[t.Value] {
		p.failf(t, "expected identifier, found %s", describe(t))
	}
	p.advance()
	return &syntax.Ident{Start: t.Pos, Name: t.Value}
}

// propertyName consumes any identifier, keywords included, after a dot.
func (p *parser) propertyName() *syntax.Ident {
	t := p.cur()
	if t.Kind != Ident {
		p.failf(t, "expected property name, found %s", describe(t))
	}
	p.advance()
	return &syntax.Ident{Start: t.Pos, Name: t.Value}
}
