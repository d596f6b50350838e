package parser

import "github.com/roach88/matchc/internal/syntax"

func (p *parser) parseProgram() *syntax.Program {
	prog := &syntax.Program{}
	for !p.atEOF() {
		prog.Body = append(prog.Body, p.parseStatement())
	}
	return prog
}

func (p *parser) parseStatement() syntax.Stmt {
	t := p.cur()
	if t.Kind == Punct {
		switch t.Value {
		case "{":
			return p.parseBlock()
		case ";":
			p.advance()
			return &syntax.EmptyStmt{Start: t.Pos}
		}
	}
	if t.Kind == Ident {
		switch t.Value {
		case "if":
			return p.parseIf()
		case "return":
			return p.parseReturn()
		case "throw":
			p.advance()
			x := p.parseExpr()
			p.endStatement()
			return &syntax.ThrowStmt{Start: t.Pos, X: x}
		case "const", "let", "var":
			return p.parseVarDecl()
		case "function":
			return p.parseFuncDecl()
		case "type":
			if p.startsTypeAlias(1) {
				return p.parseTypeAlias()
			}
		case "export":
			return p.parseExport()
		}
	}

	x := p.parseExpr()
	p.endStatement()
	return &syntax.ExprStmt{Start: t.Pos, X: x}
}

// endStatement consumes a semicolon or accepts an automatically inserted one.
func (p *parser) endStatement() {
	t := p.cur()
	switch {
	case tokenIs(t, ";"):
		p.advance()
	case tokenIs(t, "}"), t.Kind == EOF, t.NewlineBefore:
	default:
		p.failf(t, "expected \";\", found %s", describe(t))
	}
}

func (p *parser) parseBlock() *syntax.BlockStmt {
	b := &syntax.BlockStmt{Start: p.expect("{").Pos}
	for !p.is("}") {
		if p.atEOF() {
			p.failf(p.cur(), "unterminated block")
		}
		b.Body = append(b.Body, p.parseStatement())
	}
	p.expect("}")
	return b
}

func (p *parser) parseIf() *syntax.IfStmt {
	s := &syntax.IfStmt{Start: p.expect("if").Pos}
	p.expect("(")
	s.Test = p.parseExpr()
	p.expect(")")
	s.Then = p.parseStatement()
	if p.is("else") {
		p.advance()
		s.Else = p.parseStatement()
	}
	return s
}

func (p *parser) parseReturn() *syntax.ReturnStmt {
	s := &syntax.ReturnStmt{Start: p.expect("return").Pos}
	t := p.cur()
	if tokenIs(t, ";") || tokenIs(t, "}") || t.Kind == EOF || t.NewlineBefore {
		p.endStatement()
		return s
	}
	s.X = p.parseExpr()
	p.endStatement()
	return s
}

func (p *parser) parseVarDecl() *syntax.VarDecl {
	t := p.advance()
	d := &syntax.VarDecl{Start: t.Pos, Kind: t.Value}
	for {
		decl := &syntax.Declarator{Start: p.cur().Pos}
		decl.Target = p.parseBindingTarget()
		if p.is(":") {
			p.advance()
			decl.Type = p.parseType()
		}
		if p.is("=") {
			p.advance()
			decl.Init = p.parseAssign()
		}
		d.Decls = append(d.Decls, decl)
		if !p.is(",") {
			break
		}
		p.advance()
	}
	p.endStatement()
	return d
}

func (p *parser) parseFuncDecl() *syntax.FuncDecl {
	fn := &syntax.FuncDecl{Start: p.expect("function").Pos}
	fn.Name = p.ident()
	fn.Params = p.parseParams()
	if p.is(":") {
		p.advance()
		fn.ReturnType = p.parseType()
	}
	fn.Body = p.parseBlock()
	return fn
}

// startsTypeAlias reports whether the tokens at offset n read "type Name =" or "type Name<".
func (p *parser) startsTypeAlias(n int) bool {
	name := p.peek(n)
	if name.Kind != Ident || reserved[name.Value] || name.NewlineBefore {
		return false
	}
	next := p.peek(n + 1)
	return tokenIs(next, "=") || tokenIs(next, "<")
}

func (p *parser) parseTypeAlias() *syntax.TypeAlias {
	a := &syntax.TypeAlias{Start: p.expect("type").Pos}
	a.Name = p.ident()
	if p.is("<") {
		p.advance()
		for {
			a.TypeParams = append(a.TypeParams, p.ident())
			if !p.is(",") {
				break
			}
			p.advance()
		}
		p.expect(">")
	}
	p.expect("=")
	a.Type = p.parseType()
	p.endStatement()
	return a
}

func (p *parser) parseExport() syntax.Stmt {
	start := p.expect("export").Pos
	t := p.cur()
	switch {
	case tokenIs(t, "function"):
		fn := p.parseFuncDecl()
		fn.Start, fn.Exported = start, true
		return fn
	case tokenIs(t, "const"), tokenIs(t, "let"), tokenIs(t, "var"):
		d := p.parseVarDecl()
		d.Start, d.Exported = start, true
		return d
	case tokenIs(t, "type") && p.startsTypeAlias(1):
		a := p.parseTypeAlias()
		a.Start, a.Exported = start, true
		return a
	}
	p.failf(t, "unsupported export of %s", describe(t))
	return nil
}
