package parser

import "github.com/roach88/matchc/internal/syntax"

func (p *parser) parseType() syntax.Type {
	start := p.cur().Pos
	if p.is("|") {
		p.advance()
	}
	first := p.parseNonUnionType()
	if !p.is("|") {
		return first
	}
	u := &syntax.UnionType{Start: start, Types: []syntax.Type{first}}
	for p.is("|") {
		p.advance()
		u.Types = append(u.Types, p.parseNonUnionType())
	}
	return u
}

func (p *parser) parseNonUnionType() syntax.Type {
	t := p.parsePrimaryType()
	for p.is("[") && tokenIs(p.peek(1), "]") && !p.cur().NewlineBefore {
		p.advance()
		p.advance()
		t = &syntax.ArrayType{Start: t.Position(), Elem: t}
	}
	return t
}

func (p *parser) parsePrimaryType() syntax.Type {
	t := p.cur()
	switch t.Kind {
	case String:
		return &syntax.LiteralType{Start: t.Pos, Lit: p.stringLit()}
	case Number:
		return &syntax.LiteralType{Start: t.Pos, Lit: p.numberLit()}
	case Ident:
		switch {
		case t.Value == "true" || t.Value == "false":
			p.advance()
			return &syntax.LiteralType{Start: t.Pos, Lit: &syntax.BoolLit{Start: t.Pos, Value: t.Value == "true"}}
		case keywordTypes[t.Value]:
			p.advance()
			return &syntax.KeywordType{Start: t.Pos, Name: t.Value}
		}
		return p.parseTypeRef()
	case Punct:
		switch t.Value {
		case "-":
			if p.peek(1).Kind == Number {
				p.advance()
				n := p.numberLit()
				return &syntax.LiteralType{Start: t.Pos, Lit: &syntax.UnaryExpr{Start: t.Pos, Op: "-", X: n}}
			}
		case "[":
			return p.parseTupleType()
		case "{":
			return p.parseObjectType()
		case "(":
			p.advance()
			x := p.parseType()
			p.expect(")")
			return &syntax.ParenType{Start: t.Pos, X: x}
		}
	}
	p.failf(t, "expected type, found %s", describe(t))
	return nil
}

func (p *parser) parseTypeRef() *syntax.TypeRef {
	id := p.ident()
	ref := &syntax.TypeRef{Start: id.Start, Name: []string{id.Name}}
	for p.is(".") {
		p.advance()
		ref.Name = append(ref.Name, p.propertyName().Name)
	}
	if p.is("<") && !p.cur().NewlineBefore {
		ref.Args = p.parseTypeArgs()
	}
	return ref
}

func (p *parser) parseTypeArgs() []syntax.Type {
	p.expect("<")
	var args []syntax.Type
	for {
		args = append(args, p.parseType())
		if !p.is(",") {
			break
		}
		p.advance()
	}
	p.expect(">")
	return args
}

func (p *parser) parseTupleType() *syntax.TupleType {
	tt := &syntax.TupleType{Start: p.expect("[").Pos}
	for !p.is("]") {
		tt.Elems = append(tt.Elems, p.parseType())
		if !p.is("]") {
			p.expect(",")
		}
	}
	p.expect("]")
	return tt
}

func (p *parser) parseObjectType() *syntax.ObjectType {
	ot := &syntax.ObjectType{Start: p.expect("{").Pos}
	for !p.is("}") {
		t := p.cur()
		m := &syntax.TypeMember{}
		switch t.Kind {
		case Ident, Number, String:
			m.Name = t.Value
			p.advance()
		default:
			p.failf(t, "expected member name, found %s", describe(t))
		}
		if p.is("?") {
			p.advance()
			m.Optional = true
		}
		p.expect(":")
		m.Type = p.parseType()
		ot.Members = append(ot.Members, m)
		if p.is(";") || p.is(",") {
			p.advance()
		} else if !p.is("}") && !p.cur().NewlineBefore {
			p.failf(p.cur(), "expected \";\" or \"}\" in object type, found %s", describe(p.cur()))
		}
	}
	p.expect("}")
	return ot
}
