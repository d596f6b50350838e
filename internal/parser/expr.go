package parser

import (
	"strconv"
	"strings"

	"github.com/roach88/matchc/internal/syntax"
)

// Binary operator precedence, higher binds tighter.
var binaryPrec = map[string]int{
	"??": 1,
	"||": 2,
	"&&": 3,
	"|":  4,
	"^":  5,
	"&":  6,
	"==": 7, "!=": 7, "===": 7, "!==": 7,
	"<": 8, ">": 8, "<=": 8, ">=": 8, "instanceof": 8, "in": 8, "as": 8,
	"+": 10, "-": 10,
	"*": 11, "/": 11, "%": 11,
	"**": 12,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "&&=": true, "||=": true, "??=": true,
}

func (p *parser) parseExpr() syntax.Expr {
	return p.parseAssign()
}

func (p *parser) parseAssign() syntax.Expr {
	t := p.cur()
	if t.Kind == Ident && !reserved[t.Value] {
		if next := p.peek(1); tokenIs(next, "=>") && !next.NewlineBefore {
			return p.parseArrowFromIdent()
		}
	}
	if p.is("(") {
		// Only the head backtracks. Errors in the body are real errors.
		var fn *syntax.ArrowFunc
		if p.try(func() { fn = p.parseArrowHead() }) {
			p.arrowBody(fn)
			return fn
		}
	}

	left := p.parseConditional()
	if op := p.cur(); op.Kind == Punct && assignOps[op.Value] {
		p.advance()
		value := p.parseAssign()
		return &syntax.AssignExpr{Start: left.Position(), Op: op.Value, Target: left, Value: value}
	}
	return left
}

func (p *parser) parseArrowFromIdent() *syntax.ArrowFunc {
	id := p.ident()
	p.expect("=>")
	fn := &syntax.ArrowFunc{
		Start:  id.Start,
		Params: []*syntax.Param{{Start: id.Start, Target: id}},
	}
	p.arrowBody(fn)
	return fn
}

// parseArrowHead consumes a parenthesized parameter list, an optional
// return type and the arrow.
func (p *parser) parseArrowHead() *syntax.ArrowFunc {
	fn := &syntax.ArrowFunc{Start: p.cur().Pos}
	fn.Params = p.parseParams()
	if p.is(":") {
		p.advance()
		fn.ReturnType = p.parseType()
	}
	if !p.is("=>") || p.cur().NewlineBefore {
		p.failf(p.cur(), "expected \"=>\", found %s", describe(p.cur()))
	}
	p.advance()
	return fn
}

func (p *parser) arrowBody(fn *syntax.ArrowFunc) {
	if p.is("{") {
		fn.Body = p.parseBlock()
		return
	}
	fn.ExprBody = p.parseAssign()
}

func (p *parser) parseParams() []*syntax.Param {
	p.expect("(")
	var params []*syntax.Param
	for !p.is(")") {
		param := &syntax.Param{Start: p.cur().Pos}
		if p.is("...") {
			p.advance()
			param.Rest = true
		}
		param.Target = p.parseBindingTarget()
		if p.is("?") {
			p.advance()
			param.Optional = true
		}
		if p.is(":") {
			p.advance()
			param.Type = p.parseType()
		}
		if p.is("=") {
			p.advance()
			param.Default = p.parseAssign()
		}
		params = append(params, param)
		if !p.is(")") {
			p.expect(",")
		}
	}
	p.expect(")")
	return params
}

// parseBindingTarget parses an identifier or a destructuring pattern.
func (p *parser) parseBindingTarget() syntax.Expr {
	switch {
	case p.is("["):
		start := p.advance().Pos
		arr := &syntax.ArrayLit{Start: start}
		for !p.is("]") {
			if p.is(",") {
				p.advance()
				arr.Elems = append(arr.Elems, nil)
				continue
			}
			arr.Elems = append(arr.Elems, p.bindingElement())
			if !p.is("]") {
				p.expect(",")
			}
		}
		p.expect("]")
		return arr
	case p.is("{"):
		start := p.advance().Pos
		obj := &syntax.ObjectLit{Start: start}
		for !p.is("}") {
			obj.Props = append(obj.Props, p.bindingProperty())
			if !p.is("}") {
				p.expect(",")
			}
		}
		p.expect("}")
		return obj
	}
	return p.ident()
}

func (p *parser) bindingElement() syntax.Expr {
	if p.is("...") {
		start := p.advance().Pos
		return &syntax.SpreadElement{Start: start, Arg: p.parseBindingTarget()}
	}
	target := p.parseBindingTarget()
	return p.bindingDefault(target)
}

func (p *parser) bindingDefault(target syntax.Expr) syntax.Expr {
	if !p.is("=") {
		return target
	}
	p.advance()
	return &syntax.AssignExpr{Start: target.Position(), Op: "=", Target: target, Value: p.parseAssign()}
}

func (p *parser) bindingProperty() *syntax.Property {
	start := p.cur().Pos
	if p.is("...") {
		p.advance()
		return &syntax.Property{Start: start, Value: p.ident(), Spread: true}
	}
	key, computed := p.propertyKey()
	if id, ok := key.(*syntax.Ident); ok && !computed && !p.is(":") {
		if reserved[id.Name] {
			p.failf(p.cur(), "unexpected keyword %q in binding pattern", id.Name)
		}
		return &syntax.Property{Start: start, Key: id, Value: p.bindingDefault(id), Shorthand: true}
	}
	p.expect(":")
	return &syntax.Property{Start: start, Key: key, Value: p.bindingElement(), Computed: computed}
}

// propertyKey parses an object key: a name, a string, a number or [expr].
func (p *parser) propertyKey() (syntax.Expr, bool) {
	t := p.cur()
	switch t.Kind {
	case Ident:
		p.advance()
		return &syntax.Ident{Start: t.Pos, Name: t.Value}, false
	case String:
		return p.stringLit(), false
	case Number:
		return p.numberLit(), false
	}
	if p.is("[") {
		p.advance()
		key := p.parseAssign()
		p.expect("]")
		return key, true
	}
	p.failf(t, "expected property key, found %s", describe(t))
	return nil, false
}

func (p *parser) parseConditional() syntax.Expr {
	test := p.parseBinary(0)
	if !p.is("?") {
		return test
	}
	p.advance()
	then := p.parseAssign()
	p.expect(":")
	els := p.parseAssign()
	return &syntax.ConditionalExpr{Start: test.Position(), Test: test, Then: then, Else: els}
}

func (p *parser) binaryOp() (string, int, bool) {
	t := p.cur()
	switch t.Kind {
	case Punct:
		prec, ok := binaryPrec[t.Value]
		return t.Value, prec, ok
	case Ident:
		switch t.Value {
		case "instanceof", "in":
			return t.Value, binaryPrec[t.Value], true
		case "as":
			if !t.NewlineBefore {
				return t.Value, binaryPrec[t.Value], true
			}
		}
	}
	return "", 0, false
}

func (p *parser) parseBinary(minPrec int) syntax.Expr {
	left := p.parseUnary()
	for {
		op, prec, ok := p.binaryOp()
		if !ok || prec <= minPrec {
			return left
		}
		p.advance()
		if op == "as" {
			left = &syntax.AsExpr{Start: left.Position(), X: left, Type: p.parseType()}
			continue
		}
		var right syntax.Expr
		if op == "**" {
			right = p.parseBinary(prec - 1)
		} else {
			right = p.parseBinary(prec)
		}
		switch op {
		case "&&", "||", "??":
			left = &syntax.LogicalExpr{Start: left.Position(), Op: op, Left: left, Right: right}
		default:
			left = &syntax.BinaryExpr{Start: left.Position(), Op: op, Left: left, Right: right}
		}
	}
}

func (p *parser) parseUnary() syntax.Expr {
	t := p.cur()
	isUnary := false
	switch t.Kind {
	case Punct:
		isUnary = t.Value == "!" || t.Value == "-" || t.Value == "+" || t.Value == "~"
	case Ident:
		isUnary = t.Value == "typeof" || t.Value == "void" || t.Value == "delete"
	}
	if !isUnary {
		return p.parsePostfix()
	}
	p.advance()
	return &syntax.UnaryExpr{Start: t.Pos, Op: t.Value, X: p.parseUnary()}
}

func (p *parser) parsePostfix() syntax.Expr {
	e := p.parsePrimary()
	for {
		t := p.cur()
		switch {
		case p.is("."):
			p.advance()
			e = &syntax.MemberExpr{Start: e.Position(), Object: e, Property: p.propertyName()}
		case p.is("?."):
			p.advance()
			switch {
			case p.is("("):
				e = &syntax.CallExpr{Start: e.Position(), Callee: e, Args: p.parseArgs(), Optional: true}
			case p.is("["):
				p.advance()
				idx := p.parseExpr()
				p.expect("]")
				e = &syntax.MemberExpr{Start: e.Position(), Object: e, Property: idx, Computed: true, Optional: true}
			default:
				e = &syntax.MemberExpr{Start: e.Position(), Object: e, Property: p.propertyName(), Optional: true}
			}
		case p.is("[") && !t.NewlineBefore:
			p.advance()
			idx := p.parseExpr()
			p.expect("]")
			e = &syntax.MemberExpr{Start: e.Position(), Object: e, Property: idx, Computed: true}
		case p.is("(") && !t.NewlineBefore:
			e = &syntax.CallExpr{Start: e.Position(), Callee: e, Args: p.parseArgs()}
		case p.is("!") && !t.NewlineBefore:
			p.advance()
			e = &syntax.NonNullExpr{Start: e.Position(), X: e}
		case t.Kind == NoSubstTemplate || t.Kind == TemplateHead:
			e = &syntax.TaggedTemplate{Start: e.Position(), Tag: e, Quasi: p.parseTemplate()}
		case p.is("<") && !t.NewlineBefore:
			var targs []syntax.Type
			if !p.try(func() {
				targs = p.parseTypeArgs()
				if !p.is("(") {
					p.failf(p.cur(), "expected call after type arguments")
				}
			}) {
				return e
			}
			e = &syntax.CallExpr{Start: e.Position(), Callee: e, TypeArgs: targs, Args: p.parseArgs()}
		default:
			return e
		}
	}
}

func (p *parser) parseArgs() []syntax.Expr {
	p.expect("(")
	args := []syntax.Expr{}
	for !p.is(")") {
		if p.is("...") {
			start := p.advance().Pos
			args = append(args, &syntax.SpreadElement{Start: start, Arg: p.parseAssign()})
		} else {
			args = append(args, p.parseAssign())
		}
		if !p.is(")") {
			p.expect(",")
		}
	}
	p.expect(")")
	return args
}

func (p *parser) parsePrimary() syntax.Expr {
	t := p.cur()
	switch t.Kind {
	case Number:
		return p.numberLit()
	case String:
		return p.stringLit()
	case NoSubstTemplate, TemplateHead:
		return p.parseTemplate()
	case Ident:
		switch t.Value {
		case "true", "false":
			p.advance()
			return &syntax.BoolLit{Start: t.Pos, Value: t.Value == "true"}
		case "null":
			p.advance()
			return &syntax.NullLit{Start: t.Pos}
		case "function":
			return p.parseFuncExpr()
		case "new":
			return p.parseNew()
		}
		return p.ident()
	case Punct:
		switch t.Value {
		case "(":
			p.advance()
			x := p.parseExpr()
			p.expect(")")
			return &syntax.ParenExpr{Start: t.Pos, X: x}
		case "[":
			return p.parseArrayLit()
		case "{":
			return p.parseObjectLit()
		}
	}
	p.failf(t, "unexpected %s", describe(t))
	return nil
}

func (p *parser) numberLit() *syntax.NumberLit {
	t := p.advance()
	v, err := numberValue(t.Value)
	if err != nil {
		p.failf(t, "malformed number %s", t.Value)
	}
	return &syntax.NumberLit{Start: t.Pos, Raw: t.Value, Value: v}
}

func (p *parser) stringLit() *syntax.StringLit {
	t := p.advance()
	v, err := unquote(t.Value[1 : len(t.Value)-1])
	if err != nil {
		p.failf(t, "%v", err)
	}
	return &syntax.StringLit{Start: t.Pos, Raw: t.Value, Value: v}
}

func (p *parser) parseTemplate() *syntax.TemplateLit {
	t := p.advance()
	tpl := &syntax.TemplateLit{Start: t.Pos, Quasis: []string{t.Value}}
	if t.Kind == NoSubstTemplate {
		return tpl
	}
	for {
		tpl.Exprs = append(tpl.Exprs, p.parseExpr())
		t = p.cur()
		switch t.Kind {
		case TemplateMiddle:
			p.advance()
			tpl.Quasis = append(tpl.Quasis, t.Value)
		case TemplateTail:
			p.advance()
			tpl.Quasis = append(tpl.Quasis, t.Value)
			return tpl
		default:
			p.failf(t, "expected } closing template substitution, found %s", describe(t))
		}
	}
}

func (p *parser) parseArrayLit() *syntax.ArrayLit {
	arr := &syntax.ArrayLit{Start: p.expect("[").Pos}
	for !p.is("]") {
		if p.is(",") {
			p.advance()
			arr.Elems = append(arr.Elems, nil)
			continue
		}
		if p.is("...") {
			start := p.advance().Pos
			arr.Elems = append(arr.Elems, &syntax.SpreadElement{Start: start, Arg: p.parseAssign()})
		} else {
			arr.Elems = append(arr.Elems, p.parseAssign())
		}
		if !p.is("]") {
			p.expect(",")
		}
	}
	p.expect("]")
	return arr
}

func (p *parser) parseObjectLit() *syntax.ObjectLit {
	obj := &syntax.ObjectLit{Start: p.expect("{").Pos}
	for !p.is("}") {
		obj.Props = append(obj.Props, p.parseProperty())
		if !p.is("}") {
			p.expect(",")
		}
	}
	p.expect("}")
	return obj
}

func (p *parser) parseProperty() *syntax.Property {
	start := p.cur().Pos
	if p.is("...") {
		p.advance()
		return &syntax.Property{Start: start, Value: p.parseAssign(), Spread: true}
	}
	key, computed := p.propertyKey()
	if id, ok := key.(*syntax.Ident); ok && !computed {
		switch {
		case p.is(",") || p.is("}"):
			return &syntax.Property{Start: start, Key: id, Value: id, Shorthand: true}
		case p.is("="):
			// only valid when the literal is later read as a binding pattern
			return &syntax.Property{Start: start, Key: id, Value: p.bindingDefault(id), Shorthand: true}
		case p.is("("):
			p.failf(p.cur(), "method definitions are not supported")
		}
	}
	p.expect(":")
	return &syntax.Property{Start: start, Key: key, Value: p.parseAssign(), Computed: computed}
}

func (p *parser) parseFuncExpr() *syntax.FuncExpr {
	fn := &syntax.FuncExpr{Start: p.expect("function").Pos}
	if t := p.cur(); t.Kind == Ident && !reserved[t.Value] {
		fn.Name = p.ident()
	}
	fn.Params = p.parseParams()
	if p.is(":") {
		p.advance()
		fn.ReturnType = p.parseType()
	}
	fn.Body = p.parseBlock()
	return fn
}

func (p *parser) parseNew() *syntax.NewExpr {
	n := &syntax.NewExpr{Start: p.expect("new").Pos}
	var callee syntax.Expr = p.ident()
	for p.is(".") {
		p.advance()
		callee = &syntax.MemberExpr{Start: callee.Position(), Object: callee, Property: p.propertyName()}
	}
	n.Callee = callee
	if p.is("<") {
		n.TypeArgs = p.parseTypeArgs()
	}
	if p.is("(") {
		n.Args = p.parseArgs()
	}
	return n
}

func numberValue(raw string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSuffix(raw, "n"), "_", "")
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			return float64(n), err
		}
	}
	return strconv.ParseFloat(s, 64)
}
