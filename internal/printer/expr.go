package printer

import (
	"strings"

	"github.com/roach88/matchc/internal/syntax"
)

// Precedence levels, higher binds tighter.
const (
	precLowest = iota
	precAssign
	precConditional
	precNullish
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precExponent
	precUnary
	precPostfix
	precCall
	precPrimary
)

var opPrec = map[string]int{
	"??": precNullish,
	"||": precOr,
	"&&": precAnd,
	"|":  precBitOr,
	"^":  precBitXor,
	"&":  precBitAnd,
	"==": precEquality, "!=": precEquality, "===": precEquality, "!==": precEquality,
	"<": precRelational, ">": precRelational, "<=": precRelational, ">=": precRelational,
	"instanceof": precRelational, "in": precRelational,
	"<<": precShift, ">>": precShift, ">>>": precShift,
	"+": precAdditive, "-": precAdditive,
	"*": precMultiplicative, "/": precMultiplicative, "%": precMultiplicative,
	"**": precExponent,
}

func exprPrec(e syntax.Expr) int {
	switch e := e.(type) {
	case *syntax.ArrowFunc, *syntax.AssignExpr:
		return precAssign
	case *syntax.ConditionalExpr:
		return precConditional
	case *syntax.LogicalExpr:
		return opPrec[e.Op]
	case *syntax.BinaryExpr:
		return opPrec[e.Op]
	case *syntax.AsExpr:
		return precRelational
	case *syntax.UnaryExpr:
		return precUnary
	case *syntax.NonNullExpr:
		return precPostfix
	case *syntax.CallExpr, *syntax.MemberExpr, *syntax.NewExpr, *syntax.TaggedTemplate:
		return precCall
	}
	return precPrimary
}

func (c Config) expr(e syntax.Expr, depth, min int) string {
	if c.Substitute != nil {
		if s, ok := c.Substitute(e, depth); ok {
			return s
		}
	}
	s := c.exprText(e, depth)
	if exprPrec(e) < min {
		return "(" + s + ")"
	}
	return s
}

func (c Config) exprText(e syntax.Expr, depth int) string {
	switch e := e.(type) {
	case *syntax.Ident:
		return e.Name
	case *syntax.NumberLit:
		return numberText(e)
	case *syntax.StringLit:
		return stringText(e)
	case *syntax.BoolLit:
		if e.Value {
			return "true"
		}
		return "false"
	case *syntax.NullLit:
		return "null"
	case *syntax.TemplateLit:
		return c.template(e, depth)
	case *syntax.TaggedTemplate:
		return c.expr(e.Tag, depth, precCall) + c.template(e.Quasi, depth)
	case *syntax.ArrayLit:
		return c.array(e, depth)
	case *syntax.ObjectLit:
		return c.object(e, depth)
	case *syntax.SpreadElement:
		return "..." + c.expr(e.Arg, depth, precAssign)
	case *syntax.ArrowFunc:
		return c.arrow(e, depth)
	case *syntax.FuncExpr:
		var b strings.Builder
		b.WriteString("function")
		if e.Name != nil {
			b.WriteString(" " + e.Name.Name)
		}
		b.WriteString("(" + c.params(e.Params, depth) + ")")
		if e.ReturnType != nil {
			b.WriteString(": " + c.Type(e.ReturnType))
		}
		b.WriteString(" " + c.Block(e.Body, depth))
		return b.String()
	case *syntax.CallExpr:
		var b strings.Builder
		b.WriteString(c.expr(e.Callee, depth, precCall))
		if e.Optional {
			b.WriteString("?.")
		}
		b.WriteString(c.typeArgs(e.TypeArgs))
		b.WriteString("(" + c.list(e.Args, depth) + ")")
		return b.String()
	case *syntax.NewExpr:
		callee := c.expr(e.Callee, depth, precCall)
		if _, ok := e.Callee.(*syntax.CallExpr); ok {
			callee = "(" + callee + ")"
		}
		return "new " + callee + c.typeArgs(e.TypeArgs) + "(" + c.list(e.Args, depth) + ")"
	case *syntax.MemberExpr:
		obj := c.expr(e.Object, depth, precCall)
		if n, ok := e.Object.(*syntax.NumberLit); ok && !e.Computed && isPlainInteger(numberText(n)) {
			obj = "(" + obj + ")"
		}
		switch {
		case e.Computed && e.Optional:
			return obj + "?.[" + c.expr(e.Property, depth, precLowest) + "]"
		case e.Computed:
			return obj + "[" + c.expr(e.Property, depth, precLowest) + "]"
		case e.Optional:
			return obj + "?." + c.expr(e.Property, depth, precPrimary)
		}
		return obj + "." + c.expr(e.Property, depth, precPrimary)
	case *syntax.NonNullExpr:
		return c.expr(e.X, depth, precCall) + "!"
	case *syntax.UnaryExpr:
		x := c.expr(e.X, depth, precUnary)
		switch {
		case e.Op == "typeof" || e.Op == "void" || e.Op == "delete":
			return e.Op + " " + x
		case (e.Op == "-" || e.Op == "+") && strings.HasPrefix(x, e.Op):
			return e.Op + " " + x
		}
		return e.Op + x
	case *syntax.BinaryExpr:
		return c.binary(e.Op, e.Left, e.Right, depth)
	case *syntax.LogicalExpr:
		return c.binary(e.Op, e.Left, e.Right, depth)
	case *syntax.ConditionalExpr:
		return c.expr(e.Test, depth, precNullish) + " ? " +
			c.expr(e.Then, depth, precAssign) + " : " +
			c.expr(e.Else, depth, precAssign)
	case *syntax.AssignExpr:
		return c.expr(e.Target, depth, precPostfix) + " " + e.Op + " " + c.expr(e.Value, depth, precAssign)
	case *syntax.ParenExpr:
		return "(" + c.expr(e.X, depth, precLowest) + ")"
	case *syntax.AsExpr:
		return c.expr(e.X, depth, precRelational) + " as " + c.Type(e.Type)
	}
	return ""
}

func (c Config) binary(op string, left, right syntax.Expr, depth int) string {
	prec := opPrec[op]
	lmin, rmin := prec, prec+1
	if op == "**" {
		lmin, rmin = precPostfix, prec
	}
	l := c.expr(left, depth, lmin)
	r := c.expr(right, depth, rmin)
	// ?? cannot be mixed with || or && without parentheses
	if mixesNullish(op, left) && exprPrec(left) >= lmin {
		l = "(" + l + ")"
	}
	if mixesNullish(op, right) && exprPrec(right) >= rmin {
		r = "(" + r + ")"
	}
	return l + " " + op + " " + r
}

func mixesNullish(op string, child syntax.Expr) bool {
	l, ok := child.(*syntax.LogicalExpr)
	if !ok {
		return false
	}
	return (op == "??") != (l.Op == "??") && (op == "??" || op == "||" || op == "&&")
}

func (c Config) arrow(fn *syntax.ArrowFunc, depth int) string {
	head := c.ArrowHead(fn, depth)
	if fn.Body != nil {
		return head + " " + c.Block(fn.Body, depth)
	}
	body := c.expr(fn.ExprBody, depth, precAssign)
	if startsWithBrace(fn.ExprBody) {
		body = "(" + body + ")"
	}
	return head + " " + body
}

func (c Config) list(args []syntax.Expr, depth int) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = c.expr(a, depth, precAssign)
	}
	return strings.Join(parts, ", ")
}

func (c Config) template(t *syntax.TemplateLit, depth int) string {
	var b strings.Builder
	b.WriteByte('`')
	for i, q := range t.Quasis {
		b.WriteString(q)
		if i < len(t.Exprs) {
			b.WriteString("${" + c.expr(t.Exprs[i], depth, precLowest) + "}")
		}
	}
	b.WriteByte('`')
	return b.String()
}

func (c Config) array(a *syntax.ArrayLit, depth int) string {
	parts := make([]string, len(a.Elems))
	for i, el := range a.Elems {
		if el != nil {
			parts[i] = c.expr(el, depth, precAssign)
		}
	}
	s := strings.Join(parts, ", ")
	if n := len(a.Elems); n > 0 && a.Elems[n-1] == nil {
		s += ","
	}
	return "[" + s + "]"
}

func (c Config) object(o *syntax.ObjectLit, depth int) string {
	if len(o.Props) == 0 {
		return "{}"
	}
	parts := make([]string, len(o.Props))
	for i, p := range o.Props {
		switch {
		case p.Spread:
			parts[i] = "..." + c.expr(p.Value, depth, precAssign)
		case p.Shorthand:
			parts[i] = c.expr(p.Value, depth, precAssign)
		case p.Computed:
			parts[i] = "[" + c.expr(p.Key, depth, precAssign) + "]: " + c.expr(p.Value, depth, precAssign)
		default:
			parts[i] = keyText(p.Key) + ": " + c.expr(p.Value, depth, precAssign)
		}
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func keyText(k syntax.Expr) string {
	switch k := k.(type) {
	case *syntax.Ident:
		return k.Name
	case *syntax.StringLit:
		return stringText(k)
	case *syntax.NumberLit:
		return numberText(k)
	}
	return Expr(k)
}

func (c Config) typeArgs(args []syntax.Type) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, t := range args {
		parts[i] = c.Type(t)
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// startsWithBrace reports whether the printed form of e would begin with an
// object literal or a function keyword.
func startsWithBrace(e syntax.Expr) bool {
	for {
		switch x := e.(type) {
		case *syntax.ObjectLit, *syntax.FuncExpr:
			return true
		case *syntax.CallExpr:
			e = x.Callee
		case *syntax.MemberExpr:
			e = x.Object
		case *syntax.TaggedTemplate:
			e = x.Tag
		case *syntax.NonNullExpr:
			e = x.X
		case *syntax.AsExpr:
			e = x.X
		case *syntax.BinaryExpr:
			e = x.Left
		case *syntax.LogicalExpr:
			e = x.Left
		case *syntax.ConditionalExpr:
			e = x.Test
		case *syntax.AssignExpr:
			e = x.Target
		default:
			return false
		}
	}
}

func isPlainInteger(s string) bool {
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
