// Package printer renders syntax trees back to source text.
//
// Output is normalized rather than preserved: two-space indentation, braces on
// the same line, object literals on one line and a semicolon after every
// simple statement. Parentheses are inserted only where precedence demands
// them or where the tree carries an explicit ParenExpr.
package printer

import (
	"strconv"
	"strings"

	"github.com/roach88/matchc/internal/syntax"
)

// Indent is one level of indentation.
const Indent = "  "

// Config controls printing.
type Config struct {
	// Substitute, when set, is consulted before every expression. If it
	// returns true, its text is emitted in place of the expression. depth is
	// the indentation depth of the enclosing statement.
	Substitute func(e syntax.Expr, depth int) (string, bool)
}

// Program prints p with the default configuration.
func Program(p *syntax.Program) string { return Config{}.Program(p) }

// Expr prints e with the default configuration at depth zero.
func Expr(e syntax.Expr) string { return Config{}.Expr(e, 0) }

// Stmt prints s with the default configuration at depth zero.
func Stmt(s syntax.Stmt) string { return Config{}.Stmt(s, 0) }

// Type prints a type annotation.
func Type(t syntax.Type) string { return Config{}.Type(t) }

// Program prints every statement of p, one per line, ending with a newline.
func (c Config) Program(p *syntax.Program) string {
	var b strings.Builder
	for _, s := range p.Body {
		b.WriteString(c.Stmt(s, 0))
		b.WriteByte('\n')
	}
	return b.String()
}

// Expr prints e as it would appear inside a statement at the given depth.
func (c Config) Expr(e syntax.Expr, depth int) string {
	return c.expr(e, depth, precLowest)
}

// ArrowHead prints the parameter list of fn followed by the arrow, e.g.
// "x =>" or "(value: 1) =>".
func (c Config) ArrowHead(fn *syntax.ArrowFunc, depth int) string {
	if len(fn.Params) == 1 && fn.ReturnType == nil {
		p := fn.Params[0]
		if id, ok := p.Target.(*syntax.Ident); ok && p.Type == nil && p.Default == nil && !p.Rest && !p.Optional {
			return id.Name + " =>"
		}
	}
	head := "(" + c.params(fn.Params, depth) + ")"
	if fn.ReturnType != nil {
		head += ": " + c.Type(fn.ReturnType)
	}
	return head + " =>"
}

// Block prints a braced statement list whose closing brace sits at depth.
func (c Config) Block(b *syntax.BlockStmt, depth int) string {
	if len(b.Body) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range b.Body {
		sb.WriteString(indent(depth + 1))
		sb.WriteString(c.Stmt(s, depth+1))
		sb.WriteByte('\n')
	}
	sb.WriteString(indent(depth))
	sb.WriteByte('}')
	return sb.String()
}

func indent(depth int) string {
	return strings.Repeat(Indent, depth)
}

// IndentString returns the indentation for depth.
func IndentString(depth int) string { return indent(depth) }

func (c Config) params(params []*syntax.Param, depth int) string {
	parts := make([]string, len(params))
	for i, p := range params {
		var b strings.Builder
		if p.Rest {
			b.WriteString("...")
		}
		b.WriteString(c.expr(p.Target, depth, precAssign))
		if p.Optional {
			b.WriteByte('?')
		}
		if p.Type != nil {
			b.WriteString(": ")
			b.WriteString(c.Type(p.Type))
		}
		if p.Default != nil {
			b.WriteString(" = ")
			b.WriteString(c.expr(p.Default, depth, precAssign))
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, ", ")
}

func numberText(n *syntax.NumberLit) string {
	if n.Raw != "" {
		return n.Raw
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

func stringText(s *syntax.StringLit) string {
	if s.Raw != "" {
		return s.Raw
	}
	return Quote(s.Value)
}

// Quote returns s as a double-quoted string literal.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u00`)
				b.WriteString(strconv.FormatInt(int64(r)>>4, 16))
				b.WriteString(strconv.FormatInt(int64(r)&0xf, 16))
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
