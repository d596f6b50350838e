package printer

import (
	"strings"

	"github.com/roach88/matchc/internal/syntax"
)

// Stmt prints s without leading indentation. Nested lines are indented
// relative to depth.
func (c Config) Stmt(s syntax.Stmt, depth int) string {
	switch s := s.(type) {
	case *syntax.ExprStmt:
		x := c.expr(s.X, depth, precLowest)
		if startsWithBrace(s.X) {
			x = "(" + x + ")"
		}
		return x + ";"
	case *syntax.BlockStmt:
		return c.Block(s, depth)
	case *syntax.IfStmt:
		return c.ifStmt(s, depth)
	case *syntax.ReturnStmt:
		if s.X == nil {
			return "return;"
		}
		return "return " + c.expr(s.X, depth, precLowest) + ";"
	case *syntax.ThrowStmt:
		return "throw " + c.expr(s.X, depth, precLowest) + ";"
	case *syntax.VarDecl:
		parts := make([]string, len(s.Decls))
		for i, d := range s.Decls {
			var b strings.Builder
			b.WriteString(c.expr(d.Target, depth, precAssign))
			if d.Type != nil {
				b.WriteString(": " + c.Type(d.Type))
			}
			if d.Init != nil {
				b.WriteString(" = " + c.expr(d.Init, depth, precAssign))
			}
			parts[i] = b.String()
		}
		return exported(s.Exported) + s.Kind + " " + strings.Join(parts, ", ") + ";"
	case *syntax.FuncDecl:
		var b strings.Builder
		b.WriteString(exported(s.Exported) + "function " + s.Name.Name)
		b.WriteString("(" + c.params(s.Params, depth) + ")")
		if s.ReturnType != nil {
			b.WriteString(": " + c.Type(s.ReturnType))
		}
		b.WriteString(" " + c.Block(s.Body, depth))
		return b.String()
	case *syntax.TypeAlias:
		var b strings.Builder
		b.WriteString(exported(s.Exported) + "type " + s.Name.Name)
		if len(s.TypeParams) > 0 {
			names := make([]string, len(s.TypeParams))
			for i, p := range s.TypeParams {
				names[i] = p.Name
			}
			b.WriteString("<" + strings.Join(names, ", ") + ">")
		}
		b.WriteString(" = " + c.Type(s.Type) + ";")
		return b.String()
	case *syntax.EmptyStmt:
		return ";"
	}
	return ""
}

func (c Config) ifStmt(s *syntax.IfStmt, depth int) string {
	var b strings.Builder
	b.WriteString("if (" + c.expr(s.Test, depth, precLowest) + ")")
	b.WriteString(c.clause(s.Then, depth))
	if s.Else == nil {
		return b.String()
	}
	if _, ok := s.Then.(*syntax.BlockStmt); ok {
		b.WriteString(" else")
	} else {
		b.WriteString("\n" + indent(depth) + "else")
	}
	if elif, ok := s.Else.(*syntax.IfStmt); ok {
		b.WriteString(" " + c.ifStmt(elif, depth))
		return b.String()
	}
	b.WriteString(c.clause(s.Else, depth))
	return b.String()
}

// clause prints the body of an if or else branch including its leading separator.
func (c Config) clause(s syntax.Stmt, depth int) string {
	if blk, ok := s.(*syntax.BlockStmt); ok {
		return " " + c.Block(blk, depth)
	}
	return "\n" + indent(depth+1) + c.Stmt(s, depth+1)
}

func exported(ok bool) string {
	if ok {
		return "export "
	}
	return ""
}
