package printer

import (
	"strings"

	"github.com/roach88/matchc/internal/syntax"
)

// Type prints a type annotation.
func (c Config) Type(t syntax.Type) string {
	switch t := t.(type) {
	case *syntax.LiteralType:
		return c.expr(t.Lit, 0, precLowest)
	case *syntax.KeywordType:
		return t.Name
	case *syntax.TypeRef:
		return strings.Join(t.Name, ".") + c.typeArgs(t.Args)
	case *syntax.UnionType:
		parts := make([]string, len(t.Types))
		for i, m := range t.Types {
			parts[i] = c.Type(m)
		}
		return strings.Join(parts, " | ")
	case *syntax.ArrayType:
		if _, ok := t.Elem.(*syntax.UnionType); ok {
			return "(" + c.Type(t.Elem) + ")[]"
		}
		return c.Type(t.Elem) + "[]"
	case *syntax.TupleType:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = c.Type(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *syntax.ObjectType:
		if len(t.Members) == 0 {
			return "{}"
		}
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			opt := ""
			if m.Optional {
				opt = "?"
			}
			parts[i] = m.Name + opt + ": " + c.Type(m.Type)
		}
		return "{ " + strings.Join(parts, "; ") + " }"
	case *syntax.ParenType:
		return "(" + c.Type(t.X) + ")"
	}
	return ""
}
