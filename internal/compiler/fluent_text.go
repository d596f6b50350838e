package compiler

import (
	"strings"

	"github.com/roach88/matchc/internal/handler"
	"github.com/roach88/matchc/internal/printer"
	"github.com/roach88/matchc/internal/syntax"
)

// FluentSource compiles a template straight to the source text of its call
// chain, formatted for a statement at the given depth. Nested sites are
// compiled to text where the printer meets them.
//
// The configured OutputType is not emitted: a type argument has no runtime
// effect and the call sequence is the one Fluent builds. With OutputType
// unset the result equals printing Fluent's node at the same depth.
func (c *Compiler) FluentSource(tpl *syntax.TemplateLit, depth int) (string, error) {
	m, err := Segment(tpl)
	if err != nil {
		return "", err
	}

	var nestedErr error
	pcfg := printer.Config{
		Substitute: func(e syntax.Expr, d int) (string, bool) {
			site, ok := c.Site(e)
			if !ok {
				return "", false
			}
			if nestedErr != nil {
				return "", true
			}
			s, err := c.ForSite(site).FluentSource(site.Template.Quasi, d)
			if err != nil {
				nestedErr = err
				return "", true
			}
			return s, true
		},
	}

	var b strings.Builder
	arg, in := discriminant(m.Discriminant)
	b.WriteString(c.cfg.Factory)
	if in != nil {
		b.WriteString("<" + pcfg.Type(in) + ">")
	}
	b.WriteString("(" + pcfg.Expr(arg, depth) + ")")
	for _, cl := range m.Clauses {
		d, err := c.classify(cl)
		if err != nil {
			return "", err
		}
		b.WriteString("." + d.Route.Method() + "(")
		b.WriteString(pcfg.Expr(d.Arg, depth))
		b.WriteString(", ")
		b.WriteString(handler.NormalizeSource(cl.Handler, pcfg, depth))
		b.WriteString(")")
	}
	b.WriteString(".run()")
	if nestedErr != nil {
		return "", nestedErr
	}
	return b.String(), nil
}
