package compiler

import (
	"go.uber.org/zap"

	"github.com/roach88/matchc/internal/printer"
	"github.com/roach88/matchc/internal/syntax"
)

// Site is a fluent match site: Tag<Out>("match")`...`.
type Site struct {
	Template *syntax.TaggedTemplate
	// OutputType is the printed type argument of the tag call, or "".
	OutputType string
}

// Site reports whether e is a fluent match site under the compiler's tag.
func (c *Compiler) Site(e syntax.Expr) (Site, bool) {
	tt, ok := e.(*syntax.TaggedTemplate)
	if !ok {
		return Site{}, false
	}
	call, ok := tt.Tag.(*syntax.CallExpr)
	if !ok || len(call.Args) != 1 {
		return Site{}, false
	}
	id, ok := call.Callee.(*syntax.Ident)
	if !ok || id.Name != c.base.Tag {
		return Site{}, false
	}
	kind, ok := call.Args[0].(*syntax.StringLit)
	if !ok || kind.Value != SiteKind {
		return Site{}, false
	}
	s := Site{Template: tt}
	if len(call.TypeArgs) > 0 {
		s.OutputType = printer.Type(call.TypeArgs[0])
	}
	return s, true
}

// ForSite returns a compiler for one site. The site's own output type
// replaces the configured one; an enclosing site's is never inherited.
func (c *Compiler) ForSite(s Site) *Compiler {
	cfg := c.base
	if s.OutputType != "" {
		cfg.OutputType = s.OutputType
	}
	return &Compiler{cfg: cfg, base: c.base, log: c.log}
}

// CompileSite compiles e when it is a fluent site. It reports false, and
// leaves e alone, otherwise.
func (c *Compiler) CompileSite(e syntax.Expr) (syntax.Expr, bool, error) {
	s, ok := c.Site(e)
	if !ok {
		return nil, false, nil
	}
	c.log.Debug("fluent site", zap.Stringer("pos", s.Template.Position()),
		zap.Int("interpolations", len(s.Template.Quasi.Exprs)))
	out, err := c.ForSite(s).Fluent(s.Template.Quasi)
	if err != nil {
		return nil, true, err
	}
	return out, true, nil
}

// CompileSiteSource is CompileSite producing source text for a statement
// at the given depth.
func (c *Compiler) CompileSiteSource(e syntax.Expr, depth int) (string, bool, error) {
	s, ok := c.Site(e)
	if !ok {
		return "", false, nil
	}
	c.log.Debug("fluent site", zap.Stringer("pos", s.Template.Position()),
		zap.Int("interpolations", len(s.Template.Quasi.Exprs)))
	out, err := c.ForSite(s).FluentSource(s.Template.Quasi, depth)
	if err != nil {
		return "", true, err
	}
	return out, true, nil
}
