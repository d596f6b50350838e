package compiler

import (
	"strings"

	"go.uber.org/zap"

	"github.com/roach88/matchc/internal/handler"
	"github.com/roach88/matchc/internal/parser"
	"github.com/roach88/matchc/internal/pattern"
	"github.com/roach88/matchc/internal/syntax"
)

// Arrow separates a pattern from its handler in template text.
const Arrow = "->"

// Match is a segmented fluent site.
type Match struct {
	Discriminant syntax.Expr
	Clauses      []Clause
}

// Segment splits a template into its discriminant and clauses. The first
// interpolation is the discriminant. A text fragment that trims to "->" makes
// the interpolation before it a pattern and the one after it that pattern's
// handler. All other text is ignored.
func Segment(tpl *syntax.TemplateLit) (*Match, error) {
	if len(tpl.Exprs) == 0 {
		return nil, errorf(ErrMissingDiscriminant, -1, tpl.Position(), "match template has no discriminant")
	}
	m := &Match{Discriminant: tpl.Exprs[0]}
	used := make([]bool, len(tpl.Exprs))
	used[0] = true

	// Quasis[i] sits between Exprs[i-1] and Exprs[i].
	for i := 1; i < len(tpl.Exprs); i++ {
		if strings.TrimSpace(tpl.Quasis[i]) != Arrow {
			continue
		}
		pat, h := i-1, i
		index := len(m.Clauses)
		if pat == 0 {
			return nil, errorf(ErrDanglingInterpolation, index, tpl.Exprs[h].Position(), "clause %d has no pattern: the arrow follows the discriminant", index)
		}
		if used[pat] {
			return nil, errorf(ErrDanglingInterpolation, index, tpl.Exprs[pat].Position(), "clause %d pattern is already the handler of clause %d", index, index-1)
		}
		used[pat], used[h] = true, true
		m.Clauses = append(m.Clauses, Clause{
			Index:    index,
			Pattern:  tpl.Exprs[pat],
			Handler:  tpl.Exprs[h],
			Bindings: handlerBindings(tpl.Exprs[h]),
			Pos:      tpl.Exprs[pat].Position(),
		})
	}
	if strings.TrimSpace(tpl.Quasis[len(tpl.Quasis)-1]) == Arrow {
		last := tpl.Exprs[len(tpl.Exprs)-1]
		return nil, errorf(ErrDanglingInterpolation, len(m.Clauses), last.Position(), "arrow after the last interpolation has no handler")
	}
	for i, ok := range used {
		if !ok {
			return nil, errorf(ErrDanglingInterpolation, -1, tpl.Exprs[i].Position(), "interpolation %d is neither a pattern nor a handler", i)
		}
	}
	if len(m.Clauses) == 0 {
		return nil, errorf(ErrNoClauses, -1, tpl.Position(), "match template has no clauses")
	}
	return m, nil
}

// Fluent compiles a template into a call chain node:
//
//	factory<In, Out>(disc).with(p, h).when(q, h).run()
//
// Nested sites anywhere inside the template are compiled first and replaced
// in place.
func (c *Compiler) Fluent(tpl *syntax.TemplateLit) (syntax.Expr, error) {
	m, err := Segment(tpl)
	if err != nil {
		return nil, err
	}
	if err := c.compileNested(m); err != nil {
		return nil, err
	}

	root, err := c.root(m.Discriminant)
	if err != nil {
		return nil, err
	}
	var chain syntax.Expr = root
	for _, cl := range m.Clauses {
		d, err := c.classify(cl)
		if err != nil {
			return nil, err
		}
		chain = syntax.MethodCall(chain, d.Route.Method(), d.Arg, handler.Normalize(cl.Handler))
	}
	return syntax.MethodCall(chain, "run"), nil
}

func (c *Compiler) classify(cl Clause) (pattern.Decision, error) {
	// A site used directly as a pattern compiles to a call; classify it as
	// one before it is compiled so both output forms agree.
	if _, ok := c.Site(syntax.Unparen(cl.Pattern)); ok {
		return pattern.Decision{Kind: pattern.Call, Route: pattern.When, Arg: syntax.Thunk(syntax.Unparen(cl.Pattern))}, nil
	}
	d, err := pattern.Fluent(cl.Pattern, c.patternOptions())
	if err != nil {
		return d, unclassifiable(ErrUnclassifiablePattern, cl, err)
	}
	if d.Kind == pattern.Negation {
		c.log.Info("negation pattern routed",
			zap.Int("clause", cl.Index),
			zap.Stringer("pos", cl.Pos),
			zap.String("mode", string(c.cfg.Negation)),
			zap.String("method", d.Route.Method()))
	} else {
		c.log.Debug("fluent clause",
			zap.Int("clause", cl.Index),
			zap.Stringer("kind", d.Kind),
			zap.String("method", d.Route.Method()))
	}
	return d, nil
}

// discriminant splits an ascribed discriminant (x as T) into x and T.
func discriminant(e syntax.Expr) (syntax.Expr, syntax.Type) {
	if as, ok := syntax.Unparen(e).(*syntax.AsExpr); ok {
		return as.X, as.Type
	}
	return e, nil
}

func (c *Compiler) root(disc syntax.Expr) (*syntax.CallExpr, error) {
	arg, in := discriminant(disc)
	var targs []syntax.Type
	if in != nil {
		targs = append(targs, in)
	}
	if c.cfg.OutputType != "" {
		out, err := parser.ParseType(c.cfg.OutputType)
		if err != nil {
			return nil, errorf(ErrInvalidOutputType, -1, disc.Position(), "output type %q: %v", c.cfg.OutputType, err)
		}
		if len(targs) == 0 {
			targs = append(targs, &syntax.KeywordType{Name: "unknown"})
		}
		targs = append(targs, out)
	}
	return &syntax.CallExpr{
		Start:    disc.Position(),
		Callee:   syntax.Name(c.cfg.Factory),
		TypeArgs: targs,
		Args:     []syntax.Expr{arg},
	}, nil
}

// compileNested replaces every nested site inside the segmented template
// with its compiled chain.
func (c *Compiler) compileNested(m *Match) error {
	t := &syntax.Transformer{Expr: c.nestedSite}
	var err error
	if m.Discriminant, err = t.Rewrite(m.Discriminant); err != nil {
		return err
	}
	for i := range m.Clauses {
		cl := &m.Clauses[i]
		if cl.Pattern, err = t.Rewrite(cl.Pattern); err != nil {
			return err
		}
		if cl.Handler, err = t.Rewrite(cl.Handler); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) nestedSite(e syntax.Expr) (syntax.Expr, bool, error) {
	site, ok := c.Site(e)
	if !ok {
		return nil, false, nil
	}
	out, err := c.ForSite(site).Fluent(site.Template.Quasi)
	if err != nil {
		return nil, true, err
	}
	return out, true, nil
}
