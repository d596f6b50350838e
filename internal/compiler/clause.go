package compiler

import "github.com/roach88/matchc/internal/syntax"

// Clause is one pattern-to-handler binding, materialized once per
// compilation and not modified afterwards.
type Clause struct {
	Index int
	// Pattern is the fluent pattern expression. It is nil for guard clauses
	// and for a guard default.
	Pattern syntax.Expr
	// Constraint is the guard parameter's type. It is nil for a default.
	Constraint syntax.Type
	// Subject is the guard parameter name tested by Constraint.
	Subject string
	// Handler is the handler expression (fluent) or the clause arrow (guard).
	Handler syntax.Expr
	// Bindings are the names the handler's parameters bind.
	Bindings []string
	Pos      syntax.Pos
}

// IsDefault reports whether the clause is a guard catch-all.
func (c Clause) IsDefault() bool {
	return c.Pattern == nil && c.Constraint == nil
}

func handlerBindings(h syntax.Expr) []string {
	switch fn := syntax.Unparen(h).(type) {
	case *syntax.ArrowFunc:
		return syntax.BoundNames(fn.Params)
	case *syntax.FuncExpr:
		return syntax.BoundNames(fn.Params)
	}
	return nil
}
