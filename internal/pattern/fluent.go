package pattern

import (
	"fmt"

	"github.com/roach88/matchc/internal/syntax"
)

// NegationMode selects where the negation combinator is routed.
type NegationMode string

const (
	// NegationStructural passes not(...) through to .with as a structural
	// sub-pattern.
	NegationStructural NegationMode = "structural"
	// NegationPredicate wraps not(...) in a thunk and routes it to .when.
	NegationPredicate NegationMode = "predicate"
)

// ParseNegationMode validates a configured mode. The empty string selects
// the structural default.
func ParseNegationMode(s string) (NegationMode, error) {
	switch NegationMode(s) {
	case "", NegationStructural:
		return NegationStructural, nil
	case NegationPredicate:
		return NegationPredicate, nil
	}
	return "", fmt.Errorf("unknown negation mode %q (want %q or %q)", s, NegationStructural, NegationPredicate)
}

// Options controls fluent classification.
type Options struct {
	Negation NegationMode
}

// Decision is the classification of one fluent pattern.
type Decision struct {
	Kind  Kind
	Route Route
	// Arg is the first argument of the emitted chain link.
	Arg syntax.Expr
}

// negation is the runtime's negation combinator.
const negation = "not"

// combinators build structural sub-patterns at runtime; calling one is not an
// ad-hoc predicate.
var combinators = map[string]bool{
	negation: true,
	"when":   true,
	"use":    true,
	"select": true,
}

// Fluent classifies a fluent pattern. Rules are checked in order and the first
// match wins:
//
//  1. negation combinator call   routed per opts.Negation
//  2. binary or logical expr     .when(() => expr)
//  3. arrow or function          .when(fn)
//  4. other function call        .when(() => call)
//  5. anything else              .with(pattern)
func Fluent(e syntax.Expr, opts Options) (Decision, error) {
	if e == nil {
		return Decision{}, &UnclassifiableError{Shape: "missing pattern"}
	}
	switch x := syntax.Unparen(e).(type) {
	case *syntax.CallExpr:
		name := calleeName(x.Callee)
		if name == negation {
			if opts.Negation == NegationPredicate {
				return Decision{Kind: Negation, Route: When, Arg: syntax.Thunk(x)}, nil
			}
			return Decision{Kind: Negation, Route: With, Arg: e}, nil
		}
		if combinators[name] {
			return Decision{Kind: Structural, Route: With, Arg: e}, nil
		}
		return Decision{Kind: Call, Route: When, Arg: syntax.Thunk(x)}, nil
	case *syntax.BinaryExpr, *syntax.LogicalExpr:
		return Decision{Kind: Comparison, Route: When, Arg: syntax.Thunk(x)}, nil
	case *syntax.ArrowFunc, *syntax.FuncExpr:
		return Decision{Kind: Function, Route: When, Arg: x}, nil
	case *syntax.AssignExpr:
		return Decision{}, &UnclassifiableError{Pos: x.Position(), Shape: "assignment used as pattern"}
	case *syntax.SpreadElement:
		return Decision{}, &UnclassifiableError{Pos: x.Position(), Shape: "spread used as pattern"}
	}
	return Decision{Kind: Structural, Route: With, Arg: e}, nil
}

// calleeName returns the name a call invokes: f for f(...) and P.f(...).
func calleeName(callee syntax.Expr) string {
	switch c := syntax.Unparen(callee).(type) {
	case *syntax.Ident:
		return c.Name
	case *syntax.MemberExpr:
		if id, ok := c.Property.(*syntax.Ident); ok && !c.Computed {
			return id.Name
		}
	}
	return ""
}
