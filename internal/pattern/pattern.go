// Package pattern classifies match patterns into the strategy used to test
// the discriminant.
//
// Classification is a single pass producing a Kind. Guard clauses carry a type
// constraint and become an equality, membership or alternatives test. Fluent
// clauses carry a pattern expression and are routed either to the structural
// path (.with) or to the predicate path (.when).
package pattern

import (
	"fmt"

	"github.com/roach88/matchc/internal/syntax"
)

// Kind is the matching strategy chosen for one pattern.
type Kind int

const (
	Invalid Kind = iota

	// Guard constraints.
	Equality     // subject === literal or qualified name
	Membership   // subject instanceof Name
	Alternatives // OR of member tests

	// Fluent patterns, in precedence order.
	Negation   // not(...) combinator
	Comparison // binary or logical expression
	Function   // arrow or function expression
	Call       // call of a non-combinator function
	Structural // anything else, passed to the runtime verbatim
)

var kindNames = [...]string{
	Invalid:      "invalid",
	Equality:     "equality",
	Membership:   "membership",
	Alternatives: "alternatives",
	Negation:     "negation",
	Comparison:   "comparison",
	Function:     "function",
	Call:         "call",
	Structural:   "structural",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Route is the chain link a fluent pattern compiles to.
type Route int

const (
	With Route = iota // .with(pattern, handler)
	When              // .when(predicate, handler)
)

// Method returns the runtime method name for the route.
func (r Route) Method() string {
	if r == When {
		return "when"
	}
	return "with"
}

// UnclassifiableError reports a pattern or constraint of no recognized shape.
type UnclassifiableError struct {
	Pos   syntax.Pos
	Shape string
}

func (e *UnclassifiableError) Error() string {
	return fmt.Sprintf("unclassifiable %s", e.Shape)
}
