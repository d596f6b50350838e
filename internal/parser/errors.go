package parser

import (
	"fmt"

	"github.com/roach88/matchc/internal/syntax"
)

// Error is a syntax error at a source position.
type Error struct {
	Pos     syntax.Pos
	Message string
}

func newError(pos syntax.Pos, format string, args ...any) *Error {
	return &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// bailout unwinds the recursive descent on the first error.
type bailout struct {
	err *Error
}

func describe(t Token) string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case Punct, Ident:
		return fmt.Sprintf("%q", t.Value)
	case String, Number:
		return fmt.Sprintf("%s %s", t.Kind, t.Value)
	}
	return t.Kind.String()
}
