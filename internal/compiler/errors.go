package compiler

import (
	"errors"
	"fmt"

	"github.com/roach88/matchc/internal/pattern"
	"github.com/roach88/matchc/internal/syntax"
)

// Compile error codes (E200-E299)
const (
	// Malformed clause sequences (E201, E204-E208)
	ErrDefaultWithoutPattern = "E201" // default clause with no preceding pattern clause
	ErrNotAClause            = "E204" // statement is not a clause
	ErrBadParameters         = "E205" // clause needs one typed identifier parameter
	ErrNoClauses             = "E206" // no clauses at all
	ErrMissingDiscriminant   = "E207" // template has no interpolations
	ErrDanglingInterpolation = "E208" // interpolation is neither pattern nor handler

	// Unclassifiable inputs (E202-E203)
	ErrUnclassifiableConstraint = "E202" // guard type constraint of unknown shape
	ErrUnclassifiablePattern    = "E203" // fluent pattern of unknown shape

	// Configuration (E209)
	ErrInvalidOutputType = "E209" // configured output type does not parse
)

// CompileError is a fatal error compiling one match site. Clause is the
// zero-based index of the offending clause, or -1 when the error concerns the
// site as a whole.
type CompileError struct {
	Code    string
	Clause  int
	Message string
	Pos     syntax.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: [%s] %s", e.Pos, e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func errorf(code string, clause int, pos syntax.Pos, format string, args ...any) *CompileError {
	return &CompileError{Code: code, Clause: clause, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// unclassifiable wraps a classifier failure for clause cl, preferring the
// position the classifier reported.
func unclassifiable(code string, cl Clause, err error) *CompileError {
	pos := cl.Pos
	var uerr *pattern.UnclassifiableError
	if errors.As(err, &uerr) && uerr.Pos.IsValid() {
		pos = uerr.Pos
	}
	return errorf(code, cl.Index, pos, "clause %d: %v", cl.Index, err)
}

// Code returns the compile error code carried by err, or "".
func Code(err error) string {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsMalformedSequence reports whether err is a malformed clause sequence.
func IsMalformedSequence(err error) bool {
	switch Code(err) {
	case ErrDefaultWithoutPattern, ErrNotAClause, ErrBadParameters,
		ErrNoClauses, ErrMissingDiscriminant, ErrDanglingInterpolation:
		return true
	}
	return false
}

// IsUnclassifiable reports whether err is an unclassifiable pattern or constraint.
func IsUnclassifiable(err error) bool {
	switch Code(err) {
	case ErrUnclassifiableConstraint, ErrUnclassifiablePattern:
		return true
	}
	return false
}
