package harness

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/roach88/matchc/internal/compiler"
	"github.com/roach88/matchc/internal/parser"
)

// SyntaxErrorCode is reported as the compile error code of a source that
// does not parse.
const SyntaxErrorCode = "syntax"

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Compiled string // Compiled source for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Compiled != "" {
		fmt.Fprintf(&buf, "\nCompiled source:\n")
		for i, line := range strings.Split(strings.TrimRight(e.Compiled, "\n"), "\n") {
			fmt.Fprintf(&buf, "  %3d  %s\n", i+1, line)
		}
	}
	return buf.String()
}

// AssertionContext carries what assertions are checked against.
type AssertionContext struct {
	// VM is where the compiled program ran. Nil when compilation failed.
	VM *VM

	// CompileErr is the compilation failure, if any.
	CompileErr error

	// RunErr is the error the top-level program raised, if any.
	RunErr error
}

// errorCode classifies a compile failure.
func errorCode(err error) string {
	if code := compiler.Code(err); code != "" {
		return code
	}
	var pe *parser.Error
	if errors.As(err, &pe) {
		return SyntaxErrorCode
	}
	return ""
}

func assertReturns(result *Result, actx *AssertionContext, a Assertion) error {
	if actx.VM == nil {
		return &AssertionError{Type: a.Type, Expected: a.Expr + " evaluates", Actual: "compilation failed"}
	}
	got, err := actx.VM.EvalSource(a.Expr)
	if err != nil {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s returns", a.Expr),
			Actual:   err.Error(),
			Compiled: result.Compiled,
		}
	}
	var want goja.Value
	if a.Expect != "" {
		if want, err = actx.VM.EvalSource(a.Expect); err != nil {
			return fmt.Errorf("assertion %s: expect %q: %w", a.Type, a.Expect, err)
		}
	} else if want, err = actx.VM.FromYAML(a.Value); err != nil {
		return fmt.Errorf("assertion %s: value: %w", a.Type, err)
	}
	if !actx.VM.Equal(want, got) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s = %s", a.Expr, actx.VM.Inspect(want)),
			Actual:   actx.VM.Inspect(got),
			Compiled: result.Compiled,
		}
	}
	return nil
}

func assertThrows(result *Result, actx *AssertionContext, a Assertion) error {
	subject := "program"
	err := actx.RunErr
	if a.Expr != "" {
		if actx.VM == nil {
			return &AssertionError{Type: a.Type, Expected: a.Expr + " throws", Actual: "compilation failed"}
		}
		subject = a.Expr
		var v goja.Value
		v, err = actx.VM.EvalSource(a.Expr)
		if err == nil {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%s throws %q", subject, a.Message),
				Actual:   "returned " + actx.VM.Inspect(v),
				Compiled: result.Compiled,
			}
		}
	}
	var thrown *Thrown
	if !errors.As(err, &thrown) {
		actual := "no error"
		if err != nil {
			actual = err.Error()
		}
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%s throws %q", subject, a.Message), Actual: actual, Compiled: result.Compiled}
	}
	if msg := thrown.Value.String(); !strings.Contains(msg, a.Message) {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%s throws %q", subject, a.Message), Actual: msg, Compiled: result.Compiled}
	}
	return nil
}

func assertLogs(result *Result, a Assertion) error {
	if strings.Join(result.Logs, "\n") != strings.Join(a.Lines, "\n") || len(result.Logs) != len(a.Lines) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%q", a.Lines),
			Actual:   fmt.Sprintf("%q", result.Logs),
			Compiled: result.Compiled,
		}
	}
	return nil
}

func assertCompileError(actx *AssertionContext, a Assertion) error {
	if actx.CompileErr == nil {
		return &AssertionError{Type: a.Type, Expected: "compile error " + a.Code, Actual: "compiled successfully"}
	}
	if code := errorCode(actx.CompileErr); code != a.Code {
		return &AssertionError{Type: a.Type, Expected: "compile error " + a.Code, Actual: actx.CompileErr.Error()}
	}
	if a.Message != "" && !strings.Contains(actx.CompileErr.Error(), a.Message) {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("message containing %q", a.Message), Actual: actx.CompileErr.Error()}
	}
	return nil
}

func assertOutputContains(result *Result, a Assertion) error {
	if !strings.Contains(result.Compiled, a.Text) {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("output containing %q", a.Text), Actual: "not found", Compiled: result.Compiled}
	}
	return nil
}

func assertReport(result *Result, a Assertion) error {
	if *a.Sites != result.Report {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%+v", *a.Sites),
			Actual:   fmt.Sprintf("%+v", result.Report),
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a list of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertReturns:
			err = assertReturns(result, actx, assertion)
		case AssertThrows:
			err = assertThrows(result, actx, assertion)
		case AssertLogs:
			err = assertLogs(result, assertion)
		case AssertCompileError:
			err = assertCompileError(actx, assertion)
		case AssertOutputContains:
			err = assertOutputContains(result, assertion)
		case AssertReport:
			err = assertReport(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	return errs
}
