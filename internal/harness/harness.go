package harness

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/matchc/internal/compiler"
	"github.com/roach88/matchc/internal/rewrite"
)

// Harness is the test execution engine. It compiles a scenario's source,
// runs the compiled program in a fresh VM and evaluates the
// scenario's assertions against it.
type Harness struct {
	logger *zap.Logger
}

// New returns a harness that logs through logger. A nil logger discards.
func New(logger *zap.Logger) *Harness {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Harness{logger: logger}
}

// Run executes a scenario with a silent harness.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh VM for isolation.
//
// Execution flow:
// 1. Compile the source with the scenario's options
// 2. Transpile the compiled output to JavaScript and run it
// 3. Evaluate the assertions
//
// The returned error reports a broken scenario, not a failed one: a failed
// assertion, an unexpected compile error and an uncaught throw all land in
// Result.Errors.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	opts := scenario.Options.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: options: %w", scenario.Name, err)
	}

	c := compiler.New(opts.Compiler(), compiler.WithLogger(h.logger))
	rw := rewrite.New(c, opts.RewriteMode())

	result := NewResult(scenario.Name)
	actx := &AssertionContext{}

	out, report, err := rw.Source(scenario.Name+".ts", scenario.Source)
	if err != nil {
		actx.CompileErr = err
		result.CompileError = errorCode(err)
		if !expects(scenario, AssertCompileError) {
			result.AddError(fmt.Sprintf("compile: %v", err))
		}
	} else {
		result.Compiled = out
		result.Report = report
		h.logger.Debug("scenario compiled",
			zap.String("scenario", scenario.Name),
			zap.Int("sites", report.Sites()),
		)

		vm, err := NewVM(opts.Factory)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		actx.VM = vm
		actx.RunErr = vm.Exec(scenario.Name+".ts", out)
		result.Logs = append(result.Logs, vm.Logs()...)

		if actx.RunErr != nil {
			var te *TranspileError
			if errors.As(actx.RunErr, &te) {
				// The rewriter printed something that is not TypeScript.
				return nil, fmt.Errorf("scenario %s: compiled output: %w", scenario.Name, actx.RunErr)
			}
			if !expectsProgramThrow(scenario) {
				result.AddError(fmt.Sprintf("run: %v", actx.RunErr))
			}
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	h.logger.Debug("scenario finished",
		zap.String("scenario", scenario.Name),
		zap.Bool("pass", result.Pass),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

func expects(s *Scenario, typ string) bool {
	for _, a := range s.Assertions {
		if a.Type == typ {
			return true
		}
	}
	return false
}

func expectsProgramThrow(s *Scenario) bool {
	for _, a := range s.Assertions {
		if a.Type == AssertThrows && a.Expr == "" {
			return true
		}
	}
	return false
}
