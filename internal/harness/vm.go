package harness

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/evanw/esbuild/pkg/api"
)

//go:embed js/runtime.js
var runtimeJS string

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 2 * time.Second

// maxCallDepth keeps runaway recursion from exhausting memory.
const maxCallDepth = 4096

var (
	// ErrTimeout is returned when a script runs past the VM's timeout.
	ErrTimeout = errors.New("script timed out")

	// ErrStackOverflow is returned when a script recurses past maxCallDepth.
	ErrStackOverflow = errors.New("maximum call stack size exceeded")
)

// Thrown is a value thrown by a script and not caught.
type Thrown struct {
	Value goja.Value
}

func (t *Thrown) Error() string {
	return "uncaught " + t.Value.String()
}

// TranspileError reports TypeScript that could not be lowered to
// JavaScript.
type TranspileError struct {
	Name     string
	Messages []api.Message
}

func (e *TranspileError) Error() string {
	var lines []string
	for _, m := range e.Messages {
		if m.Location == nil {
			lines = append(lines, fmt.Sprintf("%s: %s", e.Name, m.Text))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s:%d:%d: %s", e.Name, m.Location.Line, m.Location.Column+1, m.Text))
	}
	return strings.Join(lines, "\n")
}

// Transpile strips TypeScript syntax from src and lowers it to a language
// level the VM runs.
func Transpile(name, src string) (string, error) {
	res := api.Transform(src, api.TransformOptions{
		Loader:     api.LoaderTS,
		Target:     api.ES2017,
		Sourcefile: name,
	})
	if len(res.Errors) > 0 {
		return "", &TranspileError{Name: name, Messages: res.Errors}
	}
	return string(res.Code), nil
}

// VMOption configures a VM.
type VMOption func(*VM)

// WithTimeout bounds every script run by d.
func WithTimeout(d time.Duration) VMOption {
	return func(m *VM) {
		m.timeout = d
	}
}

// VM runs compiled programs against the structural-matching runtime the
// fluent chain calls into. Top-level bindings persist across Exec and
// EvalSource calls. A VM is not safe for concurrent use.
type VM struct {
	rt      *goja.Runtime
	timeout time.Duration
	logs    []string

	inspect  goja.Callable
	equal    goja.Callable
	fromJSON goja.Callable
}

// NewVM returns a VM whose chain entry point is bound to factory.
func NewVM(factory string, opts ...VMOption) (*VM, error) {
	m := &VM{rt: goja.New(), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(m)
	}
	m.rt.SetMaxCallStackSize(maxCallDepth)

	if err := m.rt.Set("__matchcEmit", func(line string) {
		m.logs = append(m.logs, line)
	}); err != nil {
		return nil, err
	}
	if _, err := m.run("runtime.js", runtimeJS); err != nil {
		return nil, fmt.Errorf("load runtime: %w", err)
	}

	exports := m.rt.Get("__matchc").ToObject(m.rt)
	var ok bool
	for name, dst := range map[string]*goja.Callable{
		"inspect":  &m.inspect,
		"equal":    &m.equal,
		"fromJSON": &m.fromJSON,
	} {
		if *dst, ok = goja.AssertFunction(exports.Get(name)); !ok {
			return nil, fmt.Errorf("load runtime: %s is not a function", name)
		}
	}
	if err := m.rt.Set(factory, exports.Get("match")); err != nil {
		return nil, err
	}
	return m, nil
}

// Exec transpiles and runs a TypeScript program.
func (m *VM) Exec(name, src string) error {
	code, err := Transpile(name, src)
	if err != nil {
		return err
	}
	_, err = m.run(name, code)
	return err
}

// EvalSource evaluates a single expression against the program's globals.
func (m *VM) EvalSource(expr string) (goja.Value, error) {
	code, err := Transpile("expr.ts", "(\n"+expr+"\n)")
	if err != nil {
		return nil, err
	}
	return m.run("expr.ts", code)
}

// Logs returns the console.log lines written so far.
func (m *VM) Logs() []string {
	return m.logs
}

// Inspect formats v the way console.log prints a nested value.
func (m *VM) Inspect(v goja.Value) string {
	if v == nil {
		return "undefined"
	}
	out, err := m.inspect(goja.Undefined(), v, m.rt.ToValue(1))
	if err != nil {
		return v.String()
	}
	return out.String()
}

// Equal reports whether a and b are structurally equal.
func (m *VM) Equal(a, b goja.Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	out, err := m.equal(goja.Undefined(), a, b)
	return err == nil && out.ToBoolean()
}

// FromYAML converts a decoded YAML value into a script value.
func (m *VM) FromYAML(v any) (goja.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("convert %v: %w", v, err)
	}
	return m.fromJSON(goja.Undefined(), m.rt.ToValue(string(b)))
}

// run executes code with the VM's timeout and maps goja's errors onto the
// harness's.
func (m *VM) run(name, code string) (goja.Value, error) {
	fired := make(chan struct{})
	timer := time.AfterFunc(m.timeout, func() {
		m.rt.Interrupt(ErrTimeout)
		close(fired)
	})
	v, err := m.rt.RunScript(name, code)
	if !timer.Stop() {
		<-fired
	}
	m.rt.ClearInterrupt()
	if err != nil {
		return nil, scriptError(err)
	}
	return v, nil
}

func scriptError(err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return ErrTimeout
	}
	var overflow *goja.StackOverflowError
	if errors.As(err, &overflow) {
		return ErrStackOverflow
	}
	var exc *goja.Exception
	if errors.As(err, &exc) && exc.Value() != nil {
		return &Thrown{Value: exc.Value()}
	}
	return err
}
