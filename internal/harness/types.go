package harness

import "github.com/roach88/matchc/internal/rewrite"

// Result is the outcome of a scenario execution.
type Result struct {
	Name string `json:"name"`

	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Compiled is the rewritten source. Empty when compilation failed.
	Compiled string `json:"compiled,omitempty"`

	Report rewrite.Report `json:"report"`

	// CompileError is the code of the compile failure, if any.
	CompileError string `json:"compile_error,omitempty"`

	// Logs holds the console.log lines of the top-level run.
	Logs []string `json:"logs"`

	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:   name,
		Pass:   true,
		Logs:   []string{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
