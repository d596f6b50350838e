package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/matchc/internal/config"
	"github.com/roach88/matchc/internal/rewrite"
)

// Scenario defines a conformance test scenario.
// A scenario compiles one source file and then evaluates the compiled
// program, asserting on the values it computes.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Source is the program to compile.
	Source string `yaml:"source,omitempty"`

	// SourceFile is read into Source when Source is empty. Relative paths
	// are resolved against the scenario file.
	SourceFile string `yaml:"source_file,omitempty"`

	// Options are the compiler options. Unset fields take their defaults.
	Options config.Options `yaml:"options,omitempty"`

	// Assertions validate the compilation and the evaluated program.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one aspect of a scenario run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "returns": Evaluate expr and compare its value
	// - "throws": Evaluate expr (or the program) and expect a thrown error
	// - "logs": Compare the console.log lines of the program
	// - "compile_error": Expect compilation to fail with code
	// - "output_contains": Expect the compiled source to contain text
	// - "report": Compare the per-kind site counts
	Type string `yaml:"type"`

	// Expr is the expression to evaluate (returns, throws).
	Expr string `yaml:"expr,omitempty"`

	// Value is the expected result of expr as YAML data (returns).
	Value any `yaml:"value,omitempty"`

	// Expect is the expected result of expr as an expression, for values
	// YAML cannot spell such as undefined or a Map (returns).
	Expect string `yaml:"expect,omitempty"`

	// Message must be contained in the thrown error (throws) or the compile
	// error (compile_error).
	Message string `yaml:"message,omitempty"`

	// Code is the expected compile error code (compile_error).
	Code string `yaml:"code,omitempty"`

	// Lines are the expected console.log lines (logs).
	Lines []string `yaml:"lines,omitempty"`

	// Text must appear in the compiled source (output_contains).
	Text string `yaml:"text,omitempty"`

	// Sites are the expected site counts (report).
	Sites *rewrite.Report `yaml:"sites,omitempty"`
}

// Assertion type constants.
const (
	AssertReturns        = "returns"
	AssertThrows         = "throws"
	AssertLogs           = "logs"
	AssertCompileError   = "compile_error"
	AssertOutputContains = "output_contains"
	AssertReport         = "report"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving source_file relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Source == "" && scenario.SourceFile != "" {
		src := scenario.SourceFile
		if !filepath.IsAbs(src) && basePath != "" {
			src = filepath.Join(basePath, src)
		}
		content, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario: source file: %w", err)
		}
		scenario.Source = string(content)
	}
	return scenario, nil
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Source == "" && s.SourceFile == "" {
		return fmt.Errorf("source or source_file is required")
	}

	if s.Source != "" && s.SourceFile != "" {
		return fmt.Errorf("source and source_file are mutually exclusive")
	}

	if err := s.Options.Validate(); err != nil {
		return fmt.Errorf("options: %w", err)
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertReturns:
		if a.Expr == "" {
			return fmt.Errorf("assertions[%d]: expr is required for returns", index)
		}
		if (a.Value == nil) == (a.Expect == "") {
			return fmt.Errorf("assertions[%d]: exactly one of value or expect is required for returns", index)
		}
	case AssertThrows:
		if a.Message == "" {
			return fmt.Errorf("assertions[%d]: message is required for throws", index)
		}
	case AssertLogs:
		if a.Lines == nil {
			return fmt.Errorf("assertions[%d]: lines is required for logs (use [] for none)", index)
		}
	case AssertCompileError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for compile_error", index)
		}
	case AssertOutputContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for output_contains", index)
		}
	case AssertReport:
		if a.Sites == nil {
			return fmt.Errorf("assertions[%d]: sites is required for report", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
