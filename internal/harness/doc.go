// Package harness provides conformance testing for compiled match sites.
//
// A scenario compiles a source file, strips its types with esbuild and runs
// the result in a goja VM, so assertions observe what the rewritten code
// computes rather than what it looks like. The VM is preloaded with a
// structural-matching runtime for the fluent chain to call into (wildcards,
// type markers, guards, negation, selections and the tuple, list, record,
// map and set shapes). The compiler never depends on it.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	options:
//	  factory: match
//	  negation: structural
//	source: |
//	  const get = (x: unknown) => Λ("match")` ${x}
//	      ${Number} -> ${"number"}
//	      ${__} -> ${"other"}
//	  `;
//	assertions:
//	  - type: returns
//	    expr: get(1)
//	    value: number
//	  - type: throws
//	    expr: get2(null)
//	    message: no pattern matched
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - returns: Evaluates expr and compares it with value (YAML) or expect
//     (an expression)
//   - throws: Evaluates expr, or checks the top-level run when expr is
//     empty, and expects a thrown error containing message
//   - logs: Compares the console.log lines of the top-level run
//   - compile_error: Expects compilation to fail with code
//   - output_contains: Expects text in the compiled source
//   - report: Compares the number of rewritten sites per kind
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/numbers.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
