package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntime_Match(t *testing.T) {
	in := exec(t, "const matches = (p: unknown, v: unknown) => match(v).with(p, () => true).with(__, () => false).run();\n")

	tests := []struct {
		name    string
		pattern string
		value   string
		want    bool
	}{
		{"literal number", "1", "1", true},
		{"literal mismatch", "1", "2", false},
		{"literal string", `"a"`, `"a"`, true},
		{"wildcard", "__", "null", true},
		{"P wildcard", "P._", "[1]", true},
		{"Number marker", "Number", "3", true},
		{"Number rejects string", "Number", `"3"`, false},
		{"String marker", "String", `"s"`, true},
		{"Boolean marker", "Boolean", "false", true},
		{"constructor", "Error", `new RangeError("x")`, true},
		{"constructor mismatch", "Map", "new Set()", false},
		{"guard", "when((x: number) => x > 2)", "3", true},
		{"guard fails", "P.when((x: number) => x > 2)", "1", false},
		{"not", "not(Number)", `"s"`, true},
		{"not fails", "P.not(Number)", "1", false},
		{"tuple", `["+", Number]`, `["+", 1]`, true},
		{"tuple length", `["+", Number]`, `["+", 1, 2]`, false},
		{"tuple element", `["+", Number]`, `["-", 1]`, false},
		{"empty array", "[]", "[]", true},
		{"empty array rejects elements", "[]", "[1]", false},
		{"list", "[Number]", "[1, 2, 3]", true},
		{"list element mismatch", "[Number]", `[1, "2"]`, false},
		{"list matches empty", "[String]", "[]", true},
		{"record", `{ type: "a" }`, `{ type: "a", extra: 1 }`, true},
		{"record mismatch", `{ type: "a" }`, `{ type: "b" }`, false},
		{"record rejects primitive", "{ a: 1 }", "1", false},
		{"record rejects null", "{}", "null", false},
		{"nested record", "{ a: { b: [Number] } }", "{ a: { b: [1] } }", true},
		{"array length property", "{ length: 2 }", "[1, 2]", true},
		{"map", `new Map([["k", Number]])`, `new Map([["k", 1], ["j", 2]])`, true},
		{"map missing key", `new Map([["k", Number]])`, `new Map([["j", 1]])`, false},
		{"set", "new Set([1])", "new Set([1, 2])", true},
		{"set missing element", "new Set([3])", "new Set([1, 2])", false},
		{"empty set", "new Set()", "new Set([1])", false},
		{"select with sub-pattern", `select("x", Number)`, `"s"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := in.EvalSource("matches(" + tt.pattern + ", " + tt.value + ")")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Export())
		})
	}
}

func TestRuntime_Selections(t *testing.T) {
	in := exec(t, "const sel = (p: unknown, v: unknown) => match(v).with(p, (_, s) => s).run();\n")

	tests := []struct {
		name    string
		pattern string
		value   string
		want    string
	}{
		{"named", `{ a: select("x") }`, "{ a: 1 }", "{ x: 1 }"},
		{"use alias", `{ a: use("x") }`, "{ a: 1 }", "{ x: 1 }"},
		{"anonymous", "[select(), __]", "[1, 2]", "{ __select: 1 }"},
		{"sub-pattern", `P.select("n", Number)`, "5", "{ n: 5 }"},
		{"list collects", `[{ id: select("ids") }]`, "[{ id: 1 }, { id: 2 }]", "{ ids: [1, 2] }"},
		{"empty list", `[{ id: select("ids") }]`, "[]", "{ ids: [] }"},
		{"not discards", `not({ a: select("x", Number) })`, "{ b: 1 }", "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := in.EvalSource("sel(" + tt.pattern + ", " + tt.value + ")")
			require.NoError(t, err)
			want, err := in.EvalSource("(" + tt.want + ")")
			require.NoError(t, err)
			assert.True(t, in.Equal(want, got), "got %s, want %s", in.Inspect(got), in.Inspect(want))
		})
	}
}

func TestRuntime_Chain(t *testing.T) {
	in := exec(t, `
const first = (v: unknown) => match(v).with(Number, () => "first").with(1, () => "second").run();
const pred = (v: number) => match(v).when((x: number) => x > 10, (x: number) => x * 2).with(__, (x: number) => x).run();
`)

	assert.Equal(t, "'first'", evalString(t, in, "first(1)"))
	assert.Equal(t, "40", evalString(t, in, "pred(20)"))
	assert.Equal(t, "3", evalString(t, in, "pred(3)"))

	_, err := in.EvalSource(`first("a")`)
	var thrown *Thrown
	require.True(t, errors.As(err, &thrown))
	assert.Equal(t, "Error: no pattern matched value 'a'", thrown.Value.String())
}

func TestRuntime_FactoryName(t *testing.T) {
	in, err := NewVM("tsMatch")
	require.NoError(t, err)
	got, err := in.EvalSource(`tsMatch(2).with(2, () => "two").run()`)
	require.NoError(t, err)
	assert.Equal(t, "two", got.Export())

	_, err = in.EvalSource("match")
	assert.Error(t, err)
}

func TestPattern_String(t *testing.T) {
	in := exec(t, "")

	tests := []struct {
		expr string
		want string
	}{
		{"__", "__"},
		{"not(Number)", "not([Function: Number])"},
		{`select("x")`, "select('x')"},
		{"select()", "select()"},
		{`select("x", String)`, "select('x', [Function: String])"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, evalString(t, in, tt.expr))
		})
	}
}
