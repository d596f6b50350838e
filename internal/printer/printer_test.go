package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matchc/internal/parser"
	"github.com/roach88/matchc/internal/syntax"
)

func TestProgramRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "if else chain",
			src: `function Test(value: number) {
  if (value === 1) {
    console.log(1);
  } else if (value === 2) {
    console.log(2);
  } else {
    console.log("other");
  }
}
`,
		},
		{
			name: "arrow returning object",
			src:  "const f = x => ({ a: 1 });\n",
		},
		{
			name: "explicit parens kept",
			src:  "const v = a ?? (b || c);\n",
		},
		{
			name: "types",
			src:  "export type T = Array<number>[] | (string | number)[] | { a: string; b?: number } | [Event.A, -1];\n",
		},
		{
			name: "template",
			src:  "const s = `a${b}c`;\n",
		},
		{
			name: "empty function",
			src:  "function f() {}\n",
		},
		{
			name: "fluent chain",
			src:  "const r = match<Input, string>(input).with([\"a\", 1], x => {\n  return -x[1];\n}).when(() => x > 1, () => {\n  return 2;\n}).run();\n",
		},
		{
			name: "directive",
			src:  "function f(value: string) {\n  'use match';\n  (value: \"a\") => 1;\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := parser.ParseProgram(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.src, Program(prog))
		})
	}
}

func TestIfWithoutBraces(t *testing.T) {
	prog, err := parser.ParseProgram("if (a) b(); else c();")
	require.NoError(t, err)
	assert.Equal(t, "if (a)\n  b();\nelse\n  c();\n", Program(prog))
}

func TestSynthesizedPrecedence(t *testing.T) {
	a, b, c := syntax.Name("a"), syntax.Name("b"), syntax.Name("c")

	sum := &syntax.BinaryExpr{Op: "+", Left: a, Right: b}
	assert.Equal(t, "(a + b) * c", Expr(&syntax.BinaryExpr{Op: "*", Left: sum, Right: c}))
	assert.Equal(t, "c - (a + b)", Expr(&syntax.BinaryExpr{Op: "-", Left: c, Right: sum}))

	or := &syntax.LogicalExpr{Op: "||", Left: a, Right: b}
	assert.Equal(t, "(a || b) ?? c", Expr(&syntax.LogicalExpr{Op: "??", Left: or, Right: c}))

	call := syntax.Call(syntax.Thunk(&syntax.NumberLit{Value: 1}))
	assert.Equal(t, "(() => 1)()", Expr(call))

	neg := &syntax.UnaryExpr{Op: "-", X: &syntax.UnaryExpr{Op: "-", X: a}}
	assert.Equal(t, "- -a", Expr(neg))

	inst := &syntax.BinaryExpr{Op: "instanceof", Left: syntax.Name("value"), Right: syntax.Name("Date")}
	assert.Equal(t, "!(value instanceof Date)", Expr(&syntax.UnaryExpr{Op: "!", X: inst}))
}

func TestExprStmtStartingWithObject(t *testing.T) {
	obj := &syntax.ObjectLit{Props: []*syntax.Property{{Key: syntax.Name("a"), Value: &syntax.NumberLit{Value: 1}}}}
	assert.Equal(t, "({ a: 1 });", Stmt(&syntax.ExprStmt{X: obj}))
	assert.Equal(t, "({ a: 1 }.b);", Stmt(&syntax.ExprStmt{X: syntax.Member(obj, "b")}))
}

func TestSynthesizedLiterals(t *testing.T) {
	assert.Equal(t, "1.5", Expr(&syntax.NumberLit{Value: 1.5}))
	assert.Equal(t, `"a\"b\n"`, Expr(&syntax.StringLit{Value: "a\"b\n"}))
	assert.Equal(t, "[1, , 2, ,]", Expr(&syntax.ArrayLit{Elems: []syntax.Expr{
		&syntax.NumberLit{Value: 1}, nil, &syntax.NumberLit{Value: 2}, nil,
	}}))
}

func TestArrowHead(t *testing.T) {
	e, err := parser.ParseExpr("x => x")
	require.NoError(t, err)
	assert.Equal(t, "x =>", Config{}.ArrowHead(e.(*syntax.ArrowFunc), 0))

	e, err = parser.ParseExpr("(value: 1, ...rest): void => {}")
	require.NoError(t, err)
	assert.Equal(t, "(value: 1, ...rest): void =>", Config{}.ArrowHead(e.(*syntax.ArrowFunc), 0))
}

func TestSubstitute(t *testing.T) {
	e, err := parser.ParseExpr("f(x, () => {\n  return x;\n})")
	require.NoError(t, err)

	var depths []int
	cfg := Config{Substitute: func(e syntax.Expr, depth int) (string, bool) {
		if id, ok := e.(*syntax.Ident); ok && id.Name == "x" {
			depths = append(depths, depth)
			return "y", true
		}
		return "", false
	}}
	assert.Equal(t, "f(y, () => {\n  return y;\n})", cfg.Expr(e, 0))
	assert.Equal(t, []int{0, 1}, depths)
}

func TestBlockIndentsAtDepth(t *testing.T) {
	blk := syntax.Returning(syntax.Name("v"))
	assert.Equal(t, "{\n      return v;\n    }", Config{}.Block(blk, 2))
}
