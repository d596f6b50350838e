package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matchc/internal/syntax"
)

func TestTokenizeTemplate(t *testing.T) {
	toks, err := Tokenize("Λ(\"match\")`${x} ${1} -> ${{ a: 1 }}`")
	require.NoError(t, err)

	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []Kind{
		Ident, Punct, String, Punct,
		TemplateHead, Ident,
		TemplateMiddle, Number,
		TemplateMiddle, Punct, Ident, Punct, Number, Punct,
		TemplateTail, EOF,
	}, kinds)
	assert.Equal(t, "Λ", toks[0].Value)
	assert.Equal(t, " -> ", toks[8].Value)
}

func TestTokenizeNewlineFlag(t *testing.T) {
	toks, err := Tokenize("a\n// comment\nb /* x */ c")
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.False(t, toks[0].NewlineBefore)
	assert.True(t, toks[1].NewlineBefore)
	assert.False(t, toks[2].NewlineBefore)
	assert.Equal(t, syntax.Pos{Line: 3, Column: 1}, toks[1].Pos)
}

func TestTokenizeNestedTypeArgs(t *testing.T) {
	toks, err := Tokenize("Array<Array<number>>")
	require.NoError(t, err)
	assert.Equal(t, ">", toks[5].Value)
	assert.Equal(t, ">", toks[6].Value)
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"unterminated string", `"abc`, "unterminated string"},
		{"unterminated template", "`abc ${x}", "unterminated template"},
		{"unterminated comment", "/* abc", "unterminated comment"},
		{"bad character", "a \\ b", "unexpected character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseArrowFunctions(t *testing.T) {
	e, err := ParseExpr("(value: 1) => console.log(1)")
	require.NoError(t, err)
	fn, ok := e.(*syntax.ArrowFunc)
	require.True(t, ok, "expected arrow, got %T", e)
	require.Len(t, fn.Params, 1)
	lit, ok := fn.Params[0].Type.(*syntax.LiteralType)
	require.True(t, ok)
	assert.Equal(t, 1.0, lit.Lit.(*syntax.NumberLit).Value)
	assert.NotNil(t, fn.ExprBody)
	assert.Nil(t, fn.Body)

	e, err = ParseExpr("x => { return -x[1]; }")
	require.NoError(t, err)
	fn = e.(*syntax.ArrowFunc)
	require.NotNil(t, fn.Body)
	assert.Len(t, fn.Body.Body, 1)

	e, err = ParseExpr("([a, , ...rest], { b, c: d = 2 }) => a")
	require.NoError(t, err)
	fn = e.(*syntax.ArrowFunc)
	assert.Equal(t, []string{"a", "rest", "b", "d"}, syntax.BoundNames(fn.Params))
}

func TestParseParenIsNotArrow(t *testing.T) {
	e, err := ParseExpr("(a + b) * c")
	require.NoError(t, err)
	bin, ok := e.(*syntax.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", bin.Op)
	_, ok = bin.Left.(*syntax.ParenExpr)
	assert.True(t, ok)
}

func TestParsePrecedence(t *testing.T) {
	e, err := ParseExpr("a || b && c === 1 + 2 * 3")
	require.NoError(t, err)
	or := e.(*syntax.LogicalExpr)
	assert.Equal(t, "||", or.Op)
	and := or.Right.(*syntax.LogicalExpr)
	assert.Equal(t, "&&", and.Op)
	eq := and.Right.(*syntax.BinaryExpr)
	assert.Equal(t, "===", eq.Op)
	add := eq.Right.(*syntax.BinaryExpr)
	assert.Equal(t, "+", add.Op)
	mul := add.Right.(*syntax.BinaryExpr)
	assert.Equal(t, "*", mul.Op)
}

func TestParseExponentIsRightAssociative(t *testing.T) {
	e, err := ParseExpr("2 ** 3 ** 2")
	require.NoError(t, err)
	pow := e.(*syntax.BinaryExpr)
	_, ok := pow.Right.(*syntax.BinaryExpr)
	assert.True(t, ok)
}

func TestParseAsAndNonNull(t *testing.T) {
	e, err := ParseExpr("(input as Input)!")
	require.NoError(t, err)
	nn, ok := e.(*syntax.NonNullExpr)
	require.True(t, ok)
	as := syntax.Unparen(nn.X).(*syntax.AsExpr)
	ref := as.Type.(*syntax.TypeRef)
	assert.Equal(t, []string{"Input"}, ref.Name)
}

func TestParseCallTypeArgs(t *testing.T) {
	e, err := ParseExpr("match<Input, string>(input)")
	require.NoError(t, err)
	call, ok := e.(*syntax.CallExpr)
	require.True(t, ok)
	assert.Len(t, call.TypeArgs, 2)
	assert.Len(t, call.Args, 1)

	e, err = ParseExpr("a < b")
	require.NoError(t, err)
	bin := e.(*syntax.BinaryExpr)
	assert.Equal(t, "<", bin.Op)
}

func TestParseTaggedTemplate(t *testing.T) {
	e, err := ParseExpr("Λ(\"match\")`${input} ${[\"a\", 1]} -> ${(x) => x}`")
	require.NoError(t, err)
	tt, ok := e.(*syntax.TaggedTemplate)
	require.True(t, ok)
	call := tt.Tag.(*syntax.CallExpr)
	assert.Equal(t, "Λ", call.Callee.(*syntax.Ident).Name)
	assert.Equal(t, []string{"", " ", " -> ", ""}, tt.Quasi.Quasis)
	assert.Len(t, tt.Quasi.Exprs, 3)
	_, ok = tt.Quasi.Exprs[2].(*syntax.ArrowFunc)
	assert.True(t, ok)
}

func TestParseObjectLiteral(t *testing.T) {
	e, err := ParseExpr(`{ type: "ok", data: { type: "img", src }, ...rest, [k]: 1, "q": 2 }`)
	require.NoError(t, err)
	obj := e.(*syntax.ObjectLit)
	require.Len(t, obj.Props, 5)
	assert.Equal(t, "ok", obj.Props[0].Value.(*syntax.StringLit).Value)
	inner := obj.Props[1].Value.(*syntax.ObjectLit)
	assert.True(t, inner.Props[1].Shorthand)
	assert.True(t, obj.Props[2].Spread)
	assert.True(t, obj.Props[3].Computed)
}

func TestParseStringEscapes(t *testing.T) {
	e, err := ParseExpr(`"a\n\"bA\x42"`)
	require.NoError(t, err)
	lit := e.(*syntax.StringLit)
	assert.Equal(t, "a\n\"bAB", lit.Value)
	assert.Equal(t, `"a\n\"bA\x42"`, lit.Raw)
}

func TestParseNumbers(t *testing.T) {
	for src, want := range map[string]float64{
		"42": 42, "1_000": 1000, "0x1f": 31, "0b101": 5, "1.5e3": 1500, ".5": 0.5,
	} {
		e, err := ParseExpr(src)
		require.NoError(t, err, src)
		assert.Equal(t, want, e.(*syntax.NumberLit).Value, src)
	}
}

func TestParseTypes(t *testing.T) {
	typ, err := ParseType("| 1 | -1 | 'a' | Event.A | Date | Array<number>[] | [string, number] | { a: string; b?: number }")
	require.NoError(t, err)
	u, ok := typ.(*syntax.UnionType)
	require.True(t, ok)
	require.Len(t, u.Types, 8)

	neg := u.Types[1].(*syntax.LiteralType).Lit.(*syntax.UnaryExpr)
	assert.Equal(t, "-", neg.Op)
	assert.True(t, u.Types[3].(*syntax.TypeRef).Qualified())
	assert.False(t, u.Types[4].(*syntax.TypeRef).Qualified())
	arr := u.Types[5].(*syntax.ArrayType)
	assert.Len(t, arr.Elem.(*syntax.TypeRef).Args, 1)
	obj := u.Types[7].(*syntax.ObjectType)
	assert.True(t, obj.Members[1].Optional)
}

func TestParseProgramStatements(t *testing.T) {
	src := `
enum_like: 1
type Shape = { kind: "circle" } | { kind: "square" }
export function Test(value: number) {
  'use match'
  ;(value: 1) => console.log(1)
  ;(value: 2) => console.log(2)
}
const x = 1, [y] = [2]
let z
if (x) { z = 1 } else if (y) z = 2; else { throw new Error("no") }
`
	_, err := ParseProgram(src)
	require.Error(t, err, "labels are not part of the subset")

	prog, err := ParseProgram(src[len("\nenum_like: 1"):])
	require.NoError(t, err)
	require.Len(t, prog.Body, 5)

	alias := prog.Body[0].(*syntax.TypeAlias)
	assert.Equal(t, "Shape", alias.Name.Name)

	fn := prog.Body[1].(*syntax.FuncDecl)
	assert.True(t, fn.Exported)
	assert.True(t, syntax.HasDirective(fn.Body.Body, "use match"))
	assert.Len(t, fn.Body.Body, 3)

	decl := prog.Body[2].(*syntax.VarDecl)
	assert.Len(t, decl.Decls, 2)

	ifs := prog.Body[4].(*syntax.IfStmt)
	_, ok := ifs.Else.(*syntax.IfStmt)
	assert.True(t, ok)
}

func TestParseArrowClausesWithoutSemicolons(t *testing.T) {
	src := `function Test(value: number) {
  'use match'
  (value: 1) => console.log(1)
}`
	prog, err := ParseProgram(src)
	require.NoError(t, err)
	fn := prog.Body[0].(*syntax.FuncDecl)
	require.Len(t, fn.Body.Body, 2)
	es := fn.Body.Body[1].(*syntax.ExprStmt)
	_, ok := es.X.(*syntax.ArrowFunc)
	assert.True(t, ok, "newline before ( must not continue a call on the directive")
}

func TestParseErrorPosition(t *testing.T) {
	_, err := ParseProgram("const a = ;")
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, syntax.Pos{Line: 1, Column: 11}, perr.Pos)
}

// An error inside the body of a parenthesized arrow is reported where it
// occurs, not at the parameter list.
func TestParseErrorPositionInArrowBody(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want syntax.Pos
	}{
		{"declaration", "const f = (v: number) => {\n  a(;\n};\n", syntax.Pos{Line: 2, Column: 5}},
		{"call argument", "g((v: number) => {\n  a(;\n});\n", syntax.Pos{Line: 2, Column: 5}},
		{"expression body", "const f = (v: number): number =>\n  v + ;\n", syntax.Pos{Line: 2, Column: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProgram(tt.src)
			require.Error(t, err)
			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.want, perr.Pos, perr.Error())
		})
	}
}

func TestParseExprRejectsTrailingInput(t *testing.T) {
	_, err := ParseExpr("a b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after expression")
}
