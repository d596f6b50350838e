package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matchc/internal/compiler"
	"github.com/roach88/matchc/internal/parser"
	"github.com/roach88/matchc/internal/printer"
)

func rewriteBoth(t *testing.T, cfg compiler.Config, src string) (string, Report) {
	t.Helper()
	node, rep, err := New(compiler.New(cfg), ModeNode).Source("in.ts", src)
	require.NoError(t, err)
	text, textRep, err := New(compiler.New(cfg), ModeText).Source("in.ts", src)
	require.NoError(t, err)
	assert.Equal(t, node, text, "node and text modes disagree")
	assert.Equal(t, rep, textRep)
	return node, rep
}

func TestRewriteFile(t *testing.T) {
	src := `function describe(value: number) {
  'use match';
  (value: 1) => { return "one"; }
  () => { return "other"; }
}
const r = Λ("match")` + "`${x} ${1} -> ${\"one\"}`" + `;
`
	want := `function describe(value: number) {
  if (value === 1) {
    return "one";
  } else {
    return "other";
  }
}
const r = match(x).with(1, () => {
  return "one";
}).run();
`
	out, rep := rewriteBoth(t, compiler.Config{}, src)
	assert.Equal(t, want, out)
	assert.Equal(t, Report{GuardSites: 1, FluentSites: 1}, rep)
	assert.Equal(t, 2, rep.Sites())
}

func TestRewriteFluentInsideGuardClause(t *testing.T) {
	src := "function f(v: 1) {\n'use match';\n(v: 1) => { return Λ(\"match\")`${w} ${2} -> ${3}`; }\n}\n"
	want := `function f(v: 1) {
  if (v === 1) {
    return match(w).with(2, () => {
      return 3;
    }).run();
  }
}
`
	out, rep := rewriteBoth(t, compiler.Config{}, src)
	assert.Equal(t, want, out)
	assert.Equal(t, 1, rep.GuardSites)
	assert.Equal(t, 1, rep.FluentSites)
}

func TestRewriteInlineBlock(t *testing.T) {
	src := `function f(v) {
  log(v);
  {
    'use match';
    (v: 1) => a();
  }
}
`
	out, rep := rewriteBoth(t, compiler.Config{}, src)
	assert.Equal(t, `function f(v) {
  log(v);
  {
    if (v === 1) {
      a();
    }
  }
}
`, out)
	assert.Equal(t, 1, rep.InlineSites)

	out, _ = rewriteBoth(t, compiler.Config{Merge: true}, src)
	assert.Equal(t, `function f(v) {
  log(v);
  if (v === 1) {
    a();
  }
}
`, out)
}

func TestRewriteArrowBody(t *testing.T) {
	src := "const f = (v: number) => {\n'use match';\n(v: 1) => 'a';\n() => 'b';\n};\n"
	out, rep := rewriteBoth(t, compiler.Config{}, src)
	assert.Equal(t, "const f = (v: number) => {\n  if (v === 1) {\n    'a';\n  } else {\n    'b';\n  }\n};\n", out)
	assert.Equal(t, 1, rep.GuardSites)
}

func TestRewriteIgnoresFileDirective(t *testing.T) {
	src := "'use match';\nconst a = 1;\n"
	out, rep := rewriteBoth(t, compiler.Config{}, src)
	assert.Equal(t, src, out)
	assert.Zero(t, rep.Sites())
}

func TestRewriteErrors(t *testing.T) {
	r := New(compiler.New(compiler.Config{}), ModeNode)

	_, _, err := r.Source("bad.ts", "function f(v) {\n  'use match';\n  () => 1;\n}\n")
	require.Error(t, err)
	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "bad.ts", re.File)
	assert.Equal(t, 3, re.Pos.Line)
	assert.Equal(t, compiler.ErrDefaultWithoutPattern, compiler.Code(err))
	assert.Contains(t, err.Error(), "bad.ts:3:")

	_, _, err = r.Source("syntax.ts", "const = 1;")
	require.ErrorAs(t, err, &re)
	var pe *parser.Error
	assert.ErrorAs(t, err, &pe)
	assert.True(t, re.Pos.IsValid())

	_, _, err = New(compiler.New(compiler.Config{}), ModeText).Source("t.ts", "f(Λ(\"match\")`${v}`);")
	assert.Equal(t, compiler.ErrNoClauses, compiler.Code(err))
	assert.Contains(t, err.Error(), "t.ts:")
}

func TestRewriteProgram(t *testing.T) {
	prog, err := parser.ParseProgram("const y = Λ(\"match\")`${x} ${1} -> ${2}`;")
	require.NoError(t, err)

	rep, err := New(compiler.New(compiler.Config{Factory: "m"}), ModeText).Program(prog)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.FluentSites)
	assert.Equal(t, "const y = m(x).with(1, () => {\n  return 2;\n}).run();\n", printer.Program(prog))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeNode, m)

	m, err = ParseMode("text")
	require.NoError(t, err)
	assert.Equal(t, ModeText, m)

	_, err = ParseMode("ast")
	assert.Error(t, err)
}

func TestReportAdd(t *testing.T) {
	var total Report
	total.Add(Report{GuardSites: 1, FluentSites: 2})
	total.Add(Report{InlineSites: 3})
	assert.Equal(t, Report{GuardSites: 1, InlineSites: 3, FluentSites: 2}, total)
}
