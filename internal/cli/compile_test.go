package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matchc/internal/harness"
	"github.com/roach88/matchc/internal/testutil"
)

const (
	scenariosDir = "../harness/testdata/scenarios"
	goldenDir    = "../harness/testdata/golden"
)

// scenarioSource returns the program of a conformance scenario.
func scenarioSource(t *testing.T, name string) string {
	t.Helper()
	s, err := harness.LoadScenario(filepath.Join(scenariosDir, name+".yaml"))
	require.NoError(t, err)
	return s.Source
}

func readGolden(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(goldenDir, name+".golden"))
	require.NoError(t, err)
	return string(data)
}

// decodeResponse decodes a JSON envelope whose data is a compilation result.
func decodeResponse(t *testing.T, out string) (CLIResponse, CompilationResult) {
	t.Helper()
	var raw struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw), out)
	var result CompilationResult
	if len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, &result))
	}
	return raw.CLIResponse, result
}

func TestCompile_Stdout(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"numbers.ts": scenarioSource(t, "numbers"),
	})

	stdout, stderr, err := execute(t, "compile", filepath.Join(root, "numbers.ts"))
	require.NoError(t, err, stderr)

	assert.Equal(t, readGolden(t, "numbers"), stdout)
	assert.Empty(t, stderr)
}

func TestCompile_GuardChain(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"guard.ts": scenarioSource(t, "guard_number"),
	})

	stdout, _, err := execute(t, "compile", filepath.Join(root, "guard.ts"))
	require.NoError(t, err)

	assert.Equal(t, readGolden(t, "guard_number"), stdout)
}

func TestCompile_MultipleFilesHeaders(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"a.ts":                  scenarioSource(t, "numbers"),
		"b.ts":                  "const plain = 1;\n",
		"types.d.ts":            "declare const x: number;\n",
		"notes.md":              "not code\n",
		"node_modules/lib/x.ts": "const x = 1;\n",
	})

	stdout, _, err := execute(t, "compile", root)
	require.NoError(t, err)

	assert.Contains(t, stdout, "// "+filepath.Join(root, "a.ts")+"\n")
	assert.Contains(t, stdout, "// "+filepath.Join(root, "b.ts")+"\nconst plain = 1;\n")
	assert.NotContains(t, stdout, "types.d.ts")
	assert.NotContains(t, stdout, "notes.md")
	assert.NotContains(t, stdout, "node_modules")
}

func TestCompile_TextMode(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"t.ts": scenarioSource(t, "text_mode"),
	})

	stdout, _, err := execute(t, "compile", "--mode", "text", filepath.Join(root, "t.ts"))
	require.NoError(t, err)

	assert.Contains(t, stdout, `match(["-", 2]).with(["-", Number], x => {`)
}

func TestCompile_OutDir(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"src/a.ts":     scenarioSource(t, "numbers"),
		"src/sub/b.ts": scenarioSource(t, "guard_number"),
	})
	out := filepath.Join(root, "out")

	stdout, _, err := execute(t, "compile", filepath.Join(root, "src"), "--out-dir", out)
	require.NoError(t, err)

	assert.Contains(t, stdout, "✓ Compiled 2 file(s): 1 guard, 0 inline, 2 fluent site(s)")
	assert.Contains(t, stdout, "Wrote 2 file(s) to "+out)

	written := testutil.ReadTree(t, out)
	assert.Equal(t, []string{"a.ts", "sub/b.ts"}, testutil.Names(written))
	assert.Equal(t, readGolden(t, "numbers"), written["a.ts"])
	assert.Equal(t, readGolden(t, "guard_number"), written["sub/b.ts"])
}

func TestCompile_JSON(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"numbers.ts": scenarioSource(t, "numbers"),
	})

	stdout, _, err := execute(t, "compile", "--format", "json", filepath.Join(root, "numbers.ts"))
	require.NoError(t, err)

	resp, result := decodeResponse(t, stdout)
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.RunID)
	require.Len(t, result.Files, 1)
	assert.Equal(t, readGolden(t, "numbers"), result.Files[0].Output)
	assert.Equal(t, 2, result.Report.FluentSites)
	assert.Equal(t, 0, result.Failed)
}

func TestCompile_CompileErrorExitsFailure(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"bad.ts":  scenarioSource(t, "error_no_clauses"),
		"good.ts": scenarioSource(t, "numbers"),
	})

	stdout, stderr, err := execute(t, "compile", root)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, stdout, "// "+filepath.Join(root, "good.ts"))
	assert.NotContains(t, stdout, "bad.ts")
	assert.Contains(t, stderr, "✗ Compilation failed")
	assert.Contains(t, stderr, filepath.Join(root, "bad.ts")+":1:")
	assert.Contains(t, stderr, "E206: ")
}

func TestCompile_CompileErrorJSON(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"dangling.ts": scenarioSource(t, "error_dangling"),
	})

	stdout, _, err := execute(t, "compile", "--format", "json", root)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp, result := decodeResponse(t, stdout)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E208", resp.Error.Code)
	assert.Equal(t, 1, result.Failed)
	require.NotNil(t, result.Files[0].Error)
	assert.Equal(t, "E208", result.Files[0].Error.Code)
	assert.Greater(t, result.Files[0].Error.Line, 0)
}

func TestCompile_SyntaxError(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"broken.ts": scenarioSource(t, "error_syntax"),
	})

	_, stderr, err := execute(t, "compile", filepath.Join(root, "broken.ts"))
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stderr, ErrCodeSyntax+": ")
}

func TestCompile_CommandErrors(t *testing.T) {
	empty := testutil.WriteTree(t, map[string]string{"readme.md": "x"})

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"missing path", []string{"compile", filepath.Join(empty, "nope.ts")}, ErrCodeNotFound},
		{"no sources", []string{"compile", empty}, ErrCodeNoFiles},
		{"bad mode", []string{"compile", "--mode", "fancy", filepath.Join(empty, "readme.md")}, "E304"},
		{"missing config", []string{"compile", "--config", filepath.Join(empty, "none.yaml"), filepath.Join(empty, "readme.md")}, "E301"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, stdout, "["+tt.code+"]")
		})
	}
}

func TestCompile_ConfigDiscovery(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		".matchc.yaml":   "factory: tsMatch\n",
		"src/numbers.ts": scenarioSource(t, "numbers"),
	})
	file := filepath.Join(root, "src", "numbers.ts")

	stdout, _, err := execute(t, "compile", file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "const output = tsMatch(1).with(1, x => {"), stdout)

	stdout, _, err = execute(t, "compile", "--factory", "m", file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "const output = m(1).with(1, x => {"), stdout)
}

// Each source takes the config nearest to it, not the first argument's.
func TestCompile_ConfigPerDirectory(t *testing.T) {
	src := scenarioSource(t, "numbers")
	root := testutil.WriteTree(t, map[string]string{
		"a/.matchc.yaml":    "factory: aMatch\n",
		"a/numbers.ts":      src,
		"b/matchc.cue":      "factory: \"bMatch\"\n",
		"b/deep/numbers.ts": src,
		"plain/numbers.ts":  src,
	})
	db := filepath.Join(t.TempDir(), "cache.db")

	stdout, _, err := execute(t, "compile", "--format", "json", "--cache", db,
		filepath.Join(root, "a"), filepath.Join(root, "b"), filepath.Join(root, "plain"))
	require.NoError(t, err)
	_, result := decodeResponse(t, stdout)
	require.Len(t, result.Files, 3)

	want := map[string]string{
		filepath.Join(root, "a", "numbers.ts"):         "const output = aMatch(1).with(",
		filepath.Join(root, "b", "deep", "numbers.ts"): "const output = bMatch(1).with(",
		filepath.Join(root, "plain", "numbers.ts"):     "const output = match(1).with(",
	}
	for _, f := range result.Files {
		prefix, ok := want[f.File]
		require.True(t, ok, "unexpected file %s", f.File)
		assert.True(t, strings.HasPrefix(f.Output, prefix), "%s:\n%s", f.File, f.Output)
		// Same source under different options is a separate cache entry.
		assert.False(t, f.Cached, f.File)
	}

	// A flag overrides the config of every directory.
	stdout, _, err = execute(t, "compile", "--factory", "m", filepath.Join(root, "a"), filepath.Join(root, "b"))
	require.NoError(t, err)
	assert.NotContains(t, stdout, "aMatch(")
	assert.NotContains(t, stdout, "bMatch(")
}

func TestCompile_ExplicitCUEConfig(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"opts/matchc.cue": "factory: \"pm\"\n",
		"numbers.ts":      scenarioSource(t, "numbers"),
	})

	stdout, _, err := execute(t, "compile", "--config", filepath.Join(root, "opts", "matchc.cue"), filepath.Join(root, "numbers.ts"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "const output = pm(1).with("), stdout)
}

func TestCompile_Cache(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"numbers.ts": scenarioSource(t, "numbers"),
	})
	db := filepath.Join(t.TempDir(), "cache.db")
	args := []string{"compile", "--format", "json", "--cache", db, filepath.Join(root, "numbers.ts")}

	stdout, _, err := execute(t, args...)
	require.NoError(t, err)
	first, result := decodeResponse(t, stdout)
	assert.NotEmpty(t, first.RunID)
	assert.False(t, result.Files[0].Cached)

	stdout, _, err = execute(t, args...)
	require.NoError(t, err)
	second, result := decodeResponse(t, stdout)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.True(t, result.Files[0].Cached)
	assert.Equal(t, readGolden(t, "numbers"), result.Files[0].Output)
	assert.Equal(t, 2, result.Report.FluentSites)

	// Different options miss the cache.
	stdout, _, err = execute(t, append(args, "--factory", "m")...)
	require.NoError(t, err)
	_, result = decodeResponse(t, stdout)
	assert.False(t, result.Files[0].Cached)
}
