package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matchc/internal/compiler"
	"github.com/roach88/matchc/internal/pattern"
	"github.com/roach88/matchc/internal/rewrite"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".matchc.yaml", `
factory: tsMatch
outputType: "string | number"
merge: true
negation: predicate
mode: text
`)

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Options{
		Factory:    "tsMatch",
		OutputType: "string | number",
		Merge:      true,
		Negation:   "predicate",
		Tag:        compiler.DefaultTag,
		Mode:       "text",
	}, opts)

	cfg := opts.Compiler()
	assert.Equal(t, "tsMatch", cfg.Factory)
	assert.Equal(t, pattern.NegationPredicate, cfg.Negation)
	assert.True(t, cfg.Merge)
	assert.Equal(t, rewrite.ModeText, opts.RewriteMode())
}

func TestLoadYAMLEmpty(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".matchc.yml", "")
	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), opts)
}

func TestLoadYAMLRejectsUnknownField(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".matchc.yaml", "factori: m\n")
	_, err := Load(path)
	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeSyntax, ce.Code)
	assert.Contains(t, ce.Message, "factori")
}

func TestLoadYAMLInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		msg     string
	}{
		{"factory not identifier", "factory: my-match\n", "factory"},
		{"reserved factory", "factory: function\n", "factory"},
		{"bad negation", "negation: inverted\n", "negation"},
		{"bad mode", "mode: ast\n", "mode"},
		{"bad output type", "outputType: 'string |'\n", "outputType"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), ".matchc.yaml", tt.content)
			_, err := Load(path)
			var ce *Error
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, ErrCodeInvalid, ce.Code)
			assert.Equal(t, path, ce.File)
			assert.Contains(t, ce.Message, tt.msg)
		})
	}
}

func TestLoadCUE(t *testing.T) {
	path := writeFile(t, t.TempDir(), "matchc.cue", `
factory:  "m"
merge:    true
negation: "structural"
`)
	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "m", opts.Factory)
	assert.True(t, opts.Merge)
	assert.Equal(t, "node", opts.Mode)
}

func TestLoadCUESchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown field", `factori: "m"`},
		{"bad enum", `mode: "ast"`},
		{"wrong type", `merge: "yes"`},
		{"bad factory", `factory: "1abc"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "matchc.cue", tt.content)
			_, err := Load(path)
			var ce *Error
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, ErrCodeSchema, ce.Code)
		})
	}
}

func TestLoadCUESyntaxError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "matchc.cue", "factory: \"m\n")
	_, err := Load(path)
	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeSyntax, ce.Code)
	assert.True(t, ce.Pos.IsValid())
}

func TestLoadUnknownExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "matchc.toml", "")
	_, err := Load(path)
	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeRead, ce.Code)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, err := Discover(nested)
	require.NoError(t, err)
	if path != "" {
		// A config above the temp dir belongs to the environment, not the test.
		assert.NotContains(t, path, root)
	}

	want := writeFile(t, root, "matchc.cue", `factory: "m"`)
	path, err = Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, want, path)

	// YAML wins over CUE in the same directory.
	want = writeFile(t, root, ".matchc.yaml", "factory: y\n")
	path, err = Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, want, path)

	opts, found, err := LoadDir(nested)
	require.NoError(t, err)
	assert.Equal(t, want, found)
	assert.Equal(t, "y", opts.Factory)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Options{}.Fingerprint(), Defaults().Fingerprint())
	assert.NotEqual(t, Defaults().Fingerprint(), Options{Merge: true}.Fingerprint())
	assert.NotEqual(t, Defaults().Fingerprint(), Options{OutputType: "number"}.Fingerprint())

	assert.Equal(t,
		`factory="match";outputType="";merge=false;negation="structural";tag="Λ";mode="node"`,
		Defaults().Fingerprint())

	// Quoting keeps a separator inside a value from forging another field.
	forged := Options{Factory: `m";outputType="x`}
	assert.NotEqual(t, Options{Factory: "m", OutputType: "x"}.Fingerprint(), forged.Fingerprint())
	assert.Contains(t, forged.Fingerprint(), `factory="m\";outputType=\"x"`)
}
