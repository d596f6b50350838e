package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matchc/internal/testutil"
)

func TestTestCommand_AllScenariosPass(t *testing.T) {
	stdout, _, err := execute(t, "test", scenariosDir)
	require.NoError(t, err, stdout)

	assert.Contains(t, stdout, "✓ numbers\n")
	assert.Contains(t, stdout, "✓ error_no_clauses\n")
	assert.Contains(t, stdout, "0 failed")
	assert.Contains(t, stdout, "✓ All scenarios passed")
}

func TestTestCommand_Filter(t *testing.T) {
	stdout, _, err := execute(t, "test", scenariosDir, "--filter", "guard_*", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.NotEmpty(t, resp.Data.Scenarios)
	assert.Equal(t, len(resp.Data.Scenarios), resp.Data.Passed)
	for _, s := range resp.Data.Scenarios {
		assert.Regexp(t, `^guard_`, s.Name)
	}
}

func TestTestCommand_NoScenarios(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := execute(t, "test", dir)
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", stdout)
}

func TestTestCommand_MissingDirectory(t *testing.T) {
	_, _, err := execute(t, "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_FailingScenario(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"scenarios/wrong.yaml": `name: wrong
description: Asserts the wrong value
source: |
  const n = 2;
assertions:
  - type: returns
    expr: n
    value: 3
`,
	})

	stdout, _, err := execute(t, "test", filepath.Join(root, "scenarios"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ wrong\n")
	assert.Contains(t, stdout, "1 failed")
}

func TestTestCommand_GoldenMismatch(t *testing.T) {
	numbers, err := os.ReadFile(filepath.Join(scenariosDir, "numbers.yaml"))
	require.NoError(t, err)
	root := testutil.WriteTree(t, map[string]string{
		"scenarios/numbers.yaml": string(numbers),
		"golden/numbers.golden":  "stale\n",
	})

	stdout, _, err := execute(t, "test", filepath.Join(root, "scenarios"))
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "does not match golden file")
}

func TestTestCommand_Update(t *testing.T) {
	numbers, err := os.ReadFile(filepath.Join(scenariosDir, "numbers.yaml"))
	require.NoError(t, err)
	syntax, err := os.ReadFile(filepath.Join(scenariosDir, "error_syntax.yaml"))
	require.NoError(t, err)
	root := testutil.WriteTree(t, map[string]string{
		"scenarios/numbers.yaml":      string(numbers),
		"scenarios/error_syntax.yaml": string(syntax),
		"golden/numbers.golden":       "stale\n",
	})

	stdout, _, err := execute(t, "test", filepath.Join(root, "scenarios"), "--update")
	require.NoError(t, err, stdout)
	assert.Contains(t, stdout, "✓ numbers (golden updated)")

	golden := testutil.ReadTree(t, filepath.Join(root, "golden"))
	assert.Equal(t, []string{"numbers.golden"}, testutil.Names(golden))
	assert.Equal(t, readGolden(t, "numbers"), golden["numbers.golden"])

	// The regenerated file now matches.
	_, _, err = execute(t, "test", filepath.Join(root, "scenarios"))
	require.NoError(t, err)
}
