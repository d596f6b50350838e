package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matchc/internal/compiler"
	"github.com/roach88/matchc/internal/rewrite"
)

func TestKey(t *testing.T) {
	k := Key(`{"factory":"match"}`, "const a = 1;")
	assert.Len(t, k, 64)
	assert.Equal(t, k, Key(`{"factory":"match"}`, "const a = 1;"))
	assert.NotEqual(t, k, Key(`{"factory":"m"}`, "const a = 1;"))
	assert.NotEqual(t, k, Key(`{"factory":"match"}`, "const a = 2;"))

	// The separator keeps option and source boundaries apart.
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))

	// Composed and decomposed spellings are different sources.
	assert.NotEqual(t, Key("", "\u00e9"), Key("", "e\u0301"))
}

func TestKeyIsScopedToCompilerVersion(t *testing.T) {
	opts, src := `{"factory":"match"}`, "const a = 1;"

	assert.Equal(t, Key(opts, src), versionedKey(compiler.Version, opts, src))
	assert.NotEqual(t, Key(opts, src), versionedKey("0.0.0-older", opts, src))
	assert.NotEqual(t, versionedKey("1.0", opts, src), versionedKey("1.0"+opts, "", src))
}

func TestPutLookup(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	run, err := s.BeginRun(ctx, "opts")
	require.NoError(t, err)
	assert.EqualValues(t, 1, run.Seq)
	assert.NotEmpty(t, run.ID)

	_, ok, err := s.Lookup(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	entry := Entry{
		Key:    Key("opts", "src"),
		File:   "a.ts",
		Output: "out\n",
		Report: rewrite.Report{GuardSites: 1, FluentSites: 2},
	}
	require.NoError(t, s.Put(ctx, run, entry))

	got, ok, err := s.Lookup(ctx, entry.Key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "out\n", got.Output)
	assert.Equal(t, entry.Report, got.Report)
	assert.Equal(t, run.ID, got.RunID)
	assert.EqualValues(t, 1, got.Seq)

	// Idempotent: the first output is kept.
	entry.Output = "other"
	require.NoError(t, s.Put(ctx, run, entry))
	got, _, err = s.Lookup(ctx, entry.Key)
	require.NoError(t, err)
	assert.Equal(t, "out\n", got.Output)
}

func TestHistoryNormalizesPaths(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	run, err := s.BeginRun(ctx, "opts")
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, run, Entry{Key: "k1", File: "caf\u00e9.ts", Output: "1"}))
	require.NoError(t, s.Put(ctx, run, Entry{Key: "k2", File: "cafe\u0301.ts", Output: "2"}))

	hist, err := s.History(ctx, "cafe\u0301.ts")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "1", hist[0].Output)
	assert.Equal(t, "2", hist[1].Output)
	assert.Less(t, hist[0].Seq, hist[1].Seq)
}

func TestRunsAndStats(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, st)

	first, err := s.BeginRun(ctx, "opts")
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, first, Entry{Key: "k1", File: "a.ts", Output: "a"}))
	first.Files, first.Misses = 1, 1
	require.NoError(t, s.FinishRun(ctx, first))

	second, err := s.BeginRun(ctx, "opts")
	require.NoError(t, err)
	assert.EqualValues(t, 2, second.Seq)
	second.Files, second.Hits, second.Failures = 2, 1, 1
	require.NoError(t, s.FinishRun(ctx, second))

	st, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{
		Entries:  1,
		Runs:     2,
		Hits:     1,
		Misses:   1,
		Failures: 1,
		LastRun:  second.ID,
	}, st)

	require.NoError(t, s.Clear(ctx))
	st, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, st)
}
