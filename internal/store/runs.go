package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Run is one cache-using invocation of the compiler.
type Run struct {
	ID       string
	Seq      int64
	Options  string
	Files    int
	Hits     int
	Misses   int
	Failures int
}

// BeginRun records the start of a run under the given options fingerprint.
func (s *Store) BeginRun(ctx context.Context, options string) (*Run, error) {
	run := &Run{ID: uuid.Must(uuid.NewV7()).String(), Options: options}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO runs (id, seq, options)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?)
		RETURNING seq
	`, run.ID, options).Scan(&run.Seq)
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}
	return run, nil
}

// FinishRun stores the run's final counts.
func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET files = ?, hits = ?, misses = ?, failures = ?, finished = 1
		WHERE id = ?
	`, run.Files, run.Hits, run.Misses, run.Failures, run.ID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// Stats summarizes the cache.
type Stats struct {
	Entries  int    `json:"entries"`
	Runs     int    `json:"runs"`
	Hits     int    `json:"hits"`
	Misses   int    `json:"misses"`
	Failures int    `json:"failures"`
	LastRun  string `json:"last_run,omitempty"`
}

// Stats returns cache totals. Unfinished runs count as runs but contribute
// no hits or misses.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM compilations`).Scan(&st.Entries); err != nil {
		return Stats{}, fmt.Errorf("count compilations: %w", err)
	}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(hits), 0), COALESCE(SUM(misses), 0), COALESCE(SUM(failures), 0)
		FROM runs
	`).Scan(&st.Runs, &st.Hits, &st.Misses, &st.Failures)
	if err != nil {
		return Stats{}, fmt.Errorf("sum runs: %w", err)
	}
	if st.Runs > 0 {
		err = s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY seq DESC LIMIT 1`).Scan(&st.LastRun)
		if err != nil {
			return Stats{}, fmt.Errorf("last run: %w", err)
		}
	}
	return st, nil
}

// Clear deletes every run and compilation.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM compilations`, `DELETE FROM runs`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
	}
	return tx.Commit()
}
