package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/matchc/internal/rewrite"
)

// Entry is one cached compilation.
type Entry struct {
	Key    string
	File   string
	Output string
	Report rewrite.Report
	RunID  string
	Seq    int64
}

// Lookup returns the entry stored under key.
func (s *Store) Lookup(ctx context.Context, key string) (Entry, bool, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx, `
		SELECT key, file, output, guard_sites, inline_sites, fluent_sites, run_id, seq
		FROM compilations
		WHERE key = ?
	`, key).Scan(
		&e.Key, &e.File, &e.Output,
		&e.Report.GuardSites, &e.Report.InlineSites, &e.Report.FluentSites,
		&e.RunID, &e.Seq,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("lookup compilation: %w", err)
	}
	return e, true, nil
}

// Put stores a compilation for run. An existing entry under the same key is
// kept: it holds the same output.
func (s *Store) Put(ctx context.Context, run *Run, e Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO compilations
		(key, file, output, guard_sites, inline_sites, fluent_sites, run_id, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM compilations))
		ON CONFLICT(key) DO NOTHING
	`,
		e.Key,
		normalizePath(e.File),
		e.Output,
		e.Report.GuardSites,
		e.Report.InlineSites,
		e.Report.FluentSites,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("put compilation: %w", err)
	}
	return nil
}

// History lists the cached compilations of file, oldest first.
func (s *Store) History(ctx context.Context, file string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, file, output, guard_sites, inline_sites, fluent_sites, run_id, seq
		FROM compilations
		WHERE file = ?
		ORDER BY seq ASC, key ASC COLLATE BINARY
	`, normalizePath(file))
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.Key, &e.File, &e.Output,
			&e.Report.GuardSites, &e.Report.InlineSites, &e.Report.FluentSites,
			&e.RunID, &e.Seq,
		); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}
