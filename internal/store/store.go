// Package store holds the reader, reporter and vote tables in SQLite.
//
// The database lives in memory and disappears with the Store.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/verte-zerg/credence/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const memoryDSN = ":memory:"

// Store wraps SQLite access for one run's tables.
type Store struct {
	db *sql.DB
}

// Open creates an empty in-memory database and applies the schema.
func Open() (*Store, error) {
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, err
	}
	// Every pooled connection would get its own private memory database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE readers (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			baseline REAL NOT NULL,
			seq INTEGER NOT NULL
		);`,
		`CREATE TABLE reporters (
			id TEXT PRIMARY KEY,
			origin REAL NOT NULL,
			seq INTEGER NOT NULL
		);`,
		`CREATE TABLE votes (
			round INTEGER NOT NULL,
			reader_id TEXT NOT NULL,
			reporter_id TEXT NOT NULL,
			score REAL NOT NULL,
			PRIMARY KEY (round, reader_id, reporter_id)
		);`,
		`CREATE INDEX idx_votes_reporter ON votes(round, reporter_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// InsertReaders appends rows to the reader table.
func (s *Store) InsertReaders(ctx context.Context, readers []model.Reader) error {
	return s.insertRows(ctx, `INSERT INTO readers (id, kind, baseline, seq) VALUES (?, ?, ?, ?)`, len(readers), func(i int) []any {
		r := readers[i]
		return []any{r.ID, string(r.Kind), r.Baseline, i}
	})
}

// InsertReporters appends rows to the reporter table.
func (s *Store) InsertReporters(ctx context.Context, reporters []model.Reporter) error {
	return s.insertRows(ctx, `INSERT INTO reporters (id, origin, seq) VALUES (?, ?, ?)`, len(reporters), func(i int) []any {
		r := reporters[i]
		return []any{r.ID, r.Origin, i}
	})
}

// InsertVotes stores votes. A reader may vote for a reporter once per round.
func (s *Store) InsertVotes(ctx context.Context, votes []model.Vote) error {
	return s.insertRows(ctx, `INSERT INTO votes (round, reader_id, reporter_id, score) VALUES (?, ?, ?, ?)`, len(votes), func(i int) []any {
		v := votes[i]
		return []any{v.Round, v.ReaderID, v.ReporterID, v.Score}
	})
}

func (s *Store) insertRows(ctx context.Context, query string, n int, args func(i int) []any) (err error) {
	if n == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i := 0; i < n; i++ {
		if _, err = stmt.ExecContext(ctx, args(i)...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListReaders returns the reader table in insertion order.
func (s *Store) ListReaders(ctx context.Context) ([]model.Reader, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, kind, baseline FROM readers ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var result []model.Reader
	for rows.Next() {
		var r model.Reader
		var kind string
		if err := rows.Scan(&r.ID, &kind, &r.Baseline); err != nil {
			return nil, err
		}
		if r.Kind, err = model.ParseReaderKind(kind); err != nil {
			return nil, fmt.Errorf("reader %q: %w", r.ID, err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListReporters returns the reporter table in insertion order.
func (s *Store) ListReporters(ctx context.Context) ([]model.Reporter, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, origin FROM reporters ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var result []model.Reporter
	for rows.Next() {
		var r model.Reporter
		if err := rows.Scan(&r.ID, &r.Origin); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListVotes returns the votes cast in a round ordered by round, reporter, then
// reader. round < 0 returns every round.
func (s *Store) ListVotes(ctx context.Context, round int) ([]model.Vote, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT round, reader_id, reporter_id, score FROM votes
		 WHERE (? < 0 OR round = ?)
		 ORDER BY round ASC, reporter_id ASC, reader_id ASC`, round, round)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var result []model.Vote
	for rows.Next() {
		var v model.Vote
		if err := rows.Scan(&v.Round, &v.ReaderID, &v.ReporterID, &v.Score); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ReporterVoteStats aggregates a round's votes per reporter. round < 0 covers every round.
func (s *Store) ReporterVoteStats(ctx context.Context, round int) ([]model.ReporterVoteStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT reporter_id, COUNT(*) AS votes, AVG(score) AS mean
		 FROM votes
		 WHERE (? < 0 OR round = ?)
		 GROUP BY reporter_id
		 ORDER BY reporter_id ASC`, round, round)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var result []model.ReporterVoteStats
	for rows.Next() {
		var st model.ReporterVoteStats
		if err := rows.Scan(&st.ReporterID, &st.Votes, &st.Mean); err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Rounds returns the distinct rounds that have votes, ascending.
func (s *Store) Rounds(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT round FROM votes ORDER BY round ASC`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var result []int
	for rows.Next() {
		var r int
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}
