// Package store keeps enriched roster runs in a local SQLite database so
// earlier exports can be reloaded without hitting the quote service again.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/illmaticmd/csrmon/internal/model"
)

// ErrNoRuns is returned by LatestRun when nothing has been saved.
var ErrNoRuns = errors.New("no runs stored")

// Run describes one saved enrichment run.
type Run struct {
	ID        string
	CreatedAt time.Time
	Records   int
}

// Store is a SQLite-backed record store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	// One writer; sqlite serializes anyway.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS enriched_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			tier INTEGER NOT NULL,
			ticker TEXT NOT NULL,
			company TEXT NOT NULL,
			reason TEXT NOT NULL,
			estimated_value TEXT NOT NULL,
			sector TEXT NOT NULL,
			industry TEXT NOT NULL,
			stock_price TEXT NOT NULL,
			market_cap TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_enriched_run ON enriched_records(run_id, position)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores recs under runID in a single transaction. Saving the same
// runID twice is an error.
func (s *Store) SaveRun(ctx context.Context, runID string, recs []model.EnrichedRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err = tx.ExecContext(ctx, `INSERT INTO runs (run_id, created_at) VALUES (?, ?)`, runID, now); err != nil {
		return fmt.Errorf("inserting run %s: %w", runID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO enriched_records
		(run_id, position, tier, ticker, company, reason, estimated_value, sector, industry, stock_price, market_cap)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range recs {
		_, err = stmt.ExecContext(ctx, runID, i, int(r.Tier), r.Ticker, r.Company, r.Reason,
			r.EstimatedValue.String(), r.Sector, r.Industry, r.Price.String(), r.MarketCap.String())
		if err != nil {
			return fmt.Errorf("inserting %s: %w", r.Ticker, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Runs lists saved runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.run_id, r.created_at, COUNT(e.id)
		FROM runs r LEFT JOIN enriched_records e ON e.run_id = r.run_id
		GROUP BY r.seq
		ORDER BY r.seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run     Run
			created string
		)
		if err := rows.Scan(&run.ID, &created, &run.Records); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at %q: %w", created, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LatestRun returns the most recently saved run.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	runs, err := s.Runs(ctx)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, ErrNoRuns
	}
	return runs[0], nil
}

// LoadRun returns the records saved under runID in their original order.
// An unknown runID yields no records and no error.
func (s *Store) LoadRun(ctx context.Context, runID string) ([]model.EnrichedRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tier, ticker, company, reason, estimated_value, sector, industry, stock_price, market_cap
		FROM enriched_records WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", runID, err)
	}
	defer rows.Close()

	var recs []model.EnrichedRecord
	for rows.Next() {
		var (
			r                       model.EnrichedRecord
			tier                    int
			value, price, marketCap string
		)
		if err := rows.Scan(&tier, &r.Ticker, &r.Company, &r.Reason, &value, &r.Sector, &r.Industry, &price, &marketCap); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Tier = model.Tier(tier)
		if r.EstimatedValue, err = decimal.NewFromString(value); err != nil {
			return nil, fmt.Errorf("parsing estimated_value for %s: %w", r.Ticker, err)
		}
		if r.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parsing stock_price for %s: %w", r.Ticker, err)
		}
		if r.MarketCap, err = decimal.NewFromString(marketCap); err != nil {
			return nil, fmt.Errorf("parsing market_cap for %s: %w", r.Ticker, err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}
