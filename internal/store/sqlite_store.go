// Package store persists client-side state in a local SQLite database:
// credentials under fixed storage keys, and a cache of report summaries so
// the dashboard can still render when the API is unreachable.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/altibbe/transparency/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS report_cache (
	id           TEXT PRIMARY KEY,
	product_json TEXT NOT NULL,
	score        INTEGER NOT NULL,
	status       TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	cached_at    TEXT NOT NULL
);
`

// SQLiteStore is the on-disk client state store.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the state database at path.
func Open(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("state db path is required")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Get returns the value stored under key, or "" when the key is absent.
func (s *SQLiteStore) Get(key string) (string, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// Set stores value under key, replacing any previous value.
func (s *SQLiteStore) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO kv(key, value) VALUES(?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// Delete removes the given keys. Missing keys are not an error.
func (s *SQLiteStore) Delete(keys ...string) error {
	for _, k := range keys {
		if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, k); err != nil {
			return err
		}
	}
	return nil
}

// UpsertReports refreshes the cached summaries for the given reports.
func (s *SQLiteStore) UpsertReports(rs []*models.ReportSummary) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range rs {
		if r == nil || r.ID == "" {
			continue
		}
		productJSON := "null"
		if r.Product != nil {
			b, err := json.Marshal(r.Product)
			if err != nil {
				tx.Rollback()
				return err
			}
			productJSON = string(b)
		}
		_, err = tx.Exec(`INSERT INTO report_cache(id, product_json, score, status, created_at, cached_at)
			VALUES(?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				product_json = excluded.product_json,
				score        = excluded.score,
				status       = excluded.status,
				created_at   = excluded.created_at,
				cached_at    = excluded.cached_at`,
			r.ID, productJSON, r.TransparencyScore, r.Status,
			r.CreatedAt.UTC().Format(time.RFC3339), now)
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// CachedReports returns every cached summary, newest first.
func (s *SQLiteStore) CachedReports() ([]*models.ReportSummary, error) {
	rows, err := s.db.Query(`SELECT id, product_json, score, status, created_at
		FROM report_cache ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ReportSummary
	for rows.Next() {
		var (
			r           models.ReportSummary
			productJSON string
			createdAt   string
		)
		if err := rows.Scan(&r.ID, &productJSON, &r.TransparencyScore, &r.Status, &createdAt); err != nil {
			return nil, err
		}
		if productJSON != "" && productJSON != "null" {
			var p models.ProductInfo
			if err := json.Unmarshal([]byte(productJSON), &p); err == nil {
				r.Product = &p
			}
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			r.CreatedAt = t
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
