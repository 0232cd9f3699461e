package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"moviesocial/proj/internal/domain/models"
	"moviesocial/proj/internal/storage"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS search_cache (
	browser_id TEXT PRIMARY KEY,
	query      TEXT NOT NULL,
	results    TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

type Storage struct {
	DB *sqlx.DB
}

// New opens the database at dsn. ":memory:" gives a private in-memory database.
func New(dsn string) (*Storage, error) {
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Storage{DB: db}, nil
}

type searchRow struct {
	Query     string    `db:"query"`
	Results   string    `db:"results"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (s *Storage) Get(ctx context.Context, browserID string) (*models.SearchResult, error) {
	var row searchRow
	err := s.DB.GetContext(
		ctx,
		&row,
		"SELECT query, results, updated_at FROM search_cache WHERE browser_id = ?",
		browserID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	result := &models.SearchResult{Query: row.Query, UpdatedAt: row.UpdatedAt}
	if err := json.Unmarshal([]byte(row.Results), &result.Results); err != nil {
		return nil, fmt.Errorf("corrupt cached results: %w", err)
	}
	return result, nil
}

func (s *Storage) Save(ctx context.Context, browserID string, result models.SearchResult) error {
	payload, err := json.Marshal(result.Results)
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(
		ctx,
		`INSERT INTO search_cache (browser_id, query, results, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(browser_id) DO UPDATE
		SET query = excluded.query, results = excluded.results, updated_at = excluded.updated_at`,
		browserID,
		result.Query,
		string(payload),
		result.UpdatedAt.UTC(),
	)
	return err
}

func (s *Storage) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM search_cache WHERE updated_at < ?", olderThan.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Storage) Close() error {
	return s.DB.Close()
}
