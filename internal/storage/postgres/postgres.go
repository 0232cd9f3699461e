package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"moviesocial/proj/internal/domain/models"
	"moviesocial/proj/internal/storage"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS search_cache (
	browser_id TEXT PRIMARY KEY,
	query      TEXT NOT NULL,
	results    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

type PostgresDB struct {
	Conn *pgxpool.Pool
}

func New(ctx context.Context, dsn string, maxConns int, maxConnIdleTime time.Duration) (*PostgresDB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = int32(maxConns)
	cfg.MaxConnIdleTime = maxConnIdleTime
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresDB{Conn: pool}, nil
}

type searchRow struct {
	Query     string    `db:"query"`
	Results   []byte    `db:"results"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (db *PostgresDB) Get(ctx context.Context, browserID string) (*models.SearchResult, error) {
	rows, err := db.Conn.Query(
		ctx,
		`SELECT query, results, updated_at FROM search_cache WHERE browser_id = $1`,
		browserID,
	)
	if err != nil {
		return nil, err
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[searchRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	result := &models.SearchResult{Query: row.Query, UpdatedAt: row.UpdatedAt}
	if err := json.Unmarshal(row.Results, &result.Results); err != nil {
		return nil, err
	}
	return result, nil
}

func (db *PostgresDB) Save(ctx context.Context, browserID string, result models.SearchResult) error {
	payload, err := json.Marshal(result.Results)
	if err != nil {
		return err
	}
	_, err = db.Conn.Exec(
		ctx,
		`INSERT INTO search_cache (browser_id, query, results, updated_at) VALUES ($1, $2, $3::jsonb, $4)
		ON CONFLICT (browser_id) DO UPDATE
		SET query = EXCLUDED.query, results = EXCLUDED.results, updated_at = EXCLUDED.updated_at`,
		browserID,
		result.Query,
		string(payload),
		result.UpdatedAt,
	)
	return err
}

func (db *PostgresDB) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	status, err := db.Conn.Exec(ctx, "DELETE FROM search_cache WHERE updated_at < $1", olderThan)
	if err != nil {
		return 0, err
	}
	return status.RowsAffected(), nil
}

func (db *PostgresDB) Close() error {
	db.Conn.Close()
	return nil
}
