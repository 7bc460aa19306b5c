package session

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const queryTimeout = 3 * time.Second

const schema = `CREATE TABLE IF NOT EXISTS storefront_sessions (
	id         TEXT PRIMARY KEY,
	identity   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the sessions table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

type PostgresBackend struct {
	db *sql.DB
}

func NewPostgresBackend(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) Get(ctx context.Context, id string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var data []byte
	err := b.db.QueryRowContext(ctx, `SELECT identity FROM storefront_sessions WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	return data, err
}

func (b *PostgresBackend) Put(ctx context.Context, id string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `INSERT INTO storefront_sessions (id, identity, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET identity = EXCLUDED.identity, updated_at = now()`
	_, err := b.db.ExecContext(ctx, query, id, string(data))
	return err
}

func (b *PostgresBackend) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := b.db.ExecContext(ctx, `DELETE FROM storefront_sessions WHERE id = $1`, id)
	return err
}
