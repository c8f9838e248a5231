package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/tinylink/internal/links"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS links (
		code            TEXT PRIMARY KEY,
		url             TEXT NOT NULL,
		clicks          BIGINT NOT NULL DEFAULT 0,
		created_at      TIMESTAMPTZ NOT NULL,
		last_clicked_at TIMESTAMPTZ
	)
`

// PostgresStore is a PostgreSQL implementation of links.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed link store. The store
// takes ownership of the pool and closes it on Shutdown.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the links table if it does not exist.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("postgres schema: %w", err)
	}

	return nil
}

func (p *PostgresStore) Create(ctx context.Context, link *links.Link) error {
	query := `
		INSERT INTO links (code, url, clicks, created_at)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (code) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query, string(link.Code), link.URL, link.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres create %s: %w", link.Code, err)
	}

	if tag.RowsAffected() == 0 {
		return links.ErrConflict
	}

	return nil
}

func (p *PostgresStore) Get(ctx context.Context, code links.Code) (*links.Link, error) {
	query := `
		SELECT code, url, clicks, created_at, last_clicked_at
		FROM links
		WHERE code = $1
	`

	link, err := scanPostgresLink(p.pool.QueryRow(ctx, query, string(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, links.ErrNotFound
		}

		return nil, fmt.Errorf("postgres get %s: %w", code, err)
	}

	return link, nil
}

func (p *PostgresStore) List(ctx context.Context) ([]links.Link, error) {
	query := `
		SELECT code, url, clicks, created_at, last_clicked_at
		FROM links
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres list: %w", err)
	}
	defer rows.Close()

	result := make([]links.Link, 0)

	for rows.Next() {
		link, err := scanPostgresLink(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres list: %w", err)
		}

		result = append(result, *link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres list: %w", err)
	}

	return result, nil
}

func (p *PostgresStore) Delete(ctx context.Context, code links.Code) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM links WHERE code = $1`, string(code))
	if err != nil {
		return fmt.Errorf("postgres delete %s: %w", code, err)
	}

	if tag.RowsAffected() == 0 {
		return links.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) IncrementClick(ctx context.Context, code links.Code, at time.Time) error {
	query := `
		UPDATE links
		SET clicks = clicks + 1, last_clicked_at = $2
		WHERE code = $1
	`

	tag, err := p.pool.Exec(ctx, query, string(code), at)
	if err != nil {
		return fmt.Errorf("postgres increment %s: %w", code, err)
	}

	if tag.RowsAffected() == 0 {
		return links.ErrNotFound
	}

	return nil
}

// Ping checks PostgreSQL connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Shutdown closes the connection pool.
func (p *PostgresStore) Shutdown() error {
	p.pool.Close()

	return nil
}

func scanPostgresLink(row pgx.Row) (*links.Link, error) {
	var (
		link          links.Link
		code          string
		lastClickedAt *time.Time
	)

	if err := row.Scan(&code, &link.URL, &link.Clicks, &link.CreatedAt, &lastClickedAt); err != nil {
		return nil, err
	}

	link.Code = links.Code(code)
	link.LastClickedAt = lastClickedAt

	return &link, nil
}

var _ Backend = (*PostgresStore)(nil)
