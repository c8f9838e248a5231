package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/serroba/tinylink/internal/links"
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS links (
		code            TEXT PRIMARY KEY,
		url             TEXT NOT NULL,
		clicks          INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL,
		last_clicked_at TEXT
	)
`

// SQLiteStore is a SQLite (or libSQL) implementation of links.Repository.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens dsn, creating the links table if missing. DSNs
// starting with libsql:// or wss:// use the libSQL driver, anything else
// is a local SQLite file.
func OpenSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	driverName := "sqlite"
	if strings.HasPrefix(dsn, "libsql://") || strings.HasPrefix(dsn, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}

	if driverName == "sqlite" {
		// A single writer avoids SQLITE_BUSY under concurrent redirects.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driverName, err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, link *links.Link) error {
	query := `
		INSERT INTO links (code, url, clicks, created_at)
		VALUES (?, ?, 0, ?)
		ON CONFLICT (code) DO NOTHING
	`

	res, err := s.db.ExecContext(ctx, query, string(link.Code), link.URL, formatTime(link.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlite create %s: %w", link.Code, err)
	}

	return requireAffected(res, links.ErrConflict)
}

func (s *SQLiteStore) Get(ctx context.Context, code links.Code) (*links.Link, error) {
	query := `
		SELECT code, url, clicks, created_at, last_clicked_at
		FROM links
		WHERE code = ?
	`

	link, err := scanSQLiteLink(s.db.QueryRowContext(ctx, query, string(code)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, links.ErrNotFound
		}

		return nil, fmt.Errorf("sqlite get %s: %w", code, err)
	}

	return link, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]links.Link, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, url, clicks, created_at, last_clicked_at FROM links`)
	if err != nil {
		return nil, fmt.Errorf("sqlite list: %w", err)
	}
	defer rows.Close()

	result := make([]links.Link, 0)

	for rows.Next() {
		link, err := scanSQLiteLink(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite list: %w", err)
		}

		result = append(result, *link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite list: %w", err)
	}

	return result, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, code links.Code) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM links WHERE code = ?`, string(code))
	if err != nil {
		return fmt.Errorf("sqlite delete %s: %w", code, err)
	}

	return requireAffected(res, links.ErrNotFound)
}

func (s *SQLiteStore) IncrementClick(ctx context.Context, code links.Code, at time.Time) error {
	query := `
		UPDATE links
		SET clicks = clicks + 1, last_clicked_at = ?
		WHERE code = ?
	`

	res, err := s.db.ExecContext(ctx, query, formatTime(at), string(code))
	if err != nil {
		return fmt.Errorf("sqlite increment %s: %w", code, err)
	}

	return requireAffected(res, links.ErrNotFound)
}

// Ping checks database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Shutdown closes the database handle.
func (s *SQLiteStore) Shutdown() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteLink(row rowScanner) (*links.Link, error) {
	var (
		code, url, createdAt string
		clicks               int64
		lastClickedAt        sql.NullString
	)

	if err := row.Scan(&code, &url, &clicks, &createdAt, &lastClickedAt); err != nil {
		return nil, err
	}

	created, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("decode created_at of %s: %w", code, err)
	}

	link := &links.Link{
		Code:      links.Code(code),
		URL:       url,
		Clicks:    clicks,
		CreatedAt: created,
	}

	if lastClickedAt.Valid && lastClickedAt.String != "" {
		at, err := parseTime(lastClickedAt.String)
		if err != nil {
			return nil, fmt.Errorf("decode last_clicked_at of %s: %w", code, err)
		}

		link.LastClickedAt = &at
	}

	return link, nil
}

func requireAffected(res sql.Result, errNone error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return errNone
	}

	return nil
}

var _ Backend = (*SQLiteStore)(nil)
