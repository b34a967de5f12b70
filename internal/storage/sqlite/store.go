package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/tjfontaine/apicore/internal/storage"
	"github.com/tjfontaine/apicore/pkg/apiclient"
	"github.com/tjfontaine/apicore/pkg/apiclient/apierr"
)

// Store is a SQLite implementation of ExchangeStore
type Store struct {
	db *sqlx.DB
}

var _ storage.ExchangeStore = (*Store)(nil)

// New creates a new SQLite store
func New(dbPath string) (*Store, error) {
	if dir := parentDir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// parentDir returns the directory a plain database file lives in, or "" for
// in-memory and URI paths.
func parentDir(dbPath string) string {
	if dbPath == "" || dbPath == ":memory:" || strings.HasPrefix(dbPath, "file:") {
		return ""
	}
	dir := filepath.Dir(dbPath)
	if dir == "." {
		return ""
	}
	return dir
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS exchanges (
			id TEXT PRIMARY KEY,
			method TEXT NOT NULL,
			target TEXT NOT NULL,
			status_code INTEGER NOT NULL DEFAULT 0,
			kind TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			duration_ns INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exchanges_kind ON exchanges(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_exchanges_created ON exchanges(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}

// exchangeRow is the column mapping of the exchanges table.
type exchangeRow struct {
	ID         string    `db:"id"`
	Method     string    `db:"method"`
	Target     string    `db:"target"`
	StatusCode int       `db:"status_code"`
	Kind       string    `db:"kind"`
	Message    string    `db:"message"`
	DurationNS int64     `db:"duration_ns"`
	CreatedAt  time.Time `db:"created_at"`
}

func toRow(rec apiclient.ExchangeRecord) exchangeRow {
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return exchangeRow{
		ID:         rec.ID,
		Method:     string(rec.Method),
		Target:     rec.Target,
		StatusCode: rec.StatusCode,
		Kind:       string(rec.Kind),
		Message:    rec.Message,
		DurationNS: int64(rec.Duration),
		CreatedAt:  created.UTC(),
	}
}

func (r exchangeRow) record() *apiclient.ExchangeRecord {
	return &apiclient.ExchangeRecord{
		ID:         r.ID,
		Method:     apiclient.Method(r.Method),
		Target:     r.Target,
		StatusCode: r.StatusCode,
		Kind:       apierr.Kind(r.Kind),
		Message:    r.Message,
		Duration:   time.Duration(r.DurationNS),
		CreatedAt:  r.CreatedAt.UTC(),
	}
}

func (s *Store) RecordExchange(ctx context.Context, rec apiclient.ExchangeRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("exchange record has no id")
	}

	query := `INSERT INTO exchanges (id, method, target, status_code, kind, message, duration_ns, created_at)
		VALUES (:id, :method, :target, :status_code, :kind, :message, :duration_ns, :created_at)`

	if _, err := s.db.NamedExecContext(ctx, query, toRow(rec)); err != nil {
		return fmt.Errorf("failed to insert exchange: %w", err)
	}
	return nil
}

func (s *Store) GetExchange(ctx context.Context, id string) (*apiclient.ExchangeRecord, error) {
	var row exchangeRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM exchanges WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("exchange %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange: %w", err)
	}
	return row.record(), nil
}

func (s *Store) ListExchanges(ctx context.Context, opts storage.ListOptions) ([]*apiclient.ExchangeRecord, error) {
	var (
		where []string
		args  []any
	)
	if opts.FailedOnly {
		where = append(where, "kind <> ''")
	}
	if opts.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(opts.Kind))
	}

	query := `SELECT * FROM exchanges`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, max(opts.Offset, 0))

	var rows []exchangeRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list exchanges: %w", err)
	}

	result := make([]*apiclient.ExchangeRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.record())
	}
	return result, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
