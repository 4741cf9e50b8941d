package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/Tap30/ripple-analytics-go/adapters/migrations"
)

// SQLiteStorageAdapter stores records and preferences in one SQLite database.
type SQLiteStorageAdapter struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var (
	_ StorageAdapter     = (*SQLiteStorageAdapter)(nil)
	_ PreferencesAdapter = (*SQLiteStorageAdapter)(nil)
)

// OpenSQLiteStorageAdapter opens the database at path and applies migrations.
func OpenSQLiteStorageAdapter(path string) (*SQLiteStorageAdapter, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection serializes writers on the device database.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return newSQLiteStorageAdapter(db), nil
}

func newSQLiteStorageAdapter(db *sql.DB) *SQLiteStorageAdapter {
	return &SQLiteStorageAdapter{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// Insert appends one record.
func (s *SQLiteStorageAdapter) Insert(ctx context.Context, record Record) error {
	query, args, err := s.sb.Insert("events").
		Columns("event_id", "payload", "size", "created_at").
		Values(record.EventID, string(record.Payload), record.Size(), record.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// List returns stored records oldest first.
func (s *SQLiteStorageAdapter) List(ctx context.Context, limit int) ([]Record, error) {
	builder := s.sb.Select("id", "event_id", "payload", "created_at").
		From("events").
		OrderBy("id ASC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var (
			r       Record
			payload string
		)
		if err := rows.Scan(&r.ID, &r.EventID, &payload, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		r.Payload = []byte(payload)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return records, nil
}

// Delete removes the records with the given ids.
func (s *SQLiteStorageAdapter) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := s.sb.Delete("events").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete events: %w", err)
	}
	return nil
}

// Size returns the total payload bytes stored.
func (s *SQLiteStorageAdapter) Size(ctx context.Context) (int64, error) {
	query, args, err := s.sb.Select("COALESCE(SUM(size), 0)").From("events").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build size: %w", err)
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("size events: %w", err)
	}
	return total, nil
}

// GetString reads a preference value.
func (s *SQLiteStorageAdapter) GetString(key string) (string, bool, error) {
	query, args, err := s.sb.Select("value").From("preferences").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build preference get: %w", err)
	}
	var value string
	err = s.db.QueryRow(query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference: %w", err)
	}
	return value, true, nil
}

// PutString upserts a preference value.
func (s *SQLiteStorageAdapter) PutString(key, value string) error {
	query, args, err := s.sb.Insert("preferences").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return fmt.Errorf("build preference put: %w", err)
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("put preference: %w", err)
	}
	return nil
}

// Remove deletes a preference.
func (s *SQLiteStorageAdapter) Remove(key string) error {
	query, args, err := s.sb.Delete("preferences").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("build preference remove: %w", err)
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("remove preference: %w", err)
	}
	return nil
}

// Close releases the SQLite connection.
func (s *SQLiteStorageAdapter) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
