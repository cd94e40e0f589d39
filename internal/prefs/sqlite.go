package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/stagehand-games/stagehand/pkg/save"
)

// SQLite implements save.PrefStore on a local SQLite file.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ save.PrefStore = (*SQLite)(nil)

// OpenSQLite opens (and if needed creates) the store at path.
func OpenSQLite(path string, logger *slog.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS prefs (
			name  TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create prefs table: %w", err)
	}

	logger.Debug("sqlite store opened", "path", path)
	return &SQLite{db: db, logger: logger}, nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, name string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM prefs WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Debug("sqlite key not found", "key", name)
		return "", nil
	}
	if err != nil {
		s.logger.Error("sqlite get failed", "key", name, "error", err)
		return "", fmt.Errorf("sqlite get failed: %w", err)
	}
	return value, nil
}

func (s *SQLite) Set(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prefs (name, value) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		name, value)
	if err != nil {
		s.logger.Error("sqlite set failed", "key", name, "error", err)
		return fmt.Errorf("sqlite set failed: %w", err)
	}
	s.logger.Debug("sqlite SET successful", "key", name, "value_length", len(value))
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
