package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"studyhub/internal/models"
)

// MemoryPath keeps the journal in process memory only.
const MemoryPath = ":memory:"

// DefaultListLimit caps ListActivity when no limit is given.
const DefaultListLimit = 100

// ErrActivityNotFound is returned by GetActivity for unknown ids.
var ErrActivityNotFound = errors.New("activity not found")

// Store is the activity journal: an append-only log of the mutations applied
// to the in-memory stores. It never holds record state itself.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open initializes the journal database and runs the required migrations.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single connection also keeps a :memory: database alive.
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{db: conn, logger: logger}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.Debug("activity journal ready", slog.String("path", dbPath))
	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureDir(dbPath string) error {
	if dbPath == MemoryPath {
		return nil
	}
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS activity (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            store TEXT NOT NULL,
            action TEXT NOT NULL,
            record_id TEXT NOT NULL DEFAULT '',
            summary TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE INDEX IF NOT EXISTS idx_activity_store ON activity(store);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// RecordActivity appends an entry to the journal.
func (s *Store) RecordActivity(ctx context.Context, a models.Activity) (models.Activity, error) {
	if strings.TrimSpace(a.Store) == "" || strings.TrimSpace(a.Action) == "" {
		return models.Activity{}, fmt.Errorf("activity store and action must not be empty")
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO activity(store, action, record_id, summary) VALUES(?, ?, ?, ?)`,
		a.Store, a.Action, a.RecordID, a.Summary)
	if err != nil {
		return models.Activity{}, fmt.Errorf("insert activity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Activity{}, fmt.Errorf("activity id: %w", err)
	}
	return s.GetActivity(ctx, id)
}

// GetActivity fetches a single journal entry.
func (s *Store) GetActivity(ctx context.Context, id int64) (models.Activity, error) {
	var a models.Activity
	err := s.db.QueryRowContext(ctx, `SELECT id, store, action, record_id, summary, created_at FROM activity WHERE id = ?`, id).
		Scan(&a.ID, &a.Store, &a.Action, &a.RecordID, &a.Summary, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Activity{}, ErrActivityNotFound
	}
	if err != nil {
		return models.Activity{}, fmt.Errorf("get activity: %w", err)
	}
	return a, nil
}

// ListActivity returns the newest entries first. An empty store filter
// matches every store; limit <= 0 means DefaultListLimit.
func (s *Store) ListActivity(ctx context.Context, store string, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT id, store, action, record_id, summary, created_at FROM activity`
	args := []any{}
	if store != "" {
		query += ` WHERE store = ?`
		args = append(args, store)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.Store, &a.Action, &a.RecordID, &a.Summary, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
