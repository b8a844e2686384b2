// Package sqlite persists records in a single-file SQLite database.
// It trades the filesystem adapter's human-editable documents for
// transactional writes and zero-setup embedded storage.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/aretw0/marl/pkg/core"
)

// Store implements the model persistence extension points on SQLite.
// Every record is one row in the records table, with attributes stored
// as a JSON document.
type Store struct {
	Path   string
	config Config

	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// Config holds the configuration for the SQLite store.
type Config struct {
	// Path is the database file, or ":memory:" for an in-memory database.
	Path     string
	ReadOnly bool
	// GenerateIDs assigns a UUID primary key on insert when the model has none.
	GenerateIDs bool
	Logger      *slog.Logger
}

// NewStore creates a SQLite-backed store. The database is opened lazily by
// Initialize.
func NewStore(config Config) *Store {
	return &Store{
		Path:   config.Path,
		config: config,
	}
}

// Initialize opens the database, applies the pragmas and migrates the schema.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; keep one connection alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS records (
			kind       TEXT NOT NULL,
			pk         TEXT NOT NULL,
			attrs      TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (kind, pk)
		)
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to create records table: %w", err)
	}
	if _, err := db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind)"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to create kind index: %w", err)
	}

	s.db = db
	return nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil || s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Insert persists a new model, assigning a UUID primary key when configured
// and the model has none. Fails with core.ErrConflict if the record exists.
func (s *Store) Insert(ctx context.Context, m *core.Model) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	db, err := s.conn()
	if err != nil {
		return err
	}

	if m.IsNew() {
		if !s.config.GenerateIDs {
			return fmt.Errorf("cannot insert %s without a primary key", m.Kind())
		}
		m.SetPrimaryKey(uuid.NewString())
	}

	pk := fmt.Sprintf("%v", m.PrimaryKey())
	attrs, err := json.Marshal(m.All())
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	now := time.Now().UTC()
	_, err = db.ExecContext(ctx,
		"INSERT INTO records (kind, pk, attrs, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		m.Kind(), pk, string(attrs), now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s %s: %w", m.Kind(), pk, core.ErrConflict)
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}

	if s.config.Logger != nil {
		s.config.Logger.Debug("inserted record", "kind", m.Kind(), "pk", pk)
	}
	return nil
}

// Update writes the record whether or not it already exists. A model that
// carries a primary key names its own row, so an update of a record that was
// never inserted simply creates it.
func (s *Store) Update(ctx context.Context, m *core.Model) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	db, err := s.conn()
	if err != nil {
		return err
	}

	pk := fmt.Sprintf("%v", m.PrimaryKey())
	attrs, err := json.Marshal(m.All())
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	now := time.Now().UTC()
	_, err = db.ExecContext(ctx,
		`INSERT INTO records (kind, pk, attrs, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (kind, pk) DO UPDATE SET attrs = excluded.attrs, updated_at = excluded.updated_at`,
		m.Kind(), pk, string(attrs), now, now)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	return nil
}

// Delete removes a record row.
func (s *Store) Delete(ctx context.Context, m *core.Model) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	db, err := s.conn()
	if err != nil {
		return err
	}

	pk := fmt.Sprintf("%v", m.PrimaryKey())
	res, err := db.ExecContext(ctx,
		"DELETE FROM records WHERE kind = ? AND pk = ?", m.Kind(), pk)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", m.Kind(), pk, core.ErrNotFound)
	}

	if s.config.Logger != nil {
		s.config.Logger.Debug("deleted record", "kind", m.Kind(), "pk", pk)
	}
	return nil
}

// Find retrieves a model of the given kind by primary key.
func (s *Store) Find(ctx context.Context, kind string, pk any) (*core.Model, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%v", pk)
	var raw string
	err = db.QueryRowContext(ctx,
		"SELECT attrs FROM records WHERE kind = ? AND pk = ?", kind, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", kind, key, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	attrs := make(core.Attributes)
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		return nil, fmt.Errorf("failed to parse record %s/%s: %w", kind, key, err)
	}

	m := core.NewModel(kind, attrs)
	if m.IsNew() {
		// The row key is authoritative for the primary key.
		m.SetPrimaryKey(key)
	}
	return m, nil
}

// List returns all models of a kind whose primary key matches the glob
// pattern. An empty pattern matches everything.
func (s *Store) List(ctx context.Context, kind, pattern string) ([]*core.Model, error) {
	keys, err := s.Keys(ctx, kind, pattern)
	if err != nil {
		return nil, err
	}

	models := make([]*core.Model, 0, len(keys))
	for _, pk := range keys {
		m, err := s.Find(ctx, kind, pk)
		if err != nil {
			if s.config.Logger != nil {
				s.config.Logger.Warn("failed to load record during list", "kind", kind, "pk", pk, "error", err)
			}
			continue
		}
		models = append(models, m)
	}
	return models, nil
}

// Keys returns the primary keys of a kind matching the glob pattern, in
// sorted order.
func (s *Store) Keys(ctx context.Context, kind, pattern string) ([]string, error) {
	if pattern != "" {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern: %s", pattern)
		}
	}
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT pk FROM records WHERE kind = ?", kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var pk string
		if err := rows.Scan(&pk); err != nil {
			return nil, err
		}
		if pattern != "" {
			if ok, _ := doublestar.Match(pattern, pk); !ok {
				continue
			}
		}
		keys = append(keys, pk)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Strings(keys)
	return keys, nil
}

func (s *Store) conn() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	if s.closed {
		return nil, errors.New("store is closed")
	}
	return s.db, nil
}

// isUniqueViolation detects primary key conflicts without depending on the
// driver's error types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint violation")
}

var _ core.Store = (*Store)(nil)
var _ core.Finder = (*Store)(nil)
var _ core.Initializer = (*Store)(nil)
