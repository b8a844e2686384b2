package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/aretw0/marl/pkg/core"
)

// Store implements the model persistence extension points on the filesystem.
// Each record lives in its own document at {root}/{kind}/{pk}{ext}, with
// attributes serialized as frontmatter, YAML or JSON depending on extension.
type Store struct {
	Path   string
	config Config
	cache  *cache

	serializers map[string]Serializer

	mu            sync.RWMutex
	watcherActive bool
}

// Config holds the configuration for the filesystem store.
type Config struct {
	Path      string
	Extension string // record file extension, defaults to ".md"
	SystemDir string // hidden directory for the index cache, defaults to ".marl"
	MustExist bool
	ReadOnly  bool
	// GenerateIDs assigns a UUID primary key on insert when the model has none.
	// Without it, inserting a keyless model is an error since the key names the file.
	GenerateIDs bool
	Logger      *slog.Logger
}

// NewStore creates a new filesystem-backed store.
func NewStore(config Config) *Store {
	if config.Extension == "" {
		config.Extension = ".md"
	}
	if config.SystemDir == "" {
		config.SystemDir = ".marl"
	}
	return &Store{
		Path:        config.Path,
		config:      config,
		cache:       newCache(config.Path, config.SystemDir),
		serializers: DefaultSerializers(),
	}
}

// RegisterSerializer installs a custom serializer for an extension.
func (s *Store) RegisterSerializer(ext string, sz Serializer) {
	s.serializers[ext] = sz
}

// Initialize performs the necessary setup for the store (mkdir, cache dir).
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("store path does not exist: %s", s.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", s.Path)
		}
		return nil
	}
	if s.config.ReadOnly {
		return nil
	}
	if err := os.MkdirAll(filepath.Join(s.Path, s.config.SystemDir), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}

// Insert persists a new model, assigning a UUID primary key when configured
// and the model has none. Fails with core.ErrConflict if the record exists.
func (s *Store) Insert(ctx context.Context, m *core.Model) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if m.IsNew() {
		if !s.config.GenerateIDs {
			return fmt.Errorf("cannot insert %s without a primary key", m.Kind())
		}
		m.SetPrimaryKey(uuid.NewString())
	}

	fullPath, err := s.recordPath(m.Kind(), m.PrimaryKey())
	if err != nil {
		return err
	}
	if _, err := os.Stat(fullPath); err == nil {
		return fmt.Errorf("%s %v: %w", m.Kind(), m.PrimaryKey(), core.ErrConflict)
	}

	return s.write(fullPath, m)
}

// Update writes the record whether or not it already exists. A model that
// carries a primary key names its own file, so an update of a record that
// was never inserted simply creates it.
func (s *Store) Update(ctx context.Context, m *core.Model) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}

	fullPath, err := s.recordPath(m.Kind(), m.PrimaryKey())
	if err != nil {
		return err
	}
	return s.write(fullPath, m)
}

// Delete removes a record file.
func (s *Store) Delete(ctx context.Context, m *core.Model) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}

	fullPath, err := s.recordPath(m.Kind(), m.PrimaryKey())
	if err != nil {
		return err
	}
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("%s %v: %w", m.Kind(), m.PrimaryKey(), core.ErrNotFound)
	}

	if s.config.Logger != nil {
		s.config.Logger.Debug("deleting record", "kind", m.Kind(), "pk", m.PrimaryKey())
	}
	return os.Remove(fullPath)
}

// Find retrieves a model of the given kind by primary key.
func (s *Store) Find(ctx context.Context, kind string, pk any) (*core.Model, error) {
	fullPath, err := s.recordPath(kind, pk)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fullPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s %v: %w", kind, pk, core.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sz, err := s.serializer()
	if err != nil {
		return nil, err
	}
	attrs, err := sz.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse record %s/%v: %w", kind, pk, err)
	}

	m := core.NewModel(kind, attrs)
	if m.IsNew() {
		// The filename is authoritative for the primary key.
		m.SetPrimaryKey(fmt.Sprintf("%v", pk))
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
// sorted order. Unchanged files are resolved from the index cache without
// being parsed.
func (s *Store) Keys(ctx context.Context, kind, pattern string) ([]string, error) {
	if err := validateSegment(kind); err != nil {
		return nil, err
	}
	if pattern != "" {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern: %s", pattern)
		}
	}

	dir := filepath.Join(s.Path, kind)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read kind directory: %w", err)
	}

	if err := s.cache.Load(); err != nil && s.config.Logger != nil {
		s.config.Logger.Warn("failed to load cache", "error", err)
	}
	seen := make(map[string]bool)

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != s.config.Extension {
			continue
		}
		if strings.HasPrefix(entry.Name(), TempFilePrefix) {
			continue
		}

		pk := strings.TrimSuffix(entry.Name(), s.config.Extension)
		relPath := kind + "/" + entry.Name()
		seen[relPath] = true

		info, err := entry.Info()
		if err == nil {
			if _, hit := s.cache.Get(relPath, info.ModTime()); !hit {
				s.cache.Set(relPath, &indexEntry{
					Kind:         kind,
					PK:           pk,
					LastModified: info.ModTime(),
				})
			}
		}

		if pattern != "" {
			if ok, _ := doublestar.Match(pattern, pk); !ok {
				continue
			}
		}
		keys = append(keys, pk)
	}

	if !s.config.ReadOnly {
		s.cache.Prune(seen)
		if err := s.cache.Save(); err != nil && s.config.Logger != nil {
			s.config.Logger.Warn("failed to save cache", "error", err)
		}
	}

	sort.Strings(keys)
	return keys, nil
}

// write serializes the model attributes and writes them atomically.
func (s *Store) write(fullPath string, m *core.Model) error {
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	sz, err := s.serializer()
	if err != nil {
		return err
	}
	data, err := sz.Serialize(m.All())
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	if s.config.Logger != nil {
		s.config.Logger.Debug("writing record", "kind", m.Kind(), "pk", m.PrimaryKey(), "path", fullPath)
	}
	if err := writeFileAtomic(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

func (s *Store) serializer() (Serializer, error) {
	sz, ok := s.serializers[s.config.Extension]
	if !ok {
		return nil, fmt.Errorf("no serializer registered for %s", s.config.Extension)
	}
	return sz, nil
}

// recordPath resolves {root}/{kind}/{pk}{ext}, rejecting path traversal.
func (s *Store) recordPath(kind string, pk any) (string, error) {
	if err := validateSegment(kind); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%v", pk)
	if name == "" || name == "<nil>" {
		return "", fmt.Errorf("record of kind %s has no primary key", kind)
	}
	if err := validateSegment(name); err != nil {
		return "", err
	}
	return filepath.Join(s.Path, kind, name+s.config.Extension), nil
}

func validateSegment(seg string) error {
	if seg == "" {
		return fmt.Errorf("empty path segment")
	}
	if seg == "." || seg == ".." || strings.ContainsAny(seg, `/\`) {
		return fmt.Errorf("invalid path segment: %s", seg)
	}
	return nil
}

// resolveFromPath maps an absolute file path back to (kind, pk).
func (s *Store) resolveFromPath(path string) (kind, pk string, ok bool) {
	rel, err := filepath.Rel(s.Path, path)
	if err != nil {
		return "", "", false
	}
	rel = filepath.ToSlash(rel)
	parts := strings.Split(rel, "/")
	if len(parts) != 2 {
		return "", "", false
	}
	if parts[0] == s.config.SystemDir {
		return "", "", false
	}
	if filepath.Ext(parts[1]) != s.config.Extension {
		return "", "", false
	}
	return parts[0], strings.TrimSuffix(parts[1], s.config.Extension), true
}

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

var _ core.Store = (*Store)(nil)
var _ core.Finder = (*Store)(nil)
var _ core.Initializer = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
