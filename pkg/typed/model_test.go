package typed_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/typed"
)

type Article struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Views int    `json:"views"`
}

type Author struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// memStore implements core.Store and core.Finder in memory.
type memStore struct {
	records map[string]core.Attributes
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]core.Attributes)}
}

func (s *memStore) key(kind string, pk any) string {
	return fmt.Sprintf("%s/%v", kind, pk)
}

func (s *memStore) Insert(ctx context.Context, m *core.Model) error {
	if m.IsNew() {
		m.SetPrimaryKey(fmt.Sprintf("r-%d", len(s.records)+1))
	}
	s.records[s.key(m.Kind(), m.PrimaryKey())] = m.All()
	return nil
}

func (s *memStore) Update(ctx context.Context, m *core.Model) error {
	k := s.key(m.Kind(), m.PrimaryKey())
	if _, ok := s.records[k]; !ok {
		return core.ErrNotFound
	}
	s.records[k] = m.All()
	return nil
}

func (s *memStore) Delete(ctx context.Context, m *core.Model) error {
	delete(s.records, s.key(m.Kind(), m.PrimaryKey()))
	return nil
}

func (s *memStore) Find(ctx context.Context, kind string, pk any) (*core.Model, error) {
	attrs, ok := s.records[s.key(kind, pk)]
	if !ok {
		return nil, core.ErrNotFound
	}
	return core.NewModel(kind, attrs), nil
}

func (s *memStore) List(ctx context.Context, kind, pattern string) ([]*core.Model, error) {
	var models []*core.Model
	for _, attrs := range s.records {
		models = append(models, core.NewModel(kind, attrs))
	}
	return models, nil
}

func TestTypedModel_SaveAndGet(t *testing.T) {
	store := newMemStore()
	repo := typed.NewRepository[Article]("article", store)
	ctx := context.Background()

	m, err := repo.New(Article{Title: "Generics in practice", Views: 3})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := m.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if m.Data.ID == "" {
		t.Fatal("store-assigned key must be decoded back into Data")
	}

	got, err := repo.Get(ctx, m.Data.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Data.Title != "Generics in practice" || got.Data.Views != 3 {
		t.Errorf("unexpected data: %+v", got.Data)
	}
}

func TestTypedModel_SaveRunsValidation(t *testing.T) {
	store := newMemStore()
	repo := typed.NewRepository[Article]("article", store,
		core.WithRules(core.Rules{"title": {"required"}}, nil, nil))

	m, err := repo.New(Article{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := m.Save(context.Background()); err == nil {
		t.Fatal("expected validation failure")
	}
	if m.Errors().Get("title") == "" {
		t.Error("field error must be recorded on the typed model")
	}
}

func TestTypedModel_Is(t *testing.T) {
	a1, _ := typed.New("article", Article{ID: "7"})
	a2, _ := typed.New("article", Article{ID: "7"})
	a3, _ := typed.New("article", Article{ID: "8"})
	b, _ := typed.New("article", Author{ID: "7"})

	if !a1.Is(a2) {
		t.Error("same type and key must match")
	}
	if a1.Is(a3) {
		t.Error("different key must not match")
	}
	if a1.Is(b) {
		t.Error("different concrete type must not match, even with equal keys")
	}
	if a1.Is(nil) {
		t.Error("nil must not match")
	}
}

func TestTypedRepository_List(t *testing.T) {
	store := newMemStore()
	repo := typed.NewRepository[Article]("article", store)
	ctx := context.Background()

	for _, title := range []string{"One", "Two"} {
		m, _ := repo.New(Article{Title: title})
		if err := m.Save(ctx); err != nil {
			t.Fatal(err)
		}
	}

	all, err := repo.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 records, got %d", len(all))
	}
}

func TestTypedRepository_Delete(t *testing.T) {
	store := newMemStore()
	repo := typed.NewRepository[Article]("article", store)
	ctx := context.Background()

	m, _ := repo.New(Article{Title: "bye"})
	if err := m.Save(ctx); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, m); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, m.Data.ID); err == nil {
		t.Error("deleted record must not be retrievable")
	}
}
