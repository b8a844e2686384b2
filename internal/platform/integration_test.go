package platform_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/marl"
	"github.com/aretw0/marl/pkg/config"
	"github.com/aretw0/marl/pkg/core"
)

func setupService(t *testing.T, opts ...marl.Option) (*core.Service, string) {
	t.Helper()
	tmpDir := filepath.Join(t.TempDir(), "content")

	service, err := marl.New(tmpDir, opts...)
	if err != nil {
		t.Fatalf("Failed to init service: %v", err)
	}
	return service, tmpDir
}

func TestService_SaveFind(t *testing.T) {
	service, tmpDir := setupService(t)
	ctx := context.Background()

	m := service.NewModel("page", marl.Attributes{
		"id":      "home",
		"title":   "Home",
		"content": "# Welcome",
	})
	if err := service.SaveModel(ctx, m); err != nil {
		t.Fatalf("SaveModel failed: %v", err)
	}

	expectedPath := filepath.Join(tmpDir, "page", "home.md")
	if _, err := os.Stat(expectedPath); os.IsNotExist(err) {
		t.Errorf("record was not created at %s", expectedPath)
	}

	found, err := service.FindModel(ctx, "page", "home")
	if err != nil {
		t.Fatalf("FindModel failed: %v", err)
	}
	if found.GetString("title") != "Home" {
		t.Errorf("expected title 'Home', got %v", found.Get("title"))
	}
	if !found.Is(m) {
		t.Error("expected found model to be the same entity")
	}
}

func TestService_DeleteList(t *testing.T) {
	service, tmpDir := setupService(t)
	ctx := context.Background()

	for _, id := range []string{"one", "two", "three"} {
		m := service.NewModel("note", marl.Attributes{"id": id})
		if err := service.SaveModel(ctx, m); err != nil {
			t.Fatalf("SaveModel %s failed: %v", id, err)
		}
	}

	list, err := service.ListModels(ctx, "note", "")
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("expected 3 records, got %d", len(list))
	}

	m, err := service.FindModel(ctx, "note", "two")
	if err != nil {
		t.Fatalf("FindModel failed: %v", err)
	}
	if err := service.DeleteModel(ctx, m); err != nil {
		t.Fatalf("DeleteModel failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "note", "two.md")); !os.IsNotExist(err) {
		t.Error("note/two.md still exists after delete")
	}

	list, err = service.ListModels(ctx, "note", "")
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 records after delete, got %d", len(list))
	}
}

func TestService_MustExist(t *testing.T) {
	nonExistent := filepath.Join(t.TempDir(), "does-not-exist")

	if _, err := marl.New(nonExistent, marl.WithMustExist(true)); err == nil {
		t.Error("expected New to fail with MustExist for a non-existent path")
	}
}

func TestService_SQLiteAdapter(t *testing.T) {
	service, err := marl.New(":memory:",
		marl.WithAdapter("sqlite"),
		marl.WithGenerateIDs(true),
	)
	if err != nil {
		t.Fatalf("Failed to init sqlite service: %v", err)
	}
	ctx := context.Background()

	m := service.NewModel("post", marl.Attributes{"title": "First"})
	if err := service.SaveModel(ctx, m); err != nil {
		t.Fatalf("SaveModel failed: %v", err)
	}
	if m.IsNew() {
		t.Fatal("expected a generated primary key")
	}

	found, err := service.FindModel(ctx, "post", m.PrimaryKey())
	if err != nil {
		t.Fatalf("FindModel failed: %v", err)
	}
	if found.GetString("title") != "First" {
		t.Errorf("expected title 'First', got %v", found.Get("title"))
	}
}

func TestService_UnknownAdapter(t *testing.T) {
	if _, err := marl.New("x", marl.WithAdapter("carrier-pigeon")); err == nil {
		t.Error("expected unknown adapter error")
	}
}

func TestService_ConfigFile(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "marl.yaml")
	cfgYAML := "model:\n  primary_key: slug\n  timestamps:\n    created: created_at\n    modified: updated_at\n"
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0644); err != nil {
		t.Fatal(err)
	}

	service, err := marl.New(filepath.Join(tmp, "content"), marl.WithConfigFile(cfgPath))
	if err != nil {
		t.Fatalf("Failed to init service: %v", err)
	}

	m := service.NewModel("page", marl.Attributes{"slug": "home"})
	if m.PrimaryKeyName() != "slug" {
		t.Errorf("expected configured primary key name, got %s", m.PrimaryKeyName())
	}
	if m.IsNew() {
		t.Error("expected model with slug to not be new")
	}
}

func TestService_InjectedStore(t *testing.T) {
	cfg := config.Default()
	service, err := marl.New("", marl.WithStore(core.NopStore{}), marl.WithConfig(cfg))
	if err != nil {
		t.Fatalf("Failed to init service: %v", err)
	}

	m := service.NewModel("page", marl.Attributes{"id": "home"})
	if err := service.SaveModel(context.Background(), m); err != nil {
		t.Errorf("expected no-op save to succeed, got %v", err)
	}

	if _, err := service.FindModel(context.Background(), "page", "home"); err == nil {
		t.Error("expected FindModel to fail on a store without retrieval")
	}
}

func TestService_TypedRepository(t *testing.T) {
	type Article struct {
		ID    string `json:"id,omitempty"`
		Title string `json:"title"`
	}

	repo, err := marl.OpenRepository[Article](filepath.Join(t.TempDir(), "content"), "article",
		marl.WithGenerateIDs(true),
	)
	if err != nil {
		t.Fatalf("OpenRepository failed: %v", err)
	}
	ctx := context.Background()

	m, err := repo.New(Article{Title: "Hello"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := repo.Save(ctx, m); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if m.Data.ID == "" {
		t.Fatal("expected generated id to be decoded back")
	}

	got, err := repo.Get(ctx, m.Data.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Data.Title != "Hello" {
		t.Errorf("expected title 'Hello', got %q", got.Data.Title)
	}
}

func TestService_FindMissing(t *testing.T) {
	service, _ := setupService(t)

	_, err := service.FindModel(context.Background(), "page", "ghost")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
