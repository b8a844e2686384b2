package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindRoot(t *testing.T) {
	t.Run("Finds Marker Directory", func(t *testing.T) {
		tmp := t.TempDir()
		root := filepath.Join(tmp, "site")
		nested := filepath.Join(root, "content", "page")
		if err := os.MkdirAll(filepath.Join(root, ".marl"), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.MkdirAll(nested, 0755); err != nil {
			t.Fatal(err)
		}

		found, err := FindRoot(nested)
		if err != nil {
			t.Fatalf("FindRoot failed: %v", err)
		}
		if found != root {
			t.Errorf("expected %s, got %s", root, found)
		}
	})

	t.Run("Finds Config File", func(t *testing.T) {
		tmp := t.TempDir()
		if err := os.WriteFile(filepath.Join(tmp, "marl.yaml"), []byte("model:\n"), 0644); err != nil {
			t.Fatal(err)
		}

		found, err := FindRoot(tmp)
		if err != nil {
			t.Fatalf("FindRoot failed: %v", err)
		}
		if found != tmp {
			t.Errorf("expected %s, got %s", tmp, found)
		}
	})

	t.Run("Fails Without Marker", func(t *testing.T) {
		if _, err := FindRoot(t.TempDir()); err == nil {
			t.Error("expected FindRoot to fail without a marker")
		}
	})
}
