package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindRoot walks upwards from startDir looking for a content root indicator:
// a .marl directory or a marl.yaml file. Returns the absolute path of the
// first directory carrying one.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ".marl") || hasFile(dir, "marl.yaml") {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
