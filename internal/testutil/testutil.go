package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteStringToTempFile writes content to name inside a fresh temp dir that
// is removed with the test, and returns the file path.
func WriteStringToTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
