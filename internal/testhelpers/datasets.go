package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// Datasets maps file names (e.g. "DENVER.csv") to CSV content.
type Datasets map[string]string

// WriteDataDir creates a temporary data directory holding the given files and returns its path.
func WriteDataDir(t testing.TB, files Datasets) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		WriteFile(t, dir, name, content)
	}
	return dir
}

// WriteFile writes content to dir/name, creating parent directories as needed.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// YearlyCSV is a small well-formed dataset: Year=[2000,2001,2002], Temperature=[10,11,9].
const YearlyCSV = "Year,Temperature\n2000,10.0\n2001,11.0\n2002,9.0\n"
