package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.json", `{"title": "Good", "fen": "8/8/4k3/8/8/8/8/R3K3 w - - 0 1"}`)
	writeFile(t, dir, "bad-json.json", `{`)
	writeFile(t, dir, "bad-fen.json", `{"title": "Broken", "fen": "garbage"}`)
	writeFile(t, dir, "no-title.json", `{"fen": "8/8/4k3/8/8/8/8/R3K3 w - - 0 1"}`)
	writeFile(t, dir, "ignored.txt", "not a preset")

	results, err := validateDir(dir)
	if err != nil {
		t.Fatalf("validateDir failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	byFile := make(map[string]ValidationResult)
	for _, r := range results {
		byFile[r.File] = r
	}

	if !byFile["good.json"].Valid {
		t.Errorf("good.json should be valid: %s", byFile["good.json"].Error)
	}
	for _, file := range []string{"bad-json.json", "bad-fen.json", "no-title.json"} {
		r := byFile[file]
		if r.Valid {
			t.Errorf("%s should be invalid", file)
		}
		if r.Error == "" {
			t.Errorf("%s should carry an error message", file)
		}
	}
}

func TestValidateDirMissing(t *testing.T) {
	if _, err := validateDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestValidateDirSorted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zeta.json", `{"title": "Z", "fen": "8/8/4k3/8/8/8/8/R3K3 w - - 0 1"}`)
	writeFile(t, dir, "alpha.json", `{"title": "A", "fen": "8/8/4k3/8/8/8/8/R3K3 w - - 0 1"}`)

	results, err := validateDir(dir)
	if err != nil {
		t.Fatalf("validateDir failed: %v", err)
	}
	if results[0].File != "alpha.json" || results[1].File != "zeta.json" {
		t.Errorf("results not sorted: %s, %s", results[0].File, results[1].File)
	}
}
