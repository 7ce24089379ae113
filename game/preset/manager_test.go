package preset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writePreset(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write preset fixture: %v", err)
	}
}

func TestNewManagerMissingDir(t *testing.T) {
	if _, err := NewManager(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing presets directory")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "rook-endgame", `{
		"title": "Rook Endgame",
		"description": "King and rook versus king.",
		"fen": "8/8/4k3/8/8/8/8/R3K3 w - - 0 1"
	}`)

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	p, err := m.Load("rook-endgame")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Name != "rook-endgame" {
		t.Errorf("got name %q, want %q", p.Name, "rook-endgame")
	}
	if p.Title != "Rook Endgame" {
		t.Errorf("got title %q, want %q", p.Title, "Rook Endgame")
	}
	if p.FEN != "8/8/4k3/8/8/8/8/R3K3 w - - 0 1" {
		t.Errorf("unexpected fen %q", p.FEN)
	}

	// Second load hits the cache and returns the same instance.
	again, err := m.Load("rook-endgame")
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if again != p {
		t.Error("expected cached preset instance")
	}
}

func TestLoadNotFound(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if _, err := m.Load("missing"); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("expected ErrPresetNotFound, got %v", err)
	}
}

func TestLoadRejectsPathTraversal(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	for _, name := range []string{"../etc/passwd", "a/b", ".hidden", ""} {
		if _, err := m.Load(name); !errors.Is(err, ErrPresetNotFound) {
			t.Errorf("name %q: expected ErrPresetNotFound, got %v", name, err)
		}
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "no-title", `{"fen": "8/8/4k3/8/8/8/8/R3K3 w - - 0 1"}`)
	writePreset(t, dir, "no-fen", `{"title": "Empty"}`)
	writePreset(t, dir, "bad-fen", `{"title": "Broken", "fen": "not a position"}`)
	writePreset(t, dir, "bad-json", `{`)

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	for _, name := range []string{"no-title", "no-fen", "bad-fen", "bad-json"} {
		if _, err := m.Load(name); !errors.Is(err, ErrInvalidPreset) {
			t.Errorf("preset %q: expected ErrInvalidPreset, got %v", name, err)
		}
	}
}

func TestListSkipsInvalidAndSorts(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "ruy-lopez", `{"title": "Ruy Lopez", "fen": "r1bqkbnr/pppp1ppp/2n5/1B2p3/4P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3"}`)
	writePreset(t, dir, "italian", `{"title": "Italian Game", "fen": "r1bqk1nr/pppp1ppp/2n5/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4"}`)
	writePreset(t, dir, "broken", `{"title": "Broken", "fen": "garbage"}`)

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	infos := m.List()
	if len(infos) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(infos))
	}
	if infos[0].Name != "italian" || infos[1].Name != "ruy-lopez" {
		t.Errorf("unexpected order: %s, %s", infos[0].Name, infos[1].Name)
	}
}

func TestListEmptyDir(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if infos := m.List(); infos == nil || len(infos) != 0 {
		t.Errorf("expected empty non-nil list, got %v", infos)
	}
}
