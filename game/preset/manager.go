package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/chessd/chessd/game/rules"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrInvalidPreset  = errors.New("invalid preset")
)

// Preset is a named starting position.
type Preset struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	FEN         string `json:"fen"`
}

// Info is the listing form of a preset.
type Info struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	FEN         string `json:"fen"`
}

// Manager handles preset loading and caching.
type Manager struct {
	dir     string
	presets map[string]*Preset
	mu      sync.RWMutex
}

// NewManager creates a preset manager over the given directory.
func NewManager(dir string) (*Manager, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("presets directory does not exist: %s", dir)
	}

	return &Manager{
		dir:     dir,
		presets: make(map[string]*Preset),
	}, nil
}

// Load returns the preset with the given name.
func (m *Manager) Load(name string) (*Preset, error) {
	m.mu.RLock()
	if p, exists := m.presets[name]; exists {
		m.mu.RUnlock()
		return p, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring the write lock.
	if p, exists := m.presets[name]; exists {
		return p, nil
	}

	p, err := m.loadFile(name)
	if err != nil {
		return nil, err
	}

	m.presets[name] = p
	return p, nil
}

func (m *Manager) loadFile(name string) (*Preset, error) {
	// Preset names map one-to-one to file names; reject anything that
	// could escape the presets directory.
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}

	data, err := os.ReadFile(filepath.Join(m.dir, name+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
		}
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}
	p.Name = name

	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks a preset for required fields and a playable FEN.
func Validate(p *Preset) error {
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidPreset)
	}
	if p.FEN == "" {
		return fmt.Errorf("%w: fen is required", ErrInvalidPreset)
	}
	if _, err := rules.FromFEN(p.FEN); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}
	return nil
}

// List returns every valid preset in the directory, sorted by name. Files
// that fail to load are skipped; the validate CLI reports them.
func (m *Manager) List() []*Info {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil
	}

	infos := []*Info{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		p, err := m.Load(name)
		if err != nil {
			continue
		}
		infos = append(infos, &Info{
			Name:        p.Name,
			Title:       p.Title,
			Description: p.Description,
			FEN:         p.FEN,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
