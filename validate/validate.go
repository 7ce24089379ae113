// Command validate checks preset files for structural problems before they
// are shipped: missing titles, missing or unplayable FEN positions, and
// broken JSON.
//
// Usage:
//
//	go run ./validate [presets-dir]
//
// The directory defaults to ./presets. The command exits non-zero when any
// preset fails validation.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chessd/chessd/game/preset"
)

// ValidationResult is the outcome for one preset file.
type ValidationResult struct {
	File  string
	Name  string
	Valid bool
	Error string
}

func main() {
	dir := "presets"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	results, err := validateDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		fmt.Printf("no preset files found in %s\n", dir)
		return
	}

	failures := 0
	for _, r := range results {
		if r.Valid {
			fmt.Printf("ok   %s\n", r.File)
		} else {
			fmt.Printf("FAIL %s: %s\n", r.File, r.Error)
			failures++
		}
	}
	fmt.Printf("%d presets checked, %d failed\n", len(results), failures)
	if failures > 0 {
		os.Exit(1)
	}
}

func validateDir(dir string) ([]ValidationResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var results []ValidationResult
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		results = append(results, validateFile(dir, entry.Name()))
	}

	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })
	return results, nil
}

func validateFile(dir, file string) ValidationResult {
	name := strings.TrimSuffix(file, ".json")
	result := ValidationResult{File: file, Name: name}

	data, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		result.Error = err.Error()
		return result
	}

	var p preset.Preset
	if err := json.Unmarshal(data, &p); err != nil {
		result.Error = fmt.Sprintf("invalid JSON: %v", err)
		return result
	}
	p.Name = name

	if err := preset.Validate(&p); err != nil {
		result.Error = err.Error()
		return result
	}

	result.Valid = true
	return result
}
