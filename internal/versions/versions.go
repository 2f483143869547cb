// Package versions records the upstream package versions captured at
// extraction time and turns raw store versions into pack versions.
//
// Store versions use four fields (x.y.zzww) where the third field
// folds the patch and build numbers together. Release packs surface
// x.y.(z/100); development packs keep the build as a fourth field,
// x.y.(z/100).(z%100).
package versions

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// File is the versions.json artifact.
type File struct {
	Timestamp string            `json:"timestamp"`
	Versions  map[string]string `json:"versions"`
}

// Write stores the captured versions with the current UTC timestamp.
func Write(path string, captured map[string]string) error {
	file := File{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Versions:  captured,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Read loads a versions.json artifact.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read versions file: %w", err)
	}
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &file, nil
}

// Get returns the captured version for a folder name.
func (f *File) Get(folder string) (string, bool) {
	v, ok := f.Versions[folder]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// FormatRelease converts a raw store version into a release pack
// version, e.g. 1.21.2301.0 becomes 1.21.23.
func FormatRelease(raw string) (string, error) {
	x, y, z, _, err := split(raw)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s.%d", x, y, z/100), nil
}

// FormatDev converts a raw store version into a development pack
// version, e.g. 1.21.2301.0 becomes 1.21.23.1.
func FormatDev(raw string) (string, error) {
	x, y, z, _, err := split(raw)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s.%d.%d", x, y, z/100, z%100), nil
}

func split(raw string) (x, y string, z int, w string, err error) {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) != 4 {
		return "", "", 0, "", fmt.Errorf("invalid store version %q (expected x.y.z.w)", raw)
	}
	z, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", "", 0, "", fmt.Errorf("invalid store version %q: %w", raw, err)
	}
	return parts[0], parts[1], z, parts[3], nil
}
