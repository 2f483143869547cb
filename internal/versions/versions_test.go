package versions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "versions.json")

	captured := map[string]string{
		"release":     "1.21.2301.0",
		"development": "1.21.2422.1",
	}
	if err := Write(path, captured); err != nil {
		t.Fatalf("write versions: %v", err)
	}

	file, err := Read(path)
	if err != nil {
		t.Fatalf("read versions: %v", err)
	}
	if file.Versions["release"] != "1.21.2301.0" {
		t.Fatalf("release version = %q, want 1.21.2301.0", file.Versions["release"])
	}
	if file.Versions["development"] != "1.21.2422.1" {
		t.Fatalf("development version = %q, want 1.21.2422.1", file.Versions["development"])
	}

	stamp, err := time.Parse(time.RFC3339, file.Timestamp)
	if err != nil {
		t.Fatalf("timestamp %q is not RFC3339: %v", file.Timestamp, err)
	}
	if time.Since(stamp) > time.Minute {
		t.Fatalf("timestamp %q is stale", file.Timestamp)
	}
}

func TestWriteIndentsOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versions.json")
	if err := Write(path, map[string]string{"release": "1.0.0.0"}); err != nil {
		t.Fatalf("write versions: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "  \"timestamp\"") {
		t.Fatalf("output not indented:\n%s", data)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestGet(t *testing.T) {
	file := &File{Versions: map[string]string{"release": "1.21.2301.0", "empty": ""}}
	if v, ok := file.Get("release"); !ok || v != "1.21.2301.0" {
		t.Fatalf("Get(release) = %q, %v", v, ok)
	}
	if _, ok := file.Get("empty"); ok {
		t.Fatal("empty version should not be found")
	}
	if _, ok := file.Get("absent"); ok {
		t.Fatal("absent folder should not be found")
	}
}

func TestFormatRelease(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"1.21.2301.0", "1.21.23"},
		{"1.21.2400.25", "1.21.24"},
		{"1.20.0.1", "1.20.0"},
	}
	for _, tc := range cases {
		got, err := FormatRelease(tc.raw)
		if err != nil {
			t.Fatalf("FormatRelease(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("FormatRelease(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestFormatDev(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"1.21.2422.1", "1.21.24.22"},
		{"1.21.2400.25", "1.21.24.0"},
		{"1.20.3.1", "1.20.0.3"},
	}
	for _, tc := range cases {
		got, err := FormatDev(tc.raw)
		if err != nil {
			t.Fatalf("FormatDev(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("FormatDev(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestFormatRejectsMalformedVersions(t *testing.T) {
	for _, raw := range []string{"", "1.21", "1.21.2301", "1.21.abc.0", "1.21.2301.0.5"} {
		if _, err := FormatRelease(raw); err == nil {
			t.Fatalf("FormatRelease(%q) accepted malformed version", raw)
		}
		if _, err := FormatDev(raw); err == nil {
			t.Fatalf("FormatDev(%q) accepted malformed version", raw)
		}
	}
}
