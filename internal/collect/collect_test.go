package collect

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestModulesListsSortedDirectoriesOnly(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"vanilla", "editor", "persona"} {
		if err := os.Mkdir(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	writeFile(t, filepath.Join(root, "stray.txt"), "not a module")

	names, err := Modules(root)
	if err != nil {
		t.Fatalf("modules: %v", err)
	}
	want := []string{"editor", "persona", "vanilla"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestModulesMissingRootFails(t *testing.T) {
	if _, err := Modules(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatalf("expected error for missing root")
	}
}

func TestSourcesKeepsExistingTablesInOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "vanilla", "en_US.json"), `{"a": "1"}`)
	writeFile(t, filepath.Join(root, "oreui", "en_US.json"), `{"b": "2"}`)
	writeFile(t, filepath.Join(root, "beta", "vanilla", "en_US.json"), `{"c": "3"}`)
	if err := os.Mkdir(filepath.Join(root, "persona"), 0o755); err != nil {
		t.Fatalf("mkdir persona: %v", err)
	}

	sources := Sources(root, []string{"vanilla", "oreui", "persona", "beta/vanilla"}, "en_US.json")
	wantModules := []string{"vanilla", "oreui", "beta/vanilla"}
	if len(sources) != len(wantModules) {
		t.Fatalf("expected %d sources, got %d", len(wantModules), len(sources))
	}
	for i, want := range wantModules {
		if sources[i].Module != want {
			t.Fatalf("source %d = %q, want %q", i, sources[i].Module, want)
		}
		if _, err := os.Stat(sources[i].Path); err != nil {
			t.Fatalf("stat %s: %v", sources[i].Path, err)
		}
	}
}

func TestSourcesEmptyForMissingLocale(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "vanilla", "en_US.json"), `{"a": "1"}`)
	if got := Sources(root, []string{"vanilla"}, "fr_FR.json"); len(got) != 0 {
		t.Fatalf("expected no sources, got %d", len(got))
	}
}
