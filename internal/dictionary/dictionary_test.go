package dictionary

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	d, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(d.Skills.Categories) == 0 {
		t.Fatal("expected default skill categories")
	}

	all := d.AllSkills()
	if cat, ok := all["Go"]; !ok || cat != "programming" {
		t.Fatalf("expected Go in programming category, got %q (found=%v)", cat, ok)
	}

	if !d.HasLocation(RemoteLocation) {
		t.Fatal("expected Remote in default locations")
	}

	if !d.HasRole("Data Engineer") {
		t.Fatal("expected Data Engineer role")
	}

	senior, ok := d.LevelByName("Senior")
	if !ok {
		t.Fatal("expected Senior level")
	}
	if senior.Rank != 3 || senior.MinYears != 5 {
		t.Fatalf("unexpected Senior level: %+v", senior)
	}

	names := d.LevelNames()
	if len(names) == 0 || names[0] != "Junior" {
		t.Fatalf("expected Junior first in level names, got %v", names)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()

	custom := []byte("roles:\n  - Only Role\nlevels:\n  - name: Solo\n    rank: 1\n    min-years: 0\n")
	if err := os.WriteFile(filepath.Join(dir, "roles.yaml"), custom, 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !d.HasRole("Only Role") || d.HasRole("Developer") {
		t.Fatalf("expected roles overlay to win, got %v", d.Roles.Roles)
	}

	// Files not present in the directory still come from the defaults.
	if len(d.Skills.Categories) == 0 {
		t.Fatal("expected default skills alongside the roles overlay")
	}
}

func TestLoadRejectsUnknownAdjacency(t *testing.T) {
	dir := t.TempDir()

	bad := []byte("categories:\n  one:\n    - A\nadjacent:\n  - a: A\n    b: Missing\n    weight: 0.5\n")
	if err := os.WriteFile(filepath.Join(dir, "skills.yaml"), bad, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for adjacency referencing unknown skill")
	}
}
