package merge

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.MergeThreshold != 1024 {
		t.Errorf("MergeThreshold = %d, want 1024", s.MergeThreshold)
	}
	if s.ClipperScale != 1e6 {
		t.Errorf("ClipperScale = %v, want 1e6", s.ClipperScale)
	}
	if s.CleanPolygonPoints || s.CheckPropertyDiff || s.IgnoreTinySolid || s.IgnoreTinyHoles {
		t.Error("all feature flags must default to false")
	}
	if s.TinySolidArea != 0 || s.TinyHolesArea != 0 || s.CleanPointDist != 0 {
		t.Error("all thresholds must default to zero")
	}
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(dir, "settings.yaml")
		content := "checkPropertyDiff: true\ntinyHolesArea: 2.5\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		s, err := LoadSettings(path)
		if err != nil {
			t.Fatalf("LoadSettings: %v", err)
		}
		if !s.CheckPropertyDiff {
			t.Error("checkPropertyDiff not loaded")
		}
		if s.TinyHolesArea != 2.5 {
			t.Errorf("tinyHolesArea = %v, want 2.5", s.TinyHolesArea)
		}
		if s.MergeThreshold != 1024 {
			t.Errorf("unset mergeThreshold = %d, want default 1024", s.MergeThreshold)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadSettings(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("negative threshold rejected", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte("tinySolidArea: -1\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadSettings(path); err == nil {
			t.Error("expected error for negative threshold")
		}
	})

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(dir, "rt.yaml")
		want := DefaultSettings()
		want.CleanPolygonPoints = true
		want.CleanPointDist = 0.25
		want.Threads = 4

		if err := SaveSettings(path, &want); err != nil {
			t.Fatalf("SaveSettings: %v", err)
		}
		got, err := LoadSettings(path)
		if err != nil {
			t.Fatalf("LoadSettings: %v", err)
		}
		if *got != want {
			t.Errorf("round trip mismatch: %+v != %+v", *got, want)
		}
	})
}
