package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Derived.PlayW != 1024 || cfg.Derived.PlayH != 488 {
		t.Errorf("play area = %dx%d, want 1024x488", cfg.Derived.PlayW, cfg.Derived.PlayH)
	}
	if cfg.Derived.LevelW != 2048 || cfg.Derived.LevelH != 4096 {
		t.Errorf("level size = %dx%d, want 2048x4096", cfg.Derived.LevelW, cfg.Derived.LevelH)
	}
	if cfg.Derived.PlayTilesX != 16 || cfg.Derived.PlayTilesY != 8 {
		t.Errorf("play tiles = %dx%d, want 16x8", cfg.Derived.PlayTilesX, cfg.Derived.PlayTilesY)
	}
	if cfg.Collision.MaxIterations != 256 {
		t.Errorf("max_iterations = %d, want 256", cfg.Collision.MaxIterations)
	}
	if cfg.Projectile.BulletSpeed != 1200 || cfg.Projectile.BulletRange != 1024 {
		t.Errorf("bullet = %v/%v, want 1200/1024", cfg.Projectile.BulletSpeed, cfg.Projectile.BulletRange)
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("collision:\n  max_iterations: 32\nscreen:\n  hud_height: 88\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Collision.MaxIterations != 32 {
		t.Errorf("max_iterations = %d, want 32", cfg.Collision.MaxIterations)
	}
	// Untouched keys keep their defaults.
	if cfg.Collision.MinPush != 0.3 {
		t.Errorf("min_push = %v, want default 0.3", cfg.Collision.MinPush)
	}
	if cfg.Derived.PlayH != 512 {
		t.Errorf("play height = %d, want 512", cfg.Derived.PlayH)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero tile size", "level:\n  tile_size: 0\n"},
		{"hud covers screen", "screen:\n  hud_height: 600\n"},
		{"zero iterations", "collision:\n  max_iterations: 0\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestArchetypeFallback(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	brute, ok := cfg.Archetype(1)
	if !ok || brute.Name != "brute" {
		t.Errorf("Archetype(1) = %q, %v; want brute, true", brute.Name, ok)
	}

	fallback, ok := cfg.Archetype(42)
	if ok {
		t.Error("unknown id should report ok=false")
	}
	if fallback.Name != cfg.Monster.Archetypes[0].Name {
		t.Errorf("fallback = %q, want first archetype", fallback.Name)
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Player.TimeMin = 0.25

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Player.TimeMin != 0.25 {
		t.Errorf("time_min = %v, want 0.25", again.Player.TimeMin)
	}
	if len(again.Monster.Archetypes) != len(cfg.Monster.Archetypes) {
		t.Errorf("archetypes = %d, want %d", len(again.Monster.Archetypes), len(cfg.Monster.Archetypes))
	}
}
