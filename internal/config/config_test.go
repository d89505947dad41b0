package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Export.LayerHeight != 0.2 {
		t.Errorf("expected layer height 0.2, got %g", cfg.Export.LayerHeight)
	}
	if len(cfg.Export.Colors) != 2 {
		t.Fatalf("expected 2 default colors, got %d", len(cfg.Export.Colors))
	}
	if cfg.Export.Colors[0] != "#FF0000" || cfg.Export.Colors[1] != "#0000FF" {
		t.Errorf("unexpected default colors: %v", cfg.Export.Colors)
	}
	if cfg.Export.Tolerance != 0.01 {
		t.Errorf("expected tolerance 0.01, got %g", cfg.Export.Tolerance)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
export:
  layer_height: 0.28
  colors: ["#00FF00", "#FFFF00", "#FF00FF"]
  tolerance: 0.05

logging:
  level: "debug"
  log_file: "lamina.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Export.LayerHeight != 0.28 {
		t.Errorf("expected layer height 0.28, got %g", cfg.Export.LayerHeight)
	}
	if len(cfg.Export.Colors) != 3 {
		t.Fatalf("expected 3 colors, got %d", len(cfg.Export.Colors))
	}
	if cfg.Export.Colors[2] != "#FF00FF" {
		t.Errorf("expected third color #FF00FF, got %s", cfg.Export.Colors[2])
	}
	if cfg.Export.Tolerance != 0.05 {
		t.Errorf("expected tolerance 0.05, got %g", cfg.Export.Tolerance)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "lamina.log" {
		t.Errorf("expected log file 'lamina.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
export:
  layer_height: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error for explicit missing config path")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "lamina.yaml")
	if err := os.WriteFile(configPath, []byte("export:\n  layer_height: 0.3\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find lamina.yaml in current directory")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Export.LayerHeight = 0.12
	cfg.Export.Colors = []string{"#112233", "#445566"}

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, configPath); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}

	if loaded.Export.LayerHeight != 0.12 {
		t.Errorf("expected layer height 0.12, got %g", loaded.Export.LayerHeight)
	}
	if len(loaded.Export.Colors) != 2 || loaded.Export.Colors[0] != "#112233" {
		t.Errorf("unexpected colors after round trip: %v", loaded.Export.Colors)
	}
}
