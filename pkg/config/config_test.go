package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Port  int    `yaml:"port"`
	Level string `yaml:"level"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "wort")
	path := writeConfig(t, "name: ${SAMPLE_NAME}\nport: 8081\n")

	cfg := sample{Level: "info"}
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "wort" || cfg.Port != 8081 || cfg.Level != "info" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	var cfg sample
	if err := Load(filepath.Join(t.TempDir(), "missing.yaml"), &cfg); err == nil {
		t.Error("missing file should fail")
	}

	path := writeConfig(t, "port: [1\n")
	if err := Load(path, &cfg); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("parse error = %v", err)
	}

	path = writeConfig(t, "port: 0\n")
	if err := Load(path, &cfg); err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("validation error = %v", err)
	}
}

func TestLoadOptional(t *testing.T) {
	cfg := sample{Port: 8080}
	read, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"), &cfg)
	if err != nil || read {
		t.Fatalf("LoadOptional missing = %v, %v", read, err)
	}

	cfg = sample{}
	if _, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"), &cfg); err == nil {
		t.Error("invalid defaults should fail validation")
	}

	path := writeConfig(t, "port: 9000\n")
	read, err = LoadOptional(path, &cfg)
	if err != nil || !read || cfg.Port != 9000 {
		t.Errorf("LoadOptional existing = %v, %v, %+v", read, err, cfg)
	}
}
