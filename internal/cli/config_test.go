package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/gallupBenRyan/multivac/internal/model"
)

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".usp", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# usp configuration file") {
		t.Error("expected header comment")
	}

	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("expected valid YAML: %v", err)
	}
	if cfg.Paths.AnswersFile != "Answers.txt" {
		t.Errorf("expected default answers file, got %q", cfg.Paths.AnswersFile)
	}
}

func TestWriteDefaultConfig_Exists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("custom: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("expected error for existing file")
	}

	data, _ := os.ReadFile(path)
	if string(data) != "custom: true\n" {
		t.Error("expected existing file untouched")
	}
}
