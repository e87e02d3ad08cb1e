package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromFile_Valid(t *testing.T) {
	path := writeConfig(t, "dataset: clm\ncategories:\n  - lcr\n  - scores\nsex_codes:\n  maennlich: M\n")

	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.Dataset != "clm" {
		t.Errorf("Dataset = %q, want clm", c.Dataset)
	}
	if len(c.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(c.Categories))
	}
	if c.SexCodes["MAENNLICH"] != "M" {
		t.Errorf("sex code keys should be upper-cased: %v", c.SexCodes)
	}

	// Import order is fixed regardless of the order in the file.
	sel := c.Selected()
	if len(sel) != 2 || sel[0].Name != "scores" || sel[1].Name != "lcr" {
		t.Errorf("Selected = %v", sel)
	}
}

func TestLoadFromFile_FlagDatasetWins(t *testing.T) {
	path := writeConfig(t, "dataset: fromfile\n")
	c := Config{Dataset: "fromflag"}
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.Dataset != "fromflag" {
		t.Errorf("Dataset = %q, want fromflag", c.Dataset)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown category", "categories:\n  - scores\n  - BOGUS\n"},
		{"bad sex target", "sex_codes:\n  x: MALE\n"},
		{"not yaml", "categories: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			if err := c.LoadFromFile(writeConfig(t, tt.content)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadFromFile_EmptyDefaults(t *testing.T) {
	path := writeConfig(t, "categories: []\n")

	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if len(c.Categories) != 7 {
		t.Errorf("expected 7 default categories, got %d: %v", len(c.Categories), c.Categories)
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	var c Config
	err := c.LoadFromFile("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "S_Scores.csv")
	os.WriteFile(file, []byte("x\n"), 0644)

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{InputDir: dir, Dataset: "clm"}, false},
		{"missing input", Config{Dataset: "clm"}, true},
		{"input not found", Config{InputDir: filepath.Join(dir, "nope"), Dataset: "clm"}, true},
		{"input is a file", Config{InputDir: file, Dataset: "clm"}, true},
		{"missing dataset", Config{InputDir: dir}, true},
		{"dataset with slash", Config{InputDir: dir, Dataset: "a/b"}, true},
		{"unknown category", Config{InputDir: dir, Dataset: "clm", Categories: []string{"x"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateWithDSN(t *testing.T) {
	c := Config{InputDir: t.TempDir(), Dataset: "clm"}
	if err := c.ValidateWithDSN(); err == nil {
		t.Fatal("expected error without DSN")
	}
	c.DSN = "postgres://localhost/i2b2"
	if err := c.ValidateWithDSN(); err != nil {
		t.Errorf("ValidateWithDSN: %v", err)
	}
}
