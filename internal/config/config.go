package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/gyeh/ehrload/internal/model"
	"github.com/gyeh/ehrload/internal/normalize"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for an ehrload run.
type Config struct {
	DSN        string
	InputDir   string
	Dataset    string
	LogFormat  string // "text" or "json"
	LogLevel   string
	ConfigFile string

	Categories []string          `yaml:"categories"` // subset of model.AllCategories to run
	SexCodes   map[string]string `yaml:"sex_codes"`  // extra raw SEX value -> M/F/U
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Dataset    string            `yaml:"dataset"`
	Categories []string          `yaml:"categories"`
	SexCodes   map[string]string `yaml:"sex_codes"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// A dataset given on the command line wins over the file.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if c.Dataset == "" {
		c.Dataset = yc.Dataset
	}
	c.Categories = yc.Categories
	c.SexCodes = yc.SexCodes
	if err := c.validateCategories(); err != nil {
		return err
	}
	return c.validateSexCodes()
}

// validateCategories checks that every entry in Categories is a known
// category name. If Categories is empty, it defaults to all of them.
func (c *Config) validateCategories() error {
	if len(c.Categories) == 0 {
		c.Categories = model.CategoryNames()
		return nil
	}
	for _, name := range c.Categories {
		if _, ok := model.CategoryByName(name); !ok {
			return fmt.Errorf("unknown category %q in config (known: %s)",
				name, strings.Join(model.CategoryNames(), ", "))
		}
	}
	return nil
}

// validateSexCodes upper-cases the keys and rejects targets other than M, F and U.
func (c *Config) validateSexCodes() error {
	if len(c.SexCodes) == 0 {
		return nil
	}
	codes := make(map[string]string, len(c.SexCodes))
	for raw, code := range c.SexCodes {
		if !normalize.IsSexCode(code) {
			return fmt.Errorf("sex_codes: %q maps to %q, want M, F or U", raw, code)
		}
		codes[strings.ToUpper(strings.TrimSpace(raw))] = code
	}
	c.SexCodes = codes
	return nil
}

// Selected returns the configured categories in import order.
func (c *Config) Selected() []model.Category {
	if len(c.Categories) == 0 {
		return model.AllCategories
	}
	var out []model.Category
	for _, cat := range model.AllCategories {
		if slices.Contains(c.Categories, cat.Name) {
			out = append(out, cat)
		}
	}
	return out
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("--input is required")
	}
	info, err := os.Stat(c.InputDir)
	if err != nil {
		return fmt.Errorf("input folder not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input %s is not a directory", c.InputDir)
	}
	if c.Dataset == "" {
		return fmt.Errorf("--dataset is required")
	}
	if strings.ContainsAny(c.Dataset, "/:") {
		return fmt.Errorf("dataset %q must not contain '/' or ':'", c.Dataset)
	}
	return c.validateCategories()
}

// ValidateWithDSN checks both input and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or EHRLOAD_DSN is required")
	}
	return nil
}
