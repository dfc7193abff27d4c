// Package config loads service configuration from an optional YAML file
// with environment-variable overrides. Commands call godotenv themselves
// before loading so a local .env behaves like real environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dvloznov/statement-normalizer/internal/pipeline"
	yaml "gopkg.in/yaml.v2"
)

type Config struct {
	ProjectID string `yaml:"project_id"`
	Dataset   string `yaml:"dataset"`
	Bucket    string `yaml:"bucket"`

	Model        string `yaml:"model"`
	MaxPDFBytes  int    `yaml:"max_pdf_bytes"`
	MaxHintChars int    `yaml:"max_hint_chars"`

	APIAddr string `yaml:"api_addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Dataset:      "statements",
		Model:        pipeline.DefaultModelName,
		MaxPDFBytes:  pipeline.DefaultMaxPDFBytes,
		MaxHintChars: pipeline.DefaultMaxHintChars,
		APIAddr:      ":8080",
	}
}

// Load reads the YAML file at path when it exists, then applies
// environment overrides. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parsing %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// ExtractionSettings projects the extraction knobs into the pipeline's
// settings type, ready to hand to IngestStatementFromGCS.
func (c *Config) ExtractionSettings() *pipeline.Settings {
	return &pipeline.Settings{
		Model:        c.Model,
		MaxPDFBytes:  c.MaxPDFBytes,
		MaxHintChars: c.MaxHintChars,
	}
}

func (c *Config) applyEnv() {
	setString(&c.ProjectID, "GOOGLE_CLOUD_PROJECT")
	setString(&c.Dataset, "BQ_DATASET")
	setString(&c.Bucket, "GCS_BUCKET")
	setString(&c.Model, "GEMINI_MODEL")
	setString(&c.APIAddr, "API_ADDR")
	setInt(&c.MaxPDFBytes, "MAX_PDF_BYTES")
	setInt(&c.MaxHintChars, "MAX_HINT_CHARS")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}
