package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/adapters/process"
	"github.com/aretw0/lectern/pkg/formatting"
	"github.com/aretw0/lectern/pkg/suggestion"
	"gopkg.in/yaml.v3"
)

// Generator kinds accepted by --generator and LECTERN_GENERATOR.
const (
	GeneratorNone     = "none"
	GeneratorTemplate = "template"
	GeneratorHTTP     = "http"
	GeneratorProcess  = "process"
)

// DefaultConfigFile is looked up in the working directory when --config is not set.
const DefaultConfigFile = "lectern.yaml"

// GeneratorConfig selects and configures the content generator.
type GeneratorConfig struct {
	Kind    string `yaml:"kind"`
	BaseURL string `yaml:"baseURL"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"apiKey"`
	// Process configures the "process" kind: a local command speaking JSON on stdin/stdout.
	Process process.Config `yaml:"process"`
}

// ArchiveConfig controls what reaches the execution archive.
type ArchiveConfig struct {
	// Redact masks element props whose key matches one of these patterns.
	Redact []string `yaml:"redact"`
	// Key is a base64 AES-256 key. When set, archived executions are sealed.
	Key string `yaml:"key"`
	// FallbackKeys open executions sealed before a key rotation.
	FallbackKeys []string `yaml:"fallbackKeys"`
}

// Config is the on-disk configuration of the CLI.
type Config struct {
	Suggestion suggestion.Config   `yaml:"suggestion"`
	Formatting formatting.Settings `yaml:"formatting"`
	Generator  GeneratorConfig     `yaml:"generator"`
	Archive    ArchiveConfig       `yaml:"archive"`
	Log        logging.Config      `yaml:"log"`
}

// DefaultConfig returns engine defaults with the offline template generator.
func DefaultConfig() Config {
	return Config{
		Suggestion: suggestion.DefaultConfig(),
		Formatting: formatting.DefaultSettings(),
		Generator:  GeneratorConfig{Kind: GeneratorTemplate},
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
// An empty path loads DefaultConfigFile when present and defaults otherwise.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides generator, archive and log settings from LECTERN_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("LECTERN_GENERATOR"); v != "" {
		c.Generator.Kind = v
	}
	if v := getenv("LECTERN_LLM_URL"); v != "" {
		c.Generator.BaseURL = v
	}
	if v := getenv("LECTERN_LLM_MODEL"); v != "" {
		c.Generator.Model = v
	}
	if v := getenv("LECTERN_LLM_API_KEY"); v != "" {
		c.Generator.APIKey = v
	}
	if v := getenv("LECTERN_GENERATOR_COMMAND"); v != "" {
		c.Generator.Process.Command = v
	}
	if v := getenv("LECTERN_ARCHIVE_KEY"); v != "" {
		c.Archive.Key = v
	}
	if v := getenv("LECTERN_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("LECTERN_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}
