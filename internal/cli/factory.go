package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/adapters/generator"
	"github.com/aretw0/lectern/pkg/adapters/process"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/lectern/pkg/registry"
)

// Options are the settings shared by every command.
type Options struct {
	// Dir is a directory of workflow documents. Empty uses only the built-in catalog.
	Dir        string
	ConfigPath string
	// LogLevel and LogFormat override the "log" section of the config when set.
	LogLevel  string
	LogFormat string
	// Generator overrides the configured generator kind when set.
	Generator string
	// ArchiveDir keeps finished executions as JSON files.
	ArchiveDir string
}

// Setup loads config, applies environment and flag overrides and builds the logger.
func Setup(opts Options, getenv func(string) string) (Config, *slog.Logger, error) {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return cfg, createLogger(logging.Config{Level: opts.LogLevel, Format: opts.LogFormat}), err
	}
	cfg.ApplyEnv(getenv)
	if opts.Generator != "" {
		cfg.Generator.Kind = opts.Generator
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Log.Format = opts.LogFormat
	}
	return cfg, createLogger(cfg.Log), nil
}

// Generators holds the generator kinds the CLI can build.
// GeneratorNone yields a nil generator, which makes generate steps fail.
var Generators = newGeneratorRegistry()

func newGeneratorRegistry() *registry.Registry[GeneratorConfig, ports.ContentGenerator] {
	r := registry.New[GeneratorConfig, ports.ContentGenerator]()
	r.Register(GeneratorTemplate, func(GeneratorConfig) (ports.ContentGenerator, error) {
		return generator.NewTemplate(), nil
	})
	r.Register(GeneratorNone, func(GeneratorConfig) (ports.ContentGenerator, error) {
		return nil, nil
	})
	r.Register(GeneratorHTTP, func(cfg GeneratorConfig) (ports.ContentGenerator, error) {
		if cfg.Model == "" {
			return nil, fmt.Errorf("http generator requires a model")
		}
		g, err := generator.NewHTTP(cfg.BaseURL, cfg.Model, generator.WithAPIKey(cfg.APIKey))
		if err != nil {
			return nil, err
		}
		return g, nil
	})
	r.Register(GeneratorProcess, func(cfg GeneratorConfig) (ports.ContentGenerator, error) {
		g, err := process.New(cfg.Process)
		if err != nil {
			return nil, err
		}
		return g, nil
	})
	return r
}

// NewGenerator builds the content generator named by cfg.Kind.
// An empty kind means GeneratorTemplate.
func NewGenerator(cfg GeneratorConfig) (ports.ContentGenerator, error) {
	kind := cfg.Kind
	if strings.TrimSpace(kind) == "" {
		kind = GeneratorTemplate
	}
	g, err := Generators.Build(kind, cfg)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	return g, nil
}

// NewWorkbench initializes a Workbench with standard CLI conventions.
func NewWorkbench(ctx context.Context, opts Options, cfg Config, logger *slog.Logger, extra ...lectern.Option) (*lectern.Workbench, error) {
	wbOpts := []lectern.Option{
		lectern.WithLogger(logger),
		lectern.WithSuggestionConfig(cfg.Suggestion),
		lectern.WithFormattingSettings(cfg.Formatting),
	}

	gen, err := NewGenerator(cfg.Generator)
	if err != nil {
		return nil, err
	}
	if gen != nil {
		wbOpts = append(wbOpts, lectern.WithGenerator(gen))
	}
	if opts.Dir != "" {
		wbOpts = append(wbOpts, lectern.WithWorkflowDir(opts.Dir))
	}
	if opts.ArchiveDir != "" {
		store, err := OpenArchive(opts.ArchiveDir, cfg.Archive)
		if err != nil {
			return nil, err
		}
		wbOpts = append(wbOpts, lectern.WithExecutionStore(store))
	}

	wb, err := lectern.New(ctx, append(wbOpts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("error initializing workbench: %w", err)
	}
	return wb, nil
}
