// Package process implements a ContentGenerator backed by a local command.
//
// The command receives the domain.GenerationRequest as JSON on stdin and must
// print a domain.GenerationResponse as JSON on stdout. Request fields are also
// exported as LECTERN_* environment variables for simple shell scripts.
package process

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/domain"
)

// DefaultTimeout bounds a single generation.
const DefaultTimeout = 2 * time.Minute

// ErrNoCommand is returned by New when the command is empty.
var ErrNoCommand = errors.New("process generator requires a command")

// Config is the declarative form of a process generator, as found in config files.
type Config struct {
	Command string            `yaml:"command" json:"command"`
	Args    []string          `yaml:"args" json:"args"`
	Env     map[string]string `yaml:"env" json:"env"`
	Dir     string            `yaml:"dir" json:"dir"`
}

// Generator runs one process per request.
type Generator struct {
	command string
	args    []string
	env     map[string]string
	dir     string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures the Generator.
type Option func(*Generator)

// WithTimeout overrides DefaultTimeout. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) { g.timeout = d }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// New creates a Generator from cfg.
func New(cfg Config, opts ...Option) (*Generator, error) {
	if strings.TrimSpace(cfg.Command) == "" {
		return nil, ErrNoCommand
	}
	g := &Generator{
		command: cfg.Command,
		args:    append([]string(nil), cfg.Args...),
		env:     cfg.Env,
		dir:     cfg.Dir,
		timeout: DefaultTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate runs the command. A non-zero exit or unparsable output yields an
// unsuccessful response rather than an error; only cancellation and
// timeouts are returned as errors.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	input, err := json.Marshal(req)
	if err != nil {
		return domain.GenerationResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	cmd := exec.CommandContext(ctx, g.command, g.args...)
	cmd.Dir = g.dir
	cmd.Env = append(cmd.Environ(), g.environment(req)...)
	cmd.Stdin = bytes.NewReader(input)
	// Children that inherit stdout must not keep Wait blocked after a kill.
	cmd.WaitDelay = 500 * time.Millisecond

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	meta := map[string]any{"generator": "process", "command": filepath.Base(g.command)}

	start := time.Now()
	g.logger.Debug("spawning generator", "command", g.command, "type", req.Type)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.GenerationResponse{}, fmt.Errorf("process generator: %w", ctxErr)
		}
		g.logger.Warn("generator exited with error", "command", g.command, "err", err, "duration", time.Since(start))
		return domain.GenerationResponse{
			Success:  false,
			Error:    fmt.Sprintf("execution failed: %v. Stderr: %s", err, strings.TrimSpace(stderr.String())),
			Metadata: meta,
		}, nil
	}

	g.logger.Debug("generator finished", "command", g.command, "duration", time.Since(start))

	var resp domain.GenerationResponse
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &resp); err != nil {
		return domain.GenerationResponse{
			Success:  false,
			Error:    fmt.Sprintf("command returned invalid JSON: %v", err),
			Metadata: meta,
		}, nil
	}
	if resp.Metadata == nil {
		resp.Metadata = meta
	} else {
		for k, v := range meta {
			if _, ok := resp.Metadata[k]; !ok {
				resp.Metadata[k] = v
			}
		}
	}
	return resp, nil
}

// environment exports request fields and configured variables, sorted by key.
func (g *Generator) environment(req domain.GenerationRequest) []string {
	vars := map[string]string{
		"LECTERN_REQUEST_TYPE": req.Type,
		"LECTERN_TOPIC":        req.Context.Topic,
		"LECTERN_AUDIENCE":     req.Context.Audience,
		"LECTERN_TONE":         req.Options.Tone,
		"LECTERN_LENGTH":       req.Options.Length,
	}
	for k, v := range g.env {
		vars[k] = v
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	env := make([]string, len(keys))
	for i, k := range keys {
		env[i] = k + "=" + vars[k]
	}
	return env
}
