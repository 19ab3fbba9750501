package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/lectern/internal/presentation/tui"
	"github.com/aretw0/lectern/pkg/adapters/file"
	"github.com/aretw0/lectern/pkg/persistence/middleware"
	"github.com/aretw0/lectern/pkg/ports"
)

// OpenArchive returns the file archive in dir wrapped as WrapArchive does.
func OpenArchive(dir string, cfg ArchiveConfig) (ports.ExecutionStore, error) {
	return WrapArchive(file.New(dir), cfg)
}

// WrapArchive applies the redaction and encryption middlewares that cfg
// enables. Redaction runs before sealing.
func WrapArchive(store ports.ExecutionStore, cfg ArchiveConfig) (ports.ExecutionStore, error) {
	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		mw, err := middleware.NewRedactMiddleware(cfg.Redact)
		if err != nil {
			return nil, fmt.Errorf("archive redact pattern: %w", err)
		}
		mws = append(mws, mw)
	}
	if cfg.Key != "" {
		enc := middleware.EncryptionConfig{}
		key, err := middleware.ParseKey(cfg.Key)
		if err != nil {
			return nil, fmt.Errorf("archive key: %w", err)
		}
		enc.ActiveKey = key
		for _, k := range cfg.FallbackKeys {
			fk, err := middleware.ParseKey(k)
			if err != nil {
				return nil, fmt.Errorf("archive fallback key: %w", err)
			}
			enc.FallbackKeys = append(enc.FallbackKeys, fk)
		}
		mw, err := middleware.NewEncryptionMiddleware(enc)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return middleware.Chain(store, mws...), nil
}

func openArchive(opts Options, getenv func(string) string) (ports.ExecutionStore, error) {
	cfg, _, err := Setup(opts, getenv)
	if err != nil {
		return nil, err
	}
	return OpenArchive(opts.ArchiveDir, cfg.Archive)
}

// ListExecutions prints the archived executions in ArchiveDir, oldest first.
func ListExecutions(ctx context.Context, opts Options, s Streams, getenv func(string) string) error {
	store, err := openArchive(opts, getenv)
	if err != nil {
		return err
	}
	ids, err := store.List(ctx)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("| Execution | Workflow | Status | Started |\n|---|---|---|---|\n")
	for _, id := range ids {
		exec, err := store.Load(ctx, id)
		if err != nil {
			fmt.Fprintf(&sb, "| %s | ? | unreadable | |\n", id)
			continue
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", exec.ID, exec.WorkflowID, exec.Status, exec.StartTime.Format("2006-01-02 15:04:05"))
	}
	out, err := tui.RendererFor(s.Out)(sb.String())
	if err != nil {
		return err
	}
	fmt.Fprint(s.Out, out)
	return nil
}

// ShowExecution prints one archived execution.
func ShowExecution(ctx context.Context, opts Options, id string, asJSON bool, s Streams, getenv func(string) string) error {
	store, err := openArchive(opts, getenv)
	if err != nil {
		return err
	}
	exec, err := store.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("execution %s: %w", id, err)
	}
	if asJSON {
		enc := json.NewEncoder(s.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(exec)
	}
	out, err := tui.RendererFor(s.Out)(tui.ExecutionReport(exec))
	if err != nil {
		return err
	}
	fmt.Fprint(s.Out, out)
	return nil
}
