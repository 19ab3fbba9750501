package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/pkg/adapters/mcp"
	"github.com/aretw0/lectern/pkg/observability"
)

// MCPOptions configures the MCP server command.
type MCPOptions struct {
	Options
	Transport string // "stdio" or "sse"
	Addr      string
	BaseURL   string
}

// ServeMCP exposes one Workbench as an MCP tool server.
// Stdout carries JSON-RPC on stdio, so logs must go to stderr.
func ServeMCP(ctx context.Context, opts MCPOptions, getenv func(string) string) error {
	cfg, logger, err := Setup(opts.Options, getenv)
	if err != nil {
		return err
	}
	wb, err := NewWorkbench(ctx, opts.Options, cfg, logger,
		lectern.WithLifecycleHooks(observability.LogHooks(logger)))
	if err != nil {
		return err
	}
	srv := mcp.NewServer(wb, mcp.WithLogger(logger))

	switch opts.Transport {
	case "", "stdio":
		logger.Info("Starting Lectern MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		baseURL := opts.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost" + opts.Addr
		}
		logger.Info("Starting Lectern MCP Server (SSE)", "addr", opts.Addr)
		return handleExecutionError(srv.ServeSSE(ctx, opts.Addr, baseURL))
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", opts.Transport)
	}
}
