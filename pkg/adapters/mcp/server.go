package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/formatting"
	"github.com/aretw0/lectern/pkg/schema"
	"github.com/aretw0/lectern/pkg/suggestion"
	"github.com/aretw0/lectern/pkg/workflow"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

// Resource URIs.
const (
	WorkflowsURI = "lectern://workflows"
	SchemasURI   = "lectern://schemas"
)

// FormatResponse is the structured result of format_slide.
type FormatResponse struct {
	Slide  domain.Slide      `json:"slide" jsonschema_description:"The formatted slide"`
	Result formatting.Result `json:"result" jsonschema_description:"Changes, warnings and errors of the run"`
}

// RunResponse is the structured result of run_workflow.
type RunResponse struct {
	Execution *domain.WorkflowExecution `json:"execution" jsonschema_description:"The execution record, including results"`
}

// Server exposes a Workbench as an MCP server.
type Server struct {
	workbench *lectern.Workbench
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a new MCP Server instance.
func NewServer(wb *lectern.Workbench, opts ...Option) *Server {
	s := &Server{
		workbench: wb,
		mcpServer: server.NewMCPServer("lectern-mcp", strings.TrimSpace(lectern.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))
	httpServer := &http.Server{Addr: addr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_workflows
	s.mcpServer.AddTool(mcp.NewTool("list_workflows",
		mcp.WithDescription("List the workflow catalog. Filter by category or free-text query."),
		mcp.WithString("category", mcp.Description("Exact category, case-insensitive (optional)")),
		mcp.WithString("query", mcp.Description("Substring of name, description or tags (optional)")),
	), s.handleListWorkflows)

	// TOOL: run_workflow
	s.mcpServer.AddTool(mcp.NewTool("run_workflow",
		mcp.WithDescription("Run a workflow and return its execution record."),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow ID from list_workflows")),
		mcp.WithString("context", mcp.Description("JSON object: topic, audience, slides, slide_index, options, extra")),
		mcp.WithOutputSchema[RunResponse](),
	), mcp.NewStructuredToolHandler(s.handleRunWorkflow))

	// TOOL: suggest
	s.mcpServer.AddTool(mcp.NewTool("suggest",
		mcp.WithDescription("Score a slide and propose improvements."),
		mcp.WithString("slide", mcp.Required(), mcp.Description("JSON slide")),
		mcp.WithNumber("index", mcp.Description("Zero-based position of the slide in the deck")),
		mcp.WithNumber("total", mcp.Description("Number of slides in the deck")),
		mcp.WithString("audience", mcp.Description("Target audience (optional)")),
		mcp.WithOutputSchema[suggestion.Result](),
	), mcp.NewStructuredToolHandler(s.handleSuggest))

	// TOOL: analyze_slide
	s.mcpServer.AddTool(mcp.NewTool("analyze_slide",
		mcp.WithDescription("Compute readability, engagement, visual balance and accessibility checks."),
		mcp.WithString("slide", mcp.Required(), mcp.Description("JSON slide")),
		mcp.WithOutputSchema[domain.ContentAnalysis](),
	), mcp.NewStructuredToolHandler(s.handleAnalyze))

	// TOOL: format_slide
	s.mcpServer.AddTool(mcp.NewTool("format_slide",
		mcp.WithDescription("Apply the formatting rules to a slide and report every change."),
		mcp.WithString("slide", mcp.Required(), mcp.Description("JSON slide")),
		mcp.WithNumber("index", mcp.Description("Zero-based position of the slide in the deck")),
		mcp.WithNumber("total", mcp.Description("Number of slides in the deck")),
		mcp.WithOutputSchema[FormatResponse](),
	), mcp.NewStructuredToolHandler(s.handleFormat))
}

func (s *Server) handleListWorkflows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine := s.workbench.Workflows()
	var out []domain.Workflow
	switch {
	case request.GetString("category", "") != "":
		out = engine.GetWorkflowsByCategory(request.GetString("category", ""))
	case request.GetString("query", "") != "":
		out = engine.SearchWorkflows(request.GetString("query", ""))
	default:
		out = engine.GetWorkflows()
	}
	jsonBytes, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleRunWorkflow(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunResponse, error) {
	workflowID, _ := args["workflow_id"].(string)

	var input workflow.Context
	if raw, ok := args["context"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &input); err != nil {
			return RunResponse{}, fmt.Errorf("invalid context: %w", err)
		}
	}
	clean, err := workflow.NormalizeText(input.Topic, workflow.DefaultMaxTextSize)
	if err != nil {
		s.logger.Warn("MCP run_workflow: input rejected", "error", err, "size", len(input.Topic))
		return RunResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	input.Topic = clean

	exec, err := s.workbench.Run(ctx, workflowID, input)
	if exec == nil {
		return RunResponse{}, fmt.Errorf("run failed: %w", err)
	}
	if err != nil {
		s.logger.Info("MCP run_workflow: execution did not complete", "execution_id", exec.ID, "status", exec.Status, "error", err)
	}
	return RunResponse{Execution: exec}, nil
}

func (s *Server) handleSuggest(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (suggestion.Result, error) {
	slide, err := slideArg(args)
	if err != nil {
		return suggestion.Result{}, err
	}
	index, total := position(args)
	audience, _ := args["audience"].(string)
	return s.workbench.Suggest(slide, index, total, audience), nil
}

func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.ContentAnalysis, error) {
	slide, err := slideArg(args)
	if err != nil {
		return domain.ContentAnalysis{}, err
	}
	return s.workbench.Analyze(slide), nil
}

func (s *Server) handleFormat(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (FormatResponse, error) {
	slide, err := slideArg(args)
	if err != nil {
		return FormatResponse{}, err
	}
	index, total := position(args)
	out, res := s.workbench.FormatSlide(slide, index, total)
	return FormatResponse{Slide: out, Result: res}, nil
}

func slideArg(args map[string]interface{}) (domain.Slide, error) {
	var slide domain.Slide
	raw, _ := args["slide"].(string)
	if raw == "" {
		return slide, errors.New("slide is required")
	}
	if err := json.Unmarshal([]byte(raw), &slide); err != nil {
		return slide, fmt.Errorf("invalid slide: %w", err)
	}
	return slide, nil
}

// position reads index/total, defaulting to a single-slide deck.
func position(args map[string]interface{}) (int, int) {
	index, total := 0, 1
	if v, ok := domain.AsFloat(args["index"]); ok {
		index = int(v)
	}
	if v, ok := domain.AsFloat(args["total"]); ok && v > 0 {
		total = int(v)
	}
	if index >= total {
		total = index + 1
	}
	return index, total
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(WorkflowsURI, "Workflow catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonResource(WorkflowsURI, s.workbench.Workflows().GetWorkflows())
	})

	s.mcpServer.AddResource(mcp.NewResource(SchemasURI, "Element property schemas",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonResource(SchemasURI, schema.Describe())
	})
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
