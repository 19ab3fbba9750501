package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/presentation/tui"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/observability"
	"github.com/aretw0/lectern/pkg/workflow"
)

// Streams are the standard streams a command reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Options
	WorkflowID string
	Topic      string
	Audience   string
	DeckPath   string
	OutputPath string
	Context    string // Raw JSON decoded into workflow.Context
	JSON       bool
	Trace      bool
}

// Run executes one workflow and prints its report.
func Run(ctx context.Context, opts RunOptions, s Streams, getenv func(string) string) (err error) {
	cfg, logger, err := Setup(opts.Options, getenv)
	if err != nil {
		return err
	}

	input, err := buildInput(opts, s.In)
	if err != nil {
		return err
	}

	extra := []lectern.Option{lectern.WithLifecycleHooks(observability.LogHooks(logger))}
	if opts.Trace {
		tp, err := NewTraceProvider(s.Err)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer func() {
			if shutdownErr := tp.Shutdown(context.WithoutCancel(ctx)); err == nil {
				err = shutdownErr
			}
		}()
		extra = append(extra, lectern.WithTracerProvider(tp))
	}

	wb, err := NewWorkbench(ctx, opts.Options, cfg, logger, extra...)
	if err != nil {
		return err
	}

	exec, runErr := wb.Run(ctx, opts.WorkflowID, input)
	if exec == nil {
		return runErr
	}

	if opts.JSON {
		enc := json.NewEncoder(s.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(exec); err != nil {
			return err
		}
	} else {
		out, err := tui.RendererFor(s.Out)(tui.ExecutionReport(exec))
		if err != nil {
			return err
		}
		fmt.Fprint(s.Out, out)
	}

	if opts.OutputPath != "" && exec.Results != nil && len(exec.Results.Slides) > 0 {
		deck := domain.Presentation{ID: exec.ID, Title: input.Topic, Slides: exec.Results.Slides}
		if err := WriteDeck(opts.OutputPath, deck, s.Out); err != nil {
			return err
		}
		if opts.OutputPath != "-" {
			printSystemMessage(s.Err, "Wrote %d slides to %s", len(deck.Slides), opts.OutputPath)
		}
	}

	return handleExecutionError(runErr)
}

func buildInput(opts RunOptions, stdin io.Reader) (workflow.Context, error) {
	var input workflow.Context
	if opts.Context != "" {
		if err := json.Unmarshal([]byte(opts.Context), &input); err != nil {
			return input, fmt.Errorf("error parsing --context JSON: %w", err)
		}
	}
	if opts.Topic != "" {
		input.Topic = opts.Topic
	}
	if opts.Audience != "" {
		input.Audience = opts.Audience
	}
	for _, field := range []*string{&input.Topic, &input.Audience} {
		clean, err := workflow.NormalizeText(*field, workflow.DefaultMaxTextSize)
		if err != nil {
			return input, fmt.Errorf("invalid input: %w", err)
		}
		*field = clean
	}
	if opts.DeckPath != "" {
		deck, err := LoadDeck(opts.DeckPath, stdin)
		if err != nil {
			return input, err
		}
		input.Slides = deck.Slides
		if input.Topic == "" {
			input.Topic = deck.Title
		}
	}
	return input, nil
}

// ListWorkflows prints the catalog, optionally filtered by category or search query.
func ListWorkflows(ctx context.Context, opts Options, category, query string, asJSON bool, s Streams, getenv func(string) string) error {
	cfg, logger, err := Setup(opts, getenv)
	if err != nil {
		return err
	}
	wb, err := NewWorkbench(ctx, opts, cfg, logger)
	if err != nil {
		return err
	}

	var list []domain.Workflow
	switch {
	case category != "":
		list = wb.Workflows().GetWorkflowsByCategory(category)
	case query != "":
		list = wb.Workflows().SearchWorkflows(query)
	default:
		list = wb.Workflows().GetWorkflows()
	}

	if asJSON {
		enc := json.NewEncoder(s.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	var sb strings.Builder
	sb.WriteString("# Workflows\n\n| ID | Category | Steps | Name |\n|---|---|---|---|\n")
	for _, w := range list {
		fmt.Fprintf(&sb, "| %s | %s | %d | %s |\n", w.ID, w.Category, len(w.Steps), w.Name)
	}
	out, err := tui.RendererFor(s.Out)(sb.String())
	if err != nil {
		return err
	}
	fmt.Fprint(s.Out, out)
	return nil
}
