package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/formatting"
	"github.com/aretw0/lectern/pkg/rules"
	"github.com/aretw0/lectern/pkg/schema"
	"github.com/aretw0/lectern/pkg/workflow"
	"github.com/go-chi/chi/v5"
)

// SuggestRequest is the body of POST /sessions/{id}/suggest.
type SuggestRequest struct {
	Slide    domain.Slide `json:"slide"`
	Index    int          `json:"index"`
	Total    int          `json:"total"`
	Audience string       `json:"audience,omitempty"`
	// Realtime routes the call through the realtime entry point, which may
	// auto-apply high-confidence suggestions.
	Realtime bool `json:"realtime,omitempty"`
}

// AnalyzeRequest is the body of POST /sessions/{id}/analyze.
type AnalyzeRequest struct {
	Slide domain.Slide `json:"slide"`
}

// FormatRequest is the body of POST /sessions/{id}/format.
// With Index set only that slide is formatted.
type FormatRequest struct {
	Slides  []domain.Slide `json:"slides"`
	Index   *int           `json:"index,omitempty"`
	Preview bool           `json:"preview,omitempty"`
}

// FormatResponse carries the formatted deck (omitted on preview).
type FormatResponse struct {
	Slides []domain.Slide    `json:"slides,omitempty"`
	Result formatting.Result `json:"result"`
}

// RulesResponse lists the rules of both engines in evaluation order.
type RulesResponse struct {
	Formatting []rules.Info `json:"formatting"`
	Suggestion []rules.Info `json:"suggestion"`
}

// bench returns the session's workbench without waiting on a running
// execution when the session already exists.
func (s *Server) bench(ctx context.Context, sessionID string) (*lectern.Workbench, error) {
	if wb, err := s.Sessions.Lookup(sessionID); err == nil {
		return wb, nil
	}
	return s.Sessions.Get(ctx, sessionID)
}

func (s *Server) withBench(w http.ResponseWriter, r *http.Request, fn func(*lectern.Workbench)) {
	wb, err := s.bench(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	fn(wb)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSchemas handles GET /schemas.
func (s *Server) GetSchemas(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, schema.Describe())
}

// GetRules handles GET /sessions/{id}/rules.
func (s *Server) GetRules(w http.ResponseWriter, r *http.Request) {
	s.withBench(w, r, func(wb *lectern.Workbench) {
		s.writeJSON(w, http.StatusOK, RulesResponse{
			Formatting: wb.Formatter().RuleInfos(),
			Suggestion: wb.Suggester().RuleInfos(),
		})
	})
}

// ListWorkflows handles GET /sessions/{id}/workflows?category=&q=.
func (s *Server) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	s.withBench(w, r, func(wb *lectern.Workbench) {
		engine := wb.Workflows()
		var out []domain.Workflow
		switch q := r.URL.Query(); {
		case q.Get("category") != "":
			out = engine.GetWorkflowsByCategory(q.Get("category"))
		case q.Get("q") != "":
			out = engine.SearchWorkflows(q.Get("q"))
		default:
			out = engine.GetWorkflows()
		}
		if out == nil {
			out = []domain.Workflow{}
		}
		s.writeJSON(w, http.StatusOK, out)
	})
}

// GetWorkflow handles GET /sessions/{id}/workflows/{workflowID}.
func (s *Server) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	s.withBench(w, r, func(wb *lectern.Workbench) {
		id := chi.URLParam(r, "workflowID")
		wf, ok := wb.Workflows().GetWorkflow(id)
		if !ok {
			s.writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", domain.ErrWorkflowNotFound, id))
			return
		}
		s.writeJSON(w, http.StatusOK, wf)
	})
}

// RunWorkflow handles POST /sessions/{id}/workflows/{workflowID}/run.
// Executions of one session run one at a time. A failed or cancelled
// execution is still returned with status 200; its status field tells.
func (s *Server) RunWorkflow(w http.ResponseWriter, r *http.Request) {
	var input workflow.Context
	if !s.decode(w, r, &input) {
		return
	}
	if err := sanitizeContext(&input); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	workflowID := chi.URLParam(r, "workflowID")
	var (
		exec   *domain.WorkflowExecution
		runErr error
	)
	err := s.Sessions.Do(r.Context(), sessionID, func(ctx context.Context, wb *lectern.Workbench) error {
		exec, runErr = wb.Run(ctx, workflowID, input)
		return nil
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if exec == nil {
		s.writeError(w, statusFor(runErr), runErr)
		return
	}
	if runErr != nil {
		s.logger.Info("execution did not complete",
			"session_id", sessionID,
			"execution_id", exec.ID,
			"status", exec.Status,
			"error", runErr)
	}
	s.writeJSON(w, http.StatusOK, exec)
}

// sanitizeContext normalizes the free-text fields of a run request.
func sanitizeContext(in *workflow.Context) error {
	for _, field := range []*string{&in.Topic, &in.Audience} {
		clean, err := workflow.NormalizeText(*field, workflow.DefaultMaxTextSize)
		if err != nil {
			return fmt.Errorf("invalid input: %w", err)
		}
		*field = clean
	}
	return nil
}

// ListExecutions handles GET /sessions/{id}/executions.
func (s *Server) ListExecutions(w http.ResponseWriter, r *http.Request) {
	s.withBench(w, r, func(wb *lectern.Workbench) {
		s.writeJSON(w, http.StatusOK, wb.Workflows().GetExecutions())
	})
}

// GetExecution handles GET /sessions/{id}/executions/{executionID}.
func (s *Server) GetExecution(w http.ResponseWriter, r *http.Request) {
	s.withBench(w, r, func(wb *lectern.Workbench) {
		id := chi.URLParam(r, "executionID")
		exec, ok := wb.Workflows().GetExecution(id)
		if !ok {
			s.writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", domain.ErrExecutionNotFound, id))
			return
		}
		s.writeJSON(w, http.StatusOK, exec)
	})
}

// CancelExecution handles POST /sessions/{id}/executions/{executionID}/cancel.
// It answers 409 when the execution is no longer running.
func (s *Server) CancelExecution(w http.ResponseWriter, r *http.Request) {
	s.withBench(w, r, func(wb *lectern.Workbench) {
		id := chi.URLParam(r, "executionID")
		if _, ok := wb.Workflows().GetExecution(id); !ok {
			s.writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", domain.ErrExecutionNotFound, id))
			return
		}
		if !wb.Cancel(id) {
			s.writeError(w, http.StatusConflict, errors.New("execution is not running"))
			return
		}
		s.writeJSON(w, http.StatusAccepted, map[string]string{"status": string(domain.ExecutionCancelled)})
	})
}

// Suggest handles POST /sessions/{id}/suggest.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Total <= 0 {
		req.Total = 1
	}
	s.withBench(w, r, func(wb *lectern.Workbench) {
		if req.Realtime {
			s.writeJSON(w, http.StatusOK, wb.ContentChanged(req.Slide, req.Index, req.Total))
			return
		}
		s.writeJSON(w, http.StatusOK, wb.Suggest(req.Slide, req.Index, req.Total, req.Audience))
	})
}

// Analyze handles POST /sessions/{id}/analyze.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.withBench(w, r, func(wb *lectern.Workbench) {
		s.writeJSON(w, http.StatusOK, wb.Analyze(req.Slide))
	})
}

// Format handles POST /sessions/{id}/format.
func (s *Server) Format(w http.ResponseWriter, r *http.Request) {
	var req FormatRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Slides) == 0 {
		s.writeError(w, http.StatusBadRequest, workflow.ErrNoSlides)
		return
	}
	if req.Index != nil && (*req.Index < 0 || *req.Index >= len(req.Slides)) {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %d", workflow.ErrSlideIndex, *req.Index))
		return
	}

	s.withBench(w, r, func(wb *lectern.Workbench) {
		var resp FormatResponse
		if req.Index != nil {
			i := *req.Index
			slide, res := wb.FormatSlide(req.Slides[i], i, len(req.Slides))
			slides := domain.CloneSlides(req.Slides)
			slides[i] = slide
			resp = FormatResponse{Slides: slides, Result: res}
		} else {
			p, res := wb.FormatPresentation(domain.Presentation{Slides: req.Slides})
			resp = FormatResponse{Slides: p.Slides, Result: res}
		}
		if req.Preview {
			resp.Slides = nil
		}
		s.writeJSON(w, http.StatusOK, resp)
	})
}
