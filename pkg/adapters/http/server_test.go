package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/pkg/adapters/generator"
	lhttp "github.com/aretw0/lectern/pkg/adapters/http"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/session"
	"github.com/aretw0/lectern/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *lhttp.StreamManager) {
	t.Helper()
	streams := lhttp.NewStreamManager()
	mgr := session.NewManager(func(ctx context.Context, id string) (*lectern.Workbench, error) {
		return lectern.New(ctx,
			lectern.WithName(id),
			lectern.WithGenerator(generator.NewTemplate()),
			lectern.WithLifecycleHooks(streams.Hooks(id)),
		)
	})
	srv := httptest.NewServer(lhttp.NewHandler(mgr, lhttp.WithStreams(streams)))
	t.Cleanup(srv.Close)
	return srv, streams
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func titleless() domain.Slide {
	return domain.Slide{ID: "s1", Elements: []domain.ContentElement{
		{ID: "b", Type: domain.ElementText, X: 1, Y: 3, W: 10, H: 4, Props: map[string]any{domain.PropText: "Body"}},
	}}
}

func TestServer_HealthInfoSchemas(t *testing.T) {
	srv, _ := newTestServer(t)

	var health map[string]string
	assert.Equal(t, http.StatusOK, doJSON(t, "GET", srv.URL+"/health", nil, &health))
	assert.Equal(t, "ok", health["status"])

	var info map[string]any
	assert.Equal(t, http.StatusOK, doJSON(t, "GET", srv.URL+"/info", nil, &info))
	assert.Equal(t, "lectern-http", info["app"])
	assert.Equal(t, strings.TrimSpace(lectern.Version), info["version"])

	var schemas map[string]map[string]string
	assert.Equal(t, http.StatusOK, doJSON(t, "GET", srv.URL+"/schemas", nil, &schemas))
	assert.Contains(t, schemas, domain.ElementTitle)
}

func TestServer_Workflows(t *testing.T) {
	srv, _ := newTestServer(t)
	base := srv.URL + "/sessions/s1"

	var all []domain.Workflow
	require.Equal(t, http.StatusOK, doJSON(t, "GET", base+"/workflows", nil, &all))
	assert.Len(t, all, len(workflow.DefaultWorkflows()))

	var gen []domain.Workflow
	require.Equal(t, http.StatusOK, doJSON(t, "GET", base+"/workflows?category=generation", nil, &gen))
	assert.Len(t, gen, 2)

	var none []domain.Workflow
	require.Equal(t, http.StatusOK, doJSON(t, "GET", base+"/workflows?q=nothing-matches-this", nil, &none))
	assert.Empty(t, none)

	var wf domain.Workflow
	require.Equal(t, http.StatusOK, doJSON(t, "GET", base+"/workflows/"+workflow.ImproveSlide, nil, &wf))
	assert.Equal(t, workflow.ImproveSlide, wf.ID)

	var e map[string]string
	assert.Equal(t, http.StatusNotFound, doJSON(t, "GET", base+"/workflows/missing", nil, &e))
	assert.Contains(t, e["error"], "workflow not found")

	var rules lhttp.RulesResponse
	require.Equal(t, http.StatusOK, doJSON(t, "GET", base+"/rules", nil, &rules))
	assert.NotEmpty(t, rules.Formatting)
	assert.NotEmpty(t, rules.Suggestion)
}

func TestServer_RunWorkflow(t *testing.T) {
	srv, _ := newTestServer(t)
	base := srv.URL + "/sessions/run"

	// 1. Run
	var exec domain.WorkflowExecution
	status := doJSON(t, "POST", base+"/workflows/"+workflow.CreatePresentation+"/run",
		workflow.Context{Topic: "  Comets\x00 "}, &exec)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.ExecutionCompleted, exec.Status)
	require.NotNil(t, exec.Results)
	assert.Equal(t, "Comets", exec.Results.Slides[0].Title)

	// 2. Log
	var list []domain.WorkflowExecution
	require.Equal(t, http.StatusOK, doJSON(t, "GET", base+"/executions", nil, &list))
	require.Len(t, list, 1)

	var one domain.WorkflowExecution
	require.Equal(t, http.StatusOK, doJSON(t, "GET", base+"/executions/"+exec.ID, nil, &one))
	assert.Equal(t, exec.ID, one.ID)

	// 3. Finished executions cannot be cancelled
	assert.Equal(t, http.StatusConflict, doJSON(t, "POST", base+"/executions/"+exec.ID+"/cancel", nil, nil))
	assert.Equal(t, http.StatusNotFound, doJSON(t, "POST", base+"/executions/nope/cancel", nil, nil))

	// 4. Failures
	var failed domain.WorkflowExecution
	require.Equal(t, http.StatusOK, doJSON(t, "POST", base+"/workflows/"+workflow.QuickOutline+"/run", workflow.Context{}, &failed))
	assert.Equal(t, domain.ExecutionFailed, failed.Status)
	assert.NotEmpty(t, failed.Error)

	assert.Equal(t, http.StatusNotFound, doJSON(t, "POST", base+"/workflows/missing/run", workflow.Context{}, nil))

	req, _ := http.NewRequest("POST", base+"/workflows/"+workflow.QuickOutline+"/run", strings.NewReader("{"))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	huge := workflow.Context{Topic: strings.Repeat("x", workflow.DefaultMaxTextSize+1)}
	assert.Equal(t, http.StatusRequestEntityTooLarge, doJSON(t, "POST", base+"/workflows/"+workflow.QuickOutline+"/run", huge, nil))

	// 5. Delete drops the log
	assert.Equal(t, http.StatusNoContent, doJSON(t, "DELETE", base+"/", nil, nil))
	var after []domain.WorkflowExecution
	require.Equal(t, http.StatusOK, doJSON(t, "GET", base+"/executions", nil, &after))
	assert.Empty(t, after)
}

func TestServer_SuggestAnalyzeFormat(t *testing.T) {
	srv, _ := newTestServer(t)
	base := srv.URL + "/sessions/edit"

	var sug struct {
		Suggestions []domain.Suggestion `json:"suggestions"`
	}
	require.Equal(t, http.StatusOK, doJSON(t, "POST", base+"/suggest",
		lhttp.SuggestRequest{Slide: titleless(), Index: 1, Total: 3}, &sug))
	var ids []string
	for _, s := range sug.Suggestions {
		ids = append(ids, s.ID)
	}
	assert.Contains(t, ids, "add-title")

	var analysis domain.ContentAnalysis
	require.Equal(t, http.StatusOK, doJSON(t, "POST", base+"/analyze", lhttp.AnalyzeRequest{Slide: titleless()}, &analysis))
	assert.NotEmpty(t, analysis.Accessibility)

	var formatted lhttp.FormatResponse
	require.Equal(t, http.StatusOK, doJSON(t, "POST", base+"/format",
		lhttp.FormatRequest{Slides: []domain.Slide{titleless()}}, &formatted))
	require.Len(t, formatted.Slides, 1)
	assert.True(t, formatted.Result.Success)
	assert.NotEmpty(t, formatted.Result.Changes)

	idx := 0
	var preview lhttp.FormatResponse
	require.Equal(t, http.StatusOK, doJSON(t, "POST", base+"/format",
		lhttp.FormatRequest{Slides: []domain.Slide{titleless()}, Index: &idx, Preview: true}, &preview))
	assert.Empty(t, preview.Slides)
	assert.Equal(t, formatted.Result.Changes, preview.Result.Changes)

	bad := 4
	assert.Equal(t, http.StatusBadRequest, doJSON(t, "POST", base+"/format",
		lhttp.FormatRequest{Slides: []domain.Slide{titleless()}, Index: &bad}, nil))
	assert.Equal(t, http.StatusBadRequest, doJSON(t, "POST", base+"/format", lhttp.FormatRequest{}, nil))
}

func TestServer_SubscribeEvents(t *testing.T) {
	srv, streams := newTestServer(t)

	// 1. Subscribe
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events?session_id=live&watch=execution", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 64)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()
	require.Eventually(t, func() bool { return streams.Subscribers("live") == 1 }, time.Second, 10*time.Millisecond)

	// 2. Trigger a run in the same session
	require.Equal(t, http.StatusOK, doJSON(t, "POST", srv.URL+"/sessions/live/workflows/"+workflow.QuickOutline+"/run",
		workflow.Context{Topic: "Stars"}, nil))

	// 3. Only execution events pass the filter
	var data []string
	timeout := time.After(2 * time.Second)
	for len(data) < 2 {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream closed early")
			if strings.HasPrefix(line, "data: ") && line != "data: connected" {
				data = append(data, strings.TrimPrefix(line, "data: "))
			}
		case <-timeout:
			t.Fatalf("timed out waiting for events, got %v", data)
		}
	}
	assert.Contains(t, data[0], `"type":"execution_start"`)
	assert.Contains(t, data[1], `"type":"execution_finish"`)
	for _, d := range data {
		assert.NotContains(t, d, `"type":"step_`)
	}
}

func TestServer_SubscribeEventsRequiresSession(t *testing.T) {
	srv, _ := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, "GET", srv.URL+"/events", nil, nil))
}

func TestStreamManager_DropsWhenFull(t *testing.T) {
	sm := lhttp.NewStreamManager()
	ch, cancel := sm.Subscribe("s")
	for i := 0; i < 100; i++ {
		sm.Broadcast("s", "x")
	}
	assert.Equal(t, 32, len(ch))
	cancel()
	cancel() // idempotent
	assert.Equal(t, 0, sm.Subscribers("s"))
}
