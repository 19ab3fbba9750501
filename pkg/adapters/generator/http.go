package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/lectern/pkg/domain"
)

// DefaultChatPath is the chat completions path of OpenAI-compatible servers.
const DefaultChatPath = "/v1/chat/completions"

// ErrEmptyCompletion is returned when the upstream answer has no content.
var ErrEmptyCompletion = errors.New("empty upstream completion")

// HTTPError reports a non-2xx upstream response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// HTTP generates content through an OpenAI-compatible chat completion API.
// The model is asked to answer with a JSON object {"content": ..., "slides": [...]}.
type HTTP struct {
	baseURL  string
	model    string
	apiKey   string
	chatPath string
	timeout  time.Duration
	client   *http.Client
}

// HTTPOption configures the HTTP generator.
type HTTPOption func(*HTTP)

// WithAPIKey sets the bearer token.
func WithAPIKey(key string) HTTPOption {
	return func(h *HTTP) { h.apiKey = strings.TrimSpace(key) }
}

// WithHTTPClient replaces the HTTP client (tests use a custom RoundTripper).
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTP) { h.client = c }
}

// WithTimeout bounds each request. Defaults to 60s.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) { h.timeout = d }
}

// WithChatPath overrides DefaultChatPath.
func WithChatPath(path string) HTTPOption {
	return func(h *HTTP) { h.chatPath = path }
}

// NewHTTP creates a generator for the server at baseURL.
func NewHTTP(baseURL, model string, opts ...HTTPOption) (*HTTP, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("generator: base url required")
	}
	h := &HTTP{
		baseURL:  baseURL,
		model:    model,
		chatPath: DefaultChatPath,
		timeout:  60 * time.Second,
		client:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature,omitempty"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content,omitempty"`
		} `json:"message,omitempty"`
		Text string `json:"text,omitempty"`
	} `json:"choices"`
}

// generatedPayload is what the model is instructed to return.
type generatedPayload struct {
	Content string         `json:"content"`
	Slides  []domain.Slide `json:"slides"`
	Error   string         `json:"error"`
}

const systemPrompt = `You write slide decks for an editor. Answer with a single JSON object:
{"content": string, "slides": [{"id": string, "title": string, "elements": [{"id": string, "type": string, "x": number, "y": number, "w": number, "h": number, "props": object}]}]}
Element types: title, heading, text, bullets, image, chart, quiz. Coordinates are on a 12x12 grid.
If you cannot fulfil the request, answer {"error": "<reason>"}.`

// Generate implements ports.ContentGenerator.
func (h *HTTP) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	prompt, err := userPrompt(req)
	if err != nil {
		return domain.GenerationResponse{}, err
	}
	body := chatCompletionRequest{
		Model: h.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    0.4,
		ResponseFormat: map[string]any{"type": "json_object"},
	}

	var resp chatCompletionResponse
	if err := h.doJSON(ctx, h.chatPath, body, &resp); err != nil {
		return domain.GenerationResponse{}, err
	}

	text := extractChatText(resp)
	if strings.TrimSpace(text) == "" {
		return domain.GenerationResponse{}, ErrEmptyCompletion
	}

	var payload generatedPayload
	if err := json.Unmarshal([]byte(sanitizeJSONText(text)), &payload); err != nil {
		return domain.GenerationResponse{Success: false, Error: "model returned invalid JSON: " + err.Error()}, nil
	}
	if payload.Error != "" {
		return domain.GenerationResponse{Success: false, Error: payload.Error}, nil
	}
	return domain.GenerationResponse{
		Success:  true,
		Content:  payload.Content,
		Slides:   payload.Slides,
		Metadata: map[string]any{"generator": "http", "model": h.model},
	}, nil
}

func userPrompt(req domain.GenerationRequest) (string, error) {
	brief := map[string]any{
		"type":     req.Type,
		"topic":    req.Context.Topic,
		"audience": req.Context.Audience,
		"options":  req.Options,
	}
	if len(req.Context.Extra) > 0 {
		brief["extra"] = req.Context.Extra
	}
	if len(req.Context.Slides) > 0 {
		brief["existing_slides"] = req.Context.Slides
	}
	b, err := json.Marshal(brief)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	return "Generate content for this brief:\n" + string(b), nil
}

func extractChatText(resp chatCompletionResponse) string {
	for _, c := range resp.Choices {
		if c.Message.Content != "" {
			return c.Message.Content
		}
		if c.Text != "" {
			return c.Text
		}
	}
	return ""
}

// sanitizeJSONText strips Markdown code fences some models wrap JSON in.
func sanitizeJSONText(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func (h *HTTP) doJSON(ctx context.Context, path string, body, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
