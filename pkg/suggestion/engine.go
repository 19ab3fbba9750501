package suggestion

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/rules"
)

// Rule is a suggestion rule. Apply receives a seed suggestion pre-filled with
// the rule's identity and returns it completed.
type Rule = rules.Rule[Context, domain.Suggestion]

// RuleFunc builds a Rule from closures.
type RuleFunc = rules.Func[Context, domain.Suggestion]

// AutoApplyThreshold is the minimum confidence for a suggestion to be applied
// without user confirmation when Config.AutoApply is on.
const AutoApplyThreshold = 0.9

// Context is what suggestion rules are evaluated against.
type Context struct {
	Slide      domain.Slide         `json:"slide"`
	Position   domain.SlidePosition `json:"position,omitempty"`
	SlideIndex int                  `json:"slide_index"`
	SlideCount int                  `json:"slide_count"`
	Audience   string               `json:"audience,omitempty"`
}

// ForSlide builds a Context for the slide at index within a deck of total slides.
func ForSlide(slide domain.Slide, index, total int) Context {
	return Context{
		Slide:      slide,
		Position:   domain.ClassifyPosition(index, total),
		SlideIndex: index,
		SlideCount: total,
	}
}

// Config is the runtime-mutable engine configuration.
type Config struct {
	EnableRealTime bool `json:"enable_real_time" yaml:"enableRealTime"`
	// Categories limits evaluation to the listed categories. Empty enables all.
	Categories     []domain.Category `json:"categories" yaml:"categories"`
	MaxSuggestions int               `json:"max_suggestions" yaml:"maxSuggestions"`
	MinConfidence  float64           `json:"min_confidence" yaml:"minConfidence"`
	AutoApply      bool              `json:"auto_apply" yaml:"autoApply"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		EnableRealTime: true,
		Categories: []domain.Category{
			domain.CategoryContent,
			domain.CategoryLayout,
			domain.CategoryStyle,
			domain.CategoryAccessibility,
			domain.CategoryEngagement,
		},
		MaxSuggestions: 5,
		MinConfidence:  0.6,
		AutoApply:      false,
	}
}

func (c Config) clone() Config {
	c.Categories = append([]domain.Category(nil), c.Categories...)
	return c
}

// Result is the outcome of a suggestion pass.
type Result struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// RealtimeResult is returned by OnContentChanged.
type RealtimeResult struct {
	Result
	// Applied lists suggestions that were auto-applied to Slide.
	Applied []domain.Suggestion `json:"applied,omitempty"`
	// Slide is the updated copy when at least one suggestion was applied.
	Slide *domain.Slide `json:"slide,omitempty"`
}

// Engine evaluates suggestion rules. Create one per session.
type Engine struct {
	mu       sync.RWMutex
	config   Config
	registry *rules.Registry[Context, domain.Suggestion]
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// Option configures the Engine.
type Option func(*Engine)

// WithRules replaces the default rule catalog.
func WithRules(rs ...Rule) Option {
	return func(e *Engine) {
		e.registry = rules.NewRegistry(rs...)
	}
}

// WithConfig sets the initial configuration.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.config = cfg.clone()
	}
}

// WithLogger configures a logger for the Engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHooks registers lifecycle hooks. Only OnRuleError is used.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// New creates an Engine with the default rule catalog and configuration.
func New(opts ...Option) *Engine {
	e := &Engine{
		config: DefaultConfig(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = rules.NewRegistry(DefaultRules()...)
	}
	return e
}

// Config returns a copy of the current configuration.
func (e *Engine) Config() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config.clone()
}

// SetConfig replaces the configuration.
func (e *Engine) SetConfig(cfg Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config = cfg.clone()
}

// UpdateConfig mutates the configuration under the engine lock.
func (e *Engine) UpdateConfig(fn func(*Config)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.config)
}

// AddRule registers a rule, replacing any rule with the same ID.
func (e *Engine) AddRule(r Rule) { e.registry.Add(r) }

// RemoveRule unregisters a rule and reports whether it existed.
func (e *Engine) RemoveRule(id string) bool { return e.registry.Remove(id) }

// GetRules returns the rules in evaluation order.
func (e *Engine) GetRules() []Rule { return e.registry.Rules() }

// RuleInfos describes the rules in evaluation order.
func (e *Engine) RuleInfos() []rules.Info { return e.registry.Infos() }

// GenerateSuggestions evaluates every enabled rule against ctx.
// The slide in ctx is never mutated.
func (e *Engine) GenerateSuggestions(ctx Context) Result {
	cfg := e.Config()
	ruleCtx := ctx
	ruleCtx.Slide = ctx.Slide.Clone()

	var res Result
	candidates := make([]domain.Suggestion, 0)

	for _, rule := range e.registry.Enabled(rules.AllowList(cfg.Categories...)) {
		seed := Seed(rule)
		s, matched, err := rules.Evaluate(rule, seed, ruleCtx, "")
		if err != nil {
			res.Warnings = append(res.Warnings, err.Error())
			e.reportRuleError(rule.ID(), err)
			continue
		}
		if !matched {
			continue
		}
		candidates = append(candidates, finalize(rule, s))
	}

	filtered := candidates[:0]
	for _, s := range candidates {
		if s.Confidence >= cfg.MinConfidence {
			filtered = append(filtered, s)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Priority != filtered[j].Priority {
			return filtered[i].Priority > filtered[j].Priority
		}
		return filtered[i].Confidence > filtered[j].Confidence
	})

	limit := cfg.MaxSuggestions
	if limit < 0 {
		limit = 0
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	res.Suggestions = filtered

	e.logger.Debug("suggestions generated",
		"slide_id", ctx.Slide.ID,
		"count", len(res.Suggestions),
		"warnings", len(res.Warnings))
	return res
}

// OnContentChanged is the realtime entry point. It does nothing when realtime
// evaluation is disabled. With AutoApply enabled, suggestions at or above
// AutoApplyThreshold are applied to a copy of the slide.
func (e *Engine) OnContentChanged(ctx Context) RealtimeResult {
	cfg := e.Config()
	if !cfg.EnableRealTime {
		return RealtimeResult{}
	}

	out := RealtimeResult{Result: e.GenerateSuggestions(ctx)}
	if !cfg.AutoApply {
		return out
	}

	slide := ctx.Slide.Clone()
	for _, s := range out.Suggestions {
		if s.Confidence < AutoApplyThreshold || !CanApply(s) {
			continue
		}
		next, err := ApplySuggestion(slide, s)
		if err != nil {
			out.Warnings = append(out.Warnings, err.Error())
			continue
		}
		slide = next
		out.Applied = append(out.Applied, s)
	}
	if len(out.Applied) > 0 {
		out.Slide = &slide
	}
	return out
}

// Seed returns the suggestion a rule starts from.
func Seed(rule Rule) domain.Suggestion {
	return domain.Suggestion{
		ID:       rule.ID(),
		RuleID:   rule.ID(),
		Type:     string(rule.Category()),
		Category: rule.Category(),
		Priority: rule.Priority(),
	}
}

// finalize enforces the identity fields a rule may not override.
func finalize(rule Rule, s domain.Suggestion) domain.Suggestion {
	if s.ID == "" {
		s.ID = rule.ID()
	}
	s.RuleID = rule.ID()
	s.Category = rule.Category()
	s.Priority = rule.Priority()
	if s.Type == "" {
		s.Type = string(rule.Category())
	}
	s.Confidence = clamp01(s.Confidence)
	return s
}

func (e *Engine) reportRuleError(ruleID string, err error) {
	e.logger.Warn("suggestion rule failed", "rule_id", ruleID, "err", err)
	if e.hooks.OnRuleError != nil {
		e.hooks.OnRuleError(context.Background(), &domain.RuleEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRuleError},
			Engine:    "suggestion",
			RuleID:    ruleID,
			Error:     err.Error(),
		})
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
