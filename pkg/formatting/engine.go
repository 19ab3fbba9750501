package formatting

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/rules"
)

// Rule is a formatting rule. Apply receives a private copy of the element and
// returns the formatted element (usually the same pointer).
type Rule = rules.Rule[Context, *domain.ContentElement]

// RuleFunc builds a Rule from closures.
type RuleFunc = rules.Func[Context, *domain.ContentElement]

// Context is what formatting rules are evaluated against.
type Context struct {
	// Slide is the slide being formatted. Rules must treat it as read-only.
	Slide      *domain.Slide
	Position   domain.SlidePosition
	SlideIndex int
	SlideCount int
	Theme      Theme
}

// Theme carries the visual defaults rules fall back to.
type Theme struct {
	FontFamily      string  `json:"font_family" yaml:"fontFamily"`
	TextColor       string  `json:"text_color" yaml:"textColor"`
	TitleColor      string  `json:"title_color" yaml:"titleColor"`
	BackgroundColor string  `json:"background_color" yaml:"backgroundColor"`
	LineHeight      float64 `json:"line_height" yaml:"lineHeight"`
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	return Theme{
		FontFamily:      "Inter, sans-serif",
		TextColor:       "#1F2937",
		TitleColor:      "#111827",
		BackgroundColor: "#FFFFFF",
		LineHeight:      1.4,
	}
}

// Settings are the runtime toggles of the engine.
type Settings struct {
	EnableTypography    bool  `json:"enable_typography" yaml:"enableTypography"`
	EnableLayout        bool  `json:"enable_layout" yaml:"enableLayout"`
	EnableColors        bool  `json:"enable_colors" yaml:"enableColors"`
	EnableSpacing       bool  `json:"enable_spacing" yaml:"enableSpacing"`
	EnableAlignment     bool  `json:"enable_alignment" yaml:"enableAlignment"`
	PreserveUserChanges bool  `json:"preserve_user_changes" yaml:"preserveUserChanges"`
	ApplyToNewElements  bool  `json:"apply_to_new_elements" yaml:"applyToNewElements"`
	Theme               Theme `json:"theme" yaml:"theme"`
}

// DefaultSettings enables every category and applies to new elements.
func DefaultSettings() Settings {
	return Settings{
		EnableTypography:    true,
		EnableLayout:        true,
		EnableColors:        true,
		EnableSpacing:       true,
		EnableAlignment:     true,
		PreserveUserChanges: true,
		ApplyToNewElements:  true,
		Theme:               DefaultTheme(),
	}
}

// Gate maps the category toggles to a rule gate.
// Categories without a toggle are always enabled.
func (s Settings) Gate() rules.Gate {
	return func(c domain.Category) bool {
		switch c {
		case domain.CategoryTypography:
			return s.EnableTypography
		case domain.CategoryLayout:
			return s.EnableLayout
		case domain.CategoryColors:
			return s.EnableColors
		case domain.CategorySpacing:
			return s.EnableSpacing
		case domain.CategoryAlignment:
			return s.EnableAlignment
		}
		return true
	}
}

// Result is the outcome of a formatting run.
type Result struct {
	Success          bool                      `json:"success"`
	ElementsModified int                       `json:"elements_modified"`
	Changes          []domain.FormattingChange `json:"changes"`
	Warnings         []string                  `json:"warnings,omitempty"`
	Errors           []string                  `json:"errors,omitempty"`
}

func (r *Result) merge(other Result) {
	r.ElementsModified += other.ElementsModified
	r.Changes = append(r.Changes, other.Changes...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Errors = append(r.Errors, other.Errors...)
	r.Success = len(r.Errors) == 0
}

// Engine applies formatting rules. Create one per session.
type Engine struct {
	mu       sync.RWMutex
	settings Settings
	registry *rules.Registry[Context, *domain.ContentElement]
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

// WithSettings sets the initial toggles.
func WithSettings(s Settings) Option {
	return func(e *Engine) {
		e.settings = s
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

// New creates an Engine with the default rule catalog.
func New(opts ...Option) *Engine {
	e := &Engine{
		settings: DefaultSettings(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = rules.NewRegistry(DefaultRules()...)
	}
	return e
}

// Settings returns the current toggles.
func (e *Engine) Settings() Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.settings
}

// UpdateSettings mutates the toggles under the engine lock.
func (e *Engine) UpdateSettings(fn func(*Settings)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.settings)
}

// AddRule registers a rule, replacing any rule with the same ID.
func (e *Engine) AddRule(r Rule) { e.registry.Add(r) }

// RemoveRule unregisters a rule and reports whether it existed.
func (e *Engine) RemoveRule(id string) bool { return e.registry.Remove(id) }

// GetRules returns the rules in evaluation order.
func (e *Engine) GetRules() []Rule { return e.registry.Rules() }

// RuleInfos describes the rules in evaluation order.
func (e *Engine) RuleInfos() []rules.Info { return e.registry.Infos() }

// FormatSlide formats every element of slide in place.
// ctx.Slide is set to slide and an empty theme is replaced by the engine theme.
func (e *Engine) FormatSlide(slide *domain.Slide, ctx Context) Result {
	settings := e.Settings()
	ctx.Slide = slide
	if ctx.Theme == (Theme{}) {
		ctx.Theme = settings.Theme
	}
	active := e.registry.Enabled(settings.Gate())

	res := Result{Changes: []domain.FormattingChange{}}
	for i := range slide.Elements {
		el := &slide.Elements[i]

		if settings.PreserveUserChanges && el.BoolProp(domain.PropUserModified) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("element '%s' skipped: modified by user", el.ID))
			continue
		}
		if !settings.ApplyToNewElements && el.BoolProp(domain.PropIsNew) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("element '%s' skipped: new element", el.ID))
			continue
		}

		touched := false
		for _, rule := range active {
			ok, err := rules.Check(rule, el, ctx, el.ID)
			if err != nil {
				e.recordError(&res, rule.ID(), el.ID, err)
				continue
			}
			if !ok {
				continue
			}

			candidate := el.Clone()
			out, err := rules.Invoke(rule, &candidate, ctx, el.ID)
			if err == nil && out == nil {
				err = &domain.RuleApplicationError{RuleID: rule.ID(), ElementID: el.ID, Phase: rules.PhaseApply, Err: fmt.Errorf("rule returned no element")}
			}
			if err != nil {
				e.recordError(&res, rule.ID(), el.ID, err)
				continue
			}

			changes := domain.DiffElement(el, out, rule.Name())
			if len(changes) == 0 {
				continue
			}
			for j := range changes {
				changes[j].SlideID = slide.ID
			}
			*el = *out
			res.Changes = append(res.Changes, changes...)
			touched = true
		}
		if touched {
			res.ElementsModified++
		}
	}

	res.Success = len(res.Errors) == 0
	e.logger.Debug("slide formatted",
		"slide_id", slide.ID,
		"elements_modified", res.ElementsModified,
		"changes", len(res.Changes),
		"errors", len(res.Errors))
	return res
}

// FormatPresentation formats every slide in place, classifying each slide as
// title, content or conclusion by its index.
func (e *Engine) FormatPresentation(slides []domain.Slide, ctx Context) Result {
	total := Result{Success: true, Changes: []domain.FormattingChange{}}
	for i := range slides {
		c := ctx
		c.Position = domain.ClassifyPosition(i, len(slides))
		c.SlideIndex = i
		c.SlideCount = len(slides)
		total.merge(e.FormatSlide(&slides[i], c))
	}
	return total
}

// PreviewFormatting returns the changes FormatSlide would make without
// touching slide.
func (e *Engine) PreviewFormatting(slide domain.Slide, ctx Context) []domain.FormattingChange {
	cp := slide.Clone()
	return e.FormatSlide(&cp, ctx).Changes
}

// PreviewPresentation returns the changes FormatPresentation would make
// without touching slides.
func (e *Engine) PreviewPresentation(slides []domain.Slide, ctx Context) []domain.FormattingChange {
	return e.FormatPresentation(domain.CloneSlides(slides), ctx).Changes
}

func (e *Engine) recordError(res *Result, ruleID, elementID string, err error) {
	res.Errors = append(res.Errors, err.Error())
	e.logger.Warn("formatting rule failed", "rule_id", ruleID, "element_id", elementID, "err", err)
	if e.hooks.OnRuleError != nil {
		e.hooks.OnRuleError(context.Background(), &domain.RuleEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRuleError},
			Engine:    "formatting",
			RuleID:    ruleID,
			ElementID: elementID,
			Error:     err.Error(),
		})
	}
}
