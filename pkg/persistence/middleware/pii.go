package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

type redactMiddleware struct {
	next     ports.ExecutionStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware masks element props whose key matches one of the
// patterns before an execution reaches the store. Slide notes are matched
// under the key "notes". Invalid patterns are reported at construction.
func NewRedactMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		patterns[i] = re
	}
	return func(next ports.ExecutionStore) ports.ExecutionStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *redactMiddleware) Save(ctx context.Context, exec *domain.WorkflowExecution) error {
	// The engine keeps using exec after archiving it.
	cloned := exec.Clone()
	if cloned.Results != nil {
		for i := range cloned.Results.Slides {
			m.maskSlide(&cloned.Results.Slides[i])
		}
	}
	return m.next.Save(ctx, cloned)
}

func (m *redactMiddleware) Load(ctx context.Context, id string) (*domain.WorkflowExecution, error) {
	return m.next.Load(ctx, id)
}

func (m *redactMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactMiddleware) maskSlide(s *domain.Slide) {
	if s.Notes != "" && m.matches("notes") {
		s.Notes = Mask
	}
	for i := range s.Elements {
		maskMap(s.Elements[i].Props, m.patterns)
	}
}

func (m *redactMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

func maskMap(props map[string]any, patterns []*regexp.Regexp) {
	for k, v := range props {
		masked := false
		for _, p := range patterns {
			if p.MatchString(k) {
				props[k] = Mask
				masked = true
				break
			}
		}
		if sub, ok := v.(map[string]any); ok && !masked {
			maskMap(sub, patterns)
		}
	}
}
