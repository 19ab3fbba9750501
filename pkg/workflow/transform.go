package workflow

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/google/uuid"
)

// Transform operations.
const (
	OpNormalizeText  = "normalize-text"
	OpEnsureIDs      = "ensure-ids"
	OpSortByPosition = "sort-by-position"
)

// DefaultMaxTextSize bounds a single text prop accepted by normalize-text.
const DefaultMaxTextSize = 10000

var (
	ErrUnknownOperation = errors.New("unknown transform operation")
	ErrTextTooLarge     = errors.New("text exceeds maximum allowed size")
)

// transformFunc rewrites slides in place and reports how many values changed.
type transformFunc func(slides []domain.Slide, p TransformParams) (int, error)

var transforms = map[string]transformFunc{
	OpNormalizeText:  normalizeText,
	OpEnsureIDs:      ensureIDs,
	OpSortByPosition: sortByPosition,
}

// Operations lists the supported transform operations.
func Operations() []string {
	out := make([]string, 0, len(transforms))
	for k := range transforms {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func handleTransform(_ context.Context, step domain.WorkflowStep, run *Run) (Output, error) {
	var p TransformParams
	if err := DecodeParams(step, &p); err != nil {
		return nil, err
	}
	ops := p.Operations
	if p.Operation != "" {
		ops = append([]string{p.Operation}, ops...)
	}
	if len(ops) == 0 {
		ops = []string{OpNormalizeText}
	}

	slides := domain.CloneSlides(run.Slides)
	out := TransformOutput{Operations: ops}
	for _, op := range ops {
		fn, ok := transforms[op]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
		}
		n, err := fn(slides, p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out.Changed += n
	}
	out.Slides = slides
	return out, nil
}

// NormalizeText validates UTF-8, strips control characters other than
// newline, tab and carriage return, and trims surrounding whitespace.
// Invalid byte sequences are replaced with U+FFFD.
func NormalizeText(s string, limit int) (string, error) {
	if limit > 0 && len(s) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrTextTooLarge, len(s), limit)
	}
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func normalizeText(slides []domain.Slide, p TransformParams) (int, error) {
	limit := p.MaxTextSize
	if limit <= 0 {
		limit = DefaultMaxTextSize
	}
	changed := 0
	norm := func(in string) (string, error) {
		out, err := NormalizeText(in, limit)
		if err == nil && out != in {
			changed++
		}
		return out, err
	}

	for i := range slides {
		if slides[i].Title != "" {
			t, err := norm(slides[i].Title)
			if err != nil {
				return changed, fmt.Errorf("slide '%s' title: %w", slides[i].ID, err)
			}
			slides[i].Title = t
		}
		for j := range slides[i].Elements {
			el := &slides[i].Elements[j]
			keys := make([]string, 0, len(el.Props))
			for key := range el.Props {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				switch val := el.Props[key].(type) {
				case string:
					t, err := norm(val)
					if err != nil {
						return changed, fmt.Errorf("element '%s' %s: %w", el.ID, key, err)
					}
					el.Props[key] = t
				case []any:
					for k, item := range val {
						if s, ok := item.(string); ok {
							t, err := norm(s)
							if err != nil {
								return changed, fmt.Errorf("element '%s' %s[%d]: %w", el.ID, key, k, err)
							}
							val[k] = t
						}
					}
				case []string:
					for k, s := range val {
						t, err := norm(s)
						if err != nil {
							return changed, fmt.Errorf("element '%s' %s[%d]: %w", el.ID, key, k, err)
						}
						val[k] = t
					}
				}
			}
		}
	}
	return changed, nil
}

func ensureIDs(slides []domain.Slide, _ TransformParams) (int, error) {
	changed := 0
	for i := range slides {
		if slides[i].ID == "" {
			slides[i].ID = uuid.NewString()
			changed++
		}
		for j := range slides[i].Elements {
			if slides[i].Elements[j].ID == "" {
				slides[i].Elements[j].ID = uuid.NewString()
				changed++
			}
		}
	}
	return changed, nil
}

// sortByPosition orders elements top-to-bottom, then left-to-right.
func sortByPosition(slides []domain.Slide, _ TransformParams) (int, error) {
	changed := 0
	for i := range slides {
		els := slides[i].Elements
		order := make([]int, len(els))
		for j := range order {
			order[j] = j
		}
		sort.SliceStable(order, func(a, b int) bool {
			ea, eb := &els[order[a]], &els[order[b]]
			if ea.Y != eb.Y {
				return ea.Y < eb.Y
			}
			return ea.X < eb.X
		})
		sorted := make([]domain.ContentElement, len(els))
		moved := false
		for j, k := range order {
			sorted[j] = els[k]
			if j != k {
				moved = true
			}
		}
		if moved {
			slides[i].Elements = sorted
			changed++
		}
	}
	return changed, nil
}
