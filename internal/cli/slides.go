package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/presentation/tui"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/formatting"
	"github.com/aretw0/lectern/pkg/workflow"
)

// SlideOptions configures the suggest, analyze and format commands.
type SlideOptions struct {
	Options
	DeckPath string
	// Slide selects one slide by zero-based index. Format treats -1 as the whole deck.
	Slide      int
	Audience   string
	OutputPath string
	Preview    bool
	JSON       bool
}

type slideJob struct {
	wb   *lectern.Workbench
	deck domain.Presentation
	s    Streams
	opts SlideOptions
}

func openSlideJob(ctx context.Context, opts SlideOptions, s Streams, getenv func(string) string, wholeDeck bool) (*slideJob, error) {
	cfg, logger, err := Setup(opts.Options, getenv)
	if err != nil {
		return nil, err
	}
	deck, err := LoadDeck(opts.DeckPath, s.In)
	if err != nil {
		return nil, err
	}
	if !(wholeDeck && opts.Slide < 0) && (opts.Slide < 0 || opts.Slide >= len(deck.Slides)) {
		return nil, fmt.Errorf("%w: %d (deck has %d slides)", workflow.ErrSlideIndex, opts.Slide, len(deck.Slides))
	}
	wb, err := NewWorkbench(ctx, opts.Options, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &slideJob{wb: wb, deck: deck, s: s, opts: opts}, nil
}

func (j *slideJob) emit(v any, markdown string) error {
	if j.opts.JSON {
		enc := json.NewEncoder(j.s.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	out, err := tui.RendererFor(j.s.Out)(markdown)
	if err != nil {
		return err
	}
	fmt.Fprint(j.s.Out, out)
	return nil
}

// Suggest prints the ranked suggestions for one slide.
func Suggest(ctx context.Context, opts SlideOptions, s Streams, getenv func(string) string) error {
	j, err := openSlideJob(ctx, opts, s, getenv, false)
	if err != nil {
		return err
	}
	res := j.wb.Suggest(j.deck.Slides[opts.Slide], opts.Slide, len(j.deck.Slides), opts.Audience)
	return j.emit(res, tui.SuggestionReport(res.Suggestions, res.Warnings))
}

// Analyze prints the quality scores of one slide.
func Analyze(ctx context.Context, opts SlideOptions, s Streams, getenv func(string) string) error {
	j, err := openSlideJob(ctx, opts, s, getenv, false)
	if err != nil {
		return err
	}
	a := j.wb.Analyze(j.deck.Slides[opts.Slide])
	return j.emit(a, tui.AnalysisReport(a))
}

// Format formats one slide or the whole deck on a copy and reports the changes.
// The formatted deck is written to OutputPath unless Preview is set.
func Format(ctx context.Context, opts SlideOptions, s Streams, getenv func(string) string) error {
	j, err := openSlideJob(ctx, opts, s, getenv, true)
	if err != nil {
		return err
	}

	var res formatting.Result
	formatted := j.deck
	if opts.Slide < 0 {
		formatted, res = j.wb.FormatPresentation(j.deck)
	} else {
		formatted.Slides = append([]domain.Slide(nil), j.deck.Slides...)
		formatted.Slides[opts.Slide], res = j.wb.FormatSlide(j.deck.Slides[opts.Slide], opts.Slide, len(j.deck.Slides))
	}

	if err := j.emit(res, tui.FormattingReport(res)); err != nil {
		return err
	}
	if opts.OutputPath != "" && !opts.Preview {
		return WriteDeck(opts.OutputPath, formatted, s.Out)
	}
	return nil
}
