package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/loam"
)

// Loader adapts the Loam library to the Lectern WorkflowLoader interface.
// Every document in the repository is one workflow; a Markdown body becomes
// the description when the frontmatter has none.
type Loader struct {
	Repo *loam.TypedRepository[WorkflowMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[WorkflowMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at dir and wraps it.
func Open(dir string) (*Loader, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	repo, err := loam.Init(abs,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("open workflow repository %s: %w", dir, err)
	}
	return New(loam.NewTypedRepository[WorkflowMetadata](repo)), nil
}

// LoadWorkflows lists every workflow document, sorted by ID.
func (l *Loader) LoadWorkflows(ctx context.Context) ([]domain.Workflow, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	out := make([]domain.Workflow, 0, len(docs))
	for _, listed := range docs {
		// List carries metadata only; Get returns the body too.
		doc, err := l.Repo.Get(ctx, listed.ID)
		if err != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", listed.ID, err)
		}
		w := toWorkflow(listed.ID, doc.Data, doc.Content)

		// Collision Detection
		if existingPath, ok := seen[w.ID]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", w.ID, existingPath, listed.ID)
		}
		seen[w.ID] = listed.ID
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetWorkflow loads a single workflow by ID (with or without extension).
func (l *Loader) GetWorkflow(ctx context.Context, id string) (domain.Workflow, error) {
	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		return domain.Workflow{}, fmt.Errorf("loam get failed for %s: %w", id, err)
	}
	return toWorkflow(doc.ID, doc.Data, doc.Content), nil
}

func toWorkflow(docID string, meta WorkflowMetadata, content string) domain.Workflow {
	rawID := meta.ID
	if rawID == "" {
		rawID = docID
	}
	w := domain.Workflow{
		ID:          trimExtension(rawID),
		Name:        meta.Name,
		Description: meta.Description,
		Category:    meta.Category,
		Tags:        meta.Tags,
	}
	if w.Name == "" {
		w.Name = w.ID
	}
	if w.Description == "" {
		w.Description = strings.TrimSpace(content)
	}

	w.Steps = make([]domain.WorkflowStep, 0, len(meta.Steps))
	for _, s := range meta.Steps {
		deps := append([]string(nil), s.Dependencies...)
		deps = append(deps, s.DependsOn...)
		if s.After != "" {
			deps = append(deps, s.After)
		}
		name := s.Name
		if name == "" {
			name = s.ID
		}
		w.Steps = append(w.Steps, domain.WorkflowStep{
			ID:           s.ID,
			Name:         name,
			Type:         domain.StepType(strings.ToLower(s.Type)),
			Parameters:   s.Parameters,
			Dependencies: deps,
			Optional:     s.Optional,
		})
	}
	return w
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch streams the IDs of changed workflow documents until ctx is done.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
