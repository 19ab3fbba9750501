package ports

import (
	"context"

	"github.com/aretw0/lectern/pkg/domain"
)

// ContentGenerator produces text or slides from a topic description.
// Implementations usually call out of process and must honour ctx.
//
// A generator reports a refused or failed generation either by returning an
// error or by returning a response with Success == false and Error set.
type ContentGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error)
}

// GeneratorFunc adapts a function to ContentGenerator.
type GeneratorFunc func(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	return f(ctx, req)
}
