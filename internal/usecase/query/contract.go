package query

import (
	"context"

	domquery "github.com/kailas-cloud/places/internal/domain/query"
)

// StickyProvider returns the ids of pinned places.
// An empty list means nothing is pinned; errors fail the compilation.
type StickyProvider interface {
	IDs(ctx context.Context) ([]int64, error)
}

// TaxonomyTranslator turns taxonomy parameters into a TaxQuery.
type TaxonomyTranslator interface {
	Translate(p domquery.Params, registered domquery.Registry) (domquery.TaxQuery, error)
}

// Hook observes or mutates a descriptor before it is finalized.
type Hook interface {
	Apply(ctx context.Context, d *domquery.Descriptor, p domquery.Params) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, d *domquery.Descriptor, p domquery.Params) error

// Apply calls f.
func (f HookFunc) Apply(ctx context.Context, d *domquery.Descriptor, p domquery.Params) error {
	return f(ctx, d, p)
}
