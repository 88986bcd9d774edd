package page

import (
	"context"

	"github.com/kailas-cloud/places/internal/domain/place"
	domquery "github.com/kailas-cloud/places/internal/domain/query"
)

// Counter returns the number of places matching a descriptor, ignoring paging.
type Counter interface {
	Count(ctx context.Context, d domquery.Descriptor) (int, error)
}

// ReadChecker decides whether a place may be shown in the request context.
type ReadChecker interface {
	CanRead(p *place.Place, c place.Context) bool
}

// Shaper turns a raw place into its response document.
type Shaper interface {
	Shape(ctx context.Context, p place.Place, c place.Context) (place.Document, error)
}
