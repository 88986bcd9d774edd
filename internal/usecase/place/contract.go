package place

import (
	"context"

	domplace "github.com/kailas-cloud/places/internal/domain/place"
	domquery "github.com/kailas-cloud/places/internal/domain/query"
	"github.com/kailas-cloud/places/internal/domain/taxonomy"
	"github.com/kailas-cloud/places/internal/usecase/page"
)

// Repository executes place queries.
type Repository interface {
	Run(ctx context.Context, d domquery.Descriptor) (domquery.Result, error)
	Get(ctx context.Context, id int64) (domplace.Place, error)
}

// Compiler turns request parameters into a query descriptor.
type Compiler interface {
	Compile(ctx context.Context, p domquery.Params, registered domquery.Registry) (domquery.Descriptor, error)
}

// PageBuilder assembles a paginated response from an executed query.
type PageBuilder interface {
	Build(ctx context.Context, run domquery.Result, d domquery.Descriptor, req page.Request) (page.Result, error)
}

// MediaResolver resolves attachment ids to image URLs.
type MediaResolver interface {
	ImageURLs(ctx context.Context, ids []int64, size string) (map[int64]string, error)
}

// TermReader reads the terms of a place.
type TermReader interface {
	ByPlace(ctx context.Context, placeID int64, tax string) ([]taxonomy.Term, error)
}
