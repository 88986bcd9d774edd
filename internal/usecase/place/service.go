package place

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/places/internal/domain"
	domplace "github.com/kailas-cloud/places/internal/domain/place"
	domquery "github.com/kailas-cloud/places/internal/domain/query"
	"github.com/kailas-cloud/places/internal/usecase/page"
)

// Service serves the places collection and single places.
type Service struct {
	repo     Repository
	compiler Compiler
	pages    PageBuilder
	reader   page.ReadChecker
	shaper   page.Shaper
	registry domquery.Registry
}

// New creates a places service answering collection queries against registry.
func New(
	repo Repository, compiler Compiler, pages PageBuilder,
	reader page.ReadChecker, shaper page.Shaper, registry domquery.Registry,
) *Service {
	return &Service{
		repo:     repo,
		compiler: compiler,
		pages:    pages,
		reader:   reader,
		shaper:   shaper,
		registry: registry,
	}
}

// Registry returns the collection parameters the service accepts.
func (s *Service) Registry() domquery.Registry {
	return s.registry
}

// List compiles p, runs the query and builds the requested page.
func (s *Service) List(ctx context.Context, p domquery.Params, req page.Request) (page.Result, error) {
	d, err := s.compiler.Compile(ctx, p, s.registry)
	if err != nil {
		return page.Result{}, fmt.Errorf("compile query: %w", err)
	}

	run, err := s.repo.Run(ctx, d)
	if err != nil {
		return page.Result{}, fmt.Errorf("run query: %w", err)
	}

	res, err := s.pages.Build(ctx, run, d, req)
	if err != nil {
		return page.Result{}, fmt.Errorf("build page: %w", err)
	}
	return res, nil
}

// Get returns one readable place. Unreadable places are reported as not found.
func (s *Service) Get(ctx context.Context, id int64, c domplace.Context) (domplace.Document, error) {
	if id <= 0 {
		return domplace.Document{}, fmt.Errorf("place %d: %w", id, domain.ErrNotFound)
	}

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return domplace.Document{}, fmt.Errorf("get place: %w", err)
	}
	if !s.reader.CanRead(&p, c) {
		return domplace.Document{}, fmt.Errorf("place %d: %w", id, domain.ErrNotFound)
	}

	doc, err := s.shaper.Shape(ctx, p, c)
	if err != nil {
		return domplace.Document{}, fmt.Errorf("shape place %d: %w", id, err)
	}
	return doc, nil
}
