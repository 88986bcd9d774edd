package query

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/places/internal/domain"
	"github.com/kailas-cloud/places/internal/domain/place"
	domquery "github.com/kailas-cloud/places/internal/domain/query"
	logpkg "github.com/kailas-cloud/places/internal/logger"
)

// mapping copies one registered-and-present parameter onto the descriptor.
type mapping struct {
	param string
	apply func(d *domquery.Descriptor, p domquery.Params, name string)
}

// directMappings lists parameters whose values are accepted as passed.
var directMappings = []mapping{
	{domquery.ParamAuthor, func(d *domquery.Descriptor, p domquery.Params, n string) {
		d.AuthorIn = slices.Clone(p.IntList(n))
	}},
	{domquery.ParamAuthorExclude, func(d *domquery.Descriptor, p domquery.Params, n string) {
		d.AuthorNotIn = slices.Clone(p.IntList(n))
	}},
	{domquery.ParamExclude, func(d *domquery.Descriptor, p domquery.Params, n string) {
		d.ExcludeIDs = slices.Clone(p.IntList(n))
	}},
	{domquery.ParamInclude, func(d *domquery.Descriptor, p domquery.Params, n string) {
		d.IncludeIDs = slices.Clone(p.IntList(n))
	}},
	{domquery.ParamMenuOrder, func(d *domquery.Descriptor, p domquery.Params, n string) {
		if v, ok := p.Int(n); ok {
			d.MenuOrder = &v
		}
	}},
	{domquery.ParamOffset, func(d *domquery.Descriptor, p domquery.Params, n string) {
		if v, ok := p.Int(n); ok {
			d.Offset = &v
		}
	}},
	{domquery.ParamOrder, func(d *domquery.Descriptor, p domquery.Params, n string) {
		d.Order = domquery.Order(strings.ToLower(p.String(n)))
	}},
	{domquery.ParamOrderBy, func(d *domquery.Descriptor, p domquery.Params, n string) {
		d.OrderBy = domquery.OrderBy(p.String(n))
	}},
	{domquery.ParamPage, func(d *domquery.Descriptor, p domquery.Params, n string) {
		if v, ok := p.Int(n); ok {
			d.Page = v
		}
	}},
	{domquery.ParamParent, func(d *domquery.Descriptor, p domquery.Params, n string) {
		d.ParentIn = slices.Clone(p.IntList(n))
	}},
	{domquery.ParamParentExclude, func(d *domquery.Descriptor, p domquery.Params, n string) {
		d.ParentNotIn = slices.Clone(p.IntList(n))
	}},
	{domquery.ParamSearch, func(d *domquery.Descriptor, p domquery.Params, n string) {
		d.Search = p.String(n)
	}},
	{domquery.ParamSlug, func(d *domquery.Descriptor, p domquery.Params, n string) {
		d.Slugs = slices.Clone(p.StringList(n))
	}},
	{domquery.ParamStatus, func(d *domquery.Descriptor, p domquery.Params, n string) {
		d.Statuses = slices.Clone(p.StringList(n))
	}},
}

// dateMappings lists the optional date filters in the order they are appended.
var dateMappings = []struct {
	param  string
	column domquery.DateColumn
	bound  domquery.DateBound
}{
	{domquery.ParamBefore, domquery.ColumnCreated, domquery.BoundBefore},
	{domquery.ParamModifiedBefore, domquery.ColumnModified, domquery.BoundBefore},
	{domquery.ParamAfter, domquery.ColumnCreated, domquery.BoundAfter},
	{domquery.ParamModifiedAfter, domquery.ColumnModified, domquery.BoundAfter},
}

// Compiler turns request parameters into a validated query descriptor.
type Compiler struct {
	sticky   StickyProvider
	taxonomy TaxonomyTranslator
	hooks    []Hook
}

// New creates a compiler. Both collaborators may be nil.
func New(sticky StickyProvider, taxonomy TaxonomyTranslator) *Compiler {
	return &Compiler{sticky: sticky, taxonomy: taxonomy}
}

// WithHooks appends descriptor hooks, applied in order.
func (c *Compiler) WithHooks(hooks ...Hook) *Compiler {
	c.hooks = append(c.hooks, hooks...)
	return c
}

// Compile validates p and builds the descriptor.
// Only parameters present in registered are read; the item type is always forced to places.
func (c *Compiler) Compile(
	ctx context.Context, p domquery.Params, registered domquery.Registry,
) (domquery.Descriptor, error) {
	if err := prevalidate(p); err != nil {
		return domquery.Descriptor{}, err
	}

	var d domquery.Descriptor
	for _, m := range directMappings {
		if registered.IsRegistered(m.param) && p.IsPresent(m.param) {
			m.apply(&d, p, m.param)
		}
	}

	// per_page overrides any other page size source, present or not.
	if registered.IsRegistered(domquery.ParamPerPage) {
		d.PageSize, _ = p.Int(domquery.ParamPerPage)
	}

	for _, m := range dateMappings {
		if !registered.IsRegistered(m.param) {
			continue
		}
		if ts, ok := p.Time(m.param); ok {
			d.DateFilters = append(d.DateFilters, domquery.DateFilter{
				Column:    m.column,
				Bound:     m.bound,
				Timestamp: ts,
			})
		}
	}

	if registered.IsRegistered(domquery.ParamSticky) && p.IsPresent(domquery.ParamSticky) {
		if err := c.applySticky(ctx, &d, p); err != nil {
			return domquery.Descriptor{}, err
		}
	}

	if c.taxonomy != nil {
		tq, err := c.taxonomy.Translate(p, registered)
		if err != nil {
			return domquery.Descriptor{}, fmt.Errorf("translate taxonomy params: %w", err)
		}
		d.TaxQuery = tq
	}

	for _, h := range c.hooks {
		if err := h.Apply(ctx, &d, p); err != nil {
			return domquery.Descriptor{}, fmt.Errorf("query hook: %w", err)
		}
	}

	d.PostType = place.PostType
	return d, nil
}

// prevalidate rejects ordering modes that lack their companion parameter.
func prevalidate(p domquery.Params) error {
	switch domquery.OrderBy(p.String(domquery.ParamOrderBy)) {
	case domquery.OrderByRelevance:
		if p.String(domquery.ParamSearch) == "" {
			return fmt.Errorf("orderby relevance: %w", domain.ErrMissingSearchTerm)
		}
	case domquery.OrderByInclude:
		if len(p.IntList(domquery.ParamInclude)) == 0 {
			return fmt.Errorf("orderby include: %w", domain.ErrMissingIncludeList)
		}
	}
	return nil
}

// applySticky restricts to or excludes the sticky list.
func (c *Compiler) applySticky(ctx context.Context, d *domquery.Descriptor, p domquery.Params) error {
	var sticky []int64
	if c.sticky != nil {
		ids, err := c.sticky.IDs(ctx)
		if err != nil {
			return fmt.Errorf("load sticky ids: %w", err)
		}
		sticky = ids
	}

	flag, _ := p.Bool(domquery.ParamSticky)
	d.Sticky = &flag

	if flag {
		if len(d.IncludeIDs) > 0 {
			d.IncludeIDs = intersect(sticky, d.IncludeIDs)
		} else {
			d.IncludeIDs = slices.Clone(sticky)
		}
		// An empty include list means "unfiltered" downstream.
		if len(d.IncludeIDs) == 0 {
			d.IncludeIDs = []int64{domquery.NoMatchID}
		}
		return nil
	}

	if len(sticky) > 0 {
		d.ExcludeIDs = union(d.ExcludeIDs, sticky)
	}
	return nil
}

// intersect keeps the elements of a that are also in b, in a's order.
func intersect(a, b []int64) []int64 {
	in := make(map[int64]struct{}, len(b))
	for _, id := range b {
		in[id] = struct{}{}
	}
	out := make([]int64, 0, len(a))
	for _, id := range a {
		if _, ok := in[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// union appends the elements of b missing from a.
func union(a, b []int64) []int64 {
	seen := make(map[int64]struct{}, len(a)+len(b))
	out := make([]int64, 0, len(a)+len(b))
	for _, ids := range [][]int64{a, b} {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// LogHook logs the compiled descriptor at debug level with the request logger.
func LogHook() Hook {
	return HookFunc(func(ctx context.Context, d *domquery.Descriptor, _ domquery.Params) error {
		logpkg.FromContext(ctx).Debug("places query compiled",
			zap.Int64s("include", d.IncludeIDs),
			zap.Int64s("exclude", d.ExcludeIDs),
			zap.String("search", d.Search),
			zap.String("orderby", string(d.OrderBy)),
			zap.String("order", string(d.Order)),
			zap.Int("page", d.Page),
			zap.Int("per_page", d.PageSize),
			zap.Int("date_filters", len(d.DateFilters)),
			zap.Int("tax_clauses", len(d.TaxQuery.Clauses)),
		)
		return nil
	})
}
