package page

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/kailas-cloud/places/internal/domain"
	"github.com/kailas-cloud/places/internal/domain/place"
	domquery "github.com/kailas-cloud/places/internal/domain/query"
	"github.com/kailas-cloud/places/internal/metrics"
)

// Request carries the parts of the HTTP request the builder needs.
type Request struct {
	// BaseURL is the absolute collection URL without a query string.
	BaseURL string
	Query   url.Values
	Context place.Context
}

// Result is one page of shaped places with its pagination metadata.
type Result struct {
	Items      []place.Document
	Total      int
	TotalPages int
	Page       int
	// Prev and Next are empty when the link is absent.
	Prev string
	Next string
}

// Builder assembles a paginated response from an executed query.
type Builder struct {
	counter Counter
	reader  ReadChecker
	shaper  Shaper
}

// New creates a page builder.
func New(counter Counter, reader ReadChecker, shaper Shaper) *Builder {
	return &Builder{counter: counter, reader: reader, shaper: shaper}
}

// Build shapes the readable places of run and computes totals and links.
func (b *Builder) Build(
	ctx context.Context, run domquery.Result, d domquery.Descriptor, req Request,
) (Result, error) {
	items := make([]place.Document, 0, len(run.Places))
	for i := range run.Places {
		p := &run.Places[i]
		if !b.reader.CanRead(p, req.Context) {
			metrics.DroppedItemsTotal.Inc()
			continue
		}
		doc, err := b.shaper.Shape(ctx, *p, req.Context)
		if err != nil {
			return Result{}, fmt.Errorf("shape place %d: %w", p.ID, err)
		}
		items = append(items, doc)
	}

	total := run.Found
	if total < 1 {
		// The windowed count is 0 for any empty page, including pages past the end.
		metrics.RecountTotal.Inc()
		n, err := b.counter.Count(ctx, d)
		if err != nil {
			return Result{}, fmt.Errorf("recount places: %w", err)
		}
		total = n
	}

	size := effectivePageSize(run, d)
	totalPages := (total + size - 1) / size
	current := d.CurrentPage()

	if current > totalPages && total > 0 {
		metrics.PageOutOfRangeTotal.Inc()
		return Result{}, &domain.PageOutOfRangeError{Page: current, TotalPages: totalPages}
	}

	res := Result{
		Items:      items,
		Total:      total,
		TotalPages: totalPages,
		Page:       current,
	}
	if current > 1 {
		res.Prev = pageLink(req.BaseURL, req.Query, min(current-1, totalPages))
	}
	if totalPages > current {
		res.Next = pageLink(req.BaseURL, req.Query, current+1)
	}
	return res, nil
}

// effectivePageSize prefers the size the executor applied over the requested one.
func effectivePageSize(run domquery.Result, d domquery.Descriptor) int {
	switch {
	case run.PageSize > 0:
		return run.PageSize
	case d.PageSize > 0:
		return d.PageSize
	default:
		return domquery.DefaultPerPage
	}
}

// pageLink clones q and overwrites only the page number.
func pageLink(base string, q url.Values, n int) string {
	v := make(url.Values, len(q)+1)
	for k, vals := range q {
		v[k] = append([]string(nil), vals...)
	}
	v.Del(domquery.ParamPage + "[]")
	v.Set(domquery.ParamPage, strconv.Itoa(n))
	return base + "?" + v.Encode()
}
