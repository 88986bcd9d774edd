package place

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/places/internal/db"
	"github.com/kailas-cloud/places/internal/domain"
	domplace "github.com/kailas-cloud/places/internal/domain/place"
	domquery "github.com/kailas-cloud/places/internal/domain/query"
	"github.com/kailas-cloud/places/internal/metrics"
)

// querier is the consumer interface over a pgx pool (ISP).
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var columns = []string{
	"p.id", "p.post_type", "p.author_id", "p.parent_id", "p.slug", "p.title",
	"p.content", "p.excerpt", "p.status", "p.menu_order", "p.created_at",
	"p.modified_at", "p.meta",
}

// Repo executes compiled descriptors against Postgres.
type Repo struct {
	q               querier
	defaultPageSize int
	maxPageSize     int
}

// New creates a place repository. Non-positive sizes fall back to the registry defaults.
func New(q querier, defaultPageSize, maxPageSize int) *Repo {
	if defaultPageSize <= 0 {
		defaultPageSize = domquery.DefaultPerPage
	}
	if maxPageSize <= 0 {
		maxPageSize = domquery.MaxPerPage
	}
	return &Repo{q: q, defaultPageSize: defaultPageSize, maxPageSize: maxPageSize}
}

// Run executes d and returns one page with the windowed match count.
func (r *Repo) Run(ctx context.Context, d domquery.Descriptor) (domquery.Result, error) {
	defer observe("run", time.Now())

	b, size := r.runQuery(d)
	query, args, err := b.ToSql()
	if err != nil {
		return domquery.Result{}, &db.Error{Op: db.OpBuildQuery, Err: err}
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return domquery.Result{}, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer rows.Close()

	res := domquery.Result{Places: []domplace.Place{}, PageSize: size}
	for rows.Next() {
		var (
			p     domplace.Place
			meta  []byte
			found int64
		)
		if err := rows.Scan(placeFields(&p, &meta, &found)...); err != nil {
			return domquery.Result{}, &db.Error{Op: db.OpQuery, Err: fmt.Errorf("scan: %w", err)}
		}
		if p.Meta, err = domplace.ParseMeta(meta); err != nil {
			return domquery.Result{}, fmt.Errorf("place %d: %w", p.ID, err)
		}
		res.Places = append(res.Places, p)
		res.Found = int(found)
	}
	if err := rows.Err(); err != nil {
		return domquery.Result{}, &db.Error{Op: db.OpQuery, Err: err}
	}
	return res, nil
}

// Count returns the number of places matching d, ignoring ordering and paging.
func (r *Repo) Count(ctx context.Context, d domquery.Descriptor) (int, error) {
	defer observe("count", time.Now())

	query, args, err := countQuery(d).ToSql()
	if err != nil {
		return 0, &db.Error{Op: db.OpBuildQuery, Err: err}
	}
	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, &db.Error{Op: db.OpQueryRow, Err: err}
	}
	return int(n), nil
}

// Get loads a single place by id.
func (r *Repo) Get(ctx context.Context, id int64) (domplace.Place, error) {
	defer observe("get", time.Now())

	query, args, err := getQuery(id).ToSql()
	if err != nil {
		return domplace.Place{}, &db.Error{Op: db.OpBuildQuery, Err: err}
	}

	var (
		p    domplace.Place
		meta []byte
	)
	if err := r.q.QueryRow(ctx, query, args...).Scan(placeFields(&p, &meta, nil)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domplace.Place{}, fmt.Errorf("place %d: %w", id, domain.ErrNotFound)
		}
		return domplace.Place{}, &db.Error{Op: db.OpQueryRow, Err: err}
	}
	if p.Meta, err = domplace.ParseMeta(meta); err != nil {
		return domplace.Place{}, fmt.Errorf("place %d: %w", id, err)
	}
	return p, nil
}

// runQuery builds the paged select and returns the page size it applies.
func (r *Repo) runQuery(d domquery.Descriptor) (sq.SelectBuilder, int) {
	size := r.pageSize(d.PageSize)
	offset := (d.CurrentPage() - 1) * size
	if d.Offset != nil && *d.Offset >= 0 {
		offset = *d.Offset
	}

	b := psql.Select(append(slices.Clone(columns), "COUNT(*) OVER() AS found")...).From("places p")
	b = applyFilters(b, d)
	b = applyOrder(b, d)
	return b.Limit(uint64(size)).Offset(uint64(offset)), size
}

func countQuery(d domquery.Descriptor) sq.SelectBuilder {
	return applyFilters(psql.Select("COUNT(*)").From("places p"), d)
}

func getQuery(id int64) sq.SelectBuilder {
	return psql.Select(columns...).From("places p").
		Where(sq.Eq{"p.id": id, "p.post_type": domplace.PostType})
}

// pageSize applies the default and clamps to the platform maximum.
func (r *Repo) pageSize(requested int) int {
	switch {
	case requested <= 0:
		return r.defaultPageSize
	case requested > r.maxPageSize:
		return r.maxPageSize
	default:
		return requested
	}
}

func placeFields(p *domplace.Place, meta *[]byte, found *int64) []any {
	fields := []any{
		&p.ID, &p.PostType, &p.AuthorID, &p.ParentID, &p.Slug, &p.Title,
		&p.Content, &p.Excerpt, &p.Status, &p.MenuOrder, &p.CreatedAt,
		&p.ModifiedAt, meta,
	}
	if found != nil {
		fields = append(fields, found)
	}
	return fields
}

func observe(op string, start time.Time) {
	metrics.QueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
