package media

import (
	"context"
	"fmt"
	"path"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/places/internal/db"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo resolves attachment ids to public URLs.
type Repo struct {
	q       querier
	baseURL string
}

// New creates a media repository serving files under baseURL.
func New(q querier, baseURL string) *Repo {
	return &Repo{q: q, baseURL: strings.TrimRight(baseURL, "/")}
}

// ImageURLs returns the URL of each known attachment at size.
// Unknown ids are absent from the map.
func (r *Repo) ImageURLs(ctx context.Context, ids []int64, size string) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := urlsQuery(ids, size).ToSql()
	if err != nil {
		return nil, &db.Error{Op: db.OpBuildQuery, Err: err}
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    int64
			file  string
			sized string
		)
		if err := rows.Scan(&id, &file, &sized); err != nil {
			return nil, &db.Error{Op: db.OpQuery, Err: fmt.Errorf("scan: %w", err)}
		}
		out[id] = r.URL(file, sized)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return out, nil
}

// URL composes the public URL of an attachment file.
// sized is the file name of a resized variant stored next to file, or "".
func (r *Repo) URL(file, sized string) string {
	rel := strings.TrimLeft(file, "/")
	if sized != "" {
		rel = path.Join(path.Dir(rel), sized)
	}
	return r.baseURL + "/" + rel
}

func urlsQuery(ids []int64, size string) sq.SelectBuilder {
	return psql.Select("a.id", "a.file").
		Column(sq.Expr("COALESCE(a.sizes->>?, '')", size)).
		From("attachments a").
		Where("a.id = ANY(?)", ids)
}
