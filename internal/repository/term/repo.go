package term

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/places/internal/db"
	"github.com/kailas-cloud/places/internal/domain/taxonomy"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo reads taxonomy terms attached to places.
type Repo struct {
	q querier
}

// New creates a term repository.
func New(q querier) *Repo {
	return &Repo{q: q}
}

// ByPlace returns the terms of one taxonomy attached to a place, in assignment order.
func (r *Repo) ByPlace(ctx context.Context, placeID int64, tax string) ([]taxonomy.Term, error) {
	query, args, err := byPlaceQuery(placeID, tax).ToSql()
	if err != nil {
		return nil, &db.Error{Op: db.OpBuildQuery, Err: err}
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer rows.Close()

	var terms []taxonomy.Term
	for rows.Next() {
		var t taxonomy.Term
		if err := rows.Scan(&t.ID, &t.Taxonomy, &t.Name, &t.Slug, &t.Icon); err != nil {
			return nil, &db.Error{Op: db.OpQuery, Err: fmt.Errorf("scan: %w", err)}
		}
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return terms, nil
}

func byPlaceQuery(placeID int64, tax string) sq.SelectBuilder {
	return psql.Select("t.id", "t.taxonomy", "t.name", "t.slug", "t.icon").
		From("terms t").
		Join("place_terms pt ON pt.term_id = t.id").
		Where(sq.Eq{"pt.place_id": placeID, "t.taxonomy": tax}).
		OrderBy("pt.position", "t.name")
}
