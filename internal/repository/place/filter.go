package place

import (
	"fmt"
	"slices"
	"strings"

	sq "github.com/Masterminds/squirrel"

	domplace "github.com/kailas-cloud/places/internal/domain/place"
	domquery "github.com/kailas-cloud/places/internal/domain/query"
)

// statusAny disables the status filter.
const statusAny = "any"

var dateColumns = map[domquery.DateColumn]string{
	domquery.ColumnCreated:  "p.created_at",
	domquery.ColumnModified: "p.modified_at",
}

var orderColumns = map[domquery.OrderBy]string{
	domquery.OrderByAuthor:    "p.author_id",
	domquery.OrderByDate:      "p.created_at",
	domquery.OrderByID:        "p.id",
	domquery.OrderByModified:  "p.modified_at",
	domquery.OrderByParent:    "p.parent_id",
	domquery.OrderBySlug:      "p.slug",
	domquery.OrderByTitle:     "p.title",
	domquery.OrderByMenuOrder: "p.menu_order",
}

// applyFilters adds every WHERE condition of d. Nil lists add nothing.
func applyFilters(b sq.SelectBuilder, d domquery.Descriptor) sq.SelectBuilder {
	postType := d.PostType
	if postType == "" {
		postType = domplace.PostType
	}
	b = b.Where(sq.Eq{"p.post_type": postType})

	// The zero-match sentinel reaches SQL as id IN (0); ids are strictly positive.
	if len(d.IncludeIDs) > 0 {
		b = b.Where(sq.Eq{"p.id": d.IncludeIDs})
	}
	if len(d.ExcludeIDs) > 0 {
		b = b.Where(sq.NotEq{"p.id": d.ExcludeIDs})
	}
	if len(d.AuthorIn) > 0 {
		b = b.Where(sq.Eq{"p.author_id": d.AuthorIn})
	}
	if len(d.AuthorNotIn) > 0 {
		b = b.Where(sq.NotEq{"p.author_id": d.AuthorNotIn})
	}
	if len(d.ParentIn) > 0 {
		b = b.Where(sq.Eq{"p.parent_id": d.ParentIn})
	}
	if len(d.ParentNotIn) > 0 {
		b = b.Where(sq.NotEq{"p.parent_id": d.ParentNotIn})
	}
	if len(d.Slugs) > 0 {
		b = b.Where(sq.Eq{"p.slug": d.Slugs})
	}

	switch {
	case len(d.Statuses) == 0:
		b = b.Where(sq.Eq{"p.status": domplace.StatusPublish})
	case !slices.Contains(d.Statuses, statusAny):
		b = b.Where(sq.Eq{"p.status": d.Statuses})
	}

	if d.Search != "" {
		pattern := likePattern(d.Search)
		b = b.Where(sq.Or{
			sq.ILike{"p.title": pattern},
			sq.ILike{"p.excerpt": pattern},
			sq.ILike{"p.content": pattern},
		})
	}
	if d.MenuOrder != nil {
		b = b.Where(sq.Eq{"p.menu_order": *d.MenuOrder})
	}

	for _, f := range d.DateFilters {
		col := dateColumns[f.Column]
		if col == "" {
			continue
		}
		if f.Bound == domquery.BoundBefore {
			b = b.Where(sq.Lt{col: f.Timestamp})
		} else {
			b = b.Where(sq.Gt{col: f.Timestamp})
		}
	}

	if tax := taxCondition(d.TaxQuery); tax != nil {
		b = b.Where(tax)
	}
	return b
}

// taxCondition renders the taxonomy clauses as correlated EXISTS subqueries.
func taxCondition(q domquery.TaxQuery) sq.Sqlizer {
	if q.IsEmpty() {
		return nil
	}
	parts := make([]sq.Sqlizer, 0, len(q.Clauses))
	for _, c := range q.Clauses {
		exists := "EXISTS"
		if c.Operator == domquery.TaxNotIn {
			exists = "NOT EXISTS"
		}
		parts = append(parts, sq.Expr(
			exists+" (SELECT 1 FROM place_terms pt JOIN terms t ON t.id = pt.term_id"+
				" WHERE pt.place_id = p.id AND t.taxonomy = ? AND t.id = ANY(?))",
			c.Taxonomy, c.Terms,
		))
	}
	if q.Relation == domquery.RelationOr {
		return sq.Or(parts)
	}
	return sq.And(parts)
}

// applyOrder adds ORDER BY for d, always ending with an id tiebreak.
func applyOrder(b sq.SelectBuilder, d domquery.Descriptor) sq.SelectBuilder {
	dir := "DESC"
	if d.Order == domquery.OrderAsc {
		dir = "ASC"
	}

	switch d.OrderBy {
	case domquery.OrderByInclude:
		if len(d.IncludeIDs) > 0 {
			b = b.OrderByClause("array_position(?::bigint[], p.id)", d.IncludeIDs)
		}
	case domquery.OrderByIncludeSlugs:
		if len(d.Slugs) > 0 {
			b = b.OrderByClause("array_position(?::text[], p.slug)", d.Slugs)
		}
	case domquery.OrderByRelevance:
		if d.Search != "" {
			pattern := likePattern(d.Search)
			b = b.OrderByClause(
				"CASE WHEN p.title ILIKE ? THEN 1 WHEN p.excerpt ILIKE ? THEN 2 ELSE 3 END",
				pattern, pattern,
			)
		}
		b = b.OrderBy("p.created_at DESC")
	case domquery.OrderByID:
		return b.OrderBy("p.id " + dir)
	case "":
		b = b.OrderBy("p.created_at " + dir)
	default:
		col, ok := orderColumns[d.OrderBy]
		if !ok {
			col = "p.created_at"
		}
		b = b.OrderBy(fmt.Sprintf("%s %s", col, dir))
	}
	return b.OrderBy("p.id " + dir)
}

// likePattern wraps s for a substring ILIKE, escaping wildcards.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
