package query

import (
	"time"

	"github.com/kailas-cloud/places/internal/domain/place"
)

// NoMatchID is an identifier no stored place can carry (ids are strictly positive).
// An include list of just NoMatchID selects nothing.
const NoMatchID int64 = 0

// OrderBy is the sort attribute.
type OrderBy string

// Sort attributes.
const (
	OrderByAuthor       OrderBy = "author"
	OrderByDate         OrderBy = "date"
	OrderByID           OrderBy = "id"
	OrderByInclude      OrderBy = "include"
	OrderByModified     OrderBy = "modified"
	OrderByParent       OrderBy = "parent"
	OrderByRelevance    OrderBy = "relevance"
	OrderBySlug         OrderBy = "slug"
	OrderByIncludeSlugs OrderBy = "include_slugs"
	OrderByTitle        OrderBy = "title"
	OrderByMenuOrder    OrderBy = "menu_order"
)

var orderBys = []OrderBy{
	OrderByAuthor, OrderByDate, OrderByID, OrderByInclude, OrderByModified, OrderByParent,
	OrderByRelevance, OrderBySlug, OrderByIncludeSlugs, OrderByTitle, OrderByMenuOrder,
}

func orderByNames() []string {
	out := make([]string, len(orderBys))
	for i, o := range orderBys {
		out[i] = string(o)
	}
	return out
}

// Order is the sort direction.
type Order string

// Sort directions.
const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// DateColumn is the timestamp a date filter applies to.
type DateColumn string

// Date columns.
const (
	ColumnCreated  DateColumn = "created"
	ColumnModified DateColumn = "modified"
)

// DateBound is the side of a date filter.
type DateBound string

// Date bounds. Both are exclusive.
const (
	BoundBefore DateBound = "before"
	BoundAfter  DateBound = "after"
)

// DateFilter restricts one timestamp column to one side of an instant.
type DateFilter struct {
	Column    DateColumn
	Bound     DateBound
	Timestamp time.Time
}

// Relation combines taxonomy clauses.
type Relation string

// Taxonomy relations.
const (
	RelationAnd Relation = "AND"
	RelationOr  Relation = "OR"
)

// TaxOperator is the membership test of a taxonomy clause.
type TaxOperator string

// Taxonomy operators.
const (
	TaxIn    TaxOperator = "IN"
	TaxNotIn TaxOperator = "NOT IN"
)

// TaxClause restricts places by their terms in one taxonomy.
type TaxClause struct {
	Taxonomy string
	Terms    []int64
	Operator TaxOperator
}

// TaxQuery is a set of taxonomy clauses combined by Relation.
type TaxQuery struct {
	Relation Relation
	Clauses  []TaxClause
}

// IsEmpty reports whether the query has no clauses.
func (q TaxQuery) IsEmpty() bool { return len(q.Clauses) == 0 }

// Descriptor is the compiled, validated query intent of a collection request.
// Nil slices and pointers mean "no constraint".
type Descriptor struct {
	PostType    string
	IncludeIDs  []int64
	ExcludeIDs  []int64
	AuthorIn    []int64
	AuthorNotIn []int64
	ParentIn    []int64
	ParentNotIn []int64
	Slugs       []string
	Statuses    []string
	Search      string
	MenuOrder   *int
	Offset      *int
	OrderBy     OrderBy
	Order       Order
	Page        int
	PageSize    int
	Sticky      *bool
	DateFilters []DateFilter
	TaxQuery    TaxQuery
}

// MatchesNothing reports whether the include list is the zero-match sentinel.
func (d *Descriptor) MatchesNothing() bool {
	return len(d.IncludeIDs) == 1 && d.IncludeIDs[0] == NoMatchID
}

// CurrentPage returns the requested page, at least 1.
func (d *Descriptor) CurrentPage() int {
	if d.Page < 1 {
		return 1
	}
	return d.Page
}

// Result is what an executor returns for one run of a descriptor.
type Result struct {
	Places []place.Place
	// Found is the number of matching places the run reported, 0 for an empty page.
	Found int
	// PageSize is the page size the executor actually applied.
	PageSize int
}
