package taxonomy

import (
	"strings"

	"github.com/kailas-cloud/places/internal/domain/query"
)

// ExcludeSuffix turns a taxonomy name into its exclusion parameter.
const ExcludeSuffix = "_exclude"

// Term is a classification term attached to places.
type Term struct {
	ID       int64
	Taxonomy string
	Name     string
	Slug     string
	// Icon is either an absolute URL or an attachment id.
	Icon string
}

// IconURL returns the icon when it is already a URL.
func (t Term) IconURL() (string, bool) {
	if strings.Contains(t.Icon, "http") {
		return t.Icon, true
	}
	return "", false
}

// Translator maps taxonomy request parameters onto a TaxQuery.
type Translator struct {
	taxonomies []string
}

// NewTranslator creates a translator for the given taxonomies.
func NewTranslator(taxonomies ...string) *Translator {
	return &Translator{taxonomies: taxonomies}
}

// Translate builds include (IN) and exclude (NOT IN) clauses for every
// taxonomy whose parameter is registered and non-empty.
func (t *Translator) Translate(p query.Params, registered query.Registry) (query.TaxQuery, error) {
	q := query.TaxQuery{Relation: query.RelationAnd}
	if registered.IsRegistered(query.ParamTaxRelation) && p.IsPresent(query.ParamTaxRelation) {
		if rel := query.Relation(strings.ToUpper(p.String(query.ParamTaxRelation))); rel == query.RelationOr {
			q.Relation = query.RelationOr
		}
	}

	for _, tax := range t.taxonomies {
		q.Clauses = appendClause(q.Clauses, p, registered, tax, tax, query.TaxIn)
		q.Clauses = appendClause(q.Clauses, p, registered, tax, tax+ExcludeSuffix, query.TaxNotIn)
	}
	return q, nil
}

func appendClause(
	clauses []query.TaxClause, p query.Params, registered query.Registry,
	tax, param string, op query.TaxOperator,
) []query.TaxClause {
	if !registered.IsRegistered(param) {
		return clauses
	}
	terms := p.IntList(param)
	if len(terms) == 0 {
		return clauses
	}
	return append(clauses, query.TaxClause{Taxonomy: tax, Terms: terms, Operator: op})
}
