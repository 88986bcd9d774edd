package query

import (
	"sort"
)

// Recognized request parameter names.
const (
	ParamContext        = "context"
	ParamPage           = "page"
	ParamPerPage        = "per_page"
	ParamSearch         = "search"
	ParamAfter          = "after"
	ParamModifiedAfter  = "modified_after"
	ParamBefore         = "before"
	ParamModifiedBefore = "modified_before"
	ParamAuthor         = "author"
	ParamAuthorExclude  = "author_exclude"
	ParamExclude        = "exclude"
	ParamInclude        = "include"
	ParamMenuOrder      = "menu_order"
	ParamOffset         = "offset"
	ParamOrder          = "order"
	ParamOrderBy        = "orderby"
	ParamParent         = "parent"
	ParamParentExclude  = "parent_exclude"
	ParamSlug           = "slug"
	ParamStatus         = "status"
	ParamSticky         = "sticky"
	ParamTaxRelation    = "tax_relation"
)

// Collection paging defaults.
const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Kind is the value type of a parameter.
type Kind string

// Parameter kinds.
const (
	KindInt        Kind = "integer"
	KindIntList    Kind = "integer[]"
	KindString     Kind = "string"
	KindStringList Kind = "string[]"
	KindBool       Kind = "boolean"
	KindDateTime   Kind = "date-time"
)

// Spec describes one registered parameter.
type Spec struct {
	Name        string   `json:"name"`
	Kind        Kind     `json:"type"`
	Description string   `json:"description,omitempty"`
	Default     any      `json:"default,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Min         *int     `json:"minimum,omitempty"`
	Max         *int     `json:"maximum,omitempty"`
}

// Allows reports whether v is in the enum (always true without an enum).
func (s Spec) Allows(v string) bool {
	if len(s.Enum) == 0 {
		return true
	}
	for _, e := range s.Enum {
		if e == v {
			return true
		}
	}
	return false
}

// Registry is the set of parameters a collection endpoint accepts.
type Registry struct {
	specs map[string]Spec
}

// NewRegistry builds a registry. Later specs replace earlier ones by name.
func NewRegistry(specs ...Spec) Registry {
	m := make(map[string]Spec, len(specs))
	for _, s := range specs {
		m[s.Name] = s
	}
	return Registry{specs: m}
}

// IsRegistered reports whether name is accepted.
func (r Registry) IsRegistered(name string) bool {
	_, ok := r.specs[name]
	return ok
}

// Spec returns the description of name.
func (r Registry) Spec(name string) (Spec, bool) {
	s, ok := r.specs[name]
	return s, ok
}

// Specs returns all specs sorted by name.
func (r Registry) Specs() []Spec {
	out := make([]Spec, 0, len(r.specs))
	for _, s := range r.specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Without returns a copy of r with names removed.
func (r Registry) Without(names ...string) Registry {
	m := make(map[string]Spec, len(r.specs))
	for k, v := range r.specs {
		m[k] = v
	}
	for _, n := range names {
		delete(m, n)
	}
	return Registry{specs: m}
}

func intPtr(v int) *int { return &v }

// CollectionParams returns the registry of the places collection endpoint.
// maxPerPage <= 0 falls back to MaxPerPage.
func CollectionParams(maxPerPage int, taxonomies []string) Registry {
	if maxPerPage <= 0 {
		maxPerPage = MaxPerPage
	}
	specs := []Spec{
		{Name: ParamContext, Kind: KindString, Default: "view", Enum: []string{"view", "embed", "edit"},
			Description: "Scope under which the request is made; determines fields present in response."},
		{Name: ParamPage, Kind: KindInt, Default: 1, Min: intPtr(1),
			Description: "Current page of the collection."},
		{Name: ParamPerPage, Kind: KindInt, Default: DefaultPerPage, Min: intPtr(1), Max: intPtr(maxPerPage),
			Description: "Maximum number of items to be returned in result set."},
		{Name: ParamSearch, Kind: KindString, Description: "Limit results to those matching a string."},
		{Name: ParamAfter, Kind: KindDateTime, Description: "Limit response to places published after a given date."},
		{Name: ParamModifiedAfter, Kind: KindDateTime, Description: "Limit response to places modified after a given date."},
		{Name: ParamBefore, Kind: KindDateTime, Description: "Limit response to places published before a given date."},
		{Name: ParamModifiedBefore, Kind: KindDateTime,
			Description: "Limit response to places modified before a given date."},
		{Name: ParamAuthor, Kind: KindIntList, Description: "Limit result set to places assigned to specific authors."},
		{Name: ParamAuthorExclude, Kind: KindIntList,
			Description: "Ensure result set excludes places assigned to specific authors."},
		{Name: ParamExclude, Kind: KindIntList, Description: "Ensure result set excludes specific IDs."},
		{Name: ParamInclude, Kind: KindIntList, Description: "Limit result set to specific IDs."},
		{Name: ParamMenuOrder, Kind: KindInt, Description: "Limit result set to places with a specific menu_order value."},
		{Name: ParamOffset, Kind: KindInt, Min: intPtr(0), Description: "Offset the result set by a specific number of items."},
		{Name: ParamOrder, Kind: KindString, Default: string(OrderDesc), Enum: []string{string(OrderAsc), string(OrderDesc)},
			Description: "Order sort attribute ascending or descending."},
		{Name: ParamOrderBy, Kind: KindString, Default: string(OrderByDate), Enum: orderByNames(),
			Description: "Sort collection by place attribute."},
		{Name: ParamParent, Kind: KindIntList, Description: "Limit result set to items with particular parent IDs."},
		{Name: ParamParentExclude, Kind: KindIntList,
			Description: "Limit result set to all items except those of a particular parent ID."},
		{Name: ParamSlug, Kind: KindStringList, Description: "Limit result set to places with one or more specific slugs."},
		{Name: ParamStatus, Kind: KindStringList, Default: []string{"publish"},
			Enum:        []string{"publish", "future", "draft", "pending", "private", "trash", "any"},
			Description: "Limit result set to places assigned one or more statuses."},
		{Name: ParamSticky, Kind: KindBool, Description: "Limit result set to items that are sticky."},
	}
	if len(taxonomies) > 0 {
		specs = append(specs, Spec{
			Name: ParamTaxRelation, Kind: KindString, Enum: []string{string(RelationAnd), string(RelationOr)},
			Description: "Limit result set based on relationship between multiple taxonomies.",
		})
	}
	for _, tax := range taxonomies {
		specs = append(specs,
			Spec{Name: tax, Kind: KindIntList,
				Description: "Limit result set to items with specific terms assigned in the " + tax + " taxonomy."},
			Spec{Name: tax + "_exclude", Kind: KindIntList,
				Description: "Limit result set to items except those with specific terms assigned in the " + tax + " taxonomy."},
		)
	}
	return NewRegistry(specs...)
}
