package place

import "encoding/json"

// Context selects which fields a response carries.
type Context string

// Request contexts.
const (
	ContextView  Context = "view"
	ContextEmbed Context = "embed"
	ContextEdit  Context = "edit"
)

// IsValid reports whether c is a known context.
func (c Context) IsValid() bool {
	switch c {
	case ContextView, ContextEmbed, ContextEdit:
		return true
	}
	return false
}

// Document is the response shape of a single place.
type Document struct {
	ID              *int64                     `json:"id,omitempty"`
	Title           *string                    `json:"title,omitempty"`
	Content         *string                    `json:"content,omitempty"`
	Tagline         string                     `json:"tagline"`
	Address         string                     `json:"address"`
	Gallery         []string                   `json:"gallery"`
	MainBanner      *string                    `json:"main_banner"`
	Facilities      []TermIcon                 `json:"facilities"`
	Restrictions    []TermIcon                 `json:"restrictions"`
	DirectionsLinks []DirectionsLink           `json:"directions_links"`
	OpeningTimes    string                     `json:"opening_times"`
	Admission       string                     `json:"admission"`
	YouMayAlsoLike  []int64                    `json:"you_may_also_like"`
	Location        *Location                  `json:"location"`
	Extra           map[string]json.RawMessage `json:"extra,omitempty"`
	Links           Links                      `json:"_links,omitempty"`
}

// TermIcon is a taxonomy term with its resolved icon URL.
type TermIcon struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// Link is a single hypermedia reference.
type Link struct {
	Href string `json:"href"`
}

// Links maps a relation name to its references.
type Links map[string][]Link
