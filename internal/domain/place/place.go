package place

import (
	"encoding/json"
	"fmt"
	"time"
)

// PostType is the only item type served by this API.
const PostType = "places"

// ThumbnailSize is the image size used for galleries, banners and icons.
const ThumbnailSize = "thumbnail"

// Taxonomies attached to places, in response order.
const (
	TaxonomyFacilities   = "facilities"
	TaxonomyRestrictions = "restrictions"
)

// Taxonomies lists every taxonomy exposed as a collection filter.
var Taxonomies = []string{TaxonomyFacilities, TaxonomyRestrictions}

// Place is a raw item row as stored.
type Place struct {
	ID         int64
	PostType   string
	AuthorID   int64
	ParentID   int64
	Slug       string
	Title      string
	Content    string
	Excerpt    string
	Status     string
	MenuOrder  int
	CreatedAt  time.Time
	ModifiedAt time.Time
	Meta       Meta
}

// Meta holds the custom fields attached to a place.
type Meta struct {
	Tagline         string           `json:"tagline"`
	LocationMap     *Location        `json:"location_map"`
	Gallery         []int64          `json:"gallery"`
	MainBanner      []int64          `json:"main_banner"`
	DirectionsLinks []DirectionsLink `json:"directions_links"`
	OpeningTimes    RichText         `json:"opening_times"`
	Admission       RichText         `json:"admission"`
	YouMayAlsoLike  Related          `json:"you_may_also_like"`

	// raw keeps every stored key so unknown fields can be copied through.
	raw map[string]json.RawMessage
}

// Location is a map pin with its postal address.
type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Zoom    int     `json:"zoom,omitempty"`
	PlaceID string  `json:"place_id,omitempty"`
}

// DirectionsLink is a labelled route link.
type DirectionsLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// RichText is a WYSIWYG field.
type RichText struct {
	Text string `json:"text"`
}

// Related is a relationship field pointing at other places.
type Related struct {
	Places []int64 `json:"places"`
}

// ParseMeta decodes a JSON meta blob. Empty input yields zero Meta.
func ParseMeta(data []byte) (Meta, error) {
	var m Meta
	if len(data) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return Meta{}, fmt.Errorf("decode meta: %w", err)
	}
	if err := json.Unmarshal(data, &m.raw); err != nil {
		return Meta{}, fmt.Errorf("decode raw meta: %w", err)
	}
	return m, nil
}

// Raw returns the stored JSON of a meta key.
func (m Meta) Raw(key string) (json.RawMessage, bool) {
	v, ok := m.raw[key]
	return v, ok
}

// Address returns the location address, or "" when no location is set.
func (m Meta) Address() string {
	if m.LocationMap == nil {
		return ""
	}
	return m.LocationMap.Address
}
