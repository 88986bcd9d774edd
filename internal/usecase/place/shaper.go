package place

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	domplace "github.com/kailas-cloud/places/internal/domain/place"
	"github.com/kailas-cloud/places/internal/domain/taxonomy"
)

type collectionURLKey struct{}

// WithCollectionURL stores the absolute collection URL used for _links.
func WithCollectionURL(ctx context.Context, url string) context.Context {
	return context.WithValue(ctx, collectionURLKey{}, url)
}

func collectionURL(ctx context.Context) string {
	u, _ := ctx.Value(collectionURLKey{}).(string)
	return u
}

// Shaper renders a place as its response document.
type Shaper struct {
	media       MediaResolver
	terms       TermReader
	schema      domplace.Schema
	extraFields []string
}

// NewShaper creates a shaper. extraFields lists meta keys copied verbatim into extra.
func NewShaper(m MediaResolver, t TermReader, extraFields ...string) *Shaper {
	return &Shaper{media: m, terms: t, schema: domplace.ItemSchema(), extraFields: extraFields}
}

// Shape builds the document of p for request context c.
func (s *Shaper) Shape(ctx context.Context, p domplace.Place, c domplace.Context) (domplace.Document, error) {
	facilities, err := s.terms.ByPlace(ctx, p.ID, domplace.TaxonomyFacilities)
	if err != nil {
		return domplace.Document{}, fmt.Errorf("load facilities: %w", err)
	}
	restrictions, err := s.terms.ByPlace(ctx, p.ID, domplace.TaxonomyRestrictions)
	if err != nil {
		return domplace.Document{}, fmt.Errorf("load restrictions: %w", err)
	}

	urls, err := s.media.ImageURLs(ctx, attachmentIDs(p.Meta, facilities, restrictions), domplace.ThumbnailSize)
	if err != nil {
		return domplace.Document{}, fmt.Errorf("resolve media: %w", err)
	}

	doc := domplace.Document{
		Tagline:         p.Meta.Tagline,
		Address:         p.Meta.Address(),
		Gallery:         make([]string, 0, len(p.Meta.Gallery)),
		Facilities:      termIcons(facilities, urls),
		Restrictions:    termIcons(restrictions, urls),
		DirectionsLinks: p.Meta.DirectionsLinks,
		OpeningTimes:    StripTags(p.Meta.OpeningTimes.Text),
		Admission:       StripTags(p.Meta.Admission.Text),
		YouMayAlsoLike:  p.Meta.YouMayAlsoLike.Places,
		Location:        p.Meta.LocationMap,
	}

	if s.schema.Includes("id", c) {
		id := p.ID
		doc.ID = &id
	}
	if s.schema.Includes("title", c) {
		title := p.Title
		doc.Title = &title
	}
	if s.schema.Includes("content", c) {
		content := StripTags(p.Content)
		doc.Content = &content
	}

	for _, id := range p.Meta.Gallery {
		if u, ok := urls[id]; ok {
			doc.Gallery = append(doc.Gallery, u)
		}
	}
	if len(p.Meta.MainBanner) > 0 {
		if u, ok := urls[p.Meta.MainBanner[0]]; ok {
			doc.MainBanner = &u
		}
	}
	if doc.DirectionsLinks == nil {
		doc.DirectionsLinks = []domplace.DirectionsLink{}
	}
	if doc.YouMayAlsoLike == nil {
		doc.YouMayAlsoLike = []int64{}
	}

	for _, key := range s.extraFields {
		if raw, ok := p.Meta.Raw(key); ok {
			if doc.Extra == nil {
				doc.Extra = make(map[string]json.RawMessage, len(s.extraFields))
			}
			doc.Extra[key] = raw
		}
	}

	if base := collectionURL(ctx); base != "" {
		doc.Links = domplace.Links{
			"self":       {{Href: base + "/" + strconv.FormatInt(p.ID, 10)}},
			"collection": {{Href: base}},
		}
	}
	return doc, nil
}

// attachmentIDs collects every attachment the document needs, icons included.
func attachmentIDs(m domplace.Meta, termSets ...[]taxonomy.Term) []int64 {
	ids := make([]int64, 0, len(m.Gallery)+1)
	ids = append(ids, m.Gallery...)
	if len(m.MainBanner) > 0 {
		ids = append(ids, m.MainBanner[0])
	}
	for _, terms := range termSets {
		for _, t := range terms {
			if id, ok := iconAttachment(t); ok {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func iconAttachment(t taxonomy.Term) (int64, bool) {
	if t.Icon == "" {
		return 0, false
	}
	if _, ok := t.IconURL(); ok {
		return 0, false
	}
	id, err := strconv.ParseInt(t.Icon, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func termIcons(terms []taxonomy.Term, urls map[int64]string) []domplace.TermIcon {
	out := make([]domplace.TermIcon, 0, len(terms))
	for _, t := range terms {
		icon := domplace.TermIcon{Name: t.Name}
		if u, ok := t.IconURL(); ok {
			icon.Icon = u
		} else if id, ok := iconAttachment(t); ok {
			icon.Icon = urls[id]
		}
		out = append(out, icon)
	}
	return out
}
