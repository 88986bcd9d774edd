package place

// Property describes one field of the item schema.
type Property struct {
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Context     []Context `json:"context,omitempty"`
	ReadOnly    bool      `json:"readonly,omitempty"`
}

// Schema is a draft-04 JSON schema describing a place.
type Schema struct {
	Schema     string              `json:"$schema"`
	Title      string              `json:"title"`
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
}

// ItemSchema returns the schema of a place document.
func ItemSchema() Schema {
	return Schema{
		Schema: "http://json-schema.org/draft-04/schema#",
		Title:  "place",
		Type:   "object",
		Properties: map[string]Property{
			"id": {
				Description: "Unique identifier for the object.",
				Type:        "integer",
				Context:     []Context{ContextView, ContextEdit, ContextEmbed},
				ReadOnly:    true,
			},
			"title":   {Description: "The title for the object.", Type: "string"},
			"tagline": {Description: "Short tagline of the place.", Type: "string"},
			"address": {Description: "Postal address of the place.", Type: "string"},
			"content": {Description: "The content for the object.", Type: "string"},
		},
	}
}

// Includes reports whether field is declared and visible in ctx.
// A property without contexts is visible in every context.
func (s Schema) Includes(field string, ctx Context) bool {
	p, ok := s.Properties[field]
	if !ok {
		return false
	}
	if len(p.Context) == 0 {
		return true
	}
	for _, c := range p.Context {
		if c == ctx {
			return true
		}
	}
	return false
}
