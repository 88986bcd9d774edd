package taxonomy

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/places/internal/domain/query"
)

func TestTranslate_IncludeAndExclude(t *testing.T) {
	reg := query.CollectionParams(0, []string{"facilities", "restrictions"})
	p := query.NewParams(map[string]any{
		"facilities":           []int64{1, 2},
		"restrictions_exclude": []int64{9},
	})

	got, err := NewTranslator("facilities", "restrictions").Translate(p, reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := query.TaxQuery{
		Relation: query.RelationAnd,
		Clauses: []query.TaxClause{
			{Taxonomy: "facilities", Terms: []int64{1, 2}, Operator: query.TaxIn},
			{Taxonomy: "restrictions", Terms: []int64{9}, Operator: query.TaxNotIn},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Translate() mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslate_RelationOr(t *testing.T) {
	reg := query.CollectionParams(0, []string{"facilities"})
	p := query.NewParams(map[string]any{
		query.ParamTaxRelation: "or",
		"facilities":           []int64{1},
	})

	got, err := NewTranslator("facilities").Translate(p, reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Relation != query.RelationOr {
		t.Errorf("Relation = %q, want OR", got.Relation)
	}
}

func TestTranslate_UnregisteredIgnored(t *testing.T) {
	reg := query.CollectionParams(0, nil)
	p := query.NewParams(map[string]any{"facilities": []int64{1}})

	got, err := NewTranslator("facilities").Translate(p, reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsEmpty() {
		t.Errorf("expected no clauses, got %+v", got.Clauses)
	}
}

func TestTranslate_EmptyListIgnored(t *testing.T) {
	reg := query.CollectionParams(0, []string{"facilities"})
	p := query.NewParams(map[string]any{"facilities": []int64{}})

	got, err := NewTranslator("facilities").Translate(p, reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsEmpty() {
		t.Errorf("expected no clauses, got %+v", got.Clauses)
	}
}

func TestTerm_IconURL(t *testing.T) {
	if u, ok := (Term{Icon: "https://cdn.example.org/wifi.svg"}).IconURL(); !ok || u == "" {
		t.Errorf("IconURL() = %q, %v", u, ok)
	}
	if _, ok := (Term{Icon: "42"}).IconURL(); ok {
		t.Error("attachment id is not a URL")
	}
}
