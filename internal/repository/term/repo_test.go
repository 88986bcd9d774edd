package term

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestByPlaceQuery(t *testing.T) {
	sql, args, err := byPlaceQuery(7, "facilities").ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	want := "SELECT t.id, t.taxonomy, t.name, t.slug, t.icon FROM terms t " +
		"JOIN place_terms pt ON pt.term_id = t.id " +
		"WHERE pt.place_id = $1 AND t.taxonomy = $2 ORDER BY pt.position, t.name"
	if sql != want {
		t.Errorf("sql mismatch:\n got %s\nwant %s", sql, want)
	}
	if diff := cmp.Diff([]any{int64(7), "facilities"}, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}
