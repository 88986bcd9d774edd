package place

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	domplace "github.com/kailas-cloud/places/internal/domain/place"
	domquery "github.com/kailas-cloud/places/internal/domain/query"
)

func toSQL(t *testing.T, d domquery.Descriptor) (string, []any, int) {
	t.Helper()
	b, size := New(nil, 10, 100).runQuery(d)
	sql, args, err := b.ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	return sql, args, size
}

func intPtr(v int) *int { return &v }

func TestRunQuery_Defaults(t *testing.T) {
	sql, args, size := toSQL(t, domquery.Descriptor{PostType: domplace.PostType})

	want := "SELECT p.id, p.post_type, p.author_id, p.parent_id, p.slug, p.title, p.content, " +
		"p.excerpt, p.status, p.menu_order, p.created_at, p.modified_at, p.meta, " +
		"COUNT(*) OVER() AS found FROM places p " +
		"WHERE p.post_type = $1 AND p.status = $2 " +
		"ORDER BY p.created_at DESC, p.id DESC LIMIT 10 OFFSET 0"
	if sql != want {
		t.Errorf("sql mismatch:\n got %s\nwant %s", sql, want)
	}
	if diff := cmp.Diff([]any{"places", "publish"}, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
	if size != 10 {
		t.Errorf("size = %d", size)
	}
}

func TestRunQuery_TypeForcedWhenEmpty(t *testing.T) {
	_, args, _ := toSQL(t, domquery.Descriptor{})
	if args[0] != domplace.PostType {
		t.Errorf("first arg = %v, want places", args[0])
	}
}

func TestRunQuery_IDFilters(t *testing.T) {
	sql, args, _ := toSQL(t, domquery.Descriptor{
		IncludeIDs:  []int64{5, 6},
		ExcludeIDs:  []int64{7},
		AuthorIn:    []int64{1},
		AuthorNotIn: []int64{2},
		ParentIn:    []int64{3},
		ParentNotIn: []int64{4},
		Slugs:       []string{"pier"},
	})
	for _, frag := range []string{
		"p.id IN ($2,$3)",
		"p.id NOT IN ($4)",
		"p.author_id IN ($5)",
		"p.author_id NOT IN ($6)",
		"p.parent_id IN ($7)",
		"p.parent_id NOT IN ($8)",
		"p.slug IN ($9)",
	} {
		if !strings.Contains(sql, frag) {
			t.Errorf("sql missing %q:\n%s", frag, sql)
		}
	}
	if len(args) != 10 {
		t.Errorf("args = %v", args)
	}
}

func TestRunQuery_SentinelMatchesNothing(t *testing.T) {
	sql, args, _ := toSQL(t, domquery.Descriptor{IncludeIDs: []int64{domquery.NoMatchID}})
	if !strings.Contains(sql, "p.id IN ($2)") {
		t.Errorf("sentinel not rendered as an id filter:\n%s", sql)
	}
	if args[1] != domquery.NoMatchID {
		t.Errorf("sentinel arg = %v", args[1])
	}
}

func TestRunQuery_Statuses(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     string
	}{
		{"default publish", nil, "p.status = $2"},
		{"explicit", []string{"publish", "private"}, "p.status IN ($2,$3)"},
		{"any", []string{"any"}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sql, _, _ := toSQL(t, domquery.Descriptor{Statuses: tc.statuses})
			if tc.want == "" {
				_, where, _ := strings.Cut(sql, " WHERE ")
				if strings.Contains(where, "p.status") {
					t.Errorf("status filter present for any:\n%s", sql)
				}
				return
			}
			if !strings.Contains(sql, tc.want) {
				t.Errorf("sql missing %q:\n%s", tc.want, sql)
			}
		})
	}
}

func TestRunQuery_Search(t *testing.T) {
	sql, args, _ := toSQL(t, domquery.Descriptor{Search: "50%_off"})
	if !strings.Contains(sql, "(p.title ILIKE $3 OR p.excerpt ILIKE $4 OR p.content ILIKE $5)") {
		t.Errorf("search clause missing:\n%s", sql)
	}
	if args[2] != `%50\%\_off%` {
		t.Errorf("pattern = %v", args[2])
	}
}

func TestRunQuery_DateFiltersStrict(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sql, _, _ := toSQL(t, domquery.Descriptor{DateFilters: []domquery.DateFilter{
		{Column: domquery.ColumnCreated, Bound: domquery.BoundBefore, Timestamp: ts},
		{Column: domquery.ColumnModified, Bound: domquery.BoundAfter, Timestamp: ts},
	}})
	for _, frag := range []string{"p.created_at < $3", "p.modified_at > $4"} {
		if !strings.Contains(sql, frag) {
			t.Errorf("sql missing %q:\n%s", frag, sql)
		}
	}
}

func TestRunQuery_TaxQuery(t *testing.T) {
	sql, args, _ := toSQL(t, domquery.Descriptor{TaxQuery: domquery.TaxQuery{
		Relation: domquery.RelationOr,
		Clauses: []domquery.TaxClause{
			{Taxonomy: "facilities", Terms: []int64{1, 2}, Operator: domquery.TaxIn},
			{Taxonomy: "restrictions", Terms: []int64{9}, Operator: domquery.TaxNotIn},
		},
	}})
	if !strings.Contains(sql, "(EXISTS (SELECT 1 FROM place_terms pt") {
		t.Errorf("EXISTS clause missing:\n%s", sql)
	}
	if !strings.Contains(sql, " OR NOT EXISTS (SELECT 1 FROM place_terms pt") {
		t.Errorf("NOT EXISTS clause missing or not OR-combined:\n%s", sql)
	}
	if diff := cmp.Diff([]int64{1, 2}, args[3]); diff != "" {
		t.Errorf("term ids arg mismatch (-want +got):\n%s", diff)
	}
}

func TestRunQuery_Ordering(t *testing.T) {
	tests := []struct {
		name string
		d    domquery.Descriptor
		want string
	}{
		{"title asc", domquery.Descriptor{OrderBy: domquery.OrderByTitle, Order: domquery.OrderAsc},
			"ORDER BY p.title ASC, p.id ASC"},
		{"modified desc", domquery.Descriptor{OrderBy: domquery.OrderByModified},
			"ORDER BY p.modified_at DESC, p.id DESC"},
		{"id", domquery.Descriptor{OrderBy: domquery.OrderByID, Order: domquery.OrderAsc},
			"ORDER BY p.id ASC LIMIT"},
		{"include", domquery.Descriptor{OrderBy: domquery.OrderByInclude, IncludeIDs: []int64{3, 1}},
			"ORDER BY array_position($5::bigint[], p.id), p.id DESC"},
		{"include_slugs", domquery.Descriptor{OrderBy: domquery.OrderByIncludeSlugs, Slugs: []string{"b", "a"}},
			"ORDER BY array_position($5::text[], p.slug), p.id DESC"},
		{"menu_order", domquery.Descriptor{OrderBy: domquery.OrderByMenuOrder, Order: domquery.OrderAsc},
			"ORDER BY p.menu_order ASC, p.id ASC"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sql, _, _ := toSQL(t, tc.d)
			if !strings.Contains(sql, tc.want) {
				t.Errorf("sql missing %q:\n%s", tc.want, sql)
			}
		})
	}
}

func TestRunQuery_Relevance(t *testing.T) {
	sql, _, _ := toSQL(t, domquery.Descriptor{OrderBy: domquery.OrderByRelevance, Search: "pier"})
	if !strings.Contains(sql, "ORDER BY CASE WHEN p.title ILIKE") {
		t.Errorf("relevance ranking missing:\n%s", sql)
	}
	if !strings.Contains(sql, "p.created_at DESC, p.id DESC") {
		t.Errorf("relevance fallback ordering missing:\n%s", sql)
	}
}

func TestRunQuery_Paging(t *testing.T) {
	tests := []struct {
		name     string
		d        domquery.Descriptor
		wantSize int
		wantTail string
	}{
		{"page 3", domquery.Descriptor{Page: 3, PageSize: 20}, 20, "LIMIT 20 OFFSET 40"},
		{"clamped", domquery.Descriptor{PageSize: 500}, 100, "LIMIT 100 OFFSET 0"},
		{"default", domquery.Descriptor{PageSize: 0, Page: 2}, 10, "LIMIT 10 OFFSET 10"},
		{"offset wins", domquery.Descriptor{Page: 5, PageSize: 10, Offset: intPtr(3)}, 10, "LIMIT 10 OFFSET 3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sql, _, size := toSQL(t, tc.d)
			if size != tc.wantSize {
				t.Errorf("size = %d, want %d", size, tc.wantSize)
			}
			if !strings.HasSuffix(sql, tc.wantTail) {
				t.Errorf("sql tail mismatch, want %q:\n%s", tc.wantTail, sql)
			}
		})
	}
}

func TestCountQuery_NoPagingOrOrder(t *testing.T) {
	d := domquery.Descriptor{Page: 4, PageSize: 10, OrderBy: domquery.OrderByTitle, Search: "pier"}
	sql, _, err := countQuery(d).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if !strings.HasPrefix(sql, "SELECT COUNT(*) FROM places p WHERE p.post_type = $1") {
		t.Errorf("unexpected count sql:\n%s", sql)
	}
	for _, frag := range []string{"ORDER BY", "LIMIT", "OFFSET"} {
		if strings.Contains(sql, frag) {
			t.Errorf("count sql must not contain %s:\n%s", frag, sql)
		}
	}
	if !strings.Contains(sql, "ILIKE") {
		t.Errorf("count sql lost the search filter:\n%s", sql)
	}
}

func TestGetQuery(t *testing.T) {
	sql, args, err := getQuery(42).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if !strings.Contains(sql, "WHERE p.id = $1 AND p.post_type = $2") {
		t.Errorf("unexpected get sql:\n%s", sql)
	}
	if diff := cmp.Diff([]any{int64(42), "places"}, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestLikePattern(t *testing.T) {
	tests := map[string]string{
		"pier":    "%pier%",
		"a_b":     `%a\_b%`,
		"100%":    `%100\%%`,
		`back\sl`: `%back\\sl%`,
	}
	for in, want := range tests {
		if got := likePattern(in); got != want {
			t.Errorf("likePattern(%q) = %q, want %q", in, got, want)
		}
	}
}
