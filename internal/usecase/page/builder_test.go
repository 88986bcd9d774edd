package page

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/places/internal/domain"
	"github.com/kailas-cloud/places/internal/domain/place"
	domquery "github.com/kailas-cloud/places/internal/domain/query"
)

// --- Mocks ---

type mockCounter struct {
	n     int
	err   error
	calls int
	last  domquery.Descriptor
}

func (m *mockCounter) Count(_ context.Context, d domquery.Descriptor) (int, error) {
	m.calls++
	m.last = d
	return m.n, m.err
}

type statusReader struct{}

func (statusReader) CanRead(p *place.Place, _ place.Context) bool {
	return p.Status == place.StatusPublish
}

type idShaper struct {
	err error
}

func (s idShaper) Shape(_ context.Context, p place.Place, _ place.Context) (place.Document, error) {
	if s.err != nil {
		return place.Document{}, s.err
	}
	id := p.ID
	return place.Document{ID: &id}, nil
}

const base = "https://example.org/mobileApi/v1/places"

func published(ids ...int64) []place.Place {
	out := make([]place.Place, len(ids))
	for i, id := range ids {
		out[i] = place.Place{ID: id, PostType: place.PostType, Status: place.StatusPublish}
	}
	return out
}

func request(page string) Request {
	q := url.Values{"search": {"pier"}, "per_page": {"10"}}
	if page != "" {
		q.Set("page", page)
	}
	return Request{BaseURL: base, Query: q, Context: place.ContextView}
}

// --- Tests ---

func TestBuild_EmptySetIsPageOne(t *testing.T) {
	counter := &mockCounter{n: 0}
	b := New(counter, statusReader{}, idShaper{})

	res, err := b.Build(context.Background(),
		domquery.Result{PageSize: 10},
		domquery.Descriptor{Page: 1, PageSize: 10},
		request("1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || res.TotalPages != 0 {
		t.Errorf("total=%d pages=%d, want 0/0", res.Total, res.TotalPages)
	}
	if res.Prev != "" || res.Next != "" {
		t.Errorf("expected no links, got prev=%q next=%q", res.Prev, res.Next)
	}
	if res.Items == nil {
		t.Error("items must be an empty slice, not nil")
	}
}

func TestBuild_PageOutOfRange(t *testing.T) {
	counter := &mockCounter{n: 23}
	b := New(counter, statusReader{}, idShaper{})

	_, err := b.Build(context.Background(),
		domquery.Result{Found: 0, PageSize: 10},
		domquery.Descriptor{Page: 4, PageSize: 10},
		request("4"))
	if !errors.Is(err, domain.ErrPageOutOfRange) {
		t.Fatalf("expected ErrPageOutOfRange, got %v", err)
	}
	var pErr *domain.PageOutOfRangeError
	if !errors.As(err, &pErr) || pErr.Page != 4 || pErr.TotalPages != 3 {
		t.Errorf("error = %+v", pErr)
	}
}

func TestBuild_LastPage(t *testing.T) {
	counter := &mockCounter{}
	b := New(counter, statusReader{}, idShaper{})

	res, err := b.Build(context.Background(),
		domquery.Result{Places: published(21, 22, 23), Found: 23, PageSize: 10},
		domquery.Descriptor{Page: 3, PageSize: 10},
		request("3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", res.TotalPages)
	}
	if res.Next != "" {
		t.Errorf("Next = %q, want none", res.Next)
	}
	assertPage(t, res.Prev, "2")
	if counter.calls != 0 {
		t.Errorf("count re-query issued %d times with a non-zero found", counter.calls)
	}
}

func TestBuild_FirstPageHasOnlyNext(t *testing.T) {
	b := New(&mockCounter{}, statusReader{}, idShaper{})

	res, err := b.Build(context.Background(),
		domquery.Result{Places: published(1, 2), Found: 23, PageSize: 10},
		domquery.Descriptor{PageSize: 10},
		request(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Page != 1 || res.Prev != "" {
		t.Errorf("page=%d prev=%q", res.Page, res.Prev)
	}
	assertPage(t, res.Next, "2")
}

func TestBuild_RecountOnZeroFound(t *testing.T) {
	counter := &mockCounter{n: 7}
	b := New(counter, statusReader{}, idShaper{})
	d := domquery.Descriptor{Page: 2, PageSize: 5, Search: "pier"}

	res, err := b.Build(context.Background(), domquery.Result{PageSize: 5}, d, request("2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counter.calls != 1 {
		t.Errorf("Count called %d times, want exactly 1", counter.calls)
	}
	if diff := cmp.Diff(d, counter.last); diff != "" {
		t.Errorf("recount descriptor differs (-want +got):\n%s", diff)
	}
	if res.Total != 7 || res.TotalPages != 2 {
		t.Errorf("total=%d pages=%d, want 7/2", res.Total, res.TotalPages)
	}
}

func TestBuild_RecountError(t *testing.T) {
	b := New(&mockCounter{err: errors.New("db gone")}, statusReader{}, idShaper{})
	_, err := b.Build(context.Background(), domquery.Result{}, domquery.Descriptor{}, request(""))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestBuild_DropsUnreadable(t *testing.T) {
	places := published(1, 2, 3)
	places[1].Status = "draft"
	b := New(&mockCounter{}, statusReader{}, idShaper{})

	res, err := b.Build(context.Background(),
		domquery.Result{Places: places, Found: 3, PageSize: 10},
		domquery.Descriptor{},
		request(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []int64
	for _, doc := range res.Items {
		got = append(got, *doc.ID)
	}
	if diff := cmp.Diff([]int64{1, 3}, got); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if res.Total != 3 {
		t.Errorf("Total = %d, dropped items still count toward the total", res.Total)
	}
}

func TestBuild_ShapeError(t *testing.T) {
	b := New(&mockCounter{}, statusReader{}, idShaper{err: errors.New("media down")})
	_, err := b.Build(context.Background(),
		domquery.Result{Places: published(1), Found: 1, PageSize: 10},
		domquery.Descriptor{},
		request(""))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestBuild_EffectivePageSize(t *testing.T) {
	b := New(&mockCounter{}, statusReader{}, idShaper{})

	// Executor clamped a requested 500 down to 100.
	res, err := b.Build(context.Background(),
		domquery.Result{Places: published(1), Found: 250, PageSize: 100},
		domquery.Descriptor{PageSize: 500},
		request(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", res.TotalPages)
	}
}

func TestEffectivePageSize(t *testing.T) {
	tests := []struct {
		name string
		run  int
		req  int
		want int
	}{
		{"executor wins", 20, 50, 20},
		{"requested fallback", 0, 50, 50},
		{"default", 0, 0, domquery.DefaultPerPage},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := effectivePageSize(domquery.Result{PageSize: tc.run}, domquery.Descriptor{PageSize: tc.req})
			if got != tc.want {
				t.Errorf("effectivePageSize = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestPageLink_PreservesOtherParams(t *testing.T) {
	q := url.Values{
		"search":       {"pier"},
		"facilities[]": {"1", "2"},
		"page":         {"5"},
	}
	link := pageLink(base, q, 4)

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if got := u.Scheme + "://" + u.Host + u.Path; got != base {
		t.Errorf("base = %q, want %q", got, base)
	}
	want := url.Values{
		"search":       {"pier"},
		"facilities[]": {"1", "2"},
		"page":         {"4"},
	}
	if diff := cmp.Diff(want, u.Query()); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
	if q.Get("page") != "5" {
		t.Error("pageLink mutated the request query")
	}
}

func TestPageLink_DropsBracketedPage(t *testing.T) {
	q := url.Values{"page[]": {"2"}, "per_page": {"10"}}
	link := pageLink(base, q, 3)

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	want := url.Values{"page": {"3"}, "per_page": {"10"}}
	if diff := cmp.Diff(want, u.Query()); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_PrevClampedToLastPage(t *testing.T) {
	// Page 3 of an empty set: no out-of-range error, prev is clamped.
	b := New(&mockCounter{n: 0}, statusReader{}, idShaper{})
	res, err := b.Build(context.Background(), domquery.Result{PageSize: 10},
		domquery.Descriptor{Page: 3, PageSize: 10}, request("3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertPage(t, res.Prev, "0")
	if res.Next != "" {
		t.Errorf("Next = %q, want none", res.Next)
	}
}

func assertPage(t *testing.T, link, page string) {
	t.Helper()
	if link == "" {
		t.Fatalf("expected link to page %s, got none", page)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if got := u.Query().Get("page"); got != page {
		t.Errorf("link page = %q, want %q", got, page)
	}
	if got := u.Query().Get("search"); got != "pier" {
		t.Errorf("link lost search param: %q", got)
	}
}
