package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	pnet "quotewall/internal/platform/net"
	"quotewall/internal/services/feed/domain"
)

func req(t *testing.T, target string) *stdhttp.Request {
	t.Helper()
	return httptest.NewRequest(stdhttp.MethodGet, target, nil)
}

func TestParseQuery_Defaults(t *testing.T) {
	t.Parallel()

	q, err := parseQuery(req(t, "/feed"))
	if err != nil {
		t.Fatalf("parseQuery failed: %v", err)
	}
	if q.Sort != domain.SortNewest {
		t.Fatalf("default sort should be newest, got %q", q.Sort)
	}
	if q.Limit != 0 || q.Offset != 0 || q.Cursor != "" || q.ViewerID != "" {
		t.Fatalf("unexpected defaults: %+v", q)
	}
}

func TestParseQuery_PopularWithOffset(t *testing.T) {
	t.Parallel()

	q, err := parseQuery(req(t, "/feed?sort=popular&offset=40&limit=10"))
	if err != nil {
		t.Fatalf("parseQuery failed: %v", err)
	}
	if q.Sort != domain.SortPopular || q.Offset != 40 || q.Limit != 10 {
		t.Fatalf("unexpected query: %+v", q)
	}
}

func TestParseQuery_Rejects(t *testing.T) {
	t.Parallel()

	cases := []string{
		"/feed?sort=trending",
		"/feed?offset=-1",
		"/feed?offset=abc",
		"/feed?limit=0",
		"/feed?limit=abc",
	}
	for _, target := range cases {
		if _, err := parseQuery(req(t, target)); err == nil {
			t.Fatalf("expected error for %q", target)
		}
	}
}

func TestParseQuery_ViewerFromContext(t *testing.T) {
	t.Parallel()

	r := req(t, "/feed")
	r = r.WithContext(pnet.WithUser(r.Context(), "user-7"))

	q, err := parseQuery(r)
	if err != nil {
		t.Fatalf("parseQuery failed: %v", err)
	}
	if q.ViewerID != "user-7" {
		t.Fatalf("viewer not picked up from context, got %q", q.ViewerID)
	}
}

func TestItemOut_AnnotationsOnlyWhenAuthed(t *testing.T) {
	t.Parallel()

	it := domain.Item{
		ID:        "q1",
		CreatedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Liked:     true,
	}

	anon := itemOut(it, false)
	if anon.Liked != nil || anon.Saved != nil {
		t.Fatalf("anonymous output must omit marks: %+v", anon)
	}

	authed := itemOut(it, true)
	if authed.Liked == nil || !*authed.Liked {
		t.Fatalf("authed output should carry liked: %+v", authed)
	}
	if authed.Saved == nil || *authed.Saved {
		t.Fatalf("authed output should carry saved=false: %+v", authed)
	}
	if authed.CreatedAt != "2026-05-01T00:00:00Z" {
		t.Fatalf("unexpected created_at %q", authed.CreatedAt)
	}
}
