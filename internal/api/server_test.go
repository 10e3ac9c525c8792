package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/talgya/hexworld/internal/persistence"
)

func newTestServer(t *testing.T, withDB bool) *Server {
	t.Helper()
	s := &Server{AdminKey: "secret"}
	if withDB {
		db, err := persistence.Open(filepath.Join(t.TempDir(), "catalog.db"))
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { db.Close() })
		s.DB = db
	}
	return s
}

func do(t *testing.T, h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatus(t *testing.T) {
	rec := do(t, newTestServer(t, false).Handler(), http.MethodGet, "/api/v1/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code %d", rec.Code)
	}
	var body struct {
		MapTypes []string `json:"map_types"`
		Catalog  bool     `json:"catalog"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(body.MapTypes, "inland_sea") || body.Catalog {
		t.Errorf("unexpected status body: %s", rec.Body)
	}
}

func TestGenerateMap(t *testing.T) {
	h := newTestServer(t, false).Handler()
	target := "/api/v1/map?type=highland&size=micro&seed=11&temperature=hot"

	first := do(t, h, http.MethodGet, target, "")
	if first.Code != http.StatusOK {
		t.Fatalf("status code %d: %s", first.Code, first.Body)
	}
	var m mapResponse
	if err := json.Unmarshal(first.Body.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if m.Type != "highland" || m.Size != "micro" || m.Seed != 11 {
		t.Errorf("map header = %s %s %d", m.Type, m.Size, m.Seed)
	}
	if len(m.Terrain) != m.Rows*m.Columns || len(m.Rivers) != m.Rows*m.Columns {
		t.Errorf("layers do not cover the %dx%d grid", m.Rows, m.Columns)
	}

	second := do(t, h, http.MethodGet, target, "")
	var m2 mapResponse
	if err := json.Unmarshal(second.Body.Bytes(), &m2); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(m.Terrain, m2.Terrain) || !slices.Equal(m.Rivers, m2.Rivers) {
		t.Error("same seed returned a different map")
	}
}

func TestGenerateMapRejectsBadParams(t *testing.T) {
	h := newTestServer(t, false).Handler()
	for _, q := range []string{"type=pangaea", "size=enormous", "seed=abc", "river_bed=-2", "river_bed=20000"} {
		if rec := do(t, h, http.MethodGet, "/api/v1/map?"+q, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status code %d, want 400", q, rec.Code)
		}
	}
}

func TestPostRequiresToken(t *testing.T) {
	h := newTestServer(t, true).Handler()
	if rec := do(t, h, http.MethodPost, "/api/v1/map?size=micro&seed=3", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status code %d, want 401", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/v1/map?size=micro&seed=3", "wrong"); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status code %d, want 401", rec.Code)
	}

	s := newTestServer(t, true)
	s.AdminKey = ""
	if rec := do(t, s.Handler(), http.MethodPost, "/api/v1/map?size=micro", "x"); rec.Code != http.StatusForbidden {
		t.Errorf("disabled admin: status code %d, want 403", rec.Code)
	}
}

func TestCatalogedRunRegenerates(t *testing.T) {
	h := newTestServer(t, true).Handler()
	rec := do(t, h, http.MethodPost, "/api/v1/map?type=islands&size=micro&seed=8", "secret")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code %d: %s", rec.Code, rec.Body)
	}
	var created mapResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.RunID == "" {
		t.Fatal("POST did not return a run id")
	}

	list := do(t, h, http.MethodGet, "/api/v1/runs?limit=5", "")
	var runs []persistence.Run
	if err := json.Unmarshal(list.Body.Bytes(), &runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != created.RunID {
		t.Fatalf("runs = %+v", runs)
	}

	again := do(t, h, http.MethodGet, "/api/v1/runs/"+created.RunID+"/map", "")
	var regen mapResponse
	if err := json.Unmarshal(again.Body.Bytes(), &regen); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(regen.Terrain, created.Terrain) || !slices.Equal(regen.Landscape, created.Landscape) {
		t.Error("regenerated map differs from the catalogued one")
	}

	if rec := do(t, h, http.MethodGet, "/api/v1/runs/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing run: status code %d, want 404", rec.Code)
	}
}

func TestRunsWithoutCatalog(t *testing.T) {
	h := newTestServer(t, false).Handler()
	if rec := do(t, h, http.MethodGet, "/api/v1/runs", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status code %d, want 503", rec.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests refused")
	}
	if rl.Allow("a") {
		t.Error("third request allowed")
	}
	if !rl.Allow("b") {
		t.Error("other client limited")
	}
	if got := rl.RetryAfter("a"); got != 61 {
		t.Errorf("RetryAfter = %d, want 61", got)
	}
	now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Error("window did not reset")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	s := newTestServer(t, false)
	s.GenerateLimit = 1
	h := s.Handler()
	if rec := do(t, h, http.MethodGet, "/api/v1/map?size=micro&seed=1", ""); rec.Code != http.StatusOK {
		t.Fatalf("first request: status code %d", rec.Code)
	}
	rec := do(t, h, http.MethodGet, "/api/v1/map?size=micro&seed=1", "")
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") == "" {
		t.Errorf("second request: status code %d, Retry-After %q", rec.Code, rec.Header().Get("Retry-After"))
	}
}
