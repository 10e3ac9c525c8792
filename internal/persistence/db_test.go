package persistence

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/talgya/hexworld/internal/mapgen"
	"github.com/talgya/hexworld/internal/terrain"
	"github.com/talgya/hexworld/internal/world"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func generate(t *testing.T, seed int64) (mapgen.Request, *mapgen.Result) {
	t.Helper()
	req := mapgen.DefaultRequest()
	req.Type = terrain.TypeIslands
	req.Size = world.SizeMicro
	req.Seed = seed
	res, err := mapgen.Generate(req)
	if err != nil {
		t.Fatal(err)
	}
	return req, res
}

func TestSaveRunRoundTrip(t *testing.T) {
	db := openTemp(t)
	req, res := generate(t, 17)

	run, err := NewRun(req, res, "out/map.txt")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SaveRun(run); err != nil {
		t.Fatal(err)
	}

	got, err := db.Run(run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != run {
		t.Errorf("Run() = %+v, want %+v", got, run)
	}

	var counts map[string]int
	if err := json.Unmarshal([]byte(got.Terrain), &counts); err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	if total != res.Rows*res.Columns {
		t.Errorf("stored terrain counts sum to %d, want %d", total, res.Rows*res.Columns)
	}

	back, err := got.Request()
	if err != nil {
		t.Fatal(err)
	}
	if back != req {
		t.Errorf("Request() = %+v, want %+v", back, req)
	}
}

func TestRunRegeneratesSameMap(t *testing.T) {
	db := openTemp(t)
	req, res := generate(t, 23)
	run, err := NewRun(req, res, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SaveRun(run); err != nil {
		t.Fatal(err)
	}

	last, err := db.LastRun()
	if err != nil {
		t.Fatal(err)
	}
	again, err := last.Request()
	if err != nil {
		t.Fatal(err)
	}
	res2, err := mapgen.Generate(again)
	if err != nil {
		t.Fatal(err)
	}
	for i := range res.Terrain {
		if res.Terrain[i] != res2.Terrain[i] || res.Landscape[i] != res2.Landscape[i] {
			t.Fatalf("tile %d differs after regenerating from the catalog", i)
		}
	}
}

func TestRecentRuns(t *testing.T) {
	db := openTemp(t)
	var ids []string
	for seed := int64(1); seed <= 3; seed++ {
		req, res := generate(t, seed)
		run, err := NewRun(req, res, "")
		if err != nil {
			t.Fatal(err)
		}
		if err := db.SaveRun(run); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := db.RecentRuns(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("RecentRuns(2) returned %d runs", len(runs))
	}
	if runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Errorf("RecentRuns order = [%s %s], want newest first", runs[0].ID, runs[1].ID)
	}
}

func TestMeta(t *testing.T) {
	db := openTemp(t)
	if _, err := db.GetMeta("missing"); err == nil {
		t.Error("GetMeta found a missing key")
	}
	if err := db.SaveMeta("note", "first"); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveMeta("note", "second"); err != nil {
		t.Fatal(err)
	}
	if v, err := db.GetMeta("note"); err != nil || v != "second" {
		t.Errorf("GetMeta = (%q, %v), want second", v, err)
	}
}
