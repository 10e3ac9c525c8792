package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexworld/internal/persistence"
)

func openCatalog(path string) (*persistence.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return persistence.Open(path)
}

func listRuns(db *persistence.DB, n int) error {
	runs, err := db.RecentRuns(n)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Printf("%s  %-18s %-6s seed=%-20d land=%-6s rivers=%-2d %s\n",
			r.ID, r.MapType, r.Size, r.Seed,
			humanize.Comma(int64(r.LandTiles)), r.Rivers, humanize.Time(r.Created()))
	}
	return nil
}
