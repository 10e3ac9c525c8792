// Command mapgen generates a hex map and prints or stores its layers.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexworld/internal/api"
	"github.com/talgya/hexworld/internal/config"
	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/mapgen"
	"github.com/talgya/hexworld/internal/persistence"
	"github.com/talgya/hexworld/internal/world"
)

func main() {
	def := config.Default()
	cfgPath := flag.String("config", "", "YAML config file")
	seed := flag.Int64("seed", def.Seed, "random seed (0 = fresh seed)")
	mapType := flag.String("type", def.MapType, "map type")
	size := flag.String("size", def.Size, "map size: micro, tiny, small, medium, large, huge")
	temperature := flag.String("temperature", def.Temperature, "cold, normal or hot")
	humidity := flag.String("humidity", def.Humidity, "dry, normal or wet")
	rivers := flag.Float64("rivers", def.RiverFactor, "rivers per size step")
	riverBed := flag.Int("river-bed", def.RiverBed, "buffer radius around rivers")
	catalog := flag.String("catalog", def.CatalogPath, "SQLite run catalog (empty to disable)")
	dump := flag.String("dump", def.DumpPath, `dump file ("-" for stdout, ".zst" to compress)`)
	replay := flag.String("replay", "", "regenerate a catalogued run by id")
	list := flag.Int("list", 0, "list the N most recent catalogued runs and exit")
	serve := flag.Int("serve", 0, "serve the HTTP API on this port instead of generating once")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	cfg := config.Config{
		Seed:        *seed,
		MapType:     *mapType,
		Size:        *size,
		Temperature: *temperature,
		Humidity:    *humidity,
		RiverFactor: *rivers,
		RiverBed:    *riverBed,
		CatalogPath: *catalog,
		DumpPath:    *dump,
	}
	if *cfgPath != "" {
		fromFile, err := config.Load(*cfgPath)
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		explicit := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		config.Merge(&cfg, fromFile, explicit)
	}

	// ── Catalog ───────────────────────────────────────────────────────
	var db *persistence.DB
	if cfg.CatalogPath != "" {
		var err error
		db, err = openCatalog(cfg.CatalogPath)
		if err != nil {
			slog.Error("failed to open catalog", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	if *list > 0 {
		if db == nil {
			slog.Error("-list needs a catalog")
			os.Exit(1)
		}
		if err := listRuns(db, *list); err != nil {
			slog.Error("failed to list runs", "error", err)
			os.Exit(1)
		}
		return
	}

	if *serve > 0 {
		runServer(db, *serve)
		return
	}

	// ── Request ───────────────────────────────────────────────────────
	req, err := cfg.Request()
	if err != nil {
		slog.Error("invalid parameters", "error", err)
		os.Exit(1)
	}
	if *replay != "" {
		if db == nil {
			slog.Error("-replay needs a catalog")
			os.Exit(1)
		}
		run, err := db.Run(*replay)
		if err != nil {
			slog.Error("run not found", "id", *replay, "error", err)
			os.Exit(1)
		}
		if req, err = run.Request(); err != nil {
			slog.Error("catalogued run is unreadable", "id", run.ID, "error", err)
			os.Exit(1)
		}
		slog.Info("replaying run", "id", run.ID, "created", humanize.Time(run.Created()))
	}
	if req.Seed == 0 {
		rng := entropy.NewClient(os.Getenv("RANDOM_ORG_API_KEY"))
		if rng.Enabled() {
			slog.Info("fetching seed from random.org")
		}
		req.Seed = rng.Seed()
	}

	// ── Generation ────────────────────────────────────────────────────
	slog.Info("generating map",
		"type", req.Type,
		"size", req.Size,
		"temperature", req.Temperature,
		"humidity", req.Humidity,
		"seed", req.Seed,
	)
	res, err := mapgen.Generate(req)
	if err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}

	tiles := res.Rows * res.Columns
	for _, t := range sortedTerrain(res.Stats.Terrain) {
		slog.Debug("terrain", "type", t, "count", humanize.Comma(int64(res.Stats.Terrain[t])))
	}
	slog.Info("map ready",
		"grid", fmt.Sprintf("%dx%d", res.Rows, res.Columns),
		"tiles", humanize.Comma(int64(tiles)),
		"land", humanize.Comma(int64(res.Stats.LandTiles())),
		"rivers", res.Stats.Rivers,
		"elapsed", res.Stats.Elapsed,
	)

	// ── Output ────────────────────────────────────────────────────────
	switch cfg.DumpPath {
	case "":
	case "-":
		if err := res.Dump(os.Stdout); err != nil {
			slog.Error("dump failed", "error", err)
			os.Exit(1)
		}
	default:
		if err := res.WriteDump(cfg.DumpPath); err != nil {
			slog.Error("dump failed", "error", err)
			os.Exit(1)
		}
		if st, err := os.Stat(cfg.DumpPath); err == nil {
			slog.Info("dump written", "path", cfg.DumpPath, "size", humanize.Bytes(uint64(st.Size())))
		}
	}

	if db != nil && *replay == "" {
		run, err := persistence.NewRun(req, res, cfg.DumpPath)
		if err != nil {
			slog.Error("failed to describe run", "error", err)
			os.Exit(1)
		}
		if err := db.SaveRun(run); err != nil {
			slog.Error("failed to catalog run", "error", err)
			os.Exit(1)
		}
	}

	fmt.Printf("\n%s %s map, seed %d: %s land tiles of %s, %d rivers.\n",
		req.Size, res.Type, res.Seed,
		humanize.Comma(int64(res.Stats.LandTiles())), humanize.Comma(int64(tiles)), res.Stats.Rivers)
}

// runServer serves the HTTP API until SIGINT or SIGTERM.
func runServer(db *persistence.DB, port int) {
	adminKey := os.Getenv("HEXWORLD_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("HEXWORLD_ADMIN_KEY not set, POST endpoints will be disabled")
	}
	srv := &api.Server{
		DB:            db,
		Port:          port,
		AdminKey:      adminKey,
		GenerateLimit: 120,
	}
	srv.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", port)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)
}

func sortedTerrain(counts map[world.Terrain]int) []world.Terrain {
	var out []world.Terrain
	for t := world.TerrainMin; t <= world.TerrainMax; t++ {
		if counts[t] > 0 {
			out = append(out, t)
		}
	}
	return out
}
