// Package persistence keeps a SQLite catalog of generation runs. Maps are
// not stored: a run records its seed and parameters so the map can be
// generated again.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexworld/internal/landscape"
	"github.com/talgya/hexworld/internal/mapgen"
	"github.com/talgya/hexworld/internal/terrain"
	"github.com/talgya/hexworld/internal/world"
)

// DB wraps a SQLite connection for the run catalog.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		map_type TEXT NOT NULL,
		size TEXT NOT NULL,
		temperature TEXT NOT NULL,
		humidity TEXT NOT NULL,
		river_factor REAL NOT NULL,
		river_bed INTEGER NOT NULL,
		grid_rows INTEGER NOT NULL,
		grid_columns INTEGER NOT NULL,
		land_tiles INTEGER NOT NULL,
		rivers INTEGER NOT NULL,
		river_lengths_json TEXT NOT NULL,
		terrain_json TEXT NOT NULL,
		landscape_json TEXT NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		dump_path TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

	CREATE TABLE IF NOT EXISTS catalog_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Run is one catalogued generation run.
type Run struct {
	ID           string  `db:"id" json:"id"`
	Seed         int64   `db:"seed" json:"seed"`
	MapType      string  `db:"map_type" json:"map_type"`
	Size         string  `db:"size" json:"size"`
	Temperature  string  `db:"temperature" json:"temperature"`
	Humidity     string  `db:"humidity" json:"humidity"`
	RiverFactor  float64 `db:"river_factor" json:"river_factor"`
	RiverBed     int     `db:"river_bed" json:"river_bed"`
	Rows         int     `db:"grid_rows" json:"grid_rows"`
	Columns      int     `db:"grid_columns" json:"grid_columns"`
	LandTiles    int     `db:"land_tiles" json:"land_tiles"`
	Rivers       int     `db:"rivers" json:"rivers"`
	RiverLengths string  `db:"river_lengths_json" json:"river_lengths_json"`
	Terrain      string  `db:"terrain_json" json:"terrain_json"`     // Tile counts by terrain name
	Landscape    string  `db:"landscape_json" json:"landscape_json"` // Tile counts by landscape name
	ElapsedMs    int64   `db:"elapsed_ms" json:"elapsed_ms"`
	DumpPath     string  `db:"dump_path" json:"dump_path"`
	CreatedAt    int64   `db:"created_at" json:"created_at"` // Unix seconds
}

// Created returns the creation time of the run.
func (r Run) Created() time.Time {
	return time.Unix(r.CreatedAt, 0)
}

// NewRun describes a finished generation for the catalog.
func NewRun(req mapgen.Request, res *mapgen.Result, dumpPath string) (Run, error) {
	run := Run{
		ID:          uuid.NewString(),
		Seed:        res.Seed,
		MapType:     res.Type.String(),
		Size:        res.Size.String(),
		Temperature: req.Temperature.String(),
		Humidity:    req.Humidity.String(),
		RiverFactor: req.RiverFactor,
		RiverBed:    req.RiverBed,
		Rows:        res.Rows,
		Columns:     res.Columns,
		LandTiles:   res.Stats.LandTiles(),
		Rivers:      res.Stats.Rivers,
		ElapsedMs:   res.Stats.Elapsed.Milliseconds(),
		DumpPath:    dumpPath,
		CreatedAt:   time.Now().Unix(),
	}

	lengths := res.Stats.RiverLengths
	if lengths == nil {
		lengths = []int{}
	}
	terrainCounts := make(map[string]int, len(res.Stats.Terrain))
	for t, c := range res.Stats.Terrain {
		terrainCounts[t.String()] = c
	}
	landscapeCounts := make(map[string]int, len(res.Stats.Landscape))
	for l, c := range res.Stats.Landscape {
		landscapeCounts[l.String()] = c
	}

	var err error
	if run.RiverLengths, err = marshal(lengths); err != nil {
		return run, err
	}
	if run.Terrain, err = marshal(terrainCounts); err != nil {
		return run, err
	}
	if run.Landscape, err = marshal(landscapeCounts); err != nil {
		return run, err
	}
	return run, nil
}

func marshal(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal run stats: %w", err)
	}
	return string(b), nil
}

// SaveRun inserts a run and marks it as the latest one.
func (db *DB) SaveRun(run Run) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExec(`INSERT INTO runs (
		id, seed, map_type, size, temperature, humidity, river_factor, river_bed,
		grid_rows, grid_columns, land_tiles, rivers, river_lengths_json,
		terrain_json, landscape_json, elapsed_ms, dump_path, created_at
	) VALUES (
		:id, :seed, :map_type, :size, :temperature, :humidity, :river_factor, :river_bed,
		:grid_rows, :grid_columns, :land_tiles, :rivers, :river_lengths_json,
		:terrain_json, :landscape_json, :elapsed_ms, :dump_path, :created_at
	)`, run)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO catalog_meta (key, value) VALUES (?, ?)",
		"last_run", run.ID,
	); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("run catalogued", "id", run.ID, "seed", run.Seed, "type", run.MapType)
	return nil
}

// SaveMeta stores a key-value pair in the catalog metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO catalog_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM catalog_meta WHERE key = ?", key)
	return value, err
}

// Run returns the run with the given id.
func (db *DB) Run(id string) (Run, error) {
	var run Run
	err := db.conn.Get(&run, "SELECT * FROM runs WHERE id = ?", id)
	return run, err
}

// LastRun returns the most recently saved run.
func (db *DB) LastRun() (Run, error) {
	id, err := db.GetMeta("last_run")
	if err != nil {
		return Run{}, err
	}
	return db.Run(id)
}

// RecentRuns returns the most recent N runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT * FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// Request rebuilds the generation request of a run.
func (r Run) Request() (mapgen.Request, error) {
	req := mapgen.Request{
		Seed:        r.Seed,
		RiverFactor: r.RiverFactor,
		RiverBed:    r.RiverBed,
	}
	var err error
	if req.Type, err = terrain.ParseMapType(r.MapType); err != nil {
		return req, err
	}
	if req.Size, err = world.ParseMapSize(r.Size); err != nil {
		return req, err
	}
	if req.Temperature, err = landscape.ParseTemperature(r.Temperature); err != nil {
		return req, err
	}
	if req.Humidity, err = landscape.ParseHumidity(r.Humidity); err != nil {
		return req, err
	}
	return req, nil
}
