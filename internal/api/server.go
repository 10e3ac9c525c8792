// Package api serves map generation over HTTP.
// GET endpoints generate maps and read the run catalog.
// POST endpoints require a bearer token and record runs in the catalog.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/hexworld/internal/config"
	"github.com/talgya/hexworld/internal/mapgen"
	"github.com/talgya/hexworld/internal/persistence"
	"github.com/talgya/hexworld/internal/terrain"
	"github.com/talgya/hexworld/internal/world"
)

// Server serves generated maps over HTTP.
type Server struct {
	DB       *persistence.DB // Run catalog. Nil disables the /runs endpoints.
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	// Generations allowed per client per hour. 0 = unlimited.
	GenerateLimit int
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "catalog", s.DB != nil)

	go func() {
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Handler returns the API routes wrapped in CORS handling.
func (s *Server) Handler() http.Handler {
	generate := s.handleMap
	if s.GenerateLimit > 0 {
		generate = RateLimitMiddleware(NewRateLimiter(s.GenerateLimit, time.Hour), generate)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/map", s.adminOnly(generate))
	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/runs/", s.handleRunRoutes)
	return corsMiddleware(mux)
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of extra origins.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && token == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no HEXWORLD_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	types := make([]string, 0)
	for _, t := range terrain.MapTypes() {
		types = append(types, t.String())
	}
	sizes := make([]string, 0, len(world.Sizes))
	for _, sz := range world.Sizes {
		sizes = append(sizes, sz.String())
	}
	writeJSON(w, map[string]any{
		"name":      "hexworld",
		"map_types": types,
		"sizes":     sizes,
		"catalog":   s.DB != nil,
	})
}

// handleMap generates a map from query parameters. GET returns the map;
// POST also records the run in the catalog.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, err := requestFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := mapgen.Generate(req)
	if err != nil {
		slog.Error("generation failed", "error", err)
		http.Error(w, "generation failed", http.StatusInternalServerError)
		return
	}

	out := newMapResponse(res)
	if r.Method == http.MethodPost {
		if s.DB == nil {
			http.Error(w, "catalog not available", http.StatusServiceUnavailable)
			return
		}
		run, err := persistence.NewRun(req, res, "")
		if err == nil {
			err = s.DB.SaveRun(run)
		}
		if err != nil {
			slog.Error("catalog save failed", "error", err)
			http.Error(w, "catalog save failed", http.StatusInternalServerError)
			return
		}
		out.RunID = run.ID
	}
	writeJSON(w, out)
}

// handleRuns lists recent catalogued runs (GET /api/v1/runs?limit=N).
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "catalog not available", http.StatusServiceUnavailable)
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			http.Error(w, "limit must be between 1 and 500", http.StatusBadRequest)
			return
		}
		limit = n
	}
	runs, err := s.DB.RecentRuns(limit)
	if err != nil {
		slog.Error("listing runs failed", "error", err)
		http.Error(w, "catalog error", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []persistence.Run{}
	}
	writeJSON(w, runs)
}

// handleRunRoutes dispatches between run detail (GET /api/v1/runs/:id) and
// regeneration (GET /api/v1/runs/:id/map).
func (s *Server) handleRunRoutes(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "catalog not available", http.StatusServiceUnavailable)
		return
	}
	id, rest, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/api/v1/runs/"), "/")
	run, err := s.DB.Run(id)
	if err != nil {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	switch rest {
	case "":
		writeJSON(w, run)
	case "map":
		req, err := run.Request()
		if err != nil {
			http.Error(w, "run is unreadable", http.StatusInternalServerError)
			return
		}
		res, err := mapgen.Generate(req)
		if err != nil {
			http.Error(w, "generation failed", http.StatusInternalServerError)
			return
		}
		out := newMapResponse(res)
		out.RunID = run.ID
		writeJSON(w, out)
	default:
		http.NotFound(w, r)
	}
}

// requestFromQuery reads generation parameters from the query string.
// Names follow the command-line flags; missing ones keep their defaults.
func requestFromQuery(r *http.Request) (mapgen.Request, error) {
	q := r.URL.Query()
	cfg := config.Default()
	if v := q.Get("type"); v != "" {
		cfg.MapType = v
	}
	if v := q.Get("size"); v != "" {
		cfg.Size = v
	}
	if v := q.Get("temperature"); v != "" {
		cfg.Temperature = v
	}
	if v := q.Get("humidity"); v != "" {
		cfg.Humidity = v
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return mapgen.Request{}, fmt.Errorf("bad seed %q", v)
		}
		cfg.Seed = seed
	}
	if v := q.Get("rivers"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return mapgen.Request{}, fmt.Errorf("bad river factor %q", v)
		}
		cfg.RiverFactor = f
	}
	if v := q.Get("river_bed"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return mapgen.Request{}, fmt.Errorf("bad river bed %q", v)
		}
		cfg.RiverBed = n
	}
	return cfg.Request()
}

type riverTile struct {
	Q          int      `json:"q"`
	R          int      `json:"r"`
	S          int      `json:"s"`
	Directions []string `json:"directions"`
}

type mapResponse struct {
	RunID     string      `json:"run_id,omitempty"`
	Seed      int64       `json:"seed"`
	Type      string      `json:"type"`
	Size      string      `json:"size"`
	Rows      int         `json:"rows"`
	Columns   int         `json:"columns"`
	Terrain   []int       `json:"terrain"`
	Landscape []int       `json:"landscape"`
	Rivers    []int       `json:"rivers"`
	RiverDirs []riverTile `json:"river_directions"`
	LandTiles int         `json:"land_tiles"`
	RiverLens []int       `json:"river_lengths"`
	ElapsedMs int64       `json:"elapsed_ms"`
}

func newMapResponse(res *mapgen.Result) mapResponse {
	out := mapResponse{
		Seed:      res.Seed,
		Type:      res.Type.String(),
		Size:      res.Size.String(),
		Rows:      res.Rows,
		Columns:   res.Columns,
		Terrain:   res.Terrain,
		Landscape: res.Landscape,
		Rivers:    res.Rivers,
		RiverDirs: make([]riverTile, 0, len(res.RiverDirections)),
		LandTiles: res.Stats.LandTiles(),
		RiverLens: res.Stats.RiverLengths,
		ElapsedMs: res.Stats.Elapsed.Milliseconds(),
	}
	// Row-major order keeps the payload stable for a given seed.
	for i := range res.Terrain {
		c := world.OffsetToCube(i/res.Columns, i%res.Columns)
		dirs, ok := res.RiverDirections[c]
		if !ok {
			continue
		}
		names := make([]string, len(dirs))
		for k, d := range dirs {
			names[k] = d.String()
		}
		out.RiverDirs = append(out.RiverDirs, riverTile{Q: c.Q, R: c.R, S: c.S(), Directions: names})
	}
	return out
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
