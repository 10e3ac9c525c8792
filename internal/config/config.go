// Package config loads map generation settings from a YAML file. Files are
// checked against an embedded JSON Schema before they are decoded.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/talgya/hexworld/internal/landscape"
	"github.com/talgya/hexworld/internal/mapgen"
	"github.com/talgya/hexworld/internal/terrain"
	"github.com/talgya/hexworld/internal/world"
)

//go:embed config.schema.json
var schemaJSON string

const schemaURL = "config.schema.json"

// Config holds the settings of one generation run. Enumerations are kept
// as names so files stay readable.
type Config struct {
	Seed        int64   `yaml:"seed"`
	MapType     string  `yaml:"map_type"`
	Size        string  `yaml:"size"`
	Temperature string  `yaml:"temperature"`
	Humidity    string  `yaml:"humidity"`
	RiverFactor float64 `yaml:"river_factor"`
	RiverBed    int     `yaml:"river_bed"`
	CatalogPath string  `yaml:"catalog_path"` // SQLite run catalog; empty disables it
	DumpPath    string  `yaml:"dump_path"`    // Text dump; "-" for stdout, ".zst" to compress
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		MapType:     "continents",
		Size:        "small",
		Temperature: "normal",
		Humidity:    "normal",
		RiverFactor: 1.5,
		RiverBed:    1,
		CatalogPath: "data/hexworld.db",
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := Validate(raw); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks a YAML document against the config schema.
func Validate(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if doc == nil {
		return nil
	}
	// Round-trip through JSON so the validator sees plain JSON types.
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert yaml: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("convert yaml: %w", err)
	}

	s, err := compileSchema()
	if err != nil {
		return err
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return s, nil
}

// Merge applies file values to cfg, except for fields whose flags were
// set explicitly on the command line.
func Merge(cfg *Config, fromFile Config, explicitFlags map[string]bool) {
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["type"] {
		cfg.MapType = fromFile.MapType
	}
	if !explicitFlags["size"] {
		cfg.Size = fromFile.Size
	}
	if !explicitFlags["temperature"] {
		cfg.Temperature = fromFile.Temperature
	}
	if !explicitFlags["humidity"] {
		cfg.Humidity = fromFile.Humidity
	}
	if !explicitFlags["rivers"] {
		cfg.RiverFactor = fromFile.RiverFactor
	}
	if !explicitFlags["river-bed"] {
		cfg.RiverBed = fromFile.RiverBed
	}
	if !explicitFlags["catalog"] {
		cfg.CatalogPath = fromFile.CatalogPath
	}
	if !explicitFlags["dump"] {
		cfg.DumpPath = fromFile.DumpPath
	}
}

// Request resolves the names in cfg into a generation request.
func (cfg Config) Request() (mapgen.Request, error) {
	req := mapgen.Request{
		Seed:        cfg.Seed,
		RiverFactor: cfg.RiverFactor,
		RiverBed:    cfg.RiverBed,
	}
	var err error
	if req.Type, err = terrain.ParseMapType(cfg.MapType); err != nil {
		return req, err
	}
	if req.Size, err = world.ParseMapSize(cfg.Size); err != nil {
		return req, err
	}
	if req.Temperature, err = landscape.ParseTemperature(cfg.Temperature); err != nil {
		return req, err
	}
	if req.Humidity, err = landscape.ParseHumidity(cfg.Humidity); err != nil {
		return req, err
	}
	return req, req.Validate()
}
