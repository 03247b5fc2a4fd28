// Package config loads cloudplot configuration from TOML files.
//
// Configuration is optional everywhere: every field has a working
// default, and CLI flags override file values. The expected search
// order is an explicit --config path, then ./cloudplot.toml, then
// ~/.config/cloudplot/config.toml.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/cloudplot/cloudplot/pkg/errors"
	"github.com/cloudplot/cloudplot/pkg/layout"
)

// FileName is the config file name looked up in the working directory.
const FileName = "cloudplot.toml"

// Config is the top-level configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	// Addr is the listen address (host:port).
	Addr string `toml:"addr"`
}

// CacheConfig selects and configures the pipeline cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis" or "none".
	Backend string `toml:"backend"`

	// Dir is the cache directory for the file backend.
	// Empty means the platform default under the user cache dir.
	Dir string `toml:"dir"`

	// Redis settings, used when Backend is "redis".
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// StoreConfig selects and configures the diagram store backend.
type StoreConfig struct {
	// Backend is one of "memory" or "mongo".
	Backend string `toml:"backend"`

	// Mongo settings, used when Backend is "mongo".
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// LayoutConfig overrides layout geometry. Zero values keep the defaults.
type LayoutConfig struct {
	NodeWidth        float64 `toml:"node_width"`
	NodeHeight       float64 `toml:"node_height"`
	ColumnSpacing    float64 `toml:"column_spacing"`
	RowSpacing       float64 `toml:"row_spacing"`
	ContainerPadding float64 `toml:"container_padding"`
}

// RenderConfig sets rendering defaults.
type RenderConfig struct {
	// Direction is the default flowchart direction (TB, BT, LR, RL).
	Direction string `toml:"direction"`

	// Styled enables the styled mermaid mode by default.
	Styled bool `toml:"styled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Cache:  CacheConfig{Backend: "file"},
		Store:  StoreConfig{Backend: "memory"},
		Render: RenderConfig{Direction: "TB"},
	}
}

// Load reads a TOML config file and merges it over the defaults.
// An empty path searches the standard locations; a missing file in
// that case is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = findConfig()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "failed to read config file %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidOptions, err, "failed to parse config file %s", path)
	}
	return cfg, nil
}

// LayoutOptions converts the overrides into layout options, keeping
// defaults for unset fields.
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{
		NodeWidth:        c.Layout.NodeWidth,
		NodeHeight:       c.Layout.NodeHeight,
		ColumnSpacing:    c.Layout.ColumnSpacing,
		RowSpacing:       c.Layout.RowSpacing,
		ContainerPadding: c.Layout.ContainerPadding,
	}.WithDefaults()
}

// findConfig returns the first standard config path that exists.
func findConfig() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	if dir, err := os.UserConfigDir(); err == nil {
		p := filepath.Join(dir, "cloudplot", "config.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
