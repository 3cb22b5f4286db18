// Package config handles configuration loading for the colormap server.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/atlasmap-sc/colormaps/internal/simulation"
	"github.com/atlasmap-sc/colormaps/pkg/colormap"
)

// Config represents the server configuration.
type Config struct {
	Server     ServerConfig      `yaml:"server"`
	Cache      CacheConfig       `yaml:"cache"`
	Render     RenderConfig      `yaml:"render"`
	Store      StoreConfig       `yaml:"store"`
	Colormaps  []colormap.Spec   `yaml:"colormaps"`
	Simulation simulation.Params `yaml:"simulation"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
	Title       string   `yaml:"title"`
}

// CacheConfig contains caching settings.
type CacheConfig struct {
	ImageSizeMB     int `yaml:"image_size_mb"`
	ImageTTLMinutes int `yaml:"image_ttl_minutes"`
	QueryCacheSize  int `yaml:"query_cache_size"`
}

// RenderConfig contains rendering settings.
type RenderConfig struct {
	ColorbarWidth   int    `yaml:"colorbar_width"`
	ColorbarHeight  int    `yaml:"colorbar_height"`
	DefaultColormap string `yaml:"default_colormap"`
	LUTSize         int    `yaml:"lut_size"`
}

// StoreConfig contains spec store settings.
type StoreConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return default config if file doesn't exist
		return DefaultConfig(), nil
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Apply defaults for missing values
	applyDefaults(&cfg)

	return &cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Cache: CacheConfig{
			ImageSizeMB:     64,
			ImageTTLMinutes: 10,
			QueryCacheSize:  1000,
		},
		Render: RenderConfig{
			ColorbarWidth:   256,
			ColorbarHeight:  32,
			DefaultColormap: "mycmap",
			LUTSize:         256,
		},
		Store: StoreConfig{
			SQLitePath: "./data/colormaps.sqlite",
		},
		Simulation: simulation.DefaultParams(),
	}
}

func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Server.Port
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = defaults.Server.CORSOrigins
	}
	if cfg.Cache.ImageSizeMB == 0 {
		cfg.Cache.ImageSizeMB = defaults.Cache.ImageSizeMB
	}
	if cfg.Cache.ImageTTLMinutes == 0 {
		cfg.Cache.ImageTTLMinutes = defaults.Cache.ImageTTLMinutes
	}
	if cfg.Cache.QueryCacheSize == 0 {
		cfg.Cache.QueryCacheSize = defaults.Cache.QueryCacheSize
	}
	if cfg.Render.ColorbarWidth == 0 {
		cfg.Render.ColorbarWidth = defaults.Render.ColorbarWidth
	}
	if cfg.Render.ColorbarHeight == 0 {
		cfg.Render.ColorbarHeight = defaults.Render.ColorbarHeight
	}
	if cfg.Render.DefaultColormap == "" {
		cfg.Render.DefaultColormap = defaults.Render.DefaultColormap
	}
	if cfg.Render.LUTSize == 0 {
		cfg.Render.LUTSize = defaults.Render.LUTSize
	}
	if cfg.Store.SQLitePath == "" {
		cfg.Store.SQLitePath = defaults.Store.SQLitePath
	}
	cfg.Simulation = simulation.WithDefaults(cfg.Simulation)
}
