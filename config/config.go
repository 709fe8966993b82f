// Package config loads flowcanvas settings from an optional YAML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config holds the tunables for routing and gesture persistence.
type Config struct {
	// StorePath is the SQLite database file.
	StorePath string `yaml:"store_path"`

	Routing struct {
		Standoff float64 `yaml:"standoff"`
		Padding  float64 `yaml:"padding"`
		Escape   float64 `yaml:"escape"`
	} `yaml:"routing"`

	Debounce struct {
		Resize time.Duration `yaml:"resize"`
		Drag   time.Duration `yaml:"drag"`
	} `yaml:"debounce"`

	// TraceEdge enables verbose routing trace for one edge id.
	TraceEdge string `yaml:"trace_edge"`
}

// Default returns the standard configuration.
func Default() Config {
	var c Config
	c.StorePath = "flowcanvas.db"
	c.Routing.Standoff = 24
	c.Routing.Padding = 16
	c.Routing.Escape = 80
	c.Debounce.Resize = 250 * time.Millisecond
	c.Debounce.Drag = 400 * time.Millisecond
	return c
}

// Load builds the configuration: defaults, then the YAML file at path (when
// non-empty), then environment variables. A .env file in the working
// directory is folded into the environment first.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse config: %w", err)
		}
	}
	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FLOWCANVAS_STORE"); v != "" {
		c.StorePath = v
	}
	if v := os.Getenv("FLOWCANVAS_TRACE_EDGE"); v != "" {
		c.TraceEdge = v
	}
	envFloat("FLOWCANVAS_STANDOFF", &c.Routing.Standoff)
	envFloat("FLOWCANVAS_PADDING", &c.Routing.Padding)
	envFloat("FLOWCANVAS_ESCAPE", &c.Routing.Escape)
}

func envFloat(key string, dst *float64) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		*dst = f
	}
}
