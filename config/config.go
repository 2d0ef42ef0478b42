// Package config loads editor settings from YAML.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/milk9111/tilescape/grid"
	"github.com/milk9111/tilescape/logging"
	"github.com/milk9111/tilescape/palette"
	"github.com/milk9111/tilescape/render"
	"gopkg.in/yaml.v3"
)

//go:embed tilescape.yaml
var defaultYAML []byte

type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Map     MapConfig     `yaml:"map"`
	Palette PaletteConfig `yaml:"palette"`
	Render  RenderConfig  `yaml:"render"`
	Store   StoreConfig   `yaml:"store"`
	Imports ImportsConfig `yaml:"imports"`
	Decode  DecodeConfig  `yaml:"decode"`
	Cache   CacheConfig   `yaml:"cache"`
	Log     LogConfig     `yaml:"log"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type MapConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Projection string  `yaml:"projection"`
	TileWidth  float64 `yaml:"tile_width"`
	IsoTop     float64 `yaml:"iso_top"`
}

type PaletteConfig struct {
	PreviewWidth float64 `yaml:"preview_width"`
	Padding      float64 `yaml:"padding"`
	Columns      int     `yaml:"columns"`
	Mode         string  `yaml:"mode"`
	Rows         int     `yaml:"rows"`
	Cols         int     `yaml:"cols"`
}

type RenderConfig struct {
	Background       string  `yaml:"background"`
	GridLine         string  `yaml:"grid_line"`
	GridLineWidth    float64 `yaml:"grid_line_width"`
	HoverFill        string  `yaml:"hover_fill"`
	HoverStroke      string  `yaml:"hover_stroke"`
	HoverStrokeWidth float64 `yaml:"hover_stroke_width"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	Dir    string `yaml:"dir"`
	DSN    string `yaml:"dsn"`
	Seed   bool   `yaml:"seed"`
}

type ImportsConfig struct {
	Dir string `yaml:"dir"`
}

type DecodeConfig struct {
	Workers int `yaml:"workers"`
	Queue   int `yaml:"queue"`
}

type CacheConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
	JSON  bool   `yaml:"json"`
}

// Default returns the settings shipped with the editor.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return cfg, nil
}

// Parse overlays YAML data on the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, ok := grid.ParseProjection(c.Map.Projection); !ok {
		return fmt.Errorf("config: map.projection %q must be flat or isometric", c.Map.Projection)
	}
	if c.Map.TileWidth <= 0 {
		return fmt.Errorf("config: map.tile_width must be positive")
	}
	if _, ok := palette.ParseMode(c.Palette.Mode); !ok {
		return fmt.Errorf("config: palette.mode %q must be individual or sheet", c.Palette.Mode)
	}
	switch c.Store.Driver {
	case "file", "memory":
	case "mysql":
		if c.Store.DSN == "" {
			return fmt.Errorf("config: store.dsn is required for mysql")
		}
	default:
		return fmt.Errorf("config: unknown store.driver %q", c.Store.Driver)
	}
	if _, err := c.Style(); err != nil {
		return err
	}
	return nil
}

// MapMetadata is the shape of a new map.
func (c Config) MapMetadata() grid.Metadata {
	p, _ := grid.ParseProjection(c.Map.Projection)
	return grid.Metadata{Width: c.Map.Width, Height: c.Map.Height, Projection: p}.Sanitize()
}

func (c Config) Style() (render.Style, error) {
	style := render.DefaultStyle()
	var err error
	if style.Background, err = colorOr(c.Render.Background, style.Background, "render.background"); err != nil {
		return style, err
	}
	if style.GridLine, err = colorOr(c.Render.GridLine, style.GridLine, "render.grid_line"); err != nil {
		return style, err
	}
	if style.HoverFill, err = colorOr(c.Render.HoverFill, style.HoverFill, "render.hover_fill"); err != nil {
		return style, err
	}
	if style.HoverStroke, err = colorOr(c.Render.HoverStroke, style.HoverStroke, "render.hover_stroke"); err != nil {
		return style, err
	}
	if c.Render.GridLineWidth > 0 {
		style.GridLineWidth = c.Render.GridLineWidth
	}
	if c.Render.HoverStrokeWidth > 0 {
		style.HoverStrokeWidth = c.Render.HoverStrokeWidth
	}
	return style, nil
}

func (c Config) Layout() palette.Layout {
	l := palette.NewLayout(c.Palette.PreviewWidth)
	if c.Palette.Padding > 0 {
		l.Padding = c.Palette.Padding
	}
	if c.Palette.Columns > 0 {
		l.Columns = c.Palette.Columns
	}
	return l
}

func (c Config) LogOptions() logging.Options {
	return logging.Options{Level: c.Log.Level, File: c.Log.File, JSON: c.Log.JSON}
}

func colorOr(text string, fallback color.NRGBA, field string) (color.NRGBA, error) {
	if strings.TrimSpace(text) == "" {
		return fallback, nil
	}
	c, err := render.ParseHexColor(text)
	if err != nil {
		return fallback, fmt.Errorf("config: %s: %w", field, err)
	}
	return c, nil
}
