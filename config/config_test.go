package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/tilescape/grid"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	meta := cfg.MapMetadata()
	if meta.Projection != grid.Isometric || meta.Width != 10 || meta.Height != 10 {
		t.Fatalf("unexpected default map %+v", meta)
	}
	if cfg.Map.TileWidth != 64 || cfg.Map.IsoTop != 100 {
		t.Fatalf("unexpected tile defaults %+v", cfg.Map)
	}
	l := cfg.Layout()
	if l.Columns != 4 || l.Padding != 10 {
		t.Fatalf("unexpected layout %+v", l)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
map:
  projection: flat
  width: 3
render:
  grid_line: "#444"
store:
  driver: memory
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Map.Width != 3 || cfg.Map.Height != 10 {
		t.Fatalf("expected width override and default height, got %+v", cfg.Map)
	}
	if cfg.Store.Driver != "memory" || cfg.Decode.Workers != 4 {
		t.Fatalf("unexpected store/decode %+v %+v", cfg.Store, cfg.Decode)
	}
	style, err := cfg.Style()
	if err != nil {
		t.Fatalf("Style: %v", err)
	}
	if style.GridLine != (color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff}) {
		t.Fatalf("unexpected grid color %+v", style.GridLine)
	}
	if style.HoverFill.A != 0x33 {
		t.Fatalf("hover fill should keep its default alpha, got %+v", style.HoverFill)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"projection", "map: {projection: hex}"},
		{"tile_width", "map: {tile_width: 0}"},
		{"driver", "store: {driver: redis}"},
		{"mysql_without_dsn", "store: {driver: mysql}"},
		{"color", "render: {background: nope}"},
		{"mode", "palette: {mode: atlas}"},
		{"syntax", "map: ["},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Parse([]byte(c.yaml)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	if err != nil || cfg.Store.Driver != "file" {
		t.Fatalf("missing file should give defaults: %+v %v", cfg.Store, err)
	}

	path := filepath.Join(dir, "tilescape.yaml")
	if err := os.WriteFile(path, []byte("log: {level: debug}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err = Load(path)
	if err != nil || cfg.LogOptions().Level != "debug" {
		t.Fatalf("Load: %+v %v", cfg.Log, err)
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tilescape.yaml")
	w, err := NewWatcher(FileFilter(path), dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(path, []byte("map: {width: 4}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case name := <-w.Events:
		if name != path {
			t.Fatalf("expected event for %s, got %s", path, name)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for watcher event")
	}
}
