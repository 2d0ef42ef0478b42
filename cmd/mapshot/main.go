// Command mapshot renders a stored map to a PNG without opening a window.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/milk9111/tilescape/assets"
	"github.com/milk9111/tilescape/config"
	"github.com/milk9111/tilescape/editor"
	"github.com/milk9111/tilescape/levels"
	"github.com/milk9111/tilescape/logging"
	"github.com/milk9111/tilescape/render"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "tilescape.yaml", "Path to the editor config file")
	storeDriver := flag.String("store", "", "Map store driver (file, memory or mysql); overrides the config")
	mapID := flag.String("map", "", "Id of the map to render")
	out := flag.String("out", "map.png", "Output PNG path")
	width := flag.Int("width", 1024, "Image width in pixels")
	height := flag.Int("height", 768, "Image height in pixels")
	smooth := flag.Bool("smooth", false, "Use bilinear filtering when scaling tiles")
	list := flag.Bool("list", false, "List stored maps and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mapshot: %v\n", err)
		os.Exit(1)
	}
	if *storeDriver != "" {
		cfg.Store.Driver = *storeDriver
	}
	logger, closer, err := logging.New(cfg.LogOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "mapshot: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	store, closeStore, err := openStore(cfg.Store, logger)
	if err != nil {
		logger.WithError(err).Fatal("open store")
	}
	defer closeStore()

	if *list {
		if err := listMaps(store, os.Stdout); err != nil {
			logger.WithError(err).Fatal("list maps")
		}
		return
	}
	if *mapID == "" {
		logger.Fatal("-map is required")
	}

	style, err := cfg.Style()
	if err != nil {
		logger.WithError(err).Fatal("render style")
	}
	f, err := os.Create(*out)
	if err != nil {
		logger.WithError(err).Fatal("create output")
	}
	w := bufio.NewWriter(f)
	job := shot{
		Width:     *width,
		Height:    *height,
		TileWidth: cfg.Map.TileWidth,
		IsoTop:    cfg.Map.IsoTop,
		Style:     style,
		Smooth:    *smooth,
	}
	if err := job.Render(store, *mapID, w, logger); err != nil {
		_ = f.Close()
		logger.WithError(err).Fatal("render map")
	}
	if err := w.Flush(); err != nil {
		logger.WithError(err).Fatal("write output")
	}
	if err := f.Close(); err != nil {
		logger.WithError(err).Fatal("write output")
	}
	logger.WithFields(logrus.Fields{"map": *mapID, "out": *out}).Info("map rendered")
}

type shot struct {
	Width, Height int
	TileWidth     float64
	IsoTop        float64
	Style         render.Style
	Smooth        bool
}

// Render loads id from store and writes it as PNG. Tile images decode
// synchronously, so the map is complete before the frame is drawn.
func (s shot) Render(store *levels.Collections, id string, out io.Writer, log logrus.FieldLogger) error {
	ed := editor.New(editor.Options{
		TileWidth: s.TileWidth,
		IsoTop:    s.IsoTop,
		Style:     s.Style,
		Store:     store,
		Decoder:   assets.SyncDecoder{},
		Log:       log,
	})
	ed.ResizeCanvas(float64(s.Width), float64(s.Height))
	if err := ed.Load(id); err != nil {
		return err
	}
	surface := render.NewRasterSurface(s.Width, s.Height)
	surface.SetSmooth(s.Smooth)
	ed.Tick()
	ed.Render(surface)
	return surface.WritePNG(out)
}

func listMaps(store *levels.Collections, out io.Writer) error {
	maps, err := store.ListMaps()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSIZE\tPROJECTION\tTILES")
	for _, m := range maps {
		fmt.Fprintf(tw, "%s\t%dx%d\t%s\t%d\n", m.ID, m.Width, m.Height, m.Projection, m.Tiles)
	}
	return tw.Flush()
}

func openStore(sc config.StoreConfig, log logrus.FieldLogger) (*levels.Collections, func(), error) {
	var (
		backend levels.Backend
		closeFn = func() {}
	)
	switch sc.Driver {
	case "memory":
		backend = levels.NewMemoryBackend()
	case "mysql":
		b, err := levels.OpenSQLBackend(sc.DSN)
		if err != nil {
			return nil, nil, err
		}
		backend, closeFn = b, func() { _ = b.Close() }
	default:
		b, err := levels.NewFileBackend(sc.Dir)
		if err != nil {
			return nil, nil, err
		}
		backend = b
	}
	store := levels.NewCollections(backend, log)
	if sc.Seed {
		if _, err := levels.Seed(store); err != nil {
			log.WithError(err).Warn("seed sample maps")
		}
	}
	return store, closeFn, nil
}
