package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilescape/assets"
	"github.com/milk9111/tilescape/config"
	"github.com/milk9111/tilescape/editor"
	"github.com/milk9111/tilescape/events"
	"github.com/milk9111/tilescape/levels"
	"github.com/milk9111/tilescape/logging"
	"github.com/milk9111/tilescape/palette"
	"github.com/milk9111/tilescape/render/gpu"
	"github.com/sirupsen/logrus"
	"golang.design/x/clipboard"
)

func main() {
	configPath := flag.String("config", "tilescape.yaml", "Path to the editor config file")
	storeDriver := flag.String("store", "", "Map store driver (file, memory or mysql); overrides the config")
	importsDir := flag.String("imports", "", "Directory watched for new tile images; overrides the config")
	mapID := flag.String("map", "", "Map id to open at startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "editor: %v\n", err)
		os.Exit(1)
	}
	if *storeDriver != "" {
		cfg.Store.Driver = *storeDriver
	}
	if *importsDir != "" {
		cfg.Imports.Dir = *importsDir
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "editor: %v\n", err)
		os.Exit(1)
	}

	logger, logCloser, err := logging.New(cfg.LogOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "editor: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if err := run(cfg, *configPath, *mapID, logger); err != nil {
		logger.WithError(err).Fatal("editor stopped")
	}
}

func run(cfg config.Config, configPath, mapID string, logger *logrus.Logger) error {
	backend, closeBackend, err := openBackend(cfg.Store)
	if err != nil {
		return err
	}
	defer closeBackend()

	store := levels.NewCollections(backend, logger.WithField("component", "store"))
	if cfg.Store.Seed {
		n, err := levels.Seed(store)
		if err != nil {
			logger.WithError(err).Warn("seed sample maps")
		} else if n > 0 {
			logger.WithField("maps", n).Info("seeded sample maps")
		}
	}

	registry, err := assets.NewRegistry(cfg.Cache.MaxBytes)
	if err != nil {
		return err
	}
	defer registry.Close()

	mailbox := &assets.Mailbox{}
	decoder, err := assets.NewAsyncDecoder(registry, mailbox, cfg.Decode.Workers, cfg.Decode.Queue)
	if err != nil {
		return err
	}
	defer decoder.Close()

	style, err := cfg.Style()
	if err != nil {
		return err
	}

	ed := editor.New(editor.Options{
		Meta:      cfg.MapMetadata(),
		TileWidth: cfg.Map.TileWidth,
		IsoTop:    cfg.Map.IsoTop,
		Style:     style,
		Store:     store,
		Decoder:   decoder,
		Mailbox:   mailbox,
		Log:       logger.WithField("component", "editor"),
	})

	mode, _ := palette.ParseMode(cfg.Palette.Mode)
	ed.Palette().SetMode(mode)
	ed.Palette().SetRows(fmt.Sprint(cfg.Palette.Rows))
	ed.Palette().SetCols(fmt.Sprint(cfg.Palette.Cols))

	surface := gpu.NewSurface()
	game := &Game{
		ed:           ed,
		loop:         editor.NewLoop(ed, surface),
		surface:      surface,
		layout:       cfg.Layout(),
		previewStyle: palette.DefaultPreviewStyle(),
		configPath:   configPath,
		newMap:       cfg.MapMetadata(),
		log:          logger.WithField("component", "ui"),
	}
	defer game.Close()

	if err := clipboard.Init(); err != nil {
		logger.WithError(err).Warn("clipboard unavailable")
	} else {
		game.hasClipboard = true
	}

	game.eui = buildEditorUI(uiState{
		Meta:         ed.Meta(),
		Mode:         mode,
		Rows:         ed.Palette().Rows(),
		Cols:         ed.Palette().Cols(),
		PreviewWidth: cfg.Layout().Width,
	}, uiHandlers{
		OnWidth:      ed.SetWidth,
		OnHeight:     ed.SetHeight,
		OnProjection: ed.SetProjection,
		OnMode:       ed.Palette().SetMode,
		OnRows:       ed.Palette().SetRows,
		OnCols:       ed.Palette().SetCols,
		OnPasteImage: game.pasteImage,
		OnSave:       game.save,
		OnLoad:       game.load,
		OnNewMap:     game.newMapFromConfig,
		OnCopyID:     game.copyID,
		OnPasteID:    game.pasteID,
	})
	ed.SetListener(events.HandlerFunc(game.Handle))

	if _, err := os.Stat(configPath); err == nil {
		dir := filepath.Dir(configPath)
		if w, err := config.NewWatcher(config.FileFilter(configPath), dir); err != nil {
			logger.WithError(err).Warn("watch config")
		} else {
			game.configWatch = w
		}
	}
	if cfg.Imports.Dir != "" {
		if w, err := config.NewWatcher(palette.IsImageFile, cfg.Imports.Dir); err != nil {
			logger.WithError(err).WithField("dir", cfg.Imports.Dir).Warn("watch imports")
		} else {
			game.importWatch = w
			game.imports = palette.NewImportBatch(palette.DefaultImportQuiet)
		}
	}

	if mapID != "" {
		if err := ed.Load(mapID); err != nil {
			logger.WithError(err).WithField("id", mapID).Warn("open map")
		}
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(game)
}

func openBackend(sc config.StoreConfig) (levels.Backend, func(), error) {
	switch sc.Driver {
	case "memory":
		return levels.NewMemoryBackend(), func() {}, nil
	case "mysql":
		b, err := levels.OpenSQLBackend(sc.DSN)
		if err != nil {
			return nil, nil, err
		}
		return b, func() { _ = b.Close() }, nil
	default:
		b, err := levels.NewFileBackend(sc.Dir)
		if err != nil {
			return nil, nil, err
		}
		return b, func() {}, nil
	}
}
