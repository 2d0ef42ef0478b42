// Command slicer cuts a tile sheet into one PNG per tile.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/milk9111/tilescape/assets"
	"github.com/milk9111/tilescape/common"
	"github.com/milk9111/tilescape/logging"
	"github.com/milk9111/tilescape/palette"
	"github.com/milk9111/tilescape/render"
	"github.com/milk9111/tilescape/taskqueue"
	"github.com/sirupsen/logrus"
)

func main() {
	sheet := flag.String("sheet", "", "Tile sheet image; defaults to the bundled sample sheet")
	rows := flag.Int("rows", 1, "Rows in the sheet")
	cols := flag.Int("cols", 1, "Columns in the sheet")
	outDir := flag.String("out", "tiles", "Output directory")
	workers := flag.Int("workers", 4, "Concurrent PNG writers")
	level := flag.String("log", "info", "Log level")
	flag.Parse()

	logger, closer, err := logging.New(logging.Options{Level: *level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "slicer: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	img, name, err := readSheet(*sheet)
	if err != nil {
		logger.WithError(err).Fatal("read sheet")
	}
	written, err := sliceToDir(img, name, *rows, *cols, *outDir, *workers, logger)
	if err != nil {
		logger.WithError(err).Fatal("slice sheet")
	}
	logger.WithFields(logrus.Fields{"tiles": written, "dir": *outDir}).Info("sheet sliced")
}

func readSheet(path string) (*assets.Image, string, error) {
	if path == "" {
		data, err := assets.Bundled(assets.SampleSheet)
		if err != nil {
			return nil, "", err
		}
		img, err := assets.Decode(data, "image/png")
		return img, assets.SampleSheet, err
	}
	uploads, err := palette.ReadFiles(path)
	if err != nil {
		return nil, "", err
	}
	img, err := assets.Decode(uploads[0].Data, uploads[0].MIME)
	return img, uploads[0].Name, err
}

type tileJob struct {
	index int
	entry palette.Entry
	path  string
}

// sliceToDir writes every rows*cols region of img to dir as
// <base>_<index>.png and returns how many files were written.
func sliceToDir(img *assets.Image, name string, rows, cols int, dir string, workers int, log logrus.FieldLogger) (int, error) {
	entries := palette.SliceSheet(img, rows, cols)
	if len(entries) == 0 {
		return 0, fmt.Errorf("slicer: nothing to slice with %dx%d", rows, cols)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))

	var (
		mu       sync.Mutex
		firstErr error
		written  int
	)
	q, err := taskqueue.New(workers, len(entries), func(j tileJob) {
		err := writeTile(j.entry, j.path)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		written++
		log.WithFields(logrus.Fields{"index": j.index, "file": j.path}).Debug("tile written")
	})
	if err != nil {
		return 0, err
	}
	for i, e := range entries {
		q.Submit(tileJob{index: i, entry: e, path: filepath.Join(dir, fmt.Sprintf("%s_%d.png", base, i))})
	}
	q.Wait()
	q.Close()
	return written, firstErr
}

func writeTile(e palette.Entry, path string) error {
	w, h := int(math.Round(e.Src.Width)), int(math.Round(e.Src.Height))
	surface := render.NewRasterSurface(w, h)
	surface.DrawImage(e.Image, e.Src, common.Rect{Width: float64(w), Height: float64(h)})

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := surface.WritePNG(bw); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
