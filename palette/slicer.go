// Package palette turns uploaded images into the indexed list of tiles the
// user paints with.
package palette

import (
	"strings"

	"github.com/milk9111/tilescape/assets"
	"github.com/milk9111/tilescape/common"
	"github.com/milk9111/tilescape/events"
	"github.com/milk9111/tilescape/grid"
	"github.com/milk9111/tilescape/logging"
	"github.com/sirupsen/logrus"
)

type Mode int

const (
	ModeIndividual Mode = iota
	ModeSheet
)

func (m Mode) String() string {
	if m == ModeSheet {
		return "sheet"
	}
	return "individual"
}

func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "individual":
		return ModeIndividual, true
	case "sheet":
		return ModeSheet, true
	default:
		return ModeIndividual, false
	}
}

// Entry is one selectable tile: a region of a shared image.
type Entry struct {
	Image *assets.Image
	Src   common.Rect
}

// Tile copies the entry into a paintable tile.
func (e Entry) Tile() grid.Tile {
	return grid.Tile{Image: e.Image, Src: e.Src}
}

// SliceSheet cuts img into rows*cols equal regions in row-major order.
// Regions keep fractional bounds when the sheet does not divide evenly.
func SliceSheet(img *assets.Image, rows, cols int) []Entry {
	if img == nil || rows < 1 || cols < 1 {
		return nil
	}
	w := float64(img.Width()) / float64(cols)
	h := float64(img.Height()) / float64(rows)
	entries := make([]Entry, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			entries = append(entries, Entry{
				Image: img,
				Src:   common.Rect{X: float64(c) * w, Y: float64(r) * h, Width: w, Height: h},
			})
		}
	}
	return entries
}

// Slicer owns the palette. It is not safe for concurrent use; decode
// callbacks must arrive on the owning goroutine.
type Slicer struct {
	decoder assets.Decoder
	pub     events.Publisher
	log     logrus.FieldLogger

	mode     Mode
	entries  []Entry
	selected int
	rows     int
	cols     int
	sheet    *assets.Image

	// gen changes on every reset so late decodes can be told apart.
	gen uint64
}

func NewSlicer(decoder assets.Decoder, pub events.Publisher, log logrus.FieldLogger) *Slicer {
	if decoder == nil {
		decoder = assets.SyncDecoder{}
	}
	if pub == nil {
		pub = events.Discard{}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Slicer{
		decoder:  decoder,
		pub:      pub,
		log:      log,
		selected: -1,
		rows:     1,
		cols:     1,
	}
}

func (s *Slicer) Mode() Mode           { return s.mode }
func (s *Slicer) Rows() int            { return s.rows }
func (s *Slicer) Cols() int            { return s.cols }
func (s *Slicer) Selected() int        { return s.selected }
func (s *Slicer) Len() int             { return len(s.entries) }
func (s *Slicer) Sheet() *assets.Image { return s.sheet }

func (s *Slicer) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

func (s *Slicer) Entry(i int) (Entry, bool) {
	if i < 0 || i >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[i], true
}

// SetMode switches the import mode. Switching to a different mode empties
// the palette and forgets the stored sheet.
func (s *Slicer) SetMode(m Mode) {
	if m == s.mode {
		return
	}
	s.mode = m
	s.gen++
	s.sheet = nil
	s.replace(nil)
	s.log.WithField("mode", m).Debug("palette mode changed")
}

// Upload imports files according to the current mode. Decoding may finish
// later; the palette changes only when it does.
func (s *Slicer) Upload(files []Upload) {
	if len(files) == 0 {
		return
	}
	s.gen++
	if s.mode == ModeSheet {
		s.uploadSheet(files[0])
		return
	}
	s.uploadBatch(files)
}

func (s *Slicer) uploadBatch(files []Upload) {
	gen := s.gen
	decoded := make([]*assets.Image, len(files))
	remaining := len(files)
	for i, f := range files {
		s.decoder.Decode(f.Data, f.MIME, func(img *assets.Image, err error) {
			if gen != s.gen {
				return
			}
			if err != nil {
				s.log.WithError(err).WithField("file", f.Name).Warn("skipping undecodable tile")
			} else {
				decoded[i] = img
			}
			remaining--
			if remaining > 0 {
				return
			}
			entries := make([]Entry, 0, len(decoded))
			for _, img := range decoded {
				if img == nil {
					continue
				}
				entries = append(entries, Entry{
					Image: img,
					Src:   common.Rect{Width: float64(img.Width()), Height: float64(img.Height())},
				})
			}
			s.replace(entries)
			s.log.WithField("tiles", len(entries)).Info("palette loaded")
		})
	}
}

func (s *Slicer) uploadSheet(f Upload) {
	gen := s.gen
	s.decoder.Decode(f.Data, f.MIME, func(img *assets.Image, err error) {
		if gen != s.gen {
			return
		}
		if err != nil {
			s.log.WithError(err).WithField("file", f.Name).Warn("sheet could not be decoded")
			return
		}
		s.sheet = img
		s.slice()
		s.log.WithFields(logrus.Fields{
			"file": f.Name,
			"rows": s.rows,
			"cols": s.cols,
		}).Info("sheet sliced")
	})
}

// SetRows takes the rows field text and re-slices the stored sheet.
func (s *Slicer) SetRows(text string) {
	s.rows = grid.ParseDimension(text, s.rows)
	s.slice()
}

// SetCols takes the columns field text and re-slices the stored sheet.
func (s *Slicer) SetCols(text string) {
	s.cols = grid.ParseDimension(text, s.cols)
	s.slice()
}

func (s *Slicer) slice() {
	if s.sheet == nil || s.mode != ModeSheet {
		return
	}
	s.replace(SliceSheet(s.sheet, s.rows, s.cols))
}

func (s *Slicer) replace(entries []Entry) {
	s.entries = entries
	s.selected = -1
	s.pub.Publish(events.PaletteChanged{Count: len(entries)})
}

// Select makes entry i the brush. Out-of-range indices are ignored.
func (s *Slicer) Select(i int) bool {
	e, ok := s.Entry(i)
	if !ok {
		return false
	}
	s.selected = i
	s.pub.Publish(events.PaletteSelected{Index: i, Tile: e.Tile()})
	return true
}

// SelectAt selects the entry under a point of the preview.
func (s *Slicer) SelectAt(l Layout, x, y float64) bool {
	i, ok := l.IndexAt(x, y, len(s.entries))
	if !ok {
		return false
	}
	return s.Select(i)
}
