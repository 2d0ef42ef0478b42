// Package levels persists maps. A map is snapshotted into a MapRecord, the
// records live in one Collection document, and the document is stored as a
// single blob in a Backend.
package levels

import (
	"encoding/json"

	"github.com/milk9111/tilescape/assets"
	"github.com/milk9111/tilescape/common"
	"github.com/milk9111/tilescape/grid"
	"github.com/milk9111/tilescape/logging"
	"github.com/sirupsen/logrus"
)

// CollectionsKey is the backend key holding the Collection document.
const CollectionsKey = "tilescape_collections"

// TilesetRecord is kept verbatim; nothing here writes tilesets.
type TilesetRecord = json.RawMessage

type Collection struct {
	Maps     []MapRecord     `json:"maps"`
	Tilesets []TilesetRecord `json:"tilesets"`
}

func (c *Collection) normalize() {
	if c.Maps == nil {
		c.Maps = []MapRecord{}
	}
	if c.Tilesets == nil {
		c.Tilesets = []TilesetRecord{}
	}
}

type MapRecord struct {
	ID         string       `json:"id,omitempty"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Projection string       `json:"projection,omitempty"`
	Tiles      []TileRecord `json:"tiles"`
}

// UnmarshalJSON also accepts the older "perspective" key for the projection.
func (r *MapRecord) UnmarshalJSON(data []byte) error {
	type plain MapRecord
	var aux struct {
		plain
		Perspective string `json:"perspective"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = MapRecord(aux.plain)
	if r.Projection == "" {
		r.Projection = aux.Perspective
	}
	return nil
}

// TileRecord is one painted cell. Image is a data URL of the whole source
// image; X, Y, Width and Height select the region of it.
type TileRecord struct {
	Key    string  `json:"key"`
	Image  string  `json:"image"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
}

// UnmarshalJSON also accepts the older "src" key for the image.
func (t *TileRecord) UnmarshalJSON(data []byte) error {
	type plain TileRecord
	var aux struct {
		plain
		Src string `json:"src"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*t = TileRecord(aux.plain)
	if t.Image == "" {
		t.Image = aux.Src
	}
	return nil
}

// Metadata reads the map shape. A missing or unknown projection means
// isometric.
func (r MapRecord) Metadata() grid.Metadata {
	p, _ := grid.ParseProjection(r.Projection)
	return grid.Metadata{Width: r.Width, Height: r.Height, Projection: p}.Sanitize()
}

// Serialize snapshots g. Tiles are written in row-major order.
func Serialize(g *grid.TileGrid, meta grid.Metadata, id string) MapRecord {
	meta = meta.Sanitize()
	rec := MapRecord{
		ID:         id,
		Width:      meta.Width,
		Height:     meta.Height,
		Projection: meta.Projection.String(),
		Tiles:      []TileRecord{},
	}
	g.Each(func(c grid.Coord, t grid.Tile) bool {
		if t.Image == nil {
			return true
		}
		rec.Tiles = append(rec.Tiles, TileRecord{
			Key:    c.Key(),
			Image:  t.Image.DataURL(),
			Width:  t.Src.Width,
			Height: t.Src.Height,
			X:      t.Src.X,
			Y:      t.Src.Y,
		})
		return true
	})
	return rec
}

// TileSink receives restored tiles as their images finish decoding.
type TileSink interface {
	RestoreTile(c grid.Coord, t grid.Tile)
}

type TileSinkFunc func(grid.Coord, grid.Tile)

func (f TileSinkFunc) RestoreTile(c grid.Coord, t grid.Tile) { f(c, t) }

// Restore returns the record's metadata right away and feeds its tiles to
// sink as decoding completes. Records with a bad key, a cell outside the map
// or an undecodable image are skipped. Tiles sharing one image are decoded
// once.
func Restore(rec MapRecord, dec assets.Decoder, sink TileSink, log logrus.FieldLogger) grid.Metadata {
	if log == nil {
		log = logging.Discard()
	}
	meta := rec.Metadata()

	type pending struct {
		coord grid.Coord
		tile  TileRecord
	}
	var order []string
	byImage := make(map[string][]pending)
	for _, tr := range rec.Tiles {
		c, err := grid.ParseKey(tr.Key)
		if err != nil {
			log.WithError(err).Warn("skipping tile with bad key")
			continue
		}
		if !meta.Contains(c) {
			log.WithField("key", tr.Key).Warn("skipping tile outside map")
			continue
		}
		if _, ok := byImage[tr.Image]; !ok {
			order = append(order, tr.Image)
		}
		byImage[tr.Image] = append(byImage[tr.Image], pending{coord: c, tile: tr})
	}

	for _, url := range order {
		group := byImage[url]
		mime, data, err := assets.ParseDataURL(url)
		if err != nil {
			log.WithError(err).WithField("tiles", len(group)).Warn("skipping tiles with bad image")
			continue
		}
		dec.Decode(data, mime, func(img *assets.Image, err error) {
			if err != nil {
				log.WithError(err).WithField("tiles", len(group)).Warn("skipping tiles with undecodable image")
				return
			}
			for _, p := range group {
				region := common.Rect{X: p.tile.X, Y: p.tile.Y, Width: p.tile.Width, Height: p.tile.Height}
				if region.Empty() {
					region = common.Rect{Width: float64(img.Width()), Height: float64(img.Height())}
				}
				sink.RestoreTile(p.coord, grid.Tile{Image: img, Src: region})
			}
		})
	}
	return meta
}
