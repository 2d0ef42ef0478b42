package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedFormat = errors.New("assets: unsupported image format")

// ErrDecoderClosed is reported for decodes requested after Close.
var ErrDecoderClosed = errors.New("assets: decoder closed")

// Image is a decoded source image together with the bytes it came from.
// Images are immutable and shared by reference between palette entries and
// painted tiles.
type Image struct {
	ID     string
	MIME   string
	Data   []byte
	Pixels image.Image

	urlOnce sync.Once
	url     string
}

// Decode builds an Image from encoded bytes. An empty mime is filled in from
// the detected format.
func Decode(data []byte, mime string) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("assets: decode: empty data")
	}
	pixels, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mime)
		}
		return nil, fmt.Errorf("assets: decode: %w", err)
	}
	if mime == "" {
		mime = "image/" + format
	}
	return &Image{
		ID:     Hash(data),
		MIME:   mime,
		Data:   data,
		Pixels: pixels,
	}, nil
}

// Hash is the content id used to deduplicate uploads.
func Hash(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

func (img *Image) Bounds() image.Rectangle {
	if img == nil || img.Pixels == nil {
		return image.Rectangle{}
	}
	return img.Pixels.Bounds()
}

func (img *Image) Width() int  { return img.Bounds().Dx() }
func (img *Image) Height() int { return img.Bounds().Dy() }

// DataURL encodes the original bytes. The result is computed once.
func (img *Image) DataURL() string {
	img.urlOnce.Do(func() {
		img.url = EncodeDataURL(img.MIME, img.Data)
	})
	return img.url
}
