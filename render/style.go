package render

import (
	"fmt"
	"image/color"
	"strings"
)

// Style holds the colors of the map canvas.
type Style struct {
	Background       color.NRGBA
	GridLine         color.NRGBA
	GridLineWidth    float64
	HoverFill        color.NRGBA
	HoverStroke      color.NRGBA
	HoverStrokeWidth float64
}

func DefaultStyle() Style {
	return Style{
		Background:       color.NRGBA{A: 0xff},
		GridLine:         color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff},
		GridLineWidth:    1,
		HoverFill:        color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x33},
		HoverStroke:      color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		HoverStrokeWidth: 2,
	}
}

// ParseHexColor accepts #rgb, #rrggbb and #rrggbbaa.
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	c := color.NRGBA{A: 0xff}
	var err error
	switch len(hex) {
	case 3:
		_, err = fmt.Sscanf(hex, "%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 0x11
		c.G *= 0x11
		c.B *= 0x11
	case 6:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		err = fmt.Errorf("bad length %d", len(hex))
	}
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("render: parse color %q: %w", s, err)
	}
	return c, nil
}

// HexColor formats c as #rrggbbaa.
func HexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
