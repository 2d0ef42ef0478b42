package grid

import "unicode"

// Metadata describes the shape of a map. Width and Height are always >= 1
// once passed through Sanitize.
type Metadata struct {
	Width      int
	Height     int
	Projection Projection
}

func (m Metadata) Sanitize() Metadata {
	if m.Width < 1 {
		m.Width = 1
	}
	if m.Height < 1 {
		m.Height = 1
	}
	if m.Projection != Flat && m.Projection != Isometric {
		m.Projection = Isometric
	}
	return m
}

func (m Metadata) Contains(c Coord) bool {
	return c.Col >= 0 && c.Row >= 0 && c.Col < m.Width && c.Row < m.Height
}

// ParseDimension reads a dimension typed into a text field. Leading
// whitespace and an optional sign are accepted, then digits up to the first
// non-digit ("12px" is 12). Text without leading digits falls back to last,
// or 1 when last is not positive. Zero and negative values become 1.
func ParseDimension(text string, last int) int {
	fallback := last
	if fallback < 1 {
		fallback = 1
	}

	runes := []rune(text)
	i := 0
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	neg := false
	if i < len(runes) && (runes[i] == '+' || runes[i] == '-') {
		neg = runes[i] == '-'
		i++
	}
	start := i
	value := 0
	for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
		if value < 1<<20 {
			value = value*10 + int(runes[i]-'0')
		}
		i++
	}
	if i == start {
		return fallback
	}
	if neg || value < 1 {
		return 1
	}
	return value
}
