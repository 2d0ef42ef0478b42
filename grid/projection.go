package grid

import "strings"

type Projection int

const (
	Flat Projection = iota
	Isometric
)

func (p Projection) String() string {
	switch p {
	case Flat:
		return "flat"
	case Isometric:
		return "isometric"
	default:
		return "unknown"
	}
}

// ParseProjection reports false for anything but "flat" or "isometric".
func ParseProjection(s string) (Projection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flat":
		return Flat, true
	case "isometric", "iso":
		return Isometric, true
	default:
		return Isometric, false
	}
}
