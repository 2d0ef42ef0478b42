package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadKey = errors.New("grid: malformed coordinate key")

// Coord addresses one cell of a map.
type Coord struct {
	Col, Row int
}

// Key returns the persisted "col,row" form.
func (c Coord) Key() string {
	return strconv.Itoa(c.Col) + "," + strconv.Itoa(c.Row)
}

func (c Coord) String() string {
	return c.Key()
}

// ParseKey is the inverse of Coord.Key.
func ParseKey(key string) (Coord, error) {
	colText, rowText, ok := strings.Cut(key, ",")
	if !ok {
		return Coord{}, fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	col, err := strconv.Atoi(strings.TrimSpace(colText))
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rowText))
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	return Coord{Col: col, Row: row}, nil
}
