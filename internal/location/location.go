// Package location encodes and decodes compact storage bin addresses.
//
// A bin is addressed by a (cabinet, row, column) triple inside a fixed
// grid. The canonical stored form is a 3-element tuple of tagged segments
// like ["cab2","row3","col4"]; older data may carry a single string in
// the form "cab2-row3-col4" or bare "2,3,4", both of which decode to the
// same triple.
package location

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Grid bounds. Coordinates are 1-based.
const (
	MinCabinet = 1
	MaxCabinet = 5
	MinRow     = 1
	MaxRow     = 6
	MinColumn  = 1
	MaxColumn  = 4
)

var (
	ErrOutOfRange  = errors.New("location coordinate out of range")
	ErrUnparseable = errors.New("location not parseable")
)

// Tuple is the stored representation of a bin address: three tagged
// segments. A segment may be empty when legacy data only carried part of
// the address; Decode maps empty segments to the placeholder coordinate 0.
type Tuple [3]string

// Coord is a decoded bin address. A field of 0 is a placeholder for a
// segment that was missing or unreadable in the source data.
type Coord struct {
	Cabinet int `json:"cabinet"`
	Row     int `json:"row"`
	Column  int `json:"column"`
}

// Encode validates the coordinates against the grid bounds and returns
// the canonical tuple form.
func Encode(cabinet, row, column int) (Tuple, error) {
	if cabinet < MinCabinet || cabinet > MaxCabinet ||
		row < MinRow || row > MaxRow ||
		column < MinColumn || column > MaxColumn {
		return Tuple{}, fmt.Errorf("%w: cab%d-row%d-col%d", ErrOutOfRange, cabinet, row, column)
	}
	return Coord{Cabinet: cabinet, Row: row, Column: column}.Tuple(), nil
}

// Tuple renders the coordinate in the stored tuple form. Placeholder
// fields produce empty segments so that partial legacy addresses survive
// a round trip through storage.
func (c Coord) Tuple() Tuple {
	return Tuple{segment("cab", c.Cabinet), segment("row", c.Row), segment("col", c.Column)}
}

// InBounds reports whether all three coordinates are inside the grid.
func (c Coord) InBounds() bool {
	return c.Cabinet >= MinCabinet && c.Cabinet <= MaxCabinet &&
		c.Row >= MinRow && c.Row <= MaxRow &&
		c.Column >= MinColumn && c.Column <= MaxColumn
}

func segment(tag string, v int) string {
	if v == 0 {
		return ""
	}
	return tag + strconv.Itoa(v)
}

// Decode parses a stored tuple. Tags are matched case-insensitively and a
// missing or garbled segment decodes to the placeholder 0 rather than
// failing; only a tuple with no readable segment at all is an error.
func Decode(t Tuple) (Coord, error) {
	cab, okCab := parseSegment(t[0], "cab")
	row, okRow := parseSegment(t[1], "row")
	col, okCol := parseSegment(t[2], "col")
	if !okCab && !okRow && !okCol {
		return Coord{}, fmt.Errorf("%w: %q", ErrUnparseable, strings.Join(t[:], "-"))
	}
	return Coord{Cabinet: cab, Row: row, Column: col}, nil
}

// DecodeString parses a legacy single-string address: either the tagged
// form "cab2-row3-col4" or the bare form "2,3,4". Partial tagged strings
// decode with placeholders, same as Decode.
func DecodeString(s string) (Coord, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Coord{}, fmt.Errorf("%w: empty string", ErrUnparseable)
	}

	if !strings.Contains(s, "-") && strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return Coord{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
		}
		nums := make([]int, 3)
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return Coord{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
			}
			nums[i] = n
		}
		return Coord{Cabinet: nums[0], Row: nums[1], Column: nums[2]}, nil
	}

	var t Tuple
	for i, p := range strings.SplitN(s, "-", 3) {
		t[i] = strings.TrimSpace(p)
	}
	return Decode(t)
}

// parseSegment reads one tagged segment ("cab2" -> 2). The tag comparison
// is case-insensitive. A bare number without a tag is accepted too.
func parseSegment(s, tag string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	s = strings.TrimPrefix(s, tag)
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Label renders the one human-readable form of a bin address. Every
// surface that displays a location goes through this function, so a bin
// always reads the same everywhere. Placeholder segments render as "?".
func Label(t Tuple) string {
	c, err := Decode(t)
	if err != nil {
		return "Unknown location"
	}
	return fmt.Sprintf("Cabinet %s, Row %s, Column %s",
		labelPart(c.Cabinet), labelPart(c.Row), labelPart(c.Column))
}

func labelPart(v int) string {
	if v == 0 {
		return "?"
	}
	return strconv.Itoa(v)
}

// Code renders the canonical single-string form, used for QR payloads.
func (c Coord) Code() string {
	return fmt.Sprintf("cab%d-row%d-col%d", c.Cabinet, c.Row, c.Column)
}
