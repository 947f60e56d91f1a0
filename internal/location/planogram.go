package location

import "fmt"

// Placement ties an item to one of its bins.
type Placement struct {
	ItemID string
	At     Tuple
}

// Grid is the row x column projection of one cabinet. Each cell holds the
// ids of the items stored in that bin.
type Grid [MaxRow][MaxColumn][]string

// Planogram projects placements onto the grid of a single cabinet.
// Placements outside the cabinet, or with placeholder coordinates, are
// ignored rather than failing the projection.
func Planogram(cabinet int, placements []Placement) (Grid, error) {
	var grid Grid
	if cabinet < MinCabinet || cabinet > MaxCabinet {
		return grid, fmt.Errorf("%w: cabinet %d", ErrOutOfRange, cabinet)
	}
	for _, p := range placements {
		c, err := Decode(p.At)
		if err != nil || c.Cabinet != cabinet || !c.InBounds() {
			continue
		}
		grid[c.Row-1][c.Column-1] = append(grid[c.Row-1][c.Column-1], p.ItemID)
	}
	return grid, nil
}
