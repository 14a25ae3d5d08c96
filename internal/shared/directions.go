package shared

// Offset is a row/column step.
type Offset struct {
	DR int
	DC int
}

var (
	CardinalOffsets = []Offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	DiagonalOffsets = []Offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	KnightOffsets   = []Offset{
		{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
		{1, -2}, {1, 2}, {2, -1}, {2, 1},
	}
)

// Line returns the cells strictly between from and to when they share a row,
// column or diagonal, and nil otherwise.
func Line(from, to Position) []Position {
	dr := to.Row - from.Row
	dc := to.Col - from.Col
	stepR := normalize(dr)
	stepC := normalize(dc)

	aligned := false
	switch {
	case dr == 0 && dc != 0:
		aligned = true
	case dc == 0 && dr != 0:
		aligned = true
	case abs(dr) == abs(dc) && dr != 0:
		aligned = true
	}
	if !aligned {
		return nil
	}

	distance := max(abs(dr), abs(dc)) - 1
	if distance <= 0 {
		return nil
	}

	cells := make([]Position, 0, distance)
	cur := from
	for i := 0; i < distance; i++ {
		cur = cur.Add(Offset{stepR, stepC})
		if !cur.InBounds() {
			return nil
		}
		cells = append(cells, cur)
	}
	return cells
}

func normalize(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
