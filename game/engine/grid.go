package engine

// Grid stores the playing field in row-major order
type Grid struct {
	Width  int
	Height int
	cells  []Tag
}

// NewGrid allocates an empty grid with the given dimensions
func NewGrid(width, height int) *Grid {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return &Grid{Width: width, Height: height, cells: make([]Tag, width*height)}
}

// InBounds reports whether row, col addresses a cell of the grid
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.Height && col >= 0 && col < g.Width
}

// At returns the tag at row, col. Out-of-range reads return Empty.
func (g *Grid) At(row, col int) Tag {
	if !g.InBounds(row, col) {
		return Empty
	}
	return g.cells[row*g.Width+col]
}

// Set writes tag at row, col. Out-of-range writes are dropped.
func (g *Grid) Set(row, col int, tag Tag) {
	if !g.InBounds(row, col) {
		return
	}
	g.cells[row*g.Width+col] = tag
}

// Replace rewrites every cell carrying from to to
func (g *Grid) Replace(from, to Tag) {
	for i, v := range g.cells {
		if v == from {
			g.cells[i] = to
		}
	}
}

// Count returns the number of cells carrying tag
func (g *Grid) Count(tag Tag) int {
	n := 0
	for _, v := range g.cells {
		if v == tag {
			n++
		}
	}
	return n
}

// Clear empties every cell
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Empty
	}
}

// Clone returns an independent copy of the grid
func (g *Grid) Clone() *Grid {
	c := &Grid{Width: g.Width, Height: g.Height, cells: make([]Tag, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Equal reports whether both grids have the same size and contents
func (g *Grid) Equal(o *Grid) bool {
	if o == nil || g.Width != o.Width || g.Height != o.Height {
		return false
	}
	for i, v := range g.cells {
		if o.cells[i] != v {
			return false
		}
	}
	return true
}

// Rows copies the grid into a row slice of ints for serialization
func (g *Grid) Rows() [][]int {
	rows := make([][]int, g.Height)
	for r := range rows {
		row := make([]int, g.Width)
		for c := range row {
			row[c] = int(g.cells[r*g.Width+c])
		}
		rows[r] = row
	}
	return rows
}
