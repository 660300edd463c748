package engine

// project maps mask cell (i, j) of p onto grid coordinates. ok is false when
// the cell lies above the grid, which is normal right after a spawn.
func project(p Piece, i, j int) (row, col int, ok bool) {
	if i+p.X < MaskSize {
		return 0, 0, false
	}
	return i + p.X - MaskSize, j + p.Y, true
}

// Collides reports whether the current piece would hit the floor-trigger row or
// a settled block if it fell one more row. Cells clipped off the right edge are
// ignored.
func (gs *GameState) Collides() bool {
	floor := gs.Grid.Height - 1
	for i, maskRow := range gs.Piece.Shape {
		for j, v := range maskRow {
			if v == Empty {
				continue
			}
			row, col, ok := project(gs.Piece, i, j)
			if !ok {
				break
			}
			if col > gs.Grid.Width-1 {
				continue
			}
			// >= rather than ==: a soft drop can carry the piece past the trigger row
			if row+1 >= floor {
				return true
			}
			if gs.Grid.At(row+1, col) == Settled {
				return true
			}
		}
	}
	return false
}

// Freeze writes the current piece into the grid as settled cells
func (gs *GameState) Freeze() {
	for i, maskRow := range gs.Piece.Shape {
		for j, v := range maskRow {
			if v == Empty {
				continue
			}
			row, col, ok := project(gs.Piece, i, j)
			if !ok {
				break
			}
			gs.Grid.Set(row, col, v/2)
		}
	}
}

// ClearActive resets every active cell left over from the previous redraw
func (gs *GameState) ClearActive() {
	gs.Grid.Replace(Active, Empty)
}

// Draw paints the current piece onto the grid as active cells, skipping
// anything that projects outside the board.
func (gs *GameState) Draw() {
	for i, maskRow := range gs.Piece.Shape {
		for j, v := range maskRow {
			if v == Empty {
				continue
			}
			row, col, ok := project(gs.Piece, i, j)
			if !ok || !gs.Grid.InBounds(row, col) {
				continue
			}
			gs.Grid.Set(row, col, v)
		}
	}
}

// VisibleCells counts the occupied mask cells of the piece that project inside
// the grid.
func (gs *GameState) VisibleCells() int {
	n := 0
	for i, maskRow := range gs.Piece.Shape {
		for j, v := range maskRow {
			if v == Empty {
				continue
			}
			if row, col, ok := project(gs.Piece, i, j); ok && gs.Grid.InBounds(row, col) {
				n++
			}
		}
	}
	return n
}

// ShiftPiece moves the piece one step in dir, saturating at the board limits.
// It reports whether the position changed.
func (gs *GameState) ShiftPiece(dir Direction) bool {
	before := gs.Piece
	switch dir {
	case Left:
		gs.Piece.Y = addInRange(gs.Piece.Y, -1, 0, gs.Grid.Width-ColumnMargin)
	case Right:
		gs.Piece.Y = addInRange(gs.Piece.Y, 1, 0, gs.Grid.Width-ColumnMargin)
	case Down:
		gs.Piece.X = addInRange(gs.Piece.X, 1, 0, gs.Grid.Height)
	default:
		return false
	}
	return gs.Piece.X != before.X || gs.Piece.Y != before.Y
}

func spawnPiece(shapes []Shape, policy SpawnPolicy) Piece {
	idx := 0
	if policy != nil {
		idx = policy.Next(len(shapes))
	}
	if idx < 0 || idx >= len(shapes) {
		idx = 0
	}
	return Piece{X: SpawnRow, Y: SpawnCol, ShapeIndex: idx, Shape: shapes[idx]}
}
