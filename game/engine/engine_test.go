package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig(width, height int) *GameConfig {
	config := DefaultConfig()
	config.Name = "Engine Test Config"
	config.Width = width
	config.Height = height
	config.TickIntervalMS = 0
	return config
}

func newTestEngine(t *testing.T, width, height int) *GameEngine {
	t.Helper()
	e, err := NewEngine(createTestConfig(width, height))
	require.NoError(t, err)
	return e
}

func TestNewEngine(t *testing.T) {
	e := newTestEngine(t, 20, 40)

	state := e.GetState()
	assert.Equal(t, 20, state.Grid.Width)
	assert.Equal(t, 40, state.Grid.Height)
	assert.Equal(t, 0, state.Grid.Count(Settled))
	assert.Equal(t, 0, state.Grid.Count(Active))
	assert.False(t, e.IsGameOver())

	piece := e.GetPiece()
	assert.Equal(t, SpawnRow, piece.X)
	assert.Equal(t, SpawnCol, piece.Y)
	assert.Equal(t, 1, state.Pieces)
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := createTestConfig(20, 40)
	config.Name = ""

	_, err := NewEngine(config)
	assert.Error(t, err)
}

func TestNewEngineWithDefaults(t *testing.T) {
	e := NewEngineWithDefaults()
	assert.Equal(t, DefaultWidth, e.GetState().Grid.Width)
	assert.Equal(t, DefaultHeight, e.GetState().Grid.Height)
	assert.Equal(t, DefaultTickInterval, e.GetConfig().TickIntervalMS)
	require.Len(t, e.GetShapes(), 1)
	assert.Equal(t, 4, e.GetShapes()[0].Occupied())
}

func TestAdvance_FreezesAtFloorAfter36Ticks(t *testing.T) {
	e := newTestEngine(t, 20, 40)

	for i := 1; i <= 35; i++ {
		result := e.Advance()
		require.Falsef(t, result.Frozen, "piece froze early on tick %d", i)
	}
	grid := e.GetState().Grid
	assert.Equal(t, 0, grid.Count(Settled))
	assert.Equal(t, 39, e.GetPiece().X)

	result := e.Advance()
	require.True(t, result.Frozen)
	require.False(t, result.GameOver)

	// The square settles on rows 37-38; the floor-trigger row keeps row 39 empty.
	for _, cell := range [][2]int{{37, 0}, {37, 1}, {38, 0}, {38, 1}} {
		assert.Equalf(t, Settled, grid.At(cell[0], cell[1]), "cell %v", cell)
	}
	assert.Equal(t, 4, grid.Count(Settled))
	for col := 0; col < grid.Width; col++ {
		assert.Equal(t, Empty, grid.At(39, col))
	}

	// A new piece spawned at the origin and fell once during the same tick.
	piece := e.GetPiece()
	assert.Equal(t, SpawnCol, piece.Y)
	assert.Equal(t, SpawnRow+1, piece.X)
	assert.Equal(t, 2, e.GetState().Pieces)
	assert.Equal(t, 4, grid.Count(Active))
}

func TestAdvance_FreezesOnSettledNeighbor(t *testing.T) {
	const lastRow = 39

	// Control: the same position on an empty board does not trigger the floor rule.
	control := newTestEngine(t, 20, 40)
	control.GetState().Piece.X = 38
	require.False(t, control.Advance().Frozen)

	e := newTestEngine(t, 20, 40)
	state := e.GetState()
	state.Grid.Set(lastRow-1, 0, Settled)
	// Mask row 3 projects to row X-1, so X=38 puts an occupied cell at (37, 0).
	state.Piece.X = 38

	result := e.Advance()
	require.True(t, result.Frozen)
	assert.False(t, result.GameOver)

	for _, cell := range [][2]int{{36, 0}, {36, 1}, {37, 0}, {37, 1}, {38, 0}} {
		assert.Equalf(t, Settled, state.Grid.At(cell[0], cell[1]), "cell %v", cell)
	}
}

func TestAdvance_GameOverWhenSpawnCollides(t *testing.T) {
	e := newTestEngine(t, 20, 40)
	grid := e.GetState().Grid
	for row := 4; row <= 7; row++ {
		for col := 0; col < grid.Width; col++ {
			grid.Set(row, col, Settled)
		}
	}
	before := grid.Clone()

	result := e.Advance()
	require.True(t, result.Frozen)
	require.True(t, result.GameOver)
	assert.True(t, e.IsGameOver())

	// The only change is the initial piece frozen into rows 2-3.
	expected := before.Clone()
	for _, cell := range [][2]int{{2, 0}, {2, 1}, {3, 0}, {3, 1}} {
		expected.Set(cell[0], cell[1], Settled)
	}
	assert.True(t, expected.Equal(grid), "grid changed beyond the freeze-in")
	assert.Equal(t, 0, grid.Count(Active))
	assert.Equal(t, SpawnRow, e.GetPiece().X, "game-ending piece must not advance")
}

func TestAdvance_NoOpAfterGameOver(t *testing.T) {
	e := newTestEngine(t, 20, 40)
	grid := e.GetState().Grid
	for col := 0; col < grid.Width; col++ {
		grid.Set(4, col, Settled)
	}
	require.True(t, e.Advance().GameOver)

	snap := e.Snapshot()
	for i := 0; i < 5; i++ {
		result := e.Advance()
		assert.True(t, result.Skipped)
	}
	assert.Equal(t, snap, e.Snapshot())

	assert.False(t, e.Shift(Right))
	assert.Equal(t, snap.Piece, e.GetPiece())
}

func TestAdvance_ActiveCellsMatchVisiblePiece(t *testing.T) {
	config := createTestConfig(10, 16)
	config.SpawnPolicy = PolicyCycle
	config.Shapes = [][]string{
		DefaultShapes[0],
		{"....", "....", "....", "####"},
		{"....", ".#..", ".#..", "##.."},
	}
	e, err := NewEngine(config)
	require.NoError(t, err)

	keys := []string{KeyArrowRight, KeyArrowRight, KeyArrowRight, KeyArrowRight, KeyArrowDown, KeyArrowLeft}
	for i := 0; i < 400; i++ {
		e.HandleKey(keys[i%len(keys)])
		e.HandleKey(KeyArrowRight)
		e.Advance()
		if e.IsGameOver() {
			break
		}
		state := e.GetState()
		require.Equalf(t, state.VisibleCells(), state.Grid.Count(Active), "tick %d", i)
	}
}

func TestAdvance_ClipsAtRightEdge(t *testing.T) {
	config := createTestConfig(8, 16)
	config.Shapes = [][]string{{"....", "....", "....", "####"}}
	e, err := NewEngine(config)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		e.Shift(Right)
	}
	require.Equal(t, 6, e.GetPiece().Y)

	for i := 0; i < 3; i++ {
		e.Advance()
	}
	state := e.GetState()
	// Columns 8 and 9 fall off the board.
	assert.Equal(t, 2, state.VisibleCells())
	assert.Equal(t, 2, state.Grid.Count(Active))
}

func TestShift_Clamping(t *testing.T) {
	e := newTestEngine(t, 20, 40)

	assert.False(t, e.Shift(Left))
	assert.Equal(t, 0, e.GetPiece().Y, "left at column 0 must clamp")

	for i := 0; i < 30; i++ {
		e.Shift(Right)
	}
	assert.Equal(t, 18, e.GetPiece().Y, "right clamps at width-2")
}

func TestShift_LeftRightInverse(t *testing.T) {
	tests := []struct {
		name     string
		start    int
		first    Direction
		second   Direction
		expected int
	}{
		{"interior left then right", 7, Left, Right, 7},
		{"interior right then left", 7, Right, Left, 7},
		{"clamped at zero", 0, Left, Right, 1},
		{"clamped at width-2", 18, Right, Left, 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, 20, 40)
			e.GetState().Piece.Y = tt.start
			e.Shift(tt.first)
			e.Shift(tt.second)
			assert.Equal(t, tt.expected, e.GetPiece().Y)
		})
	}
}

func TestShift_SoftDrop(t *testing.T) {
	e := newTestEngine(t, 20, 40)

	for i := 0; i < 100; i++ {
		e.Shift(Down)
	}
	assert.Equal(t, 40, e.GetPiece().X, "down clamps at height")

	// No collision check happens at shift time; the next tick freezes.
	assert.True(t, e.Advance().Frozen)
}

func TestHandleKey(t *testing.T) {
	e := newTestEngine(t, 20, 40)

	dir, ok := e.HandleKey(KeyArrowRight)
	assert.True(t, ok)
	assert.Equal(t, Right, dir)
	assert.Equal(t, 1, e.GetPiece().Y)

	_, ok = e.HandleKey("KeyA")
	assert.False(t, ok)
	assert.Equal(t, 1, e.GetPiece().Y)

	_, ok = e.HandleKey(KeyArrowDown)
	assert.True(t, ok)
	assert.Equal(t, SpawnRow+1, e.GetPiece().X)
}

func TestHandleKey_AfterGameOver(t *testing.T) {
	e := newTestEngine(t, 20, 40)
	e.RunUntilGameOver(10000)
	require.True(t, e.IsGameOver())
	before := e.GetPiece()

	for _, code := range []string{KeyArrowLeft, KeyArrowRight, KeyArrowDown} {
		dir, ok := e.HandleKey(code)
		assert.False(t, ok, code)
		assert.Empty(t, dir, code)
	}
	assert.Equal(t, before, e.GetPiece())
}

func TestReset(t *testing.T) {
	e := newTestEngine(t, 20, 40)
	e.RunUntilGameOver(10000)
	require.True(t, e.IsGameOver())

	e.Reset()
	assert.False(t, e.IsGameOver())
	assert.Equal(t, 0, e.GetState().Grid.Count(Settled))
	assert.Equal(t, 0, e.Ticks())
	assert.Equal(t, 1, e.GetState().Pieces)
	assert.Equal(t, Piece{X: SpawnRow, Y: SpawnCol, Shape: e.GetShapes()[0]}, e.GetPiece())
}

func TestRunUntilGameOver_StacksInFirstColumns(t *testing.T) {
	e := newTestEngine(t, 20, 40)
	ticks := e.RunUntilGameOver(10000)

	assert.True(t, e.IsGameOver())
	assert.Less(t, ticks, 10000)
	// Every piece lands on the same two columns.
	grid := e.GetState().Grid
	for row := 0; row < grid.Height; row++ {
		for col := 2; col < grid.Width; col++ {
			require.Equal(t, Empty, grid.At(row, col))
		}
	}
}

func TestSpawnPolicy_Cycle(t *testing.T) {
	config := createTestConfig(10, 12)
	config.SpawnPolicy = PolicyCycle
	config.Shapes = [][]string{DefaultShapes[0], {"....", "....", "....", "###."}}
	e, err := NewEngine(config)
	require.NoError(t, err)

	seen := []int{e.GetPiece().ShapeIndex}
	for len(seen) < 4 && !e.IsGameOver() {
		if e.Advance().Frozen {
			seen = append(seen, e.GetPiece().ShapeIndex)
		}
		e.Shift(Right)
	}
	assert.Equal(t, []int{0, 1, 0, 1}, seen)
}

func TestSnapshot(t *testing.T) {
	e := newTestEngine(t, 10, 12)
	e.Advance()

	snap := e.Snapshot()
	assert.Equal(t, "Engine Test Config", snap.ConfigName)
	assert.Equal(t, 10, snap.Width)
	assert.Equal(t, 12, snap.Height)
	require.Len(t, snap.Cells, 12)
	assert.Equal(t, 4, snap.Count(Active))
	assert.Equal(t, 1, snap.Ticks)
	assert.Equal(t, "Falling", snap.Message)

	// Mutating the snapshot never reaches the engine.
	snap.Cells[0][0] = int(Settled)
	assert.Equal(t, Empty, e.GetState().Grid.At(0, 0))
}
