package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/blockfall/game/engine"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		tag  engine.Tag
		want Category
	}{
		{engine.Empty, CategoryEmpty},
		{engine.Settled, CategoryInactive},
		{engine.Active, CategoryActive},
		{engine.Tag(7), CategoryActive},
		{engine.Tag(255), CategoryActive},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, Classify(tt.tag), "tag %d", tt.tag)
	}
}

func newSnapshot() *engine.Snapshot {
	return &engine.Snapshot{
		Width:  3,
		Height: 2,
		Cells: [][]int{
			{0, 1, 2},
			{9, 0, 0},
		},
		Message: "Falling",
	}
}

func TestNewBoard(t *testing.T) {
	board := NewBoard(newSnapshot())

	require.Len(t, board.Rows, 2)
	require.Len(t, board.Rows[0], 3)

	assert.Equal(t, "item_0_0", board.Rows[0][0].ID)
	assert.Equal(t, "item_1_2", board.Rows[1][2].ID)
	assert.Equal(t, "item empty", board.Rows[0][0].Class)
	assert.Equal(t, "item inactive", board.Rows[0][1].Class)
	assert.Equal(t, "item active", board.Rows[0][2].Class)
	assert.Equal(t, CategoryActive, board.Rows[1][0].Category)

	assert.Equal(t, TitleRunning, board.Title.Class)
	assert.Equal(t, DefaultTitle, board.Title.Text)
	assert.False(t, board.Ended)
}

func TestNewBoard_Ended(t *testing.T) {
	snap := newSnapshot()
	snap.Ended = true
	snap.Message = "Stacked out"

	board := NewBoard(snap)
	assert.Equal(t, TitleEnd, board.Title.Class)
	assert.Equal(t, "Stacked out", board.Title.Text)
	assert.True(t, board.Ended)
}

func TestNewBoard_FromEngine(t *testing.T) {
	e := engine.NewEngineWithDefaults()
	e.Advance()

	board := NewBoard(e.Snapshot())
	active := 0
	for _, row := range board.Rows {
		for _, cell := range row {
			if cell.Category == CategoryActive {
				active++
			}
		}
	}
	assert.Equal(t, 4, active)
	assert.Equal(t, engine.DefaultHeight, len(board.Rows))
	assert.Equal(t, engine.DefaultWidth, len(board.Rows[0]))
}

func TestText(t *testing.T) {
	out := Text(newSnapshot())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Len(t, lines, 5)
	assert.Equal(t, "+---+", lines[0])
	assert.Equal(t, "|.#@|", lines[1])
	assert.Equal(t, "|@..|", lines[2])
	assert.Equal(t, "+---+", lines[3])
	assert.Contains(t, lines[4], "RUNNING")
	assert.Contains(t, lines[4], "Falling")
}
