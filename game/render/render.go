package render

import (
	"fmt"
	"strings"

	"github.com/wricardo/blockfall/game/engine"
)

// Category is the display class of a single cell
type Category string

const (
	CategoryEmpty    Category = "empty"
	CategoryInactive Category = "inactive"
	CategoryActive   Category = "active"
)

// Title classes
const (
	TitleRunning = "running"
	TitleEnd     = "end"
)

// DefaultTitle is shown when the config carries no game over message
const DefaultTitle = "You lose"

// Classify returns the display category for tag. Unrecognized tags render as
// active.
func Classify(tag engine.Tag) Category {
	switch tag {
	case engine.Empty:
		return CategoryEmpty
	case engine.Settled:
		return CategoryInactive
	default:
		return CategoryActive
	}
}

// Glyph returns the character Text uses for a category
func (c Category) Glyph() byte {
	switch c {
	case CategoryEmpty:
		return '.'
	case CategoryInactive:
		return '#'
	default:
		return '@'
	}
}

// Cell is one display element
type Cell struct {
	ID       string   `json:"id"`
	Class    string   `json:"class"`
	Category Category `json:"category"`
}

// Title is the banner element above the board
type Title struct {
	Class string `json:"class"`
	Text  string `json:"text"`
}

// Board is everything a host needs to draw one frame
type Board struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Rows   [][]Cell `json:"rows"`
	Title  Title    `json:"title"`
	Ended  bool     `json:"ended"`
}

// CellID returns the element id of the cell at row, col
func CellID(row, col int) string {
	return fmt.Sprintf("item_%d_%d", row, col)
}

// NewBoard builds the display elements for snap
func NewBoard(snap *engine.Snapshot) *Board {
	board := &Board{
		Width:  snap.Width,
		Height: snap.Height,
		Rows:   make([][]Cell, len(snap.Cells)),
		Ended:  snap.Ended,
	}

	for i, row := range snap.Cells {
		cells := make([]Cell, len(row))
		for j, v := range row {
			category := Classify(engine.Tag(v))
			cells[j] = Cell{
				ID:       CellID(i, j),
				Class:    "item " + string(category),
				Category: category,
			}
		}
		board.Rows[i] = cells
	}

	board.Title = TitleFor(snap)
	return board
}

// TitleFor returns the banner for snap. The text is always the game over
// message; only the class changes, so hosts hide it while running.
func TitleFor(snap *engine.Snapshot) Title {
	title := Title{Class: TitleRunning, Text: DefaultTitle}
	if snap.Ended {
		title.Class = TitleEnd
		if snap.Message != "" {
			title.Text = snap.Message
		}
	}
	return title
}

// Text renders snap as rows of glyphs framed by a border, followed by a status
// line.
func Text(snap *engine.Snapshot) string {
	var b strings.Builder
	border := "+" + strings.Repeat("-", snap.Width) + "+\n"

	b.WriteString(border)
	for _, row := range snap.Cells {
		b.WriteByte('|')
		for _, v := range row {
			b.WriteByte(Classify(engine.Tag(v)).Glyph())
		}
		b.WriteString("|\n")
	}
	b.WriteString(border)

	status := "RUNNING"
	if snap.Ended {
		status = "GAME OVER"
	}
	fmt.Fprintf(&b, "%s  ticks=%d pieces=%d", status, snap.Ticks, snap.Pieces)
	if snap.Message != "" {
		fmt.Fprintf(&b, "  %s", snap.Message)
	}
	b.WriteByte('\n')
	return b.String()
}
