package engine

// Tag is the value stored in a single grid cell
type Tag uint8

const (
	Empty   Tag = 0
	Settled Tag = 1
	Active  Tag = 2
)

const (
	// MaskSize is the side length of every shape mask
	MaskSize = 4

	// SpawnRow is the row offset given to every freshly spawned piece. The piece
	// position anchors the bottom of its mask, so a mask row r lands on grid row
	// r + X - MaskSize.
	SpawnRow = MaskSize
	SpawnCol = 0

	// ColumnMargin is subtracted from the width to get the largest column offset
	// a horizontal shift may reach.
	ColumnMargin = 2

	// Validation constants
	MinWidth        = MaskSize
	MaxWidth        = 100
	MinHeight       = 8
	MaxHeight       = 200
	MinTickInterval = 20
	MaxTickInterval = 10000
	MaxShapes       = 32
	MaxBulkTicks    = 500

	DefaultWidth        = 20
	DefaultHeight       = 40
	DefaultTickInterval = 200
)

// Piece is the currently falling block group
type Piece struct {
	X          int   `json:"x"` // row offset of the mask bottom
	Y          int   `json:"y"` // column offset of the mask left edge
	ShapeIndex int   `json:"shape_index"`
	Shape      Shape `json:"-"`
}

// GameConfig describes the board and the piece set for a game
type GameConfig struct {
	Name           string     `json:"name" yaml:"name"`
	Description    string     `json:"description" yaml:"description"`
	Width          int        `json:"width" yaml:"width"`
	Height         int        `json:"height" yaml:"height"`
	TickIntervalMS int        `json:"tick_interval_ms" yaml:"tick_interval_ms"`
	SpawnPolicy    string     `json:"spawn_policy,omitempty" yaml:"spawn_policy,omitempty"`
	Seed           uint64     `json:"seed,omitempty" yaml:"seed,omitempty"`
	Shapes         [][]string `json:"shapes" yaml:"shapes"`
	Messages       struct {
		Running  string `json:"running" yaml:"running"`
		GameOver string `json:"game_over" yaml:"game_over"`
	} `json:"messages" yaml:"messages"`
}

// GameState is the complete mutable state owned by an engine
type GameState struct {
	Grid  *Grid
	Piece Piece
	Ended bool

	// Ticks counts Advance calls that ran while the game was live.
	Ticks int
	// Pieces counts spawned pieces, including the initial one.
	Pieces int
}

// Snapshot is a read-only copy of the game state handed to renderers
type Snapshot struct {
	ConfigName string  `json:"config_name"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Cells      [][]int `json:"cells"`
	Piece      Piece   `json:"piece"`
	Ended      bool    `json:"ended"`
	Ticks      int     `json:"ticks"`
	Pieces     int     `json:"pieces"`
	Message    string  `json:"message"`
}

// Tag returns the tag at row, col, or Empty when out of range
func (s *Snapshot) Tag(row, col int) Tag {
	if row < 0 || row >= len(s.Cells) || col < 0 || col >= len(s.Cells[row]) {
		return Empty
	}
	return Tag(s.Cells[row][col])
}

// Count returns how many cells of the snapshot carry tag
func (s *Snapshot) Count(tag Tag) int {
	n := 0
	for _, row := range s.Cells {
		for _, v := range row {
			if Tag(v) == tag {
				n++
			}
		}
	}
	return n
}

// TickResult reports what a single Advance call did
type TickResult struct {
	Skipped  bool `json:"skipped,omitempty"` // game was already over
	Frozen   bool `json:"frozen,omitempty"`  // the falling piece settled
	GameOver bool `json:"game_over,omitempty"`
}
