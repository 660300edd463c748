package engine

// Direction is a horizontal shift or a soft drop
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
	Down  Direction = "down"
)

// Key codes delivered by the browser host
const (
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyArrowDown  = "ArrowDown"
)

var keyDirections = map[string]Direction{
	KeyArrowLeft:  Left,
	KeyArrowRight: Right,
	KeyArrowDown:  Down,
}

// DirectionForKey maps a key code to a direction. Unknown codes report false.
func DirectionForKey(code string) (Direction, bool) {
	dir, ok := keyDirections[code]
	return dir, ok
}

// ParseDirection accepts either a direction name or a key code
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case Left, Right, Down:
		return Direction(s), true
	}
	return DirectionForKey(s)
}

// KeyCodes lists the key codes the engine reacts to
func KeyCodes() []string {
	return []string{KeyArrowLeft, KeyArrowRight, KeyArrowDown}
}

// addInRange adds delta to v and saturates the result into [lo, hi]
func addInRange(v, delta, lo, hi int) int {
	ret := v + delta
	if ret >= hi {
		return hi
	}
	if ret <= lo {
		return lo
	}
	return ret
}
