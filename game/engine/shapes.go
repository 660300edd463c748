package engine

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Shape is a 4x4 occupancy mask. Occupied cells hold Active.
type Shape [MaskSize][MaskSize]Tag

// DefaultShapes is the reference piece set: a single 2x2 square resting on the
// bottom-left of the mask.
var DefaultShapes = [][]string{
	{
		"....",
		"....",
		"##..",
		"##..",
	},
}

// ParseShape converts four rows of '#' (occupied) and '.' (empty) into a Shape
func ParseShape(rows []string) (Shape, error) {
	var shape Shape
	if len(rows) != MaskSize {
		return shape, fmt.Errorf("shape must have %d rows, got %d", MaskSize, len(rows))
	}

	occupied := 0
	for i, row := range rows {
		if len(row) != MaskSize {
			return shape, fmt.Errorf("shape row %d must have %d characters, got %d", i+1, MaskSize, len(row))
		}
		for j, char := range row {
			switch char {
			case '#':
				shape[i][j] = Active
				occupied++
			case '.':
			default:
				return shape, fmt.Errorf("invalid shape character '%c' at row %d, col %d", char, i+1, j+1)
			}
		}
	}

	if occupied == 0 {
		return shape, fmt.Errorf("shape has no occupied cells")
	}
	return shape, nil
}

// ParseShapes parses a whole shape table
func ParseShapes(table [][]string) ([]Shape, error) {
	shapes := make([]Shape, 0, len(table))
	for i, rows := range table {
		shape, err := ParseShape(rows)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		shapes = append(shapes, shape)
	}
	return shapes, nil
}

// Occupied returns the number of nonzero mask cells
func (s Shape) Occupied() int {
	n := 0
	for _, row := range s {
		for _, v := range row {
			if v != Empty {
				n++
			}
		}
	}
	return n
}

// String renders the mask with the same characters ParseShape accepts
func (s Shape) String() string {
	var b strings.Builder
	for i, row := range s {
		for _, v := range row {
			if v != Empty {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		if i < MaskSize-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Spawn policy names accepted in configs
const (
	PolicyFirst  = "first"
	PolicyCycle  = "cycle"
	PolicyRandom = "random"
)

// SpawnPolicy picks the shape index for each new piece
type SpawnPolicy interface {
	// Next returns an index in [0, n)
	Next(n int) int
	// Reset rewinds the policy to its initial sequence
	Reset()
}

// NewSpawnPolicy builds the policy registered under name. An empty name
// selects PolicyFirst.
func NewSpawnPolicy(name string, seed uint64) (SpawnPolicy, error) {
	switch name {
	case "", PolicyFirst:
		return firstPolicy{}, nil
	case PolicyCycle:
		return &cyclePolicy{}, nil
	case PolicyRandom:
		p := &randomPolicy{seed: seed}
		p.Reset()
		return p, nil
	default:
		return nil, fmt.Errorf("unknown spawn policy '%s'", name)
	}
}

type firstPolicy struct{}

func (firstPolicy) Next(int) int { return 0 }
func (firstPolicy) Reset()       {}

type cyclePolicy struct {
	next int
}

func (p *cyclePolicy) Next(n int) int {
	if n <= 0 {
		return 0
	}
	i := p.next % n
	p.next = i + 1
	return i
}

func (p *cyclePolicy) Reset() { p.next = 0 }

type randomPolicy struct {
	seed uint64
	rng  *rand.Rand
}

func (p *randomPolicy) Next(n int) int {
	if n <= 1 {
		return 0
	}
	return p.rng.IntN(n)
}

func (p *randomPolicy) Reset() {
	p.rng = rand.New(rand.NewPCG(p.seed, p.seed^0x9e3779b97f4a7c15))
}
