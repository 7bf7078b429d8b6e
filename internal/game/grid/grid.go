// Package grid provides the battle board geometry: positions, disabled
// cells, area selectors and uniform-cost pathfinding.
package grid

import "fmt"

// Position is a cell coordinate. X grows to the right, Y grows downward.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Pos is shorthand for Position{X: x, Y: y}.
func Pos(x, y int) Position { return Position{X: x, Y: y} }

// Add returns p translated by d.
func (p Position) Add(d Position) Position { return Position{X: p.X + d.X, Y: p.Y + d.Y} }

// String renders p as "(x,y)".
func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Manhattan returns |dx| + |dy|.
func Manhattan(a, b Position) int { return abs(a.X-b.X) + abs(a.Y-b.Y) }

// Chebyshev returns max(|dx|, |dy|).
func Chebyshev(a, b Position) int {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Cardinal directions in neighbour expansion order.
var (
	North = Position{X: 0, Y: -1}
	East  = Position{X: 1, Y: 0}
	South = Position{X: 0, Y: 1}
	West  = Position{X: -1, Y: 0}
)

var cardinals = [4]Position{North, East, South, West}

// Left returns the direction 90 degrees counter-clockwise of d on screen.
func Left(d Position) Position { return Position{X: d.Y, Y: -d.X} }

// Right returns the direction 90 degrees clockwise of d on screen.
func Right(d Position) Position { return Position{X: -d.Y, Y: d.X} }

// Direction returns the unit cardinal step from `from` toward `to` when the
// two positions share a row or column and differ.
func Direction(from, to Position) (Position, bool) {
	switch {
	case from == to:
		return Position{}, false
	case from.X == to.X:
		if to.Y > from.Y {
			return South, true
		}
		return North, true
	case from.Y == to.Y:
		if to.X > from.X {
			return East, true
		}
		return West, true
	default:
		return Position{}, false
	}
}

// Rect is an inclusive axis-aligned rectangle of cells.
type Rect struct {
	Min Position `json:"min" yaml:"min"`
	Max Position `json:"max" yaml:"max"`
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Position) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Grid is a fixed-size board. Disabled cells can never be entered or
// targeted. Occupancy is owned by the battle, not the grid.
type Grid struct {
	Width    int
	Height   int
	disabled []bool
}

// New returns a width x height grid with the given cells disabled.
//
// Precondition: width > 0 and height > 0.
func New(width, height int, disabled ...Position) *Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("grid: invalid size %dx%d", width, height))
	}
	g := &Grid{Width: width, Height: height, disabled: make([]bool, width*height)}
	for _, p := range disabled {
		if g.InBounds(p) {
			g.disabled[g.index(p)] = true
		}
	}
	return g
}

// InBounds reports whether p is on the board.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.Width && p.Y < g.Height
}

// Disabled reports whether p is off the board or a disabled cell.
func (g *Grid) Disabled(p Position) bool {
	return !g.InBounds(p) || g.disabled[g.index(p)]
}

// DisabledCells returns every disabled cell in row-major order.
func (g *Grid) DisabledCells() []Position {
	var out []Position
	for i, d := range g.disabled {
		if d {
			out = append(out, g.position(i))
		}
	}
	return out
}

// Cells returns every enabled cell in row-major order.
func (g *Grid) Cells() []Position {
	out := make([]Position, 0, len(g.disabled))
	for i, d := range g.disabled {
		if !d {
			out = append(out, g.position(i))
		}
	}
	return out
}

// Neighbors returns the in-bounds, enabled 4-connected neighbours of p in
// north, east, south, west order.
func (g *Grid) Neighbors(p Position) []Position {
	out := make([]Position, 0, 4)
	for _, d := range cardinals {
		n := p.Add(d)
		if !g.Disabled(n) {
			out = append(out, n)
		}
	}
	return out
}

func (g *Grid) index(p Position) int { return p.Y*g.Width + p.X }

func (g *Grid) position(i int) Position { return Position{X: i % g.Width, Y: i / g.Width} }
