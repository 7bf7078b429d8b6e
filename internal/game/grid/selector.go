package grid

// Shape identifies how a Selector measures coverage.
type Shape int

const (
	// ShapeSingle covers only the target cell.
	ShapeSingle Shape = iota
	// ShapeRadius covers cells within Chebyshev distance of the target.
	ShapeRadius
	// ShapeManhattan covers cells within Manhattan distance of the target.
	ShapeManhattan
	// ShapeLine covers the straight ray from the caster toward the target,
	// excluding the caster's own cell. The target must share a row or column
	// with the caster.
	ShapeLine
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeSingle:
		return "single"
	case ShapeRadius:
		return "radius"
	case ShapeManhattan:
		return "manhattan"
	case ShapeLine:
		return "line"
	default:
		return "unknown"
	}
}

// Selector is an area rule evaluated against (caster, target, candidate).
// The same selector drives resolution, highlighting and AI scoring.
type Selector struct {
	Shape    Shape
	Distance int
}

// Single returns a single-cell selector.
func Single() Selector { return Selector{Shape: ShapeSingle} }

// Radius returns a Chebyshev selector.
func Radius(d int) Selector { return Selector{Shape: ShapeRadius, Distance: d} }

// Diamond returns a Manhattan selector.
func Diamond(d int) Selector { return Selector{Shape: ShapeManhattan, Distance: d} }

// Line returns a line selector of length d.
func Line(d int) Selector { return Selector{Shape: ShapeLine, Distance: d} }

// Covers reports whether candidate is inside the selector's area.
func (s Selector) Covers(caster, target, candidate Position) bool {
	switch s.Shape {
	case ShapeSingle:
		return candidate == target
	case ShapeRadius:
		return Chebyshev(target, candidate) <= s.Distance
	case ShapeManhattan:
		return Manhattan(target, candidate) <= s.Distance
	case ShapeLine:
		dir, ok := Direction(caster, target)
		if !ok {
			return false
		}
		cdir, ok := Direction(caster, candidate)
		if !ok || cdir != dir {
			return false
		}
		return Manhattan(caster, candidate) <= s.Distance
	default:
		return false
	}
}

// InRange reports whether target is reachable from caster under a range
// selector, which is anchored on the caster itself.
func (s Selector) InRange(caster, target Position) bool {
	if s.Shape == ShapeLine {
		return s.Covers(caster, target, target)
	}
	return s.Covers(caster, caster, target)
}
