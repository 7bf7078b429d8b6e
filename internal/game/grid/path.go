package grid

// Blocker reports whether a cell is occupied by something a walker cannot
// pass through. Disabled cells are handled by the grid itself.
type Blocker interface {
	Blocked(p Position) bool
}

// BlockerFunc adapts a function to Blocker.
type BlockerFunc func(p Position) bool

// Blocked calls f(p).
func (f BlockerFunc) Blocked(p Position) bool { return f(p) }

// Open is a Blocker that blocks nothing.
var Open Blocker = BlockerFunc(func(Position) bool { return false })

// TargetMode controls whether an explicit destination may itself be
// occupied.
type TargetMode int

const (
	// TargetMustBeFree treats the destination like any other cell.
	TargetMustBeFree TargetMode = iota
	// TargetMayBeOccupied allows the path to end on an occupied destination,
	// used for picking up the ground item that stands there.
	TargetMayBeOccupied
)

// Costs is the result of a breadth-first cost propagation.
type Costs struct {
	From   Position
	width  int
	cost   []int
	parent []int
}

// Cost returns the number of steps from Costs.From to p, or false when p
// was not visited.
func (c *Costs) Cost(p Position) (int, bool) {
	if p.X < 0 || p.Y < 0 || p.X >= c.width {
		return 0, false
	}
	i := p.Y*c.width + p.X
	if i >= len(c.cost) || c.cost[i] < 0 {
		return 0, false
	}
	return c.cost[i], true
}

// Reachable returns every visited cell in row-major order.
func (c *Costs) Reachable() []Position {
	var out []Position
	for i, v := range c.cost {
		if v >= 0 {
			out = append(out, Position{X: i % c.width, Y: i / c.width})
		}
	}
	return out
}

// PopulateCosts expands breadth-first over 4-connected neighbours from
// `from`, skipping blocked cells, and returns costs for the full reachable
// set. `from` itself always has cost 0 even when blocked.
func PopulateCosts(g *Grid, blocked Blocker, from Position) *Costs {
	c, _ := populate(g, blocked, from, nil, TargetMustBeFree)
	return c
}

// CostsTo expands like PopulateCosts but stops as soon as `to` is dequeued.
// It returns false when `to` is never reached.
func CostsTo(g *Grid, blocked Blocker, from, to Position, mode TargetMode) (*Costs, bool) {
	return populate(g, blocked, from, &to, mode)
}

func populate(g *Grid, blocked Blocker, from Position, to *Position, mode TargetMode) (*Costs, bool) {
	n := g.Width * g.Height
	c := &Costs{From: from, width: g.Width, cost: make([]int, n), parent: make([]int, n)}
	for i := range c.cost {
		c.cost[i] = -1
		c.parent[i] = -1
	}
	if !g.InBounds(from) {
		return c, false
	}
	start := g.index(from)
	c.cost[start] = 0
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		pos := g.position(cur)
		if to != nil && pos == *to {
			return c, true
		}
		for _, nb := range g.Neighbors(pos) {
			ni := g.index(nb)
			if c.cost[ni] >= 0 {
				continue
			}
			isTarget := to != nil && nb == *to
			if blocked.Blocked(nb) && !(isTarget && mode == TargetMayBeOccupied) {
				continue
			}
			c.cost[ni] = c.cost[cur] + 1
			c.parent[ni] = cur
			queue = append(queue, ni)
		}
	}
	return c, to == nil
}

// ReconstructPath walks parent pointers from `to` back to `from` and returns
// the path from `from` to `to` inclusive. It returns nil when `to` was not
// reached.
func ReconstructPath(c *Costs, from, to Position) []Position {
	if _, ok := c.Cost(to); !ok {
		return nil
	}
	var rev []Position
	i := to.Y*c.width + to.X
	for i >= 0 {
		p := Position{X: i % c.width, Y: i / c.width}
		rev = append(rev, p)
		if p == from {
			break
		}
		i = c.parent[i]
	}
	if rev[len(rev)-1] != from {
		return nil
	}
	path := make([]Position, len(rev))
	for k := range rev {
		path[k] = rev[len(rev)-1-k]
	}
	return path
}
