package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/tactics/internal/game/grid"
)

func TestGrid_DisabledAndBounds(t *testing.T) {
	g := grid.New(4, 3, grid.Pos(1, 1))
	assert.True(t, g.Disabled(grid.Pos(1, 1)))
	assert.True(t, g.Disabled(grid.Pos(-1, 0)))
	assert.True(t, g.Disabled(grid.Pos(4, 0)))
	assert.False(t, g.Disabled(grid.Pos(3, 2)))
	assert.Equal(t, []grid.Position{grid.Pos(1, 1)}, g.DisabledCells())
	assert.Len(t, g.Cells(), 11)
}

func TestGrid_NewPanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { grid.New(0, 3) })
}

func TestNeighbors_Order(t *testing.T) {
	g := grid.New(3, 3)
	assert.Equal(t, []grid.Position{grid.Pos(1, 0), grid.Pos(2, 1), grid.Pos(1, 2), grid.Pos(0, 1)},
		g.Neighbors(grid.Pos(1, 1)))
}

func TestDirection(t *testing.T) {
	d, ok := grid.Direction(grid.Pos(1, 1), grid.Pos(4, 1))
	require.True(t, ok)
	assert.Equal(t, grid.East, d)
	assert.Equal(t, grid.North, grid.Left(grid.East))
	assert.Equal(t, grid.South, grid.Right(grid.East))
	_, ok = grid.Direction(grid.Pos(1, 1), grid.Pos(2, 2))
	assert.False(t, ok)
}

func TestSelector_Covers(t *testing.T) {
	caster, target := grid.Pos(0, 0), grid.Pos(3, 3)
	assert.True(t, grid.Single().Covers(caster, target, target))
	assert.False(t, grid.Single().Covers(caster, target, grid.Pos(3, 4)))
	assert.True(t, grid.Radius(1).Covers(caster, target, grid.Pos(4, 4)))
	assert.False(t, grid.Diamond(1).Covers(caster, target, grid.Pos(4, 4)))
	assert.True(t, grid.Diamond(2).Covers(caster, target, grid.Pos(4, 4)))
}

func TestSelector_Line(t *testing.T) {
	line := grid.Line(3)
	caster := grid.Pos(2, 2)
	assert.True(t, line.Covers(caster, grid.Pos(5, 2), grid.Pos(3, 2)))
	assert.True(t, line.Covers(caster, grid.Pos(3, 2), grid.Pos(5, 2)))
	assert.False(t, line.Covers(caster, grid.Pos(5, 2), grid.Pos(6, 2)))
	assert.False(t, line.Covers(caster, grid.Pos(5, 2), grid.Pos(1, 2)))
	assert.False(t, line.Covers(caster, grid.Pos(5, 5), grid.Pos(3, 3)))
	assert.True(t, line.InRange(caster, grid.Pos(2, 5)))
	assert.False(t, line.InRange(caster, grid.Pos(3, 3)))
}

func TestRect_Contains(t *testing.T) {
	r := grid.Rect{Min: grid.Pos(0, 0), Max: grid.Pos(1, 1)}
	assert.True(t, r.Contains(grid.Pos(1, 1)))
	assert.False(t, r.Contains(grid.Pos(3, 3)))
}
