package battle

import "github.com/cory-johannsen/tactics/internal/game/grid"

// OccupantKind names what stands on a cell.
type OccupantKind int

const (
	Empty OccupantKind = iota
	OccupiedByUnit
	OccupiedByTree
	OccupiedByRune
	OccupiedByShop
	OccupiedByEffect
)

// Occupant is the content of one cell. At most one thing occupies a cell.
type Occupant struct {
	Kind   OccupantKind
	Unit   UnitID
	Rune   RuneID
	Shop   ShopID
	Effect EffectID
}

// OccupantAt returns what occupies p. Disabled and out-of-bounds cells
// report Empty; callers check Grid.Disabled separately.
func (b *Battle) OccupantAt(p grid.Position) Occupant {
	if b.occupancy == nil {
		b.rebuildOccupancy()
	}
	return b.occupancy[p]
}

// Free reports whether p is an enabled cell with no occupant.
func (b *Battle) Free(p grid.Position) bool {
	return !b.Grid.Disabled(p) && b.OccupantAt(p).Kind == Empty
}

// Blocker returns the pathfinding blocker for the current occupancy.
func (b *Battle) Blocker() grid.Blocker {
	return grid.BlockerFunc(func(p grid.Position) bool { return !b.Free(p) })
}

func (b *Battle) invalidateOccupancy() { b.occupancy = nil }

func (b *Battle) rebuildOccupancy() {
	occ := make(map[grid.Position]Occupant)
	for _, e := range b.Effects {
		if !e.Blocking {
			continue
		}
		for _, c := range e.Cells {
			occ[c] = Occupant{Kind: OccupiedByEffect, Effect: e.ID}
		}
	}
	for _, t := range b.Trees {
		occ[t] = Occupant{Kind: OccupiedByTree}
	}
	for _, r := range b.Runes {
		occ[r.Position] = Occupant{Kind: OccupiedByRune, Rune: r.ID}
	}
	for _, s := range b.Shops {
		occ[s.Position] = Occupant{Kind: OccupiedByShop, Shop: s.ID}
	}
	for _, u := range b.Units {
		if u.Alive() {
			occ[u.Position] = Occupant{Kind: OccupiedByUnit, Unit: u.ID}
		}
	}
	b.occupancy = occ
}
