package resolve

import (
	"sort"

	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/grid"
	"github.com/cory-johannsen/tactics/internal/game/random"
)

// DamageTo computes one hit of amount against target.
// Physical damage is reduced by armor: damage = max(0, amount-armor) and
// blocked = min(amount, armor). Magical damage ignores armor.
//
// Postcondition: Damage >= 0 and Damage+Blocked == amount for amount >= 0.
func DamageTo(target *battle.Unit, amount int, kind ability.DamageType) battle.Hit {
	if amount < 0 {
		amount = 0
	}
	if kind == ability.Magical {
		return battle.Hit{Target: target.ID, Damage: amount}
	}
	armor := target.Armor()
	return battle.Hit{Target: target.ID, Damage: max(0, amount-armor), Blocked: min(amount, armor)}
}

// Hostile filters units to those not owned by owner.
func Hostile(units []*battle.Unit, owner battle.PlayerID) []*battle.Unit {
	var out []*battle.Unit
	for _, u := range units {
		if u.Owner != owner {
			out = append(out, u)
		}
	}
	return out
}

// Friendly filters units to those owned by owner.
func Friendly(units []*battle.Unit, owner battle.PlayerID) []*battle.Unit {
	var out []*battle.Unit
	for _, u := range units {
		if u.Owner == owner {
			out = append(out, u)
		}
	}
	return out
}

// PickEnemyPreferred picks uniformly among the candidates hostile to owner;
// only when there are none does it pick among the rest.
func PickEnemyPreferred(src random.Source, candidates []*battle.Unit, owner battle.PlayerID) (*battle.Unit, bool) {
	if len(candidates) == 0 {
		return nil, false
	}
	if enemies := Hostile(candidates, owner); len(enemies) > 0 {
		return random.Pick(src, enemies), true
	}
	return random.Pick(src, candidates), true
}

// Distribute spreads a budget of hits over the pool, one uniformly random
// target per hit. A target leaves the pool as soon as the damage assigned to
// it is lethal, so no hit lands on an already doomed unit. Hits left when the
// pool empties are returned as the remainder. Each returned hit sums the
// damage and the armor-blocked amount of every hit its target took.
func Distribute(src random.Source, pool []*battle.Unit, hits, perHit int, kind ability.DamageType) ([]battle.Hit, int) {
	pool = append([]*battle.Unit(nil), pool...)
	assigned := make(map[battle.UnitID]int)
	blocked := make(map[battle.UnitID]int)
	var order []battle.UnitID

	for hits > 0 && len(pool) > 0 {
		i := random.Intn(src, len(pool))
		u := pool[i]
		hit := DamageTo(u, perHit, kind)
		if _, seen := assigned[u.ID]; !seen {
			order = append(order, u.ID)
		}
		assigned[u.ID] += hit.Damage
		blocked[u.ID] += hit.Blocked
		hits--
		if assigned[u.ID] >= u.Health {
			pool = append(pool[:i:i], pool[i+1:]...)
		}
	}

	out := make([]battle.Hit, 0, len(order))
	for _, id := range order {
		out = append(out, battle.Hit{Target: id, Damage: assigned[id], Blocked: blocked[id]})
	}
	return out, hits
}

// Pull assigns new cells to units drawn toward anchor. Units are taken
// nearest first; each gets the free cell closest to the anchor that is no
// farther from the anchor than the unit is and no farther from the unit than
// the unit is from the anchor. Assigned cells are reserved immediately.
// Units that keep their cell are omitted.
func Pull(b *battle.Battle, units []*battle.Unit, anchor grid.Position) []battle.Push {
	return displace(b, units, anchor, func(u *battle.Unit, c grid.Position, d int) (int, bool) {
		dc := grid.Manhattan(c, anchor)
		if dc > d || grid.Manhattan(c, u.Position) > d {
			return 0, false
		}
		return dc, true
	}, false)
}

// Repel is the outward mirror of Pull: units are taken farthest first and
// each gets the free cell farthest from the anchor that is no closer to the
// anchor than the unit is and at most reach cells from the unit.
func Repel(b *battle.Battle, units []*battle.Unit, anchor grid.Position, reach int) []battle.Push {
	return displace(b, units, anchor, func(u *battle.Unit, c grid.Position, d int) (int, bool) {
		dc := grid.Manhattan(c, anchor)
		if dc < d || grid.Manhattan(c, u.Position) > reach {
			return 0, false
		}
		return -dc, true
	}, true)
}

// displace runs the greedy assignment shared by Pull and Repel. score returns
// a rank (lower is better) for a candidate cell.
func displace(b *battle.Battle, units []*battle.Unit, anchor grid.Position, score func(*battle.Unit, grid.Position, int) (int, bool), farthestFirst bool) []battle.Push {
	sorted := append([]*battle.Unit(nil), units...)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := grid.Manhattan(sorted[i].Position, anchor), grid.Manhattan(sorted[j].Position, anchor)
		if farthestFirst {
			return di > dj
		}
		return di < dj
	})

	vacated := make(map[grid.Position]bool)
	reserved := make(map[grid.Position]bool)
	var pushes []battle.Push
	for _, u := range sorted {
		d := grid.Manhattan(u.Position, anchor)
		best, bestScore, found := u.Position, 0, false
		for _, c := range b.Grid.Cells() {
			if reserved[c] || b.Grid.Disabled(c) {
				continue
			}
			if c != u.Position && !b.Free(c) && !vacated[c] {
				continue
			}
			s, ok := score(u, c, d)
			if !ok {
				continue
			}
			if !found || s < bestScore || (s == bestScore && grid.Manhattan(c, u.Position) < grid.Manhattan(best, u.Position)) {
				best, bestScore, found = c, s, true
			}
		}
		reserved[best] = true
		if best != u.Position {
			vacated[u.Position] = true
			pushes = append(pushes, battle.Push{Unit: u.ID, To: best})
		}
	}
	return pushes
}

// fissurePath walks from the caster toward dir for up to length cells. Units
// on the way are pushed sideways, left first; a unit that cannot be pushed
// ends the walk on its own cell. Any other obstacle ends the walk before it.
func fissurePath(b *battle.Battle, from, dir grid.Position, length int) (cells []grid.Position, pushes []battle.Push, struck []*battle.Unit) {
	reserved := make(map[grid.Position]bool)
	free := func(p grid.Position) bool { return b.Free(p) && !reserved[p] }

	cur := from
	for step := 0; step < length; step++ {
		cur = cur.Add(dir)
		if !b.Grid.InBounds(cur) || b.Grid.Disabled(cur) {
			break
		}
		occ := b.OccupantAt(cur)
		if occ.Kind == battle.OccupiedByUnit {
			u, _ := b.Unit(occ.Unit)
			struck = append(struck, u)
			left, right := cur.Add(grid.Left(dir)), cur.Add(grid.Right(dir))
			switch {
			case free(left):
				reserved[left] = true
				pushes = append(pushes, battle.Push{Unit: u.ID, To: left})
			case free(right):
				reserved[right] = true
				pushes = append(pushes, battle.Push{Unit: u.ID, To: right})
			default:
				return cells, pushes, struck
			}
		} else if occ.Kind != battle.Empty {
			break
		}
		cells = append(cells, cur)
	}
	return cells, pushes, struck
}

// cellsCovered lists the enabled cells an area covers.
func cellsCovered(b *battle.Battle, sel grid.Selector, caster, target grid.Position) []grid.Position {
	var out []grid.Position
	for _, c := range b.Grid.Cells() {
		if !b.Grid.Disabled(c) && sel.Covers(caster, target, c) {
			out = append(out, c)
		}
	}
	return out
}

// unitsOn returns the living units standing on any of cells.
func unitsOn(b *battle.Battle, cells []grid.Position) []*battle.Unit {
	in := make(map[grid.Position]bool, len(cells))
	for _, c := range cells {
		in[c] = true
	}
	var out []*battle.Unit
	for _, u := range b.LivingUnits() {
		if in[u.Position] {
			out = append(out, u)
		}
	}
	return out
}

func timedModifier(b *battle.Battle, m ability.Modifier, duration int, src ability.Source) battle.AppliedModifier {
	return battle.AppliedModifier{
		ID:        battle.ModifierID(b.NextID()),
		Modifier:  m,
		Timed:     duration > 0,
		Remaining: duration,
		Source:    src,
	}
}

func castSource(caster battle.UnitID, id ability.ID) ability.Source {
	return ability.Source{Kind: ability.SourceAbility, Unit: int(caster), Ability: id}
}
