package ai

import (
	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/grid"
	"github.com/cory-johannsen/tactics/internal/game/resolve"
)

// Enemies returns the living units hostile to u that u's owner can see.
func Enemies(b *battle.Battle, u *battle.Unit) []*battle.Unit {
	var out []*battle.Unit
	for _, e := range b.LivingUnits() {
		if battle.Hostile(u, e) && !e.Invisible() {
			out = append(out, e)
		}
	}
	return out
}

// TargetWeight is the value of u hitting e once: expected damage over e's
// health, scaled by the profile's lethal multiplier when the hit kills.
func TargetWeight(p *Profile, u, e *battle.Unit) float64 {
	if e.Health <= 0 {
		return 0
	}
	dmg := resolve.DamageTo(e, u.AttackDamage(), ability.Physical).Damage
	w := float64(dmg) / float64(e.Health)
	if dmg >= e.Health {
		w *= p.LethalMultiplier
	}
	return w
}

// CellValue sums TargetWeight over the enemies u could attack from cell.
func CellValue(p *Profile, u *battle.Unit, cell grid.Position, enemies []*battle.Unit) float64 {
	reach := grid.Diamond(u.AttackRange)
	var v float64
	for _, e := range enemies {
		if reach.InRange(cell, e.Position) {
			v += TargetWeight(p, u, e)
		}
	}
	return v
}

// CellScore is CellValue minus the mobility cost of reaching the cell. When
// no enemy is in reach from the cell, a small approach term pulls the unit
// toward the nearest enemy.
func CellScore(p *Profile, u *battle.Unit, cell grid.Position, cost int, enemies []*battle.Unit) float64 {
	value := CellValue(p, u, cell, enemies)
	score := value - p.MobilityWeight*float64(cost)
	if value == 0 && len(enemies) > 0 {
		nearest := grid.Manhattan(cell, enemies[0].Position)
		for _, e := range enemies[1:] {
			nearest = min(nearest, grid.Manhattan(cell, e.Position))
		}
		score -= p.ApproachWeight * float64(nearest)
	}
	return score
}

// BestTarget returns the enemy in reach of u with the highest weight. Ties
// go to the lower unit id.
func BestTarget(p *Profile, u *battle.Unit, enemies []*battle.Unit) (*battle.Unit, bool) {
	reach := grid.Diamond(u.AttackRange)
	var best *battle.Unit
	var bestW float64
	for _, e := range enemies {
		if !reach.InRange(u.Position, e.Position) {
			continue
		}
		w := TargetWeight(p, u, e)
		if best == nil || w > bestW || (w == bestW && e.ID < best.ID) {
			best, bestW = e, w
		}
	}
	return best, best != nil
}
