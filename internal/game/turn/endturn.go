package turn

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/grid"
	"github.com/cory-johannsen/tactics/internal/game/permission"
)

// endTurn resolves the end of player's turn and hands the turn on.
// The order is fixed: modifier durations, timed effects, periodic
// modifiers, auto-attacking units, monster retaliation, then TurnEnded.
func (o *Orchestrator) endTurn(player battle.PlayerID) {
	b := o.battle
	o.resolver.TickModifiers(b, player)
	o.resolver.TickEffects(b, player)
	o.resolver.Periodic(b, player)
	o.resolver.WardAttacks(b, player)
	o.retaliate()

	next := battle.PlayerID((int(player) + 1) % len(b.Players))
	b.Submit(battle.TurnEnded{Player: player, Next: next})
	o.logger.Debug("turn ended", zap.Int("player", int(player)), zap.Int("next", int(next)), zap.Int("round", b.Round))
}

// retaliate lets every monster that remembers an attacker walk toward it and
// strike when the chain allows it.
func (o *Orchestrator) retaliate() {
	b := o.battle
	for _, m := range b.LivingUnits() {
		if m.Supertype != battle.Monster || m.RetaliationTarget == 0 {
			continue
		}
		o.retaliateWith(m.ID)
	}
}

func (o *Orchestrator) retaliateWith(id battle.UnitID) {
	b := o.battle
	op, err := permission.Autonomous(b, id)
	if err != nil {
		return
	}
	ap, err := permission.Act(op)
	if err != nil {
		return
	}
	m := ap.Unit()
	target, ok := b.Unit(m.RetaliationTarget)
	if !ok || target.Dead {
		return
	}

	reach := grid.Diamond(m.AttackRange)
	if !reach.InRange(m.Position, target.Position) {
		if to, ok := approach(b, m, target.Position); ok {
			if mp, err := permission.Move(ap, to); err == nil {
				o.resolver.Move(mp)
			}
		}
	}

	if !b.Status.InProgress() {
		return
	}
	abp, err := permission.Ability(ap, ability.BasicAttack, ability.KindUnitTarget)
	if err != nil {
		return
	}
	p, err := permission.UnitTarget(abp, target.ID)
	if err != nil {
		o.logger.Debug("monster cannot strike", zap.Int("monster", int(m.ID)), zap.Error(err))
		return
	}
	o.resolver.CastUnitTarget(p)
}

// approach picks the cheapest reachable cell within the unit's move points
// from which target is inside its attack range. Ties go to the cell nearest
// the target, then row-major order.
func approach(b *battle.Battle, u *battle.Unit, target grid.Position) (grid.Position, bool) {
	costs := grid.PopulateCosts(b.Grid, b.Blocker(), u.Position)
	reach := grid.Diamond(u.AttackRange)
	var best grid.Position
	bestCost, bestDist := -1, 0
	for _, c := range costs.Reachable() {
		if c == u.Position || !reach.InRange(c, target) {
			continue
		}
		cost, _ := costs.Cost(c)
		if cost > u.MovePoints {
			continue
		}
		d := grid.Manhattan(c, target)
		if bestCost < 0 || cost < bestCost || (cost == bestCost && d < bestDist) {
			best, bestCost, bestDist = c, cost, d
		}
	}
	return best, bestCost >= 0
}
