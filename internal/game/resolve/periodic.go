package resolve

import (
	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/grid"
	"github.com/cory-johannsen/tactics/internal/game/permission"
)

// Plague ward attacks poison their target.
const (
	wardPoison         = 1
	wardPoisonDuration = 2
)

// turnUnits returns the living units whose modifiers follow player's turn:
// the player's own units and every monster.
func turnUnits(b *battle.Battle, player battle.PlayerID) []*battle.Unit {
	var out []*battle.Unit
	for _, u := range b.LivingUnits() {
		if u.Owner == player || !u.Owned() {
			out = append(out, u)
		}
	}
	return out
}

// TickModifiers decrements modifier durations for player's end of turn and
// removes those that ran out.
func (r *Resolver) TickModifiers(b *battle.Battle, player battle.PlayerID) {
	b.Submit(battle.ModifiersTicked{Player: player})
	for _, u := range turnUnits(b, player) {
		for _, m := range u.Modifiers {
			if m.Timed && m.Remaining <= 0 {
				b.Submit(battle.ModifierRemoved{Removal: battle.Removal{Target: u.ID, Modifier: m.ID}, Reason: "expired"})
			}
		}
	}
}

// TickEffects ticks every timed effect owned by player and expires those
// that ran out. Fire storms burn each tick; light strike arrays detonate on
// expiry.
func (r *Resolver) TickEffects(b *battle.Battle, player battle.PlayerID) {
	effects := append([]*battle.TimedEffect(nil), b.Effects...)
	for _, e := range effects {
		if e.Owner != player {
			continue
		}
		var tick battle.Outcome
		if e.Ability == ability.FireStorm {
			for _, u := range Hostile(unitsOn(b, e.Cells), e.Owner) {
				tick.Hits = append(tick.Hits, DamageTo(u, e.Damage, ability.Magical))
			}
		}
		b.Submit(battle.TimedEffectTicked{Effect: e.ID, Outcome: tick})

		if e.Remaining > 0 {
			continue
		}
		var expiry battle.Outcome
		if e.Ability == ability.LightStrikeArray {
			def := ability.MustLookup(ability.LightStrikeArray)
			for _, u := range Hostile(unitsOn(b, e.Cells), e.Owner) {
				expiry.Hits = append(expiry.Hits, DamageTo(u, e.Damage, ability.Magical))
				expiry.Grants = append(expiry.Grants, battle.Grant{Target: u.ID, Modifier: timedModifier(b,
					ability.Modifier{Kind: ability.ModStunned}, def.Duration, castSource(e.Source, e.Ability))})
			}
		}
		b.Submit(battle.TimedEffectExpired{Effect: e.ID, Outcome: expiry})
	}
}

// Periodic applies regeneration, poison and flame shield pulses for
// player's end of turn.
func (r *Resolver) Periodic(b *battle.Battle, player battle.PlayerID) {
	var regen battle.Outcome
	for _, u := range turnUnits(b, player) {
		if amount := u.ModifierTotal(ability.ModRegen); amount > 0 && u.Health < u.EffectiveMaxHealth() {
			regen.Heals = append(regen.Heals, battle.Heal{Target: u.ID, Amount: amount})
		}
	}
	if len(regen.Heals) > 0 {
		b.Submit(battle.RegenTicked{Player: player, Outcome: regen})
	}

	for _, u := range turnUnits(b, player) {
		for _, m := range u.Modifiers {
			if m.Modifier.Kind != ability.ModPoison || u.Dead {
				continue
			}
			b.Submit(battle.PoisonTicked{
				Source:  creditFor(b, m.Source),
				Outcome: battle.Outcome{Hits: []battle.Hit{{Target: u.ID, Damage: m.Modifier.Amount}}},
			})
		}
	}

	area := ability.MustLookup(ability.FlameShield).Area
	for _, u := range turnUnits(b, player) {
		for _, m := range u.Modifiers {
			if m.Modifier.Kind != ability.ModFlameShield || u.Dead {
				continue
			}
			var out battle.Outcome
			for _, t := range Hostile(b.UnitsCovered(area, u.Position, u.Position), u.Owner) {
				out.Hits = append(out.Hits, DamageTo(t, m.Modifier.Amount, ability.Magical))
			}
			if len(out.Hits) > 0 {
				b.Submit(battle.FlameShieldPulsed{Unit: u.ID, Source: creditFor(b, m.Source), Outcome: out})
			}
		}
	}
}

// WardAttacks lets each of player's auto-attacking units hit a uniformly
// random enemy it is authorized to attack.
func (r *Resolver) WardAttacks(b *battle.Battle, player battle.PlayerID) {
	for _, w := range b.LivingUnits() {
		if w.Owner != player || !w.AutoAttack || w.Dead {
			continue
		}
		ap, err := wardAttack(b, player, w.ID)
		if err != nil {
			continue
		}
		var legal []*battle.Unit
		for _, t := range Hostile(b.UnitsCovered(grid.Diamond(w.AttackRange), w.Position, w.Position), player) {
			if _, err := permission.UnitTarget(ap, t.ID); err == nil {
				legal = append(legal, t)
			}
		}
		target, ok := PickEnemyPreferred(b.Random(), legal, player)
		if !ok {
			continue
		}
		out := battle.Outcome{Hits: []battle.Hit{DamageTo(target, w.AttackDamage(), ability.Physical)}}
		if w.Template == PlagueWardStats.Template {
			out.Grants = []battle.Grant{{Target: target.ID, Modifier: timedModifier(b,
				ability.Modifier{Kind: ability.ModPoison, Amount: wardPoison}, wardPoisonDuration, castSource(w.ID, ability.PlagueWard))}}
		}
		b.Submit(battle.WardAttacked{Ward: w.ID, Outcome: out})
	}
}

func wardAttack(b *battle.Battle, player battle.PlayerID, id battle.UnitID) (permission.AbilityPermission, error) {
	pp, err := permission.Battle(b, player)
	if err != nil {
		return permission.AbilityPermission{}, err
	}
	up, err := permission.Unit(pp, id)
	if err != nil {
		return permission.AbilityPermission{}, err
	}
	op, err := permission.Own(up)
	if err != nil {
		return permission.AbilityPermission{}, err
	}
	ap, err := permission.Act(op)
	if err != nil {
		return permission.AbilityPermission{}, err
	}
	return permission.Ability(ap, ability.BasicAttack, ability.KindUnitTarget)
}

// creditFor resolves a modifier source to the unit and player credited for
// its effects.
func creditFor(b *battle.Battle, src ability.Source) battle.Credit {
	if src.Unit == 0 {
		return battle.NoCredit
	}
	u, ok := b.Unit(battle.UnitID(src.Unit))
	if !ok {
		return battle.NoCredit
	}
	return battle.Credit{Unit: u.ID, Player: u.Owner}
}
