package resolve

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/random"
)

// React implements battle.Reactor. It runs for every event raised by a
// collapse, whatever produced the delta, so on-hit rules apply uniformly to
// attacks, abilities and periodic damage.
func (r *Resolver) React(b *battle.Battle, e battle.Event) {
	switch e := e.(type) {
	case battle.HealthChanged:
		if e.Amount >= 0 {
			return
		}
		r.aggro(b, e)
		if e.Attack {
			r.onAttackHit(b, e)
		}
	case battle.UnitDied:
		r.bounty(b, e)
	case battle.UnitActed:
		r.reveal(b, e)
	}
}

// onAttackHit applies the attacker's on-hit passives and items in a fixed
// order: lifesteal, cleave, bash, moon glaive.
func (r *Resolver) onAttackHit(b *battle.Battle, e battle.HealthChanged) {
	attacker, ok := b.Unit(e.Credit.Unit)
	if !ok || attacker.Dead {
		return
	}
	victim, _ := b.Unit(e.Unit)
	dealt := -e.Amount

	if pct := passiveAmount(attacker, ability.ModLifesteal, ability.Lifesteal); pct > 0 {
		if heal := dealt * pct / 100; heal > 0 {
			b.Submit(battle.LifestealApplied{Unit: attacker.ID, Heal: battle.Heal{Target: attacker.ID, Amount: heal}})
		}
	}

	if pct := passiveAmount(attacker, ability.ModCleave, ability.Cleave); pct > 0 {
		if splash := dealt * pct / 100; splash > 0 {
			var out battle.Outcome
			area := ability.MustLookup(ability.Cleave).Area
			for _, u := range Hostile(b.UnitsCovered(area, attacker.Position, victim.Position), attacker.Owner) {
				if u.ID != victim.ID {
					out.Hits = append(out.Hits, battle.Hit{Target: u.ID, Damage: splash})
				}
			}
			if len(out.Hits) > 0 {
				b.Submit(battle.CleaveApplied{Attacker: attacker.ID, Outcome: out})
			}
		}
	}

	if victim.Alive() && (attacker.Has(ability.ModBash) || knows(attacker, ability.Bash)) {
		def := ability.MustLookup(ability.Bash)
		if random.Chance(b.Random(), def.Chance) {
			g := battle.Grant{Target: victim.ID, Modifier: timedModifier(b, ability.Modifier{Kind: ability.ModStunned}, def.Duration, castSource(attacker.ID, ability.Bash))}
			b.Submit(battle.BashApplied{Attacker: attacker.ID, Outcome: battle.Outcome{Grants: []battle.Grant{g}}})
		}
	}

	if dmg := passiveAmount(attacker, ability.ModMoonGlaive, ability.MoonGlaive); dmg > 0 {
		area := ability.MustLookup(ability.MoonGlaive).Area
		var pool []*battle.Unit
		for _, u := range Hostile(b.UnitsCovered(area, attacker.Position, victim.Position), attacker.Owner) {
			if u.ID != victim.ID {
				pool = append(pool, u)
			}
		}
		if len(pool) > 0 {
			u := random.Pick(b.Random(), pool)
			b.Submit(battle.GlaiveBounced{Attacker: attacker.ID, Outcome: battle.Outcome{Hits: []battle.Hit{DamageTo(u, dmg, ability.Physical)}}})
		}
	}
}

// aggro makes a damaged monster remember who hurt it.
func (r *Resolver) aggro(b *battle.Battle, e battle.HealthChanged) {
	victim, _ := b.Unit(e.Unit)
	if victim.Supertype != battle.Monster || victim.Dead || e.Credit.Unit == 0 {
		return
	}
	attacker, ok := b.Unit(e.Credit.Unit)
	if !ok || !attacker.Owned() || victim.RetaliationTarget == attacker.ID {
		return
	}
	b.Submit(battle.MonsterAggroed{Monster: victim.ID, Target: attacker.ID})
}

// bounty pays the killer's player and levels up a killing hero.
func (r *Resolver) bounty(b *battle.Battle, e battle.UnitDied) {
	victim, _ := b.Unit(e.Unit)
	if e.Credit.Player == battle.Neutral || e.Credit.Player == victim.Owner {
		return
	}
	if victim.Bounty > 0 {
		b.Submit(battle.BountyClaimed{Player: e.Credit.Player, Victim: victim.ID, Gold: victim.Bounty})
	}
	if killer, ok := b.Unit(e.Credit.Unit); ok && killer.Alive() && killer.Supertype == battle.Hero {
		b.Submit(battle.LevelChanged{Unit: killer.ID, Gained: 1})
		r.logger.Debug("hero levelled", zap.Int("unit", int(killer.ID)))
	}
}

// reveal drops invisibility from a unit that acts, unless the act is the
// cloak itself.
func (r *Resolver) reveal(b *battle.Battle, e battle.UnitActed) {
	if e.Ability == ability.ShadowCloak {
		return
	}
	u, _ := b.Unit(e.Unit)
	for _, m := range u.Modifiers {
		if m.Modifier.Kind == ability.ModInvisible {
			b.Submit(battle.ModifierRemoved{Removal: battle.Removal{Target: u.ID, Modifier: m.ID}, Reason: "revealed"})
		}
	}
}

func knows(u *battle.Unit, id ability.ID) bool {
	_, ok := u.Passive(id)
	return ok
}

// passiveAmount sums a modifier kind and the matching passive ability's
// amount (or damage, for moon glaive).
func passiveAmount(u *battle.Unit, kind ability.ModifierKind, passive ability.ID) int {
	total := u.ModifierTotal(kind)
	if d, ok := u.Passive(passive); ok {
		if d.Amount > 0 {
			total += d.Amount
		} else {
			total += d.Damage
		}
	}
	return total
}

var _ battle.Reactor = (*Resolver)(nil)
