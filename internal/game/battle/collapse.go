package battle

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tactics/internal/game/ability"
)

// Submit appends ds to the log and collapses pending deltas until the log
// and the event queue are both drained. Reactions submitted while draining
// are appended and collapsed by the outermost call.
//
// Postcondition: Head() == Len() once the outermost Submit returns.
func (b *Battle) Submit(ds ...Delta) {
	b.deltas = append(b.deltas, ds...)
	if b.draining {
		return
	}
	b.draining = true
	defer func() { b.draining = false }()

	for b.head < len(b.deltas) || len(b.events) > 0 {
		if len(b.events) > 0 {
			e := b.events[0]
			b.events = b.events[1:]
			if b.reactor != nil {
				b.reactor.React(b, e)
			}
			continue
		}
		d := b.deltas[b.head]
		b.collapse(d)
		b.head++
		b.invalidateOccupancy()
		b.logger.Debug("delta collapsed", zap.Int("index", b.head-1), zap.String("kind", string(d.Kind())))
	}
}

func (b *Battle) raise(e Event) { b.events = append(b.events, e) }

// collapse applies d to the battle state. It never fails; an unknown delta
// kind is a defect.
func (b *Battle) collapse(d Delta) {
	switch d := d.(type) {
	case GoldChanged:
		b.mustPlayer(d.Player).Gold += d.Amount
	case CardsDealt:
		p := b.mustPlayer(d.Player)
		p.Hand = append(p.Hand, d.Cards...)
	case HeroSpawned:
		b.spawn(Hero, d.Spawn)
		b.discard(d.Owner, d.Card)
	case CreepSpawned:
		b.spawn(Creep, d.Spawn)
		b.discard(d.Owner, d.Card)
	case MonsterSpawned:
		b.spawn(Monster, d.Spawn)
	case TreeSpawned:
		b.Trees = append(b.Trees, d.Position)
	case RuneSpawned:
		b.Runes = append(b.Runes, &Rune{ID: d.Rune, Kind: d.Type, Position: d.Position})
	case ShopSpawned:
		b.Shops = append(b.Shops, &Shop{ID: d.Shop, Position: d.Position, Items: append([]ability.ItemID(nil), d.Items...)})

	case UnitMoved:
		u := b.mustUnit(d.Unit)
		if len(d.Path) > 0 {
			u.Position = d.Path[len(d.Path)-1]
		}
		u.MovePoints -= d.Cost
	case UnitAttacked:
		credit := b.spendCast(d.Cast)
		b.damage(d.Hit, credit, true)

	case FissureCast:
		credit := b.spendCast(d.Cast)
		b.apply(d.Outcome, credit)
		b.Effects = append(b.Effects, &TimedEffect{
			ID: d.Effect, Ability: d.Ability, Source: d.Caster, Owner: credit.Player,
			Cells: d.Cells, Remaining: d.Duration, Blocking: true,
		})
	case VacuumCast:
		b.apply(d.Outcome, b.spendCast(d.Cast))
	case ForceWaveCast:
		b.apply(d.Outcome, b.spendCast(d.Cast))
	case MysticFlareCast:
		b.apply(d.Outcome, b.spendCast(d.Cast))
	case FireStormCast:
		credit := b.spendCast(d.Cast)
		b.Effects = append(b.Effects, &TimedEffect{
			ID: d.Effect, Ability: d.Ability, Source: d.Caster, Owner: credit.Player,
			Cells: d.Cells, Damage: d.Damage, Remaining: d.Duration,
		})
	case LightStrikeArrayCast:
		credit := b.spendCast(d.Cast)
		b.Effects = append(b.Effects, &TimedEffect{
			ID: d.Effect, Ability: d.Ability, Source: d.Caster, Owner: credit.Player,
			Cells: d.Cells, Damage: d.Damage, Remaining: d.Duration,
		})
	case BlinkCast:
		b.spendCast(d.Cast)
		b.mustUnit(d.Caster).Position = d.Target
	case PlagueWardCast:
		b.spendCast(d.Cast)
		b.spawn(Creep, d.Ward)
	case StrayBoltCast:
		b.apply(d.Outcome, b.spendCast(d.Cast))

	case LagunaBladeCast:
		b.apply(d.Outcome, b.spendCast(d.Cast))
	case StormBoltCast:
		b.apply(d.Outcome, b.spendCast(d.Cast))
	case FlameShieldCast:
		b.apply(d.Outcome, b.spendCast(d.Cast))
	case HealCast:
		b.apply(d.Outcome, b.spendCast(d.Cast))
	case SilenceCast:
		b.apply(d.Outcome, b.spendCast(d.Cast))
	case DisarmCast:
		b.apply(d.Outcome, b.spendCast(d.Cast))
	case PurgeCast:
		b.apply(d.Outcome, b.spendCast(d.Cast))
	case ArcLightningCast:
		b.apply(d.Outcome, b.spendCast(d.Cast))

	case ThunderClapCast:
		b.apply(d.Outcome, b.spendCast(d.Cast))
	case ShadowCloakCast:
		b.apply(d.Outcome, b.spendCast(d.Cast))
	case RejuvenateCast:
		b.apply(d.Outcome, b.spendCast(d.Cast))
	case EchoStompCast:
		b.apply(d.Outcome, b.spendCast(d.Cast))

	case MeteorCast:
		b.apply(d.Outcome, b.spendSpell(d.SpellCast))
	case HealWaveCast:
		b.apply(d.Outcome, b.spendSpell(d.SpellCast))
	case HasteCast:
		b.apply(d.Outcome, b.spendSpell(d.SpellCast))
		if u := b.mustUnit(d.Unit); u.Alive() {
			u.MovePoints += d.Bonus
		}

	case LifestealApplied:
		u := b.mustUnit(d.Unit)
		b.heal(d.Heal, Credit{Unit: u.ID, Player: u.Owner})
	case CleaveApplied:
		b.apply(d.Outcome, b.creditOf(d.Attacker))
	case BashApplied:
		b.apply(d.Outcome, b.creditOf(d.Attacker))
	case GlaiveBounced:
		b.apply(d.Outcome, b.creditOf(d.Attacker))
	case MonsterAggroed:
		b.mustUnit(d.Monster).RetaliationTarget = d.Target
	case BountyClaimed:
		b.mustPlayer(d.Player).Gold += d.Gold
	case LevelChanged:
		u := b.mustUnit(d.Unit)
		u.Level += d.Gained
		u.MaxHealth += d.Gained
		if u.Alive() {
			u.Health += d.Gained
		}

	case ModifierApplied:
		b.grant(d.Grant)
	case ModifierRemoved:
		b.remove(d.Removal)
	case ModifiersTicked:
		for _, u := range b.Units {
			if u.Dead || (u.Owner != d.Player && u.Owned()) {
				continue
			}
			for i := range u.Modifiers {
				if u.Modifiers[i].Timed && u.Modifiers[i].Remaining > 0 {
					u.Modifiers[i].Remaining--
				}
			}
		}

	case TimedEffectTicked:
		e := b.mustEffect(d.Effect)
		e.Remaining--
		b.apply(d.Outcome, Credit{Unit: e.Source, Player: e.Owner})
	case TimedEffectExpired:
		e := b.mustEffect(d.Effect)
		b.apply(d.Outcome, Credit{Unit: e.Source, Player: e.Owner})
		b.removeEffect(d.Effect)
	case RegenTicked:
		b.apply(d.Outcome, Credit{Player: d.Player})
	case PoisonTicked:
		b.apply(d.Outcome, d.Source)
	case FlameShieldPulsed:
		b.apply(d.Outcome, d.Source)
	case WardAttacked:
		b.apply(d.Outcome, b.creditOf(d.Ward))

	case ItemPurchased:
		b.mustPlayer(d.Player).Gold -= d.Cost
		u := b.mustUnit(d.Unit)
		u.Items = append(u.Items, d.Item)
		for _, g := range d.Grants {
			b.grant(g)
		}
	case RunePickedUp:
		u := b.mustUnit(d.Unit)
		if len(d.Path) > 0 {
			u.Position = d.Path[len(d.Path)-1]
		}
		u.MovePoints -= d.Cost
		b.removeRune(d.Rune)
		if d.Grant != nil {
			b.grant(*d.Grant)
		}
		if d.Gold != 0 && u.Owned() {
			b.mustPlayer(u.Owner).Gold += d.Gold
		}

	case TurnEnded:
		if d.Next <= d.Player {
			b.Round++
		}
		b.Turn = d.Next
		for _, u := range b.Units {
			if u.Dead || (u.Owner != d.Next && u.Owned()) {
				continue
			}
			u.HasActed = false
			u.MovePoints = u.MaxMovePoints()
			if u.Mana < u.MaxMana {
				u.Mana++
			}
		}
	case GameOver:
		b.Status = Status{Finished: true, Winner: d.Winner}

	default:
		panic(fmt.Sprintf("battle: collapse of unhandled delta %T", d))
	}
}

func (b *Battle) spawn(st Supertype, s Spawn) {
	u := newUnit(s.Unit, st, s.Owner, s.Position, s.Stats)
	u.Modifiers = append(u.Modifiers, s.Modifiers...)
	b.Units = append(b.Units, u)
}

// discard removes a played card from the hand. Static spawns carry no card.
func (b *Battle) discard(player PlayerID, card CardID) {
	if card == 0 {
		return
	}
	p := b.mustPlayer(player)
	for i, c := range p.Hand {
		if c.ID == card {
			p.Hand = append(p.Hand[:i:i], p.Hand[i+1:]...)
			return
		}
	}
}

func (b *Battle) creditOf(id UnitID) Credit {
	u := b.mustUnit(id)
	return Credit{Unit: u.ID, Player: u.Owner}
}

// spendCast pays the mana and charge of a cast and marks the caster as
// having acted.
func (b *Battle) spendCast(c Cast) Credit {
	u := b.mustUnit(c.Caster)
	def := ability.MustLookup(c.Ability)
	u.Mana -= def.ManaCost
	if inst, ok := u.Ability(c.Ability); ok && inst.Charges != ability.Unlimited && inst.Charges > 0 {
		inst.Charges--
	}
	u.HasActed = true
	b.raise(UnitActed{Unit: u.ID, Ability: c.Ability})
	return Credit{Unit: u.ID, Player: u.Owner}
}

func (b *Battle) spendSpell(s SpellCast) Credit {
	b.discard(s.Player, s.Card)
	return Credit{Player: s.Player}
}

func (b *Battle) apply(o Outcome, credit Credit) {
	for _, p := range o.Pushes {
		if u := b.mustUnit(p.Unit); u.Alive() {
			u.Position = p.To
		}
	}
	for _, h := range o.Hits {
		b.damage(h, credit, false)
	}
	for _, h := range o.Heals {
		b.heal(h, credit)
	}
	for _, g := range o.Grants {
		b.grant(g)
	}
	for _, r := range o.Removals {
		b.remove(r)
	}
}

func (b *Battle) damage(h Hit, credit Credit, attack bool) {
	u := b.mustUnit(h.Target)
	if u.Dead || h.Damage <= 0 {
		return
	}
	before := u.Health
	u.Health -= h.Damage
	if u.Health < 0 {
		u.Health = 0
	}
	b.raise(HealthChanged{Unit: u.ID, Amount: u.Health - before, Credit: credit, Attack: attack})
	if u.Health == 0 {
		u.Dead = true
		b.raise(UnitDied{Unit: u.ID, Credit: credit})
	}
}

func (b *Battle) heal(h Heal, credit Credit) {
	u := b.mustUnit(h.Target)
	if u.Dead || h.Amount <= 0 {
		return
	}
	before := u.Health
	u.Health += h.Amount
	if limit := u.EffectiveMaxHealth(); u.Health > limit {
		u.Health = limit
	}
	if u.Health != before {
		b.raise(HealthChanged{Unit: u.ID, Amount: u.Health - before, Credit: credit})
	}
}

func (b *Battle) grant(g Grant) {
	u := b.mustUnit(g.Target)
	if u.Dead {
		return
	}
	u.Modifiers = append(u.Modifiers, g.Modifier)
}

func (b *Battle) remove(r Removal) {
	u := b.mustUnit(r.Target)
	for i, m := range u.Modifiers {
		if m.ID == r.Modifier {
			u.Modifiers = append(u.Modifiers[:i:i], u.Modifiers[i+1:]...)
			break
		}
	}
	if limit := u.EffectiveMaxHealth(); u.Health > limit {
		u.Health = limit
	}
}

func (b *Battle) mustEffect(id EffectID) *TimedEffect {
	e, ok := b.Effect(id)
	if !ok {
		panic(fmt.Sprintf("battle: delta references unknown effect %d", id))
	}
	return e
}

func (b *Battle) removeEffect(id EffectID) {
	for i, e := range b.Effects {
		if e.ID == id {
			b.Effects = append(b.Effects[:i:i], b.Effects[i+1:]...)
			return
		}
	}
}

func (b *Battle) removeRune(id RuneID) {
	for i, r := range b.Runes {
		if r.ID == id {
			b.Runes = append(b.Runes[:i:i], b.Runes[i+1:]...)
			return
		}
	}
}
