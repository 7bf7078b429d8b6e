// Package resolve turns authorized casts into deltas and reacts to the events
// raised while they collapse.
package resolve

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/grid"
	"github.com/cory-johannsen/tactics/internal/game/permission"
)

// Resolver generates cast deltas and implements battle.Reactor for on-hit
// and on-death reactions.
type Resolver struct {
	logger *zap.Logger
}

// New returns a Resolver. A nil logger disables logging.
func New(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

// cast is an authorized cast reduced to what resolution needs.
type cast struct {
	b      *battle.Battle
	def    ability.Def
	caster *battle.Unit
	owner  battle.PlayerID
	at     grid.Position
	target *battle.Unit
	card   battle.CardID
}

func (c cast) header() battle.Cast {
	return battle.Cast{Caster: c.caster.ID, Ability: c.def.ID, Target: c.at}
}

func (c cast) spell() battle.SpellCast {
	return battle.SpellCast{Player: c.owner, Card: c.card, Spell: c.def.ID, Target: c.at}
}

func (c cast) origin() grid.Position {
	if c.caster == nil {
		return c.at
	}
	return c.caster.Position
}

func (c cast) source() ability.Source {
	if c.caster == nil {
		return ability.Source{Kind: ability.SourceAbility, Ability: c.def.ID}
	}
	return castSource(c.caster.ID, c.def.ID)
}

func (c cast) enemiesInArea() []*battle.Unit {
	return Hostile(c.b.UnitsCovered(c.def.Area, c.origin(), c.at), c.owner)
}

func (c cast) alliesInArea() []*battle.Unit {
	return Friendly(c.b.UnitsCovered(c.def.Area, c.origin(), c.at), c.owner)
}

func (c cast) modifier(target battle.UnitID, m ability.Modifier, duration int) battle.Grant {
	return battle.Grant{Target: target, Modifier: timedModifier(c.b, m, duration, c.source())}
}

// CastUnitTarget resolves an authorized unit-target cast, including basic
// attacks.
func (r *Resolver) CastUnitTarget(p permission.UnitCastPermission) {
	u := p.Unit()
	r.submit(cast{b: p.Battle(), def: p.Def(), caster: u, owner: u.Owner, at: p.Target().Position, target: p.Target()})
}

// CastGroundTarget resolves an authorized ground-target cast.
func (r *Resolver) CastGroundTarget(p permission.GroundCastPermission) {
	u := p.Unit()
	r.submit(cast{b: p.Battle(), def: p.Def(), caster: u, owner: u.Owner, at: p.At()})
}

// CastNoTarget resolves an authorized no-target cast centred on the caster.
func (r *Resolver) CastNoTarget(p permission.NoTargetCastPermission) {
	u := p.Unit()
	r.submit(cast{b: p.Battle(), def: p.Def(), caster: u, owner: u.Owner, at: u.Position, target: u})
}

// CastSpell resolves an authorized spell card.
func (r *Resolver) CastSpell(p permission.SpellPermission) {
	r.submit(cast{b: p.Battle(), def: p.Def(), owner: p.Player().ID, at: p.At(), target: p.Target(), card: p.Card().ID})
}

func (r *Resolver) submit(c cast) {
	d := r.resolve(c)
	r.logger.Debug("cast resolved", zap.String("ability", string(c.def.ID)), zap.String("delta", string(d.Kind())))
	c.b.Submit(d)
}

// resolve computes the delta for c. Every ability id has a branch; passives
// are never cast.
func (r *Resolver) resolve(c cast) battle.Delta {
	b, def := c.b, c.def
	switch def.ID {
	case ability.BasicAttack:
		return battle.UnitAttacked{Cast: c.header(), Hit: DamageTo(c.target, c.caster.AttackDamage(), ability.Physical)}

	case ability.Fissure:
		dir, _ := grid.Direction(c.caster.Position, c.at)
		cells, pushes, struck := fissurePath(b, c.caster.Position, dir, def.Area.Distance)
		out := battle.Outcome{Pushes: pushes}
		for _, u := range Hostile(struck, c.owner) {
			out.Hits = append(out.Hits, DamageTo(u, def.Damage, def.DamageType))
			out.Grants = append(out.Grants, c.modifier(u.ID, ability.Modifier{Kind: ability.ModStunned}, def.Duration))
		}
		return battle.FissureCast{Cast: c.header(), Outcome: out, Effect: battle.EffectID(b.NextID()), Cells: cells, Duration: def.Duration}

	case ability.Vacuum:
		return battle.VacuumCast{Cast: c.header(), Outcome: battle.Outcome{Pushes: Pull(b, c.enemiesInArea(), c.at)}}

	case ability.ForceWave:
		enemies := c.enemiesInArea()
		out := battle.Outcome{Pushes: Repel(b, enemies, c.at, def.Amount)}
		for _, u := range enemies {
			out.Hits = append(out.Hits, DamageTo(u, def.Damage, def.DamageType))
		}
		return battle.ForceWaveCast{Cast: c.header(), Outcome: out}

	case ability.MysticFlare:
		hits, rest := Distribute(b.Random(), c.enemiesInArea(), def.Hits, def.Damage, def.DamageType)
		return battle.MysticFlareCast{Cast: c.header(), Outcome: battle.Outcome{Hits: hits}, Remainder: rest}

	case ability.FireStorm:
		return battle.FireStormCast{
			Cast: c.header(), Effect: battle.EffectID(b.NextID()),
			Cells: cellsCovered(b, def.Area, c.origin(), c.at), Damage: def.Damage, Duration: def.Duration,
		}

	case ability.LightStrikeArray:
		return battle.LightStrikeArrayCast{
			Cast: c.header(), Effect: battle.EffectID(b.NextID()),
			Cells: cellsCovered(b, def.Area, c.origin(), c.at), Damage: def.Damage, Duration: def.Duration,
		}

	case ability.Blink:
		return battle.BlinkCast{Cast: c.header(), From: c.caster.Position}

	case ability.PlagueWard:
		return battle.PlagueWardCast{Cast: c.header(), Ward: battle.Spawn{
			Unit: battle.UnitID(b.NextID()), Owner: c.owner, Position: c.at, Stats: PlagueWardStats,
		}}

	case ability.StrayBolt:
		var out battle.Outcome
		if u, ok := PickEnemyPreferred(b.Random(), b.UnitsCovered(def.Area, c.origin(), c.at), c.owner); ok {
			out.Hits = []battle.Hit{DamageTo(u, def.Damage, def.DamageType)}
		}
		return battle.StrayBoltCast{Cast: c.header(), Outcome: out}

	case ability.LagunaBlade:
		return battle.LagunaBladeCast{Cast: c.header(), Outcome: battle.Outcome{Hits: []battle.Hit{DamageTo(c.target, def.Damage, def.DamageType)}}}

	case ability.StormBolt:
		var out battle.Outcome
		for _, u := range c.enemiesInArea() {
			out.Hits = append(out.Hits, DamageTo(u, def.Damage, def.DamageType))
			out.Grants = append(out.Grants, c.modifier(u.ID, ability.Modifier{Kind: ability.ModStunned}, def.Duration))
		}
		return battle.StormBoltCast{Cast: c.header(), Outcome: out}

	case ability.FlameShield:
		g := c.modifier(c.target.ID, ability.Modifier{Kind: ability.ModFlameShield, Amount: def.Damage}, def.Duration)
		return battle.FlameShieldCast{Cast: c.header(), Outcome: battle.Outcome{Grants: []battle.Grant{g}}}

	case ability.Heal:
		return battle.HealCast{Cast: c.header(), Outcome: battle.Outcome{Heals: []battle.Heal{{Target: c.target.ID, Amount: def.Amount}}}}

	case ability.Silence:
		g := c.modifier(c.target.ID, ability.Modifier{Kind: ability.ModSilenced}, def.Duration)
		return battle.SilenceCast{Cast: c.header(), Outcome: battle.Outcome{Grants: []battle.Grant{g}}}

	case ability.Disarm:
		g := c.modifier(c.target.ID, ability.Modifier{Kind: ability.ModDisarmed}, def.Duration)
		return battle.DisarmCast{Cast: c.header(), Outcome: battle.Outcome{Grants: []battle.Grant{g}}}

	case ability.Purge:
		return battle.PurgeCast{Cast: c.header(), Outcome: battle.Outcome{Removals: purged(c.target, c.owner)}}

	case ability.ArcLightning:
		hits, rest := Distribute(b.Random(), c.enemiesInArea(), def.Hits, def.Damage, def.DamageType)
		return battle.ArcLightningCast{Cast: c.header(), Outcome: battle.Outcome{Hits: hits}, Remainder: rest}

	case ability.ThunderClap:
		var out battle.Outcome
		for _, u := range c.enemiesInArea() {
			out.Hits = append(out.Hits, DamageTo(u, def.Damage, def.DamageType))
			out.Grants = append(out.Grants, c.modifier(u.ID, ability.Modifier{Kind: ability.ModMovePoints, Amount: -def.Amount}, def.Duration))
		}
		return battle.ThunderClapCast{Cast: c.header(), Outcome: out}

	case ability.ShadowCloak:
		g := c.modifier(c.caster.ID, ability.Modifier{Kind: ability.ModInvisible}, def.Duration)
		return battle.ShadowCloakCast{Cast: c.header(), Outcome: battle.Outcome{Grants: []battle.Grant{g}}}

	case ability.Rejuvenate:
		g := c.modifier(c.caster.ID, ability.Modifier{Kind: ability.ModRegen, Amount: def.Amount}, def.Duration)
		return battle.RejuvenateCast{Cast: c.header(), Outcome: battle.Outcome{Grants: []battle.Grant{g}}}

	case ability.EchoStomp:
		var out battle.Outcome
		for _, u := range c.enemiesInArea() {
			out.Grants = append(out.Grants, c.modifier(u.ID, ability.Modifier{Kind: ability.ModStunned}, def.Duration))
		}
		return battle.EchoStompCast{Cast: c.header(), Outcome: out}

	case ability.Meteor:
		var out battle.Outcome
		for _, u := range c.enemiesInArea() {
			out.Hits = append(out.Hits, DamageTo(u, def.Damage, def.DamageType))
		}
		return battle.MeteorCast{SpellCast: c.spell(), Outcome: out}

	case ability.HealWave:
		var out battle.Outcome
		for _, u := range c.alliesInArea() {
			out.Heals = append(out.Heals, battle.Heal{Target: u.ID, Amount: def.Amount})
		}
		return battle.HealWaveCast{SpellCast: c.spell(), Outcome: out}

	case ability.Haste:
		g := c.modifier(c.target.ID, ability.Modifier{Kind: ability.ModMovePoints, Amount: def.Amount}, def.Duration)
		return battle.HasteCast{SpellCast: c.spell(), Outcome: battle.Outcome{Grants: []battle.Grant{g}}, Unit: c.target.ID, Bonus: def.Amount}

	case ability.Lifesteal, ability.Cleave, ability.Bash, ability.MoonGlaive, ability.ThickHide:
		panic(fmt.Sprintf("resolve: passive ability %q cast", def.ID))
	default:
		panic(fmt.Sprintf("resolve: no resolution for ability %q", def.ID))
	}
}

// PlagueWardStats describes the ward summoned by plague ward.
var PlagueWardStats = battle.UnitStats{
	Template:    "plague_ward",
	Name:        "Plague Ward",
	MaxHealth:   2,
	Attack:      1,
	AttackRange: 2,
	Stationary:  true,
	AutoAttack:  true,
}

// purged lists the timed modifiers a purge removes: debuffs from an ally,
// buffs from an enemy.
func purged(target *battle.Unit, owner battle.PlayerID) []battle.Removal {
	ally := target.Owner == owner
	var out []battle.Removal
	for _, m := range target.Modifiers {
		if !m.Timed || m.Modifier.Debuff() != ally {
			continue
		}
		out = append(out, battle.Removal{Target: target.ID, Modifier: m.ID})
	}
	return out
}
