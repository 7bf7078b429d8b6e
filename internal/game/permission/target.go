package permission

import (
	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/grid"
)

// UnitCastPermission authorizes a unit-target cast.
type UnitCastPermission struct {
	AbilityPermission
	target *battle.Unit
}

func (p UnitCastPermission) Target() *battle.Unit { return p.target }

// GroundCastPermission authorizes a ground-target cast.
type GroundCastPermission struct {
	AbilityPermission
	at grid.Position
}

func (p GroundCastPermission) At() grid.Position { return p.at }

// NoTargetCastPermission authorizes a cast centred on the caster.
type NoTargetCastPermission struct {
	AbilityPermission
}

// UnitTarget authorizes casting at a unit.
func UnitTarget(ap AbilityPermission, id battle.UnitID) (UnitCastPermission, error) {
	if ap.def.Kind != ability.KindUnitTarget {
		return UnitCastPermission{}, TargetOther
	}
	t, err := checkUnitTarget(ap.b, ap.def, ap.unit.Owner, ap.unit, id)
	if err != nil {
		return UnitCastPermission{}, err
	}
	if !ap.def.Range.InRange(ap.unit.Position, t.Position) {
		return UnitCastPermission{}, TargetOutOfRange
	}
	return UnitCastPermission{AbilityPermission: ap, target: t}, nil
}

// GroundTarget authorizes casting at a cell.
func GroundTarget(ap AbilityPermission, at grid.Position) (GroundCastPermission, error) {
	if ap.def.Kind != ability.KindGroundTarget {
		return GroundCastPermission{}, TargetOther
	}
	if err := checkCell(ap.b, ap.def, at); err != nil {
		return GroundCastPermission{}, err
	}
	if ap.def.Range.Shape == grid.ShapeLine {
		if _, ok := grid.Direction(ap.unit.Position, at); !ok {
			return GroundCastPermission{}, TargetNotInLine
		}
	}
	if !ap.def.Range.InRange(ap.unit.Position, at) {
		return GroundCastPermission{}, TargetOutOfRange
	}
	return GroundCastPermission{AbilityPermission: ap, at: at}, nil
}

// NoTarget authorizes a cast that needs no target.
func NoTarget(ap AbilityPermission) (NoTargetCastPermission, error) {
	if ap.def.Kind != ability.KindNoTarget {
		return NoTargetCastPermission{}, TargetOther
	}
	return NoTargetCastPermission{AbilityPermission: ap}, nil
}

// cellMustBeFree lists ground abilities that place something on the cell.
func cellMustBeFree(id ability.ID) bool {
	return id == ability.Blink || id == ability.PlagueWard
}

func checkCell(b *battle.Battle, def ability.Def, at grid.Position) error {
	if !b.Grid.InBounds(at) || b.Grid.Disabled(at) {
		return TargetCellDisabled
	}
	if cellMustBeFree(def.ID) && !b.Free(at) {
		return TargetCellBlocked
	}
	return nil
}

func checkUnitTarget(b *battle.Battle, def ability.Def, owner battle.PlayerID, caster *battle.Unit, id battle.UnitID) (*battle.Unit, error) {
	t, ok := b.Unit(id)
	if !ok {
		return nil, TargetNotFound
	}
	if t.Dead {
		return nil, TargetDead
	}
	hostile := t.Owner != owner
	if hostile && t.Invisible() {
		return nil, TargetInvisible
	}
	if caster != nil && t.ID == caster.ID {
		if !def.AllowSelf {
			return nil, TargetSelf
		}
		return t, nil
	}
	switch def.Targets {
	case ability.TargetEnemies:
		if !hostile {
			return nil, TargetNotEnemy
		}
	case ability.TargetAllies:
		if hostile {
			return nil, TargetNotAlly
		}
	}
	return t, nil
}

// CardPermission: the player holds the card.
type CardPermission struct {
	PlayerPermission
	card battle.Card
}

func (p CardPermission) Card() battle.Card { return p.card }

// Card selects a card from the turning player's hand.
func Card(pp PlayerPermission, id battle.CardID) (CardPermission, error) {
	c, ok := pp.player.Card(id)
	if !ok {
		return CardPermission{}, CardNotInHand
	}
	if c.Kind == battle.CardSpell {
		if _, ok := ability.Lookup(c.Spell); !ok {
			return CardPermission{}, CardOther
		}
	} else if c.Unit == nil {
		return CardPermission{}, CardOther
	}
	return CardPermission{PlayerPermission: pp, card: c}, nil
}

// DeployPermission authorizes placing a hero or creep card on a cell.
type DeployPermission struct {
	CardPermission
	at grid.Position
}

func (p DeployPermission) At() grid.Position { return p.at }

// Deploy authorizes placing a unit card inside the player's deployment zone.
func Deploy(cp CardPermission, at grid.Position) (DeployPermission, error) {
	if cp.card.Kind != battle.CardHero && cp.card.Kind != battle.CardCreep {
		return DeployPermission{}, DeployNotAUnitCard
	}
	b := cp.b
	if !b.Grid.InBounds(at) || b.Grid.Disabled(at) {
		return DeployPermission{}, DeployCellDisabled
	}
	if !cp.player.Deployment.Contains(at) {
		return DeployPermission{}, DeployOutsideZone
	}
	if b.OccupantAt(at).Kind != battle.Empty {
		return DeployPermission{}, DeployCellOccupied
	}
	return DeployPermission{CardPermission: cp, at: at}, nil
}

// SpellPermission authorizes casting a spell card.
type SpellPermission struct {
	CardPermission
	def    ability.Def
	target *battle.Unit
	at     grid.Position
}

func (p SpellPermission) Def() ability.Def { return p.def }

// Target is the unit a unit-target spell is cast at; nil for ground spells.
func (p SpellPermission) Target() *battle.Unit { return p.target }
func (p SpellPermission) At() grid.Position    { return p.at }

// SpellUnitTarget authorizes casting a unit-target spell card at a unit.
func SpellUnitTarget(cp CardPermission, id battle.UnitID) (SpellPermission, error) {
	def, ok := spellDef(cp, ability.KindUnitTarget)
	if !ok {
		return SpellPermission{}, TargetOther
	}
	t, err := checkUnitTarget(cp.b, def, cp.player.ID, nil, id)
	if err != nil {
		return SpellPermission{}, err
	}
	return SpellPermission{CardPermission: cp, def: def, target: t, at: t.Position}, nil
}

// SpellGroundTarget authorizes casting a ground-target spell card at a cell.
func SpellGroundTarget(cp CardPermission, at grid.Position) (SpellPermission, error) {
	def, ok := spellDef(cp, ability.KindGroundTarget)
	if !ok {
		return SpellPermission{}, TargetOther
	}
	if err := checkCell(cp.b, def, at); err != nil {
		return SpellPermission{}, err
	}
	return SpellPermission{CardPermission: cp, def: def, at: at}, nil
}

func spellDef(cp CardPermission, kind ability.Kind) (ability.Def, bool) {
	if cp.card.Kind != battle.CardSpell {
		return ability.Def{}, false
	}
	def, ok := ability.Lookup(cp.card.Spell)
	if !ok || !def.Spell || def.Kind != kind {
		return ability.Def{}, false
	}
	return def, true
}
