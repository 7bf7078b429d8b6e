package battle

import (
	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/grid"
)

// UnitID identifies a unit within one battle. Zero is never assigned.
type UnitID int

// ModifierID is the handle of one applied modifier.
type ModifierID int

// Supertype distinguishes heroes, creeps and neutral monsters.
type Supertype string

const (
	Hero    Supertype = "hero"
	Creep   Supertype = "creep"
	Monster Supertype = "monster"
)

// UnitStats is the static description a unit is spawned from. Cards and
// battleground spawns carry it so that spawn deltas are self-sufficient.
type UnitStats struct {
	Template  string `json:"template"`
	Name      string `json:"name"`
	MaxHealth int    `json:"max_health"`
	// Health is the starting health; zero means full.
	Health      int                `json:"health,omitempty"`
	MaxMana     int                `json:"max_mana,omitempty"`
	MovePoints  int                `json:"move_points"`
	Attack      int                `json:"attack"`
	AttackRange int                `json:"attack_range"`
	Armor       int                `json:"armor,omitempty"`
	Bounty      int                `json:"bounty,omitempty"`
	Level       int                `json:"level,omitempty"`
	Abilities   []ability.ID       `json:"abilities,omitempty"`
	Modifiers   []ability.Modifier `json:"modifiers,omitempty"`
	Stationary  bool               `json:"stationary,omitempty"`
	AutoAttack  bool               `json:"auto_attack,omitempty"`
}

// AppliedModifier is a modifier attached to a unit.
type AppliedModifier struct {
	ID       ModifierID       `json:"id"`
	Modifier ability.Modifier `json:"modifier"`
	// Timed modifiers lose one point of Remaining at each end of turn of the
	// unit's owner and are removed at zero.
	Timed     bool           `json:"timed,omitempty"`
	Remaining int            `json:"remaining,omitempty"`
	Source    ability.Source `json:"source"`
}

// Unit is a combatant on the grid. Units are owned by the Battle and are
// changed only by collapsing deltas.
type Unit struct {
	ID          UnitID
	Supertype   Supertype
	Owner       PlayerID
	Template    string
	Name        string
	Position    grid.Position
	Health      int
	MaxHealth   int
	Mana        int
	MaxMana     int
	MovePoints  int
	BaseMove    int
	Attack      ability.Instance
	AttackPower int
	AttackRange int
	BaseArmor   int
	Bounty      int
	Level       int
	Abilities   []ability.Instance
	Modifiers   []AppliedModifier
	Items       []ability.ItemID
	Stationary  bool
	AutoAttack  bool
	Dead        bool
	HasActed    bool
	// RetaliationTarget is the unit a monster attacks at end of turn.
	RetaliationTarget UnitID
}

func newUnit(id UnitID, st Supertype, owner PlayerID, pos grid.Position, s UnitStats) *Unit {
	u := &Unit{
		ID:          id,
		Supertype:   st,
		Owner:       owner,
		Template:    s.Template,
		Name:        s.Name,
		Position:    pos,
		Health:      s.MaxHealth,
		MaxHealth:   s.MaxHealth,
		Mana:        s.MaxMana,
		MaxMana:     s.MaxMana,
		MovePoints:  s.MovePoints,
		BaseMove:    s.MovePoints,
		Attack:      ability.NewInstance(ability.BasicAttack),
		AttackPower: s.Attack,
		AttackRange: s.AttackRange,
		BaseArmor:   s.Armor,
		Bounty:      s.Bounty,
		Level:       s.Level,
		Stationary:  s.Stationary,
		AutoAttack:  s.AutoAttack,
	}
	if s.Health > 0 && s.Health < s.MaxHealth {
		u.Health = s.Health
	}
	if u.Level == 0 {
		u.Level = 1
	}
	for _, id := range s.Abilities {
		u.Abilities = append(u.Abilities, ability.NewInstance(id))
	}
	return u
}

// Alive reports whether the unit has not died.
func (u *Unit) Alive() bool { return !u.Dead }

// Owned reports whether a player controls the unit.
func (u *Unit) Owned() bool { return u.Owner != Neutral }

// ModifierTotal sums the Amount of every applied modifier of kind k.
func (u *Unit) ModifierTotal(k ability.ModifierKind) int {
	total := 0
	for _, m := range u.Modifiers {
		if m.Modifier.Kind == k {
			total += m.Modifier.Amount
		}
	}
	return total
}

// Has reports whether any applied modifier is of kind k.
func (u *Unit) Has(k ability.ModifierKind) bool {
	for _, m := range u.Modifiers {
		if m.Modifier.Kind == k {
			return true
		}
	}
	return false
}

func (u *Unit) Stunned() bool   { return u.Has(ability.ModStunned) }
func (u *Unit) Silenced() bool  { return u.Has(ability.ModSilenced) }
func (u *Unit) Disarmed() bool  { return u.Has(ability.ModDisarmed) }
func (u *Unit) Rooted() bool    { return u.Has(ability.ModRooted) }
func (u *Unit) Invisible() bool { return u.Has(ability.ModInvisible) }

// Passive returns the definition of passive ability id when the unit knows it.
func (u *Unit) Passive(id ability.ID) (ability.Def, bool) {
	for _, a := range u.Abilities {
		if a.ID == id {
			d := ability.MustLookup(id)
			return d, d.Kind == ability.KindPassive
		}
	}
	return ability.Def{}, false
}

// Armor is base armor plus armor modifiers and thick hide.
func (u *Unit) Armor() int {
	armor := u.BaseArmor + u.ModifierTotal(ability.ModArmor)
	if d, ok := u.Passive(ability.ThickHide); ok {
		armor += d.Amount
	}
	if armor < 0 {
		return 0
	}
	return armor
}

// AttackDamage is the damage of one basic attack before armor.
func (u *Unit) AttackDamage() int {
	dmg := u.AttackPower + u.ModifierTotal(ability.ModAttack)
	if dmg < 0 {
		dmg = 0
	}
	if u.Has(ability.ModDoubleDamage) {
		dmg *= 2
	}
	return dmg
}

// MaxMovePoints is the move budget restored at the start of the owner's turn.
func (u *Unit) MaxMovePoints() int {
	if u.Stationary {
		return 0
	}
	mp := u.BaseMove + u.ModifierTotal(ability.ModMovePoints)
	if mp < 0 {
		return 0
	}
	return mp
}

// EffectiveMaxHealth is max health including health modifiers.
func (u *Unit) EffectiveMaxHealth() int {
	return u.MaxHealth + u.ModifierTotal(ability.ModMaxHealth)
}

// Ability returns the unit's instance of id. The basic attack is always
// known.
func (u *Unit) Ability(id ability.ID) (*ability.Instance, bool) {
	if id == ability.BasicAttack {
		return &u.Attack, true
	}
	for i := range u.Abilities {
		if u.Abilities[i].ID == id {
			return &u.Abilities[i], true
		}
	}
	return nil, false
}

// Modifier returns the applied modifier with handle id.
func (u *Unit) Modifier(id ModifierID) (AppliedModifier, bool) {
	for _, m := range u.Modifiers {
		if m.ID == id {
			return m, true
		}
	}
	return AppliedModifier{}, false
}

// Hostile reports whether a and b fight each other. Monsters are hostile to
// every owned unit and friendly to each other.
func Hostile(a, b *Unit) bool {
	return a.Owner != b.Owner
}

func (u *Unit) clone() *Unit {
	c := *u
	c.Abilities = append([]ability.Instance(nil), u.Abilities...)
	c.Modifiers = append([]AppliedModifier(nil), u.Modifiers...)
	c.Items = append([]ability.ItemID(nil), u.Items...)
	return &c
}
