// Package ability holds the closed catalogues of the battle rules: abilities
// and spells, modifiers, shop items and runes. Everything here is static
// data; the battle package owns the mutable instances.
package ability

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/tactics/internal/game/grid"
)

// ID identifies an ability or spell.
type ID string

// Ability and spell identifiers. Adding an ID requires a catalogue entry and
// a resolution branch; the exhaustiveness tests fail otherwise.
const (
	BasicAttack ID = "basic_attack"

	Fissure          ID = "fissure"
	Vacuum           ID = "vacuum"
	ForceWave        ID = "force_wave"
	MysticFlare      ID = "mystic_flare"
	FireStorm        ID = "fire_storm"
	LightStrikeArray ID = "light_strike_array"
	Blink            ID = "blink"
	PlagueWard       ID = "plague_ward"
	StrayBolt        ID = "stray_bolt"

	LagunaBlade  ID = "laguna_blade"
	StormBolt    ID = "storm_bolt"
	FlameShield  ID = "flame_shield"
	Heal         ID = "heal"
	Silence      ID = "silence"
	Disarm       ID = "disarm"
	Purge        ID = "purge"
	ArcLightning ID = "arc_lightning"

	ThunderClap ID = "thunder_clap"
	ShadowCloak ID = "shadow_cloak"
	Rejuvenate  ID = "rejuvenate"
	EchoStomp   ID = "echo_stomp"

	Lifesteal  ID = "lifesteal"
	Cleave     ID = "cleave"
	Bash       ID = "bash"
	MoonGlaive ID = "moon_glaive"
	ThickHide  ID = "thick_hide"

	Meteor   ID = "meteor"
	HealWave ID = "heal_wave"
	Haste    ID = "haste"
)

// Kind is the targeting kind of an ability.
type Kind int

const (
	KindGroundTarget Kind = iota
	KindUnitTarget
	KindNoTarget
	KindPassive
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindGroundTarget:
		return "ground_target"
	case KindUnitTarget:
		return "unit_target"
	case KindNoTarget:
		return "no_target"
	case KindPassive:
		return "passive"
	default:
		return "unknown"
	}
}

// TargetFilter restricts which units a unit-target ability or an area may
// affect, relative to the caster's owner.
type TargetFilter int

const (
	TargetEnemies TargetFilter = iota
	TargetAllies
	TargetAny
)

// DamageType decides whether armor applies.
type DamageType int

const (
	// Physical damage is reduced by armor.
	Physical DamageType = iota
	// Magical damage ignores armor.
	Magical
)

// Unlimited marks an ability instance without a charge limit.
const Unlimited = -1

// Def is the static definition of an ability or spell.
type Def struct {
	ID         ID
	Name       string
	Kind       Kind
	Range      grid.Selector
	Area       grid.Selector
	Targets    TargetFilter
	AllowSelf  bool
	Damage     int
	DamageType DamageType
	// Hits is the discrete hit budget of a random-spread effect.
	Hits int
	// Duration counts owner end-of-turns for modifiers and timed effects.
	Duration int
	// Amount is the heal, bonus or displacement distance, depending on ID.
	Amount   int
	ManaCost int
	// Charges is the starting charge count; Unlimited when zero uses are
	// tracked.
	Charges int
	// Chance is the proc probability for chance-based passives.
	Chance float64
	// Spell abilities are cast from a card by a player, not by a unit.
	Spell bool
}

var catalogue = map[ID]Def{
	BasicAttack: {ID: BasicAttack, Name: "Attack", Kind: KindUnitTarget, Range: grid.Diamond(1), Area: grid.Single(), Targets: TargetEnemies, Charges: Unlimited},

	Fissure:          {ID: Fissure, Name: "Fissure", Kind: KindGroundTarget, Range: grid.Line(5), Area: grid.Line(5), Targets: TargetAny, Damage: 2, DamageType: Magical, Duration: 1, ManaCost: 3, Charges: Unlimited},
	Vacuum:           {ID: Vacuum, Name: "Vacuum", Kind: KindGroundTarget, Range: grid.Diamond(4), Area: grid.Radius(2), Targets: TargetEnemies, ManaCost: 3, Charges: Unlimited},
	ForceWave:        {ID: ForceWave, Name: "Force Wave", Kind: KindGroundTarget, Range: grid.Diamond(3), Area: grid.Radius(1), Targets: TargetEnemies, Damage: 1, DamageType: Magical, Amount: 2, ManaCost: 2, Charges: Unlimited},
	MysticFlare:      {ID: MysticFlare, Name: "Mystic Flare", Kind: KindGroundTarget, Range: grid.Diamond(5), Area: grid.Radius(1), Targets: TargetEnemies, Damage: 1, DamageType: Magical, Hits: 6, ManaCost: 4, Charges: 2},
	FireStorm:        {ID: FireStorm, Name: "Fire Storm", Kind: KindGroundTarget, Range: grid.Diamond(4), Area: grid.Radius(1), Targets: TargetEnemies, Damage: 1, DamageType: Magical, Duration: 3, ManaCost: 3, Charges: Unlimited},
	LightStrikeArray: {ID: LightStrikeArray, Name: "Light Strike Array", Kind: KindGroundTarget, Range: grid.Diamond(4), Area: grid.Radius(1), Targets: TargetEnemies, Damage: 2, DamageType: Magical, Duration: 1, ManaCost: 3, Charges: Unlimited},
	Blink:            {ID: Blink, Name: "Blink", Kind: KindGroundTarget, Range: grid.Diamond(4), Area: grid.Single(), Targets: TargetAny, ManaCost: 1, Charges: Unlimited},
	PlagueWard:       {ID: PlagueWard, Name: "Plague Ward", Kind: KindGroundTarget, Range: grid.Diamond(2), Area: grid.Single(), Targets: TargetAny, ManaCost: 2, Charges: 3},
	StrayBolt:        {ID: StrayBolt, Name: "Stray Bolt", Kind: KindGroundTarget, Range: grid.Diamond(5), Area: grid.Radius(1), Targets: TargetAny, Damage: 3, DamageType: Magical, ManaCost: 2, Charges: Unlimited},

	LagunaBlade:  {ID: LagunaBlade, Name: "Laguna Blade", Kind: KindUnitTarget, Range: grid.Diamond(3), Area: grid.Single(), Targets: TargetEnemies, Damage: 5, DamageType: Magical, ManaCost: 5, Charges: 1},
	StormBolt:    {ID: StormBolt, Name: "Storm Bolt", Kind: KindUnitTarget, Range: grid.Diamond(3), Area: grid.Radius(1), Targets: TargetEnemies, Damage: 2, DamageType: Magical, Duration: 1, ManaCost: 3, Charges: Unlimited},
	FlameShield:  {ID: FlameShield, Name: "Flame Shield", Kind: KindUnitTarget, Range: grid.Diamond(3), Area: grid.Radius(1), Targets: TargetAllies, AllowSelf: true, Damage: 1, DamageType: Magical, Duration: 3, ManaCost: 2, Charges: Unlimited},
	Heal:         {ID: Heal, Name: "Heal", Kind: KindUnitTarget, Range: grid.Diamond(3), Area: grid.Single(), Targets: TargetAllies, AllowSelf: true, Amount: 4, ManaCost: 2, Charges: Unlimited},
	Silence:      {ID: Silence, Name: "Silence", Kind: KindUnitTarget, Range: grid.Diamond(4), Area: grid.Single(), Targets: TargetEnemies, Duration: 2, ManaCost: 2, Charges: Unlimited},
	Disarm:       {ID: Disarm, Name: "Disarm", Kind: KindUnitTarget, Range: grid.Diamond(3), Area: grid.Single(), Targets: TargetEnemies, Duration: 2, ManaCost: 2, Charges: Unlimited},
	Purge:        {ID: Purge, Name: "Purge", Kind: KindUnitTarget, Range: grid.Diamond(4), Area: grid.Single(), Targets: TargetAny, AllowSelf: true, ManaCost: 1, Charges: Unlimited},
	ArcLightning: {ID: ArcLightning, Name: "Arc Lightning", Kind: KindUnitTarget, Range: grid.Diamond(4), Area: grid.Radius(2), Targets: TargetEnemies, Damage: 1, DamageType: Magical, Hits: 4, ManaCost: 3, Charges: Unlimited},

	ThunderClap: {ID: ThunderClap, Name: "Thunder Clap", Kind: KindNoTarget, Area: grid.Radius(1), Targets: TargetEnemies, Damage: 2, DamageType: Physical, Duration: 1, Amount: 1, ManaCost: 2, Charges: Unlimited},
	ShadowCloak: {ID: ShadowCloak, Name: "Shadow Cloak", Kind: KindNoTarget, Area: grid.Single(), Targets: TargetAllies, Duration: 2, ManaCost: 2, Charges: Unlimited},
	Rejuvenate:  {ID: Rejuvenate, Name: "Rejuvenate", Kind: KindNoTarget, Area: grid.Single(), Targets: TargetAllies, Duration: 3, Amount: 2, ManaCost: 2, Charges: Unlimited},
	EchoStomp:   {ID: EchoStomp, Name: "Echo Stomp", Kind: KindNoTarget, Area: grid.Radius(1), Targets: TargetEnemies, Duration: 1, ManaCost: 3, Charges: Unlimited},

	Lifesteal:  {ID: Lifesteal, Name: "Lifesteal", Kind: KindPassive, Amount: 50},
	Cleave:     {ID: Cleave, Name: "Cleave", Kind: KindPassive, Area: grid.Radius(1), Amount: 50},
	Bash:       {ID: Bash, Name: "Bash", Kind: KindPassive, Duration: 1, Chance: 0.25},
	MoonGlaive: {ID: MoonGlaive, Name: "Moon Glaive", Kind: KindPassive, Area: grid.Radius(1), Damage: 1, DamageType: Physical},
	ThickHide:  {ID: ThickHide, Name: "Thick Hide", Kind: KindPassive, Amount: 1},

	Meteor:   {ID: Meteor, Name: "Meteor", Kind: KindGroundTarget, Range: grid.Radius(64), Area: grid.Radius(1), Targets: TargetEnemies, Damage: 3, DamageType: Magical, Spell: true},
	HealWave: {ID: HealWave, Name: "Heal Wave", Kind: KindGroundTarget, Range: grid.Radius(64), Area: grid.Radius(1), Targets: TargetAllies, Amount: 3, Spell: true},
	Haste:    {ID: Haste, Name: "Haste", Kind: KindUnitTarget, Range: grid.Radius(64), Area: grid.Single(), Targets: TargetAllies, AllowSelf: true, Amount: 2, Duration: 1, Spell: true},
}

// Lookup returns the definition for id.
func Lookup(id ID) (Def, bool) {
	d, ok := catalogue[id]
	return d, ok
}

// MustLookup returns the definition for id and panics when id is unknown.
// Only call it for ids that already passed authorization.
func MustLookup(id ID) Def {
	d, ok := catalogue[id]
	if !ok {
		panic(fmt.Sprintf("ability: unknown id %q", id))
	}
	return d
}

// All returns every catalogued id in lexical order.
func All() []ID {
	out := make([]ID, 0, len(catalogue))
	for id := range catalogue {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Instance is an ability known by a unit. Only Charges changes after
// construction.
type Instance struct {
	ID      ID  `json:"id"`
	Charges int `json:"charges"`
}

// NewInstance returns an instance with the catalogue's starting charges.
func NewInstance(id ID) Instance {
	return Instance{ID: id, Charges: MustLookup(id).Charges}
}

// HasCharges reports whether the instance may be cast again.
func (i Instance) HasCharges() bool {
	return i.Charges == Unlimited || i.Charges > 0
}
