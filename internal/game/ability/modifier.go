package ability

// ModifierKind enumerates the closed set of modifier variants.
type ModifierKind string

const (
	ModStunned      ModifierKind = "stunned"
	ModSilenced     ModifierKind = "silenced"
	ModDisarmed     ModifierKind = "disarmed"
	ModRooted       ModifierKind = "rooted"
	ModInvisible    ModifierKind = "invisible"
	ModArmor        ModifierKind = "armor"
	ModAttack       ModifierKind = "attack"
	ModMovePoints   ModifierKind = "move_points"
	ModMaxHealth    ModifierKind = "max_health"
	ModRegen        ModifierKind = "regen"
	ModPoison       ModifierKind = "poison"
	ModFlameShield  ModifierKind = "flame_shield"
	ModLifesteal    ModifierKind = "lifesteal"
	ModCleave       ModifierKind = "cleave"
	ModBash         ModifierKind = "bash"
	ModMoonGlaive   ModifierKind = "moon_glaive"
	ModDoubleDamage ModifierKind = "double_damage"
)

// ModifierKinds lists every variant, for exhaustiveness checks.
var ModifierKinds = []ModifierKind{
	ModStunned, ModSilenced, ModDisarmed, ModRooted, ModInvisible,
	ModArmor, ModAttack, ModMovePoints, ModMaxHealth, ModRegen, ModPoison,
	ModFlameShield, ModLifesteal, ModCleave, ModBash, ModMoonGlaive,
	ModDoubleDamage,
}

// Modifier is one status effect variant with its magnitude. Amount means
// bonus points for stat modifiers, per-tick health for regen and poison,
// per-tick damage for flame shield and a percentage for lifesteal and
// cleave. Status flags ignore it.
type Modifier struct {
	Kind   ModifierKind `json:"kind" yaml:"kind"`
	Amount int          `json:"amount,omitempty" yaml:"amount"`
}

// Debuff reports whether a purge on an allied unit removes the modifier.
func (m Modifier) Debuff() bool {
	switch m.Kind {
	case ModStunned, ModSilenced, ModDisarmed, ModRooted, ModPoison:
		return true
	case ModArmor, ModAttack, ModMovePoints, ModMaxHealth:
		return m.Amount < 0
	default:
		return false
	}
}

// SourceKind describes where an applied modifier came from.
type SourceKind string

const (
	SourceNone          SourceKind = "none"
	SourceItem          SourceKind = "item"
	SourceAbility       SourceKind = "ability"
	SourceAdventureItem SourceKind = "adventure_item"
)

// Source records who should be credited for a modifier's secondary effects,
// such as a kill by a poison tick. Unit is zero when no unit is credited.
type Source struct {
	Kind    SourceKind `json:"kind"`
	Unit    int        `json:"unit,omitempty"`
	Ability ID         `json:"ability,omitempty"`
	Item    ItemID     `json:"item,omitempty"`
}

// NoSource is the source of modifiers granted by the battleground or runes.
var NoSource = Source{Kind: SourceNone}
