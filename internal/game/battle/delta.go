package battle

import (
	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/grid"
)

// DeltaKind is the wire discriminator of a delta.
type DeltaKind string

// Delta is one immutable state transition. Every value a collapse needs,
// including the outcome of random draws, is stored in the delta itself.
//
// The set of deltas is closed: only this package implements Delta.
type Delta interface {
	Kind() DeltaKind
	sealed()
}

// Building blocks shared by several deltas.

// Hit is damage dealt to one unit after armor.
type Hit struct {
	Target  UnitID `json:"target"`
	Damage  int    `json:"damage"`
	Blocked int    `json:"blocked,omitempty"`
}

// Heal restores health to one unit.
type Heal struct {
	Target UnitID `json:"target"`
	Amount int    `json:"amount"`
}

// Grant attaches a modifier to a unit.
type Grant struct {
	Target   UnitID          `json:"target"`
	Modifier AppliedModifier `json:"modifier"`
}

// Removal detaches a modifier from a unit.
type Removal struct {
	Target   UnitID     `json:"target"`
	Modifier ModifierID `json:"modifier"`
}

// Push relocates a unit without spending move points.
type Push struct {
	Unit UnitID        `json:"unit"`
	To   grid.Position `json:"to"`
}

// Outcome is the generic effect of a cast, collapsed in field order.
type Outcome struct {
	Pushes   []Push    `json:"pushes,omitempty"`
	Hits     []Hit     `json:"hits,omitempty"`
	Heals    []Heal    `json:"heals,omitempty"`
	Grants   []Grant   `json:"grants,omitempty"`
	Removals []Removal `json:"removals,omitempty"`
}

// Cast identifies a unit casting an ability. Collapsing a cast spends the
// ability's mana and charge and marks the caster as having acted.
type Cast struct {
	Caster  UnitID        `json:"caster"`
	Ability ability.ID    `json:"ability"`
	Target  grid.Position `json:"target"`
}

// SpellCast identifies a player casting a spell card. Collapsing it removes
// the card from the hand.
type SpellCast struct {
	Player PlayerID      `json:"player"`
	Card   CardID        `json:"card"`
	Spell  ability.ID    `json:"spell"`
	Target grid.Position `json:"target"`
}

// Spawn places a new unit on the grid.
type Spawn struct {
	Unit      UnitID            `json:"unit"`
	Owner     PlayerID          `json:"owner"`
	Position  grid.Position     `json:"position"`
	Stats     UnitStats         `json:"stats"`
	Modifiers []AppliedModifier `json:"modifiers,omitempty"`
}

// Setup and spawns.

type GoldChanged struct {
	Player PlayerID `json:"player"`
	Amount int      `json:"amount"`
	Reason string   `json:"reason,omitempty"`
}

type CardsDealt struct {
	Player PlayerID `json:"player"`
	Cards  []Card   `json:"cards"`
}

// HeroSpawned deploys a hero. Card is zero for static spawns.
type HeroSpawned struct {
	Spawn
	Card CardID `json:"card,omitempty"`
}

// CreepSpawned deploys a creep or tower. Card is zero for static spawns.
type CreepSpawned struct {
	Spawn
	Card CardID `json:"card,omitempty"`
}

type MonsterSpawned struct {
	Spawn
}

type TreeSpawned struct {
	Position grid.Position `json:"position"`
}

type RuneSpawned struct {
	Rune     RuneID           `json:"rune"`
	Type     ability.RuneKind `json:"rune_kind"`
	Position grid.Position    `json:"position"`
}

type ShopSpawned struct {
	Shop     ShopID           `json:"shop"`
	Position grid.Position    `json:"position"`
	Items    []ability.ItemID `json:"items"`
}

// Movement and attacks.

// UnitMoved walks a unit along Path, spending Cost move points.
type UnitMoved struct {
	Unit UnitID          `json:"unit"`
	Path []grid.Position `json:"path"`
	Cost int             `json:"cost"`
}

// UnitAttacked is a basic attack.
type UnitAttacked struct {
	Cast
	Hit Hit `json:"hit"`
}

// Ground-target casts.

type FissureCast struct {
	Cast
	Outcome
	Effect   EffectID        `json:"effect"`
	Cells    []grid.Position `json:"cells"`
	Duration int             `json:"duration"`
}

type VacuumCast struct {
	Cast
	Outcome
}

type ForceWaveCast struct {
	Cast
	Outcome
}

type MysticFlareCast struct {
	Cast
	Outcome
	Remainder int `json:"remainder"`
}

type FireStormCast struct {
	Cast
	Effect   EffectID        `json:"effect"`
	Cells    []grid.Position `json:"cells"`
	Damage   int             `json:"damage"`
	Duration int             `json:"duration"`
}

type LightStrikeArrayCast struct {
	Cast
	Effect   EffectID        `json:"effect"`
	Cells    []grid.Position `json:"cells"`
	Damage   int             `json:"damage"`
	Duration int             `json:"duration"`
}

type BlinkCast struct {
	Cast
	From grid.Position `json:"from"`
}

type PlagueWardCast struct {
	Cast
	Ward Spawn `json:"ward"`
}

// StrayBoltCast lands on Outcome's single hit, or on nothing.
type StrayBoltCast struct {
	Cast
	Outcome
}

// Unit-target casts.

type LagunaBladeCast struct {
	Cast
	Outcome
}

type StormBoltCast struct {
	Cast
	Outcome
}

type FlameShieldCast struct {
	Cast
	Outcome
}

type HealCast struct {
	Cast
	Outcome
}

type SilenceCast struct {
	Cast
	Outcome
}

type DisarmCast struct {
	Cast
	Outcome
}

type PurgeCast struct {
	Cast
	Outcome
}

type ArcLightningCast struct {
	Cast
	Outcome
	Remainder int `json:"remainder"`
}

// No-target casts.

type ThunderClapCast struct {
	Cast
	Outcome
}

type ShadowCloakCast struct {
	Cast
	Outcome
}

type RejuvenateCast struct {
	Cast
	Outcome
}

type EchoStompCast struct {
	Cast
	Outcome
}

// Spell cards.

type MeteorCast struct {
	SpellCast
	Outcome
}

type HealWaveCast struct {
	SpellCast
	Outcome
}

// HasteCast also adds Bonus move points to Unit immediately.
type HasteCast struct {
	SpellCast
	Outcome
	Unit  UnitID `json:"unit"`
	Bonus int    `json:"bonus"`
}

// On-hit reactions.

type LifestealApplied struct {
	Unit UnitID `json:"unit"`
	Heal Heal   `json:"heal"`
}

type CleaveApplied struct {
	Attacker UnitID `json:"attacker"`
	Outcome
}

type BashApplied struct {
	Attacker UnitID `json:"attacker"`
	Outcome
}

type GlaiveBounced struct {
	Attacker UnitID `json:"attacker"`
	Outcome
}

type MonsterAggroed struct {
	Monster UnitID `json:"monster"`
	Target  UnitID `json:"target"`
}

// BountyClaimed pays a kill bounty to Player.
type BountyClaimed struct {
	Player PlayerID `json:"player"`
	Victim UnitID   `json:"victim"`
	Gold   int      `json:"gold"`
}

// LevelChanged raises a unit's level by Gained, granting one point of max
// health and health per level.
type LevelChanged struct {
	Unit   UnitID `json:"unit"`
	Gained int    `json:"gained"`
}

// Modifiers.

type ModifierApplied struct {
	Grant
}

type ModifierRemoved struct {
	Removal
	Reason string `json:"reason,omitempty"`
}

// ModifiersTicked decrements the timed modifiers of every unit owned by
// Player, and of every monster.
type ModifiersTicked struct {
	Player PlayerID `json:"player"`
}

// Timed effects and periodic damage.

type TimedEffectTicked struct {
	Effect EffectID `json:"effect"`
	Outcome
}

type TimedEffectExpired struct {
	Effect EffectID `json:"effect"`
	Outcome
}

// RegenTicked heals units with regeneration modifiers.
type RegenTicked struct {
	Player PlayerID `json:"player"`
	Outcome
}

// PoisonTicked damages poisoned units. Credit goes to the poison's source.
type PoisonTicked struct {
	Source Credit `json:"source"`
	Outcome
}

// FlameShieldPulsed damages enemies around a shielded unit.
type FlameShieldPulsed struct {
	Unit   UnitID `json:"unit"`
	Source Credit `json:"source"`
	Outcome
}

// WardAttacked is an automatic attack of a stationary unit.
type WardAttacked struct {
	Ward UnitID `json:"ward"`
	Outcome
}

// Economy.

type ItemPurchased struct {
	Unit   UnitID         `json:"unit"`
	Player PlayerID       `json:"player"`
	Shop   ShopID         `json:"shop"`
	Item   ability.ItemID `json:"item"`
	Cost   int            `json:"cost"`
	Grants []Grant        `json:"grants"`
}

// RunePickedUp walks a unit onto a rune and consumes it.
type RunePickedUp struct {
	Unit  UnitID          `json:"unit"`
	Rune  RuneID          `json:"rune"`
	Path  []grid.Position `json:"path"`
	Cost  int             `json:"cost"`
	Grant *Grant          `json:"grant,omitempty"`
	Gold  int             `json:"gold,omitempty"`
}

// Turn flow.

// TurnEnded passes the turn to Next, restoring the action, move points and
// one mana of Next's units and of every monster.
type TurnEnded struct {
	Player PlayerID `json:"player"`
	Next   PlayerID `json:"next"`
}

// Survivor reports a living owned unit at the end of the battle.
type Survivor struct {
	Unit      UnitID   `json:"unit"`
	Template  string   `json:"template"`
	Owner     PlayerID `json:"owner"`
	Health    int      `json:"health"`
	MaxHealth int      `json:"max_health"`
}

// GameOver finishes the battle. A nil Winner is a draw.
type GameOver struct {
	Winner    *PlayerID  `json:"winner"`
	Survivors []Survivor `json:"survivors"`
}

const (
	KindGoldChanged          DeltaKind = "gold_changed"
	KindCardsDealt           DeltaKind = "cards_dealt"
	KindHeroSpawned          DeltaKind = "hero_spawned"
	KindCreepSpawned         DeltaKind = "creep_spawned"
	KindMonsterSpawned       DeltaKind = "monster_spawned"
	KindTreeSpawned          DeltaKind = "tree_spawned"
	KindRuneSpawned          DeltaKind = "rune_spawned"
	KindShopSpawned          DeltaKind = "shop_spawned"
	KindUnitMoved            DeltaKind = "unit_moved"
	KindUnitAttacked         DeltaKind = "unit_attacked"
	KindFissureCast          DeltaKind = "fissure_cast"
	KindVacuumCast           DeltaKind = "vacuum_cast"
	KindForceWaveCast        DeltaKind = "force_wave_cast"
	KindMysticFlareCast      DeltaKind = "mystic_flare_cast"
	KindFireStormCast        DeltaKind = "fire_storm_cast"
	KindLightStrikeArrayCast DeltaKind = "light_strike_array_cast"
	KindBlinkCast            DeltaKind = "blink_cast"
	KindPlagueWardCast       DeltaKind = "plague_ward_cast"
	KindStrayBoltCast        DeltaKind = "stray_bolt_cast"
	KindLagunaBladeCast      DeltaKind = "laguna_blade_cast"
	KindStormBoltCast        DeltaKind = "storm_bolt_cast"
	KindFlameShieldCast      DeltaKind = "flame_shield_cast"
	KindHealCast             DeltaKind = "heal_cast"
	KindSilenceCast          DeltaKind = "silence_cast"
	KindDisarmCast           DeltaKind = "disarm_cast"
	KindPurgeCast            DeltaKind = "purge_cast"
	KindArcLightningCast     DeltaKind = "arc_lightning_cast"
	KindThunderClapCast      DeltaKind = "thunder_clap_cast"
	KindShadowCloakCast      DeltaKind = "shadow_cloak_cast"
	KindRejuvenateCast       DeltaKind = "rejuvenate_cast"
	KindEchoStompCast        DeltaKind = "echo_stomp_cast"
	KindMeteorCast           DeltaKind = "meteor_cast"
	KindHealWaveCast         DeltaKind = "heal_wave_cast"
	KindHasteCast            DeltaKind = "haste_cast"
	KindLifestealApplied     DeltaKind = "lifesteal_applied"
	KindCleaveApplied        DeltaKind = "cleave_applied"
	KindBashApplied          DeltaKind = "bash_applied"
	KindGlaiveBounced        DeltaKind = "glaive_bounced"
	KindMonsterAggroed       DeltaKind = "monster_aggroed"
	KindBountyClaimed        DeltaKind = "bounty_claimed"
	KindLevelChanged         DeltaKind = "level_changed"
	KindModifierApplied      DeltaKind = "modifier_applied"
	KindModifierRemoved      DeltaKind = "modifier_removed"
	KindModifiersTicked      DeltaKind = "modifiers_ticked"
	KindTimedEffectTicked    DeltaKind = "timed_effect_ticked"
	KindTimedEffectExpired   DeltaKind = "timed_effect_expired"
	KindRegenTicked          DeltaKind = "regen_ticked"
	KindPoisonTicked         DeltaKind = "poison_ticked"
	KindFlameShieldPulsed    DeltaKind = "flame_shield_pulsed"
	KindWardAttacked         DeltaKind = "ward_attacked"
	KindItemPurchased        DeltaKind = "item_purchased"
	KindRunePickedUp         DeltaKind = "rune_picked_up"
	KindTurnEnded            DeltaKind = "turn_ended"
	KindGameOver             DeltaKind = "game_over"
)

func (GoldChanged) Kind() DeltaKind          { return KindGoldChanged }
func (CardsDealt) Kind() DeltaKind           { return KindCardsDealt }
func (HeroSpawned) Kind() DeltaKind          { return KindHeroSpawned }
func (CreepSpawned) Kind() DeltaKind         { return KindCreepSpawned }
func (MonsterSpawned) Kind() DeltaKind       { return KindMonsterSpawned }
func (TreeSpawned) Kind() DeltaKind          { return KindTreeSpawned }
func (RuneSpawned) Kind() DeltaKind          { return KindRuneSpawned }
func (ShopSpawned) Kind() DeltaKind          { return KindShopSpawned }
func (UnitMoved) Kind() DeltaKind            { return KindUnitMoved }
func (UnitAttacked) Kind() DeltaKind         { return KindUnitAttacked }
func (FissureCast) Kind() DeltaKind          { return KindFissureCast }
func (VacuumCast) Kind() DeltaKind           { return KindVacuumCast }
func (ForceWaveCast) Kind() DeltaKind        { return KindForceWaveCast }
func (MysticFlareCast) Kind() DeltaKind      { return KindMysticFlareCast }
func (FireStormCast) Kind() DeltaKind        { return KindFireStormCast }
func (LightStrikeArrayCast) Kind() DeltaKind { return KindLightStrikeArrayCast }
func (BlinkCast) Kind() DeltaKind            { return KindBlinkCast }
func (PlagueWardCast) Kind() DeltaKind       { return KindPlagueWardCast }
func (StrayBoltCast) Kind() DeltaKind        { return KindStrayBoltCast }
func (LagunaBladeCast) Kind() DeltaKind      { return KindLagunaBladeCast }
func (StormBoltCast) Kind() DeltaKind        { return KindStormBoltCast }
func (FlameShieldCast) Kind() DeltaKind      { return KindFlameShieldCast }
func (HealCast) Kind() DeltaKind             { return KindHealCast }
func (SilenceCast) Kind() DeltaKind          { return KindSilenceCast }
func (DisarmCast) Kind() DeltaKind           { return KindDisarmCast }
func (PurgeCast) Kind() DeltaKind            { return KindPurgeCast }
func (ArcLightningCast) Kind() DeltaKind     { return KindArcLightningCast }
func (ThunderClapCast) Kind() DeltaKind      { return KindThunderClapCast }
func (ShadowCloakCast) Kind() DeltaKind      { return KindShadowCloakCast }
func (RejuvenateCast) Kind() DeltaKind       { return KindRejuvenateCast }
func (EchoStompCast) Kind() DeltaKind        { return KindEchoStompCast }
func (MeteorCast) Kind() DeltaKind           { return KindMeteorCast }
func (HealWaveCast) Kind() DeltaKind         { return KindHealWaveCast }
func (HasteCast) Kind() DeltaKind            { return KindHasteCast }
func (LifestealApplied) Kind() DeltaKind     { return KindLifestealApplied }
func (CleaveApplied) Kind() DeltaKind        { return KindCleaveApplied }
func (BashApplied) Kind() DeltaKind          { return KindBashApplied }
func (GlaiveBounced) Kind() DeltaKind        { return KindGlaiveBounced }
func (MonsterAggroed) Kind() DeltaKind       { return KindMonsterAggroed }
func (BountyClaimed) Kind() DeltaKind        { return KindBountyClaimed }
func (LevelChanged) Kind() DeltaKind         { return KindLevelChanged }
func (ModifierApplied) Kind() DeltaKind      { return KindModifierApplied }
func (ModifierRemoved) Kind() DeltaKind      { return KindModifierRemoved }
func (ModifiersTicked) Kind() DeltaKind      { return KindModifiersTicked }
func (TimedEffectTicked) Kind() DeltaKind    { return KindTimedEffectTicked }
func (TimedEffectExpired) Kind() DeltaKind   { return KindTimedEffectExpired }
func (RegenTicked) Kind() DeltaKind          { return KindRegenTicked }
func (PoisonTicked) Kind() DeltaKind         { return KindPoisonTicked }
func (FlameShieldPulsed) Kind() DeltaKind    { return KindFlameShieldPulsed }
func (WardAttacked) Kind() DeltaKind         { return KindWardAttacked }
func (ItemPurchased) Kind() DeltaKind        { return KindItemPurchased }
func (RunePickedUp) Kind() DeltaKind         { return KindRunePickedUp }
func (TurnEnded) Kind() DeltaKind            { return KindTurnEnded }
func (GameOver) Kind() DeltaKind             { return KindGameOver }

func (GoldChanged) sealed()          {}
func (CardsDealt) sealed()           {}
func (HeroSpawned) sealed()          {}
func (CreepSpawned) sealed()         {}
func (MonsterSpawned) sealed()       {}
func (TreeSpawned) sealed()          {}
func (RuneSpawned) sealed()          {}
func (ShopSpawned) sealed()          {}
func (UnitMoved) sealed()            {}
func (UnitAttacked) sealed()         {}
func (FissureCast) sealed()          {}
func (VacuumCast) sealed()           {}
func (ForceWaveCast) sealed()        {}
func (MysticFlareCast) sealed()      {}
func (FireStormCast) sealed()        {}
func (LightStrikeArrayCast) sealed() {}
func (BlinkCast) sealed()            {}
func (PlagueWardCast) sealed()       {}
func (StrayBoltCast) sealed()        {}
func (LagunaBladeCast) sealed()      {}
func (StormBoltCast) sealed()        {}
func (FlameShieldCast) sealed()      {}
func (HealCast) sealed()             {}
func (SilenceCast) sealed()          {}
func (DisarmCast) sealed()           {}
func (PurgeCast) sealed()            {}
func (ArcLightningCast) sealed()     {}
func (ThunderClapCast) sealed()      {}
func (ShadowCloakCast) sealed()      {}
func (RejuvenateCast) sealed()       {}
func (EchoStompCast) sealed()        {}
func (MeteorCast) sealed()           {}
func (HealWaveCast) sealed()         {}
func (HasteCast) sealed()            {}
func (LifestealApplied) sealed()     {}
func (CleaveApplied) sealed()        {}
func (BashApplied) sealed()          {}
func (GlaiveBounced) sealed()        {}
func (MonsterAggroed) sealed()       {}
func (BountyClaimed) sealed()        {}
func (LevelChanged) sealed()         {}
func (ModifierApplied) sealed()      {}
func (ModifierRemoved) sealed()      {}
func (ModifiersTicked) sealed()      {}
func (TimedEffectTicked) sealed()    {}
func (TimedEffectExpired) sealed()   {}
func (RegenTicked) sealed()          {}
func (PoisonTicked) sealed()         {}
func (FlameShieldPulsed) sealed()    {}
func (WardAttacked) sealed()         {}
func (ItemPurchased) sealed()        {}
func (RunePickedUp) sealed()         {}
func (TurnEnded) sealed()            {}
func (GameOver) sealed()             {}
