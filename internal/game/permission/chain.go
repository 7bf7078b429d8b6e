// Package permission authorizes intents against a battle before any delta is
// generated. Each stage takes the capability returned by the previous stage
// and returns a narrower one, or a failure from the stage's own enum. No
// stage has side effects.
//
// Canonical chain for a unit action:
//
//	Battle -> Unit -> Own -> Act -> Ability -> UnitTarget | GroundTarget | NoTarget
package permission

import (
	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/grid"
)

// PlayerPermission: the battle is in progress and it is the player's turn.
type PlayerPermission struct {
	b      *battle.Battle
	player *battle.Player
}

func (p PlayerPermission) Battle() *battle.Battle { return p.b }

// Player returns the acting player; nil for autonomous monsters.
func (p PlayerPermission) Player() *battle.Player { return p.player }

// UnitPermission: the unit exists, is alive and is visible to the player.
type UnitPermission struct {
	PlayerPermission
	unit *battle.Unit
}

func (p UnitPermission) Unit() *battle.Unit { return p.unit }

// OwnedUnitPermission: the player controls the unit.
type OwnedUnitPermission struct {
	UnitPermission
}

// ActingUnitPermission: the unit may still act this turn.
type ActingUnitPermission struct {
	OwnedUnitPermission
}

// AbilityPermission: the unit may cast the ability with the requested
// targeting kind.
type AbilityPermission struct {
	ActingUnitPermission
	def      ability.Def
	instance *ability.Instance
}

func (p AbilityPermission) Def() ability.Def { return p.def }

// Battle authorizes player to act in b.
func Battle(b *battle.Battle, player battle.PlayerID) (PlayerPermission, error) {
	if !b.Status.InProgress() {
		return PlayerPermission{}, BattleNotInProgress
	}
	p, ok := b.Player(player)
	if !ok {
		return PlayerPermission{}, BattleUnknownPlayer
	}
	if b.Turn != player {
		return PlayerPermission{}, BattleNotYourTurn
	}
	return PlayerPermission{b: b, player: p}, nil
}

// Unit selects a living unit visible to the player.
func Unit(pp PlayerPermission, id battle.UnitID) (UnitPermission, error) {
	u, ok := pp.b.Unit(id)
	if !ok {
		return UnitPermission{}, UnitNotFound
	}
	if u.Dead {
		return UnitPermission{}, UnitDead
	}
	if u.Invisible() && (pp.player == nil || u.Owner != pp.player.ID) {
		return UnitPermission{}, UnitInvisible
	}
	return UnitPermission{PlayerPermission: pp, unit: u}, nil
}

// Own requires the player to control the unit.
func Own(up UnitPermission) (OwnedUnitPermission, error) {
	if up.player == nil {
		return OwnedUnitPermission{}, OwnershipOther
	}
	if up.unit.Owner != up.player.ID {
		return OwnedUnitPermission{}, NotOwned
	}
	return OwnedUnitPermission{UnitPermission: up}, nil
}

// Autonomous authorizes a neutral monster to act on its own, independent of
// whose turn it is.
func Autonomous(b *battle.Battle, id battle.UnitID) (OwnedUnitPermission, error) {
	if !b.Status.InProgress() {
		return OwnedUnitPermission{}, BattleNotInProgress
	}
	u, ok := b.Unit(id)
	if !ok {
		return OwnedUnitPermission{}, UnitNotFound
	}
	if u.Dead {
		return OwnedUnitPermission{}, UnitDead
	}
	if u.Owned() || u.Supertype != battle.Monster {
		return OwnedUnitPermission{}, NotOwned
	}
	return OwnedUnitPermission{UnitPermission{PlayerPermission{b: b}, u}}, nil
}

// Act requires that the unit has not acted this turn and is not stunned.
func Act(op OwnedUnitPermission) (ActingUnitPermission, error) {
	if op.unit.HasActed {
		return ActingUnitPermission{}, AlreadyActed
	}
	if op.unit.Stunned() {
		return ActingUnitPermission{}, Stunned
	}
	return ActingUnitPermission{OwnedUnitPermission: op}, nil
}

// Ability authorizes casting id with the given targeting kind. The basic
// attack is a unit-target ability every unit knows.
func Ability(ap ActingUnitPermission, id ability.ID, kind ability.Kind) (AbilityPermission, error) {
	def, ok := ability.Lookup(id)
	if !ok || def.Spell {
		return AbilityPermission{}, AbilityUnknown
	}
	inst, ok := ap.unit.Ability(id)
	if !ok {
		return AbilityPermission{}, AbilityUnknown
	}
	if def.Kind == ability.KindPassive {
		return AbilityPermission{}, AbilityPassive
	}
	if def.Kind != kind {
		return AbilityPermission{}, AbilityWrongKind
	}
	if !inst.HasCharges() {
		return AbilityPermission{}, AbilityNoCharges
	}
	if id == ability.BasicAttack {
		if ap.unit.Disarmed() {
			return AbilityPermission{}, AbilityDisarmed
		}
	} else if ap.unit.Silenced() {
		return AbilityPermission{}, AbilitySilenced
	}
	if ap.unit.Mana < def.ManaCost {
		return AbilityPermission{}, AbilityNotEnoughMana
	}
	if id == ability.BasicAttack {
		def.Range = grid.Diamond(ap.unit.AttackRange)
	}
	return AbilityPermission{ActingUnitPermission: ap, def: def, instance: inst}, nil
}

// MovePermission carries a validated path.
type MovePermission struct {
	ActingUnitPermission
	path []grid.Position
	cost int
}

func (p MovePermission) Path() []grid.Position { return p.path }
func (p MovePermission) Cost() int             { return p.cost }

// Move authorizes walking the unit to `to` within its move points.
func Move(ap ActingUnitPermission, to grid.Position) (MovePermission, error) {
	u := ap.unit
	if u.Stationary {
		return MovePermission{}, MoveStationary
	}
	if u.Rooted() {
		return MovePermission{}, MoveRooted
	}
	if to == u.Position {
		return MovePermission{}, MoveOther
	}
	b := ap.b
	if !b.Free(to) {
		return MovePermission{}, MoveUnreachable
	}
	costs, ok := grid.CostsTo(b.Grid, b.Blocker(), u.Position, to, grid.TargetMustBeFree)
	if !ok {
		return MovePermission{}, MoveUnreachable
	}
	cost, _ := costs.Cost(to)
	if cost > u.MovePoints {
		return MovePermission{}, MoveNotEnoughMovePoints
	}
	return MovePermission{ActingUnitPermission: ap, path: grid.ReconstructPath(costs, u.Position, to), cost: cost}, nil
}

// RunePermission carries the path onto a rune.
type RunePermission struct {
	ActingUnitPermission
	rune *battle.Rune
	path []grid.Position
	cost int
}

func (p RunePermission) Rune() *battle.Rune    { return p.rune }
func (p RunePermission) Path() []grid.Position { return p.path }
func (p RunePermission) Cost() int             { return p.cost }

// Rune authorizes walking onto a rune to pick it up. The rune's own cell is
// allowed as the end of the path.
func Rune(ap ActingUnitPermission, id battle.RuneID) (RunePermission, error) {
	u := ap.unit
	if u.Rooted() || u.Stationary {
		return RunePermission{}, RuneRooted
	}
	r, ok := ap.b.Rune(id)
	if !ok {
		return RunePermission{}, RuneNotFound
	}
	costs, ok := grid.CostsTo(ap.b.Grid, ap.b.Blocker(), u.Position, r.Position, grid.TargetMayBeOccupied)
	if !ok {
		return RunePermission{}, RuneUnreachable
	}
	cost, _ := costs.Cost(r.Position)
	if cost > u.MovePoints {
		return RunePermission{}, RuneNotEnoughMovePoints
	}
	return RunePermission{ActingUnitPermission: ap, rune: r, path: grid.ReconstructPath(costs, u.Position, r.Position), cost: cost}, nil
}

// PurchasePermission carries a validated purchase.
type PurchasePermission struct {
	OwnedUnitPermission
	shop *battle.Shop
	item ability.Item
}

func (p PurchasePermission) Shop() *battle.Shop { return p.shop }
func (p PurchasePermission) Item() ability.Item { return p.item }

// Purchase authorizes a hero standing next to a shop to buy an item.
// Buying does not spend the unit's action.
func Purchase(op OwnedUnitPermission, shopID battle.ShopID, itemID ability.ItemID) (PurchasePermission, error) {
	u := op.unit
	if u.Supertype != battle.Hero {
		return PurchasePermission{}, PurchaseNotAHero
	}
	shop, ok := op.b.Shop(shopID)
	if !ok {
		return PurchasePermission{}, PurchaseShopNotFound
	}
	if grid.Manhattan(u.Position, shop.Position) > 1 {
		return PurchasePermission{}, PurchaseNotAdjacent
	}
	item, ok := ability.LookupItem(itemID)
	if !ok || !sells(shop, itemID) {
		return PurchasePermission{}, PurchaseItemUnavailable
	}
	if op.player.Gold < item.Cost {
		return PurchasePermission{}, PurchaseNotEnoughGold
	}
	if len(u.Items) >= ability.MaxItems {
		return PurchasePermission{}, PurchaseInventoryFull
	}
	return PurchasePermission{OwnedUnitPermission: op, shop: shop, item: item}, nil
}

func sells(s *battle.Shop, id ability.ItemID) bool {
	for _, it := range s.Items {
		if it == id {
			return true
		}
	}
	return false
}
