package turn

import (
	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/grid"
)

// ActionKind discriminates the members of the Action union.
type ActionKind string

const (
	KindMove             ActionKind = "move"
	KindCastNoTarget     ActionKind = "cast_no_target"
	KindCastUnitTarget   ActionKind = "cast_unit_target"
	KindCastGroundTarget ActionKind = "cast_ground_target"
	KindPlayCard         ActionKind = "play_card"
	KindPurchaseItem     ActionKind = "purchase_item"
	KindPickUpRune       ActionKind = "pick_up_rune"
	KindEndTurn          ActionKind = "end_turn"
)

// Action is one intent submitted by a player. The set of implementations is
// closed; Dispatch handles every one of them.
type Action interface {
	Kind() ActionKind
	// Actor is the player submitting the action.
	Actor() battle.PlayerID
	action()
}

// Move walks a unit to a free cell.
type Move struct {
	Player battle.PlayerID `json:"player"`
	Unit   battle.UnitID   `json:"unit"`
	To     grid.Position   `json:"to"`
}

// CastNoTarget casts an ability centred on the caster.
type CastNoTarget struct {
	Player  battle.PlayerID `json:"player"`
	Unit    battle.UnitID   `json:"unit"`
	Ability ability.ID      `json:"ability"`
}

// CastUnitTarget casts an ability, including the basic attack, at a unit.
type CastUnitTarget struct {
	Player  battle.PlayerID `json:"player"`
	Unit    battle.UnitID   `json:"unit"`
	Ability ability.ID      `json:"ability"`
	Target  battle.UnitID   `json:"target"`
}

// CastGroundTarget casts an ability at a cell.
type CastGroundTarget struct {
	Player  battle.PlayerID `json:"player"`
	Unit    battle.UnitID   `json:"unit"`
	Ability ability.ID      `json:"ability"`
	At      grid.Position   `json:"at"`
}

// PlayCard plays a card from the hand. Unit cards deploy at At; unit-target
// spells use Target and ground spells use At.
type PlayCard struct {
	Player battle.PlayerID `json:"player"`
	Card   battle.CardID   `json:"card"`
	At     grid.Position   `json:"at"`
	Target battle.UnitID   `json:"target,omitempty"`
}

// PurchaseItem buys an item from an adjacent shop.
type PurchaseItem struct {
	Player battle.PlayerID `json:"player"`
	Unit   battle.UnitID   `json:"unit"`
	Shop   battle.ShopID   `json:"shop"`
	Item   ability.ItemID  `json:"item"`
}

// PickUpRune walks a unit onto a rune.
type PickUpRune struct {
	Player battle.PlayerID `json:"player"`
	Unit   battle.UnitID   `json:"unit"`
	Rune   battle.RuneID   `json:"rune"`
}

// EndTurn passes the turn to the next player.
type EndTurn struct {
	Player battle.PlayerID `json:"player"`
}

func (Move) Kind() ActionKind             { return KindMove }
func (CastNoTarget) Kind() ActionKind     { return KindCastNoTarget }
func (CastUnitTarget) Kind() ActionKind   { return KindCastUnitTarget }
func (CastGroundTarget) Kind() ActionKind { return KindCastGroundTarget }
func (PlayCard) Kind() ActionKind         { return KindPlayCard }
func (PurchaseItem) Kind() ActionKind     { return KindPurchaseItem }
func (PickUpRune) Kind() ActionKind       { return KindPickUpRune }
func (EndTurn) Kind() ActionKind          { return KindEndTurn }

func (a Move) Actor() battle.PlayerID             { return a.Player }
func (a CastNoTarget) Actor() battle.PlayerID     { return a.Player }
func (a CastUnitTarget) Actor() battle.PlayerID   { return a.Player }
func (a CastGroundTarget) Actor() battle.PlayerID { return a.Player }
func (a PlayCard) Actor() battle.PlayerID         { return a.Player }
func (a PurchaseItem) Actor() battle.PlayerID     { return a.Player }
func (a PickUpRune) Actor() battle.PlayerID       { return a.Player }
func (a EndTurn) Actor() battle.PlayerID          { return a.Player }

func (Move) action()             {}
func (CastNoTarget) action()     {}
func (CastUnitTarget) action()   {}
func (CastGroundTarget) action() {}
func (PlayCard) action()         {}
func (PurchaseItem) action()     {}
func (PickUpRune) action()       {}
func (EndTurn) action()          {}
