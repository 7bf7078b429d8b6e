package permission

// Each stage of the chain reports failures from its own closed enum. The
// enums are comparable error values, so callers match them with errors.Is.

// BattleFailure is returned by Battle.
type BattleFailure int

const (
	BattleNotInProgress BattleFailure = iota + 1
	BattleNotYourTurn
	BattleUnknownPlayer
	BattleOther
)

func (f BattleFailure) Error() string {
	switch f {
	case BattleNotInProgress:
		return "battle is not in progress"
	case BattleNotYourTurn:
		return "it is not your turn"
	case BattleUnknownPlayer:
		return "unknown player"
	default:
		return "battle action not allowed"
	}
}

// UnitFailure is returned by Unit.
type UnitFailure int

const (
	UnitNotFound UnitFailure = iota + 1
	UnitDead
	UnitInvisible
	UnitOther
)

func (f UnitFailure) Error() string {
	switch f {
	case UnitNotFound:
		return "unit not found"
	case UnitDead:
		return "unit is dead"
	case UnitInvisible:
		return "unit is invisible"
	default:
		return "unit not available"
	}
}

// OwnershipFailure is returned by Own and Autonomous.
type OwnershipFailure int

const (
	NotOwned OwnershipFailure = iota + 1
	OwnershipOther
)

func (f OwnershipFailure) Error() string {
	if f == NotOwned {
		return "unit is not yours"
	}
	return "unit cannot be controlled"
}

// ActFailure is returned by Act.
type ActFailure int

const (
	AlreadyActed ActFailure = iota + 1
	Stunned
	ActOther
)

func (f ActFailure) Error() string {
	switch f {
	case AlreadyActed:
		return "unit already acted this turn"
	case Stunned:
		return "unit is stunned"
	default:
		return "unit cannot act"
	}
}

// AbilityFailure is returned by Ability.
type AbilityFailure int

const (
	AbilityUnknown AbilityFailure = iota + 1
	AbilityPassive
	AbilityNoCharges
	AbilityNotEnoughMana
	AbilitySilenced
	AbilityDisarmed
	AbilityWrongKind
	AbilityOther
)

func (f AbilityFailure) Error() string {
	switch f {
	case AbilityUnknown:
		return "unit does not know that ability"
	case AbilityPassive:
		return "ability is passive"
	case AbilityNoCharges:
		return "ability has no charges left"
	case AbilityNotEnoughMana:
		return "not enough mana"
	case AbilitySilenced:
		return "unit is silenced"
	case AbilityDisarmed:
		return "unit is disarmed"
	case AbilityWrongKind:
		return "ability cannot be cast that way"
	default:
		return "ability cannot be cast"
	}
}

// TargetFailure is returned by the targeting stage for abilities and spells.
type TargetFailure int

const (
	TargetNotFound TargetFailure = iota + 1
	TargetDead
	TargetInvisible
	TargetOutOfRange
	TargetNotEnemy
	TargetNotAlly
	TargetSelf
	TargetCellBlocked
	TargetCellDisabled
	TargetNotInLine
	TargetOther
)

func (f TargetFailure) Error() string {
	switch f {
	case TargetNotFound:
		return "target not found"
	case TargetDead:
		return "target is dead"
	case TargetInvisible:
		return "target is invisible"
	case TargetOutOfRange:
		return "target is out of range"
	case TargetNotEnemy:
		return "target is not an enemy"
	case TargetNotAlly:
		return "target is not an ally"
	case TargetSelf:
		return "cannot target self"
	case TargetCellBlocked:
		return "target cell is occupied"
	case TargetCellDisabled:
		return "target cell is not usable"
	case TargetNotInLine:
		return "target is not in a straight line"
	default:
		return "invalid target"
	}
}

// MoveFailure is returned by Move.
type MoveFailure int

const (
	MoveRooted MoveFailure = iota + 1
	MoveUnreachable
	MoveNotEnoughMovePoints
	MoveStationary
	MoveOther
)

func (f MoveFailure) Error() string {
	switch f {
	case MoveRooted:
		return "unit is rooted"
	case MoveUnreachable:
		return "destination is unreachable"
	case MoveNotEnoughMovePoints:
		return "not enough move points"
	case MoveStationary:
		return "unit cannot move"
	default:
		return "move not allowed"
	}
}

// CardFailure is returned by Card.
type CardFailure int

const (
	CardNotInHand CardFailure = iota + 1
	CardOther
)

func (f CardFailure) Error() string {
	if f == CardNotInHand {
		return "card is not in your hand"
	}
	return "card cannot be played"
}

// DeployFailure is returned by Deploy.
type DeployFailure int

const (
	DeployOutsideZone DeployFailure = iota + 1
	DeployCellOccupied
	DeployCellDisabled
	DeployNotAUnitCard
	DeployOther
)

func (f DeployFailure) Error() string {
	switch f {
	case DeployOutsideZone:
		return "cell is outside your deployment zone"
	case DeployCellOccupied:
		return "cell is occupied"
	case DeployCellDisabled:
		return "cell is not usable"
	case DeployNotAUnitCard:
		return "card does not deploy a unit"
	default:
		return "deployment not allowed"
	}
}

// PurchaseFailure is returned by Purchase.
type PurchaseFailure int

const (
	PurchaseShopNotFound PurchaseFailure = iota + 1
	PurchaseNotAdjacent
	PurchaseItemUnavailable
	PurchaseNotEnoughGold
	PurchaseInventoryFull
	PurchaseNotAHero
	PurchaseOther
)

func (f PurchaseFailure) Error() string {
	switch f {
	case PurchaseShopNotFound:
		return "shop not found"
	case PurchaseNotAdjacent:
		return "unit is not next to the shop"
	case PurchaseItemUnavailable:
		return "shop does not sell that item"
	case PurchaseNotEnoughGold:
		return "not enough gold"
	case PurchaseInventoryFull:
		return "inventory is full"
	case PurchaseNotAHero:
		return "only heroes can carry items"
	default:
		return "purchase not allowed"
	}
}

// RuneFailure is returned by Rune.
type RuneFailure int

const (
	RuneNotFound RuneFailure = iota + 1
	RuneUnreachable
	RuneNotEnoughMovePoints
	RuneRooted
	RuneOther
)

func (f RuneFailure) Error() string {
	switch f {
	case RuneNotFound:
		return "rune not found"
	case RuneUnreachable:
		return "rune is unreachable"
	case RuneNotEnoughMovePoints:
		return "not enough move points to reach the rune"
	case RuneRooted:
		return "unit is rooted"
	default:
		return "rune cannot be picked up"
	}
}
