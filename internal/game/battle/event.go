package battle

import "github.com/cory-johannsen/tactics/internal/game/ability"

// Credit names who caused a change: the acting unit when there is one, and
// the player to reward for kills.
type Credit struct {
	Unit   UnitID   `json:"unit,omitempty"`
	Player PlayerID `json:"player"`
}

// NoCredit is used for changes nobody caused.
var NoCredit = Credit{Player: Neutral}

// Event is raised while collapsing a delta and handed to the Reactor once
// the delta is applied. Events never reach the log.
type Event interface {
	isEvent()
}

// HealthChanged is raised for every change of a unit's health. Amount is
// negative for damage and is the health actually lost or gained.
type HealthChanged struct {
	Unit   UnitID
	Amount int
	Credit Credit
	// Attack is set when the change is the primary hit of a basic attack.
	Attack bool
}

// UnitDied is raised when a unit's health reaches zero.
type UnitDied struct {
	Unit   UnitID
	Credit Credit
}

// UnitActed is raised when a unit spends its action.
type UnitActed struct {
	Unit    UnitID
	Ability ability.ID
}

func (HealthChanged) isEvent() {}
func (UnitDied) isEvent()      {}
func (UnitActed) isEvent()     {}
