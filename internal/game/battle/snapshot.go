package battle

import "github.com/cory-johannsen/tactics/internal/game/grid"

// State is a deep copy of the observable battle state.
type State struct {
	Players []Player
	Units   []Unit
	Trees   []grid.Position
	Runes   []Rune
	Shops   []Shop
	Effects []TimedEffect
	Turn    PlayerID
	Round   int
	Status  Status
	Head    int
}

// Snapshot copies the current state. Mutating the result never affects the
// battle.
func (b *Battle) Snapshot() State {
	s := State{
		Trees: append([]grid.Position(nil), b.Trees...),
		Turn:  b.Turn,
		Round: b.Round,
		Head:  b.head,
	}
	for _, p := range b.Players {
		c := *p
		c.Hand = append([]Card(nil), p.Hand...)
		s.Players = append(s.Players, c)
	}
	for _, u := range b.Units {
		s.Units = append(s.Units, *u.clone())
	}
	for _, r := range b.Runes {
		s.Runes = append(s.Runes, *r)
	}
	for _, sh := range b.Shops {
		s.Shops = append(s.Shops, *sh)
	}
	for _, e := range b.Effects {
		c := *e
		c.Cells = append([]grid.Position(nil), e.Cells...)
		s.Effects = append(s.Effects, c)
	}
	s.Status = b.Status
	if b.Status.Winner != nil {
		w := *b.Status.Winner
		s.Status.Winner = &w
	}
	return s
}
