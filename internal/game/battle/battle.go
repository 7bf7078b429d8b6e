// Package battle holds the authoritative state of one tactical battle and the
// append-only delta log that is the only way to change it.
//
// Every state change is a Delta. Submit appends deltas and collapses them in
// order; collapsing may raise Events which are handed to the Reactor, which
// may in turn Submit further deltas. Observers synchronise through
// DeltasAfter.
package battle

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/grid"
	"github.com/cory-johannsen/tactics/internal/game/random"
)

// PlayerID is the index of a player in Battle.Players.
type PlayerID int

// Neutral is the owner of monsters.
const Neutral PlayerID = -1

type (
	EffectID int
	RuneID   int
	ShopID   int
	CardID   int
)

// Controller decides who submits a player's actions.
type Controller string

const (
	Human Controller = "human"
	AI    Controller = "ai"
)

// CardKind distinguishes unit cards from spell cards.
type CardKind string

const (
	CardHero  CardKind = "hero"
	CardCreep CardKind = "creep"
	CardSpell CardKind = "spell"
)

// Card is one card in a player's hand.
type Card struct {
	ID    CardID     `json:"id"`
	Kind  CardKind   `json:"kind"`
	Unit  *UnitStats `json:"unit,omitempty"`
	Spell ability.ID `json:"spell,omitempty"`
}

// Player is a participant in the battle.
type Player struct {
	ID         PlayerID
	Name       string
	Controller Controller
	Gold       int
	Hand       []Card
	Deployment grid.Rect
}

// Card returns the card with id from the player's hand.
func (p *Player) Card(id CardID) (Card, bool) {
	for _, c := range p.Hand {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// HoldsHeroCard reports whether the player still has an undeployed hero.
func (p *Player) HoldsHeroCard() bool {
	for _, c := range p.Hand {
		if c.Kind == CardHero {
			return true
		}
	}
	return false
}

// TimedEffect is an area effect on the ground that ticks at the end of each
// of its owner's turns.
type TimedEffect struct {
	ID        EffectID
	Ability   ability.ID
	Source    UnitID
	Owner     PlayerID
	Cells     []grid.Position
	Damage    int
	Remaining int
	// Blocking effects make their cells impassable.
	Blocking bool
}

// Rune is a pickup lying on a cell.
type Rune struct {
	ID       RuneID
	Kind     ability.RuneKind
	Position grid.Position
}

// Shop sells items to adjacent heroes.
type Shop struct {
	ID       ShopID
	Position grid.Position
	Items    []ability.ItemID
}

// Status is in progress until Finished is set. A finished battle without a
// Winner is a draw.
type Status struct {
	Finished bool
	Winner   *PlayerID
}

// InProgress reports whether the battle still accepts actions.
func (s Status) InProgress() bool { return !s.Finished }

// PlayerSetup describes a player before any delta is applied.
type PlayerSetup struct {
	Name       string     `json:"name"`
	Controller Controller `json:"controller"`
	Deployment grid.Rect  `json:"deployment"`
}

// Setup holds the initial parameters of a battle. Opening deltas seed gold,
// hands and static spawns; they are the first entries of the log.
type Setup struct {
	Seed     int64           `json:"seed"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Disabled []grid.Position `json:"disabled,omitempty"`
	Players  []PlayerSetup   `json:"players"`
	Opening  []Delta         `json:"-"`
}

// Reactor receives the events raised while collapsing deltas. It may call
// Submit on the battle it is given.
type Reactor interface {
	React(b *Battle, e Event)
}

// ReactorFunc adapts a function to Reactor.
type ReactorFunc func(b *Battle, e Event)

// React calls f(b, e).
func (f ReactorFunc) React(b *Battle, e Event) { f(b, e) }

// IDGenerator hands out identifiers for units, modifiers, effects, runes,
// shops and cards.
type IDGenerator interface {
	Next() int
}

// SequentialIDs counts up from 1.
type SequentialIDs struct{ last int }

// Next returns the next identifier.
func (s *SequentialIDs) Next() int {
	s.last++
	return s.last
}

// Option configures a Battle.
type Option func(*Battle)

// WithReactor installs the reaction hook.
func WithReactor(r Reactor) Option { return func(b *Battle) { b.reactor = r } }

// WithRandom replaces the seeded generator, typically with a fixed sequence.
func WithRandom(src random.Source) Option { return func(b *Battle) { b.rng = src } }

// WithIDs replaces the sequential id generator.
func WithIDs(ids IDGenerator) Option { return func(b *Battle) { b.ids = ids } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Battle) {
		if l != nil {
			b.logger = l
		}
	}
}

// Battle is one match. Exported state fields are read-only outside this
// package; they change only when a delta is collapsed.
type Battle struct {
	Seed    int64
	Grid    *grid.Grid
	Players []*Player
	Units   []*Unit
	Trees   []grid.Position
	Runes   []*Rune
	Shops   []*Shop
	Effects []*TimedEffect
	// Turn is the index of the player whose turn it is.
	Turn   PlayerID
	Round  int
	Status Status

	deltas   []Delta
	head     int
	events   []Event
	draining bool

	reactor Reactor
	rng     random.Source
	ids     IDGenerator
	logger  *zap.Logger

	occupancy map[grid.Position]Occupant
}

// New constructs a battle from setup and submits its opening deltas.
//
// Precondition: setup has at least one player and a positive grid size.
func New(setup Setup, opts ...Option) *Battle {
	b := newBattle(setup)
	b.rng = random.New(setup.Seed)
	b.ids = &SequentialIDs{}
	for _, opt := range opts {
		opt(b)
	}
	b.Submit(setup.Opening...)
	return b
}

// Replay rebuilds a battle by collapsing log onto a fresh battle built from
// setup. No reactor runs and no randomness is drawn; reaction deltas are
// already part of the log.
func Replay(setup Setup, log []Delta, opts ...Option) *Battle {
	b := newBattle(setup)
	b.rng = replayRandom{}
	b.ids = &SequentialIDs{}
	for _, opt := range opts {
		opt(b)
	}
	b.reactor = nil
	b.Submit(log...)
	return b
}

func newBattle(setup Setup) *Battle {
	if len(setup.Players) == 0 {
		panic("battle: setup without players")
	}
	b := &Battle{
		Seed:   setup.Seed,
		Grid:   grid.New(setup.Width, setup.Height, setup.Disabled...),
		Round:  1,
		logger: zap.NewNop(),
	}
	for i, p := range setup.Players {
		b.Players = append(b.Players, &Player{
			ID:         PlayerID(i),
			Name:       p.Name,
			Controller: p.Controller,
			Deployment: p.Deployment,
		})
	}
	return b
}

type replayRandom struct{}

func (replayRandom) Float64() float64 { panic("battle: randomness drawn during replay") }

// Random returns the battle's random source. Only delta generation may draw
// from it.
func (b *Battle) Random() random.Source { return b.rng }

// NextID draws a fresh identifier for a delta under construction.
func (b *Battle) NextID() int { return b.ids.Next() }

// Logger returns the battle logger.
func (b *Battle) Logger() *zap.Logger { return b.logger }

// Head is the index of the next delta to collapse.
func (b *Battle) Head() int { return b.head }

// Len is the number of deltas in the log.
func (b *Battle) Len() int { return len(b.deltas) }

// DeltasAfter returns a copy of the log suffix starting at head.
//
// Precondition: 0 <= head.
func (b *Battle) DeltasAfter(head int) []Delta {
	if head >= len(b.deltas) {
		return nil
	}
	return append([]Delta(nil), b.deltas[head:]...)
}

// Deltas returns a copy of the whole log.
func (b *Battle) Deltas() []Delta { return b.DeltasAfter(0) }

// Player returns the player with id.
func (b *Battle) Player(id PlayerID) (*Player, bool) {
	if id < 0 || int(id) >= len(b.Players) {
		return nil, false
	}
	return b.Players[id], true
}

// TurningPlayer returns the player whose turn it is.
func (b *Battle) TurningPlayer() *Player { return b.Players[b.Turn] }

// Unit returns the unit with id, dead or alive.
func (b *Battle) Unit(id UnitID) (*Unit, bool) {
	for _, u := range b.Units {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

// LivingUnits returns every unit that has not died, in spawn order.
func (b *Battle) LivingUnits() []*Unit {
	out := make([]*Unit, 0, len(b.Units))
	for _, u := range b.Units {
		if u.Alive() {
			out = append(out, u)
		}
	}
	return out
}

// Rune returns the rune with id.
func (b *Battle) Rune(id RuneID) (*Rune, bool) {
	for _, r := range b.Runes {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Shop returns the shop with id.
func (b *Battle) Shop(id ShopID) (*Shop, bool) {
	for _, s := range b.Shops {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Effect returns the timed effect with id.
func (b *Battle) Effect(id EffectID) (*TimedEffect, bool) {
	for _, e := range b.Effects {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// UnitsCovered returns the living units covered by sel cast from caster at
// target, in spawn order. The same query serves resolution, AI scoring and
// highlighting.
func (b *Battle) UnitsCovered(sel grid.Selector, caster, target grid.Position) []*Unit {
	var out []*Unit
	for _, u := range b.Units {
		if u.Alive() && sel.Covers(caster, target, u.Position) {
			out = append(out, u)
		}
	}
	return out
}

func (b *Battle) mustUnit(id UnitID) *Unit {
	u, ok := b.Unit(id)
	if !ok {
		panic(fmt.Sprintf("battle: delta references unknown unit %d", id))
	}
	return u
}

func (b *Battle) mustPlayer(id PlayerID) *Player {
	p, ok := b.Player(id)
	if !ok {
		panic(fmt.Sprintf("battle: delta references unknown player %d", id))
	}
	return p
}
