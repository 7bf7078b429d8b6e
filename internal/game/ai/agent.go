package ai

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/grid"
	"github.com/cory-johannsen/tactics/internal/game/permission"
	"github.com/cory-johannsen/tactics/internal/game/turn"
)

// ScriptCaller evaluates Lua hooks for the agent.
type ScriptCaller interface {
	// CallHook calls a named Lua function in the given scope's VM.
	// Returns (LNil, nil) if the function is not defined.
	CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error)
}

// Decision is what the agent wants one unit to do this turn.
type Decision struct {
	Unit   battle.UnitID
	Move   bool
	To     grid.Position
	Score  float64
	Target battle.UnitID // zero when nothing is worth attacking from To
}

// Agent plays turns for computer-controlled players.
//
// Invariant: profiles is never nil; caller may be nil (hooks are skipped).
type Agent struct {
	profiles *Registry
	caller   ScriptCaller
	scope    string
	logger   *zap.Logger
}

// NewAgent constructs an Agent. A nil registry uses only DefaultProfile; a
// nil caller disables the engage hook.
func NewAgent(profiles *Registry, caller ScriptCaller, scope string, logger *zap.Logger) *Agent {
	if profiles == nil {
		profiles = NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{profiles: profiles, caller: caller, scope: scope, logger: logger}
}

// Decide scores every cell u can legally reach this turn and picks the best.
// Ties go to the cheaper cell, then row-major order. It returns false when
// the unit may not act.
//
// Precondition: u is a living unit owned by the turning player.
func (a *Agent) Decide(b *battle.Battle, u *battle.Unit) (Decision, bool) {
	ap, err := actingPermission(b, u)
	if err != nil {
		return Decision{}, false
	}
	p := a.profiles.ProfileFor(u.Template)
	enemies := Enemies(b, u)

	best := Decision{Unit: u.ID, To: u.Position, Score: CellScore(p, u, u.Position, 0, enemies)}
	bestCost := 0
	if a.mayAdvance(p, u, enemies) {
		costs := grid.PopulateCosts(b.Grid, b.Blocker(), u.Position)
		for _, cell := range costs.Reachable() {
			cost, _ := costs.Cost(cell)
			if cell == u.Position || cost > u.MovePoints {
				continue
			}
			if _, err := permission.Move(ap, cell); err != nil {
				continue
			}
			s := CellScore(p, u, cell, cost, enemies)
			if s > best.Score || (s == best.Score && cost < bestCost) {
				best = Decision{Unit: u.ID, Move: true, To: cell, Score: s}
				bestCost = cost
			}
		}
	}

	moved := *u
	moved.Position = best.To
	if t, ok := BestTarget(p, &moved, enemies); ok {
		best.Target = t.ID
	}
	return best, true
}

// mayAdvance asks the profile's engage hook whether u should leave its
// cell. A missing hook, a missing script or a non-boolean answer allows it.
func (a *Agent) mayAdvance(p *Profile, u *battle.Unit, enemies []*battle.Unit) bool {
	if u.Stationary || u.Rooted() {
		return false
	}
	if a.caller == nil || p.EngageHook == "" {
		return true
	}
	near := 0
	for _, e := range enemies {
		if grid.Manhattan(u.Position, e.Position) <= u.MovePoints+u.AttackRange {
			near++
		}
	}
	val, err := a.caller.CallHook(a.scope, p.EngageHook,
		lua.LNumber(u.ID), lua.LNumber(u.Health), lua.LNumber(u.EffectiveMaxHealth()), lua.LNumber(near))
	if err != nil {
		a.logger.Warn("ai: engage hook failed", zap.String("hook", p.EngageHook), zap.Error(err))
		return true
	}
	return val != lua.LFalse
}

// TakeTurn plays player's whole turn through o: it deploys unit cards held
// in hand, moves and attacks with every unit, then ends the turn. Rejected
// actions are logged and skipped.
//
// Precondition: it is player's turn.
// Postcondition: unless the battle finished, the turn has passed to the next player.
func (a *Agent) TakeTurn(o *turn.Orchestrator, player battle.PlayerID) error {
	b := o.Battle()
	if b.Turn != player {
		return permission.BattleNotYourTurn
	}
	a.deploy(o, player)

	var ids []battle.UnitID
	for _, u := range b.LivingUnits() {
		if u.Owner == player {
			ids = append(ids, u.ID)
		}
	}
	for _, id := range ids {
		if !b.Status.InProgress() {
			return nil
		}
		u, ok := b.Unit(id)
		if !ok || u.Dead {
			continue
		}
		d, ok := a.Decide(b, u)
		if !ok {
			continue
		}
		if d.Move {
			a.try(o, turn.Move{Player: player, Unit: id, To: d.To})
		}
		if d.Target != 0 {
			a.try(o, turn.CastUnitTarget{Player: player, Unit: id, Ability: ability.BasicAttack, Target: d.Target})
		}
	}
	if !b.Status.InProgress() {
		return nil
	}
	return o.Dispatch(turn.EndTurn{Player: player})
}

// deploy places every unit card in hand on the first free cells of the
// player's deployment zone, in row-major order.
func (a *Agent) deploy(o *turn.Orchestrator, player battle.PlayerID) {
	b := o.Battle()
	p, ok := b.Player(player)
	if !ok {
		return
	}
	cards := append([]battle.Card(nil), p.Hand...)
	for _, c := range cards {
		if c.Kind == battle.CardSpell {
			continue
		}
		for _, cell := range b.Grid.Cells() {
			if !p.Deployment.Contains(cell) || !b.Free(cell) {
				continue
			}
			if a.try(o, turn.PlayCard{Player: player, Card: c.ID, At: cell}) {
				break
			}
		}
	}
}

func (a *Agent) try(o *turn.Orchestrator, act turn.Action) bool {
	if err := o.Dispatch(act); err != nil {
		a.logger.Debug("ai: action rejected", zap.String("kind", string(act.Kind())), zap.Error(err))
		return false
	}
	return true
}

func actingPermission(b *battle.Battle, u *battle.Unit) (permission.ActingUnitPermission, error) {
	pp, err := permission.Battle(b, u.Owner)
	if err != nil {
		return permission.ActingUnitPermission{}, err
	}
	up, err := permission.Unit(pp, u.ID)
	if err != nil {
		return permission.ActingUnitPermission{}, err
	}
	op, err := permission.Own(up)
	if err != nil {
		return permission.ActingUnitPermission{}, err
	}
	return permission.Act(op)
}
