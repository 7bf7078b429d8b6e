// Package turn dispatches player actions against a battle: it runs the
// authorization chain for each action kind, hands authorized intents to the
// resolver, resolves the end of a turn and decides when the battle is over.
package turn

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/permission"
	"github.com/cory-johannsen/tactics/internal/game/resolve"
)

// Orchestrator owns one battle and is the only writer of its log.
//
// Orchestrator is not safe for concurrent use; callers serialise access per
// battle.
type Orchestrator struct {
	battle   *battle.Battle
	resolver *resolve.Resolver
	logger   *zap.Logger
}

// Start builds a battle from setup with a resolver installed as its reactor
// and returns the orchestrator driving it.
//
// Precondition: setup has at least two players.
// Postcondition: the opening deltas are collapsed and the battle is in progress.
func Start(setup battle.Setup, logger *zap.Logger, opts ...battle.Option) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := resolve.New(logger)
	opts = append([]battle.Option{battle.WithLogger(logger)}, opts...)
	opts = append(opts, battle.WithReactor(r))
	return New(battle.New(setup, opts...), r, logger)
}

// New wraps an existing battle. r must be the battle's reactor.
func New(b *battle.Battle, r *resolve.Resolver, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{battle: b, resolver: r, logger: logger}
}

// Battle returns the battle being orchestrated.
func (o *Orchestrator) Battle() *battle.Battle { return o.battle }

// Dispatch authorizes and applies a. A rejected action returns the failing
// stage's error and leaves the battle untouched. After every accepted action
// the game-over rule is re-evaluated.
//
// Postcondition: on error, Len() and Head() are unchanged.
func (o *Orchestrator) Dispatch(a Action) error {
	before := o.battle.Len()
	if err := o.dispatch(a); err != nil {
		o.logger.Debug("action rejected",
			zap.String("kind", string(a.Kind())),
			zap.Int("player", int(a.Actor())),
			zap.Error(err),
		)
		return err
	}
	o.checkGameOver()
	o.logger.Debug("action applied",
		zap.String("kind", string(a.Kind())),
		zap.Int("player", int(a.Actor())),
		zap.Int("deltas", o.battle.Len()-before),
	)
	return nil
}

func (o *Orchestrator) dispatch(a Action) error {
	switch a := a.(type) {
	case Move:
		ap, err := o.acting(a.Player, a.Unit)
		if err != nil {
			return err
		}
		mp, err := permission.Move(ap, a.To)
		if err != nil {
			return err
		}
		o.resolver.Move(mp)

	case CastNoTarget:
		abp, err := o.ability(a.Player, a.Unit, a.Ability, ability.KindNoTarget)
		if err != nil {
			return err
		}
		p, err := permission.NoTarget(abp)
		if err != nil {
			return err
		}
		o.resolver.CastNoTarget(p)

	case CastUnitTarget:
		abp, err := o.ability(a.Player, a.Unit, a.Ability, ability.KindUnitTarget)
		if err != nil {
			return err
		}
		p, err := permission.UnitTarget(abp, a.Target)
		if err != nil {
			return err
		}
		o.resolver.CastUnitTarget(p)

	case CastGroundTarget:
		abp, err := o.ability(a.Player, a.Unit, a.Ability, ability.KindGroundTarget)
		if err != nil {
			return err
		}
		p, err := permission.GroundTarget(abp, a.At)
		if err != nil {
			return err
		}
		o.resolver.CastGroundTarget(p)

	case PlayCard:
		return o.playCard(a)

	case PurchaseItem:
		pp, err := permission.Battle(o.battle, a.Player)
		if err != nil {
			return err
		}
		up, err := permission.Unit(pp, a.Unit)
		if err != nil {
			return err
		}
		op, err := permission.Own(up)
		if err != nil {
			return err
		}
		p, err := permission.Purchase(op, a.Shop, a.Item)
		if err != nil {
			return err
		}
		o.resolver.Purchase(p)

	case PickUpRune:
		ap, err := o.acting(a.Player, a.Unit)
		if err != nil {
			return err
		}
		p, err := permission.Rune(ap, a.Rune)
		if err != nil {
			return err
		}
		o.resolver.PickUpRune(p)

	case EndTurn:
		if _, err := permission.Battle(o.battle, a.Player); err != nil {
			return err
		}
		o.endTurn(a.Player)

	default:
		panic(fmt.Sprintf("turn: no dispatch for action %T", a))
	}
	return nil
}

func (o *Orchestrator) playCard(a PlayCard) error {
	pp, err := permission.Battle(o.battle, a.Player)
	if err != nil {
		return err
	}
	cp, err := permission.Card(pp, a.Card)
	if err != nil {
		return err
	}
	if cp.Card().Kind != battle.CardSpell {
		dp, err := permission.Deploy(cp, a.At)
		if err != nil {
			return err
		}
		o.resolver.Deploy(dp)
		return nil
	}

	var sp permission.SpellPermission
	if def, ok := ability.Lookup(cp.Card().Spell); ok && def.Kind == ability.KindUnitTarget {
		sp, err = permission.SpellUnitTarget(cp, a.Target)
	} else {
		sp, err = permission.SpellGroundTarget(cp, a.At)
	}
	if err != nil {
		return err
	}
	o.resolver.CastSpell(sp)
	return nil
}

// acting runs the chain up to the Act stage for a player's unit.
func (o *Orchestrator) acting(player battle.PlayerID, id battle.UnitID) (permission.ActingUnitPermission, error) {
	pp, err := permission.Battle(o.battle, player)
	if err != nil {
		return permission.ActingUnitPermission{}, err
	}
	up, err := permission.Unit(pp, id)
	if err != nil {
		return permission.ActingUnitPermission{}, err
	}
	op, err := permission.Own(up)
	if err != nil {
		return permission.ActingUnitPermission{}, err
	}
	return permission.Act(op)
}

func (o *Orchestrator) ability(player battle.PlayerID, id battle.UnitID, ab ability.ID, kind ability.Kind) (permission.AbilityPermission, error) {
	ap, err := o.acting(player, id)
	if err != nil {
		return permission.AbilityPermission{}, err
	}
	return permission.Ability(ap, ab, kind)
}
