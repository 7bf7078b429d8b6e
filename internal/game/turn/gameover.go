package turn

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/tactics/internal/game/battle"
)

// Present returns the players still in the battle: owners of a living
// non-monster unit, and players still holding an undeployed hero card. It
// is computed from scratch on every call.
//
// Hero cards count because battles open with every unit still in hand:
// counting only units on the board would end a battle before the first
// deployment, and a player whose deployed units all died may still field
// the held hero on their next turn.
func Present(b *battle.Battle) []battle.PlayerID {
	seen := make(map[battle.PlayerID]bool)
	for _, u := range b.Units {
		if u.Alive() && u.Owned() && u.Supertype != battle.Monster {
			seen[u.Owner] = true
		}
	}
	for _, p := range b.Players {
		if p.HoldsHeroCard() {
			seen[p.ID] = true
		}
	}
	var out []battle.PlayerID
	for _, p := range b.Players {
		if seen[p.ID] {
			out = append(out, p.ID)
		}
	}
	return out
}

// checkGameOver finishes the battle when at most one player is present.
// No players present is a draw.
func (o *Orchestrator) checkGameOver() {
	b := o.battle
	if !b.Status.InProgress() {
		return
	}
	present := Present(b)
	if len(present) >= 2 {
		return
	}
	var winner *battle.PlayerID
	if len(present) == 1 {
		w := present[0]
		winner = &w
	}
	b.Submit(battle.GameOver{Winner: winner, Survivors: survivors(b)})

	if winner != nil {
		o.logger.Info("battle finished", zap.Int("winner", int(*winner)), zap.Int("round", b.Round))
	} else {
		o.logger.Info("battle finished in a draw", zap.Int("round", b.Round))
	}
}

// survivors lists the living player-owned units for the adventure layer.
func survivors(b *battle.Battle) []battle.Survivor {
	var out []battle.Survivor
	for _, u := range b.Units {
		if !u.Alive() || !u.Owned() {
			continue
		}
		out = append(out, battle.Survivor{Unit: u.ID, Template: u.Template, Owner: u.Owner, Health: u.Health, MaxHealth: u.MaxHealth})
	}
	return out
}
