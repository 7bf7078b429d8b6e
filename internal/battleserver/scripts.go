package battleserver

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/tactics/internal/game/ai"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/scripting"
)

// BindScripts points m's engine.unit callbacks at the registry. Hook scopes
// are battle ids, as set on each session's agent.
//
// The callbacks read battle state without taking the session lock: hooks
// only run inside an AI turn, on the goroutine that already holds it.
func (r *Registry) BindScripts(m *scripting.Manager) {
	m.GetUnit = func(scope string, id int) *scripting.UnitInfo {
		b, ok := r.scriptBattle(scope)
		if !ok {
			return nil
		}
		u, ok := b.Unit(battle.UnitID(id))
		if !ok || u.Dead {
			return nil
		}
		info := &scripting.UnitInfo{
			ID:        int(u.ID),
			Template:  u.Template,
			Owner:     int(u.Owner),
			Health:    u.Health,
			MaxHealth: u.EffectiveMaxHealth(),
			Mana:      u.Mana,
			X:         u.Position.X,
			Y:         u.Position.Y,
		}
		for _, m := range u.Modifiers {
			info.Modifiers = append(info.Modifiers, string(m.Modifier.Kind))
		}
		return info
	}
	m.Enemies = func(scope string, id int) []int {
		b, ok := r.scriptBattle(scope)
		if !ok {
			return nil
		}
		u, ok := b.Unit(battle.UnitID(id))
		if !ok {
			return nil
		}
		var out []int
		for _, e := range ai.Enemies(b, u) {
			out = append(out, int(e.ID))
		}
		return out
	}
}

func (r *Registry) scriptBattle(scope string) (*battle.Battle, bool) {
	id, err := uuid.Parse(scope)
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return s.orch.Battle(), true
}
