package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/grid"
)

func kinds(ds []battle.Delta) []battle.DeltaKind {
	out := make([]battle.DeltaKind, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Kind())
	}
	return out
}

func TestReact_LifestealHealsAttacker(t *testing.T) {
	w := newWorld(t, nil, grid.Pos(2, 2), mageStats(),
		creep(1, 1, grid.Pos(2, 3), 10),
		withModifier(9, mage, ability.Modifier{Kind: ability.ModLifesteal, Amount: 50}),
		battle.PoisonTicked{Source: battle.NoCredit, Outcome: battle.Outcome{Hits: []battle.Hit{{Target: mage, Damage: 4}}}},
	)
	before := w.b.Len()
	w.castOn(t, ability.BasicAttack, cid(1))

	assert.Equal(t, []battle.DeltaKind{battle.KindUnitAttacked, battle.KindLifestealApplied}, kinds(w.b.DeltasAfter(before)))
	assert.Equal(t, 6, w.unit(cid(1)).Health)
	assert.Equal(t, 8, w.unit(mage).Health)
}

func TestReact_KillPaysBountyAndLevelsHero(t *testing.T) {
	w := newWorld(t, nil, grid.Pos(2, 2), mageStats(), creep(1, 1, grid.Pos(2, 3), 3))
	w.castOn(t, ability.BasicAttack, cid(1))

	assert.True(t, w.unit(cid(1)).Dead)
	assert.Equal(t, 5, w.b.Players[0].Gold)
	m := w.unit(mage)
	assert.Equal(t, 2, m.Level)
	assert.Equal(t, 11, m.MaxHealth)
	assert.Equal(t, 11, m.Health)
}

func TestReact_MonsterRemembersAttacker(t *testing.T) {
	w := newWorld(t, nil, grid.Pos(2, 2), mageStats(),
		battle.MonsterSpawned{Spawn: battle.Spawn{Unit: 50, Owner: battle.Neutral, Position: grid.Pos(2, 3), Stats: grunt(20)}})
	w.castOn(t, ability.BasicAttack, 50)
	assert.Equal(t, mage, w.unit(50).RetaliationTarget)
}

func TestReact_ActingRevealsButCloakingDoesNot(t *testing.T) {
	w := newWorld(t, nil, grid.Pos(2, 2), mageStats(ability.ShadowCloak, ability.Heal))
	p, err := permissionNoTarget(w, t, ability.ShadowCloak)
	require.NoError(t, err)
	w.r.CastNoTarget(p)
	assert.True(t, w.unit(mage).Invisible())

	w.b.Submit(battle.TurnEnded{Player: 0, Next: 1}, battle.TurnEnded{Player: 1, Next: 0})
	w.castOn(t, ability.Heal, mage)
	assert.False(t, w.unit(mage).Invisible())
}

func TestReact_BashStunsOnProc(t *testing.T) {
	w := newWorld(t, []float64{0}, grid.Pos(2, 2), mageStats(ability.Bash), creep(1, 1, grid.Pos(2, 3), 10))
	w.castOn(t, ability.BasicAttack, cid(1))
	assert.True(t, w.unit(cid(1)).Stunned())
}

func TestReact_BashMissesAboveChance(t *testing.T) {
	w := newWorld(t, []float64{0.9}, grid.Pos(2, 2), mageStats(), creep(1, 1, grid.Pos(2, 3), 10),
		withModifier(9, mage, ability.Modifier{Kind: ability.ModBash}))
	w.castOn(t, ability.BasicAttack, cid(1))
	assert.False(t, w.unit(cid(1)).Stunned())
}

func TestReact_CleaveSplashesAroundVictim(t *testing.T) {
	w := newWorld(t, nil, grid.Pos(2, 2), mageStats(),
		creep(1, 1, grid.Pos(2, 3), 10), creep(2, 1, grid.Pos(3, 4), 10), creep(3, 0, grid.Pos(1, 4), 10),
		withModifier(9, mage, ability.Modifier{Kind: ability.ModCleave, Amount: 50}))
	w.castOn(t, ability.BasicAttack, cid(1))
	assert.Equal(t, 6, w.unit(cid(1)).Health)
	assert.Equal(t, 8, w.unit(cid(2)).Health)
	assert.Equal(t, 10, w.unit(cid(3)).Health, "allies are spared")
}

func TestReact_GlaiveBouncesToAnotherEnemy(t *testing.T) {
	w := newWorld(t, []float64{0}, grid.Pos(2, 2), mageStats(ability.MoonGlaive),
		creep(1, 1, grid.Pos(2, 3), 10), creep(2, 1, grid.Pos(2, 4), 10))
	w.castOn(t, ability.BasicAttack, cid(1))
	assert.Equal(t, 9, w.unit(cid(2)).Health)
}

func TestReact_NonAttackDamageTriggersNoOnHit(t *testing.T) {
	w := newWorld(t, nil, grid.Pos(2, 2), mageStats(ability.LagunaBlade), creep(1, 1, grid.Pos(2, 4), 10),
		withModifier(9, mage, ability.Modifier{Kind: ability.ModLifesteal, Amount: 50}))
	before := w.b.Len()
	w.castOn(t, ability.LagunaBlade, cid(1))
	assert.Equal(t, []battle.DeltaKind{battle.KindLagunaBladeCast}, kinds(w.b.DeltasAfter(before)))
}
