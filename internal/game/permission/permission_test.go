package permission_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/grid"
	"github.com/cory-johannsen/tactics/internal/game/permission"
)

const (
	mage    battle.UnitID = 1
	foe     battle.UnitID = 2
	foeCrp  battle.UnitID = 3
	friend  battle.UnitID = 4
	monster battle.UnitID = 5
)

func spawn(id battle.UnitID, owner battle.PlayerID, pos grid.Position, stats battle.UnitStats) battle.Spawn {
	return battle.Spawn{Unit: id, Owner: owner, Position: pos, Stats: stats}
}

func fixture(t *testing.T, extra ...battle.Delta) *battle.Battle {
	t.Helper()
	mageStats := battle.UnitStats{
		Template: "mage", MaxHealth: 6, MaxMana: 5, MovePoints: 3, Attack: 2, AttackRange: 1,
		Abilities: []ability.ID{ability.LagunaBlade, ability.Heal, ability.Fissure, ability.Lifesteal, ability.Blink, ability.ThunderClap},
	}
	grunt := battle.UnitStats{Template: "grunt", MaxHealth: 3, MovePoints: 2, Attack: 1, AttackRange: 1}
	opening := []battle.Delta{
		battle.GoldChanged{Player: 0, Amount: 5},
		battle.HeroSpawned{Spawn: spawn(mage, 0, grid.Pos(1, 1), mageStats)},
		battle.HeroSpawned{Spawn: spawn(foe, 1, grid.Pos(1, 3), mageStats)},
		battle.CreepSpawned{Spawn: spawn(foeCrp, 1, grid.Pos(5, 5), grunt)},
		battle.CreepSpawned{Spawn: spawn(friend, 0, grid.Pos(2, 1), grunt)},
		battle.MonsterSpawned{Spawn: spawn(monster, battle.Neutral, grid.Pos(7, 0), grunt)},
	}
	return battle.New(battle.Setup{
		Seed: 1, Width: 8, Height: 8,
		Disabled: []grid.Position{grid.Pos(4, 1)},
		Players: []battle.PlayerSetup{
			{Name: "alice", Deployment: grid.Rect{Min: grid.Pos(0, 0), Max: grid.Pos(1, 1)}},
			{Name: "bob", Deployment: grid.Rect{Min: grid.Pos(6, 6), Max: grid.Pos(7, 7)}},
		},
		Opening: append(opening, extra...),
	})
}

func acting(t *testing.T, b *battle.Battle, player battle.PlayerID, id battle.UnitID) permission.ActingUnitPermission {
	t.Helper()
	pp, err := permission.Battle(b, player)
	require.NoError(t, err)
	up, err := permission.Unit(pp, id)
	require.NoError(t, err)
	op, err := permission.Own(up)
	require.NoError(t, err)
	ap, err := permission.Act(op)
	require.NoError(t, err)
	return ap
}

func grant(id battle.ModifierID, target battle.UnitID, kind ability.ModifierKind) battle.ModifierApplied {
	return battle.ModifierApplied{Grant: battle.Grant{Target: target, Modifier: battle.AppliedModifier{
		ID: id, Modifier: ability.Modifier{Kind: kind}, Timed: true, Remaining: 1,
	}}}
}

func TestBattle_Failures(t *testing.T) {
	b := fixture(t)
	_, err := permission.Battle(b, 1)
	assert.ErrorIs(t, err, permission.BattleNotYourTurn)
	_, err = permission.Battle(b, 9)
	assert.ErrorIs(t, err, permission.BattleUnknownPlayer)

	b.Submit(battle.GameOver{})
	_, err = permission.Battle(b, 0)
	assert.ErrorIs(t, err, permission.BattleNotInProgress)
}

func TestUnit_Failures(t *testing.T) {
	b := fixture(t, grant(90, foe, ability.ModInvisible), grant(91, mage, ability.ModInvisible))
	pp, err := permission.Battle(b, 0)
	require.NoError(t, err)

	_, err = permission.Unit(pp, 99)
	assert.ErrorIs(t, err, permission.UnitNotFound)
	_, err = permission.Unit(pp, foe)
	assert.ErrorIs(t, err, permission.UnitInvisible)
	_, err = permission.Unit(pp, mage)
	assert.NoError(t, err, "own invisible units stay selectable")

	b.Submit(battle.PoisonTicked{Source: battle.NoCredit, Outcome: battle.Outcome{Hits: []battle.Hit{{Target: foeCrp, Damage: 10}}}})
	_, err = permission.Unit(pp, foeCrp)
	assert.ErrorIs(t, err, permission.UnitDead)
}

func TestOwnAndAct_Failures(t *testing.T) {
	b := fixture(t, grant(90, friend, ability.ModStunned))
	pp, _ := permission.Battle(b, 0)

	up, err := permission.Unit(pp, foeCrp)
	require.NoError(t, err)
	_, err = permission.Own(up)
	assert.ErrorIs(t, err, permission.NotOwned)

	up, _ = permission.Unit(pp, friend)
	op, err := permission.Own(up)
	require.NoError(t, err)
	_, err = permission.Act(op)
	assert.ErrorIs(t, err, permission.Stunned)

	b.Submit(battle.UnitAttacked{Cast: battle.Cast{Caster: mage, Ability: ability.BasicAttack}, Hit: battle.Hit{Target: foe, Damage: 1}})
	up, _ = permission.Unit(pp, mage)
	op, _ = permission.Own(up)
	_, err = permission.Act(op)
	assert.ErrorIs(t, err, permission.AlreadyActed)
}

func TestAutonomous(t *testing.T) {
	b := fixture(t)
	op, err := permission.Autonomous(b, monster)
	require.NoError(t, err)
	assert.Equal(t, monster, op.Unit().ID)
	assert.Nil(t, op.Player())
	_, err = permission.Act(op)
	assert.NoError(t, err)

	_, err = permission.Autonomous(b, foe)
	assert.ErrorIs(t, err, permission.NotOwned)
}

func TestAbility_Failures(t *testing.T) {
	cases := []struct {
		name  string
		extra []battle.Delta
		id    ability.ID
		kind  ability.Kind
		want  permission.AbilityFailure
	}{
		{"unknown", nil, ability.Vacuum, ability.KindGroundTarget, permission.AbilityUnknown},
		{"spell", nil, ability.Meteor, ability.KindGroundTarget, permission.AbilityUnknown},
		{"passive", nil, ability.Lifesteal, ability.KindPassive, permission.AbilityPassive},
		{"wrong kind", nil, ability.LagunaBlade, ability.KindGroundTarget, permission.AbilityWrongKind},
		{"silenced", []battle.Delta{grant(90, mage, ability.ModSilenced)}, ability.Heal, ability.KindUnitTarget, permission.AbilitySilenced},
		{"disarmed", []battle.Delta{grant(90, mage, ability.ModDisarmed)}, ability.BasicAttack, ability.KindUnitTarget, permission.AbilityDisarmed},
		{"mana", []battle.Delta{battle.HealCast{Cast: battle.Cast{Caster: mage, Ability: ability.Heal}}, battle.TurnEnded{Player: 0, Next: 1}, battle.TurnEnded{Player: 1, Next: 0}}, ability.LagunaBlade, ability.KindUnitTarget, permission.AbilityNotEnoughMana},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := fixture(t, tc.extra...)
			_, err := permission.Ability(acting(t, b, 0, mage), tc.id, tc.kind)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAbility_NoCharges(t *testing.T) {
	b := fixture(t)
	b.Submit(battle.LagunaBladeCast{Cast: battle.Cast{Caster: mage, Ability: ability.LagunaBlade}})
	b.Submit(battle.TurnEnded{Player: 0, Next: 1}, battle.TurnEnded{Player: 1, Next: 0})
	_, err := permission.Ability(acting(t, b, 0, mage), ability.LagunaBlade, ability.KindUnitTarget)
	assert.ErrorIs(t, err, permission.AbilityNoCharges)
}

func TestUnitTarget(t *testing.T) {
	b := fixture(t)
	laguna, err := permission.Ability(acting(t, b, 0, mage), ability.LagunaBlade, ability.KindUnitTarget)
	require.NoError(t, err)

	cast, err := permission.UnitTarget(laguna, foe)
	require.NoError(t, err)
	assert.Equal(t, foe, cast.Target().ID)

	_, err = permission.UnitTarget(laguna, foeCrp)
	assert.ErrorIs(t, err, permission.TargetOutOfRange)
	_, err = permission.UnitTarget(laguna, friend)
	assert.ErrorIs(t, err, permission.TargetNotEnemy)
	_, err = permission.UnitTarget(laguna, mage)
	assert.ErrorIs(t, err, permission.TargetSelf)
	_, err = permission.UnitTarget(laguna, 77)
	assert.ErrorIs(t, err, permission.TargetNotFound)

	heal, err := permission.Ability(acting(t, b, 0, mage), ability.Heal, ability.KindUnitTarget)
	require.NoError(t, err)
	_, err = permission.UnitTarget(heal, mage)
	assert.NoError(t, err)
	_, err = permission.UnitTarget(heal, foe)
	assert.ErrorIs(t, err, permission.TargetNotAlly)

	attack, err := permission.Ability(acting(t, b, 0, mage), ability.BasicAttack, ability.KindUnitTarget)
	require.NoError(t, err)
	_, err = permission.UnitTarget(attack, foe)
	assert.ErrorIs(t, err, permission.TargetOutOfRange, "attack range is the unit's own")
}

func TestUnitTarget_InvisibleEnemy(t *testing.T) {
	b := fixture(t, grant(90, foe, ability.ModInvisible))
	laguna, err := permission.Ability(acting(t, b, 0, mage), ability.LagunaBlade, ability.KindUnitTarget)
	require.NoError(t, err)
	_, err = permission.UnitTarget(laguna, foe)
	assert.ErrorIs(t, err, permission.TargetInvisible)
}

func TestGroundTarget(t *testing.T) {
	b := fixture(t)
	fissure, err := permission.Ability(acting(t, b, 0, mage), ability.Fissure, ability.KindGroundTarget)
	require.NoError(t, err)
	_, err = permission.GroundTarget(fissure, grid.Pos(1, 5))
	assert.NoError(t, err)
	_, err = permission.GroundTarget(fissure, grid.Pos(3, 3))
	assert.ErrorIs(t, err, permission.TargetNotInLine)
	_, err = permission.GroundTarget(fissure, grid.Pos(4, 1))
	assert.ErrorIs(t, err, permission.TargetCellDisabled)
	_, err = permission.GroundTarget(fissure, grid.Pos(-1, 1))
	assert.ErrorIs(t, err, permission.TargetCellDisabled)

	blink, err := permission.Ability(acting(t, b, 0, mage), ability.Blink, ability.KindGroundTarget)
	require.NoError(t, err)
	_, err = permission.GroundTarget(blink, grid.Pos(2, 1))
	assert.ErrorIs(t, err, permission.TargetCellBlocked)
	_, err = permission.GroundTarget(blink, grid.Pos(7, 7))
	assert.ErrorIs(t, err, permission.TargetOutOfRange)
	_, err = permission.NoTarget(blink)
	assert.ErrorIs(t, err, permission.TargetOther)

	clap, err := permission.Ability(acting(t, b, 0, mage), ability.ThunderClap, ability.KindNoTarget)
	require.NoError(t, err)
	_, err = permission.NoTarget(clap)
	assert.NoError(t, err)
}

func TestMove_BudgetBoundary(t *testing.T) {
	b := fixture(t)
	ap := acting(t, b, 0, mage)

	mp, err := permission.Move(ap, grid.Pos(1, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, mp.Cost())
	assert.Equal(t, []grid.Position{grid.Pos(1, 1), grid.Pos(1, 2)}, mp.Path())

	mp, err = permission.Move(ap, grid.Pos(0, 3))
	require.NoError(t, err, "cost equal to move points is allowed")
	assert.Equal(t, 3, mp.Cost())

	_, err = permission.Move(ap, grid.Pos(0, 4))
	assert.ErrorIs(t, err, permission.MoveNotEnoughMovePoints)

	_, err = permission.Move(ap, grid.Pos(2, 1))
	assert.ErrorIs(t, err, permission.MoveUnreachable)
	_, err = permission.Move(ap, grid.Pos(4, 1))
	assert.ErrorIs(t, err, permission.MoveUnreachable)
}

func TestMove_Rooted(t *testing.T) {
	b := fixture(t, grant(90, mage, ability.ModRooted))
	_, err := permission.Move(acting(t, b, 0, mage), grid.Pos(1, 2))
	assert.ErrorIs(t, err, permission.MoveRooted)
}

func TestMove_CostPropertyMatchesBudget(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := fixture(t)
		ap := acting(t, b, 0, mage)
		to := grid.Pos(rapid.IntRange(0, 7).Draw(rt, "x"), rapid.IntRange(0, 7).Draw(rt, "y"))
		if !b.Free(to) || to == grid.Pos(1, 1) {
			return
		}
		costs := grid.PopulateCosts(b.Grid, b.Blocker(), grid.Pos(1, 1))
		cost, reachable := costs.Cost(to)
		_, err := permission.Move(ap, to)
		switch {
		case !reachable:
			assert.ErrorIs(rt, err, permission.MoveUnreachable)
		case cost <= 3:
			assert.NoError(rt, err)
		default:
			assert.ErrorIs(rt, err, permission.MoveNotEnoughMovePoints)
		}
	})
}

func TestDeploy(t *testing.T) {
	stats := battle.UnitStats{Template: "knight", MaxHealth: 5, MovePoints: 3}
	b := fixture(t, battle.CardsDealt{Player: 0, Cards: []battle.Card{
		{ID: 20, Kind: battle.CardHero, Unit: &stats},
		{ID: 21, Kind: battle.CardSpell, Spell: ability.Meteor},
	}})
	pp, _ := permission.Battle(b, 0)

	_, err := permission.Card(pp, 99)
	assert.ErrorIs(t, err, permission.CardNotInHand)

	cp, err := permission.Card(pp, 20)
	require.NoError(t, err)
	_, err = permission.Deploy(cp, grid.Pos(3, 3))
	assert.ErrorIs(t, err, permission.DeployOutsideZone)
	_, err = permission.Deploy(cp, grid.Pos(1, 1))
	assert.ErrorIs(t, err, permission.DeployCellOccupied)
	dp, err := permission.Deploy(cp, grid.Pos(0, 0))
	require.NoError(t, err)
	assert.Equal(t, grid.Pos(0, 0), dp.At())

	spell, err := permission.Card(pp, 21)
	require.NoError(t, err)
	_, err = permission.Deploy(spell, grid.Pos(0, 0))
	assert.ErrorIs(t, err, permission.DeployNotAUnitCard)
	sp, err := permission.SpellGroundTarget(spell, grid.Pos(5, 5))
	require.NoError(t, err)
	assert.Equal(t, ability.Meteor, sp.Def().ID)
	_, err = permission.SpellUnitTarget(spell, foe)
	assert.ErrorIs(t, err, permission.TargetOther)
}

func TestPurchase(t *testing.T) {
	b := fixture(t, battle.ShopSpawned{Shop: 30, Position: grid.Pos(0, 1), Items: []ability.ItemID{ability.Boots, ability.Basher}})
	pp, _ := permission.Battle(b, 0)
	up, _ := permission.Unit(pp, mage)
	op, err := permission.Own(up)
	require.NoError(t, err)

	p, err := permission.Purchase(op, 30, ability.Boots)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Item().Cost)

	_, err = permission.Purchase(op, 31, ability.Boots)
	assert.ErrorIs(t, err, permission.PurchaseShopNotFound)
	_, err = permission.Purchase(op, 30, ability.Blade)
	assert.ErrorIs(t, err, permission.PurchaseItemUnavailable)
	_, err = permission.Purchase(op, 30, ability.Basher)
	assert.ErrorIs(t, err, permission.PurchaseNotEnoughGold)

	up, _ = permission.Unit(pp, friend)
	op, _ = permission.Own(up)
	_, err = permission.Purchase(op, 30, ability.Boots)
	assert.ErrorIs(t, err, permission.PurchaseNotAHero)
}

func TestRune(t *testing.T) {
	b := fixture(t,
		battle.RuneSpawned{Rune: 40, Type: ability.RuneHaste, Position: grid.Pos(1, 2)},
		battle.RuneSpawned{Rune: 41, Type: ability.RuneHaste, Position: grid.Pos(6, 6)},
	)
	ap := acting(t, b, 0, mage)
	rp, err := permission.Rune(ap, 40)
	require.NoError(t, err)
	assert.Equal(t, 1, rp.Cost())
	assert.Equal(t, grid.Pos(1, 2), rp.Path()[len(rp.Path())-1])

	_, err = permission.Rune(ap, 41)
	assert.ErrorIs(t, err, permission.RuneNotEnoughMovePoints)
	_, err = permission.Rune(ap, 42)
	assert.ErrorIs(t, err, permission.RuneNotFound)
}

func TestFailures_AreDistinctPerStage(t *testing.T) {
	var err error = permission.UnitNotFound
	assert.False(t, errors.Is(err, permission.TargetNotFound))
	assert.NotEmpty(t, permission.BattleOther.Error())
	assert.NotEmpty(t, permission.RuneOther.Error())
}
