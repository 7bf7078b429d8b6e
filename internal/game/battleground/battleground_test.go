package battleground_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/battleground"
	"github.com/cory-johannsen/tactics/internal/game/grid"
	"github.com/cory-johannsen/tactics/internal/game/roster"
	"github.com/cory-johannsen/tactics/internal/game/turn"
)

const crossroads = `
id: crossroads
name: Crossroads
width: 8
height: 6
starting_gold: 3
disabled: [{x: 4, y: 0}]
zones:
  - {min: {x: 0, y: 0}, max: {x: 1, y: 5}}
  - {min: {x: 6, y: 0}, max: {x: 7, y: 5}}
trees: [{x: 3, y: 3}]
runes:
  - {kind: haste, at: {x: 3, y: 1}}
shops:
  - {at: {x: 4, y: 5}, items: [boots, blade]}
monsters:
  - {template: wolf, at: {x: 4, y: 2}}
`

func testRoster(t *testing.T) *roster.Roster {
	t.Helper()
	knight := &roster.Template{ID: "knight", Name: "Knight", Kind: roster.Hero, MaxHealth: 10, MovePoints: 3, Attack: 3, AttackRange: 1}
	imp := &roster.Template{ID: "imp", Name: "Imp", Kind: roster.Creep, MaxHealth: 3, MovePoints: 2, Attack: 1, AttackRange: 1}
	wolf := &roster.Template{ID: "wolf", Name: "Wolf", Kind: roster.Monster, MaxHealth: 6, MovePoints: 3, Attack: 2, AttackRange: 1, Bounty: 3}
	r, err := roster.New(knight, imp, wolf)
	require.NoError(t, err)
	return r
}

func participants() []battleground.Participant {
	return []battleground.Participant{
		{Name: "alice", Controller: battle.Human, Heroes: []string{"knight"}, Creeps: []string{"imp"}, Spells: []ability.ID{ability.Meteor}, Gold: 2},
		{Name: "cpu", Controller: battle.AI, Heroes: []string{"knight"}},
	}
}

func TestLoadDefinitionFromBytes(t *testing.T) {
	d, err := battleground.LoadDefinitionFromBytes([]byte(crossroads))
	require.NoError(t, err)
	assert.Equal(t, "crossroads", d.ID)
	assert.Equal(t, grid.Rect{Min: grid.Pos(6, 0), Max: grid.Pos(7, 5)}, d.Zones[1])
	assert.Equal(t, []ability.ItemID{ability.Boots, ability.Blade}, d.Shops[0].Items)
}

func TestLoadDefinitionFromBytes_Rejects(t *testing.T) {
	base := "id: b\nwidth: 4\nheight: 4\nzones: [{min: {x: 0, y: 0}, max: {x: 0, y: 3}}, {min: {x: 3, y: 0}, max: {x: 3, y: 3}}]\n"
	cases := map[string]string{
		"unknown key":    base + "lava: true\n",
		"one zone":       "id: b\nwidth: 4\nheight: 4\nzones: [{min: {x: 0, y: 0}, max: {x: 0, y: 3}}]\n",
		"zone off board": "id: b\nwidth: 4\nheight: 4\nzones: [{min: {x: 0, y: 0}, max: {x: 0, y: 9}}, {min: {x: 3, y: 0}, max: {x: 3, y: 3}}]\n",
		"overlap":        base + "trees: [{x: 1, y: 1}]\nrunes: [{kind: haste, at: {x: 1, y: 1}}]\n",
		"disabled tree":  base + "disabled: [{x: 2, y: 2}]\ntrees: [{x: 2, y: 2}]\n",
		"unknown rune":   base + "runes: [{kind: wisdom, at: {x: 1, y: 1}}]\n",
		"unknown item":   base + "shops: [{at: {x: 1, y: 1}, items: [crown]}]\n",
		"no size":        "id: b\nzones: []\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := battleground.LoadDefinitionFromBytes([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestLoadDefinitions_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "crossroads.yaml"), []byte(crossroads), 0o644))
	defs, err := battleground.LoadDefinitions(dir)
	require.NoError(t, err)
	assert.Contains(t, defs, "crossroads")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "copy.yaml"), []byte(crossroads), 0o644))
	_, err = battleground.LoadDefinitions(dir)
	assert.ErrorContains(t, err, "duplicate")
}

func TestBuild_OpensBattle(t *testing.T) {
	d, err := battleground.LoadDefinitionFromBytes([]byte(crossroads))
	require.NoError(t, err)
	ids := &battle.SequentialIDs{}
	setup, err := battleground.Build(d, testRoster(t), participants(), ids, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), setup.Seed)
	require.Len(t, setup.Players, 2)
	assert.Equal(t, d.Zones[0], setup.Players[0].Deployment)

	o := turn.Start(setup, nil, battle.WithIDs(ids))
	b := o.Battle()
	alice, _ := b.Player(0)
	cpu, _ := b.Player(1)
	assert.Equal(t, 5, alice.Gold)
	assert.Equal(t, 3, cpu.Gold)
	require.Len(t, alice.Hand, 3)
	assert.Equal(t, battle.CardSpell, alice.Hand[2].Kind)
	assert.Len(t, cpu.Hand, 1)
	assert.Equal(t, []grid.Position{grid.Pos(3, 3)}, b.Trees)
	require.Len(t, b.Runes, 1)
	require.Len(t, b.Shops, 1)
	require.Len(t, b.Units, 1)
	assert.Equal(t, battle.Neutral, b.Units[0].Owner)

	seen := map[int]bool{int(b.Runes[0].ID): true, int(b.Shops[0].ID): true, int(b.Units[0].ID): true}
	for _, c := range alice.Hand {
		seen[int(c.ID)] = true
	}
	for _, c := range cpu.Hand {
		seen[int(c.ID)] = true
	}
	require.NoError(t, o.Dispatch(turn.PlayCard{Player: 0, Card: alice.Hand[0].ID, At: grid.Pos(0, 0)}))
	hero := b.Units[len(b.Units)-1]
	assert.False(t, seen[int(hero.ID)], "deployed unit id %d collides with an opening id", hero.ID)
}

func TestBuild_Rejects(t *testing.T) {
	d, err := battleground.LoadDefinitionFromBytes([]byte(crossroads))
	require.NoError(t, err)
	r := testRoster(t)

	cases := map[string]func(ps []battleground.Participant) []battleground.Participant{
		"one side":       func(ps []battleground.Participant) []battleground.Participant { return ps[:1] },
		"too many sides": func(ps []battleground.Participant) []battleground.Participant { return append(ps, ps[1]) },
		"no hero":        func(ps []battleground.Participant) []battleground.Participant { ps[1].Heroes = nil; return ps },
		"creep as hero": func(ps []battleground.Participant) []battleground.Participant {
			ps[1].Heroes = []string{"imp"}
			return ps
		},
		"monster card": func(ps []battleground.Participant) []battleground.Participant {
			ps[1].Creeps = []string{"wolf"}
			return ps
		},
		"ability as spell": func(ps []battleground.Participant) []battleground.Participant {
			ps[1].Spells = []ability.ID{ability.Heal}
			return ps
		},
		"bad controller": func(ps []battleground.Participant) []battleground.Participant { ps[1].Controller = "robot"; return ps },
		"negative gold":  func(ps []battleground.Participant) []battleground.Participant { ps[0].Gold = -1; return ps },
		"unknown template": func(ps []battleground.Participant) []battleground.Participant {
			ps[0].Heroes = []string{"lich"}
			return ps
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := battleground.Build(d, r, mutate(participants()), &battle.SequentialIDs{}, 1)
			assert.Error(t, err)
		})
	}

	bad := *d
	bad.Monsters = []battleground.MonsterSite{{Template: "imp", At: grid.Pos(5, 5)}}
	_, err = battleground.Build(&bad, r, participants(), &battle.SequentialIDs{}, 1)
	assert.ErrorContains(t, err, "not a monster")
}

func TestProperty_BuildIDsAreDistinct(t *testing.T) {
	d, err := battleground.LoadDefinitionFromBytes([]byte(crossroads))
	require.NoError(t, err)
	r := testRoster(t)
	rapid.Check(t, func(rt *rapid.T) {
		ps := participants()
		ps[0].Creeps = rapid.SliceOfN(rapid.Just("imp"), 0, 6).Draw(rt, "creeps")
		setup, err := battleground.Build(d, r, ps, &battle.SequentialIDs{}, 7)
		if err != nil {
			rt.Fatal(err)
		}
		seen := map[int]bool{}
		claim := func(id int) {
			if seen[id] {
				rt.Fatalf("id %d handed out twice", id)
			}
			seen[id] = true
		}
		for _, dl := range setup.Opening {
			switch dl := dl.(type) {
			case battle.CardsDealt:
				for _, c := range dl.Cards {
					claim(int(c.ID))
				}
			case battle.RuneSpawned:
				claim(int(dl.Rune))
			case battle.ShopSpawned:
				claim(int(dl.Shop))
			case battle.MonsterSpawned:
				claim(int(dl.Unit))
			}
		}
	})
}
