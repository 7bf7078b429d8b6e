package battleground

import (
	"fmt"

	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/roster"
)

// Participant is one side entering the battle: the cards it brings and any
// gold carried in on top of the battleground's starting gold.
type Participant struct {
	Name       string            `json:"name" yaml:"name"`
	Controller battle.Controller `json:"controller" yaml:"controller"`
	Heroes     []string          `json:"heroes" yaml:"heroes"`
	Creeps     []string          `json:"creeps,omitempty" yaml:"creeps"`
	Spells     []ability.ID      `json:"spells,omitempty" yaml:"spells"`
	Gold       int               `json:"gold,omitempty" yaml:"gold"`
}

// Build produces the setup of a battle on d. Card, rune, shop and monster
// ids are drawn from ids; the battle must be constructed with the same
// generator so later ids never collide with these.
//
// Precondition: d has been validated.
// Postcondition: the opening deltas deal gold and hands in player order,
// then spawn trees, runes, shops and monsters.
func Build(d *Definition, r *roster.Roster, participants []Participant, ids battle.IDGenerator, seed int64) (battle.Setup, error) {
	if len(participants) < 2 {
		return battle.Setup{}, fmt.Errorf("battleground %q: need at least two participants, got %d", d.ID, len(participants))
	}
	if len(participants) > len(d.Zones) {
		return battle.Setup{}, fmt.Errorf("battleground %q: %d participants but only %d zones", d.ID, len(participants), len(d.Zones))
	}

	setup := battle.Setup{
		Seed:     seed,
		Width:    d.Width,
		Height:   d.Height,
		Disabled: d.Disabled,
	}
	var opening []battle.Delta
	for i, p := range participants {
		switch p.Controller {
		case battle.Human, battle.AI:
		default:
			return battle.Setup{}, fmt.Errorf("participant %q: unknown controller %q", p.Name, p.Controller)
		}
		if p.Gold < 0 {
			return battle.Setup{}, fmt.Errorf("participant %q: gold must not be negative", p.Name)
		}
		player := battle.PlayerID(i)
		setup.Players = append(setup.Players, battle.PlayerSetup{Name: p.Name, Controller: p.Controller, Deployment: d.Zones[i]})

		hand, err := deal(r, p, ids)
		if err != nil {
			return battle.Setup{}, err
		}
		if gold := d.StartingGold + p.Gold; gold > 0 {
			opening = append(opening, battle.GoldChanged{Player: player, Amount: gold, Reason: "starting_gold"})
		}
		if len(hand) > 0 {
			opening = append(opening, battle.CardsDealt{Player: player, Cards: hand})
		}
	}

	for _, t := range d.Trees {
		opening = append(opening, battle.TreeSpawned{Position: t})
	}
	for _, rs := range d.Runes {
		opening = append(opening, battle.RuneSpawned{Rune: battle.RuneID(ids.Next()), Type: rs.Kind, Position: rs.At})
	}
	for _, s := range d.Shops {
		opening = append(opening, battle.ShopSpawned{Shop: battle.ShopID(ids.Next()), Position: s.At, Items: s.Items})
	}
	for _, m := range d.Monsters {
		t, ok := r.Template(m.Template)
		if !ok || t.Kind != roster.Monster {
			return battle.Setup{}, fmt.Errorf("battleground %q: %q is not a monster template", d.ID, m.Template)
		}
		opening = append(opening, battle.MonsterSpawned{Spawn: battle.Spawn{
			Unit:     battle.UnitID(ids.Next()),
			Owner:    battle.Neutral,
			Position: m.At,
			Stats:    t.Stats(),
		}})
	}
	setup.Opening = opening
	return setup, nil
}

func deal(r *roster.Roster, p Participant, ids battle.IDGenerator) ([]battle.Card, error) {
	if len(p.Heroes) == 0 {
		return nil, fmt.Errorf("participant %q: at least one hero is required", p.Name)
	}
	var hand []battle.Card
	units := func(templates []string, want battle.CardKind) error {
		for _, id := range templates {
			c, err := r.Card(battle.CardID(ids.Next()), id)
			if err != nil {
				return fmt.Errorf("participant %q: %w", p.Name, err)
			}
			if c.Kind != want {
				return fmt.Errorf("participant %q: %q is not a %s", p.Name, id, want)
			}
			hand = append(hand, c)
		}
		return nil
	}
	if err := units(p.Heroes, battle.CardHero); err != nil {
		return nil, err
	}
	if err := units(p.Creeps, battle.CardCreep); err != nil {
		return nil, err
	}
	for _, s := range p.Spells {
		def, ok := ability.Lookup(s)
		if !ok || !def.Spell {
			return nil, fmt.Errorf("participant %q: %q is not a spell", p.Name, s)
		}
		hand = append(hand, battle.Card{ID: battle.CardID(ids.Next()), Kind: battle.CardSpell, Spell: s})
	}
	return hand, nil
}
