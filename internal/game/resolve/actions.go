package resolve

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/permission"
)

// Move walks an authorized unit along its path.
func (r *Resolver) Move(p permission.MovePermission) {
	u := p.Unit()
	p.Battle().Submit(battle.UnitMoved{Unit: u.ID, Path: p.Path(), Cost: p.Cost()})
}

// Deploy places an authorized hero or creep card on the battlefield.
//
// Precondition: the card carries unit stats.
func (r *Resolver) Deploy(p permission.DeployPermission) {
	b, card := p.Battle(), p.Card()
	spawn := battle.Spawn{
		Unit:     battle.UnitID(b.NextID()),
		Owner:    p.Player().ID,
		Position: p.At(),
		Stats:    *card.Unit,
	}
	if card.Kind == battle.CardHero {
		b.Submit(battle.HeroSpawned{Spawn: spawn, Card: card.ID})
	} else {
		b.Submit(battle.CreepSpawned{Spawn: spawn, Card: card.ID})
	}
	r.logger.Debug("card deployed", zap.Int("card", int(card.ID)), zap.Int("unit", int(spawn.Unit)))
}

// Purchase equips an authorized item. The item's modifiers last as long as
// the unit.
func (r *Resolver) Purchase(p permission.PurchasePermission) {
	b, u, item := p.Battle(), p.Unit(), p.Item()
	src := ability.Source{Kind: ability.SourceItem, Unit: int(u.ID), Item: item.ID}
	grants := make([]battle.Grant, 0, len(item.Modifiers))
	for _, m := range item.Modifiers {
		grants = append(grants, battle.Grant{Target: u.ID, Modifier: timedModifier(b, m, 0, src)})
	}
	b.Submit(battle.ItemPurchased{
		Unit: u.ID, Player: p.Player().ID, Shop: p.Shop().ID,
		Item: item.ID, Cost: item.Cost, Grants: grants,
	})
}

// PickUpRune walks an authorized unit onto a rune and applies it.
func (r *Resolver) PickUpRune(p permission.RunePermission) {
	b, u, rn := p.Battle(), p.Unit(), p.Rune()
	d := battle.RunePickedUp{Unit: u.ID, Rune: rn.ID, Path: p.Path(), Cost: p.Cost()}
	if m, ok := ability.RuneModifier(rn.Kind); ok {
		g := battle.Grant{Target: u.ID, Modifier: timedModifier(b, m, ability.RuneDuration, ability.NoSource)}
		d.Grant = &g
	} else {
		d.Gold = ability.BountyRuneGold
	}
	b.Submit(d)
}
