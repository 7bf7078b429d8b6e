package ability

import (
	"fmt"
	"sort"
)

// ItemID identifies a shop item.
type ItemID string

const (
	Boots        ItemID = "boots"
	Blade        ItemID = "blade"
	Chainmail    ItemID = "chainmail"
	RingOfHealth ItemID = "ring_of_health"
	Basher       ItemID = "basher"
	Cleaver      ItemID = "cleaver"
	Fangs        ItemID = "fangs"
	Glaive       ItemID = "glaive"
)

// MaxItems is the inventory size of a hero.
const MaxItems = 6

// Item is a purchasable equipment piece. Equipping it applies its modifiers
// with an item source for the lifetime of the unit.
type Item struct {
	ID        ItemID
	Name      string
	Cost      int
	Modifiers []Modifier
}

var items = map[ItemID]Item{
	Boots:        {ID: Boots, Name: "Boots of Speed", Cost: 3, Modifiers: []Modifier{{Kind: ModMovePoints, Amount: 1}}},
	Blade:        {ID: Blade, Name: "Blade of Attack", Cost: 4, Modifiers: []Modifier{{Kind: ModAttack, Amount: 1}}},
	Chainmail:    {ID: Chainmail, Name: "Chainmail", Cost: 4, Modifiers: []Modifier{{Kind: ModArmor, Amount: 1}}},
	RingOfHealth: {ID: RingOfHealth, Name: "Ring of Health", Cost: 4, Modifiers: []Modifier{{Kind: ModRegen, Amount: 1}}},
	Basher:       {ID: Basher, Name: "Skull Basher", Cost: 6, Modifiers: []Modifier{{Kind: ModBash}}},
	Cleaver:      {ID: Cleaver, Name: "Battle Cleaver", Cost: 6, Modifiers: []Modifier{{Kind: ModCleave, Amount: 50}}},
	Fangs:        {ID: Fangs, Name: "Vampire Fangs", Cost: 5, Modifiers: []Modifier{{Kind: ModLifesteal, Amount: 50}}},
	Glaive:       {ID: Glaive, Name: "Moon Glaive", Cost: 6, Modifiers: []Modifier{{Kind: ModMoonGlaive, Amount: 1}}},
}

// LookupItem returns the item for id.
func LookupItem(id ItemID) (Item, bool) {
	it, ok := items[id]
	return it, ok
}

// MustLookupItem returns the item for id and panics when id is unknown.
func MustLookupItem(id ItemID) Item {
	it, ok := items[id]
	if !ok {
		panic(fmt.Sprintf("ability: unknown item %q", id))
	}
	return it
}

// Items returns every item id in lexical order.
func Items() []ItemID {
	out := make([]ItemID, 0, len(items))
	for id := range items {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RuneKind identifies a rune lying on the battlefield.
type RuneKind string

const (
	RuneHaste        RuneKind = "haste"
	RuneRegeneration RuneKind = "regeneration"
	RuneDoubleDamage RuneKind = "double_damage"
	RuneBounty       RuneKind = "bounty"
)

// RuneKinds lists every rune kind.
var RuneKinds = []RuneKind{RuneHaste, RuneRegeneration, RuneDoubleDamage, RuneBounty}

// RuneDuration is how many owner end-of-turns a rune modifier lasts.
const RuneDuration = 3

// BountyRuneGold is the gold granted by a bounty rune.
const BountyRuneGold = 5

// RuneModifier returns the modifier granted by picking up a rune of kind k.
// The bounty rune grants gold instead and returns false.
func RuneModifier(k RuneKind) (Modifier, bool) {
	switch k {
	case RuneHaste:
		return Modifier{Kind: ModMovePoints, Amount: 2}, true
	case RuneRegeneration:
		return Modifier{Kind: ModRegen, Amount: 2}, true
	case RuneDoubleDamage:
		return Modifier{Kind: ModDoubleDamage}, true
	case RuneBounty:
		return Modifier{}, false
	default:
		panic(fmt.Sprintf("ability: unknown rune %q", k))
	}
}
