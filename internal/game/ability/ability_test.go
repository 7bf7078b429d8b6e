package ability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/tactics/internal/game/ability"
)

func TestCatalogue_EveryIDHasMatchingDef(t *testing.T) {
	ids := ability.All()
	require.NotEmpty(t, ids)
	for _, id := range ids {
		d, ok := ability.Lookup(id)
		require.True(t, ok, id)
		assert.Equal(t, id, d.ID)
		assert.NotEmpty(t, d.Name, id)
	}
}

func TestCatalogue_SpellsAreFree(t *testing.T) {
	for _, id := range ability.All() {
		d := ability.MustLookup(id)
		if d.Spell {
			assert.Zero(t, d.ManaCost, id)
		}
	}
}

func TestCatalogue_MultiHitAbilitiesHaveBudget(t *testing.T) {
	assert.Positive(t, ability.MustLookup(ability.MysticFlare).Hits)
	assert.Positive(t, ability.MustLookup(ability.ArcLightning).Hits)
}

func TestMustLookup_PanicsOnUnknown(t *testing.T) {
	assert.Panics(t, func() { ability.MustLookup("nope") })
}

func TestInstance_Charges(t *testing.T) {
	assert.True(t, ability.NewInstance(ability.Heal).HasCharges())
	laguna := ability.NewInstance(ability.LagunaBlade)
	assert.Equal(t, 1, laguna.Charges)
	laguna.Charges = 0
	assert.False(t, laguna.HasCharges())
}

func TestModifier_Debuff(t *testing.T) {
	assert.True(t, ability.Modifier{Kind: ability.ModStunned}.Debuff())
	assert.True(t, ability.Modifier{Kind: ability.ModArmor, Amount: -1}.Debuff())
	assert.False(t, ability.Modifier{Kind: ability.ModArmor, Amount: 2}.Debuff())
	assert.False(t, ability.Modifier{Kind: ability.ModInvisible}.Debuff())
}

func TestItems_AllHaveModifiersAndCost(t *testing.T) {
	for _, id := range ability.Items() {
		it := ability.MustLookupItem(id)
		assert.Positive(t, it.Cost, id)
		assert.NotEmpty(t, it.Modifiers, id)
	}
}

func TestRuneModifier(t *testing.T) {
	for _, k := range ability.RuneKinds {
		m, ok := ability.RuneModifier(k)
		if k == ability.RuneBounty {
			assert.False(t, ok)
			continue
		}
		require.True(t, ok, k)
		assert.NotEmpty(t, m.Kind)
	}
}
