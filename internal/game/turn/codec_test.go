package turn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/grid"
	"github.com/cory-johannsen/tactics/internal/game/turn"
)

func TestActionCodec(t *testing.T) {
	in := turn.CastGroundTarget{Player: 1, Unit: 7, Ability: ability.Fissure, At: grid.Pos(3, 4)}
	data, err := turn.EncodeAction(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"cast_ground_target","player":1,"unit":7,"ability":"fissure","at":{"x":3,"y":4}}`, string(data))

	out, err := turn.DecodeAction(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	end, err := turn.DecodeAction([]byte(`{"kind":"end_turn","player":0}`))
	require.NoError(t, err)
	assert.Equal(t, turn.EndTurn{Player: 0}, end)
}

func TestActionCodec_RejectsUnknownKind(t *testing.T) {
	_, err := turn.DecodeAction([]byte(`{"kind":"cheat","player":0}`))
	assert.ErrorContains(t, err, "unknown kind")
	_, err = turn.DecodeAction([]byte(`not json`))
	assert.Error(t, err)
}
