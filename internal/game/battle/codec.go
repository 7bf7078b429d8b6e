package battle

import (
	"encoding/json"
	"fmt"
	"sort"
)

// DeltaVersion is the wire version written into every envelope.
const DeltaVersion = 1

// Envelope is the serialized form of one delta.
type Envelope struct {
	Kind    DeltaKind       `json:"kind"`
	Version int             `json:"version"`
	Payload json.RawMessage `json:"payload"`
}

var decoders = map[DeltaKind]func(json.RawMessage) (Delta, error){
	KindGoldChanged:          decodeAs[GoldChanged],
	KindCardsDealt:           decodeAs[CardsDealt],
	KindHeroSpawned:          decodeAs[HeroSpawned],
	KindCreepSpawned:         decodeAs[CreepSpawned],
	KindMonsterSpawned:       decodeAs[MonsterSpawned],
	KindTreeSpawned:          decodeAs[TreeSpawned],
	KindRuneSpawned:          decodeAs[RuneSpawned],
	KindShopSpawned:          decodeAs[ShopSpawned],
	KindUnitMoved:            decodeAs[UnitMoved],
	KindUnitAttacked:         decodeAs[UnitAttacked],
	KindFissureCast:          decodeAs[FissureCast],
	KindVacuumCast:           decodeAs[VacuumCast],
	KindForceWaveCast:        decodeAs[ForceWaveCast],
	KindMysticFlareCast:      decodeAs[MysticFlareCast],
	KindFireStormCast:        decodeAs[FireStormCast],
	KindLightStrikeArrayCast: decodeAs[LightStrikeArrayCast],
	KindBlinkCast:            decodeAs[BlinkCast],
	KindPlagueWardCast:       decodeAs[PlagueWardCast],
	KindStrayBoltCast:        decodeAs[StrayBoltCast],
	KindLagunaBladeCast:      decodeAs[LagunaBladeCast],
	KindStormBoltCast:        decodeAs[StormBoltCast],
	KindFlameShieldCast:      decodeAs[FlameShieldCast],
	KindHealCast:             decodeAs[HealCast],
	KindSilenceCast:          decodeAs[SilenceCast],
	KindDisarmCast:           decodeAs[DisarmCast],
	KindPurgeCast:            decodeAs[PurgeCast],
	KindArcLightningCast:     decodeAs[ArcLightningCast],
	KindThunderClapCast:      decodeAs[ThunderClapCast],
	KindShadowCloakCast:      decodeAs[ShadowCloakCast],
	KindRejuvenateCast:       decodeAs[RejuvenateCast],
	KindEchoStompCast:        decodeAs[EchoStompCast],
	KindMeteorCast:           decodeAs[MeteorCast],
	KindHealWaveCast:         decodeAs[HealWaveCast],
	KindHasteCast:            decodeAs[HasteCast],
	KindLifestealApplied:     decodeAs[LifestealApplied],
	KindCleaveApplied:        decodeAs[CleaveApplied],
	KindBashApplied:          decodeAs[BashApplied],
	KindGlaiveBounced:        decodeAs[GlaiveBounced],
	KindMonsterAggroed:       decodeAs[MonsterAggroed],
	KindBountyClaimed:        decodeAs[BountyClaimed],
	KindLevelChanged:         decodeAs[LevelChanged],
	KindModifierApplied:      decodeAs[ModifierApplied],
	KindModifierRemoved:      decodeAs[ModifierRemoved],
	KindModifiersTicked:      decodeAs[ModifiersTicked],
	KindTimedEffectTicked:    decodeAs[TimedEffectTicked],
	KindTimedEffectExpired:   decodeAs[TimedEffectExpired],
	KindRegenTicked:          decodeAs[RegenTicked],
	KindPoisonTicked:         decodeAs[PoisonTicked],
	KindFlameShieldPulsed:    decodeAs[FlameShieldPulsed],
	KindWardAttacked:         decodeAs[WardAttacked],
	KindItemPurchased:        decodeAs[ItemPurchased],
	KindRunePickedUp:         decodeAs[RunePickedUp],
	KindTurnEnded:            decodeAs[TurnEnded],
	KindGameOver:             decodeAs[GameOver],
}

func decodeAs[T Delta](raw json.RawMessage) (Delta, error) {
	var d T
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return d, nil
}

// Kinds returns every delta kind the codec understands, sorted.
func Kinds() []DeltaKind {
	out := make([]DeltaKind, 0, len(decoders))
	for k := range decoders {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// EncodeDelta wraps d in a versioned envelope.
func EncodeDelta(d Delta) (Envelope, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return Envelope{}, fmt.Errorf("encoding %s delta: %w", d.Kind(), err)
	}
	return Envelope{Kind: d.Kind(), Version: DeltaVersion, Payload: payload}, nil
}

// DecodeDelta unwraps an envelope produced by EncodeDelta.
func DecodeDelta(e Envelope) (Delta, error) {
	if e.Version != DeltaVersion {
		return nil, fmt.Errorf("decoding %s delta: unsupported version %d", e.Kind, e.Version)
	}
	dec, ok := decoders[e.Kind]
	if !ok {
		return nil, fmt.Errorf("decoding delta: unknown kind %q", e.Kind)
	}
	d, err := dec(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("decoding %s delta: %w", e.Kind, err)
	}
	return d, nil
}

// MarshalLog encodes deltas as a JSON array of envelopes.
func MarshalLog(ds []Delta) ([]byte, error) {
	envs := make([]Envelope, 0, len(ds))
	for _, d := range ds {
		e, err := EncodeDelta(d)
		if err != nil {
			return nil, err
		}
		envs = append(envs, e)
	}
	return json.Marshal(envs)
}

// UnmarshalLog decodes the output of MarshalLog.
func UnmarshalLog(data []byte) ([]Delta, error) {
	var envs []Envelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return nil, fmt.Errorf("decoding delta log: %w", err)
	}
	out := make([]Delta, 0, len(envs))
	for _, e := range envs {
		d, err := DecodeDelta(e)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
