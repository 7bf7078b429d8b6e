package turn

import (
	"encoding/json"
	"fmt"
)

var actionDecoders = map[ActionKind]func([]byte) (Action, error){
	KindMove:             decodeAction[Move],
	KindCastNoTarget:     decodeAction[CastNoTarget],
	KindCastUnitTarget:   decodeAction[CastUnitTarget],
	KindCastGroundTarget: decodeAction[CastGroundTarget],
	KindPlayCard:         decodeAction[PlayCard],
	KindPurchaseItem:     decodeAction[PurchaseItem],
	KindPickUpRune:       decodeAction[PickUpRune],
	KindEndTurn:          decodeAction[EndTurn],
}

func decodeAction[T Action](data []byte) (Action, error) {
	var a T
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return a, nil
}

// EncodeAction writes a as a flat JSON object with a "kind" discriminator.
func EncodeAction(a Action) ([]byte, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encoding %s action: %w", a.Kind(), err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encoding %s action: %w", a.Kind(), err)
	}
	kind, _ := json.Marshal(a.Kind())
	fields["kind"] = kind
	return json.Marshal(fields)
}

// DecodeAction reads an action written by EncodeAction.
func DecodeAction(data []byte) (Action, error) {
	var head struct {
		Kind ActionKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decoding action: %w", err)
	}
	decode, ok := actionDecoders[head.Kind]
	if !ok {
		return nil, fmt.Errorf("decoding action: unknown kind %q", head.Kind)
	}
	a, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s action: %w", head.Kind, err)
	}
	return a, nil
}
