// internal/game/utils.go
package game

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/shithead/engine"
)

// EventToBytes marshals a GameEvent into JSON bytes, or "{}" if it cannot be encoded.
func EventToBytes(ev GameEvent) []byte {
	data, err := json.Marshal(ev)
	if err != nil {
		return []byte("{}")
	}
	return data
}

func toEventCards(cards []engine.Card) []EventCard {
	if len(cards) == 0 {
		return nil
	}
	out := make([]EventCard, len(cards))
	for i, c := range cards {
		out[i] = EventCard{Rank: string(c.Rank), Suit: string(c.Suit)}
	}
	return out
}

// parseCards reads the "cards" payload: a list of {rank, suit} objects.
func parseCards(payload map[string]interface{}) ([]engine.Card, error) {
	raw, ok := payload["cards"].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("missing cards")
	}
	cards := make([]engine.Card, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("card must be an object")
		}
		rank, _ := m["rank"].(string)
		suit, _ := m["suit"].(string)
		c := engine.NewCard(engine.Rank(rank), engine.Suit(suit))
		if !c.Valid() {
			return nil, fmt.Errorf("unknown card %q of %q", rank, suit)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func parseIndex(payload map[string]interface{}, key string) (int, error) {
	switch v := payload[key].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	}
	return 0, fmt.Errorf("missing %s", key)
}

func parseIndices(payload map[string]interface{}) ([]int, error) {
	switch v := payload["indices"].(type) {
	case []int:
		return v, nil
	case []interface{}:
		out := make([]int, 0, len(v))
		for _, item := range v {
			f, ok := item.(float64)
			if !ok {
				return nil, fmt.Errorf("indices must be numbers")
			}
			out = append(out, int(f))
		}
		return out, nil
	}
	return nil, fmt.Errorf("missing indices")
}

// seatID is how a player is named inside the engine.
func seatID(id uuid.UUID) string { return id.String() }

func playerUUID(id string) uuid.UUID {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil
	}
	return u
}
