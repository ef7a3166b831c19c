// internal/game/rules.go
package game

import (
	"fmt"
	"time"

	"github.com/jason-s-yu/shithead/engine"
)

// HouseRules are the table options chosen when a game is created.
type HouseRules struct {
	TurnTimerSec        int  `json:"turnTimerSec"`        // seconds before a stalled player is moved for; 0 disables the timer
	ForfeitOnDisconnect bool `json:"forfeitOnDisconnect"` // a disconnected player forfeits; the game ends when one player is left
	PromoteZones        bool `json:"promoteZones"`        // pull face-up, then face-down cards into an empty hand once the deck is gone
	BotDelayMs          int  `json:"botDelayMs"`          // pause before a bot moves
}

// DefaultHouseRules returns the rules a new game starts with.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		TurnTimerSec:        30,
		ForfeitOnDisconnect: true,
		PromoteZones:        true,
		BotDelayMs:          800,
	}
}

// Update will update the house rules with the new rules provided.
// If a rule is not set or defined, it will be ignored, and the old value will persist.
func (rules *HouseRules) Update(newRules map[string]interface{}) error {
	assignBool := func(field *bool, key string) error {
		val, exists := newRules[key]
		if !exists || val == nil {
			return nil
		}
		b, ok := val.(bool)
		if !ok {
			return fmt.Errorf("invalid type for %s", key)
		}
		*field = b
		return nil
	}

	assignInt := func(field *int, key string, minVal int) error {
		val, exists := newRules[key]
		if !exists || val == nil {
			return nil
		}
		// JSON numbers decode as float64
		var n int
		switch v := val.(type) {
		case float64:
			n = int(v)
		case int:
			n = v
		default:
			return fmt.Errorf("invalid type for %s", key)
		}
		if n < minVal {
			return fmt.Errorf("%s must be at least %d", key, minVal)
		}
		*field = n
		return nil
	}

	if err := assignInt(&rules.TurnTimerSec, "turnTimerSec", 0); err != nil {
		return err
	}
	if err := assignBool(&rules.ForfeitOnDisconnect, "forfeitOnDisconnect"); err != nil {
		return err
	}
	if err := assignBool(&rules.PromoteZones, "promoteZones"); err != nil {
		return err
	}
	if err := assignInt(&rules.BotDelayMs, "botDelayMs", 0); err != nil {
		return err
	}
	return nil
}

// ParseRules converts a map of rules to a HouseRules struct. It will ensure the types are valid.
func ParseRules(rules map[string]interface{}, current HouseRules) (HouseRules, error) {
	houseRules := current
	err := houseRules.Update(rules)
	return houseRules, err
}

func (rules HouseRules) engineRules() engine.Rules {
	return engine.Rules{PromoteZones: rules.PromoteZones}
}

func (rules HouseRules) turnDuration() time.Duration {
	return time.Duration(rules.TurnTimerSec) * time.Second
}

func (rules HouseRules) botDelay() time.Duration {
	return time.Duration(rules.BotDelayMs) * time.Millisecond
}
