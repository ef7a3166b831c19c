package engine

import "fmt"

// WinCheck reports whether the game has a winner.
type WinCheck struct {
	Over     bool   `json:"over"`
	WinnerID string `json:"winnerId,omitempty"`
}

// CheckWin returns the first player, in seat order, with no cards left.
func CheckWin(state GameState) WinCheck {
	if !state.GameStarted {
		return WinCheck{}
	}
	for _, p := range state.Players {
		if p.Finished() {
			return WinCheck{Over: true, WinnerID: p.ID}
		}
	}
	return WinCheck{}
}

// VerifyConservation checks that deck, pile, discards and every player zone together hold
// each of the 52 cards exactly once.
func VerifyConservation(state GameState) error {
	all := make([]Card, 0, DeckSize)
	all = append(all, state.Deck...)
	all = append(all, state.Pile...)
	all = append(all, state.Discarded...)
	for _, p := range state.Players {
		all = append(all, p.Hand...)
		all = append(all, p.FaceUpCards...)
		all = append(all, p.FaceDownCards...)
	}
	if err := CheckDeck(all); err != nil {
		return fmt.Errorf("conservation: %w", err)
	}
	return nil
}
