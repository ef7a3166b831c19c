package engine

import "fmt"

// Setup deals deck into the state's players and opens the face-up selection phase.
// deck must be a full 52-card deck; a bad deck is a fatal error, not a rejection.
func Setup(state GameState, deck []Card) (Result, error) {
	if state.GameStarted || state.SetupPhase {
		return Result{State: state}, reject(ErrWrongPhase, "game has already been set up")
	}
	if err := CheckDeck(deck); err != nil {
		return Result{State: state}, err
	}
	dealt, err := Deal(state.Players, deck)
	if err != nil {
		return Result{State: state}, fmt.Errorf("setup: %w", err)
	}

	next := state.Clone()
	events := make([]Event, 0, len(next.Players))
	for i := range next.Players {
		p := &next.Players[i]
		p.Hand = dealt.Hands[i]
		p.FaceDownCards = dealt.FaceDownCards[i]
		p.FaceUpCards = nil
		p.IsReady = false
		p.IsActive = true
		events = append(events, Event{Kind: EventDealt, PlayerID: p.ID, Count: len(p.Hand) + len(p.FaceDownCards)})
	}
	next.Deck = dealt.RemainingDeck
	next.Pile = nil
	next.Discarded = nil
	next.CurrentPlayerID = ""
	next.SetupPhase = true
	next.GameOver = false
	next.WinnerID = ""
	return Result{State: next, Events: events}, nil
}

// SelectFaceUp moves the hand cards at handIndices onto the player's face-up zone.
// Selections accumulate over calls up to three cards; the player is ready at exactly three.
func SelectFaceUp(player Player, handIndices []int) (Player, error) {
	if len(handIndices) == 0 {
		return player, reject(ErrInvalidSelection, "no cards selected")
	}
	if len(player.FaceUpCards)+len(handIndices) > FaceUpCount {
		return player, reject(ErrInvalidSelection, "can select at most %d face-up cards, %d already chosen",
			FaceUpCount, len(player.FaceUpCards))
	}
	picked := make(map[int]bool, len(handIndices))
	for _, idx := range handIndices {
		if idx < 0 || idx >= len(player.Hand) {
			return player, reject(ErrInvalidSelection, "card index %d out of range", idx)
		}
		if picked[idx] {
			return player, reject(ErrInvalidSelection, "card index %d selected twice", idx)
		}
		picked[idx] = true
	}

	out := player.clone()
	for _, idx := range handIndices {
		out.FaceUpCards = append(out.FaceUpCards, player.Hand[idx])
	}
	hand := make([]Card, 0, len(player.Hand)-len(handIndices))
	for i, c := range player.Hand {
		if !picked[i] {
			hand = append(hand, c)
		}
	}
	out.Hand = hand
	out.IsReady = len(out.FaceUpCards) == FaceUpCount
	return out, nil
}

// ApplySelectFaceUp runs SelectFaceUp for playerID and starts the game once every player is ready.
func ApplySelectFaceUp(state GameState, playerID string, handIndices []int) (Result, error) {
	if state.GameOver {
		return Result{State: state}, reject(ErrGameOver, "game is over")
	}
	if !state.SetupPhase {
		return Result{State: state}, reject(ErrWrongPhase, "face-up cards can only be chosen during setup")
	}
	idx := state.PlayerIndex(playerID)
	if idx < 0 {
		return Result{State: state}, reject(ErrInvalidSelection, "unknown player %s", playerID)
	}
	updated, err := SelectFaceUp(state.Players[idx], handIndices)
	if err != nil {
		return Result{State: state}, err
	}

	next := state.Clone()
	next.Players[idx] = updated
	events := []Event{{
		Kind:     EventFaceUpSelected,
		PlayerID: playerID,
		Cards:    cloneCards(updated.FaceUpCards[len(updated.FaceUpCards)-len(handIndices):]),
		Count:    len(updated.FaceUpCards),
	}}

	for _, p := range next.Players {
		if !p.IsReady {
			return Result{State: next, Events: events}, nil
		}
	}
	next.SetupPhase = false
	next.GameStarted = true
	next.Pile = nil
	next.CurrentPlayerID = next.Players[0].ID
	events = append(events, Event{Kind: EventGameStarted, PlayerID: next.CurrentPlayerID})
	return Result{State: next, Events: events}, nil
}
