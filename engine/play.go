package engine

// Play is one play request. Hand and face-up plays name their cards; a face-down play names a slot.
type Play struct {
	Zone  Zone   `json:"zone"`
	Cards []Card `json:"cards,omitempty"`
	Index int    `json:"index,omitempty"`
}

// checkTurn returns the acting player's seat after the phase and turn checks.
func checkTurn(state GameState, playerID string) (int, error) {
	if state.GameOver {
		return -1, reject(ErrGameOver, "game is over")
	}
	if !state.GameStarted || state.SetupPhase {
		return -1, reject(ErrWrongPhase, "game has not started")
	}
	idx := state.PlayerIndex(playerID)
	if idx < 0 {
		return -1, reject(ErrOutOfTurn, "unknown player %s", playerID)
	}
	if state.CurrentPlayerID != playerID {
		return -1, reject(ErrOutOfTurn, "it is not your turn")
	}
	return idx, nil
}

// ApplyPlay plays cards for playerID and resolves burns, extra turns, refills and the win check.
func ApplyPlay(state GameState, playerID string, play Play) (Result, error) {
	idx, err := checkTurn(state, playerID)
	if err != nil {
		return Result{State: state}, err
	}
	player := state.Players[idx]

	if want := player.PlayableZone(); play.Zone != want {
		return Result{State: state}, reject(ErrIllegalMove, "must play from %s first", zoneName(want))
	}

	var cards []Card
	switch play.Zone {
	case ZoneHand, ZoneFaceUp:
		if err := checkOwned(player.zoneCards(play.Zone), play.Zone, play.Cards); err != nil {
			return Result{State: state}, err
		}
		if v := IsLegalPlay(state.Pile, play.Cards); !v.Legal {
			return Result{State: state}, reject(ErrIllegalMove, "%s", v.Reason)
		}
		cards = cloneCards(play.Cards)
	case ZoneFaceDown:
		if play.Index < 0 || play.Index >= len(player.FaceDownCards) {
			return Result{State: state}, reject(ErrInvalidSelection, "face-down index %d out of range", play.Index)
		}
		cards = []Card{player.FaceDownCards[play.Index]}
	default:
		return Result{State: state}, reject(ErrInvalidSelection, "unknown zone %q", play.Zone)
	}

	next := state.Clone()
	p := &next.Players[idx]
	switch play.Zone {
	case ZoneHand:
		p.Hand = removeCards(p.Hand, cards)
	case ZoneFaceUp:
		p.FaceUpCards = removeCards(p.FaceUpCards, cards)
	case ZoneFaceDown:
		p.FaceDownCards = append(p.FaceDownCards[:play.Index:play.Index], p.FaceDownCards[play.Index+1:]...)
	}

	rank := cards[0].Rank
	pileWasEmpty := len(next.Pile) == 0
	next.Pile = append(next.Pile, cards...)
	events := []Event{{Kind: EventPlayed, PlayerID: playerID, Zone: play.Zone, Cards: cloneCards(cards), Rank: rank}}

	repeat := false
	switch {
	case rank == Ten || countRank(next.Pile, rank) >= BurnCount:
		events = append(events, Event{Kind: EventBurn, PlayerID: playerID, Rank: rank, Count: len(next.Pile)})
		next.Discarded = append(next.Discarded, next.Pile...)
		next.Pile = nil
		repeat = true
	case rank == Two:
		repeat = true
	case rank == Three && pileWasEmpty && len(next.Players) == 2:
		events = append(events, Event{Kind: EventPileCleared, PlayerID: playerID, Rank: rank, Count: len(next.Pile)})
		next.Discarded = append(next.Discarded, next.Pile...)
		next.Pile = nil
		repeat = true
	}

	if play.Zone == ZoneHand {
		events = append(events, replenish(&next, idx)...)
		if next.Rules.PromoteZones {
			events = append(events, promote(&next, idx)...)
		}
	}

	if !repeat {
		next.CurrentPlayerID = next.NextPlayerID(playerID)
	}
	return finishTurn(next, playerID, repeat, events), nil
}

// finishTurn appends the turn event, or the game-over event when someone has finished.
func finishTurn(next GameState, actorID string, repeat bool, events []Event) Result {
	if win := CheckWin(next); win.Over {
		next.GameOver = true
		next.WinnerID = win.WinnerID
		events = append(events, Event{Kind: EventGameOver, PlayerID: win.WinnerID})
		return Result{State: next, Events: events}
	}
	if repeat {
		events = append(events, Event{Kind: EventExtraTurn, PlayerID: actorID})
	} else {
		events = append(events, Event{Kind: EventTurnPassed, PlayerID: next.CurrentPlayerID})
	}
	return Result{State: next, Events: events}
}

// replenish draws until the hand holds MinHandSize cards or the deck runs out.
func replenish(state *GameState, idx int) []Event {
	p := &state.Players[idx]
	var drawn []Card
	for len(p.Hand) < MinHandSize {
		c, ok := popCard(&state.Deck)
		if !ok {
			break
		}
		p.Hand = append(p.Hand, c)
		drawn = append(drawn, c)
	}
	if len(drawn) == 0 {
		return nil
	}
	return []Event{{Kind: EventReplenished, PlayerID: p.ID, Cards: drawn, Count: len(drawn)}}
}

// promote moves the next table zone into an empty hand once the deck is gone.
func promote(state *GameState, idx int) []Event {
	p := &state.Players[idx]
	if len(p.Hand) > 0 || len(state.Deck) > 0 {
		return nil
	}
	switch {
	case len(p.FaceUpCards) > 0:
		n := len(p.FaceUpCards)
		p.Hand, p.FaceUpCards = p.FaceUpCards, nil
		return []Event{{Kind: EventPromoted, PlayerID: p.ID, Zone: ZoneFaceUp, Count: n}}
	case len(p.FaceDownCards) > 0:
		n := len(p.FaceDownCards)
		p.Hand, p.FaceDownCards = p.FaceDownCards, nil
		return []Event{{Kind: EventPromoted, PlayerID: p.ID, Zone: ZoneFaceDown, Count: n}}
	}
	return nil
}

// checkOwned verifies every card is held in zone and named only once.
func checkOwned(zone []Card, z Zone, cards []Card) error {
	if len(cards) == 0 {
		return reject(ErrIllegalMove, "no cards selected")
	}
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if seen[c] {
			return reject(ErrInvalidSelection, "%v selected twice", c)
		}
		seen[c] = true
		if !containsCard(zone, c) {
			return reject(ErrInvalidSelection, "%v is not in your %s", c, zoneName(z))
		}
	}
	return nil
}

func removeCards(from []Card, cards []Card) []Card {
	out := make([]Card, 0, len(from))
	for _, c := range from {
		if !containsCard(cards, c) {
			out = append(out, c)
		}
	}
	return out
}

func zoneName(z Zone) string {
	switch z {
	case ZoneFaceUp:
		return "face-up cards"
	case ZoneFaceDown:
		return "face-down cards"
	}
	return "hand"
}
