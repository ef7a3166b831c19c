package engine

// ApplyDraw draws one card for playerID instead of playing and passes the turn.
// Facing a 3 the draw becomes a pickup.
func ApplyDraw(state GameState, playerID string) (Result, error) {
	idx, err := checkTurn(state, playerID)
	if err != nil {
		return Result{State: state}, err
	}
	if top, ok := EffectiveTop(state.Pile); ok && top.Rank == Three {
		return pickup(state, idx)
	}
	if len(state.Deck) == 0 {
		return Result{State: state}, reject(ErrEmptyDeckDraw, "the deck is empty")
	}

	next := state.Clone()
	c, _ := popCard(&next.Deck)
	next.Players[idx].Hand = append(next.Players[idx].Hand, c)
	next.CurrentPlayerID = next.NextPlayerID(playerID)
	events := []Event{{Kind: EventDrew, PlayerID: playerID, Cards: []Card{c}, Count: 1}}
	return finishTurn(next, playerID, false, events), nil
}

// ApplyPickup takes the pile into playerID's hand. 3s, 8s and 10s leave the game instead.
func ApplyPickup(state GameState, playerID string) (Result, error) {
	idx, err := checkTurn(state, playerID)
	if err != nil {
		return Result{State: state}, err
	}
	if len(state.Pile) == 0 {
		return Result{State: state}, reject(ErrIllegalMove, "there is no pile to pick up")
	}
	return pickup(state, idx)
}

func pickup(state GameState, idx int) (Result, error) {
	next := state.Clone()
	p := &next.Players[idx]

	taken, removed := 0, 0
	for _, c := range next.Pile {
		switch {
		case c.Rank == Three || c.Rank == Eight || c.Rank == Ten:
			next.Discarded = append(next.Discarded, c)
			removed++
		case containsCard(p.Hand, c):
			// already held; a second copy must never enter the hand
		default:
			p.Hand = append(p.Hand, c)
			taken++
		}
	}
	next.Pile = nil
	next.CurrentPlayerID = next.NextPlayerID(p.ID)

	events := []Event{{Kind: EventPickedUp, PlayerID: p.ID, Count: taken, Removed: removed}}
	return finishTurn(next, p.ID, false, events), nil
}
