// Package bot is a greedy computer opponent. It only reads public engine state for its own seat
// and moves through the engine's legality and apply operations.
package bot

import (
	"sort"

	"github.com/jason-s-yu/shithead/engine"
)

// MoveKind is what the bot decided to do.
type MoveKind string

const (
	MovePlay   MoveKind = "play"
	MovePickup MoveKind = "pickup"
	MoveDraw   MoveKind = "draw"
)

// Move is a decision for one turn. Play is set only for MovePlay.
type Move struct {
	Kind MoveKind
	Play engine.Play
}

// strength orders cards for keeping face-up: 10s and 2s first, then by rank value.
func strength(r engine.Rank) int {
	switch r {
	case engine.Ten:
		return 100
	case engine.Two:
		return 99
	}
	return engine.RankValue(r)
}

// ChooseFaceUp picks the hand indices of the strongest cards to place face-up.
func ChooseFaceUp(hand []engine.Card) []int {
	want := engine.FaceUpCount
	idx := make([]int, len(hand))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return strength(hand[idx[a]].Rank) > strength(hand[idx[b]].Rank)
	})
	if want > len(idx) {
		want = len(idx)
	}
	return idx[:want]
}

// ChooseMove picks the lowest legal non-special group from the accessible zone, falling back to
// specials, then to picking up. A face-down turn always flips the first card.
func ChooseMove(state engine.GameState, playerID string) Move {
	p, ok := state.Player(playerID)
	if !ok {
		return Move{Kind: MovePickup}
	}

	zone := p.PlayableZone()
	if zone == engine.ZoneFaceDown && len(p.FaceDownCards) > 0 {
		return Move{Kind: MovePlay, Play: engine.Play{Zone: zone, Index: 0}}
	}

	var cards []engine.Card
	if zone == engine.ZoneHand {
		cards = p.Hand
	} else {
		cards = p.FaceUpCards
	}

	if group, found := bestGroup(state.Pile, cards); found {
		return Move{Kind: MovePlay, Play: engine.Play{Zone: zone, Cards: group}}
	}
	if len(state.Pile) > 0 {
		return Move{Kind: MovePickup}
	}
	return Move{Kind: MoveDraw}
}

// bestGroup returns every copy of the cheapest legal rank, preferring ordinary ranks over specials.
func bestGroup(pile, cards []engine.Card) ([]engine.Card, bool) {
	groups := map[engine.Rank][]engine.Card{}
	for _, c := range cards {
		groups[c.Rank] = append(groups[c.Rank], c)
	}

	var best engine.Rank
	found := false
	for rank, group := range groups {
		if !engine.IsLegalPlay(pile, group).Legal {
			continue
		}
		if !found || better(rank, best) {
			best, found = rank, true
		}
	}
	if !found {
		return nil, false
	}
	return groups[best], true
}

func better(a, b engine.Rank) bool {
	as, bs := engine.IsSpecial(a), engine.IsSpecial(b)
	if as != bs {
		return !as
	}
	return engine.RankValue(a) < engine.RankValue(b)
}

// Apply runs move through the engine.
func Apply(state engine.GameState, playerID string, move Move) (engine.Result, error) {
	switch move.Kind {
	case MovePlay:
		return engine.ApplyPlay(state, playerID, move.Play)
	case MoveDraw:
		return engine.ApplyDraw(state, playerID)
	default:
		return engine.ApplyPickup(state, playerID)
	}
}
