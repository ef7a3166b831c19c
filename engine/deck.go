package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// DeckSize is the number of distinct cards in play.
const DeckSize = 52

// NewOrderedDeck returns the 52 cards in suit-then-rank order.
func NewOrderedDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// CreateDeck builds and shuffles a fresh deck.
func CreateDeck() ([]Card, error) {
	return CreateDeckFrom(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// CreateDeckFrom builds a deck shuffled with rng, so a seed reproduces the same order.
func CreateDeckFrom(rng *rand.Rand) ([]Card, error) {
	deck := NewOrderedDeck()
	Shuffle(deck, rng)
	if err := CheckDeck(deck); err != nil {
		return nil, err
	}
	return deck, nil
}

// Shuffle performs an in-place Fisher-Yates shuffle.
func Shuffle(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// CheckDeck verifies the deck is exactly the 52 distinct valid cards.
func CheckDeck(deck []Card) error {
	if len(deck) != DeckSize {
		return fmt.Errorf("%w: deck has %d cards, want %d", ErrDeckIntegrity, len(deck), DeckSize)
	}
	return checkUnique(deck)
}

func checkUnique(cards []Card) error {
	seen := make(map[Card]struct{}, len(cards))
	for _, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("%w: unknown card %v", ErrDeckIntegrity, c)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: duplicate card %v", ErrDeckIntegrity, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// DealResult holds what Deal handed out. Hands and FaceDown are indexed like the input players.
type DealResult struct {
	Hands         [][]Card
	FaceDownCards [][]Card
	RemainingDeck []Card
}

// Deal pops three face-down cards then six hand cards for each player in order.
// The input deck is not modified.
func Deal(players []Player, deck []Card) (DealResult, error) {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return DealResult{}, fmt.Errorf("%w: %d players, need %d to %d", ErrNotEnoughCards, len(players), MinPlayers, MaxPlayers)
	}
	if err := checkUnique(deck); err != nil {
		return DealResult{}, err
	}
	need := len(players) * (FaceDownCount + DealHandCount)
	if len(deck) < need {
		return DealResult{}, fmt.Errorf("%w: deck has %d cards, deal needs %d", ErrNotEnoughCards, len(deck), need)
	}

	remaining := cloneCards(deck)
	res := DealResult{
		Hands:         make([][]Card, len(players)),
		FaceDownCards: make([][]Card, len(players)),
	}
	for i := range players {
		for n := 0; n < FaceDownCount; n++ {
			c, _ := popCard(&remaining)
			res.FaceDownCards[i] = append(res.FaceDownCards[i], c)
		}
		for n := 0; n < DealHandCount; n++ {
			c, _ := popCard(&remaining)
			res.Hands[i] = append(res.Hands[i], c)
		}
	}
	res.RemainingDeck = remaining

	// every card of the input must land in exactly one place
	all := cloneCards(remaining)
	for i := range players {
		all = append(all, res.Hands[i]...)
		all = append(all, res.FaceDownCards[i]...)
	}
	if len(all) != len(deck) {
		return DealResult{}, fmt.Errorf("%w: dealt %d cards from a deck of %d", ErrDeckIntegrity, len(all), len(deck))
	}
	if err := checkUnique(all); err != nil {
		return DealResult{}, err
	}
	return res, nil
}
