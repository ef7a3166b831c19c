package engine

import "fmt"

// Suit is one of the four French suits.
type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

// Rank is the face of a card: "A", "2".."10", "J", "Q", "K".
type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

// Suits and Ranks list every suit and rank in deck-building order.
var (
	Suits = []Suit{Hearts, Diamonds, Clubs, Spades}
	Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}
)

// rankValues orders ranks for comparison. 2 sits above the ace.
var rankValues = map[Rank]int{
	Three: 3,
	Four:  4,
	Five:  5,
	Six:   6,
	Seven: 7,
	Eight: 8,
	Nine:  9,
	Ten:   10,
	Jack:  11,
	Queen: 12,
	King:  13,
	Ace:   14,
	Two:   15,
}

// Card is an immutable (suit, rank) pair. Two cards with the same suit and rank are the same card.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// NewCard builds a card value.
func NewCard(rank Rank, suit Suit) Card {
	return Card{Suit: suit, Rank: rank}
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// Valid reports whether the card uses a known suit and rank.
func (c Card) Valid() bool {
	if _, ok := rankValues[c.Rank]; !ok {
		return false
	}
	switch c.Suit {
	case Hearts, Diamonds, Clubs, Spades:
		return true
	}
	return false
}

// RankValue returns the comparison value of a rank, or 0 for an unknown rank.
func RankValue(r Rank) int {
	return rankValues[r]
}

// IsSpecial reports whether the rank overrides ordinary comparison (2, 3, 7, 8, 10).
func IsSpecial(r Rank) bool {
	switch r {
	case Two, Three, Seven, Eight, Ten:
		return true
	}
	return false
}

// sameRank returns the shared rank of cards, or false when they differ or are empty.
func sameRank(cards []Card) (Rank, bool) {
	if len(cards) == 0 {
		return "", false
	}
	r := cards[0].Rank
	for _, c := range cards[1:] {
		if c.Rank != r {
			return "", false
		}
	}
	return r, true
}

func containsCard(cards []Card, target Card) bool {
	for _, c := range cards {
		if c == target {
			return true
		}
	}
	return false
}

func countRank(cards []Card, r Rank) int {
	n := 0
	for _, c := range cards {
		if c.Rank == r {
			n++
		}
	}
	return n
}
