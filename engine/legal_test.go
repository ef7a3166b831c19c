package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveTop(t *testing.T) {
	top, ok := EffectiveTop([]Card{card(Five, Spades), card(Eight, Hearts), card(Eight, Diamonds)})
	assert.True(t, ok)
	assert.Equal(t, card(Five, Spades), top)

	_, ok = EffectiveTop(nil)
	assert.False(t, ok)

	_, ok = EffectiveTop([]Card{card(Eight, Hearts), card(Eight, Clubs)})
	assert.False(t, ok)

	top, ok = EffectiveTop([]Card{card(Eight, Hearts), card(King, Clubs)})
	assert.True(t, ok)
	assert.Equal(t, King, top.Rank)
}

func TestTransparencyMatchesUnderlyingCard(t *testing.T) {
	transparent := []Card{card(Five, Spades), card(Eight, Hearts), card(Eight, Diamonds)}
	plain := []Card{card(Five, Spades)}
	for _, r := range Ranks {
		play := []Card{card(r, Clubs)}
		assert.Equal(t, IsLegalPlay(plain, play).Legal, IsLegalPlay(transparent, play).Legal, "rank %s", r)
	}
}

func TestIsLegalPlay(t *testing.T) {
	cases := []struct {
		name   string
		pile   []Card
		cards  []Card
		legal  bool
		reason string
	}{
		{"empty pile", nil, []Card{card(Four, Clubs)}, true, ""},
		{"all eights", []Card{card(Eight, Clubs), card(Eight, Hearts)}, []Card{card(Four, Clubs)}, true, ""},
		{"no cards", nil, nil, false, "no cards selected"},
		{"mixed ranks", nil, []Card{card(Four, Clubs), card(Five, Clubs)}, false, "all cards must share one rank"},
		{"higher", []Card{card(Six, Hearts)}, []Card{card(Nine, Clubs)}, true, ""},
		{"same rank", []Card{card(Six, Hearts)}, []Card{card(Six, Clubs)}, true, ""},
		{"lower", []Card{card(Nine, Hearts)}, []Card{card(Six, Clubs)}, false, "must play same or higher than 9"},
		{"ace over king", []Card{card(King, Hearts)}, []Card{card(Ace, Clubs)}, true, ""},
		{"king under ace", []Card{card(Ace, Hearts)}, []Card{card(King, Clubs)}, false, "must play same or higher than A"},
		{"two anywhere", []Card{card(Ace, Hearts)}, []Card{card(Two, Clubs)}, true, ""},
		{"seven on ace", []Card{card(Ace, Hearts)}, []Card{card(Seven, Clubs)}, true, ""},
		{"three on ace", []Card{card(Ace, Hearts)}, []Card{card(Three, Clubs)}, true, ""},
		{"anything on two", []Card{card(Two, Hearts)}, []Card{card(Four, Clubs)}, true, ""},
		{"eight dump", []Card{card(King, Hearts)}, []Card{card(Eight, Clubs)}, true, ""},
		{"ten dump", []Card{card(King, Hearts)}, []Card{card(Ten, Clubs)}, true, ""},
		{"lower on seven", []Card{card(Seven, Hearts)}, []Card{card(Five, Clubs)}, true, ""},
		{"seven on seven", []Card{card(Seven, Hearts)}, []Card{card(Seven, Clubs)}, true, ""},
		{"ten on seven", []Card{card(Seven, Hearts)}, []Card{card(Ten, Clubs)}, true, ""},
		{"nine on seven", []Card{card(Seven, Hearts)}, []Card{card(Nine, Clubs)}, false, "must play ≤7, a 7, or a special card"},
		{"ace on seven", []Card{card(Seven, Hearts)}, []Card{card(Ace, Clubs)}, false, "must play ≤7, a 7, or a special card"},
		{"three on three", []Card{card(Three, Hearts)}, []Card{card(Three, Clubs)}, true, ""},
		{"ten on three", []Card{card(Three, Hearts)}, []Card{card(Ten, Clubs)}, false, "must play a 3 or pick up the pile"},
		{"two on three", []Card{card(Three, Hearts)}, []Card{card(Two, Clubs)}, false, "must play a 3 or pick up the pile"},
		{"three under eights", []Card{card(Three, Hearts), card(Eight, Clubs)}, []Card{card(King, Clubs)}, false, "must play a 3 or pick up the pile"},
		{"group", []Card{card(Six, Hearts)}, []Card{card(Jack, Clubs), card(Jack, Hearts), card(Jack, Spades)}, true, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := IsLegalPlay(tc.pile, tc.cards)
			assert.Equal(t, tc.legal, v.Legal)
			assert.Equal(t, tc.reason, v.Reason)
		})
	}
}

func TestIsLegalPlayIsPure(t *testing.T) {
	pile := []Card{card(Six, Hearts), card(Eight, Clubs)}
	cards := []Card{card(Four, Spades)}
	first := IsLegalPlay(pile, cards)
	second := IsLegalPlay(pile, cards)
	assert.Equal(t, first, second)
	assert.Equal(t, []Card{card(Six, Hearts), card(Eight, Clubs)}, pile)
	assert.Equal(t, []Card{card(Four, Spades)}, cards)
}

func TestLegalRanks(t *testing.T) {
	assert.Equal(t, []Rank{Three}, LegalRanks([]Card{card(Three, Hearts)}))
	assert.Equal(t, []Rank{Three, Four, Five, Six, Seven, Eight, Ten, Two}, LegalRanks([]Card{card(Seven, Hearts)}))
	assert.Len(t, LegalRanks(nil), len(Ranks))
}

func TestRankValues(t *testing.T) {
	assert.Equal(t, 15, RankValue(Two))
	assert.Equal(t, 14, RankValue(Ace))
	assert.Equal(t, 3, RankValue(Three))
	assert.Equal(t, 0, RankValue("Z"))
	assert.True(t, IsSpecial(Eight))
	assert.False(t, IsSpecial(Nine))
}
