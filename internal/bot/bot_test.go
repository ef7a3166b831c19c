package bot

import (
	"math/rand"
	"testing"

	"github.com/jason-s-yu/shithead/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func c(r engine.Rank, s engine.Suit) engine.Card { return engine.NewCard(r, s) }

func started(players []engine.Player, pile []engine.Card) engine.GameState {
	return engine.GameState{
		Players:         players,
		Pile:            pile,
		CurrentPlayerID: players[0].ID,
		GameStarted:     true,
		Rules:           engine.DefaultRules(),
	}
}

func TestChooseFaceUpKeepsStrongest(t *testing.T) {
	hand := []engine.Card{
		c(engine.Four, engine.Hearts), c(engine.Two, engine.Clubs), c(engine.King, engine.Spades),
		c(engine.Five, engine.Hearts), c(engine.Ten, engine.Diamonds), c(engine.Six, engine.Clubs),
	}
	assert.Equal(t, []int{4, 1, 2}, ChooseFaceUp(hand))
	assert.Len(t, ChooseFaceUp(hand[:2]), 2)
}

func TestChooseMovePlaysLowestOrdinaryGroup(t *testing.T) {
	state := started([]engine.Player{
		{ID: "bot", Hand: []engine.Card{
			c(engine.Nine, engine.Hearts), c(engine.Six, engine.Hearts), c(engine.Six, engine.Clubs),
			c(engine.Two, engine.Spades), c(engine.Four, engine.Clubs),
		}},
		{ID: "human"},
	}, []engine.Card{c(engine.Five, engine.Diamonds)})

	m := ChooseMove(state, "bot")
	require.Equal(t, MovePlay, m.Kind)
	assert.Equal(t, engine.ZoneHand, m.Play.Zone)
	assert.ElementsMatch(t, []engine.Card{c(engine.Six, engine.Hearts), c(engine.Six, engine.Clubs)}, m.Play.Cards)
}

func TestChooseMoveFallsBackToSpecial(t *testing.T) {
	state := started([]engine.Player{
		{ID: "bot", Hand: []engine.Card{c(engine.Four, engine.Clubs), c(engine.Ten, engine.Hearts), c(engine.Two, engine.Spades)}},
		{ID: "human"},
	}, []engine.Card{c(engine.King, engine.Diamonds)})

	m := ChooseMove(state, "bot")
	require.Equal(t, MovePlay, m.Kind)
	assert.Equal(t, []engine.Card{c(engine.Ten, engine.Hearts)}, m.Play.Cards)
}

func TestChooseMovePicksUpWhenStuck(t *testing.T) {
	state := started([]engine.Player{
		{ID: "bot", Hand: []engine.Card{c(engine.Four, engine.Clubs), c(engine.King, engine.Hearts)}},
		{ID: "human"},
	}, []engine.Card{c(engine.Three, engine.Diamonds)})

	assert.Equal(t, MovePickup, ChooseMove(state, "bot").Kind)
}

func TestChooseMoveZones(t *testing.T) {
	state := started([]engine.Player{
		{ID: "bot", FaceUpCards: []engine.Card{c(engine.Queen, engine.Clubs)}, FaceDownCards: []engine.Card{c(engine.Four, engine.Clubs)}},
		{ID: "human"},
	}, nil)
	m := ChooseMove(state, "bot")
	assert.Equal(t, engine.ZoneFaceUp, m.Play.Zone)

	state.Players[0].FaceUpCards = nil
	m = ChooseMove(state, "bot")
	assert.Equal(t, engine.Play{Zone: engine.ZoneFaceDown, Index: 0}, m.Play)
}

// Two bots play a full game against each other through the engine.
func TestBotsFinishAGame(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		state := engine.NewGameState([]engine.Player{{ID: "a"}, {ID: "b"}, {ID: "c"}}, engine.DefaultRules())
		deck, err := engine.CreateDeckFrom(rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		res, err := engine.Setup(state, deck)
		require.NoError(t, err)
		state = res.State
		for _, p := range state.Players {
			res, err = engine.ApplySelectFaceUp(state, p.ID, ChooseFaceUp(p.Hand))
			require.NoError(t, err)
			state = res.State
		}

		for turn := 0; turn < 2000 && !state.GameOver; turn++ {
			res, err := Apply(state, state.CurrentPlayerID, ChooseMove(state, state.CurrentPlayerID))
			require.NoError(t, err, "seed %d turn %d", seed, turn)
			state = res.State
			require.NoError(t, engine.VerifyConservation(state))
		}
		assert.True(t, state.GameOver, "seed %d did not finish", seed)
	}
}
