// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/shithead/engine"
)

// ObfPlayerState is one seat as seen by the requesting user. Face-up cards are public;
// the hand is only revealed to its owner and face-down cards only as a count.
type ObfPlayerState struct {
	PlayerID      uuid.UUID   `json:"player_id"`
	Name          string      `json:"name,omitempty"`
	IsBot         bool        `json:"isBot"`
	Connected     bool        `json:"connected"`
	IsCurrentTurn bool        `json:"isCurrentTurn"`
	IsReady       bool        `json:"isReady"`
	HandSize      int         `json:"hand_size"`
	FaceDownCount int         `json:"faceDownCount"`
	FaceUpCards   []EventCard `json:"faceUpCards"`
	Hand          []EventCard `json:"hand,omitempty"`
}

// ObfGameState is returned by GetObfuscatedState.
type ObfGameState struct {
	GameID          uuid.UUID        `json:"game_id"`
	SetupPhase      bool             `json:"setupPhase"`
	Started         bool             `json:"started"`
	GameOver        bool             `json:"gameOver"`
	CurrentPlayerID uuid.UUID        `json:"currentPlayerId"`
	WinnerID        uuid.UUID        `json:"winnerId"`
	DeckSize        int              `json:"deckSize"`
	PileSize        int              `json:"pileSize"`
	PileTop         *EventCard       `json:"pileTop,omitempty"`
	EffectiveTop    *EventCard       `json:"effectiveTop,omitempty"`
	Players         []ObfPlayerState `json:"players"`
	TurnID          int              `json:"turn"`
}

// GetObfuscatedState generates a snapshot of the game for the requesting user.
func (g *ShitheadGame) GetObfuscatedState(forUser uuid.UUID) ObfGameState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.obfuscatedState(forUser)
}

// obfuscatedState assumes the lock is held.
func (g *ShitheadGame) obfuscatedState(forUser uuid.UUID) ObfGameState {
	s := g.State
	obf := ObfGameState{
		GameID:          g.ID,
		SetupPhase:      s.SetupPhase,
		Started:         s.GameStarted,
		GameOver:        g.GameOver,
		CurrentPlayerID: playerUUID(s.CurrentPlayerID),
		WinnerID:        playerUUID(s.WinnerID),
		DeckSize:        len(s.Deck),
		PileSize:        len(s.Pile),
		TurnID:          g.TurnID,
	}
	if top, ok := s.TopCard(); ok {
		obf.PileTop = &EventCard{Rank: string(top.Rank), Suit: string(top.Suit)}
	}
	if top, ok := engine.EffectiveTop(s.Pile); ok {
		obf.EffectiveTop = &EventCard{Rank: string(top.Rank), Suit: string(top.Suit)}
	}

	for _, pl := range g.Players {
		ps := ObfPlayerState{
			PlayerID:      pl.ID,
			Name:          pl.Name,
			IsBot:         pl.IsBot,
			Connected:     pl.Connected,
			IsCurrentTurn: seatID(pl.ID) == s.CurrentPlayerID,
			FaceUpCards:   []EventCard{},
		}
		if seat, ok := s.Player(seatID(pl.ID)); ok {
			ps.IsReady = seat.IsReady
			ps.HandSize = len(seat.Hand)
			ps.FaceDownCount = len(seat.FaceDownCards)
			if up := toEventCards(seat.FaceUpCards); up != nil {
				ps.FaceUpCards = up
			}
			if pl.ID == forUser {
				ps.Hand = toEventCards(seat.Hand)
			}
		}
		obf.Players = append(obf.Players, ps)
	}
	return obf
}
