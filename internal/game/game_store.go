package game

import (
	"sync"

	"github.com/google/uuid"
)

type GameStore struct {
	mu    sync.Mutex
	games map[uuid.UUID]*ShitheadGame
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[uuid.UUID]*ShitheadGame),
	}
}

func (s *GameStore) AddGame(game *ShitheadGame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game
}

func (s *GameStore) GetGame(id uuid.UUID) (*ShitheadGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.games[id]
	return g, exists
}

func (s *GameStore) DeleteGame(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// ListGames returns every game currently held, in no particular order.
func (s *GameStore) ListGames() []*ShitheadGame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*ShitheadGame, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, g)
	}
	return out
}
