// internal/handlers/game_server.go
package handlers

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/shithead/engine"
	"github.com/jason-s-yu/shithead/internal/config"
	"github.com/jason-s-yu/shithead/internal/game"
	"github.com/jason-s-yu/shithead/internal/models"
	"github.com/sirupsen/logrus"
)

// finishedGameTTL is how long a finished game stays reachable for late syncs.
const finishedGameTTL = 30 * time.Second

// GameServer holds the live games and their socket hubs.
type GameServer struct {
	GameStore *game.GameStore
	Logger    *logrus.Logger

	// OriginPatterns is handed to websocket.Accept.
	OriginPatterns []string

	defaults game.HouseRules

	mu   sync.Mutex
	hubs map[uuid.UUID]*hub
}

// NewGameServer builds a server whose games start from the timer and bot delay in cfg.
func NewGameServer(cfg *config.Config, logger *logrus.Logger) *GameServer {
	defaults := game.DefaultHouseRules()
	defaults.TurnTimerSec = int(cfg.TurnTimer / time.Second)
	defaults.BotDelayMs = int(cfg.BotDelay / time.Millisecond)
	origins := []string{"*"}
	if cfg.IsProduction() && len(cfg.AllowedOrigins) > 0 {
		origins = cfg.AllowedOrigins
	}
	return &GameServer{
		GameStore:      game.NewGameStore(),
		Logger:         logger,
		OriginPatterns: origins,
		defaults:       defaults,
		hubs:           make(map[uuid.UUID]*hub),
	}
}

// CreateGame builds a table with the given number of seats, fills bots of them with bots, and
// registers it. Human seats are taken by connecting to the game socket.
func (gs *GameServer) CreateGame(seats, bots int, rules map[string]interface{}) (*game.ShitheadGame, error) {
	if seats < engine.MinPlayers || seats > engine.MaxPlayers {
		return nil, fmt.Errorf("seats must be between %d and %d", engine.MinPlayers, engine.MaxPlayers)
	}
	if bots < 0 || bots >= seats {
		return nil, fmt.Errorf("bots must leave at least one seat for a human")
	}
	houseRules, err := game.ParseRules(rules, gs.defaults)
	if err != nil {
		return nil, err
	}

	g := game.NewShitheadGame(gs.Logger)
	g.Seats = seats
	g.HouseRules = houseRules

	h := newHub(g.ID, gs.Logger)
	g.BroadcastFn = h.broadcast
	g.BroadcastToPlayerFn = h.sendTo
	g.OnGameEnd = func(gameID uuid.UUID, winner uuid.UUID) {
		gs.Logger.WithFields(logrus.Fields{"game_id": gameID, "winner": winner}).Info("game finished")
		time.AfterFunc(finishedGameTTL, func() { gs.removeGame(gameID) })
	}

	for i := 0; i < bots; i++ {
		if err := g.AddPlayer(&models.Player{
			ID:        uuid.New(),
			Name:      fmt.Sprintf("Bot %d", i+1),
			IsBot:     true,
			Connected: true,
		}); err != nil {
			return nil, err
		}
	}

	gs.mu.Lock()
	gs.hubs[g.ID] = h
	gs.mu.Unlock()
	gs.GameStore.AddGame(g)
	gs.Logger.WithFields(logrus.Fields{"game_id": g.ID, "seats": seats, "bots": bots}).Info("game created")
	return g, nil
}

// startIfFull deals the table once every seat is taken.
func (gs *GameServer) startIfFull(g *game.ShitheadGame) error {
	if !g.Full() {
		return nil
	}
	if err := g.BeginSetup(); err != nil && !errors.Is(err, game.ErrGameStarted) {
		return err
	}
	return nil
}

func (gs *GameServer) hubFor(gameID uuid.UUID) (*hub, bool) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	h, ok := gs.hubs[gameID]
	return h, ok
}

func (gs *GameServer) removeGame(gameID uuid.UUID) {
	gs.mu.Lock()
	h := gs.hubs[gameID]
	delete(gs.hubs, gameID)
	gs.mu.Unlock()
	if h != nil {
		h.closeAll("game over")
	}
	gs.GameStore.DeleteGame(gameID)
}
