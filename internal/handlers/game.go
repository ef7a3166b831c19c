// internal/handlers/game.go
package handlers

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jason-s-yu/shithead/internal/game"
)

type createGameRequest struct {
	Seats      int                    `json:"seats"`
	Bots       int                    `json:"bots"`
	HouseRules map[string]interface{} `json:"houseRules"`
}

// CreateGameHandler opens a table. Seats default to two; the caller takes a seat by
// connecting to /game/ws/{game_id}.
func CreateGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := EnsureEphemeralUser(w, r)
		if err != nil {
			http.Error(w, "failed to resolve user", http.StatusInternalServerError)
			return
		}

		req := createGameRequest{Seats: 2}
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid payload", http.StatusBadRequest)
				return
			}
		}

		g, err := gs.CreateGame(req.Seats, req.Bots, req.HouseRules)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gs.Logger.WithField("game_id", g.ID).WithField("user_id", user.ID).Debug("table opened")
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"game_id": g.ID,
			"game":    g.Summary(),
		})
	}
}

// ListGamesHandler returns every live table, oldest first.
func ListGamesHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games := gs.GameStore.ListGames()
		out := make([]game.GameSummary, 0, len(games))
		for _, g := range games {
			out = append(out, g.Summary())
		}
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
		writeJSON(w, http.StatusOK, out)
	}
}

// GameStateHandler returns the caller's view of one table.
func GameStateHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, err := uuid.Parse(chi.URLParam(r, "game_id"))
		if err != nil {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}
		g, ok := gs.GameStore.GetGame(gameID)
		if !ok {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		user, err := EnsureEphemeralUser(w, r)
		if err != nil {
			http.Error(w, "failed to resolve user", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, g.GetObfuscatedState(user.ID))
	}
}
