// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jason-s-yu/shithead/internal/game"
	"github.com/jason-s-yu/shithead/internal/middleware"
	"github.com/jason-s-yu/shithead/internal/models"
	"github.com/sirupsen/logrus"
)

// GameMessage is the envelope of every inbound socket message. The remaining top-level keys
// ("cards", "idx", "indices") become the action payload.
type GameMessage struct {
	Type string `json:"type"`
}

// GameWSHandler upgrades the HTTP connection to WebSocket for a specific game instance.
// A user without a seat takes one while the table is open; a seated user reconnects.
// The deal starts as soon as the last seat is taken.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// auth first, since it may need to set a cookie on the upgrade response
		user, err := EnsureEphemeralUser(w, r)
		if err != nil {
			logger.WithError(err).Warn("game socket authentication failed")
			http.Error(w, "authentication failed", http.StatusUnauthorized)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: gs.OriginPatterns,
		})
		if err != nil {
			logger.WithError(err).Warn("websocket accept failed")
			return
		}
		if c.Subprotocol() != "game" {
			c.Close(BadSubprotocolError, "client must use the game subprotocol")
			return
		}

		gameID, err := uuid.Parse(chi.URLParam(r, "game_id"))
		if err != nil {
			c.Close(InvalidGameIDError, "invalid game id")
			return
		}
		g, ok := gs.GameStore.GetGame(gameID)
		h, hok := gs.hubFor(gameID)
		if !ok || !hok {
			c.Close(InvalidGameIDError, "game not found")
			return
		}

		player := &models.Player{ID: user.ID, Name: user.Username, Connected: true, Conn: c, User: user}
		if err := g.AddPlayer(player); err != nil {
			switch {
			case errors.Is(err, game.ErrGameFull):
				c.Close(GameFullError, "game is full")
			default:
				c.Close(GameStartedError, "game has already started")
			}
			return
		}

		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)
		client := h.register(user.ID, c)
		g.HandleReconnect(user.ID, c)
		if err := gs.startIfFull(g); err != nil {
			logger.WithError(err).WithField("game_id", gameID).Error("failed to deal")
		}

		err = readGameMessages(r.Context(), c, g, h, user.ID, logger)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, err)

		// a newer socket of the same user has taken over; the seat stays connected
		if h.unregister(client) {
			g.HandleDisconnect(user.ID)
		}
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// readGameMessages reads until the socket fails, routing every action to the game under its lock.
func readGameMessages(ctx context.Context, c *websocket.Conn, g *game.ShitheadGame, h *hub, userID uuid.UUID, logger *logrus.Logger) error {
	log := logger.WithFields(logrus.Fields{"game_id": g.ID, "user_id": userID})
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			continue
		}

		action, err := decodeAction(data)
		if err != nil {
			log.WithError(err).Debug("invalid message")
			h.sendRaw(userID, errorMessage("invalid JSON format"))
			continue
		}

		switch action.ActionType {
		case "ping":
			h.sendRaw(userID, []byte(`{"type":"pong"}`))
		case "sync":
			g.SendSyncState(userID)
		default:
			g.Mu.Lock()
			g.HandlePlayerAction(userID, action)
			g.Mu.Unlock()
		}
	}
}

// decodeAction turns a raw socket message into a GameAction.
func decodeAction(data []byte) (models.GameAction, error) {
	var msg GameMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return models.GameAction{}, err
	}
	if msg.Type == "" {
		return models.GameAction{}, errors.New("missing type")
	}
	payload := map[string]interface{}{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return models.GameAction{}, err
	}
	delete(payload, "type")
	// a nested payload object is accepted too
	if inner, ok := payload["payload"].(map[string]interface{}); ok {
		delete(payload, "payload")
		for k, v := range inner {
			payload[k] = v
		}
	}
	return models.GameAction{ActionType: msg.Type, Payload: payload}, nil
}

func errorMessage(msg string) []byte {
	data, _ := json.Marshal(map[string]string{"type": "error", "message": msg})
	return data
}
