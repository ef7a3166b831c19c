package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player is a seat in a live game as the service sees it. Cards live in the engine state.
type Player struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	IsHost    bool            `json:"isHost"`
	IsBot     bool            `json:"isBot"`
	Connected bool            `json:"connected"`
	Conn      *websocket.Conn `json:"-"`

	User *User `json:"-"`
}
