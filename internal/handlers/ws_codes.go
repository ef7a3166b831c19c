// internal/handlers/ws_codes.go
package handlers

import "github.com/coder/websocket"

// Custom WebSocket close codes used by the game socket.
const (
	BadSubprotocolError websocket.StatusCode = 3000 // Client connected without the "game" subprotocol.
	InvalidGameIDError  websocket.StatusCode = 3003 // No live game under the id in the URL.
	GameFullError       websocket.StatusCode = 3004
	GameStartedError    websocket.StatusCode = 3005 // The cards are dealt and the user holds no seat.
)
