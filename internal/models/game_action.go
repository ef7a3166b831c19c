package models

// Inbound action types accepted on the game socket.
const (
	ActionSelectFaceUp = "action_select_faceup"
	ActionPlay         = "action_play"
	ActionPlayFaceUp   = "action_play_faceup"
	ActionPlayFaceDown = "action_play_facedown"
	ActionDraw         = "action_draw"
	ActionPickup       = "action_pickup"
	ActionEndGame      = "action_end_game"
	ActionTurnTimeout  = "action_turn_timeout"
	ActionBeginSetup   = "action_begin_setup"
)

// GameAction captures a player's in-game move. Payload keys depend on the type:
// "cards" ([]{rank,suit}) for plays, "idx" for a face-down slot, "indices" for face-up selection.
type GameAction struct {
	ActionType string                 `json:"action_type"`
	Payload    map[string]interface{} `json:"payload"`
}
