package engine

// EventKind names something that happened while applying a move.
type EventKind string

const (
	EventDealt          EventKind = "dealt"
	EventFaceUpSelected EventKind = "face_up_selected"
	EventGameStarted    EventKind = "game_started"
	EventPlayed         EventKind = "played"
	EventBurn           EventKind = "burn"
	EventPileCleared    EventKind = "pile_cleared"
	EventExtraTurn      EventKind = "extra_turn"
	EventTurnPassed     EventKind = "turn_passed"
	EventDrew           EventKind = "drew"
	EventReplenished    EventKind = "replenished"
	EventPromoted       EventKind = "promoted"
	EventPickedUp       EventKind = "picked_up"
	EventGameOver       EventKind = "game_over"
)

// Event is a plain description of a state change. The engine emits events; hosts decide what to do with them.
//
// Field use by kind:
//   - played: Zone, Cards, Rank
//   - burn: Rank, Count (cards burned)
//   - pile_cleared: Rank, Count
//   - turn_passed: PlayerID is the player now to move
//   - drew / replenished: Cards drawn
//   - promoted: Zone promoted into hand, Count
//   - picked_up: Count picked up, Removed specials discarded
//   - game_over: PlayerID is the winner
type Event struct {
	Kind     EventKind `json:"kind"`
	PlayerID string    `json:"playerId,omitempty"`
	Zone     Zone      `json:"zone,omitempty"`
	Cards    []Card    `json:"cards,omitempty"`
	Rank     Rank      `json:"rank,omitempty"`
	Count    int       `json:"count,omitempty"`
	Removed  int       `json:"removed,omitempty"`
}

// Result is the outcome of an accepted operation.
type Result struct {
	State  GameState
	Events []Event
}
