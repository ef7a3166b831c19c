package engine

const (
	MinPlayers = 2
	MaxPlayers = 5

	FaceDownCount = 3
	FaceUpCount   = 3
	DealHandCount = 6
	MinHandSize   = 3
	BurnCount     = 4
)

// Zone identifies which of a player's card areas a play comes from.
type Zone string

const (
	ZoneHand     Zone = "hand"
	ZoneFaceUp   Zone = "face_up"
	ZoneFaceDown Zone = "face_down"
)

// Player is one seat at the table.
type Player struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	IsHost        bool   `json:"isHost"`
	Hand          []Card `json:"hand"`
	FaceUpCards   []Card `json:"faceUpCards"`
	FaceDownCards []Card `json:"faceDownCards"`
	IsReady       bool   `json:"isReady"`
	IsActive      bool   `json:"isActive"`
}

// Finished reports whether the player has no cards left anywhere.
func (p Player) Finished() bool {
	return len(p.Hand) == 0 && len(p.FaceUpCards) == 0 && len(p.FaceDownCards) == 0
}

// PlayableZone returns the zone the player must currently play from.
func (p Player) PlayableZone() Zone {
	switch {
	case len(p.Hand) > 0:
		return ZoneHand
	case len(p.FaceUpCards) > 0:
		return ZoneFaceUp
	default:
		return ZoneFaceDown
	}
}

func (p Player) zoneCards(z Zone) []Card {
	switch z {
	case ZoneHand:
		return p.Hand
	case ZoneFaceUp:
		return p.FaceUpCards
	case ZoneFaceDown:
		return p.FaceDownCards
	}
	return nil
}

func (p Player) clone() Player {
	p.Hand = cloneCards(p.Hand)
	p.FaceUpCards = cloneCards(p.FaceUpCards)
	p.FaceDownCards = cloneCards(p.FaceDownCards)
	return p
}

// Rules are engine-level house rules.
type Rules struct {
	// PromoteZones moves face-up (then face-down) cards into the hand once the hand and deck run out.
	PromoteZones bool `json:"promoteZones"`
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{PromoteZones: true}
}

// GameState is the whole table. Deck and Pile are stacks whose last element is the top.
type GameState struct {
	Players         []Player `json:"players"`
	Deck            []Card   `json:"deck"`
	Pile            []Card   `json:"pile"`
	Discarded       []Card   `json:"discarded"`
	CurrentPlayerID string   `json:"currentPlayerId"`
	GameStarted     bool     `json:"gameStarted"`
	SetupPhase      bool     `json:"setupPhase"`
	GameOver        bool     `json:"gameOver"`
	WinnerID        string   `json:"winnerId,omitempty"`
	Rules           Rules    `json:"rules"`
}

// NewGameState seats the given players in order. Nothing is dealt yet.
func NewGameState(players []Player, rules Rules) GameState {
	seated := make([]Player, len(players))
	for i, p := range players {
		p = p.clone()
		p.IsActive = true
		p.IsReady = false
		seated[i] = p
	}
	return GameState{Players: seated, Rules: rules}
}

// Clone deep-copies the state so the copy can be changed without touching the original.
func (s GameState) Clone() GameState {
	out := s
	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		out.Players[i] = p.clone()
	}
	out.Deck = cloneCards(s.Deck)
	out.Pile = cloneCards(s.Pile)
	out.Discarded = cloneCards(s.Discarded)
	return out
}

// PlayerIndex returns the seat index of id, or -1.
func (s GameState) PlayerIndex(id string) int {
	for i, p := range s.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Player returns a copy of the player with the given id.
func (s GameState) Player(id string) (Player, bool) {
	i := s.PlayerIndex(id)
	if i < 0 {
		return Player{}, false
	}
	return s.Players[i].clone(), true
}

// NextPlayerID returns the id of the seat after id, wrapping around.
func (s GameState) NextPlayerID(id string) string {
	i := s.PlayerIndex(id)
	if i < 0 || len(s.Players) == 0 {
		return ""
	}
	return s.Players[(i+1)%len(s.Players)].ID
}

// TopCard returns the literal top of the pile.
func (s GameState) TopCard() (Card, bool) {
	if len(s.Pile) == 0 {
		return Card{}, false
	}
	return s.Pile[len(s.Pile)-1], true
}

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}

// popCard removes and returns the last card of a stack.
func popCard(stack *[]Card) (Card, bool) {
	n := len(*stack)
	if n == 0 {
		return Card{}, false
	}
	c := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	return c, true
}
