// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/shithead/engine"
	"github.com/jason-s-yu/shithead/internal/bot"
	"github.com/jason-s-yu/shithead/internal/cache"
	"github.com/jason-s-yu/shithead/internal/database"
	"github.com/jason-s-yu/shithead/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	ErrGameStarted = errors.New("game has already started")
	ErrGameFull    = errors.New("game is full")
)

// OnGameEndFunc is called once when a game finishes. winner is uuid.Nil when nobody won.
type OnGameEndFunc func(gameID uuid.UUID, winner uuid.UUID)

// GameEventType is an enum-like type for broadcasting game actions.
type GameEventType string

const (
	EventPrivateDealt      GameEventType = "private_dealt"          // a player's own dealt hand
	EventPlayerFaceUp      GameEventType = "player_faceup_selected" // face-up cards are public once chosen
	EventGameStart         GameEventType = "game_start"
	EventPlayerPlay        GameEventType = "player_play"
	EventPileBurn          GameEventType = "pile_burn"
	EventPileCleared       GameEventType = "pile_cleared"
	EventPlayerExtraTurn   GameEventType = "player_extra_turn"
	EventPlayerDraw        GameEventType = "player_draw"  // public: how many cards were drawn
	EventPrivateDraw       GameEventType = "private_draw" // private: which cards
	EventPlayerPromote     GameEventType = "player_promote"
	EventPlayerPickup      GameEventType = "player_pickup"
	EventGamePlayerTurn    GameEventType = "game_player_turn"
	EventPrivateSyncState  GameEventType = "private_sync_state"
	EventPrivateActionFail GameEventType = "private_action_fail"
	EventGameEnd           GameEventType = "game_end"
)

// EventUser is used within GameEvent payloads for user identification.
type EventUser struct {
	ID uuid.UUID `json:"id"`
}

// EventCard is a revealed card.
type EventCard struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// GameEvent holds data about an event that can be broadcast to the clients in a consistent format.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	User    *EventUser             `json:"user,omitempty"`
	Cards   []EventCard            `json:"cards,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	State   *ObfGameState          `json:"state,omitempty"`
}

// ShitheadGame is one live table. The engine state is the source of truth for cards; the game
// adds seats, connections, timers, bots and the outbound event stream around it.
type ShitheadGame struct {
	ID         uuid.UUID
	Seats      int
	HouseRules HouseRules
	CreatedAt  time.Time

	Players []*models.Player
	State   engine.GameState

	TurnID   int
	GameOver bool

	turnTimer   *time.Timer
	autoTimer   *time.Timer
	actionIndex int
	newDeck     func() ([]engine.Card, error)
	log         *logrus.Entry

	Mu sync.Mutex

	// BroadcastFn is used to send events to all players. If nil, no broadcast is done.
	BroadcastFn func(ev GameEvent)

	// BroadcastToPlayerFn sends an event to a single specific player.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)

	OnGameEnd OnGameEndFunc
}

// NewShitheadGame builds an empty table with default house rules and room for MaxPlayers.
func NewShitheadGame(logger *logrus.Logger) *ShitheadGame {
	id, _ := uuid.NewRandom()
	return &ShitheadGame{
		ID:         id,
		Seats:      engine.MaxPlayers,
		HouseRules: DefaultHouseRules(),
		CreatedAt:  time.Now(),
		newDeck:    engine.CreateDeck,
		log:        logger.WithField("game_id", id),
	}
}

// AddPlayer seats p, or refreshes its connection if it is already seated. The first seat hosts.
func (g *ShitheadGame) AddPlayer(p *models.Player) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if existing := g.getPlayerByID(p.ID); existing != nil {
		existing.Conn = p.Conn
		existing.Connected = true
		g.logAction(p.ID, "player_add", map[string]interface{}{"reconnect": true})
		return nil
	}
	if g.State.SetupPhase || g.State.GameStarted || g.GameOver {
		return ErrGameStarted
	}
	if len(g.Players) >= g.Seats {
		return ErrGameFull
	}

	p.IsHost = len(g.Players) == 0
	g.Players = append(g.Players, p)
	g.log.WithFields(logrus.Fields{"player_id": p.ID, "bot": p.IsBot}).Info("player seated")
	g.logAction(p.ID, "player_add", map[string]interface{}{"reconnect": false, "bot": p.IsBot})
	return nil
}

// Full reports whether every seat is taken.
func (g *ShitheadGame) Full() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return len(g.Players) >= g.Seats
}

// BeginSetup deals the table and opens face-up selection. Bots choose immediately.
func (g *ShitheadGame) BeginSetup() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.State.SetupPhase || g.State.GameStarted || g.GameOver {
		return ErrGameStarted
	}
	if len(g.Players) < engine.MinPlayers {
		return fmt.Errorf("need at least %d players, have %d", engine.MinPlayers, len(g.Players))
	}

	seats := make([]engine.Player, len(g.Players))
	for i, p := range g.Players {
		seats[i] = engine.Player{ID: seatID(p.ID), Name: p.Name, IsHost: p.IsHost}
	}
	deck, err := g.newDeck()
	if err != nil {
		g.abort(err)
		return fmt.Errorf("create deck: %w", err)
	}
	res, err := engine.Setup(engine.NewGameState(seats, g.HouseRules.engineRules()), deck)
	if err != nil {
		g.abort(err)
		return fmt.Errorf("setup: %w", err)
	}

	g.State = res.State
	g.logAction(uuid.Nil, models.ActionBeginSetup, map[string]interface{}{"players": len(seats)})
	g.persistInitialGameState(deck)
	for _, ev := range res.Events {
		g.publishEvent(uuid.Nil, ev)
	}
	g.log.WithField("players", len(seats)).Info("cards dealt")

	for _, p := range g.Players {
		if p.IsBot {
			g.autoSelectFaceUp(p.ID)
		}
	}
	return nil
}

// autoSelectFaceUp completes playerID's face-up selection with the bot's choice. Assumes lock is held.
func (g *ShitheadGame) autoSelectFaceUp(playerID uuid.UUID) {
	seat, ok := g.State.Player(seatID(playerID))
	if !ok || seat.IsReady {
		return
	}
	choice := bot.ChooseFaceUp(seat.Hand)
	if need := engine.FaceUpCount - len(seat.FaceUpCards); need < len(choice) {
		choice = choice[:need]
	}
	res, err := engine.ApplySelectFaceUp(g.State, seat.ID, choice)
	if err != nil {
		g.log.WithError(err).WithField("player_id", playerID).Error("automatic face-up selection rejected")
		return
	}
	g.commit(playerID, res)
}

// persistInitialGameState saves the shuffled deck and what each seat was dealt, so a replay
// can reconstruct the table. Assumes lock is held.
func (g *ShitheadGame) persistInitialGameState(deck []engine.Card) {
	type dealtSeat struct {
		Hand          []engine.Card `json:"hand"`
		FaceDownCards []engine.Card `json:"faceDownCards"`
	}
	snap := struct {
		Deck    []engine.Card        `json:"deck"`
		Players map[string]dealtSeat `json:"players"`
	}{
		Deck:    append([]engine.Card(nil), deck...),
		Players: make(map[string]dealtSeat, len(g.State.Players)),
	}
	for _, p := range g.State.Players {
		snap.Players[p.ID] = dealtSeat{
			Hand:          append([]engine.Card(nil), p.Hand...),
			FaceDownCards: append([]engine.Card(nil), p.FaceDownCards...),
		}
	}

	if !database.Enabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.UpsertInitialGameState(ctx, g.ID, snap); err != nil {
			g.log.WithError(err).Error("failed to persist initial game state")
		}
	}()
}

// HandlePlayerAction applies one inbound action. Rejections go back privately and leave the table untouched.
// Assumes lock is held by the caller (e.g., the WS handler).
func (g *ShitheadGame) HandlePlayerAction(playerID uuid.UUID, action models.GameAction) {
	if g.GameOver {
		g.fail(playerID, "game_over", "The game is over.")
		return
	}
	if g.getPlayerByID(playerID) == nil {
		g.log.WithField("player_id", playerID).Warn("action from unknown player ignored")
		return
	}

	seat := seatID(playerID)
	var (
		res engine.Result
		err error
	)
	switch action.ActionType {
	case models.ActionSelectFaceUp:
		indices, perr := parseIndices(action.Payload)
		if perr != nil {
			g.fail(playerID, "invalid_selection", perr.Error())
			return
		}
		res, err = engine.ApplySelectFaceUp(g.State, seat, indices)
	case models.ActionPlay, models.ActionPlayFaceUp:
		cards, perr := parseCards(action.Payload)
		if perr != nil {
			g.fail(playerID, "invalid_selection", perr.Error())
			return
		}
		zone := engine.ZoneHand
		if action.ActionType == models.ActionPlayFaceUp {
			zone = engine.ZoneFaceUp
		}
		res, err = engine.ApplyPlay(g.State, seat, engine.Play{Zone: zone, Cards: cards})
	case models.ActionPlayFaceDown:
		idx, perr := parseIndex(action.Payload, "idx")
		if perr != nil {
			g.fail(playerID, "invalid_selection", perr.Error())
			return
		}
		res, err = engine.ApplyPlay(g.State, seat, engine.Play{Zone: engine.ZoneFaceDown, Index: idx})
	case models.ActionDraw:
		res, err = engine.ApplyDraw(g.State, seat)
	case models.ActionPickup:
		res, err = engine.ApplyPickup(g.State, seat)
	default:
		g.fail(playerID, "unknown_action", "Unknown action type.")
		return
	}

	if err != nil {
		g.log.WithFields(logrus.Fields{"player_id": playerID, "action": action.ActionType}).WithError(err).Debug("move rejected")
		g.fail(playerID, errorCode(err), engine.Reason(err))
		return
	}
	g.commit(playerID, res)
}

// commit installs an accepted engine result and drives everything that follows from it.
// Assumes lock is held.
func (g *ShitheadGame) commit(actorID uuid.UUID, res engine.Result) {
	g.State = res.State
	for _, ev := range res.Events {
		g.publishEvent(actorID, ev)
	}
	if err := engine.VerifyConservation(g.State); err != nil {
		g.abort(err)
		return
	}
	g.sendSyncState(actorID)

	if g.State.GameOver {
		g.EndGame()
		return
	}
	if g.State.GameStarted {
		g.startTurn()
	}
}

// startTurn opens a new turn for the current player. Bots and disconnected players are
// moved for after the bot delay; connected humans get the turn timer. Assumes lock is held.
func (g *ShitheadGame) startTurn() {
	g.TurnID++
	g.stopTimers()
	g.broadcastPlayerTurn()

	cur := g.currentPlayer()
	if cur == nil {
		return
	}
	if cur.IsBot || !cur.Connected {
		g.scheduleAutoMove(g.HouseRules.botDelay())
		return
	}
	g.scheduleTurnTimer()
}

// scheduleTurnTimer arms the timer for the current turn if the house rules enable one.
// Assumes lock is held.
func (g *ShitheadGame) scheduleTurnTimer() {
	d := g.HouseRules.turnDuration()
	if d <= 0 {
		return
	}
	if g.turnTimer != nil {
		g.turnTimer.Stop()
	}
	turnID := g.TurnID
	g.turnTimer = time.AfterFunc(d, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if g.GameOver || !g.State.GameStarted || g.TurnID != turnID {
			return
		}
		cur := g.currentPlayer()
		if cur == nil {
			return
		}
		g.log.WithFields(logrus.Fields{"player_id": cur.ID, "turn": turnID}).Info("turn timer expired")
		g.logAction(cur.ID, models.ActionTurnTimeout, map[string]interface{}{"turn": turnID})
		g.autoMove(cur.ID)
	})
}

// scheduleAutoMove runs the bot policy for the current player after delay. Assumes lock is held.
func (g *ShitheadGame) scheduleAutoMove(delay time.Duration) {
	if g.autoTimer != nil {
		g.autoTimer.Stop()
	}
	turnID := g.TurnID
	g.autoTimer = time.AfterFunc(delay, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if g.GameOver || !g.State.GameStarted || g.TurnID != turnID {
			return
		}
		cur := g.currentPlayer()
		// a reconnected human takes the turn back
		if cur == nil || (!cur.IsBot && cur.Connected) {
			return
		}
		g.autoMove(cur.ID)
	})
}

// autoMove plays the bot policy's choice for playerID. Assumes lock is held.
func (g *ShitheadGame) autoMove(playerID uuid.UUID) {
	seat := seatID(playerID)
	move := bot.ChooseMove(g.State, seat)
	res, err := bot.Apply(g.State, seat, move)
	if err != nil {
		g.log.WithError(err).WithFields(logrus.Fields{"player_id": playerID, "move": move.Kind}).Error("automatic move rejected")
		return
	}
	g.commit(playerID, res)
}

func (g *ShitheadGame) stopTimers() {
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}
	if g.autoTimer != nil {
		g.autoTimer.Stop()
		g.autoTimer = nil
	}
}

// broadcastPlayerTurn notifies all players whose turn it is now. Assumes lock is held.
func (g *ShitheadGame) broadcastPlayerTurn() {
	cur := g.currentPlayer()
	if cur == nil {
		return
	}
	payload := map[string]interface{}{"turn": g.TurnID}
	if seat, ok := g.State.Player(g.State.CurrentPlayerID); ok {
		payload["zone"] = seat.PlayableZone()
	}
	g.emit(cur.ID, GameEvent{
		Type:    EventGamePlayerTurn,
		User:    &EventUser{ID: cur.ID},
		Payload: payload,
	})
}

// publishEvent translates one engine event into the outbound stream. Assumes lock is held.
func (g *ShitheadGame) publishEvent(actorID uuid.UUID, ev engine.Event) {
	who := playerUUID(ev.PlayerID)
	if who == uuid.Nil {
		who = actorID
	}
	user := &EventUser{ID: who}

	switch ev.Kind {
	case engine.EventDealt:
		seat, _ := g.State.Player(ev.PlayerID)
		g.fireEventToPlayer(who, GameEvent{
			Type:    EventPrivateDealt,
			User:    user,
			Cards:   toEventCards(seat.Hand),
			Payload: map[string]interface{}{"faceDownCount": len(seat.FaceDownCards)},
		})
		g.logAction(who, string(EventPrivateDealt), map[string]interface{}{"count": ev.Count})
	case engine.EventFaceUpSelected:
		g.emit(who, GameEvent{Type: EventPlayerFaceUp, User: user, Cards: toEventCards(ev.Cards)})
	case engine.EventGameStarted:
		g.emit(who, GameEvent{Type: EventGameStart, User: user})
	case engine.EventPlayed:
		g.emit(who, GameEvent{
			Type:    EventPlayerPlay,
			User:    user,
			Cards:   toEventCards(ev.Cards),
			Payload: map[string]interface{}{"zone": ev.Zone, "rank": ev.Rank},
		})
	case engine.EventBurn:
		g.emit(who, GameEvent{Type: EventPileBurn, User: user, Payload: map[string]interface{}{"rank": ev.Rank, "count": ev.Count}})
	case engine.EventPileCleared:
		g.emit(who, GameEvent{Type: EventPileCleared, User: user, Payload: map[string]interface{}{"rank": ev.Rank, "count": ev.Count}})
	case engine.EventExtraTurn:
		g.emit(who, GameEvent{Type: EventPlayerExtraTurn, User: user})
	case engine.EventDrew, engine.EventReplenished:
		g.emit(who, GameEvent{
			Type:    EventPlayerDraw,
			User:    user,
			Payload: map[string]interface{}{"count": len(ev.Cards), "replenish": ev.Kind == engine.EventReplenished},
		})
		g.fireEventToPlayer(who, GameEvent{Type: EventPrivateDraw, User: user, Cards: toEventCards(ev.Cards)})
	case engine.EventPromoted:
		g.emit(who, GameEvent{Type: EventPlayerPromote, User: user, Payload: map[string]interface{}{"zone": ev.Zone, "count": ev.Count}})
	case engine.EventPickedUp:
		g.emit(who, GameEvent{
			Type:    EventPlayerPickup,
			User:    user,
			Payload: map[string]interface{}{"count": ev.Count, "removed": ev.Removed},
		})
	case engine.EventTurnPassed, engine.EventGameOver:
		// covered by the turn and game_end broadcasts
	}
}

// emit broadcasts ev and records it for the historian. Assumes lock is held.
func (g *ShitheadGame) emit(actorID uuid.UUID, ev GameEvent) {
	g.fireEvent(ev)
	payload := make(map[string]interface{}, len(ev.Payload)+1)
	for k, v := range ev.Payload {
		payload[k] = v
	}
	if len(ev.Cards) > 0 {
		payload["cards"] = ev.Cards
	}
	g.logAction(actorID, string(ev.Type), payload)
}

func (g *ShitheadGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

// fireEventToPlayer sends an event only to a specific connected player. Assumes lock is held.
func (g *ShitheadGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn == nil {
		return
	}
	if p := g.getPlayerByID(playerID); p != nil && p.Connected && !p.IsBot {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

func (g *ShitheadGame) fail(playerID uuid.UUID, code, message string) {
	g.fireEventToPlayer(playerID, GameEvent{
		Type:    EventPrivateActionFail,
		Payload: map[string]interface{}{"code": code, "message": message},
	})
}

// errorCode names the kind of an engine rejection for clients.
func errorCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrOutOfTurn):
		return "out_of_turn"
	case errors.Is(err, engine.ErrInvalidSelection):
		return "invalid_selection"
	case errors.Is(err, engine.ErrEmptyDeckDraw):
		return "empty_deck"
	case errors.Is(err, engine.ErrGameOver):
		return "game_over"
	case errors.Is(err, engine.ErrWrongPhase):
		return "wrong_phase"
	}
	return "illegal_move"
}

// HandleDisconnect processes a player's disconnection.
func (g *ShitheadGame) HandleDisconnect(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p := g.getPlayerByID(playerID)
	if p == nil || !p.Connected {
		return
	}
	p.Connected = false
	p.Conn = nil
	g.log.WithField("player_id", playerID).Info("player disconnected")
	g.logAction(playerID, "player_disconnect", nil)

	live := g.State.SetupPhase || g.State.GameStarted
	if live && !g.GameOver && g.HouseRules.ForfeitOnDisconnect && !g.enoughConnected() {
		g.log.Info("not enough connected players left, ending game")
		g.EndGame()
		return
	}

	g.broadcastSyncStateToAll()

	switch {
	case g.GameOver:
	case g.State.SetupPhase:
		g.autoSelectFaceUp(playerID)
	case g.State.GameStarted && g.State.CurrentPlayerID == seatID(playerID):
		g.scheduleAutoMove(g.HouseRules.botDelay())
	}
}

// HandleReconnect marks a player as connected again and resends their view of the table.
func (g *ShitheadGame) HandleReconnect(playerID uuid.UUID, conn *websocket.Conn) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p := g.getPlayerByID(playerID)
	if p == nil {
		if conn != nil {
			conn.Close(websocket.StatusPolicyViolation, "you are not seated in this game")
		}
		return
	}
	p.Connected = true
	p.Conn = conn
	g.log.WithField("player_id", playerID).Info("player reconnected")
	g.logAction(playerID, "player_reconnect", nil)

	g.broadcastSyncStateToAll()

	if g.State.GameStarted && !g.GameOver && g.State.CurrentPlayerID == seatID(playerID) {
		if g.autoTimer != nil {
			g.autoTimer.Stop()
			g.autoTimer = nil
		}
		g.scheduleTurnTimer()
	}
}

// enoughConnected reports whether the game can go on: two connected seats, one of them human.
func (g *ShitheadGame) enoughConnected() bool {
	seats, humans := 0, 0
	for _, p := range g.Players {
		if p.Connected || p.IsBot {
			seats++
			if !p.IsBot {
				humans++
			}
		}
	}
	return seats >= 2 && humans >= 1
}

// sendSyncState sends the obfuscated game state to a specific player. Assumes lock is held.
func (g *ShitheadGame) sendSyncState(playerID uuid.UUID) {
	state := g.obfuscatedState(playerID)
	g.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateSyncState, State: &state})
}

// broadcastSyncStateToAll sends each connected player their own view. Assumes lock is held.
func (g *ShitheadGame) broadcastSyncStateToAll() {
	for _, p := range g.Players {
		if p.Connected {
			g.sendSyncState(p.ID)
		}
	}
}

// SendSyncState is the locking form of sendSyncState, for freshly connected sockets.
func (g *ShitheadGame) SendSyncState(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.sendSyncState(playerID)
}

// EndGame stops the table, broadcasts the result, persists it and calls OnGameEnd.
// Assumes lock is held by caller.
func (g *ShitheadGame) EndGame() {
	if g.GameOver {
		return
	}
	g.GameOver = true
	g.stopTimers()

	winner := playerUUID(g.State.WinnerID)
	if winner == uuid.Nil {
		winner = g.lastStanding()
	}

	cardsLeft := make(map[string]int, len(g.Players))
	results := make([]database.PlayerResult, 0, len(g.Players))
	for _, p := range g.Players {
		left := 0
		if seat, ok := g.State.Player(seatID(p.ID)); ok {
			left = len(seat.Hand) + len(seat.FaceUpCards) + len(seat.FaceDownCards)
		}
		cardsLeft[p.ID.String()] = left
		results = append(results, database.PlayerResult{
			PlayerID:  p.ID,
			IsBot:     p.IsBot,
			DidWin:    p.ID == winner,
			CardsLeft: left,
		})
	}

	g.logAction(uuid.Nil, models.ActionEndGame, map[string]interface{}{
		"winner":    winner,
		"cardsLeft": cardsLeft,
	})
	g.persistResults(winner, results)

	g.fireEvent(GameEvent{
		Type: EventGameEnd,
		User: &EventUser{ID: winner},
		Payload: map[string]interface{}{
			"winner":    winner.String(),
			"cardsLeft": cardsLeft,
		},
	})

	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, winner)
	}
	g.log.WithField("winner", winner).Info("game ended")
}

// abort ends a table whose cards can no longer be trusted. Assumes lock is held.
func (g *ShitheadGame) abort(err error) {
	g.log.WithError(err).Error("card integrity failure, ending game")
	g.EndGame()
}

// lastStanding returns the only connected seat when a forfeit leaves one, otherwise uuid.Nil.
func (g *ShitheadGame) lastStanding() uuid.UUID {
	var last uuid.UUID
	n := 0
	for _, p := range g.Players {
		if p.Connected || p.IsBot {
			last = p.ID
			n++
		}
	}
	if n == 1 {
		return last
	}
	return uuid.Nil
}

// persistResults writes the final table and rating update in the background. Assumes lock is held.
func (g *ShitheadGame) persistResults(winner uuid.UUID, results []database.PlayerResult) {
	if !database.Enabled() {
		return
	}
	final := g.State.Clone()
	snapshot := map[string]interface{}{
		"winner":  winner,
		"players": final.Players,
		"pile":    final.Pile,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := database.StoreFinalGameState(ctx, g.ID, snapshot); err != nil {
			g.log.WithError(err).Error("failed to store final game state")
		}
		if err := database.RecordGameResult(ctx, g.ID, results, winner); err != nil {
			g.log.WithError(err).Error("failed to record game result")
		}
	}()
}

func (g *ShitheadGame) currentPlayer() *models.Player {
	if g.State.CurrentPlayerID == "" {
		return nil
	}
	return g.getPlayerByID(playerUUID(g.State.CurrentPlayerID))
}

// getPlayerByID is a helper to find a player struct by their ID. Assumes lock is held by caller.
func (g *ShitheadGame) getPlayerByID(playerID uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// logAction sends the action details to the historian service via Redis.
// Assumes lock is held by caller.
func (g *ShitheadGame) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	if cache.Rdb == nil {
		return
	}
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			g.log.WithError(err).WithField("action_index", rec.ActionIndex).Warn("failed to publish game action")
		}
	}(record)
}

// GameSummary is the lobby-list view of a game.
type GameSummary struct {
	ID        uuid.UUID  `json:"id"`
	Seats     int        `json:"seats"`
	Players   int        `json:"players"`
	Bots      int        `json:"bots"`
	Started   bool       `json:"started"`
	GameOver  bool       `json:"gameOver"`
	Rules     HouseRules `json:"houseRules"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Summary returns a GameSummary for listing.
func (g *ShitheadGame) Summary() GameSummary {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	s := GameSummary{
		ID:        g.ID,
		Seats:     g.Seats,
		Players:   len(g.Players),
		Started:   g.State.SetupPhase || g.State.GameStarted,
		GameOver:  g.GameOver,
		Rules:     g.HouseRules,
		CreatedAt: g.CreatedAt,
	}
	for _, p := range g.Players {
		if p.IsBot {
			s.Bots++
		}
	}
	return s
}
