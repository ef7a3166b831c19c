// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/shithead/internal/rating"
)

// PlayerResult is one row of game_results.
type PlayerResult struct {
	PlayerID  uuid.UUID
	IsBot     bool
	DidWin    bool
	CardsLeft int
}

// UpsertInitialGameState stores the dealt table in games.initial_game_state.
func UpsertInitialGameState(ctx context.Context, gameID uuid.UUID, initialData interface{}) error {
	dataBytes, err := json.Marshal(initialData)
	if err != nil {
		return fmt.Errorf("failed to marshal initial game state: %w", err)
	}
	q := `
		INSERT INTO games (id, status, initial_game_state, start_time)
		VALUES ($1, 'in_progress', $2, NOW())
		ON CONFLICT (id)
		DO UPDATE SET initial_game_state = EXCLUDED.initial_game_state, status = 'in_progress'
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, e := tx.Exec(ctx, q, gameID, dataBytes)
		return e
	})
}

// StoreFinalGameState writes the end-of-game snapshot.
func StoreFinalGameState(ctx context.Context, gameID uuid.UUID, finalSnapshot interface{}) error {
	jsonData, err := json.Marshal(finalSnapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal final snapshot: %w", err)
	}
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, e := tx.Exec(ctx, `UPDATE games SET final_game_state = $1 WHERE id = $2`, jsonData, gameID)
		return e
	})
	if err != nil {
		return fmt.Errorf("storing final game state in DB: %w", err)
	}
	return nil
}

// RecordGameResult marks the game completed, stores each seat's result and updates ratings
// for the human players. winnerID may be uuid.Nil for a game that ended without a winner.
func RecordGameResult(ctx context.Context, gameID uuid.UUID, results []PlayerResult, winnerID uuid.UUID) error {
	var winner interface{}
	if winnerID != uuid.Nil {
		winner = winnerID
	}
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertGame := `
			INSERT INTO games (id, status, winner_id, end_time)
			VALUES ($1, 'completed', $2, NOW())
			ON CONFLICT (id) DO UPDATE SET status = 'completed', winner_id = $2, end_time = NOW()
		`
		if _, e := tx.Exec(ctx, upsertGame, gameID, winner); e != nil {
			return e
		}
		for _, r := range results {
			q := `
				INSERT INTO game_results (game_id, player_id, is_bot, did_win, cards_left)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (game_id, player_id)
				DO UPDATE SET did_win = $4, cards_left = $5
			`
			if _, e := tx.Exec(ctx, q, gameID, r.PlayerID, r.IsBot, r.DidWin, r.CardsLeft); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx upsert game or results: %w", err)
	}
	if winnerID == uuid.Nil {
		return nil
	}

	var humans []uuid.UUID
	for _, r := range results {
		if !r.IsBot {
			humans = append(humans, r.PlayerID)
		}
	}
	users, err := GetUsersByIDs(ctx, humans)
	if err != nil {
		return fmt.Errorf("load users for rating: %w", err)
	}
	if len(users) < 2 {
		return nil
	}
	mode := rating.ModeFor(len(results))
	updated := rating.FinalizeRatings(users, winnerID, mode)
	return SaveRatings(ctx, gameID, users, updated, mode)
}
