package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/shithead/internal/cache"
	"github.com/jason-s-yu/shithead/internal/models"
)

// InsertGameActions writes a batch of action records in one transaction.
// Each record upserts its game row; an end-of-game record completes the game.
func InsertGameActions(ctx context.Context, records []cache.GameActionRecord) error {
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range records {
			if err := insertGameActionTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insert action %d of game %s: %w", rec.ActionIndex, rec.GameID, err)
			}
		}
		return nil
	})
}

func insertGameActionTx(ctx context.Context, tx pgx.Tx, rec cache.GameActionRecord) error {
	upsertGameQ := `
		INSERT INTO games (id, status, start_time)
		VALUES ($1, 'in_progress', NOW())
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, upsertGameQ, rec.GameID); err != nil {
		return err
	}

	jsonPayload, err := json.Marshal(rec.ActionPayload)
	if err != nil {
		return err
	}
	actionInsertQ := `
		INSERT INTO game_actions (game_id, action_index, actor_user_id, action_type, action_payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (game_id, action_index) DO NOTHING
	`
	var actor interface{}
	if rec.ActorUserID != uuid.Nil {
		actor = rec.ActorUserID
	}
	if _, err := tx.Exec(ctx, actionInsertQ, rec.GameID, rec.ActionIndex, actor, rec.ActionType, jsonPayload); err != nil {
		return err
	}

	if rec.ActionType == models.ActionEndGame {
		finalizeQ := `
			UPDATE games
			SET status = 'completed', end_time = COALESCE(end_time, NOW())
			WHERE id = $1 AND status = 'in_progress'
		`
		if _, err := tx.Exec(ctx, finalizeQ, rec.GameID); err != nil {
			return err
		}
	}
	return nil
}

// MarkGameAbandoned flips an in-progress game to abandoned. It reports whether a row changed.
func MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) (bool, error) {
	var changed bool
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, e := tx.Exec(ctx, `
			UPDATE games
			SET status = 'abandoned', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`, gameID)
		if e != nil {
			return e
		}
		changed = tag.RowsAffected() > 0
		return nil
	})
	return changed, err
}
