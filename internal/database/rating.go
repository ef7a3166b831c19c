package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/shithead/internal/models"
	"github.com/jason-s-yu/shithead/internal/rating"
)

// SaveRatings stores the updated pool for every user and logs one ratings row per change.
// before and after are parallel slices.
func SaveRatings(ctx context.Context, gameID uuid.UUID, before, after []models.User, mode string) error {
	if len(before) != len(after) {
		return fmt.Errorf("rating update mismatch: %d users before, %d after", len(before), len(after))
	}
	updQ := `UPDATE users SET elo_1v1=$1, phi_1v1=$2, sigma_1v1=$3 WHERE id=$4`
	if mode == rating.ModeGroup {
		updQ = `UPDATE users SET elo_group=$1, phi_group=$2, sigma_group=$3 WHERE id=$4`
	}
	insQ := `
		INSERT INTO ratings (user_id, game_id, old_rating, new_rating, rating_mode)
		VALUES ($1, $2, $3, $4, $5)
	`
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for i, u := range after {
			elo, phi, sigma := u.Elo1v1, u.Phi1v1, u.Sigma1v1
			if mode == rating.ModeGroup {
				elo, phi, sigma = u.EloGroup, u.PhiGroup, u.SigmaGroup
			}
			if _, e := tx.Exec(ctx, updQ, elo, phi, sigma, u.ID); e != nil {
				return e
			}
			if _, e := tx.Exec(ctx, insQ, u.ID, gameID, rating.Elo(before[i], mode), elo, mode); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx rating update: %w", err)
	}
	return nil
}
