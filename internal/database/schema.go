package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// schema is applied in order by Migrate. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id           UUID PRIMARY KEY,
		email        TEXT UNIQUE,
		password     TEXT NOT NULL DEFAULT '',
		username     TEXT NOT NULL,
		is_ephemeral BOOLEAN NOT NULL DEFAULT FALSE,
		is_admin     BOOLEAN NOT NULL DEFAULT FALSE,
		elo_1v1      INTEGER NOT NULL DEFAULT 1500,
		phi_1v1      DOUBLE PRECISION NOT NULL DEFAULT 350,
		sigma_1v1    DOUBLE PRECISION NOT NULL DEFAULT 0.06,
		elo_group    INTEGER NOT NULL DEFAULT 1500,
		phi_group    DOUBLE PRECISION NOT NULL DEFAULT 350,
		sigma_group  DOUBLE PRECISION NOT NULL DEFAULT 0.06,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS games (
		id                 UUID PRIMARY KEY,
		status             TEXT NOT NULL DEFAULT 'in_progress',
		initial_game_state JSONB,
		final_game_state   JSONB,
		winner_id          UUID,
		start_time         TIMESTAMPTZ,
		end_time           TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS game_actions (
		game_id        UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		action_index   INTEGER NOT NULL,
		actor_user_id  UUID,
		action_type    TEXT NOT NULL,
		action_payload JSONB,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (game_id, action_index)
	)`,
	`CREATE TABLE IF NOT EXISTS game_results (
		game_id    UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		player_id  UUID NOT NULL,
		is_bot     BOOLEAN NOT NULL DEFAULT FALSE,
		did_win    BOOLEAN NOT NULL,
		cards_left INTEGER NOT NULL,
		PRIMARY KEY (game_id, player_id)
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		user_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		game_id     UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		old_rating  INTEGER NOT NULL,
		new_rating  INTEGER NOT NULL,
		rating_mode TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates any missing tables.
func Migrate(ctx context.Context) error {
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for i, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("schema statement %d: %w", i, err)
			}
		}
		return nil
	})
}
