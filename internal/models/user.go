package models

import "github.com/google/uuid"

type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Password string    `json:"password,omitempty"`
	Username string    `json:"username"`

	IsEphemeral bool `json:"is_ephemeral"`
	IsAdmin     bool `json:"is_admin"`

	// Glicko-2 for heads-up games
	Elo1v1   int     `json:"elo_1v1"`
	Phi1v1   float64 `json:"phi_1v1"`
	Sigma1v1 float64 `json:"sigma_1v1"`

	// Glicko-2 for 3-5 player tables
	EloGroup   int     `json:"elo_group"`
	PhiGroup   float64 `json:"phi_group"`
	SigmaGroup float64 `json:"sigma_group"`
}
