package rating

import (
	"math"

	"github.com/google/uuid"
	"github.com/jason-s-yu/shithead/internal/models"
)

// Rating modes stored with every rating record.
const (
	Mode1v1   = "1v1"
	ModeGroup = "group"
)

// Iterations is how many refinement passes FinalizeRatings runs.
const Iterations = 10

// ModeFor picks the rating pool for a table of n players.
func ModeFor(n int) string {
	if n == 2 {
		return Mode1v1
	}
	return ModeGroup
}

// FinalizeRatings scores a single-winner game: the winner gets 1, everyone else 0.
// Each player is rated against the average of the others in the given pool.
// The returned users carry the new rating, deviation and volatility for that pool.
// A bot winner is simply absent from players, so every rated player scores 0.
func FinalizeRatings(players []models.User, winnerID uuid.UUID, mode string) []models.User {
	if len(players) < 2 {
		return players
	}
	scores := make([]float64, len(players))
	for i, p := range players {
		if p.ID == winnerID {
			scores[i] = 1
		}
	}
	return MultiIterationGlicko2(players, scores, mode, Iterations)
}

// MultiIterationGlicko2 repeatedly applies the Glicko2 update for one game, treating each
// player's opponent as the average rating of the rest.
func MultiIterationGlicko2(players []models.User, scores []float64, mode string, iterations int) []models.User {
	if len(players) < 2 || len(players) != len(scores) {
		return players
	}

	states := make([]Glicko2Rating, len(players))
	for i, u := range players {
		elo, rd, sigma := poolOf(u, mode)
		states[i] = NewGlicko2Rating(elo, rd, sigma)
	}

	for iter := 0; iter < iterations; iter++ {
		var total float64
		for _, s := range states {
			total += s.ToElo()
		}
		next := make([]Glicko2Rating, len(states))
		for i, s := range states {
			oppElo := (total - s.ToElo()) / float64(len(states)-1)
			opp := NewGlicko2Rating(oppElo, DefaultPhi, DefaultSigma)
			next[i] = update(s, opp, scores[i])
		}
		states = next
	}

	out := make([]models.User, len(players))
	for i, u := range players {
		setPool(&u, mode, states[i])
		out[i] = u
	}
	return out
}

// Update1v1 is the heads-up shortcut.
func Update1v1(winner, loser models.User) (models.User, models.User) {
	out := MultiIterationGlicko2([]models.User{winner, loser}, []float64{1, 0}, Mode1v1, Iterations)
	return out[0], out[1]
}

// Elo returns the rating of u in the given pool.
func Elo(u models.User, mode string) int {
	elo, _, _ := poolOf(u, mode)
	return int(math.Round(elo))
}

func poolOf(u models.User, mode string) (elo, rd, sigma float64) {
	if mode == Mode1v1 {
		elo, rd, sigma = float64(u.Elo1v1), u.Phi1v1, u.Sigma1v1
	} else {
		elo, rd, sigma = float64(u.EloGroup), u.PhiGroup, u.SigmaGroup
	}
	if elo == 0 {
		elo = DefaultMu
	}
	return elo, rd, sigma
}

func setPool(u *models.User, mode string, r Glicko2Rating) {
	elo := int(math.Round(r.ToElo()))
	if mode == Mode1v1 {
		u.Elo1v1, u.Phi1v1, u.Sigma1v1 = elo, r.RD(), r.Sigma
		return
	}
	u.EloGroup, u.PhiGroup, u.SigmaGroup = elo, r.RD(), r.Sigma
}
