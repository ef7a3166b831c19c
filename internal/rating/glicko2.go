// internal/rating/glicko2.go
package rating

import (
	"math"
)

const (
	// GlickoScale is the multiplier used for converting between Elo and Glicko2's mu.
	GlickoScale = 173.7178
	// DefaultMu is the baseline rating (1500) on the Elo scale.
	DefaultMu = 1500.0
	// DefaultPhi is the baseline rating deviation (350) on the Elo scale.
	DefaultPhi = 350.0
	// DefaultSigma is the starting volatility.
	DefaultSigma = 0.06
	// Tau is the constraint on volatility changes.
	Tau = 0.5
	// Epsilon is the tolerance used in iteration stopping conditions.
	Epsilon = 0.000001
)

// Glicko2Rating holds the transformed rating (Mu), rating deviation (Phi),
// and volatility (Sigma) for a single user in Glicko2 space.
type Glicko2Rating struct {
	Mu    float64
	Phi   float64
	Sigma float64
}

// NewGlicko2Rating converts an Elo-scale rating and deviation into Glicko2 space.
// Zero rd or sigma fall back to the defaults for an unrated player.
func NewGlicko2Rating(elo, rd, sigma float64) Glicko2Rating {
	if rd <= 0 {
		rd = DefaultPhi
	}
	if sigma <= 0 {
		sigma = DefaultSigma
	}
	return Glicko2Rating{
		Mu:    (elo - DefaultMu) / GlickoScale,
		Phi:   rd / GlickoScale,
		Sigma: sigma,
	}
}

// ToElo converts Mu back to the 1500-based scale.
func (r Glicko2Rating) ToElo() float64 {
	return r.Mu*GlickoScale + DefaultMu
}

// RD converts Phi back to the Elo-scale deviation.
func (r Glicko2Rating) RD() float64 {
	return r.Phi * GlickoScale
}

// update performs a single-match Glicko2 update for r against opp, given score in [0..1].
func update(r, opp Glicko2Rating, score float64) Glicko2Rating {
	gVal := g(opp.Phi)
	EVal := E(r.Mu, opp.Mu, opp.Phi)

	v := 1.0 / (gVal * gVal * EVal * (1 - EVal))
	delta := v * gVal * (score - EVal)

	a := math.Log(r.Sigma * r.Sigma)
	A := a
	var B float64
	if delta*delta > r.Phi*r.Phi+v {
		B = math.Log(delta*delta - r.Phi*r.Phi - v)
	} else {
		k := 1.0
		for f(a-k*Tau, r.Phi, v, delta, a) < 0 {
			k++
		}
		B = a - k*Tau
	}

	fn := func(x float64) float64 {
		return f(x, r.Phi, v, delta, a)
	}

	// Illinois variant of regula falsi, as in Glickman's paper
	fA, fB := fn(A), fn(B)
	for i := 0; i < 100 && math.Abs(B-A) > Epsilon; i++ {
		C := A + (A-B)*fA/(fB-fA)
		fC := fn(C)
		if fC*fB <= 0 {
			A, fA = B, fB
		} else {
			fA /= 2
		}
		B, fB = C, fC
	}
	newSigma := math.Exp(A / 2)
	phiStar := math.Sqrt(r.Phi*r.Phi + newSigma*newSigma)
	phiPrime := 1.0 / math.Sqrt(1.0/(phiStar*phiStar)+1.0/v)
	muPrime := r.Mu + phiPrime*phiPrime*gVal*(score-EVal)

	return Glicko2Rating{
		Mu:    muPrime,
		Phi:   phiPrime,
		Sigma: newSigma,
	}
}

// g is the G(phi) factor from Glicko2, 1/sqrt(1+3phi^2/pi^2).
func g(phi float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*phi*phi/math.Pi/math.Pi)
}

// E is the expected score, 1/(1+exp[-g(phi2)*(mu-mu2)]).
func E(mu, mu2, phi2 float64) float64 {
	return 1.0 / (1.0 + math.Exp(-g(phi2)*(mu-mu2)))
}

// f is the volatility root-finding function.
func f(x, phi, v, delta, a float64) float64 {
	ex := math.Exp(x)
	num := ex * (delta*delta - phi*phi - v - ex)
	den := 2.0 * (phi*phi + v + ex) * (phi*phi + v + ex)
	return (num / den) - ((x - a) / (Tau * Tau))
}
