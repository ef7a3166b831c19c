package engine

import "fmt"

// EffectiveTop returns the first non-8 card from the top of the pile.
// It reports false when the pile is empty or made only of 8s.
func EffectiveTop(pile []Card) (Card, bool) {
	for i := len(pile) - 1; i >= 0; i-- {
		if pile[i].Rank != Eight {
			return pile[i], true
		}
	}
	return Card{}, false
}

// Verdict is the answer to a legality question.
type Verdict struct {
	Legal  bool   `json:"legal"`
	Reason string `json:"reason,omitempty"`
}

var legal = Verdict{Legal: true}

func illegal(format string, args ...interface{}) Verdict {
	return Verdict{Legal: false, Reason: fmt.Sprintf(format, args...)}
}

// IsLegalPlay decides whether cards may be played onto pile. It has no side effects.
func IsLegalPlay(pile []Card, cards []Card) Verdict {
	if len(cards) == 0 {
		return illegal("no cards selected")
	}
	rank, ok := sameRank(cards)
	if !ok {
		return illegal("all cards must share one rank")
	}
	return rankBeats(pile, rank)
}

// rankBeats applies the rank rules against the effective top of pile.
func rankBeats(pile []Card, rank Rank) Verdict {
	top, ok := EffectiveTop(pile)
	if !ok {
		return legal
	}

	switch top.Rank {
	case Three:
		if rank == Three {
			return legal
		}
		return illegal("must play a 3 or pick up the pile")
	case Two:
		return legal
	case Seven:
		if IsSpecial(rank) || RankValue(rank) < RankValue(Seven) {
			return legal
		}
		return illegal("must play ≤7, a 7, or a special card")
	}

	if rank == Eight || rank == Ten {
		return legal
	}
	if RankValue(rank) >= RankValue(top.Rank) || IsSpecial(rank) {
		return legal
	}
	return illegal("must play same or higher than %s", top.Rank)
}

// LegalRanks lists every rank that may currently be played onto pile, lowest value first.
func LegalRanks(pile []Card) []Rank {
	out := make([]Rank, 0, len(Ranks))
	for v := 3; v <= 15; v++ {
		r := rankByValue(v)
		if rankBeats(pile, r).Legal {
			out = append(out, r)
		}
	}
	return out
}

func rankByValue(v int) Rank {
	for r, rv := range rankValues {
		if rv == v {
			return r
		}
	}
	return ""
}
