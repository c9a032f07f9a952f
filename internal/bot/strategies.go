package bot

import (
	"math/rand"
	"sort"

	botinternal "tienlen/internal/bot/internal"
)

// StandardBot scores every legal candidate with a rule list and picks the best,
// shaped by difficulty.
type StandardBot struct {
	Weights botinternal.Weights
	Rules   []botinternal.ScoringRule
}

// Decide returns the chosen move, or a pass when nothing legal exists.
func (b *StandardBot) Decide(s Situation, level Difficulty, rng *rand.Rand) Move {
	candidates := botinternal.LegalMoves(s)
	if len(candidates) == 0 {
		return Move{Pass: true}
	}

	scored := botinternal.BuildScoredMoves(s, candidates, b.Rules, b.Weights)
	applyDifficulty(scored, level, rng)

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		// Save higher cards when scores are equal.
		return scored[i].Candidate.Combo.Value < scored[j].Candidate.Combo.Value
	})

	pick := 0
	if level == DifficultyEasy && rng.Float64() < easyBlunderRate {
		pick = rng.Intn(min(easyBlunderPool, len(scored)))
	}
	return Move{Cards: scored[pick].Candidate.Combo.Cards}
}

func applyDifficulty(scored []botinternal.ScoredMove, level Difficulty, rng *rand.Rand) {
	for i := range scored {
		switch level {
		case DifficultyEasy:
			scored[i].Score += (rng.Float64() - 0.5) * easyNoiseSpread
		case DifficultyHard:
			scored[i].Score *= hardScoreBoost
		}
	}
}
