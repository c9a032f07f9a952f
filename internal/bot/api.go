package bot

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	botinternal "tienlen/internal/bot/internal"
	"tienlen/internal/domain"
)

// Move represents the decision made by the AI.
type Move struct {
	Pass  bool
	Cards []domain.Card
}

// Situation is the read-only table view handed to a Brain.
type Situation = botinternal.Situation

// Brain picks a move for the seat described by a Situation. It never
// mutates game state; the caller submits the move like a human would.
type Brain interface {
	Decide(s Situation, level Difficulty, rng *rand.Rand) Move
}

// Difficulty modulates how sharply a bot follows its scores.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ErrUnknownDifficulty = errors.New("unknown bot difficulty")

// ParseDifficulty accepts a difficulty name in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownDifficulty, s)
	}
}

// NewSituation captures what a seat may know about the game.
func NewSituation(g *domain.Game, playerID string) (Situation, error) {
	return botinternal.SituationFor(g, playerID)
}
