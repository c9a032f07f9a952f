package bot

import (
	"math/rand"

	"tienlen/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	Identity BotIdentity
	Strategy Brain
}

// NewAgent seats an identity behind the given strategy.
func NewAgent(identity BotIdentity, strategy Brain) *Agent {
	return &Agent{Identity: identity, Strategy: strategy}
}

// ID returns the seat id the agent plays under.
func (a *Agent) ID() string {
	return a.Identity.UserID
}

// Player builds the seat record for a new game.
func (a *Agent) Player() *domain.Player {
	return &domain.Player{ID: a.Identity.UserID, Name: a.Identity.DisplayName, IsBot: true}
}

// Play asks the agent to calculate its move based on the current game state.
func (a *Agent) Play(game *domain.Game, level Difficulty, rng *rand.Rand) (Move, error) {
	s, err := NewSituation(game, a.ID())
	if err != nil {
		return Move{Pass: true}, err
	}
	return a.Strategy.Decide(s, level, rng), nil
}
