package internal

import (
	"fmt"

	"tienlen/internal/domain"
)

// Situation is the read-only view of a table a bot decides from.
type Situation struct {
	PlayerID                 string
	Hand                     []domain.Card
	Active                   *domain.CardCombination // nil on a free lead
	MustIncludeThreeOfSpades bool
	TrickNumber              int
	OpponentHandSizes        []int // unfinished opponents only
	RemainingPlayers         int   // unfinished players, including this one
	Discards                 []domain.Card
}

// Leading reports whether the bot is starting a round.
func (s Situation) Leading() bool {
	return s.Active == nil
}

// AverageOpponentHand returns the mean hand size of unfinished opponents.
func (s Situation) AverageOpponentHand() float64 {
	if len(s.OpponentHandSizes) == 0 {
		return 0
	}
	total := 0
	for _, n := range s.OpponentHandSizes {
		total += n
	}
	return float64(total) / float64(len(s.OpponentHandSizes))
}

// SituationFor captures what the player on turn may know about the game.
// The returned value shares no storage with the game.
func SituationFor(g *domain.Game, playerID string) (Situation, error) {
	p, _ := g.PlayerByID(playerID)
	if p == nil {
		return Situation{}, fmt.Errorf("%w: %s", domain.ErrUnknownPlayer, playerID)
	}

	s := Situation{
		PlayerID:                 playerID,
		Hand:                     append([]domain.Card(nil), p.Hand...),
		MustIncludeThreeOfSpades: g.RequiresThreeOfSpades(p),
		TrickNumber:              g.TrickNumber,
		OpponentHandSizes:        g.OpponentHandSizes(playerID),
		RemainingPlayers:         g.UnfinishedCount(),
		Discards:                 append([]domain.Card(nil), g.Discards...),
	}
	if active := g.ActiveCombo(); active != nil {
		combo := *active
		combo.Cards = append([]domain.Card(nil), active.Cards...)
		s.Active = &combo
	}
	return s, nil
}
