package internal

import "tienlen/internal/domain"

// Candidate is a generated move that the table would accept.
type Candidate struct {
	Move    ValidMove
	Combo   domain.CardCombination
	AutoWin domain.AutoWin
}

// LegalMoves filters the hand's generated moves down to plays the game
// would accept from this seat right now.
func LegalMoves(s Situation) []Candidate {
	var legal []Candidate
	for _, m := range GenerateMoves(s.Hand) {
		if c, ok := checkMove(s, m); ok {
			legal = append(legal, c)
		}
	}
	return legal
}

func checkMove(s Situation, m ValidMove) (Candidate, bool) {
	combo := domain.IdentifyCombination(m.Cards)
	if !combo.IsValid() {
		return Candidate{}, false
	}
	if s.MustIncludeThreeOfSpades && !domain.ContainsCard(combo.Cards, domain.ThreeOfSpades) {
		return Candidate{}, false
	}
	win := domain.DetectAutoWin(combo.Cards)
	if win == domain.AutoWinNone && !domain.CanBeat(s.Active, combo) {
		return Candidate{}, false
	}
	return Candidate{Move: m, Combo: combo, AutoWin: win}, true
}
