package internal

import "tienlen/internal/domain"

// HandProfile summarizes a hand's structure for scoring.
type HandProfile struct {
	Singles    int // ranks held exactly once
	Pairs      int // ranks held two or more times
	SuitCounts [4]int
}

// StrongSuit reports whether any suit holds at least n cards.
func (p HandProfile) StrongSuit(n int) bool {
	for _, count := range p.SuitCounts {
		if count >= n {
			return true
		}
	}
	return false
}

// ProfileHand counts rank groups and suits in a hand.
func ProfileHand(hand []domain.Card) HandProfile {
	var profile HandProfile
	if len(hand) == 0 {
		return profile
	}

	for _, c := range hand {
		profile.SuitCounts[c.Suit]++
	}

	counts := domain.RankCounts(hand)
	for _, n := range counts {
		switch {
		case n == 1:
			profile.Singles++
		case n >= 2:
			profile.Pairs++
		}
	}
	return profile
}

// breaksLongerRun reports whether the cards left in hand could extend the
// played straight or pair sequence at either end.
func breaksLongerRun(combo domain.CardCombination, remaining []domain.Card) bool {
	need := 0
	switch combo.Type {
	case domain.Straight:
		need = 1
	case domain.PairSequence:
		need = 2
	default:
		return false
	}

	counts := domain.RankCounts(remaining)
	low, high := combo.Cards[0].Rank, combo.HighestRank()
	if low > domain.Rank3 && counts[low-1] >= need {
		return true
	}
	limit := domain.RankA
	if combo.Type == domain.PairSequence {
		limit = domain.Rank2
	}
	return high < limit && counts[high+1] >= need
}
