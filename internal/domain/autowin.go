package domain

// AutoWin names the instant-win shape a play matched.
type AutoWin string

const (
	AutoWinNone          AutoWin = ""
	AutoWinSixPairs      AutoWin = "six_pairs"
	AutoWinFourTwos      AutoWin = "four_twos"
	AutoWinStraightFlush AutoWin = "straight_flush"
	AutoWinDragon        AutoWin = "dragon"
)

// DetectAutoWin returns which instant-win shape the cards form, if any.
func DetectAutoWin(cards []Card) AutoWin {
	return detectAutoWin(IdentifyCombination(cards))
}

// IsAutoWin reports whether the cards supersede any active trick.
func IsAutoWin(cards []Card) bool {
	return DetectAutoWin(cards) != AutoWinNone
}

func detectAutoWin(combo CardCombination) AutoWin {
	switch combo.Type {
	case PairSequence:
		if combo.Pairs == MaxPairSequence {
			return AutoWinSixPairs
		}
	case Quad:
		if combo.Cards[0].Rank == Rank2 {
			return AutoWinFourTwos
		}
	case Straight:
		if sameSuit(combo.Cards) {
			return AutoWinStraightFlush
		}
		// A straight cannot hold a 2, so 3 through A is the longest run.
		if combo.Cards[0].Rank == Rank3 && combo.HighestRank() == RankA {
			return AutoWinDragon
		}
	}
	return AutoWinNone
}

func sameSuit(cards []Card) bool {
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}
