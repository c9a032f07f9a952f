package internal

import "tienlen/internal/domain"

// HighCardFloor is the lowest rank counted as a high card.
const HighCardFloor = domain.RankJ

// OutstandingHighCards counts high cards that are neither in play history
// nor in the bot's own hand, i.e. still held by opponents.
func OutstandingHighCards(hand, discards []domain.Card) int {
	known := make(map[domain.Card]bool, len(hand)+len(discards))
	for _, c := range hand {
		known[c] = true
	}
	for _, c := range discards {
		known[c] = true
	}

	n := 0
	for r := HighCardFloor; r <= domain.Rank2; r++ {
		for s := domain.Spades; s <= domain.Hearts; s++ {
			if !known[domain.Card{Rank: r, Suit: s}] {
				n++
			}
		}
	}
	return n
}
