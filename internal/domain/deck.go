package domain

import (
	"math/rand"
	"sort"
)

const (
	// DeckSize is the number of cards in a full deck.
	DeckSize = 52
	// PlayerCount is the number of seats at a table.
	PlayerCount = 4
	// HandSize is the number of cards each seat is dealt.
	HandSize = DeckSize / PlayerCount
)

// NewDeck returns a sorted 52-card deck.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for r := Rank3; r <= Rank2; r++ {
		for s := Spades; s <= Hearts; s++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Compare orders two cards by rank, then suit. It returns -1, 0 or 1.
func Compare(a, b Card) int {
	pa, pb := cardPower(a), cardPower(b)
	switch {
	case pa < pb:
		return -1
	case pa > pb:
		return 1
	default:
		return 0
	}
}

// SortHand orders a hand by ascending power.
func SortHand(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return Compare(cards[i], cards[j]) < 0
	})
}

func cardPower(c Card) int32 {
	return int32(c.Rank)*4 + int32(c.Suit)
}
