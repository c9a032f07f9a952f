package internal

import (
	"strings"

	"tienlen/internal/domain"
)

// ValidMove represents a possible play drawn from a hand.
type ValidMove struct {
	Cards []domain.Card
}

// rankGroups buckets a hand by rank; each bucket is ordered by suit.
type rankGroups map[domain.Rank][]domain.Card

func groupByRank(hand []domain.Card) rankGroups {
	sorted := make([]domain.Card, len(hand))
	copy(sorted, hand)
	domain.SortHand(sorted)

	groups := make(rankGroups)
	for _, c := range sorted {
		groups[c.Rank] = append(groups[c.Rank], c)
	}
	return groups
}

// GenerateMoves enumerates every combination latent in a hand: singles,
// same-rank groups, straight windows and pair-sequence windows. Legality
// against the table is decided later by LegalMoves.
func GenerateMoves(hand []domain.Card) []ValidMove {
	groups := groupByRank(hand)
	var moves []ValidMove
	seen := make(map[string]bool)
	add := func(cards []domain.Card) {
		key := moveKey(cards)
		if seen[key] {
			return
		}
		seen[key] = true
		moves = append(moves, ValidMove{Cards: cards})
	}

	for r := domain.Rank3; r <= domain.Rank2; r++ {
		for _, c := range groups[r] {
			add([]domain.Card{c})
		}
	}
	for r := domain.Rank3; r <= domain.Rank2; r++ {
		for size := 2; size <= len(groups[r]); size++ {
			for _, set := range subsets(groups[r], size) {
				add(set)
			}
		}
	}
	for _, m := range findStraights(groups) {
		add(m)
	}
	for _, m := range findPairSequences(groups) {
		add(m)
	}
	return moves
}

// findStraights builds every window of consecutive ranks below the 2. The
// lower ranks use their lowest suit; the top rank is offered in each suit
// held so a follower can pick the cheapest winning top card. A same-suit
// variant is added wherever the hand holds one.
func findStraights(groups rankGroups) [][]domain.Card {
	var out [][]domain.Card
	for low := domain.Rank3; low < domain.Rank2; low++ {
		for high := low + domain.MinStraight - 1; high < domain.Rank2; high++ {
			if len(groups[high]) == 0 || !allRanksHeld(groups, low, high) {
				break
			}
			for _, top := range groups[high] {
				run := make([]domain.Card, 0, high-low+1)
				for r := low; r < high; r++ {
					run = append(run, groups[r][0])
				}
				out = append(out, append(run, top))
			}
			for s := domain.Spades; s <= domain.Hearts; s++ {
				if flush, ok := suitedRun(groups, low, high, s); ok {
					out = append(out, flush)
				}
			}
		}
	}
	return out
}

// findPairSequences builds every run of two to six consecutive pairs.
func findPairSequences(groups rankGroups) [][]domain.Card {
	var out [][]domain.Card
	for low := domain.Rank3; low <= domain.Rank2; low++ {
		for pairs := domain.MinPairSequence; pairs <= domain.MaxPairSequence; pairs++ {
			high := low + domain.Rank(pairs) - 1
			if high > domain.Rank2 || len(groups[high]) < 2 || !allPairsHeld(groups, low, high) {
				break
			}
			seq := make([]domain.Card, 0, pairs*2)
			for r := low; r <= high; r++ {
				seq = append(seq, groups[r][0], groups[r][1])
			}
			out = append(out, seq)
		}
	}
	return out
}

func allRanksHeld(groups rankGroups, low, high domain.Rank) bool {
	for r := low; r <= high; r++ {
		if len(groups[r]) == 0 {
			return false
		}
	}
	return true
}

func allPairsHeld(groups rankGroups, low, high domain.Rank) bool {
	for r := low; r <= high; r++ {
		if len(groups[r]) < 2 {
			return false
		}
	}
	return true
}

func suitedRun(groups rankGroups, low, high domain.Rank, suit domain.Suit) ([]domain.Card, bool) {
	run := make([]domain.Card, 0, high-low+1)
	for r := low; r <= high; r++ {
		c := domain.Card{Rank: r, Suit: suit}
		if !domain.ContainsCard(groups[r], c) {
			return nil, false
		}
		run = append(run, c)
	}
	return run, true
}

// subsets returns every size-k selection from cards, preserving order.
func subsets(cards []domain.Card, k int) [][]domain.Card {
	var out [][]domain.Card
	var walk func(start int, acc []domain.Card)
	walk = func(start int, acc []domain.Card) {
		if len(acc) == k {
			out = append(out, append([]domain.Card(nil), acc...))
			return
		}
		for i := start; i < len(cards); i++ {
			walk(i+1, append(acc, cards[i]))
		}
	}
	walk(0, make([]domain.Card, 0, k))
	return out
}

func moveKey(cards []domain.Card) string {
	sorted := make([]domain.Card, len(cards))
	copy(sorted, cards)
	domain.SortHand(sorted)
	var b strings.Builder
	for _, c := range sorted {
		b.WriteString(c.String())
		b.WriteByte(',')
	}
	return b.String()
}
