package domain

import "fmt"

// CardCombinationType represents the type of card combination.
type CardCombinationType int

const (
	Invalid CardCombinationType = iota
	Single
	Pair
	Triple
	Quad
	Straight     // Three or more consecutive ranks, no 2s
	PairSequence // Two to six pairs of consecutive ranks
)

// MinPairSequence and MaxPairSequence bound the pair count of a pair sequence.
const (
	MinPairSequence = 2
	MaxPairSequence = 6
	MinStraight     = 3
)

var comboTypeNames = map[CardCombinationType]string{
	Invalid:      "invalid",
	Single:       "single",
	Pair:         "pair",
	Triple:       "triple",
	Quad:         "quad",
	Straight:     "straight",
	PairSequence: "pair_sequence",
}

func (t CardCombinationType) String() string {
	if name, ok := comboTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the type by name in JSON payloads.
func (t CardCombinationType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a type name written by MarshalText.
func (t *CardCombinationType) UnmarshalText(text []byte) error {
	for kind, name := range comboTypeNames {
		if name == string(text) {
			*t = kind
			return nil
		}
	}
	return fmt.Errorf("unknown combination type %q", text)
}

// CardCombination represents a detected combination of cards.
type CardCombination struct {
	Type  CardCombinationType `json:"type"`
	Cards []Card              `json:"cards"` // sorted ascending
	Value int32               `json:"value"` // power of the highest card
	Count int                 `json:"count"`
	Pairs int                 `json:"pairs,omitempty"` // set for PairSequence
}

// IsValid reports whether the combination is a legal shape.
func (c CardCombination) IsValid() bool {
	return c.Type != Invalid
}

// HighestRank is the rank of the top card, which for a pair sequence is its top pair.
func (c CardCombination) HighestRank() Rank {
	if len(c.Cards) == 0 {
		return -1
	}
	return c.Cards[len(c.Cards)-1].Rank
}

// shapeMatcher recognises one combination shape over power-sorted cards.
type shapeMatcher struct {
	kind  CardCombinationType
	match func(sorted []Card) bool
}

// Specific rank groups are checked before the general run shapes.
var shapeMatchers = []shapeMatcher{
	{kind: Single, match: func(cs []Card) bool { return len(cs) == 1 }},
	{kind: Pair, match: func(cs []Card) bool { return len(cs) == 2 && allSameRank(cs) }},
	{kind: Triple, match: func(cs []Card) bool { return len(cs) == 3 && allSameRank(cs) }},
	{kind: Quad, match: func(cs []Card) bool { return len(cs) == 4 && allSameRank(cs) }},
	{kind: Straight, match: isStraight},
	{kind: PairSequence, match: isPairSequence},
}

// IdentifyCombination classifies a set of cards. The input slice is not modified.
// Empty input, duplicate cards and unmatched shapes yield an Invalid combination.
func IdentifyCombination(cards []Card) CardCombination {
	if len(cards) == 0 || HasDuplicates(cards) {
		return CardCombination{Type: Invalid}
	}

	sorted := cloneCards(cards)
	SortHand(sorted)

	for _, m := range shapeMatchers {
		if !m.match(sorted) {
			continue
		}
		combo := CardCombination{
			Type:  m.kind,
			Cards: sorted,
			Value: cardPower(sorted[len(sorted)-1]),
			Count: len(sorted),
		}
		if m.kind == PairSequence {
			combo.Pairs = len(sorted) / 2
		}
		return combo
	}
	return CardCombination{Type: Invalid}
}

// CanBeat determines if candidate legally supersedes the active combination.
// A nil active combination is a free lead. Auto-win plays are handled by the
// caller and never reach this comparison.
func CanBeat(active *CardCombination, candidate CardCombination) bool {
	if !candidate.IsValid() {
		return false
	}
	if active == nil {
		return true
	}
	if active.Type != candidate.Type || active.Count != candidate.Count {
		return false
	}
	if candidate.Type == PairSequence {
		return highestPairRank(candidate.Cards) > highestPairRank(active.Cards)
	}
	return candidate.Value > active.Value
}

// highestPairRank groups cards by rank and returns the top rank holding a pair.
func highestPairRank(cards []Card) Rank {
	top := Rank(-1)
	for rank, n := range RankCounts(cards) {
		if n >= 2 && rank > top {
			top = rank
		}
	}
	return top
}

func allSameRank(cards []Card) bool {
	if len(cards) == 0 {
		return false
	}
	r := cards[0].Rank
	for _, c := range cards {
		if c.Rank != r {
			return false
		}
	}
	return true
}

func isStraight(sorted []Card) bool {
	if len(sorted) < MinStraight {
		return false
	}
	for i, c := range sorted {
		if c.Rank == Rank2 {
			return false
		}
		if i > 0 && c.Rank != sorted[i-1].Rank+1 {
			return false
		}
	}
	return true
}

func isPairSequence(sorted []Card) bool {
	n := len(sorted)
	if n%2 != 0 || n < MinPairSequence*2 || n > MaxPairSequence*2 {
		return false
	}
	counts := RankCounts(sorted)
	if len(counts) != n/2 {
		return false
	}
	low := sorted[0].Rank
	for i := 0; i < n/2; i++ {
		if counts[low+Rank(i)] != 2 {
			return false
		}
	}
	return true
}
