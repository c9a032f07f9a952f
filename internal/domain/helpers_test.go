package domain

import (
	"math/rand"
	"reflect"
	"testing"
)

func card(r Rank, s Suit) Card {
	return Card{Rank: r, Suit: s}
}

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize {
		t.Fatalf("deck size = %d, want %d", len(deck), DeckSize)
	}

	seen := make(map[Card]bool)
	for i, c := range deck {
		if seen[c] {
			t.Fatalf("duplicate card found: %s", c)
		}
		seen[c] = true
		if c.Rank < Rank3 || c.Rank > Rank2 {
			t.Fatalf("rank out of range: %d", c.Rank)
		}
		if c.Suit < Spades || c.Suit > Hearts {
			t.Fatalf("suit out of range: %d", c.Suit)
		}
		if i > 0 && Compare(deck[i-1], c) >= 0 {
			t.Fatalf("deck not in ascending order at %d: %s then %s", i, deck[i-1], c)
		}
	}
}

func TestShuffleDeck(t *testing.T) {
	deck := NewDeck()
	shuffled := ShuffleDeck(deck, rand.New(rand.NewSource(7)))

	if len(shuffled) != len(deck) {
		t.Fatalf("shuffled size = %d, want %d", len(shuffled), len(deck))
	}
	if reflect.DeepEqual(deck, shuffled) {
		t.Fatalf("shuffle returned the deck unchanged")
	}
	if !reflect.DeepEqual(deck, NewDeck()) {
		t.Fatalf("shuffle mutated its input")
	}
	if !ContainsAll(shuffled, deck) {
		t.Fatalf("shuffled deck lost cards")
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Card
		want int
	}{
		{name: "rank decides", a: card(Rank7, Hearts), b: card(Rank8, Spades), want: -1},
		{name: "suit breaks ties", a: card(Rank7, Hearts), b: card(Rank7, Spades), want: 1},
		{name: "two beats ace", a: card(Rank2, Spades), b: card(RankA, Hearts), want: 1},
		{name: "equal", a: card(Rank10, Diamonds), b: card(Rank10, Diamonds), want: 0},
		{name: "clubs under diamonds", a: card(Rank3, Clubs), b: card(Rank3, Diamonds), want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Fatalf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCardString(t *testing.T) {
	if got := ThreeOfSpades.String(); got != "3♠" {
		t.Fatalf("ThreeOfSpades.String() = %q", got)
	}
	if got := card(Rank10, Hearts).String(); got != "10♥" {
		t.Fatalf("String() = %q, want 10♥", got)
	}
}

func TestRemoveCards(t *testing.T) {
	hand := []Card{card(Rank3, Spades), card(Rank4, Hearts), card(Rank5, Diamonds), card(Rank6, Spades)}
	played := []Card{card(Rank4, Hearts), card(Rank6, Spades)}

	got := RemoveCards(hand, played)
	want := []Card{card(Rank3, Spades), card(Rank5, Diamonds)}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("RemoveCards() = %v, want %v", got, want)
	}
}

func TestContainsAll(t *testing.T) {
	hand := []Card{card(Rank3, Spades), card(Rank4, Hearts)}
	tests := []struct {
		name   string
		subset []Card
		want   bool
	}{
		{name: "held", subset: []Card{card(Rank4, Hearts)}, want: true},
		{name: "missing", subset: []Card{card(Rank5, Hearts)}, want: false},
		{name: "same card twice", subset: []Card{card(Rank3, Spades), card(Rank3, Spades)}, want: false},
		{name: "empty", subset: nil, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsAll(hand, tt.subset); got != tt.want {
				t.Fatalf("ContainsAll() = %v, want %v", got, tt.want)
			}
		})
	}
}
