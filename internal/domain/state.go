package domain

import "fmt"

// Phase represents the lifecycle stage of a game.
type Phase string

const (
	// PhaseWaiting is the state before the first deal.
	PhaseWaiting Phase = "waiting"
	// PhasePlaying is the active game state where cards are played.
	PhasePlaying Phase = "playing"
	// PhaseGameOver is the state after every hand has been emptied.
	PhaseGameOver Phase = "game_over"
)

// Rank orders card faces from 3 (lowest) to 2 (highest).
type Rank int32

const (
	Rank3 Rank = iota
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ
	RankQ
	RankK
	RankA
	Rank2
)

var rankNames = [...]string{"3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A", "2"}

func (r Rank) String() string {
	if r < Rank3 || r > Rank2 {
		return fmt.Sprintf("Rank(%d)", int32(r))
	}
	return rankNames[r]
}

// Suit breaks ties between equal ranks: ♠ < ♣ < ♦ < ♥.
type Suit int32

const (
	Spades Suit = iota
	Clubs
	Diamonds
	Hearts
)

var suitSymbols = [...]string{"♠", "♣", "♦", "♥"}

func (s Suit) String() string {
	if s < Spades || s > Hearts {
		return fmt.Sprintf("Suit(%d)", int32(s))
	}
	return suitSymbols[s]
}

// Card is a single playing card. Cards are plain values and never mutated.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// ThreeOfSpades is the lowest card in the deck and opens the first trick.
var ThreeOfSpades = Card{Rank: Rank3, Suit: Spades}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Power returns the position of the card in the total deck order.
func (c Card) Power() int32 {
	return cardPower(c)
}

// Player holds the per-seat state of a game.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Hand      []Card `json:"hand"`
	HasPassed bool   `json:"has_passed"`
	Finished  bool   `json:"has_finished"`
	IsBot     bool   `json:"is_bot"`
}

// Trick is the play every other contender must beat.
type Trick struct {
	Combo   CardCombination `json:"combo"`
	OwnerID string          `json:"owner_id"`
}

// PileEntry is a player's most recent play within the current round.
type PileEntry struct {
	PlayerID string `json:"player_id"`
	Cards    []Card `json:"cards"`
}
