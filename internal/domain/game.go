package domain

import (
	"fmt"
	"math/rand"
)

// Game holds the authoritative state of one four-seat table.
// It is not safe for concurrent use; callers serialise access.
type Game struct {
	Phase       Phase
	Players     []*Player // seat order
	CenterPile  []PileEntry
	ActiveTrick *Trick // nil on a free lead
	TurnIndex   int
	LeadIndex   int
	TrickNumber int
	FinishOrder []string
	Winner      string
	Discards    []Card // every card accepted into play, in order
}

// Outcome describes what an accepted play or pass changed.
type Outcome struct {
	PlayerID     string
	TrickNumber  int  // trick the action was taken in
	Led          bool // the play opened a round
	Passed       bool
	Combo        *CardCombination
	AutoWin      AutoWin
	BeatenOwner  string // owner of the trick this play superseded
	Finished     bool   // the mover emptied their hand
	RoundWinner  string // set when the round closed
	AutoFinished string // last player appended without playing
	GameOver     bool
	Winner       string
}

// NewGame seats players in the given order.
func NewGame(players []*Player) (*Game, error) {
	if len(players) != PlayerCount {
		return nil, ErrSeatCount
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if p == nil || p.ID == "" {
			return nil, ErrSeatCount
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSeat, p.ID)
		}
		seen[p.ID] = true
	}
	return &Game{Phase: PhaseWaiting, Players: players}, nil
}

// Start deals a freshly shuffled deck.
func (g *Game) Start(rng *rand.Rand) error {
	return g.Deal(ShuffleDeck(NewDeck(), rng))
}

// Deal hands out the deck round-robin and hands the lead to the 3♠ holder.
// Any previous game state is discarded.
func (g *Game) Deal(deck []Card) error {
	if len(deck) != DeckSize || HasDuplicates(deck) {
		return ErrDeckSize
	}

	for _, p := range g.Players {
		p.Hand = make([]Card, 0, HandSize)
		p.HasPassed = false
		p.Finished = false
	}
	for i, c := range deck {
		p := g.Players[i%PlayerCount]
		p.Hand = append(p.Hand, c)
	}

	lead := 0
	for i, p := range g.Players {
		SortHand(p.Hand)
		if ContainsCard(p.Hand, ThreeOfSpades) {
			lead = i
		}
	}

	g.Phase = PhasePlaying
	g.CenterPile = nil
	g.ActiveTrick = nil
	g.TurnIndex = lead
	g.LeadIndex = lead
	g.TrickNumber = 1
	g.FinishOrder = nil
	g.Winner = ""
	g.Discards = nil
	return nil
}

// PlayerByID returns the player and their seat, or nil and -1.
func (g *Game) PlayerByID(id string) (*Player, int) {
	for i, p := range g.Players {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

// CurrentPlayer returns the player on turn, or nil outside of play.
func (g *Game) CurrentPlayer() *Player {
	if g.Phase != PhasePlaying {
		return nil
	}
	return g.Players[g.TurnIndex]
}

// ActiveCombo returns the combination to beat, or nil on a free lead.
func (g *Game) ActiveCombo() *CardCombination {
	if g.ActiveTrick == nil {
		return nil
	}
	return &g.ActiveTrick.Combo
}

// RequiresThreeOfSpades reports whether p is bound by the opening-lead rule.
func (g *Game) RequiresThreeOfSpades(p *Player) bool {
	return g.TrickNumber == 1 && g.ActiveTrick == nil && ContainsCard(p.Hand, ThreeOfSpades)
}

// UnfinishedCount returns the number of players still holding cards.
func (g *Game) UnfinishedCount() int {
	n := 0
	for _, p := range g.Players {
		if !p.Finished {
			n++
		}
	}
	return n
}

// OpponentHandSizes lists the hand sizes of every other unfinished player.
func (g *Game) OpponentHandSizes(playerID string) []int {
	sizes := make([]int, 0, PlayerCount-1)
	for _, p := range g.Players {
		if p.ID == playerID || p.Finished {
			continue
		}
		sizes = append(sizes, len(p.Hand))
	}
	return sizes
}

// ValidatePlay runs every PlayMove check without mutating the game.
func (g *Game) ValidatePlay(playerID string, cards []Card) (CardCombination, error) {
	p, err := g.mover(playerID)
	if err != nil {
		return CardCombination{}, err
	}
	if len(cards) == 0 {
		return CardCombination{}, ErrIllegalComboShape
	}
	if HasDuplicates(cards) || !ContainsAll(p.Hand, cards) {
		return CardCombination{}, ErrInvalidCardOwnership
	}
	if g.RequiresThreeOfSpades(p) && !ContainsCard(cards, ThreeOfSpades) {
		return CardCombination{}, ErrMustLeadWithThreeOfSpades
	}

	combo := IdentifyCombination(cards)
	if !combo.IsValid() {
		return CardCombination{}, ErrIllegalComboShape
	}
	if detectAutoWin(combo) != AutoWinNone {
		return combo, nil
	}
	if !CanBeat(g.ActiveCombo(), combo) {
		return CardCombination{}, ErrDoesNotBeatActiveTrick
	}
	return combo, nil
}

// PlayMove applies a play for the player on turn.
// On error the game is left untouched.
func (g *Game) PlayMove(playerID string, cards []Card) (Outcome, error) {
	combo, err := g.ValidatePlay(playerID, cards)
	if err != nil {
		return Outcome{}, err
	}
	p, _ := g.PlayerByID(playerID)

	out := Outcome{
		PlayerID:    playerID,
		TrickNumber: g.TrickNumber,
		Led:         g.ActiveTrick == nil,
		Combo:       &combo,
		AutoWin:     detectAutoWin(combo),
	}
	if g.ActiveTrick != nil && g.ActiveTrick.OwnerID != playerID {
		out.BeatenOwner = g.ActiveTrick.OwnerID
	}

	p.Hand = RemoveCards(p.Hand, combo.Cards)
	g.replacePileEntry(playerID, combo.Cards)
	g.ActiveTrick = &Trick{Combo: combo, OwnerID: playerID}
	g.Discards = append(g.Discards, combo.Cards...)

	if len(p.Hand) == 0 {
		p.Finished = true
		g.FinishOrder = append(g.FinishOrder, playerID)
		out.Finished = true
	}

	if !g.checkGameOver(&out) {
		g.advanceTurn(&out)
	}
	return out, nil
}

// Pass gives up the current trick for the player on turn.
func (g *Game) Pass(playerID string) (Outcome, error) {
	p, err := g.mover(playerID)
	if err != nil {
		return Outcome{}, err
	}
	if g.RequiresThreeOfSpades(p) {
		return Outcome{}, ErrCannotPassOnForcedLead
	}

	p.HasPassed = true
	out := Outcome{PlayerID: playerID, TrickNumber: g.TrickNumber, Passed: true}
	g.advanceTurn(&out)
	return out, nil
}

func (g *Game) mover(playerID string) (*Player, error) {
	if g.Phase != PhasePlaying {
		return nil, ErrNotPlaying
	}
	p, seat := g.PlayerByID(playerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if seat != g.TurnIndex {
		return nil, ErrWrongTurn
	}
	if p.Finished {
		return nil, ErrPlayerFinished
	}
	return p, nil
}

// replacePileEntry drops the player's earlier entry and puts the new play on top.
func (g *Game) replacePileEntry(playerID string, cards []Card) {
	pile := g.CenterPile[:0]
	for _, e := range g.CenterPile {
		if e.PlayerID != playerID {
			pile = append(pile, e)
		}
	}
	g.CenterPile = append(pile, PileEntry{PlayerID: playerID, Cards: cards})
}
