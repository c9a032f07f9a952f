package domain

import "fmt"

// PlayerView is the per-seat part of a Snapshot.
type PlayerView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Hand        []Card `json:"hand,omitempty"`
	HandCount   int    `json:"hand_count"`
	HasPassed   bool   `json:"has_passed"`
	HasFinished bool   `json:"has_finished"`
	IsBot       bool   `json:"is_bot"`
}

// Snapshot is a detached copy of the full game state. Collaborators decide
// what each client may see; the game always emits everything.
type Snapshot struct {
	Phase       Phase        `json:"phase"`
	Players     []PlayerView `json:"players"`
	CenterPile  []PileEntry  `json:"center_pile"`
	ActiveTrick *Trick       `json:"active_trick"`
	TurnIndex   int          `json:"turn_index"`
	LeadIndex   int          `json:"lead_index"`
	TrickNumber int          `json:"trick_number"`
	FinishOrder []string     `json:"finish_order"`
	Winner      string       `json:"winner,omitempty"`
	Discards    []Card       `json:"discards,omitempty"`
}

// Snapshot deep-copies the game state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Phase:       g.Phase,
		Players:     make([]PlayerView, len(g.Players)),
		CenterPile:  make([]PileEntry, len(g.CenterPile)),
		TurnIndex:   g.TurnIndex,
		LeadIndex:   g.LeadIndex,
		TrickNumber: g.TrickNumber,
		FinishOrder: append([]string{}, g.FinishOrder...),
		Winner:      g.Winner,
		Discards:    cloneCards(g.Discards),
	}
	for i, p := range g.Players {
		s.Players[i] = PlayerView{
			ID:          p.ID,
			Name:        p.Name,
			Hand:        cloneCards(p.Hand),
			HandCount:   len(p.Hand),
			HasPassed:   p.HasPassed,
			HasFinished: p.Finished,
			IsBot:       p.IsBot,
		}
	}
	for i, e := range g.CenterPile {
		s.CenterPile[i] = PileEntry{PlayerID: e.PlayerID, Cards: cloneCards(e.Cards)}
	}
	if g.ActiveTrick != nil {
		combo := g.ActiveTrick.Combo
		combo.Cards = cloneCards(combo.Cards)
		s.ActiveTrick = &Trick{Combo: combo, OwnerID: g.ActiveTrick.OwnerID}
	}
	return s
}

// FromSnapshot rebuilds a game from a stored snapshot. The snapshot must
// carry full hands.
func FromSnapshot(s Snapshot) (*Game, error) {
	if len(s.Players) != PlayerCount {
		return nil, ErrSeatCount
	}
	if s.TurnIndex < 0 || s.TurnIndex >= PlayerCount || s.LeadIndex < 0 || s.LeadIndex >= PlayerCount {
		return nil, fmt.Errorf("snapshot turn index %d lead index %d out of range", s.TurnIndex, s.LeadIndex)
	}

	players := make([]*Player, len(s.Players))
	for i, v := range s.Players {
		if len(v.Hand) != v.HandCount {
			return nil, fmt.Errorf("snapshot hand for %s is redacted", v.ID)
		}
		players[i] = &Player{
			ID:        v.ID,
			Name:      v.Name,
			Hand:      cloneCards(v.Hand),
			HasPassed: v.HasPassed,
			Finished:  v.HasFinished,
			IsBot:     v.IsBot,
		}
	}
	g, err := NewGame(players)
	if err != nil {
		return nil, err
	}

	g.Phase = s.Phase
	g.TurnIndex = s.TurnIndex
	g.LeadIndex = s.LeadIndex
	g.TrickNumber = s.TrickNumber
	g.FinishOrder = append([]string{}, s.FinishOrder...)
	g.Winner = s.Winner
	g.Discards = cloneCards(s.Discards)
	for _, e := range s.CenterPile {
		g.CenterPile = append(g.CenterPile, PileEntry{PlayerID: e.PlayerID, Cards: cloneCards(e.Cards)})
	}
	if s.ActiveTrick != nil {
		combo := IdentifyCombination(s.ActiveTrick.Combo.Cards)
		if !combo.IsValid() {
			return nil, fmt.Errorf("snapshot active trick: %w", ErrIllegalComboShape)
		}
		g.ActiveTrick = &Trick{Combo: combo, OwnerID: s.ActiveTrick.OwnerID}
	}
	return g, nil
}
