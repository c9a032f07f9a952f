package app

import (
	"tienlen/internal/bot"
	"tienlen/internal/domain"
)

// EventKind identifies emitted room events for transport dispatch.
type EventKind string

const (
	EventGameStarted       EventKind = "game_started"
	EventHandDealt         EventKind = "hand_dealt"
	EventCardPlayed        EventKind = "card_played"
	EventTurnPassed        EventKind = "turn_passed"
	EventRoundCleared      EventKind = "round_cleared"
	EventPlayerFinished    EventKind = "player_finished"
	EventGameEnded         EventKind = "game_ended"
	EventBotRemark         EventKind = "bot_remark"
	EventDifficultyChanged EventKind = "difficulty_changed"
)

// Event is a room event with optional targeted recipients.
type Event struct {
	Kind       EventKind `json:"kind"`
	Payload    any       `json:"payload"`
	Recipients []string  `json:"-"` // player IDs; empty means broadcast
}

// Private reports whether the event is meant for specific players only.
func (e Event) Private() bool {
	return len(e.Recipients) > 0
}

// VisibleTo reports whether playerID may receive the event.
func (e Event) VisibleTo(playerID string) bool {
	if !e.Private() {
		return true
	}
	for _, id := range e.Recipients {
		if id == playerID {
			return true
		}
	}
	return false
}

type GameStartedPayload struct {
	TurnPlayerID string `json:"turn_player_id"`
	TurnIndex    int    `json:"turn_index"`
	TrickNumber  int    `json:"trick_number"`
}

type HandDealtPayload struct {
	PlayerID string        `json:"player_id"`
	Hand     []domain.Card `json:"hand"`
}

type CardPlayedPayload struct {
	PlayerID     string                     `json:"player_id"`
	Cards        []domain.Card              `json:"cards"`
	Combo        domain.CardCombinationType `json:"combo"`
	AutoWin      domain.AutoWin             `json:"auto_win,omitempty"`
	NextPlayerID string                     `json:"next_player_id,omitempty"`
}

type TurnPassedPayload struct {
	PlayerID     string `json:"player_id"`
	NextPlayerID string `json:"next_player_id,omitempty"`
}

type RoundClearedPayload struct {
	WinnerID    string `json:"winner_id"`
	TrickNumber int    `json:"trick_number"` // the trick now starting
}

type PlayerFinishedPayload struct {
	PlayerID string `json:"player_id"`
	Place    int    `json:"place"`
}

type GameEndedPayload struct {
	Winner      string   `json:"winner"`
	FinishOrder []string `json:"finish_order"`
}

type BotRemarkPayload struct {
	PlayerID string            `json:"player_id"`
	Context  bot.RemarkContext `json:"context"`
}

type DifficultyChangedPayload struct {
	Difficulty bot.Difficulty `json:"difficulty"`
}

// Publisher delivers room events to connected clients. Publish is called
// with the room lock held and must not call back into the room.
type Publisher interface {
	Publish(roomID string, events []Event)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(roomID string, events []Event)

func (f PublisherFunc) Publish(roomID string, events []Event) { f(roomID, events) }

type nopPublisher struct{}

func (nopPublisher) Publish(string, []Event) {}

// eventsFor translates a game outcome into room events, in the order a
// client should apply them.
func eventsFor(g *domain.Game, out domain.Outcome, isBot func(string) bool) []Event {
	next := ""
	if p := g.CurrentPlayer(); p != nil {
		next = p.ID
	}

	var events []Event
	switch {
	case out.Passed:
		events = append(events, Event{Kind: EventTurnPassed, Payload: TurnPassedPayload{
			PlayerID:     out.PlayerID,
			NextPlayerID: next,
		}})
	case out.Combo != nil:
		events = append(events, Event{Kind: EventCardPlayed, Payload: CardPlayedPayload{
			PlayerID:     out.PlayerID,
			Cards:        append([]domain.Card(nil), out.Combo.Cards...),
			Combo:        out.Combo.Type,
			AutoWin:      out.AutoWin,
			NextPlayerID: next,
		}})
		for _, r := range bot.Remarks(out, isBot) {
			events = append(events, Event{Kind: EventBotRemark, Payload: BotRemarkPayload{PlayerID: r.PlayerID, Context: r.Context}})
		}
	}

	if out.Finished {
		events = append(events, finishedEvent(g, out.PlayerID))
	}
	if out.AutoFinished != "" {
		events = append(events, finishedEvent(g, out.AutoFinished))
	}
	if out.RoundWinner != "" {
		events = append(events, Event{Kind: EventRoundCleared, Payload: RoundClearedPayload{
			WinnerID:    out.RoundWinner,
			TrickNumber: g.TrickNumber,
		}})
		if r, ok := bot.RoundRemark(out, isBot); ok {
			events = append(events, Event{Kind: EventBotRemark, Payload: BotRemarkPayload{PlayerID: r.PlayerID, Context: r.Context}})
		}
	}
	if out.GameOver {
		events = append(events, Event{Kind: EventGameEnded, Payload: GameEndedPayload{
			Winner:      out.Winner,
			FinishOrder: append([]string(nil), g.FinishOrder...),
		}})
	}
	return events
}

func finishedEvent(g *domain.Game, playerID string) Event {
	place := 0
	for i, id := range g.FinishOrder {
		if id == playerID {
			place = i + 1
			break
		}
	}
	return Event{Kind: EventPlayerFinished, Payload: PlayerFinishedPayload{PlayerID: playerID, Place: place}}
}

func dealEvents(g *domain.Game) []Event {
	events := make([]Event, 0, len(g.Players)+1)
	first := g.CurrentPlayer()
	events = append(events, Event{Kind: EventGameStarted, Payload: GameStartedPayload{
		TurnPlayerID: first.ID,
		TurnIndex:    g.TurnIndex,
		TrickNumber:  g.TrickNumber,
	}})
	for _, p := range g.Players {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{PlayerID: p.ID, Hand: append([]domain.Card(nil), p.Hand...)},
			Recipients: []string{p.ID},
		})
	}
	return events
}
