package ports

import (
	"context"
	"time"
)

// GameResult summarises one finished game.
type GameResult struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"room_id"`
	Difficulty  string    `json:"difficulty"`
	HumanID     string    `json:"human_id"`
	HumanPlace  int       `json:"human_place"` // 1-based
	Winner      string    `json:"winner"`
	FinishOrder []string  `json:"finish_order"`
	Tricks      int       `json:"tricks"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// ResultRecorder stores finished games for later statistics.
type ResultRecorder interface {
	// RecordResult is called once per game, after the last player finishes.
	RecordResult(ctx context.Context, result GameResult) error
}
