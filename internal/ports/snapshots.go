package ports

import (
	"context"
	"errors"
	"time"

	"tienlen/internal/domain"
)

// ErrSnapshotNotFound is returned by SnapshotStore.Load for unknown rooms.
var ErrSnapshotNotFound = errors.New("room snapshot not found")

// RoomSnapshot is the persisted form of one room: the full game plus the
// room settings needed to resume it.
type RoomSnapshot struct {
	RoomID     string          `json:"room_id"`
	HumanID    string          `json:"human_id"`
	Difficulty string          `json:"difficulty"`
	Game       domain.Snapshot `json:"game"`
	StartedAt  time.Time       `json:"started_at"` // deal time of the current game
	SavedAt    time.Time       `json:"saved_at"`
}

// SnapshotStore keeps the latest state of each room.
type SnapshotStore interface {
	// Save overwrites the stored snapshot for snap.RoomID.
	Save(ctx context.Context, snap RoomSnapshot) error

	// Load returns ErrSnapshotNotFound when nothing is stored for the room.
	Load(ctx context.Context, roomID string) (RoomSnapshot, error)

	Delete(ctx context.Context, roomID string) error

	// RoomIDs lists every room with a stored snapshot.
	RoomIDs(ctx context.Context) ([]string, error)
}
