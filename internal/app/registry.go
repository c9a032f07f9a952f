package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"tienlen/internal/logging"
	"tienlen/internal/ports"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Registry keeps rooms isolated from each other. Rooms share nothing but
// the collaborators in the template config.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	template RoomConfig
	maxRooms int
}

// NewRegistry uses template for every room it creates. Human and ID are
// filled per room.
func NewRegistry(template RoomConfig) *Registry {
	return &Registry{rooms: make(map[string]*Room), template: template}
}

// SetMaxRooms caps the number of live rooms; n <= 0 removes the cap.
func (reg *Registry) SetMaxRooms(n int) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.maxRooms = n
}

// Create opens a room for one human and stores its first snapshot, so the
// room can be resumed even if it is evicted before a game starts. An empty
// humanID gets a fresh UUID.
func (reg *Registry) Create(ctx context.Context, humanID, humanName string) (*Room, error) {
	if humanID == "" {
		humanID = uuid.NewString()
	}
	cfg := reg.roomConfig()
	cfg.ID = uuid.NewString()
	cfg.Human = Seat{ID: humanID, Name: humanName}

	room, err := NewRoom(cfg)
	if err != nil {
		return nil, err
	}

	reg.mu.Lock()
	if reg.maxRooms > 0 && len(reg.rooms) >= reg.maxRooms {
		reg.mu.Unlock()
		return nil, ErrTooManyRooms
	}
	reg.rooms[room.ID] = room
	reg.mu.Unlock()

	room.save(ctx)
	return room, nil
}

// Get returns ErrRoomNotFound for unknown ids.
func (reg *Registry) Get(roomID string) (*Room, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	return room, nil
}

// Resume returns a live room, or rebuilds it from the snapshot store after
// a restart or an eviction.
func (reg *Registry) Resume(ctx context.Context, roomID string) (*Room, error) {
	if room, err := reg.Get(roomID); err == nil {
		return room, nil
	}
	store := reg.template.Store
	if store == nil {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	snap, err := store.Load(ctx, roomID)
	if errors.Is(err, ports.ErrSnapshotNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load room %s: %w", roomID, err)
	}

	cfg := reg.roomConfig()
	cfg.ID = roomID
	human := Seat{ID: snap.HumanID}
	for _, p := range snap.Game.Players {
		if p.ID == snap.HumanID {
			human.Name = p.Name
		}
	}
	cfg.Human = human
	room, err := NewRoom(cfg)
	if err != nil {
		return nil, err
	}
	if err := room.Restore(ctx, snap); err != nil {
		return nil, err
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if existing, ok := reg.rooms[roomID]; ok {
		room.Close()
		return existing, nil
	}
	reg.rooms[roomID] = room
	return room, nil
}

// roomConfig copies the template. A seeded template Rand seeds a
// private source per room; *rand.Rand is not safe to share.
func (reg *Registry) roomConfig() RoomConfig {
	cfg := reg.template
	if cfg.Rand != nil {
		reg.mu.Lock()
		cfg.Rand = rand.New(rand.NewSource(reg.template.Rand.Int63()))
		reg.mu.Unlock()
	}
	return cfg
}

// Remove closes and forgets a room and drops its snapshot.
func (reg *Registry) Remove(ctx context.Context, roomID string) {
	reg.mu.Lock()
	room, ok := reg.rooms[roomID]
	delete(reg.rooms, roomID)
	reg.mu.Unlock()
	if !ok {
		return
	}
	room.Close()
	if store := reg.template.Store; store != nil {
		_ = store.Delete(ctx, roomID)
	}
}

// Evict closes live rooms that have not changed since before now-idle and
// returns their ids. Snapshots are kept, so Resume brings an evicted room
// back when its player returns.
func (reg *Registry) Evict(now time.Time, idle time.Duration) []string {
	cutoff := now.Add(-idle)
	var evicted []*Room

	reg.mu.Lock()
	for id, room := range reg.rooms {
		if room.LastActive().Before(cutoff) {
			evicted = append(evicted, room)
			delete(reg.rooms, id)
		}
	}
	reg.mu.Unlock()

	ids := make([]string, 0, len(evicted))
	for _, room := range evicted {
		room.Close()
		ids = append(ids, room.ID)
	}
	return ids
}

// PruneSnapshots deletes stored snapshots of rooms that are not live and
// were last saved before now-retention. It returns the number deleted.
func (reg *Registry) PruneSnapshots(ctx context.Context, now time.Time, retention time.Duration) (int, error) {
	store := reg.template.Store
	if store == nil {
		return 0, nil
	}
	ids, err := store.RoomIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list room snapshots: %w", err)
	}

	cutoff := now.Add(-retention)
	pruned := 0
	for _, id := range ids {
		if _, err := reg.Get(id); err == nil {
			continue
		}
		snap, err := store.Load(ctx, id)
		if errors.Is(err, ports.ErrSnapshotNotFound) {
			continue
		}
		if err == nil && !snap.SavedAt.Before(cutoff) {
			continue
		}
		// Unreadable snapshots can never be resumed either.
		if err := store.Delete(ctx, id); err != nil {
			return pruned, fmt.Errorf("failed to delete room snapshot %s: %w", id, err)
		}
		pruned++
	}
	return pruned, nil
}

// Sweep runs Evict and PruneSnapshots every interval until ctx is done.
func (reg *Registry) Sweep(ctx context.Context, interval, idle, retention time.Duration) error {
	logger := reg.logger()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if ids := reg.Evict(now, idle); len(ids) > 0 {
				logger.Info("evicted idle rooms", "count", len(ids), "live", reg.Len())
			}
			pruned, err := reg.PruneSnapshots(ctx, now, retention)
			if err != nil {
				logger.Warn("snapshot prune failed", "err", err)
			} else if pruned > 0 {
				logger.Info("pruned room snapshots", "count", pruned)
			}
		}
	}
}

func (reg *Registry) logger() *log.Logger {
	if reg.template.Logger != nil {
		return reg.template.Logger
	}
	return logging.Discard()
}

// Len returns the number of live rooms.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}
