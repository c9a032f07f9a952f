package storage

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"tienlen/internal/ports"
)

// MemorySnapshotStore keeps snapshots in process. Values are stored
// encoded so callers never share slices with the store.
type MemorySnapshotStore struct {
	mu    sync.Mutex
	rooms map[string][]byte
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{rooms: make(map[string][]byte)}
}

func (m *MemorySnapshotStore) Save(ctx context.Context, snap ports.RoomSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[snap.RoomID] = data
	return nil
}

func (m *MemorySnapshotStore) Load(ctx context.Context, roomID string) (ports.RoomSnapshot, error) {
	m.mu.Lock()
	data, ok := m.rooms[roomID]
	m.mu.Unlock()
	if !ok {
		return ports.RoomSnapshot{}, ports.ErrSnapshotNotFound
	}
	var snap ports.RoomSnapshot
	err := json.Unmarshal(data, &snap)
	return snap, err
}

func (m *MemorySnapshotStore) Delete(ctx context.Context, roomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, roomID)
	return nil
}

// RoomIDs lists stored rooms in sorted order.
func (m *MemorySnapshotStore) RoomIDs(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// MemoryResultRecorder collects results in process, for tests and the simulator.
type MemoryResultRecorder struct {
	mu      sync.Mutex
	results []ports.GameResult
}

func NewMemoryResultRecorder() *MemoryResultRecorder {
	return &MemoryResultRecorder{}
}

func (m *MemoryResultRecorder) RecordResult(ctx context.Context, result ports.GameResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	result.FinishOrder = append([]string(nil), result.FinishOrder...)
	m.results = append(m.results, result)
	return nil
}

// Results returns a copy of everything recorded so far.
func (m *MemoryResultRecorder) Results() []ports.GameResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.GameResult(nil), m.results...)
}

// Stats aggregates the recorded results like PostgresResultRecorder.Stats.
func (m *MemoryResultRecorder) Stats(ctx context.Context) ([]DifficultyStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byLevel := make(map[string]*DifficultyStats)
	for _, r := range m.results {
		s, ok := byLevel[r.Difficulty]
		if !ok {
			s = &DifficultyStats{Difficulty: r.Difficulty}
			byLevel[r.Difficulty] = s
		}
		s.Games++
		if r.HumanPlace == 1 {
			s.HumanWins++
		}
		s.AveragePlace += float64(r.HumanPlace)
	}
	out := make([]DifficultyStats, 0, len(byLevel))
	for _, s := range byLevel {
		s.AveragePlace /= float64(s.Games)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Difficulty < out[j].Difficulty })
	return out, nil
}
