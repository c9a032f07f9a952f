package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"tienlen/internal/ports"

	"github.com/redis/go-redis/v9"
)

// Key layout:
//
//	tienlen:room:{id} -> JSON RoomSnapshot, expires after the store TTL
//	tienlen:rooms     -> set of room ids with a stored snapshot
const (
	roomKeyPrefix = "tienlen:room:"
	roomIndexKey  = "tienlen:rooms"
)

func roomKey(roomID string) string {
	return roomKeyPrefix + roomID
}

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

// RedisSnapshotStore persists room snapshots so rooms survive a restart.
type RedisSnapshotStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSnapshotStore stores snapshots with the given expiry; zero keeps
// them forever.
func NewRedisSnapshotStore(rdb *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{rdb: rdb, ttl: ttl}
}

func (s *RedisSnapshotStore) Save(ctx context.Context, snap ports.RoomSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", snap.RoomID, err)
	}
	p := s.rdb.TxPipeline()
	p.Set(ctx, roomKey(snap.RoomID), data, s.ttl)
	p.SAdd(ctx, roomIndexKey, snap.RoomID)
	if _, err := p.Exec(ctx); err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.RoomID, err)
	}
	return nil
}

func (s *RedisSnapshotStore) Load(ctx context.Context, roomID string) (ports.RoomSnapshot, error) {
	data, err := s.rdb.Get(ctx, roomKey(roomID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.RoomSnapshot{}, ports.ErrSnapshotNotFound
	}
	if err != nil {
		return ports.RoomSnapshot{}, fmt.Errorf("load snapshot %s: %w", roomID, err)
	}
	var snap ports.RoomSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return ports.RoomSnapshot{}, fmt.Errorf("decode snapshot %s: %w", roomID, err)
	}
	return snap, nil
}

func (s *RedisSnapshotStore) Delete(ctx context.Context, roomID string) error {
	p := s.rdb.TxPipeline()
	p.Del(ctx, roomKey(roomID))
	p.SRem(ctx, roomIndexKey, roomID)
	_, err := p.Exec(ctx)
	return err
}

// RoomIDs lists rooms whose snapshot is still present, pruning index
// entries whose key has expired.
func (s *RedisSnapshotStore) RoomIDs(ctx context.Context) ([]string, error) {
	ids, err := s.rdb.SMembers(ctx, roomIndexKey).Result()
	if err != nil {
		return nil, err
	}
	live := ids[:0]
	for _, id := range ids {
		n, err := s.rdb.Exists(ctx, roomKey(id)).Result()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			_ = s.rdb.SRem(ctx, roomIndexKey, id).Err()
			continue
		}
		live = append(live, id)
	}
	sort.Strings(live)
	return live, nil
}
