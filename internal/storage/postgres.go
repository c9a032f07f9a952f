package storage

import (
	"context"
	"embed"
	"fmt"

	"tienlen/internal/ports"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema embed.FS

// DifficultyStats summarises the human's results at one bot level.
type DifficultyStats struct {
	Difficulty   string  `json:"difficulty"`
	Games        int     `json:"games"`
	HumanWins    int     `json:"human_wins"`
	AveragePlace float64 `json:"average_place"`
}

// PostgresResultRecorder appends finished games to game_results.
type PostgresResultRecorder struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects, pings and applies the embedded schema.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresResultRecorder, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	r := &PostgresResultRecorder{pool: pool}
	if err := r.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}

// Migrate is idempotent.
func (r *PostgresResultRecorder) Migrate(ctx context.Context) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

func (r *PostgresResultRecorder) RecordResult(ctx context.Context, res ports.GameResult) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO game_results
		    (id, room_id, difficulty, human_id, human_place, winner, finish_order, tricks, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`, res.ID, res.RoomID, res.Difficulty, res.HumanID, res.HumanPlace, res.Winner,
		res.FinishOrder, res.Tricks, res.StartedAt, res.FinishedAt)
	if err != nil {
		return fmt.Errorf("record result %s: %w", res.ID, err)
	}
	return nil
}

// Stats groups results by difficulty.
func (r *PostgresResultRecorder) Stats(ctx context.Context) ([]DifficultyStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT difficulty,
		       count(*),
		       count(*) FILTER (WHERE human_place = 1),
		       avg(human_place)::float8
		  FROM game_results
		 GROUP BY difficulty
		 ORDER BY difficulty
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DifficultyStats
	for rows.Next() {
		var s DifficultyStats
		if err := rows.Scan(&s.Difficulty, &s.Games, &s.HumanWins, &s.AveragePlace); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresResultRecorder) Close() {
	r.pool.Close()
}
