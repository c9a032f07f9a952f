// Command simulate plays bot-only games and reports how each difficulty fares.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"tienlen/internal/bot"
	"tienlen/internal/domain"
	"tienlen/internal/logging"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/sync/errgroup"
)

// maxActions bounds a single game; a legal game needs far fewer.
const maxActions = 2000

type seatStats struct {
	wins   int
	places int
}

type tally struct {
	mu     sync.Mutex
	seats  [domain.PlayerCount]seatStats
	tricks int
	games  int
}

func main() {
	games := flag.Int("games", 200, "number of games to play")
	levels := flag.String("levels", "easy,medium,hard,hard", "comma separated difficulty per seat")
	seed := flag.Int64("seed", 1, "base random seed")
	workers := flag.Int("workers", 4, "games played in parallel")
	flag.Parse()

	logger := logging.Default()

	seatLevels, err := parseLevels(*levels)
	if err != nil {
		logger.Fatal("bad levels", "err", err)
	}

	t, err := simulate(context.Background(), *games, *workers, *seed, seatLevels)
	if err != nil {
		logger.Fatal("simulation failed", "err", err)
	}
	fmt.Println(render(t, seatLevels))
}

func parseLevels(s string) ([]bot.Difficulty, error) {
	parts := strings.Split(s, ",")
	if len(parts) != domain.PlayerCount {
		return nil, fmt.Errorf("need %d levels, got %d", domain.PlayerCount, len(parts))
	}
	out := make([]bot.Difficulty, len(parts))
	for i, p := range parts {
		level, err := bot.ParseDifficulty(p)
		if err != nil {
			return nil, err
		}
		out[i] = level
	}
	return out, nil
}

func simulate(ctx context.Context, games, workers int, seed int64, levels []bot.Difficulty) (*tally, error) {
	t := &tally{}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < games; i++ {
		gameSeed := seed + int64(i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			order, tricks, err := playGame(gameSeed, levels)
			if err != nil {
				return fmt.Errorf("game seed %d: %w", gameSeed, err)
			}
			t.add(order, tricks)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return t, nil
}

// playGame returns the finish order as seat indexes and the number of tricks.
func playGame(seed int64, levels []bot.Difficulty) ([]int, int, error) {
	rng := rand.New(rand.NewSource(seed))
	brain := bot.NewBrain()
	roster := bot.Roster(domain.PlayerCount)

	agents := make([]*bot.Agent, len(roster))
	players := make([]*domain.Player, len(roster))
	seatOf := make(map[string]int, len(roster))
	for i, identity := range roster {
		agents[i] = bot.NewAgent(identity, brain)
		players[i] = agents[i].Player()
		seatOf[agents[i].ID()] = i
	}

	game, err := domain.NewGame(players)
	if err != nil {
		return nil, 0, err
	}
	if err := game.Start(rng); err != nil {
		return nil, 0, err
	}

	for actions := 0; game.Phase == domain.PhasePlaying; actions++ {
		if actions >= maxActions {
			return nil, 0, fmt.Errorf("no result after %d actions", maxActions)
		}
		seat := game.TurnIndex
		agent := agents[seat]
		move, err := agent.Play(game, levels[seat], rng)
		if err != nil {
			return nil, 0, err
		}
		if move.Pass {
			_, err = game.Pass(agent.ID())
		} else {
			_, err = game.PlayMove(agent.ID(), move.Cards)
		}
		if err != nil {
			return nil, 0, fmt.Errorf("%s at %s: %w", agent.ID(), levels[seat], err)
		}
	}

	order := make([]int, len(game.FinishOrder))
	for i, id := range game.FinishOrder {
		order[i] = seatOf[id]
	}
	return order, game.TrickNumber, nil
}

func (t *tally) add(order []int, tricks int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.games++
	t.tricks += tricks
	for place, seat := range order {
		t.seats[seat].places += place + 1
		if place == 0 {
			t.seats[seat].wins++
		}
	}
}

func render(t *tally, levels []bot.Difficulty) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5F87FF"))
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Seat", "Level", "Wins", "Win %", "Avg place").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for seat, s := range t.seats {
		winRate := 0.0
		avg := 0.0
		if t.games > 0 {
			winRate = 100 * float64(s.wins) / float64(t.games)
			avg = float64(s.places) / float64(t.games)
		}
		tbl.Row(
			fmt.Sprint(seat),
			string(levels[seat]),
			fmt.Sprint(s.wins),
			fmt.Sprintf("%.1f", winRate),
			fmt.Sprintf("%.2f", avg),
		)
	}
	avgTricks := 0.0
	if t.games > 0 {
		avgTricks = float64(t.tricks) / float64(t.games)
	}
	return fmt.Sprintf("%s\n%d games, %.1f tricks per game", tbl.Render(), t.games, avgTricks)
}

