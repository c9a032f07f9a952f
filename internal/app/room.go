package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"tienlen/internal/bot"
	"tienlen/internal/domain"
	"tienlen/internal/logging"
	"tienlen/internal/ports"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	ErrGameInProgress = errors.New("a game is already in progress")
	ErrNotHuman       = errors.New("player is not the human seat")
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomClosed     = errors.New("room is closed")
	ErrTooManyRooms   = errors.New("too many open rooms")
)

// Seat describes the human player joining a room.
type Seat struct {
	ID   string
	Name string
}

// RoomConfig wires a Room. Only Human is required.
type RoomConfig struct {
	ID         string
	Human      Seat
	Bots       []bot.BotIdentity // defaults to bot.Roster(3)
	Brain      bot.Brain         // defaults to bot.NewBrain()
	Difficulty bot.Difficulty    // defaults to medium
	ThinkTime  time.Duration
	Scheduler  Scheduler // defaults to a TimerScheduler
	Publisher  Publisher
	Store      ports.SnapshotStore
	Recorder   ports.ResultRecorder
	Logger     *log.Logger
	Rand       *rand.Rand
}

// Room owns one game between a human and three bots. Every command and
// bot step runs under the room lock, so the game is never touched
// concurrently.
type Room struct {
	ID      string
	HumanID string

	mu         sync.Mutex
	game       *domain.Game
	agents     map[string]*bot.Agent
	difficulty bot.Difficulty
	rng        *rand.Rand
	thinkTime  time.Duration
	generation uint64
	startedAt  time.Time
	lastActive time.Time
	closed     bool

	scheduler Scheduler
	publisher Publisher
	store     ports.SnapshotStore
	recorder  ports.ResultRecorder
	logger    *log.Logger
}

// RoomState is what a room exposes to transports: the unredacted game
// plus room settings.
type RoomState struct {
	RoomID     string          `json:"room_id"`
	HumanID    string          `json:"human_id"`
	Difficulty bot.Difficulty  `json:"difficulty"`
	Game       domain.Snapshot `json:"game"`
}

// NewRoom seats the human first and the bots after, in roster order.
func NewRoom(cfg RoomConfig) (*Room, error) {
	if cfg.Human.ID == "" {
		return nil, fmt.Errorf("%w: human seat needs an id", domain.ErrSeatCount)
	}
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.Human.Name == "" {
		cfg.Human.Name = DefaultHumanName
	}
	if cfg.Bots == nil {
		cfg.Bots = bot.Roster(domain.PlayerCount - 1)
	}
	if cfg.Brain == nil {
		cfg.Brain = bot.NewBrain()
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = bot.DifficultyMedium
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = NewTimerScheduler()
	}
	if cfg.Publisher == nil {
		cfg.Publisher = nopPublisher{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	players := []*domain.Player{{ID: cfg.Human.ID, Name: cfg.Human.Name}}
	agents := make(map[string]*bot.Agent, len(cfg.Bots))
	for _, identity := range cfg.Bots {
		agent := bot.NewAgent(identity, cfg.Brain)
		agents[agent.ID()] = agent
		players = append(players, agent.Player())
	}
	game, err := domain.NewGame(players)
	if err != nil {
		return nil, err
	}

	return &Room{
		ID:         cfg.ID,
		HumanID:    cfg.Human.ID,
		game:       game,
		agents:     agents,
		difficulty: cfg.Difficulty,
		rng:        cfg.Rand,
		thinkTime:  cfg.ThinkTime,
		lastActive: time.Now(),
		scheduler:  cfg.Scheduler,
		publisher:  cfg.Publisher,
		store:      cfg.Store,
		recorder:   cfg.Recorder,
		logger:     cfg.Logger.With("room", cfg.ID),
	}, nil
}

// StartGame deals a new game. It fails while a game is still running.
func (r *Room) StartGame(ctx context.Context) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRoomClosed
	}
	if r.game.Phase == domain.PhasePlaying {
		return nil, ErrGameInProgress
	}

	if err := r.game.Start(r.rng); err != nil {
		return nil, fmt.Errorf("failed to deal: %w", err)
	}
	r.generation++
	r.startedAt = time.Now().UTC()

	events := dealEvents(r.game)
	r.logger.Info("game started", "lead", r.game.CurrentPlayer().ID, "difficulty", r.difficulty)
	r.commit(ctx, events)
	return events, nil
}

// PlayMove submits cards for the human seat.
func (r *Room) PlayMove(ctx context.Context, playerID string, cards []domain.Card) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkHuman(playerID); err != nil {
		return nil, err
	}
	out, err := r.game.PlayMove(playerID, cards)
	if err != nil {
		r.logger.Debug("play rejected", "player", playerID, "cards", cards, "err", err)
		return nil, err
	}
	events := eventsFor(r.game, out, r.isBot)
	r.commit(ctx, events)
	return events, nil
}

// Pass gives up the current trick for the human seat.
func (r *Room) Pass(ctx context.Context, playerID string) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkHuman(playerID); err != nil {
		return nil, err
	}
	out, err := r.game.Pass(playerID)
	if err != nil {
		r.logger.Debug("pass rejected", "player", playerID, "err", err)
		return nil, err
	}
	events := eventsFor(r.game, out, r.isBot)
	r.commit(ctx, events)
	return events, nil
}

// SetBotDifficulty changes the level used for every later bot decision.
func (r *Room) SetBotDifficulty(ctx context.Context, level bot.Difficulty) ([]Event, error) {
	level, err := bot.ParseDifficulty(string(level))
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRoomClosed
	}
	r.difficulty = level
	events := []Event{{Kind: EventDifficultyChanged, Payload: DifficultyChangedPayload{Difficulty: level}}}
	r.logger.Info("difficulty changed", "difficulty", level)
	r.commit(ctx, events)
	return events, nil
}

// Difficulty returns the current bot level.
func (r *Room) Difficulty() bot.Difficulty {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.difficulty
}

// State returns a detached copy of the room.
func (r *Room) State() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

// LastActive returns when the room last changed.
func (r *Room) LastActive() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActive
}

// Close stops bot scheduling; pending bot tasks become no-ops.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.generation++
}

func (r *Room) stateLocked() RoomState {
	return RoomState{
		RoomID:     r.ID,
		HumanID:    r.HumanID,
		Difficulty: r.difficulty,
		Game:       r.game.Snapshot(),
	}
}

func (r *Room) checkHuman(playerID string) error {
	if r.closed {
		return ErrRoomClosed
	}
	if playerID != r.HumanID {
		if _, seat := r.game.PlayerByID(playerID); seat < 0 {
			return domain.ErrUnknownPlayer
		}
		return ErrNotHuman
	}
	return nil
}

func (r *Room) isBot(playerID string) bool {
	_, ok := r.agents[playerID]
	return ok
}

// commit publishes events, persists the room and queues the next bot turn.
// Callers hold r.mu.
func (r *Room) commit(ctx context.Context, events []Event) {
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case BotRemarkPayload:
			r.logger.Debug("bot remark", "player", p.PlayerID, "context", p.Context)
		case GameEndedPayload:
			r.logger.Info("game ended", "winner", p.Winner, "finish_order", p.FinishOrder)
			r.recordResult(ctx)
		}
	}
	r.lastActive = time.Now()
	r.publisher.Publish(r.ID, events)
	r.saveSnapshot(ctx)
	r.scheduleBotTurn()
}

// save persists the room outside of a command.
func (r *Room) save(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveSnapshot(ctx)
}

func (r *Room) scheduleBotTurn() {
	if r.closed {
		return
	}
	p := r.game.CurrentPlayer()
	if p == nil || !r.isBot(p.ID) {
		return
	}
	gen := r.generation
	turn := r.game.TurnIndex
	trick := r.game.TrickNumber
	pile := len(r.game.Discards)
	r.scheduler.Schedule(r.thinkTime, func() {
		r.runBotTurn(gen, turn, trick, pile)
	})
}

// runBotTurn plays one bot move if the table is still where it was when the
// task was scheduled.
func (r *Room) runBotTurn(gen uint64, turn, trick, pile int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || gen != r.generation || r.game.Phase != domain.PhasePlaying {
		return
	}
	if r.game.TurnIndex != turn || r.game.TrickNumber != trick || len(r.game.Discards) != pile {
		return
	}
	agent, ok := r.agents[r.game.CurrentPlayer().ID]
	if !ok {
		return
	}

	ctx := context.Background()
	move, err := agent.Play(r.game, r.difficulty, r.rng)
	if err != nil {
		r.logger.Error("bot failed to decide", "player", agent.ID(), "err", err)
		return
	}

	var out domain.Outcome
	if move.Pass {
		out, err = r.game.Pass(agent.ID())
	} else {
		out, err = r.game.PlayMove(agent.ID(), move.Cards)
	}
	if err != nil {
		// A rejected bot move is a bug in the engine; pass so the table keeps moving.
		r.logger.Error("bot move rejected", "player", agent.ID(), "cards", move.Cards, "err", err)
		if out, err = r.game.Pass(agent.ID()); err != nil {
			r.logger.Error("bot fallback pass rejected", "player", agent.ID(), "err", err)
			return
		}
	}

	if move.Pass {
		r.logger.Debug("bot passed", "player", agent.ID())
	} else {
		r.logger.Debug("bot played", "player", agent.ID(), "cards", move.Cards)
	}
	r.commit(ctx, eventsFor(r.game, out, r.isBot))
}

func (r *Room) saveSnapshot(ctx context.Context) {
	if r.store == nil {
		return
	}
	snap := ports.RoomSnapshot{
		RoomID:     r.ID,
		HumanID:    r.HumanID,
		Difficulty: string(r.difficulty),
		Game:       r.game.Snapshot(),
		StartedAt:  r.startedAt,
		SavedAt:    time.Now().UTC(),
	}
	if err := r.store.Save(ctx, snap); err != nil {
		r.logger.Warn("failed to save snapshot", "err", err)
	}
}

func (r *Room) recordResult(ctx context.Context) {
	if r.recorder == nil {
		return
	}
	result := ports.GameResult{
		ID:          uuid.NewString(),
		RoomID:      r.ID,
		Difficulty:  string(r.difficulty),
		HumanID:     r.HumanID,
		Winner:      r.game.Winner,
		FinishOrder: append([]string(nil), r.game.FinishOrder...),
		Tricks:      r.game.TrickNumber,
		StartedAt:   r.startedAt,
		FinishedAt:  time.Now().UTC(),
	}
	for i, id := range r.game.FinishOrder {
		if id == r.HumanID {
			result.HumanPlace = i + 1
		}
	}
	if err := r.recorder.RecordResult(ctx, result); err != nil {
		r.logger.Warn("failed to record result", "err", err)
	}
}

// Restore replaces the room's game with a stored snapshot and resumes bot
// play if a bot is on turn.
func (r *Room) Restore(ctx context.Context, snap ports.RoomSnapshot) error {
	game, err := domain.FromSnapshot(snap.Game)
	if err != nil {
		return fmt.Errorf("failed to restore room %s: %w", snap.RoomID, err)
	}
	level, err := bot.ParseDifficulty(snap.Difficulty)
	if err != nil {
		level = bot.DifficultyMedium
	}
	for _, p := range game.Players {
		if p.ID != r.HumanID && !r.isBot(p.ID) {
			return fmt.Errorf("failed to restore room %s: %w: %s", snap.RoomID, domain.ErrUnknownPlayer, p.ID)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.game = game
	r.difficulty = level
	r.startedAt = snap.StartedAt
	r.lastActive = time.Now()
	r.generation++
	r.logger.Info("room restored", "phase", game.Phase, "trick", game.TrickNumber)
	r.scheduleBotTurn()
	return nil
}

// RedactedFor hides every hand except the viewer's; hand counts stay.
func (s RoomState) RedactedFor(viewerID string) RoomState {
	players := make([]domain.PlayerView, len(s.Game.Players))
	copy(players, s.Game.Players)
	for i := range players {
		if players[i].ID != viewerID {
			players[i].Hand = nil
		}
	}
	s.Game.Players = players
	return s
}
