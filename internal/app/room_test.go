package app

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"tienlen/internal/bot"
	"tienlen/internal/domain"
	"tienlen/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const humanID = "human"

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(roomID string, events []Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
}

func (p *recordingPublisher) kinds() []EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EventKind, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}

type fixture struct {
	room     *Room
	sched    *QueueScheduler
	pub      *recordingPublisher
	store    *storage.MemorySnapshotStore
	recorder *storage.MemoryResultRecorder
}

func newFixture(t *testing.T, seed int64) fixture {
	t.Helper()
	f := fixture{
		sched:    NewQueueScheduler(),
		pub:      &recordingPublisher{},
		store:    storage.NewMemorySnapshotStore(),
		recorder: storage.NewMemoryResultRecorder(),
	}
	room, err := NewRoom(RoomConfig{
		ID:        "room-1",
		Human:     Seat{ID: humanID, Name: "Ann"},
		Scheduler: f.sched,
		Publisher: f.pub,
		Store:     f.store,
		Recorder:  f.recorder,
		Rand:      rand.New(rand.NewSource(seed)),
	})
	require.NoError(t, err)
	f.room = room
	return f
}

func humanOnTurn(st RoomState) bool {
	return st.Game.Phase == domain.PhasePlaying && st.Game.Players[st.Game.TurnIndex].ID == st.HumanID
}

// playHuman lets a medium brain act for the human seat until the game ends.
func playHuman(t *testing.T, f fixture) {
	t.Helper()
	ctx := context.Background()
	brain := bot.NewBrain()
	rng := rand.New(rand.NewSource(99))

	for i := 0; i < 500; i++ {
		f.sched.RunAll(1000)
		st := f.room.State()
		if st.Game.Phase == domain.PhaseGameOver {
			return
		}
		require.True(t, humanOnTurn(st), "bots idle while a bot is on turn")

		g, err := domain.FromSnapshot(st.Game)
		require.NoError(t, err)
		s, err := bot.NewSituation(g, humanID)
		require.NoError(t, err)
		move := brain.Decide(s, bot.DifficultyMedium, rng)
		if move.Pass {
			_, err = f.room.Pass(ctx, humanID)
		} else {
			_, err = f.room.PlayMove(ctx, humanID, move.Cards)
		}
		require.NoError(t, err)
	}
	t.Fatal("game did not finish")
}

func TestNewRoom_SeatsHumanFirst(t *testing.T) {
	f := newFixture(t, 1)
	st := f.room.State()

	require.Len(t, st.Game.Players, domain.PlayerCount)
	assert.Equal(t, humanID, st.Game.Players[0].ID)
	assert.Equal(t, "Ann", st.Game.Players[0].Name)
	assert.False(t, st.Game.Players[0].IsBot)
	for _, p := range st.Game.Players[1:] {
		assert.True(t, p.IsBot)
		assert.True(t, bot.IsBot(p.ID))
	}
	assert.Equal(t, domain.PhaseWaiting, st.Game.Phase)
	assert.Equal(t, bot.DifficultyMedium, f.room.Difficulty())
}

func TestNewRoom_RequiresHuman(t *testing.T) {
	_, err := NewRoom(RoomConfig{})
	assert.Error(t, err)
}

func TestStartGame_Events(t *testing.T) {
	f := newFixture(t, 1)
	events, err := f.room.StartGame(context.Background())
	require.NoError(t, err)

	require.Len(t, events, 1+domain.PlayerCount)
	assert.Equal(t, EventGameStarted, events[0].Kind)
	assert.False(t, events[0].Private())

	started := events[0].Payload.(GameStartedPayload)
	assert.Equal(t, 1, started.TrickNumber)

	for _, ev := range events[1:] {
		require.Equal(t, EventHandDealt, ev.Kind)
		dealt := ev.Payload.(HandDealtPayload)
		assert.Len(t, dealt.Hand, 13)
		assert.True(t, ev.VisibleTo(dealt.PlayerID))
		other := humanID
		if dealt.PlayerID == humanID {
			other = "bot-x"
		}
		assert.False(t, ev.VisibleTo(other), "hands are private")
		if domain.ContainsCard(dealt.Hand, domain.Card{Rank: domain.Rank3, Suit: domain.Spades}) {
			assert.Equal(t, dealt.PlayerID, started.TurnPlayerID)
		}
	}

	_, err = f.room.StartGame(context.Background())
	assert.ErrorIs(t, err, ErrGameInProgress)

	_, err = f.store.Load(context.Background(), "room-1")
	assert.NoError(t, err, "start persists a snapshot")
}

func TestRoom_FullGame(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		f := newFixture(t, seed)
		_, err := f.room.StartGame(context.Background())
		require.NoError(t, err)

		playHuman(t, f)

		st := f.room.State()
		assert.Equal(t, domain.PhaseGameOver, st.Game.Phase)
		require.Len(t, st.Game.FinishOrder, domain.PlayerCount)
		assert.Equal(t, st.Game.FinishOrder[0], st.Game.Winner)
		assert.Zero(t, f.sched.Pending(), "no bot turns after game over")

		kinds := f.pub.kinds()
		assert.Equal(t, EventGameEnded, kinds[len(kinds)-1])

		results := f.recorder.Results()
		require.Len(t, results, 1)
		res := results[0]
		assert.Equal(t, "room-1", res.RoomID)
		assert.Equal(t, "medium", res.Difficulty)
		assert.Equal(t, st.Game.Winner, res.Winner)
		assert.Equal(t, st.Game.FinishOrder[res.HumanPlace-1], humanID)

		snap, err := f.store.Load(context.Background(), "room-1")
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseGameOver, snap.Game.Phase)

		// A finished room can deal again.
		_, err = f.room.StartGame(context.Background())
		assert.NoError(t, err)
	}
}

func TestRoom_RejectsOutOfTurnAndForeignSeats(t *testing.T) {
	ctx := context.Background()
	var sawHumanLead, sawBotLead bool
	for seed := int64(1); seed <= 30 && !(sawHumanLead && sawBotLead); seed++ {
		f := newFixture(t, seed)
		_, err := f.room.StartGame(ctx)
		require.NoError(t, err)
		st := f.room.State()

		if humanOnTurn(st) {
			sawHumanLead = true
			_, err = f.room.Pass(ctx, humanID)
			assert.ErrorIs(t, err, domain.ErrCannotPassOnForcedLead)
			continue
		}
		sawBotLead = true
		_, err = f.room.PlayMove(ctx, humanID, st.Game.Players[0].Hand[:1])
		assert.ErrorIs(t, err, domain.ErrWrongTurn)
		assert.Equal(t, 1, f.sched.Pending(), "the leading bot is queued")
	}
	assert.True(t, sawHumanLead)
	assert.True(t, sawBotLead)

	f := newFixture(t, 1)
	_, err := f.room.StartGame(ctx)
	require.NoError(t, err)
	botID := f.room.State().Game.Players[1].ID

	_, err = f.room.Pass(ctx, botID)
	assert.ErrorIs(t, err, ErrNotHuman)
	_, err = f.room.PlayMove(ctx, "stranger", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownPlayer)
}

func TestRoom_CloseCancelsPendingBotTurn(t *testing.T) {
	ctx := context.Background()
	for seed := int64(1); seed <= 30; seed++ {
		f := newFixture(t, seed)
		_, err := f.room.StartGame(ctx)
		require.NoError(t, err)
		if humanOnTurn(f.room.State()) {
			continue
		}

		f.room.Close()
		assert.Equal(t, 1, f.sched.RunAll(10))
		st := f.room.State()
		assert.Empty(t, st.Game.Discards, "stale bot task must not play")

		_, err = f.room.StartGame(ctx)
		assert.ErrorIs(t, err, ErrRoomClosed)
		return
	}
	t.Fatal("no seed with a bot lead")
}

func TestRoom_StaleTaskIgnoredAfterMove(t *testing.T) {
	ctx := context.Background()
	for seed := int64(1); seed <= 30; seed++ {
		f := newFixture(t, seed)
		_, err := f.room.StartGame(ctx)
		require.NoError(t, err)
		if humanOnTurn(f.room.State()) {
			continue
		}

		// A second schedule for the same turn, as after a difficulty change.
		_, err = f.room.SetBotDifficulty(ctx, bot.DifficultyHard)
		require.NoError(t, err)
		require.Equal(t, 2, f.sched.Pending())

		f.sched.Advance(0)
		st := f.room.State()
		lead := 0
		for _, e := range st.Game.CenterPile {
			if len(e.Cards) > 0 {
				lead++
			}
		}
		assert.LessOrEqual(t, lead, 1, "the duplicate task must not play twice")
		return
	}
	t.Fatal("no seed with a bot lead")
}

func TestRoom_SetBotDifficulty(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	events, err := f.room.SetBotDifficulty(ctx, "HARD")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventDifficultyChanged, events[0].Kind)
	assert.Equal(t, DifficultyChangedPayload{Difficulty: bot.DifficultyHard}, events[0].Payload)
	assert.Equal(t, bot.DifficultyHard, f.room.Difficulty())

	_, err = f.room.SetBotDifficulty(ctx, "impossible")
	assert.Error(t, err)
	assert.Equal(t, bot.DifficultyHard, f.room.Difficulty())
}

func TestRoom_RestoreResumesBots(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 4)
	_, err := f.room.StartGame(ctx)
	require.NoError(t, err)
	f.room.Close()

	snap, err := f.store.Load(ctx, "room-1")
	require.NoError(t, err)

	g := newFixture(t, 4)
	require.NoError(t, g.room.Restore(ctx, snap))
	assert.Equal(t, snap.Game, g.room.State().Game)

	playHuman(t, g)
	assert.Equal(t, domain.PhaseGameOver, g.room.State().Game.Phase)

	require.False(t, snap.StartedAt.IsZero())
	results := g.recorder.Results()
	require.Len(t, results, 1)
	assert.True(t, results[0].StartedAt.Equal(snap.StartedAt), "deal time survives a restore")
}

func TestRoom_RestoreRejectsForeignSeats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 4)
	_, err := f.room.StartGame(ctx)
	require.NoError(t, err)
	snap, err := f.store.Load(ctx, "room-1")
	require.NoError(t, err)
	snap.Game.Players[2].ID = "intruder"

	err = newFixture(t, 4).room.Restore(ctx, snap)
	assert.ErrorIs(t, err, domain.ErrUnknownPlayer)
}

func TestRoomState_RedactedFor(t *testing.T) {
	state := RoomState{Game: domain.Snapshot{Players: []domain.PlayerView{
		{ID: "me", Hand: []domain.Card{{Rank: domain.Rank3}}, HandCount: 1},
		{ID: "you", Hand: []domain.Card{{Rank: domain.Rank4}}, HandCount: 1},
	}}}
	got := state.RedactedFor("me")
	assert.Len(t, got.Game.Players[0].Hand, 1)
	assert.Nil(t, got.Game.Players[1].Hand)
	assert.Equal(t, 1, got.Game.Players[1].HandCount)
	assert.Len(t, state.Game.Players[1].Hand, 1, "the source state is untouched")
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrCannotPassOnForcedLead, CodeCannotPass},
		{ErrGameInProgress, CodeGameInProgress},
		{errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorCode(tt.err))
	}
	_, err := bot.ParseDifficulty("nightmare")
	assert.Equal(t, CodeBadRequest, ErrorCode(err))
}
