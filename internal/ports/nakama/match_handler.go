package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"tienlen/internal/app"
	"tienlen/internal/bot"
	"tienlen/internal/domain"
	"tienlen/internal/logging"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Match parameters set by RpcCreateSoloMatch.
const (
	paramHumanID    = "human_id"
	paramDifficulty = "difficulty"
)

// MatchState holds the authoritative runtime state for one solo table.
type MatchState struct {
	HumanID   string              `json:"human_id"`
	Presence  runtime.Presence    `json:"-"` // nil while the human is disconnected
	Room      *app.Room           `json:"-"`
	Scheduler *app.QueueScheduler `json:"-"` // advanced once per tick
	Outbox    *outbox             `json:"-"`
	Label     string              `json:"label"`
	Tick      int64               `json:"tick"`
}

// outbox buffers room events until the match loop dispatches them.
// Nakama drives a match from a single goroutine, so no lock is needed.
type outbox struct {
	events []app.Event
}

func (o *outbox) Publish(roomID string, events []app.Event) {
	o.events = append(o.events, events...)
}

func (o *outbox) drain() []app.Event {
	events := o.events
	o.events = nil
	return events
}

type gameErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type playCardsRequest struct {
	Cards []domain.Card `json:"cards"`
}

type setDifficultyRequest struct {
	Difficulty string `json:"difficulty"`
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	mh := &matchHandler{}
	if nk != nil {
		mh.recorder = NewNakamaResultRecorder(nk)
	}
	return mh, nil
}

type matchHandler struct {
	recorder *NakamaResultRecorder
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing solo match.")

	humanID, _ := params[paramHumanID].(string)
	if humanID == "" {
		logger.Error("MatchInit: missing %s param", paramHumanID)
		return nil, 0, ""
	}

	// Load bot identities from data folder
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	thinkTime := app.BotThinkTime
	if val, ok := env["tienlen_bot_think_ms"]; ok {
		if ms, err := strconv.Atoi(val); err == nil && ms >= 0 {
			thinkTime = time.Duration(ms) * time.Millisecond
		}
	}
	difficulty := bot.DifficultyMedium
	if val, ok := env["tienlen_bot_difficulty"]; ok {
		if level, err := bot.ParseDifficulty(val); err == nil {
			difficulty = level
		}
	}
	if val, ok := params[paramDifficulty].(string); ok {
		if level, err := bot.ParseDifficulty(val); err == nil {
			difficulty = level
		}
	}

	state := &MatchState{
		HumanID:   humanID,
		Scheduler: app.NewQueueScheduler(),
		Outbox:    &outbox{},
	}
	cfg := app.RoomConfig{
		Human:      app.Seat{ID: humanID},
		Difficulty: difficulty,
		ThinkTime:  thinkTime,
		Scheduler:  state.Scheduler,
		Publisher:  state.Outbox,
		Logger:     logging.New(os.Stderr, env["tienlen_log_level"]),
	}
	if mh.recorder != nil {
		cfg.Recorder = mh.recorder
	}
	room, err := app.NewRoom(cfg)
	if err != nil {
		logger.Error("MatchInit: Failed to create room: %v", err)
		return nil, 0, ""
	}
	state.Room = room

	label, err := matchLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	state.Label = label
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	if presence.GetUserId() != matchState.HumanID {
		return state, false, "solo match"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return nil
	}
	for _, p := range presences {
		if p.GetUserId() == matchState.HumanID {
			matchState.Presence = p
			logger.Info("MatchJoin: %s joined", p.GetUserId())
		}
	}
	mh.sendState(matchState, dispatcher, logger)
	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave ends the match when the human leaves; a solo table has no one
// else to play for.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return nil
	}
	for _, p := range presences {
		if p.GetUserId() == matchState.HumanID {
			logger.Info("MatchLeave: Terminating match, %s left.", p.GetUserId())
			matchState.Room.Close()
			return nil
		}
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLoop: state not found")
		return nil
	}
	matchState.Tick = tick

	for _, msg := range messages {
		mh.handleMessage(ctx, matchState, dispatcher, logger, msg)
	}

	if matchState.Scheduler.Advance(tickInterval) > 0 {
		mh.flush(matchState, dispatcher, logger)
	}
	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) handleMessage(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if msg.GetUserId() != state.HumanID {
		return
	}

	var err error
	switch msg.GetOpCode() {
	case OpStartGame:
		_, err = state.Room.StartGame(ctx)
	case OpPlayCards:
		var req playCardsRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			logger.Error("handlePlayCards: Failed to unmarshal request: %v", err)
			mh.sendError(state, dispatcher, logger, app.CodeBadRequest, "invalid play payload")
			return
		}
		_, err = state.Room.PlayMove(ctx, state.HumanID, req.Cards)
	case OpPassTurn:
		_, err = state.Room.Pass(ctx, state.HumanID)
	case OpSetDifficulty:
		var req setDifficultyRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			mh.sendError(state, dispatcher, logger, app.CodeBadRequest, "invalid difficulty payload")
			return
		}
		_, err = state.Room.SetBotDifficulty(ctx, bot.Difficulty(req.Difficulty))
	case OpSyncState:
	default:
		logger.Warn("handleMessage: Unknown op code %d from %s", msg.GetOpCode(), msg.GetUserId())
		mh.sendError(state, dispatcher, logger, app.CodeBadRequest, "unknown op code")
		return
	}

	if err != nil {
		mh.sendError(state, dispatcher, logger, app.ErrorCode(err), err.Error())
		return
	}
	mh.flush(state, dispatcher, logger)
	mh.sendState(state, dispatcher, logger)
}

// flush dispatches buffered room events to the human.
func (mh *matchHandler) flush(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for _, ev := range state.Outbox.drain() {
		if state.Presence == nil || !ev.VisibleTo(state.HumanID) {
			continue
		}
		opCode, ok := opCodeFor(ev.Kind)
		if !ok {
			continue
		}
		data, err := json.Marshal(ev.Payload)
		if err != nil {
			logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
			continue
		}
		if err := dispatcher.BroadcastMessage(opCode, data, []runtime.Presence{state.Presence}, nil, true); err != nil {
			logger.Error("Failed to send event %v: %v", ev.Kind, err)
		}
	}
}

func opCodeFor(kind app.EventKind) (int64, bool) {
	switch kind {
	case app.EventGameStarted:
		return OpGameStarted, true
	case app.EventHandDealt:
		return OpHandDealt, true
	case app.EventCardPlayed:
		return OpCardPlayed, true
	case app.EventTurnPassed:
		return OpTurnPassed, true
	case app.EventRoundCleared:
		return OpRoundCleared, true
	case app.EventPlayerFinished:
		return OpPlayerFinished, true
	case app.EventGameEnded:
		return OpGameEnded, true
	case app.EventBotRemark:
		return OpBotRemark, true
	case app.EventDifficultyChanged:
		return OpDifficultyChanged, true
	default:
		return 0, false
	}
}

func (mh *matchHandler) sendState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Presence == nil {
		return
	}
	data, err := json.Marshal(state.Room.State().RedactedFor(state.HumanID))
	if err != nil {
		logger.Error("Failed to marshal match state: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpMatchState, data, []runtime.Presence{state.Presence}, nil, true); err != nil {
		logger.Error("Failed to send match state: %v", err)
	}
}

func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, code, message string) {
	if state.Presence == nil {
		return
	}
	data, err := json.Marshal(gameErrorPayload{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal game error: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpGameError, data, []runtime.Presence{state.Presence}, nil, true); err != nil {
		logger.Error("Failed to send game error: %v", err)
	}
}

// matchLabel renders the label Nakama indexes for match listing.
func matchLabel(state *MatchState) (string, error) {
	open := 1
	if state.Presence != nil {
		open = 0
	}
	room := state.Room.State()
	label, err := structpb.NewStruct(map[string]interface{}{
		"open":       open,
		"state":      string(room.Game.Phase),
		"difficulty": string(room.Difficulty),
	})
	if err != nil {
		return "", err
	}
	payload, err := protojson.Marshal(label)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if label == state.Label {
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
		return
	}
	state.Label = label
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	if matchState, ok := state.(*MatchState); ok {
		matchState.Room.Close()
	}
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
