package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tienlen/internal/app"
	"tienlen/internal/domain"
	"tienlen/internal/logging"
	"tienlen/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	srv      *httptest.Server
	registry *app.Registry
	tokens   *app.TokenService
	hub      *Hub
	sched    *app.QueueScheduler
}

type wireMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logging.Discard()
	hub := NewHub(logger)
	sched := app.NewQueueScheduler()
	registry := app.NewRegistry(app.RoomConfig{
		Scheduler: sched,
		Publisher: hub,
		Store:     storage.NewMemorySnapshotStore(),
		Logger:    logger,
		Rand:      rand.New(rand.NewSource(5)),
	})
	tokens := app.NewTokenService("test-secret", "tienlen-test", time.Hour)
	server := NewServer(registry, tokens, hub, storage.NewMemoryResultRecorder(), logger)

	srv := httptest.NewServer(server.Router())
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return &testEnv{srv: srv, registry: registry, tokens: tokens, hub: hub, sched: sched}
}

func (e *testEnv) createSession(t *testing.T, body string) CreateSessionResponse {
	t.Helper()
	resp, err := http.Post(e.srv.URL+"/api/sessions", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out CreateSessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *testEnv) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg wireMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	resp, err := http.Get(e.srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateSession(t *testing.T) {
	e := newTestEnv(t)
	out := e.createSession(t, `{"name":"Ann","difficulty":"hard"}`)

	session, err := e.tokens.Parse(out.Token)
	require.NoError(t, err)
	assert.Equal(t, app.Session{RoomID: out.RoomID, PlayerID: out.PlayerID}, session)

	room, err := e.registry.Get(out.RoomID)
	require.NoError(t, err)
	assert.Equal(t, "hard", string(room.Difficulty()))
	assert.Equal(t, "Ann", room.State().Game.Players[0].Name)

	resp, err := http.Post(e.srv.URL+"/api/sessions", "application/json", strings.NewReader(`{"difficulty":"godlike"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 1, e.registry.Len(), "rejected sessions leave no room behind")
}

func TestGetState_RequiresTokenAndRedacts(t *testing.T) {
	e := newTestEnv(t)
	out := e.createSession(t, `{}`)
	room, err := e.registry.Get(out.RoomID)
	require.NoError(t, err)
	_, err = room.StartGame(t.Context())
	require.NoError(t, err)

	resp, err := http.Get(e.srv.URL + "/api/state")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodGet, e.srv.URL+"/api/state", nil)
	req.Header.Set("Authorization", "Bearer "+out.Token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state app.RoomState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	for _, p := range state.Game.Players {
		assert.Equal(t, 13, p.HandCount)
		if p.ID == out.PlayerID {
			assert.Len(t, p.Hand, 13)
		} else {
			assert.Empty(t, p.Hand, "opponent hands are hidden")
		}
	}
}

func TestStats(t *testing.T) {
	e := newTestEnv(t)
	resp, err := http.Get(e.srv.URL + "/api/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebsocket_StartGameFlow(t *testing.T) {
	e := newTestEnv(t)
	out := e.createSession(t, `{"name":"Ann"}`)
	conn := e.dial(t, out.Token)

	first := readMessage(t, conn)
	assert.Equal(t, EventState, first.Event)

	require.NoError(t, conn.WriteJSON(IncomingMessage{Event: EventStartGame}))

	events := readMessage(t, conn)
	require.Equal(t, EventEvents, events.Event)
	var batch []struct {
		Kind    string          `json:"kind"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(events.Data, &batch))
	require.Len(t, batch, 2, "game_started plus only our own hand")
	assert.Equal(t, "game_started", batch[0].Kind)
	assert.Equal(t, "hand_dealt", batch[1].Kind)
	var dealt app.HandDealtPayload
	require.NoError(t, json.Unmarshal(batch[1].Payload, &dealt))
	assert.Equal(t, out.PlayerID, dealt.PlayerID)

	state := readMessage(t, conn)
	require.Equal(t, EventState, state.Event)
	var rs app.RoomState
	require.NoError(t, json.Unmarshal(state.Data, &rs))
	assert.Equal(t, domain.PhasePlaying, rs.Game.Phase)

	require.NoError(t, conn.WriteJSON(IncomingMessage{Event: EventStartGame}))
	errMsg := readMessage(t, conn)
	require.Equal(t, EventError, errMsg.Event)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(errMsg.Data, &payload))
	assert.Equal(t, "game_in_progress", payload.Code)

	require.NoError(t, conn.WriteJSON(IncomingMessage{Event: "dance"}))
	errMsg = readMessage(t, conn)
	require.NoError(t, json.Unmarshal(errMsg.Data, &payload))
	assert.Equal(t, "bad_request", payload.Code)
}

func TestWebsocket_RejectsBadToken(t *testing.T) {
	e := newTestEnv(t)
	url := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/ws?token=garbage"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_PublishFiltersPrivateEvents(t *testing.T) {
	hub := NewHub(logging.Discard())
	a := &Client{session: app.Session{RoomID: "r", PlayerID: "a"}, send: make(chan OutgoingMessage, 1), hub: hub}
	b := &Client{session: app.Session{RoomID: "r", PlayerID: "b"}, send: make(chan OutgoingMessage, 1), hub: hub}
	other := &Client{session: app.Session{RoomID: "x", PlayerID: "a"}, send: make(chan OutgoingMessage, 1), hub: hub}
	hub.register(a)
	hub.register(b)
	hub.register(other)
	assert.Equal(t, 3, hub.Connections())

	hub.Publish("r", []app.Event{
		{Kind: app.EventGameStarted},
		{Kind: app.EventHandDealt, Recipients: []string{"a"}},
	})

	got := (<-a.send).Data.([]app.Event)
	assert.Len(t, got, 2)
	got = (<-b.send).Data.([]app.Event)
	assert.Len(t, got, 1)
	select {
	case <-other.send:
		t.Fatal("events leaked to another room")
	default:
	}

	// Full buffers drop instead of blocking the room.
	hub.Publish("r", []app.Event{{Kind: app.EventTurnPassed}})
	hub.Publish("r", []app.Event{{Kind: app.EventTurnPassed}})

	<-a.send
	hub.unregister(a)
	_, open := <-a.send
	assert.False(t, open)
	assert.Equal(t, 2, hub.Connections())
}

func TestHub_RegisterReplacesSeat(t *testing.T) {
	hub := NewHub(logging.Discard())
	old := &Client{session: app.Session{RoomID: "r", PlayerID: "a"}, send: make(chan OutgoingMessage, 1), hub: hub}
	fresh := &Client{session: app.Session{RoomID: "r", PlayerID: "a"}, send: make(chan OutgoingMessage, 1), hub: hub}
	hub.register(old)
	hub.register(fresh)

	_, open := <-old.send
	assert.False(t, open)
	hub.unregister(old)
	assert.Equal(t, 1, hub.Connections(), "stale unregister keeps the new seat")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{fmt.Errorf("wrapped: %w", domain.ErrWrongTurn), "wrong_turn", http.StatusConflict},
		{domain.ErrDoesNotBeatActiveTrick, "does_not_beat", http.StatusBadRequest},
		{app.ErrNotHuman, "not_human", http.StatusForbidden},
		{fmt.Errorf("%w: x", app.ErrRoomNotFound), "room_not_found", http.StatusNotFound},
		{app.ErrInvalidToken, "invalid_token", http.StatusUnauthorized},
		{app.ErrTooManyRooms, "too_many_rooms", http.StatusServiceUnavailable},
		{fmt.Errorf("%w: unknown event", errBadRequest), "bad_request", http.StatusBadRequest},
		{errors.New("boom"), "internal", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		code, status := classify(tt.err)
		assert.Equal(t, tt.code, code, tt.err.Error())
		assert.Equal(t, tt.status, status, tt.err.Error())
	}
}
