package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"tienlen/internal/app"
	"tienlen/internal/bot"
	"tienlen/internal/storage"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const sessionKey = "session"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StatsSource reports aggregated results per bot difficulty.
type StatsSource interface {
	Stats(ctx context.Context) ([]storage.DifficultyStats, error)
}

// Server exposes rooms over HTTP and websockets.
type Server struct {
	registry *app.Registry
	tokens   *app.TokenService
	hub      *Hub
	stats    StatsSource
	logger   *log.Logger
}

// NewServer wires the transport. The registry's rooms must publish to hub.
// stats may be nil.
func NewServer(registry *app.Registry, tokens *app.TokenService, hub *Hub, stats StatsSource, logger *log.Logger) *Server {
	return &Server{registry: registry, tokens: tokens, hub: hub, stats: stats, logger: logger}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "rooms": s.registry.Len(), "connections": s.hub.Connections()})
	})

	api := r.Group("/api")
	api.POST("/sessions", s.createSession)
	if s.stats != nil {
		api.GET("/stats", s.getStats)
	}

	authed := r.Group("/", s.authRequired())
	authed.GET("/api/state", s.getState)
	authed.GET("/ws", s.serveWS)
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.Debug("http", "method", c.Request.Method, "path", c.FullPath(), "status", c.Writer.Status())
	}
}

// authRequired accepts the session token as a bearer header or, for
// browsers opening a websocket, as the token query parameter.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if raw == "" {
			raw = c.Query("token")
		}
		session, err := s.tokens.Parse(raw)
		if err != nil {
			s.abort(c, err)
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

func (s *Server) abort(c *gin.Context, err error) {
	code, status := classify(err)
	c.AbortWithStatusJSON(status, ErrorPayload{Code: code, Message: err.Error()})
}

func (s *Server) createSession(c *gin.Context) {
	var req CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorPayload{Code: "bad_request", Message: err.Error()})
			return
		}
	}

	room, err := s.registry.Create(c.Request.Context(), uuid.NewString(), strings.TrimSpace(req.Name))
	if err != nil {
		s.abort(c, err)
		return
	}
	if req.Difficulty != "" {
		if _, err := room.SetBotDifficulty(c.Request.Context(), bot.Difficulty(req.Difficulty)); err != nil {
			s.registry.Remove(c.Request.Context(), room.ID)
			c.JSON(http.StatusBadRequest, ErrorPayload{Code: "bad_request", Message: err.Error()})
			return
		}
	}

	token, err := s.tokens.Issue(app.Session{RoomID: room.ID, PlayerID: room.HumanID})
	if err != nil {
		s.abort(c, err)
		return
	}
	s.logger.Info("session created", "room", room.ID, "player", room.HumanID)
	c.JSON(http.StatusCreated, CreateSessionResponse{RoomID: room.ID, PlayerID: room.HumanID, Token: token})
}

func (s *Server) getState(c *gin.Context) {
	session := c.MustGet(sessionKey).(app.Session)
	room, err := s.registry.Resume(c.Request.Context(), session.RoomID)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, room.State().RedactedFor(session.PlayerID))
}

func (s *Server) getStats(c *gin.Context) {
	stats, err := s.stats.Stats(c.Request.Context())
	if err != nil {
		s.logger.Error("stats query failed", "err", err)
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (s *Server) serveWS(c *gin.Context) {
	session := c.MustGet(sessionKey).(app.Session)
	room, err := s.registry.Resume(c.Request.Context(), session.RoomID)
	if err != nil {
		s.abort(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	client := &Client{
		session: session,
		conn:    conn,
		send:    make(chan OutgoingMessage, sendBuffer),
		hub:     s.hub,
		server:  s,
	}
	s.hub.register(client)
	s.hub.send(client, OutgoingMessage{Event: EventState, Data: room.State().RedactedFor(session.PlayerID)})

	go client.writePump()
	go client.readPump()
}

// dispatch runs one client command against the client's room and answers
// with the resulting state or an error.
func (s *Server) dispatch(ctx context.Context, c *Client, msg IncomingMessage) {
	room, err := s.registry.Resume(ctx, c.session.RoomID)
	if err == nil {
		err = s.apply(ctx, room, c.session.PlayerID, msg)
	}
	if err != nil {
		s.logger.Debug("command rejected", "room", c.session.RoomID, "player", c.session.PlayerID, "event", msg.Event, "err", err)
		s.hub.send(c, errorMessage(err))
		return
	}
	s.hub.send(c, OutgoingMessage{Event: EventState, Data: room.State().RedactedFor(c.session.PlayerID)})
}

func (s *Server) apply(ctx context.Context, room *app.Room, playerID string, msg IncomingMessage) error {
	var err error
	switch msg.Event {
	case EventStartGame:
		_, err = room.StartGame(ctx)
	case EventPlayMove:
		var req PlayMoveRequest
		if err := decode(msg.Data, &req); err != nil {
			return err
		}
		_, err = room.PlayMove(ctx, playerID, req.Cards)
	case EventPass:
		_, err = room.Pass(ctx, playerID)
	case EventSetDifficulty:
		var req DifficultyRequest
		if err := decode(msg.Data, &req); err != nil {
			return err
		}
		_, err = room.SetBotDifficulty(ctx, bot.Difficulty(req.Difficulty))
	case EventSync:
	default:
		err = fmt.Errorf("%w: unknown event %q", errBadRequest, msg.Event)
	}
	return err
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", errBadRequest)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
