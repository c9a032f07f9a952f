package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tienlen/internal/app"
	"tienlen/internal/bot"
	"tienlen/internal/config"
	"tienlen/internal/logging"
	"tienlen/internal/ports"
	"tienlen/internal/ports/ws"
	"tienlen/internal/storage"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	_ = godotenv.Load()

	if err := config.LoadGameConfig(*configPath); err != nil {
		logging.Default().Fatal("failed to load config", "err", err)
	}
	cfg := config.GetGameConfig()
	logger := logging.New(os.Stderr, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg *config.GameConfig, logger *log.Logger) error {
	if cfg.Bots.IdentitiesFile != "" {
		if err := bot.LoadIdentities(cfg.Bots.IdentitiesFile); err != nil {
			logger.Warn("could not load bot identities, using defaults", "err", err)
		}
	}
	if len(cfg.Bots.Names) > 0 {
		bot.RenameIdentities(cfg.Bots.Names)
	}
	difficulty, err := bot.ParseDifficulty(cfg.Bots.Difficulty)
	if err != nil {
		return err
	}

	template := app.RoomConfig{
		Difficulty: difficulty,
		ThinkTime:  cfg.Bots.ThinkTime,
		Logger:     logger,
	}

	if cfg.Redis.Enabled {
		rdb, err := storage.OpenRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		template.Store = storage.NewRedisSnapshotStore(rdb, cfg.Redis.TTL)
		logger.Info("room snapshots in redis", "addr", cfg.Redis.Addr)
	} else {
		template.Store = storage.NewMemorySnapshotStore()
	}

	var stats ws.StatsSource
	var recorder ports.ResultRecorder
	if cfg.Postgres.DSN != "" {
		pg, err := storage.OpenPostgres(ctx, cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer pg.Close()
		recorder, stats = pg, pg
		logger.Info("recording results in postgres")
	} else {
		mem := storage.NewMemoryResultRecorder()
		recorder, stats = mem, mem
	}
	template.Recorder = recorder

	scheduler := app.NewTimerScheduler()
	defer scheduler.Stop()
	template.Scheduler = scheduler

	hub := ws.NewHub(logger)
	defer hub.Close()
	template.Publisher = hub

	registry := app.NewRegistry(template)
	registry.SetMaxRooms(cfg.Rooms.Max)
	if cfg.Auth.Secret == config.DevSecret {
		logger.Warn("signing session tokens with the public development secret")
	}
	tokens := app.NewTokenService(cfg.Auth.Secret, "tienlen", cfg.Auth.TokenTTL)
	server := ws.NewServer(registry, tokens, hub, stats, logger)

	if logging.ParseLevel(cfg.Log.Level) > log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 15 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return registry.Sweep(ctx, cfg.Rooms.SweepInterval, cfg.Rooms.IdleTTL, cfg.Rooms.SnapshotRetention)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
