package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment override, e.g. TIENLEN_REDIS_ADDR.
const EnvPrefix = "TIENLEN"

// DevSecret is the built-in token secret. It is public, so it is only
// accepted with auth.allow_dev_secret.
const DevSecret = "change-me"

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type BotConfig struct {
	// ThinkTime is the pause before a bot submits its move.
	ThinkTime      time.Duration `mapstructure:"think_time"`
	Difficulty     string        `mapstructure:"difficulty"`
	Names          []string      `mapstructure:"names"`
	IdentitiesFile string        `mapstructure:"identities_file"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type PostgresConfig struct {
	// DSN is empty when results should not be recorded.
	DSN string `mapstructure:"dsn"`
}

type AuthConfig struct {
	Secret         string        `mapstructure:"secret"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	AllowDevSecret bool          `mapstructure:"allow_dev_secret"`
}

// RoomsConfig bounds how many rooms live in memory and for how long.
type RoomsConfig struct {
	Max               int           `mapstructure:"max"` // 0 means unlimited
	IdleTTL           time.Duration `mapstructure:"idle_ttl"`
	SweepInterval     time.Duration `mapstructure:"sweep_interval"`
	SnapshotRetention time.Duration `mapstructure:"snapshot_retention"`
}

type GameConfig struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Bots     BotConfig      `mapstructure:"bots"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Rooms    RoomsConfig    `mapstructure:"rooms"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the process-wide configuration once. path may be
// empty to use defaults and environment overrides only.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		c, err := Load(path)
		if err != nil {
			loadErr = err
			return
		}
		cfg = c
	})
	return loadErr
}

// GetGameConfig returns the loaded configuration, or the defaults if
// LoadGameConfig was never called or failed.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		c := Defaults()
		return &c
	}
	return cfg
}

// Load reads an optional config file and applies TIENLEN_* environment
// overrides on top of the defaults.
func Load(path string) (*GameConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read game config: %w", err)
		}
	}

	var c GameConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Defaults returns the built-in configuration.
func Defaults() GameConfig {
	return GameConfig{
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info"},
		Bots: BotConfig{
			ThinkTime:  1200 * time.Millisecond,
			Difficulty: "medium",
		},
		Redis: RedisConfig{Addr: "localhost:6379", TTL: 24 * time.Hour},
		Auth:  AuthConfig{Secret: DevSecret, TokenTTL: 12 * time.Hour},
		Rooms: RoomsConfig{
			Max:               10000,
			IdleTTL:           30 * time.Minute,
			SweepInterval:     time.Minute,
			SnapshotRetention: 24 * time.Hour,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("bots.think_time", d.Bots.ThinkTime)
	v.SetDefault("bots.difficulty", d.Bots.Difficulty)
	v.SetDefault("bots.names", []string{})
	v.SetDefault("bots.identities_file", "")
	v.SetDefault("redis.enabled", d.Redis.Enabled)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", d.Redis.TTL)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("auth.secret", d.Auth.Secret)
	v.SetDefault("auth.token_ttl", d.Auth.TokenTTL)
	v.SetDefault("auth.allow_dev_secret", false)
	v.SetDefault("rooms.max", d.Rooms.Max)
	v.SetDefault("rooms.idle_ttl", d.Rooms.IdleTTL)
	v.SetDefault("rooms.sweep_interval", d.Rooms.SweepInterval)
	v.SetDefault("rooms.snapshot_retention", d.Rooms.SnapshotRetention)
}

// Validate rejects settings the server cannot run with.
func (c *GameConfig) Validate() error {
	var errs []error
	if c.Bots.ThinkTime < 0 {
		errs = append(errs, fmt.Errorf("bots.think_time must not be negative, got %s", c.Bots.ThinkTime))
	}
	switch strings.ToLower(c.Bots.Difficulty) {
	case "easy", "medium", "hard":
	default:
		errs = append(errs, fmt.Errorf("bots.difficulty %q is not easy, medium or hard", c.Bots.Difficulty))
	}
	switch {
	case c.Auth.Secret == "":
		errs = append(errs, errors.New("auth.secret must be set"))
	case c.Auth.Secret == DevSecret && !c.Auth.AllowDevSecret:
		errs = append(errs, errors.New("auth.secret is the public development secret; set TIENLEN_AUTH_SECRET or auth.allow_dev_secret"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Rooms.Max < 0 {
		errs = append(errs, fmt.Errorf("rooms.max must not be negative, got %d", c.Rooms.Max))
	}
	if c.Rooms.IdleTTL <= 0 || c.Rooms.SweepInterval <= 0 || c.Rooms.SnapshotRetention <= 0 {
		errs = append(errs, errors.New("rooms.idle_ttl, rooms.sweep_interval and rooms.snapshot_retention must be positive"))
	}
	return errors.Join(errs...)
}
