package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/protomem/charge-scheduler/internal/database"
	"github.com/protomem/charge-scheduler/internal/env"
	"github.com/protomem/charge-scheduler/internal/kvs"
	"github.com/protomem/charge-scheduler/internal/model"
	"github.com/protomem/charge-scheduler/internal/service"
	"github.com/protomem/charge-scheduler/internal/session"
	"github.com/protomem/charge-scheduler/internal/version"
)

const (
	_kvBackendDB     = "db"
	_kvBackendRedis  = "redis"
	_kvBackendMemory = "memory"

	_redisKeyPrefix = "charge-scheduler:"
)

var (
	_cfgFile     = flag.String("cfg", "", "path to config file")
	_showVersion = flag.Bool("version", false, "display version and exit")
)

func main() {
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: _logLevel}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

var _logLevel = new(slog.LevelVar)

type config struct {
	httpHost string
	httpPort int
	logLevel string

	httpTimeouts httpTimeouts

	db struct {
		driver      string
		dsn         string
		automigrate bool
	}
	kv struct {
		backend string
	}
	redis struct {
		addr     string
		password string
		db       int
	}
	defaultUser struct {
		username string
		password string
	}
}

type application struct {
	config  config
	logger  *slog.Logger
	service *service.Service
	session *session.Gate
}

func loadConfig() (config, error) {
	var cfg config

	if *_cfgFile != "" {
		err := env.Load(*_cfgFile)
		if err != nil {
			return cfg, err
		}
	}

	cfg.httpHost = env.GetString("HTTP_HOST", "localhost")
	cfg.httpPort = env.GetInt("HTTP_PORT", 8080)
	cfg.httpTimeouts.idle = env.GetDuration("HTTP_IDLE_TIMEOUT", time.Minute)
	cfg.httpTimeouts.read = env.GetDuration("HTTP_READ_TIMEOUT", 5*time.Second)
	cfg.httpTimeouts.write = env.GetDuration("HTTP_WRITE_TIMEOUT", 10*time.Second)
	cfg.httpTimeouts.shutdown = env.GetDuration("HTTP_SHUTDOWN_PERIOD", 30*time.Second)
	cfg.logLevel = env.GetString("LOG_LEVEL", "debug")
	cfg.db.driver = env.GetString("DB_DRIVER", database.DriverSQLite)
	cfg.db.dsn = env.GetString("DB_DSN", "data/schedules.db")
	cfg.db.automigrate = env.GetBool("DB_AUTOMIGRATE", true)
	cfg.kv.backend = env.GetString("KV_BACKEND", _kvBackendDB)
	cfg.redis.addr = env.GetString("REDIS_ADDR", "localhost:6379")
	cfg.redis.password = env.GetString("REDIS_PASSWORD", "")
	cfg.redis.db = env.GetInt("REDIS_DB", 0)
	cfg.defaultUser.username = env.GetString("DEFAULT_USERNAME", service.DefaultUsername)
	cfg.defaultUser.password = env.GetString("DEFAULT_PASSWORD", service.DefaultPassword)

	return cfg, nil
}

func run(logger *slog.Logger) error {
	if *_showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := _logLevel.UnmarshalText([]byte(cfg.logLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	svc := service.New(logger, func(ctx context.Context) (*database.DB, error) {
		return database.New(ctx, logger, database.Options{
			Driver:      cfg.db.driver,
			DSN:         cfg.db.dsn,
			Automigrate: cfg.db.automigrate,
		})
	}, service.Options{
		DefaultUser: model.User{Username: cfg.defaultUser.username, Password: cfg.defaultUser.password},
	})
	defer svc.Close()

	store, closeStore, err := newSessionStore(cfg, svc)
	if err != nil {
		return err
	}
	defer closeStore()

	gate := session.New(logger, store, svc)
	gate.Start(context.Background())

	app := &application{
		config:  cfg,
		logger:  logger,
		service: svc,
		session: gate,
	}

	return app.serveHTTP()
}

func newSessionStore(cfg config, svc *service.Service) (kvs.Store, func(), error) {
	switch cfg.kv.backend {
	case _kvBackendDB:
		return svc.KV(), func() {}, nil
	case _kvBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.redis.addr,
			Password: cfg.redis.password,
			DB:       cfg.redis.db,
		})
		return kvs.NewRedis(client, _redisKeyPrefix), func() { _ = client.Close() }, nil
	case _kvBackendMemory:
		return kvs.NewMemory(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown kv backend %q", cfg.kv.backend)
	}
}
