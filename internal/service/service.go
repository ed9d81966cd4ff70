// Package service is the contract the API server and the admin CLI call into.
// Every operation waits until the database has been opened, migrated and seeded.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/protomem/charge-scheduler/internal/database"
	"github.com/protomem/charge-scheduler/internal/model"
)

const (
	DefaultUsername = "testuser"
	DefaultPassword = "password123"
)

// Result is the outcome of a write operation. Err is set on failure and matches
// the model sentinels with errors.Is.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func ok(message string) Result {
	return Result{Success: true, Message: message}
}

func fail(message string, err error) Result {
	return Result{Success: false, Message: message, Err: err}
}

type Connector func(ctx context.Context) (*database.DB, error)

type Options struct {
	DefaultUser model.User
}

type Service struct {
	logger *slog.Logger
	opts   Options

	ready chan struct{}
	db    *database.DB
	err   error

	closeOnce sync.Once
}

// New starts opening the database in the background and returns immediately.
func New(logger *slog.Logger, connect Connector, opts Options) *Service {
	if opts.DefaultUser.Username == "" {
		opts.DefaultUser = model.User{Username: DefaultUsername, Password: DefaultPassword}
	}

	s := &Service{
		logger: logger.With("module", "service"),
		opts:   opts,
		ready:  make(chan struct{}),
	}

	go s.init(connect)

	return s
}

func (s *Service) init(connect Connector) {
	defer close(s.ready)

	ctx := context.Background()

	db, err := connect(ctx)
	if err != nil {
		s.logger.Error("failed to open database", "error", err)
		s.err = err
		return
	}
	s.db = db

	if err := s.seedDefaultUser(ctx); err != nil {
		s.logger.Error("failed to create default user", "error", err)
	}

	s.logger.Info("database ready")
}

func (s *Service) seedDefaultUser(ctx context.Context) error {
	users := database.NewUserDAO(s.logger, s.db)
	def := s.opts.DefaultUser

	exists, err := users.Exists(ctx, def.Username)
	if err != nil || exists {
		return err
	}

	_, err = users.Insert(ctx, database.InsertUserDTO{Username: def.Username, Password: def.Password})
	if errors.Is(err, model.ErrExists) {
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info("default user created", "username", def.Username)

	return nil
}

// Ready blocks until initialization has finished and reports its error.
func (s *Service) Ready(ctx context.Context) error {
	_, err := s.await(ctx)
	return err
}

func (s *Service) await(ctx context.Context) (*database.DB, error) {
	select {
	case <-s.ready:
		if s.err != nil {
			return nil, s.err
		}
		return s.db, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// DB exposes the opened database, e.g. as the backing store of the session key.
func (s *Service) DB(ctx context.Context) (*database.DB, error) {
	return s.await(ctx)
}

func (s *Service) Close() error {
	<-s.ready

	var err error
	s.closeOnce.Do(func() {
		if s.db != nil {
			err = s.db.Close()
		}
	})
	return err
}
