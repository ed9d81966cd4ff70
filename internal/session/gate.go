// Package session keeps track of who is signed in. The signed-in user id survives
// restarts through a key-value store.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/protomem/charge-scheduler/internal/kvs"
	"github.com/protomem/charge-scheduler/internal/model"
	"github.com/protomem/charge-scheduler/internal/service"
)

const Key = "userId"

var (
	ErrLoading   = errors.New("session: loading")
	ErrAnonymous = errors.New("session: not authenticated")
)

type State uint8

const (
	StateUnresolved State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "loading"
	}
}

type Authenticator interface {
	Login(ctx context.Context, username, password string) service.LoginResult
}

type Gate struct {
	logger *slog.Logger
	store  kvs.Store
	auth   Authenticator

	mu     sync.RWMutex
	state  State
	userID model.ID

	resolved    chan struct{}
	resolveOnce sync.Once
	startOnce   sync.Once
}

func New(logger *slog.Logger, store kvs.Store, auth Authenticator) *Gate {
	return &Gate{
		logger:   logger.With("module", "session"),
		store:    store,
		auth:     auth,
		resolved: make(chan struct{}),
	}
}

// Start reads the persisted user id in the background. Calling it again is a no-op.
func (g *Gate) Start(ctx context.Context) {
	g.startOnce.Do(func() {
		go g.restore(ctx)
	})
}

func (g *Gate) restore(ctx context.Context) {
	state, id := StateAnonymous, model.ID(0)

	raw, err := g.store.Get(ctx, Key)
	switch {
	case err == nil:
		parsed, perr := strconv.ParseUint(raw, 10, 64)
		if perr != nil || parsed == 0 {
			g.logger.Warn("ignore malformed session key", "value", raw)
			break
		}
		state, id = StateAuthenticated, model.ID(parsed)
	case errors.Is(err, kvs.ErrNotFound):
	default:
		g.logger.Warn("failed to read session key", "error", err)
	}

	g.mu.Lock()
	// An early logout has already settled the state.
	if g.state == StateUnresolved {
		g.state, g.userID = state, id
	}
	g.mu.Unlock()

	g.resolve()

	g.logger.Debug("session restored", "state", g.State().String())
}

func (g *Gate) resolve() {
	g.resolveOnce.Do(func() { close(g.resolved) })
}

// Wait blocks until the persisted session has been read.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.resolved:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Gate) Loading() bool {
	return g.State() == StateUnresolved
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.state
}

// Current returns the state together with the user id, which is zero unless authenticated.
func (g *Gate) Current() (State, model.ID) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.state, g.userID
}

func (g *Gate) UserID() (model.ID, error) {
	state, id := g.Current()
	switch state {
	case StateUnresolved:
		return 0, ErrLoading
	case StateAnonymous:
		return 0, ErrAnonymous
	default:
		return id, nil
	}
}

// Login checks the credentials and, on success, persists the user id.
func (g *Gate) Login(ctx context.Context, username, password string) (service.LoginResult, bool) {
	if err := g.Wait(ctx); err != nil {
		return service.LoginResult{Result: service.Result{Message: "Login failed", Err: err}}, false
	}

	res := g.auth.Login(ctx, username, password)
	if !res.Success || res.User == nil {
		return res, false
	}

	if err := g.store.Set(ctx, Key, strconv.FormatUint(uint64(res.User.ID), 10)); err != nil {
		g.logger.Warn("failed to persist session key", "userId", res.User.ID, "error", err)
	}

	g.mu.Lock()
	g.state, g.userID = StateAuthenticated, res.User.ID
	g.mu.Unlock()

	return res, true
}

// Logout always ends the session, even if the key could not be removed.
func (g *Gate) Logout(ctx context.Context) error {
	err := g.store.Del(ctx, Key)
	if err != nil {
		g.logger.Warn("failed to remove session key", "error", err)
	}

	g.mu.Lock()
	g.state, g.userID = StateAnonymous, 0
	g.mu.Unlock()
	g.resolve()

	return err
}
