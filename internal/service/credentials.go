package service

import (
	"context"
	"errors"

	"github.com/protomem/charge-scheduler/internal/database"
	"github.com/protomem/charge-scheduler/internal/model"
)

type LoginResult struct {
	Result
	User *model.UserRef `json:"user,omitempty"`
}

// Register creates a user. Passwords are stored as given.
func (s *Service) Register(ctx context.Context, username, password string) Result {
	db, err := s.await(ctx)
	if err != nil {
		return fail("Registration failed", errors.Join(model.ErrPersistence, err))
	}

	users := database.NewUserDAO(s.logger, db)
	if _, err := users.Insert(ctx, database.InsertUserDTO{Username: username, Password: password}); err != nil {
		if errors.Is(err, model.ErrExists) {
			return fail("Username already exists", err)
		}
		return fail("Registration failed", errors.Join(model.ErrPersistence, err))
	}

	return ok("User registered successfully")
}

// Login checks password by exact string comparison against the stored one.
func (s *Service) Login(ctx context.Context, username, password string) LoginResult {
	db, err := s.await(ctx)
	if err != nil {
		return LoginResult{Result: fail("Login failed", errors.Join(model.ErrPersistence, err))}
	}

	user, err := database.NewUserDAO(s.logger, db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return LoginResult{Result: fail("User not found", err)}
		}
		return LoginResult{Result: fail("Login failed", errors.Join(model.ErrPersistence, err))}
	}

	if user.Password != password {
		return LoginResult{Result: fail("Invalid password", model.NewError("user", model.ErrInvalidPassword))}
	}

	ref := user.Ref()
	return LoginResult{Result: ok("Login successful"), User: &ref}
}
