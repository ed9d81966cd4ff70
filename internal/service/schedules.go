package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/protomem/charge-scheduler/internal/database"
	"github.com/protomem/charge-scheduler/internal/model"
	"github.com/protomem/charge-scheduler/internal/validator"
)

type CreateResult struct {
	Result
	ScheduleID model.ID `json:"scheduleId,omitempty"`
}

// ValidationError carries every rule an input broke.
type ValidationError struct {
	validator.Validator
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", model.ErrValidation, e.First())
}

func (e *ValidationError) Unwrap() error {
	return model.ErrValidation
}

func prepare(in model.ScheduleInput) (model.ScheduleInput, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.Days = in.Days.Normalize()

	var v validator.Validator
	in.Validate(&v)
	if v.HasErrors() {
		return in, &ValidationError{Validator: v}
	}
	return in, nil
}

func (s *Service) CreateSchedule(ctx context.Context, userID model.ID, in model.ScheduleInput) CreateResult {
	in, err := prepare(in)
	if err != nil {
		return CreateResult{Result: fail(validationMessage(err), err)}
	}

	db, err := s.await(ctx)
	if err != nil {
		return CreateResult{Result: fail("Failed to create schedule", errors.Join(model.ErrPersistence, err))}
	}

	id, err := database.NewScheduleDAO(s.logger, db).Insert(ctx, userID, in)
	if err != nil {
		return CreateResult{Result: fail("Failed to create schedule", errors.Join(model.ErrPersistence, err))}
	}

	return CreateResult{Result: ok("Schedule created successfully"), ScheduleID: id}
}

// GetSchedules lists the user's schedules, newest first. A storage fault is logged
// and yields an empty list; only a row with an unknown type is reported as an error.
func (s *Service) GetSchedules(ctx context.Context, userID model.ID) ([]model.Schedule, error) {
	db, err := s.await(ctx)
	if err != nil {
		s.logger.Warn("failed to list schedules", "userId", userID, "error", err)
		return []model.Schedule{}, nil
	}

	schedules, err := database.NewScheduleDAO(s.logger, db).FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUnknownScheduleType) {
			return []model.Schedule{}, err
		}
		s.logger.Warn("failed to list schedules", "userId", userID, "error", err)
		return []model.Schedule{}, nil
	}

	return schedules, nil
}

// GetScheduleByID returns nil when the schedule is missing or owned by someone else.
func (s *Service) GetScheduleByID(ctx context.Context, id, userID model.ID) (*model.Schedule, error) {
	db, err := s.await(ctx)
	if err != nil {
		s.logger.Warn("failed to get schedule", "scheduleId", id, "userId", userID, "error", err)
		return nil, nil
	}

	schedule, err := database.NewScheduleDAO(s.logger, db).Get(ctx, id, userID)
	switch {
	case err == nil:
		return &schedule, nil
	case errors.Is(err, model.ErrUnknownScheduleType):
		return nil, err
	case errors.Is(err, model.ErrNotFound):
		return nil, nil
	default:
		s.logger.Warn("failed to get schedule", "scheduleId", id, "userId", userID, "error", err)
		return nil, nil
	}
}

func (s *Service) UpdateSchedule(ctx context.Context, id, userID model.ID, in model.ScheduleInput) Result {
	in, err := prepare(in)
	if err != nil {
		return fail(validationMessage(err), err)
	}

	db, err := s.await(ctx)
	if err != nil {
		return fail("Failed to update schedule", errors.Join(model.ErrPersistence, err))
	}

	if err := database.NewScheduleDAO(s.logger, db).Update(ctx, id, userID, in); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fail("Schedule not found", err)
		}
		return fail("Failed to update schedule", errors.Join(model.ErrPersistence, err))
	}

	return ok("Schedule updated successfully")
}

func (s *Service) DeleteSchedule(ctx context.Context, id, userID model.ID) Result {
	db, err := s.await(ctx)
	if err != nil {
		return fail("Failed to delete schedule", errors.Join(model.ErrPersistence, err))
	}

	if err := database.NewScheduleDAO(s.logger, db).Delete(ctx, id, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fail("Schedule not found", err)
		}
		return fail("Failed to delete schedule", errors.Join(model.ErrPersistence, err))
	}

	return ok("Schedule deleted successfully")
}

func validationMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.First()
	}
	return err.Error()
}
