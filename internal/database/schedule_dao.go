package database

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/charge-scheduler/internal/model"
)

var _scheduleColumns = []string{
	"id", "user_id", "description", "type", "days",
	"start_time", "end_time", "ready_by", "desired_charge_level", "desired_mileage",
}

type scheduleRow struct {
	ID          model.ID   `db:"id"`
	UserID      model.ID   `db:"user_id"`
	Description string     `db:"description"`
	Type        int64      `db:"type"`
	Days        model.Days `db:"days"`
	model.VariantFields
}

func (row scheduleRow) toModel() (model.Schedule, error) {
	if row.Type <= 0 || row.Type > math.MaxUint8 {
		return model.Schedule{}, model.NewError("schedule", fmt.Errorf("%w: %d", model.ErrUnknownScheduleType, row.Type))
	}

	variant, err := model.NewVariant(model.ScheduleType(row.Type), row.VariantFields)
	if err != nil {
		return model.Schedule{}, model.NewError("schedule", err)
	}

	return model.Schedule{
		ID:     row.ID,
		UserID: row.UserID,
		ScheduleInput: model.ScheduleInput{
			Description: row.Description,
			Days:        row.Days,
			Variant:     variant,
		},
	}, nil
}

// writeColumns sets every variant column, NULL where the variant does not own it,
// so an update can move a row to another variant.
func writeColumns(in model.ScheduleInput) map[string]any {
	fields := model.FieldsOf(in.Variant)
	return map[string]any{
		"description":          in.Description,
		"type":                 in.Type(),
		"days":                 in.Days.Normalize(),
		"start_time":           fields.StartTime,
		"end_time":             fields.EndTime,
		"ready_by":             fields.ReadyBy,
		"desired_charge_level": fields.DesiredChargeLevel,
		"desired_mileage":      fields.DesiredMileage,
	}
}

type ScheduleDAO struct {
	Logger *slog.Logger
	*DB
}

func NewScheduleDAO(logger *slog.Logger, db *DB) *ScheduleDAO {
	return &ScheduleDAO{
		Logger: logger.With("dao", "schedule"),
		DB:     db,
	}
}

func (dao *ScheduleDAO) FindByUser(ctx context.Context, userID model.ID) ([]model.Schedule, error) {
	logger := dao.Logger.With("query", "findByUser")

	query, args, err := dao.Builder.
		Select(_scheduleColumns...).
		From("schedules").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		return []model.Schedule{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	rows := make([]scheduleRow, 0)
	if err := dao.SelectContext(ctx, &rows, query, args...); err != nil {
		if IsNoRows(err) {
			logger.Debug("success query execute", "countSchedules", 0)
			return []model.Schedule{}, nil
		}

		logger.Warn("failed query execute", "error", err)

		return []model.Schedule{}, err
	}

	schedules := make([]model.Schedule, 0, len(rows))
	for _, row := range rows {
		schedule, err := row.toModel()
		if err != nil {
			logger.Error("failed to map row", "scheduleId", row.ID, "type", row.Type, "error", err)
			return []model.Schedule{}, err
		}
		schedules = append(schedules, schedule)
	}

	logger.Debug("success query execute", "countSchedules", len(schedules))

	return schedules, nil
}

func (dao *ScheduleDAO) Get(ctx context.Context, id, userID model.ID) (model.Schedule, error) {
	logger := dao.Logger.With("query", "get")

	query, args, err := dao.Builder.
		Select(_scheduleColumns...).
		From("schedules").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Schedule{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var row scheduleRow
	if err := dao.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if IsNoRows(err) {
			logger.Debug("success query execute", "found", false)
			return model.Schedule{}, model.NewError("schedule", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Schedule{}, err
	}

	schedule, err := row.toModel()
	if err != nil {
		logger.Error("failed to map row", "scheduleId", row.ID, "type", row.Type, "error", err)
		return model.Schedule{}, err
	}

	logger.Debug("success query execute", "scheduleId", schedule.ID)

	return schedule, nil
}

func (dao *ScheduleDAO) Insert(ctx context.Context, userID model.ID, in model.ScheduleInput) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	columns := writeColumns(in)
	columns["user_id"] = userID

	query, args, err := dao.Builder.
		Insert("schedules").
		SetMap(columns).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	if err := dao.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)

		return 0, err
	}

	logger.Debug("success query execute", "insertId", id)

	return id, nil
}

// Update overwrites the whole row. It reports ErrNotFound when no row matches (id, userID).
func (dao *ScheduleDAO) Update(ctx context.Context, id, userID model.ID, in model.ScheduleInput) error {
	logger := dao.Logger.With("query", "update")

	query, args, err := dao.Builder.
		Update("schedules").
		SetMap(writeColumns(in)).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	return dao.execAffectingOne(ctx, logger, query, args, "updateId", id)
}

func (dao *ScheduleDAO) Delete(ctx context.Context, id, userID model.ID) error {
	logger := dao.Logger.With("query", "delete")

	query, args, err := dao.Builder.
		Delete("schedules").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	return dao.execAffectingOne(ctx, logger, query, args, "deleteId", id)
}

func (dao *ScheduleDAO) execAffectingOne(
	ctx context.Context, logger *slog.Logger,
	query string, args []any,
	idKey string, id model.ID,
) error {
	res, err := dao.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Warn("failed query execute", "error", err)

		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		logger.Debug("success query execute", idKey, id, "found", false)
		return model.NewError("schedule", model.ErrNotFound)
	}

	logger.Debug("success query execute", idKey, id)

	return nil
}

// CountByUser is used by the admin CLI summary.
func (dao *ScheduleDAO) CountByUser(ctx context.Context, userID model.ID) (int, error) {
	query, args, err := dao.Builder.
		Select("COUNT(*)").
		From("schedules").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, err
	}

	logger := dao.Logger.With("query", "countByUser")
	logger.Debug("build query", "sql", query, "args", args)

	var count int
	if err := dao.QueryRowxContext(ctx, query, args...).Scan(&count); err != nil {
		logger.Warn("failed query execute", "error", err)

		return 0, err
	}

	return count, nil
}
