package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/charge-scheduler/internal/model"
)

type UserDAO struct {
	Logger *slog.Logger
	*DB
}

func NewUserDAO(logger *slog.Logger, db *DB) *UserDAO {
	return &UserDAO{
		Logger: logger.With("dao", "user"),
		DB:     db,
	}
}

func (dao *UserDAO) Get(ctx context.Context, id model.ID) (model.User, error) {
	return dao.getBy(ctx, "get", squirrel.Eq{"id": id})
}

func (dao *UserDAO) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return dao.getBy(ctx, "getByUsername", squirrel.Eq{"username": username})
}

func (dao *UserDAO) getBy(ctx context.Context, name string, where squirrel.Eq) (model.User, error) {
	logger := dao.Logger.With("query", name)

	query, args, err := dao.Builder.
		Select("id", "username", "password").
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var user model.User
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&user); err != nil {
		if IsNoRows(err) {
			logger.Debug("success query execute", "found", false)
			return model.User{}, model.NewError("user", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.User{}, err
	}

	logger.Debug("success query execute", "userId", user.ID)

	return user, nil
}

func (dao *UserDAO) Exists(ctx context.Context, username string) (bool, error) {
	logger := dao.Logger.With("query", "exists")

	query, args, err := dao.Builder.
		Select("id").
		From("users").
		Where(squirrel.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	if err := dao.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		if IsNoRows(err) {
			return false, nil
		}

		logger.Warn("failed query execute", "error", err)

		return false, err
	}

	return true, nil
}

type InsertUserDTO struct {
	Username string
	Password string
}

func (dao *UserDAO) Insert(ctx context.Context, dto InsertUserDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("users").
		Columns("username", "password").
		Values(dto.Username, dto.Password).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	// args carry the password; only the statement is logged.
	logger.Debug("build query", "sql", query)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsUniqueViolation(err) {
			return 0, model.NewError("user", model.ErrExists)
		}

		return 0, err
	}

	logger.Debug("success query execute", "insertId", id)

	return id, nil
}

func (dao *UserDAO) Delete(ctx context.Context, id model.ID) error {
	logger := dao.Logger.With("query", "delete")

	query, args, err := dao.Builder.
		Delete("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err = dao.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return err
	}

	logger.Debug("success query execute", "deleteId", id)

	return nil
}
