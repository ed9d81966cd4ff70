package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/charge-scheduler/internal/kvs"
)

// KVDAO keeps small durable values in the kv_entries table. It satisfies kvs.Store.
type KVDAO struct {
	Logger *slog.Logger
	*DB
}

var _ kvs.Store = (*KVDAO)(nil)

func NewKVDAO(logger *slog.Logger, db *DB) *KVDAO {
	return &KVDAO{
		Logger: logger.With("dao", "kv"),
		DB:     db,
	}
}

func (dao *KVDAO) Get(ctx context.Context, key string) (string, error) {
	logger := dao.Logger.With("query", "get")

	query, args, err := dao.Builder.
		Select("entry_value").
		From("kv_entries").
		Where(squirrel.Eq{"entry_key": key}).
		ToSql()
	if err != nil {
		return "", err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var value string
	if err := dao.QueryRowxContext(ctx, query, args...).Scan(&value); err != nil {
		if IsNoRows(err) {
			return "", kvs.ErrNotFound
		}

		logger.Warn("failed query execute", "error", err)

		return "", err
	}

	return value, nil
}

func (dao *KVDAO) Set(ctx context.Context, key string, value string) error {
	logger := dao.Logger.With("query", "set")

	query, args, err := dao.Builder.
		Insert("kv_entries").
		Columns("entry_key", "entry_value").
		Values(key, value).
		Suffix("ON CONFLICT (entry_key) DO UPDATE SET entry_value = excluded.entry_value").
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err := dao.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return err
	}

	return nil
}

func (dao *KVDAO) Del(ctx context.Context, key string) error {
	logger := dao.Logger.With("query", "del")

	query, args, err := dao.Builder.
		Delete("kv_entries").
		Where(squirrel.Eq{"entry_key": key}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err := dao.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return err
	}

	return nil
}
