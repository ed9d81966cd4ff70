package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/charge-scheduler/assets"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	_defaultTimeout = 3 * time.Second
	_pgxDriverName  = "pgx"
)

var ErrUnknownDriver = errors.New("unknown database driver")

type Options struct {
	Driver      string
	DSN         string
	Automigrate bool
}

type DB struct {
	*sqlx.DB
	Builder squirrel.StatementBuilderType
	Driver  string
}

func New(ctx context.Context, logger *slog.Logger, opts Options) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, _defaultTimeout)
	defer cancel()

	logger = logger.With("module", "database", "driver", opts.Driver)

	var db *DB
	var err error
	switch opts.Driver {
	case DriverSQLite, "":
		db, err = openSQLite(ctx, opts.DSN)
	case DriverPostgres:
		db, err = openPostgres(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	if opts.Automigrate {
		if err := db.migrateUp(opts.DSN); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		logger.Debug("schema is up to date")
	}

	return db, nil
}

func openSQLite(ctx context.Context, path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.ConnectContext(ctx, DriverSQLite, sqliteDSN(path))
	if err != nil {
		return nil, err
	}

	// SQLite is a single-writer engine; one connection serializes every statement.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return &DB{
		DB:      db,
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		Driver:  DriverSQLite,
	}, nil
}

func sqliteDSN(path string) string {
	pragmas := []string{
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
		"_pragma=journal_mode(WAL)",
		"_pragma=synchronous(NORMAL)",
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + strings.Join(pragmas, "&")
}

func openPostgres(ctx context.Context, dsn string) (*DB, error) {
	db, err := sqlx.ConnectContext(ctx, _pgxDriverName, postgresURL(dsn))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	return &DB{
		DB:      db,
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		Driver:  DriverPostgres,
	}, nil
}

func postgresURL(dsn string) string {
	dsn = strings.TrimPrefix(dsn, "postgres://")
	if !strings.Contains(dsn, "sslmode=") {
		dsn = dsn + "?sslmode=disable" // disable SSL
	}
	return "postgres://" + dsn
}

func (db *DB) migrateUp(dsn string) error {
	iofsDriver, err := iofs.New(assets.EmbeddedFiles, "migrations/"+db.Driver)
	if err != nil {
		return err
	}

	var migrator *migrate.Migrate
	switch db.Driver {
	case DriverSQLite:
		// The sqlite driver closes the instance on Close, so the migrator is never closed.
		target, err := migratesqlite.WithInstance(db.DB.DB, &migratesqlite.Config{})
		if err != nil {
			return err
		}
		migrator, err = migrate.NewWithInstance("iofs", iofsDriver, DriverSQLite, target)
		if err != nil {
			return err
		}
	default:
		migrator, err = migrate.NewWithSourceInstance("iofs", iofsDriver, postgresURL(dsn))
		if err != nil {
			return err
		}
		defer migrator.Close()
	}

	err = migrator.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		return nil
	case err != nil:
		return err
	}

	return nil
}
