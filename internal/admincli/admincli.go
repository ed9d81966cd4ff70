// Package admincli implements the schedctl maintenance commands.
package admincli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/protomem/charge-scheduler/internal/database"
	"github.com/protomem/charge-scheduler/internal/env"
)

const (
	_defaultDriver = database.DriverSQLite
	_defaultDSN    = "data/schedules.db"
)

type DBOptions struct {
	Driver string
	DSN    string
}

// RootOptions holds the flags shared by every subcommand.
type RootOptions struct {
	ConfigFile string
	DB         DBOptions
}

func NewRootCommand() *cobra.Command {
	var options RootOptions
	dbOptions := &options.DB

	cmd := &cobra.Command{
		Use:          "schedctl",
		Short:        "Maintenance tool for the charge schedule store",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			return ResolveConfig(&options, flags.Changed("db-driver"), flags.Changed("db-dsn"))
		},
	}

	flags := cmd.PersistentFlags()

	flags.StringVar(&options.ConfigFile, "cfg", "", "Path to config file")
	flags.StringVar(&dbOptions.Driver, "db-driver", "", "Database driver (sqlite or postgres), default $DB_DRIVER or sqlite")
	flags.StringVar(&dbOptions.DSN, "db-dsn", "", "Database file or connection string, default $DB_DSN or "+_defaultDSN)

	cmd.AddCommand(NewMigrateCommand(dbOptions))
	cmd.AddCommand(NewUserCommand(dbOptions))
	cmd.AddCommand(NewScheduleCommand(dbOptions))

	return cmd
}

// ResolveConfig loads the config file, if any, and fills the database options that
// were not given as flags from the environment.
func ResolveConfig(options *RootOptions, driverSet, dsnSet bool) error {
	if options.ConfigFile != "" {
		if err := env.Load(options.ConfigFile); err != nil {
			return err
		}
	}

	if !driverSet {
		options.DB.Driver = env.GetString("DB_DRIVER", _defaultDriver)
	}
	if !dsnSet {
		options.DB.DSN = env.GetString("DB_DSN", _defaultDSN)
	}

	return nil
}

func NewMigrateCommand(dbOptions *DBOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunMigrate(cmd.Context(), cmd.OutOrStdout(), *dbOptions)
		},
	}
}

func RunMigrate(ctx context.Context, out io.Writer, dbOptions DBOptions) error {
	db, err := openDB(ctx, dbOptions, true)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = io.WriteString(out, "schema is up to date\n")
	return err
}

func openDB(ctx context.Context, dbOptions DBOptions, automigrate bool) (*database.DB, error) {
	return database.New(ctx, newLogger(), database.Options{
		Driver:      dbOptions.Driver,
		DSN:         dbOptions.DSN,
		Automigrate: automigrate,
	})
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func readPasswordStdin(in io.Reader) (string, error) {
	l, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || l == "") {
		return "", err
	}
	return strings.TrimRight(l, "\r\n"), nil
}
