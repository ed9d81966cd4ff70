package admincli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/protomem/charge-scheduler/internal/database"
	"github.com/protomem/charge-scheduler/internal/service"
)

var ErrMissingUsername = errors.New("username is required")

func NewUserCommand(dbOptions *DBOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:  "user",
		Long: "User-related functionality.",
	}
	cmd.AddCommand(NewAddUserCommand(dbOptions))

	return cmd
}

type AddUserOptions struct {
	Name          string
	Password      string
	PasswordStdin bool
}

func NewAddUserCommand(dbOptions *DBOptions) *cobra.Command {
	var options AddUserOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.PasswordStdin {
				password, err := readPasswordStdin(cmd.InOrStdin())
				if err != nil {
					return err
				}
				options.Password = password
			}
			return RunAddUser(cmd.Context(), cmd.OutOrStdout(), *dbOptions, options)
		},
	}

	flags := cmd.Flags()

	flags.StringVarP(&options.Name, "username", "u", "", "Username")
	flags.StringVarP(&options.Password, "password", "p", "", "Password")
	flags.BoolVar(&options.PasswordStdin, "password-stdin", false, "Read password from stdin")

	return cmd
}

func RunAddUser(ctx context.Context, out io.Writer, dbOptions DBOptions, options AddUserOptions) error {
	if options.Name == "" {
		return ErrMissingUsername
	}

	svc := service.New(newLogger(), func(ctx context.Context) (*database.DB, error) {
		return openDB(ctx, dbOptions, true)
	}, service.Options{})
	defer svc.Close()

	res := svc.Register(ctx, options.Name, options.Password)
	if !res.Success {
		return fmt.Errorf("%s: %w", res.Message, res.Err)
	}

	_, err := fmt.Fprintln(out, res.Message)
	return err
}
