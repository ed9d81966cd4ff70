package admincli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/protomem/charge-scheduler/internal/database"
	"github.com/protomem/charge-scheduler/internal/model"
)

func NewScheduleCommand(dbOptions *DBOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:  "schedule",
		Long: "Inspect stored charging schedules.",
	}
	cmd.AddCommand(NewListSchedulesCommand(dbOptions))

	return cmd
}

type ListSchedulesOptions struct {
	Username string
}

func NewListSchedulesCommand(dbOptions *DBOptions) *cobra.Command {
	var options ListSchedulesOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the schedules of a user, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunListSchedules(cmd.Context(), cmd.OutOrStdout(), *dbOptions, options)
		},
	}

	flags := cmd.Flags()

	flags.StringVarP(&options.Username, "user", "u", "", "Owner username")

	return cmd
}

func RunListSchedules(ctx context.Context, out io.Writer, dbOptions DBOptions, options ListSchedulesOptions) error {
	if options.Username == "" {
		return ErrMissingUsername
	}
	db, err := openDB(ctx, dbOptions, false)
	if err != nil {
		return err
	}
	defer db.Close()

	logger := newLogger()

	user, err := database.NewUserDAO(logger, db).GetByUsername(ctx, options.Username)
	if err != nil {
		return err
	}

	schedules := database.NewScheduleDAO(logger, db)

	count, err := schedules.CountByUser(ctx, user.ID)
	if err != nil {
		return err
	}

	list, err := schedules.FindByUser(ctx, user.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d schedule(s) for %s\n", count, user.Username)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tDAYS\tDETAILS\tDESCRIPTION")
	for _, s := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.Type().Label(), s.Days, describe(s.Variant), s.Description)
	}
	return tw.Flush()
}

func describe(v model.Variant) string {
	switch v := v.(type) {
	case model.TimeWindow:
		return v.Start + "-" + v.End
	case model.ChargeLevel:
		return fmt.Sprintf("%d%% by %s", v.Level, v.ReadyBy)
	case model.Mileage:
		return fmt.Sprintf("%d mi by %s", v.Miles, v.ReadyBy)
	default:
		return ""
	}
}
