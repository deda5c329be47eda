package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	dbadapter "casetasks/internal/adapter/db"
	appservice "casetasks/internal/app/service"
	"casetasks/internal/config"
	"casetasks/internal/core/domain"
)

func migrateCmd() *cobra.Command {
	var (
		dryRun bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade tasks still stored in the legacy tables",
		Long: `Upgrade tasks still stored in the legacy tables.

Tasks are migrated lazily when they are read. This command migrates and saves
tasks that have not been read since the upgrade. Running it again is a no-op
for tasks already migrated.

Examples:
  taskctl migrate --limit 500
  taskctl migrate --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *appservice.TaskService, _ *config.Config) error {
				migrated, err := svc.MigratePending(ctx, limit, dryRun)
				if err != nil {
					return fmt.Errorf("migrate tasks: %w", err)
				}

				if dryRun {
					fmt.Fprintf(cmd.OutOrStdout(), "%d tasks would be migrated (dry run)\n", migrated)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d tasks migrated\n", migrated)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be migrated without saving")
	cmd.Flags().IntVarP(&limit, "limit", "n", 1000, "maximum number of tasks to migrate")

	return cmd
}

func statusCmd() *cobra.Command {
	var userID uint64

	cmd := &cobra.Command{
		Use:   "status [task-id]",
		Short: "Print the status of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || taskID == 0 {
				return fmt.Errorf("invalid task id %q", args[0])
			}

			return withService(cmd.Context(), func(ctx context.Context, svc *appservice.TaskService, cfg *config.Config) error {
				actor := domain.Actor{UserID: userID, Location: cfg.DefaultTimezone}
				task, err := svc.GetTask(ctx, actor, taskID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "task:     %d %q\n", task.ID, task.Title())
				fmt.Fprintf(out, "status:   %s\n", task.Status())

				endDate, err := task.EndDate(actor.Loc())
				if err != nil {
					return err
				}
				if endDate != nil {
					fmt.Fprintf(out, "due:      %s\n", endDate.In(actor.Loc()).Format(time.RFC3339))
				}
				if task.SysData.DClosed != nil {
					fmt.Fprintf(out, "closed:   %s\n", task.SysData.DClosed.Format(time.RFC3339))
				}
				fmt.Fprintf(out, "ongoing:  %v\n", task.SysData.UOngoing)
				fmt.Fprintf(out, "done:     %v\n", task.SysData.UDone)

				if userID != 0 {
					flags, err := svc.ActionFlags(ctx, actor, task, nil)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "user %d:  %s %+v\n", userID, task.UserStatus(userID), flags)
				}
				return nil
			})
		},
	}

	cmd.Flags().Uint64Var(&userID, "user", 0, "also print the status and action flags of this user")

	return cmd
}

func withService(
	ctx context.Context,
	run func(ctx context.Context, svc *appservice.TaskService, cfg *config.Config) error,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.LoadConfig()
	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		return err
	}
	defer func(db *sqlx.DB) { _ = db.Close() }(db)

	svc := appservice.NewTaskService(
		dbadapter.NewTaskRepository(db),
		dbadapter.NewLegacyTaskRepository(db),
		dbadapter.NewUserRepository(db, cfg.AdminUserIDs),
	).WithLocation(cfg.DefaultTimezone)

	return run(ctx, svc, cfg)
}
