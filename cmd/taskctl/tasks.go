package main

import (
	"fmt"

	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/repository"
	"github.com/employeest/employeest-api/internal/services"
	"github.com/spf13/cobra"
)

func tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks",
	}
	cmd.AddCommand(setStatusCmd())
	return cmd
}

func setStatusCmd() *cobra.Command {
	var (
		ids    []uint
		status string
	)

	cmd := &cobra.Command{
		Use:   "set-status",
		Short: "Overwrite the status of tasks, bypassing the lifecycle",
		Long: `Overwrite the status of one or more tasks unconditionally.

The task version is bumped and completed_at is stamped when the new status
is DONE.

Examples:
  taskctl tasks set-status --ids 4,8,15 --status DONE
  taskctl tasks set-status --ids 16 --status TODO`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := connect()
			if err != nil {
				return err
			}

			taskService := services.NewTaskService(
				repository.NewTaskRepository(db),
				repository.NewProjectRepository(db),
				repository.NewUserRepository(db),
				nil,
			)

			taskIDs := make([]uint64, len(ids))
			for i, id := range ids {
				taskIDs[i] = uint64(id)
			}

			updated, err := taskService.OverwriteStatus(cmd.Context(), taskIDs, models.TaskStatus(status))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d task(s) to %s\n", updated, status)
			return nil
		},
	}

	cmd.Flags().UintSliceVar(&ids, "ids", nil, "task IDs, comma separated")
	cmd.Flags().StringVar(&status, "status", "", "new status (TODO, IN_PROGRESS, DONE)")
	cmd.MarkFlagRequired("ids")
	cmd.MarkFlagRequired("status")

	return cmd
}
