package main

import (
	"fmt"

	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/repository"
	"github.com/employeest/employeest-api/internal/services"
	"github.com/spf13/cobra"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}
	cmd.AddCommand(setRoleCmd())
	return cmd
}

// setRoleCmd is how the first administrator is created.
func setRoleCmd() *cobra.Command {
	var (
		id   uint64
		role string
	)

	cmd := &cobra.Command{
		Use:   "set-role",
		Short: "Change a user's role",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := connect()
			if err != nil {
				return err
			}

			userService := services.NewUserService(repository.NewUserRepository(db))
			user, err := userService.ChangeRole(cmd.Context(), id, models.UserRole(role))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Username, user.Role)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&id, "id", 0, "user ID")
	cmd.Flags().StringVar(&role, "role", "", "owner, employee, topemployee or admin")
	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("role")

	return cmd
}
