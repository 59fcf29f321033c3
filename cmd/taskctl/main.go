package main

import (
	"fmt"
	"os"

	"github.com/employeest/employeest-api/internal/config"
	"github.com/employeest/employeest-api/internal/database"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "taskctl",
		Short:         "Administrative tooling for the employeest API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tasksCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(statsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// connect opens the configured database for a single command run.
func connect() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()
	if err := database.Connect(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, database.GetDB(), nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := connect(); err != nil {
				return err
			}
			return database.Migrate()
		},
	}
}
