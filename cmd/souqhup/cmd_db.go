package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/souqhup/database/seeders"
	"github.com/shashiranjanraj/souqhup/pkg/database"
	"github.com/shashiranjanraj/souqhup/pkg/migration"
)

// withDB opens the database for the length of fn.
func withDB(fn func() error) error {
	if err := database.Connect(); err != nil {
		return err
	}
	defer database.Close()
	return fn()
}

// souqhup migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func() error {
			fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
			_, err := migration.New(database.DB, cmd.OutOrStdout()).Run()
			return err
		})
	},
}

// souqhup migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func() error {
			fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
			_, err := migration.New(database.DB, cmd.OutOrStdout()).Rollback()
			return err
		})
	},
}

// souqhup migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func() error {
			return migration.New(database.DB, cmd.OutOrStdout()).Status()
		})
	},
}

// souqhup db:seed
var seedCmd = &cobra.Command{
	Use:     "db:seed",
	Aliases: []string{"seed"},
	Short:   "Reset device sessions and insert sample beta invites",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func() error {
			fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
			return seeders.RunAll(database.DB, cmd.OutOrStdout())
		})
	},
}
