// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"database/sql"

	"github.com/spf13/cobra"

	"scalers/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
}

func init() {
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE:  withDB(database.Migrate),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the state of every migration",
			RunE:  withDB(database.Status),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE:  withDB(database.Rollback),
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Create the default admin and starter categories",
			RunE:  withDB(database.Seed),
		},
	)
}

// withDB opens the configured database for the length of one command.
func withDB(fn func(*sql.DB) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return err
		}
		defer db.Close()
		return fn(db)
	}
}
