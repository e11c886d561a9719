// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scalers/internal/models"
	"scalers/internal/store"
)

var userOpts struct {
	email    string
	password string
	name     string
	role     string
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage admin panel accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin panel account",
	RunE: withDB(func(db *sql.DB) error {
		role := models.Role(userOpts.role)
		if role != models.RoleAdmin && role != models.RoleEditor {
			return fmt.Errorf("role must be %q or %q", models.RoleAdmin, models.RoleEditor)
		}
		email := strings.TrimSpace(strings.ToLower(userOpts.email))
		if email == "" || userOpts.password == "" {
			return errors.New("--email and --password are required")
		}
		u, err := store.NewUserStore(db).Create(context.Background(), email, userOpts.password, userOpts.name, role)
		if err != nil {
			return err
		}
		fmt.Printf("created %s (%s) %s\n", u.Email, u.Role, u.ID)
		return nil
	}),
}

var userPasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Set a new password for an account",
	RunE: withDB(func(db *sql.DB) error {
		users := store.NewUserStore(db)
		u, err := users.FindByEmail(context.Background(), strings.TrimSpace(strings.ToLower(userOpts.email)))
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("no user with email %q", userOpts.email)
		}
		if userOpts.password == "" {
			return errors.New("--password is required")
		}
		if err := users.SetPassword(context.Background(), u.ID, userOpts.password); err != nil {
			return err
		}
		fmt.Printf("password updated for %s\n", u.Email)
		return nil
	}),
}

var userReset2FACmd = &cobra.Command{
	Use:   "reset-2fa",
	Short: "Clear an account's authenticator so it enrols again",
	RunE: withDB(func(db *sql.DB) error {
		users := store.NewUserStore(db)
		u, err := users.FindByEmail(context.Background(), strings.TrimSpace(strings.ToLower(userOpts.email)))
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("no user with email %q", userOpts.email)
		}
		if err := users.ResetTOTP(context.Background(), u.ID); err != nil {
			return err
		}
		fmt.Printf("two-factor reset for %s\n", u.Email)
		return nil
	}),
}

func init() {
	for _, c := range []*cobra.Command{userCreateCmd, userPasswordCmd, userReset2FACmd} {
		c.Flags().StringVar(&userOpts.email, "email", "", "account email")
		c.MarkFlagRequired("email")
		userCmd.AddCommand(c)
	}
	userCreateCmd.Flags().StringVar(&userOpts.password, "password", "", "initial password")
	userCreateCmd.Flags().StringVar(&userOpts.name, "name", "", "display name")
	userCreateCmd.Flags().StringVar(&userOpts.role, "role", string(models.RoleAdmin), "admin or editor")
	userPasswordCmd.Flags().StringVar(&userOpts.password, "password", "", "new password")
}
