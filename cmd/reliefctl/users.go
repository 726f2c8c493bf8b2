package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reliefgrid/reliefgrid/internal/model"
)

func init() {
	usersCmd := &cobra.Command{Use: "users", Short: "User operations"}

	var username, password, role string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password required")
			}
			if role != model.RoleAdmin && role != model.RoleContributor {
				return fmt.Errorf("--role must be %s or %s", model.RoleAdmin, model.RoleContributor)
			}
			s, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			u, err := s.Users().Create(cmd.Context(), model.CreateUserRequest{
				Username: username,
				Password: password,
				Role:     role,
			})
			if err != nil {
				return err
			}
			return printJSON(u)
		},
	}
	createCmd.Flags().StringVarP(&username, "username", "u", "", "Username (required)")
	createCmd.Flags().StringVarP(&password, "password", "p", "", "Password (required)")
	createCmd.Flags().StringVarP(&role, "role", "r", model.RoleContributor, "Role: admin or contributor")
	usersCmd.AddCommand(createCmd)

	getCmd := &cobra.Command{
		Use:   "get USERNAME",
		Short: "Get user by username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			u, err := s.Users().GetByUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if u == nil {
				return fmt.Errorf("user %q does not exist", args[0])
			}
			return printJSON(u)
		},
	}
	usersCmd.AddCommand(getCmd)

	rootCmd.AddCommand(usersCmd)
}
