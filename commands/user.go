package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taskboard-api/apperrors"
	"github.com/taskboard-api/dto"
	"github.com/taskboard-api/models"
	"github.com/taskboard-api/services"
	"github.com/taskboard-api/utils"
)

var UserCmd = &cobra.Command{
	Use:   "user",
	Short: "Administer user accounts",
}

var (
	createEmail    string
	createRole     string
	createPassword string
)

var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user; a password is generated when --password is empty",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password := createPassword
		generated := password == ""
		if generated {
			var err error
			if password, err = utils.GenerateSecurePassword(16); err != nil {
				return err
			}
		}

		cfg, db, cleanup, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		user, err := services.New(db, cfg).Auth.Register(cmd.Context(), dto.RegisterRequest{
			Username: args[0],
			Email:    createEmail,
			Password: password,
			Role:     createRole,
		})
		if err != nil {
			return describe(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "User %d created\n", user.ID)
		if generated {
			fmt.Fprintf(cmd.OutOrStdout(), "Password: %s\n", password)
		}
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user; assigned tasks become unassigned",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, ok := utils.ParseID(args[0])
		if !ok {
			return fmt.Errorf("invalid user id %q", args[0])
		}
		return withUsers(cmd, func(users *services.UserService) error {
			if err := users.DeleteUser(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %d deleted\n", id)
			return nil
		})
	},
}

var userSetRoleCmd = &cobra.Command{
	Use:       "set-role <id> <role>",
	Short:     "Change the role stored on a user's profile",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(models.RoleProjectManager), string(models.RoleDeveloper)},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, ok := utils.ParseID(args[0])
		if !ok {
			return fmt.Errorf("invalid user id %q", args[0])
		}
		role := models.Role(args[1])
		return withUsers(cmd, func(users *services.UserService) error {
			if err := users.SetRole(cmd.Context(), id, role); err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %d is now %s\n", id, role)
			return nil
		})
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&createEmail, "email", "", "Email address")
	userCreateCmd.Flags().StringVar(&createRole, "role", string(models.RoleDeveloper), "Role (project_manager or developer)")
	userCreateCmd.Flags().StringVar(&createPassword, "password", "", "Password (generated when empty)")

	UserCmd.AddCommand(userCreateCmd, userDeleteCmd, userSetRoleCmd)
}

func withUsers(cmd *cobra.Command, fn func(*services.UserService) error) error {
	cfg, db, cleanup, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(services.New(db, cfg).Users)
}

// describe appends field messages of a validation error so they reach the terminal
func describe(err error) error {
	ae, ok := apperrors.As(err)
	if !ok || len(ae.Fields) == 0 {
		return err
	}
	names := make([]string, 0, len(ae.Fields))
	for name := range ae.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(ae.Fields[name], " "))
	}
	return fmt.Errorf("%w (%s)", err, strings.Join(parts, "; "))
}
