package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/taskboard-api/commands"
)

// Version is set at build time via -ldflags "-X main.Version=X.Y.Z"
var Version = "0.0.0-dev"

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "Taskboard - project and task management API",
	Long: `Taskboard serves a REST API for users, projects, tasks and task dependencies.

Commands:
  serve                    Start the HTTP API (default)
  migrate                  Create or update the database schema
  copy-data                Copy all rows between two databases
  user create <username>   Create a user
  user delete <id>         Delete a user
  user set-role <id> <r>   Change a user's role

Configuration is read from .env, config.yaml and the environment.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return commands.ServeCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(
		commands.ServeCmd,
		commands.MigrateCmd,
		commands.CopyDataCmd,
		commands.UserCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
