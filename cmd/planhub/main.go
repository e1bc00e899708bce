package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/planhub-io/planhub/internal/interfaces/cli/migrate"
	"github.com/planhub-io/planhub/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "planhub",
		Short: "PlanHub - plan subscription and entitlement engine",
		Long:  `PlanHub manages the lifecycle of plan subscriptions and the api keys they entitle, exposing server and migration commands.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
