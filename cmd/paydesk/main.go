package main

import (
	"os"

	"github.com/spf13/cobra"

	"paydesk/internal/interfaces/cli/migrate"
	"paydesk/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "paydesk",
		Short: "Paydesk - billing and direct-debit contract service",
		Long:  `Paydesk manages direct-debit contract negotiation, verification, and payment methods, with built-in server and migration tools.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
