package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cricket-score",
		Short: "Ball-by-ball cricket scoring with live viewers",
		Long: `cricket-score runs the scoring RPC service and live channel, and offers
offline maintenance commands against the same sqlite database.

Configuration comes from the environment (or a .env file): DB_PATH,
SERVER_PORT, ADMIN_USER, ADMIN_PASS, JWT_SECRET, REDIS_URL, WEBHOOK_URL, ...`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newImportCommand())
	cmd.AddCommand(newRebuildCommand())

	return cmd
}
