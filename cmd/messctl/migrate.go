package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/adapters/repository/postgres"
)

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|status|redo|reset|version] [args...]",
		Short: "Run database migrations",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) > 0 {
				command, args = args[0], args[1:]
			}
			if err := postgres.Migrate(cmd.Context(), c.db.DB, command, args...); err != nil {
				return err
			}
			c.log.Info("migrations applied", zap.String("command", command))
			return nil
		},
	}
}
