package main

import (
	"context"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/adapters/repository/postgres"
	"github.com/hostelmess/mess-service/internal/config"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

// cli carries the connections opened for a single command run.
type cli struct {
	db    *sqlx.DB
	store *ports.Store
	log   *zap.Logger
}

func (c *cli) open(ctx context.Context) error {
	cfg := config.LoadDatabaseConfig()

	log, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	c.log = log

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	c.db = db
	c.store = postgres.NewStore(db)
	return nil
}

func (c *cli) close() {
	if c.db != nil {
		_ = c.db.Close()
	}
	if c.log != nil {
		_ = c.log.Sync()
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "messctl",
		Short:         "Administrative tasks for the mess service database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.close()
		},
	}
	root.AddCommand(
		newMigrateCmd(c),
		newSeedCmd(c),
		newAddAdminCmd(c),
		newResetPasswordCmd(c),
	)
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Stderr.WriteString("error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
