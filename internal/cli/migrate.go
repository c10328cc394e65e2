package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"interview-assessment-service/internal/config"
	"interview-assessment-service/internal/infra/postgres"
	"interview-assessment-service/internal/logger"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return runMigrations(cmd.Context(), cfg, log)
		},
	}
}

func runMigrations(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	db := postgres.Open(cfg.Postgres.URL)
	defer db.Close()

	group, err := postgres.Migrate(ctx, db)
	if err != nil {
		return err
	}
	if group == "" {
		log.Info("no new migrations")
		return nil
	}
	log.Info("migrations applied", zap.String("group", group))
	return nil
}
