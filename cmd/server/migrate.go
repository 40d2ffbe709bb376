package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hoangnm/sports-booking/internal/config"
	"github.com/hoangnm/sports-booking/internal/database"
	"github.com/hoangnm/sports-booking/internal/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New(cfg.Env)
			defer func() { _ = log.Sync() }()

			db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			v, err := database.MigrationVersion(cmd.Context(), db)
			if err != nil {
				return err
			}
			log.Info("migrations applied", zap.Int64("version", v))
			return nil
		},
	}
}
