package main

import (
	"context"
	"fmt"
	"time"

	"github.com/smallbiznis/ideabox/internal/config"
	"github.com/smallbiznis/ideabox/internal/migration"
	"github.com/smallbiznis/ideabox/internal/observability"
	"github.com/smallbiznis/ideabox/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var log *zap.Logger
			app := fx.New(
				config.Module,
				observability.Module,
				db.Module,
				migration.Module,
				fx.Populate(&log),
				fx.NopLogger,
			)

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			if err := app.Start(ctx); err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}
			log.Info("migrations applied")
			return app.Stop(ctx)
		},
	}
}
