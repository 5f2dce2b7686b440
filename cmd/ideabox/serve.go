package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/ideabox/internal/clock"
	"github.com/smallbiznis/ideabox/internal/config"
	"github.com/smallbiznis/ideabox/internal/migration"
	"github.com/smallbiznis/ideabox/internal/observability"
	"github.com/smallbiznis/ideabox/internal/server"
	"github.com/smallbiznis/ideabox/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				// Core Infrastructure
				config.Module,
				observability.Module,
				fx.Provide(RegisterSnowflake),
				db.Module,
				clock.Module,
				migration.Module,

				server.Module,
			)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
