package main

import (
	"fmt"
	"time"

	"github.com/smallbiznis/ideabox/internal/config"
	"github.com/smallbiznis/ideabox/internal/identity"
	"github.com/spf13/cobra"
)

// tokenCmd mints a bearer token signed with AUTH_JWT_SECRET for local use.
func tokenCmd() *cobra.Command {
	var (
		subject string
		email   string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.IsProduction() {
				return fmt.Errorf("token issuing is disabled in production")
			}

			verifier, err := identity.NewJWTVerifier(cfg.AuthJWTSecret, cfg.AuthJWTIssuer)
			if err != nil {
				return fmt.Errorf("failed to build verifier: %w", err)
			}
			raw, err := verifier.Issue(subject, email, ttl)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), raw)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Subject (user id) of the token")
	cmd.Flags().StringVar(&email, "email", "", "Email claim; drives the resolved role")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
