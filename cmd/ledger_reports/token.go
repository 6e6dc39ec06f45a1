package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_reports/internal/middleware"
	"github.com/SscSPs/ledger_reports/internal/platform/config"
	"github.com/SscSPs/ledger_reports/internal/utils"
	"github.com/spf13/cobra"
)

// newTokenCommand mints a bearer token for calling the report endpoints.
func newTokenCommand(logger *slog.Logger) *cobra.Command {
	var (
		subject string
		expiry  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a report access token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				logger.Error("Failed to load config", slog.String("error", err.Error()))
				return err
			}
			token, err := utils.GenerateJWT(subject, cfg.JWTSecret, expiry, "ledger_reports", middleware.ReportsAudience)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject (user id)")
	cmd.Flags().DurationVar(&expiry, "expiry", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
