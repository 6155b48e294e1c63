package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"conferencecentral/internal/adapters/auth"
	"conferencecentral/internal/domain"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		identity domain.Identity
		expiry   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is required")
			}
			token, err := auth.NewJWTIssuer(a.cfg.JWTSecret).Issue(identity, expiry)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&identity.UserID, "user-id", "", "subject of the token")
	cmd.Flags().StringVar(&identity.Email, "email", "", "email claim")
	cmd.Flags().StringVar(&identity.Name, "name", "", "display name claim")
	cmd.Flags().DurationVar(&expiry, "expiry", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
