package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zh-address-parser/app/services"
)

func newTokenCmd(c *cli) *cobra.Command {
	var subject, role string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Ký JWT cho admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			auth := services.NewAuthService(c.cfg.JWT.Secret, c.cfg.JWT.Issuer, c.cfg.JWT.Expiry)
			token, expiresAt, err := auth.IssueToken(subject, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "admin", "subject của token")
	cmd.Flags().StringVar(&role, "role", services.RoleAdmin, "role của token")
	return cmd
}
