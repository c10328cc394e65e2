package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"interview-assessment-service/internal/auth"
	"interview-assessment-service/internal/config"
)

// NewTokenCmd mints a bearer token signed with auth.jwtSecret, for local
// testing against a running server.
func NewTokenCmd(configPath *string) *cobra.Command {
	var (
		name string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <principal>",
		Short: "Issue a signed bearer token for a principal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			resolver, err := auth.NewJWTResolver(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
			if err != nil {
				return err
			}
			token, err := resolver.Issue(args[0], name, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
