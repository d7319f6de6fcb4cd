package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/DhavalSuthar-24/crickscore/config"
	"github.com/DhavalSuthar-24/crickscore/pkg/rmiddleware"
	"github.com/DhavalSuthar-24/crickscore/pkg/token"
	"github.com/spf13/cobra"
)

var (
	tokenUserID uint
	tokenRole   string
	tokenTTL    time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for a scorer or admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		role := strings.ToLower(tokenRole)
		if role != rmiddleware.RoleScorer && role != rmiddleware.RoleAdmin {
			return fmt.Errorf("role must be %q or %q, got %q", rmiddleware.RoleScorer, rmiddleware.RoleAdmin, tokenRole)
		}
		if tokenUserID == 0 {
			return fmt.Errorf("--user is required")
		}
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		signed, err := token.Issue(cfg.JWT.AccessTokenSecret, tokenUserID, role, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), signed)
		return nil
	},
}

func init() {
	tokenCmd.Flags().UintVar(&tokenUserID, "user", 0, "User id to embed in the token")
	tokenCmd.Flags().StringVar(&tokenRole, "role", rmiddleware.RoleScorer, "scorer or admin")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 12*time.Hour, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
