package cmd

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/utils"
	"github.com/spf13/cobra"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a bearer token for --user signed with JWT_SECRET",
	Long: `Print a bearer token for --user signed with JWT_SECRET, for calling the API
from scripts and local tools.

Example:
  curl -H "Authorization: Bearer $(ledgerctl --user u-42 token)" localhost:8080/api/v1/journals/first`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		token, err := utils.IssueUserToken(userID, cfg.JWTSecret, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
}
