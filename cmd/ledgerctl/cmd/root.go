// Package cmd provides CLI commands for ledgerctl.
package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	envFile string
	userID  string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Operate on journals and legs of the ledger",
	Long: `ledgerctl runs the ledger engine's operations directly against the database,
using the same services as the HTTP API.

Example:
  ledgerctl --user u-42 opposing 1031
  ledgerctl --user u-42 reconcile 1031
  ledgerctl --user u-42 convert 517 --kind transfer --source 3 --destination 9
  ledgerctl migrate`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)

		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default is .env)")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "user id the operation is scoped to")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(opposingCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(firstJournalCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
}

func requireUser() error {
	if userID == "" {
		return fmt.Errorf("--user is required")
	}
	return nil
}

// printJSON writes v to stdout, indented.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
