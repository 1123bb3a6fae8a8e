package cmd

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/spf13/cobra"
)

var (
	convertKind        string
	convertSource      int64
	convertDestination int64
)

var convertCmd = &cobra.Command{
	Use:   "convert <journal-id>",
	Short: "Change the kind of an unsplit journal",
	Long: `Change the kind of an unsplit journal and move its legs to the given accounts.
Every failed precondition is listed; nothing changes unless all of them pass.

Example:
  ledgerctl --user u-42 convert 517 --kind transfer --source 3 --destination 9`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		journalID, err := parseID(args[0], "journal id")
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.services.Converter.ConvertJournal(cmd.Context(), userID, journalID, dto.ConvertJournalRequest{
			Kind:                 domain.TransactionKind(convertKind),
			SourceAccountID:      convertSource,
			DestinationAccountID: convertDestination,
		})
		if err != nil {
			return err
		}
		if !result.IsValid() {
			for _, field := range result.Fields() {
				for _, msg := range result.Messages(field) {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, msg)
				}
			}
			return fmt.Errorf("journal %d cannot be converted (%d problems)", journalID, result.Count())
		}
		slog.Info("Journal converted", slog.Int64("journal_id", journalID), slog.String("kind", convertKind))
		return nil
	},
}

var firstJournalCmd = &cobra.Command{
	Use:   "first-journal",
	Short: "Show the user's earliest journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		journal, found, err := a.services.Query.FirstJournalByDate(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("user %s has no journals", userID)
		}
		return printJSON(cmd, dto.ToJournalResponse(journal))
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <journal-id>...",
	Short: "Check that every identifier group of the journals balances",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		journalIDs := make([]int64, 0, len(args))
		for _, raw := range args {
			id, err := parseID(raw, "journal id")
			if err != nil {
				return err
			}
			journalIDs = append(journalIDs, id)
		}
		sort.Slice(journalIDs, func(i, j int) bool { return journalIDs[i] < journalIDs[j] })

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		report := make(map[int64]dto.IntegrityResponse, len(journalIDs))
		broken := 0
		for _, id := range journalIDs {
			groups, err := a.services.Query.VerifyIntegrity(cmd.Context(), userID, id)
			if err != nil {
				return fmt.Errorf("journal %d: %w", id, err)
			}
			if groups == nil {
				groups = []int{}
			}
			if len(groups) > 0 {
				broken++
			}
			report[id] = dto.IntegrityResponse{Balanced: len(groups) == 0, UnbalancedGroups: groups}
		}
		if err := printJSON(cmd, report); err != nil {
			return err
		}
		if broken > 0 {
			return fmt.Errorf("%d of %d journals are unbalanced", broken, len(journalIDs))
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertKind, "kind", "", "target kind (withdrawal, deposit, transfer, opening-balance, reconciliation)")
	convertCmd.Flags().Int64Var(&convertSource, "source", 0, "account id money leaves")
	convertCmd.Flags().Int64Var(&convertDestination, "destination", 0, "account id money enters")
	_ = convertCmd.MarkFlagRequired("kind")
}
