package cmd

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/spf13/cobra"
)

var opposingCmd = &cobra.Command{
	Use:   "opposing <leg-id>",
	Short: "Show the counterpart of a leg",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		legID, err := parseID(args[0], "leg id")
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		opposing, found, err := a.services.Resolver.FindOpposingLeg(cmd.Context(), userID, legID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("leg %d has no opposing leg", legID)
		}
		return printJSON(cmd, dto.ToLegResponse(*opposing))
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <leg-id>",
	Short: "Mark a leg and its counterpart as reconciled",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		legID, err := parseID(args[0], "leg id")
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		outcome, err := a.services.Reconciler.Reconcile(cmd.Context(), userID, legID)
		if err != nil {
			return err
		}
		if err := printJSON(cmd, dto.ToReconcileResponse(outcome)); err != nil {
			return err
		}
		if !outcome.Reconciled {
			return fmt.Errorf("leg %d not reconciled: %s", legID, outcome.Reason)
		}
		slog.Info("Legs reconciled", slog.Int64("leg_id", legID), slog.Int64("opposing_id", outcome.Opposing.ID))
		return nil
	},
}
