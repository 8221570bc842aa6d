package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"cafebudget/internal/services"
)

var (
	flagPendingCategory string
	flagPendingAmount   string
	flagDryRun          bool
)

var finalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Scale a month's COGS and Operating expense budgets to fit its overall budget",
	RunE:  runFinalize,
}

func init() {
	finalizeCmd.Flags().StringVar(&flagPendingCategory, "pending-category", "", "Main category of an unsaved amount to fold in")
	finalizeCmd.Flags().StringVar(&flagPendingAmount, "pending-amount", "", "Unsaved amount to fold in")
	finalizeCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Show the planned writes without saving them")
	finalizeCmd.MarkFlagsRequiredTogether("pending-category", "pending-amount")
	rootCmd.AddCommand(finalizeCmd)
}

// finalizeInput builds the service input from the command flags.
func finalizeInput(month, pendingCategory, pendingAmount string, dryRun bool) (services.FinalizeInput, error) {
	in := services.FinalizeInput{Month: month, PendingCategory: pendingCategory, DryRun: dryRun}
	if pendingAmount != "" {
		amount, err := decimal.NewFromString(pendingAmount)
		if err != nil {
			return in, fmt.Errorf("invalid --pending-amount %q: %w", pendingAmount, err)
		}
		in.PendingAmount = &amount
	}
	return in, nil
}

func runFinalize(_ *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	in, err := finalizeInput(a.month(), flagPendingCategory, flagPendingAmount, flagDryRun)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	result, err := a.reconciliation.FinalizeBudgets(ctx, in)
	if err != nil {
		return err
	}
	if !result.DryRun {
		a.audit.Log(ctx, services.AuditEntry{
			Actor:        cliActor,
			Action:       "FINALIZE_BUDGETS",
			ResourceType: services.ResourceMonth,
			Month:        result.Month,
			Changes:      map[string]any{"factor": result.Factor.String(), "updates": len(result.Updates)},
		})
	}
	fmt.Println(renderFinalize(result))
	return nil
}
