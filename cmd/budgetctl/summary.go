package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the overall budget, main-category totals and overrun status of a month",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := commandContext()
	defer cancel()

	summary, err := a.reconciliation.GetBudgetSummary(ctx, a.month())
	if err != nil {
		return err
	}
	fmt.Println(renderSummary(summary))
	return nil
}
