package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Show the payroll floor from active employees' base pay",
	RunE:  runBaseline,
}

func init() {
	rootCmd.AddCommand(baselineCmd)
}

func runBaseline(_ *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := commandContext()
	defer cancel()

	baseline, err := a.employees.GetEmployeeBaseline(ctx)
	if err != nil {
		return err
	}
	fmt.Println(renderBaseline(baseline))
	return nil
}
