package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// planCmd prints what a sync would change.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what a sync would change without touching the catalog",
	Long: `Scans the corpus and compares it with the layouts table, then reports new,
deleted and changed layouts. Identifiers are still written to corpus files
that have none, since reconciliation needs them.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	RootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.service.Prepare(ctx, false); err != nil {
		return err
	}

	plan, err := a.service.Plan(ctx)
	if err != nil {
		return err
	}

	printPlanReport(a.logger, plan)
	return nil
}
