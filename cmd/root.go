package cmd

import (
	"fmt"
	"os"

	"layout-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dryRun bool

// RootCmd runs one sync of the layout corpus into the catalog.
var RootCmd = &cobra.Command{
	Use:   "layout-sync",
	Short: "Synchronize the layout corpus with the layouts catalog",
	Long: `layout-sync scans the layout corpus, assigns identifiers to artifacts that
have none, compares the result with the layouts table and inserts, updates
and deletes rows so that the table mirrors the corpus.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSync,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with ISO8601 timestamps for CLI users
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute and print the plan without changing the catalog")
}
