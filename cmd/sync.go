package cmd

import (
	"context"

	"layout-sync/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.service.Prepare(ctx, a.cfg.Database.AutoMigrate); err != nil {
		return err
	}

	a.logger.Info("Starting layout sync",
		zap.String("root", a.cfg.Corpus.Root),
		zap.Bool("dry_run", dryRun),
	)

	report, err := a.service.Sync(ctx, reconcile.ReconcileOptions{DryRun: dryRun})
	if report != nil {
		printPlanReport(a.logger, report.Plan)
	}
	if err != nil {
		return err
	}

	if report.DryRun {
		a.logger.Info("Dry-run mode: No changes were made.")
		return nil
	}

	fields := []zap.Field{
		zap.Int("inserted", report.Applied.Inserted),
		zap.Int("deleted", report.Applied.Deleted),
		zap.Int("updated", report.Applied.Updated),
	}
	if report.Images != nil {
		fields = append(fields,
			zap.Int("images_uploaded", report.Images.Uploaded),
			zap.Int("images_removed", report.Images.Removed),
		)
	}
	a.logger.Info("Layout sync finished", fields...)
	return nil
}
