package reconcile

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ApplyPlan executes a plan against the store.
//
// The insert, delete and update groups are independent and run concurrently;
// deletes are issued one per key. ApplyPlan returns once every group has
// finished, with the errors of all failed groups combined. Nothing is retried
// and a failed group does not roll back the others.
func ApplyPlan[T any](
	ctx context.Context,
	adapter Adapter[T],
	mutator Mutator[T],
	plan *ReconcilePlan[T],
	opts ReconcileOptions,
	l *zap.Logger,
) (ApplyReport, error) {
	var report ApplyReport

	if opts.DryRun || !plan.HasActions() {
		return report, nil
	}

	var (
		insertErr error
		deleteErr error
		updateErr error
		deleted   int
		mu        sync.Mutex
		wg        sync.WaitGroup
	)

	if len(plan.New) > 0 {
		logNames(l, "Inserting new "+adapter.Name(), adapter, plan.New)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if insertErr = mutator.InsertBatch(ctx, plan.New); insertErr != nil {
				insertErr = fmt.Errorf("failed to insert %d %s: %w", len(plan.New), adapter.Name(), insertErr)
			}
		}()
	}

	if len(plan.Deleted) > 0 {
		logNames(l, "Deleting removed "+adapter.Name(), adapter, plan.Deleted)
		wg.Add(1)
		go func() {
			defer wg.Done()
			var g errgroup.Group
			for _, item := range plan.Deleted {
				key := adapter.ExtractKey(item)
				g.Go(func() error {
					if err := mutator.Delete(ctx, key); err != nil {
						return fmt.Errorf("failed to delete %s %s: %w", adapter.Name(), key, err)
					}
					mu.Lock()
					deleted++
					mu.Unlock()
					return nil
				})
			}
			deleteErr = g.Wait()
		}()
	}

	if len(plan.Changed) > 0 {
		logNames(l, "Updating changed "+adapter.Name(), adapter, plan.Changed)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if updateErr = mutator.UpdateBatch(ctx, plan.Changed); updateErr != nil {
				updateErr = fmt.Errorf("failed to update %d %s: %w", len(plan.Changed), adapter.Name(), updateErr)
			}
		}()
	}

	wg.Wait()

	if insertErr == nil {
		report.Inserted = len(plan.New)
	}
	if updateErr == nil {
		report.Updated = len(plan.Changed)
	}
	report.Deleted = deleted

	return report, multierr.Combine(insertErr, deleteErr, updateErr)
}

func logNames[T any](l *zap.Logger, msg string, adapter Adapter[T], items []T) {
	l.Info(msg, zap.Int("count", len(items)))
	for _, item := range items {
		l.Info(msg,
			zap.String("id", adapter.ExtractKey(item)),
			zap.String("name", adapter.ResolveName(item)),
		)
	}
}
