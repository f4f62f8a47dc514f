// Package reconcile provides a generic system for reconciling a freshly
// computed set of records with the set previously persisted in a store.
//
// # Architecture
//
// The reconcile system consists of three components:
//
// 1. Adapter: model-specific logic that extracts the identity key of a
// record, resolves its display name and compares the fields that matter for
// change detection.
//
// 2. Engine (BuildPlan): indexes both sets by key, builds the sorted union of
// keys and classifies every key as New, Deleted, Changed or Unchanged. Only
// identity decides matching; a record whose name or location changed but
// whose key did not is the same record.
//
// 3. Executor (ApplyPlan): turns a plan into store mutations through a
// Mutator. Inserts go out as one batch, deletes as one operation per key,
// updates as one batch keyed by identity. The three groups run concurrently
// and ApplyPlan waits for all of them.
//
// # Usage Example
//
//	adapter := layout.NewAdapter()
//	plan, err := reconcile.BuildPlan[layout.Layout](adapter, current, persisted)
//	if err != nil {
//	    return err
//	}
//
//	report, err := reconcile.ApplyPlan(ctx, adapter, store, plan, reconcile.ReconcileOptions{}, log)
//
// # Creating Adapters
//
// Implement Adapter[T] for the record type. CompareFields must return the
// names of the differing fields so reports can explain every update; fields
// that are derived or volatile (timestamps) should be left out of the
// comparison.
package reconcile
