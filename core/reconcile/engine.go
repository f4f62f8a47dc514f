package reconcile

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateKey is returned when one input set holds two items with the same key.
var ErrDuplicateKey = errors.New("duplicate key")

// BuildPlan classifies current items against previously persisted items.
//
// Items are matched by key. Keys only in current are New, keys only in
// previous are Deleted, and keys in both are Changed when the adapter reports
// a differing field, Unchanged otherwise. Changed carries the current item.
func BuildPlan[T any](adapter Adapter[T], current, previous []T) (*ReconcilePlan[T], error) {
	currentIndex, err := buildIndex(adapter, current)
	if err != nil {
		return nil, fmt.Errorf("current %s: %w", adapter.Name(), err)
	}
	previousIndex, err := buildIndex(adapter, previous)
	if err != nil {
		return nil, fmt.Errorf("persisted %s: %w", adapter.Name(), err)
	}

	keys := unionKeys(currentIndex, previousIndex)

	plan := &ReconcilePlan[T]{
		Results: make([]ReconcileResult, 0, len(keys)),
	}

	for _, key := range keys {
		cur, inCurrent := currentIndex[key]
		prev, inPrevious := previousIndex[key]

		result := ReconcileResult{ID: key, Mismatch: []string{}}

		switch {
		case inCurrent && !inPrevious:
			result.Outcome = OutcomeNew
			result.Name = adapter.ResolveName(cur)
			plan.New = append(plan.New, cur)
		case !inCurrent && inPrevious:
			result.Outcome = OutcomeDeleted
			result.Name = adapter.ResolveName(prev)
			plan.Deleted = append(plan.Deleted, prev)
		default:
			result.Name = adapter.ResolveName(cur)
			if mismatch := adapter.CompareFields(prev, cur); len(mismatch) > 0 {
				result.Outcome = OutcomeChanged
				result.Mismatch = mismatch
				plan.Changed = append(plan.Changed, cur)
			} else {
				result.Outcome = OutcomeUnchanged
			}
		}

		plan.Results = append(plan.Results, result)
	}

	plan.Summary = summarize(plan.Results)
	return plan, nil
}

// buildIndex indexes items by key, rejecting duplicates.
func buildIndex[T any](adapter Adapter[T], items []T) (map[string]T, error) {
	index := make(map[string]T, len(items))
	for _, item := range items {
		key := adapter.ExtractKey(item)
		if _, exists := index[key]; exists {
			return nil, fmt.Errorf("%w %q (%s)", ErrDuplicateKey, key, adapter.ResolveName(item))
		}
		index[key] = item
	}
	return index, nil
}

// unionKeys returns the sorted union of keys of both indices.
func unionKeys[T any](a, b map[string]T) []string {
	union := make(map[string]struct{}, len(a)+len(b))
	for key := range a {
		union[key] = struct{}{}
	}
	for key := range b {
		union[key] = struct{}{}
	}

	keys := make([]string, 0, len(union))
	for key := range union {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func summarize(results []ReconcileResult) PlanSummary {
	summary := PlanSummary{TotalItems: len(results)}
	for _, r := range results {
		switch r.Outcome {
		case OutcomeNew:
			summary.New++
		case OutcomeDeleted:
			summary.Deleted++
		case OutcomeChanged:
			summary.Changed++
		case OutcomeUnchanged:
			summary.Unchanged++
		}
	}
	return summary
}
