package reconcile

// Outcome classifies a single entity after comparing the current set with
// the previously persisted set.
type Outcome string

const (
	// OutcomeNew marks an entity present only in the current set.
	OutcomeNew Outcome = "new"
	// OutcomeDeleted marks an entity present only in the previous set.
	OutcomeDeleted Outcome = "deleted"
	// OutcomeChanged marks an entity present in both sets with differing content.
	OutcomeChanged Outcome = "changed"
	// OutcomeUnchanged marks an entity present in both sets with equal content.
	OutcomeUnchanged Outcome = "unchanged"
)

// ReconcileResult represents the reconciliation output for a single entity.
type ReconcileResult struct {
	// ID is the unique identifier for the entity.
	ID string `json:"id"`

	// Name is the display name of the entity.
	Name string `json:"name"`

	// Outcome is the classification of the entity.
	Outcome Outcome `json:"outcome"`

	// Mismatch lists the fields that differ for changed entities.
	Mismatch []string `json:"mismatch"`
}

// ReconcilePlan contains the classified sets and per-entity results.
type ReconcilePlan[T any] struct {
	// New holds current items whose key is not persisted yet.
	New []T `json:"-"`

	// Deleted holds previous items whose key is no longer current.
	Deleted []T `json:"-"`

	// Changed holds the current content of items whose persisted content differs.
	Changed []T `json:"-"`

	// Results contains per-entity reconciliation data, sorted by ID.
	Results []ReconcileResult `json:"results"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// HasActions reports whether applying the plan would mutate the store.
func (p *ReconcilePlan[T]) HasActions() bool {
	return len(p.New) > 0 || len(p.Deleted) > 0 || len(p.Changed) > 0
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	// TotalItems is the number of distinct keys across both sets.
	TotalItems int `json:"total_items"`

	// New counts entities to insert.
	New int `json:"new"`

	// Deleted counts entities to delete.
	Deleted int `json:"deleted"`

	// Changed counts entities to update.
	Changed int `json:"changed"`

	// Unchanged counts entities left untouched.
	Unchanged int `json:"unchanged"`
}

// ReconcileOptions controls how a plan is applied.
type ReconcileOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool
}

// ApplyReport counts the mutations that were executed.
type ApplyReport struct {
	Inserted int `json:"inserted"`
	Deleted  int `json:"deleted"`
	Updated  int `json:"updated"`
}

// Total returns the number of executed mutations.
func (r ApplyReport) Total() int {
	return r.Inserted + r.Deleted + r.Updated
}
