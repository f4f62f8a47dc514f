package reconcile

import "context"

// Adapter defines the model-specific part of reconciliation: how to key,
// name and compare items of type T.
type Adapter[T any] interface {
	// Name returns the unique name of this adapter (e.g., "layouts").
	Name() string

	// ExtractKey returns the identity of an item. Items are matched across
	// sets by key only.
	ExtractKey(item T) string

	// ResolveName returns the display name used in reports and logs.
	ResolveName(item T) string

	// CompareFields compares the persisted item with the current item for the
	// same key and returns the names of the fields that differ. An empty
	// result means the item is unchanged.
	CompareFields(previous, current T) []string
}

// Mutator applies planned changes to the persisted store.
// Each method is its own atomic unit against the store.
type Mutator[T any] interface {
	// InsertBatch inserts all items in one operation.
	InsertBatch(ctx context.Context, items []T) error

	// Delete removes the item with the given key.
	Delete(ctx context.Context, key string) error

	// UpdateBatch replaces the persisted content of all items, keyed by
	// identity, in one operation.
	UpdateBatch(ctx context.Context, items []T) error
}
