package layout

import (
	"encoding/json"

	"layout-sync/core/reconcile"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Adapter implements reconcile.Adapter for layouts.
type Adapter struct{}

var _ reconcile.Adapter[Layout] = (*Adapter)(nil)

// NewAdapter creates a layout reconcile adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return "layouts"
}

// ExtractKey returns the layout identifier.
func (a *Adapter) ExtractKey(l Layout) string {
	return l.ID
}

// ResolveName returns the layout display name.
func (a *Adapter) ResolveName(l Layout) string {
	return l.DisplayName()
}

// CompareFields reports which of details, base_layout, pieces, common_layout
// and creator_id differ. Target is derived from base_layout and last_updated
// changes on every scan, so neither is compared.
func (a *Adapter) CompareFields(previous, current Layout) []string {
	var mismatch []string

	if !jsonEqual(map[string]any(previous.Details), map[string]any(current.Details)) {
		mismatch = append(mismatch, "details")
	}
	if previous.BaseLayout != current.BaseLayout {
		mismatch = append(mismatch, "base_layout")
	}
	if !jsonEqual(normalizePieces(previous.Pieces), normalizePieces(current.Pieces)) {
		mismatch = append(mismatch, "pieces")
	}
	if !equalOptional(previous.CommonLayout, current.CommonLayout) {
		mismatch = append(mismatch, "common_layout")
	}
	if previous.CreatorID != current.CreatorID {
		mismatch = append(mismatch, "creator_id")
	}

	return mismatch
}

// jsonEqual compares two values by their JSON data model: key order and Go
// number types (float64 vs json.Number) do not matter. Values that cannot be
// encoded are reported as different.
func jsonEqual(a, b any) bool {
	ca, err := canonical(a)
	if err != nil {
		return false
	}
	cb, err := canonical(b)
	if err != nil {
		return false
	}
	return cmp.Equal(ca, cb, cmpopts.EquateEmpty())
}

func canonical(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizePieces turns nil collections into empty ones so that a layout
// without pieces compares equal to one stored as an empty array.
func normalizePieces(pieces []PieceOption) []PieceOption {
	out := make([]PieceOption, len(pieces))
	for i, p := range pieces {
		values := make([]PieceValue, len(p.Values))
		for j, v := range p.Values {
			if v.Content == nil {
				v.Content = map[string]any{}
			}
			values[j] = v
		}
		p.Values = values
		out[i] = p
	}
	return out
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
