package layout_test

import (
	"encoding/json"
	"testing"
	"time"

	"layout-sync/core/reconcile"
	"layout-sync/feature/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func strPtr(s string) *string {
	return &s
}

func sampleLayout() layout.Layout {
	return layout.Layout{
		ID:          "L1",
		Details:     datatypes.JSONMap{"uuid": "L1", "name": "Lobby", "creator_id": float64(42)},
		BaseLayout:  `{"TargetName":"lobby"}`,
		Target:      "lobby",
		LastUpdated: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Pieces: datatypes.JSONSlice[layout.PieceOption]{
			{
				Name: "wall",
				Dir:  "01_wall",
				Values: []layout.PieceValue{
					{ID: "V1", Value: "red", Image: strPtr("red.png"), Content: map[string]any{"rgb": "f00"}},
				},
			},
		},
		CommonLayout: strPtr(`{"Shared":true}`),
		CreatorID:    "42",
		SourceDir:    "/corpus/rooms/lobby",
	}
}

func TestAdapter_Identity(t *testing.T) {
	a := layout.NewAdapter()
	l := sampleLayout()

	assert.Equal(t, "layouts", a.Name())
	assert.Equal(t, "L1", a.ExtractKey(l))
	assert.Equal(t, "Lobby", a.ResolveName(l))
}

func TestAdapter_CompareFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(l *layout.Layout)
		want   []string
	}{
		{
			name:   "identical",
			mutate: func(l *layout.Layout) {},
		},
		{
			name: "details",
			mutate: func(l *layout.Layout) {
				l.Details = datatypes.JSONMap{"uuid": "L1", "name": "Lobby 2", "creator_id": float64(42)}
			},
			want: []string{"details"},
		},
		{
			name:   "base layout",
			mutate: func(l *layout.Layout) { l.BaseLayout = `{"TargetName":"lobby","Objects":[]}` },
			want:   []string{"base_layout"},
		},
		{
			name: "piece value content",
			mutate: func(l *layout.Layout) {
				l.Pieces = datatypes.JSONSlice[layout.PieceOption]{
					{Name: "wall", Values: []layout.PieceValue{
						{ID: "V1", Value: "red", Image: strPtr("red.png"), Content: map[string]any{"rgb": "ff0000"}},
					}},
				}
			},
			want: []string{"pieces"},
		},
		{
			name: "piece image removed",
			mutate: func(l *layout.Layout) {
				l.Pieces[0].Values = []layout.PieceValue{
					{ID: "V1", Value: "red", Content: map[string]any{"rgb": "f00"}},
				}
			},
			want: []string{"pieces"},
		},
		{
			name:   "common layout removed",
			mutate: func(l *layout.Layout) { l.CommonLayout = nil },
			want:   []string{"common_layout"},
		},
		{
			name:   "common layout edited",
			mutate: func(l *layout.Layout) { l.CommonLayout = strPtr(`{"Shared":false}`) },
			want:   []string{"common_layout"},
		},
		{
			name:   "creator",
			mutate: func(l *layout.Layout) { l.CreatorID = "7" },
			want:   []string{"creator_id"},
		},
		{
			name: "several fields",
			mutate: func(l *layout.Layout) {
				l.BaseLayout = `{"TargetName":"other"}`
				l.Target = "other"
				l.CreatorID = ""
			},
			want: []string{"base_layout", "creator_id"},
		},
		{
			name:   "target alone is ignored",
			mutate: func(l *layout.Layout) { l.Target = "elsewhere" },
		},
		{
			name: "scan time and source are ignored",
			mutate: func(l *layout.Layout) {
				l.LastUpdated = time.Now()
				l.SourceDir = ""
				l.Pieces[0].Dir = ""
			},
		},
		{
			name: "number representation is ignored",
			mutate: func(l *layout.Layout) {
				l.Details = datatypes.JSONMap{"name": "Lobby", "creator_id": json.Number("42"), "uuid": "L1"}
			},
		},
	}

	a := layout.NewAdapter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			previous := sampleLayout()
			current := sampleLayout()
			tt.mutate(&current)

			assert.Equal(t, tt.want, a.CompareFields(previous, current))
		})
	}
}

func TestAdapter_EmptyPiecesEqualNil(t *testing.T) {
	a := layout.NewAdapter()

	previous := sampleLayout()
	previous.Pieces = nil
	current := sampleLayout()
	current.Pieces = datatypes.JSONSlice[layout.PieceOption]{}

	assert.Empty(t, a.CompareFields(previous, current))

	previous = sampleLayout()
	previous.Pieces[0].Values[0].Content = nil
	current = sampleLayout()
	current.Pieces[0].Values[0].Content = map[string]any{}

	assert.Empty(t, a.CompareFields(previous, current))
}

func TestAdapter_Plan(t *testing.T) {
	stored := sampleLayout()
	edited := sampleLayout()
	edited.BaseLayout = `{"TargetName":"lobby2"}`

	gone := sampleLayout()
	gone.ID = "L0"

	fresh := sampleLayout()
	fresh.ID = "L2"

	plan, err := reconcile.BuildPlan[layout.Layout](layout.NewAdapter(),
		[]layout.Layout{edited, fresh},
		[]layout.Layout{stored, gone},
	)
	require.NoError(t, err)

	assert.Equal(t, reconcile.PlanSummary{TotalItems: 3, New: 1, Deleted: 1, Changed: 1}, plan.Summary)
	require.Len(t, plan.Changed, 1)
	assert.Equal(t, `{"TargetName":"lobby2"}`, plan.Changed[0].BaseLayout)
	assert.Equal(t, "L2", plan.New[0].ID)
	assert.Equal(t, "L0", plan.Deleted[0].ID)
}
