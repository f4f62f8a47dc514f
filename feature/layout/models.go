package layout

import (
	"time"

	"layout-sync/core/utils"

	"gorm.io/datatypes"
)

// Layout is one layout artifact as computed from the corpus and as stored in
// the layouts table.
type Layout struct {
	ID           string                           `gorm:"column:uuid;primaryKey;size:36" json:"id"`
	Details      datatypes.JSONMap                `gorm:"column:details" json:"details"`
	BaseLayout   string                           `gorm:"column:baselayout;type:text" json:"base_layout"`
	Target       string                           `gorm:"column:target" json:"target"`
	LastUpdated  time.Time                        `gorm:"column:last_updated" json:"last_updated"`
	Pieces       datatypes.JSONSlice[PieceOption] `gorm:"column:pieces" json:"pieces"`
	CommonLayout *string                          `gorm:"column:commonlayout;type:text" json:"common_layout"`
	CreatorID    string                           `gorm:"column:creator_id" json:"creator_id"`

	// SourceDir is the corpus directory the layout was loaded from.
	// It is empty for layouts read from the database.
	SourceDir string `gorm:"-" json:"-"`
}

// TableName overrides the table name.
func (Layout) TableName() string {
	return "layouts"
}

// DisplayName returns details.name, or an empty string.
func (l Layout) DisplayName() string {
	name, _ := l.Details["name"].(string)
	return name
}

// PieceOption is a customization axis of a layout.
type PieceOption struct {
	Name   string       `json:"name"`
	Values []PieceValue `json:"values"`

	// Dir is the option's directory name under pieces/.
	Dir string `json:"-"`
}

// PieceValue is one concrete choice of a piece option.
type PieceValue struct {
	ID string `json:"id"`
	// Value is the value file's stem for options with several values, or
	// the boolean true for single-value (toggle) options.
	Value   any            `json:"value"`
	Image   *string        `json:"image"`
	Content map[string]any `json:"content"`
}

// Summary is the list view of a layout.
type Summary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Target      string    `json:"target"`
	CreatorID   string    `json:"creator_id"`
	PieceCount  int       `json:"piece_count"`
	LastUpdated time.Time `json:"last_updated"`
}

// Summarize builds the list view of l.
func (l Layout) Summarize() Summary {
	return Summary{
		ID:          l.ID,
		Name:        l.DisplayName(),
		Target:      l.Target,
		CreatorID:   l.CreatorID,
		PieceCount:  len(l.Pieces),
		LastUpdated: l.LastUpdated,
	}
}

// creatorID renders details.creator_id for the creator_id column.
func creatorID(details map[string]any) string {
	return utils.ToString(details["creator_id"])
}
