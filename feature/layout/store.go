package layout

import (
	"context"
	"fmt"
	"strings"

	"layout-sync/core/database"
	"layout-sync/core/reconcile"

	"gorm.io/gorm"
)

// DefaultBatchSize is the number of rows per INSERT statement.
const DefaultBatchSize = 100

// RequiredColumns are the layouts table columns the sync reads and writes.
var RequiredColumns = []string{
	"uuid",
	"details",
	"baselayout",
	"target",
	"last_updated",
	"pieces",
	"commonlayout",
	"creator_id",
}

// Store persists layouts with GORM.
type Store struct {
	db        *gorm.DB
	batchSize int
}

var _ reconcile.Mutator[Layout] = (*Store)(nil)

// NewStore creates a layout store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, batchSize: DefaultBatchSize}
}

// Prepare makes sure the layouts table can hold what the sync writes.
// With autoMigrate the table is created or extended first.
func (s *Store) Prepare(ctx context.Context, autoMigrate bool) error {
	db := s.db.WithContext(ctx)

	if autoMigrate {
		if err := db.AutoMigrate(&Layout{}); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", Layout{}.TableName(), err)
		}
	}

	missing, err := database.MissingColumns(db, Layout{}.TableName(), RequiredColumns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", Layout{}.TableName(), strings.Join(missing, ", "))
	}

	return nil
}

// FetchAll returns every persisted layout.
func (s *Store) FetchAll(ctx context.Context) ([]Layout, error) {
	var layouts []Layout
	if err := s.db.WithContext(ctx).Order("uuid").Find(&layouts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch layouts: %w", err)
	}
	return layouts, nil
}

// Get returns the layout with the given identifier.
// The error wraps gorm.ErrRecordNotFound when there is none.
func (s *Store) Get(ctx context.Context, id string) (*Layout, error) {
	var l Layout
	if err := s.db.WithContext(ctx).Where("uuid = ?", id).First(&l).Error; err != nil {
		return nil, fmt.Errorf("failed to get layout %s: %w", id, err)
	}
	return &l, nil
}

// InsertBatch inserts all layouts.
func (s *Store) InsertBatch(ctx context.Context, layouts []Layout) error {
	if len(layouts) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).CreateInBatches(&layouts, s.batchSize).Error
}

// Delete removes the layout with the given identifier.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("uuid = ?", id).Delete(&Layout{}).Error
}

// UpdateBatch replaces every column of the given layouts, keyed by
// identifier, in a single transaction.
func (s *Store) UpdateBatch(ctx context.Context, layouts []Layout) error {
	if len(layouts) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range layouts {
			l := &layouts[i]
			if err := tx.Model(&Layout{}).Where("uuid = ?", l.ID).Select("*").Updates(l).Error; err != nil {
				return fmt.Errorf("layout %s: %w", l.ID, err)
			}
		}
		return nil
	})
}
