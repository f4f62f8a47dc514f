package layout

import (
	"context"
	"fmt"
	"sync"

	"layout-sync/core/reconcile"

	"go.uber.org/zap"
)

// SyncReport is the outcome of one sync run.
type SyncReport struct {
	Plan    *reconcile.ReconcilePlan[Layout] `json:"plan"`
	Applied reconcile.ApplyReport            `json:"applied"`
	Images  *PublishReport                   `json:"images,omitempty"`
	DryRun  bool                             `json:"dry_run"`
}

// Service runs the layout sync: load the corpus, diff it against the store
// and apply the difference.
type Service struct {
	loader    *Loader
	store     *Store
	adapter   *Adapter
	publisher *Publisher
	logger    *zap.Logger

	// mu serializes runs; loading may write identifiers back to the corpus.
	mu sync.Mutex
}

// NewService creates a layout sync service. publisher may be nil, in which
// case piece images are not published.
func NewService(loader *Loader, store *Store, publisher *Publisher, logger *zap.Logger) *Service {
	return &Service{
		loader:    loader,
		store:     store,
		adapter:   NewAdapter(),
		publisher: publisher,
		logger:    logger,
	}
}

// Prepare checks (and with autoMigrate, creates) the layouts table.
func (s *Service) Prepare(ctx context.Context, autoMigrate bool) error {
	return s.store.Prepare(ctx, autoMigrate)
}

// Get returns a persisted layout.
func (s *Service) Get(ctx context.Context, id string) (*Layout, error) {
	return s.store.Get(ctx, id)
}

// List returns the summaries of all persisted layouts.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	layouts, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(layouts))
	for _, l := range layouts {
		summaries = append(summaries, l.Summarize())
	}
	return summaries, nil
}

// Plan computes the difference between the corpus and the store.
func (s *Service) Plan(ctx context.Context) (*reconcile.ReconcilePlan[Layout], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, _, err := s.plan(ctx)
	return plan, err
}

// plan also returns the layouts loaded from the corpus.
func (s *Service) plan(ctx context.Context) (*reconcile.ReconcilePlan[Layout], []Layout, error) {
	current, err := s.loader.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("Loaded corpus", zap.Int("layouts", len(current)))

	previous, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("Fetched persisted layouts", zap.Int("layouts", len(previous)))

	plan, err := reconcile.BuildPlan[Layout](s.adapter, current, previous)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build plan: %w", err)
	}

	s.logger.Info("Computed layout plan",
		zap.Int("total", plan.Summary.TotalItems),
		zap.Int("new", plan.Summary.New),
		zap.Int("deleted", plan.Summary.Deleted),
		zap.Int("changed", plan.Summary.Changed),
		zap.Int("unchanged", plan.Summary.Unchanged),
	)
	return plan, current, nil
}

// Sync plans and, unless opts.DryRun is set, applies the plan and then
// publishes the piece images of the whole corpus.
func (s *Service) Sync(ctx context.Context, opts reconcile.ReconcileOptions) (*SyncReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, current, err := s.plan(ctx)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{Plan: plan, DryRun: opts.DryRun}

	applied, err := reconcile.ApplyPlan[Layout](ctx, s.adapter, s.store, plan, opts, s.logger)
	report.Applied = applied
	if err != nil {
		return report, err
	}

	if s.publisher != nil && !opts.DryRun {
		images, err := s.publisher.Publish(ctx, plan, current)
		report.Images = &images
		if err != nil {
			return report, fmt.Errorf("failed to publish images: %w", err)
		}
	}

	return report, nil
}
