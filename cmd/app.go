package cmd

import (
	"fmt"

	"layout-sync/core/config"
	"layout-sync/core/database"
	"layout-sync/core/identity"
	"layout-sync/core/logger"
	"layout-sync/core/reconcile"
	"layout-sync/core/storage"
	"layout-sync/feature/layout"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds what every command needs.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	service *layout.Service
}

// newApp loads the configuration, connects to the catalog and wires the
// layout service. The caller must call close.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	l.Info("Connected to catalog database", zap.String("driver", cfg.Database.Driver))

	fs := afero.NewOsFs()
	loader := layout.NewLoader(fs, cfg.Corpus, identity.NewAssigner(fs))

	var publisher *layout.Publisher
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		publisher = layout.NewPublisher(client, fs, cfg.Storage, l)
	}

	return &app{
		cfg:     cfg,
		logger:  l,
		db:      db,
		service: layout.NewService(loader, layout.NewStore(db), publisher, l),
	}, nil
}

func (a *app) close() {
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("Failed to close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// printPlanReport logs the plan summary and every result that needs an action.
func printPlanReport(l *zap.Logger, plan *reconcile.ReconcilePlan[layout.Layout]) {
	s := plan.Summary

	l.Info("Reconciliation report",
		zap.Int("total_items", s.TotalItems),
		zap.Int("new", s.New),
		zap.Int("deleted", s.Deleted),
		zap.Int("changed", s.Changed),
		zap.Int("unchanged", s.Unchanged),
	)

	for _, result := range plan.Results {
		if result.Outcome == reconcile.OutcomeUnchanged {
			continue
		}
		l.Info("Planned action",
			zap.String("outcome", string(result.Outcome)),
			zap.String("id", result.ID),
			zap.String("name", result.Name),
			zap.Strings("mismatch", result.Mismatch),
		)
	}
}
