package layout

import (
	"layout-sync/core/loader"

	"github.com/gofiber/fiber/v2"
)

// Feature mounts the layout API on the HTTP server.
type Feature struct {
	service *Service
}

var _ loader.Feature = (*Feature)(nil)

// NewFeature creates the layout feature.
func NewFeature(service *Service) *Feature {
	return &Feature{service: service}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "layouts"
}

// IsEnabled reports whether the feature can serve requests.
func (f *Feature) IsEnabled() bool {
	return f.service != nil
}

// Load registers the feature routes.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
