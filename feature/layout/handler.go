package layout

import (
	"errors"

	"layout-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler serves the read-only layout API.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the layout routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/layouts")
	group.Get("/", h.HandleList)
	group.Get("/plan", h.HandlePlan)
	group.Get("/:id", h.HandleGet)
}

// HandleList returns the summaries of all persisted layouts.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	summaries, err := h.service.List(c.Context())
	if err != nil {
		l.Error("Failed to list layouts", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"count":   len(summaries),
		"layouts": summaries,
	})
}

// HandlePlan computes the sync plan without applying it.
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Computing layout plan")

	plan, err := h.service.Plan(c.Context())
	if err != nil {
		l.Error("Failed to compute layout plan", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(plan)
}

// HandleGet returns one persisted layout.
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := c.Params("id")

	layout, err := h.service.Get(c.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "layout not found"})
	}
	if err != nil {
		l.Error("Failed to get layout", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(layout)
}
