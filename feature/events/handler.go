package events

import (
	"strconv"

	"event-sync/core/logger"
	"event-sync/feature/events/catalog"
	"event-sync/feature/events/sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the event catalog.
type Handler struct {
	service *Service
	syncer  *sync.Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, syncer *sync.Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, syncer: syncer, logger: logger}
}

// RegisterRoutes registers the event routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/events")
	group.Get("/", h.HandleListEvents)
	group.Post("/sync/:source/run", h.HandleRunSync)
}

// HandleListEvents returns the published, active events for website display.
// @Summary List published events
// @Description List published, active events, optionally scoped to one site.
// @Tags events
// @Produce json
// @Param site_id query int false "Site scope (0 = all)"
// @Success 200 {array} models.Event "Published events"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /events [get]
func (h *Handler) HandleListEvents(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	siteID, _ := strconv.Atoi(c.Query("site_id", "0"))

	events, err := h.service.ListPublished(c.Context(), uint(siteID))
	if err != nil {
		l.Error("Event listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(events)
}

// HandleRunSync triggers one sync pass and reports the result in-band.
// @Summary Run a sync pass
// @Description Trigger a sync pass for one source. Always returns 200 with a summary or error message.
// @Tags events
// @Produce json
// @Param source path string true "Source (eventbrite, ticketmaster)"
// @Success 200 {object} map[string]string "Summary message"
// @Failure 400 {object} map[string]string "Unknown source"
// @Router /events/sync/{source}/run [post]
func (h *Handler) HandleRunSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	source, err := catalog.ParseSource(c.Params("source"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	l.Info("Manual sync triggered", zap.String("source", string(source)))
	message := h.syncer.RunManual(c.Context(), source)

	return c.JSON(fiber.Map{"message": message})
}
