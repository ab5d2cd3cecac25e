package integrity

import (
	"errors"

	"media-catalog/core/logger"
	"media-catalog/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Post("/repair", h.HandleRepair)
	group.Post("/upload", h.HandleUpload)
	group.Get("/uploads", h.HandleListUploads)
	group.Get("/uploads/:name", h.HandleDownload)
}

// HandleIntegrityCheck returns the integrity report.
// @Summary Run Integrity Checks
// @Description Checks every association table for schema drift and for owner or child position groups that are not dense. The report is cached; refresh=true forces a new run.
// @Tags integrity
// @Produce json
// @Param refresh query boolean false "Bypass the cached report"
// @Success 200 {object} Report "Integrity Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if c.Query("refresh") == "true" {
		h.service.Invalidate()
	}

	report, err := h.service.Report(c.Context())
	if err != nil {
		l.Error("Integrity check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleRepair compacts every group with gaps.
// @Summary Repair Position Gaps
// @Description Runs a fresh check and compacts every owner and child group that is not dense.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Repair Result"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/repair [post]
func (h *Handler) HandleRepair(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Check(c.Context())
	if err != nil {
		l.Error("Integrity check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	gaps := report.Gaps()
	if len(gaps) == 0 {
		return c.JSON(fiber.Map{"status": "checked", "repair": RepairResult{Errors: []string{}}})
	}

	l.Info("Attempting to repair position gaps", zap.Int("groups", len(gaps)))
	result, err := h.service.Repair(c.Context(), report)
	if err != nil {
		l.Error("Repair failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "fixed", "repair": result})
}

// HandleUpload stores the current report in object storage.
// @Summary Upload Integrity Report
// @Description Uploads the current integrity report as JSON to the reports bucket.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]string "Object name"
// @Failure 503 {object} map[string]string "Storage not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/upload [post]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Report(c.Context())
	if err != nil {
		l.Error("Integrity check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	name, err := h.service.Upload(c.Context(), report)
	if err != nil {
		return h.storageError(c, l, err)
	}
	return c.JSON(fiber.Map{"object": name})
}

// HandleListUploads lists the uploaded reports.
// @Summary List Uploaded Reports
// @Description Lists the integrity reports stored in object storage.
// @Tags integrity
// @Produce json
// @Success 200 {array} string "Object names"
// @Failure 503 {object} map[string]string "Storage not configured"
// @Router /integrity/uploads [get]
func (h *Handler) HandleListUploads(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	names, err := h.service.ListUploads(c.Context())
	if err != nil {
		return h.storageError(c, l, err)
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(names)
}

// HandleDownload returns one uploaded report.
// @Summary Get Uploaded Report
// @Description Downloads an integrity report previously uploaded to object storage.
// @Tags integrity
// @Produce json
// @Param name path string true "Object name without the integrity/ prefix"
// @Success 200 {object} Report "Integrity Report"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 503 {object} map[string]string "Storage not configured"
// @Router /integrity/uploads/{name} [get]
func (h *Handler) HandleDownload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Download(c.Context(), c.Params("name"))
	if err != nil {
		return h.storageError(c, l, err)
	}
	return c.JSON(report)
}

func (h *Handler) storageError(c *fiber.Ctx, l *zap.Logger, err error) error {
	if errors.Is(err, ErrStorageDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if errors.Is(err, storage.ErrObjectNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	l.Error("Storage operation failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
