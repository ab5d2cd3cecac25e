package catalog

import (
	"context"
	"errors"
	"strconv"

	"media-catalog/core/logger"
	"media-catalog/core/reconcile"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	registerSave(app, h, PathArtists, h.service.SaveArtist, func(in *ArtistInput, id string) { in.ID = id })
	registerSave(app, h, PathWorks, h.service.SaveWork, func(in *WorkInput, id string) { in.ID = id })
	registerSave(app, h, PathReleases, h.service.SaveRelease, func(in *ReleaseInput, id string) { in.ID = id })
	registerSave(app, h, PathProducts, h.service.SaveProduct, func(in *ProductInput, id string) { in.ID = id })
	registerSave(app, h, PathReleaseGroups, h.service.SaveReleaseGroup, func(in *ReleaseGroupInput, id string) { in.ID = id })
	registerSave(app, h, PathGenres, h.service.SaveGenre, func(in *GenreInput, id string) { in.ID = id })

	app.Get("/"+PathReleases+"/:id", h.HandleGetRelease)

	group := app.Group("/associations")
	group.Get("/:kind/owners/:owner", h.HandleListByOwner)
	group.Get("/:kind/children/:child", h.HandleListByChild)
	group.Patch("/:kind/order", h.HandleReorder)

	// Registered last so the literal segments above take precedence.
	app.Delete("/:entity/:id", h.HandleDelete)
}

// registerSave mounts POST /path (create) and PUT /path/:id (update) for one entity.
func registerSave[T any](app fiber.Router, h *Handler, path string, save func(context.Context, T) (*WriteResult, error), setID func(*T, string)) {
	handle := func(c *fiber.Ctx, id string) error {
		var in T
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body: " + err.Error()})
		}
		setID(&in, id)

		res, err := save(c.Context(), in)
		if err != nil {
			return h.fail(c, "Save "+path+" failed", err)
		}
		status := fiber.StatusOK
		if res.Created {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(res)
	}

	app.Post("/"+path, func(c *fiber.Ctx) error { return handle(c, "") })
	app.Put("/"+path+"/:id", func(c *fiber.Ctx) error { return handle(c, c.Params("id")) })
}

// HandleGetRelease returns a release with its media and tracks.
// @Summary Get Release
// @Description Returns a release with its media and tracks ordered by number.
// @Tags catalog
// @Produce json
// @Param id path string true "Release ID"
// @Success 200 {object} models.Release "Release"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /releases/{id} [get]
func (h *Handler) HandleGetRelease(c *fiber.Ctx) error {
	release, err := h.service.GetRelease(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "Get release failed", err)
	}
	return c.JSON(release)
}

// HandleDelete deletes an entity and detaches its association rows.
// @Summary Delete Entity
// @Description Deletes an artist, work, release, product, release group or genre. Deleting a missing entity is not an error.
// @Tags catalog
// @Produce json
// @Param entity path string true "Entity path (artists, works, releases, products, release-groups, genres)"
// @Param id path string true "Entity ID"
// @Success 200 {object} map[string]int64 "Deleted rows"
// @Failure 404 {object} map[string]string "Unknown entity"
// @Router /{entity}/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	n, err := h.service.Delete(c.Context(), c.Params("entity"), c.Params("id"))
	if err != nil {
		return h.fail(c, "Delete failed", err)
	}
	return c.JSON(fiber.Map{"deleted": n})
}

// HandleListByOwner lists the association rows of one owner.
// @Summary List By Owner
// @Description Lists the rows of an association kind for one owner, ordered by position. Composite owner keys are joined by ':'.
// @Tags associations
// @Produce json
// @Param kind path string true "Association kind"
// @Param owner path string true "Owner key"
// @Success 200 {array} reconcile.Record "Rows"
// @Failure 400 {object} map[string]string "Bad owner key"
// @Failure 404 {object} map[string]string "Unknown kind"
// @Router /associations/{kind}/owners/{owner} [get]
func (h *Handler) HandleListByOwner(c *fiber.Ctx) error {
	rows, err := h.service.ListByOwner(c.Context(), c.Params("kind"), c.Params("owner"))
	if err != nil {
		return h.fail(c, "List by owner failed", err)
	}
	return c.JSON(rows)
}

// HandleListByChild lists the association rows naming one child.
// @Summary List By Child
// @Description Lists the rows of an association kind naming one child, ordered by reference order where the kind keeps one.
// @Tags associations
// @Produce json
// @Param kind path string true "Association kind"
// @Param child path string true "Child ID"
// @Success 200 {array} reconcile.Record "Rows"
// @Failure 404 {object} map[string]string "Unknown kind"
// @Router /associations/{kind}/children/{child} [get]
func (h *Handler) HandleListByChild(c *fiber.Ctx) error {
	rows, err := h.service.ListByChild(c.Context(), c.Params("kind"), c.Params("child"))
	if err != nil {
		return h.fail(c, "List by child failed", err)
	}
	return c.JSON(rows)
}

// HandleReorder overwrites positions of existing association rows.
// @Summary Reorder Associations
// @Description Sets explicit positions. With reference=true only reference orders are written, otherwise only orders.
// @Tags associations
// @Accept json
// @Produce json
// @Param kind path string true "Association kind"
// @Param reference query bool false "Write reference orders instead of orders"
// @Param body body ReorderInput true "Rows"
// @Success 200 {object} map[string]int "Rows whose position changed; rows already in place count 0"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Unknown kind"
// @Failure 409 {object} map[string]string "Conflict"
// @Router /associations/{kind}/order [patch]
func (h *Handler) HandleReorder(c *fiber.Ctx) error {
	useRef := false
	if raw := c.Query("reference"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "reference must be a boolean"})
		}
		useRef = v
	}

	var in ReorderInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body: " + err.Error()})
	}

	n, err := h.service.Reorder(c.Context(), c.Params("kind"), in, useRef)
	if err != nil {
		return h.fail(c, "Reorder failed", err)
	}
	return c.JSON(fiber.Map{"changed": n})
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := statusFor(err)
	l := logger.WithRayID(h.service.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err), zap.Int("status", status))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	var invalid validator.ValidationErrors
	switch {
	case errors.As(err, &invalid):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnknownEntity), errors.Is(err, reconcile.ErrUnknownKind):
		return fiber.StatusNotFound
	case errors.Is(err, reconcile.ErrKeyShape), errors.Is(err, reconcile.ErrNotCrossReferencing):
		return fiber.StatusBadRequest
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fiber.StatusConflict
	case errors.Is(err, reconcile.ErrLockTimeout):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
