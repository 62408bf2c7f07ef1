package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"qayeem-service/internal/app/service"
	"qayeem-service/internal/transport/httpserver/dto"
	"qayeem-service/internal/transport/httpserver/middleware"
	"qayeem-service/internal/validator"
)

// ProgressHandler handles reading progress HTTP requests.
type ProgressHandler struct {
	service   *service.ProgressService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(svc *service.ProgressService, v *validator.Validator, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Record handles PUT /api/v1/progress
func (h *ProgressHandler) Record(c *fiber.Ctx) error {
	var req dto.ProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	userID := middleware.UserID(c)

	progress, err := h.service.Record(c.Context(), userID, req.BookID, req.PagesRead)
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		return notFound(c, "book not found")
	case errors.Is(err, service.ErrInvalidPages):
		return badRequest(c, "pages read cannot be negative", "INVALID_PAGES")
	case err != nil:
		h.logger.Error("progress update failed",
			zap.Uint("user_id", userID),
			zap.Uint("book_id", req.BookID),
			zap.Error(err),
		)

		return internalError(c, "failed to record progress")
	}

	return c.JSON(progress)
}

// Get handles GET /api/v1/progress/books/:id
func (h *ProgressHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	progress, err := h.service.Get(c.Context(), middleware.UserID(c), id)
	if err != nil {
		return internalError(c, "failed to get progress")
	}
	if progress == nil {
		return notFound(c, "no progress recorded for this book")
	}

	return c.JSON(progress)
}

// ListMine handles GET /api/v1/progress
func (h *ProgressHandler) ListMine(c *fiber.Ctx) error {
	progress, err := h.service.ListByUser(c.Context(), middleware.UserID(c))
	if err != nil {
		return internalError(c, "failed to list progress")
	}

	return c.JSON(fiber.Map{"progress": progress})
}
