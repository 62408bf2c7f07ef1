package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"qayeem-service/internal/app/service"
	"qayeem-service/internal/transport/httpserver/dto"
	"qayeem-service/internal/validator"
)

// SettingHandler handles operator settings administration.
type SettingHandler struct {
	service   *service.SettingService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(svc *service.SettingService, v *validator.Validator, logger *zap.Logger) *SettingHandler {
	return &SettingHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// List handles GET /api/v1/admin/settings
func (h *SettingHandler) List(c *fiber.Ctx) error {
	settings, err := h.service.List(c.Context())
	if err != nil {
		return internalError(c, "failed to list settings")
	}

	return c.JSON(fiber.Map{"settings": settings})
}

// Get handles GET /api/v1/admin/settings/:key
func (h *SettingHandler) Get(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return badRequest(c, "key is required", "MISSING_KEY")
	}

	setting, err := h.service.Get(c.Context(), key)
	if errors.Is(err, service.ErrSettingNotFound) {
		return notFound(c, "setting not found")
	}
	if err != nil {
		return internalError(c, "failed to get setting")
	}

	return c.JSON(setting)
}

// Upsert handles PUT /api/v1/admin/settings
func (h *SettingHandler) Upsert(c *fiber.Ctx) error {
	var req dto.SettingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	setting := req.ToDomain()
	if err := h.service.Upsert(c.Context(), setting); err != nil {
		h.logger.Error("setting upsert failed", zap.String("key", req.Key), zap.Error(err))

		return internalError(c, "failed to save setting")
	}

	return c.JSON(setting)
}

// Delete handles DELETE /api/v1/admin/settings/:id
func (h *SettingHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return internalError(c, "failed to delete setting")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
