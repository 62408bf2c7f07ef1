package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"qayeem-service/internal/app/service"
	"qayeem-service/internal/transport/httpserver/dto"
	"qayeem-service/internal/validator"
)

// CouponHandler handles coupon administration.
type CouponHandler struct {
	service   *service.CouponService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(svc *service.CouponService, v *validator.Validator, logger *zap.Logger) *CouponHandler {
	return &CouponHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// List handles GET /api/v1/admin/coupons
func (h *CouponHandler) List(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active_only")

	coupons, err := h.service.List(c.Context(), activeOnly)
	if err != nil {
		return internalError(c, "failed to list coupons")
	}

	return c.JSON(fiber.Map{"coupons": coupons})
}

// Get handles GET /api/v1/admin/coupons/:id
func (h *CouponHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	coupon, err := h.service.Get(c.Context(), id)
	if errors.Is(err, service.ErrCouponNotFound) {
		return notFound(c, "coupon not found")
	}
	if err != nil {
		return internalError(c, "failed to get coupon")
	}

	return c.JSON(coupon)
}

// Create handles POST /api/v1/admin/coupons
func (h *CouponHandler) Create(c *fiber.Ctx) error {
	var req dto.CouponRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	coupon := req.ToDomain()
	if err := h.service.Create(c.Context(), coupon); err != nil {
		h.logger.Error("coupon create failed", zap.String("code", req.Code), zap.Error(err))

		return internalError(c, "failed to create coupon")
	}

	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// Update handles PUT /api/v1/admin/coupons/:id
func (h *CouponHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.CouponRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	coupon := req.ToDomain()
	coupon.ID = id

	err = h.service.Update(c.Context(), coupon)
	if errors.Is(err, service.ErrCouponNotFound) {
		return notFound(c, "coupon not found")
	}
	if err != nil {
		return internalError(c, "failed to update coupon")
	}

	return c.JSON(coupon)
}

// Delete handles DELETE /api/v1/admin/coupons/:id
func (h *CouponHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	err = h.service.Delete(c.Context(), id)
	if errors.Is(err, service.ErrCouponNotFound) {
		return notFound(c, "coupon not found")
	}
	if err != nil {
		return internalError(c, "failed to delete coupon")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
