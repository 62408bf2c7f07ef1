package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"qayeem-service/internal/app/service"
	"qayeem-service/internal/domain"
	"qayeem-service/internal/transport/httpserver/dto"
	"qayeem-service/internal/transport/httpserver/middleware"
	"qayeem-service/internal/validator"
)

// PaymentHandler handles purchase HTTP requests.
type PaymentHandler struct {
	service   *service.PaymentService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc *service.PaymentService, v *validator.Validator, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Create handles POST /api/v1/payments
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var req dto.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	userID := middleware.UserID(c)

	payment, err := h.service.Create(c.Context(), service.PaymentRequest{
		UserID:     userID,
		BookID:     req.BookID,
		Method:     req.Method,
		Currency:   req.Currency,
		CouponCode: req.CouponCode,
	})
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		return notFound(c, "book not found")
	case errors.Is(err, service.ErrBookNotActive):
		return badRequest(c, "book is not available for purchase", "BOOK_NOT_ACTIVE")
	case err != nil:
		h.logger.Error("payment create failed",
			zap.Uint("user_id", userID),
			zap.Uint("book_id", req.BookID),
			zap.Error(err),
		)

		return internalError(c, "failed to create payment")
	}

	return c.Status(fiber.StatusCreated).JSON(payment)
}

// Get handles GET /api/v1/payments/:id
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	payment, err := h.service.Get(c.Context(), middleware.UserID(c), id)
	if errors.Is(err, service.ErrPaymentNotFound) {
		return notFound(c, "payment not found")
	}
	if err != nil {
		return internalError(c, "failed to get payment")
	}

	return c.JSON(payment)
}

// List handles GET /api/v1/payments
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	var req dto.PaymentListRequest
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, "invalid query parameters", "INVALID_PARAMS")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	params := req.ToListParams()
	params.Normalize()

	payments, total, err := h.service.ListByUser(c.Context(), middleware.UserID(c), params)
	if err != nil {
		return internalError(c, "failed to list payments")
	}

	return c.JSON(dto.PaymentListResponse{
		Payments:   payments,
		Pagination: dto.NewPaginationMeta(total, params.Page, params.PageSize),
	})
}

// UpdateStatus handles PATCH /api/v1/admin/payments/:id/status
func (h *PaymentHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.PaymentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	payment, err := h.service.UpdateStatus(c.Context(), id, domain.PaymentStatus(req.Status), req.Notes, req.NotesAr)
	if err != nil {
		h.logger.Error("payment status update failed", zap.Uint("payment_id", id), zap.Error(err))

		return internalError(c, "failed to update payment status")
	}
	if payment == nil {
		return notFound(c, "payment not found")
	}

	return c.JSON(payment)
}

// ValidateCoupon handles POST /api/v1/coupons/validate
func (h *PaymentHandler) ValidateCoupon(c *fiber.Ctx) error {
	var req dto.CouponValidateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	coupon, discount, err := h.service.ValidateCoupon(c.Context(), req.Code, middleware.UserID(c), req.Amount)
	if errors.Is(err, service.ErrCouponNotFound) {
		return notFound(c, "coupon not found")
	}
	if err != nil {
		// Validation failures are part of the contract, not server errors.
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "COUPON_INVALID",
		})
	}

	return c.JSON(dto.CouponValidationResponse{
		Valid:          true,
		Code:           coupon.Code,
		DiscountAmount: discount,
		FinalAmount:    req.Amount - discount,
	})
}
