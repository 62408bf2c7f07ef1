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

// RatingHandler handles rating submission and retrieval.
type RatingHandler struct {
	service   *service.RatingService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(svc *service.RatingService, v *validator.Validator, logger *zap.Logger) *RatingHandler {
	return &RatingHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Submit handles POST /api/v1/ratings
func (h *RatingHandler) Submit(c *fiber.Ctx) error {
	var req dto.RatingSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	userID := middleware.UserID(c)

	rating, err := h.service.Submit(c.Context(), userID, req.EvaluationID, req.ToAnswers(), req.AsDraft)
	switch {
	case errors.Is(err, service.ErrEvaluationNotFound):
		return notFound(c, "evaluation not found")
	case errors.Is(err, service.ErrEvaluationNotActive):
		return badRequest(c, "evaluation is not accepting submissions", "EVALUATION_INACTIVE")
	case errors.Is(err, service.ErrUnknownCriterion):
		return badRequest(c, err.Error(), "UNKNOWN_CRITERION")
	case errors.Is(err, service.ErrNoAnswers):
		return badRequest(c, "at least one answer is required", "NO_ANSWERS")
	case err != nil:
		h.logger.Error("rating submit failed",
			zap.Uint("user_id", userID),
			zap.Uint("evaluation_id", req.EvaluationID),
			zap.Error(err),
		)

		return internalError(c, "failed to submit rating")
	}

	return c.Status(fiber.StatusCreated).JSON(rating)
}

// Get handles GET /api/v1/ratings/:id
func (h *RatingHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	rating, err := h.service.Get(c.Context(), middleware.UserID(c), id)
	if errors.Is(err, service.ErrRatingNotFound) || errors.Is(err, service.ErrRatingNotOwned) {
		return notFound(c, "rating not found")
	}
	if err != nil {
		return internalError(c, "failed to get rating")
	}

	return c.JSON(rating)
}

// GetForEvaluation handles GET /api/v1/evaluations/:id/rating
func (h *RatingHandler) GetForEvaluation(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	rating, err := h.service.GetForEvaluation(c.Context(), middleware.UserID(c), id)
	if err != nil {
		return internalError(c, "failed to get rating")
	}
	if rating == nil {
		return notFound(c, "rating not found")
	}

	return c.JSON(rating)
}

// ListMine handles GET /api/v1/ratings
func (h *RatingHandler) ListMine(c *fiber.Ctx) error {
	status := domain.RatingStatus(c.Query("status"))

	ratings, err := h.service.ListByUser(c.Context(), middleware.UserID(c), status)
	if err != nil {
		return internalError(c, "failed to list ratings")
	}

	return c.JSON(fiber.Map{"ratings": ratings})
}

// SubmitDraft handles POST /api/v1/ratings/:id/submit
func (h *RatingHandler) SubmitDraft(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	rating, err := h.service.SubmitDraft(c.Context(), middleware.UserID(c), id)
	if errors.Is(err, service.ErrRatingNotFound) || errors.Is(err, service.ErrRatingNotOwned) {
		return notFound(c, "rating not found")
	}
	if err != nil {
		return internalError(c, "failed to submit rating")
	}

	return c.JSON(rating)
}
