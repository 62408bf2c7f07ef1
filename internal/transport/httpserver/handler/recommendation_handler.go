package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"qayeem-service/internal/app/service"
	"qayeem-service/internal/transport/httpserver/middleware"
)

// RecommendationHandler serves the personalized catalog.
type RecommendationHandler struct {
	service *service.RecommendationService
	logger  *zap.Logger
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(svc *service.RecommendationService, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		service: svc,
		logger:  logger,
	}
}

// GetCatalog handles GET /api/v1/recommendations
func (h *RecommendationHandler) GetCatalog(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	catalog, err := h.service.GetCatalog(c.Context(), userID)
	if err != nil {
		h.logger.Error("catalog failed", zap.Uint("user_id", userID), zap.Error(err))

		return internalError(c, "failed to build recommendations")
	}

	return c.JSON(catalog)
}

// GetBookMatch handles GET /api/v1/recommendations/books/:id
func (h *RecommendationHandler) GetBookMatch(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	userID := middleware.UserID(c)

	match, err := h.service.GetBookMatch(c.Context(), userID, id)
	if err != nil {
		h.logger.Error("book match failed",
			zap.Uint("user_id", userID),
			zap.Uint("book_id", id),
			zap.Error(err),
		)

		return internalError(c, "failed to compute book match")
	}
	if match == nil {
		return notFound(c, "book not found")
	}

	return c.JSON(match)
}
