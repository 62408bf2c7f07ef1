package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"qayeem-service/internal/app/service"
	"qayeem-service/internal/domain"
	"qayeem-service/internal/transport/httpserver/dto"
	"qayeem-service/internal/validator"
)

// EvaluationHandler handles questionnaire management.
type EvaluationHandler struct {
	service   *service.EvaluationService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewEvaluationHandler creates a new EvaluationHandler.
func NewEvaluationHandler(svc *service.EvaluationService, v *validator.Validator, logger *zap.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// ListActive handles GET /api/v1/evaluations
func (h *EvaluationHandler) ListActive(c *fiber.Ctx) error {
	evaluations, err := h.service.ListActive(c.Context())
	if err != nil {
		return internalError(c, "failed to list evaluations")
	}

	return c.JSON(fiber.Map{"evaluations": evaluations})
}

// List handles GET /api/v1/admin/evaluations
func (h *EvaluationHandler) List(c *fiber.Ctx) error {
	status := domain.EvaluationStatus(c.Query("status"))

	evaluations, err := h.service.List(c.Context(), status)
	if err != nil {
		return internalError(c, "failed to list evaluations")
	}

	return c.JSON(fiber.Map{"evaluations": evaluations})
}

// Get handles GET /api/v1/evaluations/:id
func (h *EvaluationHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	evaluation, err := h.service.Get(c.Context(), id)
	if errors.Is(err, service.ErrEvaluationNotFound) {
		return notFound(c, "evaluation not found")
	}
	if err != nil {
		return internalError(c, "failed to get evaluation")
	}

	return c.JSON(evaluation)
}

// Create handles POST /api/v1/admin/evaluations
func (h *EvaluationHandler) Create(c *fiber.Ctx) error {
	var req dto.EvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	evaluation := req.ToDomain()
	if err := h.service.Create(c.Context(), evaluation); err != nil {
		h.logger.Error("evaluation create failed", zap.Error(err))

		return internalError(c, "failed to create evaluation")
	}

	return c.Status(fiber.StatusCreated).JSON(evaluation)
}

// Clone handles POST /api/v1/admin/evaluations/:id/clone
func (h *EvaluationHandler) Clone(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	clone, err := h.service.Clone(c.Context(), id)
	if errors.Is(err, service.ErrEvaluationNotFound) {
		return notFound(c, "evaluation not found")
	}
	if err != nil {
		h.logger.Error("evaluation clone failed", zap.Uint("evaluation_id", id), zap.Error(err))

		return internalError(c, "failed to clone evaluation")
	}

	return c.Status(fiber.StatusCreated).JSON(clone)
}

// Update handles PUT /api/v1/admin/evaluations/:id
func (h *EvaluationHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.EvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	evaluation := req.ToDomain()
	evaluation.ID = id
	evaluation.Criteria = nil

	err = h.service.Update(c.Context(), evaluation)
	if errors.Is(err, service.ErrEvaluationNotFound) {
		return notFound(c, "evaluation not found")
	}
	if err != nil {
		return internalError(c, "failed to update evaluation")
	}

	return c.JSON(evaluation)
}

// UpdateStatus handles PATCH /api/v1/admin/evaluations/:id/status
func (h *EvaluationHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	err = h.service.UpdateStatus(c.Context(), id, domain.EvaluationStatus(req.Status))
	if errors.Is(err, service.ErrEvaluationNotFound) {
		return notFound(c, "evaluation not found")
	}
	if err != nil {
		return internalError(c, "failed to update evaluation status")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Delete handles DELETE /api/v1/admin/evaluations/:id
func (h *EvaluationHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	err = h.service.Delete(c.Context(), id)
	if errors.Is(err, service.ErrEvaluationNotFound) {
		return notFound(c, "evaluation not found")
	}
	if err != nil {
		return internalError(c, "failed to delete evaluation")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// AddCriterion handles POST /api/v1/admin/evaluations/:id/criteria
func (h *EvaluationHandler) AddCriterion(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.CriterionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	criterion := req.ToDomain(id)

	err = h.service.AddCriterion(c.Context(), criterion)
	if errors.Is(err, service.ErrEvaluationNotFound) {
		return notFound(c, "evaluation not found")
	}
	if err != nil {
		return internalError(c, "failed to create criterion")
	}

	return c.Status(fiber.StatusCreated).JSON(criterion)
}

// UpdateCriterion handles PUT /api/v1/admin/evaluations/:id/criteria/:criterionID
func (h *EvaluationHandler) UpdateCriterion(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	criterionID, err := paramID(c, "criterionID")
	if err != nil {
		return err
	}

	var req dto.CriterionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	criterion := req.ToDomain(id)
	criterion.ID = criterionID

	if err := h.service.UpdateCriterion(c.Context(), criterion); err != nil {
		return internalError(c, "failed to update criterion")
	}

	return c.JSON(criterion)
}

// DeleteCriterion handles DELETE /api/v1/admin/evaluations/:id/criteria/:criterionID
func (h *EvaluationHandler) DeleteCriterion(c *fiber.Ctx) error {
	criterionID, err := paramID(c, "criterionID")
	if err != nil {
		return err
	}

	if err := h.service.DeleteCriterion(c.Context(), criterionID); err != nil {
		return internalError(c, "failed to delete criterion")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Link handles POST /api/v1/admin/evaluations/:id/links
func (h *EvaluationHandler) Link(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.LinkRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	if (req.BookID == 0) == (req.BookType == "") {
		return badRequest(c, "exactly one of book_id and book_type is required", "INVALID_LINK_TARGET")
	}

	if req.BookID != 0 {
		err = h.service.LinkBook(c.Context(), id, req.BookID, req.IsRequired, req.MinScorePercentage, req.Order)
	} else {
		err = h.service.LinkBookType(c.Context(), id, domain.BookType(req.BookType), req.IsRequired, req.MinScorePercentage, req.Order)
	}
	switch {
	case errors.Is(err, service.ErrEvaluationNotFound):
		return notFound(c, "evaluation not found")
	case errors.Is(err, service.ErrBookNotFound):
		return notFound(c, "book not found")
	case err != nil:
		h.logger.Error("link failed", zap.Uint("evaluation_id", id), zap.Error(err))

		return internalError(c, "failed to link evaluation")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Unlink handles DELETE /api/v1/admin/evaluations/:id/links/books/:bookID
func (h *EvaluationHandler) Unlink(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	bookID, err := paramID(c, "bookID")
	if err != nil {
		return err
	}

	if err := h.service.UnlinkBook(c.Context(), id, bookID); err != nil {
		return internalError(c, "failed to unlink evaluation")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListLinks handles GET /api/v1/admin/evaluations/:id/links
func (h *EvaluationHandler) ListLinks(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	links, err := h.service.ListLinks(c.Context(), id)
	if err != nil {
		return internalError(c, "failed to list links")
	}

	return c.JSON(fiber.Map{"links": links})
}
