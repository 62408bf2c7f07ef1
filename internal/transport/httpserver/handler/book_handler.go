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

// BookHandler handles catalog and review HTTP requests.
type BookHandler struct {
	service   *service.BookService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(svc *service.BookService, v *validator.Validator, logger *zap.Logger) *BookHandler {
	return &BookHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// List handles GET /api/v1/books
func (h *BookHandler) List(c *fiber.Ctx) error {
	var req dto.BookListRequest
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, "invalid query parameters", "INVALID_PARAMS")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	params := req.ToListParams()
	params.Normalize()

	books, total, err := h.service.List(c.Context(), params)
	if err != nil {
		h.logger.Error("book list failed", zap.Error(err))

		return internalError(c, "failed to list books")
	}

	return c.JSON(dto.BookListResponse{
		Books:      books,
		Pagination: dto.NewPaginationMeta(total, params.Page, params.PageSize),
	})
}

// Get handles GET /api/v1/books/:id
func (h *BookHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	book, err := h.service.Get(c.Context(), id)
	if errors.Is(err, service.ErrBookNotFound) {
		return notFound(c, "book not found")
	}
	if err != nil {
		h.logger.Error("book get failed", zap.Uint("book_id", id), zap.Error(err))

		return internalError(c, "failed to get book")
	}

	return c.JSON(book)
}

// Create handles POST /api/v1/admin/books
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var req dto.BookRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	book := req.ToDomain()
	if err := h.service.Create(c.Context(), book); err != nil {
		h.logger.Error("book create failed", zap.Error(err))

		return internalError(c, "failed to create book")
	}

	return c.Status(fiber.StatusCreated).JSON(book)
}

// Update handles PUT /api/v1/admin/books/:id
func (h *BookHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.BookRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	book := req.ToDomain()
	book.ID = id

	err = h.service.Update(c.Context(), book)
	if errors.Is(err, service.ErrBookNotFound) {
		return notFound(c, "book not found")
	}
	if err != nil {
		h.logger.Error("book update failed", zap.Uint("book_id", id), zap.Error(err))

		return internalError(c, "failed to update book")
	}

	return c.JSON(book)
}

// UpdateStatus handles PATCH /api/v1/admin/books/:id/status
func (h *BookHandler) UpdateStatus(c *fiber.Ctx) error {
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

	err = h.service.UpdateStatus(c.Context(), id, domain.BookStatus(req.Status))
	if errors.Is(err, service.ErrBookNotFound) {
		return notFound(c, "book not found")
	}
	if err != nil {
		return internalError(c, "failed to update book status")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Delete handles DELETE /api/v1/admin/books/:id
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		h.logger.Error("book delete failed", zap.Uint("book_id", id), zap.Error(err))

		return internalError(c, "failed to delete book")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Statistics handles GET /api/v1/admin/books/statistics
func (h *BookHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.service.Statistics(c.Context())
	if err != nil {
		h.logger.Error("book statistics failed", zap.Error(err))

		return internalError(c, "failed to compute statistics")
	}

	return c.JSON(stats)
}

// AddReview handles POST /api/v1/books/:id/reviews
func (h *BookHandler) AddReview(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	review := &domain.BookReview{
		BookID:    id,
		UserID:    middleware.UserID(c),
		Rating:    req.Rating,
		Comment:   req.Comment,
		CommentAr: req.CommentAr,
	}

	err = h.service.AddReview(c.Context(), review)
	if errors.Is(err, service.ErrBookNotFound) {
		return notFound(c, "book not found")
	}
	if err != nil {
		h.logger.Error("review create failed", zap.Uint("book_id", id), zap.Error(err))

		return internalError(c, "failed to create review")
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}

// ListReviews handles GET /api/v1/books/:id/reviews
func (h *BookHandler) ListReviews(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	reviews, err := h.service.ListReviews(c.Context(), id, true)
	if err != nil {
		return internalError(c, "failed to list reviews")
	}

	return c.JSON(fiber.Map{"reviews": reviews})
}

// ApproveReview handles PATCH /api/v1/admin/reviews/:id/approval
func (h *BookHandler) ApproveReview(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}

	err = h.service.ApproveReview(c.Context(), id, req.Approved)
	if errors.Is(err, service.ErrReviewNotFound) {
		return notFound(c, "review not found")
	}
	if err != nil {
		return internalError(c, "failed to update review")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteReview handles DELETE /api/v1/admin/reviews/:id
func (h *BookHandler) DeleteReview(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteReview(c.Context(), id); err != nil {
		return internalError(c, "failed to delete review")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
