package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"qayeem-service/internal/domain"
	"qayeem-service/internal/infra/redis"
)

// bookListCacheTTL bounds staleness of cached catalog pages.
const bookListCacheTTL = 5 * time.Minute

// BookService manages the book catalog.
type BookService struct {
	books   domain.BookRepository
	reviews domain.ReviewRepository
	cache   domain.Cache
	logger  *zap.Logger
}

// NewBookService creates a new BookService. cache may be nil.
func NewBookService(books domain.BookRepository, reviews domain.ReviewRepository, cache domain.Cache, logger *zap.Logger) *BookService {
	return &BookService{
		books:   books,
		reviews: reviews,
		cache:   cache,
		logger:  logger,
	}
}

// bookPage is the cached shape of one catalog listing page.
type bookPage struct {
	Books []*domain.Book `json:"books"`
	Total int64          `json:"total"`
}

// List returns a catalog page, served from cache when possible.
func (s *BookService) List(ctx context.Context, params domain.BookListParams) ([]*domain.Book, int64, error) {
	params.Normalize()

	key := redis.BookListKey(params.Page, params.PageSize, string(params.Status), string(params.BookType), params.CategoryID)
	// Search queries are unbounded input and are never cached.
	cacheable := s.cache != nil && params.Query == ""

	if cacheable {
		if data, err := s.cache.Get(ctx, key); err == nil && data != nil {
			var page bookPage
			if err := json.Unmarshal(data, &page); err == nil {
				return page.Books, page.Total, nil
			}
		}
	}

	books, total, err := s.books.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	if cacheable {
		if data, err := json.Marshal(bookPage{Books: books, Total: total}); err == nil {
			if err := s.cache.Set(ctx, key, data, bookListCacheTTL); err != nil {
				s.logger.Warn("failed to cache book list", zap.String("key", key), zap.Error(err))
			}
		}
	}

	return books, total, nil
}

// Get returns one book by id.
func (s *BookService) Get(ctx context.Context, id uint) (*domain.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	return book, nil
}

// Create persists a new book. Status defaults to DRAFT.
func (s *BookService) Create(ctx context.Context, book *domain.Book) error {
	if book.Status == "" {
		book.Status = domain.BookStatusDraft
	}

	if err := s.books.Create(ctx, book); err != nil {
		return err
	}

	s.logger.Info("book created",
		zap.Uint("book_id", book.ID),
		zap.String("title", book.Title),
	)
	s.invalidateListings(ctx)

	return nil
}

// Update overwrites an existing book.
func (s *BookService) Update(ctx context.Context, book *domain.Book) error {
	err := s.books.Update(ctx, book)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBookNotFound
	}
	if err != nil {
		return err
	}

	s.invalidateListings(ctx)

	return nil
}

// UpdateStatus changes only the publication state of a book.
func (s *BookService) UpdateStatus(ctx context.Context, id uint, status domain.BookStatus) error {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if book == nil {
		return ErrBookNotFound
	}

	book.Status = status
	if err := s.books.Update(ctx, book); err != nil {
		return err
	}

	s.logger.Info("book status updated",
		zap.Uint("book_id", id),
		zap.String("status", string(status)),
	)
	s.invalidateListings(ctx)

	return nil
}

// Delete removes a book.
func (s *BookService) Delete(ctx context.Context, id uint) error {
	if err := s.books.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateListings(ctx)

	return nil
}

// Statistics summarizes the catalog for the admin dashboard.
func (s *BookService) Statistics(ctx context.Context) (*domain.BookStatistics, error) {
	return s.books.Statistics(ctx)
}

// AddReview records a user review. Reviews start unapproved.
func (s *BookService) AddReview(ctx context.Context, review *domain.BookReview) error {
	book, err := s.books.GetByID(ctx, review.BookID)
	if err != nil {
		return err
	}
	if book == nil {
		return ErrBookNotFound
	}

	review.IsApproved = false

	return s.reviews.Create(ctx, review)
}

// ListReviews returns a book's reviews. Non-admin callers see approved
// reviews only.
func (s *BookService) ListReviews(ctx context.Context, bookID uint, approvedOnly bool) ([]*domain.BookReview, error) {
	return s.reviews.ListForBook(ctx, bookID, approvedOnly)
}

// ApproveReview flips a review's moderation state.
func (s *BookService) ApproveReview(ctx context.Context, id uint, approved bool) error {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}

	return s.reviews.SetApproved(ctx, id, approved)
}

// DeleteReview removes a review.
func (s *BookService) DeleteReview(ctx context.Context, id uint) error {
	return s.reviews.Delete(ctx, id)
}

// invalidateListings drops every cached catalog page. Cache failures are
// logged, not propagated; a stale page expires on its own.
func (s *BookService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("failed to invalidate book listings", zap.Error(err))
	}
}

// ErrReviewNotFound is returned for review lookups that find nothing.
var ErrReviewNotFound = errors.New("review not found")
