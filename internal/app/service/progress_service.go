package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"qayeem-service/internal/domain"
)

// ErrInvalidPages is returned when a progress update carries a negative
// page position.
var ErrInvalidPages = errors.New("pages read cannot be negative")

// ProgressService tracks reading progress per user and book.
type ProgressService struct {
	progress domain.ProgressRepository
	books    domain.BookRepository
	logger   *zap.Logger
}

// NewProgressService creates a new ProgressService.
func NewProgressService(progress domain.ProgressRepository, books domain.BookRepository, logger *zap.Logger) *ProgressService {
	return &ProgressService{
		progress: progress,
		books:    books,
		logger:   logger,
	}
}

// Record updates the user's position in a book, creating the record on
// first report. Reaching the last page marks the book completed.
func (s *ProgressService) Record(ctx context.Context, userID, bookID uint, pagesRead int) (*domain.BookProgress, error) {
	if pagesRead < 0 {
		return nil, ErrInvalidPages
	}

	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	progress := domain.NewBookProgress(userID, book, pagesRead, time.Now().UTC())
	if err := s.progress.Upsert(ctx, progress); err != nil {
		return nil, err
	}

	if progress.CompletedAt != nil {
		s.logger.Info("book completed",
			zap.Uint("user_id", userID),
			zap.Uint("book_id", bookID),
		)
	}

	return progress, nil
}

// Get returns the user's progress in one book, or nil when the user has
// not started it.
func (s *ProgressService) Get(ctx context.Context, userID, bookID uint) (*domain.BookProgress, error) {
	return s.progress.GetByUserAndBook(ctx, userID, bookID)
}

// ListByUser returns the user's progress across all books, most recently
// read first.
func (s *ProgressService) ListByUser(ctx context.Context, userID uint) ([]*domain.BookProgress, error) {
	return s.progress.ListByUser(ctx, userID)
}
