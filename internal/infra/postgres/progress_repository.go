package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qayeem-service/internal/domain"
)

// ProgressRepository implements domain.ProgressRepository using PostgreSQL.
type ProgressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a new reading-progress repository.
func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Upsert creates or overwrites the (user, book) progress row.
func (r *ProgressRepository) Upsert(ctx context.Context, progress *domain.BookProgress) error {
	model := ProgressFromDomain(progress)

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"pages_read", "total_pages", "percentage",
			"last_read_at", "completed_at", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("upserting progress: %w", err)
	}

	progress.ID = model.ID
	progress.CreatedAt = model.CreatedAt
	progress.UpdatedAt = model.UpdatedAt

	return nil
}

// GetByUserAndBook retrieves one user's progress in one book.
func (r *ProgressRepository) GetByUserAndBook(ctx context.Context, userID, bookID uint) (*domain.BookProgress, error) {
	var model BookProgressModel
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting progress: %w", err)
	}

	return model.ToDomain(), nil
}

// ListByUser returns every book the user has progress in, most recently
// read first.
func (r *ProgressRepository) ListByUser(ctx context.Context, userID uint) ([]*domain.BookProgress, error) {
	var models []BookProgressModel
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("last_read_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing progress: %w", err)
	}

	progress := make([]*domain.BookProgress, len(models))
	for i, m := range models {
		progress[i] = m.ToDomain()
	}

	return progress, nil
}
