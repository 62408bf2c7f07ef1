package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"qayeem-service/internal/domain"
)

// RatingRepository implements domain.RatingRepository using PostgreSQL.
type RatingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new rating repository.
func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func ratingPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Evaluation.Criteria").
		Preload("Items.Criterion")
}

// GetByID retrieves a rating with its items, criteria and evaluation.
func (r *RatingRepository) GetByID(ctx context.Context, id uint) (*domain.Rating, error) {
	var model RatingModel
	err := ratingPreloads(r.db.WithContext(ctx)).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting rating by id: %w", err)
	}

	return model.ToDomain(), nil
}

// GetByEvaluationAndUser retrieves the single rating a user holds for an
// evaluation.
func (r *RatingRepository) GetByEvaluationAndUser(ctx context.Context, evaluationID, userID uint) (*domain.Rating, error) {
	var model RatingModel
	err := ratingPreloads(r.db.WithContext(ctx)).
		Where("evaluation_id = ? AND user_id = ?", evaluationID, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting rating by evaluation and user: %w", err)
	}

	return model.ToDomain(), nil
}

// List returns ratings matching the given filters.
func (r *RatingRepository) List(ctx context.Context, params domain.RatingListParams) ([]*domain.Rating, error) {
	query := ratingPreloads(r.db.WithContext(ctx))
	if params.EvaluationID != 0 {
		query = query.Where("evaluation_id = ?", params.EvaluationID)
	}
	if params.UserID != 0 {
		query = query.Where("user_id = ?", params.UserID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", string(params.Status))
	}

	var models []RatingModel
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing ratings: %w", err)
	}

	ratings := make([]*domain.Rating, len(models))
	for i, m := range models {
		ratings[i] = m.ToDomain()
	}

	return ratings, nil
}

// ListSubmittedByUser returns the user's SUBMITTED ratings with items,
// criteria and owning evaluations. This is the recommendation engine's
// read path.
func (r *RatingRepository) ListSubmittedByUser(ctx context.Context, userID uint) ([]*domain.Rating, error) {
	return r.List(ctx, domain.RatingListParams{
		UserID: userID,
		Status: domain.RatingStatusSubmitted,
	})
}

// ListSubmittedByUserForEvaluations narrows ListSubmittedByUser to a set
// of evaluation ids.
func (r *RatingRepository) ListSubmittedByUserForEvaluations(ctx context.Context, userID uint, evaluationIDs []uint) ([]*domain.Rating, error) {
	if len(evaluationIDs) == 0 {
		return nil, nil
	}

	var models []RatingModel
	err := ratingPreloads(r.db.WithContext(ctx)).
		Where("user_id = ? AND status = ?", userID, string(domain.RatingStatusSubmitted)).
		Where("evaluation_id IN ?", evaluationIDs).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing submitted ratings: %w", err)
	}

	ratings := make([]*domain.Rating, len(models))
	for i, m := range models {
		ratings[i] = m.ToDomain()
	}

	return ratings, nil
}

// Create persists a new rating together with its items.
func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	model := RatingFromDomain(rating)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("creating rating: %w", err)
		}
		for _, item := range rating.Items {
			im := &RatingItemModel{
				RatingID:    model.ID,
				CriterionID: item.CriterionID,
				Score:       item.Score,
				Comment:     item.Comment,
				CommentAr:   item.CommentAr,
			}
			if err := tx.Create(im).Error; err != nil {
				return fmt.Errorf("creating rating item: %w", err)
			}
			item.ID = im.ID
			item.RatingID = model.ID
		}

		return nil
	})
	if err != nil {
		return err
	}

	rating.ID = model.ID
	rating.CreatedAt = model.CreatedAt
	rating.UpdatedAt = model.UpdatedAt

	return nil
}

// ReplaceItems wipes the rating's items and recreates them from the
// domain object, then writes totalScore, status and submittedAt. One
// transaction covers the whole overwrite.
func (r *RatingRepository) ReplaceItems(ctx context.Context, rating *domain.Rating) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rating_id = ?", rating.ID).Delete(&RatingItemModel{}).Error; err != nil {
			return fmt.Errorf("deleting rating items: %w", err)
		}

		for _, item := range rating.Items {
			im := &RatingItemModel{
				RatingID:    rating.ID,
				CriterionID: item.CriterionID,
				Score:       item.Score,
				Comment:     item.Comment,
				CommentAr:   item.CommentAr,
			}
			if err := tx.Create(im).Error; err != nil {
				return fmt.Errorf("creating rating item: %w", err)
			}
			item.ID = im.ID
			item.RatingID = rating.ID
		}

		result := tx.Model(&RatingModel{}).
			Where("id = ?", rating.ID).
			Updates(map[string]any{
				"total_score":  rating.TotalScore,
				"status":       string(rating.Status),
				"submitted_at": rating.SubmittedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("updating rating: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

// UpdateStatus transitions a rating's lifecycle state.
func (r *RatingRepository) UpdateStatus(ctx context.Context, id uint, status domain.RatingStatus, submittedAt *time.Time) error {
	result := r.db.WithContext(ctx).Model(&RatingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       string(status),
			"submitted_at": submittedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("updating rating status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
