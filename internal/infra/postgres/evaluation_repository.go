package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"qayeem-service/internal/domain"
)

// EvaluationRepository implements domain.EvaluationRepository using PostgreSQL.
type EvaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository creates a new evaluation repository.
func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// GetByID retrieves an evaluation with its ordered criteria.
func (r *EvaluationRepository) GetByID(ctx context.Context, id uint) (*domain.Evaluation, error) {
	var model EvaluationModel
	err := r.db.WithContext(ctx).
		Preload("Criteria", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting evaluation by id: %w", err)
	}

	return model.ToDomain(), nil
}

// List returns evaluations, optionally filtered by status, with criteria.
func (r *EvaluationRepository) List(ctx context.Context, status domain.EvaluationStatus) ([]*domain.Evaluation, error) {
	query := r.db.WithContext(ctx).
		Preload("Criteria", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		})
	if status != "" {
		query = query.Where("status = ?", string(status))
	}

	var models []EvaluationModel
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing evaluations: %w", err)
	}

	evaluations := make([]*domain.Evaluation, len(models))
	for i, m := range models {
		evaluations[i] = m.ToDomain()
	}

	return evaluations, nil
}

// Create persists a new evaluation together with its criteria.
func (r *EvaluationRepository) Create(ctx context.Context, evaluation *domain.Evaluation) error {
	model := EvaluationFromDomain(evaluation)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("creating evaluation: %w", err)
		}
		for _, c := range evaluation.Criteria {
			cm := CriterionFromDomain(c)
			cm.EvaluationID = model.ID
			if err := tx.Create(cm).Error; err != nil {
				return fmt.Errorf("creating criterion: %w", err)
			}
			c.ID = cm.ID
			c.EvaluationID = model.ID
		}

		return nil
	})
	if err != nil {
		return err
	}

	evaluation.ID = model.ID
	evaluation.CreatedAt = model.CreatedAt
	evaluation.UpdatedAt = model.UpdatedAt

	return nil
}

// Update persists changes to an evaluation's own fields. Criteria are
// managed through the criterion operations.
func (r *EvaluationRepository) Update(ctx context.Context, evaluation *domain.Evaluation) error {
	model := EvaluationFromDomain(evaluation)
	result := r.db.WithContext(ctx).Model(&EvaluationModel{}).
		Where("id = ?", evaluation.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("updating evaluation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// UpdateStatus transitions an evaluation's lifecycle state.
func (r *EvaluationRepository) UpdateStatus(ctx context.Context, id uint, status domain.EvaluationStatus) error {
	result := r.db.WithContext(ctx).Model(&EvaluationModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return fmt.Errorf("updating evaluation status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Delete removes an evaluation and its criteria.
func (r *EvaluationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("evaluation_id = ?", id).Delete(&CriterionModel{}).Error; err != nil {
			return fmt.Errorf("deleting criteria: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&EvaluationModel{})
		if result.Error != nil {
			return fmt.Errorf("deleting evaluation: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

// CreateCriterion persists a new criterion.
func (r *EvaluationRepository) CreateCriterion(ctx context.Context, criterion *domain.Criterion) error {
	model := CriterionFromDomain(criterion)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("creating criterion: %w", err)
	}

	criterion.ID = model.ID

	return nil
}

// UpdateCriterion persists changes to an existing criterion.
func (r *EvaluationRepository) UpdateCriterion(ctx context.Context, criterion *domain.Criterion) error {
	model := CriterionFromDomain(criterion)
	result := r.db.WithContext(ctx).Model(&CriterionModel{}).
		Where("id = ?", criterion.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("updating criterion: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// DeleteCriterion removes a criterion by id.
func (r *EvaluationRepository) DeleteCriterion(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&CriterionModel{})
	if result.Error != nil {
		return fmt.Errorf("deleting criterion: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
