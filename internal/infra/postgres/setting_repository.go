package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qayeem-service/internal/domain"
)

// SettingRepository implements domain.SettingRepository using PostgreSQL.
// Reads go straight to the table so an operator edit is visible on the
// next request.
type SettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository.
func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get returns the raw value for key, or "" when the key is absent.
func (r *SettingRepository) Get(ctx context.Context, key string) (string, error) {
	var model SettingModel
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}

		return "", fmt.Errorf("getting setting: %w", err)
	}

	return model.Value, nil
}

// List returns every setting, ordered by key.
func (r *SettingRepository) List(ctx context.Context) ([]*domain.Setting, error) {
	var models []SettingModel
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}

	settings := make([]*domain.Setting, len(models))
	for i, m := range models {
		settings[i] = m.ToDomain()
	}

	return settings, nil
}

// GetByKey retrieves a full setting record by key.
func (r *SettingRepository) GetByKey(ctx context.Context, key string) (*domain.Setting, error) {
	var model SettingModel
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting setting by key: %w", err)
	}

	return model.ToDomain(), nil
}

// Upsert creates or updates a setting by key.
func (r *SettingRepository) Upsert(ctx context.Context, setting *domain.Setting) error {
	model := SettingFromDomain(setting)

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"value", "value_ar", "description", "description_ar", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("upserting setting: %w", err)
	}

	setting.ID = model.ID
	setting.CreatedAt = model.CreatedAt
	setting.UpdatedAt = model.UpdatedAt

	return nil
}

// Delete removes a setting by id.
func (r *SettingRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&SettingModel{})
	if result.Error != nil {
		return fmt.Errorf("deleting setting: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
