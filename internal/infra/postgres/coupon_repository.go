package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"qayeem-service/internal/domain"
)

// CouponRepository implements domain.CouponRepository using PostgreSQL.
type CouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository creates a new coupon repository.
func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// GetByCode retrieves a coupon by its redemption code.
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.DiscountCoupon, error) {
	var model DiscountCouponModel
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting coupon by code: %w", err)
	}

	return model.ToDomain(), nil
}

// GetByID retrieves a coupon by id.
func (r *CouponRepository) GetByID(ctx context.Context, id uint) (*domain.DiscountCoupon, error) {
	var model DiscountCouponModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting coupon by id: %w", err)
	}

	return model.ToDomain(), nil
}

// List returns coupons, newest first.
func (r *CouponRepository) List(ctx context.Context, activeOnly bool) ([]*domain.DiscountCoupon, error) {
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var models []DiscountCouponModel
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing coupons: %w", err)
	}

	coupons := make([]*domain.DiscountCoupon, len(models))
	for i, m := range models {
		coupons[i] = m.ToDomain()
	}

	return coupons, nil
}

// Create persists a new coupon.
func (r *CouponRepository) Create(ctx context.Context, coupon *domain.DiscountCoupon) error {
	model := CouponFromDomain(coupon)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("creating coupon: %w", err)
	}

	coupon.ID = model.ID
	coupon.CreatedAt = model.CreatedAt
	coupon.UpdatedAt = model.UpdatedAt

	return nil
}

// Update persists changes to an existing coupon.
func (r *CouponRepository) Update(ctx context.Context, coupon *domain.DiscountCoupon) error {
	model := CouponFromDomain(coupon)
	result := r.db.WithContext(ctx).Model(&DiscountCouponModel{}).
		Where("id = ?", coupon.ID).
		Select("*").
		Omit("id", "created_at", "used_count").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("updating coupon: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Delete removes a coupon by id.
func (r *CouponRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&DiscountCouponModel{})
	if result.Error != nil {
		return fmt.Errorf("deleting coupon: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Redeem increments used_count only while the usage limit holds, in one
// conditional UPDATE. Two concurrent redemptions of a coupon with one
// use left race on the WHERE clause and exactly one sees RowsAffected=1.
func (r *CouponRepository) Redeem(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE discount_coupons
		 SET used_count = used_count + 1, updated_at = NOW()
		 WHERE id = ? AND (usage_limit = 0 OR used_count < usage_limit)`,
		id,
	)
	if result.Error != nil {
		return false, fmt.Errorf("redeeming coupon: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// DeactivateExpired flags every active coupon whose validity window has
// closed and returns how many were touched.
func (r *CouponRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&DiscountCouponModel{}).
		Where("is_active = ?", true).
		Where("valid_until IS NOT NULL AND valid_until < ?", now).
		Update("is_active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("deactivating expired coupons: %w", result.Error)
	}

	return result.RowsAffected, nil
}
