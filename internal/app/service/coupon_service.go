package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"qayeem-service/internal/domain"
)

// CouponService manages discount coupons for administrators. Redemption
// happens inside the payment flow, not here.
type CouponService struct {
	coupons domain.CouponRepository
	logger  *zap.Logger
}

// NewCouponService creates a new CouponService.
func NewCouponService(coupons domain.CouponRepository, logger *zap.Logger) *CouponService {
	return &CouponService{coupons: coupons, logger: logger}
}

// Get returns one coupon by id.
func (s *CouponService) Get(ctx context.Context, id uint) (*domain.DiscountCoupon, error) {
	coupon, err := s.coupons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	return coupon, nil
}

// List returns coupons, optionally limited to active ones.
func (s *CouponService) List(ctx context.Context, activeOnly bool) ([]*domain.DiscountCoupon, error) {
	return s.coupons.List(ctx, activeOnly)
}

// Create persists a coupon. Codes are stored uppercase so lookups are
// case-insensitive.
func (s *CouponService) Create(ctx context.Context, coupon *domain.DiscountCoupon) error {
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	if coupon.ValidFrom.IsZero() {
		coupon.ValidFrom = time.Now().UTC()
	}

	if err := s.coupons.Create(ctx, coupon); err != nil {
		return err
	}

	s.logger.Info("coupon created",
		zap.Uint("coupon_id", coupon.ID),
		zap.String("code", coupon.Code),
		zap.String("type", string(coupon.DiscountType)),
	)

	return nil
}

// Update overwrites a coupon. The used count is managed by redemption and
// is never written here.
func (s *CouponService) Update(ctx context.Context, coupon *domain.DiscountCoupon) error {
	existing, err := s.coupons.GetByID(ctx, coupon.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCouponNotFound
	}

	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))

	return s.coupons.Update(ctx, coupon)
}

// Delete removes a coupon.
func (s *CouponService) Delete(ctx context.Context, id uint) error {
	existing, err := s.coupons.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCouponNotFound
	}

	return s.coupons.Delete(ctx, id)
}

// DeactivateExpired sweeps coupons whose validity window has closed.
// Returns the number deactivated.
func (s *CouponService) DeactivateExpired(ctx context.Context) (int64, error) {
	count, err := s.coupons.DeactivateExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Info("expired coupons deactivated", zap.Int64("count", count))
	}

	return count, nil
}
