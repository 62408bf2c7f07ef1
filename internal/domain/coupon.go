package domain

import (
	"errors"
	"fmt"
	"time"
)

// DiscountType determines how a coupon's discount value is interpreted.
type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "PERCENTAGE"
	DiscountTypeFixedAmount DiscountType = "FIXED_AMOUNT"
)

// Coupon validation failures. Payment creation treats all of these as a
// recoverable no-op (the purchase proceeds without the coupon); the
// standalone validation endpoint surfaces them to the caller.
var (
	ErrCouponInactive    = errors.New("coupon is not active")
	ErrCouponNotYetValid = errors.New("coupon is not yet valid")
	ErrCouponExpired     = errors.New("coupon has expired")
	ErrCouponExhausted   = errors.New("coupon usage limit reached")
	ErrCouponWrongUser   = errors.New("coupon is not available for this account")
	ErrCouponMinPurchase = errors.New("purchase amount below coupon minimum")
)

// DiscountCoupon is a redeemable discount code. UserID, when set,
// restricts redemption to one account. UsageLimit of zero means
// unlimited; UsedCount is incremented atomically at the storage boundary
// on successful redemption.
type DiscountCoupon struct {
	ID            uint         `json:"id"`
	Code          string       `json:"code"`
	Description   string       `json:"description,omitempty"`
	DescriptionAr string       `json:"description_ar,omitempty"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`

	MaxDiscountAmount float64 `json:"max_discount_amount,omitempty"` // cap for percentage coupons, 0 = no cap
	MinPurchaseAmount float64 `json:"min_purchase_amount,omitempty"`

	UsageLimit int  `json:"usage_limit,omitempty"` // 0 = unlimited
	UsedCount  int  `json:"used_count"`
	UserID     uint `json:"user_id,omitempty"` // 0 = any user

	IsActive   bool       `json:"is_active"`
	ValidFrom  time.Time  `json:"valid_from"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks whether the coupon can be redeemed by userID against the
// given running amount at the given instant. Returns the first failed
// condition in the order the checks have always run.
func (c *DiscountCoupon) Validate(userID uint, amount float64, now time.Time) error {
	if !c.IsActive {
		return ErrCouponInactive
	}
	if c.ValidFrom.After(now) {
		return ErrCouponNotYetValid
	}
	if c.ValidUntil != nil && c.ValidUntil.Before(now) {
		return ErrCouponExpired
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return ErrCouponExhausted
	}
	if c.UserID != 0 && c.UserID != userID {
		return ErrCouponWrongUser
	}
	if c.MinPurchaseAmount > 0 && amount < c.MinPurchaseAmount {
		return fmt.Errorf("%w: minimum %.2f required", ErrCouponMinPurchase, c.MinPurchaseAmount)
	}
	return nil
}

// DiscountFor returns the discount the coupon grants on the given running
// amount: a percentage capped by MaxDiscountAmount when set, or the fixed
// value. The caller floors the resulting amount at zero.
func (c *DiscountCoupon) DiscountFor(amount float64) float64 {
	if c.DiscountType == DiscountTypePercentage {
		discount := amount * c.DiscountValue / 100
		if c.MaxDiscountAmount > 0 && discount > c.MaxDiscountAmount {
			discount = c.MaxDiscountAmount
		}
		return discount
	}
	return c.DiscountValue
}

// IsExpired reports whether the coupon's validity window has closed.
func (c *DiscountCoupon) IsExpired(now time.Time) bool {
	return c.ValidUntil != nil && c.ValidUntil.Before(now)
}
