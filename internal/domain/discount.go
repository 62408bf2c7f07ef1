package domain

import (
	"time"
)

// PriceBreakdown is the staged discount computation for one purchase.
// Stages apply in a fixed order, each on the output of the previous, so
// discounts compound multiplicatively rather than additively.
type PriceBreakdown struct {
	OriginalPrice float64 `json:"original_price"`
	FinalAmount   float64 `json:"final_amount"`

	BookDiscountAmount        float64 `json:"book_discount_amount,omitempty"`
	RecommendedDiscountAmount float64 `json:"recommended_discount_amount,omitempty"`
	CouponDiscountAmount      float64 `json:"coupon_discount_amount,omitempty"`
	CouponCode                string  `json:"coupon_code,omitempty"`

	DiscountApplied bool `json:"discount_applied"`
}

// DerivePrice runs the first two discount stages:
//
//  1. A book-level discount, when configured, comes off the original price.
//  2. Otherwise, a recommended book gets the global recommended-book
//     discount. The two are mutually exclusive; a book-level discount
//     always wins, even over a larger recommendation discount.
//
// Monetary outputs are rounded to 2 decimal places.
func DerivePrice(book *Book, isRecommended bool, globalDiscountPct float64) *PriceBreakdown {
	b := &PriceBreakdown{
		OriginalPrice: book.Price,
		FinalAmount:   book.Price,
	}

	switch {
	case book.DiscountPercentage > 0:
		b.BookDiscountAmount = roundTo2Decimals(b.FinalAmount * book.DiscountPercentage / 100)
		b.FinalAmount = roundTo2Decimals(b.FinalAmount - b.BookDiscountAmount)
		b.DiscountApplied = true
	case isRecommended && globalDiscountPct > 0:
		b.RecommendedDiscountAmount = roundTo2Decimals(b.FinalAmount * globalDiscountPct / 100)
		b.FinalAmount = roundTo2Decimals(b.FinalAmount - b.RecommendedDiscountAmount)
		b.DiscountApplied = true
	}

	return b
}

// ApplyCoupon runs the coupon stage on the running amount. An invalid
// coupon is a no-op and returns the validation error so the caller can
// log it; payment creation never fails because of a bad coupon. The
// running amount is floored at zero.
func (b *PriceBreakdown) ApplyCoupon(coupon *DiscountCoupon, userID uint, now time.Time) error {
	if err := coupon.Validate(userID, b.FinalAmount, now); err != nil {
		return err
	}

	discount := coupon.DiscountFor(b.FinalAmount)
	if discount > b.FinalAmount {
		discount = b.FinalAmount
	}

	b.CouponDiscountAmount = roundTo2Decimals(discount)
	b.CouponCode = coupon.Code
	b.FinalAmount = roundTo2Decimals(b.FinalAmount - discount)
	b.DiscountApplied = true
	return nil
}

// TotalDiscount returns the sum of every applied discount stage.
func (b *PriceBreakdown) TotalDiscount() float64 {
	return roundTo2Decimals(b.BookDiscountAmount + b.RecommendedDiscountAmount + b.CouponDiscountAmount)
}
