package domain

import (
	"errors"
	"testing"
	"time"
)

func activeCoupon(mod func(*DiscountCoupon)) *DiscountCoupon {
	c := &DiscountCoupon{
		ID:            1,
		Code:          "SAVE10",
		DiscountType:  DiscountTypePercentage,
		DiscountValue: 10,
		IsActive:      true,
		ValidFrom:     time.Now().Add(-24 * time.Hour),
	}
	if mod != nil {
		mod(c)
	}
	return c
}

func TestDerivePrice(t *testing.T) {
	tests := []struct {
		name          string
		book          *Book
		isRecommended bool
		globalPct     float64
		wantFinal     float64
		wantBook      float64
		wantRec       float64
	}{
		{
			name:      "no discounts",
			book:      &Book{Price: 100},
			wantFinal: 100,
		},
		{
			name:          "recommended book with global discount",
			book:          &Book{Price: 100},
			isRecommended: true,
			globalPct:     10,
			wantFinal:     90,
			wantRec:       10,
		},
		{
			// book discount wins and the global one must not stack on top
			name:          "book discount excludes recommendation discount",
			book:          &Book{Price: 100, DiscountPercentage: 15},
			isRecommended: true,
			globalPct:     10,
			wantFinal:     85,
			wantBook:      15,
		},
		{
			name:      "book discount without recommendation",
			book:      &Book{Price: 80, DiscountPercentage: 25},
			wantFinal: 60,
			wantBook:  20,
		},
		{
			name:      "global discount ignored when not recommended",
			book:      &Book{Price: 100},
			globalPct: 10,
			wantFinal: 100,
		},
		{
			name:          "fractional price rounds to cents",
			book:          &Book{Price: 33.33},
			isRecommended: true,
			globalPct:     10,
			wantFinal:     30, // 33.33 - 3.33
			wantRec:       3.33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := DerivePrice(tt.book, tt.isRecommended, tt.globalPct)
			if b.FinalAmount != tt.wantFinal {
				t.Errorf("FinalAmount = %v, want %v", b.FinalAmount, tt.wantFinal)
			}
			if b.BookDiscountAmount != tt.wantBook {
				t.Errorf("BookDiscountAmount = %v, want %v", b.BookDiscountAmount, tt.wantBook)
			}
			if b.RecommendedDiscountAmount != tt.wantRec {
				t.Errorf("RecommendedDiscountAmount = %v, want %v", b.RecommendedDiscountAmount, tt.wantRec)
			}
			wantApplied := tt.wantBook > 0 || tt.wantRec > 0
			if b.DiscountApplied != wantApplied {
				t.Errorf("DiscountApplied = %v, want %v", b.DiscountApplied, wantApplied)
			}
		})
	}
}

func TestApplyCoupon_PercentageWithCap(t *testing.T) {
	coupon := activeCoupon(func(c *DiscountCoupon) {
		c.DiscountValue = 50
		c.MaxDiscountAmount = 20
	})

	b := DerivePrice(&Book{Price: 100}, false, 0)
	if err := b.ApplyCoupon(coupon, 1, time.Now()); err != nil {
		t.Fatalf("ApplyCoupon() error = %v", err)
	}

	// 50% of 100 is 50, capped at 20
	if b.CouponDiscountAmount != 20 {
		t.Errorf("CouponDiscountAmount = %v, want 20", b.CouponDiscountAmount)
	}
	if b.FinalAmount != 80 {
		t.Errorf("FinalAmount = %v, want 80", b.FinalAmount)
	}
	if b.CouponCode != "SAVE10" {
		t.Errorf("CouponCode = %q, want SAVE10", b.CouponCode)
	}
}

func TestApplyCoupon_FixedAmount(t *testing.T) {
	coupon := activeCoupon(func(c *DiscountCoupon) {
		c.DiscountType = DiscountTypeFixedAmount
		c.DiscountValue = 30
	})

	b := DerivePrice(&Book{Price: 100}, false, 0)
	if err := b.ApplyCoupon(coupon, 1, time.Now()); err != nil {
		t.Fatalf("ApplyCoupon() error = %v", err)
	}
	if b.FinalAmount != 70 {
		t.Errorf("FinalAmount = %v, want 70", b.FinalAmount)
	}
}

func TestApplyCoupon_FlooredAtZero(t *testing.T) {
	coupon := activeCoupon(func(c *DiscountCoupon) {
		c.DiscountType = DiscountTypeFixedAmount
		c.DiscountValue = 500
	})

	b := DerivePrice(&Book{Price: 40}, false, 0)
	if err := b.ApplyCoupon(coupon, 1, time.Now()); err != nil {
		t.Fatalf("ApplyCoupon() error = %v", err)
	}
	if b.FinalAmount != 0 {
		t.Errorf("FinalAmount = %v, want 0", b.FinalAmount)
	}
	if b.CouponDiscountAmount != 40 {
		t.Errorf("CouponDiscountAmount = %v, want 40 (clamped to running amount)", b.CouponDiscountAmount)
	}
}

func TestApplyCoupon_InvalidLeavesBreakdownUntouched(t *testing.T) {
	coupon := activeCoupon(func(c *DiscountCoupon) {
		c.IsActive = false
	})

	b := DerivePrice(&Book{Price: 100}, false, 0)
	err := b.ApplyCoupon(coupon, 1, time.Now())
	if !errors.Is(err, ErrCouponInactive) {
		t.Fatalf("ApplyCoupon() error = %v, want ErrCouponInactive", err)
	}
	if b.FinalAmount != 100 || b.CouponDiscountAmount != 0 || b.CouponCode != "" {
		t.Errorf("breakdown modified by invalid coupon: %+v", b)
	}
}

// Coupon applies after the recommendation discount, on the reduced amount.
func TestDiscountStagesCompound(t *testing.T) {
	coupon := activeCoupon(nil) // 10% percentage

	b := DerivePrice(&Book{Price: 100}, true, 10)
	if err := b.ApplyCoupon(coupon, 1, time.Now()); err != nil {
		t.Fatalf("ApplyCoupon() error = %v", err)
	}

	// 100 -> 90 -> 81
	if b.FinalAmount != 81 {
		t.Errorf("FinalAmount = %v, want 81", b.FinalAmount)
	}
	if b.CouponDiscountAmount != 9 {
		t.Errorf("CouponDiscountAmount = %v, want 9", b.CouponDiscountAmount)
	}
	if b.TotalDiscount() != 19 {
		t.Errorf("TotalDiscount() = %v, want 19", b.TotalDiscount())
	}
}

func TestCouponValidate(t *testing.T) {
	now := time.Now()
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	tests := []struct {
		name    string
		mod     func(*DiscountCoupon)
		userID  uint
		amount  float64
		wantErr error
	}{
		{
			name:   "valid",
			userID: 1,
			amount: 100,
		},
		{
			name:    "inactive",
			mod:     func(c *DiscountCoupon) { c.IsActive = false },
			userID:  1,
			amount:  100,
			wantErr: ErrCouponInactive,
		},
		{
			name:    "not yet valid",
			mod:     func(c *DiscountCoupon) { c.ValidFrom = future },
			userID:  1,
			amount:  100,
			wantErr: ErrCouponNotYetValid,
		},
		{
			name:    "expired",
			mod:     func(c *DiscountCoupon) { c.ValidUntil = &past },
			userID:  1,
			amount:  100,
			wantErr: ErrCouponExpired,
		},
		{
			name: "exhausted",
			mod: func(c *DiscountCoupon) {
				c.UsageLimit = 5
				c.UsedCount = 5
			},
			userID:  1,
			amount:  100,
			wantErr: ErrCouponExhausted,
		},
		{
			name: "zero usage limit is unlimited",
			mod: func(c *DiscountCoupon) {
				c.UsedCount = 10000
			},
			userID: 1,
			amount: 100,
		},
		{
			name:    "restricted to another user",
			mod:     func(c *DiscountCoupon) { c.UserID = 2 },
			userID:  1,
			amount:  100,
			wantErr: ErrCouponWrongUser,
		},
		{
			name:   "restricted to the right user",
			mod:    func(c *DiscountCoupon) { c.UserID = 1 },
			userID: 1,
			amount: 100,
		},
		{
			name:    "below minimum purchase",
			mod:     func(c *DiscountCoupon) { c.MinPurchaseAmount = 150 },
			userID:  1,
			amount:  100,
			wantErr: ErrCouponMinPurchase,
		},
		{
			// inactive must be reported before the expired window
			name: "inactive reported ahead of expiry",
			mod: func(c *DiscountCoupon) {
				c.IsActive = false
				c.ValidUntil = &past
			},
			userID:  1,
			amount:  100,
			wantErr: ErrCouponInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon := activeCoupon(tt.mod)
			err := coupon.Validate(tt.userID, tt.amount, now)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCouponIsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)

	if activeCoupon(nil).IsExpired(now) {
		t.Error("coupon without ValidUntil must never expire")
	}
	expired := activeCoupon(func(c *DiscountCoupon) { c.ValidUntil = &past })
	if !expired.IsExpired(now) {
		t.Error("coupon past ValidUntil must report expired")
	}
}
