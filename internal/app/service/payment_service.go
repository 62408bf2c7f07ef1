package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"qayeem-service/internal/domain"
	"qayeem-service/pkg/locker"
)

// Payment failures surfaced to the transport layer.
var (
	ErrBookNotFound    = errors.New("book not found")
	ErrBookNotActive   = errors.New("book is not available for purchase")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponBusy      = errors.New("coupon is being redeemed, try again")
)

// couponLockTTL bounds how long a redemption can hold a coupon lock.
const couponLockTTL = 10 * time.Second

// defaultCurrency is used when the client does not supply one.
const defaultCurrency = "SAR"

// PaymentRequest carries the client's purchase parameters.
type PaymentRequest struct {
	UserID     uint
	BookID     uint
	Method     string
	Currency   string
	CouponCode string
}

// PaymentService handles purchases: price derivation, coupon redemption
// and payment lifecycle.
type PaymentService struct {
	books    domain.BookRepository
	links    domain.LinkRepository
	ratings  domain.RatingRepository
	coupons  domain.CouponRepository
	payments domain.PaymentRepository
	settings domain.SettingsProvider
	locker   locker.DistributedLocker
	logger   *zap.Logger
}

// NewPaymentService creates a new PaymentService. locker is optional; a
// nil locker skips redemption serialization and relies on the storage
// layer's conditional increment alone.
func NewPaymentService(
	books domain.BookRepository,
	links domain.LinkRepository,
	ratings domain.RatingRepository,
	coupons domain.CouponRepository,
	payments domain.PaymentRepository,
	settings domain.SettingsProvider,
	lock locker.DistributedLocker,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		books:    books,
		links:    links,
		ratings:  ratings,
		coupons:  coupons,
		payments: payments,
		settings: settings,
		locker:   lock,
		logger:   logger,
	}
}

// Create runs the purchase pipeline: derive the price from book and
// recommendation discounts, apply the coupon when one is supplied and
// valid, then persist the payment with its initial history entry. An
// invalid coupon never fails the purchase; it is logged and skipped.
func (s *PaymentService) Create(ctx context.Context, req PaymentRequest) (*domain.Payment, error) {
	book, err := s.books.GetByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	if book.Status != domain.BookStatusActive {
		return nil, ErrBookNotActive
	}

	isRecommended, err := s.isRecommendedForPurchase(ctx, req.UserID, book)
	if err != nil {
		return nil, err
	}

	settings, err := loadRecommendationSettings(ctx, s.settings)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	breakdown := domain.DerivePrice(book, isRecommended, settings.DiscountPct)

	var coupon *domain.DiscountCoupon
	if req.CouponCode != "" {
		coupon, err = s.applyCoupon(ctx, req.CouponCode, req.UserID, breakdown)
		if err != nil {
			// Coupon problems are recoverable: record the payment
			// without the discount.
			s.logger.Warn("coupon skipped",
				zap.String("code", req.CouponCode),
				zap.Uint("user_id", req.UserID),
				zap.Error(err),
			)
			coupon = nil
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	payment := &domain.Payment{
		UserID:         req.UserID,
		BookID:         book.ID,
		BookType:       book.BookType,
		Amount:         breakdown.FinalAmount,
		Currency:       currency,
		Method:         domain.NormalizePaymentMethod(req.Method),
		Status:         domain.PaymentStatusPending,
		TransactionID:  "TXN-" + uuid.NewString(),
		DiscountAmount: breakdown.TotalDiscount(),
	}
	if coupon != nil {
		payment.CouponID = coupon.ID
		payment.CouponCode = coupon.Code
	}

	note, noteAr := discountNotes(breakdown)
	payment.Notes = note
	payment.NotesAr = noteAr

	if err := s.payments.Create(ctx, payment, "Payment created", "تم إنشاء عملية الدفع"); err != nil {
		return nil, err
	}

	s.logger.Info("payment created",
		zap.Uint("payment_id", payment.ID),
		zap.Uint("user_id", req.UserID),
		zap.Uint("book_id", book.ID),
		zap.Float64("amount", payment.Amount),
		zap.Float64("discount", payment.DiscountAmount),
		zap.Bool("recommended", isRecommended),
	)

	payment.Book = book

	return payment, nil
}

// isRecommendedForPurchase runs the payment-time recommendation check:
// legacy weighted scores per linkage, pass-ratio average.
func (s *PaymentService) isRecommendedForPurchase(ctx context.Context, userID uint, book *domain.Book) (bool, error) {
	links, err := s.links.ListForBook(ctx, book.ID, book.BookType)
	if err != nil {
		return false, fmt.Errorf("listing links: %w", err)
	}
	if len(links) == 0 {
		return false, nil
	}

	evaluationIDs := make([]uint, 0, len(links))
	for _, link := range links {
		evaluationIDs = append(evaluationIDs, link.EvaluationID)
	}

	ratings, err := s.ratings.ListSubmittedByUserForEvaluations(ctx, userID, evaluationIDs)
	if err != nil {
		return false, fmt.Errorf("listing ratings: %w", err)
	}

	return domain.PassRatioRecommended(links, ratings), nil
}

// applyCoupon validates, applies and redeems the coupon against the
// running breakdown. The redsync lock serializes redemptions of the same
// code across instances; the conditional increment in the repository is
// the hard guarantee underneath it.
func (s *PaymentService) applyCoupon(ctx context.Context, code string, userID uint, breakdown *domain.PriceBreakdown) (*domain.DiscountCoupon, error) {
	if s.locker != nil {
		lockKey := "coupon:redeem:" + code
		acquired, err := s.locker.Acquire(ctx, lockKey, couponLockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquiring coupon lock: %w", err)
		}
		if !acquired {
			return nil, ErrCouponBusy
		}
		defer func() {
			_ = s.locker.Release(ctx, lockKey)
		}()
	}

	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	// Validate against the running amount before touching usage counts,
	// and redeem before mutating the breakdown so a lost race leaves the
	// price untouched.
	if err := coupon.Validate(userID, breakdown.FinalAmount, time.Now().UTC()); err != nil {
		return nil, err
	}

	redeemed, err := s.coupons.Redeem(ctx, coupon.ID)
	if err != nil {
		return nil, err
	}
	if !redeemed {
		return nil, domain.ErrCouponExhausted
	}

	if err := breakdown.ApplyCoupon(coupon, userID, time.Now().UTC()); err != nil {
		return nil, err
	}

	return coupon, nil
}

// ValidateCoupon checks a code against an amount without redeeming it.
func (s *PaymentService) ValidateCoupon(ctx context.Context, code string, userID uint, amount float64) (*domain.DiscountCoupon, float64, error) {
	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		return nil, 0, err
	}
	if coupon == nil {
		return nil, 0, ErrCouponNotFound
	}

	if err := coupon.Validate(userID, amount, time.Now().UTC()); err != nil {
		return nil, 0, err
	}

	discount := coupon.DiscountFor(amount)
	if discount > amount {
		discount = amount
	}

	return coupon, discount, nil
}

// Get retrieves a payment, enforcing ownership.
func (s *PaymentService) Get(ctx context.Context, userID, paymentID uint) (*domain.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil || payment.UserID != userID {
		return nil, ErrPaymentNotFound
	}

	return payment, nil
}

// ListByUser returns the user's payment history.
func (s *PaymentService) ListByUser(ctx context.Context, userID uint, params domain.PaymentListParams) ([]*domain.Payment, int64, error) {
	params.UserID = userID

	return s.payments.List(ctx, params)
}

// UpdateStatus transitions a payment's state, recording the transition in
// its history.
func (s *PaymentService) UpdateStatus(ctx context.Context, paymentID uint, status domain.PaymentStatus, notes, notesAr string) (*domain.Payment, error) {
	payment, err := s.payments.UpdateStatus(ctx, paymentID, status, notes, notesAr)
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment status updated",
		zap.Uint("payment_id", paymentID),
		zap.String("status", string(status)),
	)

	return payment, nil
}

// discountNotes summarizes the applied discounts bilingually for the
// payment record.
func discountNotes(b *domain.PriceBreakdown) (string, string) {
	switch {
	case b.CouponDiscountAmount > 0 && b.RecommendedDiscountAmount > 0:
		return fmt.Sprintf("Recommendation discount %.2f and coupon %s discount %.2f applied",
				b.RecommendedDiscountAmount, b.CouponCode, b.CouponDiscountAmount),
			fmt.Sprintf("تم تطبيق خصم التوصية %.2f وخصم القسيمة %s بقيمة %.2f",
				b.RecommendedDiscountAmount, b.CouponCode, b.CouponDiscountAmount)
	case b.CouponDiscountAmount > 0 && b.BookDiscountAmount > 0:
		return fmt.Sprintf("Book discount %.2f and coupon %s discount %.2f applied",
				b.BookDiscountAmount, b.CouponCode, b.CouponDiscountAmount),
			fmt.Sprintf("تم تطبيق خصم الكتاب %.2f وخصم القسيمة %s بقيمة %.2f",
				b.BookDiscountAmount, b.CouponCode, b.CouponDiscountAmount)
	case b.CouponDiscountAmount > 0:
		return fmt.Sprintf("Coupon %s discount %.2f applied", b.CouponCode, b.CouponDiscountAmount),
			fmt.Sprintf("تم تطبيق خصم القسيمة %s بقيمة %.2f", b.CouponCode, b.CouponDiscountAmount)
	case b.RecommendedDiscountAmount > 0:
		return fmt.Sprintf("Recommendation discount %.2f applied", b.RecommendedDiscountAmount),
			fmt.Sprintf("تم تطبيق خصم التوصية %.2f", b.RecommendedDiscountAmount)
	case b.BookDiscountAmount > 0:
		return fmt.Sprintf("Book discount %.2f applied", b.BookDiscountAmount),
			fmt.Sprintf("تم تطبيق خصم الكتاب %.2f", b.BookDiscountAmount)
	default:
		return "", ""
	}
}
