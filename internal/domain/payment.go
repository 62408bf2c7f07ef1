package domain

import (
	"time"
)

// PaymentStatus represents the state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// PaymentMethod identifies how a payment is made.
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodPayPal       PaymentMethod = "PAYPAL"
	PaymentMethodApplePay     PaymentMethod = "APPLE_PAY"
	PaymentMethodGooglePay    PaymentMethod = "GOOGLE_PAY"
	PaymentMethodMada         PaymentMethod = "MADA"
	PaymentMethodCash         PaymentMethod = "CASH"
)

// NormalizePaymentMethod maps client-supplied method names onto the
// supported set. Card brands collapse to CREDIT_CARD, which is also the
// fallback for anything unrecognized or empty.
func NormalizePaymentMethod(method string) PaymentMethod {
	switch PaymentMethod(method) {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodBankTransfer,
		PaymentMethodPayPal, PaymentMethodApplePay, PaymentMethodGooglePay,
		PaymentMethodMada, PaymentMethodCash:
		return PaymentMethod(method)
	}
	switch method {
	case "VISA", "MASTERCARD":
		return PaymentMethodCreditCard
	}
	return PaymentMethodCreditCard
}

// Payment records one purchase, including the discount breakdown derived
// at creation time.
type Payment struct {
	ID            uint          `json:"id"`
	UserID        uint          `json:"user_id"`
	BookID        uint          `json:"book_id"`
	BookType      BookType      `json:"book_type,omitempty"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Method        PaymentMethod `json:"payment_method"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transaction_id"`

	CouponID       uint    `json:"coupon_id,omitempty"`
	CouponCode     string  `json:"coupon_code,omitempty"`
	DiscountAmount float64 `json:"discount_amount,omitempty"`

	Notes   string `json:"notes,omitempty"`
	NotesAr string `json:"notes_ar,omitempty"`

	Book *Book `json:"book,omitempty"`

	History []*PaymentHistory `json:"history,omitempty"`

	PaymentDate *time.Time `json:"payment_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PaymentHistory is one status transition of a payment.
type PaymentHistory struct {
	ID        uint          `json:"id"`
	PaymentID uint          `json:"payment_id"`
	Status    PaymentStatus `json:"status"`
	Notes     string        `json:"notes,omitempty"`
	NotesAr   string        `json:"notes_ar,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
