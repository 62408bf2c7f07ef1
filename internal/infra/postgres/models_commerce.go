package postgres

import (
	"time"

	"qayeem-service/internal/domain"
)

// SettingModel is the GORM model for the settings table.
type SettingModel struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	Key           string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Value         string `gorm:"type:text;not null"`
	ValueAr       string `gorm:"type:text"`
	Description   string `gorm:"type:text"`
	DescriptionAr string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for SettingModel.
func (SettingModel) TableName() string {
	return "settings"
}

// ToDomain converts SettingModel to domain.Setting.
func (m *SettingModel) ToDomain() *domain.Setting {
	return &domain.Setting{
		ID:            m.ID,
		Key:           m.Key,
		Value:         m.Value,
		ValueAr:       m.ValueAr,
		Description:   m.Description,
		DescriptionAr: m.DescriptionAr,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// SettingFromDomain creates a SettingModel from domain.Setting.
func SettingFromDomain(s *domain.Setting) *SettingModel {
	return &SettingModel{
		ID:            s.ID,
		Key:           s.Key,
		Value:         s.Value,
		ValueAr:       s.ValueAr,
		Description:   s.Description,
		DescriptionAr: s.DescriptionAr,
	}
}

// DiscountCouponModel is the GORM model for the discount_coupons table.
type DiscountCouponModel struct {
	ID            uint    `gorm:"primaryKey;autoIncrement"`
	Code          string  `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description   string  `gorm:"type:text"`
	DescriptionAr string  `gorm:"type:text"`
	DiscountType  string  `gorm:"type:varchar(20);not null"`
	DiscountValue float64 `gorm:"type:decimal(10,2);not null"`

	MaxDiscountAmount float64 `gorm:"type:decimal(10,2);default:0"`
	MinPurchaseAmount float64 `gorm:"type:decimal(10,2);default:0"`

	UsageLimit int  `gorm:"default:0"`
	UsedCount  int  `gorm:"default:0"`
	UserID     uint `gorm:"default:0;index"`

	IsActive   bool      `gorm:"default:true;index"`
	ValidFrom  time.Time `gorm:"not null"`
	ValidUntil *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for DiscountCouponModel.
func (DiscountCouponModel) TableName() string {
	return "discount_coupons"
}

// ToDomain converts DiscountCouponModel to domain.DiscountCoupon.
func (m *DiscountCouponModel) ToDomain() *domain.DiscountCoupon {
	return &domain.DiscountCoupon{
		ID:                m.ID,
		Code:              m.Code,
		Description:       m.Description,
		DescriptionAr:     m.DescriptionAr,
		DiscountType:      domain.DiscountType(m.DiscountType),
		DiscountValue:     m.DiscountValue,
		MaxDiscountAmount: m.MaxDiscountAmount,
		MinPurchaseAmount: m.MinPurchaseAmount,
		UsageLimit:        m.UsageLimit,
		UsedCount:         m.UsedCount,
		UserID:            m.UserID,
		IsActive:          m.IsActive,
		ValidFrom:         m.ValidFrom,
		ValidUntil:        m.ValidUntil,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// CouponFromDomain creates a DiscountCouponModel from domain.DiscountCoupon.
func CouponFromDomain(c *domain.DiscountCoupon) *DiscountCouponModel {
	return &DiscountCouponModel{
		ID:                c.ID,
		Code:              c.Code,
		Description:       c.Description,
		DescriptionAr:     c.DescriptionAr,
		DiscountType:      string(c.DiscountType),
		DiscountValue:     c.DiscountValue,
		MaxDiscountAmount: c.MaxDiscountAmount,
		MinPurchaseAmount: c.MinPurchaseAmount,
		UsageLimit:        c.UsageLimit,
		UsedCount:         c.UsedCount,
		UserID:            c.UserID,
		IsActive:          c.IsActive,
		ValidFrom:         c.ValidFrom,
		ValidUntil:        c.ValidUntil,
	}
}

// PaymentModel is the GORM model for the payments table.
type PaymentModel struct {
	ID            uint    `gorm:"primaryKey;autoIncrement"`
	UserID        uint    `gorm:"not null;index"`
	BookID        uint    `gorm:"not null;index"`
	BookType      string  `gorm:"type:varchar(20)"`
	Amount        float64 `gorm:"type:decimal(10,2);not null"`
	Currency      string  `gorm:"type:varchar(3);not null"`
	Method        string  `gorm:"column:payment_method;type:varchar(20);not null"`
	Status        string  `gorm:"type:varchar(20);not null;index"`
	TransactionID string  `gorm:"type:varchar(100);not null;uniqueIndex"`

	CouponID       uint    `gorm:"default:0"`
	CouponCode     string  `gorm:"type:varchar(50)"`
	DiscountAmount float64 `gorm:"type:decimal(10,2);default:0"`

	Notes   string `gorm:"type:text"`
	NotesAr string `gorm:"type:text"`

	Book    *BookModel             `gorm:"foreignKey:BookID"`
	History []*PaymentHistoryModel `gorm:"foreignKey:PaymentID"`

	PaymentDate *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for PaymentModel.
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts PaymentModel to domain.Payment.
func (m *PaymentModel) ToDomain() *domain.Payment {
	p := &domain.Payment{
		ID:             m.ID,
		UserID:         m.UserID,
		BookID:         m.BookID,
		BookType:       domain.BookType(m.BookType),
		Amount:         m.Amount,
		Currency:       m.Currency,
		Method:         domain.PaymentMethod(m.Method),
		Status:         domain.PaymentStatus(m.Status),
		TransactionID:  m.TransactionID,
		CouponID:       m.CouponID,
		CouponCode:     m.CouponCode,
		DiscountAmount: m.DiscountAmount,
		Notes:          m.Notes,
		NotesAr:        m.NotesAr,
		PaymentDate:    m.PaymentDate,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Book != nil {
		p.Book = m.Book.ToDomain()
	}
	for _, h := range m.History {
		p.History = append(p.History, h.ToDomain())
	}

	return p
}

// PaymentFromDomain creates a PaymentModel from domain.Payment.
func PaymentFromDomain(p *domain.Payment) *PaymentModel {
	return &PaymentModel{
		ID:             p.ID,
		UserID:         p.UserID,
		BookID:         p.BookID,
		BookType:       string(p.BookType),
		Amount:         p.Amount,
		Currency:       p.Currency,
		Method:         string(p.Method),
		Status:         string(p.Status),
		TransactionID:  p.TransactionID,
		CouponID:       p.CouponID,
		CouponCode:     p.CouponCode,
		DiscountAmount: p.DiscountAmount,
		Notes:          p.Notes,
		NotesAr:        p.NotesAr,
		PaymentDate:    p.PaymentDate,
	}
}

// PaymentHistoryModel is the GORM model for the payment_history table.
type PaymentHistoryModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	PaymentID uint   `gorm:"not null;index"`
	Status    string `gorm:"type:varchar(20);not null"`
	Notes     string `gorm:"type:text"`
	NotesAr   string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for PaymentHistoryModel.
func (PaymentHistoryModel) TableName() string {
	return "payment_history"
}

// ToDomain converts PaymentHistoryModel to domain.PaymentHistory.
func (m *PaymentHistoryModel) ToDomain() *domain.PaymentHistory {
	return &domain.PaymentHistory{
		ID:        m.ID,
		PaymentID: m.PaymentID,
		Status:    domain.PaymentStatus(m.Status),
		Notes:     m.Notes,
		NotesAr:   m.NotesAr,
		CreatedAt: m.CreatedAt,
	}
}

// BookProgressModel is the GORM model for the book_progress table. One
// row per (user, book) pair.
type BookProgressModel struct {
	ID         uint    `gorm:"primaryKey;autoIncrement"`
	UserID     uint    `gorm:"not null;index:idx_user_book,unique"`
	BookID     uint    `gorm:"not null;index:idx_user_book,unique"`
	PagesRead  int     `gorm:"default:0"`
	TotalPages int     `gorm:"default:0"`
	Percentage float64 `gorm:"type:decimal(5,2);default:0"`

	Book *BookModel `gorm:"foreignKey:BookID"`

	LastReadAt  time.Time `gorm:"not null"`
	CompletedAt *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for BookProgressModel.
func (BookProgressModel) TableName() string {
	return "book_progress"
}

// ToDomain converts BookProgressModel to domain.BookProgress.
func (m *BookProgressModel) ToDomain() *domain.BookProgress {
	p := &domain.BookProgress{
		ID:          m.ID,
		UserID:      m.UserID,
		BookID:      m.BookID,
		PagesRead:   m.PagesRead,
		TotalPages:  m.TotalPages,
		Percentage:  m.Percentage,
		LastReadAt:  m.LastReadAt,
		CompletedAt: m.CompletedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Book != nil {
		p.Book = m.Book.ToDomain()
	}

	return p
}

// ProgressFromDomain creates a BookProgressModel from domain.BookProgress.
func ProgressFromDomain(p *domain.BookProgress) *BookProgressModel {
	return &BookProgressModel{
		ID:          p.ID,
		UserID:      p.UserID,
		BookID:      p.BookID,
		PagesRead:   p.PagesRead,
		TotalPages:  p.TotalPages,
		Percentage:  p.Percentage,
		LastReadAt:  p.LastReadAt,
		CompletedAt: p.CompletedAt,
	}
}
