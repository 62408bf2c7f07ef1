package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"qayeem-service/internal/domain"
)

// PaymentRepository implements domain.PaymentRepository using PostgreSQL.
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository.
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create persists the payment together with its initial history entry in
// one transaction.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment, initialNote, initialNoteAr string) error {
	model := PaymentFromDomain(payment)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("creating payment: %w", err)
		}

		history := &PaymentHistoryModel{
			PaymentID: model.ID,
			Status:    model.Status,
			Notes:     initialNote,
			NotesAr:   initialNoteAr,
		}
		if err := tx.Create(history).Error; err != nil {
			return fmt.Errorf("creating payment history: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	payment.ID = model.ID
	payment.CreatedAt = model.CreatedAt
	payment.UpdatedAt = model.UpdatedAt

	return nil
}

// GetByID retrieves a payment with its book and full history.
func (r *PaymentRepository) GetByID(ctx context.Context, id uint) (*domain.Payment, error) {
	var model PaymentModel
	err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting payment by id: %w", err)
	}

	return model.ToDomain(), nil
}

// List returns payments matching the given filters with a total count,
// newest first.
func (r *PaymentRepository) List(ctx context.Context, params domain.PaymentListParams) ([]*domain.Payment, int64, error) {
	params.Normalize()

	query := r.db.WithContext(ctx).Model(&PaymentModel{})
	if params.UserID != 0 {
		query = query.Where("user_id = ?", params.UserID)
	}
	if params.BookID != 0 {
		query = query.Where("book_id = ?", params.BookID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", string(params.Status))
	}
	if params.Method != "" {
		query = query.Where("payment_method = ?", string(params.Method))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting payments: %w", err)
	}

	var models []PaymentModel
	err := query.
		Preload("Book").
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing payments: %w", err)
	}

	payments := make([]*domain.Payment, len(models))
	for i, m := range models {
		payments[i] = m.ToDomain()
	}

	return payments, total, nil
}

// UpdateStatus transitions the payment and appends a history entry in one
// transaction, then returns the refreshed record. A COMPLETED transition
// stamps the payment date.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id uint, status domain.PaymentStatus, notes, notesAr string) (*domain.Payment, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"status": string(status)}
		if status == domain.PaymentStatusCompleted {
			updates["payment_date"] = time.Now().UTC()
		}

		result := tx.Model(&PaymentModel{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("updating payment status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		history := &PaymentHistoryModel{
			PaymentID: id,
			Status:    string(status),
			Notes:     notes,
			NotesAr:   notesAr,
		}
		if err := tx.Create(history).Error; err != nil {
			return fmt.Errorf("creating payment history: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}
