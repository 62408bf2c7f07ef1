package dto

import (
	"qayeem-service/internal/app/service"
	"qayeem-service/internal/domain"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// PaginationMeta holds pagination metadata.
type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginationMeta computes pagination metadata for one page.
func NewPaginationMeta(total int64, page, pageSize int) PaginationMeta {
	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}
	return PaginationMeta{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// BookListResponse represents a paginated book listing.
type BookListResponse struct {
	Books      []*domain.Book `json:"books"`
	Pagination PaginationMeta `json:"pagination"`
}

// PaymentListResponse represents a paginated payment listing.
type PaymentListResponse struct {
	Payments   []*domain.Payment `json:"payments"`
	Pagination PaginationMeta    `json:"pagination"`
}

// CouponValidationResponse represents the outcome of a standalone coupon
// check.
type CouponValidationResponse struct {
	Valid          bool    `json:"valid"`
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalAmount    float64 `json:"final_amount"`
}

// SyncResponse represents the outcome of a manual catalog enrichment run.
type SyncResponse struct {
	Provider string `json:"provider"`
	Checked  int    `json:"checked"`
	Updated  int    `json:"updated"`
	Missing  int    `json:"missing"`
	Failed   int    `json:"failed"`
	Duration string `json:"duration"`
}

// FromSyncResult converts service.SyncResult to SyncResponse.
func FromSyncResult(r service.SyncResult) SyncResponse {
	return SyncResponse{
		Provider: r.Provider,
		Checked:  r.Checked,
		Updated:  r.Updated,
		Missing:  r.Missing,
		Failed:   r.Failed,
		Duration: r.Duration.String(),
	}
}
