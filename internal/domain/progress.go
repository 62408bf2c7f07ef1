package domain

import (
	"time"
)

// DefaultTotalPages is assumed when a book carries no page count.
const DefaultTotalPages = 300

// BookProgress tracks one user's reading position in one book. Unique per
// (userID, bookID); updates overwrite in place.
type BookProgress struct {
	ID         uint    `json:"id"`
	UserID     uint    `json:"user_id"`
	BookID     uint    `json:"book_id"`
	PagesRead  int     `json:"pages_read"`
	TotalPages int     `json:"total_pages"`
	Percentage float64 `json:"percentage"`

	Book *Book `json:"book,omitempty"`

	LastReadAt  time.Time  `json:"last_read_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewBookProgress builds a progress record from a page position. The
// percentage is clamped to 100; reaching it marks the book completed.
func NewBookProgress(userID uint, book *Book, pagesRead int, now time.Time) *BookProgress {
	totalPages := book.Pages
	if totalPages <= 0 {
		totalPages = DefaultTotalPages
	}

	percentage := float64(pagesRead) / float64(totalPages) * 100
	if percentage > 100 {
		percentage = 100
	}

	p := &BookProgress{
		UserID:     userID,
		BookID:     book.ID,
		PagesRead:  pagesRead,
		TotalPages: totalPages,
		Percentage: roundTo2Decimals(percentage),
		LastReadAt: now,
	}
	if percentage >= 100 {
		p.CompletedAt = &now
	}
	return p
}
