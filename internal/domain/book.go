// Package domain contains the core business logic and entities.
// This package has no external dependencies (only stdlib).
package domain

import (
	"time"
)

// BookType is a coarse classification used for type-based evaluation linkage.
type BookType string

const (
	BookTypePractices BookType = "PRACTICES"
	BookTypePatterns  BookType = "PATTERNS"
)

// BookStatus represents the publication state of a book.
type BookStatus string

const (
	BookStatusDraft    BookStatus = "DRAFT"
	BookStatusActive   BookStatus = "ACTIVE"
	BookStatusArchived BookStatus = "ARCHIVED"
)

// Book is a purchasable title in the catalog. Titles and descriptions are
// bilingual (English/Arabic). BookType is optional; a book without a type
// can only be linked to evaluations directly.
type Book struct {
	ID            uint     `json:"id"`
	Title         string   `json:"title"`
	TitleAr       string   `json:"title_ar,omitempty"`
	Description   string   `json:"description,omitempty"`
	DescriptionAr string   `json:"description_ar,omitempty"`
	Author        string   `json:"author,omitempty"`
	AuthorAr      string   `json:"author_ar,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	CoverImage    string   `json:"cover_image,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Pages         int      `json:"pages,omitempty"`

	BookType BookType   `json:"book_type,omitempty"` // empty means untyped
	Status   BookStatus `json:"status"`
	Category *BookCategory `json:"category,omitempty"`

	Price              float64 `json:"price"`
	DiscountPercentage float64 `json:"discount_percentage,omitempty"` // book-level, wins over recommendation discount

	Reviews []*BookReview `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AverageRating returns the mean rating over approved reviews, rounded to
// one decimal place. Returns 0 when there are no reviews.
func (b *Book) AverageRating() float64 {
	if len(b.Reviews) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range b.Reviews {
		sum += float64(r.Rating)
	}
	return float64(int(sum/float64(len(b.Reviews))*10+0.5)) / 10
}

// BookCategory groups books for browsing.
type BookCategory struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	NameAr   string `json:"name_ar,omitempty"`
	Order    int    `json:"order"`
	IsActive bool   `json:"is_active"`
}

// BookReview is a user review of a book. Reviews are held until an
// administrator approves them.
type BookReview struct {
	ID         uint      `json:"id"`
	BookID     uint      `json:"book_id"`
	UserID     uint      `json:"user_id"`
	Rating     int       `json:"rating"` // 1..5 stars
	Comment    string    `json:"comment,omitempty"`
	CommentAr  string    `json:"comment_ar,omitempty"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// BookStatistics summarizes the catalog for the admin stats endpoint.
type BookStatistics struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByType     map[string]int64 `json:"by_type"`
	ByCategory map[string]int64 `json:"by_category"`
	Payments   int64            `json:"payments"`
}
