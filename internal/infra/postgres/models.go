package postgres

import (
	"time"

	"qayeem-service/internal/domain"

	"github.com/lib/pq"
)

// BookModel is the GORM model for the books table.
type BookModel struct {
	ID            uint           `gorm:"primaryKey;autoIncrement"`
	Title         string         `gorm:"type:varchar(500);not null"`
	TitleAr       string         `gorm:"type:varchar(500)"`
	Description   string         `gorm:"type:text"`
	DescriptionAr string         `gorm:"type:text"`
	Author        string         `gorm:"type:varchar(255)"`
	AuthorAr      string         `gorm:"type:varchar(255)"`
	ISBN          string         `gorm:"type:varchar(20);index"`
	CoverImage    string         `gorm:"type:varchar(500)"`
	Tags          pq.StringArray `gorm:"type:text[]"`
	Pages         int            `gorm:"default:0"`

	BookType string `gorm:"type:varchar(20);index"`
	Status   string `gorm:"type:varchar(20);not null;index"`

	CategoryID *uint              `gorm:"index"`
	Category   *BookCategoryModel `gorm:"foreignKey:CategoryID"`

	Price              float64 `gorm:"type:decimal(10,2);not null;default:0"`
	DiscountPercentage float64 `gorm:"type:decimal(5,2);default:0"`

	Reviews []*BookReviewModel `gorm:"foreignKey:BookID"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for BookModel.
func (BookModel) TableName() string {
	return "books"
}

// ToDomain converts BookModel to domain.Book.
func (m *BookModel) ToDomain() *domain.Book {
	book := &domain.Book{
		ID:                 m.ID,
		Title:              m.Title,
		TitleAr:            m.TitleAr,
		Description:        m.Description,
		DescriptionAr:      m.DescriptionAr,
		Author:             m.Author,
		AuthorAr:           m.AuthorAr,
		ISBN:               m.ISBN,
		CoverImage:         m.CoverImage,
		Tags:               m.Tags,
		Pages:              m.Pages,
		BookType:           domain.BookType(m.BookType),
		Status:             domain.BookStatus(m.Status),
		Price:              m.Price,
		DiscountPercentage: m.DiscountPercentage,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	if m.Category != nil {
		book.Category = m.Category.ToDomain()
	}
	for _, r := range m.Reviews {
		book.Reviews = append(book.Reviews, r.ToDomain())
	}

	return book
}

// BookFromDomain creates a BookModel from domain.Book.
func BookFromDomain(b *domain.Book) *BookModel {
	model := &BookModel{
		ID:                 b.ID,
		Title:              b.Title,
		TitleAr:            b.TitleAr,
		Description:        b.Description,
		DescriptionAr:      b.DescriptionAr,
		Author:             b.Author,
		AuthorAr:           b.AuthorAr,
		ISBN:               b.ISBN,
		CoverImage:         b.CoverImage,
		Tags:               b.Tags,
		Pages:              b.Pages,
		BookType:           string(b.BookType),
		Status:             string(b.Status),
		Price:              b.Price,
		DiscountPercentage: b.DiscountPercentage,
	}
	if b.Category != nil && b.Category.ID != 0 {
		categoryID := b.Category.ID
		model.CategoryID = &categoryID
	}

	return model
}

// BookCategoryModel is the GORM model for the book_categories table.
type BookCategoryModel struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"type:varchar(255);not null"`
	NameAr   string `gorm:"type:varchar(255)"`
	Order    int    `gorm:"column:sort_order;default:0"`
	IsActive bool   `gorm:"default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for BookCategoryModel.
func (BookCategoryModel) TableName() string {
	return "book_categories"
}

// ToDomain converts BookCategoryModel to domain.BookCategory.
func (m *BookCategoryModel) ToDomain() *domain.BookCategory {
	return &domain.BookCategory{
		ID:       m.ID,
		Name:     m.Name,
		NameAr:   m.NameAr,
		Order:    m.Order,
		IsActive: m.IsActive,
	}
}

// BookReviewModel is the GORM model for the book_reviews table.
type BookReviewModel struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	BookID     uint   `gorm:"not null;index"`
	UserID     uint   `gorm:"not null;index"`
	Rating     int    `gorm:"not null"`
	Comment    string `gorm:"type:text"`
	CommentAr  string `gorm:"type:text"`
	IsApproved bool   `gorm:"default:false;index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for BookReviewModel.
func (BookReviewModel) TableName() string {
	return "book_reviews"
}

// ToDomain converts BookReviewModel to domain.BookReview.
func (m *BookReviewModel) ToDomain() *domain.BookReview {
	return &domain.BookReview{
		ID:         m.ID,
		BookID:     m.BookID,
		UserID:     m.UserID,
		Rating:     m.Rating,
		Comment:    m.Comment,
		CommentAr:  m.CommentAr,
		IsApproved: m.IsApproved,
		CreatedAt:  m.CreatedAt,
	}
}

// ReviewFromDomain creates a BookReviewModel from domain.BookReview.
func ReviewFromDomain(r *domain.BookReview) *BookReviewModel {
	return &BookReviewModel{
		ID:         r.ID,
		BookID:     r.BookID,
		UserID:     r.UserID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CommentAr:  r.CommentAr,
		IsApproved: r.IsApproved,
	}
}
