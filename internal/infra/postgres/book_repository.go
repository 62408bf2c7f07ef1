package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"qayeem-service/internal/domain"
)

// BookRepository implements domain.BookRepository using PostgreSQL.
type BookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository.
func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

// ListActiveWithLinks returns every ACTIVE book with its category and
// approved reviews, plus all direct evaluation links for those books in
// a second result. The recommendation engine consumes both in one pass.
func (r *BookRepository) ListActiveWithLinks(ctx context.Context) ([]*domain.Book, []*domain.BookEvaluation, error) {
	var models []BookModel
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Reviews", "is_approved = ?", true).
		Where("status = ?", string(domain.BookStatusActive)).
		Find(&models).Error
	if err != nil {
		return nil, nil, fmt.Errorf("listing active books: %w", err)
	}

	books := make([]*domain.Book, len(models))
	ids := make([]uint, len(models))
	for i, m := range models {
		books[i] = m.ToDomain()
		ids[i] = m.ID
	}

	var linkModels []BookEvaluationModel
	if len(ids) > 0 {
		err = r.db.WithContext(ctx).
			Preload("Evaluation.Criteria").
			Where("book_id IN ?", ids).
			Order("sort_order ASC").
			Find(&linkModels).Error
		if err != nil {
			return nil, nil, fmt.Errorf("listing direct links: %w", err)
		}
	}

	links := make([]*domain.BookEvaluation, len(linkModels))
	for i, m := range linkModels {
		links[i] = m.ToDomain()
	}

	return books, links, nil
}

// GetByID retrieves a single book with its category and approved reviews.
func (r *BookRepository) GetByID(ctx context.Context, id uint) (*domain.Book, error) {
	var model BookModel
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Reviews", "is_approved = ?", true).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting book by id: %w", err)
	}

	return model.ToDomain(), nil
}

// List returns books matching the given filters with a total count.
func (r *BookRepository) List(ctx context.Context, params domain.BookListParams) ([]*domain.Book, int64, error) {
	params.Normalize()

	query := r.db.WithContext(ctx).Model(&BookModel{})
	if params.Status != "" {
		query = query.Where("status = ?", string(params.Status))
	}
	if params.BookType != "" {
		query = query.Where("book_type = ?", string(params.BookType))
	}
	if params.CategoryID != 0 {
		query = query.Where("category_id = ?", params.CategoryID)
	}
	if params.Query != "" {
		pattern := "%" + params.Query + "%"
		query = query.Where(
			"title ILIKE ? OR title_ar ILIKE ? OR author ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting books: %w", err)
	}

	var models []BookModel
	err := query.
		Preload("Category").
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing books: %w", err)
	}

	books := make([]*domain.Book, len(models))
	for i, m := range models {
		books[i] = m.ToDomain()
	}

	return books, total, nil
}

// Create persists a new book.
func (r *BookRepository) Create(ctx context.Context, book *domain.Book) error {
	model := BookFromDomain(book)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("creating book: %w", err)
	}

	book.ID = model.ID
	book.CreatedAt = model.CreatedAt
	book.UpdatedAt = model.UpdatedAt

	return nil
}

// Update persists changes to an existing book.
func (r *BookRepository) Update(ctx context.Context, book *domain.Book) error {
	model := BookFromDomain(book)
	result := r.db.WithContext(ctx).Model(&BookModel{}).
		Where("id = ?", book.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("updating book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Delete removes a book by id.
func (r *BookRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&BookModel{})
	if result.Error != nil {
		return fmt.Errorf("deleting book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Statistics aggregates catalog counts for the admin stats endpoint.
func (r *BookRepository) Statistics(ctx context.Context) (*domain.BookStatistics, error) {
	stats := &domain.BookStatistics{
		ByStatus:   map[string]int64{},
		ByType:     map[string]int64{},
		ByCategory: map[string]int64{},
	}

	if err := r.db.WithContext(ctx).Model(&BookModel{}).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("counting books: %w", err)
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var byStatus []bucket
	err := r.db.WithContext(ctx).Model(&BookModel{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, fmt.Errorf("grouping by status: %w", err)
	}
	for _, b := range byStatus {
		stats.ByStatus[b.Key] = b.Count
	}

	var byType []bucket
	err = r.db.WithContext(ctx).Model(&BookModel{}).
		Select("book_type AS key, COUNT(*) AS count").
		Where("book_type <> ''").
		Group("book_type").
		Scan(&byType).Error
	if err != nil {
		return nil, fmt.Errorf("grouping by type: %w", err)
	}
	for _, b := range byType {
		stats.ByType[b.Key] = b.Count
	}

	var byCategory []bucket
	err = r.db.WithContext(ctx).Model(&BookModel{}).
		Select("book_categories.name AS key, COUNT(*) AS count").
		Joins("JOIN book_categories ON book_categories.id = books.category_id").
		Group("book_categories.name").
		Scan(&byCategory).Error
	if err != nil {
		return nil, fmt.Errorf("grouping by category: %w", err)
	}
	for _, b := range byCategory {
		stats.ByCategory[b.Key] = b.Count
	}

	if err := r.db.WithContext(ctx).Model(&PaymentModel{}).Count(&stats.Payments).Error; err != nil {
		return nil, fmt.Errorf("counting payments: %w", err)
	}

	return stats, nil
}

// ListMissingMetadata returns ACTIVE books with an ISBN but no page count
// or cover image, oldest first.
func (r *BookRepository) ListMissingMetadata(ctx context.Context, limit int) ([]*domain.Book, error) {
	var models []BookModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.BookStatusActive)).
		Where("isbn <> ''").
		Where("pages = 0 OR cover_image = ''").
		Order("updated_at ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing books missing metadata: %w", err)
	}

	books := make([]*domain.Book, len(models))
	for i, m := range models {
		books[i] = m.ToDomain()
	}

	return books, nil
}

// UpdateMetadata writes externally sourced catalog fields onto a book.
// Zero or empty values are skipped so partial provider data never erases
// existing fields.
func (r *BookRepository) UpdateMetadata(ctx context.Context, id uint, pages int, coverImage string) error {
	updates := map[string]any{}
	if pages > 0 {
		updates["pages"] = pages
	}
	if coverImage != "" {
		updates["cover_image"] = coverImage
	}
	if len(updates) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Model(&BookModel{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("updating book metadata: %w", err)
	}

	return nil
}

// ReviewRepository implements domain.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create persists a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.BookReview) error {
	model := ReviewFromDomain(review)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("creating review: %w", err)
	}

	review.ID = model.ID
	review.CreatedAt = model.CreatedAt

	return nil
}

// GetByID retrieves a single review.
func (r *ReviewRepository) GetByID(ctx context.Context, id uint) (*domain.BookReview, error) {
	var model BookReviewModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting review by id: %w", err)
	}

	return model.ToDomain(), nil
}

// ListForBook returns a book's reviews, newest first.
func (r *ReviewRepository) ListForBook(ctx context.Context, bookID uint, approvedOnly bool) ([]*domain.BookReview, error) {
	query := r.db.WithContext(ctx).Where("book_id = ?", bookID)
	if approvedOnly {
		query = query.Where("is_approved = ?", true)
	}

	var models []BookReviewModel
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}

	reviews := make([]*domain.BookReview, len(models))
	for i, m := range models {
		reviews[i] = m.ToDomain()
	}

	return reviews, nil
}

// SetApproved flips a review's moderation flag.
func (r *ReviewRepository) SetApproved(ctx context.Context, id uint, approved bool) error {
	result := r.db.WithContext(ctx).Model(&BookReviewModel{}).
		Where("id = ?", id).
		Update("is_approved", approved)
	if result.Error != nil {
		return fmt.Errorf("approving review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Delete removes a review by id.
func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&BookReviewModel{})
	if result.Error != nil {
		return fmt.Errorf("deleting review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
