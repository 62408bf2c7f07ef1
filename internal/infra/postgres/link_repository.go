package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qayeem-service/internal/domain"
)

// LinkRepository implements domain.LinkRepository using PostgreSQL.
type LinkRepository struct {
	db *gorm.DB
}

// NewLinkRepository creates a new book-evaluation link repository.
func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) toDomainSlice(models []BookEvaluationModel) []*domain.BookEvaluation {
	links := make([]*domain.BookEvaluation, len(models))
	for i, m := range models {
		links[i] = m.ToDomain()
	}

	return links
}

// ListTypeLinks returns every type-class linkage with its evaluation and
// criteria.
func (r *LinkRepository) ListTypeLinks(ctx context.Context) ([]*domain.BookEvaluation, error) {
	var models []BookEvaluationModel
	err := r.db.WithContext(ctx).
		Preload("Evaluation.Criteria").
		Where("book_id IS NULL AND book_type IS NOT NULL").
		Order("sort_order ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing type links: %w", err)
	}

	return r.toDomainSlice(models), nil
}

// ListForBook returns the union of direct links for bookID and type-class
// links for bookType.
func (r *LinkRepository) ListForBook(ctx context.Context, bookID uint, bookType domain.BookType) ([]*domain.BookEvaluation, error) {
	query := r.db.WithContext(ctx).
		Preload("Evaluation.Criteria").
		Order("sort_order ASC")
	if bookType != "" {
		query = query.Where("book_id = ? OR book_type = ?", bookID, string(bookType))
	} else {
		query = query.Where("book_id = ?", bookID)
	}

	var models []BookEvaluationModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing links for book: %w", err)
	}

	return r.toDomainSlice(models), nil
}

// ListDirect returns only the direct links for one book.
func (r *LinkRepository) ListDirect(ctx context.Context, bookID uint) ([]*domain.BookEvaluation, error) {
	var models []BookEvaluationModel
	err := r.db.WithContext(ctx).
		Preload("Evaluation.Criteria").
		Where("book_id = ?", bookID).
		Order("sort_order ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing direct links: %w", err)
	}

	return r.toDomainSlice(models), nil
}

// ListForEvaluation returns every linkage that references an evaluation.
func (r *LinkRepository) ListForEvaluation(ctx context.Context, evaluationID uint) ([]*domain.BookEvaluation, error) {
	var models []BookEvaluationModel
	err := r.db.WithContext(ctx).
		Where("evaluation_id = ?", evaluationID).
		Order("sort_order ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing links for evaluation: %w", err)
	}

	return r.toDomainSlice(models), nil
}

// Upsert creates or updates a linkage. Direct links conflict on
// (evaluation_id, book_id); type links on (evaluation_id, book_type).
func (r *LinkRepository) Upsert(ctx context.Context, link *domain.BookEvaluation) error {
	model := LinkFromDomain(link)

	// Conflict targets match the partial unique indexes uq_link_direct
	// and uq_link_type, so the WHERE predicate must be repeated here.
	conflict := clause.OnConflict{
		Columns:     []clause.Column{{Name: "evaluation_id"}, {Name: "book_id"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{gorm.Expr("book_id IS NOT NULL")}},
		DoUpdates: clause.AssignmentColumns([]string{
			"is_required", "min_score_percentage", "sort_order", "updated_at",
		}),
	}
	if !link.Target.IsDirect() {
		conflict.Columns = []clause.Column{{Name: "evaluation_id"}, {Name: "book_type"}}
		conflict.TargetWhere = clause.Where{Exprs: []clause.Expression{gorm.Expr("book_type IS NOT NULL")}}
	}

	err := r.db.WithContext(ctx).Clauses(conflict).Create(model).Error
	if err != nil {
		return fmt.Errorf("upserting link: %w", err)
	}

	link.ID = model.ID
	link.CreatedAt = model.CreatedAt
	link.UpdatedAt = model.UpdatedAt

	return nil
}

// DeleteDirect removes the direct linkage between one book and one
// evaluation.
func (r *LinkRepository) DeleteDirect(ctx context.Context, bookID, evaluationID uint) error {
	result := r.db.WithContext(ctx).
		Where("book_id = ? AND evaluation_id = ?", bookID, evaluationID).
		Delete(&BookEvaluationModel{})
	if result.Error != nil {
		return fmt.Errorf("deleting link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
