package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"qayeem-service/internal/domain"
)

var (
	ErrCriterionNotFound = errors.New("criterion not found")
	ErrLinkTargetInvalid = errors.New("link must target a book or a book type")
)

// EvaluationService manages questionnaires, their criteria and their
// linkage to books.
type EvaluationService struct {
	evaluations domain.EvaluationRepository
	links       domain.LinkRepository
	books       domain.BookRepository
	cache       domain.Cache
	logger      *zap.Logger
}

// NewEvaluationService creates a new EvaluationService. cache may be nil.
func NewEvaluationService(
	evaluations domain.EvaluationRepository,
	links domain.LinkRepository,
	books domain.BookRepository,
	cache domain.Cache,
	logger *zap.Logger,
) *EvaluationService {
	return &EvaluationService{
		evaluations: evaluations,
		links:       links,
		books:       books,
		cache:       cache,
		logger:      logger,
	}
}

// Get returns one evaluation with its criteria.
func (s *EvaluationService) Get(ctx context.Context, id uint) (*domain.Evaluation, error) {
	evaluation, err := s.evaluations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if evaluation == nil {
		return nil, ErrEvaluationNotFound
	}

	return evaluation, nil
}

// List returns evaluations, optionally filtered by status. An empty
// status returns everything.
func (s *EvaluationService) List(ctx context.Context, status domain.EvaluationStatus) ([]*domain.Evaluation, error) {
	return s.evaluations.List(ctx, status)
}

// ListActive returns the evaluations visible to end users.
func (s *EvaluationService) ListActive(ctx context.Context) ([]*domain.Evaluation, error) {
	return s.evaluations.List(ctx, domain.EvaluationStatusActive)
}

// Create persists an evaluation and its criteria. Status defaults to
// DRAFT.
func (s *EvaluationService) Create(ctx context.Context, evaluation *domain.Evaluation) error {
	if evaluation.Status == "" {
		evaluation.Status = domain.EvaluationStatusDraft
	}

	if err := s.evaluations.Create(ctx, evaluation); err != nil {
		return err
	}

	s.logger.Info("evaluation created",
		zap.Uint("evaluation_id", evaluation.ID),
		zap.String("title", evaluation.Title),
		zap.Int("criteria", len(evaluation.Criteria)),
	)

	return nil
}

// Clone copies an evaluation and its criteria into a new DRAFT. Linkages
// are not copied; the clone starts unlinked.
func (s *EvaluationService) Clone(ctx context.Context, id uint) (*domain.Evaluation, error) {
	source, err := s.evaluations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, ErrEvaluationNotFound
	}

	clone := &domain.Evaluation{
		Title:               source.Title + " (Copy)",
		TitleAr:             source.TitleAr,
		Description:         source.Description,
		DescriptionAr:       source.DescriptionAr,
		Status:              domain.EvaluationStatusDraft,
		Type:                source.Type,
		PracticesPercentage: source.PracticesPercentage,
		PatternsPercentage:  source.PatternsPercentage,
	}
	if source.TitleAr != "" {
		clone.TitleAr = source.TitleAr + " (نسخة)"
	}
	for _, c := range source.Criteria {
		clone.Criteria = append(clone.Criteria, &domain.Criterion{
			Text:               c.Text,
			TextAr:             c.TextAr,
			BookType:           c.BookType,
			Order:              c.Order,
			Weight:             c.Weight,
			MaxScore:           c.MaxScore,
			QuestionPercentage: c.QuestionPercentage,
			Answer1Percentage:  c.Answer1Percentage,
			Answer2Percentage:  c.Answer2Percentage,
			Answer3Percentage:  c.Answer3Percentage,
			Answer4Percentage:  c.Answer4Percentage,
			Answer5Percentage:  c.Answer5Percentage,
		})
	}

	if err := s.evaluations.Create(ctx, clone); err != nil {
		return nil, err
	}

	s.logger.Info("evaluation cloned",
		zap.Uint("source_id", id),
		zap.Uint("evaluation_id", clone.ID),
		zap.Int("criteria", len(clone.Criteria)),
	)

	return clone, nil
}

// Update overwrites an evaluation's header fields. Criteria are managed
// through the criterion operations.
func (s *EvaluationService) Update(ctx context.Context, evaluation *domain.Evaluation) error {
	existing, err := s.evaluations.GetByID(ctx, evaluation.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrEvaluationNotFound
	}

	return s.evaluations.Update(ctx, evaluation)
}

// UpdateStatus transitions the evaluation lifecycle.
func (s *EvaluationService) UpdateStatus(ctx context.Context, id uint, status domain.EvaluationStatus) error {
	existing, err := s.evaluations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrEvaluationNotFound
	}

	if err := s.evaluations.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	s.logger.Info("evaluation status updated",
		zap.Uint("evaluation_id", id),
		zap.String("status", string(status)),
	)

	return nil
}

// Delete removes an evaluation and its criteria.
func (s *EvaluationService) Delete(ctx context.Context, id uint) error {
	existing, err := s.evaluations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrEvaluationNotFound
	}

	return s.evaluations.Delete(ctx, id)
}

// AddCriterion appends a question to an evaluation.
func (s *EvaluationService) AddCriterion(ctx context.Context, criterion *domain.Criterion) error {
	evaluation, err := s.evaluations.GetByID(ctx, criterion.EvaluationID)
	if err != nil {
		return err
	}
	if evaluation == nil {
		return ErrEvaluationNotFound
	}

	return s.evaluations.CreateCriterion(ctx, criterion)
}

// UpdateCriterion overwrites a question.
func (s *EvaluationService) UpdateCriterion(ctx context.Context, criterion *domain.Criterion) error {
	return s.evaluations.UpdateCriterion(ctx, criterion)
}

// DeleteCriterion removes a question.
func (s *EvaluationService) DeleteCriterion(ctx context.Context, id uint) error {
	return s.evaluations.DeleteCriterion(ctx, id)
}

// LinkBook attaches an evaluation to a specific book, creating or
// updating the linkage in place.
func (s *EvaluationService) LinkBook(ctx context.Context, evaluationID, bookID uint, isRequired bool, minScorePct float64, order int) error {
	evaluation, err := s.evaluations.GetByID(ctx, evaluationID)
	if err != nil {
		return err
	}
	if evaluation == nil {
		return ErrEvaluationNotFound
	}

	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return err
	}
	if book == nil {
		return ErrBookNotFound
	}

	link := &domain.BookEvaluation{
		EvaluationID:       evaluationID,
		Target:             domain.DirectTarget(bookID),
		IsRequired:         isRequired,
		MinScorePercentage: minScorePct,
		Order:              order,
	}

	if err := s.links.Upsert(ctx, link); err != nil {
		return fmt.Errorf("upserting book link: %w", err)
	}

	s.logger.Info("evaluation linked to book",
		zap.Uint("evaluation_id", evaluationID),
		zap.Uint("book_id", bookID),
		zap.Bool("required", isRequired),
	)
	s.invalidateCatalogs(ctx)

	return nil
}

// LinkBookType attaches an evaluation to every book of a type, creating
// or updating the linkage in place.
func (s *EvaluationService) LinkBookType(ctx context.Context, evaluationID uint, bookType domain.BookType, isRequired bool, minScorePct float64, order int) error {
	if bookType == "" {
		return ErrLinkTargetInvalid
	}

	evaluation, err := s.evaluations.GetByID(ctx, evaluationID)
	if err != nil {
		return err
	}
	if evaluation == nil {
		return ErrEvaluationNotFound
	}

	link := &domain.BookEvaluation{
		EvaluationID:       evaluationID,
		Target:             domain.TypeTarget(bookType),
		IsRequired:         isRequired,
		MinScorePercentage: minScorePct,
		Order:              order,
	}

	if err := s.links.Upsert(ctx, link); err != nil {
		return fmt.Errorf("upserting type link: %w", err)
	}

	s.logger.Info("evaluation linked to book type",
		zap.Uint("evaluation_id", evaluationID),
		zap.String("book_type", string(bookType)),
		zap.Bool("required", isRequired),
	)
	s.invalidateCatalogs(ctx)

	return nil
}

// UnlinkBook removes a direct linkage.
func (s *EvaluationService) UnlinkBook(ctx context.Context, evaluationID, bookID uint) error {
	if err := s.links.DeleteDirect(ctx, bookID, evaluationID); err != nil {
		return err
	}

	s.invalidateCatalogs(ctx)

	return nil
}

// invalidateCatalogs drops cached per-user catalogs after a linkage
// change. Cache failures are logged, not propagated.
func (s *EvaluationService) invalidateCatalogs(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("failed to invalidate cached catalogs", zap.Error(err))
	}
}

// ListLinks returns an evaluation's linkages.
func (s *EvaluationService) ListLinks(ctx context.Context, evaluationID uint) ([]*domain.BookEvaluation, error) {
	return s.links.ListForEvaluation(ctx, evaluationID)
}
