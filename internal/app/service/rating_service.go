package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"qayeem-service/internal/domain"
)

// Rating submission failures surfaced to the transport layer.
var (
	ErrEvaluationNotFound  = errors.New("evaluation not found")
	ErrEvaluationNotActive = errors.New("evaluation is not active")
	ErrUnknownCriterion    = errors.New("answer references an unknown criterion")
	ErrRatingNotFound      = errors.New("rating not found")
	ErrRatingNotOwned      = errors.New("rating belongs to another user")
	ErrNoAnswers           = errors.New("rating has no answers")
)

// RatingAnswer is one submitted answer in a rating request.
type RatingAnswer struct {
	CriterionID uint
	Score       int
	Comment     string
	CommentAr   string
}

// RatingService handles evaluation rating submission and retrieval.
type RatingService struct {
	evaluations domain.EvaluationRepository
	ratings     domain.RatingRepository
	recommender *RecommendationService
	logger      *zap.Logger
}

// NewRatingService creates a new RatingService. recommender is optional;
// when set, submissions invalidate the user's cached catalog.
func NewRatingService(
	evaluations domain.EvaluationRepository,
	ratings domain.RatingRepository,
	recommender *RecommendationService,
	logger *zap.Logger,
) *RatingService {
	return &RatingService{
		evaluations: evaluations,
		ratings:     ratings,
		recommender: recommender,
		logger:      logger,
	}
}

// Submit records a user's answer set for an evaluation. A user holds at
// most one rating per evaluation; submitting again overwrites the
// previous answers. asDraft keeps the rating editable without feeding
// the recommendation engine.
func (s *RatingService) Submit(ctx context.Context, userID, evaluationID uint, answers []RatingAnswer, asDraft bool) (*domain.Rating, error) {
	if len(answers) == 0 {
		return nil, ErrNoAnswers
	}

	evaluation, err := s.evaluations.GetByID(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	if evaluation == nil {
		return nil, ErrEvaluationNotFound
	}
	if evaluation.Status != domain.EvaluationStatusActive {
		return nil, ErrEvaluationNotActive
	}

	criteria := make(map[uint]*domain.Criterion, len(evaluation.Criteria))
	for _, c := range evaluation.Criteria {
		criteria[c.ID] = c
	}

	items := make([]*domain.RatingItem, 0, len(answers))
	for _, answer := range answers {
		criterion, ok := criteria[answer.CriterionID]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownCriterion, answer.CriterionID)
		}
		items = append(items, &domain.RatingItem{
			CriterionID: answer.CriterionID,
			Score:       answer.Score,
			Comment:     answer.Comment,
			CommentAr:   answer.CommentAr,
			Criterion:   criterion,
		})
	}

	status := domain.RatingStatusSubmitted
	var submittedAt *time.Time
	if asDraft {
		status = domain.RatingStatusDraft
	} else {
		now := time.Now().UTC()
		submittedAt = &now
	}

	rating := &domain.Rating{
		EvaluationID: evaluationID,
		UserID:       userID,
		Status:       status,
		TotalScore:   domain.LegacyTotalScore(evaluation.Criteria, items),
		SubmittedAt:  submittedAt,
		Evaluation:   evaluation,
		Items:        items,
	}

	existing, err := s.ratings.GetByEvaluationAndUser(ctx, evaluationID, userID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if err := s.ratings.Create(ctx, rating); err != nil {
			return nil, err
		}
	} else {
		rating.ID = existing.ID
		if err := s.ratings.ReplaceItems(ctx, rating); err != nil {
			return nil, err
		}
	}

	s.logger.Info("rating recorded",
		zap.Uint("user_id", userID),
		zap.Uint("evaluation_id", evaluationID),
		zap.Int("answers", len(items)),
		zap.Bool("draft", asDraft),
		zap.Bool("overwrite", existing != nil),
	)

	if !asDraft && s.recommender != nil {
		s.recommender.InvalidateCatalog(ctx, userID)
	}

	return rating, nil
}

// SubmitDraft promotes an existing draft to SUBMITTED without changing
// its answers.
func (s *RatingService) SubmitDraft(ctx context.Context, userID, ratingID uint) (*domain.Rating, error) {
	rating, err := s.ratings.GetByID(ctx, ratingID)
	if err != nil {
		return nil, err
	}
	if rating == nil {
		return nil, ErrRatingNotFound
	}
	if rating.UserID != userID {
		return nil, ErrRatingNotOwned
	}

	now := time.Now().UTC()
	if err := s.ratings.UpdateStatus(ctx, ratingID, domain.RatingStatusSubmitted, &now); err != nil {
		return nil, err
	}
	rating.Status = domain.RatingStatusSubmitted
	rating.SubmittedAt = &now

	if s.recommender != nil {
		s.recommender.InvalidateCatalog(ctx, userID)
	}

	return rating, nil
}

// Get retrieves a rating, enforcing ownership.
func (s *RatingService) Get(ctx context.Context, userID, ratingID uint) (*domain.Rating, error) {
	rating, err := s.ratings.GetByID(ctx, ratingID)
	if err != nil {
		return nil, err
	}
	if rating == nil {
		return nil, ErrRatingNotFound
	}
	if rating.UserID != userID {
		return nil, ErrRatingNotOwned
	}

	return rating, nil
}

// GetForEvaluation retrieves the user's rating for one evaluation, or
// (nil, nil) when none exists.
func (s *RatingService) GetForEvaluation(ctx context.Context, userID, evaluationID uint) (*domain.Rating, error) {
	return s.ratings.GetByEvaluationAndUser(ctx, evaluationID, userID)
}

// ListByUser returns the user's ratings, optionally filtered by status.
func (s *RatingService) ListByUser(ctx context.Context, userID uint, status domain.RatingStatus) ([]*domain.Rating, error) {
	return s.ratings.List(ctx, domain.RatingListParams{
		UserID: userID,
		Status: status,
	})
}
