package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"qayeem-service/internal/domain"
	"qayeem-service/internal/infra/redis"
)

// catalogCacheTTL is short on purpose: a fresh rating submission or a
// settings edit must surface quickly.
const catalogCacheTTL = 2 * time.Minute

// RecommendationService computes per-user book recommendations.
type RecommendationService struct {
	books    domain.BookRepository
	links    domain.LinkRepository
	ratings  domain.RatingRepository
	settings domain.SettingsProvider
	cache    domain.Cache
	logger   *zap.Logger
}

// NewRecommendationService creates a new RecommendationService. cache is
// optional; a nil cache disables catalog caching.
func NewRecommendationService(
	books domain.BookRepository,
	links domain.LinkRepository,
	ratings domain.RatingRepository,
	settings domain.SettingsProvider,
	cache domain.Cache,
	logger *zap.Logger,
) *RecommendationService {
	return &RecommendationService{
		books:    books,
		links:    links,
		ratings:  ratings,
		settings: settings,
		cache:    cache,
		logger:   logger,
	}
}

// GetCatalog assembles the recommendation catalog for one user: every
// ACTIVE book scored against the user's submitted ratings, banded, and
// capped.
func (s *RecommendationService) GetCatalog(ctx context.Context, userID uint) (*domain.Catalog, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, redis.CatalogKey(userID)); err == nil && data != nil {
			var catalog domain.Catalog
			if err := json.Unmarshal(data, &catalog); err == nil {
				s.logger.Debug("catalog cache hit", zap.Uint("user_id", userID))

				return &catalog, nil
			}
		}
	}

	catalog, err := s.computeCatalog(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(catalog); err == nil {
			_ = s.cache.Set(ctx, redis.CatalogKey(userID), data, catalogCacheTTL)
		}
	}

	return catalog, nil
}

func (s *RecommendationService) computeCatalog(ctx context.Context, userID uint) (*domain.Catalog, error) {
	settings, err := loadRecommendationSettings(ctx, s.settings)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	books, directLinks, err := s.books.ListActiveWithLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}

	typeLinks, err := s.links.ListTypeLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing type links: %w", err)
	}

	ratings, err := s.ratings.ListSubmittedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing ratings: %w", err)
	}
	scores := domain.ScoresByEvaluation(ratings)

	directByBook := make(map[uint][]*domain.BookEvaluation)
	for _, link := range directLinks {
		if id, ok := link.Target.BookID(); ok {
			directByBook[id] = append(directByBook[id], link)
		}
	}

	matches := make([]*domain.BookMatch, 0, len(books))
	for _, book := range books {
		effective := domain.EffectiveEvaluations(book, directByBook[book.ID], typeLinks)
		match := domain.EvaluateBook(book, effective, scores, settings.Threshold, settings.DiscountPct)
		matches = append(matches, match)
	}

	catalog := domain.AssembleCatalog(matches, len(ratings) > 0)

	s.logger.Debug("catalog computed",
		zap.Uint("user_id", userID),
		zap.Int("candidates", len(books)),
		zap.Int("shown", catalog.Total),
		zap.Int("recommended", catalog.Recommended),
	)

	return catalog, nil
}

// GetBookMatch computes the recommendation detail for one book. Returns
// (nil, nil) when the book does not exist.
func (s *RecommendationService) GetBookMatch(ctx context.Context, userID, bookID uint) (*domain.BookMatch, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, nil
	}

	settings, err := loadRecommendationSettings(ctx, s.settings)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	links, err := s.links.ListForBook(ctx, bookID, book.BookType)
	if err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}

	evaluationIDs := make([]uint, 0, len(links))
	for _, link := range links {
		evaluationIDs = append(evaluationIDs, link.EvaluationID)
	}

	ratings, err := s.ratings.ListSubmittedByUserForEvaluations(ctx, userID, evaluationIDs)
	if err != nil {
		return nil, fmt.Errorf("listing ratings: %w", err)
	}
	return domain.EvaluateBookDetail(book, links, ratings, settings.Threshold, settings.DiscountPct), nil
}

// InvalidateCatalog drops a user's cached catalog. Called after a rating
// submission so the next read recomputes.
func (s *RecommendationService) InvalidateCatalog(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, redis.CatalogKey(userID)); err != nil {
		s.logger.Warn("catalog cache invalidation failed",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
	}
}
