package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qayeem-service/internal/domain"
)

type recommendationFixture struct {
	books   *fakeBookRepo
	links   *fakeLinkRepo
	ratings *fakeRatingRepo
	cache   *fakeCache
	svc     *RecommendationService
}

// newRecommendationFixture sets up one ACTIVE book directly linked to
// evaluation 5 and a submitted rating that scores 100% on it, plus a
// second active book with no links at all.
func newRecommendationFixture(cache *fakeCache) *recommendationFixture {
	criterion := &domain.Criterion{
		ID:                 10,
		EvaluationID:       5,
		Weight:             1,
		MaxScore:           5,
		QuestionPercentage: 100,
		Answer5Percentage:  100,
	}
	evaluation := &domain.Evaluation{
		ID:       5,
		Title:    "Engineering Practices",
		Status:   domain.EvaluationStatusActive,
		Criteria: []*domain.Criterion{criterion},
	}
	link := &domain.BookEvaluation{
		EvaluationID: 5,
		Target:       domain.DirectTarget(1),
		Evaluation:   evaluation,
	}

	f := &recommendationFixture{
		books: &fakeBookRepo{
			books: map[uint]*domain.Book{
				1: {ID: 1, Title: "Refactoring", Status: domain.BookStatusActive, BookType: domain.BookTypePractices, Price: 100},
				2: {ID: 2, Title: "Unlinked", Status: domain.BookStatusActive, Price: 50},
			},
			directLinks: []*domain.BookEvaluation{link},
		},
		links:   &fakeLinkRepo{direct: map[uint][]*domain.BookEvaluation{1: {link}}},
		ratings: newFakeRatingRepo(),
		cache:   cache,
	}
	f.ratings.ratings[1] = &domain.Rating{
		ID:           1,
		EvaluationID: 5,
		UserID:       1,
		Status:       domain.RatingStatusSubmitted,
		Evaluation:   evaluation,
		Items:        []*domain.RatingItem{{CriterionID: 10, Score: 5, Criterion: criterion}},
	}

	var domainCache domain.Cache
	if cache != nil {
		domainCache = cache
	}
	f.svc = NewRecommendationService(f.books, f.links, f.ratings, fakeSettings{}, domainCache, zap.NewNop())
	return f
}

func TestRecommendationService_GetCatalog(t *testing.T) {
	f := newRecommendationFixture(nil)

	catalog, err := f.svc.GetCatalog(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 1, catalog.Total)
	assert.Equal(t, 1, catalog.Recommended)
	require.Len(t, catalog.Books, 1)
	match := catalog.Books[0]
	assert.Equal(t, uint(1), match.Book.ID)
	assert.True(t, match.IsRecommended)
	assert.Equal(t, 100.0, match.MatchPercentage)
}

func TestRecommendationService_GetCatalog_NoRatings(t *testing.T) {
	f := newRecommendationFixture(nil)

	catalog, err := f.svc.GetCatalog(context.Background(), 42)

	require.NoError(t, err)
	assert.Zero(t, catalog.Recommended)
	for _, match := range catalog.Books {
		assert.False(t, match.IsRecommended)
	}
}

func TestRecommendationService_GetCatalog_CachesResult(t *testing.T) {
	f := newRecommendationFixture(newFakeCache())
	ctx := context.Background()

	first, err := f.svc.GetCatalog(ctx, 1)
	require.NoError(t, err)

	second, err := f.svc.GetCatalog(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, f.books.listActiveCalls)
	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first.Recommended, second.Recommended)
}

func TestRecommendationService_InvalidateCatalog(t *testing.T) {
	f := newRecommendationFixture(newFakeCache())
	ctx := context.Background()

	_, err := f.svc.GetCatalog(ctx, 1)
	require.NoError(t, err)

	f.svc.InvalidateCatalog(ctx, 1)

	_, err = f.svc.GetCatalog(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, f.books.listActiveCalls)
}

func TestRecommendationService_GetCatalog_PerUserCache(t *testing.T) {
	f := newRecommendationFixture(newFakeCache())
	ctx := context.Background()

	_, err := f.svc.GetCatalog(ctx, 1)
	require.NoError(t, err)

	_, err = f.svc.GetCatalog(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, f.books.listActiveCalls)
}

func TestRecommendationService_GetBookMatch(t *testing.T) {
	f := newRecommendationFixture(nil)
	ctx := context.Background()

	t.Run("recommended book", func(t *testing.T) {
		match, err := f.svc.GetBookMatch(ctx, 1, 1)

		require.NoError(t, err)
		require.NotNil(t, match)
		assert.True(t, match.IsRecommended)
		require.Len(t, match.EvaluationResults, 1)
		assert.True(t, match.EvaluationResults[0].IsPassed)
	})

	t.Run("book without links", func(t *testing.T) {
		match, err := f.svc.GetBookMatch(ctx, 1, 2)

		require.NoError(t, err)
		require.NotNil(t, match)
		assert.False(t, match.IsRecommended)
		assert.Empty(t, match.EvaluationResults)
	})

	t.Run("unknown book", func(t *testing.T) {
		match, err := f.svc.GetBookMatch(ctx, 1, 99)

		require.NoError(t, err)
		assert.Nil(t, match)
	})
}

// The detail endpoint scores ratings with the weighted formula, not the
// catalog's answer-percentage one. The fixture criterion carries no
// Answer4Percentage, so a score of 4 earns nothing under the catalog
// strategy but 80% under the weighted one.
func TestRecommendationService_GetBookMatch_WeightedScoring(t *testing.T) {
	f := newRecommendationFixture(nil)
	criterion := f.ratings.ratings[1].Evaluation.Criteria[0]
	f.ratings.ratings[2] = &domain.Rating{
		ID:           2,
		EvaluationID: 5,
		UserID:       2,
		Status:       domain.RatingStatusSubmitted,
		Evaluation:   f.ratings.ratings[1].Evaluation,
		Items:        []*domain.RatingItem{{CriterionID: 10, Score: 4, Criterion: criterion}},
	}

	match, err := f.svc.GetBookMatch(context.Background(), 2, 1)

	require.NoError(t, err)
	require.NotNil(t, match)
	require.Len(t, match.EvaluationResults, 1)
	assert.Equal(t, 80.0, match.EvaluationResults[0].UserScore)
	assert.True(t, match.EvaluationResults[0].IsPassed)
	assert.Equal(t, 80.0, match.MatchPercentage)
	assert.True(t, match.IsRecommended)
}
