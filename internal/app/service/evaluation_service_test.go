package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qayeem-service/internal/domain"
	"qayeem-service/internal/infra/redis"
)

type evaluationFixture struct {
	evaluations *fakeEvaluationRepo
	links       *fakeLinkRepo
	books       *fakeBookRepo
	cache       *fakeCache
	svc         *EvaluationService
}

func newEvaluationFixture() *evaluationFixture {
	f := &evaluationFixture{
		evaluations: &fakeEvaluationRepo{
			evaluations: map[uint]*domain.Evaluation{
				5: {
					ID:      5,
					Title:   "Engineering Practices",
					TitleAr: "ممارسات هندسية",
					Status:  domain.EvaluationStatusActive,
					Criteria: []*domain.Criterion{
						{ID: 10, EvaluationID: 5, Text: "Clarity", Weight: 2, MaxScore: 5},
						{ID: 11, EvaluationID: 5, Text: "Depth", Weight: 1, MaxScore: 5},
					},
				},
			},
		},
		links: &fakeLinkRepo{direct: map[uint][]*domain.BookEvaluation{}},
		books: &fakeBookRepo{
			books: map[uint]*domain.Book{
				1: {ID: 1, Title: "Refactoring", Status: domain.BookStatusActive},
			},
		},
		cache: newFakeCache(),
	}
	f.svc = NewEvaluationService(f.evaluations, f.links, f.books, f.cache, zap.NewNop())
	return f
}

func TestEvaluationService_Clone(t *testing.T) {
	f := newEvaluationFixture()

	clone, err := f.svc.Clone(context.Background(), 5)

	require.NoError(t, err)
	assert.NotEqual(t, uint(5), clone.ID)
	assert.Equal(t, "Engineering Practices (Copy)", clone.Title)
	assert.Equal(t, "ممارسات هندسية (نسخة)", clone.TitleAr)
	assert.Equal(t, domain.EvaluationStatusDraft, clone.Status)
	require.Len(t, clone.Criteria, 2)
	assert.Zero(t, clone.Criteria[0].ID)
	assert.Equal(t, "Clarity", clone.Criteria[0].Text)
}

func TestEvaluationService_Clone_NotFound(t *testing.T) {
	f := newEvaluationFixture()

	_, err := f.svc.Clone(context.Background(), 99)

	assert.ErrorIs(t, err, ErrEvaluationNotFound)
}

// Linking and unlinking change which evaluations count toward a book, so
// every cached catalog built before the change must be dropped.
func TestEvaluationService_LinkBookInvalidatesCatalogs(t *testing.T) {
	f := newEvaluationFixture()
	ctx := context.Background()
	f.cache.data[redis.CatalogKey(1)] = []byte("stale")

	err := f.svc.LinkBook(ctx, 5, 1, true, 70, 0)

	require.NoError(t, err)
	require.Len(t, f.links.direct[1], 1)
	assert.Empty(t, f.cache.data)
}

func TestEvaluationService_LinkBookTypeInvalidatesCatalogs(t *testing.T) {
	f := newEvaluationFixture()
	ctx := context.Background()
	f.cache.data[redis.CatalogKey(1)] = []byte("stale")

	err := f.svc.LinkBookType(ctx, 5, domain.BookTypePatterns, false, 60, 0)

	require.NoError(t, err)
	require.Len(t, f.links.typed, 1)
	assert.Empty(t, f.cache.data)
}

func TestEvaluationService_LinkBookType_EmptyType(t *testing.T) {
	f := newEvaluationFixture()

	err := f.svc.LinkBookType(context.Background(), 5, "", false, 60, 0)

	assert.ErrorIs(t, err, ErrLinkTargetInvalid)
}

func TestEvaluationService_UnlinkBookInvalidatesCatalogs(t *testing.T) {
	f := newEvaluationFixture()
	ctx := context.Background()
	require.NoError(t, f.svc.LinkBook(ctx, 5, 1, true, 70, 0))
	f.cache.data[redis.CatalogKey(1)] = []byte("stale")

	err := f.svc.UnlinkBook(ctx, 5, 1)

	require.NoError(t, err)
	assert.Empty(t, f.links.direct[1])
	assert.Empty(t, f.cache.data)
}

func TestEvaluationService_LinkBook_MissingTargets(t *testing.T) {
	f := newEvaluationFixture()
	ctx := context.Background()

	err := f.svc.LinkBook(ctx, 99, 1, true, 70, 0)
	assert.ErrorIs(t, err, ErrEvaluationNotFound)

	err = f.svc.LinkBook(ctx, 5, 99, true, 70, 0)
	assert.ErrorIs(t, err, ErrBookNotFound)
}
