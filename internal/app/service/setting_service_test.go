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

func TestSettingService_UpsertAndGet(t *testing.T) {
	repo := newFakeSettingRepo()
	svc := NewSettingService(repo, nil, zap.NewNop())
	ctx := context.Background()

	err := svc.Upsert(ctx, &domain.Setting{Key: "recommendation_threshold", Value: "80"})
	require.NoError(t, err)

	setting, err := svc.Get(ctx, "recommendation_threshold")
	require.NoError(t, err)
	assert.Equal(t, "80", setting.Value)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

// An updated setting must be visible on the very next catalog read, not
// after the cached copy expires.
func TestSettingService_UpsertForcesCatalogRecomputation(t *testing.T) {
	cache := newFakeCache()
	f := newRecommendationFixture(cache)
	settingRepo := newFakeSettingRepo()
	recSvc := NewRecommendationService(f.books, f.links, f.ratings, settingRepo, cache, zap.NewNop())
	settingSvc := NewSettingService(settingRepo, cache, zap.NewNop())
	ctx := context.Background()

	catalog, err := recSvc.GetCatalog(ctx, 1)
	require.NoError(t, err)
	require.Len(t, catalog.Books, 1)
	assert.False(t, catalog.Books[0].HasDiscount)
	assert.Equal(t, 1, f.books.listActiveCalls)

	err = settingSvc.Upsert(ctx, &domain.Setting{Key: "recommended_book_discount", Value: "20"})
	require.NoError(t, err)

	catalog, err = recSvc.GetCatalog(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, f.books.listActiveCalls)
	require.Len(t, catalog.Books, 1)
	assert.True(t, catalog.Books[0].HasDiscount)
	assert.Equal(t, 80.0, catalog.Books[0].DiscountedPrice)
}

func TestSettingService_DeleteInvalidatesCatalogs(t *testing.T) {
	cache := newFakeCache()
	repo := newFakeSettingRepo()
	svc := NewSettingService(repo, cache, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.Upsert(ctx, &domain.Setting{Key: "recommendation_threshold", Value: "80"}))

	setting, err := repo.GetByKey(ctx, "recommendation_threshold")
	require.NoError(t, err)

	cache.data[redis.CatalogKey(1)] = []byte("stale")
	require.NoError(t, svc.Delete(ctx, setting.ID))
	assert.Empty(t, cache.data)
}
