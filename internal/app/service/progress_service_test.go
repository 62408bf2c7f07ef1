package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qayeem-service/internal/domain"
)

func newProgressFixture() (*ProgressService, *fakeProgressRepo) {
	books := &fakeBookRepo{books: map[uint]*domain.Book{
		1: {ID: 1, Title: "Refactoring", Status: domain.BookStatusActive, Pages: 400},
		2: {ID: 2, Title: "No Page Count", Status: domain.BookStatusActive},
	}}
	repo := newFakeProgressRepo()
	return NewProgressService(repo, books, zap.NewNop()), repo
}

func TestProgressService_Record(t *testing.T) {
	svc, _ := newProgressFixture()

	progress, err := svc.Record(context.Background(), 1, 1, 100)

	require.NoError(t, err)
	assert.Equal(t, 100, progress.PagesRead)
	assert.Equal(t, 400, progress.TotalPages)
	assert.Equal(t, 25.0, progress.Percentage)
	assert.Nil(t, progress.CompletedAt)
}

func TestProgressService_Record_Completion(t *testing.T) {
	svc, _ := newProgressFixture()

	progress, err := svc.Record(context.Background(), 1, 1, 400)

	require.NoError(t, err)
	assert.Equal(t, 100.0, progress.Percentage)
	require.NotNil(t, progress.CompletedAt)
}

func TestProgressService_Record_ClampsPast100(t *testing.T) {
	svc, _ := newProgressFixture()

	progress, err := svc.Record(context.Background(), 1, 1, 450)

	require.NoError(t, err)
	assert.Equal(t, 100.0, progress.Percentage)
	assert.Equal(t, 450, progress.PagesRead)
	require.NotNil(t, progress.CompletedAt)
}

func TestProgressService_Record_DefaultPageCount(t *testing.T) {
	svc, _ := newProgressFixture()

	progress, err := svc.Record(context.Background(), 1, 2, 150)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTotalPages, progress.TotalPages)
	assert.Equal(t, 50.0, progress.Percentage)
}

func TestProgressService_Record_Errors(t *testing.T) {
	svc, _ := newProgressFixture()
	ctx := context.Background()

	_, err := svc.Record(ctx, 1, 1, -1)
	assert.ErrorIs(t, err, ErrInvalidPages)

	_, err = svc.Record(ctx, 1, 99, 10)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestProgressService_Record_Overwrites(t *testing.T) {
	svc, repo := newProgressFixture()
	ctx := context.Background()

	_, err := svc.Record(ctx, 1, 1, 50)
	require.NoError(t, err)
	_, err = svc.Record(ctx, 1, 1, 200)
	require.NoError(t, err)

	stored, err := svc.Get(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 200, stored.PagesRead)
	assert.Len(t, repo.byUserBook, 1)
}

func TestProgressService_Get_NotStarted(t *testing.T) {
	svc, _ := newProgressFixture()

	progress, err := svc.Get(context.Background(), 1, 1)

	require.NoError(t, err)
	assert.Nil(t, progress)
}
