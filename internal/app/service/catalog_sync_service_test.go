package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qayeem-service/internal/domain"
)

func TestCatalogSyncService_Sync(t *testing.T) {
	books := &fakeBookRepo{books: map[uint]*domain.Book{
		1: {ID: 1, Status: domain.BookStatusActive, ISBN: "9780132350884"},
		2: {ID: 2, Status: domain.BookStatusActive, ISBN: "9999999999999"},
		3: {ID: 3, Status: domain.BookStatusActive, ISBN: "9780201633610"},
		4: {ID: 4, Status: domain.BookStatusActive, ISBN: "", Pages: 0},
		5: {ID: 5, Status: domain.BookStatusActive, ISBN: "9780134757599", Pages: 416, CoverImage: "https://covers.example.com/refactoring2.jpg"},
	}}
	provider := &fakeMetadataProvider{
		metadata: map[string]*domain.BookMetadata{
			"9780132350884": {ISBN: "9780132350884", Pages: 464, CoverImage: "https://covers.example.com/cleancode.jpg"},
		},
		failISBN: "9780201633610",
	}
	svc := NewCatalogSyncService(books, provider, 10, zap.NewNop())

	result, err := svc.Sync(context.Background())

	require.NoError(t, err)
	// Books 4 (no ISBN) and 5 (already enriched) are out of scope.
	assert.Equal(t, 3, result.Checked)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Missing)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, "fakelib", result.Provider)

	assert.Equal(t, 464, books.books[1].Pages)
	assert.Equal(t, "https://covers.example.com/cleancode.jpg", books.books[1].CoverImage)
}

func TestCatalogSyncService_Sync_NothingToEnrich(t *testing.T) {
	books := &fakeBookRepo{books: map[uint]*domain.Book{}}
	svc := NewCatalogSyncService(books, &fakeMetadataProvider{}, 0, zap.NewNop())

	result, err := svc.Sync(context.Background())

	require.NoError(t, err)
	assert.Zero(t, result.Checked)
	assert.Zero(t, result.Updated)
}

func TestCatalogSyncService_Sync_CancelledContext(t *testing.T) {
	books := &fakeBookRepo{books: map[uint]*domain.Book{
		1: {ID: 1, Status: domain.BookStatusActive, ISBN: "9780132350884"},
	}}
	svc := NewCatalogSyncService(books, &fakeMetadataProvider{}, 10, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Sync(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
