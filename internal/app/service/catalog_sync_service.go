package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"qayeem-service/internal/domain"
)

// defaultEnrichmentBatch bounds how many books one enrichment run touches.
const defaultEnrichmentBatch = 50

// CatalogSyncService enriches the catalog with metadata from an external
// provider: books with an ISBN but no page count or cover image get both
// filled in.
type CatalogSyncService struct {
	books    domain.BookRepository
	provider domain.MetadataProvider
	batch    int
	logger   *zap.Logger
}

// NewCatalogSyncService creates a new CatalogSyncService. batchSize of
// zero or less uses the default.
func NewCatalogSyncService(books domain.BookRepository, provider domain.MetadataProvider, batchSize int, logger *zap.Logger) *CatalogSyncService {
	if batchSize <= 0 {
		batchSize = defaultEnrichmentBatch
	}

	return &CatalogSyncService{
		books:    books,
		provider: provider,
		batch:    batchSize,
		logger:   logger,
	}
}

// SyncResult holds the outcome of one enrichment run.
type SyncResult struct {
	Provider string
	Checked  int
	Updated  int
	Missing  int
	Failed   int
	Duration time.Duration
}

// Sync runs one enrichment pass. Per-book failures are counted, not
// fatal; the run continues through the batch.
func (s *CatalogSyncService) Sync(ctx context.Context) (SyncResult, error) {
	start := time.Now()
	result := SyncResult{Provider: s.provider.Name()}

	books, err := s.books.ListMissingMetadata(ctx, s.batch)
	if err != nil {
		return result, err
	}
	result.Checked = len(books)

	for _, book := range books {
		if ctx.Err() != nil {
			result.Duration = time.Since(start)
			return result, ctx.Err()
		}

		meta, err := s.provider.Lookup(ctx, book.ISBN)
		if err != nil {
			result.Failed++
			s.logger.Warn("metadata lookup failed",
				zap.Uint("book_id", book.ID),
				zap.String("isbn", book.ISBN),
				zap.Error(err),
			)
			continue
		}
		if meta == nil {
			result.Missing++
			continue
		}

		if err := s.books.UpdateMetadata(ctx, book.ID, meta.Pages, meta.CoverImage); err != nil {
			result.Failed++
			s.logger.Warn("metadata update failed",
				zap.Uint("book_id", book.ID),
				zap.Error(err),
			)
			continue
		}
		result.Updated++
	}

	result.Duration = time.Since(start)
	s.logger.Info("catalog enrichment completed",
		zap.String("provider", result.Provider),
		zap.Int("checked", result.Checked),
		zap.Int("updated", result.Updated),
		zap.Int("missing", result.Missing),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}
