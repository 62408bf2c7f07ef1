package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"qayeem-service/internal/domain"
)

// ErrSettingNotFound is returned for setting lookups that find nothing.
var ErrSettingNotFound = errors.New("setting not found")

// SettingService manages operator settings.
type SettingService struct {
	settings domain.SettingRepository
	cache    domain.Cache
	logger   *zap.Logger
}

// NewSettingService creates a new SettingService. cache may be nil.
func NewSettingService(settings domain.SettingRepository, cache domain.Cache, logger *zap.Logger) *SettingService {
	return &SettingService{settings: settings, cache: cache, logger: logger}
}

// List returns every setting.
func (s *SettingService) List(ctx context.Context) ([]*domain.Setting, error) {
	return s.settings.List(ctx)
}

// Get returns one setting by key.
func (s *SettingService) Get(ctx context.Context, key string) (*domain.Setting, error) {
	setting, err := s.settings.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, ErrSettingNotFound
	}

	return setting, nil
}

// Upsert creates or updates a setting by key. Cached catalogs were built
// with the old values, so they are dropped and the change takes effect on
// the next request.
func (s *SettingService) Upsert(ctx context.Context, setting *domain.Setting) error {
	if err := s.settings.Upsert(ctx, setting); err != nil {
		return err
	}

	s.logger.Info("setting updated",
		zap.String("key", setting.Key),
		zap.String("value", setting.Value),
	)
	s.invalidateCaches(ctx)

	return nil
}

// Delete removes a setting.
func (s *SettingService) Delete(ctx context.Context, id uint) error {
	if err := s.settings.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCaches(ctx)

	return nil
}

func (s *SettingService) invalidateCaches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("failed to invalidate cached catalogs", zap.Error(err))
	}
}
