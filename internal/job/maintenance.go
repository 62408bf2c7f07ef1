// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"qayeem-service/internal/app/service"
	"qayeem-service/pkg/locker"
)

// MaintenanceScheduler runs periodic housekeeping with distributed
// locking so only one instance executes each job at a time: expired
// coupons are deactivated and the catalog is enriched with external
// metadata.
type MaintenanceScheduler struct {
	coupons  *service.CouponService
	catalog  *service.CatalogSyncService
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	locker   locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// MaintenanceConfig holds scheduler configuration.
type MaintenanceConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
}

// NewMaintenanceScheduler creates a new MaintenanceScheduler. catalog may
// be nil when no metadata provider is configured; the coupon sweep still
// runs.
func NewMaintenanceScheduler(
	coupons *service.CouponService,
	catalog *service.CatalogSyncService,
	cfg MaintenanceConfig,
	logger *zap.Logger,
	locker locker.DistributedLocker,
) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		coupons:  coupons,
		catalog:  catalog,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		logger:   logger,
		locker:   locker,
	}
}

// Start begins the background maintenance loop.
func (s *MaintenanceScheduler) Start(runOnStartup bool) {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting maintenance scheduler",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_startup", runOnStartup),
	)

	s.wg.Add(1)
	go s.run(runOnStartup)
}

// Stop gracefully stops the scheduler.
func (s *MaintenanceScheduler) Stop() {
	s.logger.Info("stopping maintenance scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("maintenance scheduler stopped")
}

func (s *MaintenanceScheduler) run(runOnStartup bool) {
	defer s.wg.Done()

	if runOnStartup {
		s.execute()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.execute()
		}
	}
}

// execute runs one maintenance pass under a distributed lock.
//
// Locking behavior:
//   - Lock TTL = interval duration (cooldown model, not timeout)
//   - Success: lock held for the full interval to prevent duplicate runs
//   - Failure: lock released immediately so another instance can retry
func (s *MaintenanceScheduler) execute() {
	const lockKey = "maintenance:scheduler:lock"

	acquired, err := s.locker.Acquire(s.ctx, lockKey, s.interval)
	if err != nil {
		s.logger.Error("failed to acquire distributed lock", zap.Error(err))

		return
	}
	if !acquired {
		s.logger.Debug("another instance is running maintenance, skipping execution")

		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	hasError := false

	if _, err := s.coupons.DeactivateExpired(ctx); err != nil {
		hasError = true
		s.logger.Warn("coupon sweep failed", zap.Error(err))
	}

	if s.catalog != nil {
		if _, err := s.catalog.Sync(ctx); err != nil {
			hasError = true
			s.logger.Warn("catalog enrichment failed", zap.Error(err))
		}
	}

	if hasError {
		// Release immediately so another instance can retry without
		// waiting out the cooldown.
		if err := s.locker.Release(s.ctx, lockKey); err != nil {
			s.logger.Error("failed to release lock after maintenance error", zap.Error(err))
		}
		s.logger.Info("maintenance completed with errors, lock released for retry")
	} else {
		s.logger.Info("maintenance completed, lock held for cooldown",
			zap.Duration("cooldown", s.interval),
		)
	}
}
