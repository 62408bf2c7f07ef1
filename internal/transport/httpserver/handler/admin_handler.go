package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"qayeem-service/internal/app/service"
	"qayeem-service/internal/transport/httpserver/dto"
)

// AdminHandler handles maintenance operations triggered by operators.
type AdminHandler struct {
	catalogSync *service.CatalogSyncService
	coupons     *service.CouponService
	logger      *zap.Logger
}

// NewAdminHandler creates a new AdminHandler. catalogSync may be nil when
// no metadata provider is configured.
func NewAdminHandler(catalogSync *service.CatalogSyncService, coupons *service.CouponService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		catalogSync: catalogSync,
		coupons:     coupons,
		logger:      logger,
	}
}

// SyncCatalog handles POST /api/v1/admin/sync
func (h *AdminHandler) SyncCatalog(c *fiber.Ctx) error {
	if h.catalogSync == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: "no metadata provider configured",
			Code:  "SYNC_UNAVAILABLE",
		})
	}

	h.logger.Info("manual catalog sync triggered")

	result, err := h.catalogSync.Sync(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "SYNC_FAILED",
		})
	}

	return c.JSON(dto.FromSyncResult(result))
}

// SweepCoupons handles POST /api/v1/admin/coupons/sweep
func (h *AdminHandler) SweepCoupons(c *fiber.Ctx) error {
	count, err := h.coupons.DeactivateExpired(c.Context())
	if err != nil {
		return internalError(c, "failed to sweep coupons")
	}

	return c.JSON(fiber.Map{"deactivated": count})
}
