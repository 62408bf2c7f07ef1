// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"qayeem-service/internal/app/service"
	"qayeem-service/internal/transport/httpserver/handler"
	"qayeem-service/internal/transport/httpserver/middleware"
	"qayeem-service/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port      int
	BodyLimit int
	JWTSecret string
}

// Services bundles the application services the router wires in.
type Services struct {
	Books           *service.BookService
	Evaluations     *service.EvaluationService
	Ratings         *service.RatingService
	Recommendations *service.RecommendationService
	Payments        *service.PaymentService
	Coupons         *service.CouponService
	Progress        *service.ProgressService
	Settings        *service.SettingService
	CatalogSync     *service.CatalogSyncService
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg ServerConfig,
	svcs Services,
	db *gorm.DB,
	v *validator.Validator,
	logger *zap.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "qayeem-service",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
	})

	// Probes go first so they bypass logging and compression.
	app.Use(middleware.NewHealthCheck(db))

	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(middleware.CORS())
	app.Use(compress.New())

	// Create handlers
	bookHandler := handler.NewBookHandler(svcs.Books, v, logger)
	evaluationHandler := handler.NewEvaluationHandler(svcs.Evaluations, v, logger)
	ratingHandler := handler.NewRatingHandler(svcs.Ratings, v, logger)
	recommendationHandler := handler.NewRecommendationHandler(svcs.Recommendations, logger)
	paymentHandler := handler.NewPaymentHandler(svcs.Payments, v, logger)
	couponHandler := handler.NewCouponHandler(svcs.Coupons, v, logger)
	progressHandler := handler.NewProgressHandler(svcs.Progress, v, logger)
	settingHandler := handler.NewSettingHandler(svcs.Settings, v, logger)
	adminHandler := handler.NewAdminHandler(svcs.CatalogSync, svcs.Coupons, logger)

	auth := middleware.Auth(cfg.JWTSecret)
	admin := middleware.RequireAdmin()

	v1 := app.Group("/api/v1")

	// Public catalog
	books := v1.Group("/books")
	books.Get("/", bookHandler.List)
	books.Get("/:id", bookHandler.Get)
	books.Get("/:id/reviews", bookHandler.ListReviews)
	books.Post("/:id/reviews", auth, bookHandler.AddReview)

	// Evaluations visible to users
	evaluations := v1.Group("/evaluations")
	evaluations.Get("/", evaluationHandler.ListActive)
	evaluations.Get("/:id", evaluationHandler.Get)
	evaluations.Get("/:id/rating", auth, ratingHandler.GetForEvaluation)

	// Ratings
	ratings := v1.Group("/ratings", auth)
	ratings.Get("/", ratingHandler.ListMine)
	ratings.Post("/", ratingHandler.Submit)
	ratings.Get("/:id", ratingHandler.Get)
	ratings.Post("/:id/submit", ratingHandler.SubmitDraft)

	// Recommendations
	recommendations := v1.Group("/recommendations", auth)
	recommendations.Get("/", recommendationHandler.GetCatalog)
	recommendations.Get("/books/:id", recommendationHandler.GetBookMatch)

	// Payments
	payments := v1.Group("/payments", auth)
	payments.Get("/", paymentHandler.List)
	payments.Post("/", paymentHandler.Create)
	payments.Get("/:id", paymentHandler.Get)

	// Coupon validation (no redemption)
	v1.Post("/coupons/validate", auth, paymentHandler.ValidateCoupon)

	// Reading progress
	progress := v1.Group("/progress", auth)
	progress.Get("/", progressHandler.ListMine)
	progress.Put("/", progressHandler.Record)
	progress.Get("/books/:id", progressHandler.Get)

	// Admin routes
	adm := v1.Group("/admin", auth, admin)

	adm.Post("/books", bookHandler.Create)
	adm.Get("/books/statistics", bookHandler.Statistics)
	adm.Put("/books/:id", bookHandler.Update)
	adm.Patch("/books/:id/status", bookHandler.UpdateStatus)
	adm.Delete("/books/:id", bookHandler.Delete)

	adm.Patch("/reviews/:id/approval", bookHandler.ApproveReview)
	adm.Delete("/reviews/:id", bookHandler.DeleteReview)

	adm.Get("/evaluations", evaluationHandler.List)
	adm.Post("/evaluations", evaluationHandler.Create)
	adm.Post("/evaluations/:id/clone", evaluationHandler.Clone)
	adm.Put("/evaluations/:id", evaluationHandler.Update)
	adm.Patch("/evaluations/:id/status", evaluationHandler.UpdateStatus)
	adm.Delete("/evaluations/:id", evaluationHandler.Delete)
	adm.Post("/evaluations/:id/criteria", evaluationHandler.AddCriterion)
	adm.Put("/evaluations/:id/criteria/:criterionID", evaluationHandler.UpdateCriterion)
	adm.Delete("/evaluations/:id/criteria/:criterionID", evaluationHandler.DeleteCriterion)
	adm.Get("/evaluations/:id/links", evaluationHandler.ListLinks)
	adm.Post("/evaluations/:id/links", evaluationHandler.Link)
	adm.Delete("/evaluations/:id/links/books/:bookID", evaluationHandler.Unlink)

	adm.Patch("/payments/:id/status", paymentHandler.UpdateStatus)

	adm.Get("/coupons", couponHandler.List)
	adm.Post("/coupons", couponHandler.Create)
	adm.Post("/coupons/sweep", adminHandler.SweepCoupons)
	adm.Get("/coupons/:id", couponHandler.Get)
	adm.Put("/coupons/:id", couponHandler.Update)
	adm.Delete("/coupons/:id", couponHandler.Delete)

	adm.Get("/settings", settingHandler.List)
	adm.Put("/settings", settingHandler.Upsert)
	adm.Get("/settings/:key", settingHandler.Get)
	adm.Delete("/settings/:id", settingHandler.Delete)

	adm.Post("/sync", adminHandler.SyncCatalog)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		// Log based on status code - 404s are common and not server errors
		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		case code >= 400:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Error("unhandled error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "UNHANDLED_ERROR",
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
