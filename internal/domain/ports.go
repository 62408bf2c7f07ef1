package domain

import (
	"context"
	"time"
)

// Repositories return (nil, nil) for point lookups that find nothing;
// callers translate that into a not-found condition at the boundary.
// Implementations: internal/infra/postgres.

// BookRepository defines persistence operations over books, categories
// and reviews.
type BookRepository interface {
	// ListActiveWithLinks returns every ACTIVE book together with its
	// category, approved reviews, and direct evaluation links (each link
	// carrying its evaluation and criteria). Type-class links are fetched
	// separately through LinkRepository.
	ListActiveWithLinks(ctx context.Context) ([]*Book, []*BookEvaluation, error)

	GetByID(ctx context.Context, id uint) (*Book, error)
	List(ctx context.Context, params BookListParams) ([]*Book, int64, error)
	Create(ctx context.Context, book *Book) error
	Update(ctx context.Context, book *Book) error
	Delete(ctx context.Context, id uint) error
	Statistics(ctx context.Context) (*BookStatistics, error)

	// ListMissingMetadata returns ACTIVE books that have an ISBN but lack
	// a page count or cover image, for catalog enrichment.
	ListMissingMetadata(ctx context.Context, limit int) ([]*Book, error)
	UpdateMetadata(ctx context.Context, id uint, pages int, coverImage string) error
}

// BookListParams filters and paginates catalog listings.
type BookListParams struct {
	Status     BookStatus
	BookType   BookType
	CategoryID uint
	Query      string
	Page       int
	PageSize   int
}

// Normalize clamps paging parameters into usable bounds.
func (p *BookListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// Offset returns the database offset for the current page.
func (p *BookListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ReviewRepository defines persistence operations over book reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *BookReview) error
	GetByID(ctx context.Context, id uint) (*BookReview, error)
	ListForBook(ctx context.Context, bookID uint, approvedOnly bool) ([]*BookReview, error)
	SetApproved(ctx context.Context, id uint, approved bool) error
	Delete(ctx context.Context, id uint) error
}

// EvaluationRepository defines persistence operations over evaluations
// and their criteria.
type EvaluationRepository interface {
	GetByID(ctx context.Context, id uint) (*Evaluation, error)
	List(ctx context.Context, status EvaluationStatus) ([]*Evaluation, error)
	Create(ctx context.Context, evaluation *Evaluation) error
	Update(ctx context.Context, evaluation *Evaluation) error
	UpdateStatus(ctx context.Context, id uint, status EvaluationStatus) error
	Delete(ctx context.Context, id uint) error

	CreateCriterion(ctx context.Context, criterion *Criterion) error
	UpdateCriterion(ctx context.Context, criterion *Criterion) error
	DeleteCriterion(ctx context.Context, id uint) error
}

// RatingRepository defines persistence operations over ratings and their
// items. The (evaluationID, userID) pair is unique.
type RatingRepository interface {
	GetByID(ctx context.Context, id uint) (*Rating, error)
	GetByEvaluationAndUser(ctx context.Context, evaluationID, userID uint) (*Rating, error)
	List(ctx context.Context, params RatingListParams) ([]*Rating, error)

	// ListSubmittedByUser returns the user's SUBMITTED ratings with their
	// items, criteria, and owning evaluations (criteria included).
	ListSubmittedByUser(ctx context.Context, userID uint) ([]*Rating, error)
	ListSubmittedByUserForEvaluations(ctx context.Context, userID uint, evaluationIDs []uint) ([]*Rating, error)

	Create(ctx context.Context, rating *Rating) error
	// ReplaceItems deletes the rating's items and recreates them, then
	// updates totalScore, status and submittedAt. This is the overwrite
	// path for re-submission.
	ReplaceItems(ctx context.Context, rating *Rating) error
	UpdateStatus(ctx context.Context, id uint, status RatingStatus, submittedAt *time.Time) error
}

// RatingListParams filters rating listings.
type RatingListParams struct {
	EvaluationID uint
	UserID       uint
	Status       RatingStatus
}

// LinkRepository defines persistence operations over book-evaluation
// linkages.
type LinkRepository interface {
	// ListTypeLinks returns every type-class linkage (bookType set, no
	// book id), with evaluations and criteria.
	ListTypeLinks(ctx context.Context) ([]*BookEvaluation, error)
	// ListForBook returns the union of direct links for bookID and
	// type-class links for bookType, with evaluations and criteria.
	ListForBook(ctx context.Context, bookID uint, bookType BookType) ([]*BookEvaluation, error)
	ListDirect(ctx context.Context, bookID uint) ([]*BookEvaluation, error)
	ListForEvaluation(ctx context.Context, evaluationID uint) ([]*BookEvaluation, error)
	Upsert(ctx context.Context, link *BookEvaluation) error
	DeleteDirect(ctx context.Context, bookID, evaluationID uint) error
}

// SettingsProvider exposes read access to operator settings. The
// recommendation engine takes this capability rather than a concrete
// store so a cached or snapshot-consistent implementation can be swapped
// in without touching the engine.
type SettingsProvider interface {
	// Get returns the raw value for key, or "" when the key is absent.
	Get(ctx context.Context, key string) (string, error)
}

// SettingRepository extends SettingsProvider with admin CRUD.
type SettingRepository interface {
	SettingsProvider

	List(ctx context.Context) ([]*Setting, error)
	GetByKey(ctx context.Context, key string) (*Setting, error)
	Upsert(ctx context.Context, setting *Setting) error
	Delete(ctx context.Context, id uint) error
}

// CouponRepository defines persistence operations over discount coupons.
type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*DiscountCoupon, error)
	GetByID(ctx context.Context, id uint) (*DiscountCoupon, error)
	List(ctx context.Context, activeOnly bool) ([]*DiscountCoupon, error)
	Create(ctx context.Context, coupon *DiscountCoupon) error
	Update(ctx context.Context, coupon *DiscountCoupon) error
	Delete(ctx context.Context, id uint) error

	// Redeem increments the coupon's used count if and only if the usage
	// limit has not been reached, as a single conditional update. Returns
	// false when the limit was already exhausted, which guards against
	// concurrent over-redemption.
	Redeem(ctx context.Context, id uint) (bool, error)

	// DeactivateExpired flags every active coupon whose validity window
	// has closed. Returns the number of coupons deactivated.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// PaymentRepository defines persistence operations over payments.
type PaymentRepository interface {
	// Create persists the payment together with its initial history entry.
	Create(ctx context.Context, payment *Payment, initialNote, initialNoteAr string) error
	GetByID(ctx context.Context, id uint) (*Payment, error)
	List(ctx context.Context, params PaymentListParams) ([]*Payment, int64, error)
	// UpdateStatus transitions the payment and appends a history entry in
	// one transaction.
	UpdateStatus(ctx context.Context, id uint, status PaymentStatus, notes, notesAr string) (*Payment, error)
}

// PaymentListParams filters and paginates payment listings.
type PaymentListParams struct {
	UserID   uint
	BookID   uint
	Status   PaymentStatus
	Method   PaymentMethod
	Page     int
	PageSize int
}

// Normalize clamps paging parameters into usable bounds.
func (p *PaymentListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 10
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// Offset returns the database offset for the current page.
func (p *PaymentListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ProgressRepository defines persistence operations over reading progress.
type ProgressRepository interface {
	Upsert(ctx context.Context, progress *BookProgress) error
	GetByUserAndBook(ctx context.Context, userID, bookID uint) (*BookProgress, error)
	ListByUser(ctx context.Context, userID uint) ([]*BookProgress, error)
}

// Cache defines the interface for caching catalog responses.
// Implementations: internal/infra/redis.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// MetadataProvider fetches book metadata from an external catalog.
// Implementations: internal/infra/catalog.
type MetadataProvider interface {
	Name() string
	// Lookup fetches metadata by ISBN. Returns (nil, nil) when the ISBN
	// is unknown to the provider.
	Lookup(ctx context.Context, isbn string) (*BookMetadata, error)
	HealthCheck(ctx context.Context) error
}

// BookMetadata is externally sourced catalog data for one title.
type BookMetadata struct {
	ISBN       string
	Pages      int
	CoverImage string
	Publisher  string
}
