package service

import (
	"context"
	"time"

	"qayeem-service/internal/domain"
)

// In-memory fakes over the domain ports. Only the methods the services
// under test call are implemented; the embedded interface panics on
// anything else.

type fakeBookRepo struct {
	domain.BookRepository
	books           map[uint]*domain.Book
	directLinks     []*domain.BookEvaluation
	listActiveCalls int
}

func (f *fakeBookRepo) GetByID(_ context.Context, id uint) (*domain.Book, error) {
	return f.books[id], nil
}

func (f *fakeBookRepo) ListActiveWithLinks(_ context.Context) ([]*domain.Book, []*domain.BookEvaluation, error) {
	f.listActiveCalls++
	active := make([]*domain.Book, 0, len(f.books))
	for _, b := range f.books {
		if b.Status == domain.BookStatusActive {
			active = append(active, b)
		}
	}
	return active, f.directLinks, nil
}

func (f *fakeBookRepo) ListMissingMetadata(_ context.Context, limit int) ([]*domain.Book, error) {
	var out []*domain.Book
	for _, b := range f.books {
		if b.Status == domain.BookStatusActive && b.ISBN != "" && (b.Pages == 0 || b.CoverImage == "") {
			out = append(out, b)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeBookRepo) UpdateMetadata(_ context.Context, id uint, pages int, coverImage string) error {
	if b := f.books[id]; b != nil {
		b.Pages = pages
		b.CoverImage = coverImage
	}
	return nil
}

type fakeLinkRepo struct {
	domain.LinkRepository
	direct map[uint][]*domain.BookEvaluation
	typed  []*domain.BookEvaluation
}

func (f *fakeLinkRepo) ListTypeLinks(_ context.Context) ([]*domain.BookEvaluation, error) {
	return f.typed, nil
}

func (f *fakeLinkRepo) ListForBook(_ context.Context, bookID uint, bookType domain.BookType) ([]*domain.BookEvaluation, error) {
	links := append([]*domain.BookEvaluation{}, f.direct[bookID]...)
	for _, be := range f.typed {
		if bt, ok := be.Target.BookType(); ok && bt == bookType {
			links = append(links, be)
		}
	}
	return links, nil
}

func (f *fakeLinkRepo) Upsert(_ context.Context, link *domain.BookEvaluation) error {
	if bookID, ok := link.Target.BookID(); ok {
		if f.direct == nil {
			f.direct = make(map[uint][]*domain.BookEvaluation)
		}
		f.direct[bookID] = append(f.direct[bookID], link)
		return nil
	}
	f.typed = append(f.typed, link)
	return nil
}

func (f *fakeLinkRepo) DeleteDirect(_ context.Context, bookID, evaluationID uint) error {
	var kept []*domain.BookEvaluation
	for _, be := range f.direct[bookID] {
		if be.EvaluationID != evaluationID {
			kept = append(kept, be)
		}
	}
	f.direct[bookID] = kept
	return nil
}

type fakeRatingRepo struct {
	domain.RatingRepository
	ratings      map[uint]*domain.Rating
	nextID       uint
	replaceCalls int
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{ratings: make(map[uint]*domain.Rating), nextID: 1}
}

func (f *fakeRatingRepo) GetByID(_ context.Context, id uint) (*domain.Rating, error) {
	return f.ratings[id], nil
}

func (f *fakeRatingRepo) GetByEvaluationAndUser(_ context.Context, evaluationID, userID uint) (*domain.Rating, error) {
	for _, r := range f.ratings {
		if r.EvaluationID == evaluationID && r.UserID == userID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRatingRepo) List(_ context.Context, params domain.RatingListParams) ([]*domain.Rating, error) {
	var out []*domain.Rating
	for _, r := range f.ratings {
		if params.UserID != 0 && r.UserID != params.UserID {
			continue
		}
		if params.Status != "" && r.Status != params.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRatingRepo) ListSubmittedByUser(_ context.Context, userID uint) ([]*domain.Rating, error) {
	var out []*domain.Rating
	for _, r := range f.ratings {
		if r.UserID == userID && r.Status == domain.RatingStatusSubmitted {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRatingRepo) ListSubmittedByUserForEvaluations(ctx context.Context, userID uint, evaluationIDs []uint) ([]*domain.Rating, error) {
	all, _ := f.ListSubmittedByUser(ctx, userID)
	wanted := make(map[uint]bool, len(evaluationIDs))
	for _, id := range evaluationIDs {
		wanted[id] = true
	}
	var out []*domain.Rating
	for _, r := range all {
		if wanted[r.EvaluationID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRatingRepo) Create(_ context.Context, rating *domain.Rating) error {
	rating.ID = f.nextID
	f.nextID++
	f.ratings[rating.ID] = rating
	return nil
}

func (f *fakeRatingRepo) ReplaceItems(_ context.Context, rating *domain.Rating) error {
	f.replaceCalls++
	f.ratings[rating.ID] = rating
	return nil
}

func (f *fakeRatingRepo) UpdateStatus(_ context.Context, id uint, status domain.RatingStatus, submittedAt *time.Time) error {
	if r := f.ratings[id]; r != nil {
		r.Status = status
		r.SubmittedAt = submittedAt
	}
	return nil
}

type fakeEvaluationRepo struct {
	domain.EvaluationRepository
	evaluations map[uint]*domain.Evaluation
}

func (f *fakeEvaluationRepo) GetByID(_ context.Context, id uint) (*domain.Evaluation, error) {
	return f.evaluations[id], nil
}

func (f *fakeEvaluationRepo) Create(_ context.Context, evaluation *domain.Evaluation) error {
	var maxID uint
	for id := range f.evaluations {
		if id > maxID {
			maxID = id
		}
	}
	evaluation.ID = maxID + 1
	f.evaluations[evaluation.ID] = evaluation
	return nil
}

type fakeCouponRepo struct {
	domain.CouponRepository
	coupons     map[string]*domain.DiscountCoupon
	failRedeem  bool
	redeemCalls int
}

func (f *fakeCouponRepo) GetByCode(_ context.Context, code string) (*domain.DiscountCoupon, error) {
	return f.coupons[code], nil
}

func (f *fakeCouponRepo) Redeem(_ context.Context, id uint) (bool, error) {
	f.redeemCalls++
	if f.failRedeem {
		return false, nil
	}
	for _, c := range f.coupons {
		if c.ID == id {
			c.UsedCount++
			return true, nil
		}
	}
	return false, nil
}

type fakePaymentRepo struct {
	domain.PaymentRepository
	payments map[uint]*domain.Payment
	nextID   uint
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uint]*domain.Payment), nextID: 1}
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *domain.Payment, _, _ string) error {
	payment.ID = f.nextID
	f.nextID++
	f.payments[payment.ID] = payment
	return nil
}

func (f *fakePaymentRepo) GetByID(_ context.Context, id uint) (*domain.Payment, error) {
	return f.payments[id], nil
}

func (f *fakePaymentRepo) List(_ context.Context, params domain.PaymentListParams) ([]*domain.Payment, int64, error) {
	var out []*domain.Payment
	for _, p := range f.payments {
		if params.UserID != 0 && p.UserID != params.UserID {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

type fakeSettings map[string]string

func (f fakeSettings) Get(_ context.Context, key string) (string, error) {
	return f[key], nil
}

type fakeSettingRepo struct {
	byKey  map[string]*domain.Setting
	nextID uint
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{byKey: make(map[string]*domain.Setting), nextID: 1}
}

func (f *fakeSettingRepo) Get(_ context.Context, key string) (string, error) {
	if s := f.byKey[key]; s != nil {
		return s.Value, nil
	}
	return "", nil
}

func (f *fakeSettingRepo) List(_ context.Context) ([]*domain.Setting, error) {
	var out []*domain.Setting
	for _, s := range f.byKey {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSettingRepo) GetByKey(_ context.Context, key string) (*domain.Setting, error) {
	return f.byKey[key], nil
}

func (f *fakeSettingRepo) Upsert(_ context.Context, setting *domain.Setting) error {
	if existing := f.byKey[setting.Key]; existing != nil {
		setting.ID = existing.ID
	} else {
		setting.ID = f.nextID
		f.nextID++
	}
	f.byKey[setting.Key] = setting
	return nil
}

func (f *fakeSettingRepo) Delete(_ context.Context, id uint) error {
	for key, s := range f.byKey {
		if s.ID == id {
			delete(f.byKey, key)
		}
	}
	return nil
}

type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	return f.data[key], nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeCache) Clear(_ context.Context) error {
	f.data = make(map[string][]byte)
	return nil
}

type fakeProgressRepo struct {
	domain.ProgressRepository
	byUserBook map[[2]uint]*domain.BookProgress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{byUserBook: make(map[[2]uint]*domain.BookProgress)}
}

func (f *fakeProgressRepo) Upsert(_ context.Context, progress *domain.BookProgress) error {
	f.byUserBook[[2]uint{progress.UserID, progress.BookID}] = progress
	return nil
}

func (f *fakeProgressRepo) GetByUserAndBook(_ context.Context, userID, bookID uint) (*domain.BookProgress, error) {
	return f.byUserBook[[2]uint{userID, bookID}], nil
}

func (f *fakeProgressRepo) ListByUser(_ context.Context, userID uint) ([]*domain.BookProgress, error) {
	var out []*domain.BookProgress
	for key, p := range f.byUserBook {
		if key[0] == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeMetadataProvider struct {
	metadata map[string]*domain.BookMetadata
	failISBN string
}

func (f *fakeMetadataProvider) Name() string { return "fakelib" }

func (f *fakeMetadataProvider) Lookup(_ context.Context, isbn string) (*domain.BookMetadata, error) {
	if isbn == f.failISBN {
		return nil, context.DeadlineExceeded
	}
	return f.metadata[isbn], nil
}

func (f *fakeMetadataProvider) HealthCheck(_ context.Context) error { return nil }

type fakeLocker struct {
	busy     bool
	acquires int
	releases int
}

func (f *fakeLocker) Acquire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	if f.busy {
		return false, nil
	}
	f.acquires++
	return true, nil
}

func (f *fakeLocker) Release(_ context.Context, _ string) error {
	f.releases++
	return nil
}
