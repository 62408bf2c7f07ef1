// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"time"

	"qayeem-service/internal/app/service"
	"qayeem-service/internal/domain"
)

// BookListRequest represents the query parameters for listing books.
type BookListRequest struct {
	Status     string `query:"status" validate:"omitempty,oneof=DRAFT ACTIVE ARCHIVED"`
	BookType   string `query:"book_type" validate:"omitempty,oneof=PRACTICES PATTERNS"`
	CategoryID uint   `query:"category_id"`
	Query      string `query:"q" validate:"max=200"`
	Page       int    `query:"page" validate:"omitempty,min=1"`
	PageSize   int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

// ToListParams converts BookListRequest to domain.BookListParams.
func (r *BookListRequest) ToListParams() domain.BookListParams {
	return domain.BookListParams{
		Status:     domain.BookStatus(r.Status),
		BookType:   domain.BookType(r.BookType),
		CategoryID: r.CategoryID,
		Query:      r.Query,
		Page:       r.Page,
		PageSize:   r.PageSize,
	}
}

// BookRequest represents the body for creating or updating a book.
type BookRequest struct {
	Title              string   `json:"title" validate:"required,max=500"`
	TitleAr            string   `json:"title_ar" validate:"max=500"`
	Description        string   `json:"description"`
	DescriptionAr      string   `json:"description_ar"`
	Author             string   `json:"author" validate:"max=255"`
	AuthorAr           string   `json:"author_ar" validate:"max=255"`
	ISBN               string   `json:"isbn" validate:"omitempty,min=10,max=17"`
	CoverImage         string   `json:"cover_image" validate:"omitempty,url"`
	Tags               []string `json:"tags"`
	Pages              int      `json:"pages" validate:"min=0"`
	BookType           string   `json:"book_type" validate:"omitempty,oneof=PRACTICES PATTERNS"`
	Status             string   `json:"status" validate:"omitempty,oneof=DRAFT ACTIVE ARCHIVED"`
	Price              float64  `json:"price" validate:"min=0"`
	DiscountPercentage float64  `json:"discount_percentage" validate:"min=0,max=100"`
}

// ToDomain converts BookRequest to a domain.Book.
func (r *BookRequest) ToDomain() *domain.Book {
	return &domain.Book{
		Title:              r.Title,
		TitleAr:            r.TitleAr,
		Description:        r.Description,
		DescriptionAr:      r.DescriptionAr,
		Author:             r.Author,
		AuthorAr:           r.AuthorAr,
		ISBN:               r.ISBN,
		CoverImage:         r.CoverImage,
		Tags:               r.Tags,
		Pages:              r.Pages,
		BookType:           domain.BookType(r.BookType),
		Status:             domain.BookStatus(r.Status),
		Price:              r.Price,
		DiscountPercentage: r.DiscountPercentage,
	}
}

// StatusRequest represents a bare status transition body.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ReviewRequest represents the body for posting a book review.
type ReviewRequest struct {
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=2000"`
	CommentAr string `json:"comment_ar" validate:"max=2000"`
}

// ApproveRequest represents the body for moderating a review.
type ApproveRequest struct {
	Approved bool `json:"approved"`
}

// CriterionRequest represents one question inside an evaluation body.
type CriterionRequest struct {
	Text               string  `json:"text" validate:"required"`
	TextAr             string  `json:"text_ar"`
	BookType           string  `json:"book_type" validate:"omitempty,oneof=PRACTICES PATTERNS"`
	Order              int     `json:"order"`
	Weight             float64 `json:"weight" validate:"min=0"`
	MaxScore           float64 `json:"max_score" validate:"min=0"`
	QuestionPercentage float64 `json:"question_percentage" validate:"min=0"`
	Answer1Percentage  float64 `json:"answer1_percentage" validate:"min=0"`
	Answer2Percentage  float64 `json:"answer2_percentage" validate:"min=0"`
	Answer3Percentage  float64 `json:"answer3_percentage" validate:"min=0"`
	Answer4Percentage  float64 `json:"answer4_percentage" validate:"min=0"`
	Answer5Percentage  float64 `json:"answer5_percentage" validate:"min=0"`
}

// ToDomain converts CriterionRequest to a domain.Criterion.
func (r *CriterionRequest) ToDomain(evaluationID uint) *domain.Criterion {
	return &domain.Criterion{
		EvaluationID:       evaluationID,
		Text:               r.Text,
		TextAr:             r.TextAr,
		BookType:           domain.BookType(r.BookType),
		Order:              r.Order,
		Weight:             r.Weight,
		MaxScore:           r.MaxScore,
		QuestionPercentage: r.QuestionPercentage,
		Answer1Percentage:  r.Answer1Percentage,
		Answer2Percentage:  r.Answer2Percentage,
		Answer3Percentage:  r.Answer3Percentage,
		Answer4Percentage:  r.Answer4Percentage,
		Answer5Percentage:  r.Answer5Percentage,
	}
}

// EvaluationRequest represents the body for creating or updating an
// evaluation.
type EvaluationRequest struct {
	Title               string             `json:"title" validate:"required,max=500"`
	TitleAr             string             `json:"title_ar" validate:"max=500"`
	Description         string             `json:"description"`
	DescriptionAr       string             `json:"description_ar"`
	Status              string             `json:"status" validate:"omitempty,oneof=DRAFT ACTIVE ARCHIVED"`
	Type                string             `json:"type" validate:"omitempty,oneof=PERFORMANCE_REVIEW TEAM_EVALUATION SELF_ASSESSMENT"`
	PracticesPercentage float64            `json:"practices_percentage" validate:"min=0,max=100"`
	PatternsPercentage  float64            `json:"patterns_percentage" validate:"min=0,max=100"`
	Criteria            []CriterionRequest `json:"criteria" validate:"dive"`
}

// ToDomain converts EvaluationRequest to a domain.Evaluation.
func (r *EvaluationRequest) ToDomain() *domain.Evaluation {
	evaluation := &domain.Evaluation{
		Title:               r.Title,
		TitleAr:             r.TitleAr,
		Description:         r.Description,
		DescriptionAr:       r.DescriptionAr,
		Status:              domain.EvaluationStatus(r.Status),
		Type:                domain.EvaluationType(r.Type),
		PracticesPercentage: r.PracticesPercentage,
		PatternsPercentage:  r.PatternsPercentage,
	}
	for _, cr := range r.Criteria {
		evaluation.Criteria = append(evaluation.Criteria, cr.ToDomain(0))
	}
	return evaluation
}

// LinkRequest represents the body for linking an evaluation to a book or
// a book type. Exactly one of book_id and book_type must be set.
type LinkRequest struct {
	BookID             uint    `json:"book_id"`
	BookType           string  `json:"book_type" validate:"omitempty,oneof=PRACTICES PATTERNS"`
	IsRequired         bool    `json:"is_required"`
	MinScorePercentage float64 `json:"min_score_percentage" validate:"min=0,max=100"`
	Order              int     `json:"order"`
}

// RatingAnswerRequest represents one answered question.
type RatingAnswerRequest struct {
	CriterionID uint   `json:"criterion_id" validate:"required"`
	Score       int    `json:"score" validate:"required,min=1,max=5"`
	Comment     string `json:"comment" validate:"max=2000"`
	CommentAr   string `json:"comment_ar" validate:"max=2000"`
}

// RatingSubmitRequest represents the body for submitting a rating.
type RatingSubmitRequest struct {
	EvaluationID uint                  `json:"evaluation_id" validate:"required"`
	Answers      []RatingAnswerRequest `json:"answers" validate:"required,min=1,dive"`
	AsDraft      bool                  `json:"as_draft"`
}

// ToAnswers converts the request answers to service inputs.
func (r *RatingSubmitRequest) ToAnswers() []service.RatingAnswer {
	answers := make([]service.RatingAnswer, len(r.Answers))
	for i, a := range r.Answers {
		answers[i] = service.RatingAnswer{
			CriterionID: a.CriterionID,
			Score:       a.Score,
			Comment:     a.Comment,
			CommentAr:   a.CommentAr,
		}
	}
	return answers
}

// PaymentRequest represents the body for creating a payment.
type PaymentRequest struct {
	BookID     uint   `json:"book_id" validate:"required"`
	Method     string `json:"payment_method" validate:"max=50"`
	Currency   string `json:"currency" validate:"omitempty,len=3"`
	CouponCode string `json:"coupon_code" validate:"max=50"`
}

// PaymentListRequest represents the query parameters for listing
// payments.
type PaymentListRequest struct {
	Status   string `query:"status" validate:"omitempty,oneof=PENDING COMPLETED FAILED REFUNDED"`
	Method   string `query:"payment_method" validate:"max=50"`
	BookID   uint   `query:"book_id"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

// ToListParams converts PaymentListRequest to domain.PaymentListParams.
func (r *PaymentListRequest) ToListParams() domain.PaymentListParams {
	return domain.PaymentListParams{
		BookID:   r.BookID,
		Status:   domain.PaymentStatus(r.Status),
		Method:   domain.PaymentMethod(r.Method),
		Page:     r.Page,
		PageSize: r.PageSize,
	}
}

// PaymentStatusRequest represents the body for a payment status
// transition.
type PaymentStatusRequest struct {
	Status  string `json:"status" validate:"required,oneof=PENDING COMPLETED FAILED REFUNDED"`
	Notes   string `json:"notes" validate:"max=2000"`
	NotesAr string `json:"notes_ar" validate:"max=2000"`
}

// CouponRequest represents the body for creating or updating a coupon.
type CouponRequest struct {
	Code              string     `json:"code" validate:"required,min=3,max=50"`
	Description       string     `json:"description"`
	DescriptionAr     string     `json:"description_ar"`
	DiscountType      string     `json:"discount_type" validate:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	DiscountValue     float64    `json:"discount_value" validate:"required,gt=0"`
	MaxDiscountAmount float64    `json:"max_discount_amount" validate:"min=0"`
	MinPurchaseAmount float64    `json:"min_purchase_amount" validate:"min=0"`
	UsageLimit        int        `json:"usage_limit" validate:"min=0"`
	UserID            uint       `json:"user_id"`
	IsActive          bool       `json:"is_active"`
	ValidFrom         time.Time  `json:"valid_from"`
	ValidUntil        *time.Time `json:"valid_until"`
}

// ToDomain converts CouponRequest to a domain.DiscountCoupon.
func (r *CouponRequest) ToDomain() *domain.DiscountCoupon {
	return &domain.DiscountCoupon{
		Code:              r.Code,
		Description:       r.Description,
		DescriptionAr:     r.DescriptionAr,
		DiscountType:      domain.DiscountType(r.DiscountType),
		DiscountValue:     r.DiscountValue,
		MaxDiscountAmount: r.MaxDiscountAmount,
		MinPurchaseAmount: r.MinPurchaseAmount,
		UsageLimit:        r.UsageLimit,
		UserID:            r.UserID,
		IsActive:          r.IsActive,
		ValidFrom:         r.ValidFrom,
		ValidUntil:        r.ValidUntil,
	}
}

// CouponValidateRequest represents the body for checking a coupon against
// an amount without redeeming it.
type CouponValidateRequest struct {
	Code   string  `json:"code" validate:"required,min=3,max=50"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// ProgressRequest represents the body for recording reading progress.
type ProgressRequest struct {
	BookID    uint `json:"book_id" validate:"required"`
	PagesRead int  `json:"pages_read" validate:"min=0"`
}

// SettingRequest represents the body for creating or updating a setting.
type SettingRequest struct {
	Key           string `json:"key" validate:"required,max=100"`
	Value         string `json:"value" validate:"required"`
	ValueAr       string `json:"value_ar"`
	Description   string `json:"description"`
	DescriptionAr string `json:"description_ar"`
}

// ToDomain converts SettingRequest to a domain.Setting.
func (r *SettingRequest) ToDomain() *domain.Setting {
	return &domain.Setting{
		Key:           r.Key,
		Value:         r.Value,
		ValueAr:       r.ValueAr,
		Description:   r.Description,
		DescriptionAr: r.DescriptionAr,
	}
}
