package domain

import (
	"time"
)

// DefaultMinScorePercentage is the pass threshold assumed when a linkage
// carries no explicit (or a zero) minimum.
const DefaultMinScorePercentage = 70.0

// LinkTarget is the target of a book-evaluation linkage: either one
// specific book or a whole book-type class. The two cases are mutually
// exclusive by construction; use DirectTarget or TypeTarget to build one.
type LinkTarget struct {
	bookID   uint
	bookType BookType
}

// DirectTarget links to one specific book.
func DirectTarget(bookID uint) LinkTarget {
	return LinkTarget{bookID: bookID}
}

// TypeTarget links to every book of the given type.
func TypeTarget(bt BookType) LinkTarget {
	return LinkTarget{bookType: bt}
}

// BookID returns the targeted book id and true for direct links.
func (t LinkTarget) BookID() (uint, bool) {
	return t.bookID, t.bookID != 0
}

// BookType returns the targeted book type and true for type-class links.
func (t LinkTarget) BookType() (BookType, bool) {
	return t.bookType, t.bookID == 0 && t.bookType != ""
}

// IsDirect reports whether the target is a single book.
func (t LinkTarget) IsDirect() bool {
	return t.bookID != 0
}

// BookEvaluation links an evaluation to either one book or a book-type
// class. IsRequired marks the evaluation as gating for recommendation;
// MinScorePercentage is the per-linkage pass threshold.
type BookEvaluation struct {
	ID           uint       `json:"id"`
	EvaluationID uint       `json:"evaluation_id"`
	Target       LinkTarget `json:"-"`

	IsRequired         bool    `json:"is_required"`
	MinScorePercentage float64 `json:"min_score_percentage"`
	Order              int     `json:"order"`

	Evaluation *Evaluation `json:"evaluation,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MinRequired returns the pass threshold for this linkage, substituting
// the default when the configured value is zero or negative.
func (be *BookEvaluation) MinRequired() float64 {
	if be.MinScorePercentage <= 0 {
		return DefaultMinScorePercentage
	}
	return be.MinScorePercentage
}

// EffectiveEvaluations resolves the full evaluation set that applies to a
// book: its direct links plus every type-class link matching the book's
// type. Links are not collapsed by evaluation id: a book linked to the
// same evaluation both ways sees it twice, each under its own requirement
// terms, and each is judged independently downstream.
//
// A book with no type and no direct links resolves to an empty set; such a
// book can never be recommended, which callers treat as a terminal
// non-error condition.
func EffectiveEvaluations(book *Book, direct, typeLinks []*BookEvaluation) []*BookEvaluation {
	links := make([]*BookEvaluation, 0, len(direct))
	links = append(links, direct...)

	if book.BookType == "" {
		return links
	}
	for _, be := range typeLinks {
		if bt, ok := be.Target.BookType(); ok && bt == book.BookType {
			links = append(links, be)
		}
	}
	return links
}
