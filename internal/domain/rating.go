package domain

import (
	"time"
)

// RatingStatus represents the lifecycle state of a user's answer set.
type RatingStatus string

const (
	RatingStatusDraft     RatingStatus = "DRAFT"
	RatingStatusSubmitted RatingStatus = "SUBMITTED"
)

// Rating is one user's answer set for one evaluation. A user has at most
// one rating per evaluation; re-submission replaces the items.
//
// TotalScore is the legacy weighted sum (score × weight / maxScore per
// item). It is still computed and stored, but the recommendation path
// derives percentages from the items instead.
type Rating struct {
	ID           uint         `json:"id"`
	EvaluationID uint         `json:"evaluation_id"`
	UserID       uint         `json:"user_id"`
	Status       RatingStatus `json:"status"`
	TotalScore   float64      `json:"total_score"`

	Evaluation *Evaluation   `json:"evaluation,omitempty"`
	Items      []*RatingItem `json:"items,omitempty"`

	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsSubmitted reports whether the rating has been submitted.
func (r *Rating) IsSubmitted() bool {
	return r.Status == RatingStatusSubmitted
}

// RatingItem is one answered question within a rating.
//
// Score is an answer-option index (1..5). The recommendation path uses it
// as a lookup key into the criterion's answer percentages; the legacy
// total-score path multiplies it by weight/maxScore as a literal value.
// Both semantics coexist for the same field.
type RatingItem struct {
	ID          uint   `json:"id"`
	RatingID    uint   `json:"rating_id"`
	CriterionID uint   `json:"criterion_id"`
	Score       int    `json:"score"`
	Comment     string `json:"comment,omitempty"`
	CommentAr   string `json:"comment_ar,omitempty"`

	Criterion *Criterion `json:"criterion,omitempty"`
}
