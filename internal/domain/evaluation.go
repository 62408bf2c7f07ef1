package domain

import (
	"time"
)

// EvaluationStatus represents the lifecycle state of a questionnaire.
type EvaluationStatus string

const (
	EvaluationStatusDraft    EvaluationStatus = "DRAFT"
	EvaluationStatusActive   EvaluationStatus = "ACTIVE"
	EvaluationStatusArchived EvaluationStatus = "ARCHIVED"
)

// EvaluationType classifies the intent of a questionnaire.
type EvaluationType string

const (
	EvaluationTypePerformanceReview EvaluationType = "PERFORMANCE_REVIEW"
	EvaluationTypeTeamEvaluation    EvaluationType = "TEAM_EVALUATION"
	EvaluationTypeSelfAssessment    EvaluationType = "SELF_ASSESSMENT"
)

// Evaluation is a named questionnaire composed of ordered criteria.
// PracticesPercentage/PatternsPercentage describe an intended book-type mix;
// they are operator metadata and are not consumed by the scoring math.
type Evaluation struct {
	ID            uint             `json:"id"`
	Title         string           `json:"title"`
	TitleAr       string           `json:"title_ar,omitempty"`
	Description   string           `json:"description,omitempty"`
	DescriptionAr string           `json:"description_ar,omitempty"`
	Status        EvaluationStatus `json:"status"`
	Type          EvaluationType   `json:"type"`

	PracticesPercentage float64 `json:"practices_percentage,omitempty"`
	PatternsPercentage  float64 `json:"patterns_percentage,omitempty"`

	Criteria []*Criterion `json:"criteria,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Criterion is one question within an evaluation.
//
// Weight and MaxScore drive the legacy weighted scoring formula.
// QuestionPercentage and Answer1..5Percentage drive the recommendation
// scoring formula. Operators enter these by hand; nothing enforces that
// QuestionPercentage sums to 100 across an evaluation or that the answer
// percentages are internally consistent, and the scoring code must
// tolerate that.
type Criterion struct {
	ID           uint     `json:"id"`
	EvaluationID uint     `json:"evaluation_id"`
	Text         string   `json:"text"`
	TextAr       string   `json:"text_ar,omitempty"`
	BookType     BookType `json:"book_type,omitempty"` // restricts the question to one type of book
	Order        int      `json:"order"`

	// Legacy scale
	Weight   float64 `json:"weight"`
	MaxScore float64 `json:"max_score"`

	// Percentage scale
	QuestionPercentage float64 `json:"question_percentage"`
	Answer1Percentage  float64 `json:"answer1_percentage"`
	Answer2Percentage  float64 `json:"answer2_percentage"`
	Answer3Percentage  float64 `json:"answer3_percentage"`
	Answer4Percentage  float64 `json:"answer4_percentage"`
	Answer5Percentage  float64 `json:"answer5_percentage"`
}

// AnswerPercentage returns the score contribution configured for answer
// option n. Any n outside 1..5 contributes 0.
func (c *Criterion) AnswerPercentage(n int) float64 {
	switch n {
	case 1:
		return c.Answer1Percentage
	case 2:
		return c.Answer2Percentage
	case 3:
		return c.Answer3Percentage
	case 4:
		return c.Answer4Percentage
	case 5:
		return c.Answer5Percentage
	default:
		return 0
	}
}

// EffectiveWeight returns the legacy weight, defaulting to 1 when unset.
func (c *Criterion) EffectiveWeight() float64 {
	if c.Weight <= 0 {
		return 1
	}
	return c.Weight
}

// EffectiveMaxScore returns the legacy scale ceiling, defaulting to 10 when unset.
func (c *Criterion) EffectiveMaxScore() float64 {
	if c.MaxScore <= 0 {
		return 10
	}
	return c.MaxScore
}
