package domain

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestAnswerPercentageScore(t *testing.T) {
	tests := []struct {
		name     string
		criteria []*Criterion
		items    []*RatingItem
		expected float64
	}{
		{
			name: "single question full weight",
			criteria: []*Criterion{
				{ID: 1, QuestionPercentage: 100, Answer3Percentage: 60},
			},
			items: []*RatingItem{
				{CriterionID: 1, Score: 3},
			},
			// 100 * (60/100) = 60 over mass 100 → 60
			expected: 60.0,
		},
		{
			name: "two questions summing to 100",
			criteria: []*Criterion{
				{ID: 1, QuestionPercentage: 60, Answer5Percentage: 100},
				{ID: 2, QuestionPercentage: 40, Answer1Percentage: 0},
			},
			items: []*RatingItem{
				{CriterionID: 1, Score: 5}, // 60 * 1.0 = 60
				{CriterionID: 2, Score: 1}, // 40 * 0.0 = 0
			},
			// (60 / 100) * 100 = 60
			expected: 60.0,
		},
		{
			name: "normalizes against answered mass only",
			criteria: []*Criterion{
				{ID: 1, QuestionPercentage: 50, Answer4Percentage: 80},
				{ID: 2, QuestionPercentage: 50, Answer4Percentage: 80},
			},
			items: []*RatingItem{
				{CriterionID: 1, Score: 4}, // only half the evaluation answered
			},
			// 50*0.8 = 40 over mass 50 → 80, not 40
			expected: 80.0,
		},
		{
			name: "missing criterion skipped silently",
			criteria: []*Criterion{
				{ID: 1, QuestionPercentage: 100, Answer2Percentage: 50},
			},
			items: []*RatingItem{
				{CriterionID: 1, Score: 2},
				{CriterionID: 99, Score: 5}, // no such criterion
			},
			expected: 50.0,
		},
		{
			name: "score out of range contributes zero but keeps its mass",
			criteria: []*Criterion{
				{ID: 1, QuestionPercentage: 50, Answer5Percentage: 100},
				{ID: 2, QuestionPercentage: 50, Answer5Percentage: 100},
			},
			items: []*RatingItem{
				{CriterionID: 1, Score: 5},
				{CriterionID: 2, Score: 7}, // invalid option
			},
			// (50*1.0 + 50*0) / 100 * 100 = 50
			expected: 50.0,
		},
		{
			name: "zero question mass yields zero not NaN",
			criteria: []*Criterion{
				{ID: 1, QuestionPercentage: 0, Answer3Percentage: 60},
			},
			items: []*RatingItem{
				{CriterionID: 1, Score: 3},
			},
			expected: 0,
		},
		{
			name:     "no items",
			criteria: []*Criterion{{ID: 1, QuestionPercentage: 100}},
			items:    nil,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := AnswerPercentageScore(tt.criteria, tt.items)
			if !almostEqual(score, tt.expected) {
				t.Errorf("AnswerPercentageScore() = %v, want %v", score, tt.expected)
			}
		})
	}
}

// Every well-formed configuration whose question percentages sum to 100
// must land in [0,100].
func TestAnswerPercentageScore_Bounds(t *testing.T) {
	criteria := []*Criterion{
		{ID: 1, QuestionPercentage: 30, Answer1Percentage: 0, Answer5Percentage: 100},
		{ID: 2, QuestionPercentage: 30, Answer1Percentage: 10, Answer5Percentage: 90},
		{ID: 3, QuestionPercentage: 40, Answer1Percentage: 20, Answer5Percentage: 100},
	}

	for s1 := 1; s1 <= 5; s1++ {
		for s2 := 1; s2 <= 5; s2++ {
			items := []*RatingItem{
				{CriterionID: 1, Score: s1},
				{CriterionID: 2, Score: s2},
				{CriterionID: 3, Score: 5},
			}
			score := AnswerPercentageScore(criteria, items)
			if score < 0 || score > 100 {
				t.Errorf("score %v out of [0,100] for scores (%d,%d,5)", score, s1, s2)
			}
		}
	}
}

func TestWeightedAverageScore(t *testing.T) {
	tests := []struct {
		name     string
		criteria []*Criterion
		items    []*RatingItem
		expected float64
	}{
		{
			name: "two criteria answered in full",
			criteria: []*Criterion{
				{ID: 1, Weight: 2, MaxScore: 5},
				{ID: 2, Weight: 3, MaxScore: 5},
			},
			items: []*RatingItem{
				{CriterionID: 1, Score: 5}, // 5/5 * 2 = 2
				{CriterionID: 2, Score: 5}, // 5/5 * 3 = 3
			},
			// (2+3) / 5 * 100 = 100
			expected: 100.0,
		},
		{
			name: "unanswered criteria count as zero",
			criteria: []*Criterion{
				{ID: 1, Weight: 1, MaxScore: 5},
				{ID: 2, Weight: 1, MaxScore: 5},
			},
			items: []*RatingItem{
				{CriterionID: 1, Score: 5}, // 1 of weight mass 2
			},
			expected: 50.0,
		},
		{
			name: "defaults applied when weight and max score unset",
			criteria: []*Criterion{
				{ID: 1}, // weight 1, maxScore 10
			},
			items: []*RatingItem{
				{CriterionID: 1, Score: 4},
			},
			// 4/10 * 1 / 1 * 100 = 40
			expected: 40.0,
		},
		{
			name:     "no criteria",
			criteria: nil,
			items:    []*RatingItem{{CriterionID: 1, Score: 3}},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := WeightedAverageScore(tt.criteria, tt.items)
			if !almostEqual(score, tt.expected) {
				t.Errorf("WeightedAverageScore() = %v, want %v", score, tt.expected)
			}
		})
	}
}

func TestLegacyTotalScore(t *testing.T) {
	criteria := []*Criterion{
		{ID: 1, Weight: 2, MaxScore: 5},
		{ID: 2, Weight: 1, MaxScore: 10},
	}
	items := []*RatingItem{
		{CriterionID: 1, Score: 4},  // 4 * 2 / 5 = 1.6
		{CriterionID: 2, Score: 5},  // 5 * 1 / 10 = 0.5
		{CriterionID: 99, Score: 5}, // unknown criterion, skipped
	}

	got := LegacyTotalScore(criteria, items)
	if !almostEqual(got, 2.1) {
		t.Errorf("LegacyTotalScore() = %v, want 2.1", got)
	}
}

func TestScoresByEvaluation(t *testing.T) {
	withItems := &Rating{
		EvaluationID: 1,
		Evaluation: &Evaluation{
			ID: 1,
			Criteria: []*Criterion{
				{ID: 1, QuestionPercentage: 100, Answer4Percentage: 75},
			},
		},
		Items: []*RatingItem{{CriterionID: 1, Score: 4}},
	}
	// No items: falls back to totalScore over the weight sum.
	withoutItems := &Rating{
		EvaluationID: 2,
		TotalScore:   1.5,
		Evaluation: &Evaluation{
			ID: 2,
			Criteria: []*Criterion{
				{ID: 10, Weight: 1},
				{ID: 11, Weight: 2},
			},
		},
	}

	scores := ScoresByEvaluation([]*Rating{withItems, withoutItems})

	if !almostEqual(scores[1], 75.0) {
		t.Errorf("primary path score = %v, want 75", scores[1])
	}
	// 1.5 / 3 * 100 = 50
	if !almostEqual(scores[2], 50.0) {
		t.Errorf("fallback path score = %v, want 50", scores[2])
	}
}
