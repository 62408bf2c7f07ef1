package domain

import (
	"fmt"
	"testing"
)

func typedLink(evaluationID uint, bt BookType, required bool, minScore float64) *BookEvaluation {
	return &BookEvaluation{
		EvaluationID:       evaluationID,
		Target:             TypeTarget(bt),
		IsRequired:         required,
		MinScorePercentage: minScore,
	}
}

func TestEvaluateBook_NoLinks(t *testing.T) {
	book := &Book{ID: 1, Status: BookStatusActive}

	match := EvaluateBook(book, nil, EvaluationScores{}, DefaultRecommendationThreshold, 0)

	if match.IsRecommended {
		t.Error("book without effective evaluations must not be recommended")
	}
	if match.MatchPercentage != 0 {
		t.Errorf("MatchPercentage = %v, want 0", match.MatchPercentage)
	}
	if match.EvaluationResults == nil || len(match.EvaluationResults) != 0 {
		t.Errorf("EvaluationResults = %v, want empty", match.EvaluationResults)
	}
}

// When no linkage is required, completing any evaluation at all earns the
// recommendation, even below the pass threshold.
func TestEvaluateBook_NoRequiredIsPermissive(t *testing.T) {
	book := &Book{ID: 1, BookType: BookTypePatterns}
	links := []*BookEvaluation{
		typedLink(5, BookTypePatterns, false, 70),
	}
	scores := EvaluationScores{5: 40}

	match := EvaluateBook(book, links, scores, DefaultRecommendationThreshold, 0)

	if !match.IsRecommended {
		t.Error("completed evaluation with no required linkage must recommend")
	}
	if match.MatchPercentage != 40 {
		t.Errorf("MatchPercentage = %v, want 40", match.MatchPercentage)
	}
	if match.EvaluationResults[0].IsPassed {
		t.Error("40 < 70 must not count as passed")
	}
}

func TestEvaluateBook_NoRequiredNothingCompleted(t *testing.T) {
	book := &Book{ID: 1, BookType: BookTypePatterns}
	links := []*BookEvaluation{
		typedLink(5, BookTypePatterns, false, 70),
	}

	match := EvaluateBook(book, links, EvaluationScores{}, DefaultRecommendationThreshold, 0)

	if match.IsRecommended {
		t.Error("nothing completed and nothing passed must not recommend")
	}
	if match.CompletedEvaluations != 0 {
		t.Errorf("CompletedEvaluations = %d, want 0", match.CompletedEvaluations)
	}
}

func TestEvaluateBook_RequiredGating(t *testing.T) {
	tests := []struct {
		name        string
		links       []*BookEvaluation
		scores      EvaluationScores
		recommended bool
	}{
		{
			// 40 < 70 and 40 < 0.8*70 = 56
			name:        "single required below flexible threshold",
			links:       []*BookEvaluation{typedLink(5, BookTypePatterns, true, 70)},
			scores:      EvaluationScores{5: 40},
			recommended: false,
		},
		{
			// required fails at 50 even though the optional scores 100
			name: "failed required blocks regardless of optional scores",
			links: []*BookEvaluation{
				typedLink(1, BookTypePatterns, true, 70),
				typedLink(2, BookTypePatterns, false, 70),
			},
			scores:      EvaluationScores{1: 50, 2: 100},
			recommended: false,
		},
		{
			// required passes at 75; avg (75+40)/2 = 57.5 ≥ 0.8*70 = 56
			name: "flexible threshold admits average below the minimum",
			links: []*BookEvaluation{
				typedLink(1, BookTypePatterns, true, 70),
				typedLink(2, BookTypePatterns, false, 70),
			},
			scores:      EvaluationScores{1: 75, 2: 40},
			recommended: true,
		},
		{
			// required passes at 90; avg (90+10)/2 = 50 < 56
			name: "average below flexible threshold blocks",
			links: []*BookEvaluation{
				typedLink(1, BookTypePatterns, true, 70),
				typedLink(2, BookTypePatterns, false, 70),
			},
			scores:      EvaluationScores{1: 90, 2: 10},
			recommended: false,
		},
		{
			// min threshold across linkages is 50, flex 40; avg (60+30)/2 = 45 ≥ 40
			name: "lowest linkage minimum drives the flexible threshold",
			links: []*BookEvaluation{
				typedLink(1, BookTypePatterns, true, 50),
				typedLink(2, BookTypePatterns, false, 80),
			},
			scores:      EvaluationScores{1: 60, 2: 30},
			recommended: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := &Book{ID: 1, BookType: BookTypePatterns}
			match := EvaluateBook(book, tt.links, tt.scores, DefaultRecommendationThreshold, 0)
			if match.IsRecommended != tt.recommended {
				t.Errorf("IsRecommended = %v, want %v", match.IsRecommended, tt.recommended)
			}
		})
	}
}

// A zero MinScorePercentage means the default, in both the pass check and
// the overall minimum.
func TestEvaluateBook_ZeroMinScoreUsesDefault(t *testing.T) {
	book := &Book{ID: 1, BookType: BookTypePractices}
	links := []*BookEvaluation{
		typedLink(1, BookTypePractices, true, 0),
	}

	match := EvaluateBook(book, links, EvaluationScores{1: 60}, DefaultRecommendationThreshold, 0)
	if match.EvaluationResults[0].MinRequired != DefaultMinScorePercentage {
		t.Errorf("MinRequired = %v, want %v", match.EvaluationResults[0].MinRequired, DefaultMinScorePercentage)
	}
	// 60 ≥ 0.8*70 = 56 but required fails (60 < 70)
	if match.IsRecommended {
		t.Error("failed required evaluation must block recommendation")
	}
}

func TestEvaluateBook_DiscountPreview(t *testing.T) {
	book := &Book{ID: 1, BookType: BookTypePatterns, Price: 100}
	links := []*BookEvaluation{
		typedLink(5, BookTypePatterns, false, 70),
	}
	scores := EvaluationScores{5: 80}

	match := EvaluateBook(book, links, scores, DefaultRecommendationThreshold, 10)

	if !match.HasDiscount {
		t.Fatal("recommended book with global discount must carry preview")
	}
	if match.DiscountAmount != 10 || match.DiscountedPrice != 90 {
		t.Errorf("discount = %v/%v, want 10/90", match.DiscountAmount, match.DiscountedPrice)
	}

	// Not recommended → no preview even with a configured discount.
	none := EvaluateBook(book, links, EvaluationScores{}, DefaultRecommendationThreshold, 10)
	if none.HasDiscount {
		t.Error("unrecommended book must not carry a discount preview")
	}
}

func TestAssembleCatalog_BandsAndCap(t *testing.T) {
	matches := []*BookMatch{}
	percentages := []float64{95, 85, 72, 65, 55, 30, 10, 5}
	for i, p := range percentages {
		matches = append(matches, &BookMatch{
			Book:             &Book{ID: uint(i + 1), Title: fmt.Sprintf("book-%d", i+1)},
			MatchPercentage:  p,
			IsRecommended:    p >= 70,
			TotalEvaluations: 1,
		})
	}

	catalog := AssembleCatalog(matches, true)

	if catalog.Total != 6 {
		t.Fatalf("Total = %d, want 6 (capped)", catalog.Total)
	}
	for i := 1; i < len(catalog.Books); i++ {
		if catalog.Books[i].MatchPercentage > catalog.Books[i-1].MatchPercentage {
			t.Errorf("catalog not sorted descending at %d", i)
		}
	}
	if catalog.HighMatch != 3 {
		t.Errorf("HighMatch = %d, want 3", catalog.HighMatch)
	}
	if catalog.Recommended != 3 {
		t.Errorf("Recommended = %d, want 3", catalog.Recommended)
	}
}

func TestAssembleCatalog_DisplayFilter(t *testing.T) {
	zeroLinked := &BookMatch{Book: &Book{ID: 1}, TotalEvaluations: 1}
	zeroUnlinked := &BookMatch{Book: &Book{ID: 2}}
	positive := &BookMatch{Book: &Book{ID: 3}, MatchPercentage: 20, TotalEvaluations: 1}

	// With submitted ratings the zero-but-linked book is shown.
	catalog := AssembleCatalog([]*BookMatch{zeroLinked, zeroUnlinked, positive}, true)
	if catalog.Total != 2 {
		t.Errorf("Total = %d, want 2 (positive + zero-but-linked)", catalog.Total)
	}

	// Without submitted ratings only positive matches survive.
	catalog = AssembleCatalog([]*BookMatch{zeroLinked, zeroUnlinked, positive}, false)
	if catalog.Total != 1 {
		t.Errorf("Total = %d, want 1", catalog.Total)
	}
}

// The detail view scores with the weighted formula, so a rating earns
// its score even when the criterion carries no answer percentages at all.
func TestEvaluateBookDetail_WeightedScoring(t *testing.T) {
	criteria := []*Criterion{{ID: 1, Weight: 1, MaxScore: 5, QuestionPercentage: 100}}
	rating := &Rating{
		EvaluationID: 5,
		Evaluation:   &Evaluation{ID: 5, Criteria: criteria},
		Items:        []*RatingItem{{CriterionID: 1, Score: 4}}, // 4/5 → 80%
	}
	book := &Book{ID: 1, BookType: BookTypePractices}
	links := []*BookEvaluation{typedLink(5, BookTypePractices, true, 70)}

	match := EvaluateBookDetail(book, links, []*Rating{rating}, DefaultRecommendationThreshold, 0)

	if match.EvaluationResults[0].UserScore != 80 {
		t.Errorf("UserScore = %v, want 80", match.EvaluationResults[0].UserScore)
	}
	if !match.EvaluationResults[0].IsPassed {
		t.Error("80 >= 70 must count as passed")
	}
	if match.MatchPercentage != 80 {
		t.Errorf("MatchPercentage = %v, want 80", match.MatchPercentage)
	}
	if !match.IsRecommended {
		t.Error("passing required linkage with average above the minimum must recommend")
	}
	if !match.MeetsThreshold {
		t.Error("80 >= 70 must meet the threshold")
	}
}

func TestEvaluateBookDetail_StrictAverage(t *testing.T) {
	criteria := []*Criterion{{ID: 1, Weight: 1, MaxScore: 5}}
	passing := &Rating{
		EvaluationID: 1,
		Evaluation:   &Evaluation{ID: 1, Criteria: criteria},
		Items:        []*RatingItem{{CriterionID: 1, Score: 4}}, // 80%
	}
	low := &Rating{
		EvaluationID: 2,
		Evaluation:   &Evaluation{ID: 2, Criteria: criteria},
		Items:        []*RatingItem{{CriterionID: 1, Score: 2}}, // 40%
	}
	book := &Book{ID: 1, BookType: BookTypePatterns}
	links := []*BookEvaluation{
		typedLink(1, BookTypePatterns, true, 70),
		typedLink(2, BookTypePatterns, false, 70),
	}

	// avg (80+40)/2 = 60; the catalog's 0.8 relaxation would admit it,
	// the detail view must not.
	match := EvaluateBookDetail(book, links, []*Rating{passing, low}, DefaultRecommendationThreshold, 0)

	if !match.RequiredPassed {
		t.Fatal("required linkage at 80 must pass")
	}
	if match.MatchPercentage != 60 {
		t.Errorf("MatchPercentage = %v, want 60", match.MatchPercentage)
	}
	if match.IsRecommended {
		t.Error("average below the lowest minimum must not recommend")
	}
}

func TestEvaluateBookDetail_CompletionAloneDoesNotRecommend(t *testing.T) {
	criteria := []*Criterion{{ID: 1, Weight: 1, MaxScore: 5}}
	low := &Rating{
		EvaluationID: 5,
		Evaluation:   &Evaluation{ID: 5, Criteria: criteria},
		Items:        []*RatingItem{{CriterionID: 1, Score: 2}}, // 40%
	}
	book := &Book{ID: 1, BookType: BookTypePatterns}
	links := []*BookEvaluation{typedLink(5, BookTypePatterns, false, 70)}

	match := EvaluateBookDetail(book, links, []*Rating{low}, DefaultRecommendationThreshold, 0)

	if match.CompletedEvaluations != 1 {
		t.Fatalf("CompletedEvaluations = %d, want 1", match.CompletedEvaluations)
	}
	if match.IsRecommended {
		t.Error("a completed but failing evaluation must not recommend in the detail view")
	}
}

func TestEvaluateBookDetail_NoLinks(t *testing.T) {
	book := &Book{ID: 1, Status: BookStatusActive}

	match := EvaluateBookDetail(book, nil, nil, DefaultRecommendationThreshold, 0)

	if match.IsRecommended {
		t.Error("book without linkages must not be recommended")
	}
	if match.EvaluationResults == nil || len(match.EvaluationResults) != 0 {
		t.Errorf("EvaluationResults = %v, want empty", match.EvaluationResults)
	}
}

func TestEvaluateBookDetail_DiscountPreview(t *testing.T) {
	criteria := []*Criterion{{ID: 1, Weight: 1, MaxScore: 5}}
	full := &Rating{
		EvaluationID: 5,
		Evaluation:   &Evaluation{ID: 5, Criteria: criteria},
		Items:        []*RatingItem{{CriterionID: 1, Score: 5}}, // 100%
	}
	book := &Book{ID: 1, BookType: BookTypePatterns, Price: 200}
	links := []*BookEvaluation{typedLink(5, BookTypePatterns, true, 70)}

	match := EvaluateBookDetail(book, links, []*Rating{full}, DefaultRecommendationThreshold, 15)

	if !match.HasDiscount {
		t.Fatal("recommended book with a global discount must carry the preview")
	}
	if match.DiscountAmount != 30 || match.DiscountedPrice != 170 {
		t.Errorf("discount = %v/%v, want 30/170", match.DiscountAmount, match.DiscountedPrice)
	}
}

func TestPassRatioRecommended(t *testing.T) {
	criteria := []*Criterion{{ID: 1, Weight: 1, MaxScore: 5}}
	fullMarks := &Rating{
		EvaluationID: 1,
		Evaluation:   &Evaluation{ID: 1, Criteria: criteria},
		Items:        []*RatingItem{{CriterionID: 1, Score: 5}}, // 100%
	}
	failing := &Rating{
		EvaluationID: 2,
		Evaluation:   &Evaluation{ID: 2, Criteria: criteria},
		Items:        []*RatingItem{{CriterionID: 1, Score: 1}}, // 20%
	}

	tests := []struct {
		name     string
		links    []*BookEvaluation
		ratings  []*Rating
		expected bool
	}{
		{
			name:     "single passing linkage",
			links:    []*BookEvaluation{typedLink(1, BookTypePractices, true, 70)},
			ratings:  []*Rating{fullMarks},
			expected: true,
		},
		{
			// 1 of 2 passed → 50% < 70
			name: "pass ratio below seventy percent",
			links: []*BookEvaluation{
				typedLink(1, BookTypePractices, false, 70),
				typedLink(2, BookTypePractices, false, 70),
			},
			ratings:  []*Rating{fullMarks, failing},
			expected: false,
		},
		{
			name:     "no ratings",
			links:    []*BookEvaluation{typedLink(1, BookTypePractices, false, 70)},
			ratings:  nil,
			expected: false,
		},
		{
			name:     "no links",
			links:    nil,
			ratings:  []*Rating{fullMarks},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PassRatioRecommended(tt.links, tt.ratings)
			if got != tt.expected {
				t.Errorf("PassRatioRecommended() = %v, want %v", got, tt.expected)
			}
		})
	}
}
