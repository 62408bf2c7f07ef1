package domain

import (
	"math"
	"sort"
)

// Catalog banding boundaries and display cap.
const (
	highMatchFloor   = 70.0
	mediumMatchFloor = 50.0
	catalogLimit     = 6
)

// EvaluationResult is the per-linkage breakdown of a user's standing
// against one of a book's effective evaluations. A book linked to the
// same evaluation both directly and by type produces two results with the
// same EvaluationID and possibly different requirement terms.
type EvaluationResult struct {
	EvaluationID      uint    `json:"evaluation_id"`
	EvaluationTitle   string  `json:"evaluation_title"`
	EvaluationTitleAr string  `json:"evaluation_title_ar,omitempty"`
	UserScore         float64 `json:"user_score"`
	MinRequired       float64 `json:"min_required"`
	IsPassed          bool    `json:"is_passed"`
	IsRequired        bool    `json:"is_required"`
}

// BookMatch is the recommendation outcome for one book and one user.
type BookMatch struct {
	Book                 *Book              `json:"book"`
	MatchPercentage      float64            `json:"match_percentage"`
	IsRecommended        bool               `json:"is_recommended"`
	MeetsThreshold       bool               `json:"meets_threshold"`
	EvaluationResults    []EvaluationResult `json:"evaluation_results"`
	RequiredPassed       bool               `json:"required_evaluations_passed"`
	TotalEvaluations     int                `json:"total_evaluations"`
	CompletedEvaluations int                `json:"completed_evaluations"`
	AverageRating        float64            `json:"average_rating"`
	ReviewsCount         int                `json:"reviews_count"`

	// Discount preview, populated only for recommended books when the
	// global recommended-book discount is configured.
	HasDiscount        bool    `json:"has_discount"`
	DiscountPercentage float64 `json:"discount_percentage"`
	OriginalPrice      float64 `json:"original_price,omitempty"`
	DiscountedPrice    float64 `json:"discounted_price,omitempty"`
	DiscountAmount     float64 `json:"discount_amount,omitempty"`
}

// EvaluateBook computes the match percentage and recommendation decision
// for one book against a user's per-evaluation scores. links must be the
// book's effective evaluation set (see EffectiveEvaluations).
//
// Decision policy:
//
//   - No required linkage: recommended when any linkage is passed OR any
//     linkage has a score above zero. Completion alone earns the
//     recommendation.
//   - At least one required linkage: every required linkage must pass,
//     and the unweighted average across ALL linkages must reach either the
//     lowest MinRequired among the linkages or 0.8 times that value. The
//     first arm of the OR is subsumed by the second whenever it holds;
//     keep both, downstream behavior depends on the combined condition
//     (effectively avg >= 0.8 * min threshold).
//
// A book with zero effective linkages is never recommended and carries an
// empty (non-nil) result list.
func EvaluateBook(book *Book, links []*BookEvaluation, scores EvaluationScores, threshold, globalDiscountPct float64) *BookMatch {
	match := &BookMatch{
		Book:              book,
		EvaluationResults: []EvaluationResult{},
		AverageRating:     book.AverageRating(),
		ReviewsCount:      len(book.Reviews),
		TotalEvaluations:  len(links),
		RequiredPassed:    true,
	}
	if len(links) == 0 {
		return match
	}

	for _, be := range links {
		result := EvaluationResult{
			EvaluationID: be.EvaluationID,
			UserScore:    scores[be.EvaluationID],
			MinRequired:  be.MinRequired(),
			IsRequired:   be.IsRequired,
		}
		if be.Evaluation != nil {
			result.EvaluationTitle = be.Evaluation.Title
			result.EvaluationTitleAr = be.Evaluation.TitleAr
		}
		result.IsPassed = result.UserScore >= result.MinRequired
		match.EvaluationResults = append(match.EvaluationResults, result)
	}

	requiredCount := 0
	allRequiredPassed := true
	anyPassed := false
	anyCompleted := false
	total := 0.0
	overallMinScore := math.Inf(1)

	for _, er := range match.EvaluationResults {
		total += er.UserScore
		if er.UserScore > 0 {
			anyCompleted = true
			match.CompletedEvaluations++
		}
		if er.IsPassed {
			anyPassed = true
		}
		if er.IsRequired {
			requiredCount++
			if !er.IsPassed {
				allRequiredPassed = false
			}
		}
		if er.MinRequired < overallMinScore {
			overallMinScore = er.MinRequired
		}
	}

	avgScore := total / float64(len(match.EvaluationResults))
	match.MatchPercentage = roundTo2Decimals(avgScore)
	match.MeetsThreshold = avgScore >= threshold
	match.RequiredPassed = allRequiredPassed

	if requiredCount == 0 {
		match.IsRecommended = anyPassed || anyCompleted
	} else {
		thresholdFlex := overallMinScore * 0.8
		match.IsRecommended = allRequiredPassed &&
			(avgScore >= overallMinScore || avgScore >= thresholdFlex)
	}

	if match.IsRecommended && globalDiscountPct > 0 {
		originalPrice := book.Price
		discountAmount := originalPrice * globalDiscountPct / 100
		match.HasDiscount = true
		match.DiscountPercentage = globalDiscountPct
		match.OriginalPrice = originalPrice
		match.DiscountAmount = roundTo2Decimals(discountAmount)
		match.DiscountedPrice = roundTo2Decimals(originalPrice - discountAmount)
	}

	return match
}

// Catalog is the assembled, capped recommendation list for one user.
type Catalog struct {
	Books       []*BookMatch `json:"books"`
	Total       int          `json:"total"`
	Recommended int          `json:"recommended"`
	HighMatch   int          `json:"high_match"`
}

// AssembleCatalog orders and truncates per-book matches into the final
// list. Matches are sorted by match percentage descending, filtered to the
// displayable set (recommended, or any positive match, or, when the user
// has submitted at least one rating, any book with linked evaluations),
// then partitioned into four bands: high (>=70), medium (50 to 70), low
// (0 to 50) and zero-but-linked. Bands are concatenated in that priority
// order and the result is capped at 6 entries.
func AssembleCatalog(matches []*BookMatch, hasSubmittedRatings bool) *Catalog {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchPercentage > matches[j].MatchPercentage
	})

	displayable := make([]*BookMatch, 0, len(matches))
	for _, m := range matches {
		if m.IsRecommended || m.MatchPercentage > 0 ||
			(hasSubmittedRatings && m.TotalEvaluations > 0) {
			displayable = append(displayable, m)
		}
	}

	var high, medium, low, zero []*BookMatch
	for _, m := range displayable {
		switch {
		case m.MatchPercentage >= highMatchFloor:
			high = append(high, m)
		case m.MatchPercentage >= mediumMatchFloor:
			medium = append(medium, m)
		case m.MatchPercentage > 0:
			low = append(low, m)
		case m.TotalEvaluations > 0:
			zero = append(zero, m)
		}
	}

	final := make([]*BookMatch, 0, len(displayable))
	final = append(final, high...)
	final = append(final, medium...)
	final = append(final, low...)
	final = append(final, zero...)
	if len(final) > catalogLimit {
		final = final[:catalogLimit]
	}

	catalog := &Catalog{
		Books: final,
		Total: len(final),
	}
	for _, m := range final {
		if m.IsRecommended {
			catalog.Recommended++
		}
		if m.MatchPercentage >= highMatchFloor {
			catalog.HighMatch++
		}
	}
	return catalog
}

// EvaluateBookDetail computes the single-book breakdown. Unlike the
// catalog engine it scores each linkage with the legacy weighted strategy
// (WeightedAverageScore over the rating's items) and decides strictly:
// all required linkages passed and the average score reaches the lowest
// MinRequired across linkages. There is no flexible-threshold arm and no
// completion-only recommendation here; the detail endpoint judges harder
// than the catalog and the two strategies must not be merged.
func EvaluateBookDetail(book *Book, links []*BookEvaluation, ratings []*Rating, threshold, globalDiscountPct float64) *BookMatch {
	match := &BookMatch{
		Book:              book,
		EvaluationResults: []EvaluationResult{},
		AverageRating:     book.AverageRating(),
		ReviewsCount:      len(book.Reviews),
		TotalEvaluations:  len(links),
		RequiredPassed:    true,
	}
	if len(links) == 0 {
		return match
	}

	byEvaluation := make(map[uint]*Rating, len(ratings))
	for _, r := range ratings {
		byEvaluation[r.EvaluationID] = r
	}

	total := 0.0
	allRequiredPassed := true
	overallMinScore := math.Inf(1)
	for _, be := range links {
		userScore := 0.0
		if rating := byEvaluation[be.EvaluationID]; rating != nil &&
			rating.Evaluation != nil && len(rating.Items) > 0 {
			userScore = WeightedAverageScore(rating.Evaluation.Criteria, rating.Items)
		}

		result := EvaluationResult{
			EvaluationID: be.EvaluationID,
			UserScore:    userScore,
			MinRequired:  be.MinRequired(),
			IsRequired:   be.IsRequired,
		}
		if be.Evaluation != nil {
			result.EvaluationTitle = be.Evaluation.Title
			result.EvaluationTitleAr = be.Evaluation.TitleAr
		}
		result.IsPassed = userScore >= result.MinRequired
		match.EvaluationResults = append(match.EvaluationResults, result)

		total += userScore
		if userScore > 0 {
			match.CompletedEvaluations++
		}
		if be.IsRequired && !result.IsPassed {
			allRequiredPassed = false
		}
		if result.MinRequired < overallMinScore {
			overallMinScore = result.MinRequired
		}
	}

	avgScore := total / float64(len(links))
	match.MatchPercentage = roundTo2Decimals(avgScore)
	match.MeetsThreshold = avgScore >= threshold
	match.RequiredPassed = allRequiredPassed
	match.IsRecommended = allRequiredPassed && avgScore >= overallMinScore

	if match.IsRecommended && globalDiscountPct > 0 {
		originalPrice := book.Price
		discountAmount := originalPrice * globalDiscountPct / 100
		match.HasDiscount = true
		match.DiscountPercentage = globalDiscountPct
		match.OriginalPrice = originalPrice
		match.DiscountAmount = roundTo2Decimals(discountAmount)
		match.DiscountedPrice = roundTo2Decimals(originalPrice - discountAmount)
	}

	return match
}

// PassRatioRecommended is the payment-time recommendation check. It
// scores each linkage with the legacy weighted strategy, then averages
// pass/fail outcomes rather than raw scores:
//
//	recommended = all required passed AND (passed / total) × 100 ≥ 70
//
// This differs from EvaluateBook's score-average policy; the purchase
// discount path judges on pass ratio.
func PassRatioRecommended(links []*BookEvaluation, ratings []*Rating) bool {
	if len(links) == 0 || len(ratings) == 0 {
		return false
	}

	byEvaluation := make(map[uint]*Rating, len(ratings))
	for _, r := range ratings {
		byEvaluation[r.EvaluationID] = r
	}

	passed := 0
	allRequiredPassed := true
	for _, be := range links {
		userScore := 0.0
		if rating := byEvaluation[be.EvaluationID]; rating != nil &&
			rating.Evaluation != nil && len(rating.Items) > 0 {
			userScore = WeightedAverageScore(rating.Evaluation.Criteria, rating.Items)
		}
		isPassed := userScore >= be.MinRequired()
		if isPassed {
			passed++
		}
		if be.IsRequired && !isPassed {
			allRequiredPassed = false
		}
	}

	avgScore := float64(passed) / float64(len(links)) * 100
	return allRequiredPassed && avgScore >= 70
}

// roundTo2Decimals rounds a float to 2 decimal places.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}
