package domain

// AnswerPercentageScore computes the percentage score for one rating using
// the two-level weighting scheme: each answered question contributes
// questionPercentage × (answerPercentage / 100), and the sum is normalized
// against the questionPercentage mass that was actually answered.
//
//	result = Σ qp_i × (ap_i / 100) / Σ qp_i × 100
//
// Normalizing by answered mass means partially answered or misconfigured
// evaluations yield the weighted average of what was answered, not a
// global percentage. Items whose criterion cannot be found contribute
// nothing, silently. Scores outside 1..5 contribute an answer percentage
// of 0 but still add their question mass. Zero answered mass yields 0.
func AnswerPercentageScore(criteria []*Criterion, items []*RatingItem) float64 {
	byID := make(map[uint]*Criterion, len(criteria))
	for _, c := range criteria {
		byID[c.ID] = c
	}

	totalQuestionPercentage := 0.0
	totalScorePercentage := 0.0

	for _, item := range items {
		criterion := item.Criterion
		if criterion == nil {
			criterion = byID[item.CriterionID]
		}
		if criterion == nil {
			continue
		}

		questionPercentage := criterion.QuestionPercentage
		totalQuestionPercentage += questionPercentage

		answerPercentage := criterion.AnswerPercentage(item.Score)
		totalScorePercentage += questionPercentage * (answerPercentage / 100)
	}

	if totalQuestionPercentage <= 0 {
		return 0
	}
	return (totalScorePercentage / totalQuestionPercentage) * 100
}

// WeightedAverageScore computes the legacy percentage for one rating:
//
//	result = Σ (score_i / maxScore_i) × weight_i / Σ weight_j × 100
//
// where the weight sum runs over ALL of the evaluation's criteria, not
// just the answered ones; unanswered questions count as zero. Weight
// defaults to 1 and maxScore to 10 when unset. This strategy coexists
// with AnswerPercentageScore and must not be merged with it: the single
// book match endpoint and the payment-time recommendation check depend on
// this formula.
func WeightedAverageScore(criteria []*Criterion, items []*RatingItem) float64 {
	maxPossible := 0.0
	for _, c := range criteria {
		maxPossible += c.EffectiveWeight()
	}
	if maxPossible <= 0 {
		return 0
	}

	byID := make(map[uint]*Criterion, len(criteria))
	for _, c := range criteria {
		byID[c.ID] = c
	}

	actual := 0.0
	for _, item := range items {
		criterion := item.Criterion
		if criterion == nil {
			criterion = byID[item.CriterionID]
		}
		if criterion == nil {
			continue
		}
		actual += float64(item.Score) / criterion.EffectiveMaxScore() * criterion.EffectiveWeight()
	}

	return (actual / maxPossible) * 100
}

// LegacyTotalScore computes the unnormalized weighted sum stored on the
// Rating at submission time:
//
//	Σ score_i × weight_i / maxScore_i
//
// Legacy consumers read this field directly; recommendations derive
// percentages from the items instead, but the field is still maintained.
func LegacyTotalScore(criteria []*Criterion, items []*RatingItem) float64 {
	byID := make(map[uint]*Criterion, len(criteria))
	for _, c := range criteria {
		byID[c.ID] = c
	}

	total := 0.0
	for _, item := range items {
		criterion := byID[item.CriterionID]
		if criterion == nil {
			continue
		}
		total += float64(item.Score) * criterion.EffectiveWeight() / criterion.EffectiveMaxScore()
	}
	return total
}

// EvaluationScores maps evaluation id to the user's percentage score.
type EvaluationScores map[uint]float64

// ScoresByEvaluation builds the per-evaluation score map from a user's
// submitted ratings. Ratings with items use the answer-percentage
// strategy; ratings without items fall back to totalScore over the weight
// sum of the evaluation's criteria.
func ScoresByEvaluation(ratings []*Rating) EvaluationScores {
	scores := make(EvaluationScores, len(ratings))

	for _, rating := range ratings {
		if rating.Evaluation == nil {
			continue
		}
		if len(rating.Items) > 0 {
			scores[rating.EvaluationID] = AnswerPercentageScore(rating.Evaluation.Criteria, rating.Items)
			continue
		}

		maxPossible := 0.0
		for _, c := range rating.Evaluation.Criteria {
			maxPossible += c.EffectiveWeight()
		}
		if maxPossible > 0 {
			scores[rating.EvaluationID] = rating.TotalScore / maxPossible * 100
		} else {
			scores[rating.EvaluationID] = 0
		}
	}

	return scores
}
