package service

import (
	"context"
	"strconv"

	"qayeem-service/internal/domain"
)

// recommendationSettings is the snapshot of operator settings one request
// computes against. Settings are read fresh per request; an operator edit
// is visible on the next computation.
type recommendationSettings struct {
	Threshold   float64
	DiscountPct float64
}

// loadRecommendationSettings reads both recommendation settings, falling
// back to the defaults when a key is absent or unparsable. A threshold of
// zero or below also falls back, matching the linkage minimum semantics.
func loadRecommendationSettings(ctx context.Context, provider domain.SettingsProvider) (recommendationSettings, error) {
	s := recommendationSettings{
		Threshold:   domain.DefaultRecommendationThreshold,
		DiscountPct: domain.DefaultRecommendedBookDiscount,
	}

	raw, err := provider.Get(ctx, domain.SettingRecommendationThreshold)
	if err != nil {
		return s, err
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
		s.Threshold = v
	}

	raw, err = provider.Get(ctx, domain.SettingRecommendedBookDiscount)
	if err != nil {
		return s, err
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
		s.DiscountPct = v
	}

	return s, nil
}
