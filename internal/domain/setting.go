package domain

import (
	"time"
)

// Setting keys consumed by the recommendation and pricing paths. Settings
// are operator-editable key-value pairs read fresh on every request; there
// is no caching layer between an admin edit and the next computation.
const (
	SettingRecommendationThreshold = "recommendation_threshold"
	SettingRecommendedBookDiscount = "recommended_book_discount"
)

// Defaults used when a setting is absent or unparsable.
const (
	DefaultRecommendationThreshold = 70.0
	DefaultRecommendedBookDiscount = 0.0
)

// Setting is one operator-editable key-value pair.
type Setting struct {
	ID            uint      `json:"id"`
	Key           string    `json:"key"`
	Value         string    `json:"value"`
	ValueAr       string    `json:"value_ar,omitempty"`
	Description   string    `json:"description,omitempty"`
	DescriptionAr string    `json:"description_ar,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
