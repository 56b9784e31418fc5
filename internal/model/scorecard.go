package model

// RecommendationTier is the final discrete output label.
type RecommendationTier string

const (
	TierHighlyRecommended  RecommendationTier = "HIGHLY_RECOMMENDED"
	TierRecommendedLimited RecommendationTier = "RECOMMENDED_LIMITED_DATA"
	TierRecommended        RecommendationTier = "RECOMMENDED"
	TierAverage            RecommendationTier = "AVERAGE"
	TierBelowAverage       RecommendationTier = "BELOW_AVERAGE"
)

// ScoreCard holds the four sub-scores, the weighted overall score, and the
// recommendation tier for one restaurant. Stateless with respect to prior
// runs; fully recomputed every time.
type ScoreCard struct {
	RestaurantID  string             `json:"restaurant_id"`
	Safety        float64            `json:"safety_score"`
	Accessibility float64            `json:"accessibility_score"`
	Popularity    float64            `json:"popularity_score"`
	Value         float64            `json:"value_score"`
	Overall       float64            `json:"overall_score"`
	Tier          RecommendationTier `json:"recommendation_tier"`
}

// GoldRow is the full per-restaurant output contract consumed by the
// retrieval layer. Renaming or dropping any field here is a breaking change.
type GoldRow struct {
	Restaurant RestaurantRecord  `json:"restaurant"`
	Summary    InspectionSummary `json:"summary"`
	Transit    *TransitMetric    `json:"transit,omitempty"`
	Scores     ScoreCard         `json:"scores"`
}
