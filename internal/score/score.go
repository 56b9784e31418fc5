// Package score combines inspection summaries, transit metrics, and catalog
// fields into bounded sub-scores, a weighted overall score, and a
// recommendation tier.
package score

import (
	"math"

	"github.com/localeats/resolver/internal/config"
	"github.com/localeats/resolver/internal/model"
)

// Safety scoring constants. These heuristics are part of the output
// contract; changing them changes recommendation outcomes.
const (
	safetyBase        = 70.0
	safetyStaleFloor  = 50.0
	passRateWeight    = 0.3
	criticalPenalty   = 5.0
	severityPenalty   = 0.1
	staleDecayPerDays = 10.0 // lose 1 point per 10 days past the stale mark
)

// Scorer computes scorecards from the three upstream views.
type Scorer struct {
	cfg config.ScoreConfig
}

// New creates a Scorer.
func New(cfg config.ScoreConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score builds the scorecard for one restaurant. transit may be nil (no
// stop within range); that means a zero accessibility score, not missing
// data.
func (s *Scorer) Score(r *model.RestaurantRecord, sum *model.InspectionSummary, transit *model.TransitMetric) model.ScoreCard {
	card := model.ScoreCard{
		RestaurantID:  r.RestaurantID,
		Safety:        s.safety(r, sum),
		Accessibility: accessibility(transit),
		Popularity:    popularity(r),
		Value:         value(r),
	}

	overall := card.Safety*s.cfg.SafetyWeight +
		card.Accessibility*s.cfg.AccessibilityWeight +
		card.Popularity*s.cfg.PopularityWeight +
		card.Value*s.cfg.ValueWeight
	card.Overall = round2(overall)

	card.Tier = tier(card.Overall, sum.DataQuality)

	return card
}

// safety has three branches: a rating-derived proxy when no inspection data
// exists, a decayed floor when the latest inspection is stale, and the
// pass-rate-adjusted base otherwise. All branches clamp to [0,100].
func (s *Scorer) safety(r *model.RestaurantRecord, sum *model.InspectionSummary) float64 {
	if sum == nil || sum.TotalInspections == 0 {
		return clamp(ratingProxy(r.Rating))
	}

	if sum.DaysSinceLast != nil && *sum.DaysSinceLast > s.cfg.StaleAfterDays {
		overdue := float64(*sum.DaysSinceLast - s.cfg.StaleAfterDays)
		return clamp(safetyStaleFloor - overdue/staleDecayPerDays)
	}

	v := safetyBase
	if rate := sum.EffectivePassRate(); rate != nil {
		v += *rate * passRateWeight
	}
	v -= float64(sum.CriticalViolations) * criticalPenalty
	v -= sum.SeverityScore * severityPenalty
	return clamp(v)
}

// ratingProxy substitutes catalog rating for absent inspection history.
func ratingProxy(rating float64) float64 {
	switch {
	case rating >= 4.5:
		return 70
	case rating >= 4.0:
		return 60
	case rating >= 3.5:
		return 50
	default:
		return 40
	}
}

// accessibility scores transit proximity: a distance-tier base weighted 0.6
// plus a very-close stop-count term weighted 0.4.
func accessibility(t *model.TransitMetric) float64 {
	if t == nil || t.NearbyStops == 0 {
		return 0
	}

	var base float64
	switch {
	case t.NearestDistanceM <= 200:
		base = 100
	case t.NearestDistanceM <= 500:
		base = 85
	case t.NearestDistanceM <= 1000:
		base = 65
	default:
		base = 40
	}

	return clamp(base*0.6 + float64(t.VeryCloseStops)*4*0.4)
}

// popularity scores catalog rating and review volume. Zero reviews means
// zero popularity, not a neutral default.
func popularity(r *model.RestaurantRecord) float64 {
	if r.ReviewCount == 0 {
		return 0
	}

	ratingTerm := r.Rating / 5 * 100 * 0.6

	var reviewTerm float64
	switch {
	case r.ReviewCount >= 500:
		reviewTerm = 100
	case r.ReviewCount >= 200:
		reviewTerm = 80
	case r.ReviewCount >= 100:
		reviewTerm = 60
	default:
		reviewTerm = 0.6 * float64(r.ReviewCount)
	}

	return clamp(ratingTerm + reviewTerm*0.4)
}

// value scores price against rating. An unknown price tier scores a flat 50.
func value(r *model.RestaurantRecord) float64 {
	if r.PriceTier == 0 {
		return 50
	}

	priceInverse := float64(5-r.PriceTier) * 20
	ratingPerPrice := r.Rating * 20 / float64(r.PriceTier)
	return clamp(priceInverse*0.5 + ratingPerPrice*0.5)
}

// tier classifies the overall score, with a limited-data caveat for
// high-scoring restaurants that lack inspection evidence.
func tier(overall float64, quality model.DataQuality) model.RecommendationTier {
	switch {
	case overall >= 80 && quality != model.QualityNoData:
		return model.TierHighlyRecommended
	case overall >= 80:
		return model.TierRecommendedLimited
	case overall >= 60:
		return model.TierRecommended
	case overall >= 40:
		return model.TierAverage
	default:
		return model.TierBelowAverage
	}
}

func clamp(v float64) float64 {
	return round2(math.Min(100, math.Max(0, v)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
