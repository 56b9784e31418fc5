// Package aggregate folds each restaurant's accepted match links into one
// inspection summary with temporal windows, risk classification, and an
// explicit missing-data policy.
package aggregate

import (
	"time"

	"github.com/localeats/resolver/internal/config"
	"github.com/localeats/resolver/internal/model"
)

// Aggregator produces inspection summaries against a fixed processing time,
// so every restaurant in a run shares the same recent window.
type Aggregator struct {
	cfg config.AggregateConfig
	now time.Time
}

// New creates an Aggregator pinned to the given processing time.
func New(cfg config.AggregateConfig, now time.Time) *Aggregator {
	return &Aggregator{cfg: cfg, now: now}
}

// Summarize folds the accepted links for one restaurant. An empty link set
// yields the no-data summary: zero inspections, nil pass rates, and
// UNKNOWN_RISK — never zeros that would read as "bad".
func (a *Aggregator) Summarize(restaurantID string, links []model.MatchLink) model.InspectionSummary {
	s := model.InspectionSummary{
		RestaurantID: restaurantID,
		DataQuality:  quality(len(links)),
	}

	if len(links) == 0 {
		s.Performance = model.PerformanceNoData
		s.HealthRisk = model.RiskUnknown
		return s
	}

	windowStart := a.now.AddDate(0, 0, -a.cfg.RecentWindowDays)

	var passed, recentTotal, recentPassed int
	var latest time.Time
	criticalCodes := make(map[string]bool)

	for _, l := range links {
		s.TotalInspections++
		if l.Passed {
			passed++
		}
		if !l.InspectedAt.Before(windowStart) {
			recentTotal++
			if l.Passed {
				recentPassed++
			}
		}
		if l.ViolationCode != "" {
			s.SeverityScore += l.Severity.Weight()
			if l.Severity == model.SeverityHigh {
				criticalCodes[l.ViolationCode] = true
			}
		}
		if l.InspectedAt.After(latest) {
			latest = l.InspectedAt
		}
	}

	rate := float64(passed) / float64(s.TotalInspections) * 100
	s.PassRate = &rate

	// A quiet recent window means "no recent data", not a zero rate.
	if recentTotal > 0 {
		recentRate := float64(recentPassed) / float64(recentTotal) * 100
		s.RecentPassRate = &recentRate
	}

	// Critical count is distinct HIGH codes, not occurrences.
	s.CriticalViolations = len(criticalCodes)

	days := int(a.now.Sub(latest).Hours() / 24)
	s.DaysSinceLast = &days

	s.Performance = performance(s.EffectivePassRate())
	s.HealthRisk = healthRisk(s.TotalInspections, s.CriticalViolations, s.EffectivePassRate())

	return s
}

// quality buckets link volume into the data-quality tiers.
func quality(links int) model.DataQuality {
	switch {
	case links == 0:
		return model.QualityNoData
	case links <= 2:
		return model.QualityLimited
	case links <= 9:
		return model.QualityMedium
	default:
		return model.QualityHigh
	}
}

// performance thresholds apply to the recent pass rate when one exists,
// falling back to the all-time rate. No rate at all forces NO_DATA.
func performance(rate *float64) model.PerformanceCategory {
	if rate == nil {
		return model.PerformanceNoData
	}
	switch r := *rate; {
	case r >= 95:
		return model.PerformanceExcellent
	case r >= 85:
		return model.PerformanceGood
	case r >= 70:
		return model.PerformanceSatisfactory
	case r >= 50:
		return model.PerformanceNeedsImprovement
	default:
		return model.PerformancePoor
	}
}

// healthRisk classifies inspection-derived risk.
func healthRisk(total, critical int, rate *float64) model.HealthRiskLevel {
	if total == 0 || rate == nil {
		return model.RiskUnknown
	}
	if critical == 0 && *rate >= 90 {
		return model.RiskLow
	}
	if critical <= 2 && *rate >= 70 {
		return model.RiskMedium
	}
	return model.RiskHigh
}
