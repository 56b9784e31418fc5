package model

// PerformanceCategory buckets a restaurant's inspection pass rate.
type PerformanceCategory string

const (
	PerformanceExcellent        PerformanceCategory = "EXCELLENT"
	PerformanceGood             PerformanceCategory = "GOOD"
	PerformanceSatisfactory     PerformanceCategory = "SATISFACTORY"
	PerformanceNeedsImprovement PerformanceCategory = "NEEDS_IMPROVEMENT"
	PerformancePoor             PerformanceCategory = "POOR"
	PerformanceNoData           PerformanceCategory = "NO_DATA"
)

// HealthRiskLevel classifies inspection-derived risk.
type HealthRiskLevel string

const (
	RiskLow     HealthRiskLevel = "LOW_RISK"
	RiskMedium  HealthRiskLevel = "MEDIUM_RISK"
	RiskHigh    HealthRiskLevel = "HIGH_RISK"
	RiskUnknown HealthRiskLevel = "UNKNOWN_RISK"
)

// DataQuality reflects how much linked inspection evidence backs a summary.
type DataQuality string

const (
	QualityNoData  DataQuality = "NO_DATA"           // 0 links
	QualityLimited DataQuality = "LIMITED_DATA"      // 1-2 links
	QualityMedium  DataQuality = "MEDIUM_CONFIDENCE" // 3-9 links
	QualityHigh    DataQuality = "HIGH_CONFIDENCE"   // >= 10 links
)

// Sufficient reports whether the tier classifier may treat inspection
// evidence as real rather than a limited-data caveat.
func (q DataQuality) Sufficient() bool {
	return q == QualityMedium || q == QualityHigh
}

// InspectionSummary folds all accepted links for one restaurant into
// temporal and risk aggregates. Recomputed wholesale each run.
//
// Nil pass rates mean "no data" and serialize as -1 at the gold boundary;
// they are never coerced to zero.
type InspectionSummary struct {
	RestaurantID       string              `json:"restaurant_id"`
	TotalInspections   int                 `json:"total_inspections"`
	PassRate           *float64            `json:"pass_rate,omitempty"`        // percent, all time
	RecentPassRate     *float64            `json:"recent_pass_rate,omitempty"` // percent, 180-day window
	CriticalViolations int                 `json:"critical_violations"`        // distinct HIGH codes
	SeverityScore      float64             `json:"severity_score"`
	DaysSinceLast      *int                `json:"days_since_last,omitempty"`
	Performance        PerformanceCategory `json:"performance_category"`
	HealthRisk         HealthRiskLevel     `json:"health_risk_level"`
	DataQuality        DataQuality         `json:"data_quality"`
}

// EffectivePassRate returns the recent pass rate when present, otherwise the
// all-time rate. Nil means no inspection data at all.
func (s *InspectionSummary) EffectivePassRate() *float64 {
	if s.RecentPassRate != nil {
		return s.RecentPassRate
	}
	return s.PassRate
}
