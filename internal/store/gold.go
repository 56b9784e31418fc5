package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"github.com/localeats/resolver/internal/model"
)

// passRateNoData is the serialized sentinel for a nil pass rate. The gold
// contract keeps -1 for "no data" so downstream consumers never mistake
// absence for a zero rate.
const passRateNoData = -1.0

// ReplaceGold replaces the previous run's gold output wholesale inside one
// transaction. A failed run leaves the prior gold rows untouched.
func (s *Store) ReplaceGold(ctx context.Context, runID string, rows []model.GoldRow, scoredAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "store: begin gold replace")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM gold_restaurants"); err != nil {
		return eris.Wrap(err, "store: clear gold")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO gold_restaurants (
		restaurant_id, name, address, city, state, postal_code, latitude, longitude,
		categories, rating, review_count, price_tier, closed,
		total_inspections, pass_rate, recent_pass_rate, critical_violations,
		severity_score, days_since_last, performance_category, health_risk_level, data_quality,
		nearest_stop_id, nearest_stop_name, nearest_distance_m, walk_minutes,
		accessibility_category, nearby_stops, accessible_stops, very_close_stops,
		safety_score, accessibility_score, popularity_score, value_score,
		overall_score, recommendation_tier, run_id, scored_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "store: prepare gold insert")
	}
	defer stmt.Close()

	for _, row := range rows {
		r, sum, sc := row.Restaurant, row.Summary, row.Scores

		passRate := passRateNoData
		if sum.PassRate != nil {
			passRate = *sum.PassRate
		}

		var nearestID, nearestName, accessCat any
		var nearestDist, walkMin any
		var nearby, accessible, veryClose int
		if t := row.Transit; t != nil {
			nearestID = t.NearestStopID
			nearestName = t.NearestStopName
			nearestDist = t.NearestDistanceM
			walkMin = t.WalkMinutes
			accessCat = string(t.Accessibility)
			nearby = t.NearbyStops
			accessible = t.AccessibleStops
			veryClose = t.VeryCloseStops
		}

		categories, err := json.Marshal(r.Categories)
		if err != nil {
			return eris.Wrapf(err, "store: marshal categories %s", r.RestaurantID)
		}

		if _, err := stmt.ExecContext(ctx,
			r.RestaurantID, r.Name, r.Address, r.City, r.State, r.PostalCode,
			r.Latitude, r.Longitude, string(categories), r.Rating, r.ReviewCount,
			r.PriceTier, r.Closed,
			sum.TotalInspections, passRate, sum.RecentPassRate,
			sum.CriticalViolations, sum.SeverityScore, sum.DaysSinceLast,
			string(sum.Performance), string(sum.HealthRisk), string(sum.DataQuality),
			nearestID, nearestName, nearestDist, walkMin, accessCat,
			nearby, accessible, veryClose,
			sc.Safety, sc.Accessibility, sc.Popularity, sc.Value,
			sc.Overall, string(sc.Tier), runID, scoredAt.UTC(),
		); err != nil {
			return eris.Wrapf(err, "store: insert gold %s", r.RestaurantID)
		}
	}

	return eris.Wrap(tx.Commit(), "store: commit gold replace")
}

// GoldFilters restricts LoadGold output.
type GoldFilters struct {
	Tier  model.RecommendationTier
	Limit int
}

// LoadGold reads gold rows ordered by overall score descending, then id.
func (s *Store) LoadGold(ctx context.Context, filters GoldFilters) ([]model.GoldRow, error) {
	query := `SELECT
		restaurant_id, name, address, city, state, postal_code, latitude, longitude,
		categories, rating, review_count, price_tier, closed,
		total_inspections, pass_rate, recent_pass_rate, critical_violations,
		severity_score, days_since_last, performance_category, health_risk_level, data_quality,
		nearest_stop_id, nearest_stop_name, nearest_distance_m, walk_minutes,
		accessibility_category, nearby_stops, accessible_stops, very_close_stops,
		safety_score, accessibility_score, popularity_score, value_score,
		overall_score, recommendation_tier
		FROM gold_restaurants`
	var args []any
	if filters.Tier != "" {
		query += " WHERE recommendation_tier = ?"
		args = append(args, string(filters.Tier))
	}
	query += " ORDER BY overall_score DESC, restaurant_id"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "store: query gold")
	}
	defer rows.Close()

	var out []model.GoldRow
	for rows.Next() {
		var g model.GoldRow
		var categories string
		var passRate float64
		var recentPassRate *float64
		var daysSinceLast *int
		var perf, risk, quality, tier string
		var nearestID, nearestName, accessCat sql.NullString
		var nearestDist, walkMin sql.NullFloat64
		var nearby, accessible, veryClose int

		if err := rows.Scan(
			&g.Restaurant.RestaurantID, &g.Restaurant.Name, &g.Restaurant.Address,
			&g.Restaurant.City, &g.Restaurant.State, &g.Restaurant.PostalCode,
			&g.Restaurant.Latitude, &g.Restaurant.Longitude, &categories,
			&g.Restaurant.Rating, &g.Restaurant.ReviewCount, &g.Restaurant.PriceTier,
			&g.Restaurant.Closed,
			&g.Summary.TotalInspections, &passRate, &recentPassRate,
			&g.Summary.CriticalViolations, &g.Summary.SeverityScore, &daysSinceLast,
			&perf, &risk, &quality,
			&nearestID, &nearestName, &nearestDist, &walkMin, &accessCat,
			&nearby, &accessible, &veryClose,
			&g.Scores.Safety, &g.Scores.Accessibility, &g.Scores.Popularity,
			&g.Scores.Value, &g.Scores.Overall, &tier,
		); err != nil {
			return nil, eris.Wrap(err, "store: scan gold row")
		}

		if categories != "" && categories != "null" {
			if err := json.Unmarshal([]byte(categories), &g.Restaurant.Categories); err != nil {
				return nil, eris.Wrapf(err, "store: unmarshal categories %s", g.Restaurant.RestaurantID)
			}
		}

		g.Summary.RestaurantID = g.Restaurant.RestaurantID
		if passRate >= 0 {
			g.Summary.PassRate = &passRate
		}
		g.Summary.RecentPassRate = recentPassRate
		g.Summary.DaysSinceLast = daysSinceLast
		g.Summary.Performance = model.PerformanceCategory(perf)
		g.Summary.HealthRisk = model.HealthRiskLevel(risk)
		g.Summary.DataQuality = model.DataQuality(quality)

		if nearestID.Valid {
			g.Transit = &model.TransitMetric{
				RestaurantID:     g.Restaurant.RestaurantID,
				NearestStopID:    nearestID.String,
				NearestStopName:  nearestName.String,
				NearestDistanceM: nearestDist.Float64,
				WalkMinutes:      walkMin.Float64,
				Accessibility:    model.AccessibilityCategory(accessCat.String),
				NearbyStops:      nearby,
				AccessibleStops:  accessible,
				VeryCloseStops:   veryClose,
			}
		}

		g.Scores.RestaurantID = g.Restaurant.RestaurantID
		g.Scores.Tier = model.RecommendationTier(tier)

		out = append(out, g)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate gold rows")
}

// SaveRun persists one run's statistics.
func (s *Store) SaveRun(ctx context.Context, stats *model.RunStats) error {
	blob, err := json.Marshal(stats)
	if err != nil {
		return eris.Wrap(err, "store: marshal run stats")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, completed_at, stats) VALUES (?, ?, ?, ?)`,
		stats.RunID, stats.StartedAt.UTC(), stats.CompletedAt.UTC(), string(blob),
	)
	return eris.Wrapf(err, "store: insert run %s", stats.RunID)
}

// LatestRun returns the most recent run's statistics, or nil when no run
// has completed yet.
func (s *Store) LatestRun(ctx context.Context) (*model.RunStats, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT stats FROM runs ORDER BY started_at DESC, id DESC LIMIT 1`,
	).Scan(&blob)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "store: query latest run")
	}

	var stats model.RunStats
	if err := json.Unmarshal([]byte(blob), &stats); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal run stats")
	}
	return &stats, nil
}
