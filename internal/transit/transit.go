// Package transit computes nearest-transit-stop metrics per restaurant via
// a bounded-window distance search.
package transit

import (
	"sort"

	"github.com/twpayne/go-geom"

	"github.com/localeats/resolver/internal/config"
	"github.com/localeats/resolver/internal/geodist"
	"github.com/localeats/resolver/internal/model"
)

// Accessibility category distance thresholds in meters.
const (
	immediateM = 200.0
	veryCloseM = 500.0
	walkableM  = 1000.0
)

// Engine ranks transit stops by walking distance from a restaurant.
type Engine struct {
	cfg config.TransitConfig
}

// New creates a proximity Engine.
func New(cfg config.TransitConfig) *Engine {
	return &Engine{cfg: cfg}
}

// rankedStop pairs a stop with its exact distance.
type rankedStop struct {
	stop      *model.TransitStop
	distanceM float64
}

// Nearest computes the transit metric for one restaurant, or nil when no
// stop lies within the maximum distance. The bounding-box pre-filter is an
// optimization only; exact distances are recomputed on the intersecting set.
func (e *Engine) Nearest(r *model.RestaurantRecord, stops []model.TransitStop) *model.TransitMetric {
	window := geom.NewBounds(geom.XY)
	window.SetCoords(
		geom.Coord{r.Longitude - e.cfg.WindowDeg, r.Latitude - e.cfg.WindowDeg},
		geom.Coord{r.Longitude + e.cfg.WindowDeg, r.Latitude + e.cfg.WindowDeg},
	)

	var ranked []rankedStop
	for i := range stops {
		s := &stops[i]
		if !window.OverlapsPoint(geom.XY, geom.Coord{s.Longitude, s.Latitude}) {
			continue
		}
		d := geodist.Meters(r.Latitude, r.Longitude, s.Latitude, s.Longitude)
		if d > e.cfg.MaxDistanceM {
			continue
		}
		ranked = append(ranked, rankedStop{stop: s, distanceM: d})
	}

	if len(ranked) == 0 {
		return nil
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].distanceM != ranked[j].distanceM {
			return ranked[i].distanceM < ranked[j].distanceM
		}
		return ranked[i].stop.StopID < ranked[j].stop.StopID
	})

	if e.cfg.KeepNearest > 0 && len(ranked) > e.cfg.KeepNearest {
		ranked = ranked[:e.cfg.KeepNearest]
	}

	nearest := ranked[0]
	metric := &model.TransitMetric{
		RestaurantID:     r.RestaurantID,
		NearestStopID:    nearest.stop.StopID,
		NearestStopName:  nearest.stop.Name,
		NearestDistanceM: nearest.distanceM,
		WalkMinutes:      nearest.distanceM / e.cfg.WalkMetersPerMin,
		Accessibility:    Category(nearest.distanceM),
		NearbyStops:      len(ranked),
	}
	for _, rs := range ranked {
		if rs.stop.Wheelchair {
			metric.AccessibleStops++
		}
		if rs.distanceM <= veryCloseM {
			metric.VeryCloseStops++
		}
	}

	return metric
}

// Category labels a kept stop distance. Entries only exist at or under the
// maximum distance, so the fallthrough label is ACCESSIBLE.
func Category(distanceM float64) model.AccessibilityCategory {
	switch {
	case distanceM <= immediateM:
		return model.AccessImmediate
	case distanceM <= veryCloseM:
		return model.AccessVeryClose
	case distanceM <= walkableM:
		return model.AccessWalkable
	default:
		return model.AccessAccessible
	}
}
