package match

import (
	"strconv"

	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/localeats/resolver/internal/config"
	"github.com/localeats/resolver/internal/geodist"
	"github.com/localeats/resolver/internal/model"
)

// Stats counts what happened to candidates during one matching pass.
type Stats struct {
	CandidatesScored int
	BelowThreshold   int
	BeyondRange      int
	Deduped          int
}

// Add folds another pass's counts into s.
func (s *Stats) Add(o Stats) {
	s.CandidatesScored += o.CandidatesScored
	s.BelowThreshold += o.BelowThreshold
	s.BeyondRange += o.BeyondRange
	s.Deduped += o.Deduped
}

// Matcher links restaurants to one registry's inspections.
type Matcher struct {
	cfg     config.MatchConfig
	profile Profile
}

// NewMatcher creates a Matcher for the given jurisdiction profile.
func NewMatcher(cfg config.MatchConfig, profile Profile) *Matcher {
	return &Matcher{cfg: cfg, profile: profile}
}

// Match generates, scores, and thresholds candidate links for every
// restaurant against the given inspections, then dedups accepted links per
// real-world event. Restaurants with zero accepted links simply produce no
// links; that is not an error.
func (m *Matcher) Match(restaurants []model.RestaurantRecord, inspections []model.InspectionRecord) ([]model.MatchLink, Stats) {
	var stats Stats

	byPostal := indexByPostal(inspections)

	var accepted []model.MatchLink
	for i := range restaurants {
		r := &restaurants[i]
		for _, c := range m.candidates(r, inspections, byPostal) {
			stats.CandidatesScored++
			link, ok := m.score(r, c)
			if !ok {
				stats.BeyondRange++
				continue
			}
			if link.Confidence < m.cfg.AcceptThreshold {
				stats.BelowThreshold++
				continue
			}
			accepted = append(accepted, *link)
		}
	}

	deduped := DedupeLinks(accepted)
	stats.Deduped = len(accepted) - len(deduped)

	zap.L().Info("match: pass complete",
		zap.String("jurisdiction", string(m.profile.Jurisdiction)),
		zap.Int("candidates", stats.CandidatesScored),
		zap.Int("accepted", len(deduped)),
		zap.Int("below_threshold", stats.BelowThreshold),
		zap.Int("beyond_range", stats.BeyondRange),
		zap.Int("deduped", stats.Deduped),
	)

	return deduped, stats
}

// candidates restricts the inspection set for one restaurant to rows in the
// same city with the same or adjacent postal code, or rows inside the
// jurisdiction's geographic window. The bound keeps candidate volume
// tractable; it is not a correctness guarantee.
func (m *Matcher) candidates(r *model.RestaurantRecord, inspections []model.InspectionRecord, byPostal map[string][]*model.InspectionRecord) []*model.InspectionRecord {
	seen := make(map[string]bool)
	var out []*model.InspectionRecord

	for _, code := range nearPostalCodes(r.PostalCode) {
		for _, in := range byPostal[code] {
			if in.City != "" && r.City != "" && in.City != r.City {
				continue
			}
			if !seen[in.InspectionID] {
				seen[in.InspectionID] = true
				out = append(out, in)
			}
		}
	}

	if m.profile.UseCoordinates {
		window := geom.NewBounds(geom.XY)
		window.SetCoords(
			geom.Coord{r.Longitude - m.profile.WindowDeg, r.Latitude - m.profile.WindowDeg},
			geom.Coord{r.Longitude + m.profile.WindowDeg, r.Latitude + m.profile.WindowDeg},
		)
		for i := range inspections {
			in := &inspections[i]
			if !in.HasCoordinates() || seen[in.InspectionID] {
				continue
			}
			if window.OverlapsPoint(geom.XY, geom.Coord{*in.Longitude, *in.Latitude}) {
				seen[in.InspectionID] = true
				out = append(out, in)
			}
		}
	}

	return out
}

// score computes the bounded confidence for one candidate pair. Returns
// false when the candidate must be discarded outright (beyond the distance
// cutoff), regardless of how well the names agree.
func (m *Matcher) score(r *model.RestaurantRecord, in *model.InspectionRecord) (*model.MatchLink, bool) {
	ns := nameScore(r.Name, in.Establishment)
	if m.profile.AddressPostalBoost && ns < nameSubstring && addressPostalMatch(r, in) {
		ns = nameSubstring
	}

	link := &model.MatchLink{
		RestaurantID:  r.RestaurantID,
		InspectionID:  in.InspectionID,
		Jurisdiction:  in.Jurisdiction,
		NameScore:     ns,
		ViolationCode: in.ViolationCode,
		Severity:      in.Severity,
		Passed:        in.Passed,
		InspectedAt:   in.InspectedAt,
	}

	if m.profile.UseCoordinates && in.HasCoordinates() {
		dist := geodist.Meters(r.Latitude, r.Longitude, *in.Latitude, *in.Longitude)
		if dist > m.cfg.MaxDistanceM {
			return nil, false
		}
		gs := geoScore(dist)
		link.DistanceM = &dist
		link.GeoScore = &gs
		link.Confidence = m.cfg.NameWeight*ns + m.cfg.GeoWeight*gs
	} else {
		// No coordinate comparison: the categorical name score stands alone.
		link.Confidence = ns
	}

	return link, true
}

// indexByPostal groups inspections by their 5-digit postal code. Rows with
// the unknown sentinel are excluded from the index; they can still enter
// candidate sets through the geographic window.
func indexByPostal(inspections []model.InspectionRecord) map[string][]*model.InspectionRecord {
	idx := make(map[string][]*model.InspectionRecord)
	for i := range inspections {
		in := &inspections[i]
		if in.PostalCode == model.PostalUnknown {
			continue
		}
		idx[in.PostalCode] = append(idx[in.PostalCode], in)
	}
	return idx
}

// nearPostalCodes returns the code itself plus its numeric neighbors,
// covering establishments straddling a postal boundary.
func nearPostalCodes(code string) []string {
	if code == "" || code == model.PostalUnknown {
		return nil
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return []string{code}
	}
	return []string{
		formatPostal(n - 1),
		code,
		formatPostal(n + 1),
	}
}

func formatPostal(n int) string {
	if n < 0 {
		n = 0
	}
	s := strconv.Itoa(n)
	for len(s) < 5 {
		s = "0" + s
	}
	return s
}
