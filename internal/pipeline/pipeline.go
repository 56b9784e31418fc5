// Package pipeline runs the full batch: load staged rows, normalize and
// dedupe them, link inspections to restaurants, derive summaries and transit
// metrics, score, and atomically replace the gold table.
package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/localeats/resolver/internal/aggregate"
	"github.com/localeats/resolver/internal/config"
	"github.com/localeats/resolver/internal/match"
	"github.com/localeats/resolver/internal/model"
	"github.com/localeats/resolver/internal/normalize"
	"github.com/localeats/resolver/internal/score"
	"github.com/localeats/resolver/internal/transit"
)

// Store is the persistence surface the engine needs. *store.Store satisfies
// it; tests supply fakes.
type Store interface {
	LoadRestaurants(ctx context.Context) ([]normalize.RawRestaurant, error)
	LoadInspections(ctx context.Context, jurisdiction model.Jurisdiction) ([]normalize.RawInspection, error)
	LoadStops(ctx context.Context) ([]normalize.RawStop, error)
	ReplaceGold(ctx context.Context, runID string, rows []model.GoldRow, scoredAt time.Time) error
	SaveRun(ctx context.Context, stats *model.RunStats) error
}

// Engine orchestrates one scoring run end to end.
type Engine struct {
	cfg   *config.Config
	store Store
	now   func() time.Time
}

// New builds an Engine. The clock is injectable for tests.
func New(cfg *config.Config, st Store) *Engine {
	return &Engine{cfg: cfg, store: st, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the engine clock.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Run executes the batch and returns its stats. Any required input that is
// entirely absent fails the run before gold is touched: a partial run must
// never replace a complete one.
func (e *Engine) Run(ctx context.Context) (*model.RunStats, error) {
	startedAt := e.now()
	stats := &model.RunStats{
		RunID:     uuid.NewString(),
		StartedAt: startedAt,
	}
	log := zap.L().With(zap.String("run_id", stats.RunID))
	log.Info("pipeline: run starting")

	restaurants, err := e.loadRestaurants(ctx, stats)
	if err != nil {
		return nil, err
	}
	inspections, err := e.loadInspections(ctx, stats)
	if err != nil {
		return nil, err
	}
	stops, err := e.loadStops(ctx, stats)
	if err != nil {
		return nil, err
	}

	links := e.link(restaurants, inspections, stats)
	byRestaurant := groupLinks(links)

	rows, err := e.derive(ctx, startedAt, restaurants, stops, byRestaurant, stats)
	if err != nil {
		return nil, err
	}

	if err := e.store.ReplaceGold(ctx, stats.RunID, rows, startedAt); err != nil {
		return nil, eris.Wrap(err, "pipeline: replace gold")
	}

	stats.CompletedAt = e.now()
	if err := e.store.SaveRun(ctx, stats); err != nil {
		return nil, eris.Wrap(err, "pipeline: save run stats")
	}

	log.Info("pipeline: run complete",
		zap.Int("scored", stats.Scored),
		zap.Int("links_accepted", stats.LinksAccepted),
		zap.Int("no_inspection_data", stats.NoInspectionData),
		zap.Int("no_transit", stats.NoTransit),
		zap.Duration("elapsed", stats.CompletedAt.Sub(stats.StartedAt)))
	return stats, nil
}

func (e *Engine) region() normalize.Region {
	rc := e.cfg.Region
	return normalize.NewRegion(rc.MinLat, rc.MaxLat, rc.MinLon, rc.MaxLon)
}

func (e *Engine) loadRestaurants(ctx context.Context, stats *model.RunStats) ([]model.RestaurantRecord, error) {
	raws, err := e.store.LoadRestaurants(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load restaurants")
	}
	if len(raws) == 0 {
		return nil, eris.New("pipeline: no staged restaurants; aborting run")
	}

	region := e.region()
	recs := make([]model.RestaurantRecord, 0, len(raws))
	for _, raw := range raws {
		rec, err := normalize.Restaurant(raw, region)
		if err != nil {
			stats.RestaurantsRejected++
			zap.L().Debug("pipeline: restaurant rejected",
				zap.String("restaurant_id", raw.RestaurantID), zap.Error(err))
			continue
		}
		recs = append(recs, *rec)
	}
	if len(recs) == 0 {
		return nil, eris.New("pipeline: every staged restaurant was rejected; aborting run")
	}
	recs = normalize.DedupeRestaurants(recs)
	stats.RestaurantsLoaded = len(recs)
	return recs, nil
}

func (e *Engine) loadInspections(ctx context.Context, stats *model.RunStats) (map[model.Jurisdiction][]model.InspectionRecord, error) {
	region := e.region()
	out := make(map[model.Jurisdiction][]model.InspectionRecord, 2)
	for _, j := range []model.Jurisdiction{model.JurisdictionBoston, model.JurisdictionCambridge} {
		raws, err := e.store.LoadInspections(ctx, j)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: load %s inspections", j)
		}
		if len(raws) == 0 {
			return nil, eris.Errorf("pipeline: no staged %s inspections; aborting run", j)
		}
		recs := make([]model.InspectionRecord, 0, len(raws))
		rejected := 0
		for _, raw := range raws {
			rec, err := normalize.Inspection(raw, region)
			if err != nil {
				rejected++
				zap.L().Debug("pipeline: inspection rejected",
					zap.String("inspection_id", raw.InspectionID),
					zap.String("jurisdiction", string(j)), zap.Error(err))
				continue
			}
			recs = append(recs, *rec)
		}
		recs = normalize.DedupeInspections(recs)
		stats.AddInspections(string(j), len(recs), rejected)
		out[j] = recs
	}
	return out, nil
}

func (e *Engine) loadStops(ctx context.Context, stats *model.RunStats) ([]model.TransitStop, error) {
	raws, err := e.store.LoadStops(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load stops")
	}
	if len(raws) == 0 {
		return nil, eris.New("pipeline: no staged transit stops; aborting run")
	}
	region := e.region()
	stops := make([]model.TransitStop, 0, len(raws))
	for _, raw := range raws {
		stop, err := normalize.Stop(raw, region)
		if err != nil {
			stats.StopsRejected++
			zap.L().Debug("pipeline: stop rejected", zap.String("stop_id", raw.StopID), zap.Error(err))
			continue
		}
		stops = append(stops, *stop)
	}
	stats.StopsLoaded = len(stops)
	return stops, nil
}

// link runs both jurisdiction matchers and resolves duplicate events across
// the union of their links.
func (e *Engine) link(restaurants []model.RestaurantRecord, inspections map[model.Jurisdiction][]model.InspectionRecord, stats *model.RunStats) []model.MatchLink {
	profiles := []match.Profile{
		match.BostonProfile(e.cfg.Match),
		match.CambridgeProfile(e.cfg.Match),
	}

	var links []model.MatchLink
	var mstats match.Stats
	for _, p := range profiles {
		m := match.NewMatcher(e.cfg.Match, p)
		out, s := m.Match(restaurants, inspections[p.Jurisdiction])
		links = append(links, out...)
		mstats.Add(s)
		zap.L().Info("pipeline: matcher pass done",
			zap.String("jurisdiction", string(p.Jurisdiction)),
			zap.Int("links", len(out)),
			zap.Int("candidates_scored", s.CandidatesScored))
	}

	before := len(links)
	links = match.DedupeLinks(links)

	stats.CandidatesScored = mstats.CandidatesScored
	stats.LinksBelowThreshold = mstats.BelowThreshold
	stats.LinksBeyondRange = mstats.BeyondRange
	stats.LinksDeduped = mstats.Deduped + (before - len(links))
	stats.LinksAccepted = len(links)
	return links
}

// derive computes the summary, transit metric, and score card for every
// restaurant. Restaurants are independent, so the work fans out across a
// bounded worker group; output order stays deterministic because each worker
// writes only its own index.
func (e *Engine) derive(ctx context.Context, now time.Time, restaurants []model.RestaurantRecord, stops []model.TransitStop, byRestaurant map[string][]model.MatchLink, stats *model.RunStats) ([]model.GoldRow, error) {
	agg := aggregate.New(e.cfg.Aggregate, now)
	trn := transit.New(e.cfg.Transit)
	scr := score.New(e.cfg.Score)

	workers := e.cfg.Engine.Workers
	if workers < 1 {
		workers = 1
	}

	rows := make([]model.GoldRow, len(restaurants))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range restaurants {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := restaurants[i]
			summary := agg.Summarize(r.RestaurantID, byRestaurant[r.RestaurantID])
			metric := trn.Nearest(&r, stops)
			card := scr.Score(&r, &summary, metric)
			rows[i] = model.GoldRow{
				Restaurant: r,
				Summary:    summary,
				Transit:    metric,
				Scores:     card,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: derive")
	}

	for i := range rows {
		if rows[i].Summary.TotalInspections == 0 {
			stats.NoInspectionData++
		}
		if rows[i].Transit == nil {
			stats.NoTransit++
		}
	}
	stats.Scored = len(rows)
	return rows, nil
}

func groupLinks(links []model.MatchLink) map[string][]model.MatchLink {
	out := make(map[string][]model.MatchLink)
	for _, l := range links {
		out[l.RestaurantID] = append(out[l.RestaurantID], l)
	}
	for id := range out {
		ls := out[id]
		sort.Slice(ls, func(i, j int) bool {
			if !ls[i].InspectedAt.Equal(ls[j].InspectedAt) {
				return ls[i].InspectedAt.Before(ls[j].InspectedAt)
			}
			return ls[i].ViolationCode < ls[j].ViolationCode
		})
	}
	return out
}
