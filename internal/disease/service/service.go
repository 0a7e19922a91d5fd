// Package service implements the disease statistics aggregator: cross-region
// summaries, per-region series with resolved populations, and link
// applicability.
package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"epiwatch/internal/disease/models"
	"epiwatch/internal/news"
	popmodels "epiwatch/internal/population/models"
	popservice "epiwatch/internal/population/service"
	regionmodels "epiwatch/internal/region/models"
	dErrors "epiwatch/pkg/domain-errors"
	"epiwatch/pkg/date"
)

// Store is the storage contract the aggregator consumes.
type Store interface {
	List(ctx context.Context) ([]models.Disease, error)
	Get(ctx context.Context, id string) (*models.Detail, error)
	SummaryByRegion(ctx context.Context, disease string) ([]models.RegionStat, error)
	Series(ctx context.Context, disease, region string) ([]models.Observation, error)
	Links(ctx context.Context, disease string) ([]models.Link, error)
}

// PopulationResolver joins population estimates onto regions and dates.
type PopulationResolver interface {
	ResolveRange(ctx context.Context, region string, from, to date.Date) ([]popmodels.Sample, error)
	LatestAll(ctx context.Context) (map[string]int64, error)
}

// RegionLookup supplies region display names for the news search.
type RegionLookup interface {
	Get(ctx context.Context, id regionmodels.ID) (*regionmodels.Region, error)
}

// Searcher is the external news provider.
type Searcher interface {
	Search(ctx context.Context, topic, place string) ([]news.Article, error)
}

// Service aggregates disease statistics. It holds no mutable state; every
// call works on fresh snapshots from the store.
type Service struct {
	store      Store
	population PopulationResolver
	regions    RegionLookup
	news       Searcher
}

// New constructs the aggregator. news may be nil when no provider is
// configured.
func New(store Store, population PopulationResolver, regions RegionLookup, searcher Searcher) *Service {
	return &Service{
		store:      store,
		population: population,
		regions:    regions,
		news:       searcher,
	}
}

// Catalog lists all known diseases.
func (s *Service) Catalog(ctx context.Context) ([]models.Disease, error) {
	diseases, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list diseases")
	}
	return diseases, nil
}

// Summary returns one disease with its cross-region aggregate: per region,
// the maximum reported cumulative counters merged with that region's latest
// known population. The three reads run concurrently; any failure fails the
// whole response rather than returning a partial record set.
func (s *Service) Summary(ctx context.Context, id string) (*models.Detail, error) {
	var (
		detail *models.Detail
		stats  []models.RegionStat
		latest map[string]int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = s.store.Get(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.store.SummaryByRegion(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		latest, err = s.population.LatestAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "aggregate disease summary")
	}

	for i := range stats {
		if population, ok := latest[stats[i].Region]; ok {
			p := population
			stats[i].Population = &p
		}
	}
	detail.Stats = stats
	return detail, nil
}

// InRegion returns the full date-ordered series for a disease in one exact
// region (no hierarchy expansion), each observation merged with the
// population in force at its date, plus the applicable links and the
// bracketing population samples over the series' own min/max dates.
func (s *Service) InRegion(ctx context.Context, diseaseID string, region regionmodels.ID) (*models.RegionReport, error) {
	var (
		series []models.Observation
		links  []models.Link
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		series, err = s.store.Series(gctx, diseaseID, region.String())
		return err
	})
	g.Go(func() error {
		var err error
		links, err = s.store.Links(gctx, diseaseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "aggregate disease series")
	}

	series = coalesceDuplicates(series)

	samples := make([]popmodels.Sample, 0)
	if len(series) > 0 {
		var err error
		samples, err = s.population.ResolveRange(ctx, region.String(), series[0].Date, series[len(series)-1].Date)
		if err != nil {
			return nil, err
		}
	}

	stats := make([]models.ResolvedStat, 0, len(series))
	for _, obs := range series {
		stats = append(stats, models.ResolvedStat{
			Observation: obs,
			Population:  popservice.PopulationAt(samples, obs.Date),
		})
	}

	return &models.RegionReport{
		ID:         diseaseID,
		Region:     region.String(),
		Links:      applicableLinks(links, region),
		Stats:      stats,
		Population: samples,
	}, nil
}

// News looks up the display names for a disease and region and queries the
// external news provider. Provider failure is surfaced as unavailable: here
// the collaborator result is itself the requested resource.
func (s *Service) News(ctx context.Context, diseaseID string, regionID regionmodels.ID) ([]news.Article, error) {
	if s.news == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "news provider not configured")
	}

	detail, err := s.store.Get(ctx, diseaseID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load disease for news")
	}
	region, err := s.regions.Get(ctx, regionID)
	if err != nil {
		return nil, err
	}

	articles, err := s.news.Search(ctx, detail.Name, region.Name)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "news search failed")
	}
	return articles, nil
}

// coalesceDuplicates folds same-date observations into one row taking the
// maximum of each counter. Duplicates are not expected, but double-reported
// or corrected rows must not produce a jagged series.
func coalesceDuplicates(series []models.Observation) []models.Observation {
	out := make([]models.Observation, 0, len(series))
	for _, obs := range series {
		if n := len(out); n > 0 && out[n-1].Date.Equal(obs.Date) {
			out[n-1].Cases = maxCount(out[n-1].Cases, obs.Cases)
			out[n-1].Deaths = maxCount(out[n-1].Deaths, obs.Deaths)
			out[n-1].Recoveries = maxCount(out[n-1].Recoveries, obs.Recoveries)
			continue
		}
		out = append(out, obs)
	}
	return out
}

// applicableLinks keeps the links that apply to the region: untagged links
// apply everywhere, tagged links apply to the tagged region and its
// descendants.
func applicableLinks(links []models.Link, region regionmodels.ID) []models.Link {
	out := make([]models.Link, 0, len(links))
	for _, l := range links {
		if l.Region == nil || region.IsDescendantOf(regionmodels.Parse(*l.Region)) {
			out = append(out, l)
		}
	}
	return out
}

func maxCount(cur, next *int64) *int64 {
	if next == nil {
		return cur
	}
	if cur == nil || *next > *cur {
		v := *next
		return &v
	}
	return cur
}
