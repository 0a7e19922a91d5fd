package store

import (
	"context"
	"sort"

	"epiwatch/internal/population/models"
)

// MemoryStore is an in-memory population store for tests and local runs.
type MemoryStore struct {
	samples map[string][]models.Sample
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{samples: make(map[string][]models.Sample)}
}

// Add records a sample for a region; samples are kept ordered by date.
func (s *MemoryStore) Add(region string, sample models.Sample) {
	s.samples[region] = append(s.samples[region], sample)
	sort.Slice(s.samples[region], func(i, j int) bool {
		return s.samples[region][i].Date.Before(s.samples[region][j].Date)
	})
}

func (s *MemoryStore) Samples(_ context.Context, region string) ([]models.Sample, error) {
	out := make([]models.Sample, len(s.samples[region]))
	copy(out, s.samples[region])
	return out, nil
}

func (s *MemoryStore) LatestKnown(_ context.Context, region string) (*int64, error) {
	samples := s.samples[region]
	for i := len(samples) - 1; i >= 0; i-- {
		if samples[i].Population != nil {
			v := *samples[i].Population
			return &v, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) LatestKnownAll(ctx context.Context) (map[string]int64, error) {
	latest := make(map[string]int64)
	for region := range s.samples {
		p, err := s.LatestKnown(ctx, region)
		if err != nil {
			return nil, err
		}
		if p != nil {
			latest[region] = *p
		}
	}
	return latest, nil
}
