package store

import (
	"context"
	"sort"

	"epiwatch/internal/disease/models"
	dErrors "epiwatch/pkg/domain-errors"
)

// MemoryStore is an in-memory disease store for tests and local runs.
type MemoryStore struct {
	diseases     map[string]models.Detail
	order        []string
	observations map[string]map[string][]models.Observation
	links        map[string][]models.Link
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		diseases:     make(map[string]models.Detail),
		observations: make(map[string]map[string][]models.Observation),
		links:        make(map[string][]models.Link),
	}
}

// AddDisease registers a disease record.
func (s *MemoryStore) AddDisease(d models.Detail) {
	if _, ok := s.diseases[d.ID]; !ok {
		s.order = append(s.order, d.ID)
	}
	s.diseases[d.ID] = d
}

// AddObservation records one observation row; rows are kept ordered by date.
func (s *MemoryStore) AddObservation(disease, region string, obs models.Observation) {
	if s.observations[disease] == nil {
		s.observations[disease] = make(map[string][]models.Observation)
	}
	rows := append(s.observations[disease][region], obs)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	s.observations[disease][region] = rows
}

// AddLink records a reference link.
func (s *MemoryStore) AddLink(disease string, link models.Link) {
	s.links[disease] = append(s.links[disease], link)
}

func (s *MemoryStore) List(_ context.Context) ([]models.Disease, error) {
	out := make([]models.Disease, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.diseases[id].Disease)
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Detail, error) {
	d, ok := s.diseases[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "no such disease")
	}
	d.Stats = nil
	return &d, nil
}

func (s *MemoryStore) SummaryByRegion(_ context.Context, disease string) ([]models.RegionStat, error) {
	byRegion := s.observations[disease]
	regions := make([]string, 0, len(byRegion))
	for region := range byRegion {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	stats := make([]models.RegionStat, 0, len(regions))
	for _, region := range regions {
		st := models.RegionStat{Region: region}
		for _, obs := range byRegion[region] {
			st.Cases = maxCount(st.Cases, obs.Cases)
			st.Deaths = maxCount(st.Deaths, obs.Deaths)
			st.Recoveries = maxCount(st.Recoveries, obs.Recoveries)
		}
		stats = append(stats, st)
	}
	return stats, nil
}

func (s *MemoryStore) Series(_ context.Context, disease, region string) ([]models.Observation, error) {
	rows := s.observations[disease][region]
	out := make([]models.Observation, len(rows))
	copy(out, rows)
	return out, nil
}

func (s *MemoryStore) Links(_ context.Context, disease string) ([]models.Link, error) {
	out := make([]models.Link, len(s.links[disease]))
	copy(out, s.links[disease])
	return out, nil
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
