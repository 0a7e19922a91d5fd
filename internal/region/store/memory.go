package store

import (
	"context"
	"sort"
	"strings"

	"epiwatch/internal/region/models"
	dErrors "epiwatch/pkg/domain-errors"
)

// MemoryStore is an in-memory region store for tests and local runs.
type MemoryStore struct {
	regions map[string]models.Region
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{regions: make(map[string]models.Region)}
}

// Add registers a region.
func (s *MemoryStore) Add(r models.Region) {
	s.regions[r.ID] = r
}

func (s *MemoryStore) TopLevel(_ context.Context) ([]models.Region, error) {
	out := make([]models.Region, 0)
	for id, r := range s.regions {
		if !strings.Contains(id, models.Separator) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Subregions(_ context.Context, country string) ([]models.Region, error) {
	out := make([]models.Region, 0)
	for id, r := range s.regions {
		if strings.HasPrefix(id, country+models.Separator) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Region, error) {
	r, ok := s.regions[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "no such region")
	}
	return &r, nil
}
