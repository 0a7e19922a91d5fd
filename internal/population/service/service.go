// Package service implements the population resolver: the nearest-available-
// date policy that joins sparse population samples onto observation dates.
package service

import (
	"context"

	"epiwatch/internal/population/models"
	dErrors "epiwatch/pkg/domain-errors"
	"epiwatch/pkg/date"
)

// Store is the storage contract the resolver consumes.
type Store interface {
	Samples(ctx context.Context, region string) ([]models.Sample, error)
	LatestKnown(ctx context.Context, region string) (*int64, error)
	LatestKnownAll(ctx context.Context) (map[string]int64, error)
}

// Service resolves population estimates per region and date.
type Service struct {
	store Store
}

// New constructs the resolver.
func New(store Store) *Service {
	return &Service{store: store}
}

// ResolveRange returns, ordered by date, every sample inside [from, to] plus
// the single latest sample before the window and the single earliest sample
// after it. Population changes slowly, so a series plotted over the window
// always gets an estimate bracketing it even when no sample falls inside.
// A region with no samples yields an empty slice, never an error.
func (s *Service) ResolveRange(ctx context.Context, region string, from, to date.Date) ([]models.Sample, error) {
	samples, err := s.store.Samples(ctx, region)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve population range")
	}

	out := make([]models.Sample, 0, len(samples))
	before := -1
	after := -1
	for i, smp := range samples {
		switch {
		case smp.Date.Before(from):
			before = i
		case smp.Date.After(to):
			if after < 0 {
				after = i
			}
		default:
			out = append(out, smp)
		}
	}
	if before >= 0 {
		out = append([]models.Sample{samples[before]}, out...)
	}
	if after >= 0 {
		out = append(out, samples[after])
	}
	return out, nil
}

// Latest returns the most recent known (non-null) population for a region,
// or nil when none was ever reported.
func (s *Service) Latest(ctx context.Context, region string) (*int64, error) {
	p, err := s.store.LatestKnown(ctx, region)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve latest population")
	}
	return p, nil
}

// LatestAll is the bulk form of Latest across every region with a known
// population.
func (s *Service) LatestAll(ctx context.Context) (map[string]int64, error) {
	latest, err := s.store.LatestKnownAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve latest populations")
	}
	return latest, nil
}

// PopulationAt picks the population in force at a date from a bracketing
// sample list: the latest non-null sample at or before the date, else the
// earliest non-null sample after it. Counts are never filled this way — only
// population is back/forward-filled.
func PopulationAt(samples []models.Sample, at date.Date) *int64 {
	var population *int64
	for i := range samples {
		if samples[i].Date.After(at) {
			break
		}
		if samples[i].Population != nil {
			population = samples[i].Population
		}
	}
	if population != nil {
		v := *population
		return &v
	}
	for i := range samples {
		if samples[i].Date.After(at) && samples[i].Population != nil {
			v := *samples[i].Population
			return &v
		}
	}
	return nil
}
