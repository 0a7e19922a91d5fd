// Package service implements the region hierarchy queries and IP-based
// region inference.
package service

import (
	"context"
	"net"

	"epiwatch/internal/geolocation"
	"epiwatch/internal/region/models"
	dErrors "epiwatch/pkg/domain-errors"
)

// Store is the storage contract the region queries consume.
type Store interface {
	TopLevel(ctx context.Context) ([]models.Region, error)
	Subregions(ctx context.Context, country string) ([]models.Region, error)
	Get(ctx context.Context, id string) (*models.Region, error)
}

// Locator is the geolocation collaborator. A failed lookup is an absence of
// data, never an error.
type Locator interface {
	Lookup(ip net.IP) (geolocation.Guess, bool)
}

// Service answers region queries. locator may be nil when IP inference is
// not configured; Current then always falls back.
type Service struct {
	store         Store
	locator       Locator
	defaultRegion models.ID
}

// New constructs the region service.
func New(store Store, locator Locator, defaultRegion models.ID) *Service {
	return &Service{
		store:         store,
		locator:       locator,
		defaultRegion: defaultRegion,
	}
}

// TopLevel lists all country-level regions.
func (s *Service) TopLevel(ctx context.Context) ([]models.Region, error) {
	regions, err := s.store.TopLevel(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list regions")
	}
	return regions, nil
}

// Subregions lists the subdivisions of a country. Passing a subdivision id
// lists that subdivision's own children, which is empty in a two-level
// hierarchy.
func (s *Service) Subregions(ctx context.Context, id models.ID) ([]models.Region, error) {
	regions, err := s.store.Subregions(ctx, id.String())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list subregions")
	}
	return regions, nil
}

// Get fetches one region by id including its geometry.
func (s *Service) Get(ctx context.Context, id models.ID) (*models.Region, error) {
	region, err := s.store.Get(ctx, id.String())
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "get region")
	}
	return region, nil
}

// Current infers the caller's region from their IP address, composing a
// COUNTRY-SUBDIV id when a subdivision is known. An unusable IP or a lookup
// miss falls back to the configured default region.
func (s *Service) Current(ip net.IP) models.ID {
	if s.locator == nil || ip == nil {
		return s.defaultRegion
	}
	guess, ok := s.locator.Lookup(ip)
	if !ok {
		return s.defaultRegion
	}
	return models.ID{Country: guess.Country, Subdivision: guess.Subdivision}
}
