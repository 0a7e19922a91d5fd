package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"epiwatch/internal/population/models"
	"epiwatch/internal/population/store"
	"epiwatch/pkg/date"
)

type ResolverSuite struct {
	suite.Suite
	store   *store.MemoryStore
	service *Service
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.store = store.NewMemory()
	s.service = New(s.store)
}

func (s *ResolverSuite) add(region, day string, population int64) {
	s.store.Add(region, models.Sample{Date: date.MustParse(day), Population: &population})
}

func (s *ResolverSuite) addNull(region, day string) {
	s.store.Add(region, models.Sample{Date: date.MustParse(day)})
}

func (s *ResolverSuite) TestResolveRange() {
	ctx := context.Background()

	s.Run("empty store yields empty slice", func() {
		samples, err := s.service.ResolveRange(ctx, "AU", date.MustParse("2020-01-01"), date.MustParse("2020-12-31"))
		s.NoError(err)
		s.Empty(samples)
	})

	s.Run("window with no inner samples returns the two brackets", func() {
		// The AU scenario: samples only outside the observation window.
		s.add("AU", "2020-01-01", 25000000)
		s.add("AU", "2020-06-01", 25200000)

		samples, err := s.service.ResolveRange(ctx, "AU", date.MustParse("2020-03-01"), date.MustParse("2020-03-15"))
		s.Require().NoError(err)
		s.Require().Len(samples, 2)
		s.Equal("2020-01-01", samples[0].Date.String())
		s.Equal("2020-06-01", samples[1].Date.String())
	})

	s.Run("only the nearest sample on each side is included", func() {
		s.add("NZ", "2019-01-01", 4800000)
		s.add("NZ", "2019-06-01", 4850000)
		s.add("NZ", "2020-03-05", 4900000)
		s.add("NZ", "2020-09-01", 4950000)
		s.add("NZ", "2021-01-01", 5000000)

		samples, err := s.service.ResolveRange(ctx, "NZ", date.MustParse("2020-03-01"), date.MustParse("2020-03-15"))
		s.Require().NoError(err)
		s.Require().Len(samples, 3)
		s.Equal("2019-06-01", samples[0].Date.String())
		s.Equal("2020-03-05", samples[1].Date.String())
		s.Equal("2020-09-01", samples[2].Date.String())
	})

	s.Run("degenerate single-date window", func() {
		s.add("FR", "2020-01-01", 67000000)
		s.add("FR", "2020-02-01", 67010000)
		s.add("FR", "2020-03-01", 67020000)

		day := date.MustParse("2020-02-01")
		samples, err := s.service.ResolveRange(ctx, "FR", day, day)
		s.Require().NoError(err)
		s.Require().Len(samples, 3)
		s.Equal("2020-02-01", samples[1].Date.String())
	})

	s.Run("null-population samples are members of the range", func() {
		s.add("DE", "2020-01-01", 83000000)
		s.addNull("DE", "2020-02-01")

		samples, err := s.service.ResolveRange(ctx, "DE", date.MustParse("2020-01-15"), date.MustParse("2020-02-15"))
		s.Require().NoError(err)
		s.Require().Len(samples, 2)
		s.Nil(samples[1].Population)
	})

	s.Run("idempotent for identical arguments", func() {
		s.add("IT", "2020-01-01", 60000000)
		s.add("IT", "2020-05-01", 60100000)

		from, to := date.MustParse("2020-02-01"), date.MustParse("2020-03-01")
		first, err := s.service.ResolveRange(ctx, "IT", from, to)
		s.Require().NoError(err)
		second, err := s.service.ResolveRange(ctx, "IT", from, to)
		s.Require().NoError(err)
		s.Equal(first, second)
	})
}

func (s *ResolverSuite) TestLatest() {
	ctx := context.Background()

	s.Run("no samples yields nil, not an error", func() {
		p, err := s.service.Latest(ctx, "AU")
		s.NoError(err)
		s.Nil(p)
	})

	s.Run("null-population samples are skipped", func() {
		s.add("AU", "2020-01-01", 25000000)
		s.addNull("AU", "2020-06-01")

		p, err := s.service.Latest(ctx, "AU")
		s.Require().NoError(err)
		s.Require().NotNil(p)
		s.Equal(int64(25000000), *p)
	})

	s.Run("most recent known value wins", func() {
		s.add("NZ", "2019-01-01", 4800000)
		s.add("NZ", "2020-01-01", 4900000)

		p, err := s.service.Latest(ctx, "NZ")
		s.Require().NoError(err)
		s.Equal(int64(4900000), *p)
	})
}

func (s *ResolverSuite) TestLatestAll() {
	ctx := context.Background()

	s.add("AU", "2020-01-01", 25000000)
	s.add("NZ", "2020-01-01", 4900000)
	s.addNull("TV", "2020-01-01") // never reported a usable figure

	latest, err := s.service.LatestAll(ctx)
	s.Require().NoError(err)
	s.Equal(map[string]int64{"AU": 25000000, "NZ": 4900000}, latest)
}

func TestPopulationAt(t *testing.T) {
	p := func(v int64) *int64 { return &v }
	samples := []models.Sample{
		{Date: date.MustParse("2020-01-01"), Population: p(25000000)},
		{Date: date.MustParse("2020-03-10")}, // null sample in the middle
		{Date: date.MustParse("2020-06-01"), Population: p(25200000)},
	}

	t.Run("latest non-null at or before the date", func(t *testing.T) {
		got := PopulationAt(samples, date.MustParse("2020-03-15"))
		require.NotNil(t, got)
		assert.Equal(t, int64(25000000), *got)
	})

	t.Run("falls forward when nothing precedes", func(t *testing.T) {
		got := PopulationAt(samples, date.MustParse("2019-12-01"))
		require.NotNil(t, got)
		assert.Equal(t, int64(25000000), *got)
	})

	t.Run("exact sample date", func(t *testing.T) {
		got := PopulationAt(samples, date.MustParse("2020-06-01"))
		require.NotNil(t, got)
		assert.Equal(t, int64(25200000), *got)
	})

	t.Run("all-null list yields nil", func(t *testing.T) {
		nulls := []models.Sample{{Date: date.MustParse("2020-01-01")}}
		assert.Nil(t, PopulationAt(nulls, date.MustParse("2020-02-01")))
	})
}
