//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"epiwatch/internal/disease/store"
	dErrors "epiwatch/pkg/domain-errors"
	"epiwatch/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "disease", "disease_stats", "disease_link"))

	_, err := s.postgres.DB.Exec(`
		INSERT INTO disease (id, name, long_name, description, reinfectable, popularity)
		VALUES ('COVID-19', 'COVID-19', 'Coronavirus disease 2019', 'A respiratory illness.', TRUE, 1.0)
	`)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) observe(region, day string, cases, deaths, recoveries any) {
	_, err := s.postgres.DB.Exec(`
		INSERT INTO disease_stats (disease, region, date, cases, deaths, recoveries)
		VALUES ('COVID-19', $1, $2, $3, $4, $5)
	`, region, day, cases, deaths, recoveries)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestGet() {
	detail, err := s.store.Get(context.Background(), "COVID-19")
	s.Require().NoError(err)
	s.Equal("Coronavirus disease 2019", detail.LongName)
	s.True(detail.Reinfectable)

	_, err = s.store.Get(context.Background(), "EBOLA")
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}

func (s *PostgresStoreSuite) TestSummaryByRegion() {
	s.observe("AU", "2020-03-01", 5, nil, nil)
	s.observe("AU", "2020-03-02", 3, 1, nil)
	s.observe("AU", "2020-03-03", 9, nil, 2)
	s.observe("NZ", "2020-03-01", nil, nil, nil)

	stats, err := s.store.SummaryByRegion(context.Background(), "COVID-19")
	s.Require().NoError(err)
	s.Require().Len(stats, 2)

	au := stats[0]
	s.Equal("AU", au.Region)
	s.Require().NotNil(au.Cases)
	s.Equal(int64(9), *au.Cases, "max, not latest by date")
	s.Require().NotNil(au.Deaths)
	s.Equal(int64(1), *au.Deaths)
	s.Require().NotNil(au.Recoveries)
	s.Equal(int64(2), *au.Recoveries)

	nz := stats[1]
	s.Nil(nz.Cases)
	s.Nil(nz.Deaths)
	s.Nil(nz.Recoveries)
}

func (s *PostgresStoreSuite) TestSeries() {
	s.observe("AU", "2020-03-15", 80, nil, nil)
	s.observe("AU", "2020-03-01", 50, nil, nil)

	series, err := s.store.Series(context.Background(), "COVID-19", "AU")
	s.Require().NoError(err)
	s.Require().Len(series, 2)
	s.Equal("2020-03-01", series[0].Date.String())
	s.Equal("2020-03-15", series[1].Date.String())

	series, err = s.store.Series(context.Background(), "COVID-19", "ZZ")
	s.Require().NoError(err)
	s.Empty(series)
}

func (s *PostgresStoreSuite) TestLinks() {
	_, err := s.postgres.DB.Exec(`
		INSERT INTO disease_link (disease, uri, description, region) VALUES
			('COVID-19', 'https://who.int', 'global', NULL),
			('COVID-19', 'https://cdc.gov', 'us-wide', 'US')
	`)
	s.Require().NoError(err)

	links, err := s.store.Links(context.Background(), "COVID-19")
	s.Require().NoError(err)
	s.Require().Len(links, 2)
	s.Equal("https://cdc.gov", links[0].URI)
	s.Require().NotNil(links[0].Region)
	s.Equal("US", *links[0].Region)
	s.Nil(links[1].Region)
}
