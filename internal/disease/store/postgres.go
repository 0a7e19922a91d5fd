// Package store reads disease records, observations, and links from
// PostgreSQL. All SQL is read-only; nullable counters are decoded here into
// pointer fields so the rest of the engine never sees sql.Null types.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"epiwatch/internal/disease/models"
	dErrors "epiwatch/pkg/domain-errors"
)

// PostgresStore reads the disease, disease_stats, and disease_link tables.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed disease store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// List returns the disease catalogue.
func (s *PostgresStore) List(ctx context.Context) ([]models.Disease, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, long_name, popularity
		FROM disease
		ORDER BY popularity DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query diseases: %w", err)
	}
	defer rows.Close()

	diseases := make([]models.Disease, 0)
	for rows.Next() {
		var d models.Disease
		if err := rows.Scan(&d.ID, &d.Name, &d.LongName, &d.Popularity); err != nil {
			return nil, fmt.Errorf("scan disease: %w", err)
		}
		diseases = append(diseases, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diseases: %w", err)
	}
	return diseases, nil
}

// Get returns one disease by id, without its stats. Unknown ids map to a
// NotFound coded error.
func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Detail, error) {
	var d models.Detail
	d.ID = id
	err := s.db.QueryRowContext(ctx, `
		SELECT name, long_name, description, reinfectable, popularity
		FROM disease
		WHERE id = $1
	`, id).Scan(&d.Name, &d.LongName, &d.Description, &d.Reinfectable, &d.Popularity)
	if err == sql.ErrNoRows {
		return nil, dErrors.New(dErrors.CodeNotFound, "no such disease")
	}
	if err != nil {
		return nil, fmt.Errorf("query disease: %w", err)
	}
	return &d, nil
}

// SummaryByRegion aggregates the maximum reported cumulative counters per
// region for a disease. Population is left nil; the aggregator merges it.
func (s *PostgresStore) SummaryByRegion(ctx context.Context, disease string) ([]models.RegionStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT region, MAX(cases), MAX(deaths), MAX(recoveries)
		FROM disease_stats
		WHERE disease = $1
		GROUP BY region
		ORDER BY region
	`, disease)
	if err != nil {
		return nil, fmt.Errorf("query disease summary: %w", err)
	}
	defer rows.Close()

	stats := make([]models.RegionStat, 0)
	for rows.Next() {
		var st models.RegionStat
		var cases, deaths, recoveries sql.NullInt64
		if err := rows.Scan(&st.Region, &cases, &deaths, &recoveries); err != nil {
			return nil, fmt.Errorf("scan disease summary: %w", err)
		}
		st.Cases = nullable(cases)
		st.Deaths = nullable(deaths)
		st.Recoveries = nullable(recoveries)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate disease summary: %w", err)
	}
	return stats, nil
}

// Series returns every observation for a disease in one exact region,
// ordered by date. No hierarchy expansion happens here.
func (s *PostgresStore) Series(ctx context.Context, disease, region string) ([]models.Observation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, cases, deaths, recoveries
		FROM disease_stats
		WHERE disease = $1 AND region = $2
		ORDER BY date
	`, disease, region)
	if err != nil {
		return nil, fmt.Errorf("query disease series: %w", err)
	}
	defer rows.Close()

	series := make([]models.Observation, 0)
	for rows.Next() {
		var obs models.Observation
		var cases, deaths, recoveries sql.NullInt64
		if err := rows.Scan(&obs.Date, &cases, &deaths, &recoveries); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		obs.Cases = nullable(cases)
		obs.Deaths = nullable(deaths)
		obs.Recoveries = nullable(recoveries)
		series = append(series, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate disease series: %w", err)
	}
	return series, nil
}

// Links returns every link for a disease; applicability filtering against a
// region happens in the aggregator, not in SQL.
func (s *PostgresStore) Links(ctx context.Context, disease string) ([]models.Link, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT uri, description, region
		FROM disease_link
		WHERE disease = $1
		ORDER BY uri
	`, disease)
	if err != nil {
		return nil, fmt.Errorf("query disease links: %w", err)
	}
	defer rows.Close()

	links := make([]models.Link, 0)
	for rows.Next() {
		var l models.Link
		var region sql.NullString
		if err := rows.Scan(&l.URI, &l.Description, &region); err != nil {
			return nil, fmt.Errorf("scan disease link: %w", err)
		}
		if region.Valid {
			l.Region = &region.String
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate disease links: %w", err)
	}
	return links, nil
}

func nullable(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}
