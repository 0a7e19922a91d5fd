// Package store reads population samples from PostgreSQL. Nullable columns
// are decoded here, once, into pointer fields; nothing downstream touches
// sql.Null types.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"epiwatch/internal/population/models"
)

// PostgresStore reads the region_population table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed population store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Samples returns every sample for a region ordered by date. A region with
// no samples yields an empty slice, not an error.
func (s *PostgresStore) Samples(ctx context.Context, region string) ([]models.Sample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, population
		FROM region_population
		WHERE region = $1
		ORDER BY date
	`, region)
	if err != nil {
		return nil, fmt.Errorf("query population samples: %w", err)
	}
	defer rows.Close()

	samples := make([]models.Sample, 0)
	for rows.Next() {
		var smp models.Sample
		var population sql.NullInt64
		if err := rows.Scan(&smp.Date, &population); err != nil {
			return nil, fmt.Errorf("scan population sample: %w", err)
		}
		if population.Valid {
			smp.Population = &population.Int64
		}
		samples = append(samples, smp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate population samples: %w", err)
	}
	return samples, nil
}

// LatestKnown returns the most recent non-null population for a region, or
// nil when the region never reported one. Null-population samples are
// skipped here; they only matter for range ordering.
func (s *PostgresStore) LatestKnown(ctx context.Context, region string) (*int64, error) {
	var population int64
	err := s.db.QueryRowContext(ctx, `
		SELECT population
		FROM region_population
		WHERE region = $1 AND population IS NOT NULL
		ORDER BY date DESC
		LIMIT 1
	`, region).Scan(&population)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest population: %w", err)
	}
	return &population, nil
}

// LatestKnownAll returns the most recent non-null population per region in
// one round trip; used by cross-region summaries to avoid N+1 lookups.
func (s *PostgresStore) LatestKnownAll(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT ON (region) region, population
		FROM region_population
		WHERE population IS NOT NULL
		ORDER BY region, date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query latest populations: %w", err)
	}
	defer rows.Close()

	latest := make(map[string]int64)
	for rows.Next() {
		var region string
		var population int64
		if err := rows.Scan(&region, &population); err != nil {
			return nil, fmt.Errorf("scan latest population: %w", err)
		}
		latest[region] = population
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate latest populations: %w", err)
	}
	return latest, nil
}
