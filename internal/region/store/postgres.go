// Package store reads region records from PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"epiwatch/internal/region/models"
	dErrors "epiwatch/pkg/domain-errors"
)

// PostgresStore reads the region table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed region store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// TopLevel returns every country-level region (ids without a separator).
func (s *PostgresStore) TopLevel(ctx context.Context) ([]models.Region, error) {
	return s.query(ctx, `
		SELECT id, name, geometry
		FROM region
		WHERE id NOT LIKE '%-%'
		ORDER BY id
	`)
}

// Subregions returns every subdivision of a country (COUNTRY-*).
func (s *PostgresStore) Subregions(ctx context.Context, country string) ([]models.Region, error) {
	return s.query(ctx, `
		SELECT id, name, geometry
		FROM region
		WHERE starts_with(id, $1 || '-')
		ORDER BY id
	`, country)
}

// Get returns one region by id including its geometry. Unknown ids map to a
// NotFound coded error.
func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Region, error) {
	var r models.Region
	var geometry sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, geometry
		FROM region
		WHERE id = $1
	`, id).Scan(&r.ID, &r.Name, &geometry)
	if err == sql.ErrNoRows {
		return nil, dErrors.New(dErrors.CodeNotFound, "no such region")
	}
	if err != nil {
		return nil, fmt.Errorf("query region: %w", err)
	}
	if geometry.Valid {
		r.Geometry = &geometry.String
	}
	return &r, nil
}

func (s *PostgresStore) query(ctx context.Context, stmt string, args ...any) ([]models.Region, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}
	defer rows.Close()

	regions := make([]models.Region, 0)
	for rows.Next() {
		var r models.Region
		var geometry sql.NullString
		if err := rows.Scan(&r.ID, &r.Name, &geometry); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		if geometry.Valid {
			r.Geometry = &geometry.String
		}
		regions = append(regions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regions: %w", err)
	}
	return regions, nil
}
