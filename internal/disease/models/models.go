package models

import (
	popmodels "epiwatch/internal/population/models"
	"epiwatch/pkg/date"
)

// Disease is a catalogue entry.
type Disease struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	LongName   string  `json:"long_name"`
	Popularity float32 `json:"popularity"`
}

// Detail is the full disease record with its cross-region summary.
type Detail struct {
	Disease
	Description  string       `json:"description"`
	Reinfectable bool         `json:"reinfectable"`
	Stats        []RegionStat `json:"stats"`
}

// RegionStat is the latest known cumulative picture for one region: the
// maximum reported value per counter (cumulative counters are monotonic in
// well-formed data, so max is the latest known value and is robust to
// re-sent or corrected rows) plus the region's latest known population.
type RegionStat struct {
	Region     string `json:"region"`
	Cases      *int64 `json:"cases"`
	Deaths     *int64 `json:"deaths"`
	Recoveries *int64 `json:"recoveries"`
	Population *int64 `json:"population"`
}

// Observation is one reported row for a region and date. Counts are sparse:
// a nil count means no report that day, which is distinct from zero.
type Observation struct {
	Date       date.Date `json:"date"`
	Cases      *int64    `json:"cases"`
	Deaths     *int64    `json:"deaths"`
	Recoveries *int64    `json:"recoveries"`
}

// ResolvedStat is an observation merged with the population estimate in
// force at its date. Counts pass through unchanged; only population is
// back/forward-filled.
type ResolvedStat struct {
	Observation
	Population *int64 `json:"population"`
}

// Link is a curated reference link for a disease. Region tags the link's
// applicability: nil applies everywhere, a tagged link applies to its region
// and all descendants.
type Link struct {
	URI         string  `json:"uri"`
	Description string  `json:"description"`
	Region      *string `json:"-"`
}

// RegionReport is the per-disease, per-region time series response: the
// applicable links, every observation merged with a resolved population, and
// the bracketing population sample sequence itself.
type RegionReport struct {
	ID         string             `json:"id"`
	Region     string             `json:"region"`
	Links      []Link             `json:"links"`
	Stats      []ResolvedStat     `json:"stats"`
	Population []popmodels.Sample `json:"population"`
}
