package models

import "epiwatch/pkg/date"

// Sample is one population estimate for a region. Population may be null: a
// sample can record that a census was taken without a usable figure, and such
// samples still participate in date ordering.
type Sample struct {
	Date       date.Date `json:"date"`
	Population *int64    `json:"population"`
}
