// Package models defines the region identifier scheme: ISO 3166-1 country
// codes and ISO 3166-2 style composite country-subdivision codes.
package models

import "strings"

// Separator joins a country code and a subdivision code on the wire.
const Separator = "-"

// ID identifies a country or a country subdivision. The wire form is a
// single uppercase token, COUNTRY or COUNTRY-SUBDIV; internally the two
// levels are kept apart so hierarchy checks never re-split strings.
//
// IDs are value types created at request-parse time and immutable after.
type ID struct {
	Country     string
	Subdivision string
}

// Parse normalizes a raw token into an ID. Input is uppercased and split on
// the first separator; no other validation happens here — an unknown id
// surfaces later as a not-found from storage, not as a parse error.
func Parse(raw string) ID {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if i := strings.Index(s, Separator); i >= 0 {
		return ID{Country: s[:i], Subdivision: s[i+1:]}
	}
	return ID{Country: s}
}

// IsCountry reports whether the id is country-level.
func (id ID) IsCountry() bool { return id.Subdivision == "" }

// String returns the wire form.
func (id ID) String() string {
	if id.Subdivision == "" {
		return id.Country
	}
	return id.Country + Separator + id.Subdivision
}

// Parent returns the country-level id of a subdivision. Country-level ids
// have no parent.
func (id ID) Parent() (ID, bool) {
	if id.Subdivision == "" {
		return ID{}, false
	}
	return ID{Country: id.Country}, true
}

// IsDescendantOf reports whether id falls under ancestor: either the same
// region, or a region whose wire form extends ancestor's by a separator.
// A country-wide note therefore applies to all of its subdivisions.
func (id ID) IsDescendantOf(ancestor ID) bool {
	if id == ancestor {
		return true
	}
	return strings.HasPrefix(id.String(), ancestor.String()+Separator)
}

// MarshalJSON encodes the id as its wire token.
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.String() + `"`), nil
}

// Region is a stored region record. Geometry is opaque GeoJSON text used by
// map rendering; the engine never interprets it.
type Region struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Geometry *string `json:"geometry"`
}
