// Package geolocation wraps the MaxMind GeoLite2-City database. The reader
// is an immutable reference dataset loaded once at startup and injected into
// the request path as a constructed dependency; there is no package-level
// global.
package geolocation

import (
	"fmt"
	"net"

	"github.com/oschwald/maxminddb-golang"
)

// Guess is an approximate region for an IP address: an ISO 3166-1 alpha-2
// country code and, when known, the subdivision portion of the ISO 3166-2
// code.
type Guess struct {
	Country     string
	Subdivision string
}

// DB is an open GeoLite2-City database handle, safe for concurrent lookups.
type DB struct {
	reader *maxminddb.Reader
}

// Open loads the database at path.
func Open(path string) (*DB, error) {
	reader, err := maxminddb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geolocation database: %w", err)
	}
	return &DB{reader: reader}, nil
}

// Close releases the database.
func (db *DB) Close() error {
	return db.reader.Close()
}

// Lookup resolves an IP to a region guess. No match is a valid outcome, not
// an error; only the first subdivision is used.
func (db *DB) Lookup(ip net.IP) (Guess, bool) {
	var record struct {
		Country struct {
			ISOCode string `maxminddb:"iso_code"`
		} `maxminddb:"country"`
		Subdivisions []struct {
			ISOCode string `maxminddb:"iso_code"`
		} `maxminddb:"subdivisions"`
	}

	if err := db.reader.Lookup(ip, &record); err != nil {
		return Guess{}, false
	}
	if record.Country.ISOCode == "" {
		return Guess{}, false
	}

	guess := Guess{Country: record.Country.ISOCode}
	if len(record.Subdivisions) > 0 {
		guess.Subdivision = record.Subdivisions[0].ISOCode
	}
	return guess, true
}
