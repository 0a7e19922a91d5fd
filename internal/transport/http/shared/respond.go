// Package shared holds the JSON response helpers used by every handler so
// success and error envelopes stay consistent across the API.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "epiwatch/pkg/domain-errors"
)

// WriteJSON serializes v with an explicit status code. Absent values are
// emitted as explicit nulls by the models' pointer fields; callers must not
// pass nil slices where an empty array is expected.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a coded error into the JSON error envelope. Unknown
// errors are reported as internal without detail.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(dErrors.ToHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": string(code),
	})
}
