package validation

import (
	"errors"
	"net/url"
)

// MissingQueryMessage is the client-facing text for ErrMissingQuery.
const MissingQueryMessage = "Missing 'state' or 'city' in request"

// ErrMissingQuery is returned when state or city is absent or empty.
var ErrMissingQuery = errors.New("missing state or city")

// Query is a validated location lookup.
type Query struct {
	State string
	City  string
}

// ValidateQuery requires both state and city to be non-empty. Values are returned
// untouched; whitespace-only values count as present and city cleaning is left to the
// dataset resolver.
func ValidateQuery(state, city string) (Query, error) {
	if state == "" || city == "" {
		return Query{}, ErrMissingQuery
	}
	return Query{State: state, City: city}, nil
}

// QueryFromValues reads state and city from URL query values.
func QueryFromValues(v url.Values) (Query, error) {
	return ValidateQuery(v.Get("state"), v.Get("city"))
}
