package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration indicates missing or invalid configuration, such as an absent API key.
var ErrConfiguration = errors.New("configuration error")

// ErrUnrecognizedCountry indicates that a country name matched no known alias.
var ErrUnrecognizedCountry = errors.New("unrecognized country")

// ErrRateFetch indicates a transport failure or a non-success/malformed provider response.
var ErrRateFetch = errors.New("rate fetch failed")

// ErrRateNotFound indicates the provider answered but had no data for the requested code.
var ErrRateNotFound = errors.New("rate not found")

// ErrInvalidInput indicates caller input that cannot produce a meaningful result.
var ErrInvalidInput = errors.New("invalid input")

// UnrecognizedCountryError carries the offending input and the supported canonical names.
type UnrecognizedCountryError struct {
	Input     string
	Supported []string
}

func (e *UnrecognizedCountryError) Error() string {
	return fmt.Sprintf("country '%s' is not recognized. Supported countries: %s",
		e.Input, strings.Join(e.Supported, ", "))
}

// Is lets errors.Is(err, ErrUnrecognizedCountry) match.
func (e *UnrecognizedCountryError) Is(target error) bool {
	return target == ErrUnrecognizedCountry
}

// Kind returns a stable name for the error category of err, or "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrUnrecognizedCountry):
		return "unrecognized_country"
	case errors.Is(err, ErrRateNotFound):
		return "rate_not_found"
	case errors.Is(err, ErrRateFetch):
		return "rate_fetch"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}
