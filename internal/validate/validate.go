// Package validate checks the path parameters accepted by the REST API.
package validate

import (
	"errors"
	"strconv"
)

// UnknownStation is returned by Station for digit strings that cannot name a
// station table: ids too large for an int, and ids zero-padded past the
// six-digit table width. No table can exist for them.
const UnknownStation = -1

// idWidth is the zero-padded width of the id in TG_STAIDnnnnnn
const idWidth = 6

// ValidationError describes a malformed request parameter
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err (or anything it wraps) is a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Station validates a station identifier and returns its numeric value
func Station(raw string) (int, error) {
	if raw == "" || !isDigits(raw) {
		return 0, &ValidationError{Message: "invalid station format"}
	}

	// Padding only ever extends ids to idWidth, so a longer id with a
	// leading zero names a table that is never written
	if len(raw) > idWidth && raw[0] == '0' {
		return UnknownStation, nil
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		// All digits but out of range for an int
		return UnknownStation, nil
	}
	return id, nil
}

// Date validates a YYYYMMDD date and returns it as YYYY-MM-DD.
// The calendar itself is not checked; a date that does not exist simply
// won't match any reading.
func Date(raw string) (string, error) {
	if len(raw) != 8 || !isDigits(raw) {
		return "", &ValidationError{Message: "invalid date format or length"}
	}
	return raw[0:4] + "-" + raw[4:6] + "-" + raw[6:8], nil
}

// Year validates a four-digit year
func Year(raw string) (string, error) {
	if len(raw) != 4 || !isDigits(raw) {
		return "", &ValidationError{Message: "invalid year format or length"}
	}
	return raw, nil
}

// isDigits reports whether s consists solely of ASCII decimal digits
func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
