// Package service contains the business logic layer: validation, ownership
// checks, and orchestration between repositories and the auth utilities.
// Services accept primitives and return domain models plus apperror values;
// they know nothing about HTTP.
package service

import (
	"time"

	"github.com/myboulders/api/internal/apperror"
)

// Date-only fields (birthdate, goal target dates) use this layout.
const dateLayout = "2006-01-02"

// parseDate parses a YYYY-MM-DD string. The field name feeds the validation
// error so handlers can report which input was bad.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperror.ValidationFailed(field,
			"invalid date format, expected YYYY-MM-DD")
	}
	return t, nil
}

// parseTimestamp parses an entry timestamp. RFC 3339 (with Z or an offset) is
// the canonical form; a bare date or a date-time without zone is accepted and
// read as UTC.
func parseTimestamp(field, value string) (time.Time, error) {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		dateLayout,
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperror.ValidationFailed(field,
		"invalid timestamp, expected ISO 8601")
}
