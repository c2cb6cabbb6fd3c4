package dto

import (
	"time"

	"github.com/spec-kit/field-service/internal/persistence"
)

// Timestamp renders t in the canonical storage layout.
func Timestamp(t time.Time) string {
	return persistence.FormatTimestamp(t)
}

// OptionalTimestamp renders t, or nil when it is unset.
func OptionalTimestamp(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := Timestamp(*t)
	return &s
}
