package blog

import (
	"fmt"
	"time"

	"github.com/goliatone/go-slug"
)

// PostID derives the conventional post identifier from a title and date,
// e.g. "2020-01-01-structural-time-series". A zero date yields a bare slug.
func PostID(title string, date time.Time) (string, error) {
	s, err := slug.Normalize(title)
	if err != nil {
		return "", fmt.Errorf("failed to slug title %q: %w", title, err)
	}
	if date.IsZero() {
		return s, nil
	}
	return fmt.Sprintf("%s-%s", date.Format("2006-01-02"), s), nil
}

// IsValidSlug reports whether the value already conforms to slug rules.
func IsValidSlug(value string) bool {
	return slug.IsValid(value)
}
