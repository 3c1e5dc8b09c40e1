package blog

import (
	"testing"
	"time"
)

func TestPostID(t *testing.T) {
	date := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	id, err := PostID("Structural Time Series", date)
	if err != nil {
		t.Fatalf("PostID failed: %v", err)
	}
	if id != "2020-01-01-structural-time-series" {
		t.Errorf("unexpected id: %q", id)
	}

	bare, err := PostID("Hello, World!", time.Time{})
	if err != nil {
		t.Fatalf("PostID failed: %v", err)
	}
	if bare != "hello-world" {
		t.Errorf("unexpected bare slug: %q", bare)
	}
}
