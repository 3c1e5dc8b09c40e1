// Package core holds the storage-agnostic domain of plume.
package core

// Metadata represents the flexible key-value pairs of a post's front matter.
type Metadata map[string]any

// Post is the central entity of the domain.
// It represents a single blog post identified by an ID (the file path
// relative to the vault root, without the .md extension).
type Post struct {
	ID      string
	Content string
	// Metadata is the parsed front matter.
	Metadata Metadata
	// RawMeta holds the front matter block exactly as authored (without the
	// delimiter lines). Serializers re-emit it verbatim while it still agrees
	// with Metadata, so an unmodified post writes back byte-identically.
	RawMeta []byte
}

// EventType represents the type of change in the vault.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change observed in the vault.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

type contextKey string

// ChangeReasonKey is the context key for passing specific change reasons
// (commit messages) during Save/Delete operations.
const ChangeReasonKey contextKey = "change_reason"
