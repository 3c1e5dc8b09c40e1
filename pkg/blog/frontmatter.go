// Package blog provides a typed view over post front matter, plus the
// blog-specific derivations (slugs, excerpts, reading stats) built on top
// of the untyped core model.
package blog

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/plumekit/plume/pkg/core"
)

// FrontMatter is the typed shape of a post's metadata. Keys that do not map
// to a known field are preserved in Custom so that a typed round trip never
// drops author data.
type FrontMatter struct {
	Title   string         `yaml:"title"`
	Date    time.Time      `yaml:"date,omitempty"`
	Tags    []string       `yaml:"tags,omitempty"`
	Excerpt string         `yaml:"excerpt,omitempty"`
	Mathjax bool           `yaml:"mathjax,omitempty"`
	Draft   bool           `yaml:"draft,omitempty"`
	Custom  map[string]any `yaml:",inline"`
}

// Date is a calendar day. Unlike a bare time.Time it marshals as the plain
// "2006-01-02" scalar rather than a full RFC 3339 timestamp.
type Date time.Time

// MarshalYAML emits the plain calendar form. The timestamp tag is implicit
// for that scalar, so the output is the unquoted "date: 2020-01-01" shape.
func (d Date) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!timestamp",
		Value: time.Time(d).Format("2006-01-02"),
	}, nil
}

// DateOf returns the calendar day of t in its own location, discarding the
// clock time. Truncating on the absolute timeline instead would shift the
// day for non-UTC zones.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// Validate checks the structural rules for publishable front matter.
func (fm FrontMatter) Validate() error {
	return validation.ValidateStruct(&fm,
		validation.Field(&fm.Title, validation.Required),
		validation.Field(&fm.Tags, validation.Each(validation.Required)),
	)
}

// HasTag reports whether the post carries the tag. Tags are a set: order and
// duplicates are irrelevant.
func (fm FrontMatter) HasTag(tag string) bool {
	for _, t := range fm.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// TagSet returns the tags as a set.
func (fm FrontMatter) TagSet() map[string]bool {
	set := make(map[string]bool, len(fm.Tags))
	for _, t := range fm.Tags {
		set[t] = true
	}
	return set
}

// FromMetadata converts the untyped metadata map into typed front matter.
// The bridge goes through YAML so that the same coercions apply as when
// parsing a file (date strings become time.Time, etc).
func FromMetadata(m core.Metadata) (FrontMatter, error) {
	var fm FrontMatter
	if len(m) == 0 {
		return fm, nil
	}

	// Quoted dates stay strings through the untyped parse; normalize them
	// here, since yaml.v3 only decodes unquoted scalars into time.Time.
	if s, ok := m["date"].(string); ok {
		parsed, err := parseDate(s)
		if err != nil {
			return fm, fmt.Errorf("invalid date %q: %w", s, err)
		}
		clone := make(map[string]any, len(m))
		for k, v := range m {
			clone[k] = v
		}
		clone["date"] = parsed
		m = clone
	}

	data, err := yaml.Marshal(map[string]any(m))
	if err != nil {
		return fm, fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := yaml.Unmarshal(data, &fm); err != nil {
		return fm, fmt.Errorf("failed to decode front matter: %w", err)
	}
	return fm, nil
}

// ToMetadata converts typed front matter back into the untyped map used by
// the core model. Custom keys are inlined at the top level.
func (fm FrontMatter) ToMetadata() (core.Metadata, error) {
	data, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("failed to encode front matter: %w", err)
	}

	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return core.Metadata(m), nil
}

// parseDate accepts the plain calendar form used in front matter as well as
// full RFC 3339 timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// FromPost is a convenience wrapper extracting typed front matter from a post.
func FromPost(p core.Post) (FrontMatter, error) {
	return FromMetadata(p.Metadata)
}
