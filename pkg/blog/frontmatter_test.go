package blog

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/plumekit/plume/pkg/core"
)

func TestFromMetadata(t *testing.T) {
	m := core.Metadata{
		"title":   "Structural Time Series",
		"date":    "2020-01-01",
		"tags":    []any{"r", "bayesian"},
		"mathjax": true,
		"layout":  "wide", // unknown key
	}

	fm, err := FromMetadata(m)
	if err != nil {
		t.Fatalf("FromMetadata failed: %v", err)
	}

	if fm.Title != "Structural Time Series" {
		t.Errorf("title mismatch: %q", fm.Title)
	}
	want := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !fm.Date.Equal(want) {
		t.Errorf("date mismatch: %v", fm.Date)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "r" {
		t.Errorf("tags mismatch: %v", fm.Tags)
	}
	if !fm.Mathjax {
		t.Error("mathjax flag lost")
	}
	if fm.Custom["layout"] != "wide" {
		t.Errorf("custom key lost: %v", fm.Custom)
	}
}

func TestFromMetadata_StringDates(t *testing.T) {
	// Quoted dates survive the untyped parse as strings; both the plain
	// calendar form and full timestamps must decode.
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2020-01-01", time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"2021-06-02T08:30:00Z", time.Date(2021, time.June, 2, 8, 30, 0, 0, time.UTC)},
	}

	for _, c := range cases {
		fm, err := FromMetadata(core.Metadata{"title": "x", "date": c.in})
		if err != nil {
			t.Fatalf("FromMetadata(%q) failed: %v", c.in, err)
		}
		if !fm.Date.Equal(c.want) {
			t.Errorf("date %q: want %v, got %v", c.in, c.want, fm.Date)
		}
	}

	if _, err := FromMetadata(core.Metadata{"title": "x", "date": "not a date"}); err == nil {
		t.Error("unparseable date string must fail")
	}
}

func TestDateOf_CalendarDay(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)

	// 07:00 JST is still the previous day in UTC; the calendar day must win.
	d := DateOf(time.Date(2020, time.January, 1, 7, 0, 0, 0, jst))
	want := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !time.Time(d).Equal(want) {
		t.Errorf("want %v, got %v", want, time.Time(d))
	}
}

func TestDate_MarshalsPlainForm(t *testing.T) {
	out, err := yaml.Marshal(map[string]any{
		"date": DateOf(time.Date(2020, time.January, 1, 15, 4, 5, 0, time.UTC)),
	})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != "date: 2020-01-01\n" {
		t.Errorf("want %q, got %q", "date: 2020-01-01\n", out)
	}
}

func TestFromMetadata_Defaults(t *testing.T) {
	fm, err := FromMetadata(core.Metadata{"title": "Minimal"})
	if err != nil {
		t.Fatalf("FromMetadata failed: %v", err)
	}
	if fm.Mathjax {
		t.Error("mathjax must default to false")
	}
	if fm.Draft {
		t.Error("draft must default to false")
	}
	if !fm.Date.IsZero() {
		t.Errorf("date must default to zero, got %v", fm.Date)
	}
}

func TestToMetadata_RoundTrip(t *testing.T) {
	fm := FrontMatter{
		Title:   "Round Trip",
		Date:    time.Date(2021, time.June, 2, 0, 0, 0, 0, time.UTC),
		Tags:    []string{"go"},
		Mathjax: true,
		Custom:  map[string]any{"series": "plume"},
	}

	m, err := fm.ToMetadata()
	if err != nil {
		t.Fatalf("ToMetadata failed: %v", err)
	}

	back, err := FromMetadata(m)
	if err != nil {
		t.Fatalf("FromMetadata failed: %v", err)
	}

	if back.Title != fm.Title {
		t.Errorf("title lost: %q", back.Title)
	}
	if !back.Date.Equal(fm.Date) {
		t.Errorf("date lost: %v", back.Date)
	}
	if !back.HasTag("go") {
		t.Error("tags lost")
	}
	if !back.Mathjax {
		t.Error("mathjax lost")
	}
	if back.Custom["series"] != "plume" {
		t.Errorf("custom key lost: %v", back.Custom)
	}
}

func TestValidate(t *testing.T) {
	if err := (FrontMatter{Title: "ok"}).Validate(); err != nil {
		t.Errorf("valid front matter rejected: %v", err)
	}
	if err := (FrontMatter{}).Validate(); err == nil {
		t.Error("missing title must fail validation")
	}
	if err := (FrontMatter{Title: "x", Tags: []string{"go", ""}}).Validate(); err == nil {
		t.Error("empty tag must fail validation")
	}
}

func TestTagSetSemantics(t *testing.T) {
	a := FrontMatter{Title: "a", Tags: []string{"go", "blogging", "go"}}
	b := FrontMatter{Title: "b", Tags: []string{"blogging", "go"}}

	// Order and duplicates are irrelevant.
	setA, setB := a.TagSet(), b.TagSet()
	if len(setA) != len(setB) {
		t.Fatalf("sets differ in size: %v vs %v", setA, setB)
	}
	for tag := range setA {
		if !setB[tag] {
			t.Errorf("sets disagree on %q", tag)
		}
	}

	if !a.HasTag("go") || a.HasTag("rust") {
		t.Error("HasTag membership wrong")
	}
}
