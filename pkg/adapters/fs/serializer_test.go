package fs

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/plumekit/plume/pkg/core"
)

func TestMarkdownSerializer_RoundTrip(t *testing.T) {
	s := NewMarkdownSerializer(false)

	// Deliberately non-canonical YAML: odd spacing, quoting, and key order
	// must all survive an unmodified parse/serialize cycle.
	inputs := []string{
		"---\ntitle: \"X\"\ndate: 2020-01-01\n---\nHello",
		"---\ntitle: Forecasting with BSTS\ntags: [r, bayesian, time-series]\nmathjax:   true\n---\n\n# Intro\n\nSome prose.\n",
		"---\nexcerpt: >\n  A multi-line\n  excerpt block.\ntitle: Wrapped\n---\nBody text\nwith lines.\n",
		"no front matter at all\njust body\n",
		"",
	}

	for _, input := range inputs {
		p, err := s.Parse(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}

		out, err := s.Serialize(*p)
		if err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}

		if !bytes.Equal(out, []byte(input)) {
			t.Errorf("round trip not byte-identical.\ninput:  %q\noutput: %q", input, out)
		}
	}
}

func TestMarkdownSerializer_NoMarker(t *testing.T) {
	s := NewMarkdownSerializer(false)

	input := "# Just a heading\n\nParagraph with --- inline dashes.\n"
	p, err := s.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(p.Metadata) != 0 {
		t.Errorf("expected empty metadata, got %v", p.Metadata)
	}
	if p.Content != input {
		t.Errorf("body must equal original text exactly.\nwant %q\ngot  %q", input, p.Content)
	}
}

func TestMarkdownSerializer_Example(t *testing.T) {
	s := NewMarkdownSerializer(false)

	input := "---\ntitle: \"X\"\ndate: 2020-01-01\n---\nHello"
	p, err := s.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if p.Metadata["title"] != "X" {
		t.Errorf("expected title 'X', got %v", p.Metadata["title"])
	}

	want := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	got, ok := p.Metadata["date"].(time.Time)
	if !ok || !got.Equal(want) {
		t.Errorf("expected date %v, got %v (%T)", want, p.Metadata["date"], p.Metadata["date"])
	}

	if p.Content != "Hello" {
		t.Errorf("expected body 'Hello', got %q", p.Content)
	}
}

func TestMarkdownSerializer_MalformedFallsBack(t *testing.T) {
	s := NewMarkdownSerializer(false)

	cases := []string{
		// Opened but never closed
		"---\ntitle: Dangling\nno closing marker here",
		// Front matter that is not valid YAML
		"---\n\t{not yaml\n---\nbody",
	}

	for _, input := range cases {
		p, err := s.Parse(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Parse should not fail the document: %v", err)
		}
		if len(p.Metadata) != 0 {
			t.Errorf("malformed header: expected empty metadata, got %v", p.Metadata)
		}
		if p.Content != input {
			t.Errorf("malformed header: body must be the full text.\nwant %q\ngot  %q", input, p.Content)
		}
	}
}

func TestMarkdownSerializer_ModifiedMetadataReencodes(t *testing.T) {
	s := NewMarkdownSerializer(false)

	input := "---\ntitle:    \"Spacing preserved\"\n---\nbody"
	p, err := s.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	p.Metadata["title"] = "Edited"

	out, err := s.Serialize(*p)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	if bytes.Equal(out, []byte(input)) {
		t.Fatal("modified metadata must not re-emit the stale raw block")
	}

	// Re-parsing must see the edit.
	p2, err := s.Parse(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("re-Parse failed: %v", err)
	}
	if p2.Metadata["title"] != "Edited" {
		t.Errorf("expected edited title, got %v", p2.Metadata["title"])
	}
	if p2.Content != "body" {
		t.Errorf("expected body 'body', got %q", p2.Content)
	}
}

func TestMarkdownSerializer_EmptyMetadataOmitsBlock(t *testing.T) {
	s := NewMarkdownSerializer(false)

	out, err := s.Serialize(core.Post{Content: "plain body\n"})
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if string(out) != "plain body\n" {
		t.Errorf("expected bare body, got %q", out)
	}
}

func TestSerializers_MetadataThroughFormats(t *testing.T) {
	p := core.Post{
		ID:      "2020-01-01-test",
		Content: "Hello World",
		Metadata: core.Metadata{
			"title": "Test Title",
			"tags":  []any{"a", "b"},
			"meta": map[string]any{
				"foo": "bar",
			},
		},
	}

	serializers := DefaultSerializers(false)

	for _, ext := range []string{".json", ".yaml", ".md"} {
		t.Run(ext, func(t *testing.T) {
			s := serializers[ext]

			data, err := s.Serialize(p)
			if err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}

			parsed, err := s.Parse(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			if strings.TrimSpace(parsed.Content) != strings.TrimSpace(p.Content) {
				t.Errorf("content mismatch. want %q, got %q", p.Content, parsed.Content)
			}

			if parsed.Metadata["title"] != "Test Title" {
				t.Errorf("metadata 'title' mismatch")
			}

			tags, ok := parsed.Metadata["tags"].([]any)
			if !ok {
				t.Fatalf("metadata 'tags' is %T, not []any", parsed.Metadata["tags"])
			}
			if len(tags) != 2 {
				t.Errorf("tags length mismatch")
			}

			val := parsed.Metadata["meta"]
			var meta map[string]any
			switch v := val.(type) {
			case map[string]any:
				meta = v
			case core.Metadata:
				meta = map[string]any(v)
			default:
				t.Fatalf("metadata 'meta' is %T", val)
			}
			if meta["foo"] != "bar" {
				t.Errorf("meta 'foo' mismatch")
			}
		})
	}
}

func TestJSONSerializer_Strict(t *testing.T) {
	jsonContent := `{"big_id": 9223372036854775807}` // Max Int64

	strictSerializer := NewJSONSerializer(true)
	p, err := strictSerializer.Parse(strings.NewReader(jsonContent))
	if err != nil {
		t.Fatalf("strict Parse failed: %v", err)
	}

	if _, ok := p.Metadata["big_id"].(json.Number); !ok {
		t.Errorf("strict mode: expected json.Number, got %T", p.Metadata["big_id"])
	}

	looseSerializer := NewJSONSerializer(false)
	pLoose, err := looseSerializer.Parse(strings.NewReader(jsonContent))
	if err != nil {
		t.Fatalf("loose Parse failed: %v", err)
	}

	if _, ok := pLoose.Metadata["big_id"].(float64); !ok {
		t.Errorf("loose mode: expected float64, got %T", pLoose.Metadata["big_id"])
	}
}
