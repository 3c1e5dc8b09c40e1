package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/plumekit/plume/pkg/core"
	"gopkg.in/yaml.v3"
)

// Serializer defines how to read and write a specific file format.
type Serializer interface {
	// Parse reads from r and returns a Post.
	Parse(r io.Reader) (*core.Post, error)
	// Serialize converts the Post to bytes.
	Serialize(p core.Post) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers.
func DefaultSerializers(strict bool) map[string]Serializer {
	return map[string]Serializer{
		".json": NewJSONSerializer(strict),
		".yaml": NewYAMLSerializer(strict),
		".yml":  NewYAMLSerializer(strict),
		".md":   NewMarkdownSerializer(strict),
	}
}

// --- Markdown Serializer ---

// MarkdownSerializer handles Markdown files with a YAML front matter block:
// a `---` marker line, metadata lines, the same marker line again, then body.
type MarkdownSerializer struct {
	// Strict enables strict number parsing (as json.Number) to avoid precision loss.
	Strict bool
}

// NewMarkdownSerializer creates a new Markdown serializer.
func NewMarkdownSerializer(strict bool) *MarkdownSerializer {
	return &MarkdownSerializer{Strict: strict}
}

// Parse splits raw text into front matter and body.
//
// If the leading marker is absent, the entire text is the body and the
// metadata is empty. A malformed header (opened but never closed, or YAML
// that does not parse) falls back to the same empty-metadata, full-body
// interpretation instead of failing the document.
func (s *MarkdownSerializer) Parse(r io.Reader) (*core.Post, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	p := &core.Post{Metadata: make(core.Metadata)}

	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		p.Content = string(data)
		return p, nil
	}

	rest := data[3:]
	parts := bytes.SplitN(rest, []byte("---"), 2)
	if len(parts) == 1 {
		// Opened but never closed. Whole text is body.
		p.Content = string(data)
		return p, nil
	}

	yamlData := parts[0]
	contentData := parts[1]

	if err := yaml.Unmarshal(yamlData, &p.Metadata); err != nil {
		p.Metadata = make(core.Metadata)
		p.Content = string(data)
		return p, nil
	}

	p.RawMeta = yamlData
	p.Content = strings.TrimPrefix(string(contentData), "\n")
	p.Content = strings.TrimPrefix(p.Content, "\r\n")

	if s.Strict {
		p.Metadata = recursiveNormalize(p.Metadata).(core.Metadata)
	}

	return p, nil
}

// Serialize reconstructs the file. While the metadata map still agrees with
// the raw front matter captured at parse time, the raw bytes are re-emitted
// verbatim, so parse-then-serialize round-trips byte-identically. Modified
// metadata is re-encoded canonically.
func (s *MarkdownSerializer) Serialize(p core.Post) ([]byte, error) {
	var buf bytes.Buffer

	switch {
	case len(p.RawMeta) > 0 && s.rawStillValid(p):
		// RawMeta starts right after the opening marker, so it carries its
		// own leading newline.
		buf.WriteString("---")
		buf.Write(p.RawMeta)
		buf.WriteString("---\n")
	case len(p.Metadata) > 0:
		buf.WriteString("---\n")
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(p.Metadata); err != nil {
			return nil, err
		}
		encoder.Close()
		buf.WriteString("---\n")
	}

	buf.WriteString(p.Content)
	return buf.Bytes(), nil
}

func (s *MarkdownSerializer) rawStillValid(p core.Post) bool {
	parsed := make(core.Metadata)
	if err := yaml.Unmarshal(p.RawMeta, &parsed); err != nil {
		return false
	}
	if s.Strict {
		parsed = recursiveNormalize(parsed).(core.Metadata)
	}
	return reflect.DeepEqual(parsed, p.Metadata)
}

// --- YAML Serializer ---

// YAMLSerializer handles whole-file YAML documents. The "content" key, if
// present and a string, maps to the post body; everything else is metadata.
type YAMLSerializer struct {
	Strict bool
}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer(strict bool) *YAMLSerializer {
	return &YAMLSerializer{Strict: strict}
}

func (s *YAMLSerializer) Parse(r io.Reader) (*core.Post, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	p := &core.Post{Metadata: make(core.Metadata)}
	if payload != nil {
		p.Metadata = payload
	}

	if c, ok := payload["content"].(string); ok {
		p.Content = c
		delete(p.Metadata, "content")
	}

	if s.Strict {
		p.Metadata = recursiveNormalize(p.Metadata).(core.Metadata)
	}

	return p, nil
}

func (s *YAMLSerializer) Serialize(p core.Post) ([]byte, error) {
	payload := make(map[string]any, len(p.Metadata)+1)
	for k, v := range p.Metadata {
		payload[k] = v
	}
	payload["content"] = p.Content

	return yaml.Marshal(payload)
}

// --- JSON Serializer ---

// JSONSerializer handles whole-file JSON documents, mirroring YAMLSerializer.
type JSONSerializer struct {
	// Strict enables strict number parsing (as json.Number) to avoid precision loss.
	Strict bool
}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer(strict bool) *JSONSerializer {
	return &JSONSerializer{Strict: strict}
}

func (s *JSONSerializer) Parse(r io.Reader) (*core.Post, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	decoder := json.NewDecoder(bytes.NewReader(data))
	if s.Strict {
		decoder.UseNumber()
	}
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	p := &core.Post{Metadata: make(core.Metadata)}
	if payload != nil {
		p.Metadata = payload
	}

	if c, ok := payload["content"].(string); ok {
		p.Content = c
		delete(p.Metadata, "content")
	}

	return p, nil
}

func (s *JSONSerializer) Serialize(p core.Post) ([]byte, error) {
	payload := make(map[string]any, len(p.Metadata)+1)
	for k, v := range p.Metadata {
		payload[k] = v
	}
	payload["content"] = p.Content

	return json.MarshalIndent(payload, "", "  ")
}

// recursiveNormalize traverses the map/slice and converts numeric types to
// json.Number, keeping YAML strict mode consistent with JSON strict mode.
func recursiveNormalize(val any) any {
	switch v := val.(type) {
	case core.Metadata:
		m := make(core.Metadata)
		for k, val := range v {
			m[k] = recursiveNormalize(val)
		}
		return m
	case map[string]any:
		m := make(map[string]any)
		for k, val := range v {
			m[k] = recursiveNormalize(val)
		}
		return m
	case []any:
		l := make([]any, len(v))
		for i, val := range v {
			l[i] = recursiveNormalize(val)
		}
		return l
	case int:
		return json.Number(fmt.Sprintf("%d", v))
	case int64:
		return json.Number(fmt.Sprintf("%d", v))
	case int32:
		return json.Number(fmt.Sprintf("%d", v))
	case float64:
		return json.Number(fmt.Sprintf("%v", v))
	default:
		return v
	}
}
