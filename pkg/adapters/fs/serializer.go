package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/marl/pkg/core"
	"gopkg.in/yaml.v3"
)

// ContentKey is the attribute mapped to the document body in Markdown files.
const ContentKey = "content"

// Serializer defines how record attributes are read from and written to a
// specific file format.
type Serializer interface {
	// Parse reads from r and returns the attribute mapping.
	Parse(r io.Reader) (core.Attributes, error)
	// Serialize converts the attribute mapping to bytes.
	Serialize(attrs core.Attributes) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers by extension.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".md":   &MarkdownSerializer{},
		".yaml": &YAMLSerializer{},
		".yml":  &YAMLSerializer{},
		".json": &JSONSerializer{},
	}
}

// --- Markdown Serializer ---

// MarkdownSerializer stores attributes as YAML frontmatter; the "content"
// attribute becomes the document body.
type MarkdownSerializer struct{}

func (s *MarkdownSerializer) Parse(r io.Reader) (core.Attributes, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	attrs := make(core.Attributes)

	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		if len(data) > 0 {
			attrs[ContentKey] = string(data)
		}
		return attrs, nil
	}

	rest := data[3:]
	parts := bytes.SplitN(rest, []byte("---"), 2)
	if len(parts) == 1 {
		return nil, errors.New("frontmatter started but no closing delimiter found")
	}

	if err := yaml.Unmarshal(parts[0], &attrs); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	body := strings.TrimPrefix(string(parts[1]), "\n")
	body = strings.TrimPrefix(body, "\r\n")
	if body != "" {
		attrs[ContentKey] = body
	}

	return attrs, nil
}

func (s *MarkdownSerializer) Serialize(attrs core.Attributes) ([]byte, error) {
	meta := make(core.Attributes, len(attrs))
	var body string
	for k, v := range attrs {
		if k == ContentKey {
			body, _ = v.(string)
			continue
		}
		meta[k] = v
	}

	var buf bytes.Buffer
	if len(meta) > 0 {
		buf.WriteString("---\n")
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(sortedView(meta)); err != nil {
			return nil, err
		}
		encoder.Close()
		buf.WriteString("---\n")
	}
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// --- YAML Serializer ---

type YAMLSerializer struct{}

func (s *YAMLSerializer) Parse(r io.Reader) (core.Attributes, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	attrs := make(core.Attributes)
	if err := yaml.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return attrs, nil
}

func (s *YAMLSerializer) Serialize(attrs core.Attributes) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(sortedView(attrs)); err != nil {
		return nil, err
	}
	encoder.Close()
	return buf.Bytes(), nil
}

// --- JSON Serializer ---

type JSONSerializer struct{}

func (s *JSONSerializer) Parse(r io.Reader) (core.Attributes, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	attrs := make(core.Attributes)
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return attrs, nil
}

func (s *JSONSerializer) Serialize(attrs core.Attributes) ([]byte, error) {
	return json.MarshalIndent(attrs, "", "  ")
}

// sortedView renders attributes as an explicitly ordered YAML mapping so
// output files are byte-stable across saves.
func sortedView(attrs core.Attributes) *yaml.Node {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		var keyNode, valNode yaml.Node
		keyNode.SetString(k)
		if err := valNode.Encode(attrs[k]); err != nil {
			continue
		}
		node.Content = append(node.Content, &keyNode, &valNode)
	}
	return node
}
