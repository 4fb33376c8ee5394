// Package frontmatter parses, serializes, and merges the YAML frontmatter
// block of a word note.
//
// Two parsers coexist on purpose. Parse is a lenient line-based scanner for
// hand-authored or legacy frontmatter: it recovers scalar keys only and never
// fails. ParseStrict is a full YAML parse that preserves key order and
// reconstructs arrays and nested maps; it is only trusted for input this
// package itself serialized earlier.
package frontmatter

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// NotDefined is the sentinel value meaning "analysis has not resolved this
// field yet". Merge treats it the same as an empty value.
const NotDefined = "NOT_DEFINED"

var lineRe = regexp.MustCompile(`^(\w+):(.*)$`)

// Mapping is an insertion-ordered mapping from frontmatter key to value.
// Values are string scalars, []string sequences, or nested *Mapping.
type Mapping struct {
	keys   []string
	values map[string]any
}

// New returns an empty Mapping.
func New() *Mapping {
	return &Mapping{values: make(map[string]any)}
}

// Set stores v under key, appending the key to the order on first use.
func (m *Mapping) Set(key string, v any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// GetString returns the scalar stored under key, or "" when absent or
// non-scalar.
func (m *Mapping) GetString(key string) string {
	if s, ok := m.values[key].(string); ok {
		return s
	}
	return ""
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of keys.
func (m *Mapping) Len() int { return len(m.keys) }

// Clone returns an independent copy preserving key order.
func (m *Mapping) Clone() *Mapping {
	out := New()
	for _, k := range m.keys {
		out.Set(k, m.values[k])
	}
	return out
}

// Parse scans block line by line for `key: value` pairs. One layer of
// surrounding double quotes is stripped from scalar values. Lines that do not
// match are silently ignored, so malformed input degrades to a partial or
// empty mapping and never to an error.
func Parse(block string) *Mapping {
	out := New()
	for _, line := range strings.Split(block, "\n") {
		matches := lineRe.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		val := strings.TrimSpace(matches[2])
		if len(val) >= 2 && strings.HasPrefix(val, `"`) && strings.HasSuffix(val, `"`) {
			val = val[1 : len(val)-1]
		}
		out.Set(matches[1], val)
	}
	return out
}

// ParseStrict parses block as YAML, preserving document key order. Sequences
// of scalars become []string and nested mappings become *Mapping. Only input
// produced by Serialize should be fed through here; anything else falls back
// to Parse at the caller's discretion.
func ParseStrict(block string) (*Mapping, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return nil, fmt.Errorf("frontmatter: parse: %w", err)
	}
	if len(doc.Content) == 0 {
		return New(), nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("frontmatter: top level is not a mapping")
	}
	return mappingFromNode(root)
}

func mappingFromNode(node *yaml.Node) (*Mapping, error) {
	out := New()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		v, err := valueFromNode(valNode)
		if err != nil {
			return nil, err
		}
		out.Set(keyNode.Value, v)
	}
	return out, nil
}

func valueFromNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Value, nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("frontmatter: nested non-scalar sequence item")
			}
			items = append(items, item.Value)
		}
		return items, nil
	case yaml.MappingNode:
		return mappingFromNode(node)
	default:
		return nil, fmt.Errorf("frontmatter: unsupported node kind %d", node.Kind)
	}
}

// Serialize emits the mapping as a YAML block in insertion order. Scalars are
// always double-quoted; sequences and nested mappings use block style with
// 2-space indentation. Serialize never fails: unknown value types are
// stringified.
func Serialize(m *Mapping) string {
	var b strings.Builder
	for _, key := range m.keys {
		writeValue(&b, key, m.values[key], 0)
	}
	return b.String()
}

func writeValue(b *strings.Builder, key string, v any, indent int) {
	pad := strings.Repeat("  ", indent)
	switch val := v.(type) {
	case []string:
		fmt.Fprintf(b, "%s%s:\n", pad, key)
		for _, item := range val {
			fmt.Fprintf(b, "%s  - %s\n", pad, quote(item))
		}
	case *Mapping:
		fmt.Fprintf(b, "%s%s:\n", pad, key)
		for _, k := range val.keys {
			writeValue(b, k, val.values[k], indent+1)
		}
	case string:
		fmt.Fprintf(b, "%s%s: %s\n", pad, key, quote(val))
	default:
		fmt.Fprintf(b, "%s%s: %s\n", pad, key, quote(fmt.Sprint(val)))
	}
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// Split separates the leading "---"-delimited frontmatter block from the body.
// When no complete block is present the whole document is body.
func Split(doc string) (block, body string) {
	const delim = "---"
	trimmed := strings.TrimLeft(doc, "\n\r")
	if !strings.HasPrefix(trimmed, delim) {
		return "", doc
	}
	rest := trimmed[len(delim):]
	idx := strings.Index(rest, "\n"+delim)
	if idx < 0 {
		return "", doc
	}
	block = strings.TrimPrefix(rest[:idx], "\n")
	body = strings.TrimLeft(rest[idx+1+len(delim):], "\n\r")
	return block, body
}
