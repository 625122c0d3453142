// Package content models saved editor documents and the block tools that
// render and sanitize them.
package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Document is a saved editor document.
type Document struct {
	Time    json.RawMessage `json:"time,omitempty"`
	Blocks  []Block         `json:"blocks"`
	Version string          `json:"version,omitempty"`
}

// Block is one document block. Fields other than id, type and data are kept
// as received so that saving never drops them.
type Block struct {
	ID   string
	Type string
	Data json.RawMessage

	extra map[string]json.RawMessage
}

// NewBlock builds a block with data encoded from v.
func NewBlock(typ string, v any) (Block, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Block{}, fmt.Errorf("encode %s block: %w", typ, err)
	}
	return Block{Type: typ, Data: data}, nil
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*b = Block{}
	if v, ok := fields["id"]; ok {
		if err := json.Unmarshal(v, &b.ID); err != nil {
			return fmt.Errorf("block id: %w", err)
		}
		delete(fields, "id")
	}
	if v, ok := fields["type"]; ok {
		if err := json.Unmarshal(v, &b.Type); err != nil {
			return fmt.Errorf("block type: %w", err)
		}
		delete(fields, "type")
	}
	if v, ok := fields["data"]; ok {
		b.Data = v
		delete(fields, "data")
	}
	if len(fields) > 0 {
		b.extra = fields
	}
	return nil
}

func (b Block) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b.extra)+3)
	for k, v := range b.extra {
		out[k] = v
	}
	if b.ID != "" {
		out["id"] = b.ID
	}
	out["type"] = b.Type
	if len(b.Data) > 0 {
		out["data"] = b.Data
	}
	return json.Marshal(out)
}

// Extra returns a top-level block field other than id, type and data.
func (b Block) Extra(key string) (json.RawMessage, bool) {
	v, ok := b.extra[key]
	return v, ok
}

// decode unmarshals the block data into v. Empty data leaves v untouched.
func (b Block) decode(v any) error {
	if len(b.Data) == 0 || string(b.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(b.Data, v); err != nil {
		return fmt.Errorf("decode %s block: %w", b.Type, err)
	}
	return nil
}

// withData returns a copy of b carrying v as its data.
func (b Block) withData(v any) Block {
	data, err := json.Marshal(v)
	if err != nil {
		return b
	}
	out := b
	out.Data = data
	return out
}

// Parse decodes a saved document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &doc, nil
}

// Save encodes the document in its stored form.
func Save(doc *Document) ([]byte, error) {
	if doc.Blocks == nil {
		cp := *doc
		cp.Blocks = []Block{}
		doc = &cp
	}
	return json.Marshal(doc)
}

// Markdown renders every block with its registered tool. Blocks of unknown
// types render as nothing.
func Markdown(doc *Document) string {
	if doc == nil {
		return ""
	}
	var parts []string
	for _, b := range doc.Blocks {
		tool, ok := Lookup(b.Type)
		if !ok {
			continue
		}
		if s := strings.TrimRight(tool.Render(b), "\n"); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Sanitize returns a copy of doc with every known block passed through its
// tool's Sanitize. Unknown blocks are copied unchanged.
func Sanitize(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	out := *doc
	out.Blocks = make([]Block, len(doc.Blocks))
	for i, b := range doc.Blocks {
		if tool, ok := Lookup(b.Type); ok {
			b = tool.Sanitize(b)
		}
		out.Blocks[i] = b
	}
	return &out
}

// MarkdownFromJSON parses raw document JSON and renders it. Empty input
// renders as "".
func MarkdownFromJSON(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	// Some payloads carry the document as a JSON string.
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("parse document: %w", err)
		}
		if strings.TrimSpace(s) == "" {
			return "", nil
		}
		raw = json.RawMessage(s)
	}
	doc, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return Markdown(doc), nil
}
