package content

import (
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Tool renders and sanitizes one block type.
type Tool interface {
	Type() string
	Render(b Block) string
	Sanitize(b Block) Block
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Tool{}
)

// Register adds a tool, replacing any tool of the same type.
func Register(t Tool) {
	registryMu.Lock()
	registry[t.Type()] = t
	registryMu.Unlock()
}

// Lookup returns the tool for a block type.
func Lookup(typ string) (Tool, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	t, ok := registry[typ]
	return t, ok
}

// Types lists the registered block types.
func Types() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func init() {
	for _, t := range []Tool{
		paragraphTool{}, headerTool{}, listTool{}, quoteTool{}, delimiterTool{},
		fileTool{typ: "image"}, fileTool{typ: "video"}, fileTool{typ: "attaches"},
		formTool{}, questionTool{},
	} {
		Register(t)
	}
}

var (
	strict = bluemonday.StrictPolicy()
	inline = func() *bluemonday.Policy {
		p := bluemonday.NewPolicy()
		p.AllowElements("b", "i", "br")
		p.AllowAttrs("href").OnElements("a")
		p.AllowStandardURLs()
		p.RequireNoFollowOnLinks(false)
		return p
	}()
)

// clean strips all markup.
func clean(s string) string {
	return html.UnescapeString(strict.Sanitize(s))
}

// cleanInline keeps bold, italic, line breaks and links.
func cleanInline(s string) string {
	return inline.Sanitize(s)
}

var (
	reBold   = regexp.MustCompile(`(?i)<(?:b|strong)>(.*?)</(?:b|strong)>`)
	reItalic = regexp.MustCompile(`(?i)<(?:i|em)>(.*?)</(?:i|em)>`)
	reLink   = regexp.MustCompile(`(?i)<a\s[^>]*href="([^"]*)"[^>]*>(.*?)</a>`)
	reBreak  = regexp.MustCompile(`(?i)<br\s*/?>`)
)

// markdownInline turns the inline markup the editor produces into markdown.
func markdownInline(s string) string {
	s = reBreak.ReplaceAllString(s, "\n")
	s = reLink.ReplaceAllString(s, "[$2]($1)")
	s = reBold.ReplaceAllString(s, "**$1**")
	s = reItalic.ReplaceAllString(s, "_${1}_")
	return strings.TrimSpace(clean(s))
}

type textData struct {
	Text string `json:"text"`
}

type paragraphTool struct{}

func (paragraphTool) Type() string { return "paragraph" }

func (paragraphTool) Render(b Block) string {
	var d textData
	if b.decode(&d) != nil {
		return ""
	}
	return markdownInline(d.Text)
}

func (paragraphTool) Sanitize(b Block) Block {
	return sanitizeFields(b, cleanInline, "text")
}

type headerTool struct{}

func (headerTool) Type() string { return "header" }

func (headerTool) Render(b Block) string {
	var d struct {
		Text  string `json:"text"`
		Level int    `json:"level"`
	}
	if b.decode(&d) != nil || d.Text == "" {
		return ""
	}
	level := min(max(d.Level, 1), 6)
	return strings.Repeat("#", level) + " " + markdownInline(d.Text)
}

func (headerTool) Sanitize(b Block) Block {
	return sanitizeFields(b, clean, "text")
}

// listItem is either a plain string or a nested item.
type listItem struct {
	Content string     `json:"content"`
	Items   []listItem `json:"items,omitempty"`
}

func (li *listItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*li = listItem{Content: s}
		return nil
	}
	type plain listItem
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*li = listItem(p)
	return nil
}

type listData struct {
	Style string     `json:"style"`
	Items []listItem `json:"items"`
}

type listTool struct{}

func (listTool) Type() string { return "list" }

func (listTool) Render(b Block) string {
	var d listData
	if b.decode(&d) != nil {
		return ""
	}
	var sb strings.Builder
	renderList(&sb, d.Items, d.Style == "ordered", 0)
	return sb.String()
}

func renderList(sb *strings.Builder, items []listItem, ordered bool, depth int) {
	indent := strings.Repeat("   ", depth)
	for i, it := range items {
		marker := "-"
		if ordered {
			marker = fmt.Sprintf("%d.", i+1)
		}
		fmt.Fprintf(sb, "%s%s %s\n", indent, marker, markdownInline(it.Content))
		renderList(sb, it.Items, ordered, depth+1)
	}
}

func (listTool) Sanitize(b Block) Block {
	var raw map[string]json.RawMessage
	var d listData
	if b.decode(&raw) != nil || b.decode(&d) != nil || raw == nil {
		return b
	}
	d.Items = sanitizeList(d.Items)
	items, err := json.Marshal(d.Items)
	if err != nil {
		return b
	}
	raw["items"] = items
	return b.withData(raw)
}

func sanitizeList(items []listItem) []listItem {
	out := make([]listItem, len(items))
	for i, it := range items {
		out[i] = listItem{Content: cleanInline(it.Content), Items: sanitizeList(it.Items)}
	}
	return out
}

type quoteTool struct{}

func (quoteTool) Type() string { return "quote" }

func (quoteTool) Render(b Block) string {
	var d struct {
		Text    string `json:"text"`
		Caption string `json:"caption"`
	}
	if b.decode(&d) != nil || d.Text == "" {
		return ""
	}
	var lines []string
	for _, l := range strings.Split(markdownInline(d.Text), "\n") {
		lines = append(lines, "> "+l)
	}
	if c := markdownInline(d.Caption); c != "" {
		lines = append(lines, ">", "> "+c)
	}
	return strings.Join(lines, "\n")
}

func (quoteTool) Sanitize(b Block) Block {
	return sanitizeFields(b, clean, "text", "caption")
}

type delimiterTool struct{}

func (delimiterTool) Type() string { return "delimiter" }

func (delimiterTool) Render(Block) string { return "---" }

func (delimiterTool) Sanitize(b Block) Block { return b }

type fileRef struct {
	ID    json.RawMessage `json:"id,omitempty"`
	URL   string          `json:"url"`
	Title string          `json:"title"`
	Name  string          `json:"name"`
}

type fileData struct {
	File    fileRef `json:"file"`
	Caption string  `json:"caption"`
}

// fileTool covers the upload-backed blocks: image, video and attaches.
type fileTool struct {
	typ string
}

func (t fileTool) Type() string { return t.typ }

func (t fileTool) Render(b Block) string {
	var d fileData
	if b.decode(&d) != nil {
		return ""
	}
	label := clean(firstNonEmpty(d.Caption, d.File.Title, d.File.Name))
	switch t.typ {
	case "image":
		if d.File.URL == "" {
			return ""
		}
		return fmt.Sprintf("![%s](%s)", label, d.File.URL)
	case "video":
		label = firstNonEmpty(label, "Watch video")
	default:
		label = firstNonEmpty(label, "Download file")
	}
	if d.File.URL == "" {
		return label
	}
	return fmt.Sprintf("[%s](%s)", label, d.File.URL)
}

func (t fileTool) Sanitize(b Block) Block {
	b = sanitizeFields(b, clean, "caption")
	var raw map[string]json.RawMessage
	if b.decode(&raw) != nil || raw["file"] == nil {
		return b
	}
	var file map[string]any
	if json.Unmarshal(raw["file"], &file) != nil {
		return b
	}
	for _, k := range []string{"title", "name"} {
		if s, ok := file[k].(string); ok {
			file[k] = clean(s)
		}
	}
	enc, err := json.Marshal(file)
	if err != nil {
		return b
	}
	raw["file"] = enc
	return b.withData(raw)
}

type option struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// formTool renders form fields: input, text, select, check and upload.
type formTool struct{}

func (formTool) Type() string { return "form" }

func (formTool) Render(b Block) string {
	var d struct {
		Type    string   `json:"type"`
		Text    string   `json:"text"`
		Options []option `json:"options"`
		Items   []option `json:"items"`
	}
	if b.decode(&d) != nil {
		return ""
	}
	label := markdownInline(d.Text)
	opts := d.Options
	if len(opts) == 0 {
		opts = d.Items
	}
	switch d.Type {
	case "input":
		return fmt.Sprintf("**%s**\n\n`________________`", label)
	case "text":
		return fmt.Sprintf("**%s**\n\n```\n\n```", label)
	case "upload":
		return fmt.Sprintf("**%s** (file upload)", label)
	case "select", "check":
		box := "( )"
		if d.Type == "check" {
			box = "[ ]"
		}
		lines := []string{"**" + label + "**", ""}
		for _, o := range opts {
			lines = append(lines, fmt.Sprintf("- %s %s", box, clean(o.Text)))
		}
		return strings.Join(lines, "\n")
	}
	return label
}

func (formTool) Sanitize(b Block) Block {
	b = sanitizeFields(b, clean, "text")
	return sanitizeOptions(b, "options", "items")
}

// questionTool renders multiple choice questions. The editor stores these
// with content, items and answer at the block's top level.
type questionTool struct{}

func (questionTool) Type() string { return "question" }

func (questionTool) Render(b Block) string {
	var q struct {
		Content string   `json:"content"`
		Text    string   `json:"text"`
		Items   []option `json:"items"`
	}
	if v, ok := b.Extra("content"); ok {
		json.Unmarshal(v, &q.Content)
	}
	if v, ok := b.Extra("items"); ok {
		json.Unmarshal(v, &q.Items)
	}
	if q.Content == "" {
		b.decode(&q)
		q.Content = firstNonEmpty(q.Content, q.Text)
	}
	if q.Content == "" {
		return ""
	}
	lines := []string{"**" + markdownInline(q.Content) + "**", ""}
	for _, it := range q.Items {
		lines = append(lines, "- ( ) "+clean(it.Text))
	}
	return strings.Join(lines, "\n")
}

func (questionTool) Sanitize(b Block) Block {
	out := b
	if len(b.extra) > 0 {
		out.extra = make(map[string]json.RawMessage, len(b.extra))
		for k, v := range b.extra {
			out.extra[k] = v
		}
		if v, ok := out.extra["content"]; ok {
			var s string
			if json.Unmarshal(v, &s) == nil {
				out.extra["content"], _ = json.Marshal(clean(s))
			}
		}
		if v, ok := out.extra["items"]; ok {
			var items []map[string]any
			if json.Unmarshal(v, &items) == nil {
				cleanOptionTexts(items)
				out.extra["items"], _ = json.Marshal(items)
			}
		}
	}
	out = sanitizeFields(out, clean, "text", "content")
	return sanitizeOptions(out, "items")
}

// sanitizeFields runs fn over the named string fields of the block data,
// leaving every other field as it was.
func sanitizeFields(b Block, fn func(string) string, keys ...string) Block {
	var raw map[string]json.RawMessage
	if b.decode(&raw) != nil || raw == nil {
		return b
	}
	changed := false
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(v, &s) != nil {
			continue
		}
		enc, err := json.Marshal(fn(s))
		if err != nil {
			continue
		}
		raw[k] = enc
		changed = true
	}
	if !changed {
		return b
	}
	return b.withData(raw)
}

func sanitizeOptions(b Block, keys ...string) Block {
	var raw map[string]json.RawMessage
	if b.decode(&raw) != nil || raw == nil {
		return b
	}
	changed := false
	for _, k := range keys {
		var items []map[string]any
		if v, ok := raw[k]; !ok || json.Unmarshal(v, &items) != nil {
			continue
		}
		cleanOptionTexts(items)
		enc, err := json.Marshal(items)
		if err != nil {
			continue
		}
		raw[k] = enc
		changed = true
	}
	if !changed {
		return b
	}
	return b.withData(raw)
}

func cleanOptionTexts(items []map[string]any) {
	for _, it := range items {
		if s, ok := it["text"].(string); ok {
			it["text"] = clean(s)
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
