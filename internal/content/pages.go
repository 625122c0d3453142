package content

import (
	"strings"
)

const (
	DefaultPageTarget = 1200
	DefaultPageMax    = 1800
)

// PageOptions sizes the pages Chunk produces, in bytes of markdown.
type PageOptions struct {
	Target int
	Max    int
}

// DefaultPageOptions returns sizes that fit a terminal screen or two.
func DefaultPageOptions() PageOptions {
	return PageOptions{Target: DefaultPageTarget, Max: DefaultPageMax}
}

// Page is a slice of rendered markdown with its line span in the source.
type Page struct {
	Text      string
	StartLine int
	EndLine   int
}

// Chunk splits rendered markdown into display pages. Short text yields a
// single page. Pages break on headings and blank-line boundaries; sections
// that are still too long are split on line boundaries.
func Chunk(markdown string, opts PageOptions) []Page {
	if opts.Target <= 0 || opts.Max <= 0 {
		opts = DefaultPageOptions()
	}

	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return nil
	}
	if len(markdown) <= opts.Max {
		return []Page{{Text: markdown, StartLine: 1, EndLine: strings.Count(markdown, "\n") + 1}}
	}
	return mergeSections(splitSections(markdown), opts)
}

// splitSections cuts text at headings and at paragraph breaks.
func splitSections(text string) []Page {
	lines := strings.Split(text, "\n")
	var sections []Page
	var current []string
	start := 1

	flush := func(end int) {
		if len(current) == 0 {
			return
		}
		if t := strings.TrimSpace(strings.Join(current, "\n")); t != "" {
			sections = append(sections, Page{Text: t, StartLine: start, EndLine: end})
		}
		current = nil
		start = end + 1
	}

	for i, line := range lines {
		n := i + 1
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && len(current) > 0 {
			flush(n - 1)
		}
		if trimmed == "" && len(current) > 0 {
			flush(n)
			continue
		}
		current = append(current, line)
	}
	flush(len(lines))
	return sections
}

// mergeSections packs sections into pages close to the target size.
func mergeSections(sections []Page, opts PageOptions) []Page {
	var pages []Page
	var acc Page

	emit := func() {
		if acc.Text == "" {
			return
		}
		if len(acc.Text) > opts.Max {
			pages = append(pages, splitLines(acc, opts)...)
		} else {
			pages = append(pages, acc)
		}
		acc = Page{}
	}

	for _, s := range sections {
		if acc.Text == "" {
			acc = s
			continue
		}
		// A heading always starts a new page once the current one has content.
		if strings.HasPrefix(s.Text, "#") && len(acc.Text) >= opts.Target/2 {
			emit()
			acc = s
			continue
		}
		combined := acc.Text + "\n\n" + s.Text
		if len(combined) <= opts.Target {
			acc.Text = combined
			acc.EndLine = s.EndLine
			continue
		}
		emit()
		acc = s
	}
	emit()
	return pages
}

// splitLines breaks an oversized section on line boundaries.
func splitLines(p Page, opts PageOptions) []Page {
	lines := strings.Split(p.Text, "\n")
	var pages []Page
	var current []string
	start := p.StartLine
	size := 0

	for i, line := range lines {
		if size+len(line) > opts.Target && len(current) > 0 {
			if t := strings.TrimSpace(strings.Join(current, "\n")); t != "" {
				pages = append(pages, Page{Text: t, StartLine: start, EndLine: p.StartLine + i - 1})
			}
			current = nil
			start = p.StartLine + i
			size = 0
		}
		current = append(current, line)
		size += len(line) + 1
	}
	if t := strings.TrimSpace(strings.Join(current, "\n")); t != "" {
		pages = append(pages, Page{Text: t, StartLine: start, EndLine: p.StartLine + len(lines) - 1})
	}
	return pages
}
