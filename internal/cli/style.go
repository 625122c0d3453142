package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/rcliao/onboard/internal/model"
	"github.com/rcliao/onboard/internal/timeline"
)

var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	colorBlue   = lipgloss.Color("#83a598")
	colorDim    = lipgloss.Color("#928374")
	colorHeader = lipgloss.Color("#fe8019")
)

var (
	styleHeader = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleBlue   = lipgloss.NewStyle().Foreground(colorBlue)
	styleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarn   = lipgloss.NewStyle().Foreground(colorYellow)
	styleRed    = lipgloss.NewStyle().Foreground(colorRed)
)

var colorOn = sync.OnceValue(useColor)

// useColor reports whether stdout gets ANSI styling, following the config's
// color setting and falling back to terminal detection.
func useColor() bool {
	switch loadConfig().Color {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// paint renders s with st, or leaves it plain when colour is off.
func paint(st lipgloss.Style, s string) string {
	if !colorOn() {
		return s
	}
	return st.Render(s)
}

func header(text string) string {
	return fmt.Sprintf("%s\n%s", paint(styleHeader, text), paint(styleDim, strings.Repeat("─", lipgloss.Width(text))))
}

// conditionStyle colours a timeline step by its trigger.
func conditionStyle(t model.ConditionType) lipgloss.Style {
	switch t {
	case model.ConditionBefore:
		return styleBlue
	case model.ConditionAfter:
		return styleGreen
	case model.ConditionToDo:
		return styleWarn
	}
	return styleDim
}

// renderTimeline prints one line per step followed by its items.
func renderTimeline(steps []model.Condition) string {
	if len(steps) == 0 {
		return paint(styleDim, "(empty timeline)")
	}
	var b strings.Builder
	for i, c := range steps {
		fmt.Fprintf(&b, "%s %s", paint(styleDim, fmt.Sprintf("[%d]", i)), paint(conditionStyle(c.ConditionType), timeline.Label(c)))
		if c.Time != "" {
			fmt.Fprintf(&b, " %s", paint(styleDim, "at "+c.Time))
		}
		b.WriteString("\n")
		for _, bucket := range model.Buckets {
			items, _ := c.Bucket(bucket)
			for _, it := range *items {
				fmt.Fprintf(&b, "    %s %s\n", paint(styleDim, bucket), itemLabel(it))
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func itemLabel(it model.Item) string {
	if it.Name == "" {
		return fmt.Sprintf("#%d", it.ID)
	}
	return fmt.Sprintf("%s %s", it.Name, paint(styleDim, fmt.Sprintf("#%d", it.ID)))
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// renderChapterTree draws an outline with box-drawing connectors.
func renderChapterTree(level []*model.Chapter) string {
	var b strings.Builder
	var walk func(nodes []*model.Chapter, prefix string)
	walk = func(nodes []*model.Chapter, prefix string) {
		for i, ch := range nodes {
			last := i == len(nodes)-1
			conn, next := treeBranch, treePipe
			if last {
				conn, next = treeCorner, treeBlank
			}
			fmt.Fprintf(&b, "%s%s %s %s\n", paint(styleDim, prefix+conn), ch.Name,
				paint(styleDim, fmt.Sprintf("#%d", ch.ID)), paint(styleBlue, "["+ch.Type.String()+"]"))
			walk(ch.Chapters, prefix+next)
		}
	}
	walk(level, "")
	return strings.TrimRight(b.String(), "\n")
}

var (
	mdMu       sync.Mutex
	mdRenderer *glamour.TermRenderer
)

// renderMarkdown formats markdown for the terminal, returning the input
// unchanged if rendering fails.
func renderMarkdown(md string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}

	mdMu.Lock()
	defer mdMu.Unlock()
	if mdRenderer == nil {
		style := "notty"
		if colorOn() {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return md
		}
		mdRenderer = r
	}
	out, err := mdRenderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
