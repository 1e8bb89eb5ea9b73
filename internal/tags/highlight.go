package tags

import (
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	srtIndexLine  = regexp.MustCompile(`(?m)^(\d+)\s*\n\d{2}:\d{2}:\d{2},\d{3}\s+-->\s+\d{2}:\d{2}:\d{2},\d{3}`)
	srtTimingSpan = regexp.MustCompile(`\d{2}:\d{2}:\d{2},\d{3}\s+-->\s+\d{2}:\d{2}:\d{2},\d{3}`)
	multiSpace    = regexp.MustCompile(`  +`)
)

// HighlightStyles holds the styles used by Highlight.
type HighlightStyles struct {
	Index  lipgloss.Style
	Timing lipgloss.Style
	Tag    lipgloss.Style
	Comma  lipgloss.Style
	Period lipgloss.Style
	Punct  lipgloss.Style
	Spaces lipgloss.Style
}

// DefaultHighlightStyles returns the editor's color scheme.
func DefaultHighlightStyles() HighlightStyles {
	return HighlightStyles{
		Index:  lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5555")).Bold(true),
		Timing: lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaa00")).Bold(true),
		Tag:    lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true),
		Comma:  lipgloss.NewStyle().Foreground(lipgloss.Color("#66ff66")).Bold(true),
		Period: lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc33")).Bold(true),
		Punct:  lipgloss.NewStyle().Foreground(lipgloss.Color("#ff9999")),
		Spaces: lipgloss.NewStyle().Background(lipgloss.Color("#2a2a2a")).Foreground(lipgloss.Color("#eeeeee")),
	}
}

type span struct {
	start, end int
	style      lipgloss.Style
}

// Highlight renders text with SRT indices, SRT timings, tags, punctuation and
// runs of spaces styled. Earlier categories win where matches overlap, so
// punctuation inside a tag keeps the tag color.
func Highlight(text string, styles HighlightStyles) string {
	covered := make([]bool, len(text))
	var spans []span

	add := func(start, end int, style lipgloss.Style) {
		for i := start; i < end; i++ {
			if covered[i] {
				return
			}
		}
		for i := start; i < end; i++ {
			covered[i] = true
		}
		spans = append(spans, span{start: start, end: end, style: style})
	}

	for _, m := range srtIndexLine.FindAllStringSubmatchIndex(text, -1) {
		add(m[2], m[3], styles.Index)
	}
	for _, m := range srtTimingSpan.FindAllStringIndex(text, -1) {
		add(m[0], m[1], styles.Timing)
	}
	for _, m := range tagPattern.FindAllStringIndex(text, -1) {
		add(m[0], m[1], styles.Tag)
	}
	for _, m := range multiSpace.FindAllStringIndex(text, -1) {
		add(m[0], m[1], styles.Spaces)
	}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case ',':
			add(i, i+1, styles.Comma)
		case '.':
			add(i, i+1, styles.Period)
		case '?', '!', ';':
			add(i, i+1, styles.Punct)
		}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var b strings.Builder
	pos := 0
	for _, s := range spans {
		b.WriteString(text[pos:s.start])
		b.WriteString(renderLines(s.style, text[s.start:s.end]))
		pos = s.end
	}
	b.WriteString(text[pos:])
	return b.String()
}

// renderLines styles each line separately so lipgloss does not pad
// multi-line spans into a block.
func renderLines(style lipgloss.Style, s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
