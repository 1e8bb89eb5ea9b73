package tags

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	srtHeaderPattern = regexp.MustCompile(`^\d+\s*\n\d{2}:\d{2}:\d{2},\d{3}\s+-->\s+\d{2}:\d{2}:\d{2},\d{3}\s*\n`)
	srtIndexPattern  = regexp.MustCompile(`^\d+$`)
	srtTimingPattern = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2}),(\d{3})\s+-->\s+(\d{2}):(\d{2}):(\d{2}),(\d{3})`)
	srtBlockSplit    = regexp.MustCompile(`\n\s*\n`)
)

// srtGapWarningMs is the longest silence between entries CheckSRT accepts.
const srtGapWarningMs = 5000

// LooksLikeSRT reports whether text starts with a SubRip header: an index
// line followed by an "HH:MM:SS,mmm --> HH:MM:SS,mmm" timing line. Texts with
// fewer than three non-empty lines are never considered SRT.
func LooksLikeSRT(text string) bool {
	nonEmpty := 0
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if strings.TrimSpace(line) != "" {
			nonEmpty++
		}
	}
	if nonEmpty < 3 {
		return false
	}
	return srtHeaderPattern.MatchString(text)
}

// SRTEntry is one subtitle block.
type SRTEntry struct {
	Index int    `json:"index" yaml:"index"`
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
	Text  string `json:"text" yaml:"text"`

	block string
}

// StartMs returns the entry start time in milliseconds.
func (e SRTEntry) StartMs() int {
	return srtTimeToMs(e.Start)
}

// EndMs returns the entry end time in milliseconds.
func (e SRTEntry) EndMs() int {
	return srtTimeToMs(e.End)
}

// ParseSRT splits text into subtitle entries. Blocks without an index line,
// a timing line and at least one text line are skipped.
func ParseSRT(text string) []SRTEntry {
	var entries []SRTEntry

	for _, block := range srtBlockSplit.Split(strings.TrimSpace(text), -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		lines := strings.Split(block, "\n")
		if len(lines) < 3 {
			continue
		}

		indexLine := strings.TrimSpace(lines[0])
		if !srtIndexPattern.MatchString(indexLine) {
			continue
		}
		if !srtTimingPattern.MatchString(lines[1]) {
			continue
		}

		index, err := strconv.Atoi(indexLine)
		if err != nil {
			continue
		}
		start, end, _ := strings.Cut(lines[1], " --> ")

		entries = append(entries, SRTEntry{
			Index: index,
			Start: strings.TrimSpace(start),
			End:   strings.TrimSpace(end),
			Text:  strings.Join(lines[2:], "\n"),
			block: block,
		})
	}

	return entries
}

// CheckSRT reports structural problems in SRT text: overlapping entries and
// gaps longer than five seconds. An empty result means the text is clean.
func CheckSRT(text string) []string {
	if !LooksLikeSRT(text) {
		return []string{"Not valid SRT format"}
	}

	entries := ParseSRT(text)
	if len(entries) == 0 {
		return []string{"No valid SRT entries found"}
	}

	var issues []string
	for i := 0; i < len(entries)-1; i++ {
		cur, next := entries[i], entries[i+1]
		if cur.EndMs() > next.StartMs() {
			issues = append(issues, fmt.Sprintf("Entry %d overlaps with entry %d", cur.Index, next.Index))
		}
	}
	for i := 0; i < len(entries)-1; i++ {
		cur, next := entries[i], entries[i+1]
		if gap := next.StartMs() - cur.EndMs(); gap > srtGapWarningMs {
			issues = append(issues, fmt.Sprintf("Large gap between entry %d and %d (%.1fs)", cur.Index, next.Index, float64(gap)/1000))
		}
	}
	return issues
}

// ApplyTagToEntries prefixes the text of entries first through last
// (zero-based, inclusive) with tag. A negative last applies to first only.
func ApplyTagToEntries(text, tag string, first, last int) string {
	if last < 0 {
		last = first
	}

	entries := ParseSRT(text)
	for i := max(0, first); i <= min(len(entries)-1, last); i++ {
		e := entries[i]
		block := fmt.Sprintf("%d\n%s --> %s\n%s %s", e.Index, e.Start, e.End, tag, e.Text)
		text = strings.Replace(text, e.block, block, 1)
	}
	return text
}

// srtTimeToMs converts an HH:MM:SS,mmm timestamp to milliseconds, or 0.
func srtTimeToMs(ts string) int {
	var h, m, s, ms int
	if _, err := fmt.Sscanf(strings.TrimSpace(ts), "%d:%d:%d,%d", &h, &m, &s, &ms); err != nil {
		return 0
	}
	return h*3600000 + m*60000 + s*1000 + ms
}
