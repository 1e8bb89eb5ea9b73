package tags

import (
	"reflect"
	"strings"
	"testing"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:02,500
Hello there

2
00:00:02,000 --> 00:00:03,000
Overlap

3
00:00:10,000 --> 00:00:11,000
Late
`

func TestLooksLikeSRT(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "single entry", text: "1\n00:00:01,000 --> 00:00:02,000\nHello", want: true},
		{name: "plain text", text: "just text", want: false},
		{name: "header without content", text: "1\n00:00:01,000 --> 00:00:02,000", want: false},
		{name: "three lines without timing", text: "1\nnot a timing\nHello", want: false},
		{name: "multiple entries", text: sampleSRT, want: true},
		{name: "empty", text: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikeSRT(tt.text); got != tt.want {
				t.Errorf("LooksLikeSRT() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseSRT(t *testing.T) {
	entries := ParseSRT(sampleSRT)
	if len(entries) != 3 {
		t.Fatalf("ParseSRT() returned %d entries, want 3", len(entries))
	}

	first := entries[0]
	if first.Index != 1 || first.Start != "00:00:01,000" || first.End != "00:00:02,500" || first.Text != "Hello there" {
		t.Errorf("first entry = %+v", first)
	}
	if first.StartMs() != 1000 || first.EndMs() != 2500 {
		t.Errorf("first entry ms = %d-%d, want 1000-2500", first.StartMs(), first.EndMs())
	}
	if entries[2].StartMs() != 10000 {
		t.Errorf("third entry StartMs() = %d, want 10000", entries[2].StartMs())
	}
}

func TestParseSRT_SkipsBrokenBlocks(t *testing.T) {
	text := "x\n00:00:01,000 --> 00:00:02,000\nbad index\n\n2\n00:00:03,000 --> 00:00:04,000\nGood\n\n3\n00:00:05,000 --> 00:00:06,000"
	entries := ParseSRT(text)
	if len(entries) != 1 || entries[0].Index != 2 {
		t.Errorf("ParseSRT() = %+v, want only entry 2", entries)
	}
}

func TestCheckSRT(t *testing.T) {
	want := []string{
		"Entry 1 overlaps with entry 2",
		"Large gap between entry 2 and 3 (7.0s)",
	}
	if got := CheckSRT(sampleSRT); !reflect.DeepEqual(got, want) {
		t.Errorf("CheckSRT() = %q, want %q", got, want)
	}

	clean := "1\n00:00:01,000 --> 00:00:02,000\nA\n\n2\n00:00:02,000 --> 00:00:03,000\nB"
	if got := CheckSRT(clean); len(got) != 0 {
		t.Errorf("CheckSRT(clean) = %q, want no issues", got)
	}

	if got := CheckSRT("just text"); !reflect.DeepEqual(got, []string{"Not valid SRT format"}) {
		t.Errorf("CheckSRT(plain) = %q", got)
	}
}

func TestApplyTagToEntries(t *testing.T) {
	got := ApplyTagToEntries(sampleSRT, "[Bob]", 0, 1)

	for _, want := range []string{
		"1\n00:00:01,000 --> 00:00:02,500\n[Bob] Hello there",
		"2\n00:00:02,000 --> 00:00:03,000\n[Bob] Overlap",
		"3\n00:00:10,000 --> 00:00:11,000\nLate",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ApplyTagToEntries() missing %q in\n%s", want, got)
		}
	}

	single := ApplyTagToEntries(sampleSRT, "[pause:1s]", 2, -1)
	if !strings.Contains(single, "\n[pause:1s] Late") || strings.Contains(single, "[pause:1s] Hello") {
		t.Errorf("ApplyTagToEntries() single entry =\n%s", single)
	}

	if out := ApplyTagToEntries(sampleSRT, "[x]", 7, 9); out != sampleSRT {
		t.Errorf("ApplyTagToEntries() out of range changed text")
	}
}
