package tags

import (
	"strings"
	"testing"
)

func TestModifyTagContent(t *testing.T) {
	upper := func(content string) string { return strings.ToUpper(content) }

	tests := []struct {
		name      string
		text      string
		caret     int
		wantText  string
		wantCaret int
		wantOK    bool
	}{
		{name: "right after tag", text: "[Alice] hi", caret: 7, wantText: "[ALICE] hi", wantCaret: 7, wantOK: true},
		{name: "after tag and space", text: "[Alice] hi", caret: 8, wantText: "[ALICE] hi", wantCaret: 7, wantOK: true},
		{name: "inside tag", text: "x [Alice|seed:1] y", caret: 5, wantText: "x [ALICE|SEED:1] y", wantCaret: 16, wantOK: true},
		{name: "just after opening bracket", text: "[bob]", caret: 1, wantText: "[BOB]", wantCaret: 5, wantOK: true},
		{name: "no tag", text: "hello", caret: 2, wantText: "hello", wantCaret: 2, wantOK: false},
		{name: "tag further back", text: "[a] hello", caret: 6, wantText: "[a] hello", wantCaret: 6, wantOK: false},
		{name: "unclosed tag", text: "[abc", caret: 2, wantText: "[abc", wantCaret: 2, wantOK: false},
		{name: "caret clamped", text: "[a]", caret: 99, wantText: "[A]", wantCaret: 3, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotText, gotCaret, ok := ModifyTagContent(tt.text, tt.caret, upper)
			if ok != tt.wantOK {
				t.Fatalf("ModifyTagContent() ok = %v, want %v", ok, tt.wantOK)
			}
			if gotText != tt.wantText {
				t.Errorf("ModifyTagContent() text = %q, want %q", gotText, tt.wantText)
			}
			if gotCaret != tt.wantCaret {
				t.Errorf("ModifyTagContent() caret = %d, want %d", gotCaret, tt.wantCaret)
			}
		})
	}
}

func TestSetCharacter(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		caret     int
		wantText  string
		wantCaret int
	}{
		{name: "replace plain character", text: "[Alice] hi", caret: 7, wantText: "[Bob] hi", wantCaret: 5},
		{name: "keep language", text: "[en:Alice|seed:2] hi", caret: 17, wantText: "[en:Bob|seed:2] hi", wantCaret: 15},
		{name: "prepend to parameter tag", text: "[seed:5] hi", caret: 8, wantText: "[Bob|seed:5] hi", wantCaret: 12},
		{name: "insert new tag", text: "hello", caret: 0, wantText: "[Bob] hello", wantCaret: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotText, gotCaret := SetCharacter(tt.text, tt.caret, "Bob", nil)
			if gotText != tt.wantText || gotCaret != tt.wantCaret {
				t.Errorf("SetCharacter() = %q, %d, want %q, %d", gotText, gotCaret, tt.wantText, tt.wantCaret)
			}
		})
	}
}

func TestSetLanguage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		caret    int
		lang     string
		wantText string
	}{
		{name: "prefix plain character", text: "[Alice] hi", caret: 7, lang: "de", wantText: "[de:Alice] hi"},
		{name: "prefix character with params", text: "[Alice|seed:1]", caret: 14, lang: "de", wantText: "[de:Alice|seed:1]"},
		{name: "swap language", text: "[en:Alice|seed:2]", caret: 17, lang: "fr", wantText: "[fr:Alice|seed:2]"},
		{name: "same language", text: "[en:Alice]", caret: 10, lang: "en", wantText: "[en:Alice]"},
		{name: "parameter tag", text: "[seed:5]", caret: 8, lang: "ja", wantText: "[ja:|seed:5]"},
		{name: "insert new tag", text: "hi", caret: 2, lang: "de", wantText: "hi[de:] "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := SetLanguage(tt.text, tt.caret, tt.lang, nil)
			if got != tt.wantText {
				t.Errorf("SetLanguage() = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestSetLanguage_CustomLanguages(t *testing.T) {
	got, _ := SetLanguage("[pl:Ala]", 8, "de", []string{"de", "pl"})
	if got != "[de:Ala]" {
		t.Errorf("SetLanguage() = %q, want %q", got, "[de:Ala]")
	}

	// Without pl in the list the head reads as a parameter.
	got, _ = SetLanguage("[pl:Ala]", 8, "de", nil)
	if got != "[de:|pl:Ala]" {
		t.Errorf("SetLanguage() = %q, want %q", got, "[de:|pl:Ala]")
	}
}

func TestAddParameter(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		caret     int
		wantText  string
		wantCaret int
	}{
		{name: "append", text: "[Alice] x", caret: 7, wantText: "[Alice|seed:42] x", wantCaret: 15},
		{name: "replace existing", text: "[Alice|Seed:1|speed:1.2] x", caret: 24, wantText: "[Alice|seed:42|speed:1.2] x", wantCaret: 25},
		{name: "replace parameter head", text: "[seed:1]", caret: 8, wantText: "[seed:42]", wantCaret: 9},
		{name: "insert new tag", text: "x", caret: 0, wantText: "[seed:42] x", wantCaret: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotText, gotCaret := AddParameter(tt.text, tt.caret, "seed", "42")
			if gotText != tt.wantText || gotCaret != tt.wantCaret {
				t.Errorf("AddParameter() = %q, %d, want %q, %d", gotText, gotCaret, tt.wantText, tt.wantCaret)
			}
		})
	}
}

func TestPauseTag(t *testing.T) {
	if got := PauseTag("1s"); got != "[pause:1s]" {
		t.Errorf("PauseTag() = %q", got)
	}
}

func TestIsLanguageCode(t *testing.T) {
	if !IsLanguageCode("EN", nil) {
		t.Error("EN should be a default language")
	}
	if IsLanguageCode("seed", nil) {
		t.Error("seed is not a language")
	}
	if IsLanguageCode("en", []string{"de"}) {
		t.Error("custom list should replace defaults")
	}
}
