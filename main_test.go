package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/dgnsrekt/ttstag/internal/config"
	"github.com/dgnsrekt/ttstag/internal/history"
	"github.com/dgnsrekt/ttstag/internal/tags"
)

// useTempSessions points the session store at a temporary directory.
func useTempSessions(t *testing.T, name string) {
	t.Helper()

	prevCfg, prevName := cfg, sessionName
	t.Cleanup(func() { cfg, sessionName = prevCfg, prevName })

	cfg = config.DefaultConfig()
	cfg.Session.Dir = t.TempDir()
	cfg.Editor.AutosaveInterval = 0
	sessionName = name
}

func TestWorkspacePersists(t *testing.T) {
	useTempSessions(t, "story")

	err := withWorkspace(func(w *workspace) error {
		w.editor.SetText("hello world")
		w.editor.MoveCursor(6)
		w.editor.Insert("[Alice]", w.editor.Cursor(), false, -1, -1)
		w.editor.SavePreset("hero", "[en:Alice|seed:1]")
		return nil
	})
	if err != nil {
		t.Fatalf("withWorkspace() error = %v", err)
	}

	err = withWorkspace(func(w *workspace) error {
		if w.editor.Text() != "hello [Alice] world" {
			t.Errorf("Text() = %q", w.editor.Text())
		}
		if _, ok := w.editor.State().Presets.Load("hero"); !ok {
			t.Error("preset was not saved")
		}
		if !w.editor.Undo() || w.editor.Text() != "hello world" {
			t.Errorf("Undo() after reopen, text = %q", w.editor.Text())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withWorkspace() error = %v", err)
	}

	store, err := openStore()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close() //nolint:errcheck
	if !store.Contains("story") {
		t.Error("session not listed in store")
	}
}

func TestWorkspaceUsesConfigPrefs(t *testing.T) {
	useTempSessions(t, "fresh")
	cfg.Editor.PauseDuration = "750ms"
	cfg.Editor.FontSize = 20

	err := withWorkspace(func(w *workspace) error {
		prefs := w.editor.State().Prefs
		if prefs.LastPauseDuration != "750ms" || prefs.FontSize != 20 {
			t.Errorf("prefs = %+v", prefs)
		}
		w.editor.InsertPause("")
		if w.editor.Text() != "[pause:750ms] " {
			t.Errorf("Text() = %q", w.editor.Text())
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		in         string
		start, end int
		wantErr    bool
	}{
		{in: "4:9", start: 4, end: 9},
		{in: " 0 : 0 ", start: 0, end: 0},
		{in: "9:4", wantErr: true},
		{in: "-1:4", wantErr: true},
		{in: "4", wantErr: true},
		{in: "a:b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			start, end, err := parseSelection(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSelection(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && (start != tt.start || end != tt.end) {
				t.Errorf("parseSelection(%q) = %d, %d, want %d, %d", tt.in, start, end, tt.start, tt.end)
			}
		})
	}
}

func TestWriteTags(t *testing.T) {
	found := tags.Extract("[en:Alice|seed:42|temperature:0.5] hi [Bob]")

	var buf bytes.Buffer
	if err := writeTags(&buf, found, "json"); err != nil {
		t.Fatal(err)
	}
	var decoded []tags.Tag
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json output does not parse: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Parameters["seed"] != "42" {
		t.Errorf("decoded = %+v", decoded)
	}

	buf.Reset()
	if err := writeTags(&buf, found, "yaml"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "character: Alice") {
		t.Errorf("yaml output = %q", buf.String())
	}

	buf.Reset()
	if err := writeTags(&buf, found, "table"); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("table has %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "seed:42 temperature:0.5") {
		t.Errorf("table row = %q", lines[1])
	}

	if err := writeTags(&buf, found, "xml"); err == nil {
		t.Error("writeTags() accepted an unknown format")
	}
}

func TestWriteTagTableTruncates(t *testing.T) {
	found := tags.Extract("[Alice|seed:1|temperature:0.5|cfg:7|speed:1.2|top_k:40]")

	var buf bytes.Buffer
	writeTagTable(&buf, found, 40)

	row := strings.Split(strings.TrimSpace(buf.String()), "\n")[1]
	if !strings.HasSuffix(row, "…") {
		t.Errorf("row = %q, want truncated parameters", row)
	}
}

func TestInspectReport(t *testing.T) {
	report := inspectReport("[en:Alice|seed:42] hi [xx:Bob] [pause:1s] [Carol|seed:-1]", tags.DefaultLanguages)

	for _, want := range []string{
		"4 tags, 3 characters",
		"Syntax: **valid**",
		"xx (unknown)",
		"pause 1s",
		"## Problems",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}

	report = inspectReport("[Alice|oops]", nil)
	if !strings.Contains(report, "Invalid parameter syntax") {
		t.Errorf("report missing syntax error:\n%s", report)
	}
}

func TestReadInput(t *testing.T) {
	got, err := readInput(nil, strings.NewReader("[Alice] hi"))
	if err != nil || got != "[Alice] hi" {
		t.Errorf("readInput() = %q, %v", got, err)
	}

	got, err = readInput([]string{"-"}, strings.NewReader("piped"))
	if err != nil || got != "piped" {
		t.Errorf("readInput(-) = %q, %v", got, err)
	}

	if _, err := readInput([]string{"/does/not/exist"}, nil); err == nil {
		t.Error("readInput() should fail for a missing file")
	}
}

func TestHistorySummary(t *testing.T) {
	hist := history.New(5)
	if got := historySummary(hist); got != "empty of 5" {
		t.Errorf("historySummary() = %q", got)
	}

	hist.Record("a")
	if got := historySummary(hist); got != "1/1 of 5" {
		t.Errorf("historySummary() = %q", got)
	}

	hist.Record("b")
	hist.Record("c")
	hist.Undo("c")

	tests := []struct {
		name string
		step func()
		want string
	}{
		{name: "middle", step: func() {}, want: "2/3 of 5, undo, redo"},
		{name: "first", step: func() { hist.Undo("b") }, want: "1/3 of 5, redo"},
		{name: "tip", step: func() { hist.Redo("a"); hist.Redo("b") }, want: "3/3 of 5, undo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.step()
			if got := historySummary(hist); got != tt.want {
				t.Errorf("historySummary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	name := filepath.Join(t.TempDir(), "nested", "ttstag.yml")
	if err := writeDefaultConfig(name); err != nil {
		t.Fatalf("writeDefaultConfig() error = %v", err)
	}

	v := viper.New()
	v.SetConfigFile(name)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("default config does not parse: %v", err)
	}
	if got := v.GetStringSlice("languages"); !slices.Equal(got, tags.DefaultLanguages) {
		t.Errorf("languages = %v, want %v", got, tags.DefaultLanguages)
	}
	if got := v.GetInt("session.history_size"); got != 100 {
		t.Errorf("session.history_size = %d, want 100", got)
	}

	// An existing file is kept.
	if err := os.WriteFile(name, []byte("log_level: debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := writeDefaultConfig(name); err != nil {
		t.Fatalf("writeDefaultConfig() on existing file error = %v", err)
	}
	if b, _ := os.ReadFile(name); string(b) != "log_level: debug\n" {
		t.Errorf("existing config overwritten: %q", b)
	}

	if err := writeDefaultConfig(filepath.Join(t.TempDir(), "ttstag.toml")); err == nil {
		t.Error("writeDefaultConfig() accepted a non-YAML name")
	}
}
