package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	xeditor "github.com/charmbracelet/x/editor"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/ttstag/internal/characters"
	"github.com/dgnsrekt/ttstag/internal/history"
	"github.com/dgnsrekt/ttstag/internal/tags"
)

var (
	insertAt        int
	insertSelection string
	pruneOlderThan  time.Duration
	sessionTagsOut  string

	sessionCmd = &cobra.Command{
		Use:   "session",
		Short: "Edit a stored session",
		Long: paragraph(fmt.Sprintf("\nEdit the text of a named session. Every edit is recorded for %s and %s, and the session is saved between runs. Select the session with %s.",
			keyword("undo"), keyword("redo"), keyword("--session"))),
		Example: paragraph("ttstag session set script.txt\nttstag session insert '[Alice]' --at 0\nttstag session undo"),
	}

	sessionShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the session status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWorkspace(func(w *workspace) error {
				writeStatus(cmd.OutOrStdout(), w)
				return nil
			})
		},
	}

	sessionTextCmd = &cobra.Command{
		Use:   "text",
		Short: "Print the session text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWorkspace(func(w *workspace) error {
				return printText(cmd, w)
			})
		},
	}

	sessionTagsCmd = &cobra.Command{
		Use:   "tags",
		Short: "List the tags in the session text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWorkspace(func(w *workspace) error {
				return writeTags(cmd.OutOrStdout(), w.editor.Tags(), sessionTagsOut)
			})
		},
	}

	sessionSetCmd = &cobra.Command{
		Use:   "set [file|-]",
		Short: "Replace the session text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return withWorkspace(func(w *workspace) error {
				w.editor.SetText(text)
				return nil
			})
		},
	}

	sessionInsertCmd = &cobra.Command{
		Use:   "insert <tag>",
		Short: "Insert a tag at the cursor, an offset or in front of a selection",
		Example: paragraph("ttstag session insert '[Alice]'\nttstag session insert '[de:Bob|seed:3]' --at 120\n" +
			"ttstag session insert '[Carol]' --select 40:72"),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := args[0]
			if ok, msg := tags.Validate(tag); !ok {
				return errors.New(msg)
			}

			start, end := -1, -1
			if insertSelection != "" {
				var err error
				if start, end, err = parseSelection(insertSelection); err != nil {
					return err
				}
			}

			return withWorkspace(func(w *workspace) error {
				pos := w.editor.Cursor()
				if cmd.Flags().Changed("at") {
					pos = insertAt
				}
				w.editor.Insert(tag, pos, start >= 0, start, end)
				return printText(cmd, w)
			})
		},
	}

	sessionCursorCmd = &cobra.Command{
		Use:   "cursor [offset]",
		Short: "Print or move the cursor used by tag edits",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(func(w *workspace) error {
				if len(args) > 0 {
					pos, err := strconv.Atoi(args[0])
					if err != nil {
						return fmt.Errorf("invalid offset %q", args[0])
					}
					w.editor.MoveCursor(pos)
				}
				fmt.Fprintln(cmd.OutOrStdout(), w.editor.Cursor())
				return nil
			})
		},
	}

	sessionCharCmd = &cobra.Command{
		Use:   "char <name>",
		Short: "Set the character of the tag at the cursor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(func(w *workspace) error {
				name := strings.TrimSpace(args[0])
				known := w.editor.State().AvailableCharacters()
				if len(known) > 0 && !slices.Contains(known, name) {
					if s := characters.Suggest(name, known, 1); len(s) > 0 {
						log.Warn("unknown character", "name", name, "suggestion", s[0])
					} else {
						log.Warn("unknown character", "name", name)
					}
				}
				w.editor.SetCharacter(name)
				return printText(cmd, w)
			})
		},
	}

	sessionLangCmd = &cobra.Command{
		Use:   "lang <code>",
		Short: "Set the language of the tag at the cursor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(func(w *workspace) error {
				if err := w.editor.SetLanguage(args[0]); err != nil {
					return err
				}
				return printText(cmd, w)
			})
		},
	}

	sessionParamCmd = &cobra.Command{
		Use:   "param <name> <value>",
		Short: "Set a parameter on the tag at the cursor",
		Long:  paragraph(fmt.Sprintf("\nSet a parameter on the tag at the cursor. Known parameters: %s.", keyword(paramNames()))),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(func(w *workspace) error {
				if err := w.editor.AddParameter(args[0], args[1]); err != nil {
					return err
				}
				return printText(cmd, w)
			})
		},
	}

	sessionPauseCmd = &cobra.Command{
		Use:   "pause [duration]",
		Short: "Insert a pause tag at the cursor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(func(w *workspace) error {
				var d string
				if len(args) > 0 {
					d = args[0]
				}
				w.editor.InsertPause(d)
				return printText(cmd, w)
			})
		},
	}

	sessionFormatCmd = &cobra.Command{
		Use:   "format",
		Short: "Normalize the spacing around tags in the session text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWorkspace(func(w *workspace) error {
				w.editor.Format()
				return printText(cmd, w)
			})
		},
	}

	sessionUndoCmd = &cobra.Command{
		Use:   "undo",
		Short: "Undo the last edit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWorkspace(func(w *workspace) error {
				if !w.editor.Undo() {
					return errors.New("nothing to undo")
				}
				return printText(cmd, w)
			})
		},
	}

	sessionRedoCmd = &cobra.Command{
		Use:   "redo",
		Short: "Redo the last undone edit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWorkspace(func(w *workspace) error {
				if !w.editor.Redo() {
					return errors.New("nothing to redo")
				}
				return printText(cmd, w)
			})
		},
	}

	sessionEditCmd = &cobra.Command{
		Use:   "edit",
		Short: "Edit the session text in EDITOR",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return withWorkspace(func(w *workspace) error {
				text, err := editInEditor(w.editor.Text())
				if err != nil {
					return err
				}
				if text == w.editor.Text() {
					log.Info("no changes", "session", w.name)
					return nil
				}
				w.editor.SetText(text)
				if ok, msg := w.editor.Validate(); !ok {
					log.Warn("saved text has tag errors", "error", msg)
				}
				return nil
			})
		},
	}

	sessionExportCmd = &cobra.Command{
		Use:   "export [file|-]",
		Short: "Write the session as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(func(w *workspace) error {
				data, err := w.editor.State().Serialize()
				if err != nil {
					return err
				}
				var name string
				if len(args) > 0 {
					name = args[0]
				}
				return writeOutput(name, cmd.OutOrStdout(), data+"\n")
			})
		},
	}

	sessionImportCmd = &cobra.Command{
		Use:   "import [file|-]",
		Short: "Restore a session from JSON",
		Long:  paragraph("\nRestore a session from JSON written by export. Keys missing from the input keep their current values."),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return withWorkspace(func(w *workspace) error {
				return w.editor.Import(data)
			})
		},
	}

	sessionResetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Clear the text, history and presets of the session",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return withWorkspace(func(w *workspace) error {
				w.editor.Reset(defaultPrefs())
				return nil
			})
		},
	}

	sessionListCmd = &cobra.Command{
		Use:   "list",
		Short: "List stored sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			out := cmd.OutOrStdout()
			entries := store.List()
			if len(entries) == 0 {
				fmt.Fprintln(out, faint("No sessions in "+store.Path()))
				return nil
			}

			width := runewidth.StringWidth("NAME")
			for _, e := range entries {
				width = max(width, runewidth.StringWidth(e.Name))
			}
			fmt.Fprintf(out, "  %s  %-9s  %s\n", runewidth.FillRight("NAME", width), "SIZE", "UPDATED")
			for _, e := range entries {
				mark := " "
				if e.Name == sessionName {
					mark = keyword("*")
				}
				size := humanize.Bytes(uint64(e.Size)) //nolint:gosec
				if e.Compressed {
					size += "z"
				}
				fmt.Fprintf(out, "%s %s  %-9s  %s\n", mark, runewidth.FillRight(e.Name, width), size, humanize.Time(e.Updated))
			}
			return nil
		},
	}

	sessionRmCmd = &cobra.Command{
		Use:     "rm <name>...",
		Aliases: []string{"delete"},
		Short:   "Delete stored sessions",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			for _, name := range args {
				ok, err := store.Delete(name)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no session named %q", name)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Deleted", name)
			}
			return nil
		},
	}

	sessionPruneCmd = &cobra.Command{
		Use:   "prune",
		Short: "Delete sessions not updated recently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			removed, err := store.Prune(time.Now().Add(-pruneOlderThan))
			if err != nil {
				return err
			}
			for _, name := range removed {
				fmt.Fprintln(cmd.OutOrStdout(), "Deleted", name)
			}
			log.Info("pruned sessions", "count", len(removed), "older_than", pruneOlderThan)
			return nil
		},
	}
)

func init() {
	sessionInsertCmd.Flags().IntVar(&insertAt, "at", 0, "byte offset to insert at (default: the cursor)")
	sessionInsertCmd.Flags().StringVar(&insertSelection, "select", "", "selection start:end to tag")
	sessionTagsCmd.Flags().StringVarP(&sessionTagsOut, "output", "o", "table", "output format: table, json or yaml")
	sessionPruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 30*24*time.Hour, "age of sessions to delete")

	sessionCmd.AddCommand(
		sessionShowCmd, sessionTextCmd, sessionTagsCmd, sessionSetCmd, sessionInsertCmd, sessionCursorCmd,
		sessionCharCmd, sessionLangCmd, sessionParamCmd, sessionPauseCmd, sessionFormatCmd,
		sessionUndoCmd, sessionRedoCmd, sessionEditCmd, sessionExportCmd, sessionImportCmd,
		sessionResetCmd, sessionListCmd, sessionRmCmd, sessionPruneCmd,
	)
}

func printText(cmd *cobra.Command, w *workspace) error {
	text := w.editor.Text()
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(cmd.OutOrStdout(), text)
	return err
}

func writeStatus(out io.Writer, w *workspace) {
	e := w.editor
	prefs := e.State().Prefs
	hist := e.State().History

	row := func(label, value string) {
		fmt.Fprintf(out, "%s %s\n", faint(runewidth.FillRight(label, 10)), value)
	}

	row("Session", keyword(w.name))
	validity := okMark + " valid"
	if ok, msg := e.Validate(); !ok {
		validity = failMark + " " + msg
	}
	row("Text", fmt.Sprintf("%s, %d tags, %s", humanize.Bytes(uint64(len(e.Text()))), len(e.Tags()), validity))
	row("Cursor", strconv.Itoa(e.Cursor()))

	row("History", historySummary(hist))
	row("Presets", strconv.Itoa(e.State().Presets.Len()))

	last := []string{}
	if prefs.LastCharacter != "" {
		last = append(last, "character "+prefs.LastCharacter)
	}
	if prefs.LastLanguage != "" {
		last = append(last, "language "+prefs.LastLanguage)
	}
	last = append(last,
		"seed "+strconv.Itoa(prefs.LastSeed),
		"temperature "+strconv.FormatFloat(prefs.LastTemperature, 'g', -1, 64),
		"pause "+prefs.LastPauseDuration,
	)
	row("Last", strings.Join(last, ", "))
}

// historySummary describes the undo position and which directions are
// available, e.g. "2/3 of 100, undo, redo".
func historySummary(hist *history.Stack) string {
	if hist.Len() == 0 {
		return fmt.Sprintf("empty of %d", hist.Capacity())
	}

	parts := []string{fmt.Sprintf("%s of %d", hist.Status(), hist.Capacity())}
	if hist.CanUndo() {
		parts = append(parts, "undo")
	}
	if hist.CanRedo() {
		parts = append(parts, "redo")
	}
	return strings.Join(parts, ", ")
}

// parseSelection parses a "start:end" byte range.
func parseSelection(s string) (int, int, error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid selection %q: use start:end", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid selection start %q", a)
	}
	end, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid selection end %q", b)
	}
	if start < 0 || end < start {
		return 0, 0, fmt.Errorf("invalid selection %d:%d", start, end)
	}
	return start, end, nil
}

func paramNames() string {
	var names []string
	for _, p := range tags.Params() {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

// editInEditor opens text in EDITOR through a temporary file and returns
// the edited text.
func editInEditor(text string) (string, error) {
	f, err := os.CreateTemp("", "ttstag-*.txt")
	if err != nil {
		return "", fmt.Errorf("unable to create temporary file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path) //nolint:errcheck

	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("unable to write temporary file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	c, err := xeditor.Cmd("ttstag", path)
	if err != nil {
		return "", fmt.Errorf("unable to set editor: %w", err)
	}
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return "", fmt.Errorf("unable to run command: %w", err)
	}

	b, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return "", fmt.Errorf("unable to read edited text: %w", err)
	}
	return string(b), nil
}
