package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dgnsrekt/ttstag/internal/tags"
)

var (
	extractOutput  string
	highlightColor string
	formatWrite    bool
	srtTag         string
	srtFirst       int
	srtLast        int

	validateCmd = &cobra.Command{
		Use:     "validate [file|-]",
		Short:   "Check the tag syntax of a transcript",
		Long:    paragraph(fmt.Sprintf("\n%s every tag in a transcript and report the first syntax error.", keyword("Validate"))),
		Example: paragraph("ttstag validate script.txt\necho '[Alice|seed] hi' | ttstag validate"),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			if err := tags.ValidateErr(text); err != nil {
				var syntaxErr *tags.SyntaxError
				if errors.As(err, &syntaxErr) {
					return fmt.Errorf("offset %d: %w", syntaxErr.Position, err)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s valid, %d tags\n", okMark, len(tags.Extract(text)))
			return nil
		},
	}

	lintCmd = &cobra.Command{
		Use:   "lint [file|-]",
		Short: "Validate a transcript and range-check its parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			problems := tags.Lint(text)
			for _, p := range problems {
				fmt.Fprintln(cmd.OutOrStdout(), failMark, p)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d problems found", len(problems))
			}

			fmt.Fprintln(cmd.OutOrStdout(), okMark, "no problems")
			return nil
		},
	}

	extractCmd = &cobra.Command{
		Use:   "extract [file|-]",
		Short: "List the tags of a transcript",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return writeTags(cmd.OutOrStdout(), tags.Extract(text), extractOutput)
		},
	}

	inspectCmd = &cobra.Command{
		Use:   "inspect [file|-]",
		Short: "Render a report of the tags in a transcript",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			style := glamour.WithAutoStyle()
			if !isTerminal(w) {
				style = glamour.WithStandardStyle("notty")
			}
			r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(terminalWidth(w, 80)))
			if err != nil {
				return fmt.Errorf("unable to create renderer: %w", err)
			}

			out, err := r.Render(inspectReport(text, cfg.Languages))
			if err != nil {
				return fmt.Errorf("unable to render report: %w", err)
			}
			_, err = io.WriteString(w, out)
			return err
		},
	}

	highlightCmd = &cobra.Command{
		Use:   "highlight [file|-]",
		Short: "Print a transcript with tags and punctuation colored",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setColorProfile(highlightColor); err != nil {
				return err
			}
			text, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), tags.Highlight(text, tags.DefaultHighlightStyles()))
			return err
		},
	}

	formatCmd = &cobra.Command{
		Use:   "format [file|-]",
		Short: "Normalize the spacing around tags",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			formatted := tags.Format(text)
			if formatWrite && len(args) > 0 && args[0] != "-" {
				if formatted == text {
					log.Debug("already formatted", "file", args[0])
					return nil
				}
				return writeOutput(args[0], nil, formatted)
			}
			return writeOutput("", cmd.OutOrStdout(), formatted+"\n")
		},
	}

	processCmd = &cobra.Command{
		Use:   "process [file|-]",
		Short: "Pass a transcript through the session unchanged",
		Long: paragraph(fmt.Sprintf("\nCopy a transcript to stdout unchanged and keep it as the live text of the session, so %s commands can edit it.",
			keyword("session"))),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return withWorkspace(func(w *workspace) error {
				return writeOutput("", cmd.OutOrStdout(), w.editor.Process(text))
			})
		},
	}

	srtCmd = &cobra.Command{
		Use:   "srt [file|-]",
		Short: "Check SubRip subtitles or tag a range of entries",
		Long: paragraph(fmt.Sprintf("\nReport overlapping entries and long gaps in SRT text. With %s, prefix the text of entries %s through %s with a tag and print the result.",
			keyword("--tag"), keyword("--from"), keyword("--to"))),
		Example: paragraph("ttstag srt subs.srt\nttstag srt subs.srt --tag '[Bob]' --from 2 --to 4"),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			if !tags.LooksLikeSRT(text) {
				return errors.New("input is not SRT")
			}

			w := cmd.OutOrStdout()
			if srtTag != "" {
				if ok, msg := tags.Validate(srtTag); !ok {
					return errors.New(msg)
				}
				// Entries are numbered from one on the command line.
				last := srtLast - 1
				if srtLast == 0 {
					last = -1
				}
				return writeOutput("", w, tags.ApplyTagToEntries(text, srtTag, srtFirst-1, last))
			}

			entries := tags.ParseSRT(text)
			issues := tags.CheckSRT(text)
			for _, issue := range issues {
				fmt.Fprintln(w, failMark, issue)
			}
			if len(issues) > 0 {
				return fmt.Errorf("%d issues in %d entries", len(issues), len(entries))
			}
			fmt.Fprintf(w, "%s %d entries\n", okMark, len(entries))
			return nil
		},
	}
)

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "table", "output format: table, json or yaml")
	highlightCmd.Flags().StringVar(&highlightColor, "color", "auto", "color output: auto, always or never")
	formatCmd.Flags().BoolVarP(&formatWrite, "write", "w", false, "write the result back to the file")
	srtCmd.Flags().StringVar(&srtTag, "tag", "", "tag to prefix entries with")
	srtCmd.Flags().IntVar(&srtFirst, "from", 1, "first entry to tag")
	srtCmd.Flags().IntVar(&srtLast, "to", 0, "last entry to tag (default: same as --from)")
}

func writeTags(w io.Writer, found []tags.Tag, format string) error {
	if found == nil {
		found = []tags.Tag{}
	}

	switch format {
	case "", "table":
		writeTagTable(w, found, terminalWidth(w, 100))
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(found)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(found); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q: use table, json or yaml", format)
	}
}

// writeTagTable prints one row per tag, truncating the parameters column to
// fit width.
func writeTagTable(w io.Writer, found []tags.Tag, width int) {
	rows := [][]string{{"POS", "LANG", "CHARACTER", "PARAMETERS"}}
	for _, t := range found {
		rows = append(rows, []string{strconv.Itoa(t.Position), t.Language, t.Character, formatParams(t.Parameters)})
	}

	widths := make([]int, 3)
	for _, row := range rows {
		for i := range widths {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}
	rest := max(10, width-widths[0]-widths[1]-widths[2]-6)

	for _, row := range rows {
		var b strings.Builder
		for i := range widths {
			b.WriteString(runewidth.FillRight(row[i], widths[i]))
			b.WriteString("  ")
		}
		b.WriteString(truncate.StringWithTail(row[3], uint(rest), "…")) //nolint:gosec
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

func formatParams(params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ":" + params[name]
	}
	return strings.Join(parts, " ")
}

// inspectReport builds the markdown rendered by the inspect command.
func inspectReport(text string, languages []string) string {
	found := tags.Extract(text)

	var b strings.Builder
	b.WriteString("# Transcript\n\n")

	chars := map[string]struct{}{}
	for _, t := range found {
		if _, pause := t.PauseDuration(); !pause && t.Character != "" {
			chars[t.Character] = struct{}{}
		}
	}
	fmt.Fprintf(&b, "%d tags, %d characters, %d bytes.\n\n", len(found), len(chars), len(text))

	if ok, msg := tags.Validate(text); ok {
		b.WriteString("Syntax: **valid**\n\n")
	} else {
		fmt.Fprintf(&b, "Syntax: **%s**\n\n", mdEscape(msg))
	}

	if len(found) > 0 {
		b.WriteString("| # | Offset | Language | Character | Parameters |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for i, t := range found {
			lang := t.Language
			if lang != "" && !tags.IsLanguageCode(lang, languages) {
				lang += " (unknown)"
			}
			character := t.Character
			if d, ok := t.PauseDuration(); ok {
				lang, character = "", "pause "+d
			}
			fmt.Fprintf(&b, "| %d | %d | %s | %s | %s |\n", i+1, t.Position,
				mdEscape(lang), mdEscape(character), mdEscape(formatParams(t.Parameters)))
		}
		b.WriteString("\n")
	}

	if problems := tags.Lint(text); len(problems) > 0 {
		b.WriteString("## Problems\n\n")
		for _, p := range problems {
			fmt.Fprintf(&b, "- %s\n", mdEscape(p.Error()))
		}
		b.WriteString("\n")
	}

	if tags.LooksLikeSRT(text) {
		b.WriteString("## Subtitles\n\n")
		fmt.Fprintf(&b, "SRT with %d entries.\n\n", len(tags.ParseSRT(text)))
		for _, issue := range tags.CheckSRT(text) {
			fmt.Fprintf(&b, "- %s\n", mdEscape(issue))
		}
	}

	return b.String()
}

var mdEscaper = strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`)

func mdEscape(s string) string {
	return mdEscaper.Replace(s)
}
