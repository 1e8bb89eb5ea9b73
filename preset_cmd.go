package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/ttstag/internal/tags"
)

var (
	presetCopy  bool
	presetApply bool

	presetCmd = &cobra.Command{
		Use:   "preset",
		Short: "Manage saved tags of the session",
		Long: paragraph(fmt.Sprintf("\nPresets store frequently used tags such as %s under a name. They are saved with the session.",
			keyword("[en:Alice|seed:42]"))),
		Example: paragraph("ttstag preset save narrator '[en:Alice|seed:42]'\nttstag preset load narrator --apply"),
	}

	presetSaveCmd = &cobra.Command{
		Use:   "save <name> <tag>",
		Short: "Save a tag under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := strings.TrimSpace(args[1])
			if ok, msg := tags.Validate(tag); !ok {
				return errors.New(msg)
			}
			return withWorkspace(func(w *workspace) error {
				if !w.editor.SavePreset(args[0], tag) {
					return errors.New("preset name cannot be empty")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Saved", keyword(args[0]))
				return nil
			})
		},
	}

	presetLoadCmd = &cobra.Command{
		Use:   "load <name>",
		Short: "Print a preset, copy it or insert it at the cursor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(func(w *workspace) error {
				tag, ok := w.editor.State().Presets.Load(args[0])
				if !ok {
					return fmt.Errorf("no preset named %q", args[0])
				}

				if presetCopy {
					if err := clipboard.WriteAll(tag); err != nil {
						return fmt.Errorf("unable to copy to clipboard: %w", err)
					}
				}
				if presetApply {
					w.editor.ApplyPreset(args[0])
					return printText(cmd, w)
				}
				fmt.Fprintln(cmd.OutOrStdout(), tag)
				return nil
			})
		},
	}

	presetDeleteCmd = &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a preset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(func(w *workspace) error {
				if !w.editor.DeletePreset(args[0]) {
					return fmt.Errorf("no preset named %q", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Deleted", args[0])
				return nil
			})
		},
	}

	presetListCmd = &cobra.Command{
		Use:   "list",
		Short: "List presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWorkspace(func(w *workspace) error {
				out := cmd.OutOrStdout()
				store := w.editor.State().Presets
				if store.Len() == 0 {
					fmt.Fprintln(out, faint("No presets saved."))
					return nil
				}

				width := runewidth.StringWidth("NAME")
				for _, name := range store.Names() {
					width = max(width, runewidth.StringWidth(name))
				}
				tagWidth := w.editor.State().Prefs.SidebarWidth

				for _, p := range store.List() {
					fmt.Fprintf(out, "%s  %s  %s\n",
						keyword(runewidth.FillRight(p.Name, width)),
						store.DisplayName(p.Name, tagWidth),
						faint(humanize.Time(p.CreatedAt())),
					)
				}
				return nil
			})
		},
	}
)

func init() {
	presetLoadCmd.Flags().BoolVarP(&presetCopy, "copy", "c", false, "copy the tag to the clipboard")
	presetLoadCmd.Flags().BoolVarP(&presetApply, "apply", "a", false, "insert the tag at the session cursor")

	presetCmd.AddCommand(presetSaveCmd, presetLoadCmd, presetDeleteCmd, presetListCmd)
}
