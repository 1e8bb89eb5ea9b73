package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/ttstag/internal/characters"
	"github.com/dgnsrekt/ttstag/internal/session"
)

var (
	charactersLimit int
	charactersWatch bool

	charactersCmd = &cobra.Command{
		Use:     "characters [query]",
		Aliases: []string{"chars"},
		Short:   "List the available characters",
		Long: paragraph(fmt.Sprintf("\nList the characters found in the voices directory, best matches first when a query is given. Without a voices directory the built-in names are listed. %s keeps listing as voices change.",
			keyword("--watch"))),
		Example: paragraph("ttstag characters\nttstag characters ali --voices ~/voices\nttstag characters --watch"),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) > 0 {
				query = strings.TrimSpace(args[0])
			}
			out := cmd.OutOrStdout()

			provider := characterProvider()
			list := func(names []string) {
				for _, name := range characters.Suggest(query, names, charactersLimit) {
					fmt.Fprintln(out, name)
				}
			}
			list(session.New(provider).AvailableCharacters())

			if !charactersWatch {
				return nil
			}
			dir, ok := provider.(*characters.DirProvider)
			if !ok {
				return errors.New("--watch needs a voices directory")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return dir.Watch(ctx, func(names []string) {
				fmt.Fprintln(out, faint("---"))
				list(names)
			})
		},
	}
)

func init() {
	charactersCmd.Flags().IntVarP(&charactersLimit, "limit", "n", 0, "maximum number of names")
	charactersCmd.Flags().BoolVarP(&charactersWatch, "watch", "w", false, "list again when voices change")
}
