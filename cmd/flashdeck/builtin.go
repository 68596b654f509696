package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashdeck/internal/library"
)

func newBuiltinCommand(a *app) *cobra.Command {
	builtinCmd := &cobra.Command{
		Use:   "builtin",
		Short: "Manage built-in lessons",
	}
	builtinCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the built-in lessons",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withLibrary(cmd.Context(), func(lib *library.Library) error {
					lessons, err := lib.AvailableBuiltIns(cmd.Context())
					if err != nil {
						return err
					}
					for _, lesson := range lessons {
						mark := " "
						if lesson.Included {
							mark = "x"
						}
						line := fmt.Sprintf("[%s] %s (%d)", mark, lesson.Name, lesson.Count)
						if lesson.Note != "" {
							line += " - " + lesson.Note
						}
						fmt.Fprintln(cmd.OutOrStdout(), line)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "use [section...]",
			Short: "Train exactly these built-in lessons; none removes them all",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withLibrary(cmd.Context(), func(lib *library.Library) error {
					if err := lib.IncludeBuiltIns(cmd.Context(), args); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Using %d built-in lessons.\n", len(args))
					return nil
				})
			},
		},
	)
	return builtinCmd
}
