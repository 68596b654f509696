package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashdeck/internal/library"
	"github.com/conorfennell/flashdeck/internal/parser"
)

func newImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file|-]",
		Short: "Replace your lesson text with the contents of a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readLessonText(cmd, args)
			if err != nil {
				return err
			}
			return a.withLibrary(cmd.Context(), func(lib *library.Library) error {
				result, err := lib.CommitUserText(cmd.Context(), raw)
				var parseErrs parser.ParseErrors
				if errors.As(err, &parseErrs) {
					for _, lineErr := range parseErrs {
						fmt.Fprintln(cmd.OutOrStdout(), lineErr)
					}
					return fmt.Errorf("lesson text was not imported: %d invalid line(s)", len(parseErrs))
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d lessons with %d cards.\n", len(result.Lessons), len(result.Cards))
				return nil
			})
		},
	}
}

func readLessonText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read lesson file: %w", err)
	}
	return string(data), nil
}

func newTextCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "text",
		Short: "Print your lesson text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd.Context(), func(lib *library.Library) error {
				text, err := lib.UserText(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
}

func newSectionsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List the sections you can train",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd.Context(), func(lib *library.Library) error {
				for _, s := range lib.Sections() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (%d) [%s]\n", s.Name, s.Count, s.Origin)
				}
				return nil
			})
		},
	}
}
