package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashdeck/internal/library"
	"github.com/conorfennell/flashdeck/internal/trainer"
)

func newTrainCommand(a *app) *cobra.Command {
	var noColor bool
	trainCmd := &cobra.Command{
		Use:   "train [section...]",
		Short: "Review cards from the given sections, or from all of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd.Context(), func(lib *library.Library) error {
				session, err := lib.StartTraining(cmd.Context(), args...)
				if err != nil {
					return err
				}
				t := trainer.New(cmd.InOrStdin(), cmd.OutOrStdout(), trainer.Options{NoColor: noColor})
				summary, err := t.Run(cmd.Context(), session)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reviewed %d cards.\n", summary.Reviewed)
				return nil
			})
		},
	}
	trainCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	return trainCmd
}
