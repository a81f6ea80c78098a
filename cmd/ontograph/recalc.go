package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ontograph/ontograph/internal/recalc"
)

var recalcMaxIter int

var recalcCmd = &cobra.Command{
	Use:   "recalc <individual-base>",
	Short: "Run the recalc engine to fixpoint for one individual",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := recalc.RecalcIndividual(theStore, args[0], actor, recalcMaxIter)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no new events")
			return nil
		}
		for _, ev := range events {
			if err := printEvent(cmd, ev); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	recalcCmd.Flags().IntVar(&recalcMaxIter, "max-iter", 0, "maximum fixpoint iterations (defaults to recalc.DefaultMaxIter)")
	rootCmd.AddCommand(recalcCmd)
}
