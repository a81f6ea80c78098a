package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ontograph/ontograph/internal/evgraph"
	"github.com/ontograph/ontograph/internal/validate"
)

var (
	validateCause []string
	validateModel string
)

var validateCmd = &cobra.Command{
	Use:   "validate <base> <type> <value>",
	Short: "Run the validator against a draft without appending it",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		draft := evgraph.Draft{
			Base:  args[0],
			Type:  args[1],
			Value: args[2],
			Model: validateModel,
			Actor: actor,
			Cause: validateCause,
		}
		errs := validate.ValidateEvent(theStore, draft)
		if len(errs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		}
		for _, e := range errs {
			fmt.Fprintln(cmd.OutOrStdout(), e.Error())
		}
		return fmt.Errorf("%d validation error(s)", len(errs))
	},
}

func init() {
	validateCmd.Flags().StringSliceVar(&validateCause, "cause", nil, "causing event id(s)")
	validateCmd.Flags().StringVar(&validateModel, "model", "", "model name this event is written against")
	rootCmd.AddCommand(validateCmd)
}
