package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ontograph/ontograph/internal/evgraph"
	"github.com/ontograph/ontograph/internal/validate"
)

var (
	appendCause []string
	appendModel string
)

var appendCmd = &cobra.Command{
	Use:   "append <base> <type> <value>",
	Short: "Validate and append a single event",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		draft := evgraph.Draft{
			Base:    args[0],
			Type:    args[1],
			Value:   args[2],
			Model:   appendModel,
			Actor:   actor,
			Session: session,
			Cause:   appendCause,
		}

		if errs := validate.ValidateEvent(theStore, draft); len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintln(cmd.ErrOrStderr(), e.Error())
			}
			return fmt.Errorf("validation failed with %d error(s)", len(errs))
		}

		ev, err := theStore.Append(draft)
		if err != nil {
			return err
		}
		return printEvent(cmd, ev)
	},
}

func printEvent(cmd *cobra.Command, ev evgraph.Event) error {
	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ev)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\tcause=%s\n", ev.ID, ev.Base, ev.Type, ev.Value, strings.Join(ev.Cause, ","))
	return nil
}

func init() {
	appendCmd.Flags().StringSliceVar(&appendCause, "cause", nil, "causing event id(s)")
	appendCmd.Flags().StringVar(&appendModel, "model", "", "model name this event is written against")
	rootCmd.AddCommand(appendCmd)
}
