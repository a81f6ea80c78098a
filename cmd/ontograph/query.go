package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ontograph/ontograph/internal/expr"
)

var queryCmd = &cobra.Command{
	Use:   "query <query-expr>",
	Short: "Run an accessor-chain query (e.g. $($EQ.$Base(\"Person\")))",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := expr.ParseQuery(args[0])
		if err != nil {
			return err
		}
		values, scalar, err := q.Resolve(theStore)
		if err != nil {
			return err
		}

		if jsonOut {
			enc := json.NewEncoder(cmd.OutOrStdout())
			if scalar {
				var v string
				if len(values) > 0 {
					v = values[0]
				}
				return enc.Encode(v)
			}
			return enc.Encode(values)
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(values, "\n"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
