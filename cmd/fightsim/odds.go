package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yourusername/fightsim/internal/odds"
)

func newOddsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "odds QUOTE [QUOTE...]",
		Short: "Convert a group of American odds into fair probabilities",
		Example: `  fightsim odds -- -1200 800
  fightsim odds -- -1200 800 2500`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group := make([]odds.American, 0, len(args))
			for _, arg := range args {
				v, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid odds %q: %w", arg, err)
				}
				group = append(group, odds.American(v))
			}

			implied := make([]float64, len(group))
			for i, quote := range group {
				p, err := odds.ToProbability(quote)
				if err != nil {
					return err
				}
				implied[i] = p
			}
			fair, err := odds.RemoveVig(implied)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "QUOTE\tIMPLIED\tFAIR\tFAIR QUOTE")
			for i, quote := range group {
				fairQuote := "-"
				if q, err := odds.FromProbability(fair[i]); err == nil {
					fairQuote = q.String()
				}
				fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%s\n", quote, implied[i], fair[i], fairQuote)
			}
			fmt.Fprintf(tw, "\noverround\t%.2f%%\n", 100*odds.Overround(implied))
			return tw.Flush()
		},
	}
}
