package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSummaryCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show monthly and yearly spending",
		Long:  `Aggregate the stored subscriptions and print the totals and per-subscription breakdown.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, _ := cmd.Flags().GetString("currency")

			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.Dashboard.Summary(code)
			if err != nil {
				return err
			}
			v := s.View
			w := cmd.OutOrStdout()
			bold := color.New(color.Bold)

			bold.Fprintf(w, "Spending (%s)\n", v.Currency)
			fmt.Fprintf(w, "  monthly: %s\n", v.Monthly)
			fmt.Fprintf(w, "  yearly:  %s\n", v.Yearly)
			if len(v.Breakdown) == 0 {
				return nil
			}
			fmt.Fprintln(w)
			bold.Fprintln(w, "Breakdown")
			for _, b := range v.Breakdown {
				fmt.Fprintf(w, "  %-16s %s\n", b.DisplayName, b.Formatted)
			}
			return nil
		},
	}
	cmd.Flags().StringP("currency", "c", "", "display currency, defaults to the configured one")
	return cmd
}
