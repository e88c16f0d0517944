package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRemindersCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "reminders",
		Short: "Run one reminder scan",
		Long: `Scan the stored subscriptions once and print a reminder for every renewal
inside the reminder window. With redis dedup, reminders issued earlier are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.Dashboard.Scan(cmd.Context())
			w := cmd.OutOrStdout()
			if len(res.Issued) == 0 && len(res.Failed) == 0 {
				fmt.Fprintln(w, "No upcoming renewals")
				return nil
			}

			green := color.New(color.FgGreen)
			for _, r := range res.Issued {
				green.Fprintf(w, "Reminder for %s\n", r.Subscription.Name)
				fmt.Fprintf(w, "  %s\n", r.Message)
			}
			red := color.New(color.FgRed)
			for _, f := range res.Failed {
				red.Fprintf(w, "Could not generate a reminder for %s: %v\n", f.Subscription.Name, f.Err)
			}
			if len(res.Failed) > 0 {
				return fmt.Errorf("%d reminder(s) failed", len(res.Failed))
			}
			return nil
		},
	}
}
