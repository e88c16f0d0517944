package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"subs_dashboard/internal/entity"
	"subs_dashboard/internal/reminder"
	"subs_dashboard/internal/usecase"
)

func newListCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List subscriptions",
		Long:  `Print every stored subscription. Renewals inside the reminder window are highlighted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			subs := a.Dashboard.List()
			w := cmd.OutOrStdout()
			if len(subs) == 0 {
				fmt.Fprintln(w, "No subscriptions")
				return nil
			}

			window := a.Engine.Window()
			now := time.Now()
			base := a.Converter.Base()
			due := color.New(color.FgYellow)
			for _, s := range subs {
				line := fmt.Sprintf("%-36s  %-24s  %12s  %s  %s\n",
					s.ID,
					s.Name,
					a.Converter.Format(s.Cost, base),
					s.RenewalDate.In(a.Location).Format(time.DateOnly),
					s.DeliveryMethod,
				)
				if window.Contains(reminder.DaysUntil(s.RenewalDate, now, a.Location)) {
					due.Fprint(w, line)
					continue
				}
				fmt.Fprint(w, line)
			}
			return nil
		},
	}
}

func newAddCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a subscription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			rawCost, _ := cmd.Flags().GetString("cost")
			rawDate, _ := cmd.Flags().GetString("renews")
			via, _ := cmd.Flags().GetString("via")

			cost, err := decimal.NewFromString(rawCost)
			if err != nil {
				return fmt.Errorf("invalid --cost %q", rawCost)
			}

			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			renews, err := time.ParseInLocation(time.DateOnly, rawDate, a.Location)
			if err != nil {
				return fmt.Errorf("invalid --renews %q, want YYYY-MM-DD", rawDate)
			}

			s, err := a.Dashboard.Add(cmd.Context(), usecase.SubscriptionInput{
				Name:           name,
				Cost:           cost,
				RenewalDate:    renews,
				DeliveryMethod: entity.DeliveryMethod(strings.ToLower(via)),
			})
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", s.Name, s.ID)
			return nil
		},
	}
	cmd.Flags().String("name", "", "subscription name")
	cmd.Flags().String("cost", "", "monthly cost in the base currency")
	cmd.Flags().String("renews", "", "next renewal date, YYYY-MM-DD")
	cmd.Flags().String("via", string(entity.DeliveryEmail), "reminder channel: email or sms")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("cost")
	_ = cmd.MarkFlagRequired("renews")
	return cmd
}

func newDeleteCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.Dashboard.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "deleted %s (%s)\n", s.Name, s.ID)
			return nil
		},
	}
}
