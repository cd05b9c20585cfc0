package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/deckhand/internal/api"
	"github.com/five82/deckhand/internal/app"
)

func newBillingCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Subscription plans, checkout and the billing portal",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "plans",
			Short: "List subscription plans",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
					plans, err := a.Client.Plans(ctx)
					if err != nil {
						return err
					}
					if opts.jsonOutput {
						return printJSON(cmd.OutOrStdout(), plans)
					}
					rows := make([][]string, 0, len(plans))
					for _, p := range plans {
						rows = append(rows, []string{
							p.ID,
							p.DisplayName,
							formatPrice(p.PriceMonthly, p.Currency),
							formatYearly(p),
							strconv.FormatInt(p.TokensPerMonth, 10),
							strconv.Itoa(p.MaxProjects),
							strconv.Itoa(p.MaxAgents),
						})
					}
					return printTable(cmd.OutOrStdout(), []string{"ID", "PLAN", "MONTHLY", "YEARLY", "TOKENS/MO", "PROJECTS", "AGENTS"}, rows)
				})
			},
		},
		newCheckoutCmd(opts),
		newPortalCmd(opts),
	)
	return cmd
}

func newCheckoutCmd(opts *rootOptions) *cobra.Command {
	in := api.CheckoutRequest{BillingInterval: api.IntervalMonthly}
	cmd := &cobra.Command{
		Use:   "checkout <plan-id>",
		Short: "Start a checkout session and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.PlanID = args[0]
			switch in.BillingInterval {
			case api.IntervalMonthly, api.IntervalYearly:
			default:
				return fmt.Errorf("invalid --interval %q (want monthly or yearly)", in.BillingInterval)
			}
			return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
				resp, err := a.Client.CreateCheckout(ctx, in)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.URL)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&in.BillingInterval, "interval", "i", api.IntervalMonthly, "billing interval: monthly or yearly")
	cmd.Flags().StringVar(&in.SuccessURL, "success-url", "", "redirect after a successful checkout")
	cmd.Flags().StringVar(&in.CancelURL, "cancel-url", "", "redirect after a cancelled checkout")
	return cmd
}

func newPortalCmd(opts *rootOptions) *cobra.Command {
	var returnURL string
	cmd := &cobra.Command{
		Use:   "portal",
		Short: "Open a billing portal session and print its URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
				resp, err := a.Client.CreatePortalSession(ctx, returnURL)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.URL)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&returnURL, "return-url", "", "where the portal sends the user back to")
	return cmd
}

func formatPrice(amount float64, currency string) string {
	if amount == 0 {
		return "free"
	}
	return fmt.Sprintf("%.2f %s", amount, strings.ToUpper(currency))
}

func formatYearly(p api.BillingPlan) string {
	if p.PriceYearly == nil {
		return "-"
	}
	return formatPrice(*p.PriceYearly, p.Currency)
}
