package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/moyklass/moyklass"
)

var (
	subscriptionList     moyklass.SubscriptionListParams
	groupingList         moyklass.GroupingListParams
	userSubList          moyklass.UserSubscriptionListParams
	userSubUserID        int
	userSubStatuses      []string
	userSubSell          moyklass.UserSubscriptionParams
	userSubSellPrice     float64
	userSubSellBegin     string
	userSubSellEnd       string
	userSubSellVisits    int
	userSubSellMainClass int
	statusName           string
	freezeFrom           string
	freezeTo             string
)

// subscriptionsCmd represents the subscriptions command
var subscriptionsCmd = &cobra.Command{
	Use:     "subscriptions",
	Aliases: []string{"subs"},
	Short:   "Inspect the subscription catalogue and subscriptions sold to users",
}

var subscriptionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogue subscriptions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context) error {
			resp, err := client.Subscriptions.List(ctx, &subscriptionList)
			if err != nil {
				return err
			}
			return printList(ctx, resp, "subscriptions")
		})
	},
}

var subscriptionsGetCmd = &cobra.Command{
	Use:   "get <subscription-id>",
	Short: "Show a catalogue subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "subscription")
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context) error {
			resp, err := client.Subscriptions.Get(ctx, id)
			if err != nil {
				return err
			}
			return printObject(resp)
		})
	},
}

var subscriptionsGroupingsCmd = &cobra.Command{
	Use:   "groupings",
	Short: "List subscription groupings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context) error {
			resp, err := client.Subscriptions.Groupings(ctx, &groupingList)
			if err != nil {
				return err
			}
			return printList(ctx, resp, "")
		})
	},
}

var subscriptionsUserListCmd = &cobra.Command{
	Use:   "user-list",
	Short: "List subscriptions sold to users",
	Args:  cobra.NoArgs,
	RunE:  runUserSubscriptionsList,
}

var subscriptionsUserGetCmd = &cobra.Command{
	Use:   "user-get <user-subscription-id>",
	Short: "Show a subscription sold to a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user subscription")
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context) error {
			resp, err := client.Subscriptions.GetUserSubscription(ctx, id)
			if err != nil {
				return err
			}
			return printObject(resp)
		})
	},
}

var subscriptionsSellCmd = &cobra.Command{
	Use:   "sell",
	Short: "Sell a subscription to a user",
	Args:  cobra.NoArgs,
	RunE:  runSellSubscription,
}

var subscriptionsSetStatusCmd = &cobra.Command{
	Use:   "set-status <user-subscription-id>",
	Short: "Change the status of a subscription sold to a user",
	Long: `Change the status of a subscription sold to a user.

Statuses: inactive (1), active (2), frozen (3), finished (4). Freezing takes
an optional --freeze-from and --freeze-to date.`,
	Args: cobra.ExactArgs(1),
	RunE: runSetSubscriptionStatus,
}

func init() {
	rootCmd.AddCommand(subscriptionsCmd)
	subscriptionsCmd.AddCommand(
		subscriptionsListCmd,
		subscriptionsGetCmd,
		subscriptionsGroupingsCmd,
		subscriptionsUserListCmd,
		subscriptionsUserGetCmd,
		subscriptionsSellCmd,
		subscriptionsSetStatusCmd,
	)

	addPageFlags(subscriptionsListCmd, &subscriptionList.Page)

	subscriptionsGroupingsCmd.Flags().BoolVar(&groupingList.IncludeSubscriptions, "include-subscriptions", false, "include the subscriptions of each grouping")

	f := subscriptionsUserListCmd.Flags()
	f.IntVar(&userSubUserID, "user-id", 0, "user ID")
	f.IntSliceVar(&userSubList.SubscriptionID, "subscription-id", nil, "catalogue subscription IDs")
	f.StringSliceVar(&userSubStatuses, "status", nil, "statuses (inactive, active, frozen, finished)")
	f.IntSliceVar(&userSubList.ClassID, "class-id", nil, "group IDs")
	f.IntSliceVar(&userSubList.FilialID, "filial-id", nil, "branch IDs")
	f.StringSliceVar(&userSubList.SellDate, "sell-date", nil, "sale date or date range")
	f.BoolVar(&userSubList.IncludeRecords, "include-records", false, "include visit records")
	addPageFlags(subscriptionsUserListCmd, &userSubList.Page)

	f = subscriptionsSellCmd.Flags()
	f.IntVar(&userSubSell.UserID, "user-id", 0, "user ID")
	f.IntVar(&userSubSell.SubscriptionID, "subscription-id", 0, "catalogue subscription ID")
	f.StringVar(&userSubSell.SellDate, "sell-date", "", "sale date (YYYY-MM-DD)")
	f.Float64Var(&userSubSellPrice, "price", 0, "price, if different from the catalogue")
	f.StringVar(&userSubSellBegin, "begin-date", "", "first valid day")
	f.StringVar(&userSubSellEnd, "end-date", "", "last valid day")
	f.IntVar(&userSubSellVisits, "visit-count", 0, "number of visits")
	f.IntVar(&userSubSellMainClass, "main-class-id", 0, "main group ID")
	for _, name := range []string{"user-id", "subscription-id", "sell-date"} {
		_ = subscriptionsSellCmd.MarkFlagRequired(name)
	}

	f = subscriptionsSetStatusCmd.Flags()
	f.StringVar(&statusName, "status", "", "new status")
	f.StringVar(&freezeFrom, "freeze-from", "", "freeze start date")
	f.StringVar(&freezeTo, "freeze-to", "", "freeze end date")
	_ = subscriptionsSetStatusCmd.MarkFlagRequired("status")
}

func runUserSubscriptionsList(cmd *cobra.Command, args []string) error {
	params := userSubList
	params.UserID = optInt(cmd, "user-id", userSubUserID)

	for _, s := range userSubStatuses {
		status, err := moyklass.ParseSubscriptionStatus(s)
		if err != nil {
			return err
		}
		params.StatusID = append(params.StatusID, status)
	}

	return withSession(cmd, func(ctx context.Context) error {
		resp, err := client.Subscriptions.ListUserSubscriptions(ctx, &params)
		if err != nil {
			return err
		}
		return printList(ctx, resp, "subscriptions")
	})
}

func runSellSubscription(cmd *cobra.Command, args []string) error {
	params := userSubSell
	params.Price = optFloat(cmd, "price", userSubSellPrice)
	params.BeginDate = optString(cmd, "begin-date", userSubSellBegin)
	params.EndDate = optString(cmd, "end-date", userSubSellEnd)
	params.VisitCount = optInt(cmd, "visit-count", userSubSellVisits)
	params.MainClassID = optInt(cmd, "main-class-id", userSubSellMainClass)

	return withSession(cmd, func(ctx context.Context) error {
		resp, err := client.Subscriptions.CreateUserSubscription(ctx, &params)
		if err != nil {
			return fmt.Errorf("failed to sell subscription: %w", err)
		}
		okLabel.Fprintln(cmd.ErrOrStderr(), "✓ Subscription sold")
		return printObject(resp)
	})
}

func runSetSubscriptionStatus(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "user subscription")
	if err != nil {
		return err
	}
	status, err := moyklass.ParseSubscriptionStatus(statusName)
	if err != nil {
		return err
	}

	params := &moyklass.UserSubscriptionStatusParams{
		StatusID:   status,
		FreezeFrom: optString(cmd, "freeze-from", freezeFrom),
		FreezeTo:   optString(cmd, "freeze-to", freezeTo),
	}
	if status != moyklass.SubscriptionStatusFrozen && (params.FreezeFrom != nil || params.FreezeTo != nil) {
		warnLabel.Fprintln(cmd.ErrOrStderr(), "Freeze dates are only meaningful with --status frozen")
	}

	return withSession(cmd, func(ctx context.Context) error {
		resp, err := client.Subscriptions.SetUserSubscriptionStatus(ctx, id, params)
		if err != nil {
			return fmt.Errorf("failed to change status: %w", err)
		}
		okLabel.Fprintf(cmd.ErrOrStderr(), "✓ Subscription %d is now %s\n", id, status)
		return printObject(resp)
	})
}
