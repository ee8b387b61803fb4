package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/moyklass/moyklass"
)

var (
	paymentList          moyklass.PaymentListParams
	paymentOptypes       []string
	paymentInvoiceID     int
	paymentTypeID        int
	paymentUserID        int
	paymentCreate        moyklass.PaymentParams
	paymentCreateOptype  string
	paymentCreateTypeID  int
	paymentCreateSubID   int
	paymentCreateFilial  int
	paymentCreateComment string
)

// paymentsCmd represents the payments command
var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Inspect and record payments",
}

var paymentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List payments",
	Args:  cobra.NoArgs,
	RunE:  runPaymentsList,
}

var paymentsTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List payment types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context) error {
			resp, err := client.Payments.Types(ctx)
			if err != nil {
				return err
			}
			return printList(ctx, resp, "")
		})
	},
}

var paymentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Record a payment",
	Args:  cobra.NoArgs,
	RunE:  runPaymentsCreate,
}

func init() {
	rootCmd.AddCommand(paymentsCmd)
	paymentsCmd.AddCommand(paymentsListCmd, paymentsTypesCmd, paymentsCreateCmd)

	f := paymentsListCmd.Flags()
	f.StringSliceVar(&paymentList.CreatedAt, "created-at", nil, "creation date or date range")
	f.StringSliceVar(&paymentList.Date, "date", nil, "payment date or date range")
	f.IntSliceVar(&paymentList.Summa, "summa", nil, "amount or amount range")
	f.IntVar(&paymentInvoiceID, "invoice-id", 0, "invoice ID")
	f.StringSliceVar(&paymentOptypes, "optype", nil, "operation types (income, debit, refund)")
	f.IntVar(&paymentTypeID, "payment-type-id", 0, "payment type ID")
	f.IntVar(&paymentUserID, "user-id", 0, "user ID")
	f.IntSliceVar(&paymentList.FilialID, "filial-id", nil, "branch IDs")
	f.BoolVar(&paymentList.IncludeUserSubscriptions, "include-user-subscriptions", false, "include the paid subscriptions")
	f.BoolVar(&paymentList.AppendInvoices, "append-invoices", false, "include invoices")
	addPageFlags(paymentsListCmd, &paymentList.Page)

	f = paymentsCreateCmd.Flags()
	f.IntVar(&paymentCreate.UserID, "user-id", 0, "user ID")
	f.StringVar(&paymentCreate.Date, "date", "", "payment date (YYYY-MM-DD)")
	f.Float64Var(&paymentCreate.Summa, "summa", 0, "amount")
	f.StringVar(&paymentCreateOptype, "optype", "income", "operation type (income, debit, refund)")
	f.IntVar(&paymentCreateTypeID, "payment-type-id", 0, "payment type ID")
	f.IntVar(&paymentCreateSubID, "user-subscription-id", 0, "user subscription the payment belongs to")
	f.IntVar(&paymentCreateFilial, "filial-id", 0, "branch ID")
	f.StringVar(&paymentCreateComment, "comment", "", "comment")
	for _, name := range []string{"user-id", "date", "summa"} {
		_ = paymentsCreateCmd.MarkFlagRequired(name)
	}
}

func runPaymentsList(cmd *cobra.Command, args []string) error {
	params := paymentList
	params.InvoiceID = optInt(cmd, "invoice-id", paymentInvoiceID)
	params.PaymentTypeID = optInt(cmd, "payment-type-id", paymentTypeID)
	params.UserID = optInt(cmd, "user-id", paymentUserID)

	for _, s := range paymentOptypes {
		optype, err := moyklass.ParsePaymentOptype(s)
		if err != nil {
			return err
		}
		params.Optype = append(params.Optype, optype)
	}

	return withSession(cmd, func(ctx context.Context) error {
		resp, err := client.Payments.List(ctx, &params)
		if err != nil {
			return err
		}
		return printList(ctx, resp, "payments")
	})
}

func runPaymentsCreate(cmd *cobra.Command, args []string) error {
	optype, err := moyklass.ParsePaymentOptype(paymentCreateOptype)
	if err != nil {
		return err
	}

	params := paymentCreate
	params.Optype = optype
	params.PaymentTypeID = optInt(cmd, "payment-type-id", paymentCreateTypeID)
	params.UserSubscriptionID = optInt(cmd, "user-subscription-id", paymentCreateSubID)
	params.FilialID = optInt(cmd, "filial-id", paymentCreateFilial)
	params.Comment = optString(cmd, "comment", paymentCreateComment)

	return withSession(cmd, func(ctx context.Context) error {
		resp, err := client.Payments.Create(ctx, &params)
		if err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		okLabel.Fprintln(cmd.ErrOrStderr(), "✓ Payment recorded")
		return printObject(resp)
	})
}
