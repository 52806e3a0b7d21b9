package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sepagateway/internal/app"
	"sepagateway/internal/mandate"
	"sepagateway/internal/order"
	"sepagateway/internal/payment"
)

type opener func() (*app.App, error)

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "slimpayctl",
		Short:         "Operate the SlimPay direct-debit gateway",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(chargeCmd(open))
	root.AddCommand(mandateCmd(open))
	root.AddCommand(debitCmd(open))
	root.AddCommand(orderCmd(open))
	root.AddCommand(healthCmd(open))
	return root
}

// withApp opens the stores for one command and always closes them.
func withApp(open opener, fn func(a *app.App) error) error {
	a, err := open()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return fn(a)
}

func requireGateway(a *app.App) error {
	if a.GatewayErr != nil {
		return a.GatewayErr
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func chargeCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "charge <order-id> <amount>",
		Short: "Charge a renewal order against its subscription mandate",
		Long: `Runs one scheduled subscription payment. The amount is a decimal
such as 15.00. A zero amount succeeds without contacting SlimPay.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := order.ParseMoney(args[1])
			if err != nil {
				return err
			}
			return withApp(open, func(a *app.App) error {
				if err := requireGateway(a); err != nil {
					return err
				}
				txID, err := a.Payment.ChargeRecurring(cmd.Context(), args[0], amount)
				if err != nil {
					return fmt.Errorf("charge failed: %s (retryable=%t)", payment.Classify(err), payment.Retryable(err))
				}
				return printJSON(cmd.OutOrStdout(), map[string]string{"order_id": args[0], "transaction_id": txID})
			})
		},
	}
}

func mandateCmd(open opener) *cobra.Command {
	var guest bool
	cmd := &cobra.Command{
		Use:   "mandate <customer-id|order-id>",
		Short: "Show the active mandate of a customer, validating it with SlimPay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := mandate.Registered(args[0])
			if guest {
				id = mandate.Guest(args[0])
			}
			return withApp(open, func(a *app.App) error {
				if err := requireGateway(a); err != nil {
					return err
				}
				m, ok, err := a.Payment.ValidateActiveMandate(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("mandate lookup failed: %s", payment.Classify(err))
				}
				out := map[string]any{"subscriber": id.SubscriberReference(), "active": ok}
				if ok {
					out["rum"] = m.Rum
					out["date_created"] = m.DateCreated
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().BoolVar(&guest, "guest", false, "treat the argument as the order id of a guest checkout")
	return cmd
}

func debitCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "debit <direct-debit-id>",
		Short: "Fetch a direct debit from SlimPay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app.App) error {
				if err := requireGateway(a); err != nil {
					return err
				}
				dd, err := a.Payment.GetDirectDebit(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("debit lookup failed: %s", payment.Classify(err))
				}
				return printJSON(cmd.OutOrStdout(), dd)
			})
		},
	}
}

func orderCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Manage shop orders",
	}

	var req order.CreateRequest
	var total, initial string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an order",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.Total, err = order.ParseMoney(total); err != nil {
				return err
			}
			if initial != "" {
				if req.InitialPayment, err = order.ParseMoney(initial); err != nil {
					return err
				}
			}
			return withApp(open, func(a *app.App) error {
				o, err := a.Orders.Create(cmd.Context(), req)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), o)
			})
		},
	}
	create.Flags().StringVar(&req.ID, "id", "", "order id")
	create.Flags().StringVar(&req.CustomerID, "customer", "", "customer id, empty for a guest")
	create.Flags().StringVar(&req.Currency, "currency", "EUR", "currency code")
	create.Flags().StringVar(&total, "total", "0", "order total")
	create.Flags().StringVar(&initial, "initial", "", "initial subscription payment")
	create.Flags().BoolVar(&req.Recurring, "recurring", false, "order starts a subscription")
	create.Flags().StringVar(&req.ParentOrderID, "parent", "", "order that started the subscription")
	create.Flags().StringVar(&req.Billing.FirstName, "first-name", "", "billing first name")
	create.Flags().StringVar(&req.Billing.LastName, "last-name", "", "billing last name")
	create.Flags().StringVar(&req.Billing.Email, "email", "", "billing email")
	_ = create.MarkFlagRequired("id")

	get := &cobra.Command{
		Use:   "get <order-id>",
		Short: "Show an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app.App) error {
				o, err := a.Orders.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), o)
			})
		},
	}

	status := &cobra.Command{
		Use:   "status <order-id>",
		Short: "Show the payment progress recorded in the audit trail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app.App) error {
				v, ok := a.Views.GetPayment(args[0])
				if !ok {
					return fmt.Errorf("no payment activity recorded for order %s", args[0])
				}
				return printJSON(cmd.OutOrStdout(), v)
			})
		},
	}

	cmd.AddCommand(create, get, status)
	return cmd
}

func healthCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Run the dependency checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app.App) error {
				res := a.Health.Check(cmd.Context())
				if err := printJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
				if !res.OK {
					return errors.New("unhealthy")
				}
				return nil
			})
		},
	}
}
