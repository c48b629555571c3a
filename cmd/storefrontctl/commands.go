package main

import (
	"context"
	"fmt"
	"time"

	"storefront-backend/internal/client"
	"storefront-backend/internal/dispatch"
	"storefront-backend/internal/repository"
	"storefront-backend/internal/service"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := client.Migrate(a.db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migration complete")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo catalog, customer and pending orders",
		Long: `Insert the demo catalog, customer and two pending orders whose external references
match the test-mode payment fixtures. Rows that already exist are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := client.Migrate(a.db); err != nil {
				return err
			}
			if err := repository.NewCatalogRepository(a.db).Seed(cmd.Context(), repository.DemoSeed()); err != nil {
				return fmt.Errorf("seed demo data: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Demo data seeded")
			return nil
		},
	}
}

func reconcileCmd() *cobra.Command {
	var notificationID string

	cmd := &cobra.Command{
		Use:   "reconcile [payment-id]",
		Short: "Reconcile one payment with its order",
		Long: `Fetch the payment from the processor and apply it to its order exactly as the
webhook would. Use it to recover orders whose notification was lost or failed.

Examples:
  storefrontctl reconcile 12345678901
  storefrontctl reconcile 12345678901 --notification-id 9001`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			payments, err := client.NewPaymentLookup(a.cfg)
			if err != nil {
				return err
			}
			mailer, err := client.NewMailer(&a.cfg.Email, a.logger)
			if err != nil {
				return err
			}
			dispatcher := dispatch.NewDispatcher(a.cfg.Retry, a.logger)

			svc := service.NewPaymentService(a.db, payments, mailer, dispatcher,
				repository.NewOrderRepository(a.db),
				repository.NewOrderEventRepository(a.db),
				repository.NewStockRepository(a.db),
				a.logger,
			)

			if notificationID == "" {
				notificationID = fmt.Sprintf("manual-%d", time.Now().Unix())
			}
			result, err := svc.Reconcile(cmd.Context(), notificationID, args[0])

			// event and email tasks still run when the command is done
			ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Retry.TaskTimeout*time.Duration(a.cfg.Retry.MaxAttempts))
			defer cancel()
			if cerr := dispatcher.Close(ctx); cerr != nil {
				a.logger.Warn("background tasks did not finish", "error", cerr)
			}

			if err != nil {
				return fmt.Errorf("reconcile payment %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s: %s (%s -> %s)\n",
				result.OrderID, result.Outcome, result.PreviousStatus, result.NewStatus)
			return nil
		},
	}

	cmd.Flags().StringVar(&notificationID, "notification-id", "", "id recorded on the audit event (default manual-<unix time>)")

	return cmd
}

func resendConfirmationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resend-confirmation [order-id]",
		Short: "Send the order confirmation email again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			mailer, err := client.NewMailer(&a.cfg.Email, a.logger)
			if err != nil {
				return err
			}
			svc := service.NewOrderService(
				repository.NewOrderRepository(a.db),
				repository.NewOrderEventRepository(a.db),
				mailer,
				a.logger,
			)

			messageID, err := svc.ResendConfirmation(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("resend confirmation for order %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Confirmation sent (message id %s)\n", messageID)
			return nil
		},
	}
}
