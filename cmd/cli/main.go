package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/propertyops/rentledger/internal/domain"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rentledger-cli",
		Short: "RentLedger CLI tool",
		Long:  `A command line interface for interacting with the RentLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the RentLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Transaction commands
	transactionsCmd := &cobra.Command{
		Use:   "transactions",
		Short: "Transaction operations",
	}

	getCmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Get a transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/transactions/" + args[0])
		},
	}

	overdueCmd := &cobra.Command{
		Use:   "overdue",
		Short: "List overdue transactions",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/transactions?overdue=true")
		},
	}

	var voidReason string
	voidCmd := &cobra.Command{
		Use:   "void [id]",
		Short: "Void a transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if voidReason == "" {
				fmt.Println("a void reason is required (--reason)")
				os.Exit(1)
			}
			postJSON("/api/v1/transactions/"+args[0]+"/void", map[string]any{"reason": voidReason})
		},
	}
	voidCmd.Flags().StringVar(&voidReason, "reason", "", "Reason for voiding the transaction")

	transactionsCmd.AddCommand(getCmd, overdueCmd, voidCmd)
	rootCmd.AddCommand(transactionsCmd)

	// Payment commands
	paymentsCmd := &cobra.Command{
		Use:   "payments",
		Short: "Payment operations",
	}

	var payAmount, payMethod string
	recordCmd := &cobra.Command{
		Use:   "record [transaction-id]",
		Short: "Record a payment against a transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/transactions/"+args[0]+"/payments", map[string]any{
				"amount": payAmount,
				"method": payMethod,
			})
		},
	}
	recordCmd.Flags().StringVar(&payAmount, "amount", "", "Payment amount")
	recordCmd.Flags().StringVar(&payMethod, "method", "", "Payment method")

	reverseCmd := &cobra.Command{
		Use:   "reverse [payment-id]",
		Short: "Reverse a payment",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/payments/"+args[0]+"/reverse", nil)
		},
	}

	paymentsCmd.AddCommand(recordCmd, reverseCmd)
	rootCmd.AddCommand(paymentsCmd)

	// Lease commands
	leasesCmd := &cobra.Command{
		Use:   "leases",
		Short: "Lease operations",
	}

	statementCmd := &cobra.Command{
		Use:   "statement [lease-id]",
		Short: "Show billed/collected/outstanding totals for a lease",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/leases/" + args[0] + "/statement")
		},
	}

	leasesCmd.AddCommand(statementCmd)
	rootCmd.AddCommand(leasesCmd)

	// Billing commands
	billingCmd := &cobra.Command{
		Use:   "billing",
		Short: "Recurring billing operations",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Trigger an immediate billing run",
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/billing/run", nil)
		},
	}

	billingCmd.AddCommand(runCmd)
	rootCmd.AddCommand(billingCmd)

	// Money formatting, entirely local.
	formatCmd := &cobra.Command{
		Use:   "format [amount] [currency]",
		Short: "Render an amount the way the dashboard displays it",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			amount, err := domain.ParseAmount(args[0])
			if err != nil {
				fmt.Printf("Invalid amount: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(domain.FormatAmount(amount, args[1]))
		},
	}
	rootCmd.AddCommand(formatCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func postJSON(path string, payload map[string]any) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Error encoding request: %v\n", err)
			os.Exit(1)
		}
		body = bytes.NewReader(raw)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", body)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}
