package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/restoledger/internal/infrastructure/auth"
	"github.com/iho/restoledger/internal/usecase"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "restoledger-cli",
		Short:         "Restoledger CLI tool",
		Long:          `A command line interface for the restoledger admin API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&baseURL, "url", envOr("RESTOLEDGER_URL", "http://localhost:8080"), "Base URL of the restoledger API")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("RESTOLEDGER_TOKEN"), "Session token")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}
	ledgerCmd.AddCommand(ledgerExportCmd(), ledgerMonthlyCmd())

	analyticsCmd := &cobra.Command{
		Use:   "analytics",
		Short: "Sales analytics",
	}
	analyticsCmd.AddCommand(analyticsSalesCmd())

	root.AddCommand(ledgerCmd, analyticsCmd, hashPasswordCmd())
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newClient() *resty.Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	if token != "" {
		c.SetAuthToken(token)
	}
	return c
}

// get fetches path and fails on any non-2xx status.
func get(path string, query map[string]string) (*resty.Response, error) {
	params := make(map[string]string, len(query))
	for k, v := range query {
		if v != "" {
			params[k] = v
		}
	}

	resp, err := newClient().R().SetQueryParams(params).Get(path)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%s returned %d: %s", path, resp.StatusCode(), truncate(resp.String(), 200))
	}
	return resp, nil
}

type rangeFlags struct {
	from string
	to   string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "First day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "Last day, YYYY-MM-DD")
}

func ledgerExportCmd() *cobra.Command {
	var (
		rng      rangeFlags
		category string
		search   string
		format   string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the ledger as CSV or XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := get("/api/v1/ledger/export", map[string]string{
				"from":     rng.from,
				"to":       rng.to,
				"category": category,
				"q":        search,
				"format":   format,
			})
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(resp.Body())
				return err
			}
			if err := os.WriteFile(out, resp.Body(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d bytes to %s\n", len(resp.Body()), out)
			return nil
		},
	}

	rng.register(cmd)
	cmd.Flags().StringVar(&category, "category", "", "Category substring")
	cmd.Flags().StringVar(&search, "q", "", "Free-text search")
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func ledgerMonthlyCmd() *cobra.Command {
	var (
		rng     rangeFlags
		asJSON  bool
		entries []usecase.MonthlyBalance
	)

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Show income, expenses and balance per month",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := get("/api/v1/ledger/monthly", map[string]string{"from": rng.from, "to": rng.to})
			if err != nil {
				return err
			}
			if err := json.Unmarshal(resp.Body(), &entries); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if asJSON {
				printJSON(entries)
				return nil
			}
			writeMonthly(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	rng.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")
	return cmd
}

func writeMonthly(w io.Writer, rows []usecase.MonthlyBalance) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MONTH\tINCOME\tEXPENSES\tBALANCE\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", r.Month, r.Income.StringFixed(2), r.Expenses.StringFixed(2), r.Balance.StringFixed(2))
	}
	tw.Flush()
}

func analyticsSalesCmd() *cobra.Command {
	var (
		rng         rangeFlags
		granularity string
		dishID      string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Show bucketed sales and the change against the previous period",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := get("/api/v1/analytics/sales", map[string]string{
				"from":        rng.from,
				"to":          rng.to,
				"granularity": granularity,
				"dish_id":     dishID,
			})
			if err != nil {
				return err
			}

			var series usecase.SalesSeries
			if err := json.Unmarshal(resp.Body(), &series); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			if asJSON {
				printJSON(series)
				return nil
			}

			w := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "PERIOD\tORDERS\tITEMS\tAMOUNT\t")
			for _, b := range series.Buckets {
				fmt.Fprintf(tw, "%s\t%d\t%.0f\t%.2f\t\n", truncate(b.Label, 12), b.RecordCount, b.SumQuantity, b.SumAmount)
			}
			tw.Flush()
			fmt.Fprintf(w, "vs previous period: amount %+.1f%%, orders %+.1f%%, ticket %+.1f%%\n",
				series.Delta.DeltaPct, series.Delta.DeltaCountPct, series.Delta.DeltaTicketPct)
			return nil
		},
	}

	rng.register(cmd)
	cmd.Flags().StringVarP(&granularity, "granularity", "g", "daily", "daily, weekly, monthly or yearly")
	cmd.Flags().StringVar(&dishID, "dish", "", "Only count this dish ID")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0], cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
