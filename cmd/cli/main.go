package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	baseURL  string
	timeout  time.Duration
	callerID string
	token    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "loanledger-cli",
		Short: "LoanLedger CLI tool",
		Long:  `A command line interface for interacting with the LoanLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the LoanLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&callerID, "caller", "", "Caller identity sent as X-Caller-Id")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated deployments")

	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(loanCmd())
	rootCmd.AddCommand(eventsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show ledger totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			var stats map[string]any
			if err := apiGet("/api/v1/stats", &stats); err != nil {
				return err
			}
			printJSON(stats)
			return nil
		},
	}
}

func loanCmd() *cobra.Command {
	loanCmd := &cobra.Command{
		Use:   "loan",
		Short: "Loan operations",
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var loan map[string]any
			if err := apiGet("/api/v1/loans/"+args[0], &loan); err != nil {
				return err
			}
			printJSON(loan)
			return nil
		},
	}

	amountsCmd := &cobra.Command{
		Use:   "amounts <id>",
		Short: "Show a loan's due breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			var due struct {
				Principal decimal.Decimal `json:"principal"`
				Interest  decimal.Decimal `json:"interest"`
				Penalty   decimal.Decimal `json:"penalty"`
				Total     decimal.Decimal `json:"total"`
				Remaining decimal.Decimal `json:"remaining"`
			}
			if err := apiGet("/api/v1/loans/"+args[0]+"/amounts", &due); err != nil {
				return err
			}

			fmt.Printf("Principal: %s\n", due.Principal)
			fmt.Printf("Interest:  %s\n", due.Interest)
			fmt.Printf("Penalty:   %s\n", due.Penalty)
			fmt.Printf("Total:     %s\n", due.Total)
			fmt.Printf("Remaining: %s\n", due.Remaining)
			return nil
		},
	}
	amountsCmd.Args = cobra.ExactArgs(1)

	loanCmd.AddCommand(showCmd)
	loanCmd.AddCommand(amountsCmd)
	return loanCmd
}

func eventsCmd() *cobra.Command {
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Event feed operations",
	}

	var after uint64
	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List events after a sequence cursor",
		RunE: func(cmd *cobra.Command, args []string) error {
			var feed map[string]any
			path := fmt.Sprintf("/api/v1/events?after=%d&limit=%d", after, limit)
			if err := apiGet(path, &feed); err != nil {
				return err
			}
			printJSON(feed)
			return nil
		},
	}
	listCmd.Flags().Uint64Var(&after, "after", 0, "Sequence cursor")
	listCmd.Flags().IntVar(&limit, "limit", 100, "Page size")

	var dir string
	var interval time.Duration
	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Tail the event feed into per-type JSON log files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return monitorEvents(cmd, dir, interval)
		},
	}
	monitorCmd.Flags().StringVar(&dir, "dir", "events", "Directory for per-type log files")
	monitorCmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Polling interval")

	eventsCmd.AddCommand(listCmd)
	eventsCmd.AddCommand(monitorCmd)
	return eventsCmd
}

type feedEvent struct {
	ID        string          `json:"id"`
	Seq       uint64          `json:"seq"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// monitorEvents polls the feed and appends each event to a file named
// after its type, one JSON line per event. The sequence cursor makes
// restarts resume where the previous page ended.
func monitorEvents(cmd *cobra.Command, dir string, interval time.Duration) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	var cursor uint64
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fmt.Printf("monitoring %s into %s (interval %s)\n", baseURL, dir, interval)

	for {
		var feed struct {
			Events []feedEvent `json:"events"`
		}
		path := fmt.Sprintf("/api/v1/events?after=%d&limit=100", cursor)
		if err := apiGet(path, &feed); err != nil {
			fmt.Fprintf(os.Stderr, "poll failed: %v\n", err)
		}

		for _, event := range feed.Events {
			if err := appendEvent(dir, event); err != nil {
				return err
			}
			cursor = event.Seq
		}

		select {
		case <-cmd.Context().Done():
			return nil
		case <-ticker.C:
		}
	}
}

func appendEvent(dir string, event feedEvent) error {
	name := strings.ReplaceAll(event.EventType, ".", "_") + ".log"
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	line, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f, "%s\n", line); err != nil {
		return fmt.Errorf("append %s: %w", name, err)
	}
	return nil
}

func apiGet(path string, out any) error {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		return err
	}
	if callerID != "" {
		req.Header.Set("X-Caller-Id", callerID)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.Unmarshal(body, out)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to render: %v\n", err)
		return
	}
	fmt.Println(string(data))
}
