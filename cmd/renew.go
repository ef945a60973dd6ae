package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theundefined/omnis/config"
	"github.com/theundefined/omnis/primo"
)

var renewAccount string

// renewCmd represents the renew command
var renewCmd = &cobra.Command{
	Use:   "renew",
	Short: "Renew loans on one account",
	Long: `Log into a single account, list its active loans and interactively
pick the ones to renew.`,
	RunE: runRenew,
}

func init() {
	rootCmd.AddCommand(renewCmd)

	renewCmd.Flags().StringVarP(&renewAccount, "account", "a", "", "username of the account to renew loans for")
}

func runRenew(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	account, err := selectAccount(renewAccount)
	if err != nil {
		return err
	}

	client, err := primo.NewClient(account.BaseURL, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	fmt.Printf("Logging in as %s (%s)...\n", account.Username, account.DisplayName())
	if _, err := client.Login(ctx, account.Username, account.Password, account.Institution, account.View); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	loans, err := client.FetchLoans(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch loans: %w", err)
	}
	if len(loans) == 0 {
		fmt.Println("No active loans on this account.")
		return nil
	}

	fmt.Println(strings.Repeat("━", 85))
	fmt.Printf("%-4s %-12s %-45s %s\n", "#", "DUE", "TITLE", "RENEWABLE")
	fmt.Println(strings.Repeat("━", 85))
	for i, loan := range loans {
		renewable := "no"
		if loan.Renewable {
			renewable = "yes"
		}
		title := loan.Title
		if len(title) > 43 {
			title = title[:40] + "..."
		}
		fmt.Printf("%-4d %-12s %-45s %s\n", i+1, loan.DueDate, title, renewable)
	}
	fmt.Println(strings.Repeat("━", 85))

	selected, err := promptLoanSelection(bufio.NewReader(os.Stdin), len(loans))
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		fmt.Println("No loans selected for renewal.")
		return nil
	}

	var failures int
	for _, idx := range selected {
		loan := loans[idx]
		fmt.Printf("→ Renewing %s... ", loan.Title)
		if err := client.RenewLoan(ctx, loan.ID); err != nil {
			logger.Error().Err(err).Str("loan_id", loan.ID).Msg("Failed to renew loan")
			fmt.Printf("✗ Failed: %v\n", err)
			failures++
			continue
		}
		fmt.Println("✓ Renewed")
	}

	if failures > 0 {
		return fmt.Errorf("failed to renew %d of %d loans", failures, len(selected))
	}
	return nil
}

// promptLoanSelection reads a comma-separated list of loan numbers, or
// 'all'. An empty line cancels.
func promptLoanSelection(reader *bufio.Reader, count int) ([]int, error) {
	input, err := promptLine(reader, "Enter loan numbers to renew (comma-separated, e.g. 1,3) or 'all' [Enter to cancel]: ")
	if err != nil {
		return nil, err
	}
	if input == "" {
		return nil, nil
	}

	if strings.EqualFold(input, "all") {
		selected := make([]int, count)
		for i := range selected {
			selected[i] = i
		}
		return selected, nil
	}

	var selected []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: must be a positive integer", part)
		}
		if num < 1 || num > count {
			return nil, fmt.Errorf("invalid loan number %d: must be between 1 and %d", num, count)
		}
		idx := num - 1
		if !seen[idx] {
			selected = append(selected, idx)
			seen[idx] = true
		}
	}
	return selected, nil
}

// selectAccount resolves which configured account a single-account command
// operates on
func selectAccount(username string) (*config.AccountConfig, error) {
	if len(cfg.Accounts) == 0 {
		return nil, fmt.Errorf("no accounts configured; run 'omnis add' first")
	}

	if username == "" {
		if len(cfg.Accounts) == 1 {
			return &cfg.Accounts[0], nil
		}
		names := make([]string, len(cfg.Accounts))
		for i, account := range cfg.Accounts {
			names[i] = account.Username
		}
		return nil, fmt.Errorf("multiple accounts configured, pick one with --account (%s)", strings.Join(names, ", "))
	}

	for i, account := range cfg.Accounts {
		if account.Username == username {
			return &cfg.Accounts[i], nil
		}
	}
	return nil, fmt.Errorf("no account with username %q in config", username)
}
