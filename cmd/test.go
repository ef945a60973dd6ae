package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theundefined/omnis/primo"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test login for every configured account",
	Long:  `Attempt a login for each configured account and report the result.`,
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if len(cfg.Accounts) == 0 {
		return fmt.Errorf("no accounts configured; run 'omnis add' first")
	}

	var failures int
	for _, account := range cfg.Accounts {
		fmt.Printf("Testing %s at %s... ", account.Username, account.DisplayName())

		client, err := primo.NewClient(account.BaseURL, logger)
		if err != nil {
			fmt.Printf("✗ %v\n", err)
			failures++
			continue
		}

		_, err = client.Login(ctx, account.Username, account.Password, account.Institution, account.View)
		client.Close()
		switch {
		case err == nil:
			fmt.Println("✓ Login successful")
		case errors.Is(err, primo.ErrInvalidCredentials):
			fmt.Println("✗ Invalid credentials")
			failures++
		default:
			fmt.Printf("✗ %v\n", err)
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d accounts failed", failures, len(cfg.Accounts))
	}
	return nil
}
