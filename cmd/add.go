package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theundefined/omnis/config"
	"github.com/theundefined/omnis/tenants"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new library account to the configuration",
	Long: `Interactively add one or more library accounts. Pick a known OMNIS
institution or enter custom catalog coordinates, then provide the card
number and password.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAddWizard()
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}

// runAddWizard prompts for accounts until the user declines to add more,
// saving the configuration after each one.
func runAddWizard() error {
	reader := bufio.NewReader(os.Stdin)

	for {
		account, err := promptAccount(reader)
		if err != nil {
			return err
		}
		cfg.Accounts = append(cfg.Accounts, *account)

		path, err := configSavePath()
		if err != nil {
			return err
		}
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Printf("Configuration saved to %s\n", path)

		more, err := promptLine(reader, "Add another account? [y/N]: ")
		if err != nil {
			return err
		}
		if !strings.EqualFold(strings.TrimSpace(more), "y") {
			return nil
		}
	}
}

// promptAccount walks through one account's setup
func promptAccount(reader *bufio.Reader) (*config.AccountConfig, error) {
	fmt.Println("\nSelect library:")
	for i, tenant := range tenants.Known {
		fmt.Printf("%2d. %s\n", i+1, tenant.Name)
	}
	fmt.Printf("%2d. Custom...\n", len(tenants.Known)+1)

	choice, err := promptLine(reader, "Choose option: ")
	if err != nil {
		return nil, err
	}
	index, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || index < 1 || index > len(tenants.Known)+1 {
		return nil, fmt.Errorf("invalid choice %q: must be between 1 and %d", strings.TrimSpace(choice), len(tenants.Known)+1)
	}

	account := &config.AccountConfig{}
	if index <= len(tenants.Known) {
		tenant := tenants.Known[index-1]
		account.BaseURL = tenant.BaseURL
		account.Institution = tenant.Institution
		account.View = tenant.View
		account.TenantName = tenant.Name
		fmt.Printf("Selected: %s\n", tenant.Name)
	} else {
		if account.BaseURL, err = promptRequired(reader, "Base URL (e.g. https://omnis-br.primo.exlibrisgroup.com): "); err != nil {
			return nil, err
		}
		account.BaseURL = strings.TrimRight(account.BaseURL, "/")
		if account.Institution, err = promptRequired(reader, "Institution code (e.g. 48OMNIS_BRP): "); err != nil {
			return nil, err
		}
		if account.View, err = promptRequired(reader, "View ID (e.g. 48OMNIS_BRP:BRACZ): "); err != nil {
			return nil, err
		}
		if account.TenantName, err = promptRequired(reader, "Friendly name for this library: "); err != nil {
			return nil, err
		}
	}

	if account.Username, err = promptRequired(reader, "Username (card number): "); err != nil {
		return nil, err
	}
	if account.Password, err = promptRequired(reader, "Password: "); err != nil {
		return nil, err
	}

	return account, nil
}

func promptLine(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptRequired(reader *bufio.Reader, label string) (string, error) {
	for {
		value, err := promptLine(reader, label)
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
		fmt.Println("A value is required.")
	}
}

// configSavePath resolves where the configuration should be written
func configSavePath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	// Prefer a config in the working directory when one already exists.
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml", nil
	}
	return config.DefaultPath()
}
