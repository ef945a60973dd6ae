package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theundefined/omnis/config"
	"github.com/theundefined/omnis/fetch"
	"github.com/theundefined/omnis/filter"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	withDetails bool
	filterExpr  string
)

// SetVersion records the build information injected by the linker
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "omnis",
	Short: "A multi-account library loan manager for OMNIS catalogs",
	Long: `omnis aggregates patron accounts across Primo/Alma ("OMNIS") library
catalogs. It logs into every configured account concurrently, lists active
loans grouped by pickup location and sorted by due date, and can enrich
each loan with bibliographic details and cover images.`,
	PersistentPreRunE: initializeApp,
	RunE:              runList,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// An interrupt mid-fetch is a normal way to leave the tool.
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Cancelled by user")
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ~/.config/omnis/config.yaml)")
	rootCmd.Flags().BoolVarP(&withDetails, "details", "D", false, "enrich loans with bibliographic details and covers")
	rootCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "loan filter expression")

	rootCmd.AddCommand(listCmd)
}

// initializeApp initializes the configuration and logger
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	color := cfg.Color && isatty.IsTerminal(os.Stderr.Fd())
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// listCmd is the explicit form of the default action
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Fetch and display loans for all configured accounts",
	Long: `Log into every configured account concurrently, then display a summary
table per account and the combined loans grouped by library location,
sorted by due date.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&withDetails, "details", "D", false, "enrich loans with bibliographic details and covers")
	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "loan filter expression")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if len(cfg.Accounts) == 0 {
		fmt.Println("No accounts configured. Let's add your first account!")
		if err := runAddWizard(); err != nil {
			return err
		}
	}
	if len(cfg.Accounts) == 0 {
		return fmt.Errorf("no accounts configured")
	}

	var loanFilter *filter.Filter
	if filterExpr != "" {
		var err error
		loanFilter, err = filter.Compile(filterExpr)
		if err != nil {
			return err
		}
	}

	fetcher := fetch.NewFetcher(logger, fetch.Options{
		FetchDetails:      withDetails || cfg.Fetch.Details,
		DetailConcurrency: cfg.Fetch.DetailConcurrency,
	})

	logger.Info().Int("accounts", len(cfg.Accounts)).Msg("Fetching library data")
	results := fetcher.FetchAll(ctx, cfg.Accounts)
	if err := ctx.Err(); err != nil {
		return err
	}

	if loanFilter != nil {
		applyFilter(results, loanFilter)
	}

	fetch.RenderSummary(os.Stdout, results)
	fmt.Println()
	fetch.RenderGroups(os.Stdout, fetch.GroupByLocation(results))

	return nil
}

// applyFilter drops loan items that do not match the filter. Evaluation
// errors on a single loan keep that loan visible rather than hiding it.
func applyFilter(results []fetch.AccountResult, loanFilter *filter.Filter) {
	for i := range results {
		if results[i].Failed() {
			continue
		}
		kept := results[i].Items[:0]
		for _, item := range results[i].Items {
			env := filter.Env{
				Title:     item.Loan.Title,
				Author:    item.Loan.Author,
				Status:    item.Loan.Status,
				Library:   item.Loan.LibraryName,
				Location:  item.Loan.LocationName,
				Barcode:   item.Loan.Barcode,
				Owner:     item.Owner,
				DueDate:   item.Loan.DueDate,
				LoanDate:  item.Loan.LoanDate,
				Renewable: item.Loan.Renewable,
			}
			matched, err := loanFilter.Match(env)
			if err != nil {
				logger.Warn().Err(err).Str("title", item.Loan.Title).Msg("Filter evaluation failed")
				matched = true
			}
			if matched {
				kept = append(kept, item)
			}
		}
		results[i].Items = kept
	}
}
