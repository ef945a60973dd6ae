package fetch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/theundefined/omnis/config"
	"github.com/theundefined/omnis/primo"
)

// Options controls the fetch pipeline
type Options struct {
	// FetchDetails enables the per-loan bibliographic detail fan-out
	FetchDetails bool
	// DetailConcurrency bounds the per-account detail fan-out
	DetailConcurrency int
}

// LoanItem pairs a loan with its optional enrichment and the display name
// of the account that holds it
type LoanItem struct {
	Loan   primo.Loan
	Detail *primo.BookDetail
	Owner  string
}

// AccountResult is the terminal outcome of one account's workflow: either
// a summary plus loan items, or the captured failure reason.
type AccountResult struct {
	Account config.AccountConfig
	Summary *primo.UserSummary
	Items   []LoanItem
	Err     error
}

// Failed reports whether the account's workflow ended in failure
func (r AccountResult) Failed() bool {
	return r.Err != nil
}

// Fetcher runs per-account workflows and aggregates their results
type Fetcher struct {
	logger zerolog.Logger
	opts   Options
}

// NewFetcher creates a Fetcher
func NewFetcher(logger zerolog.Logger, opts Options) *Fetcher {
	if opts.DetailConcurrency < 1 {
		opts.DetailConcurrency = 8
	}
	return &Fetcher{logger: logger, opts: opts}
}

// fetchAccount drives one account through login, summary, loans and the
// optional detail fan-out. Any step error ends this account's workflow and
// is captured on the result; the client is closed on every exit path.
func (f *Fetcher) fetchAccount(ctx context.Context, account config.AccountConfig) AccountResult {
	result := AccountResult{Account: account}

	client, err := primo.NewClient(account.BaseURL, f.logger)
	if err != nil {
		result.Err = err
		return result
	}
	defer client.Close()

	if _, err := client.Login(ctx, account.Username, account.Password, account.Institution, account.View); err != nil {
		result.Err = fmt.Errorf("login failed: %w", err)
		return result
	}

	summary, err := client.FetchUserSummary(ctx)
	if err != nil {
		result.Err = fmt.Errorf("failed to fetch account summary: %w", err)
		return result
	}

	loans, err := client.FetchLoans(ctx)
	if err != nil {
		result.Err = fmt.Errorf("failed to fetch loans: %w", err)
		return result
	}

	items := make([]LoanItem, len(loans))
	for i, loan := range loans {
		items[i] = LoanItem{Loan: loan, Owner: summary.DisplayName}
	}

	if f.opts.FetchDetails && len(items) > 0 {
		f.enrichLoans(ctx, client, items)
	}

	result.Summary = summary
	result.Items = items
	return result
}

// enrichLoans fans out one detail fetch per loan. A single loan's failure
// leaves its Detail nil and does not affect siblings.
func (f *Fetcher) enrichLoans(ctx context.Context, client *primo.Client, items []LoanItem) {
	tasks := make([]func(context.Context) (*primo.BookDetail, error), len(items))
	for i, item := range items {
		mmsid := item.Loan.MMSID
		tasks[i] = func(ctx context.Context) (*primo.BookDetail, error) {
			return client.FetchRecordDetail(ctx, mmsid)
		}
	}

	for i, res := range Gather(ctx, f.opts.DetailConcurrency, tasks) {
		if res.Err != nil {
			f.logger.Warn().
				Err(res.Err).
				Str("mmsid", items[i].Loan.MMSID).
				Str("title", items[i].Loan.Title).
				Msg("Failed to fetch record detail")
			continue
		}
		items[i].Detail = res.Value
	}
}
