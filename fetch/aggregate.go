package fetch

import (
	"context"
	"maps"
	"slices"
	"sort"

	"github.com/theundefined/omnis/config"
)

// FetchAll runs one workflow per account concurrently and waits for all of
// them to finish. Each account's failure is isolated to its own result;
// results come back in account order.
func (f *Fetcher) FetchAll(ctx context.Context, accounts []config.AccountConfig) []AccountResult {
	tasks := make([]func(context.Context) (AccountResult, error), len(accounts))
	for i, account := range accounts {
		tasks[i] = func(ctx context.Context) (AccountResult, error) {
			return f.fetchAccount(ctx, account), nil
		}
	}

	gathered := Gather(ctx, 0, tasks)

	results := make([]AccountResult, len(gathered))
	for i, res := range gathered {
		results[i] = res.Value
		if results[i].Failed() {
			f.logger.Warn().
				Err(results[i].Err).
				Str("account", accounts[i].Username).
				Str("tenant", accounts[i].DisplayName()).
				Msg("Account fetch failed")
		}
	}
	return results
}

// LocationGroup holds the loans shelved under one composite location key,
// ordered ascending by due date.
type LocationGroup struct {
	Key   string
	Items []LoanItem
}

// GroupByLocation merges the loans of all successful accounts into groups
// keyed by library + location (+ sub-location). Failed accounts contribute
// nothing. Groups come back in ascending key order; within a group the
// sort by due date is stable, so equal-date items keep their original
// relative order.
func GroupByLocation(results []AccountResult) []LocationGroup {
	byKey := make(map[string][]LoanItem)
	for _, result := range results {
		if result.Failed() {
			continue
		}
		for _, item := range result.Items {
			key := item.Loan.LocationKey()
			byKey[key] = append(byKey[key], item)
		}
	}

	groups := make([]LocationGroup, 0, len(byKey))
	for _, key := range slices.Sorted(maps.Keys(byKey)) {
		items := byKey[key]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Loan.DueDate < items[j].Loan.DueDate
		})
		groups = append(groups, LocationGroup{Key: key, Items: items})
	}
	return groups
}
