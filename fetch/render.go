package fetch

import (
	"fmt"
	"io"
	"strings"
)

// RenderSummary writes the per-account summary table: one row per account,
// with an explicit error marker for failed accounts.
func RenderSummary(w io.Writer, results []AccountResult) {
	fmt.Fprintln(w, strings.Repeat("━", 100))
	fmt.Fprintf(w, "%-35s %-35s %-10s %s\n", "USER", "LIBRARY", "LOANS", "FINES")
	fmt.Fprintln(w, strings.Repeat("━", 100))

	for _, result := range results {
		if result.Failed() {
			fmt.Fprintf(w, "%-35s %-35s %-10s error: %v\n",
				result.Account.Username,
				truncate(result.Account.DisplayName(), 33),
				"-",
				result.Err)
			continue
		}

		user := fmt.Sprintf("%s (%s)", result.Summary.DisplayName, result.Account.Username)
		fmt.Fprintf(w, "%-35s %-35s %-10d %s\n",
			truncate(user, 33),
			truncate(result.Account.DisplayName(), 33),
			result.Summary.LoanCount,
			result.Summary.FinesDisplay())
	}
	fmt.Fprintln(w, strings.Repeat("━", 100))
}

// RenderGroups writes one table per location group
func RenderGroups(w io.Writer, groups []LocationGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No active loans found.")
		return
	}

	for _, group := range groups {
		fmt.Fprintf(w, "\n%s\n", group.Key)
		fmt.Fprintln(w, strings.Repeat("─", 110))
		fmt.Fprintf(w, "%-12s %-25s %-40s %-20s %s\n", "RETURN", "AUTHOR", "TITLE", "BORROWED BY", "STATUS")
		fmt.Fprintln(w, strings.Repeat("─", 110))

		for _, item := range group.Items {
			fmt.Fprintf(w, "%-12s %-25s %-40s %-20s %s\n",
				item.Loan.DueDate,
				truncate(item.Loan.Author, 23),
				truncate(item.Loan.Title, 38),
				truncate(item.Owner, 18),
				item.Loan.Status)
			if item.Detail != nil && item.Detail.OriginalTitle != "" {
				fmt.Fprintf(w, "%-12s %-25s %s\n", "", "", "orig: "+truncate(item.Detail.OriginalTitle, 60))
			}
		}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
