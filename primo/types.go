package primo

import "fmt"

// UserSummary holds the account-level numbers shown in the summary table.
// It is derived from the bearer token claims plus the counters endpoint.
type UserSummary struct {
	DisplayName   string
	UserName      string
	LoanCount     int
	RequestCount  int
	FinesAmount   float64
	FinesCurrency string
}

// FinesDisplay formats the fines amount with its currency
func (u UserSummary) FinesDisplay() string {
	return fmt.Sprintf("%.2f %s", u.FinesAmount, u.FinesCurrency)
}

// Loan is an immutable snapshot of one active borrowed item
type Loan struct {
	ID              string
	MMSID           string
	Title           string
	Author          string
	DueDate         string
	DueHour         string
	LoanDate        string
	Status          string
	LibraryName     string
	LocationName    string
	SubLocationName string
	Barcode         string
	Renewable       bool
}

// LocationKey builds the composite grouping key for a loan. It always
// includes the library name so same-named branches of different libraries
// are never merged.
func (l Loan) LocationKey() string {
	key := fmt.Sprintf("%s - %s", l.LibraryName, l.LocationName)
	if l.SubLocationName != "" {
		key += fmt.Sprintf(" (%s)", l.SubLocationName)
	}
	return key
}

// BookDetail is the optional bibliographic enrichment for a loan, keyed by
// the loan's MMS ID. All fields except MMSID may be empty.
type BookDetail struct {
	MMSID               string
	CoverURL            string
	ISBNs               []string
	Publisher           string
	PublicationDate     string
	Subjects            []string
	Genres              []string
	PhysicalDescription string
	OriginalTitle       string
}
