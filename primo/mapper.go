package primo

import (
	"fmt"
	"strconv"
	"strings"
)

// rawLoan mirrors one loan record as returned by the loans endpoint
type rawLoan struct {
	ID          string `json:"loanid"`
	MMSID       string `json:"mmsid"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	DueDate     string `json:"duedate"`
	DueHour     string `json:"duehour"`
	LoanDate    string `json:"loandate"`
	Status      string `json:"loanstatus"`
	Library     string `json:"ilsinstitutionname"`
	Location    string `json:"mainlocationname"`
	SubLocation string `json:"secondarylocationname"`
	Barcode     string `json:"itembarcode"`
	Renew       string `json:"renew"`
}

// mapLoan validates a raw loan record and converts it to a Loan. The renew
// flag is normalized to a bool here, not later.
func mapLoan(raw rawLoan) (Loan, error) {
	required := []struct {
		alias string
		value string
	}{
		{"loanid", raw.ID},
		{"mmsid", raw.MMSID},
		{"title", raw.Title},
		{"duedate", raw.DueDate},
		{"duehour", raw.DueHour},
		{"loandate", raw.LoanDate},
		{"loanstatus", raw.Status},
		{"ilsinstitutionname", raw.Library},
		{"mainlocationname", raw.Location},
		{"itembarcode", raw.Barcode},
	}
	for _, field := range required {
		if field.value == "" {
			return Loan{}, &MalformedResponseError{
				Field:  field.alias,
				Reason: "required field missing",
			}
		}
	}

	return Loan{
		ID:              raw.ID,
		MMSID:           raw.MMSID,
		Title:           raw.Title,
		Author:          raw.Author,
		DueDate:         raw.DueDate,
		DueHour:         raw.DueHour,
		LoanDate:        raw.LoanDate,
		Status:          raw.Status,
		LibraryName:     raw.Library,
		LocationName:    raw.Location,
		SubLocationName: raw.SubLocation,
		Barcode:         raw.Barcode,
		Renewable:       raw.Renew == "Y",
	}, nil
}

// pnxRecord mirrors the nested display/addata structure of a public
// bibliographic record
type pnxRecord struct {
	PNX struct {
		Display struct {
			Publisher    []string `json:"publisher"`
			CreationDate []string `json:"creationdate"`
			Subject      []string `json:"subject"`
			Genre        []string `json:"genre"`
			Format       []string `json:"format"`
			AddTitle     []string `json:"addtitle"`
		} `json:"display"`
		Addata struct {
			ISBN []string `json:"isbn"`
		} `json:"addata"`
	} `json:"pnx"`
}

// originalTitlePrefix marks the alternate-title entry carrying the work's
// original (untranslated) title.
const originalTitlePrefix = "Tytuł oryginału:"

// mapBookDetail extracts the bibliographic fields from a PNX record.
// Multi-valued display fields defensively take the first entry.
func mapBookDetail(mmsid string, record pnxRecord) BookDetail {
	display := record.PNX.Display

	var originalTitle string
	for _, title := range display.AddTitle {
		if strings.HasPrefix(title, originalTitlePrefix) {
			originalTitle = strings.TrimSpace(strings.TrimPrefix(title, originalTitlePrefix))
			break
		}
	}

	return BookDetail{
		MMSID:               mmsid,
		ISBNs:               record.PNX.Addata.ISBN,
		Publisher:           first(display.Publisher),
		PublicationDate:     first(display.CreationDate),
		Subjects:            display.Subject,
		Genres:              display.Genre,
		PhysicalDescription: first(display.Format),
		OriginalTitle:       originalTitle,
	}
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// counterInt coerces a counter value that may arrive as a JSON number or a
// numeric string
func counterInt(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return int(n), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	default:
		return 0, fmt.Errorf("unexpected counter value type %T", v)
	}
}

// counterAmount coerces a monetary counter value to a float
func counterAmount(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("unexpected counter value type %T", v)
	}
}
