// Package primo provides a client for the Primo/Alma library catalog
// ("OPAC") REST API used by OMNIS-affiliated Polish libraries.
//
// The client performs a fixed call sequence: session bootstrap, credential
// login, account counters, active loans, and public bibliographic record
// lookups, plus a best-effort cover-image probe against OpenLibrary.
//
// Create a client per account/session:
//
//	logger := zerolog.New(os.Stderr)
//	client, err := primo.NewClient("https://omnis-br.primo.exlibrisgroup.com", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	ctx := context.Background()
//	if _, err := client.Login(ctx, "cardnumber", "password", "48OMNIS_BRP", "48OMNIS_BRP:BRACZ"); err != nil {
//		log.Fatal(err)
//	}
//	loans, err := client.FetchLoans(ctx)
//
// Authenticated calls made before Login fail with ErrNotAuthenticated; this
// is a programming-contract violation, not a remote failure. Each remote
// call is independently fallible and classified through the package error
// types (see errors.go).
package primo
